package valid

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/netvine/yangdoc/data"
	"github.com/netvine/yangdoc/schema"
)

type mustProgram struct {
	src string
	prg *vm.Program
}

// must evaluates the node's must expressions.  Programs compile once
// per schema node; the helper functions resolve against the instance
// currently being validated.
func (v *Validator) must(n *data.Node) {
	if len(n.Schema.Must) == 0 {
		return
	}
	prgs, ok := v.musts[n.Schema]
	if !ok {
		for _, src := range n.Schema.Must {
			prg, err := expr.Compile(src, v.exprOpts()...)
			if err != nil {
				v.errs = append(v.errs, fmt.Errorf("%w: must %q on %s: %v", ErrValid, src, n.Schema.Path(), err))
				continue
			}
			prgs = append(prgs, mustProgram{src: src, prg: prg})
		}
		v.musts[n.Schema] = prgs
	}
	for _, mp := range prgs {
		v.cur = n
		res, err := expr.Run(mp.prg, envOf(n))
		v.cur = nil
		if err != nil {
			v.errs = append(v.errs, fmt.Errorf("%w: must %q on %s: %v", ErrValid, mp.src, instancePath(n), err))
			continue
		}
		ok, isBool := res.(bool)
		if !isBool {
			v.errs = append(v.errs, fmt.Errorf("%w: must %q on %s returned %T, want bool", ErrValid, mp.src, instancePath(n), res))
			continue
		}
		if !ok {
			v.errs = append(v.errs, fmt.Errorf("%w: must %q failed on %s", ErrValid, mp.src, instancePath(n)))
		}
	}
}

func (v *Validator) exprOpts() []expr.Option {
	return []expr.Option{
		expr.AllowUndefinedVariables(),
		expr.Function("exists", func(params ...any) (any, error) {
			return v.cur.ChildByName(params[0].(string)) != nil, nil
		},
			new(func(string) bool)),
		expr.Function("count", func(params ...any) (any, error) {
			name := params[0].(string)
			count := 0
			for c := v.cur.Child; c != nil; c = c.Next {
				if c.Schema.Name == name {
					count++
				}
			}
			return count, nil
		},
			new(func(string) int)),
		expr.Function("whereami", func(params ...any) (any, error) {
			return instancePath(v.cur), nil
		},
			new(func() string)),
	}
}

// envOf builds the expression environment: child leaf values by name,
// plus "value" for term nodes.
func envOf(n *data.Node) map[string]any {
	env := map[string]any{}
	switch n.Schema.Kind {
	case schema.Leaf, schema.LeafList:
		env["value"] = goValue(n.Value)
	default:
		for c := n.Child; c != nil; c = c.Next {
			if c.Schema.Kind != schema.Leaf {
				continue
			}
			if _, ok := env[c.Schema.Name]; !ok {
				env[c.Schema.Name] = goValue(c.Value)
			}
		}
	}
	return env
}

func goValue(v schema.Value) any {
	if v.Type == nil {
		return v.Canon
	}
	switch name := v.Type.Name(); {
	case name == "boolean":
		return v.Bool
	case name == "decimal64":
		return v.Dec
	case strings.HasPrefix(name, "uint"):
		return v.Uint
	case strings.HasPrefix(name, "int"):
		return v.Int
	}
	return v.Canon
}
