// Package parse builds schema-typed data trees from JSON and YAML
// instance documents.
package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/netvine/yangdoc/data"
	"github.com/netvine/yangdoc/schema"
)

var ErrParse = errors.New("parse error")

// field is one ordered member of a parsed object.
type field struct {
	name string
	val  any
}

// object preserves member order; instance documents are order-sensitive
// for user-ordered runs.
type object []field

// build constructs the top-level sibling sequence for a parsed document.
func build(ctx *schema.Context, doc object) (*data.Node, error) {
	var first *data.Node
	for _, f := range doc {
		if strings.HasPrefix(f.name, "@") {
			sn, err := topNode(ctx, f.name[1:])
			if err != nil {
				return nil, err
			}
			target := siblingOf(first, sn)
			if target == nil {
				return nil, fmt.Errorf("%w: metadata %q has no target", ErrParse, f.name)
			}
			if err := attachMetaMember(target, f.val); err != nil {
				return nil, err
			}
			continue
		}
		sn, err := topNode(ctx, f.name)
		if err != nil {
			return nil, err
		}
		nodes, err := buildInstances(sn, f.val)
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			if first, err = data.InsertSibling(first, n); err != nil {
				return nil, err
			}
		}
	}
	return first, nil
}

// topNode resolves a top-level member name, optionally module-qualified
// as "module:name".
func topNode(ctx *schema.Context, name string) (*schema.Node, error) {
	if mod, rest, ok := strings.Cut(name, ":"); ok {
		m := ctx.Module(mod)
		if m == nil {
			return nil, fmt.Errorf("%w: unknown module %q", ErrParse, mod)
		}
		if sn := m.Node(rest); sn != nil {
			return sn, nil
		}
		return nil, fmt.Errorf("%w: no node %q in module %q", ErrParse, rest, mod)
	}
	for _, m := range ctx.Modules() {
		if sn := m.Node(name); sn != nil {
			return sn, nil
		}
	}
	return nil, fmt.Errorf("%w: no module defines %q", ErrParse, name)
}

// buildInstances creates the (possibly multiple) unattached instances a
// document member describes.
func buildInstances(sn *schema.Node, v any) ([]*data.Node, error) {
	switch sn.Kind {
	case schema.Leaf:
		lex, err := lexicalOf(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sn.Path(), err)
		}
		n, err := data.NewTerm(sn, lex)
		if err != nil {
			return nil, err
		}
		return []*data.Node{n}, nil

	case schema.LeafList:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects an array", ErrParse, sn.Path())
		}
		res := make([]*data.Node, 0, len(items))
		for _, item := range items {
			lex, err := lexicalOf(item)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", sn.Path(), err)
			}
			n, err := data.NewTerm(sn, lex)
			if err != nil {
				return nil, err
			}
			res = append(res, n)
		}
		return res, nil

	case schema.List:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects an array of objects", ErrParse, sn.Path())
		}
		res := make([]*data.Node, 0, len(items))
		for _, item := range items {
			obj, ok := item.(object)
			if !ok {
				return nil, fmt.Errorf("%w: %s entry is not an object", ErrParse, sn.Path())
			}
			n, err := buildInner(sn, obj)
			if err != nil {
				return nil, err
			}
			res = append(res, n)
		}
		return res, nil

	case schema.Container:
		obj, ok := v.(object)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects an object", ErrParse, sn.Path())
		}
		n, err := buildInner(sn, obj)
		if err != nil {
			return nil, err
		}
		return []*data.Node{n}, nil
	}
	return nil, fmt.Errorf("%w: %s has unsupported kind", ErrParse, sn.Path())
}

// buildInner builds a container or list instance.  The instance is fully
// populated before the caller links it anywhere, so list keys are in
// place by the time sorted insertion compares them.
func buildInner(sn *schema.Node, obj object) (*data.Node, error) {
	inst, err := data.NewInner(sn)
	if err != nil {
		return nil, err
	}
	for _, f := range obj {
		if strings.HasPrefix(f.name, "@") {
			target := inst.ChildByName(f.name[1:])
			if target == nil {
				return nil, fmt.Errorf("%w: metadata %q has no target in %s", ErrParse, f.name, sn.Path())
			}
			if err := attachMetaMember(target, f.val); err != nil {
				return nil, err
			}
			continue
		}
		csn := sn.Child(f.name)
		if csn == nil {
			return nil, fmt.Errorf("%w: %s has no child %q", ErrParse, sn.Path(), f.name)
		}
		children, err := buildInstances(csn, f.val)
		if err != nil {
			return nil, err
		}
		for _, c := range children {
			if err := inst.InsertChild(c); err != nil {
				return nil, err
			}
		}
	}
	if sn.Kind == schema.List && sn.Flags&schema.Keyless == 0 {
		for _, k := range sn.Keys {
			if inst.ChildByName(k.Name) == nil {
				return nil, fmt.Errorf("%w: %s entry is missing key %q", ErrParse, sn.Path(), k.Name)
			}
		}
	}
	return inst, nil
}

// siblingOf finds the first sibling instance of a schema node.
func siblingOf(first *data.Node, sn *schema.Node) *data.Node {
	for n := first; n != nil; n = n.Next {
		if n.Schema == sn {
			return n
		}
	}
	return nil
}

// attachMetaMember attaches the members of an "@name" object to the
// target node.  Member names are module-qualified.
func attachMetaMember(target *data.Node, v any) error {
	obj, ok := v.(object)
	if !ok {
		return fmt.Errorf("%w: metadata for %s is not an object", ErrParse, target.Schema.Path())
	}
	for _, f := range obj {
		mod, name, ok := strings.Cut(f.name, ":")
		if !ok {
			return fmt.Errorf("%w: metadata name %q is not module-qualified", ErrParse, f.name)
		}
		lex, err := lexicalOf(f.val)
		if err != nil {
			return err
		}
		target.AttachMeta(mod, name, lex)
	}
	return nil
}

// lexicalOf converts a decoded scalar to its lexical form for the type
// parser.
func lexicalOf(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case jsonNumber:
		return x.String(), nil
	case nil:
		return "", fmt.Errorf("%w: null is not a value", ErrParse)
	}
	return "", fmt.Errorf("%w: %T is not a scalar", ErrParse, v)
}
