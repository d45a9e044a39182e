// Package valid checks data trees against their schema constraints:
// mandatory children, min-elements and max-elements on runs, and must
// expressions.
package valid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/netvine/yangdoc/data"
	"github.com/netvine/yangdoc/debug"
	"github.com/netvine/yangdoc/schema"
)

var ErrValid = errors.New("validation error")

// Validator validates data trees.  Compiled must expressions are cached
// across calls.  A Validator is not safe for concurrent use.
type Validator struct {
	musts map[*schema.Node][]mustProgram
	cur   *data.Node
	errs  []error
}

func New() *Validator {
	return &Validator{musts: map[*schema.Node][]mustProgram{}}
}

// Tree validates the top-level sibling sequence of a document.  All
// violations are reported, joined into one error.
func (v *Validator) Tree(ctx *schema.Context, first *data.Node) error {
	v.errs = nil
	for _, m := range ctx.Modules() {
		if m.Name == schema.YangModuleName {
			continue
		}
		for _, sn := range m.Nodes {
			v.checkCardinality(sn, countSiblings(first, sn), "/")
		}
	}
	for n := first; n != nil; n = n.Next {
		v.node(n)
	}
	if debug.Valid() {
		debug.Logf("valid: %d violations\n", len(v.errs))
	}
	return errors.Join(v.errs...)
}

func (v *Validator) node(n *data.Node) {
	v.must(n)
	if n.Schema.Kind != schema.Container && n.Schema.Kind != schema.List {
		return
	}
	for _, csn := range n.Schema.Children {
		v.checkCardinality(csn, countChildren(n, csn), instancePath(n))
	}
	for c := n.Child; c != nil; c = c.Next {
		v.node(c)
	}
}

// checkCardinality enforces mandatory presence and the min-elements and
// max-elements bounds for one schema child at one location.
func (v *Validator) checkCardinality(sn *schema.Node, count int, at string) {
	switch sn.Kind {
	case schema.Leaf, schema.Container:
		if sn.Flags&schema.Mandatory != 0 && count == 0 {
			v.errs = append(v.errs, fmt.Errorf("%w: mandatory %q missing in %s", ErrValid, sn.Name, at))
		}
	case schema.LeafList, schema.List:
		if count < sn.MinElements {
			v.errs = append(v.errs, fmt.Errorf("%w: %q has %d instances in %s, needs at least %d",
				ErrValid, sn.Name, count, at, sn.MinElements))
		}
		if sn.MaxElements > 0 && count > sn.MaxElements {
			v.errs = append(v.errs, fmt.Errorf("%w: %q has %d instances in %s, allows at most %d",
				ErrValid, sn.Name, count, at, sn.MaxElements))
		}
	}
}

func countSiblings(first *data.Node, sn *schema.Node) int {
	count := 0
	for n := first; n != nil; n = n.Next {
		if n.Schema == sn {
			count++
		}
	}
	return count
}

func countChildren(parent *data.Node, sn *schema.Node) int {
	count := 0
	for c := parent.Child; c != nil; c = c.Next {
		if c.Schema == sn {
			count++
		}
	}
	return count
}

// instancePath renders a node's location including list key values.
func instancePath(n *data.Node) string {
	if n == nil {
		return "/"
	}
	var b strings.Builder
	if n.Parent != nil {
		b.WriteString(instancePath(n.Parent))
	}
	b.WriteString("/")
	b.WriteString(n.Schema.Name)
	if n.Schema.Kind == schema.List && len(n.Schema.Keys) > 0 {
		var keys []string
		for _, ksn := range n.Schema.Keys {
			if kc := n.ChildByName(ksn.Name); kc != nil {
				keys = append(keys, kc.Value.Canon)
			}
		}
		b.WriteString("[" + strings.Join(keys, " ") + "]")
	}
	return b.String()
}
