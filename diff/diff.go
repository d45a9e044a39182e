// Package diff computes RFC 6902 patches between two data trees.
// Keyed-list entries are matched by key, so a reordered entry with
// unchanged content produces no operations.
package diff

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/netvine/yangdoc/data"
	"github.com/netvine/yangdoc/debug"
	"github.com/netvine/yangdoc/encode"
	"github.com/netvine/yangdoc/schema"
)

var ErrDiff = errors.New("diff error")

// Op is one RFC 6902 patch operation.
type Op struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// Trees diffs two top-level sibling sequences and returns the patch
// that transforms the first into the second.
func Trees(from, to *data.Node) ([]Op, error) {
	var d differ
	if err := d.siblings("", from, to, nil); err != nil {
		return nil, err
	}
	if debug.Diff() {
		debug.Logf("diff: %d ops\n", len(d.ops))
	}
	return d.ops, nil
}

type differ struct {
	ops []Op
}

// run is a maximal sequence of sibling instances sharing a schema node.
type run struct {
	sn    *schema.Node
	name  string
	nodes []*data.Node
}

func runsOf(first *data.Node, parentMod *schema.Module) []run {
	var runs []run
	for n := first; n != nil; {
		r := run{sn: n.Schema, name: encode.MemberName(n.Schema, parentMod)}
		for n != nil && n.Schema == r.sn {
			r.nodes = append(r.nodes, n)
			n = n.Next
		}
		runs = append(runs, r)
	}
	return runs
}

func (d *differ) siblings(path string, from, to *data.Node, parentMod *schema.Module) error {
	fromRuns := runsOf(from, parentMod)
	toRuns := runsOf(to, parentMod)
	toByName := make(map[string]run, len(toRuns))
	for _, r := range toRuns {
		toByName[r.name] = r
	}
	seen := map[string]bool{}
	for _, fr := range fromRuns {
		seen[fr.name] = true
		tr, ok := toByName[fr.name]
		if !ok {
			d.emit("remove", path+"/"+escape(fr.name), nil)
			continue
		}
		if err := d.member(path+"/"+escape(fr.name), fr, tr); err != nil {
			return err
		}
	}
	for _, tr := range toRuns {
		if seen[tr.name] {
			continue
		}
		val, err := memberValue(tr)
		if err != nil {
			return err
		}
		d.emit("add", path+"/"+escape(tr.name), val)
	}
	return nil
}

func (d *differ) member(path string, fr, tr run) error {
	switch fr.sn.Kind {
	case schema.Leaf:
		if fr.nodes[0].Value.Canon != tr.nodes[0].Value.Canon {
			d.emit("replace", path, encode.Scalar(tr.nodes[0]))
		}
		return nil
	case schema.Container:
		return d.siblings(path, fr.nodes[0].Child, tr.nodes[0].Child, fr.sn.Module)
	case schema.LeafList, schema.List:
		return d.sequence(path, fr, tr)
	}
	return fmt.Errorf("%w: %s has unsupported kind", ErrDiff, fr.sn.Path())
}

// sequence aligns two instance runs and emits index operations.  The
// running index tracks the array as the patch rewrites it, so indices
// are valid at the point each operation applies.
func (d *differ) sequence(path string, fr, tr run) error {
	idMap := map[string]rune{}
	fromRunes, err := mapInstancesTo(idMap, fr.nodes)
	if err != nil {
		return err
	}
	toRunes, err := mapInstancesTo(idMap, tr.nodes)
	if err != nil {
		return err
	}
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMainRunes(fromRunes, toRunes, false)
	fi, ti, idx := 0, 0, 0
	for i := range diffs {
		diff := &diffs[i]
		switch diff.Type {
		case diffpatch.DiffDelete:
			for range diff.Text {
				d.emit("remove", path+"/"+strconv.Itoa(idx), nil)
				fi++
			}
		case diffpatch.DiffInsert:
			for range diff.Text {
				val, err := elementValue(tr.nodes[ti])
				if err != nil {
					return err
				}
				d.emit("add", path+"/"+strconv.Itoa(idx), val)
				ti++
				idx++
			}
		case diffpatch.DiffEqual:
			for range diff.Text {
				if fr.sn.Kind == schema.List {
					err := d.siblings(path+"/"+strconv.Itoa(idx),
						fr.nodes[fi].Child, tr.nodes[ti].Child, fr.sn.Module)
					if err != nil {
						return err
					}
				}
				fi++
				ti++
				idx++
			}
		}
	}
	return nil
}

func (d *differ) emit(op, path string, val any) {
	d.ops = append(d.ops, Op{Op: op, Path: path, Value: val})
}

// mapInstancesTo assigns one rune per distinct instance identity so the
// run alignment can work on rune sequences.
func mapInstancesTo(m map[string]rune, nodes []*data.Node) ([]rune, error) {
	rs := make([]rune, len(nodes))
	for i, n := range nodes {
		id, err := identityOf(n)
		if err != nil {
			return nil, err
		}
		r, ok := m[id]
		if !ok {
			r = rune(len(m))
			m[id] = r
		}
		rs[i] = r
	}
	return rs, nil
}

// identityOf returns the alignment identity of a run member: canonical
// value for leaf-lists, the key tuple for keyed lists, and the whole
// encoded entry for keyless lists.
func identityOf(n *data.Node) (string, error) {
	switch n.Schema.Kind {
	case schema.LeafList:
		return n.Value.Canon, nil
	case schema.List:
		if n.Schema.Flags&schema.Keyless == 0 {
			var keys []string
			for _, ksn := range n.Schema.Keys {
				kc := n.ChildByName(ksn.Name)
				if kc == nil {
					return "", fmt.Errorf("%w: %s entry is missing key %q", ErrDiff, n.Schema.Path(), ksn.Name)
				}
				keys = append(keys, kc.Value.Canon)
			}
			return strings.Join(keys, "\x00"), nil
		}
		inst, err := encode.Instance(n)
		if err != nil {
			return "", err
		}
		b, err := json.Marshal(inst)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return "", fmt.Errorf("%w: %s is not a run member", ErrDiff, n.Schema.Path())
}

// memberValue builds the whole-member value for an add of a name absent
// from the source document.
func memberValue(r run) (any, error) {
	switch r.sn.Kind {
	case schema.Leaf:
		return encode.Scalar(r.nodes[0]), nil
	case schema.Container:
		return encode.Instance(r.nodes[0])
	case schema.LeafList, schema.List:
		arr := make([]any, 0, len(r.nodes))
		for _, n := range r.nodes {
			val, err := elementValue(n)
			if err != nil {
				return nil, err
			}
			arr = append(arr, val)
		}
		return arr, nil
	}
	return nil, fmt.Errorf("%w: %s has unsupported kind", ErrDiff, r.sn.Path())
}

func elementValue(n *data.Node) (any, error) {
	if n.Schema.Kind == schema.LeafList {
		return encode.Scalar(n), nil
	}
	return encode.Instance(n)
}

// escape applies JSON pointer token escaping.
func escape(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}
