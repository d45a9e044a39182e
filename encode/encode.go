// Package encode serializes data trees to JSON and YAML instance
// documents.  The sorted-tree bookkeeping attribute never appears in
// the output; it is an in-memory index, not instance data.
package encode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/netvine/yangdoc/data"
	"github.com/netvine/yangdoc/debug"
	"github.com/netvine/yangdoc/schema"
)

var ErrEncode = errors.New("encode error")

type docField struct {
	name string
	val  any
}

// docObject is an order-preserving object for the generic document form
// shared by the JSON and YAML back-ends.
type docObject []docField

func (o docObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(f.val)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSON writes the sibling sequence starting at first as a JSON
// document.
func JSON(w io.Writer, first *data.Node) error {
	doc, err := Document(first)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// YAML writes the sibling sequence starting at first as a YAML
// document.
func YAML(w io.Writer, first *data.Node) error {
	doc, err := Document(first)
	if err != nil {
		return err
	}
	b, err := yaml.Marshal(toMapSlice(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	_, err = w.Write(b)
	return err
}

func toMapSlice(v any) any {
	switch x := v.(type) {
	case docObject:
		ms := make(yaml.MapSlice, 0, len(x))
		for _, f := range x {
			ms = append(ms, yaml.MapItem{Key: f.name, Value: toMapSlice(f.val)})
		}
		return ms
	case []any:
		arr := make([]any, 0, len(x))
		for _, item := range x {
			arr = append(arr, toMapSlice(item))
		}
		return arr
	default:
		return v
	}
}

// Document converts the sibling sequence starting at first into the
// generic ordered form.
func Document(first *data.Node) (docObject, error) {
	if first == nil {
		return docObject{}, nil
	}
	if debug.Encode() {
		debug.Logf("encode: document rooted at %s\n", first.Schema.Path())
	}
	return members(first, nil)
}

// members encodes a sibling sequence.  Consecutive instances of the
// same list or leaf-list schema collapse into one array member.
func members(first *data.Node, parentMod *schema.Module) (docObject, error) {
	var obj docObject
	for n := first; n != nil; {
		name := MemberName(n.Schema, parentMod)
		switch n.Schema.Kind {
		case schema.Leaf:
			obj = append(obj, docField{name: name, val: scalarOf(n)})
			if mf := metaField(n, name); mf != nil {
				obj = append(obj, *mf)
			}
			n = n.Next
		case schema.LeafList:
			sn := n.Schema
			arr := []any{}
			for n != nil && n.Schema == sn {
				arr = append(arr, scalarOf(n))
				n = n.Next
			}
			obj = append(obj, docField{name: name, val: arr})
		case schema.List:
			arr := []any{}
			sn := n.Schema
			for n != nil && n.Schema == sn {
				inner, err := members(n.Child, sn.Module)
				if err != nil {
					return nil, err
				}
				arr = append(arr, inner)
				n = n.Next
			}
			obj = append(obj, docField{name: name, val: arr})
		case schema.Container:
			inner, err := members(n.Child, n.Schema.Module)
			if err != nil {
				return nil, err
			}
			obj = append(obj, docField{name: name, val: inner})
			if mf := metaField(n, name); mf != nil {
				obj = append(obj, *mf)
			}
			n = n.Next
		default:
			return nil, fmt.Errorf("%w: %s has unsupported kind", ErrEncode, n.Schema.Path())
		}
	}
	return obj, nil
}

// Scalar returns the document scalar for a term node.
func Scalar(n *data.Node) any { return scalarOf(n) }

// Instance returns the generic document form of an inner node.
func Instance(n *data.Node) (any, error) {
	return members(n.Child, n.Schema.Module)
}

// MemberName qualifies a member with its module when the parent lives
// in a different module, and always at top level.
func MemberName(sn *schema.Node, parentMod *schema.Module) string {
	if parentMod == nil || sn.Module != parentMod {
		return sn.Module.Name + ":" + sn.Name
	}
	return sn.Name
}

// metaField encodes a node's attached metadata as an "@name" member.
// The sorted-tree anchor is skipped unconditionally.
func metaField(n *data.Node, name string) *docField {
	var attrs docObject
	for m := n.Meta; m != nil; m = m.Next {
		if m.IsAnchor() {
			continue
		}
		attrs = append(attrs, docField{name: m.Module + ":" + m.Name, val: m.Value})
	}
	if attrs == nil {
		return nil
	}
	return &docField{name: "@" + name, val: attrs}
}

// scalarOf maps a term value onto its document scalar.  64-bit integer
// and decimal types travel as strings, matching RFC 7951.
func scalarOf(n *data.Node) any {
	if n.Value.Type == nil {
		return n.Value.Canon
	}
	name := n.Value.Type.Name()
	switch {
	case name == "boolean":
		return n.Value.Bool
	case name == "decimal64", name == "int64", name == "uint64":
		return n.Value.Canon
	case strings.HasPrefix(name, "uint"):
		return n.Value.Uint
	case strings.HasPrefix(name, "int"):
		return n.Value.Int
	default:
		return n.Value.Canon
	}
}
