package encode

import (
	"fmt"
	"io"
	"strings"

	"github.com/netvine/yangdoc/data"
	"github.com/netvine/yangdoc/schema"
)

// Tree renders a sibling sequence as an indented listing, one node per
// line, for interactive viewing.  A nil Colors renders plain text.
func Tree(w io.Writer, first *data.Node, colors *Colors) error {
	if colors == nil {
		colors = &Colors{Default: colorDefault}
	}
	return writeTree(w, first, colors, 0)
}

func writeTree(w io.Writer, first *data.Node, colors *Colors, depth int) error {
	indent := strings.Repeat("  ", depth)
	for n := first; n != nil; n = n.Next {
		k := n.Schema.Kind
		line := indent + colors.Color(k, KindColor, "["+k.String()+"]") +
			" " + colors.Color(k, FieldColor, n.Schema.Name)
		switch k {
		case schema.Leaf, schema.LeafList:
			line += colors.Color(k, SepColor, " = ") +
				colors.Color(k, ValueColor, n.Value.Canon)
		case schema.List:
			if len(n.Schema.Keys) > 0 {
				var keys []string
				for _, ksn := range n.Schema.Keys {
					if kc := n.ChildByName(ksn.Name); kc != nil {
						keys = append(keys, kc.Value.Canon)
					}
				}
				line += colors.Color(k, SepColor, " [") +
					colors.Color(k, ValueColor, strings.Join(keys, " ")) +
					colors.Color(k, SepColor, "]")
			}
		}
		for m := n.Meta; m != nil; m = m.Next {
			if m.IsAnchor() {
				continue
			}
			line += " " + colors.Color(k, MetaColor, "@"+m.Module+":"+m.Name+"="+m.Value)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		if n.Child != nil {
			if err := writeTree(w, n.Child, colors, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
