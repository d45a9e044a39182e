package encode

import (
	"strings"

	"github.com/fatih/color"

	"github.com/netvine/yangdoc/schema"
)

// ColorAttr selects what part of a rendered node a color applies to.
type ColorAttr int

const (
	FieldColor ColorAttr = iota
	ValueColor
	SepColor
	MetaColor
	KindColor
)

// Colorable keys the color map by node kind and attribute.
type Colorable struct {
	Kind schema.Kind
	Attr ColorAttr
}

type Colors struct {
	Default func(string, ...any) string
	Map     map[Colorable]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string, ...any) string{},
	}
	for _, k := range []schema.Kind{schema.Container, schema.Leaf, schema.LeafList, schema.List} {
		able := Colorable{Kind: k, Attr: SepColor}
		colors.Map[able] = color.RGB(196, 128, 128).SprintfFunc()
		able.Attr = MetaColor
		colors.Map[able] = color.RGB(96, 96, 96).SprintfFunc()
		able.Attr = KindColor
		colors.Map[able] = color.RGB(74, 92, 138).SprintfFunc()
	}

	able := Colorable{Attr: FieldColor}
	able.Kind = schema.Container
	colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
	able.Kind = schema.List
	colors.Map[able] = color.RGB(128, 168, 196).SprintfFunc()
	able.Kind = schema.Leaf
	colors.Map[able] = color.RGB(196, 96, 16).SprintfFunc()
	able.Kind = schema.LeafList
	colors.Map[able] = color.RGB(196, 96, 16).SprintfFunc()

	able.Attr = ValueColor
	able.Kind = schema.Leaf
	colors.Map[able] = color.RGB(8, 196, 16).SprintfFunc()
	able.Kind = schema.LeafList
	colors.Map[able] = color.RGB(128, 216, 236).SprintfFunc()

	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(k schema.Kind, a ColorAttr, s string) string {
	return c.Get(k, a)(s)
}

func (c *Colors) Get(k schema.Kind, a ColorAttr) func(string, ...any) string {
	f := c.Map[Colorable{Kind: k, Attr: a}]
	if f == nil {
		return c.Default
	}
	return f
}
