package schema

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

type moduleDoc struct {
	Module    string    `yaml:"module"`
	Namespace string    `yaml:"namespace"`
	Prefix    string    `yaml:"prefix"`
	Nodes     []nodeDoc `yaml:"nodes"`
}

type nodeDoc struct {
	Name           string    `yaml:"name"`
	Kind           string    `yaml:"kind"`
	Type           string    `yaml:"type"`
	Enums          []string  `yaml:"enums"`
	FractionDigits int       `yaml:"fraction-digits"`
	OrderedBy      string    `yaml:"ordered-by"`
	Keys           []string  `yaml:"keys"`
	Mandatory      bool      `yaml:"mandatory"`
	MinElements    int       `yaml:"min-elements"`
	MaxElements    int       `yaml:"max-elements"`
	Must           []string  `yaml:"must"`
	Children       []nodeDoc `yaml:"children"`
}

// LoadModule compiles a YAML module document and registers the result
// with the context.
func LoadModule(ctx *Context, doc []byte) (*Module, error) {
	md := &moduleDoc{}
	if err := yaml.Unmarshal(doc, md); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if md.Module == "" {
		return nil, fmt.Errorf("%w: module document has no module name", ErrSchema)
	}
	m := &Module{
		Name:      md.Module,
		Namespace: md.Namespace,
		Prefix:    md.Prefix,
	}
	if m.Prefix == "" {
		m.Prefix = m.Name
	}
	for i := range md.Nodes {
		n, err := compileNode(m, nil, &md.Nodes[i])
		if err != nil {
			return nil, err
		}
		m.Nodes = append(m.Nodes, n)
	}
	if err := ctx.AddModule(m); err != nil {
		return nil, err
	}
	return m, nil
}

func compileNode(m *Module, parent *Node, nd *nodeDoc) (*Node, error) {
	if nd.Name == "" {
		return nil, fmt.Errorf("%w: unnamed node in module %q", ErrSchema, m.Name)
	}
	n := &Node{
		Module:      m,
		Parent:      parent,
		Name:        nd.Name,
		Must:        nd.Must,
		MinElements: nd.MinElements,
		MaxElements: nd.MaxElements,
	}
	switch nd.Kind {
	case "container", "":
		n.Kind = Container
	case "leaf":
		n.Kind = Leaf
	case "leaf-list":
		n.Kind = LeafList
	case "list":
		n.Kind = List
	default:
		return nil, fmt.Errorf("%w: node %q has unknown kind %q", ErrSchema, nd.Name, nd.Kind)
	}
	if nd.Mandatory {
		n.Flags |= Mandatory
	}

	if err := compileOrder(n, nd); err != nil {
		return nil, err
	}
	if err := compileType(n, nd); err != nil {
		return nil, err
	}
	for i := range nd.Children {
		c, err := compileNode(m, n, &nd.Children[i])
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	if err := compileKeys(n, nd); err != nil {
		return nil, err
	}
	return n, nil
}

func compileOrder(n *Node, nd *nodeDoc) error {
	if n.Kind != List && n.Kind != LeafList {
		if nd.OrderedBy != "" {
			return fmt.Errorf("%w: ordered-by on %s %q", ErrSchema, n.Kind, n.Name)
		}
		return nil
	}
	switch nd.OrderedBy {
	case "", "system":
		n.Flags |= OrderedBySystem
	case "user":
		n.Flags |= OrderedByUser
	default:
		return fmt.Errorf("%w: node %q has unknown ordered-by %q", ErrSchema, n.Name, nd.OrderedBy)
	}
	return nil
}

func compileType(n *Node, nd *nodeDoc) error {
	if n.Kind != Leaf && n.Kind != LeafList {
		if nd.Type != "" {
			return fmt.Errorf("%w: type on %s %q", ErrSchema, n.Kind, n.Name)
		}
		return nil
	}
	switch nd.Type {
	case "":
		return fmt.Errorf("%w: %s %q has no type", ErrSchema, n.Kind, n.Name)
	case "enumeration":
		if len(nd.Enums) == 0 {
			return fmt.Errorf("%w: enumeration %q has no enums", ErrSchema, n.Name)
		}
		n.Type = EnumerationType{Enums: nd.Enums}
	case "decimal64":
		fd := nd.FractionDigits
		if fd == 0 {
			fd = 2
		}
		n.Type = DecimalType{FractionDigits: fd}
	default:
		n.Type = BuiltinType(nd.Type)
		if n.Type == nil {
			return fmt.Errorf("%w: node %q has unknown type %q", ErrSchema, n.Name, nd.Type)
		}
	}
	return nil
}

// compileKeys resolves declared key names and reorders children so the
// keys come first, in declaration order.
func compileKeys(n *Node, nd *nodeDoc) error {
	if n.Kind != List {
		if len(nd.Keys) != 0 {
			return fmt.Errorf("%w: keys on %s %q", ErrSchema, n.Kind, n.Name)
		}
		return nil
	}
	if len(nd.Keys) == 0 {
		n.Flags |= Keyless
		return nil
	}
	for _, name := range nd.Keys {
		k := n.Child(name)
		if k == nil {
			return fmt.Errorf("%w: list %q key %q not found", ErrSchema, n.Name, name)
		}
		if k.Kind != Leaf {
			return fmt.Errorf("%w: list %q key %q is a %s", ErrSchema, n.Name, name, k.Kind)
		}
		k.Flags |= Key | Mandatory
		n.Keys = append(n.Keys, k)
	}
	rest := make([]*Node, 0, len(n.Children)-len(n.Keys))
	for _, c := range n.Children {
		if c.Flags&Key == 0 {
			rest = append(rest, c)
		}
	}
	n.Children = append(append([]*Node{}, n.Keys...), rest...)
	return nil
}
