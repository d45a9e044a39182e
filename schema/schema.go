package schema

// Kind classifies a schema node.
type Kind int

const (
	Container Kind = iota
	Leaf
	LeafList
	List
)

func (k Kind) String() string {
	switch k {
	case Container:
		return "container"
	case Leaf:
		return "leaf"
	case LeafList:
		return "leaf-list"
	case List:
		return "list"
	}
	return "unknown"
}

// Flag is a set of schema node properties.
type Flag uint16

const (
	// OrderedBySystem marks a list or leaf-list whose instance order is
	// canonical.  Such runs may carry a sorted index.
	OrderedBySystem Flag = 1 << iota

	// OrderedByUser marks a list or leaf-list whose instance order is
	// controlled by the caller.  Never indexed.
	OrderedByUser

	// Key marks a leaf that is a declared key of its parent list.
	Key

	// Keyless marks a list with no declared keys.
	Keyless

	// Mandatory marks a node that must be present under its parent.
	Mandatory
)

// Node is one compiled schema node.
type Node struct {
	Module *Module
	Parent *Node

	Name  string
	Kind  Kind
	Flags Flag

	// Type is the value type for Leaf and LeafList nodes.
	Type Type

	// Children holds child schema nodes for Container and List nodes.
	Children []*Node

	// Keys holds the declared keys of a List in declaration order.  The
	// same nodes appear first in Children, in the same order.
	Keys []*Node

	// Must holds constraint expressions checked by the valid package.
	Must []string

	MinElements int
	MaxElements int // 0 means unbounded
}

// Child returns the child schema node with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Path returns the slash-separated schema path from the module root.
func (n *Node) Path() string {
	if n.Parent == nil {
		return "/" + n.Name
	}
	return n.Parent.Path() + "/" + n.Name
}
