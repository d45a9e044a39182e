package data

import (
	"fmt"

	"github.com/netvine/yangdoc/schema"
)

// Node is one data-instance node.  Siblings form a doubly-linked sequence
// under their parent; Child points at the first child of an inner node.
//
// The linkage fields are exported for traversal only.  Mutation goes
// through InsertChild, InsertSibling and Unlink so that any
// sorted-sibling index stays consistent with the linked view.
type Node struct {
	Schema *schema.Node

	Parent *Node
	Prev   *Node
	Next   *Node
	Child  *Node

	// Value is set on Leaf and LeafList instances.
	Value schema.Value

	// Meta heads the node's metadata list.
	Meta *Meta
}

// Meta is one piece of node metadata, keyed by (module, name).  The
// reserved sorted-index anchor is stored here as well; its tree is
// runtime bookkeeping only and is invisible to Value.
type Meta struct {
	Parent *Node
	Next   *Meta

	Module string
	Name   string
	Value  string

	// tree roots the sorted-sibling index when this metadata is the
	// reserved anchor record.
	tree *rbNode
}

// NewInner creates an unattached Container or List instance.
func NewInner(sn *schema.Node) (*Node, error) {
	if sn == nil || (sn.Kind != schema.Container && sn.Kind != schema.List) {
		return nil, fmt.Errorf("%w: inner node needs a container or list schema", ErrArg)
	}
	return &Node{Schema: sn}, nil
}

// NewTerm creates an unattached Leaf or LeafList instance from a lexical
// value.
func NewTerm(sn *schema.Node, lexical string) (*Node, error) {
	if sn == nil || (sn.Kind != schema.Leaf && sn.Kind != schema.LeafList) {
		return nil, fmt.Errorf("%w: term node needs a leaf or leaf-list schema", ErrArg)
	}
	v, err := sn.Type.Parse(lexical)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", sn.Path(), err)
	}
	return &Node{Schema: sn, Value: v}, nil
}

// Context returns the schema context the node is typed against.
func (n *Node) Context() *schema.Context {
	if n.Schema == nil || n.Schema.Module == nil {
		return nil
	}
	return n.Schema.Module.Ctx
}

// ChildByName returns the first child instance of the named schema child.
func (n *Node) ChildByName(name string) *Node {
	for c := n.Child; c != nil; c = c.Next {
		if c.Schema != nil && c.Schema.Name == name {
			return c
		}
	}
	return nil
}

// alone reports whether no adjacent sibling shares the node's schema,
// i.e. the node is the only member of its run.
func (n *Node) alone() bool {
	if n.Prev != nil && n.Prev.Schema == n.Schema {
		return false
	}
	if n.Next != nil && n.Next.Schema == n.Schema {
		return false
	}
	return true
}

// insertAfter splices node into the sibling sequence immediately after
// anchor.  The node must be standalone.
func insertAfter(anchor, node *Node) {
	node.Parent = anchor.Parent
	node.Prev = anchor
	node.Next = anchor.Next
	if anchor.Next != nil {
		anchor.Next.Prev = node
	}
	anchor.Next = node
}

// insertBefore splices node into the sibling sequence immediately before
// anchor, updating the parent's first-child pointer when anchor headed it.
func insertBefore(anchor, node *Node) {
	node.Parent = anchor.Parent
	node.Next = anchor
	node.Prev = anchor.Prev
	if anchor.Prev != nil {
		anchor.Prev.Next = node
	}
	anchor.Prev = node
	if node.Parent != nil && node.Parent.Child == anchor {
		node.Parent.Child = node
	}
}

// unlink detaches the node from its sibling sequence and parent.  It does
// not touch any sorted index; Unlink is the public entry point.
func (n *Node) unlink() {
	if n.Parent != nil && n.Parent.Child == n {
		n.Parent.Child = n.Next
	}
	if n.Prev != nil {
		n.Prev.Next = n.Next
	}
	if n.Next != nil {
		n.Next.Prev = n.Prev
	}
	n.Parent = nil
	n.Prev = nil
	n.Next = nil
}

// FindMeta returns the metadata with the given module and name, or nil.
func (n *Node) FindMeta(module, name string) *Meta {
	for m := n.Meta; m != nil; m = m.Next {
		if m.Module == module && m.Name == name {
			return m
		}
	}
	return nil
}

// AttachMeta creates and attaches metadata to the node.
func (n *Node) AttachMeta(module, name, value string) *Meta {
	m := &Meta{Parent: n, Module: module, Name: name, Value: value}
	m.Next = n.Meta
	n.Meta = m
	return m
}

// detach removes the metadata from its node without releasing it.
func (m *Meta) detach() {
	n := m.Parent
	if n == nil {
		return
	}
	if n.Meta == m {
		n.Meta = m.Next
	} else {
		for it := n.Meta; it != nil; it = it.Next {
			if it.Next == m {
				it.Next = m.Next
				break
			}
		}
	}
	m.Parent = nil
	m.Next = nil
}

// attach adds existing metadata to a node, preserving its value and any
// index tree it roots.
func (m *Meta) attach(n *Node) {
	m.Parent = n
	m.Next = n.Meta
	n.Meta = m
}

// Free detaches the metadata and releases what it owns.  Anchor records
// tear down the whole index tree they root.
func (m *Meta) Free() {
	m.detach()
	if m.tree != nil {
		freeTree(m.tree)
		m.tree = nil
	}
}

// FreeTree unlinks the node and releases its whole subtree, including all
// metadata and any sorted indexes anchored within it.
func (n *Node) FreeTree() {
	n.Unlink()
	n.freeSubtree()
}

func (n *Node) freeSubtree() {
	for c := n.Child; c != nil; {
		next := c.Next
		c.freeSubtree()
		c = next
	}
	n.Child = nil
	for m := n.Meta; m != nil; {
		next := m.Next
		m.Free()
		m = next
	}
	n.Meta = nil
	n.Parent = nil
	n.Prev = nil
	n.Next = nil
}
