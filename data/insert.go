package data

import (
	"fmt"

	"github.com/netvine/yangdoc/schema"
)

// InsertSibling inserts a standalone node into the top-level sibling
// sequence headed by first and returns the (possibly new) head.  Nodes
// join the run of their schema: system-ordered runs through the sorted
// index, user-ordered runs at the end of the run.
func InsertSibling(first, node *Node) (*Node, error) {
	if node == nil || node.Schema == nil {
		return first, fmt.Errorf("%w: insert of nil or schema-less node", ErrArg)
	}
	if node.Parent != nil || node.Prev != nil || node.Next != nil {
		return first, fmt.Errorf("%w: inserted node must be standalone", ErrArg)
	}
	if first == nil {
		return node, nil
	}

	leader := runLeader(first, node.Schema)
	if leader == nil {
		insertAfter(lastSibling(first), node)
		return first, nil
	}

	if IsIndexable(node) {
		newLeader, err := insertSorted(leader, node)
		if err != nil {
			return first, err
		}
		if leader == first {
			return newLeader, nil
		}
		return first, nil
	}

	// user-ordered or keyless: preserve insertion order within the run
	insertAfter(runLast(leader), node)
	return first, nil
}

// InsertChild inserts a standalone node among the parent's children.
func (parent *Node) InsertChild(node *Node) error {
	if parent == nil || parent.Schema == nil ||
		(parent.Schema.Kind != schema.Container && parent.Schema.Kind != schema.List) {
		return fmt.Errorf("%w: parent must be a container or list instance", ErrArg)
	}
	if node == nil || node.Schema == nil {
		return fmt.Errorf("%w: insert of nil or schema-less node", ErrArg)
	}
	if node.Schema.Parent != parent.Schema {
		return fmt.Errorf("%w: %s is not a child of %s", ErrArg, node.Schema.Path(), parent.Schema.Path())
	}
	if parent.Child == nil {
		if node.Parent != nil || node.Prev != nil || node.Next != nil {
			return fmt.Errorf("%w: inserted node must be standalone", ErrArg)
		}
		node.Parent = parent
		parent.Child = node
		return nil
	}
	first, err := InsertSibling(parent.Child, node)
	if err != nil {
		return err
	}
	parent.Child = first
	return nil
}

// Unlink detaches the node from its parent and siblings, removing it
// from its run's sorted index first so the two views never diverge.
func (n *Node) Unlink() {
	if n == nil || (n.Parent == nil && n.Prev == nil && n.Next == nil) {
		return
	}
	if IsIndexable(n) {
		leader := n
		for leader.Prev != nil && leader.Prev.Schema == n.Schema {
			leader = leader.Prev
		}
		unlinkSorted(leader, n)
	}
	n.unlink()
}

// runLeader returns the first instance of sn among the siblings starting
// at first, or nil.
func runLeader(first *Node, sn *schema.Node) *Node {
	for it := first; it != nil; it = it.Next {
		if it.Schema == sn {
			return it
		}
	}
	return nil
}

// runLast returns the last member of the run headed by leader.
func runLast(leader *Node) *Node {
	last := leader
	for last.Next != nil && last.Next.Schema == leader.Schema {
		last = last.Next
	}
	return last
}

func lastSibling(n *Node) *Node {
	for n.Next != nil {
		n = n.Next
	}
	return n
}
