package data

import (
	"fmt"

	"github.com/netvine/yangdoc/debug"
	"github.com/netvine/yangdoc/schema"
)

// The sorted index of a sibling run is anchored in metadata attached to
// the run's leader (its first instance).  The record lives in a reserved
// slot of the yang module; it is runtime bookkeeping only and never
// appears in any encoded form of the tree.
const (
	anchorModule = schema.YangModuleName
	anchorName   = "sorted-tree"
)

// IsAnchor reports whether the metadata is a sorted-index anchor record.
// Serializers use this to keep the index out of encoded output.
func (m *Meta) IsAnchor() bool {
	return m.Module == anchorModule && m.Name == anchorName
}

// IsIndexable reports whether instances of the node's schema may carry a
// sorted index: system-ordered leaf-lists and system-ordered lists with
// at least one declared key.  User-ordered runs have no canonical order
// and keyless lists have no defined one.
func IsIndexable(node *Node) bool {
	sn := node.Schema
	if sn == nil || sn.Flags&schema.OrderedBySystem == 0 {
		return false
	}
	if sn.Kind == schema.LeafList {
		return true
	}
	return sn.Kind == schema.List && sn.Flags&schema.Keyless == 0
}

// CompareSiblings returns the three-way canonical ordering of two sibling
// instances of the same schema.  Lists are compared by their declared
// keys in declaration order; distinct instances may compare equal.
func CompareSiblings(a, b *Node) int {
	if a.Schema == nil || a.Schema != b.Schema {
		panic("yangdoc/data: comparing siblings of different schemas")
	}
	return rbCompare(a, b)
}

// getAnchor returns the anchor record on a leader and the tree root it
// holds, either of which may be absent.
func getAnchor(leader *Node) (*rbNode, *Meta) {
	m := leader.FindMeta(anchorModule, anchorName)
	if m == nil {
		return nil, nil
	}
	return m.tree, m
}

// ensureAnchor returns the leader's anchor record, creating an empty one
// if needed.  Fails when the yang module is missing from the context.
func ensureAnchor(leader *Node) (*Meta, error) {
	if m := leader.FindMeta(anchorModule, anchorName); m != nil {
		return m, nil
	}
	ctx := leader.Context()
	if ctx == nil || !ctx.HasYang() {
		return nil, fmt.Errorf("%w: cannot anchor sorted index at %s", ErrNoYangModule, leader.Schema.Path())
	}
	return leader.AttachMeta(anchorModule, anchorName, ""), nil
}

// moveAnchor relocates the anchor record to a new leader, root reference
// included.  Called exactly when run leadership changes.
func moveAnchor(dst *Node, m *Meta) {
	m.detach()
	m.attach(dst)
}

// buildTree constructs the full index for an existing run in linked-list
// order, leader first.  Runs start unindexed; the one-time build happens
// on the first managed insertion.
func buildTree(leader *Node) *rbNode {
	rbt := newRBNode(leader)
	for iter := leader.Next; iter != nil && iter.Schema == leader.Schema; iter = iter.Next {
		rbInsertNode(&rbt, newRBNode(iter))
	}
	return rbt
}

// linkSorted splices node into the sibling sequence at the position the
// index assigned to rbn.  Without a predecessor the node becomes the new
// leader and takes the anchor record with it.
func linkSorted(leader, node *Node, m *Meta, rbn *rbNode) *Node {
	prev := rbPrev(rbn)
	if prev != nil {
		insertAfter(prev.dnode, node)
		return leader
	}
	insertBefore(leader, node)
	moveAnchor(node, m)
	return node
}

// insertSorted places a standalone node into the sorted run headed by
// leader, keeping the linked and index views consistent, and returns the
// run's (possibly new) leader.
func insertSorted(leader, node *Node) (*Node, error) {
	// A stale anchor from a prior membership carries nothing useful.
	if _, stale := getAnchor(node); stale != nil {
		stale.Free()
	}

	rbt, m := getAnchor(leader)
	if m == nil {
		var err error
		if m, err = ensureAnchor(leader); err != nil {
			return leader, err
		}
	}
	if rbt == nil {
		rbt = buildTree(leader)
	}

	rbn := newRBNode(node)
	rbInsertNode(&rbt, rbn)
	newLeader := linkSorted(leader, node, m, rbn)

	// rotations may have moved the root
	m.tree = rbt

	if debug.Sort() {
		debug.Logf("sorted insert %s at %p, leader %p\n", node.Schema.Path(), node, newLeader)
	}
	return newLeader, nil
}

// unlinkSorted removes node from its run's index before the caller
// detaches it from the sibling sequence, and returns the (possibly new)
// leader.  A run without an anchor or with a single member needs no
// index work.
func unlinkSorted(leader, node *Node) *Node {
	rbt, m := getAnchor(leader)
	if m == nil || leader.alone() {
		return leader
	}

	newLeader := leader
	if leader == node {
		// relocate before removal so the record never references a
		// node about to be detached
		moveAnchor(leader.Next, m)
		newLeader = leader.Next
	}

	if rbt == nil {
		return newLeader
	}
	rbn := rbFind(rbt, node)
	if rbn == nil || rbn.dnode != node {
		panic("yangdoc/data: sorted index out of sync with sibling sequence")
	}
	removed := rbRemove(&rbt, rbn)
	m.tree = rbt
	removed.parent = nil
	removed.left = nil
	removed.right = nil
	removed.dnode = nil

	if debug.Sort() {
		debug.Logf("sorted unlink %s at %p, leader %p\n", node.Schema.Path(), node, newLeader)
	}
	return newLeader
}
