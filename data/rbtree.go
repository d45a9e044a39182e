package data

import "github.com/netvine/yangdoc/schema"

// A sorted sibling run is indexed by a red-black tree overlaid on the
// linked sibling sequence:
//
//	anchor meta (on leader)
//	     |
//	     v
//	    rbn
//	   /   \
//	 rbn    rbn        index view (red-black tree)
//	  |    /   \
//	  |  rbn   rbn
//	  |   |     |
//	  v   v     v
//	 d1<->d2<->d3 ...  linked view (sibling sequence)
//
// Each index node holds a non-owning reference to one sibling instance.
// In-order traversal of the tree and forward traversal of the linked
// sequence visit the same instances in the same order.
//
// Red-black invariants: the root is black, a red node has a black parent,
// and every root-to-nil path crosses the same number of black nodes, which
// bounds every tree operation by O(log n).  All balancing is iterative.

const (
	rbBlack = uint8(0)
	rbRed   = uint8(1)
)

// rbNode indexes one sibling instance of a sorted run.
type rbNode struct {
	parent *rbNode
	left   *rbNode
	right  *rbNode

	// dnode is the indexed sibling instance.  The tree never owns it.
	dnode *Node

	color uint8
}

// newRBNode allocates an index node for a sibling instance.  Allocation
// happens before any structural mutation so a failed insertion leaves
// both views untouched.
func newRBNode(node *Node) *rbNode {
	return &rbNode{dnode: node}
}

// rbCompare dispatches the three-way sibling comparison by schema kind.
func rbCompare(a, b *Node) int {
	if a.Schema.Kind == schema.LeafList {
		return rbCompareLeafLists(a, b)
	}
	return rbCompareLists(a, b)
}

func rbCompareLeafLists(a, b *Node) int {
	return a.Value.Type.Compare(a.Value, b.Value)
}

// rbCompareLists compares list instances key by key in declaration order.
// Keys are the first children of a list instance.  All keys equal means
// the instances compare equal even when they are distinct.
func rbCompareLists(a, b *Node) int {
	k1, k2 := a.Child, b.Child
	cmp := k1.Value.Type.Compare(k1.Value, k2.Value)
	if cmp != 0 {
		return cmp
	}
	k1, k2 = k1.Next, k2.Next
	for k1 != nil && k1.Schema != nil && k1.Schema.Flags&schema.Key != 0 {
		cmp = k1.Value.Type.Compare(k1.Value, k2.Value)
		if cmp != 0 {
			return cmp
		}
		k1, k2 = k1.Next, k2.Next
	}
	return cmp
}

func rbSet(rbn, parent *rbNode) {
	rbn.parent = parent
	rbn.left = nil
	rbn.right = nil
	rbn.color = rbRed
}

func rbSetBlackRed(black, red *rbNode) {
	black.color = rbBlack
	red.color = rbRed
}

func rbRotateLeft(root **rbNode, rbn *rbNode) {
	tmp := rbn.right
	rbn.right = tmp.left
	if rbn.right != nil {
		tmp.left.parent = rbn
	}

	parent := rbn.parent
	tmp.parent = parent
	if parent != nil {
		if rbn == parent.left {
			parent.left = tmp
		} else {
			parent.right = tmp
		}
	} else {
		*root = tmp
	}

	tmp.left = rbn
	rbn.parent = tmp
}

func rbRotateRight(root **rbNode, rbn *rbNode) {
	tmp := rbn.left
	rbn.left = tmp.right
	if rbn.left != nil {
		tmp.right.parent = rbn
	}

	parent := rbn.parent
	tmp.parent = parent
	if parent != nil {
		if rbn == parent.left {
			parent.left = tmp
		} else {
			parent.right = tmp
		}
	} else {
		*root = tmp
	}

	tmp.right = rbn
	rbn.parent = tmp
}

// rbInsertColor restores the red-black invariants after rbn was linked in
// as a red leaf.
func rbInsertColor(root **rbNode, rbn *rbNode) {
	for parent := rbn.parent; parent != nil && parent.color == rbRed; parent = rbn.parent {
		gparent := parent.parent

		if parent == gparent.left {
			tmp := gparent.right
			if tmp != nil && tmp.color == rbRed {
				tmp.color = rbBlack
				rbSetBlackRed(parent, gparent)
				rbn = gparent
				continue
			}

			if parent.right == rbn {
				rbRotateLeft(root, parent)
				tmp = parent
				parent = rbn
				rbn = tmp
			}

			rbSetBlackRed(parent, gparent)
			rbRotateRight(root, gparent)
		} else {
			tmp := gparent.left
			if tmp != nil && tmp.color == rbRed {
				tmp.color = rbBlack
				rbSetBlackRed(parent, gparent)
				rbn = gparent
				continue
			}

			if parent.left == rbn {
				rbRotateRight(root, parent)
				tmp = parent
				parent = rbn
				rbn = tmp
			}

			rbSetBlackRed(parent, gparent)
			rbRotateLeft(root, gparent)
		}
	}

	(*root).color = rbBlack
}

// rbRemoveColor restores the red-black invariants after a black node was
// unlinked, leaving child (possibly nil) under parent.
func rbRemoveColor(root **rbNode, parent, rbn *rbNode) {
	for (rbn == nil || rbn.color == rbBlack) && rbn != *root && parent != nil {
		if parent.left == rbn {
			tmp := parent.right
			if tmp.color == rbRed {
				rbSetBlackRed(tmp, parent)
				rbRotateLeft(root, parent)
				tmp = parent.right
			}
			if (tmp.left == nil || tmp.left.color == rbBlack) &&
				(tmp.right == nil || tmp.right.color == rbBlack) {
				tmp.color = rbRed
				rbn = parent
				parent = rbn.parent
			} else {
				if tmp.right == nil || tmp.right.color == rbBlack {
					if oleft := tmp.left; oleft != nil {
						oleft.color = rbBlack
					}
					tmp.color = rbRed
					rbRotateRight(root, tmp)
					tmp = parent.right
				}

				tmp.color = parent.color
				parent.color = rbBlack
				if tmp.right != nil {
					tmp.right.color = rbBlack
				}

				rbRotateLeft(root, parent)
				rbn = *root
				break
			}
		} else {
			tmp := parent.left
			if tmp.color == rbRed {
				rbSetBlackRed(tmp, parent)
				rbRotateRight(root, parent)
				tmp = parent.left
			}

			if (tmp.left == nil || tmp.left.color == rbBlack) &&
				(tmp.right == nil || tmp.right.color == rbBlack) {
				tmp.color = rbRed
				rbn = parent
				parent = rbn.parent
			} else {
				if tmp.left == nil || tmp.left.color == rbBlack {
					if oright := tmp.right; oright != nil {
						oright.color = rbBlack
					}
					tmp.color = rbRed
					rbRotateLeft(root, tmp)
					tmp = parent.left
				}

				tmp.color = parent.color
				parent.color = rbBlack
				if tmp.left != nil {
					tmp.left.color = rbBlack
				}

				rbRotateRight(root, parent)
				rbn = *root
				break
			}
		}
	}

	if rbn != nil {
		rbn.color = rbBlack
	}
}

// rbRemove unlinks rbn from the tree, splicing in its in-order successor
// when both children are present, and rebalances.  The root may change.
func rbRemove(root **rbNode, rbn *rbNode) *rbNode {
	old := rbn
	var child, parent *rbNode
	var color uint8

	if rbn.left == nil {
		child = rbn.right
	} else if rbn.right == nil {
		child = rbn.left
	} else {
		rbn = rbn.right
		for tmp := rbn.left; tmp != nil; tmp = rbn.left {
			rbn = tmp
		}

		child = rbn.right
		parent = rbn.parent
		color = rbn.color
		if child != nil {
			child.parent = parent
		}
		if parent != nil {
			if parent.left == rbn {
				parent.left = child
			} else {
				parent.right = child
			}
		} else {
			*root = child
		}
		if rbn.parent == old {
			parent = rbn
		}
		rbn.parent = old.parent
		rbn.left = old.left
		rbn.right = old.right
		rbn.color = old.color

		if tmp := old.parent; tmp != nil {
			if tmp.left == old {
				tmp.left = rbn
			} else {
				tmp.right = rbn
			}
		} else {
			*root = rbn
		}

		old.left.parent = rbn
		if old.right != nil {
			old.right.parent = rbn
		}

		if color == rbBlack {
			rbRemoveColor(root, parent, child)
		}
		return old
	}

	parent = rbn.parent
	color = rbn.color

	if child != nil {
		child.parent = parent
	}
	if parent != nil {
		if parent.left == rbn {
			parent.left = child
		} else {
			parent.right = child
		}
	} else {
		*root = child
	}

	if color == rbBlack {
		rbRemoveColor(root, parent, child)
	}
	return old
}

// rbInsertNode places rbn by a BST descent and rebalances.  Equal values
// descend to the right, so a new duplicate becomes the successor of the
// existing ones and the relative order of duplicates is insertion order.
func rbInsertNode(root **rbNode, rbn *rbNode) {
	var parent *rbNode
	comp := 0

	tmp := *root
	for tmp != nil {
		parent = tmp

		comp = rbCompare(tmp.dnode, rbn.dnode)
		if comp > 0 {
			tmp = tmp.left
		} else {
			tmp = tmp.right
		}
	}

	rbSet(rbn, parent)

	if parent != nil {
		if comp > 0 {
			parent.left = rbn
		} else {
			parent.right = rbn
		}
	} else {
		*root = rbn
	}

	rbInsertColor(root, rbn)
}

// rbPrev returns the in-order predecessor, or nil at the minimum.
func rbPrev(rbn *rbNode) *rbNode {
	if rbn.left != nil {
		rbn = rbn.left
		for rbn.right != nil {
			rbn = rbn.right
		}
		return rbn
	}
	if rbn.parent != nil && rbn == rbn.parent.right {
		return rbn.parent
	}
	for rbn.parent != nil && rbn == rbn.parent.left {
		rbn = rbn.parent
	}
	return rbn.parent
}

// rbNext returns the in-order successor, or nil at the maximum.
func rbNext(rbn *rbNode) *rbNode {
	if rbn.right != nil {
		rbn = rbn.right
		for rbn.left != nil {
			rbn = rbn.left
		}
		return rbn
	}
	if rbn.parent != nil && rbn == rbn.parent.left {
		return rbn.parent
	}
	for rbn.parent != nil && rbn == rbn.parent.right {
		rbn = rbn.parent
	}
	return rbn.parent
}

// rbFind locates the index node whose instance is target itself, not just
// comparator-equal to it.  After the BST descent reaches an equal node, a
// linear scan over the contiguous equal run via predecessor and successor
// resolves duplicates by identity.
func rbFind(rbt *rbNode, target *Node) *rbNode {
	if rbt.dnode == target {
		return rbt
	}

	iter := rbt
	for iter != nil {
		comp := rbCompare(iter.dnode, target)
		switch {
		case comp > 0:
			iter = iter.left
		case comp < 0:
			iter = iter.right
		case iter.dnode == target:
			return iter
		default:
			pivot := iter

			for iter = rbPrev(pivot); iter != nil; iter = rbPrev(iter) {
				if rbCompare(iter.dnode, target) != 0 {
					break
				}
				if iter.dnode == target {
					return iter
				}
			}

			for iter = rbNext(pivot); iter != nil; iter = rbNext(iter) {
				if rbCompare(iter.dnode, target) != 0 {
					break
				}
				if iter.dnode == target {
					return iter
				}
			}

			return nil
		}
	}

	return nil
}

// rbIterTraversal visits every node exactly once by detaching children as
// it descends.  The traversal destroys the tree; rebalancing would be
// wasted work during teardown.
func rbIterTraversal(current *rbNode, nextState **rbNode) *rbNode {
	var next *rbNode
	for iter := current; iter != nil; iter = next {
		if iter.left != nil {
			next = iter.left
			continue
		}
		if iter.right != nil {
			next = iter.right
			continue
		}

		parent := iter.parent
		*nextState = parent

		if parent != nil && parent.left == iter {
			parent.left = nil
		} else if parent != nil && parent.right == iter {
			parent.right = nil
		}

		return iter
	}

	return nil
}

// freeTree releases every index node of the tree.  Bounded auxiliary
// memory, no recursion.
func freeTree(rbt *rbNode) {
	var state *rbNode
	for rbn := rbIterTraversal(rbt, &state); rbn != nil; rbn = rbIterTraversal(state, &state) {
		rbn.parent = nil
		rbn.dnode = nil
	}
}
