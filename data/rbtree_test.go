package data

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/netvine/yangdoc/schema"
)

const testModuleYAML = `
module: inventory
prefix: inv
namespace: urn:test:inventory
nodes:
  - name: box
    kind: container
    children:
      - name: port
        kind: leaf-list
        type: int32
      - name: tag
        kind: leaf-list
        type: string
        ordered-by: user
      - name: iface
        kind: list
        keys: [name, unit]
        children:
          - {name: name, kind: leaf, type: string}
          - {name: unit, kind: leaf, type: uint8}
          - {name: mtu, kind: leaf, type: uint16}
      - name: route
        kind: list
        ordered-by: user
        keys: [dst]
        children:
          - {name: dst, kind: leaf, type: string}
      - name: note
        kind: list
        children:
          - {name: text, kind: leaf, type: string}
      - name: mode
        kind: leaf
        type: enumeration
        enums: [off, standby, active]
`

func testCtx(t *testing.T) *schema.Context {
	t.Helper()
	ctx := schema.NewContext()
	if err := ctx.AddModule(schema.YangModule()); err != nil {
		t.Fatal(err)
	}
	if _, err := schema.LoadModule(ctx, []byte(testModuleYAML)); err != nil {
		t.Fatal(err)
	}
	return ctx
}

func testBox(t *testing.T, ctx *schema.Context) *Node {
	t.Helper()
	box, err := NewInner(ctx.Module("inventory").Node("box"))
	if err != nil {
		t.Fatal(err)
	}
	return box
}

func portTerm(t *testing.T, ctx *schema.Context, v int) *Node {
	t.Helper()
	sn := ctx.Module("inventory").Node("box").Child("port")
	n, err := NewTerm(sn, strconv.Itoa(v))
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// checkRBInvariants verifies the red-black and ordering invariants and
// returns the tree's node count.
func checkRBInvariants(t *testing.T, root *rbNode) int {
	t.Helper()
	if root == nil {
		return 0
	}
	if root.color != rbBlack {
		t.Fatalf("root is not black")
	}
	if root.parent != nil {
		t.Fatalf("root has a parent")
	}
	count := 0
	var walk func(n *rbNode) int
	walk = func(n *rbNode) int {
		if n == nil {
			return 1
		}
		count++
		if n.color == rbRed {
			if n.parent == nil || n.parent.color == rbRed {
				t.Fatalf("red node %v has red or missing parent", n.dnode.Value.Canon)
			}
		}
		if n.left != nil {
			if n.left.parent != n {
				t.Fatalf("left child parent link broken")
			}
			if rbCompare(n.left.dnode, n.dnode) > 0 {
				t.Fatalf("left child %s > parent %s", n.left.dnode.Value.Canon, n.dnode.Value.Canon)
			}
		}
		if n.right != nil {
			if n.right.parent != n {
				t.Fatalf("right child parent link broken")
			}
			if rbCompare(n.dnode, n.right.dnode) > 0 {
				t.Fatalf("parent %s > right child %s", n.dnode.Value.Canon, n.right.dnode.Value.Canon)
			}
		}
		lh := walk(n.left)
		rh := walk(n.right)
		if lh != rh {
			t.Fatalf("black-height mismatch at %s: %d vs %d", n.dnode.Value.Canon, lh, rh)
		}
		if n.color == rbBlack {
			return lh + 1
		}
		return lh
	}
	walk(root)
	return count
}

// inorder returns the indexed instances in tree order.
func inorder(root *rbNode) []*Node {
	var res []*Node
	n := root
	if n == nil {
		return nil
	}
	for n.left != nil {
		n = n.left
	}
	for ; n != nil; n = rbNext(n) {
		res = append(res, n.dnode)
	}
	return res
}

func TestRBInsertInvariants(t *testing.T) {
	ctx := testCtx(t)
	rnd := rand.New(rand.NewSource(1))

	var root *rbNode
	for i := 0; i < 200; i++ {
		n := portTerm(t, ctx, rnd.Intn(100))
		rbn := newRBNode(n)
		if root == nil {
			root = rbn
		} else {
			rbInsertNode(&root, rbn)
		}
		if got := checkRBInvariants(t, root); got != i+1 {
			t.Fatalf("after %d inserts, tree has %d nodes", i+1, got)
		}
	}

	vals := inorder(root)
	for i := 1; i < len(vals); i++ {
		if rbCompare(vals[i-1], vals[i]) > 0 {
			t.Fatalf("in-order values out of order at %d: %s > %s",
				i, vals[i-1].Value.Canon, vals[i].Value.Canon)
		}
	}
}

func TestRBRemoveInvariants(t *testing.T) {
	ctx := testCtx(t)
	rnd := rand.New(rand.NewSource(7))

	var root *rbNode
	var nodes []*Node
	for i := 0; i < 120; i++ {
		n := portTerm(t, ctx, rnd.Intn(40))
		nodes = append(nodes, n)
		rbn := newRBNode(n)
		if root == nil {
			root = rbn
		} else {
			rbInsertNode(&root, rbn)
		}
	}

	rnd.Shuffle(len(nodes), func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })
	for i, n := range nodes {
		rbn := rbFind(root, n)
		if rbn == nil || rbn.dnode != n {
			t.Fatalf("remove %d: instance with value %s not found by identity", i, n.Value.Canon)
		}
		rbRemove(&root, rbn)
		if got, want := checkRBInvariants(t, root), len(nodes)-i-1; got != want {
			t.Fatalf("after %d removals, tree has %d nodes, want %d", i+1, got, want)
		}
	}
	if root != nil {
		t.Fatalf("tree not empty after removing every node")
	}
}

func TestRBDuplicateIdentity(t *testing.T) {
	ctx := testCtx(t)

	// five instances of the same value plus neighbors on both sides
	dups := make([]*Node, 5)
	var root *rbNode
	add := func(n *Node) {
		if root == nil {
			root = newRBNode(n)
			return
		}
		rbInsertNode(&root, newRBNode(n))
	}
	add(portTerm(t, ctx, 1))
	for i := range dups {
		dups[i] = portTerm(t, ctx, 7)
		add(dups[i])
	}
	add(portTerm(t, ctx, 9))

	for i, want := range dups {
		got := rbFind(root, want)
		if got == nil {
			t.Fatalf("duplicate %d not found", i)
		}
		if got.dnode != want {
			t.Fatalf("duplicate %d resolved to a different instance", i)
		}
	}
}

func TestRBInsertTiesGoRight(t *testing.T) {
	ctx := testCtx(t)

	first := portTerm(t, ctx, 5)
	second := portTerm(t, ctx, 5)
	root := newRBNode(first)
	rbInsertNode(&root, newRBNode(second))

	got := inorder(root)
	if len(got) != 2 || got[0] != first || got[1] != second {
		t.Fatalf("new duplicate is not the successor of the existing one")
	}
}

func TestRBFreeTreeVisitsEachOnce(t *testing.T) {
	ctx := testCtx(t)

	var root *rbNode
	for i := 0; i < 50; i++ {
		n := portTerm(t, ctx, i)
		if root == nil {
			root = newRBNode(n)
			continue
		}
		rbInsertNode(&root, newRBNode(n))
	}

	seen := map[*rbNode]bool{}
	var state *rbNode
	for rbn := rbIterTraversal(root, &state); rbn != nil; rbn = rbIterTraversal(state, &state) {
		if seen[rbn] {
			t.Fatalf("node visited twice")
		}
		seen[rbn] = true
	}
	if len(seen) != 50 {
		t.Fatalf("visited %d nodes, want 50", len(seen))
	}
}
