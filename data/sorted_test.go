package data

import (
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/netvine/yangdoc/schema"
)

// runValues returns the canonical values of box's children in linked
// order.
func runValues(box *Node) []string {
	var res []string
	for c := box.Child; c != nil; c = c.Next {
		res = append(res, c.Value.Canon)
	}
	return res
}

// checkRunConsistency verifies that the linked view and the index view of
// the run headed by box.Child agree, and that only the leader anchors the
// index.
func checkRunConsistency(t *testing.T, box *Node) {
	t.Helper()
	leader := box.Child
	if leader == nil {
		return
	}
	rbt, m := getAnchor(leader)
	for c := leader.Next; c != nil; c = c.Next {
		if anchor := c.FindMeta(anchorModule, anchorName); anchor != nil {
			t.Fatalf("anchor record on non-leader instance %q", c.Value.Canon)
		}
	}
	if m == nil {
		return
	}
	count := checkRBInvariants(t, rbt)
	linked := 0
	for c := leader; c != nil && c.Schema == leader.Schema; c = c.Next {
		linked++
	}
	if count != linked {
		t.Fatalf("index has %d nodes, linked run has %d", count, linked)
	}
	treeOrder := inorder(rbt)
	c := leader
	for i, dn := range treeOrder {
		if dn != c {
			t.Fatalf("tree order and linked order diverge at %d", i)
		}
		c = c.Next
	}
}

func insertPort(t *testing.T, box *Node, v int) *Node {
	t.Helper()
	n := portTerm(t, box.Context(), v)
	if err := box.InsertChild(n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestSortedLeafListInsert(t *testing.T) {
	ctx := testCtx(t)
	box := testBox(t, ctx)

	for _, v := range []int{5, 3, 8, 1} {
		insertPort(t, box, v)
		checkRunConsistency(t, box)
	}
	if diff := cmp.Diff([]string{"1", "3", "5", "8"}, runValues(box)); diff != "" {
		t.Fatalf("linked order (-want +got):\n%s", diff)
	}
}

func TestSortedLeafListRemove(t *testing.T) {
	ctx := testCtx(t)
	box := testBox(t, ctx)

	byVal := map[int]*Node{}
	for _, v := range []int{5, 3, 8, 1} {
		byVal[v] = insertPort(t, box, v)
	}

	byVal[3].Unlink()
	checkRunConsistency(t, box)
	if diff := cmp.Diff([]string{"1", "5", "8"}, runValues(box)); diff != "" {
		t.Fatalf("after removing 3 (-want +got):\n%s", diff)
	}

	// removing the leader relocates the anchor to its successor
	byVal[1].Unlink()
	checkRunConsistency(t, box)
	if diff := cmp.Diff([]string{"5", "8"}, runValues(box)); diff != "" {
		t.Fatalf("after removing leader (-want +got):\n%s", diff)
	}
	if m := box.Child.FindMeta(anchorModule, anchorName); m == nil {
		t.Fatalf("new leader has no anchor record")
	}
	if m := byVal[1].FindMeta(anchorModule, anchorName); m != nil {
		t.Fatalf("unlinked leader still holds the anchor record")
	}
}

func TestSortedInsertBecomesLeader(t *testing.T) {
	ctx := testCtx(t)
	box := testBox(t, ctx)

	insertPort(t, box, 10)
	insertPort(t, box, 20)
	old := box.Child
	n := insertPort(t, box, 5)

	if box.Child != n {
		t.Fatalf("new minimum did not become the leader")
	}
	if old.FindMeta(anchorModule, anchorName) != nil {
		t.Fatalf("old leader kept the anchor record")
	}
	if n.FindMeta(anchorModule, anchorName) == nil {
		t.Fatalf("new leader did not receive the anchor record")
	}
	checkRunConsistency(t, box)
}

func TestSortedLazyBuildFromLinkedRun(t *testing.T) {
	ctx := testCtx(t)
	box := testBox(t, ctx)

	// assemble a run without the index, as a bulk loader would
	a := portTerm(t, ctx, 10)
	b := portTerm(t, ctx, 20)
	c := portTerm(t, ctx, 30)
	a.Parent = box
	box.Child = a
	insertAfter(a, b)
	insertAfter(b, c)

	insertPort(t, box, 25)
	if diff := cmp.Diff([]string{"10", "20", "25", "30"}, runValues(box)); diff != "" {
		t.Fatalf("after lazy build (-want +got):\n%s", diff)
	}
	checkRunConsistency(t, box)
}

func TestSortedRoundTrip(t *testing.T) {
	ctx := testCtx(t)
	box := testBox(t, ctx)
	rnd := rand.New(rand.NewSource(42))

	const k = 60
	nodes := make([]*Node, k)
	for i := range nodes {
		nodes[i] = insertPort(t, box, rnd.Intn(20))
		checkRunConsistency(t, box)
	}

	rnd.Shuffle(k, func(i, j int) { nodes[i], nodes[j] = nodes[j], nodes[i] })
	for _, n := range nodes {
		n.Unlink()
		checkRunConsistency(t, box)
	}

	if box.Child != nil {
		t.Fatalf("children remain after removing all instances")
	}
	for _, n := range nodes {
		if n.Parent != nil || n.Prev != nil || n.Next != nil {
			t.Fatalf("unlinked node still linked")
		}
	}
}

func ifaceInst(t *testing.T, ctx *schema.Context, name string, unit int) *Node {
	t.Helper()
	sn := ctx.Module("inventory").Node("box").Child("iface")
	inst, err := NewInner(sn)
	if err != nil {
		t.Fatal(err)
	}
	for _, kv := range []struct{ k, v string }{
		{"name", name},
		{"unit", strconv.Itoa(unit)},
	} {
		term, err := NewTerm(sn.Child(kv.k), kv.v)
		if err != nil {
			t.Fatal(err)
		}
		if err := inst.InsertChild(term); err != nil {
			t.Fatal(err)
		}
	}
	return inst
}

func TestSortedListKeyOrder(t *testing.T) {
	ctx := testCtx(t)
	box := testBox(t, ctx)

	for _, kv := range []struct {
		name string
		unit int
	}{
		{"eth", 2}, {"ath", 0}, {"eth", 0}, {"bond", 1},
	} {
		if err := box.InsertChild(ifaceInst(t, ctx, kv.name, kv.unit)); err != nil {
			t.Fatal(err)
		}
		checkRunConsistency(t, box)
	}

	var got []string
	for c := box.Child; c != nil; c = c.Next {
		got = append(got, c.ChildByName("name").Value.Canon+"/"+c.ChildByName("unit").Value.Canon)
	}
	want := []string{"ath/0", "bond/1", "eth/0", "eth/2"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("list key order (-want +got):\n%s", diff)
	}
}

func TestSortedListDuplicateKeys(t *testing.T) {
	ctx := testCtx(t)
	box := testBox(t, ctx)

	first := ifaceInst(t, ctx, "eth", 0)
	second := ifaceInst(t, ctx, "eth", 0)
	if err := box.InsertChild(first); err != nil {
		t.Fatal(err)
	}
	if err := box.InsertChild(second); err != nil {
		t.Fatal(err)
	}
	if CompareSiblings(first, second) != 0 {
		t.Fatalf("instances with identical keys do not compare equal")
	}

	// removal must resolve by identity, not by key equality
	second.Unlink()
	checkRunConsistency(t, box)
	if box.Child != first || first.Next != nil {
		t.Fatalf("wrong instance removed from duplicate-key run")
	}
}

func TestSortedStaleAnchorDiscarded(t *testing.T) {
	ctx := testCtx(t)
	box := testBox(t, ctx)

	a := insertPort(t, box, 1)
	insertPort(t, box, 2)

	// unlinking the last-but-one member leaves the run a single element;
	// the survivor keeps a stale single-node index
	a.Unlink()
	other := testBox(t, ctx)
	survivor := box.Child
	survivor.Unlink()
	if err := other.InsertChild(survivor); err != nil {
		t.Fatal(err)
	}
	insertPort(t, other, 0)
	checkRunConsistency(t, other)
	if diff := cmp.Diff([]string{"0", "2"}, runValues(other)); diff != "" {
		t.Fatalf("reinsert after stale anchor (-want +got):\n%s", diff)
	}
}

func TestSortedNoYangModule(t *testing.T) {
	ctx := schema.NewContext()
	if _, err := schema.LoadModule(ctx, []byte(testModuleYAML)); err != nil {
		t.Fatal(err)
	}
	box := testBox(t, ctx)

	insertPort(t, box, 1)
	n := portTerm(t, ctx, 2)
	err := box.InsertChild(n)
	if !errors.Is(err, ErrNoYangModule) {
		t.Fatalf("got %v, want ErrNoYangModule", err)
	}
	// failure leaves the run untouched
	if diff := cmp.Diff([]string{"1"}, runValues(box)); diff != "" {
		t.Fatalf("run changed by failed insert (-want +got):\n%s", diff)
	}
}

func TestIsIndexable(t *testing.T) {
	ctx := testCtx(t)
	boxSchema := ctx.Module("inventory").Node("box")

	tests := []struct {
		child string
		want  bool
	}{
		{"port", true},  // system-ordered leaf-list
		{"tag", false},  // user-ordered leaf-list
		{"iface", true}, // system-ordered keyed list
		{"route", false}, // user-ordered list
		{"note", false},  // keyless list
		{"mode", false},  // plain leaf
	}
	for _, tt := range tests {
		t.Run(tt.child, func(t *testing.T) {
			n := &Node{Schema: boxSchema.Child(tt.child)}
			if got := IsIndexable(n); got != tt.want {
				t.Errorf("IsIndexable(%s) = %v, want %v", tt.child, got, tt.want)
			}
		})
	}
}

func TestUserOrderedRunKeepsInsertionOrder(t *testing.T) {
	ctx := testCtx(t)
	box := testBox(t, ctx)
	sn := ctx.Module("inventory").Node("box").Child("tag")

	for _, v := range []string{"zeta", "alpha", "mid"} {
		n, err := NewTerm(sn, v)
		if err != nil {
			t.Fatal(err)
		}
		if err := box.InsertChild(n); err != nil {
			t.Fatal(err)
		}
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, runValues(box)); diff != "" {
		t.Fatalf("user-ordered run (-want +got):\n%s", diff)
	}
	if m := box.Child.FindMeta(anchorModule, anchorName); m != nil {
		t.Fatalf("user-ordered run grew an anchor record")
	}
}

func TestFreeTreeTearsDownIndex(t *testing.T) {
	ctx := testCtx(t)
	box := testBox(t, ctx)

	for _, v := range []int{4, 2, 6} {
		insertPort(t, box, v)
	}
	leader := box.Child
	if _, m := getAnchor(leader); m == nil {
		t.Fatalf("no anchor before teardown")
	}
	box.FreeTree()
	if leader.Meta != nil {
		t.Fatalf("metadata survives subtree teardown")
	}
}
