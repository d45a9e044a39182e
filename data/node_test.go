package data

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLinkingPrimitives(t *testing.T) {
	ctx := testCtx(t)
	box := testBox(t, ctx)

	a := portTerm(t, ctx, 1)
	b := portTerm(t, ctx, 2)
	c := portTerm(t, ctx, 3)

	a.Parent = box
	box.Child = a
	insertAfter(a, c)
	insertBefore(c, b)

	if diff := cmp.Diff([]string{"1", "2", "3"}, runValues(box)); diff != "" {
		t.Fatalf("linked order (-want +got):\n%s", diff)
	}
	for _, n := range []*Node{a, b, c} {
		if n.Parent != box {
			t.Fatalf("sibling %s has wrong parent", n.Value.Canon)
		}
	}

	// head update when inserting before the first child
	zero := portTerm(t, ctx, 0)
	insertBefore(a, zero)
	if box.Child != zero {
		t.Fatalf("parent first-child pointer not updated")
	}

	b.unlink()
	if diff := cmp.Diff([]string{"0", "1", "3"}, runValues(box)); diff != "" {
		t.Fatalf("after unlink (-want +got):\n%s", diff)
	}
	if b.Parent != nil || b.Prev != nil || b.Next != nil {
		t.Fatalf("unlinked node keeps stale links")
	}

	zero.unlink()
	if box.Child != a {
		t.Fatalf("unlinking the first child did not move the head")
	}
}

func TestMetaAttachDetach(t *testing.T) {
	ctx := testCtx(t)
	box := testBox(t, ctx)
	n := insertPort(t, box, 1)

	m1 := n.AttachMeta("inventory", "origin", "intended")
	m2 := n.AttachMeta("inventory", "last-modified", "2026-08-29")

	if got := n.FindMeta("inventory", "origin"); got != m1 {
		t.Fatalf("FindMeta(origin) = %v", got)
	}
	if got := n.FindMeta("inventory", "last-modified"); got != m2 {
		t.Fatalf("FindMeta(last-modified) = %v", got)
	}
	if got := n.FindMeta("inventory", "missing"); got != nil {
		t.Fatalf("FindMeta(missing) = %v", got)
	}

	m2.Free()
	if n.FindMeta("inventory", "last-modified") != nil {
		t.Fatalf("freed metadata still attached")
	}
	if n.FindMeta("inventory", "origin") != m1 {
		t.Fatalf("unrelated metadata lost")
	}
}

func TestNewTermRejectsBadValues(t *testing.T) {
	ctx := testCtx(t)
	sn := ctx.Module("inventory").Node("box").Child("port")

	if _, err := NewTerm(sn, "not-a-number"); err == nil {
		t.Fatalf("NewTerm accepted a non-numeric int32")
	}
	if _, err := NewTerm(sn, "99999999999"); err == nil {
		t.Fatalf("NewTerm accepted an out-of-range int32")
	}
}

func TestInsertChildRejectsForeignSchema(t *testing.T) {
	ctx := testCtx(t)
	box := testBox(t, ctx)

	iface := ifaceInst(t, ctx, "eth", 0)
	mtu, err := NewTerm(ctx.Module("inventory").Node("box").Child("iface").Child("mtu"), "1500")
	if err != nil {
		t.Fatal(err)
	}
	if err := box.InsertChild(mtu); err == nil {
		t.Fatalf("InsertChild accepted a child of another schema node")
	}
	if err := iface.InsertChild(mtu); err != nil {
		t.Fatal(err)
	}
}

func TestInsertChildRejectsLinkedNode(t *testing.T) {
	ctx := testCtx(t)
	box := testBox(t, ctx)

	n := insertPort(t, box, 1)
	other := testBox(t, ctx)
	if err := other.InsertChild(n); err == nil {
		t.Fatalf("InsertChild accepted a node that is already linked")
	}
}
