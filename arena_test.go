package compose

import (
	"errors"
	"testing"
)

func buildTestArena(t *testing.T) (*Arena, NodeID, []NodeID) {
	t.Helper()
	a := NewArena()
	root := a.Insert(NilNode, RootIdentity.Child("root"), Descriptor{})
	kids := make([]NodeID, 3)
	for i, key := range []string{"a", "b", "c"} {
		kids[i] = a.Insert(root, RootIdentity.Child("root").Child(key), Descriptor{})
	}
	return a, root, kids
}

func TestArenaInsert(t *testing.T) {
	a, root, kids := buildTestArena(t)

	if got := a.Len(); got != 4 {
		t.Fatalf("Len() = %d, want 4", got)
	}
	if got := a.Root(); got != root {
		t.Errorf("Root() = %v, want %v", got, root)
	}

	children := a.Children(root)
	if len(children) != 3 {
		t.Fatalf("len(Children(root)) = %d, want 3", len(children))
	}
	for i, want := range kids {
		if children[i] != want {
			t.Errorf("Children(root)[%d] = %v, want %v", i, children[i], want)
		}
	}
	for _, k := range kids {
		if got := a.Parent(k); got != root {
			t.Errorf("Parent(%v) = %v, want root", k, got)
		}
	}
	if got := a.Parent(root); !got.IsNil() {
		t.Errorf("Parent(root) = %v, want NilNode", got)
	}
}

func TestArenaRemoveCascades(t *testing.T) {
	a, root, kids := buildTestArena(t)
	grand := a.Insert(kids[1], a.Identity(kids[1]).Child("x"), Descriptor{})

	a.Remove(kids[1])

	if a.Contains(kids[1]) {
		t.Error("removed node still live")
	}
	if a.Contains(grand) {
		t.Error("descendant of removed node still live")
	}
	if got := a.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := len(a.Children(root)); got != 2 {
		t.Errorf("len(Children(root)) = %d, want 2", got)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestArenaStaleIDAfterReuse(t *testing.T) {
	a, root, kids := buildTestArena(t)
	stale := kids[0]
	a.Remove(stale)

	// The slot is reused but the generation advances, so the stale ID
	// must not resolve.
	fresh := a.Insert(root, RootIdentity.Child("root").Child("d"), Descriptor{})
	if fresh.Index() != stale.Index() {
		t.Skipf("free list did not reuse slot %d", stale.Index())
	}
	if a.Contains(stale) {
		t.Error("stale ID resolves after slot reuse")
	}
	if !a.Contains(fresh) {
		t.Error("fresh ID does not resolve")
	}
}

func TestArenaSubtreeLen(t *testing.T) {
	a, root, kids := buildTestArena(t)
	a.Insert(kids[2], a.Identity(kids[2]).Child("x"), Descriptor{})
	a.Insert(kids[2], a.Identity(kids[2]).Child("y"), Descriptor{})

	tests := []struct {
		name string
		id   NodeID
		want int
	}{
		{"root", root, 6},
		{"leaf", kids[0], 1},
		{"subtree", kids[2], 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.SubtreeLen(tt.id); got != tt.want {
				t.Errorf("SubtreeLen = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestArenaValidateDetectsCorruption(t *testing.T) {
	a, _, kids := buildTestArena(t)

	// Forge a dangling child reference behind the arena's back.
	n := a.get(kids[0])
	n.children = append(n.children, NodeID{idx: 999, gen: 7})

	err := a.Validate()
	if !errors.Is(err, ErrArenaCorrupt) {
		t.Fatalf("Validate() = %v, want ErrArenaCorrupt", err)
	}
}

func TestArenaClear(t *testing.T) {
	a, _, _ := buildTestArena(t)
	a.Clear()
	if got := a.Len(); got != 0 {
		t.Errorf("Len() after Clear = %d, want 0", got)
	}
	if !a.Root().IsNil() {
		t.Error("Root() after Clear is not NilNode")
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Validate() after Clear = %v", err)
	}
}
