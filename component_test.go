package compose

import (
	"errors"
	"testing"

	"github.com/gogpu/compose/state"
)

func newTestStore() *state.Store[Identity, any] {
	return state.New[Identity, any](func(id Identity) uint64 { return id.Hash() })
}

func leaf(key string, w, h int) Component {
	return Component{Key: key, Body: func(*BuildContext) Description {
		return Description{Descriptor: Descriptor{Width: Fixed(w), Height: Fixed(h)}}
	}}
}

func TestBuildTreeStructure(t *testing.T) {
	root := Component{Key: "app", Body: func(*BuildContext) Description {
		return Description{
			Descriptor: Descriptor{Placer: Column{}},
			Children: []Component{
				leaf("header", 800, 48),
				leaf("body", 800, 500),
			},
		}
	}}

	a, err := buildTree(root, newTestStore(), 1, Loose(800, 600), nil)
	if err != nil {
		t.Fatalf("buildTree: %v", err)
	}
	if got := a.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}
	kids := a.Children(a.Root())
	if len(kids) != 2 {
		t.Fatalf("root has %d children, want 2", len(kids))
	}
	wantRoot := RootIdentity.Child("app")
	if got := a.Identity(a.Root()); got != wantRoot {
		t.Errorf("root identity = %#x, want %#x", uint64(got), uint64(wantRoot))
	}
	if got := a.Identity(kids[0]); got != wantRoot.Child("header") {
		t.Errorf("header identity mismatch: %#x", uint64(got))
	}
}

func TestBuildIdentityStableAcrossFrames(t *testing.T) {
	root := Component{Key: "app", Body: func(*BuildContext) Description {
		return Description{Children: []Component{leaf("a", 1, 1), leaf("b", 1, 1)}}
	}}

	store := newTestStore()
	a1, err := buildTree(root, store, 1, Loose(100, 100), nil)
	if err != nil {
		t.Fatal(err)
	}
	a2, err := buildTree(root, store, 2, Loose(100, 100), nil)
	if err != nil {
		t.Fatal(err)
	}

	k1 := a1.Children(a1.Root())
	k2 := a2.Children(a2.Root())
	for i := range k1 {
		if a1.Identity(k1[i]) != a2.Identity(k2[i]) {
			t.Errorf("child %d identity changed across frames", i)
		}
	}
}

func TestBuildPositionalKeys(t *testing.T) {
	// Keyless siblings get positional identities, which are stable for
	// a static list but distinct from each other.
	root := Component{Key: "app", Body: func(*BuildContext) Description {
		return Description{Children: []Component{
			leaf("", 1, 1), leaf("", 1, 1), leaf("", 1, 1),
		}}
	}}
	a, err := buildTree(root, newTestStore(), 1, Loose(100, 100), nil)
	if err != nil {
		t.Fatal(err)
	}
	kids := a.Children(a.Root())
	seen := make(map[Identity]bool)
	for _, k := range kids {
		id := a.Identity(k)
		if seen[id] {
			t.Fatalf("duplicate positional identity %#x", uint64(id))
		}
		seen[id] = true
	}
}

func TestBuildSiblingCollision(t *testing.T) {
	root := Component{Key: "app", Body: func(*BuildContext) Description {
		return Description{Children: []Component{leaf("dup", 1, 1), leaf("dup", 2, 2)}}
	}}
	_, err := buildTree(root, newTestStore(), 1, Loose(100, 100), nil)
	if !errors.Is(err, ErrIdentityCollision) {
		t.Fatalf("err = %v, want ErrIdentityCollision", err)
	}
}

func TestBuildSameKeyDifferentParents(t *testing.T) {
	// The same key under different parents is legal; identity folds in
	// the full ancestor path.
	branch := func(key string) Component {
		return Component{Key: key, Body: func(*BuildContext) Description {
			return Description{Children: []Component{leaf("label", 1, 1)}}
		}}
	}
	root := Component{Key: "app", Body: func(*BuildContext) Description {
		return Description{Children: []Component{branch("left"), branch("right")}}
	}}
	a, err := buildTree(root, newTestStore(), 1, Loose(100, 100), nil)
	if err != nil {
		t.Fatalf("buildTree: %v", err)
	}
	kids := a.Children(a.Root())
	l := a.Identity(a.Children(kids[0])[0])
	r := a.Identity(a.Children(kids[1])[0])
	if l == r {
		t.Error("same key under different parents produced equal identities")
	}
}

func TestBuildContextState(t *testing.T) {
	store := newTestStore()
	var got int
	root := Component{Key: "app", Body: func(bc *BuildContext) Description {
		n := bc.State(func() any { return 0 }).(int)
		got = n
		bc.SetState(n + 1)
		return Description{}
	}}

	for frame := uint64(1); frame <= 3; frame++ {
		if _, err := buildTree(root, store, frame, Loose(100, 100), nil); err != nil {
			t.Fatal(err)
		}
	}
	// Frame 3 observes the value written on frame 2.
	if got != 2 {
		t.Errorf("retained counter = %d after 3 frames, want 2", got)
	}
}

func TestIdentityChildFold(t *testing.T) {
	a := RootIdentity.Child("panel")
	b := RootIdentity.Child("panel")
	if a != b {
		t.Error("identical paths produced different identities")
	}
	if a == RootIdentity.Child("other") {
		t.Error("distinct keys produced equal identities")
	}
	if a.Child("x") == a.Child("y") {
		t.Error("distinct child keys produced equal identities")
	}
}
