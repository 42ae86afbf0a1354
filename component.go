package compose

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gogpu/compose/state"
)

// ErrIdentityCollision signals two sibling components claiming the
// same key during rebuild. The rebuild is abandoned for this frame and
// the previous tree retained.
var ErrIdentityCollision = errors.New("compose: sibling identity collision")

// Component describes one logical UI element. Application code
// participates in the tree build exclusively through components: each
// frame, Body is invoked to produce the node's sizing/paint descriptor
// and an ordered list of child components.
//
// Key is the component's stable identity among its siblings. It ties
// retained state to the component across frames, so give a stable key
// to anything that holds state (scroll areas, text editors). An empty
// key derives a positional key from the child index, which is fine for
// static structure but churns identity when siblings are reordered.
type Component struct {
	Key  string
	Body BodyFunc
}

// BodyFunc produces a component's description for one frame.
type BodyFunc func(bc *BuildContext) Description

// Description is what a component contributes to the tree: its own
// node descriptor plus its ordered children.
type Description struct {
	Descriptor
	Children []Component
}

// BuildContext is handed to a component's Body during rebuild. It
// exposes the node's stable identity, the root constraints for the
// frame, the frame's input events, and the retained-state handle.
type BuildContext struct {
	id     Identity
	frame  uint64
	root   Constraints
	events []Event
	states *state.Store[Identity, any]
}

// Identity returns the node's stable identity.
func (bc *BuildContext) Identity() Identity { return bc.id }

// Frame returns the current frame number.
func (bc *BuildContext) Frame() uint64 { return bc.frame }

// RootConstraints returns the constraints the frame was started with.
func (bc *BuildContext) RootConstraints() Constraints { return bc.root }

// Events returns the input events applied to this frame, in arrival
// order. The slice is shared across components; treat it as read-only.
func (bc *BuildContext) Events() []Event { return bc.events }

// State returns the node's retained state, creating it with the
// factory on the identity's first encounter. The payload survives
// across frames for as long as the identity keeps appearing in
// rebuilt trees (plus the engine's eviction grace period).
func (bc *BuildContext) State(create func() any) any {
	return bc.states.GetOrCreate(bc.id, create)
}

// SetState replaces the node's retained state.
func (bc *BuildContext) SetState(v any) {
	bc.states.Set(bc.id, v)
}

// builder rebuilds the arena from a component tree. A collision
// aborts the whole rebuild: the half-built arena is discarded by the
// caller and the previous frame's tree stays in service.
type builder struct {
	arena  *Arena
	states *state.Store[Identity, any]
	frame  uint64
	root   Constraints
	events []Event
}

func (b *builder) build(parent NodeID, parentID Identity, key string, comp Component) error {
	id := parentID.Child(key)

	bc := &BuildContext{
		id:     id,
		frame:  b.frame,
		root:   b.root,
		events: b.events,
		states: b.states,
	}
	var desc Description
	if comp.Body != nil {
		desc = comp.Body(bc)
	}

	nid := b.arena.Insert(parent, id, desc.Descriptor)
	b.states.Touch(id, b.frame)

	seen := make(map[string]bool, len(desc.Children))
	for i, child := range desc.Children {
		ckey := child.Key
		if ckey == "" {
			ckey = "#" + strconv.Itoa(i)
		}
		if seen[ckey] {
			return fmt.Errorf("%w: key %q under node %#x", ErrIdentityCollision, ckey, uint64(id))
		}
		seen[ckey] = true
		if err := b.build(nid, id, ckey, child); err != nil {
			return err
		}
	}
	return nil
}

// buildTree constructs a fresh arena from the root component.
func buildTree(root Component, states *state.Store[Identity, any], frame uint64, rc Constraints, events []Event) (*Arena, error) {
	b := &builder{
		arena:  NewArena(),
		states: states,
		frame:  frame,
		root:   rc,
		events: events,
	}
	key := root.Key
	if key == "" {
		key = "root"
	}
	if err := b.build(NilNode, RootIdentity, key, root); err != nil {
		return nil, err
	}
	return b.arena, nil
}
