package compose

import (
	"errors"
	"fmt"
)

// ErrArenaCorrupt signals an arena invariant violation: a dangling
// child reference or disagreement between a node's parent link and its
// parent's child list. This is a programming defect in whatever mutated
// the arena, not recoverable input, so Validate surfaces it instead of
// repairing anything.
var ErrArenaCorrupt = errors.New("compose: arena corrupt")

// node is one slot in the arena. Nodes never own each other: all
// relations are NodeIDs into the same arena.
type node struct {
	id       Identity
	parent   NodeID
	children []NodeID
	desc     Descriptor

	// subtree is the number of nodes in this node's subtree including
	// itself, maintained on insert/remove. The scheduler reads it to
	// decide between dispatching and inline measurement.
	subtree int

	gen  uint32
	live bool
}

// Arena owns every node of one component tree in a flat indexed store.
//
// Structural mutation (Insert, Remove) is only legal between frames,
// from the single goroutine driving the frame. During a measurement
// pass the arena is read-only and safe for concurrent access from all
// workers.
type Arena struct {
	nodes []node
	free  []uint32
	root  NodeID
	count int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Len returns the number of live nodes.
func (a *Arena) Len() int { return a.count }

// Root returns the root node, or NilNode for an empty arena.
func (a *Arena) Root() NodeID { return a.root }

// Insert adds a node under parent and returns its ID. A nil parent
// makes the node the root; inserting a second root panics, as does a
// stale or dangling parent ID. Children keep insertion order.
func (a *Arena) Insert(parent NodeID, id Identity, desc Descriptor) NodeID {
	if parent.IsNil() && !a.root.IsNil() {
		panic("compose: arena already has a root")
	}
	if !parent.IsNil() && a.get(parent) == nil {
		panic("compose: insert under dead node")
	}

	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.nodes = append(a.nodes, node{})
		idx = uint32(len(a.nodes) - 1)
	}

	slot := &a.nodes[idx]
	gen := slot.gen + 1
	if gen == 0 {
		gen = 1
	}
	*slot = node{
		id:      id,
		parent:  parent,
		desc:    desc,
		subtree: 1,
		gen:     gen,
		live:    true,
	}
	nid := NodeID{idx: idx, gen: gen}

	if parent.IsNil() {
		a.root = nid
	} else {
		p := a.get(parent)
		p.children = append(p.children, nid)
		for anc := parent; !anc.IsNil(); anc = a.get(anc).parent {
			a.get(anc).subtree++
		}
	}
	a.count++
	return nid
}

// Remove deletes a node and its entire subtree. All descendant IDs are
// invalidated; retained state keyed by their identities becomes
// eligible for eviction on the next sweep. Removing a dead or stale ID
// is a no-op.
func (a *Arena) Remove(id NodeID) {
	n := a.get(id)
	if n == nil {
		return
	}
	removed := n.subtree
	if !n.parent.IsNil() {
		p := a.get(n.parent)
		for i, c := range p.children {
			if c == id {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
		for anc := n.parent; !anc.IsNil(); anc = a.get(anc).parent {
			a.get(anc).subtree -= removed
		}
	} else if a.root == id {
		a.root = NilNode
	}
	a.release(id)
}

// release frees a node and its descendants without touching the
// parent's child list.
func (a *Arena) release(id NodeID) {
	n := a.get(id)
	if n == nil {
		return
	}
	for _, c := range n.children {
		a.release(c)
	}
	n.live = false
	n.children = nil
	n.desc = Descriptor{}
	a.free = append(a.free, id.idx)
	a.count--
}

// Clear removes every node, invalidating all IDs.
func (a *Arena) Clear() {
	if !a.root.IsNil() {
		a.Remove(a.root)
	}
}

// Children returns the ordered child IDs of a node. The returned slice
// is the arena's own storage: callers must not mutate it and must not
// hold it across a structural mutation.
func (a *Arena) Children(id NodeID) []NodeID {
	n := a.get(id)
	if n == nil {
		return nil
	}
	return n.children
}

// Parent returns the parent of a node, or NilNode for the root or a
// dead ID.
func (a *Arena) Parent(id NodeID) NodeID {
	n := a.get(id)
	if n == nil {
		return NilNode
	}
	return n.parent
}

// Identity returns the stable identity of a node, or 0 for a dead ID.
func (a *Arena) Identity(id NodeID) Identity {
	n := a.get(id)
	if n == nil {
		return 0
	}
	return n.id
}

// Descriptor returns the descriptor of a node. Dead IDs return the
// zero Descriptor.
func (a *Arena) Descriptor(id NodeID) Descriptor {
	n := a.get(id)
	if n == nil {
		return Descriptor{}
	}
	return n.desc
}

// SubtreeLen returns the node count of a subtree including its root,
// or 0 for a dead ID.
func (a *Arena) SubtreeLen(id NodeID) int {
	n := a.get(id)
	if n == nil {
		return 0
	}
	return n.subtree
}

// Contains reports whether the ID addresses a live node.
func (a *Arena) Contains(id NodeID) bool {
	return a.get(id) != nil
}

// get resolves an ID to its node, or nil if the ID is stale or dead.
func (a *Arena) get(id NodeID) *node {
	if id.IsNil() || int(id.idx) >= len(a.nodes) {
		return nil
	}
	n := &a.nodes[id.idx]
	if !n.live || n.gen != id.gen {
		return nil
	}
	return n
}

// Validate checks the structural invariants: every child reference
// resolves to a live node whose parent link points back, the root has
// no parent, and no node is reachable twice (which would mean a cycle
// or a shared child). A violation is returned wrapped around
// ErrArenaCorrupt.
func (a *Arena) Validate() error {
	if a.root.IsNil() {
		if a.count != 0 {
			return fmt.Errorf("%w: no root but %d live nodes", ErrArenaCorrupt, a.count)
		}
		return nil
	}
	seen := make(map[NodeID]bool, a.count)
	var walk func(id NodeID) error
	walk = func(id NodeID) error {
		n := a.get(id)
		if n == nil {
			return fmt.Errorf("%w: dangling reference %v", ErrArenaCorrupt, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: node %v reachable twice", ErrArenaCorrupt, id)
		}
		seen[id] = true
		for _, c := range n.children {
			cn := a.get(c)
			if cn == nil {
				return fmt.Errorf("%w: dangling child %v of %v", ErrArenaCorrupt, c, id)
			}
			if cn.parent != id {
				return fmt.Errorf("%w: child %v parent link disagrees", ErrArenaCorrupt, c)
			}
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if !a.get(a.root).parent.IsNil() {
		return fmt.Errorf("%w: root has a parent", ErrArenaCorrupt)
	}
	if err := walk(a.root); err != nil {
		return err
	}
	if len(seen) != a.count {
		return fmt.Errorf("%w: %d nodes reachable, %d live", ErrArenaCorrupt, len(seen), a.count)
	}
	return nil
}
