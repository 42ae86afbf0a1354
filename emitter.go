package compose

import "sort"

// unboundedClip is the clip region above the root: effectively
// infinite, so the root's own bounds become the first real clip.
var unboundedClip = Rect{X: -Unbounded / 2, Y: -Unbounded / 2, W: Unbounded, H: Unbounded}

// emitter walks a measured tree in paint order and produces the
// frame's linear draw-command sequence.
//
// Clip regions accumulate down the tree: a node's effective clip is
// the intersection of its own bounds with its parent's accumulated
// clip. A subtree whose effective clip misses the viewport is skipped
// entirely, so emission cost is bounded by what is visible.
type emitter struct {
	arena    *Arena
	layout   *LayoutResult
	viewport Rect
	cmds     []DrawCommand
}

// emitCommands produces the culled draw commands for one measured
// frame, in stable paint order: parents before children, siblings in
// ascending z, declaration order breaking ties. Overlapping
// translucent nodes depend on this order for correct compositing.
func emitCommands(arena *Arena, layout *LayoutResult, viewport Rect) []DrawCommand {
	if layout == nil || layout.root.IsNil() {
		return nil
	}
	e := &emitter{arena: arena, layout: layout, viewport: viewport}
	e.walk(layout.root, unboundedClip)
	return e.cmds
}

func (e *emitter) walk(id NodeID, clip Rect) {
	m, ok := e.layout.Get(id)
	if !ok {
		return
	}

	eff := clip.Intersect(m.Bounds())
	if !eff.Intersects(e.viewport) {
		// The whole subtree is clipped out or off-viewport: children
		// are confined to eff, so nothing below here can be visible.
		return
	}

	desc := e.arena.Descriptor(id)
	if desc.Paint.Kind != PaintNone {
		e.cmds = append(e.cmds, DrawCommand{
			Node:  id,
			Paint: desc.Paint,
			Rect:  m.Bounds(),
			Clip:  eff,
			Z:     desc.Z,
		})
	}

	children := e.arena.Children(id)
	if len(children) == 0 {
		return
	}
	for _, child := range e.paintOrder(children) {
		e.walk(child, eff)
	}
}

// paintOrder returns children sorted by ascending z, keeping
// declaration order for equal z.
func (e *emitter) paintOrder(children []NodeID) []NodeID {
	sorted := make([]NodeID, len(children))
	copy(sorted, children)
	sort.SliceStable(sorted, func(i, j int) bool {
		return e.arena.Descriptor(sorted[i]).Z < e.arena.Descriptor(sorted[j]).Z
	})
	return sorted
}
