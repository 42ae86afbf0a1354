package compose

// hitTest collects the nodes whose rectangles contain p, ordered from
// innermost to outermost. The input collaborator routes pointer events
// with it, against the previous frame's measured layout. Clip
// accumulation applies: a point outside a node's effective clip never
// hits that node's subtree, matching what the user actually sees.
func hitTest(arena *Arena, layout *LayoutResult, p Point) []NodeID {
	if layout == nil || layout.root.IsNil() {
		return nil
	}
	var hits []NodeID
	var walk func(id NodeID, clip Rect)
	walk = func(id NodeID, clip Rect) {
		m, ok := layout.Get(id)
		if !ok {
			return
		}
		eff := clip.Intersect(m.Bounds())
		if !eff.Contains(p) {
			return
		}
		// Topmost siblings first: reverse paint order, so the node
		// drawn last (visually on top) reports innermost.
		children := arena.Children(id)
		order := make([]NodeID, len(children))
		copy(order, children)
		sortByZDescending(arena, order)
		for _, child := range order {
			walk(child, eff)
		}
		hits = append(hits, id)
	}
	walk(layout.root, unboundedClip)
	return hits
}

// sortByZDescending orders siblings from topmost to bottommost while
// keeping reverse declaration order for equal z. Insertion sort keeps
// the ordering stable without an extra allocation; sibling lists are
// short.
func sortByZDescending(arena *Arena, ids []NodeID) {
	// Reverse declaration order first, then stable-sort by descending z.
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && arena.Descriptor(ids[j]).Z > arena.Descriptor(ids[j-1]).Z; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
