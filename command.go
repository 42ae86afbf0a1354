package compose

// DrawCommand is one emitted, already-culled drawing instruction. The
// rectangle and clip are absolute; the paint descriptor is carried
// through unmodified. Commands are consumed by the rendering backend
// in slice order, which is paint order, and are never mutated after
// emission.
type DrawCommand struct {
	// Node is the node that produced the command. Backends can use it
	// to associate GPU resources with nodes across frames.
	Node NodeID

	// Paint is the node's draw descriptor.
	Paint Paint

	// Rect is the node's resolved absolute rectangle.
	Rect Rect

	// Clip is the accumulated clip region: the intersection of the
	// node's bounds with every ancestor's bounds. Backends apply it
	// as a scissor rectangle.
	Clip Rect

	// Z is the node's paint-order bias. Slice order already reflects
	// it; backends that re-batch by pipeline can use it to restore
	// ordering afterwards.
	Z int
}
