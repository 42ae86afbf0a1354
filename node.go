package compose

// Identity is the stable, opaque identity of a logical component
// instance. It stays the same across frames as long as the component
// keeps its position in the key path, which is what ties retained
// state to a component through rebuilds.
type Identity uint64

// RootIdentity is the identity of the tree root.
const RootIdentity Identity = 0xcbf29ce484222325 // FNV-1a offset basis

// Child derives the identity of a child from its sibling key.
// The derivation is an FNV-1a fold of the parent identity and the key,
// so equal key paths produce equal identities on every frame.
func (id Identity) Child(key string) Identity {
	const prime = 0x100000001b3
	h := uint64(id)
	for i := 0; i < len(key); i++ {
		h ^= uint64(key[i])
		h *= prime
	}
	return Identity(h)
}

// Hash returns the identity as a uint64 for shard selection.
func (id Identity) Hash() uint64 { return uint64(id) }

// NodeID addresses a node inside an Arena. IDs are (index, generation)
// pairs: the index is reused after removal, the generation is not, so a
// stale ID held across a removal never resolves to the wrong node.
//
// The zero NodeID is invalid; see NilNode.
type NodeID struct {
	idx uint32
	gen uint32
}

// NilNode is the invalid NodeID. Parent(root) returns it.
var NilNode = NodeID{}

// IsNil reports whether the ID is the invalid NodeID.
func (n NodeID) IsNil() bool { return n.gen == 0 }

// Index returns the arena slot index. Only meaningful for live IDs.
func (n NodeID) Index() int { return int(n.idx) }

// PaintKind identifies the shape of a paint descriptor.
// The engine does not interpret these beyond "none means skip";
// the rendering backend gives them meaning.
type PaintKind uint8

// Paint kinds.
const (
	// PaintNone emits no draw command for the node itself.
	// Children are still emitted.
	PaintNone PaintKind = iota

	// PaintRect is a solid rectangle.
	PaintRect

	// PaintRoundedRect is a rectangle with rounded corners.
	PaintRoundedRect

	// PaintTexture samples a backend-registered texture.
	PaintTexture
)

// String returns a human-readable name for the paint kind.
func (k PaintKind) String() string {
	switch k {
	case PaintNone:
		return "none"
	case PaintRect:
		return "rect"
	case PaintRoundedRect:
		return "rounded-rect"
	case PaintTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// Paint is the draw descriptor of a node. It is opaque to the layout
// engine and travels unmodified into the emitted DrawCommand.
type Paint struct {
	Kind         PaintKind
	Color        RGBA
	CornerRadius float64 // PaintRoundedRect only
	Texture      uint32  // backend texture handle, PaintTexture only
}

// MeasureFunc lets a collaborator compute a node's natural size under
// the supplied constraints. Text nodes use this to delegate to a
// shaping collaborator. An error isolates the node's subtree: it
// resolves to zero size and the failure surfaces as a frame diagnostic,
// never as an aborted frame.
type MeasureFunc func(c Constraints) (Size, error)

// Descriptor is the per-node sizing and paint description produced by a
// component function during rebuild.
type Descriptor struct {
	// Width and Height are the sizing policies per axis.
	Width, Height DimensionValue

	// Intrinsic is the optional natural-size hint for leaf nodes.
	// A leaf without a hint (and without Measure) resolves to the
	// constraint minimum.
	Intrinsic *Size

	// Measure optionally computes the natural size instead of
	// Intrinsic. When set it takes precedence over Intrinsic.
	Measure MeasureFunc

	// Paint describes how the node is drawn.
	Paint Paint

	// Z is the paint-order bias among siblings. Higher paints later
	// (on top). Siblings with equal Z keep their declaration order.
	Z int

	// Placer positions children relative to the node. Nil means
	// Stack (children superimposed at the origin).
	Placer Placer
}
