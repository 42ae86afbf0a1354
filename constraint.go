package compose

import "math"

// Unbounded marks a constraint axis with no upper limit.
// Scrollable containers pass Unbounded as the max along their scroll axis.
const Unbounded = math.MaxInt32

// DimKind identifies a sizing policy.
type DimKind uint8

// Sizing policy kinds. The set is closed: measurement switches over it
// exhaustively.
const (
	// DimWrap sizes a node to its content.
	DimWrap DimKind = iota

	// DimFixed sizes a node to a literal pixel value.
	DimFixed

	// DimFill consumes a weighted share of the space left over after
	// Fixed and Wrap siblings have been measured.
	DimFill
)

// String returns a human-readable name for the policy kind.
func (k DimKind) String() string {
	switch k {
	case DimWrap:
		return "Wrap"
	case DimFixed:
		return "Fixed"
	case DimFill:
		return "Fill"
	default:
		return "Unknown"
	}
}

// DimensionValue is the sizing policy for one axis of a node.
// The zero value is Wrap.
type DimensionValue struct {
	Kind   DimKind
	Px     int     // literal size for DimFixed
	Weight float64 // share weight for DimFill
}

// Fixed returns a policy that sizes the axis to exactly px pixels,
// clamped to whatever constraints the parent supplies.
func Fixed(px int) DimensionValue {
	return DimensionValue{Kind: DimFixed, Px: px}
}

// Fill returns a policy that consumes a weighted share of remaining space.
// A non-positive weight is treated as 1.
func Fill(weight float64) DimensionValue {
	if weight <= 0 {
		weight = 1
	}
	return DimensionValue{Kind: DimFill, Weight: weight}
}

// Wrap returns a policy that sizes the axis to its content.
func Wrap() DimensionValue {
	return DimensionValue{Kind: DimWrap}
}

// Constraints are the (min, max) bounds a parent imposes on a child,
// per axis. A Constraints value is immutable for the duration of one
// measurement call and is part of the measurement cache key.
//
// Invariant: MinW <= MaxW and MinH <= MaxH, where an Unbounded max
// always satisfies the invariant. Normalize repairs violated bounds.
type Constraints struct {
	MinW, MaxW int
	MinH, MaxH int
}

// Tight returns constraints that force exactly the given size.
func Tight(w, h int) Constraints {
	return Constraints{MinW: w, MaxW: w, MinH: h, MaxH: h}
}

// Loose returns constraints from zero up to the given size.
func Loose(w, h int) Constraints {
	return Constraints{MaxW: w, MaxH: h}
}

// Normalize repairs an inconsistent constraint pair: negative bounds
// floor at zero and the minimum clamps to the maximum, so clamping a
// size always lands on a valid (non-negative) result. Constraint
// inconsistency is silently recovered: layout never aborts a frame
// over it.
func (c Constraints) Normalize() Constraints {
	if c.MaxW < 0 {
		c.MaxW = 0
	}
	if c.MaxH < 0 {
		c.MaxH = 0
	}
	if c.MinW < 0 {
		c.MinW = 0
	}
	if c.MinH < 0 {
		c.MinH = 0
	}
	if c.MinW > c.MaxW {
		c.MinW = c.MaxW
	}
	if c.MinH > c.MaxH {
		c.MinH = c.MaxH
	}
	return c
}

// Clamp restricts a size to lie within the constraints.
func (c Constraints) Clamp(s Size) Size {
	s.W = clampAxis(s.W, c.MinW, c.MaxW)
	s.H = clampAxis(s.H, c.MinH, c.MaxH)
	return s
}

// BoundedW reports whether the horizontal max is finite.
func (c Constraints) BoundedW() bool { return c.MaxW != Unbounded }

// BoundedH reports whether the vertical max is finite.
func (c Constraints) BoundedH() bool { return c.MaxH != Unbounded }

// Min returns the minimum size admitted by the constraints.
func (c Constraints) Min() Size { return Size{W: c.MinW, H: c.MinH} }

// Max returns the maximum size admitted by the constraints.
func (c Constraints) Max() Size { return Size{W: c.MaxW, H: c.MaxH} }

func clampAxis(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
