package compose

// Axis identifies a layout axis.
type Axis uint8

// Layout axes.
const (
	// AxisNone means children do not share space along any axis
	// (they are superimposed).
	AxisNone Axis = iota

	// AxisHorizontal lays children out left to right.
	AxisHorizontal

	// AxisVertical lays children out top to bottom.
	AxisVertical
)

// Alignment positions children along a placer's cross axis.
type Alignment uint8

// Cross-axis alignments.
const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
)

// Placer is the collaborator that positions a node's children. The
// engine asks it for the main axis (which drives Fill-space
// distribution during measurement) and, once child sizes are final,
// for each child's offset relative to the parent.
//
// Place is called with the parent's resolved content size and the
// final child sizes, in child order. It must return one offset per
// child, in the same order. Offsets may place children outside the
// parent: overflow is legal and handled by clipping at emission, never
// by measurement.
type Placer interface {
	MainAxis() Axis
	Gap() int
	Place(parent Size, children []Size) []Point
}

// Stack superimposes all children at the parent's origin.
// It is the default placer for nodes that do not supply one.
type Stack struct{}

// MainAxis returns AxisNone: stacked children do not share space.
func (Stack) MainAxis() Axis { return AxisNone }

// Gap returns 0.
func (Stack) Gap() int { return 0 }

// Place puts every child at the origin.
func (Stack) Place(_ Size, children []Size) []Point {
	return make([]Point, len(children))
}

// Row lays children out horizontally with an optional gap between
// adjacent children and cross-axis alignment.
type Row struct {
	Spacing int
	Align   Alignment
}

// MainAxis returns AxisHorizontal.
func (Row) MainAxis() Axis { return AxisHorizontal }

// Gap returns the spacing between adjacent children.
func (r Row) Gap() int { return r.Spacing }

// Place positions children left to right.
func (r Row) Place(parent Size, children []Size) []Point {
	offsets := make([]Point, len(children))
	x := 0
	for i, c := range children {
		offsets[i] = Point{X: x, Y: alignOffset(r.Align, parent.H, c.H)}
		x += c.W + r.Spacing
	}
	return offsets
}

// Column lays children out vertically with an optional gap between
// adjacent children and cross-axis alignment.
type Column struct {
	Spacing int
	Align   Alignment
}

// MainAxis returns AxisVertical.
func (Column) MainAxis() Axis { return AxisVertical }

// Gap returns the spacing between adjacent children.
func (c Column) Gap() int { return c.Spacing }

// Place positions children top to bottom.
func (c Column) Place(parent Size, children []Size) []Point {
	offsets := make([]Point, len(children))
	y := 0
	for i, ch := range children {
		offsets[i] = Point{X: alignOffset(c.Align, parent.W, ch.W), Y: y}
		y += ch.H + c.Spacing
	}
	return offsets
}

func alignOffset(a Alignment, extent, child int) int {
	switch a {
	case AlignCenter:
		return (extent - child) / 2
	case AlignEnd:
		return extent - child
	default:
		return 0
	}
}
