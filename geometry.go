package compose

// Point is a position in integer pixels.
type Point struct {
	X, Y int
}

// Pt creates a Point from x, y coordinates.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns the sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width/height pair in integer pixels.
type Size struct {
	W, H int
}

// IsZero reports whether both dimensions are zero.
func (s Size) IsZero() bool {
	return s.W == 0 && s.H == 0
}

// Union returns the component-wise maximum of two sizes.
func (s Size) Union(o Size) Size {
	if o.W > s.W {
		s.W = o.W
	}
	if o.H > s.H {
		s.H = o.H
	}
	return s
}

// Rect is an axis-aligned rectangle in integer pixels.
// X, Y is the top-left corner.
type Rect struct {
	X, Y, W, H int
}

// NewRect creates a Rect from position and size.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the right edge x-coordinate.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the bottom edge y-coordinate.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// Contains reports whether the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects reports whether two rectangles overlap.
// Rectangles that merely touch at an edge do not overlap.
func (r Rect) Intersects(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return o.X < r.Right() && o.Right() > r.X &&
		o.Y < r.Bottom() && o.Bottom() > r.Y
}

// Intersect returns the intersection of two rectangles.
// Returns an empty rectangle if they do not intersect.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.Right(), o.Right())
	y1 := min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// ContainsRect reports whether o lies entirely within r.
func (r Rect) ContainsRect(o Rect) bool {
	if o.IsEmpty() {
		return true
	}
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}
