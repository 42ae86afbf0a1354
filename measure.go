package compose

import (
	"context"
	"sync"
)

// Measured is the resolved geometry of one node for one frame:
// its size, its offset relative to its parent, and its absolute
// offset from the root. A Measured value never survives into the
// next frame's measurement.
type Measured struct {
	Size Size
	Rel  Point
	Abs  Point
}

// Bounds returns the node's absolute rectangle.
func (m Measured) Bounds() Rect {
	return Rect{X: m.Abs.X, Y: m.Abs.Y, W: m.Size.W, H: m.Size.H}
}

// LayoutResult holds the measured geometry of every node reachable
// from the root for one frame. It is created fresh per pass and only
// published to the engine when the whole pass completes, so an
// abandoned frame leaves no partial results behind.
type LayoutResult struct {
	entries []Measured
	ok      []bool
	root    NodeID
	rootSz  Size
}

func newLayoutResult(arena *Arena) *LayoutResult {
	n := len(arena.nodes)
	return &LayoutResult{
		entries: make([]Measured, n),
		ok:      make([]bool, n),
		root:    arena.Root(),
	}
}

// Get returns the measured geometry of a node.
func (lr *LayoutResult) Get(id NodeID) (Measured, bool) {
	if id.IsNil() || id.Index() >= len(lr.entries) || !lr.ok[id.Index()] {
		return Measured{}, false
	}
	return lr.entries[id.Index()], true
}

// RootSize returns the resolved size of the root node.
func (lr *LayoutResult) RootSize() Size { return lr.rootSz }

func (lr *LayoutResult) setSize(id NodeID, s Size) {
	lr.entries[id.Index()].Size = s
	lr.ok[id.Index()] = true
}

func (lr *LayoutResult) setRel(id NodeID, p Point) {
	lr.entries[id.Index()].Rel = p
}

// measureKey is the per-frame cache key: a node measured twice under
// identical constraints (once for an ancestor's intrinsic query, once
// for final placement) must hit the cache and return bit-identical
// results.
type measureKey struct {
	id NodeID
	c  Constraints
}

func (k measureKey) hash() uint64 {
	const prime = 0x100000001b3
	h := uint64(0xcbf29ce484222325)
	for _, v := range [...]uint64{
		uint64(k.id.idx), uint64(k.id.gen),
		uint64(uint32(k.c.MinW)), uint64(uint32(k.c.MaxW)),
		uint64(uint32(k.c.MinH)), uint64(uint32(k.c.MaxH)),
	} {
		h ^= v
		h *= prime
	}
	return h
}

// measureCache memoizes resolved sizes for the duration of one pass.
// Sharded so concurrent lookups for distinct nodes do not contend.
type measureCache struct {
	shards [16]measureCacheShard
}

type measureCacheShard struct {
	mu sync.Mutex
	m  map[measureKey]Size
}

func newMeasureCache() *measureCache {
	c := &measureCache{}
	for i := range c.shards {
		c.shards[i].m = make(map[measureKey]Size)
	}
	return c
}

func (c *measureCache) get(k measureKey) (Size, bool) {
	sh := &c.shards[k.hash()&15]
	sh.mu.Lock()
	s, ok := sh.m[k]
	sh.mu.Unlock()
	return s, ok
}

func (c *measureCache) put(k measureKey, s Size) {
	sh := &c.shards[k.hash()&15]
	sh.mu.Lock()
	sh.m[k] = s
	sh.mu.Unlock()
}

// measurePass carries the state of one measurement pass. The arena is
// read-only for the lifetime of the pass; per-node result slots are
// written by exactly one goroutine each, with visibility guaranteed by
// the fork-join barriers.
type measurePass struct {
	arena *Arena
	sched *scheduler
	ctx   context.Context
	cache *measureCache
	out   *LayoutResult
	diags *diagSink
}

// runMeasure measures the whole tree under root constraints and
// resolves absolute offsets. It returns the layout result, or ctx.Err
// if the frame was abandoned mid-pass.
func runMeasure(ctx context.Context, arena *Arena, sched *scheduler, diags *diagSink, root Constraints) (*LayoutResult, error) {
	pass := &measurePass{
		arena: arena,
		sched: sched,
		ctx:   ctx,
		cache: newMeasureCache(),
		out:   newLayoutResult(arena),
		diags: diags,
	}
	rootID := arena.Root()
	if rootID.IsNil() {
		return pass.out, nil
	}
	pass.out.rootSz = pass.measure(rootID, root.Normalize())
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pass.resolveAbsolute(rootID, Point{})
	return pass.out, nil
}

// measure resolves one node's size under the supplied constraints,
// recursively measuring and placing its children. Results are
// memoized per (node, constraints) for the current pass.
func (p *measurePass) measure(id NodeID, c Constraints) Size {
	c = c.Normalize()
	key := measureKey{id: id, c: c}
	if s, ok := p.cache.get(key); ok {
		return s
	}
	if p.ctx.Err() != nil {
		return Size{}
	}

	desc := p.arena.Descriptor(id)
	children := p.arena.Children(id)

	var size Size
	if len(children) == 0 {
		size = p.measureLeaf(id, desc, c)
	} else {
		size = p.measureContainer(id, desc, children, c)
	}

	p.cache.put(key, size)
	p.out.setSize(id, size)
	return size
}

// measureLeaf resolves a node with no children: its measurement
// function or intrinsic hint, clamped; absent both, the constraint
// minimum.
func (p *measurePass) measureLeaf(id NodeID, desc Descriptor, c Constraints) Size {
	switch {
	case desc.Measure != nil:
		s, err := desc.Measure(c)
		if err != nil {
			p.diags.add(Diagnostic{Kind: DiagSizingFailure, Node: p.arena.Identity(id), Err: err})
			return Size{}
		}
		return c.Clamp(s)
	case desc.Intrinsic != nil:
		return c.Clamp(*desc.Intrinsic)
	default:
		return c.Min()
	}
}

// measureContainer measures a node's children in two waves (Fixed and
// Wrap first, Fill after remaining space is known), resolves the
// node's own size, and places the children.
func (p *measurePass) measureContainer(id NodeID, desc Descriptor, children []NodeID, c Constraints) Size {
	placer := desc.Placer
	if placer == nil {
		placer = Stack{}
	}
	axis := placer.MainAxis()
	gap := placer.Gap()

	// Wave 1: children whose main-axis policy is not Fill. With no
	// main axis every child is in wave 1 (nothing competes for space).
	sizes := make([]Size, len(children))
	var wave1, fills []int
	for i, child := range children {
		if axis != AxisNone && mainPolicy(p.arena.Descriptor(child), axis).Kind == DimFill {
			fills = append(fills, i)
			continue
		}
		wave1 = append(wave1, i)
	}

	p.forkMeasure(children, wave1, sizes, func(i int) Constraints {
		return deriveConstraints(p.arena.Descriptor(children[i]), c, axis, 0, false)
	})

	// Distribute what is left on the main axis among Fill children,
	// proportionally to weight. The integer leftover goes to the
	// first Fill child in order so the split is deterministic.
	if len(fills) > 0 {
		shares := p.fillShares(children, c, axis, gap, sizes, wave1, fills)
		p.forkMeasure(children, fills, sizes, func(i int) Constraints {
			return deriveConstraints(p.arena.Descriptor(children[i]), c, axis, shares[i], true)
		})
	}

	size := p.resolveOwnSize(id, desc, c, axis, gap, sizes)

	offsets := placer.Place(size, sizes)
	for i, child := range children {
		if i < len(offsets) {
			p.out.setRel(child, offsets[i])
		}
	}
	return size
}

// fillShares computes the main-axis extent granted to each Fill child.
// The returned map is keyed by child index. A share of -1 means no
// finite space was available and the Fill axis degrades to Wrap.
func (p *measurePass) fillShares(children []NodeID, c Constraints, axis Axis, gap int, sizes []Size, wave1, fills []int) map[int]int {
	limit := c.MaxW
	if axis == AxisVertical {
		limit = c.MaxH
	}

	shares := make(map[int]int, len(fills))
	if limit == Unbounded {
		// Nothing finite to distribute: Fill children size to content.
		for _, i := range fills {
			shares[i] = -1
		}
		return shares
	}

	consumed := gap * (len(children) - 1)
	for _, i := range wave1 {
		consumed += axisExtent(sizes[i], axis)
	}
	remaining := limit - consumed
	if remaining < 0 {
		remaining = 0
	}

	var totalWeight float64
	weights := make([]float64, len(fills))
	for j, i := range fills {
		w := mainPolicy(p.arena.Descriptor(children[i]), axis).Weight
		if w <= 0 {
			w = 1
		}
		weights[j] = w
		totalWeight += w
	}

	granted := 0
	for j, i := range fills {
		share := int(float64(remaining) * weights[j] / totalWeight)
		shares[i] = share
		granted += share
	}
	// Integer leftover to the first Fill child in child order.
	shares[fills[0]] += remaining - granted
	return shares
}

// resolveOwnSize resolves the container's own size per axis: Fixed is
// the literal value, Fill is the supplied max, Wrap is the content
// bounding box; all clamped to the constraints. A Fill axis with an
// unbounded max falls back to the content size, since there is no max
// to consume.
func (p *measurePass) resolveOwnSize(id NodeID, desc Descriptor, c Constraints, axis Axis, gap int, sizes []Size) Size {
	content := contentSize(axis, gap, sizes)
	if desc.Measure != nil {
		s, err := desc.Measure(c)
		if err != nil {
			p.diags.add(Diagnostic{Kind: DiagSizingFailure, Node: p.arena.Identity(id), Err: err})
			return Size{}
		}
		content = s
	}

	resolve := func(d DimensionValue, maxV, contentV int) int {
		switch d.Kind {
		case DimFixed:
			return d.Px
		case DimFill:
			if maxV == Unbounded {
				return contentV
			}
			return maxV
		default:
			return contentV
		}
	}
	s := Size{
		W: resolve(desc.Width, c.MaxW, content.W),
		H: resolve(desc.Height, c.MaxH, content.H),
	}
	return c.Clamp(s)
}

// forkMeasure measures the selected children, possibly in parallel.
// idxs selects into children/sizes; derive supplies each child's
// constraints. It blocks until every selected child is measured.
func (p *measurePass) forkMeasure(children []NodeID, idxs []int, sizes []Size, derive func(i int) Constraints) {
	if len(idxs) == 0 {
		return
	}
	p.sched.measureChildren(p, children, idxs, sizes, derive)
}

// resolveAbsolute accumulates relative offsets into absolute
// coordinates, top-down from the root.
func (p *measurePass) resolveAbsolute(id NodeID, parentAbs Point) {
	idx := id.Index()
	if !p.out.ok[idx] {
		return
	}
	abs := parentAbs.Add(p.out.entries[idx].Rel)
	p.out.entries[idx].Abs = abs
	for _, child := range p.arena.Children(id) {
		p.resolveAbsolute(child, abs)
	}
}

// deriveConstraints computes the constraints a parent passes to one
// child: Fixed pins both bounds to the literal value, Wrap passes
// (0, parent max), Fill is pinned to its computed share on the main
// axis and to the parent max on a cross axis. share < 0 means no
// finite space was available and the Fill axis degrades to Wrap.
func deriveConstraints(child Descriptor, parent Constraints, axis Axis, share int, haveShare bool) Constraints {
	deriveAxis := func(d DimensionValue, parentMax int, isMain bool) (int, int) {
		switch d.Kind {
		case DimFixed:
			return d.Px, d.Px
		case DimFill:
			if isMain && haveShare {
				if share < 0 {
					return 0, parentMax
				}
				return share, share
			}
			if parentMax == Unbounded {
				return 0, Unbounded
			}
			return parentMax, parentMax
		default: // DimWrap
			return 0, parentMax
		}
	}

	var c Constraints
	c.MinW, c.MaxW = deriveAxis(child.Width, parent.MaxW, axis == AxisHorizontal)
	c.MinH, c.MaxH = deriveAxis(child.Height, parent.MaxH, axis == AxisVertical)
	return c.Normalize()
}

// mainPolicy returns the child's sizing policy along the given axis.
func mainPolicy(d Descriptor, axis Axis) DimensionValue {
	if axis == AxisVertical {
		return d.Height
	}
	return d.Width
}

func axisExtent(s Size, axis Axis) int {
	if axis == AxisVertical {
		return s.H
	}
	return s.W
}

// contentSize is the bounding box of children as laid out by the
// built-in placer contract: summed along the main axis (plus gaps),
// the maximum across it. With no main axis both axes take the max.
func contentSize(axis Axis, gap int, sizes []Size) Size {
	var s Size
	for _, cs := range sizes {
		switch axis {
		case AxisHorizontal:
			s.W += cs.W
			if cs.H > s.H {
				s.H = cs.H
			}
		case AxisVertical:
			s.H += cs.H
			if cs.W > s.W {
				s.W = cs.W
			}
		default:
			s = s.Union(cs)
		}
	}
	if n := len(sizes); n > 1 && axis != AxisNone {
		if axis == AxisHorizontal {
			s.W += gap * (n - 1)
		} else {
			s.H += gap * (n - 1)
		}
	}
	return s
}
