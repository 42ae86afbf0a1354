package compose

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gogpu/compose/internal/parallel"
	"github.com/gogpu/compose/state"
)

// Options configures an Engine.
type Options struct {
	// Workers is the measurement worker pool size.
	// Zero or negative means GOMAXPROCS.
	Workers int

	// InlineThreshold is the subtree node count below which a child
	// is measured inline instead of dispatched.
	// Zero means DefaultInlineThreshold.
	InlineThreshold int

	// EvictAfter is the number of frames an identity may be absent
	// from the rebuilt tree before its retained state is evicted.
	// Zero evicts immediately; the default grace period of one frame
	// tolerates a single skipped rebuild without losing state.
	EvictAfter uint64
}

// Option customizes engine construction.
type Option func(*Options)

// WithWorkers sets the measurement worker pool size.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithInlineThreshold sets the subtree size below which measurement
// runs inline on the forking worker.
func WithInlineThreshold(n int) Option {
	return func(o *Options) { o.InlineThreshold = n }
}

// WithEvictAfter sets the retained-state eviction grace period in
// frames.
func WithEvictAfter(frames uint64) Option {
	return func(o *Options) { o.EvictAfter = frames }
}

// Frame is the output of one completed logical frame: the culled draw
// commands in paint order, the resolved root size for the backend's
// surface, and the diagnostics collected along the way.
type Frame struct {
	Number      uint64
	Commands    []DrawCommand
	RootSize    Size
	Diagnostics []Diagnostic
}

// Engine drives the retained component tree through frames: apply
// input, rebuild, measure in parallel, emit culled draw commands.
//
// Frames are strictly pipelined: no phase of one frame overlaps
// another frame's phases, which is what keeps the layout-freshness
// rule simple: a frame's measurements are never read by the next
// frame's pass. Frame must be called from a single goroutine;
// HandleEvent and NodesAt may be called from others.
type Engine struct {
	opts   Options
	root   Component
	arena  *Arena
	states *state.Store[Identity, any]
	pool   *parallel.Pool
	sched  *scheduler
	diags  *diagSink

	frame uint64

	// mu guards the event queue and the published layout, the two
	// pieces the window collaborator touches from its own goroutine.
	mu        sync.Mutex
	events    []Event
	published *LayoutResult
	pubArena  *Arena
}

// NewEngine creates an engine for the given root component.
func NewEngine(root Component, opts ...Option) *Engine {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.EvictAfter == 0 {
		o.EvictAfter = 1
	}

	pool := parallel.NewPool(o.Workers)
	e := &Engine{
		opts:   o,
		root:   root,
		arena:  NewArena(),
		states: state.New[Identity, any](func(id Identity) uint64 { return id.Hash() }),
		pool:   pool,
		sched:  newScheduler(pool, o.InlineThreshold),
		diags:  &diagSink{},
	}
	Logger().Info("compose: engine started", slog.Int("workers", pool.Workers()))
	return e
}

// Close shuts down the worker pool. The engine must not be used after
// Close.
func (e *Engine) Close() {
	e.pool.Close()
	Logger().Info("compose: engine closed")
}

// HandleEvent queues a pre-decoded input event for the next frame.
// Safe to call from the window collaborator's goroutine.
func (e *Engine) HandleEvent(ev Event) {
	e.mu.Lock()
	e.events = append(e.events, ev)
	e.mu.Unlock()
}

// NodesAt returns the nodes under the given point, innermost first,
// based on the previous completed frame's layout. The input
// collaborator uses it to route pointer events.
func (e *Engine) NodesAt(p Point) []NodeID {
	e.mu.Lock()
	layout, arena := e.published, e.pubArena
	e.mu.Unlock()
	return hitTest(arena, layout, p)
}

// Layout returns the measured geometry of a node from the previous
// completed frame, if the node was reachable.
func (e *Engine) Layout(id NodeID) (Measured, bool) {
	e.mu.Lock()
	layout := e.published
	e.mu.Unlock()
	if layout == nil {
		return Measured{}, false
	}
	return layout.Get(id)
}

// Frame runs one logical frame: input application, rebuild, parallel
// measurement, and draw-command emission. The viewport is supplied by
// the rendering backend and drives culling.
//
// A cancelled ctx abandons the frame: all in-flight measurement
// results are discarded without being published, and ctx.Err is
// returned. Recoverable failures (sizing errors, identity collisions)
// never fail the frame; they surface in Frame.Diagnostics and the
// rendered output degrades instead.
func (e *Engine) Frame(ctx context.Context, root Constraints, viewport Rect) (*Frame, error) {
	e.frame++

	e.mu.Lock()
	events := e.events
	e.events = nil
	e.mu.Unlock()

	e.rebuild(root, events)

	layout, err := runMeasure(ctx, e.arena, e.sched, e.diags, root)
	if err != nil {
		e.diags.add(Diagnostic{Kind: DiagFrameAbandoned, Err: err})
		e.logDiagnostics(e.diags.take())
		return nil, err
	}

	cmds := emitCommands(e.arena, layout, viewport)

	e.mu.Lock()
	e.published = layout
	e.pubArena = e.arena
	e.mu.Unlock()

	diags := e.diags.take()
	e.logDiagnostics(diags)

	return &Frame{
		Number:      e.frame,
		Commands:    cmds,
		RootSize:    layout.RootSize(),
		Diagnostics: diags,
	}, nil
}

// rebuild constructs a fresh arena from the root component. On an
// identity collision the previous tree is retained for this frame and
// the rebuild is retried next frame.
func (e *Engine) rebuild(root Constraints, events []Event) {
	arena, err := buildTree(e.root, e.states, e.frame, root, events)
	if err != nil {
		e.diags.add(Diagnostic{Kind: DiagIdentityCollision, Err: err})
		// Keep the previous tree's identities alive in the store so
		// the retry does not lose their state.
		e.touchAll(e.arena.Root())
		return
	}
	e.arena = arena
	e.states.Sweep(e.frame, e.opts.EvictAfter)
}

// touchAll marks every identity of the retained tree as present for
// the current frame.
func (e *Engine) touchAll(id NodeID) {
	if id.IsNil() {
		return
	}
	e.states.Touch(e.arena.Identity(id), e.frame)
	for _, c := range e.arena.Children(id) {
		e.touchAll(c)
	}
}

func (e *Engine) logDiagnostics(diags []Diagnostic) {
	if len(diags) == 0 {
		return
	}
	l := Logger()
	for _, d := range diags {
		l.Warn("compose: frame diagnostic",
			slog.String("kind", d.Kind.String()),
			slog.Uint64("node", uint64(d.Node)),
			slog.Any("err", d.Err),
			slog.Uint64("frame", e.frame),
		)
	}
}
