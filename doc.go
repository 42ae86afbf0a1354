// Package compose is a retained-mode, declarative UI composition and
// layout engine for the GoGPU ecosystem.
//
// # Overview
//
// Application code describes a tree of components with layout intent
// (fixed size, fill available space, wrap content) and the engine
// computes concrete geometry each frame and emits culled GPU draw
// commands. compose owns composition and layout only: window
// management, input decoding, and the GPU pipeline live in
// collaborators (gogpu, backend/wgpu).
//
// # Quick Start
//
//	import "github.com/gogpu/compose"
//
//	root := compose.Component{Key: "app", Body: func(bc *compose.BuildContext) compose.Description {
//	    return compose.Description{
//	        Descriptor: compose.Descriptor{
//	            Width:  compose.Fill(1),
//	            Height: compose.Fill(1),
//	            Placer: compose.Row{Spacing: 8},
//	        },
//	        Children: []compose.Component{sidebar(), content()},
//	    }
//	}}
//
//	engine := compose.NewEngine(root)
//	defer engine.Close()
//
//	frame, err := engine.Frame(ctx, compose.Tight(800, 600), compose.NewRect(0, 0, 800, 600))
//	// hand frame.Commands to the rendering backend
//
// # Architecture
//
// One logical frame runs four strictly sequential phases:
//
//   - input application: queued events are exposed to component bodies
//   - rebuild: the node arena is reconstructed from component descriptions
//   - measurement: a constraint-propagation pass resolves every node's
//     size and position, parallelized over independent subtrees
//   - emission: the measured tree is walked in paint order, culled
//     against the viewport, and flattened into draw commands
//
// The middle phase is internally parallel (fork-join over a worker
// pool); the phases themselves never overlap, and no phase of one
// frame overlaps another frame's phases.
//
// # Sizing Policies
//
// Each axis of a node carries one of three policies: Fixed(px) is a
// literal size, Wrap sizes to content, and Fill(weight) consumes a
// weighted share of whatever space Fixed and Wrap siblings leave over.
// Integer leftovers go to the first Fill sibling in order, so layout
// is deterministic down to the pixel.
//
// # Retained State
//
// State tied to a component's stable identity (scroll offsets, text
// cursors) survives across frames in a sharded concurrent store; see
// BuildContext.State and the state package.
//
// # Coordinate System
//
// Integer pixels, origin at top-left, X right, Y down.
package compose

// Version information.
const (
	// Version is the current version of the library.
	Version = "0.2.0"
)
