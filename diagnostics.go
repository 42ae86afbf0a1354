package compose

import (
	"fmt"
	"sync"
)

// DiagKind classifies a frame diagnostic.
type DiagKind uint8

// Diagnostic kinds.
const (
	// DiagSizingFailure records a component measurement function that
	// returned an error. Its subtree was resolved to zero size.
	DiagSizingFailure DiagKind = iota

	// DiagIdentityCollision records two sibling components claiming
	// the same key during rebuild. The rebuild was abandoned and the
	// previous frame's tree retained.
	DiagIdentityCollision

	// DiagFrameAbandoned records a frame cancelled mid-measurement.
	DiagFrameAbandoned
)

// String returns a human-readable name for the kind.
func (k DiagKind) String() string {
	switch k {
	case DiagSizingFailure:
		return "SizingFailure"
	case DiagIdentityCollision:
		return "IdentityCollision"
	case DiagFrameAbandoned:
		return "FrameAbandoned"
	default:
		return "Unknown"
	}
}

// Diagnostic is a structured, recoverable failure report collected
// during one frame. Diagnostics degrade the rendered frame (a missing
// subtree, a retried rebuild) instead of aborting it.
type Diagnostic struct {
	Kind DiagKind

	// Node is the identity of the affected node, when known.
	Node Identity

	// Err is the underlying error, when one exists.
	Err error
}

// Error formats the diagnostic as an error string.
func (d Diagnostic) Error() string {
	if d.Err != nil {
		return fmt.Sprintf("compose: %s at node %#x: %v", d.Kind, uint64(d.Node), d.Err)
	}
	return fmt.Sprintf("compose: %s at node %#x", d.Kind, uint64(d.Node))
}

// Unwrap returns the underlying error.
func (d Diagnostic) Unwrap() error { return d.Err }

// diagSink collects diagnostics from concurrently measuring workers.
type diagSink struct {
	mu    sync.Mutex
	diags []Diagnostic
}

func (s *diagSink) add(d Diagnostic) {
	s.mu.Lock()
	s.diags = append(s.diags, d)
	s.mu.Unlock()
}

func (s *diagSink) take() []Diagnostic {
	s.mu.Lock()
	d := s.diags
	s.diags = nil
	s.mu.Unlock()
	return d
}
