package compose

// EventKind identifies a pre-decoded input event.
type EventKind uint8

// Event kinds. Decoding raw window-system input into these is the
// window collaborator's job; the engine only applies them to frames.
const (
	EventPointerMove EventKind = iota
	EventPointerPress
	EventPointerRelease
	EventKeyPress
	EventKeyRelease
	EventScroll
	EventResize
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventPointerMove:
		return "PointerMove"
	case EventPointerPress:
		return "PointerPress"
	case EventPointerRelease:
		return "PointerRelease"
	case EventKeyPress:
		return "KeyPress"
	case EventKeyRelease:
		return "KeyRelease"
	case EventScroll:
		return "Scroll"
	case EventResize:
		return "Resize"
	default:
		return "Unknown"
	}
}

// Event is one discrete input event. Only the fields relevant to the
// kind are meaningful.
type Event struct {
	Kind EventKind

	// Pos is the pointer position for pointer and scroll events.
	Pos Point

	// Button is the pointer button for press/release events.
	Button int

	// Code is the key code for key events; Rune is the decoded
	// character, if any.
	Code uint32
	Rune rune

	// Delta is the scroll delta for scroll events.
	Delta Point

	// Size is the new surface size for resize events.
	Size Size
}
