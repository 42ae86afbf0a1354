package compose

// ScrollState is a retained payload for scrollable containers: the
// current scroll offset, persisted across frames by node identity.
//
// Components store it via BuildContext.State and apply the offset as a
// negative child placement. ClampTo keeps the offset legal after
// layout, when content and viewport sizes are finally known. Content
// that shrank must not leave the view scrolled past its end.
type ScrollState struct {
	Offset Point
}

// ClampTo restricts the offset so the viewport never scrolls past the
// content. Content smaller than the viewport clamps to zero.
func (s *ScrollState) ClampTo(content, viewport Size) {
	s.Offset.X = clampAxis(s.Offset.X, 0, maxScroll(content.W, viewport.W))
	s.Offset.Y = clampAxis(s.Offset.Y, 0, maxScroll(content.H, viewport.H))
}

func maxScroll(content, viewport int) int {
	if content <= viewport {
		return 0
	}
	return content - viewport
}
