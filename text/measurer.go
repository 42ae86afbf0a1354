// Package text provides the text-shaping collaborator for compose.
//
// The engine itself never shapes text: components that display text
// attach a MeasureFunc built here, and the measurer answers intrinsic
// size queries by shaping the string with go-text/typesetting's
// HarfBuzz implementation. Kerning, ligatures, and complex scripts are
// therefore reflected in layout, not just at draw time.
package text

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/gogpu/compose"
)

// Measurer shapes strings against one parsed font and reports the
// sizes the shaped runs occupy.
//
// Measurer is safe for concurrent use: the parsed font.Font is
// read-only, and HarfbuzzShaper instances (which are not
// concurrent-safe) are pooled per call. Concurrent subtree measurement
// hits this from multiple workers at once.
type Measurer struct {
	font *font.Font

	// shaperPool pools HarfbuzzShaper instances; each Shape call
	// checks one out because the shaper has internal mutable state.
	shaperPool sync.Pool
}

// NewMeasurer parses a TTF/OTF font and returns a measurer for it.
func NewMeasurer(ttf []byte) (*Measurer, error) {
	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	return &Measurer{
		font: face.Font,
		shaperPool: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
	}, nil
}

// Measure shapes a single line and returns its advance width and line
// height in pixels at the given font size.
func (m *Measurer) Measure(s string, sizePx float64) compose.Size {
	adv, lh := m.shapeLine(s, sizePx)
	return compose.Size{W: adv.Ceil(), H: lh}
}

// MeasureFunc returns a sizing function for a text node: it reports
// the string's natural size under the supplied constraints, greedily
// estimating line wrapping when the string exceeds a bounded width.
// Components hand the result to Descriptor.Measure.
func (m *Measurer) MeasureFunc(s string, sizePx float64) compose.MeasureFunc {
	return func(c compose.Constraints) (compose.Size, error) {
		if s == "" {
			_, lh := m.shapeLine("", sizePx)
			return compose.Size{H: lh}, nil
		}

		width := 0
		lines := 0
		lineHeight := 0
		for _, para := range strings.Split(s, "\n") {
			adv, lh := m.shapeLine(para, sizePx)
			lineHeight = lh
			w := adv.Ceil()
			if c.BoundedW() && w > c.MaxW && c.MaxW > 0 {
				// Greedy wrap estimate: the shaped advance folded
				// into as many full-width lines as it needs.
				lines += (w + c.MaxW - 1) / c.MaxW
				width = c.MaxW
				continue
			}
			lines++
			if w > width {
				width = w
			}
		}
		return compose.Size{W: width, H: lines * lineHeight}, nil
	}
}

// shapeLine shapes one line and returns its advance and line height.
func (m *Measurer) shapeLine(s string, sizePx float64) (fixed.Int26_6, int) {
	runes := []rune(s)

	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: paragraphDirection(s),
		Face:      font.NewFace(m.font),
		Size:      fixed.Int26_6(sizePx * 64),
		Script:    detectScript(runes),
		Language:  language.NewLanguage("en"),
	}

	shaper := m.shaperPool.Get().(*shaping.HarfbuzzShaper)
	out := shaper.Shape(input)
	m.shaperPool.Put(shaper)

	lineHeight := (out.LineBounds.Ascent - out.LineBounds.Descent + out.LineBounds.Gap).Ceil()
	return out.Advance, lineHeight
}

// paragraphDirection resolves the dominant direction of a string via
// the Unicode bidi algorithm.
func paragraphDirection(s string) di.Direction {
	var p bidi.Paragraph
	if _, err := p.SetString(s); err != nil {
		return di.DirectionLTR
	}
	if !p.IsLeftToRight() {
		return di.DirectionRTL
	}
	return di.DirectionLTR
}

// detectScript returns the script of the first non-space rune.
// Mixed-script runs should be split by the caller before measuring.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
