package compose

import (
	"image/color"
	"testing"
)

func TestRGB(t *testing.T) {
	c := RGB(0.5, 0.25, 1)
	if c.A != 1 {
		t.Errorf("RGB alpha = %v, want 1", c.A)
	}
	if c.R != 0.5 || c.G != 0.25 || c.B != 1 {
		t.Errorf("RGB = %+v", c)
	}
}

func TestColorRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   RGBA
		want color.NRGBA
	}{
		{"black", RGBA{A: 1}, color.NRGBA{A: 255}},
		{"white", RGBA{R: 1, G: 1, B: 1, A: 1}, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"mid red", RGB(0.5, 0, 0), color.NRGBA{R: 127, A: 255}},
		{"clamped", RGBA{R: 2, G: -1, A: 1}, color.NRGBA{R: 255, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Color(); got != tt.want {
				t.Errorf("Color() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFromColor(t *testing.T) {
	got := FromColor(color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	if got.R < 0.99 || got.G != 0 || got.B != 0 || got.A < 0.99 {
		t.Errorf("FromColor = %+v", got)
	}
}
