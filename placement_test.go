package compose

import "testing"

func TestStackPlace(t *testing.T) {
	got := Stack{}.Place(Size{W: 100, H: 100}, []Size{{W: 10, H: 10}, {W: 50, H: 50}})
	for i, p := range got {
		if p != (Point{}) {
			t.Errorf("offset[%d] = %v, want origin", i, p)
		}
	}
}

func TestRowPlace(t *testing.T) {
	children := []Size{{W: 30, H: 20}, {W: 40, H: 60}, {W: 10, H: 40}}
	parent := Size{W: 200, H: 60}

	tests := []struct {
		name string
		row  Row
		want []Point
	}{
		{
			"start",
			Row{},
			[]Point{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 70, Y: 0}},
		},
		{
			"spacing",
			Row{Spacing: 5},
			[]Point{{X: 0, Y: 0}, {X: 35, Y: 0}, {X: 80, Y: 0}},
		},
		{
			"center",
			Row{Align: AlignCenter},
			[]Point{{X: 0, Y: 20}, {X: 30, Y: 0}, {X: 70, Y: 10}},
		},
		{
			"end",
			Row{Align: AlignEnd},
			[]Point{{X: 0, Y: 40}, {X: 30, Y: 0}, {X: 70, Y: 20}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.row.Place(parent, children)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("offset[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestColumnPlace(t *testing.T) {
	children := []Size{{W: 20, H: 30}, {W: 60, H: 40}}
	got := Column{Spacing: 10, Align: AlignCenter}.Place(Size{W: 60, H: 200}, children)
	want := []Point{{X: 20, Y: 0}, {X: 0, Y: 40}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("offset[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScrollClamp(t *testing.T) {
	tests := []struct {
		name     string
		offset   Point
		content  Size
		viewport Size
		want     Point
	}{
		{"in range", Pt(50, 20), Size{W: 400, H: 300}, Size{W: 200, H: 200}, Pt(50, 20)},
		{"past end", Pt(500, 500), Size{W: 400, H: 300}, Size{W: 200, H: 200}, Pt(200, 100)},
		{"negative", Pt(-10, -10), Size{W: 400, H: 300}, Size{W: 200, H: 200}, Pt(0, 0)},
		{"content fits", Pt(30, 30), Size{W: 100, H: 100}, Size{W: 200, H: 200}, Pt(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ScrollState{Offset: tt.offset}
			s.ClampTo(tt.content, tt.viewport)
			if s.Offset != tt.want {
				t.Errorf("Offset = %v, want %v", s.Offset, tt.want)
			}
		})
	}
}
