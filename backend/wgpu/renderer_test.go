package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/compose"
)

func testRenderer(w, h int) *CommandRenderer {
	return &CommandRenderer{
		handle: NullDeviceHandle{},
		width:  w,
		height: h,
	}
}

func rectCmd(x, y, w, h int, clip compose.Rect) compose.DrawCommand {
	return compose.DrawCommand{
		Paint: compose.Paint{Kind: compose.PaintRect, Color: compose.RGB(1, 0, 0)},
		Rect:  compose.NewRect(x, y, w, h),
		Clip:  clip,
	}
}

func TestEncodeBatchesByScissor(t *testing.T) {
	r := testRenderer(800, 600)
	clipA := compose.NewRect(0, 0, 400, 600)
	clipB := compose.NewRect(400, 0, 400, 600)

	r.encode([]compose.DrawCommand{
		rectCmd(0, 0, 10, 10, clipA),
		rectCmd(20, 0, 10, 10, clipA),
		rectCmd(410, 0, 10, 10, clipB),
		rectCmd(30, 0, 10, 10, clipA),
	})

	if got := len(r.instances); got != 4 {
		t.Fatalf("instances = %d, want 4", got)
	}
	// Consecutive same-scissor commands share a batch; emission order
	// is preserved, so the trailing clipA command starts a new run.
	want := []Batch{
		{Scissor: clipA, First: 0, Count: 2},
		{Scissor: clipB, First: 2, Count: 1},
		{Scissor: clipA, First: 3, Count: 1},
	}
	if got := len(r.batches); got != len(want) {
		t.Fatalf("batches = %d, want %d", got, len(want))
	}
	for i, w := range want {
		if r.batches[i] != w {
			t.Errorf("batch[%d] = %+v, want %+v", i, r.batches[i], w)
		}
	}
}

func TestEncodeClampsScissorToSurface(t *testing.T) {
	r := testRenderer(100, 100)
	r.encode([]compose.DrawCommand{
		rectCmd(50, 50, 200, 200, compose.NewRect(50, 50, 200, 200)),
	})

	if got := len(r.batches); got != 1 {
		t.Fatalf("batches = %d, want 1", got)
	}
	if got := r.batches[0].Scissor; got != compose.NewRect(50, 50, 50, 50) {
		t.Errorf("scissor = %v, want clamped 50,50,50,50", got)
	}
}

func TestEncodeSkipsOffSurface(t *testing.T) {
	r := testRenderer(100, 100)
	r.encode([]compose.DrawCommand{
		rectCmd(500, 500, 10, 10, compose.NewRect(500, 500, 10, 10)),
		rectCmd(0, 0, 10, 10, compose.NewRect(0, 0, 10, 10)),
	})

	if got := len(r.instances); got != 1 {
		t.Errorf("instances = %d, want 1 (off-surface dropped)", got)
	}
}

func TestEncodeInstanceLayout(t *testing.T) {
	r := testRenderer(800, 600)
	cmd := compose.DrawCommand{
		Paint: compose.Paint{
			Kind:         compose.PaintRoundedRect,
			Color:        compose.RGBA{R: 0.5, G: 0.25, B: 1, A: 0.75},
			CornerRadius: 8,
		},
		Rect: compose.NewRect(10, 20, 30, 40),
		Clip: compose.NewRect(0, 0, 800, 600),
	}
	r.encode([]compose.DrawCommand{cmd})

	inst := r.instances[0]
	if inst.Rect != [4]float32{10, 20, 30, 40} {
		t.Errorf("Rect = %v", inst.Rect)
	}
	if inst.Color != [4]float32{0.5, 0.25, 1, 0.75} {
		t.Errorf("Color = %v", inst.Color)
	}
	if inst.Radius != 8 {
		t.Errorf("Radius = %v, want 8", inst.Radius)
	}
	if inst.Kind != float32(compose.PaintRoundedRect) {
		t.Errorf("Kind = %v", inst.Kind)
	}
}

func TestRenderLifecycle(t *testing.T) {
	r, err := NewCommandRenderer(nil, 640, 480)
	if err != nil {
		t.Fatalf("NewCommandRenderer: %v", err)
	}

	cmds := []compose.DrawCommand{rectCmd(0, 0, 10, 10, compose.NewRect(0, 0, 640, 480))}
	if err := r.Render(cmds); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := r.InstanceCount(); got != 1 {
		t.Errorf("InstanceCount = %d, want 1", got)
	}

	r.Resize(0, 0)
	if err := r.Render(cmds); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Render on zero surface = %v, want ErrNoSurface", err)
	}

	r.Resize(640, 480)
	r.Close()
	if err := r.Render(cmds); !errors.Is(err, ErrRendererClosed) {
		t.Errorf("Render after Close = %v, want ErrRendererClosed", err)
	}
	r.Close()
}

func TestCompileQuadShader(t *testing.T) {
	spirv, err := compileQuadShader()
	if err != nil {
		t.Fatalf("compileQuadShader: %v", err)
	}
	if len(spirv) == 0 {
		t.Fatal("empty SPIR-V output")
	}
	const spirvMagic = 0x07230203
	if spirv[0] != spirvMagic {
		t.Errorf("SPIR-V magic = %#x, want %#x", spirv[0], spirvMagic)
	}
}
