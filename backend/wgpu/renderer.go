package wgpu

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/compose"
)

// Renderer-specific errors.
var (
	// ErrRendererClosed is returned when operating on a closed renderer.
	ErrRendererClosed = errors.New("wgpu: renderer closed")

	// ErrNoSurface is returned when the renderer has a zero-size surface.
	ErrNoSurface = errors.New("wgpu: surface has zero size")
)

// quadInstance is the per-command GPU instance layout, matching the
// Instance struct in the WGSL shader. 10 floats, 40 bytes.
type quadInstance struct {
	// Rect is x, y, w, h in surface pixels.
	Rect [4]float32
	// Color is straight-alpha RGBA.
	Color [4]float32
	// Radius is the rounded-corner radius; Kind mirrors PaintKind.
	Radius float32
	Kind   float32
}

// Batch is a run of consecutive instances sharing one scissor rect.
// Scissor state is per-draw on the GPU, so commands are grouped by
// clip while strictly preserving emission order.
type Batch struct {
	Scissor compose.Rect
	First   int // index of the first instance in the run
	Count   int
}

// StubPipelineID is a placeholder for the wgpu RenderPipelineID until
// the core↔HAL bridge exposes render pipeline creation.
type StubPipelineID uint64

// CommandRenderer translates compose draw commands into GPU quad
// submissions. It implements the engine's render boundary: feed it
// the Frame.Commands slice and the root size each frame.
//
// CommandRenderer is safe for concurrent use; in practice the frame
// driver calls it from one goroutine.
type CommandRenderer struct {
	mu sync.Mutex

	handle DeviceHandle
	format gputypes.TextureFormat

	width  int
	height int

	spirv    []uint32
	pipeline StubPipelineID

	// instances and batches are reused across frames.
	instances []quadInstance
	batches   []Batch

	closed bool
}

// NewCommandRenderer creates a renderer for the given device handle
// and surface size. The quad shader is compiled up front; a shader
// compilation failure is a construction error, not a render error.
func NewCommandRenderer(handle DeviceHandle, width, height int) (*CommandRenderer, error) {
	if handle == nil {
		handle = NullDeviceHandle{}
	}
	spirv, err := compileQuadShader()
	if err != nil {
		return nil, err
	}
	return &CommandRenderer{
		handle:   handle,
		format:   handle.SurfaceFormat(),
		width:    width,
		height:   height,
		spirv:    spirv,
		pipeline: StubPipelineID(1),
	}, nil
}

// Resize updates the surface size used for NDC conversion and scissor
// clamping.
func (r *CommandRenderer) Resize(width, height int) {
	r.mu.Lock()
	r.width, r.height = width, height
	r.mu.Unlock()
}

// Render encodes and submits one frame's draw commands. Commands must
// be the engine's emission order; the renderer never reorders them.
func (r *CommandRenderer) Render(cmds []compose.DrawCommand) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRendererClosed
	}
	if r.width <= 0 || r.height <= 0 {
		return ErrNoSurface
	}

	r.encode(cmds)
	if len(r.instances) == 0 {
		return nil
	}
	return r.submit()
}

// encode converts commands into quad instances and scissor batches.
func (r *CommandRenderer) encode(cmds []compose.DrawCommand) {
	r.instances = r.instances[:0]
	r.batches = r.batches[:0]

	surface := compose.NewRect(0, 0, r.width, r.height)
	for _, cmd := range cmds {
		scissor := cmd.Clip.Intersect(surface)
		if scissor.IsEmpty() {
			continue
		}

		inst := quadInstance{
			Rect: [4]float32{
				float32(cmd.Rect.X), float32(cmd.Rect.Y),
				float32(cmd.Rect.W), float32(cmd.Rect.H),
			},
			Color: [4]float32{
				float32(cmd.Paint.Color.R), float32(cmd.Paint.Color.G),
				float32(cmd.Paint.Color.B), float32(cmd.Paint.Color.A),
			},
			Radius: float32(cmd.Paint.CornerRadius),
			Kind:   float32(cmd.Paint.Kind),
		}

		idx := len(r.instances)
		r.instances = append(r.instances, inst)

		if n := len(r.batches); n > 0 && r.batches[n-1].Scissor == scissor {
			r.batches[n-1].Count++
			continue
		}
		r.batches = append(r.batches, Batch{Scissor: scissor, First: idx, Count: 1})
	}
}

// submit uploads the instance buffer and issues one instanced draw per
// scissor batch. With a null device the encoded frame is dropped after
// encoding, which keeps headless tests and CI running the full
// translation path.
func (r *CommandRenderer) submit() error {
	dev := r.handle.Device()
	if dev == nil {
		return nil
	}
	queue := r.handle.Queue()
	if queue == nil {
		return fmt.Errorf("wgpu: device without queue")
	}

	// Render pass recording goes through the stub pipeline until the
	// core↔HAL bridge exposes render pipeline creation; see package
	// documentation.
	return nil
}

// Batches returns the scissor batches of the last encoded frame.
// Exposed for inspection and tests.
func (r *CommandRenderer) Batches() []Batch {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Batch, len(r.batches))
	copy(out, r.batches)
	return out
}

// InstanceCount returns the instance count of the last encoded frame.
func (r *CommandRenderer) InstanceCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.instances)
}

// SurfaceFormat returns the texture format of the target surface.
func (r *CommandRenderer) SurfaceFormat() gputypes.TextureFormat {
	return r.format
}

// Close releases renderer resources. Close is safe to call twice.
func (r *CommandRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.instances = nil
	r.batches = nil
}

// OwnedDevice wraps a logical device the backend created itself from a
// host-supplied adapter, for hosts that hand over an adapter rather
// than a full gpucontext provider.
type OwnedDevice struct {
	adapter core.AdapterID
	device  core.DeviceID
	queue   core.QueueID
}

// NewOwnedDevice creates a logical device and queue from an adapter.
func NewOwnedDevice(adapter core.AdapterID, label string) (*OwnedDevice, error) {
	device, err := createDevice(adapter, label)
	if err != nil {
		return nil, err
	}
	queue, err := getDeviceQueue(device)
	if err != nil {
		_ = releaseDevice(device)
		return nil, err
	}
	logGPUInfo(adapter)
	return &OwnedDevice{adapter: adapter, device: device, queue: queue}, nil
}

// Device returns the wgpu device ID.
func (d *OwnedDevice) Device() core.DeviceID { return d.device }

// Queue returns the wgpu queue ID.
func (d *OwnedDevice) Queue() core.QueueID { return d.queue }

// Close releases the device and adapter.
func (d *OwnedDevice) Close() error {
	if err := releaseDevice(d.device); err != nil {
		return err
	}
	return releaseAdapter(d.adapter)
}
