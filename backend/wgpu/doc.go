// Package wgpu renders compose draw commands through gogpu/wgpu.
//
// The engine's render boundary is a linear sequence of already-culled
// DrawCommand values with absolute rectangles and accumulated clip
// regions. This backend translates that sequence into GPU work: one
// instanced quad per command, the clip region applied as a scissor
// rectangle, commands drawn strictly in slice order so overlapping
// translucent nodes composite correctly.
//
// The quad shader is written in WGSL and compiled to SPIR-V through
// gogpu/naga at renderer construction.
//
// GPU submission uses the gogpu/wgpu core API. Pipeline and bind group
// objects are tracked with stub identifiers until the core↔HAL bridge
// exposes render pipeline creation; instance encoding, scissor
// computation, and batching are complete and tested.
package wgpu
