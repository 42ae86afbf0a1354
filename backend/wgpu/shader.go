package wgpu

import (
	"fmt"

	"github.com/gogpu/naga"
)

// quadShaderWGSL is the instanced quad shader: one instance per draw
// command, expanded to a triangle strip in the vertex stage. Rounded
// corners are resolved in the fragment stage from the per-instance
// corner radius.
const quadShaderWGSL = `
struct Globals {
    surface_size: vec2<f32>,
};

struct Instance {
    @location(0) rect: vec4<f32>,      // x, y, w, h in pixels
    @location(1) color: vec4<f32>,
    @location(2) radius_kind: vec2<f32>, // corner radius, paint kind
};

struct VertexOut {
    @builtin(position) position: vec4<f32>,
    @location(0) color: vec4<f32>,
    @location(1) local: vec2<f32>,
    @location(2) half_size: vec2<f32>,
    @location(3) radius: f32,
};

@group(0) @binding(0) var<uniform> globals: Globals;

@vertex
fn vs_main(@builtin(vertex_index) vi: u32, inst: Instance) -> VertexOut {
    let corner = vec2<f32>(f32(vi & 1u), f32(vi >> 1u));
    let pos = inst.rect.xy + corner * inst.rect.zw;
    let ndc = vec2<f32>(
        pos.x / globals.surface_size.x * 2.0 - 1.0,
        1.0 - pos.y / globals.surface_size.y * 2.0,
    );

    var out: VertexOut;
    out.position = vec4<f32>(ndc, 0.0, 1.0);
    out.color = inst.color;
    out.half_size = inst.rect.zw * 0.5;
    out.local = (corner - vec2<f32>(0.5, 0.5)) * inst.rect.zw;
    out.radius = inst.radius_kind.x;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    if (in.radius > 0.0) {
        // Signed distance to a rounded rectangle centered at origin.
        let q = abs(in.local) - in.half_size + vec2<f32>(in.radius, in.radius);
        let d = length(max(q, vec2<f32>(0.0, 0.0))) + min(max(q.x, q.y), 0.0) - in.radius;
        if (d > 0.0) {
            discard;
        }
    }
    return in.color;
}
`

// compileQuadShader compiles the WGSL quad shader to SPIR-V words.
func compileQuadShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(quadShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("wgpu: compile quad shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}
