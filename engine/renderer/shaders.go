package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-showcase/engine/camera"
	"github.com/Carmen-Shannon/oxy-showcase/engine/model"
	"github.com/Carmen-Shannon/oxy-showcase/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-showcase/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline keys.
const (
	PipelineMesh       = "mesh"
	PipelineParticles  = "particles"
	PipelineBackground = "background"
)

// ParticleSize is the world-space edge length of a particle billboard.
const ParticleSize float32 = 0.1

// cameraLayout is group 0 of every pipeline. Every pipeline declares it with the same
// visibility so one bind group serves them all.
var cameraLayout = wgpu.BindGroupLayoutDescriptor{
	Label: "camera",
	Entries: []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: uint64((&camera.GPUCameraUniform{}).Size()),
			},
		},
	},
}

// textureLayout is group 1 of the particle and background pipelines: a filtered 2D texture
// at binding 0 and its sampler at binding 1.
var textureLayout = wgpu.BindGroupLayoutDescriptor{
	Label: "texture",
	Entries: []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
			},
		},
		{
			Binding:    1,
			Visibility: wgpu.ShaderStageFragment,
			Sampler: wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			},
		},
	},
}

var (
	vertexLayout = wgpu.VertexBufferLayout{
		ArrayStride: model.GPUVertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		},
	}
	// positionLayout reads only the position of a GPUVertex.
	positionLayout = wgpu.VertexBufferLayout{
		ArrayStride: model.GPUVertexSize,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		},
	}
	instanceLayout = wgpu.VertexBufferLayout{
		ArrayStride: model.GPUInstanceSize,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 4},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 5},
		},
	}
	particleLayout = wgpu.VertexBufferLayout{
		ArrayStride: model.GPUParticleSize,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 1},
		},
	}
)

const cameraBinding = `
@group(0) @binding(0) var<uniform> camera: CameraUniform;
`

// meshSource colors surfaces by their view-space normal.
const meshSource = camera.GPUCameraUniformSource + cameraBinding + `
struct VertexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) normal: vec3<f32>,
};

@vertex
fn vs_main(
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) m0: vec4<f32>,
    @location(3) m1: vec4<f32>,
    @location(4) m2: vec4<f32>,
    @location(5) m3: vec4<f32>,
) -> VertexOut {
    let model = mat4x4<f32>(m0, m1, m2, m3);
    var out: VertexOut;
    out.clip = camera.view_proj * model * vec4<f32>(position, 1.0);
    let world_normal = (model * vec4<f32>(normal, 0.0)).xyz;
    out.normal = (camera.view * vec4<f32>(world_normal, 0.0)).xyz;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    return vec4<f32>(normalize(in.normal) * 0.5 + 0.5, 1.0);
}
`

// particleSource expands each particle into a camera-facing quad.
var particleSource = camera.GPUCameraUniformSource + cameraBinding + fmt.Sprintf(`
@group(1) @binding(0) var sprite_texture: texture_2d<f32>;
@group(1) @binding(1) var sprite_sampler: sampler;

const POINT_SIZE: f32 = %g;

struct VertexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@location(0) corner: vec3<f32>, @location(1) center: vec3<f32>) -> VertexOut {
    let right = vec3<f32>(camera.view[0][0], camera.view[1][0], camera.view[2][0]);
    let up = vec3<f32>(camera.view[0][1], camera.view[1][1], camera.view[2][1]);
    let world = center + (right * corner.x + up * corner.y) * POINT_SIZE;
    var out: VertexOut;
    out.clip = camera.view_proj * vec4<f32>(world, 1.0);
    out.uv = vec2<f32>(corner.x + 0.5, 0.5 - corner.y);
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    let color = textureSample(sprite_texture, sprite_sampler, in.uv);
    if (color.a < 0.01) {
        discard;
    }
    return color;
}
`, ParticleSize)

// backgroundSource samples an equirectangular map along the view ray of each pixel.
const backgroundSource = camera.GPUCameraUniformSource + cameraBinding + `
@group(1) @binding(0) var env_texture: texture_2d<f32>;
@group(1) @binding(1) var env_sampler: sampler;

const PI: f32 = 3.14159265;

struct VertexOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) ndc: vec2<f32>,
};

@vertex
fn vs_main(@location(0) position: vec3<f32>) -> VertexOut {
    var out: VertexOut;
    out.clip = vec4<f32>(position.xy, 1.0, 1.0);
    out.ndc = position.xy;
    return out;
}

@fragment
fn fs_main(in: VertexOut) -> @location(0) vec4<f32> {
    let far_point = camera.inv_view_proj * vec4<f32>(in.ndc, 1.0, 1.0);
    let dir = normalize(far_point.xyz / far_point.w - camera.position);
    let u = atan2(dir.z, dir.x) / (2.0 * PI) + 0.5;
    let v = acos(clamp(dir.y, -1.0, 1.0)) / PI;
    return textureSample(env_texture, env_sampler, vec2<f32>(u, v));
}
`

// fullscreenTriangle covers the viewport with one triangle in clip space.
func fullscreenTriangle() *model.Mesh {
	return &model.Mesh{
		Name: "fullscreen",
		Vertices: []model.GPUVertex{
			{Position: [3]float32{-1, -1, 0}},
			{Position: [3]float32{3, -1, 0}},
			{Position: [3]float32{-1, 3, 0}},
		},
		Indices: []uint32{0, 1, 2},
	}
}

// newPipelines builds the three pipeline descriptions the renderer draws with.
//
// Returns:
//   - map[string]pipeline.Pipeline: pipelines keyed by PipelineMesh, PipelineParticles and PipelineBackground
//   - error: an error if a shader fails validation
func newPipelines() (map[string]pipeline.Pipeline, error) {
	type stages struct {
		source   string
		vertex   []wgpu.VertexBufferLayout
		textured bool
		opts     []pipeline.PipelineBuilderOption
	}
	defs := map[string]stages{
		PipelineMesh: {
			source: meshSource,
			vertex: []wgpu.VertexBufferLayout{vertexLayout, instanceLayout},
		},
		PipelineParticles: {
			source:   particleSource,
			vertex:   []wgpu.VertexBufferLayout{positionLayout, particleLayout},
			textured: true,
			opts:     []pipeline.PipelineBuilderOption{pipeline.WithBlendEnabled(true)},
		},
		PipelineBackground: {
			source:   backgroundSource,
			vertex:   []wgpu.VertexBufferLayout{positionLayout},
			textured: true,
			opts: []pipeline.PipelineBuilderOption{
				pipeline.WithDepthTestEnabled(false),
				pipeline.WithDepthWriteEnabled(false),
			},
		},
	}

	pipelines := make(map[string]pipeline.Pipeline, len(defs))
	for key, def := range defs {
		vsOpts := []shader.ShaderBuilderOption{
			shader.WithVertexLayouts(def.vertex...),
			shader.WithBindGroupLayout(0, cameraLayout.Entries...),
		}
		fsOpts := []shader.ShaderBuilderOption{
			shader.WithBindGroupLayout(0, cameraLayout.Entries...),
		}
		if def.textured {
			fsOpts = append(fsOpts, shader.WithBindGroupLayout(1, textureLayout.Entries...))
		}
		vs, err := shader.NewShader(key+" vs", shader.ShaderTypeVertex, def.source, vsOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s vertex shader: %w", key, err)
		}
		fs, err := shader.NewShader(key+" fs", shader.ShaderTypeFragment, def.source, fsOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s fragment shader: %w", key, err)
		}
		opts := append([]pipeline.PipelineBuilderOption{
			pipeline.WithVertexShader(vs),
			pipeline.WithFragmentShader(fs),
		}, def.opts...)
		pipelines[key] = pipeline.NewPipeline(key, opts...)
	}
	return pipelines, nil
}
