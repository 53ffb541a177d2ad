package renderer

import (
	"github.com/Carmen-Shannon/oxy-showcase/common"
	"github.com/Carmen-Shannon/oxy-showcase/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-showcase/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-showcase/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately. May tear but has the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount is the number of samples per pixel of the main render pass.
// WebGPU guarantees 1 and 4; higher counts are adapter-dependent.
type MSAASampleCount uint32

const (
	MSAAOff MSAASampleCount = 1
	MSAA4x  MSAASampleCount = 4
	MSAA8x  MSAASampleCount = 8
	MSAA16x MSAASampleCount = 16
)

// RendererBackend is the GPU API the renderer draws through. Providers carry every GPU
// resource so the renderer itself never touches API objects.
type RendererBackend interface {
	// ConfigureSurface (re)creates the swapchain and the MSAA and depth attachments.
	//
	// Parameters:
	//   - width, height: the surface size in pixels
	//
	// Returns:
	//   - error: an error if the surface or attachments could not be created
	ConfigureSurface(width, height int) error

	// SetPresentMode selects the present mode used by the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline creates the GPU pipeline for p and attaches it.
	//
	// Parameters:
	//   - p: the pipeline description
	//
	// Returns:
	//   - error: an error if shader or pipeline creation fails
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex and index data and stores the buffers on the provider.
	//
	// Parameters:
	//   - provider: the provider that owns the buffers
	//   - vertexData: marshaled vertices
	//   - indexData: marshaled uint32 indices
	//   - indexCount: the number of indices
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// WriteInstances uploads per-instance data into the provider's instance buffer, growing
	// it when needed, and sets the provider's instance count.
	//
	// Parameters:
	//   - provider: the provider that owns the instance buffer
	//   - data: marshaled instances
	//   - count: the number of instances in data
	//
	// Returns:
	//   - error: an error if the buffer could not be grown
	WriteInstances(provider bind_group_provider.BindGroupProvider, data []byte, count int) error

	// InitBindGroup creates the layout (once), any missing buffers, and a fresh bind group.
	// Texture and sampler bindings must be initialized first.
	//
	// Parameters:
	//   - provider: the provider to fill
	//   - descriptor: the bind group layout
	//
	// Returns:
	//   - error: an error if a binding is missing or creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView uploads RGBA8 pixels into a new texture bound at binding.
	InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, data common.TextureStagingData) error

	// InitSampler creates a sampler bound at binding.
	InitSampler(provider bind_group_provider.BindGroupProvider, binding int, data common.SamplerStagingData) error

	// WriteBuffers queues uniform writes.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next surface texture and opens the render pass.
	BeginFrame() error

	// DrawCall draws the provider's mesh with p, binding bindGroups at indices 0..n-1.
	//
	// Parameters:
	//   - p: a registered pipeline
	//   - mesh: the provider holding vertex, index and optional instance buffers
	//   - bindGroups: providers whose bind groups are set in order
	DrawCall(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider)

	// EndFrame closes the render pass and submits the frame's commands.
	EndFrame() error

	// Present shows the submitted frame.
	Present()

	// Release frees the surface, device and everything created with them.
	Release()
}

// backendFactory creates the backend for a window.
type backendFactory func(root window.Window, forceFallbackAdapter bool, sampleCount MSAASampleCount) (RendererBackend, error)

func newDefaultBackend(root window.Window, forceFallbackAdapter bool, sampleCount MSAASampleCount) (RendererBackend, error) {
	desc := root.SurfaceDescriptor()
	if desc == nil {
		return nil, errNoSurface
	}
	return newWGPURendererBackend(desc, forceFallbackAdapter, sampleCount)
}
