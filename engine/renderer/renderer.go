package renderer

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-showcase/common"
	"github.com/Carmen-Shannon/oxy-showcase/engine/camera"
	"github.com/Carmen-Shannon/oxy-showcase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-showcase/engine/loader"
	"github.com/Carmen-Shannon/oxy-showcase/engine/model"
	"github.com/Carmen-Shannon/oxy-showcase/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-showcase/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-showcase/engine/scene"
	"github.com/Carmen-Shannon/oxy-showcase/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrNotInitialized is returned by Update and OnResize before Init.
var ErrNotInitialized = errors.New("renderer: not initialized")

// backgroundExposure is the exposure applied when tone mapping the environment map.
const backgroundExposure float32 = 1

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	newBackend backendFactory
	backend    RendererBackend
	pipelines  map[string]pipeline.Pipeline

	forceFallbackAdapter bool
	msaa                 MSAASampleCount

	root          window.Window
	initialized   bool
	state         RenderState
	presentDirty  bool
	width, height int

	camera     bind_group_provider.BindGroupProvider
	boxes      bind_group_provider.BindGroupProvider
	particles  bind_group_provider.BindGroupProvider
	background bind_group_provider.BindGroupProvider
	// meshes holds the geometry of text lines and model parts keyed by game object ID.
	meshes map[uint64]bind_group_provider.BindGroupProvider

	boxMesh          *model.Mesh
	particleCount    int
	spriteSource     *loader.Texture
	backgroundSource *loader.HDRImage

	instances []model.GPUInstance
}

// Renderer owns the output surface and draws the scene every frame: an optional environment
// background, the boxes, text and model parts colored by surface normal, and the particle
// billboards. Scene resources are uploaded lazily the first frame they appear.
type Renderer interface {
	// Init creates the GPU device for the window's surface and the pipelines.
	// A second call is a no-op.
	//
	// Parameters:
	//   - root: the window to draw into
	//
	// Returns:
	//   - error: an error if the device, surface or pipelines could not be created
	Init(root window.Window) error

	// Surface returns the window passed to Init, or nil before Init.
	Surface() window.Window

	// Update draws one frame of the scene from the camera.
	//
	// Parameters:
	//   - sc: the scene to draw
	//   - cam: the camera to draw from
	//
	// Returns:
	//   - error: ErrNotInitialized before Init, or an error from uploading or submitting
	Update(sc scene.Scene, cam camera.Camera) error

	// OnResize reconfigures the surface to the window's current size. A zero-sized window
	// (minimized) skips drawing until it is resized again.
	//
	// Returns:
	//   - error: ErrNotInitialized before Init, or an error from reconfiguring
	OnResize() error

	// OnKeydown toggles the layer bound to key. Unbound keys are ignored.
	//
	// Parameters:
	//   - key: the key code from the window
	OnKeydown(key uint32)

	// State returns the current layer toggles.
	State() RenderState

	// Release frees every GPU resource. The renderer cannot be used afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a renderer. No GPU work happens until Init.
//
// Parameters:
//   - options: functional options configuring the renderer
//
// Returns:
//   - Renderer: the renderer
func NewRenderer(options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:         &sync.Mutex{},
		newBackend: newDefaultBackend,
		msaa:       MSAA4x,
		state:      DefaultRenderState(true),
		meshes:     make(map[uint64]bind_group_provider.BindGroupProvider),
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) Init(root window.Window) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil
	}
	if root == nil {
		return errors.New("renderer: nil window")
	}

	pipelines, err := newPipelines()
	if err != nil {
		return err
	}

	backend, err := r.newBackend(root, r.forceFallbackAdapter, r.msaa)
	if err != nil {
		return fmt.Errorf("failed to create renderer backend: %w", err)
	}
	backend.SetPresentMode(r.state.PresentMode())

	r.width, r.height = root.Width(), root.Height()
	if err := backend.ConfigureSurface(r.width, r.height); err != nil {
		backend.Release()
		return fmt.Errorf("failed to configure surface: %w", err)
	}

	for _, key := range []string{PipelineBackground, PipelineMesh, PipelineParticles} {
		if err := backend.RegisterRenderPipeline(pipelines[key]); err != nil {
			releasePipelines(pipelines)
			backend.Release()
			return fmt.Errorf("failed to register pipeline %s: %w", key, err)
		}
	}

	cam := bind_group_provider.NewBindGroupProvider("camera")
	if err := backend.InitBindGroup(cam, cameraLayout); err != nil {
		releasePipelines(pipelines)
		backend.Release()
		return fmt.Errorf("failed to create camera bind group: %w", err)
	}

	r.root = root
	r.backend = backend
	r.pipelines = pipelines
	r.camera = cam
	r.initialized = true
	common.Logger().Info("renderer initialized", "width", r.width, "height", r.height, "msaa", uint32(r.msaa))
	return nil
}

func (r *renderer) Surface() window.Window {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.root
}

func (r *renderer) Update(sc scene.Scene, cam camera.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	if sc == nil || cam == nil {
		return errors.New("renderer: nil scene or camera")
	}

	if r.presentDirty {
		r.presentDirty = false
		r.backend.SetPresentMode(r.state.PresentMode())
		if err := r.backend.ConfigureSurface(r.width, r.height); err != nil {
			return fmt.Errorf("failed to reconfigure surface: %w", err)
		}
	}
	if r.width <= 0 || r.height <= 0 {
		return nil
	}

	if err := r.sync(sc); err != nil {
		return err
	}

	uniform := cam.Uniform()
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: r.camera, Binding: 0, Data: uniform.Marshal()},
	})
	frustum := common.ExtractFrustum(mgl32.Mat4(uniform.ViewProj))

	var draws []drawItem
	if r.state.Background && r.background != nil {
		draws = append(draws, drawItem{PipelineBackground, r.background, true})
	}
	if r.state.Boxes && r.boxes != nil {
		r.instances = CullInstances(r.instances[:0], sc.Boxes(), &frustum)
		if err := r.backend.WriteInstances(r.boxes, model.MarshalInstances(r.instances), len(r.instances)); err != nil {
			return fmt.Errorf("failed to write box instances: %w", err)
		}
		if len(r.instances) > 0 {
			draws = append(draws, drawItem{PipelineMesh, r.boxes, false})
		}
	}
	var err error
	if r.state.Text {
		if draws, err = r.appendObjects(draws, sc.Texts(), &frustum); err != nil {
			return err
		}
	}
	if r.state.Model {
		if draws, err = r.appendObjects(draws, sc.ModelParts(), &frustum); err != nil {
			return err
		}
	}
	if r.state.Particles && r.particles != nil && r.particleCount > 0 {
		draws = append(draws, drawItem{PipelineParticles, r.particles, true})
	}

	if err := r.backend.BeginFrame(); err != nil {
		// Outdated or lost surfaces recover after a reconfigure.
		if cfgErr := r.backend.ConfigureSurface(r.width, r.height); cfgErr != nil {
			common.Logger().Warn("surface reconfigure failed", "error", cfgErr)
		}
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	for _, d := range draws {
		groups := []bind_group_provider.BindGroupProvider{r.camera}
		if d.textured {
			groups = append(groups, d.mesh)
		}
		r.backend.DrawCall(r.pipelines[d.pipeline], d.mesh, groups)
	}
	if err := r.backend.EndFrame(); err != nil {
		return fmt.Errorf("failed to end frame: %w", err)
	}
	r.backend.Present()
	return nil
}

// drawItem is one draw call of a frame. Textured items bind their own provider as group 1.
type drawItem struct {
	pipeline string
	mesh     bind_group_provider.BindGroupProvider
	textured bool
}

// appendObjects writes the model matrix of every visible object into its own instance buffer
// and queues a mesh draw for it.
func (r *renderer) appendObjects(draws []drawItem, objects []game_object.GameObject, frustum *common.Frustum) ([]drawItem, error) {
	for _, obj := range objects {
		provider, ok := r.meshes[obj.ID()]
		if !ok || !obj.Enabled() {
			continue
		}
		if !frustum.ContainsSphere(obj.Position(), obj.BoundingRadius()) {
			continue
		}
		data := model.MarshalInstances([]model.GPUInstance{instanceOf(obj)})
		if err := r.backend.WriteInstances(provider, data, 1); err != nil {
			return draws, fmt.Errorf("failed to write instance for %s: %w", provider.Label(), err)
		}
		draws = append(draws, drawItem{PipelineMesh, provider, false})
	}
	return draws, nil
}

// sync uploads scene resources that appeared or changed since the last frame.
func (r *renderer) sync(sc scene.Scene) error {
	if r.boxes == nil && sc.BoxMesh() != nil {
		p, err := r.uploadMesh("boxes", sc.BoxMesh())
		if err != nil {
			return err
		}
		r.boxes = p
		r.boxMesh = sc.BoxMesh()
	}

	if err := r.syncParticles(sc); err != nil {
		return err
	}
	if err := r.syncBackground(sc.Background()); err != nil {
		return err
	}

	for _, objects := range [][]game_object.GameObject{sc.Texts(), sc.ModelParts()} {
		for _, obj := range objects {
			if _, ok := r.meshes[obj.ID()]; ok || obj.Mesh() == nil {
				continue
			}
			p, err := r.uploadMesh(fmt.Sprintf("object %d %s", obj.ID(), obj.Mesh().Name), obj.Mesh())
			if err != nil {
				return err
			}
			r.meshes[obj.ID()] = p
		}
	}
	return nil
}

func (r *renderer) syncParticles(sc scene.Scene) error {
	if r.particles == nil {
		particles := sc.Particles()
		if len(particles) == 0 {
			return nil
		}
		p, err := r.uploadMesh("particles", model.NewQuad())
		if err != nil {
			return err
		}
		if err := r.backend.WriteInstances(p, model.MarshalParticles(particles), len(particles)); err != nil {
			p.Release()
			return fmt.Errorf("failed to write particles: %w", err)
		}
		if err := r.bindTexture(p, common.WhiteTexture(), common.SamplerStagingData{}); err != nil {
			p.Release()
			return err
		}
		r.particles = p
		r.particleCount = len(particles)
	}

	if sprite := sc.Sprite(); sprite != nil && sprite != r.spriteSource {
		if err := r.bindTexture(r.particles, sprite.Data, sprite.Sampler); err != nil {
			return err
		}
		r.spriteSource = sprite
		common.Logger().Info("particle sprite uploaded", "name", sprite.Name, "width", sprite.Data.Width, "height", sprite.Data.Height)
	}
	return nil
}

func (r *renderer) syncBackground(hdri *loader.HDRImage) error {
	if hdri == nil || hdri == r.backgroundSource {
		return nil
	}
	if r.background == nil {
		p, err := r.uploadMesh("background", fullscreenTriangle())
		if err != nil {
			return err
		}
		r.background = p
	}
	sampler := common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeRepeat,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
	}
	if err := r.bindTexture(r.background, hdri.ToneMapped(backgroundExposure), sampler); err != nil {
		return err
	}
	r.backgroundSource = hdri
	common.Logger().Info("background uploaded", "name", hdri.Name, "width", hdri.Width, "height", hdri.Height)
	return nil
}

func (r *renderer) uploadMesh(label string, mesh *model.Mesh) (bind_group_provider.BindGroupProvider, error) {
	p := bind_group_provider.NewBindGroupProvider(label)
	if err := r.backend.InitMeshBuffers(p, model.MarshalVertices(mesh.Vertices), model.MarshalIndices(mesh.Indices), len(mesh.Indices)); err != nil {
		p.Release()
		return nil, fmt.Errorf("failed to upload %s: %w", label, err)
	}
	return p, nil
}

func (r *renderer) bindTexture(p bind_group_provider.BindGroupProvider, data common.TextureStagingData, sampler common.SamplerStagingData) error {
	if err := r.backend.InitTextureView(p, 0, data); err != nil {
		return fmt.Errorf("failed to upload %s texture: %w", p.Label(), err)
	}
	if err := r.backend.InitSampler(p, 1, sampler); err != nil {
		return fmt.Errorf("failed to create %s sampler: %w", p.Label(), err)
	}
	if err := r.backend.InitBindGroup(p, textureLayout); err != nil {
		return fmt.Errorf("failed to bind %s texture: %w", p.Label(), err)
	}
	return nil
}

func (r *renderer) OnResize() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.initialized {
		return ErrNotInitialized
	}
	r.width, r.height = r.root.Width(), r.root.Height()
	if r.width <= 0 || r.height <= 0 {
		return nil
	}
	if err := r.backend.ConfigureSurface(r.width, r.height); err != nil {
		return fmt.Errorf("failed to configure surface: %w", err)
	}
	common.Logger().Debug("surface resized", "width", r.width, "height", r.height)
	return nil
}

func (r *renderer) OnKeydown(key uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.state.Toggle(key) {
		return
	}
	if key == common.KeyV {
		r.presentDirty = true
	}
	common.Logger().Info("render state toggled", "key", string(rune(key)), "state", fmt.Sprintf("%+v", r.state))
}

func (r *renderer) State() RenderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range []bind_group_provider.BindGroupProvider{r.camera, r.boxes, r.particles, r.background} {
		if p != nil {
			p.Release()
		}
	}
	for id, p := range r.meshes {
		p.Release()
		delete(r.meshes, id)
	}
	releasePipelines(r.pipelines)
	if r.backend != nil {
		r.backend.Release()
	}
	r.camera, r.boxes, r.particles, r.background = nil, nil, nil, nil
	r.backend = nil
	r.pipelines = nil
	r.initialized = false
}

func releasePipelines(pipelines map[string]pipeline.Pipeline) {
	for _, p := range pipelines {
		p.Release()
	}
}
