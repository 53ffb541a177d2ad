package camera

import (
	"errors"
	"sync"

	"github.com/Carmen-Shannon/oxy-showcase/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrNotInitialized is returned by Update and OnResize before Init.
var ErrNotInitialized = errors.New("camera: not initialized")

const (
	// DefaultFov is the vertical field of view in degrees.
	DefaultFov  float32 = 75
	DefaultNear float32 = 0.1
	DefaultFar  float32 = 100
)

// DefaultPosition is where the camera starts, and the resting point of the cursor drift.
var DefaultPosition = mgl32.Vec3{0, 0, 4}

// Surface is the render target the camera derives its aspect ratio from.
type Surface interface {
	Width() int
	Height() int
}

type cameraImpl struct {
	mu *sync.Mutex

	surface     Surface
	initialized bool

	position mgl32.Vec3
	up       mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	view           mgl32.Mat4
	projection     mgl32.Mat4
	viewProjection mgl32.Mat4
	inverseVP      mgl32.Mat4
}

// Camera owns a perspective projection looking down -Z from its position.
// The scene moves the camera by setting its position; Update folds that into the matrices.
type Camera interface {
	// Init binds the camera to a surface and computes the initial matrices.
	//
	// Parameters:
	//   - surface: the render target providing the viewport size
	//
	// Returns:
	//   - error: error if surface is nil
	Init(surface Surface) error

	// Update recomputes the view and projection matrices. Call once per frame.
	//
	// Returns:
	//   - error: ErrNotInitialized before Init
	Update() error

	// OnResize recomputes the aspect ratio from the surface. A zero height keeps
	// the previous aspect so a minimized window does not produce NaN matrices.
	//
	// Returns:
	//   - error: ErrNotInitialized before Init
	OnResize() error

	// Position returns the world-space camera position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition moves the camera. Matrices follow on the next Update.
	//
	// Parameters:
	//   - p: the new position
	SetPosition(p mgl32.Vec3)

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	ViewProjectionMatrix() [16]float32

	// Uniform packs the camera state for upload to the GPU.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform block
	Uniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera with a 75° field of view, near 0.1, far 100 and
// position (0, 0, 4). It must be initialized with a surface before use.
//
// Parameters:
//   - options: a variadic list of CameraBuilderOption functions to configure the camera
//
// Returns:
//   - Camera: the new camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		position: DefaultPosition,
		up:       mgl32.Vec3{0, 1, 0},
		fov:      mgl32.DegToRad(DefaultFov),
		aspect:   1,
		near:     DefaultNear,
		far:      DefaultFar,
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Init(surface Surface) error {
	if surface == nil {
		return errors.New("camera: nil surface")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.surface = surface
	c.initialized = true
	c.updateAspect()
	c.updateMatrices()
	common.Logger().Info("camera initialized", "aspect", c.aspect, "fov", mgl32.RadToDeg(c.fov))
	return nil
}

func (c *cameraImpl) Update() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return ErrNotInitialized
	}
	c.updateMatrices()
	return nil
}

func (c *cameraImpl) OnResize() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return ErrNotInitialized
	}
	c.updateAspect()
	c.updateMatrices()
	return nil
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(p mgl32.Vec3) {
	c.mu.Lock()
	c.position = p
	c.mu.Unlock()
}

func (c *cameraImpl) Fov() float32 {
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	return c.near
}

func (c *cameraImpl) Far() float32 {
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjection
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj:       c.viewProjection,
		View:           c.view,
		InvViewProj:    c.inverseVP,
		CameraPosition: c.position,
	}
}

// updateAspect must be called with mu held.
func (c *cameraImpl) updateAspect() {
	w, h := c.surface.Width(), c.surface.Height()
	if w <= 0 || h <= 0 {
		return
	}
	c.aspect = float32(w) / float32(h)
}

// updateMatrices must be called with mu held.
func (c *cameraImpl) updateMatrices() {
	c.view = mgl32.LookAtV(c.position, c.position.Add(mgl32.Vec3{0, 0, -1}), c.up)
	c.projection = common.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjection = c.projection.Mul4(c.view)
	c.inverseVP = c.viewProjection.Inv()
}
