package scene

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/Carmen-Shannon/oxy-showcase/common"
	"github.com/Carmen-Shannon/oxy-showcase/engine/camera"
	"github.com/Carmen-Shannon/oxy-showcase/engine/clock"
	"github.com/Carmen-Shannon/oxy-showcase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-showcase/engine/loader"
	"github.com/Carmen-Shannon/oxy-showcase/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrNotInitialized is returned by Update before Init.
	ErrNotInitialized = errors.New("scene: not initialized")
	// ErrAlreadyInitialized is returned by a second Init.
	ErrAlreadyInitialized = errors.New("scene: already initialized")
)

const (
	DefaultParticleCount = 1000
	DefaultBoxCount      = 100

	// FieldExtent is the half extent of the cube particles and boxes are scattered in.
	FieldExtent float32 = 10

	MinBoxScale float32 = 0.3
	MaxBoxScale float32 = 0.6

	// DriftFactor is the per-frame interpolation factor pulling the camera toward the
	// cursor target. It is applied once per Update regardless of frame time.
	DriftFactor float32 = 0.02
	// DriftRange scales the normalized cursor into world units.
	DriftRange float32 = 5
	// DriftDepth is the camera z the drift target sits on.
	DriftDepth float32 = 4

	// RotationSpeed is the box spin in radians per second on every axis.
	RotationSpeed float32 = 0.1
)

// TextLine is a string rendered as an extruded text mesh at a fixed position.
type TextLine struct {
	Text     string
	Size     float32
	Position mgl32.Vec3
}

// DefaultTextLines are the two name lines placed above and below the origin.
var DefaultTextLines = []TextLine{
	{Text: "Soumak", Size: 1, Position: mgl32.Vec3{0, 0.6, 0}},
	{Text: "Dutta", Size: 1, Position: mgl32.Vec3{0, -0.6, 0}},
}

// ErrorReporter receives asset failures the scene recovers from.
type ErrorReporter interface {
	Report(source string, err error)
}

// ReporterFunc adapts a function to ErrorReporter.
type ReporterFunc func(source string, err error)

func (f ReporterFunc) Report(source string, err error) {
	f(source, err)
}

// pending is an asset request still in flight. poll returns true once the
// request is resolved, successfully or not, and should be dropped.
type pending struct {
	source string
	poll   func() (bool, error)
}

type scene struct {
	mu *sync.Mutex

	loader   loader.Loader
	clock    clock.Clock
	reporter ErrorReporter
	rng      *rand.Rand

	particleCount int
	boxCount      int
	fontPath      string
	textLines     []TextLine
	hdriPath      string
	spritePath    string
	modelPath     string

	initialized bool
	camera      camera.Camera
	cursor      mgl32.Vec2

	particles  []model.GPUParticle
	boxMesh    *model.Mesh
	boxes      []game_object.GameObject
	texts      []game_object.GameObject
	modelParts []game_object.GameObject
	background *loader.HDRImage
	sprite     *loader.Texture

	pending []pending
}

// Scene owns the renderable objects of the showcase: a particle cloud, a group of
// spinning boxes, extruded text lines and optional imported assets. It drifts the
// camera toward the cursor every frame.
//
// All methods are safe to call from multiple goroutines, though the app calls
// them from the window thread only.
type Scene interface {
	// Init builds the particles and boxes and requests the text lines and optional assets.
	//
	// Parameters:
	//   - cam: the camera the scene drifts
	//
	// Returns:
	//   - error: ErrAlreadyInitialized on a second call, or an error if cam is nil
	Init(cam camera.Camera) error

	// OnMouseMove records the cursor in normalized coordinates: x grows to the
	// right and y grows upward, both in [-0.5, 0.5] inside the viewport.
	// A zero-sized viewport is ignored.
	//
	// Parameters:
	//   - x, y: the pointer position in pixels from the top-left corner
	//   - width, height: the viewport size in pixels
	OnMouseMove(x, y float64, width, height int)

	// Update materializes finished asset requests, drifts the camera toward the
	// cursor target and spins every box by the clock delta.
	//
	// Returns:
	//   - error: ErrNotInitialized before Init
	Update() error

	// Cursor returns the normalized cursor.
	Cursor() mgl32.Vec2

	// Particles returns the particle positions.
	Particles() []model.GPUParticle

	// BoxMesh returns the unit cube shared by every box.
	BoxMesh() *model.Mesh

	// Boxes returns the box objects.
	Boxes() []game_object.GameObject

	// Texts returns the text meshes that have finished loading, in arrival order.
	Texts() []game_object.GameObject

	// ModelParts returns the parts of the imported model, empty until it loads.
	ModelParts() []game_object.GameObject

	// Background returns the environment map, nil until it loads or if none was requested.
	Background() *loader.HDRImage

	// Sprite returns the particle sprite texture, nil until it loads or if none was requested.
	Sprite() *loader.Texture

	// Pending returns the number of asset requests still in flight.
	Pending() int
}

var _ Scene = &scene{}

// NewScene creates an uninitialized scene.
//
// Parameters:
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:            &sync.Mutex{},
		particleCount: DefaultParticleCount,
		boxCount:      DefaultBoxCount,
		textLines:     DefaultTextLines,
	}
	for _, option := range options {
		option(s)
	}
	if s.clock == nil {
		s.clock = clock.NewClock()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.reporter == nil {
		s.reporter = ReporterFunc(func(source string, err error) {
			common.Logger().Warn("scene asset failed", "source", source, "error", err)
		})
	}
	return s
}

func (s *scene) Init(cam camera.Camera) error {
	if cam == nil {
		return fmt.Errorf("scene: nil camera")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return ErrAlreadyInitialized
	}
	if s.loader == nil {
		s.loader = loader.NewLoader()
	}

	s.camera = cam
	s.addParticles()
	s.addBoxes()
	for _, line := range s.textLines {
		s.addText(line)
	}
	if s.hdriPath != "" {
		s.addBackground(s.hdriPath)
	}
	if s.spritePath != "" {
		s.addSprite(s.spritePath)
	}
	if s.modelPath != "" {
		s.addModel(s.modelPath)
	}
	s.initialized = true

	common.Logger().Info("scene initialized",
		"particles", len(s.particles), "boxes", len(s.boxes), "pending", len(s.pending))
	return nil
}

func (s *scene) addParticles() {
	s.particles = make([]model.GPUParticle, s.particleCount)
	for i := range s.particles {
		s.particles[i].Position = [3]float32{
			common.RandRange(s.rng, -FieldExtent, FieldExtent),
			common.RandRange(s.rng, -FieldExtent, FieldExtent),
			common.RandRange(s.rng, -FieldExtent, FieldExtent),
		}
	}
}

func (s *scene) addBoxes() {
	s.boxMesh = model.NewBox(1, 1, 1)
	s.boxMesh.Name = "box"
	s.boxes = make([]game_object.GameObject, 0, s.boxCount)
	for range s.boxCount {
		position := mgl32.Vec3{
			common.RandRange(s.rng, -FieldExtent, FieldExtent),
			common.RandRange(s.rng, -FieldExtent, FieldExtent),
			common.RandRange(s.rng, -FieldExtent, FieldExtent),
		}
		rotation := mgl32.Vec3{
			common.RandRange(s.rng, 0, common.TwoPi),
			common.RandRange(s.rng, 0, common.TwoPi),
			common.RandRange(s.rng, 0, common.TwoPi),
		}
		s.boxes = append(s.boxes, game_object.NewGameObject(
			game_object.WithMesh(s.boxMesh),
			game_object.WithPosition(position),
			game_object.WithRotation(rotation),
			game_object.WithUniformScale(common.RandRange(s.rng, MinBoxScale, MaxBoxScale)),
		))
	}
}

// addText requests the font for one line. Each line carries its own position so
// the final layout does not depend on which font load finishes first.
func (s *scene) addText(line TextLine) {
	future := s.loader.LoadFont(s.fontPath)
	s.pending = append(s.pending, pending{
		source: "text " + line.Text,
		poll: func() (bool, error) {
			f, err, ok := future.Poll()
			if !ok {
				return false, nil
			}
			if err != nil {
				return true, err
			}
			mesh, err := model.NewTextMesh(f, line.Text, model.TextOptions{
				Size:           line.Size,
				BevelThickness: 0.03,
				BevelSize:      0.02,
			})
			if err != nil {
				return true, fmt.Errorf("failed to build text mesh: %w", err)
			}
			s.texts = append(s.texts, game_object.NewGameObject(
				game_object.WithMesh(mesh),
				game_object.WithPosition(line.Position),
			))
			return true, nil
		},
	})
}

func (s *scene) addBackground(path string) {
	future := s.loader.LoadHDRI(path)
	s.pending = append(s.pending, pending{
		source: "hdri " + path,
		poll: func() (bool, error) {
			img, err, ok := future.Poll()
			if ok && err == nil {
				s.background = img
			}
			return ok, err
		},
	})
}

func (s *scene) addSprite(path string) {
	future := s.loader.LoadTexture(path)
	s.pending = append(s.pending, pending{
		source: "sprite " + path,
		poll: func() (bool, error) {
			tex, err, ok := future.Poll()
			if ok && err == nil {
				s.sprite = tex
			}
			return ok, err
		},
	})
}

func (s *scene) addModel(path string) {
	future := s.loader.LoadModel(path)
	s.pending = append(s.pending, pending{
		source: "model " + path,
		poll: func() (bool, error) {
			mdl, err, ok := future.Poll()
			if !ok || err != nil {
				return ok, err
			}
			for _, part := range mdl.Parts() {
				s.modelParts = append(s.modelParts, game_object.NewGameObject(
					game_object.WithMesh(part.Mesh),
					game_object.WithBaseTransform(part.Transform),
				))
			}
			return true, nil
		},
	})
}

func (s *scene) OnMouseMove(x, y float64, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	s.cursor = mgl32.Vec2{
		float32(x/float64(width) - 0.5),
		float32(-(y/float64(height) - 0.5)),
	}
	s.mu.Unlock()
}

func (s *scene) Update() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ErrNotInitialized
	}

	s.resolvePending()

	target := mgl32.Vec3{s.cursor.X() * DriftRange, s.cursor.Y() * DriftRange, DriftDepth}
	s.camera.SetPosition(common.Lerp3(s.camera.Position(), target, DriftFactor))

	step := s.clock.Delta() * RotationSpeed
	spin := mgl32.Vec3{step, step, step}
	for _, box := range s.boxes {
		box.Rotate(spin)
	}
	return nil
}

// resolvePending must be called with mu held.
func (s *scene) resolvePending() {
	if len(s.pending) == 0 {
		return
	}
	remaining := s.pending[:0]
	for _, p := range s.pending {
		done, err := p.poll()
		if err != nil {
			s.reporter.Report(p.source, err)
		}
		if !done {
			remaining = append(remaining, p)
		}
	}
	clear(s.pending[len(remaining):])
	s.pending = remaining
}

func (s *scene) Cursor() mgl32.Vec2 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

func (s *scene) Particles() []model.GPUParticle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.particles
}

func (s *scene) BoxMesh() *model.Mesh {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boxMesh
}

func (s *scene) Boxes() []game_object.GameObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boxes
}

func (s *scene) Texts() []game_object.GameObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.texts
}

func (s *scene) ModelParts() []game_object.GameObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modelParts
}

func (s *scene) Background() *loader.HDRImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.background
}

func (s *scene) Sprite() *loader.Texture {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sprite
}

func (s *scene) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
