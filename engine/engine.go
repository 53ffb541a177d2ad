package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-showcase/common"
	"github.com/Carmen-Shannon/oxy-showcase/engine/camera"
	"github.com/Carmen-Shannon/oxy-showcase/engine/clock"
	"github.com/Carmen-Shannon/oxy-showcase/engine/events"
	"github.com/Carmen-Shannon/oxy-showcase/engine/loader"
	"github.com/Carmen-Shannon/oxy-showcase/engine/profiler"
	"github.com/Carmen-Shannon/oxy-showcase/engine/renderer"
	"github.com/Carmen-Shannon/oxy-showcase/engine/scene"
	"github.com/Carmen-Shannon/oxy-showcase/engine/window"
)

// ErrNotInitialized is returned by Animate and Run before Init.
var ErrNotInitialized = errors.New("engine: not initialized")

// app implements the App interface.
type app struct {
	mu *sync.Mutex

	clock    clock.Clock
	frames   events.Bus[events.FrameEvent]
	errs     events.Bus[events.ErrorEvent]
	loader   loader.Loader
	camera   camera.Camera
	scene    scene.Scene
	renderer renderer.Renderer
	profiler *profiler.Profiler

	sceneOptions     []scene.SceneBuilderOption
	rendererOptions  []renderer.RendererBuilderOption
	profilingEnabled bool
	now              func() time.Time

	root        window.Window
	initialized bool
	frame       uint64
	quitOnce    sync.Once
}

// App owns the component graph of the showcase. It initializes the renderer, camera and scene in
// that order, drives one Scene → Camera → Renderer update per frame, and forwards window input to
// the component that owns it.
type App interface {
	// Init initializes the renderer on root, then the camera on the renderer's surface, then the
	// scene on the camera, and registers the window callbacks. A second call is a no-op. The
	// renderer is released when a later step fails.
	//
	// Parameters:
	//   - root: the window to draw into
	//
	// Returns:
	//   - error: the first component initialization error
	Init(root window.Window) error

	// Animate runs one frame: publishes a FrameEvent, then updates the scene, the camera and the
	// renderer in that order. A failing step is published on the error bus and stops the frame.
	//
	// Returns:
	//   - error: ErrNotInitialized before Init, or the failing step's error
	Animate() error

	// OnResize resizes the renderer's surface, then the camera's aspect ratio.
	OnResize()

	// OnKeydown forwards key to the renderer.
	//
	// Parameters:
	//   - key: the key code from the window
	OnKeydown(key uint32)

	// OnMouseMove forwards the pointer position and the window size to the scene.
	//
	// Parameters:
	//   - x, y: the pointer position in pixels from the top-left corner
	OnMouseMove(x, y float64)

	// Run blocks on the window message loop, animating every iteration, until the window closes.
	// GPU resources are released and the window is closed on return.
	//
	// Returns:
	//   - error: ErrNotInitialized before Init
	Run() error

	// Quit closes the window. Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// Frames returns the per-frame bus. Subscribers run on the window thread before the scene updates.
	Frames() events.Bus[events.FrameEvent]

	// Errors returns the bus non-fatal failures are published on.
	Errors() events.Bus[events.ErrorEvent]

	// Clock returns the frame clock.
	Clock() clock.Clock

	// Camera returns the camera.
	Camera() camera.Camera

	// Scene returns the scene.
	Scene() scene.Scene

	// Renderer returns the renderer.
	Renderer() renderer.Renderer
}

var _ App = &app{}

// NewApp builds the component graph. Collaborators not supplied through options are created with
// their defaults; the default scene shares the app's clock and loader and reports asset failures
// on the error bus.
//
// Parameters:
//   - options: functional options for app configuration
//
// Returns:
//   - App: the new app
func NewApp(options ...AppBuilderOption) App {
	a := &app{
		mu:  &sync.Mutex{},
		now: time.Now,
	}
	for _, opt := range options {
		opt(a)
	}

	if a.clock == nil {
		a.clock = clock.NewClock(clock.WithTimeSource(a.now))
	}
	if a.frames == nil {
		a.frames = events.NewBus[events.FrameEvent]()
	}
	if a.errs == nil {
		a.errs = events.NewBus[events.ErrorEvent]()
	}
	if a.loader == nil {
		a.loader = loader.NewLoader()
	}
	if a.camera == nil {
		a.camera = camera.NewCamera()
	}
	if a.scene == nil {
		opts := []scene.SceneBuilderOption{
			scene.WithClock(a.clock),
			scene.WithLoader(a.loader),
			scene.WithReporter(NewErrorReporter(a.errs)),
		}
		a.scene = scene.NewScene(append(opts, a.sceneOptions...)...)
	}
	if a.renderer == nil {
		a.renderer = renderer.NewRenderer(a.rendererOptions...)
	}
	if a.profiler == nil && a.profilingEnabled {
		a.profiler = profiler.NewProfiler()
	}
	return a
}

// NewErrorReporter returns a scene reporter that publishes asset failures on errs with source
// "scene". A scene passed to WithScene reports to the app's error bus when it is built with
// scene.WithReporter(NewErrorReporter(bus)) and the app with WithErrorBus(bus).
//
// Parameters:
//   - errs: the bus to publish on
//
// Returns:
//   - scene.ErrorReporter: the reporter
func NewErrorReporter(errs events.Bus[events.ErrorEvent]) scene.ErrorReporter {
	return scene.ReporterFunc(func(source string, err error) {
		errs.Publish(events.ErrorEvent{Source: "scene", Err: fmt.Errorf("%s: %w", source, err)})
	})
}

func (a *app) Init(root window.Window) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initialized {
		return nil
	}
	if root == nil {
		return errors.New("engine: nil window")
	}

	if err := a.renderer.Init(root); err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	if err := a.camera.Init(a.renderer.Surface()); err != nil {
		a.renderer.Release()
		return fmt.Errorf("failed to initialize camera: %w", err)
	}
	if err := a.scene.Init(a.camera); err != nil {
		a.renderer.Release()
		return fmt.Errorf("failed to initialize scene: %w", err)
	}

	a.frames.Subscribe(func(events.FrameEvent) { a.clock.Tick() })
	if a.profiler != nil {
		a.profiler.Subscribe(a.frames)
	}
	a.errs.Subscribe(func(ev events.ErrorEvent) {
		common.Logger().Warn("component failed", "source", ev.Source, "error", ev.Err)
	})

	root.SetResizeCallback(func(int, int) { a.OnResize() })
	root.SetKeyDownCallback(a.OnKeydown)
	root.SetMouseMoveCallback(a.OnMouseMove)
	root.SetUpdateCallback(func() { _ = a.Animate() })

	a.root = root
	a.initialized = true
	common.Logger().Info("app initialized", "title", root.Title(), "width", root.Width(), "height", root.Height())
	return nil
}

func (a *app) Animate() error {
	a.mu.Lock()
	if !a.initialized {
		a.mu.Unlock()
		return ErrNotInitialized
	}
	a.frame++
	ev := events.FrameEvent{Frame: a.frame, Time: a.now()}
	a.mu.Unlock()

	a.frames.Publish(ev)

	if err := a.scene.Update(); err != nil {
		return a.report("scene", err)
	}
	if err := a.camera.Update(); err != nil {
		return a.report("camera", err)
	}
	if err := a.renderer.Update(a.scene, a.camera); err != nil {
		return a.report("renderer", err)
	}
	return nil
}

func (a *app) report(source string, err error) error {
	a.errs.Publish(events.ErrorEvent{Source: source, Err: err})
	return fmt.Errorf("failed to update %s: %w", source, err)
}

func (a *app) OnResize() {
	if err := a.renderer.OnResize(); err != nil {
		a.errs.Publish(events.ErrorEvent{Source: "renderer", Err: err})
	}
	if err := a.camera.OnResize(); err != nil {
		a.errs.Publish(events.ErrorEvent{Source: "camera", Err: err})
	}
}

func (a *app) OnKeydown(key uint32) {
	a.renderer.OnKeydown(key)
}

func (a *app) OnMouseMove(x, y float64) {
	a.mu.Lock()
	root := a.root
	a.mu.Unlock()
	if root == nil {
		return
	}
	a.scene.OnMouseMove(x, y, root.Width(), root.Height())
}

func (a *app) Run() error {
	a.mu.Lock()
	root := a.root
	a.mu.Unlock()
	if root == nil {
		return ErrNotInitialized
	}

	root.ProcessMessages()
	a.renderer.Release()
	a.Quit()
	common.Logger().Info("app stopped", "frames", a.clock.Ticks())
	return nil
}

func (a *app) Quit() {
	a.quitOnce.Do(func() {
		a.mu.Lock()
		root := a.root
		a.mu.Unlock()
		if root == nil {
			return
		}
		if err := root.Close(); err != nil {
			common.Logger().Debug("window close", "error", err)
		}
	})
}

func (a *app) Frames() events.Bus[events.FrameEvent] {
	return a.frames
}

func (a *app) Errors() events.Bus[events.ErrorEvent] {
	return a.errs
}

func (a *app) Clock() clock.Clock {
	return a.clock
}

func (a *app) Camera() camera.Camera {
	return a.camera
}

func (a *app) Scene() scene.Scene {
	return a.scene
}

func (a *app) Renderer() renderer.Renderer {
	return a.renderer
}
