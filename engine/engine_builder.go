package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-showcase/engine/camera"
	"github.com/Carmen-Shannon/oxy-showcase/engine/clock"
	"github.com/Carmen-Shannon/oxy-showcase/engine/events"
	"github.com/Carmen-Shannon/oxy-showcase/engine/loader"
	"github.com/Carmen-Shannon/oxy-showcase/engine/profiler"
	"github.com/Carmen-Shannon/oxy-showcase/engine/renderer"
	"github.com/Carmen-Shannon/oxy-showcase/engine/scene"
)

// AppBuilderOption is a functional option for configuring an App.
// Use the With* functions to create options that are applied directly to the app instance.
type AppBuilderOption func(*app)

// WithProfiling enables or disables performance statistics on the frame bus.
//
// Parameters:
//   - enabled: if true, a profiler is created and subscribed during Init
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithProfiling(enabled bool) AppBuilderOption {
	return func(a *app) {
		a.profilingEnabled = enabled
	}
}

// WithProfiler sets the profiler subscribed to the frame bus.
//
// Parameters:
//   - p: the profiler
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) AppBuilderOption {
	return func(a *app) {
		a.profiler = p
	}
}

// WithClock sets the frame clock. The default scene shares it. The default clock reports
// unbounded deltas; pass one built with clock.WithMaxDelta to cap them.
//
// Parameters:
//   - c: the clock
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithClock(c clock.Clock) AppBuilderOption {
	return func(a *app) {
		a.clock = c
	}
}

// WithLoader sets the asset loader used by the default scene.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithLoader(l loader.Loader) AppBuilderOption {
	return func(a *app) {
		a.loader = l
	}
}

// WithCamera sets the camera.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithCamera(c camera.Camera) AppBuilderOption {
	return func(a *app) {
		a.camera = c
	}
}

// WithScene sets the scene. Scene options are ignored when a scene is supplied, and asset
// failures reach Errors() only if the scene was built with scene.WithReporter(NewErrorReporter(bus))
// on the bus passed to WithErrorBus.
//
// Parameters:
//   - s: the scene
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithScene(s scene.Scene) AppBuilderOption {
	return func(a *app) {
		a.scene = s
	}
}

// WithSceneOptions appends options for the default scene.
//
// Parameters:
//   - options: scene options, applied after the app's clock, loader and reporter
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithSceneOptions(options ...scene.SceneBuilderOption) AppBuilderOption {
	return func(a *app) {
		a.sceneOptions = append(a.sceneOptions, options...)
	}
}

// WithRenderer sets the renderer.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) AppBuilderOption {
	return func(a *app) {
		a.renderer = r
	}
}

// WithRendererOptions appends options for the default renderer.
//
// Parameters:
//   - options: renderer options
//
// Returns:
//   - AppBuilderOption: option function to apply
func WithRendererOptions(options ...renderer.RendererBuilderOption) AppBuilderOption {
	return func(a *app) {
		a.rendererOptions = append(a.rendererOptions, options...)
	}
}

// WithFrameBus sets the per-frame bus.
func WithFrameBus(b events.Bus[events.FrameEvent]) AppBuilderOption {
	return func(a *app) {
		a.frames = b
	}
}

// WithErrorBus sets the error bus.
func WithErrorBus(b events.Bus[events.ErrorEvent]) AppBuilderOption {
	return func(a *app) {
		a.errs = b
	}
}

// WithTimeSource replaces time.Now for frame event timestamps and the default clock.
func WithTimeSource(now func() time.Time) AppBuilderOption {
	return func(a *app) {
		if now != nil {
			a.now = now
		}
	}
}
