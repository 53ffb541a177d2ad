package engine

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-showcase/common"
	"github.com/Carmen-Shannon/oxy-showcase/engine/camera"
	"github.com/Carmen-Shannon/oxy-showcase/engine/clock"
	"github.com/Carmen-Shannon/oxy-showcase/engine/events"
	"github.com/Carmen-Shannon/oxy-showcase/engine/renderer"
	"github.com/Carmen-Shannon/oxy-showcase/engine/scene"
	"github.com/Carmen-Shannon/oxy-showcase/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

type callLog struct{ calls []string }

func (l *callLog) add(s string) { l.calls = append(l.calls, s) }

type fakeWindow struct {
	w, h     int
	closed   int
	update   func()
	resize   func(int, int)
	keyDown  func(uint32)
	mouse    func(float64, float64)
	loopRuns int
}

func (w *fakeWindow) SetUpdateCallback(cb func())                    { w.update = cb }
func (w *fakeWindow) SetResizeCallback(cb func(int, int))            { w.resize = cb }
func (w *fakeWindow) SetKeyDownCallback(cb func(uint32))             { w.keyDown = cb }
func (w *fakeWindow) SetMouseMoveCallback(cb func(float64, float64)) { w.mouse = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor     { return nil }
func (w *fakeWindow) IsRunning() bool                                { return w.closed == 0 }
func (w *fakeWindow) Width() int                                     { return w.w }
func (w *fakeWindow) Height() int                                    { return w.h }
func (w *fakeWindow) Title() string                                  { return "test" }

func (w *fakeWindow) Close() error {
	w.closed++
	if w.closed > 1 {
		return window.ErrClosed
	}
	return nil
}

// ProcessMessages runs the update callback a fixed number of times.
func (w *fakeWindow) ProcessMessages() {
	for i := 0; i < w.loopRuns; i++ {
		if w.update != nil {
			w.update()
		}
	}
}

var _ window.Window = &fakeWindow{}

type fakeRenderer struct {
	log       *callLog
	root      window.Window
	initErr   error
	updateErr error
	keys      []uint32
	released  bool
}

func (r *fakeRenderer) Init(root window.Window) error {
	r.log.add("renderer.Init")
	if r.initErr != nil {
		return r.initErr
	}
	r.root = root
	return nil
}

func (r *fakeRenderer) Surface() window.Window { return r.root }

func (r *fakeRenderer) Update(scene.Scene, camera.Camera) error {
	r.log.add("renderer.Update")
	return r.updateErr
}

func (r *fakeRenderer) OnResize() error {
	r.log.add("renderer.OnResize")
	return nil
}

func (r *fakeRenderer) OnKeydown(key uint32)          { r.keys = append(r.keys, key) }
func (r *fakeRenderer) State() renderer.RenderState { return renderer.DefaultRenderState(true) }
func (r *fakeRenderer) Release()                    { r.released = true }

var _ renderer.Renderer = &fakeRenderer{}

type fakeCamera struct {
	camera.Camera
	log *callLog
}

func (c *fakeCamera) Init(s camera.Surface) error {
	c.log.add("camera.Init")
	return c.Camera.Init(s)
}

func (c *fakeCamera) Update() error {
	c.log.add("camera.Update")
	return c.Camera.Update()
}

func (c *fakeCamera) OnResize() error {
	c.log.add("camera.OnResize")
	return c.Camera.OnResize()
}

type fakeScene struct {
	scene.Scene
	log     *callLog
	initErr error
	moves   [][4]float64
}

func (s *fakeScene) Init(camera.Camera) error {
	s.log.add("scene.Init")
	return s.initErr
}

func (s *fakeScene) Update() error {
	s.log.add("scene.Update")
	return nil
}

func (s *fakeScene) OnMouseMove(x, y float64, w, h int) {
	s.moves = append(s.moves, [4]float64{x, y, float64(w), float64(h)})
}

type fixture struct {
	app      App
	log      *callLog
	win      *fakeWindow
	renderer *fakeRenderer
	scene    *fakeScene
	clockNow time.Time
}

func newFixture(t *testing.T, options ...AppBuilderOption) *fixture {
	t.Helper()
	f := &fixture{
		log:      &callLog{},
		win:      &fakeWindow{w: 800, h: 600},
		clockNow: time.Unix(0, 0),
	}
	f.renderer = &fakeRenderer{log: f.log}
	f.scene = &fakeScene{log: f.log}
	step := func() time.Time {
		f.clockNow = f.clockNow.Add(16 * time.Millisecond)
		return f.clockNow
	}
	base := []AppBuilderOption{
		WithRenderer(f.renderer),
		WithScene(f.scene),
		WithCamera(&fakeCamera{Camera: camera.NewCamera(), log: f.log}),
		WithClock(clock.NewClock(clock.WithTimeSource(step))),
	}
	f.app = NewApp(append(base, options...)...)
	return f
}

func TestAppInitOrder(t *testing.T) {
	f := newFixture(t)
	if err := f.app.Init(f.win); err != nil {
		t.Fatalf("Init: %v", err)
	}
	want := []string{"renderer.Init", "camera.Init", "scene.Init"}
	if !reflect.DeepEqual(f.log.calls, want) {
		t.Errorf("expected %v, got %v", want, f.log.calls)
	}
	if f.app.Camera().Aspect() != 800.0/600.0 {
		t.Errorf("camera should use the renderer surface, aspect %v", f.app.Camera().Aspect())
	}
}

func TestAppInitIdempotent(t *testing.T) {
	f := newFixture(t)
	if err := f.app.Init(f.win); err != nil {
		t.Fatalf("Init: %v", err)
	}
	frames := f.app.Frames().Len()
	if err := f.app.Init(f.win); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if len(f.log.calls) != 3 {
		t.Errorf("second Init should not re-initialize components, got %v", f.log.calls)
	}
	if f.app.Frames().Len() != frames {
		t.Error("second Init should not register listeners again")
	}
}

func TestAppInitErrors(t *testing.T) {
	f := newFixture(t)
	if err := f.app.Init(nil); err == nil {
		t.Error("expected an error for a nil window")
	}

	sentinel := errors.New("no adapter")
	f.renderer.initErr = sentinel
	if err := f.app.Init(f.win); !errors.Is(err, sentinel) {
		t.Errorf("expected the renderer error, got %v", err)
	}
	if err := f.app.Animate(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("a failed Init should leave the app uninitialized, got %v", err)
	}
}

func TestAppInitReleasesRendererOnFailure(t *testing.T) {
	f := newFixture(t)
	sentinel := errors.New("font missing")
	f.scene.initErr = sentinel
	if err := f.app.Init(f.win); !errors.Is(err, sentinel) {
		t.Fatalf("expected the scene error, got %v", err)
	}
	if !f.renderer.released {
		t.Error("a failed scene Init should release the renderer")
	}
}

func TestAppAnimateOrder(t *testing.T) {
	f := newFixture(t)
	var frames []uint64
	f.app.Frames().Subscribe(func(ev events.FrameEvent) {
		frames = append(frames, ev.Frame)
		f.log.add("frame")
	})
	if err := f.app.Animate(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized before Init, got %v", err)
	}
	if err := f.app.Init(f.win); err != nil {
		t.Fatalf("Init: %v", err)
	}
	f.log.calls = nil

	for i := 0; i < 2; i++ {
		if err := f.app.Animate(); err != nil {
			t.Fatalf("Animate: %v", err)
		}
	}
	want := []string{
		"frame", "scene.Update", "camera.Update", "renderer.Update",
		"frame", "scene.Update", "camera.Update", "renderer.Update",
	}
	if !reflect.DeepEqual(f.log.calls, want) {
		t.Errorf("expected %v, got %v", want, f.log.calls)
	}
	if !reflect.DeepEqual(frames, []uint64{1, 2}) {
		t.Errorf("frame numbers: got %v", frames)
	}
	if got := f.app.Clock().Ticks(); got != 2 {
		t.Errorf("the clock should tick once per frame, got %d", got)
	}
}

func TestAppAnimateReportsErrors(t *testing.T) {
	f := newFixture(t)
	if err := f.app.Init(f.win); err != nil {
		t.Fatalf("Init: %v", err)
	}
	var got []events.ErrorEvent
	f.app.Errors().Subscribe(func(ev events.ErrorEvent) { got = append(got, ev) })

	sentinel := errors.New("device lost")
	f.renderer.updateErr = sentinel
	if err := f.app.Animate(); !errors.Is(err, sentinel) {
		t.Errorf("expected the renderer error, got %v", err)
	}
	if len(got) != 1 || got[0].Source != "renderer" || !errors.Is(got[0].Err, sentinel) {
		t.Errorf("expected one renderer error event, got %+v", got)
	}
}

func TestAppInputRouting(t *testing.T) {
	f := newFixture(t)
	if err := f.app.Init(f.win); err != nil {
		t.Fatalf("Init: %v", err)
	}
	f.log.calls = nil

	f.win.resize(1024, 768)
	want := []string{"renderer.OnResize", "camera.OnResize"}
	if !reflect.DeepEqual(f.log.calls, want) {
		t.Errorf("resize: expected %v, got %v", want, f.log.calls)
	}

	f.win.keyDown(common.KeyP)
	if !reflect.DeepEqual(f.renderer.keys, []uint32{common.KeyP}) {
		t.Errorf("keydown should reach the renderer, got %v", f.renderer.keys)
	}

	f.win.w, f.win.h = 1024, 768
	f.win.mouse(512, 384)
	if len(f.scene.moves) != 1 || f.scene.moves[0] != [4]float64{512, 384, 1024, 768} {
		t.Errorf("mousemove should reach the scene with the window size, got %v", f.scene.moves)
	}
}

func TestAppRunAndQuit(t *testing.T) {
	f := newFixture(t)
	if err := f.app.Run(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized before Init, got %v", err)
	}
	if err := f.app.Init(f.win); err != nil {
		t.Fatalf("Init: %v", err)
	}
	f.win.loopRuns = 3
	if err := f.app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.app.Clock().Ticks() != 3 {
		t.Errorf("expected 3 frames, got %d", f.app.Clock().Ticks())
	}
	if !f.renderer.released {
		t.Error("Run should release the renderer")
	}

	if f.win.closed != 1 {
		t.Errorf("Run should close the window, closed %d times", f.win.closed)
	}

	f.app.Quit()
	f.app.Quit()
	if f.win.closed != 1 {
		t.Errorf("Quit after Run should not close the window again, closed %d times", f.win.closed)
	}
}

func TestAppQuitDuringRun(t *testing.T) {
	f := newFixture(t)
	if err := f.app.Init(f.win); err != nil {
		t.Fatalf("Init: %v", err)
	}
	f.app.Frames().Subscribe(func(ev events.FrameEvent) {
		if ev.Frame == 1 {
			f.app.Quit()
		}
	})
	f.win.loopRuns = 1
	if err := f.app.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.win.closed != 1 {
		t.Errorf("the window should close exactly once, closed %d times", f.win.closed)
	}
}

func TestNewErrorReporter(t *testing.T) {
	bus := events.NewBus[events.ErrorEvent]()
	f := newFixture(t, WithErrorBus(bus))
	var got []events.ErrorEvent
	f.app.Errors().Subscribe(func(ev events.ErrorEvent) { got = append(got, ev) })

	sentinel := errors.New("sprite missing")
	NewErrorReporter(bus).Report("sprite", sentinel)
	if len(got) != 1 || got[0].Source != "scene" || !errors.Is(got[0].Err, sentinel) {
		t.Errorf("expected one scene error event, got %+v", got)
	}
}

func TestNewAppDefaults(t *testing.T) {
	a := NewApp(WithProfiling(true)).(*app)
	if a.clock == nil || a.frames == nil || a.errs == nil || a.loader == nil || a.camera == nil || a.scene == nil || a.renderer == nil {
		t.Fatal("NewApp should create every collaborator")
	}
	if a.profiler == nil {
		t.Error("WithProfiling(true) should create a profiler")
	}
	if NewApp().(*app).profiler != nil {
		t.Error("profiling should be off by default")
	}
}

func TestAppDefaultClockIsAdditive(t *testing.T) {
	run := func(steps ...time.Duration) (elapsed float32, rotation [3]float32) {
		t.Helper()
		now := time.Unix(0, 0)
		win := &fakeWindow{w: 800, h: 600}
		a := NewApp(
			WithTimeSource(func() time.Time { return now }),
			WithRenderer(&fakeRenderer{log: &callLog{}}),
			WithSceneOptions(
				scene.WithSeed(7),
				scene.WithParticleCount(0),
				scene.WithBoxCount(1),
				scene.WithTextLines(),
			),
		)
		if err := a.Init(win); err != nil {
			t.Fatalf("Init: %v", err)
		}
		for _, d := range steps {
			now = now.Add(d)
			if err := a.Animate(); err != nil {
				t.Fatalf("Animate: %v", err)
			}
		}
		r := a.Scene().Boxes()[0].Rotation()
		return a.Clock().Elapsed(), [3]float32{r.X(), r.Y(), r.Z()}
	}

	tests := []struct {
		name  string
		steps []time.Duration
	}{
		{"one long frame", []time.Duration{250 * time.Millisecond}},
		{"two frames", []time.Duration{125 * time.Millisecond, 125 * time.Millisecond}},
		{"five frames", []time.Duration{50 * time.Millisecond, 50 * time.Millisecond, 50 * time.Millisecond, 50 * time.Millisecond, 50 * time.Millisecond}},
	}
	_, base := run()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elapsed, rot := run(tt.steps...)
			if math.Abs(float64(elapsed)-0.25) > 1e-5 {
				t.Errorf("expected elapsed 0.25, got %v", elapsed)
			}
			for i := range rot {
				got := math.Mod(float64(rot[i]-base[i])+2*math.Pi, 2*math.Pi)
				if math.Abs(got-0.025) > 1e-4 {
					t.Errorf("axis %d: expected rotation 0.025, got %v", i, got)
				}
			}
		})
	}
}
