package scene

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-showcase/common"
	"github.com/Carmen-Shannon/oxy-showcase/engine/camera"
	"github.com/Carmen-Shannon/oxy-showcase/engine/clock"
	"github.com/Carmen-Shannon/oxy-showcase/engine/font"
	"github.com/Carmen-Shannon/oxy-showcase/engine/loader"
	"github.com/Carmen-Shannon/oxy-showcase/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// fakeLoader hands out futures the test completes by hand.
type fakeLoader struct {
	fonts    []*loader.Future[*font.Font]
	hdris    []*loader.Future[*loader.HDRImage]
	textures []*loader.Future[*loader.Texture]
	models   []*loader.Future[model.Model]
}

func (l *fakeLoader) LoadTexture(string) *loader.Future[*loader.Texture] {
	f := loader.NewFuture[*loader.Texture]()
	l.textures = append(l.textures, f)
	return f
}

func (l *fakeLoader) LoadHDRI(string) *loader.Future[*loader.HDRImage] {
	f := loader.NewFuture[*loader.HDRImage]()
	l.hdris = append(l.hdris, f)
	return f
}

func (l *fakeLoader) LoadFont(string) *loader.Future[*font.Font] {
	f := loader.NewFuture[*font.Font]()
	l.fonts = append(l.fonts, f)
	return f
}

func (l *fakeLoader) LoadModel(string) *loader.Future[model.Model] {
	f := loader.NewFuture[model.Model]()
	l.models = append(l.models, f)
	return f
}

type fakeSurface struct{ w, h int }

func (s fakeSurface) Width() int  { return s.w }
func (s fakeSurface) Height() int { return s.h }

// fakeTime is a manually advanced time source.
type fakeTime struct{ t time.Time }

func (f *fakeTime) now() time.Time { return f.t }

func newCamera(t *testing.T) camera.Camera {
	t.Helper()
	cam := camera.NewCamera()
	if err := cam.Init(fakeSurface{800, 600}); err != nil {
		t.Fatalf("camera Init: %v", err)
	}
	return cam
}

func newScene(t *testing.T, options ...SceneBuilderOption) (Scene, *fakeLoader, camera.Camera) {
	t.Helper()
	fl := &fakeLoader{}
	s := NewScene(append([]SceneBuilderOption{WithLoader(fl), WithSeed(1)}, options...)...)
	cam := newCamera(t)
	if err := s.Init(cam); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s, fl, cam
}

func TestInitBuildsScene(t *testing.T) {
	s, fl, _ := newScene(t)

	if got := len(s.Particles()); got != DefaultParticleCount {
		t.Errorf("expected %d particles, got %d", DefaultParticleCount, got)
	}
	for _, p := range s.Particles() {
		for _, v := range p.Position {
			if v < -FieldExtent || v > FieldExtent {
				t.Fatalf("particle %v outside the field", p.Position)
			}
		}
	}

	if got := len(s.Boxes()); got != DefaultBoxCount {
		t.Fatalf("expected %d boxes, got %d", DefaultBoxCount, got)
	}
	for _, b := range s.Boxes() {
		sc := b.Scale()
		if sc.X() < MinBoxScale || sc.X() > MaxBoxScale || sc.X() != sc.Y() || sc.Y() != sc.Z() {
			t.Fatalf("unexpected box scale %v", sc)
		}
		if b.Mesh() != s.BoxMesh() {
			t.Fatal("expected boxes to share one mesh")
		}
	}

	if len(fl.fonts) != 2 {
		t.Errorf("expected one font request per text line, got %d", len(fl.fonts))
	}
	if s.Pending() != 2 {
		t.Errorf("expected 2 pending requests, got %d", s.Pending())
	}
}

func TestInitTwice(t *testing.T) {
	s, _, cam := newScene(t)
	if err := s.Init(cam); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestUseBeforeInit(t *testing.T) {
	s := NewScene(WithLoader(&fakeLoader{}))
	if err := s.Update(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if err := s.Init(nil); err == nil {
		t.Error("expected error for nil camera")
	}
}

func TestOnMouseMove(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want mgl32.Vec2
	}{
		{"top left", 0, 0, mgl32.Vec2{-0.5, 0.5}},
		{"center", 400, 300, mgl32.Vec2{0, 0}},
		{"bottom right", 800, 600, mgl32.Vec2{0.5, -0.5}},
		{"quarter", 600, 150, mgl32.Vec2{0.25, 0.25}},
	}
	s := NewScene()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.OnMouseMove(tt.x, tt.y, 800, 600)
			if got := s.Cursor(); !got.ApproxEqual(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	s.OnMouseMove(10, 10, 0, 600)
	if got := s.Cursor(); !got.ApproxEqual(mgl32.Vec2{0.25, 0.25}) {
		t.Errorf("zero-width viewport should be ignored, got %v", got)
	}
}

func TestDriftTowardCursor(t *testing.T) {
	s, _, cam := newScene(t)
	s.OnMouseMove(800, 0, 800, 600)
	target := mgl32.Vec3{2.5, 2.5, 4}

	prev := cam.Position().Sub(target).Len()
	for i := 0; i < 50; i++ {
		if err := s.Update(); err != nil {
			t.Fatalf("Update: %v", err)
		}
		d := cam.Position().Sub(target).Len()
		if d >= prev {
			t.Fatalf("frame %d: distance did not shrink (%v -> %v)", i, prev, d)
		}
		// The lerp is a fixed per-frame factor, not scaled by frame time.
		if ratio := d / prev; math.Abs(float64(ratio-(1-DriftFactor))) > 1e-4 {
			t.Fatalf("frame %d: expected ratio %v, got %v", i, 1-DriftFactor, ratio)
		}
		prev = d
	}
}

func TestDriftFirstFrame(t *testing.T) {
	s, _, cam := newScene(t)
	// 800x600 viewport, pointer at (600, 150): cursor (0.25, 0.25), target (1.25, 1.25, 4).
	s.OnMouseMove(600, 150, 800, 600)
	if err := s.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	want := mgl32.Vec3{0.025, 0.025, 4}
	if got := cam.Position(); !got.ApproxEqualThreshold(want, 1e-6) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBoxRotationAdditive(t *testing.T) {
	deltas := [][]time.Duration{
		{16 * time.Millisecond, 16 * time.Millisecond, 16 * time.Millisecond, 52 * time.Millisecond},
		{100 * time.Millisecond},
		{25 * time.Millisecond, 75 * time.Millisecond},
	}
	var results [][]mgl32.Vec3
	for _, split := range deltas {
		ft := &fakeTime{t: time.Unix(0, 0)}
		clk := clock.NewClock(clock.WithTimeSource(ft.now))
		s, _, _ := newScene(t, WithClock(clk), WithBoxCount(5))

		initial := make([]mgl32.Vec3, len(s.Boxes()))
		for i, b := range s.Boxes() {
			initial[i] = b.Rotation()
		}
		for _, d := range split {
			ft.t = ft.t.Add(d)
			clk.Tick()
			if err := s.Update(); err != nil {
				t.Fatalf("Update: %v", err)
			}
		}

		rotations := make([]mgl32.Vec3, len(s.Boxes()))
		for i, b := range s.Boxes() {
			rotations[i] = b.Rotation()
			want := float32(0.1 * 0.1) // RotationSpeed * 100ms
			for k := 0; k < 3; k++ {
				got := common.WrapAngle(rotations[i][k] - initial[i][k])
				if math.Abs(float64(got-want)) > 1e-5 {
					t.Errorf("box %d axis %d: expected +%v, got +%v", i, k, want, got)
				}
			}
		}
		results = append(results, rotations)
	}
	for i := range results[0] {
		for _, r := range results[1:] {
			if !r[i].ApproxEqualThreshold(results[0][i], 1e-5) {
				t.Errorf("box %d: rotation depends on how time was split", i)
			}
		}
	}
}

func TestTextArrivesInAnyOrder(t *testing.T) {
	s, fl, _ := newScene(t)
	f, err := font.GoRegular()
	if err != nil {
		t.Fatalf("GoRegular: %v", err)
	}

	// Resolve the second request first.
	fl.fonts[1].Complete(f, nil)
	if err := s.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(s.Texts()) != 1 || s.Pending() != 1 {
		t.Fatalf("expected 1 text and 1 pending, got %d and %d", len(s.Texts()), s.Pending())
	}
	fl.fonts[0].Complete(f, nil)
	if err := s.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	texts := s.Texts()
	if len(texts) != 2 || s.Pending() != 0 {
		t.Fatalf("expected 2 texts and 0 pending, got %d and %d", len(texts), s.Pending())
	}
	if !texts[0].Position().ApproxEqual(mgl32.Vec3{0, -0.6, 0}) {
		t.Errorf("first arrival should be the lower line, got %v", texts[0].Position())
	}
	if !texts[1].Position().ApproxEqual(mgl32.Vec3{0, 0.6, 0}) {
		t.Errorf("second arrival should be the upper line, got %v", texts[1].Position())
	}
}

func TestFailedAssetIsReported(t *testing.T) {
	type report struct {
		source string
		err    error
	}
	var reports []report
	loadErr := errors.New("font not found")
	s, fl, _ := newScene(t, WithReporter(ReporterFunc(func(source string, err error) {
		reports = append(reports, report{source, err})
	})))

	fl.fonts[0].Complete(nil, loadErr)
	if err := s.Update(); err != nil {
		t.Fatalf("Update must not fail on asset errors: %v", err)
	}
	if len(reports) != 1 || !errors.Is(reports[0].err, loadErr) || reports[0].source != "text Soumak" {
		t.Fatalf("unexpected reports %+v", reports)
	}
	if s.Pending() != 1 || len(s.Texts()) != 0 {
		t.Errorf("expected failed request dropped, got %d pending / %d texts", s.Pending(), len(s.Texts()))
	}

	// Later frames keep working and do not report again.
	if err := s.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(reports) != 1 {
		t.Errorf("expected a single report, got %d", len(reports))
	}
}

func TestOptionalAssets(t *testing.T) {
	s, fl, _ := newScene(t, WithBackground("env.hdr"), WithSprite("spark.png"), WithModel("fox.glb"))
	if len(fl.hdris) != 1 || len(fl.textures) != 1 || len(fl.models) != 1 {
		t.Fatalf("expected one request per optional asset")
	}

	img := &loader.HDRImage{Width: 1, Height: 1, Pixels: []float32{1, 1, 1}}
	fl.hdris[0].Complete(img, nil)
	fl.textures[0].Complete(&loader.Texture{Data: common.WhiteTexture()}, nil)
	mdl := model.NewModel(model.WithPart(model.NewBox(1, 1, 1), mgl32.Translate3D(0, 1, 0)))
	fl.models[0].Complete(mdl, nil)

	if err := s.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if s.Background() != img || s.Sprite() == nil {
		t.Error("expected background and sprite to be set")
	}
	if len(s.ModelParts()) != 1 {
		t.Fatalf("expected 1 model part, got %d", len(s.ModelParts()))
	}
	origin := s.ModelParts()[0].ModelMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	if !origin.ApproxEqual(mgl32.Vec3{0, 1, 0}) {
		t.Errorf("expected part at (0, 1, 0), got %v", origin)
	}
	if s.Pending() != 2 {
		t.Errorf("expected only the text requests pending, got %d", s.Pending())
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	a, _, _ := newScene(t, WithSeed(42))
	b, _, _ := newScene(t, WithSeed(42))
	if a.Particles()[0] != b.Particles()[0] || a.Boxes()[0].Position() != b.Boxes()[0].Position() {
		t.Error("expected identical layouts for identical seeds")
	}
}
