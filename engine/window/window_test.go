package window

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-showcase/common"
)

func TestNewEngineWindowDefaults(t *testing.T) {
	w := newEngineWindow()
	if w.Width() != 1280 || w.Height() != 720 {
		t.Errorf("unexpected default size %dx%d", w.Width(), w.Height())
	}
	if w.Title() == "" {
		t.Error("expected a default title")
	}
	if w.maxWidth != 0 || w.maxHeight != 0 {
		t.Error("max size should default to unbounded")
	}
}

func TestWindowOptions(t *testing.T) {
	w := newEngineWindow(
		WithTitle("demo"),
		WithSize(800, 0),
		WithMinSize(100, 50),
		WithMaxSize(1920, 1080),
	)
	if w.Title() != "demo" {
		t.Errorf("expected title demo, got %q", w.Title())
	}
	if w.Width() != 800 || w.Height() != 720 {
		t.Errorf("expected 800x720, got %dx%d", w.Width(), w.Height())
	}
	if w.minWidth != 100 || w.minHeight != 50 || w.maxWidth != 1920 || w.maxHeight != 1080 {
		t.Error("size limits not applied")
	}
}

func TestHandleKey(t *testing.T) {
	w := newEngineWindow()
	var got []uint32
	w.SetKeyDownCallback(func(key uint32) { got = append(got, key) })

	if w.handleKey(common.KeyP) {
		t.Error("P should not close the window")
	}
	if !w.handleKey(common.KeyEsc) {
		t.Error("Escape should close the window")
	}
	if len(got) != 1 || got[0] != common.KeyP {
		t.Errorf("expected only P to be forwarded, got %v", got)
	}

	w.SetKeyDownCallback(nil)
	w.handleKey(common.KeyB)
}

func TestHandleResize(t *testing.T) {
	w := newEngineWindow()
	var gotW, gotH int
	w.SetResizeCallback(func(width, height int) {
		gotW, gotH = width, height
		if w.Width() != width || w.Height() != height {
			t.Error("size should be updated before the callback runs")
		}
	})
	w.handleResize(640, 480)
	if gotW != 640 || gotH != 480 {
		t.Errorf("callback got %dx%d", gotW, gotH)
	}
}

func TestHandleMouseMove(t *testing.T) {
	w := newEngineWindow()
	w.handleMouseMove(1, 2)
	var x, y float64
	w.SetMouseMoveCallback(func(px, py float64) { x, y = px, py })
	w.handleMouseMove(12.5, 7)
	if x != 12.5 || y != 7 {
		t.Errorf("unexpected cursor %v,%v", x, y)
	}
}

func TestUncreatedWindow(t *testing.T) {
	w := newEngineWindow()
	if w.IsRunning() {
		t.Error("a window without a platform window should not be running")
	}
	if w.SurfaceDescriptor() != nil {
		t.Error("expected nil surface descriptor")
	}
	w.ProcessMessages()
	w.closed = true
	if err := w.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestHandleMouseMoveContentScale(t *testing.T) {
	tests := []struct {
		name             string
		window, buffer   [2]int
		cursor, expected [2]float64
	}{
		{"scale 1", [2]int{1280, 720}, [2]int{1280, 720}, [2]float64{1280, 720}, [2]float64{1280, 720}},
		{"scale 2 bottom-right", [2]int{1280, 720}, [2]int{2560, 1440}, [2]float64{1280, 720}, [2]float64{2560, 1440}},
		{"scale 2 center", [2]int{1280, 720}, [2]int{2560, 1440}, [2]float64{640, 360}, [2]float64{1280, 720}},
		{"scale 1.5", [2]int{800, 600}, [2]int{1200, 900}, [2]float64{400, 0}, [2]float64{600, 0}},
		{"unknown window size", [2]int{0, 0}, [2]int{2560, 1440}, [2]float64{10, 20}, [2]float64{10, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newEngineWindow()
			w.handleWindowSize(tt.window[0], tt.window[1])
			w.width, w.height = tt.buffer[0], tt.buffer[1]
			var got [2]float64
			w.SetMouseMoveCallback(func(x, y float64) { got = [2]float64{x, y} })
			w.handleMouseMove(tt.cursor[0], tt.cursor[1])
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}
