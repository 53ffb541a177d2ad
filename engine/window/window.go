package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-showcase/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrClosed is returned by Close on a window that is already closed.
var ErrClosed = errors.New("window: already closed")

// Window provides the platform window the renderer draws into and the input events the app routes.
// Callbacks run on the window thread from inside ProcessMessages.
type Window interface {
	// SetUpdateCallback sets the function called once per message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving the new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key presses and repeats. Escape is handled by
	// the window itself and never reaches the callback.
	//
	// Parameters:
	//   - callback: function receiving the key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetMouseMoveCallback sets the callback for cursor movement. Positions are scaled to
	// framebuffer pixels so they share units with Width and Height on high-DPI displays.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in framebuffer pixels from the top-left corner
	SetMouseMoveCallback(callback func(x, y float64))

	// SurfaceDescriptor returns the platform surface descriptor for creating a WebGPU surface,
	// or nil if the platform window does not exist.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is still open.
	IsRunning() bool

	// Close destroys the platform window.
	//
	// Returns:
	//   - error: ErrClosed if the window was already closed
	Close() error

	// ProcessMessages runs the message loop until the window closes, calling the update
	// callback every iteration.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int

	// Title returns the window title.
	Title() string
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	maxWidth, maxHeight int
	minWidth, minHeight int

	// width and height track the framebuffer size, which differs from the window size on
	// high-DPI displays.
	width, height int
	// windowWidth and windowHeight track the window size in screen coordinates, the unit GLFW
	// reports the cursor in. Zero means unknown and disables cursor scaling.
	windowWidth, windowHeight int

	// internalWindow holds the platform window (glfwWindow).
	internalWindow any
	closed         bool

	onUpdate    func()
	onResize    func(width, height int)
	onKeyDown   func(keyCode uint32)
	onMouseMove func(x, y float64)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window. Must be called from the main goroutine.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	common.Logger().Info("window created", "title", w.title, "width", w.width, "height", w.height)
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy showcase",
		minWidth:  320,
		minHeight: 240,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y float64)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return !w.closed && platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if ok := platformProcessMessages(w); !ok {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

func (w *engineWindow) Title() string {
	return w.title
}

// handleKey routes a key press. It reports true when the key asks the window to close.
func (w *engineWindow) handleKey(key uint32) bool {
	if key == common.KeyEsc {
		return true
	}
	if w.onKeyDown != nil {
		w.onKeyDown(key)
	}
	return false
}

func (w *engineWindow) handleResize(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// handleWindowSize records the window size in screen coordinates.
func (w *engineWindow) handleWindowSize(width, height int) {
	w.windowWidth = width
	w.windowHeight = height
}

// handleMouseMove converts a cursor position from screen coordinates to framebuffer pixels
// and forwards it.
func (w *engineWindow) handleMouseMove(x, y float64) {
	if w.windowWidth > 0 && w.windowHeight > 0 {
		x *= float64(w.width) / float64(w.windowWidth)
		y *= float64(w.height) / float64(w.windowHeight)
	}
	if w.onMouseMove != nil {
		w.onMouseMove(x, y)
	}
}
