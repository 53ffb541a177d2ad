package renderer

import "github.com/Carmen-Shannon/oxy-showcase/common"

// RenderState holds the layer toggles driven by key presses. The zero value hides everything;
// DefaultRenderState shows every layer.
type RenderState struct {
	Particles  bool
	Boxes      bool
	Text       bool
	Background bool
	Model      bool
	VSync      bool
}

// DefaultRenderState returns a state with every layer visible.
//
// Parameters:
//   - vsync: whether frames start out synchronized to the display refresh
//
// Returns:
//   - RenderState: the initial state
func DefaultRenderState(vsync bool) RenderState {
	return RenderState{
		Particles:  true,
		Boxes:      true,
		Text:       true,
		Background: true,
		Model:      true,
		VSync:      vsync,
	}
}

// Toggle flips the layer bound to key. Unrecognized keys leave the state untouched.
//
// Parameters:
//   - key: the key code from the window
//
// Returns:
//   - bool: true if the key is bound to a toggle
func (s *RenderState) Toggle(key uint32) bool {
	switch key {
	case common.KeyP:
		s.Particles = !s.Particles
	case common.KeyB:
		s.Boxes = !s.Boxes
	case common.KeyT:
		s.Text = !s.Text
	case common.KeyH:
		s.Background = !s.Background
	case common.KeyM:
		s.Model = !s.Model
	case common.KeyV:
		s.VSync = !s.VSync
	default:
		return false
	}
	return true
}

// PresentMode maps the vsync toggle to a surface present mode.
func (s RenderState) PresentMode() PresentMode {
	if s.VSync {
		return PresentModeVSync
	}
	return PresentModeUncapped
}
