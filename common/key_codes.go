package common

// Key codes delivered by the window's key callback. Printable keys use their ASCII value,
// matching GLFW's numbering.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyB   = 66  // toggle boxes
	KeyH   = 72  // toggle HDRI background
	KeyM   = 77  // toggle imported model
	KeyP   = 80  // toggle particles
	KeyT   = 84  // toggle text
	KeyV   = 86  // toggle vsync
	KeyEsc = 256 // Escape key (GLFW)
)
