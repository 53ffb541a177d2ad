// Package events provides the typed per-frame and error notifications owned by the App.
package events

import "time"

// FrameEvent is published once at the start of every animation frame,
// before any component update runs.
type FrameEvent struct {
	// Frame counts frames from 1.
	Frame uint64
	// Time is the wall-clock time the frame started.
	Time time.Time
}

// ErrorEvent reports a non-fatal failure, such as an asset that could not be loaded.
type ErrorEvent struct {
	// Source names the component that failed, e.g. "scene" or "renderer".
	Source string
	Err    error
}
