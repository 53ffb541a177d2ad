package clock

import "time"

// ClockBuilderOption is a functional option for configuring a Clock.
type ClockBuilderOption func(*clockImpl)

// WithTimeSource replaces time.Now as the clock's time source.
//
// Parameters:
//   - now: function returning the current time
//
// Returns:
//   - ClockBuilderOption: option function to apply
func WithTimeSource(now func() time.Time) ClockBuilderOption {
	return func(c *clockImpl) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMaxDelta caps the delta reported for a single tick, so a stalled frame
// (window drag, debugger pause) does not produce a large jump. Zero disables the cap.
//
// Parameters:
//   - d: the maximum delta
//
// Returns:
//   - ClockBuilderOption: option function to apply
func WithMaxDelta(d time.Duration) ClockBuilderOption {
	return func(c *clockImpl) {
		c.maxDelta = d
	}
}
