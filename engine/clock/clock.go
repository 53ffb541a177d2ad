package clock

import (
	"sync"
	"time"
)

type clockImpl struct {
	mu *sync.Mutex

	now      func() time.Time
	start    time.Time
	last     time.Time
	maxDelta time.Duration

	delta   time.Duration
	elapsed time.Duration
	ticks   uint64
}

// Clock measures frame timing. Tick is called once per frame; Delta and Elapsed
// report the values computed by the most recent Tick.
type Clock interface {
	// Tick samples the time source and advances delta and elapsed.
	Tick()

	// Delta returns the time between the two most recent ticks in seconds.
	// The first tick measures from construction.
	//
	// Returns:
	//   - float32: delta in seconds, never negative
	Delta() float32

	// Elapsed returns the sum of every delta so far in seconds.
	//
	// Returns:
	//   - float32: elapsed time in seconds
	Elapsed() float32

	// Ticks returns how many times Tick has been called.
	//
	// Returns:
	//   - uint64: the tick count
	Ticks() uint64
}

var _ Clock = &clockImpl{}

// NewClock creates a Clock that starts measuring immediately.
//
// Parameters:
//   - options: functional options to configure the clock
//
// Returns:
//   - Clock: the new clock
func NewClock(options ...ClockBuilderOption) Clock {
	c := &clockImpl{
		mu:  &sync.Mutex{},
		now: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	c.start = c.now()
	c.last = c.start
	return c
}

func (c *clockImpl) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	d := now.Sub(c.last)
	if d < 0 {
		d = 0
	}
	if c.maxDelta > 0 && d > c.maxDelta {
		d = c.maxDelta
	}
	c.last = now
	c.delta = d
	c.elapsed += d
	c.ticks++
}

func (c *clockImpl) Delta() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float32(c.delta.Seconds())
}

func (c *clockImpl) Elapsed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float32(c.elapsed.Seconds())
}

func (c *clockImpl) Ticks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}
