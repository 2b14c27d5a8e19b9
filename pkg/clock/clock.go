// pkg/clock/clock.go
package clock

import (
	"sync"
	"time"
)

// DefaultMaxDelta caps a single frame step after stalls such as a dragged
// or suspended window.
const DefaultMaxDelta = 0.25

// FrameClock supplies per-frame timing in seconds. Both values are monotonic.
type FrameClock interface {
	Tick() (delta, elapsed float64)
}

// WallClock measures frames against the monotonic system clock.
type WallClock struct {
	mu       sync.Mutex
	now      func() time.Time
	start    time.Time
	last     time.Time
	elapsed  float64
	maxDelta float64
}

// NewWallClock creates a wall clock. maxDelta <= 0 disables clamping.
func NewWallClock(maxDelta float64) *WallClock {
	return newWallClock(time.Now, maxDelta)
}

func newWallClock(now func() time.Time, maxDelta float64) *WallClock {
	return &WallClock{now: now, maxDelta: maxDelta}
}

// Tick returns the time since the previous tick and the accumulated run time.
// The first tick returns a zero delta.
func (c *WallClock) Tick() (float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now()
	if c.start.IsZero() {
		c.start = t
		c.last = t
		return 0, 0
	}

	delta := t.Sub(c.last).Seconds()
	c.last = t
	if delta < 0 {
		delta = 0
	}
	if c.maxDelta > 0 && delta > c.maxDelta {
		delta = c.maxDelta
	}
	c.elapsed += delta
	return delta, c.elapsed
}

// FixedClock advances by a constant step per tick.
type FixedClock struct {
	mu      sync.Mutex
	step    float64
	elapsed float64
}

// NewFixedClock creates a clock advancing step seconds per tick.
func NewFixedClock(step float64) *FixedClock {
	return &FixedClock{step: step}
}

// NewFixedRate creates a fixed clock for hz frames per second.
func NewFixedRate(hz float64) *FixedClock {
	if hz <= 0 {
		hz = 60
	}
	return NewFixedClock(1 / hz)
}

// Tick advances one step.
func (c *FixedClock) Tick() (float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.elapsed += c.step
	return c.step, c.elapsed
}

// Step returns the per-tick delta.
func (c *FixedClock) Step() float64 {
	return c.step
}
