package systems

import "time"

// TickClock converts wall-clock time between ticks into the filter's blend factor.
type TickClock struct {
	scale   float32
	last    time.Time
	started bool
}

// NewTickClock creates a clock that multiplies elapsed seconds by scale.
func NewTickClock(scale float32) *TickClock {
	return &TickClock{scale: scale}
}

// Reset makes now the reference point for the next Step.
func (c *TickClock) Reset(now time.Time) {
	c.last = now
	c.started = true
}

// Step returns scale * (now - last) in seconds and moves last to now.
// The first Step after construction returns 0.
func (c *TickClock) Step(now time.Time) float32 {
	if !c.started {
		c.Reset(now)
		return 0
	}
	dt := c.scale * float32(now.Sub(c.last).Seconds())
	c.last = now
	return dt
}

// Scale returns the time multiplier.
func (c *TickClock) Scale() float32 {
	return c.scale
}

// SetScale changes the time multiplier.
func (c *TickClock) SetScale(s float32) {
	c.scale = s
}
