package telemetry

import "github.com/pthm-cable/lumen/systems"

// Collector accumulates frame events within wall-clock windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec float64
	minRadius         float32

	// Current window tracking
	windowStartTick int32
	windowElapsed   float64
	totalElapsed    float64

	// Event counters for current window
	framesIn int
	resizes  int
	ticks    int
	dtSum    float64

	// Drop counter value at window start
	droppedBase uint64

	// Scratch buffers reused across flushes
	values     []float64
	velocities []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in wall-clock seconds
// minRadius: velocity floor below which a particle counts as idle
func NewCollector(windowDurationSec float64, minRadius float32) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 5
	}
	return &Collector{
		windowDurationSec: windowDurationSec,
		minRadius:         minRadius,
	}
}

// RecordTick records one field tick: its wall-clock duration in seconds
// and the blend factor it applied.
func (c *Collector) RecordTick(elapsedSec float64, dt float32) {
	c.windowElapsed += elapsedSec
	c.totalElapsed += elapsedSec
	c.ticks++
	c.dtSum += float64(dt)
}

// RecordFrame records a new frame arriving from the source.
func (c *Collector) RecordFrame() {
	c.framesIn++
}

// RecordResize records a frame dimension change.
func (c *Collector) RecordResize() {
	c.resizes++
}

// ShouldFlush returns true once the window duration has elapsed.
func (c *Collector) ShouldFlush() bool {
	return c.windowElapsed >= c.windowDurationSec
}

// Flush produces a WindowStats and resets counters for the next window.
// dropped is the source's cumulative drop counter.
func (c *Collector) Flush(currentTick int32, field *systems.Field, dropped uint64) WindowStats {
	particles := field.Particles()
	c.values = c.values[:0]
	c.velocities = c.velocities[:0]
	active := 0
	for i := range particles {
		p := &particles[i]
		c.values = append(c.values, float64(p.Value()))
		c.velocities = append(c.velocities, float64(p.Velocity()))
		if p.Velocity() > c.minRadius {
			active++
		}
	}

	value := ComputeDistribution(c.values)
	velocity := ComputeDistribution(c.velocities)

	var meanDt, activeFraction float64
	if c.ticks > 0 {
		meanDt = c.dtSum / float64(c.ticks)
	}
	if len(particles) > 0 {
		activeFraction = float64(active) / float64(len(particles))
	}

	w, h := field.Bounds()
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		WallTimeSec:     c.totalElapsed,

		Particles:   len(particles),
		FrameWidth:  w,
		FrameHeight: h,

		FramesIn:      c.framesIn,
		FramesDropped: int(dropped - c.droppedBase),
		Resizes:       c.resizes,
		MeanDt:        meanDt,

		ValueMean: value.Mean,
		ValueStd:  value.Std,
		ValueP10:  value.P10,
		ValueP50:  value.P50,
		ValueP90:  value.P90,

		VelocityMean: velocity.Mean,
		VelocityStd:  velocity.Std,
		VelocityP10:  velocity.P10,
		VelocityP50:  velocity.P50,
		VelocityP90:  velocity.P90,
		VelocityMax:  velocity.Max,

		ActiveFraction: activeFraction,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.windowElapsed = 0
	c.framesIn = 0
	c.resizes = 0
	c.ticks = 0
	c.dtSum = 0
	c.droppedBase = dropped

	return stats
}

// WindowDurationSec returns the configured window length.
func (c *Collector) WindowDurationSec() float64 {
	return c.windowDurationSec
}
