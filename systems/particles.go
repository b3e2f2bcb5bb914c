package systems

// Particle is a temporal smoothing filter bound to a fixed sample position.
//
// It tracks a smoothed value of a driving signal and a smoothed estimate of
// how fast that signal is changing. The change estimate rises at full speed
// and decays at a rate damped by drag, which gives the fast-rise/slow-fall
// pulse. Value tracking is always damped.
type Particle struct {
	x, y     float32
	drag     float32
	value    float32
	velocity float32
}

// NewParticle creates a particle at (x, y) with zero value and velocity.
func NewParticle(x, y, drag float32) Particle {
	return Particle{x: x, y: y, drag: drag}
}

// RestoreParticle recreates a particle with previously saved state.
func RestoreParticle(x, y, drag, value, velocity float32) Particle {
	return Particle{x: x, y: y, drag: drag, value: value, velocity: velocity}
}

// Update feeds one sample of the driving signal.
//
// The raw change is |target - value| with no division by time. dt is used
// directly as the blend factor; values above 1 overshoot.
func (p *Particle) Update(target, dt float32) {
	raw := abs32(target - p.value)
	if raw > p.velocity {
		p.velocity = lerp(p.velocity, raw, dt)
	} else {
		p.velocity = lerp(p.velocity, raw, dt*p.drag)
	}

	p.value = lerp(p.value, target, dt*p.drag)
}

// Value returns the smoothed signal.
func (p *Particle) Value() float32 {
	return p.value
}

// Velocity returns the smoothed rate of change. Never negative for finite input.
func (p *Particle) Velocity() float32 {
	return p.velocity
}

// Drag returns the damping coefficient.
func (p *Particle) Drag() float32 {
	return p.drag
}

// Position returns the sample position in capture coordinates.
func (p *Particle) Position() (x, y float32) {
	return p.x, p.y
}

// Pixel returns the integer pixel the particle samples, by truncation.
func (p *Particle) Pixel() (x, y int) {
	return int(p.x), int(p.y)
}
