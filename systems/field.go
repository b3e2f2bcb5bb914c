package systems

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/lumen/frame"
)

// Field is the fixed population of particles driven by frame luminance.
//
// Particles live in one contiguous slice and are never added or removed.
// The sample table maps each particle to the byte offset of its pixel in a
// frame of the current dimensions; it is rebuilt whenever those change.
type Field struct {
	particles []Particle
	baseDrag  float32

	// Sample table, valid for frames of width x height
	width, height int
	offsets       []int

	pool *workerPool
}

// FieldOptions configures a new Field.
type FieldOptions struct {
	Count      int
	SpawnW     float32 // positions are uniform in [0,SpawnW) x [0,SpawnH)
	SpawnH     float32
	Drag       float32
	DragJitter float32 // per-particle drag = Drag * (1 +/- DragJitter)
	Workers    int     // >1 starts a worker pool for the parallel tick
}

// NewField creates count particles at random positions with zero state.
func NewField(opts FieldOptions, rng *rand.Rand) *Field {
	f := &Field{
		particles: make([]Particle, opts.Count),
		baseDrag:  opts.Drag,
	}

	for i := range f.particles {
		x := rng.Float32() * opts.SpawnW
		y := rng.Float32() * opts.SpawnH

		drag := opts.Drag
		if opts.DragJitter > 0 {
			drag = clampDrag(drag * (1 + opts.DragJitter*(rng.Float32()*2-1)))
		}
		f.particles[i] = NewParticle(x, y, drag)
	}

	if opts.Workers > 1 {
		f.pool = newWorkerPool(opts.Workers)
		f.pool.start(f)
	}

	return f
}

// RestoreField builds a field around previously saved particles.
// The slice is adopted, not copied.
func RestoreField(particles []Particle, drag float32, workers int) *Field {
	f := &Field{particles: particles, baseDrag: drag}
	if workers > 1 {
		f.pool = newWorkerPool(workers)
		f.pool.start(f)
	}
	return f
}

// Len returns the number of particles.
func (f *Field) Len() int {
	return len(f.particles)
}

// Particles exposes the particle slice for rendering and telemetry.
func (f *Field) Particles() []Particle {
	return f.particles
}

// Bounds returns the frame dimensions the sample table was built for.
// Zero until the first Resize or Tick.
func (f *Field) Bounds() (width, height int) {
	return f.width, f.height
}

// Drag returns the shared drag coefficient.
func (f *Field) Drag() float32 {
	return f.baseDrag
}

// SetDrag changes the shared drag coefficient. Per-particle variation is
// preserved proportionally.
func (f *Field) SetDrag(d float32) {
	if f.baseDrag <= 0 || d == f.baseDrag {
		f.baseDrag = d
		return
	}
	ratio := d / f.baseDrag
	for i := range f.particles {
		p := &f.particles[i]
		p.drag = clampDrag(p.drag * ratio)
	}
	f.baseDrag = d
}

// Resize rebuilds the sample table for frames of width x height.
// Pixels outside the frame are clamped to the nearest edge.
// Returns false if the table already matched.
func (f *Field) Resize(width, height int) bool {
	if width == f.width && height == f.height && f.offsets != nil {
		return false
	}

	if cap(f.offsets) < len(f.particles) {
		f.offsets = make([]int, len(f.particles))
	}
	f.offsets = f.offsets[:len(f.particles)]

	for i := range f.particles {
		px, py := f.particles[i].Pixel()
		px = clampInt(px, 0, width-1)
		py = clampInt(py, 0, height-1)
		f.offsets[i] = (py*width + px) * frame.BytesPerPixel
	}

	f.width, f.height = width, height
	return true
}

// Tick samples fr at every particle and advances each filter by dt.
// The sample table is rebuilt first if fr has different dimensions.
func (f *Field) Tick(fr *frame.Frame, dt float32) (resized bool, err error) {
	if err := fr.Validate(); err != nil {
		return false, fmt.Errorf("field tick: %w", err)
	}

	resized = f.Resize(fr.Width, fr.Height)

	if f.pool != nil && len(f.particles) >= parallelThreshold {
		f.pool.run(fr.Data, dt, len(f.particles))
	} else {
		f.tickRange(0, len(f.particles), fr.Data, dt)
	}

	return resized, nil
}

// tickRange updates particles [start, end).
func (f *Field) tickRange(start, end int, data []byte, dt float32) {
	for i := start; i < end; i++ {
		o := f.offsets[i]
		f.particles[i].Update(Luma(data[o], data[o+1], data[o+2]), dt)
	}
}

// Close stops the worker pool, if any.
func (f *Field) Close() {
	if f.pool != nil {
		f.pool.stop()
	}
}

// clampDrag keeps a jittered drag inside (0, 1].
func clampDrag(d float32) float32 {
	if d > 1 {
		return 1
	}
	if d <= 0 {
		return 1e-3
	}
	return d
}
