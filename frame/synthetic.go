package frame

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ojrac/opensimplex-go"
)

// noiseCell is the block size, in pixels, sampled once by the noise source.
const noiseCell = 8

// Painter fills a frame for the given elapsed time.
type Painter func(f *Frame, elapsed time.Duration)

// Synthetic is a Source that paints frames in-process at a fixed rate.
// It stands in for a camera in headless runs and tests.
type Synthetic struct {
	mu       sync.Mutex
	paint    Painter
	width    int
	height   int
	interval time.Duration
	now      func() time.Time

	start   time.Time
	last    time.Time
	seq     uint64
	started bool
}

// NewSynthetic creates a source producing width x height frames at fps.
// fps <= 0 produces a frame on every Poll.
func NewSynthetic(width, height int, fps float64, paint Painter) *Synthetic {
	var interval time.Duration
	if fps > 0 {
		interval = time.Duration(float64(time.Second) / fps)
	}
	return &Synthetic{
		paint:    paint,
		width:    width,
		height:   height,
		interval: interval,
		now:      time.Now,
	}
}

// NewSolid creates a source of uniformly colored frames.
func NewSolid(width, height int, fps float64, r, g, b uint8) *Synthetic {
	return NewSynthetic(width, height, fps, func(f *Frame, _ time.Duration) {
		f.Fill(r, g, b)
	})
}

// NewNoise creates a source of animated grayscale OpenSimplex noise.
// scale is the spatial frequency per pixel, speed the temporal frequency per second.
func NewNoise(width, height int, fps float64, seed int64, scale, speed float64) *Synthetic {
	noise := opensimplex.NewNormalized(seed)
	return NewSynthetic(width, height, fps, func(f *Frame, elapsed time.Duration) {
		z := elapsed.Seconds() * speed
		for cy := 0; cy < f.Height; cy += noiseCell {
			for cx := 0; cx < f.Width; cx += noiseCell {
				v := noise.Eval3(float64(cx)*scale, float64(cy)*scale, z)
				c := uint8(v * 255)
				for y := cy; y < cy+noiseCell && y < f.Height; y++ {
					for x := cx; x < cx+noiseCell && x < f.Width; x++ {
						f.Set(x, y, c, c, c)
					}
				}
			}
		}
	})
}

// SetClock replaces the time source. Intended for tests.
func (s *Synthetic) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// Resize changes the dimensions of subsequent frames.
func (s *Synthetic) Resize(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
}

// Poll paints a new frame once the frame interval has elapsed.
func (s *Synthetic) Poll() (*Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !s.started {
		s.start = now
		s.started = true
	} else if s.interval > 0 && now.Sub(s.last) < s.interval {
		return nil, false
	}
	s.last = now
	s.seq++

	f := New(s.width, s.height)
	f.Seq = s.seq
	f.Timestamp = now
	f.TraceID = uuid.New().String()
	s.paint(f, now.Sub(s.start))
	return f, true
}

// Close implements Source.
func (s *Synthetic) Close() error { return nil }
