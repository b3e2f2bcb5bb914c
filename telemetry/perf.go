package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is one stage of a loop iteration.
type Phase int

const (
	PhaseCapture   Phase = iota // polling the frame source
	PhaseSample                 // sample table rebuild and feed upload
	PhaseFilter                 // particle updates
	PhaseRender                 // circle drawing
	PhaseTelemetry              // stats and CSV output
	numPhases
)

var phaseNames = [numPhases]string{"capture", "sample", "filter", "render", "telemetry"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases lists every phase in loop order.
var Phases = []Phase{PhaseCapture, PhaseSample, PhaseFilter, PhaseRender, PhaseTelemetry}

// PhaseTimes holds one duration per phase.
type PhaseTimes [numPhases]time.Duration

type perfSample struct {
	total  time.Duration
	phases PhaseTimes
}

// PerfCollector keeps a ring of per-tick timings. It is not safe for
// concurrent use; the loop owns it.
type PerfCollector struct {
	ring  []perfSample
	next  int
	count int

	cur        perfSample
	tickStart  time.Time
	phaseStart time.Time
	open       Phase
	hasOpen    bool

	lastFrame time.Time
	frameDur  time.Duration

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
// Non-positive sizes fall back to 60.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring: make([]perfSample, windowSize),
		now:  time.Now,
	}
}

// StartTick begins timing a new loop iteration.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.cur = perfSample{}
	p.hasOpen = false
}

// StartPhase closes the running phase, if any, and opens phase.
// A phase may be entered more than once per tick; its time accumulates.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phaseStart = now
	p.open = phase
	p.hasOpen = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.hasOpen && p.open >= 0 && p.open < numPhases {
		p.cur.phases[p.open] += now.Sub(p.phaseStart)
	}
	p.hasOpen = false
}

// EndTick records the current tick into the window.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// RecordFrame marks a presented frame. Call once per Draw.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frameDur = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarizes the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	PhaseAvg PhaseTimes
	PhasePct [numPhases]float64

	TicksPerSecond float64

	// Graphics mode only
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the samples currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{FrameDuration: p.frameDur}
	if p.frameDur > 0 {
		out.FPS = float64(time.Second) / float64(p.frameDur)
	}
	if p.count == 0 {
		return out
	}

	ticks := make([]float64, p.count)
	var sum time.Duration
	var phaseSum PhaseTimes
	for i, s := range p.ring[:p.count] {
		ticks[i] = float64(s.total)
		sum += s.total
		for ph, d := range s.phases {
			phaseSum[ph] += d
		}
	}
	slices.Sort(ticks)

	n := time.Duration(p.count)
	out.AvgTickDuration = sum / n
	out.MinTickDuration = time.Duration(ticks[0])
	out.MaxTickDuration = time.Duration(ticks[len(ticks)-1])
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))

	for ph := range phaseSum {
		out.PhaseAvg[ph] = phaseSum[ph] / n
		if out.AvgTickDuration > 0 {
			out.PhasePct[ph] = float64(out.PhaseAvg[ph]) / float64(out.AvgTickDuration) * 100
		}
	}
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}
	return out
}

// LogStats writes the summary at info level, omitting phases under 0.1%.
func (s PerfStats) LogStats() {
	slog.Info("perf", s.attrs(0.1)...)
}

func (s PerfStats) attrs(minPct float64) []any {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, ph := range Phases {
		if pct := s.PhasePct[ph]; pct > minPct {
			attrs = append(attrs, ph.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	return attrs
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	return slog.Group("", s.attrs(0)...).Value
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P95TickUS    int64   `csv:"p95_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	CapturePct   float64 `csv:"capture_pct"`
	SamplePct    float64 `csv:"sample_pct"`
	FilterPct    float64 `csv:"filter_pct"`
	RenderPct    float64 `csv:"render_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the summary for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		P95TickUS:    s.P95TickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		CapturePct:   s.PhasePct[PhaseCapture],
		SamplePct:    s.PhasePct[PhaseSample],
		FilterPct:    s.PhasePct[PhaseFilter],
		RenderPct:    s.PhasePct[PhaseRender],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
