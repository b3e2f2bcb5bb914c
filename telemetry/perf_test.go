package telemetry

import (
	"testing"
	"time"
)

// steppedClock returns a clock that advances only when told to.
func steppedClock() (func() time.Time, func(time.Duration)) {
	t := time.Unix(0, 0)
	return func() time.Time { return t }, func(d time.Duration) { t = t.Add(d) }
}

func TestPerfCollectorPhases(t *testing.T) {
	pc := NewPerfCollector(10)
	now, advance := steppedClock()
	pc.now = now

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCapture)
		advance(100 * time.Microsecond)
		pc.StartPhase(PhaseFilter)
		advance(300 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration != 400*time.Microsecond {
		t.Errorf("avg tick = %v, want 400µs", stats.AvgTickDuration)
	}
	if stats.PhaseAvg[PhaseCapture] != 100*time.Microsecond {
		t.Errorf("capture avg = %v", stats.PhaseAvg[PhaseCapture])
	}
	if stats.PhasePct[PhaseFilter] != 75 {
		t.Errorf("filter pct = %v, want 75", stats.PhasePct[PhaseFilter])
	}
	if stats.PhaseAvg[PhaseRender] != 0 {
		t.Error("render never ran")
	}
	if stats.TicksPerSecond != 2500 {
		t.Errorf("ticks/s = %v, want 2500", stats.TicksPerSecond)
	}
}

func TestPerfCollectorReenteredPhaseAccumulates(t *testing.T) {
	pc := NewPerfCollector(4)
	now, advance := steppedClock()
	pc.now = now

	pc.StartTick()
	pc.StartPhase(PhaseSample)
	advance(time.Millisecond)
	pc.StartPhase(PhaseFilter)
	advance(time.Millisecond)
	pc.StartPhase(PhaseSample)
	advance(time.Millisecond)
	pc.EndTick()

	if got := pc.Stats().PhaseAvg[PhaseSample]; got != 2*time.Millisecond {
		t.Errorf("sample = %v, want 2ms", got)
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)
	now, advance := steppedClock()
	pc.now = now

	// Five slow ticks get pushed out by five fast ones
	for i := 0; i < 10; i++ {
		d := 10 * time.Millisecond
		if i >= 5 {
			d = time.Millisecond
		}
		pc.StartTick()
		pc.StartPhase(PhaseFilter)
		advance(d)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.MaxTickDuration != time.Millisecond || stats.MinTickDuration != time.Millisecond {
		t.Errorf("window kept stale samples: min %v max %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
	if stats.P95TickDuration != time.Millisecond {
		t.Errorf("p95 = %v", stats.P95TickDuration)
	}
}

func TestPerfCollectorP95(t *testing.T) {
	pc := NewPerfCollector(20)
	now, advance := steppedClock()
	pc.now = now

	for i := 1; i <= 20; i++ {
		pc.StartTick()
		advance(time.Duration(i) * time.Millisecond)
		pc.EndTick()
	}

	if got := pc.Stats().P95TickDuration; got != 19*time.Millisecond {
		t.Errorf("p95 = %v, want 19ms", got)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	stats := NewPerfCollector(0).Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 || stats.FPS != 0 {
		t.Errorf("empty collector = %+v", stats)
	}
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)
	now, advance := steppedClock()
	pc.now = now

	pc.RecordFrame()
	if pc.Stats().FPS != 0 {
		t.Error("one frame has no duration")
	}
	advance(20 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration != 20*time.Millisecond || stats.FPS != 50 {
		t.Errorf("frame = %v fps = %v, want 20ms 50", stats.FrameDuration, stats.FPS)
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseTelemetry.String() != "telemetry" || Phase(99).String() != "unknown" {
		t.Error("unexpected phase names")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		P95TickDuration: 3 * time.Millisecond,
		TicksPerSecond:  500,
	}
	stats.PhasePct[PhaseCapture] = 5
	stats.PhasePct[PhaseFilter] = 70
	stats.PhasePct[PhaseRender] = 25

	row := stats.ToCSV(120)
	if row.WindowEnd != 120 || row.AvgTickUS != 2000 || row.P95TickUS != 3000 {
		t.Errorf("unexpected header fields: %+v", row)
	}
	if row.FilterPct != 70 || row.CapturePct != 5 || row.RenderPct != 25 {
		t.Errorf("phase percentages not carried over: %+v", row)
	}
	if row.SamplePct != 0 || row.TelemetryPct != 0 {
		t.Errorf("missing phases should be zero: %+v", row)
	}
}
