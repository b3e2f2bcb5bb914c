package game

import (
	"log/slog"

	"github.com/pthm-cable/lumen/telemetry"
	"github.com/pthm-cable/lumen/ui"
)

// step runs one loop iteration: poll the source, adopt a new frame if one
// arrived, then tick every particle against the current frame. Until the
// first frame arrives there is nothing to sample and the tick is skipped.
func (g *Game) step() {
	now := g.now()

	// 1. Poll
	g.perfCollector.StartPhase(telemetry.PhaseCapture)
	fr, ok := g.source.Poll()
	if ok {
		if err := fr.Validate(); err != nil {
			// Keep ticking against the last good frame
			slog.Warn("frame rejected", "error", err, "seq", fr.Seq)
			ok = false
			fr = nil
		}
	}
	if ok {
		if g.current == nil {
			// dt counts from the first frame, not from startup
			g.clock.Reset(now)
			g.lastStep = now
			slog.Info("first frame", "resolution", fr.Resolution(), "trace_id", fr.TraceID)
		}
		g.current = fr
		g.frames++
		g.collector.RecordFrame()
	}
	if g.current == nil {
		return
	}

	// 2. Sample table and feed texture follow the frame's declared size
	g.perfCollector.StartPhase(telemetry.PhaseSample)
	if w, h := g.field.Bounds(); w != g.current.Width || h != g.current.Height {
		g.handleResize(w, h)
	}
	if ok && g.feed != nil && g.overlays.IsEnabled(ui.OverlayFeed) {
		g.feed.Update(g.current)
	}

	// 3. Filter
	g.perfCollector.StartPhase(telemetry.PhaseFilter)
	dt := g.clock.Step(now)
	if _, err := g.field.Tick(g.current, dt); err != nil {
		slog.Error("tick failed", "error", err, "seq", g.current.Seq)
		return
	}
	g.collector.RecordTick(now.Sub(g.lastStep).Seconds(), dt)
	g.lastStep = now
	g.tick++
	if g.inspector != nil {
		g.inspector.Record(g.field.Particles())
	}

	// 4. Telemetry
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
}

// handleResize rebuilds the sample table for the current frame.
// The previous size is 0x0 before the first frame.
func (g *Game) handleResize(prevW, prevH int) {
	fr := g.current
	g.field.Resize(fr.Width, fr.Height)

	if prevW == 0 && prevH == 0 {
		return
	}
	g.resizes++
	g.collector.RecordResize()
	slog.Info("resize",
		"from", []int{prevW, prevH},
		"to", []int{fr.Width, fr.Height},
		"tick", g.tick,
	)
}
