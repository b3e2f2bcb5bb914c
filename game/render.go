package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lumen/telemetry"
	"github.com/pthm-cable/lumen/ui"
)

// Draw renders the field and UI, then closes the perf tick opened by Update.
func (g *Game) Draw() {
	g.perfCollector.StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	if g.overlays.IsEnabled(ui.OverlayFeed) {
		g.feed.Draw(g.camera)
	}

	g.fieldRenderer.Draw(g.field.Particles(), g.camera)
	g.inspector.Draw(g.field.Particles(), g.camera, g.mapping)

	g.drawUI()

	rl.EndDrawing()

	g.perfCollector.RecordFrame()
	g.perfCollector.EndTick()
}

// drawUI draws the enabled panels and the controls legend.
func (g *Game) drawUI() {
	if g.overlays.IsEnabled(ui.OverlayHUD) {
		g.hud.Draw(g.hudData())
	}

	if g.overlays.IsEnabled(ui.OverlayPerf) {
		g.perfPanel.Draw(g.perfCollector.Stats())
	}

	if g.overlays.IsEnabled(ui.OverlayTuning) {
		if next, changed := g.tuningPanel.Draw(g.tuning); changed {
			g.applyTuning(next)
		}
	}

	g.controls.Draw(g.overlays)
	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight), controlsLegend)
}

// hudData collects the values shown by the HUD.
func (g *Game) hudData() ui.HUDData {
	resolution := "waiting"
	if g.current != nil {
		resolution = g.current.Resolution()
	}

	return ui.HUDData{
		Title:        "Lumen",
		Source:       sourceName(g.source, g.cfg),
		Resolution:   resolution,
		Particles:    g.field.Len(),
		Tick:         g.tick,
		FPS:          rl.GetFPS(),
		Frames:       g.frames,
		Dropped:      sourceDropped(g.source),
		Resizes:      g.resizes,
		Dt:           g.clock.Scale() * rl.GetFrameTime(),
		MeanValue:    g.lastStats.ValueMean,
		MeanVelocity: g.lastStats.VelocityMean,
		Zoom:         g.camera.Zoom,
		Paused:       g.paused,
	}
}
