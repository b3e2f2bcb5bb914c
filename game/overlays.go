package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lumen/config"
	"github.com/pthm-cable/lumen/ui"
)

// handleOverlayKeys checks for overlay toggle key presses.
func (g *Game) handleOverlayKeys() {
	for _, key := range g.overlays.Keys() {
		if !rl.IsKeyPressed(key) {
			continue
		}
		id, enabled, ok := g.overlays.HandleKeyPress(key)
		if !ok {
			continue
		}

		switch id {
		case ui.OverlayHuePalette:
			g.setPalette(enabled)
		case ui.OverlayFeed:
			// Upload the held frame now instead of waiting for the next one
			if enabled && g.current != nil {
				g.feed.Update(g.current)
			}
		}
		slog.Debug("overlay toggled", "overlay", id, "enabled", enabled)
	}
}

// setPalette switches particle coloring between hue and red intensity.
func (g *Game) setPalette(hue bool) {
	g.mapping.Palette = config.PaletteRed
	if hue {
		g.mapping.Palette = config.PaletteHue
	}
	if g.fieldRenderer != nil {
		g.fieldRenderer.Mapping = g.mapping
	}
}

// applyTuning pushes slider values into the field, clock and mapping.
func (g *Game) applyTuning(t ui.Tuning) {
	t = t.Clamp()
	if t.Drag != g.tuning.Drag {
		g.field.SetDrag(t.Drag)
	}
	g.clock.SetScale(t.TimeScale)
	g.mapping.BaseRadius = t.BaseRadius
	g.mapping.MinRadius = t.MinRadius
	if g.fieldRenderer != nil {
		g.fieldRenderer.Mapping = g.mapping
	}
	g.tuning = t

	slog.Debug("tuning changed",
		"drag", t.Drag,
		"time_scale", t.TimeScale,
		"base_radius", t.BaseRadius,
		"min_radius", t.MinRadius,
	)
}
