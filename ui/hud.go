package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lumen/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Source       string
	Resolution   string
	Particles    int
	Tick         int32
	FPS          int32
	Frames       uint64
	Dropped      uint64
	Resizes      int
	Dt           float32
	MeanValue    float64
	MeanVelocity float64
	Zoom         float32
	Paused       bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	x := int32(10)
	width := int32(300)

	r.DrawPanel(x-5, 5, width, 160)

	rl.DrawText(data.Title, x, 10, 20, rl.White)

	y := int32(35)
	y = r.DrawLabelValue(x, y, "Source", fmt.Sprintf("%s %s", data.Source, data.Resolution))
	y = r.DrawLabelValue(x, y, "Frames", fmt.Sprintf("%d in, %d dropped, %d resizes", data.Frames, data.Dropped, data.Resizes))
	y = r.DrawLabelValue(x, y, "Loop", fmt.Sprintf("tick %d | %d fps | dt %.3f", data.Tick, data.FPS, data.Dt))
	y = r.DrawLabelValue(x, y, "Particles", fmt.Sprintf("%d (zoom %.1fx)", data.Particles, data.Zoom))
	y = r.DrawBar(x, y, "Mean value", float32(data.MeanValue), width-10)
	y = r.DrawBar(x, y, "Mean velocity", float32(data.MeanVelocity), width-10)

	statusText := "Running"
	statusColor := rl.Green
	if data.Paused {
		statusText = "PAUSED"
		statusColor = rl.Yellow
	}
	rl.DrawText(statusText, x, y+2, 16, statusColor)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the loop phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	x := p.x
	y := p.y

	r.DrawPanel(x-5, y-5, 260, int32(len(telemetry.Phases))*14+46)

	rl.DrawText("Loop Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s p95 %s (%d/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.P95TickDuration.Round(time.Microsecond), int(stats.TicksPerSecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range telemetry.Phases {
		avg := stats.PhaseAvg[phase]
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase.String(), avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
