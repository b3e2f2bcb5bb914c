package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Tuning holds the live-adjustable field and render parameters.
type Tuning struct {
	Drag       float32
	TimeScale  float32
	BaseRadius float32
	MinRadius  float32
}

// Slider ranges.
const (
	minDrag, maxDrag             = 0.01, 1.0
	minTimeScale, maxTimeScale   = 0.0, 60.0
	minBaseRadius, maxBaseRadius = 1.0, 200.0
	minMinRadius, maxMinRadius   = 0.0, 0.2
)

// Clamp restricts every parameter to its slider range.
func (t Tuning) Clamp() Tuning {
	t.Drag = clampRange(t.Drag, minDrag, maxDrag)
	t.TimeScale = clampRange(t.TimeScale, minTimeScale, maxTimeScale)
	t.BaseRadius = clampRange(t.BaseRadius, minBaseRadius, maxBaseRadius)
	t.MinRadius = clampRange(t.MinRadius, minMinRadius, maxMinRadius)
	return t
}

// TuningPanel draws raygui sliders for the Tuning parameters.
type TuningPanel struct {
	renderer *Renderer
	x, y     float32
	width    float32
	defaults Tuning
}

// NewTuningPanel creates a panel; defaults are restored by its reset button.
func NewTuningPanel(x, y, width float32, defaults Tuning) *TuningPanel {
	return &TuningPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		defaults: defaults.Clamp(),
	}
}

// SetPosition updates the panel position.
func (p *TuningPanel) SetPosition(x, y float32) {
	p.x = x
	p.y = y
}

// Draw renders the sliders and returns the possibly edited values and
// whether anything changed.
func (p *TuningPanel) Draw(current Tuning) (Tuning, bool) {
	r := p.renderer
	next := current

	panelH := float32(4*40 + 80)
	r.DrawPanel(int32(p.x-10), int32(p.y-10), int32(p.width+20), int32(panelH))

	y := p.y
	rl.DrawText("Tuning", int32(p.x), int32(y), 16, rl.White)
	y += 24

	next.Drag = p.slider(&y, "Drag", current.Drag, minDrag, maxDrag, "%.2f")
	next.TimeScale = p.slider(&y, "Time scale", current.TimeScale, minTimeScale, maxTimeScale, "%.1f")
	next.BaseRadius = p.slider(&y, "Base radius", current.BaseRadius, minBaseRadius, maxBaseRadius, "%.0f")
	next.MinRadius = p.slider(&y, "Min radius", current.MinRadius, minMinRadius, maxMinRadius, "%.3f")

	if gui.Button(rl.Rectangle{X: p.x, Y: y + 4, Width: 120, Height: 26}, "Reset") {
		next = p.defaults
	}

	next = next.Clamp()
	return next, next != current
}

func (p *TuningPanel) slider(y *float32, label string, value, min, max float32, format string) float32 {
	rl.DrawText(label, int32(p.x), int32(*y), 12, p.renderer.Theme.LabelColor)
	*y += 14

	v := gui.SliderBar(
		rl.Rectangle{X: p.x, Y: *y, Width: p.width - 60, Height: 16},
		"", "",
		value, min, max,
	)
	rl.DrawText(fmt.Sprintf(format, v), int32(p.x+p.width-52), int32(*y+2), 12, p.renderer.Theme.ValueColor)
	*y += 26
	return v
}

func clampRange(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
