// Package inspector lets the user click a particle and watch its filter state.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lumen/camera"
	"github.com/pthm-cable/lumen/systems"
)

// Panel dimensions
const (
	PanelWidth   = 260
	PanelPadding = 10
	HeaderHeight = 30
)

// DeselectKey clears the selection.
const DeselectKey = rl.KeyEscape

// HistoryLen is the number of recent velocity samples kept for the selection.
const HistoryLen = 32

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorHighlight   = rl.Color{R: 255, G: 220, B: 80, A: 255}
)

// ParticleView is the inspectable state of one particle.
type ParticleView struct {
	Index    int                 `inspect:"label"`
	Pixel    [2]int              `inspect:"label"`
	Value    float32             `inspect:"bar,max:1"`
	Velocity float32             `inspect:"bar,max:1"`
	Drag     float32             `inspect:"label,fmt:%.3f"`
	Active   bool                `inspect:"bool"`
	Recent   [HistoryLen]float32 `inspect:"spark,max:0.5"`
}

// Inspector manages particle selection and panel rendering.
type Inspector struct {
	selected    int
	hasSelected bool
	panelX      int32
	panelY      int32

	// Velocity ring buffer for the selection
	history [HistoryLen]float32
	head    int
	filled  int
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize anchors the panel to the right edge, between the overlay list and
// the perf panel.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = max(screenHeight-470, 180)
}

// HandleInput processes click detection for particle selection.
func (ins *Inspector) HandleInput(mouseX, mouseY float32, particles []systems.Particle, cam *camera.Camera, m systems.Mapping) {
	// Right click or Escape to deselect
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(DeselectKey) {
		ins.Deselect()
		return
	}

	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	// Clicks on the panel never select
	if ins.hasSelected &&
		int32(mouseX) >= ins.panelX && int32(mouseX) <= ins.panelX+PanelWidth &&
		int32(mouseY) >= ins.panelY {
		return
	}

	if idx, ok := Pick(particles, cam, m, mouseX, mouseY); ok {
		ins.Select(idx)
	}
}

// Pick returns the particle whose drawn circle contains (sx, sy) and whose
// center is closest to it. Circles smaller than 4px count as 4px.
func Pick(particles []systems.Particle, cam *camera.Camera, m systems.Mapping, sx, sy float32) (int, bool) {
	best := -1
	bestDist := float32(0)

	for i := range particles {
		p := &particles[i]
		px, py := p.Pixel()
		cx, cy := cam.WorldToScreen(float32(px), float32(py))

		dx := sx - cx
		dy := sy - cy
		dist := dx*dx + dy*dy

		hit := max(m.Radius(p.Velocity())*cam.Zoom, 4)
		if dist < hit*hit && (best < 0 || dist < bestDist) {
			best = i
			bestDist = dist
		}
	}
	return best, best >= 0
}

// Select starts inspecting particle idx and clears the history.
func (ins *Inspector) Select(idx int) {
	ins.selected = idx
	ins.hasSelected = true
	ins.head = 0
	ins.filled = 0
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected particle index.
func (ins *Inspector) Selected() (int, bool) {
	return ins.selected, ins.hasSelected
}

// Record appends the selection's velocity to its history. Call once per tick.
func (ins *Inspector) Record(particles []systems.Particle) {
	if !ins.hasSelected || ins.selected >= len(particles) {
		return
	}
	ins.history[ins.head] = particles[ins.selected].Velocity()
	ins.head = (ins.head + 1) % HistoryLen
	if ins.filled < HistoryLen {
		ins.filled++
	}
}

// View builds the inspectable state of the selection, oldest history first.
func (ins *Inspector) View(particles []systems.Particle, m systems.Mapping) (ParticleView, bool) {
	if !ins.hasSelected || ins.selected >= len(particles) {
		return ParticleView{}, false
	}
	p := &particles[ins.selected]
	px, py := p.Pixel()

	v := ParticleView{
		Index:    ins.selected,
		Pixel:    [2]int{px, py},
		Value:    p.Value(),
		Velocity: p.Velocity(),
		Drag:     p.Drag(),
		Active:   p.Velocity() > m.MinRadius,
	}

	// Right-align the filled part so the newest sample is last
	start := (ins.head - ins.filled + HistoryLen) % HistoryLen
	offset := HistoryLen - ins.filled
	for i := 0; i < ins.filled; i++ {
		v.Recent[offset+i] = ins.history[(start+i)%HistoryLen]
	}
	return v, true
}

// Draw renders the inspector panel and rings the selected particle.
func (ins *Inspector) Draw(particles []systems.Particle, cam *camera.Camera, m systems.Mapping) {
	view, ok := ins.View(particles, m)
	if !ok {
		return
	}

	// Selection ring
	cx, cy := cam.WorldToScreen(float32(view.Pixel[0]), float32(view.Pixel[1]))
	r := max(m.Radius(view.Velocity)*cam.Zoom, 4) + 3
	rl.DrawCircleLines(int32(cx), int32(cy), r, ColorHighlight)

	fields := ExtractFields(view)
	panelHeight := int32(HeaderHeight + PanelPadding*2)
	for _, f := range fields {
		panelHeight += FieldHeight(f)
	}

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("Particle #%d", view.Index), ins.panelX+PanelPadding, ins.panelY+8, 16, ColorHeaderText)

	y := ins.panelY + HeaderHeight + PanelPadding
	for _, f := range fields {
		y += DrawField(ins.panelX+PanelPadding, y, f)
	}
}
