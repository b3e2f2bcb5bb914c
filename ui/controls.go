package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

var (
	colorToggleOff = rl.Color{R: 80, G: 80, B: 80, A: 255}
	colorToggleOn  = rl.Color{R: 100, G: 200, B: 100, A: 255}
	colorKeyBadge  = rl.Color{R: 55, G: 55, B: 65, A: 255}
)

// ControlsPanel lists overlay toggles grouped by category. Hovering a row
// shows its description underneath the panel.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden panel with its top-left corner at (x, y).
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition moves the panel's top-left corner.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x, c.y = x, y
}

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible reports whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle flips visibility and returns the new state.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns the y just below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	th := c.renderer.Theme
	cats := overlays.Categories()

	rows := len(cats) + 1 // headers plus title
	for _, cat := range cats {
		rows += len(overlays.ByCategory(cat))
	}
	height := int32(rows)*th.LineHeight + th.Padding*2 + int32(len(cats))*4
	c.renderer.DrawPanel(c.x, c.y, c.width, height)

	mouse := rl.GetMousePosition()
	hovered := ""

	x := c.x + th.Padding
	y := c.y + th.Padding
	rl.DrawText("Overlays", x, y, 16, rl.White)
	y += th.LineHeight + 4

	for _, cat := range cats {
		rl.DrawText(categoryLabel(cat), x, y, th.HeaderFontSize, th.SectionHeader)
		y += th.LineHeight

		for _, desc := range overlays.ByCategory(cat) {
			c.drawRow(x, y, desc, overlays.IsEnabled(desc.ID))
			row := rl.Rectangle{X: float32(c.x), Y: float32(y), Width: float32(c.width), Height: float32(th.LineHeight)}
			if rl.CheckCollisionPointRec(mouse, row) {
				hovered = desc.Description
			}
			y += th.LineHeight
		}
		y += 4
	}

	bottom := c.y + height
	if hovered != "" {
		rl.DrawText(hovered, c.x, bottom+4, th.FontSize, th.LabelColor)
	}
	return bottom
}

func (c *ControlsPanel) drawRow(x, y int32, desc OverlayDescriptor, enabled bool) {
	th := c.renderer.Theme

	dot, name := colorToggleOff, th.LabelColor
	if enabled {
		dot, name = colorToggleOn, rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, dot)
	rl.DrawText(desc.Name, x+14, y, th.FontSize, name)

	if desc.KeyLabel == "" {
		return
	}
	w := rl.MeasureText(desc.KeyLabel, th.FontSize) + 8
	bx := c.x + c.width - th.Padding - w
	rl.DrawRectangle(bx, y-1, w, th.FontSize+2, colorKeyBadge)
	rl.DrawText(desc.KeyLabel, bx+4, y, th.FontSize, th.ValueColor)
}

func categoryLabel(cat string) string {
	switch cat {
	case "visual":
		return "Visual"
	case "info":
		return "Panels"
	default:
		return cat
	}
}
