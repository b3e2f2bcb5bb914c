// Package camera maps capture-space coordinates onto the screen.
package camera

// Camera scales capture space to fill the screen width and centers it.
// Zoom and pan are layered on top of that fit for inspection.
type Camera struct {
	// Position is the camera center in capture coordinates
	X, Y float32

	// Zoom relative to the width fit (1.0 = capture width spans the screen)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World dimensions (capture frame size)
	WorldW, WorldH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the capture area at the width fit.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	return &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MinZoom:   1.0,
		MaxZoom:   8.0,
	}
}

// FitScale is the capture-to-screen multiplier at zoom 1.
func (c *Camera) FitScale() float32 {
	if c.WorldW <= 0 {
		return 1
	}
	return c.ViewportW / c.WorldW
}

// Scale is the effective capture-to-screen multiplier.
func (c *Camera) Scale() float32 {
	return c.FitScale() * c.Zoom
}

// WorldToScreen converts capture coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.Scale()
	sx = c.ViewportW/2 + (wx-c.X)*s
	sy = c.ViewportH/2 + (wy-c.Y)*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates to capture coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.Scale()
	wx = c.X + (sx-c.ViewportW/2)/s
	wy = c.Y + (sy-c.ViewportH/2)/s
	return wx, wy
}

// ScaleLength converts a capture-space length to screen pixels.
func (c *Camera) ScaleLength(l float32) float32 {
	return l * c.Scale()
}

// IsVisible returns true if a circle at (wx, wy) with a screen-space radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, screenRadius float32) bool {
	sx, sy := c.WorldToScreen(wx, wy)
	return sx+screenRadius >= 0 && sx-screenRadius <= c.ViewportW &&
		sy+screenRadius >= 0 && sy-screenRadius <= c.ViewportH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
// The center stays inside the capture area.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Scale()
	c.X = clamp(c.X+dx/s, 0, c.WorldW)
	c.Y = clamp(c.Y+dy/s, 0, c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	if c.Zoom == c.MinZoom {
		c.X = c.WorldW / 2
		c.Y = c.WorldH / 2
	}
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the centered width fit.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1.0
}

// ScreenRect returns the screen rectangle covered by the capture area.
func (c *Camera) ScreenRect() (x, y, w, h float32) {
	x, y = c.WorldToScreen(0, 0)
	return x, y, c.ScaleLength(c.WorldW), c.ScaleLength(c.WorldH)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
