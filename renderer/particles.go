// Package renderer draws the particle field and the camera feed.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lumen/camera"
	"github.com/pthm-cable/lumen/systems"
)

// FieldRenderer draws each particle as a filled circle at its sample pixel.
type FieldRenderer struct {
	Mapping systems.Mapping
	drawn   int
}

// NewFieldRenderer creates a renderer with the given mapping.
func NewFieldRenderer(m systems.Mapping) *FieldRenderer {
	return &FieldRenderer{Mapping: m}
}

// Draw renders all particles in slice order. Later particles paint over
// earlier ones where circles overlap.
func (r *FieldRenderer) Draw(particles []systems.Particle, cam *camera.Camera) {
	r.drawn = 0
	for i := range particles {
		p := &particles[i]

		px, py := p.Pixel()
		sx, sy := cam.WorldToScreen(float32(px), float32(py))

		// Radius is in screen pixels at the width fit; zoom enlarges it
		radius := r.Mapping.Radius(p.Velocity()) * cam.Zoom
		if !cam.IsVisible(float32(px), float32(py), radius) {
			continue
		}

		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, r.Mapping.Color(p.Value()))
		r.drawn++
	}
}

// Drawn returns how many circles the last Draw call emitted.
func (r *FieldRenderer) Drawn() int {
	return r.drawn
}
