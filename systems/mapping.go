package systems

import (
	"image/color"

	"github.com/crazy3lf/colorconv"

	"github.com/pthm-cable/lumen/config"
)

// Mapping turns particle state into draw parameters.
type Mapping struct {
	BaseRadius float32
	MinRadius  float32 // velocity floor so a circle never disappears
	Palette    string
}

// MappingFromConfig builds a Mapping from render settings.
func MappingFromConfig(cfg *config.Config) Mapping {
	return Mapping{
		BaseRadius: cfg.Derived.BaseRadius32,
		MinRadius:  cfg.Derived.MinRadius32,
		Palette:    cfg.Render.Palette,
	}
}

// Radius returns BaseRadius * max(MinRadius, velocity).
func (m Mapping) Radius(velocity float32) float32 {
	return m.BaseRadius * max(m.MinRadius, velocity)
}

// Color returns the fill color for a smoothed value.
func (m Mapping) Color(value float32) color.RGBA {
	v := clamp01(value)

	if m.Palette == config.PaletteHue {
		// Dark blue for dark regions through to bright red
		r, g, b, err := colorconv.HSVToRGB(float64(1-v)*240, 1, float64(v))
		if err == nil {
			return color.RGBA{R: r, G: g, B: b, A: 255}
		}
	}

	return color.RGBA{R: uint8(v * 255), A: 255}
}
