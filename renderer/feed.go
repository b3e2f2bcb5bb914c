package renderer

import (
	"image/color"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lumen/camera"
	"github.com/pthm-cable/lumen/frame"
)

// FrameTexture mirrors the latest capture frame on the GPU.
// The texture is reallocated whenever the frame dimensions change.
type FrameTexture struct {
	tex    rl.Texture2D
	texW   int
	texH   int
	pixels []color.RGBA
	tint   rl.Color

	initialized bool
}

// NewFrameTexture creates an empty feed texture. Alpha of tint controls
// how strongly the feed shows through behind the particles.
func NewFrameTexture(alpha uint8) *FrameTexture {
	return &FrameTexture{tint: rl.Color{R: 255, G: 255, B: 255, A: alpha}}
}

// Update uploads a frame, reallocating the texture on a size change.
// Must be called after the raylib window is created.
func (t *FrameTexture) Update(f *frame.Frame) {
	if f == nil {
		return
	}

	if !t.initialized || f.Width != t.texW || f.Height != t.texH {
		t.realloc(f.Width, f.Height)
	}

	t.pixels = f.RGBA(t.pixels)
	rl.UpdateTexture(t.tex, t.pixels)
}

func (t *FrameTexture) realloc(w, h int) {
	if t.initialized {
		rl.UnloadTexture(t.tex)
		slog.Info("renderer: feed texture reallocated",
			"from", []int{t.texW, t.texH},
			"to", []int{w, h},
		)
	}

	img := rl.GenImageColor(w, h, rl.Black)
	t.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(t.tex, rl.FilterBilinear)
	rl.UnloadImage(img)

	t.texW = w
	t.texH = h
	t.initialized = true
}

// Draw stretches the feed over the capture area on screen.
func (t *FrameTexture) Draw(cam *camera.Camera) {
	if !t.initialized {
		return
	}

	x, y, w, h := cam.ScreenRect()
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(t.texW), Height: float32(t.texH)}
	dst := rl.Rectangle{X: x, Y: y, Width: w, Height: h}
	rl.DrawTexturePro(t.tex, src, dst, rl.Vector2{}, 0, t.tint)
}

// Size returns the current texture dimensions.
func (t *FrameTexture) Size() (int, int) {
	return t.texW, t.texH
}

// Unload frees resources.
func (t *FrameTexture) Unload() {
	if t.initialized {
		rl.UnloadTexture(t.tex)
		t.initialized = false
	}
}
