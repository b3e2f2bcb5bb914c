// Package frame defines the RGB frame buffer handed from a frame source to the
// particle field, plus the in-process sources used when no camera is involved.
package frame

import (
	"fmt"
	"image/color"
	"time"
)

// BytesPerPixel is the stride of one RGB24 pixel.
const BytesPerPixel = 3

// Frame is one captured RGB24 image. Data is row-major with a stride of
// Width*BytesPerPixel. A frame is immutable once published.
type Frame struct {
	Seq       uint64
	Timestamp time.Time
	Width     int
	Height    int
	Data      []byte
	TraceID   string
}

// New allocates a black frame of the given size.
func New(width, height int) *Frame {
	return &Frame{
		Width:     width,
		Height:    height,
		Data:      make([]byte, width*height*BytesPerPixel),
		Timestamp: time.Now(),
	}
}

// Validate checks that Data matches the declared dimensions.
func (f *Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("frame: invalid size %dx%d", f.Width, f.Height)
	}
	if want := f.Width * f.Height * BytesPerPixel; len(f.Data) < want {
		return fmt.Errorf("frame: %d bytes for %dx%d, want %d", len(f.Data), f.Width, f.Height, want)
	}
	return nil
}

// Offset returns the byte offset of pixel (x, y). No bounds checking.
func (f *Frame) Offset(x, y int) int {
	return (y*f.Width + x) * BytesPerPixel
}

// At returns the RGB components of pixel (x, y).
func (f *Frame) At(x, y int) (r, g, b uint8) {
	i := f.Offset(x, y)
	return f.Data[i], f.Data[i+1], f.Data[i+2]
}

// Set writes the RGB components of pixel (x, y).
func (f *Frame) Set(x, y int, r, g, b uint8) {
	i := f.Offset(x, y)
	f.Data[i], f.Data[i+1], f.Data[i+2] = r, g, b
}

// Fill paints every pixel with one color.
func (f *Frame) Fill(r, g, b uint8) {
	for i := 0; i+2 < len(f.Data); i += BytesPerPixel {
		f.Data[i], f.Data[i+1], f.Data[i+2] = r, g, b
	}
}

// SameSize reports whether two frames share dimensions.
func (f *Frame) SameSize(o *Frame) bool {
	return o != nil && f.Width == o.Width && f.Height == o.Height
}

// Resolution formats the frame size as "WxH".
func (f *Frame) Resolution() string {
	return fmt.Sprintf("%dx%d", f.Width, f.Height)
}

// RGBA expands the frame into opaque RGBA pixels, reusing dst when it has
// enough capacity.
func (f *Frame) RGBA(dst []color.RGBA) []color.RGBA {
	n := f.Width * f.Height
	if cap(dst) < n {
		dst = make([]color.RGBA, n)
	}
	dst = dst[:n]
	for i := range dst {
		j := i * BytesPerPixel
		dst[i] = color.RGBA{R: f.Data[j], G: f.Data[j+1], B: f.Data[j+2], A: 255}
	}
	return dst
}

// Source produces frames for the render loop.
//
// Poll never blocks: it returns the newest frame published since the last
// call, or ok=false when nothing new arrived.
type Source interface {
	Poll() (f *Frame, ok bool)
	Close() error
}
