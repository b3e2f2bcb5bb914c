package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorTrack   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorFill    = rl.Color{R: 120, G: 200, B: 255, A: 255}
	ColorSpark   = rl.Color{R: 255, G: 170, B: 60, A: 255}
	ColorText    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorBoolOn  = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

const (
	labelWidth  = 80
	trackWidth  = 120
	rowHeight   = 18
	sparkHeight = 32
)

func ratio(v, full float32) float32 {
	return min(max(v/full, 0), 1)
}

// FieldHeight is the height DrawField will use for f.
func FieldHeight(f Field) int32 {
	if f.Widget == WidgetSpark {
		if _, ok := FloatSeries(f.Value); ok {
			return sparkHeight + 4
		}
	}
	return rowHeight
}

// DrawField draws f at (x, y) and returns the height used.
func DrawField(x, y int32, f Field) int32 {
	switch f.Widget {
	case WidgetBar:
		if v, ok := FloatValue(f.Value); ok {
			return drawBar(x, y, f.Name, v, f.Max)
		}
	case WidgetSpark:
		if series, ok := FloatSeries(f.Value); ok {
			return drawSpark(x, y, f.Name, series, f.Max)
		}
	case WidgetBool:
		if v, ok := f.Value.(bool); ok {
			return drawBool(x, y, f.Name, v)
		}
	}

	rl.DrawText(f.Name, x, y, 14, ColorTextDim)
	rl.DrawText(FormatValue(f.Value, f.Format), x+labelWidth, y, 14, ColorText)
	return rowHeight
}

func drawBar(x, y int32, name string, v, full float32) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	tx := x + labelWidth
	rl.DrawRectangle(tx, y, trackWidth, 14, ColorTrack)
	rl.DrawRectangle(tx, y, int32(trackWidth*ratio(v, full)), 14, ColorFill)
	rl.DrawText(fmt.Sprintf("%.3f", v), tx+trackWidth+5, y, 14, ColorTextDim)
	return rowHeight
}

// drawSpark plots series oldest-first as a polyline scaled to full.
func drawSpark(x, y int32, name string, series []float32, full float32) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	tx := x + labelWidth
	rl.DrawRectangle(tx, y, trackWidth, sparkHeight, ColorTrack)
	if len(series) < 2 {
		return sparkHeight + 4
	}

	step := float32(trackWidth) / float32(len(series)-1)
	base := float32(y + sparkHeight)
	prev := rl.Vector2{X: float32(tx), Y: base - sparkHeight*ratio(series[0], full)}
	for i := 1; i < len(series); i++ {
		pt := rl.Vector2{
			X: float32(tx) + step*float32(i),
			Y: base - sparkHeight*ratio(series[i], full),
		}
		rl.DrawLineV(prev, pt, ColorSpark)
		prev = pt
	}
	rl.DrawText(fmt.Sprintf("%.3f", series[len(series)-1]), tx+trackWidth+5, y, 14, ColorTextDim)
	return sparkHeight + 4
}

func drawBool(x, y int32, name string, v bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	color, text := ColorBoolOff, "no"
	if v {
		color, text = ColorBoolOn, "yes"
	}
	rl.DrawRectangle(x+labelWidth, y, 14, 14, color)
	rl.DrawText(text, x+labelWidth+19, y, 14, color)
	return rowHeight
}
