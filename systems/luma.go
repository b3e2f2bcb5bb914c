package systems

// Rec. 709 luminance weights.
const (
	LumaR = 0.2126
	LumaG = 0.7152
	LumaB = 0.0722
)

// Luma returns the perceptual brightness of an 8-bit RGB color in [0, 1].
func Luma(r, g, b uint8) float32 {
	return LumaR*(float32(r)/255) + LumaG*(float32(g)/255) + LumaB*(float32(b)/255)
}
