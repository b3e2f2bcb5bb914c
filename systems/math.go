package systems

// lerp interpolates linearly from a to b by t. t is not clamped.
func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// abs32 returns |v| without a float64 round trip.
func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
