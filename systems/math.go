package systems

import "math"

const twoPi32 = float32(2 * math.Pi)

// clamp01 clamps a float64 value to the [0, 1] range.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// normalizeHeading wraps a heading to [0, 2*Pi).
// The result is checked after rounding to float32, where values just below
// 2*Pi in float64 collapse onto 2*Pi.
func normalizeHeading(h float64) float32 {
	r := float32(math.Mod(h, 2*math.Pi))
	if r < 0 {
		r += twoPi32
	}
	if r >= twoPi32 || r < 0 {
		r = 0
	}
	return r
}

// wrapCoord wraps a coordinate onto [0, extent).
func wrapCoord(v float64, extent float32) float32 {
	r := float32(math.Mod(v, float64(extent)))
	if r < 0 {
		r += extent
	}
	if r >= extent || r < 0 {
		r = 0
	}
	return r
}

// modInt returns the non-negative remainder of a divided by m.
func modInt(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// clampInt clamps an index into [0, n-1].
func clampInt(a, n int) int {
	if a < 0 {
		return 0
	}
	if a >= n {
		return n - 1
	}
	return a
}
