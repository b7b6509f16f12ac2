package systems

import "math"

// Palette is a cosine gradient: a + b*cos(2*Pi*(c*t + d)) per channel.
type Palette struct {
	A, B, C, D [3]float64
}

// Rainbow is the default gradient.
var Rainbow = Palette{
	A: [3]float64{1, 0.5, 0.5},
	B: [3]float64{0.5, 0.5, 0.5},
	C: [3]float64{1, 1, 1},
	D: [3]float64{0, 0.33, 0.67},
}

// Eval returns the channel intensities at t, clamped to [0, 1].
func (p *Palette) Eval(t float64) (r, g, b float64) {
	var out [3]float64
	for i := range out {
		out[i] = clamp01(p.A[i] + p.B[i]*math.Cos(2*math.Pi*(p.C[i]*t+p.D[i])))
	}
	return out[0], out[1], out[2]
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}
