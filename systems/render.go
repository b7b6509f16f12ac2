package systems

import (
	"image"
	"math"

	"github.com/pthm-cable/mold/compute"
	"github.com/pthm-cable/mold/config"
)

// positionPhase is how far the palette shifts across the surface diagonal.
const positionPhase = 0.5

// speedHueSpan is the share of the periodic palette the speed policy uses,
// so a saturated change does not wrap around to the steady-state colour.
const speedHueSpan = 0.75

// NewFrame allocates an image matching the field.
func NewFrame(field *TrailField) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, field.W, field.H))
}

// Render maps the front field to img according to p.Color.
// img must match the field dimensions. Nothing is written back to the field.
//
// After DiffuseDecay the back buffer still holds the post-deposit field,
// which the speed policy compares against.
func Render(b compute.Backend, field *TrailField, p Params, img *image.RGBA) error {
	cur := field.Front()
	prev := field.Back()
	headings := field.Headings()
	w, h := field.W, field.H
	amp := p.Amplitude
	speedGain := 1 / math.Max(1-p.DecayFactor, 1e-6)
	pal := &Rainbow

	return b.Dispatch("render", h, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			row := img.Pix[y*img.Stride : y*img.Stride+w*4]
			for x := 0; x < w; x++ {
				i := y*w + x
				t := amp * float64(cur[i])

				var r, g, bl, bright float64
				switch p.Color {
				case config.ColorGrayscale:
					r = clamp01(t)
					g, bl, bright = r, r, 1
				case config.ColorDirection:
					bright = clamp01(t)
					if hd := headings[i]; !math.IsNaN(float64(hd)) {
						r, g, bl = pal.Eval(float64(hd) / (2 * math.Pi))
					} else {
						r, g, bl = 1, 1, 1
					}
				case config.ColorSpeed:
					bright = clamp01(t)
					change := math.Abs(float64(cur[i]) - float64(prev[i]))
					r, g, bl = pal.Eval(speedHueSpan * clamp01(amp*change*speedGain))
				default:
					shift := positionPhase * (float64(x)/float64(w) + float64(y)/float64(h))
					r, g, bl = pal.Eval(t + shift)
					bright = 1
				}

				px := row[x*4 : x*4+4]
				px[0] = toByte(r * bright)
				px[1] = toByte(g * bright)
				px[2] = toByte(bl * bright)
				px[3] = 255
			}
		}
	})
}
