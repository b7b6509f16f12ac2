package systems

import (
	"github.com/pthm-cable/mold/compute"
	"github.com/pthm-cable/mold/config"
)

// DiffuseDecay blurs the front field with a 3x3 kernel (1/4 centre,
// 1/8 edges, 1/16 corners), scales it by p.DecayFactor into the back
// buffer and swaps. Edges wrap or clamp per the field's policy.
//
// Sums are taken in float64 and rounded once, so a uniform field shrinks
// by exactly DecayFactor each call.
func DiffuseDecay(b compute.Backend, field *TrailField, p Params) error {
	src := field.Front()
	dst := field.Back()
	w, h := field.W, field.H
	wrap := field.Policy == config.Wrap
	decay := p.DecayFactor

	neighbour := func(i, n int) int {
		if wrap {
			return modInt(i, n)
		}
		return clampInt(i, n)
	}

	err := b.Dispatch("diffuseAndDecay", h, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			rowN := neighbour(y-1, h) * w
			rowC := y * w
			rowS := neighbour(y+1, h) * w
			for x := 0; x < w; x++ {
				xW := neighbour(x-1, w)
				xE := neighbour(x+1, w)

				corners := float64(src[rowN+xW]) + float64(src[rowN+xE]) +
					float64(src[rowS+xW]) + float64(src[rowS+xE])
				edges := float64(src[rowN+x]) + float64(src[rowS+x]) +
					float64(src[rowC+xW]) + float64(src[rowC+xE])
				centre := float64(src[rowC+x])

				sum := (4*centre + 2*edges + corners) / 16
				dst[rowC+x] = float32(sum * decay)
			}
		}
	})
	if err != nil {
		return err
	}

	field.Swap()
	return nil
}
