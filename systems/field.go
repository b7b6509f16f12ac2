package systems

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/mold/config"
)

// ErrBadDimensions is returned for a field with a non-positive side.
var ErrBadDimensions = errors.New("field dimensions must be positive")

// headingScale converts a unit heading component to the fixed-point
// value accumulated by the deposit scatter.
const headingScale = 1024

// TrailField is the double-buffered density grid agents sense and deposit on.
// Cell (x, y) lives at index y*W + x. Readers use Front, stage outputs go to
// Back, and Swap exchanges the two.
type TrailField struct {
	W, H   int
	Policy config.BoundaryPolicy

	bufs  [2][]float32
	front int

	// Per-frame deposit scratch, reset by the apply kernel.
	hits  []uint32
	headX []int64
	headY []int64

	// Mean deposit heading per cell from the last frame, NaN where empty.
	heading []float32
}

// NewTrailField creates a zeroed w x h field.
func NewTrailField(w, h int, policy config.BoundaryPolicy) (*TrailField, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, w, h)
	}
	n := w * h
	f := &TrailField{
		W: w, H: h,
		Policy:  policy,
		hits:    make([]uint32, n),
		headX:   make([]int64, n),
		headY:   make([]int64, n),
		heading: make([]float32, n),
	}
	f.bufs[0] = make([]float32, n)
	f.bufs[1] = make([]float32, n)
	for i := range f.heading {
		f.heading[i] = float32(math.NaN())
	}
	return f, nil
}

// Len returns the number of cells.
func (f *TrailField) Len() int { return f.W * f.H }

// Front returns the buffer readers see this stage.
func (f *TrailField) Front() []float32 { return f.bufs[f.front] }

// Back returns the buffer the current stage writes.
func (f *TrailField) Back() []float32 { return f.bufs[1-f.front] }

// Swap exchanges front and back.
func (f *TrailField) Swap() { f.front = 1 - f.front }

// Headings returns the mean deposit heading per cell from the last deposit.
// Cells nobody deposited on hold NaN.
func (f *TrailField) Headings() []float32 { return f.heading }

// At returns the front value at integer cell coordinates, addressed per policy.
func (f *TrailField) At(x, y int) float32 {
	return f.Front()[f.index(x, y)]
}

// Fill sets every cell of both buffers to v.
func (f *TrailField) Fill(v float32) {
	for b := range f.bufs {
		for i := range f.bufs[b] {
			f.bufs[b][i] = v
		}
	}
}

// index maps possibly out-of-range cell coordinates to a slice index.
func (f *TrailField) index(x, y int) int {
	if f.Policy == config.Wrap {
		return modInt(y, f.H)*f.W + modInt(x, f.W)
	}
	return clampInt(y, f.H)*f.W + clampInt(x, f.W)
}

// CellIndex returns the index of the cell containing surface point (x, y).
func (f *TrailField) CellIndex(x, y float32) int {
	return f.index(int(math.Floor(float64(x))), int(math.Floor(float64(y))))
}

// Sample returns the bilinear front value at surface point (x, y).
// Cell centres sit at (i+0.5, j+0.5), matching a linear-filtered texture.
func (f *TrailField) Sample(x, y float64) float64 {
	return f.sample(f.Front(), x, y)
}

func (f *TrailField) sample(grid []float32, x, y float64) float64 {
	fx := x - 0.5
	fy := y - 0.5
	x0f := math.Floor(fx)
	y0f := math.Floor(fy)
	tx := fx - x0f
	ty := fy - y0f
	x0, y0 := int(x0f), int(y0f)

	a := float64(grid[f.index(x0, y0)])
	b := float64(grid[f.index(x0+1, y0)])
	c := float64(grid[f.index(x0, y0+1)])
	d := float64(grid[f.index(x0+1, y0+1)])

	ab := a + (b-a)*tx
	cd := c + (d-c)*tx
	return ab + (cd-ab)*ty
}

// Mass returns the sum of the front buffer. Values are never negative.
func (f *TrailField) Mass() float64 {
	v := blas32.Vector{N: f.Len(), Inc: 1, Data: f.Front()}
	return float64(blas32.Asum(v))
}

// Peak returns the largest front value and its cell index.
func (f *TrailField) Peak() (float32, int) {
	v := blas32.Vector{N: f.Len(), Inc: 1, Data: f.Front()}
	i := blas32.Iamax(v)
	if i < 0 {
		return 0, 0
	}
	return f.Front()[i], i
}
