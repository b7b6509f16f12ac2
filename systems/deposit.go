package systems

import (
	"math"
	"sync/atomic"

	"github.com/pthm-cable/mold/compute"
)

// Deposit adds p.DepositAmount to the cell under every agent's post-step
// position (agents.Back) and swaps the field.
//
// Agents only count hits per cell. The per-cell pass then adds
// hits*DepositAmount in one step, so the result does not depend on the
// order agents were processed in.
func Deposit(b compute.Backend, agents *AgentStore, field *TrailField, p Params) error {
	moved := agents.Back()
	hits, headX, headY := field.hits, field.headX, field.headY

	err := b.Dispatch("depositScatter", agents.Len(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			x, y := moved.Position(i)
			c := field.CellIndex(x, y)
			atomic.AddUint32(&hits[c], 1)

			dir := float64(moved.Dir[i])
			atomic.AddInt64(&headX[c], int64(math.Round(math.Cos(dir)*headingScale)))
			atomic.AddInt64(&headY[c], int64(math.Round(math.Sin(dir)*headingScale)))
		}
	})
	if err != nil {
		return err
	}

	front := field.Front()
	back := field.Back()
	heading := field.heading
	amount := p.DepositAmount

	err = b.Dispatch("depositApply", field.Len(), func(lo, hi int) {
		nan := float32(math.NaN())
		for i := lo; i < hi; i++ {
			n := hits[i]
			if n == 0 {
				back[i] = front[i]
				heading[i] = nan
				continue
			}
			back[i] = float32(float64(front[i]) + float64(n)*amount)
			if headX[i] == 0 && headY[i] == 0 {
				heading[i] = nan
			} else {
				heading[i] = normalizeHeading(math.Atan2(float64(headY[i]), float64(headX[i])))
			}
			hits[i] = 0
			headX[i] = 0
			headY[i] = 0
		}
	})
	if err != nil {
		return err
	}

	field.Swap()
	return nil
}
