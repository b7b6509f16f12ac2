package systems

import (
	"math"

	"github.com/pthm-cable/mold/compute"
	"github.com/pthm-cable/mold/config"
)

// Steer returns the heading change for one agent from its three probe samples.
//
// A side wins when it is at least as strong as the middle. When exactly one
// side wins the agent turns toward it. When both or neither win, the agent
// turns by the flag-selected rotation if both sides matched or beat the
// middle, and keeps its heading if the middle was strictly strongest.
// The no-turn case matches the reference agent kernel, whose weighted
// rotation term is zero when neither side wins.
func Steer(left, middle, right, rotation float64, flag bool) float64 {
	rightWins := middle <= right
	leftWins := middle <= left

	if rightWins == leftWins {
		if !rightWins {
			return 0
		}
		if flag {
			return rotation
		}
		return -rotation
	}
	if rightWins {
		return -rotation
	}
	return rotation
}

// SenseAndMove advances every agent one step. It reads agents.Front and
// field.Front and writes agents.Back. flag breaks ties for this frame.
func SenseAndMove(b compute.Backend, agents *AgentStore, field *TrailField, p Params, flag bool) error {
	src := agents.Front()
	dst := agents.Back()
	w, h := float32(field.W), float32(field.H)
	bounce := p.Boundary == config.Bounce

	return b.Dispatch("updateAgents", agents.Len(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			sp := src.Pos[i*PosComponents : i*PosComponents+PosComponents]
			dp := dst.Pos[i*PosComponents : i*PosComponents+PosComponents]

			absX, absY := float64(sp[0]), float64(sp[1])
			dispX, dispY := float64(sp[2]), float64(sp[3])
			posX, posY := absX+dispX, absY+dispY
			dir := float64(src.Dir[i])

			middle := field.Sample(posX+p.SensorDistance*math.Cos(dir), posY+p.SensorDistance*math.Sin(dir))
			left := field.Sample(posX+p.SensorDistance*math.Cos(dir+p.SensorAngle), posY+p.SensorDistance*math.Sin(dir+p.SensorAngle))
			right := field.Sample(posX+p.SensorDistance*math.Cos(dir-p.SensorAngle), posY+p.SensorDistance*math.Sin(dir-p.SensorAngle))

			heading := normalizeHeading(dir + Steer(left, middle, right, p.RotationAngle, flag))
			dir = float64(heading)

			nextX := dispX + p.StepSize*math.Cos(dir)
			nextY := dispY + p.StepSize*math.Sin(dir)

			if bounce {
				if t := absX + nextX; t < 0 || t > float64(w) {
					nextX = -nextX
					absX = math.Max(0, math.Min(absX, float64(w)))
					heading = normalizeHeading(math.Pi - dir)
					dir = float64(heading)
				}
				if t := absY + nextY; t < 0 || t > float64(h) {
					nextY = -nextY
					absY = math.Max(0, math.Min(absY, float64(h)))
					heading = normalizeHeading(-dir)
				}
			}

			if nextX*nextX+nextY*nextY >= MergeThreshold {
				absX += nextX
				absY += nextY
				nextX, nextY = 0, 0
			}

			if bounce {
				dp[0] = clampFloat(float32(absX), 0, w)
				dp[1] = clampFloat(float32(absY), 0, h)
			} else {
				dp[0] = wrapCoord(absX, w)
				dp[1] = wrapCoord(absY, h)
			}
			dp[2] = float32(nextX)
			dp[3] = float32(nextY)
			dst.Dir[i] = heading
		}
	})
}
