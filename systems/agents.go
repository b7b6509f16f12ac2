package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/mold/config"
)

// ErrNoAgents is returned when an AgentStore is requested with no agents.
var ErrNoAgents = errors.New("agent count must be positive")

// PosComponents is the stride of AgentBuffers.Pos: absolute x, y then
// displacement dx, dy.
const PosComponents = 4

// AgentBuffers holds one copy of every agent's state.
type AgentBuffers struct {
	Pos []float32 // PosComponents per agent
	Dir []float32 // radians in [0, 2*Pi)
}

// Position returns absolute plus displacement for agent i.
func (b *AgentBuffers) Position(i int) (float32, float32) {
	p := b.Pos[i*PosComponents : i*PosComponents+PosComponents]
	return p[0] + p[2], p[1] + p[3]
}

// AgentStore owns the double-buffered agent arrays.
// Agents are created once and never added or removed.
type AgentStore struct {
	n     int
	bufs  [2]AgentBuffers
	front int
}

// NewAgentStore creates n agents on a w x h surface placed by arrangement.
// ringRadius is only used by config.Ring.
func NewAgentStore(n, w, h int, arrangement config.Arrangement, ringRadius float64, rng *rand.Rand) (*AgentStore, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNoAgents, n)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, w, h)
	}

	s := &AgentStore{n: n}
	for i := range s.bufs {
		s.bufs[i] = AgentBuffers{
			Pos: make([]float32, n*PosComponents),
			Dir: make([]float32, n),
		}
	}

	front := &s.bufs[0]
	fw, fh := float64(w), float64(h)
	for i := 0; i < n; i++ {
		var x, y, dir float64
		switch arrangement {
		case config.Ring:
			angle := float64(i) / float64(n) * 2 * math.Pi
			x = fw/2 + ringRadius*math.Cos(angle)
			y = fh/2 + ringRadius*math.Sin(angle)
			dir = angle + math.Pi/2
		case config.OriginBurst:
			x, y = fw/2, fh/2
			dir = rng.Float64() * 2 * math.Pi
		default:
			x = rng.Float64() * fw
			y = rng.Float64() * fh
			dir = rng.Float64() * 2 * math.Pi
		}

		p := front.Pos[i*PosComponents:]
		p[0] = placeCoord(x, float32(w))
		p[1] = placeCoord(y, float32(h))
		front.Dir[i] = normalizeHeading(dir)
	}
	copy(s.bufs[1].Pos, front.Pos)
	copy(s.bufs[1].Dir, front.Dir)

	return s, nil
}

// placeCoord keeps an initial coordinate inside [0, extent).
// Ring radii larger than the surface would otherwise start agents outside.
func placeCoord(v float64, extent float32) float32 {
	if r := float32(v); r >= 0 && r < extent {
		return r
	}
	return wrapCoord(v, extent)
}

// Len returns the number of agents.
func (s *AgentStore) Len() int { return s.n }

// Front returns the buffers read this frame.
func (s *AgentStore) Front() *AgentBuffers { return &s.bufs[s.front] }

// Back returns the buffers written this frame.
func (s *AgentStore) Back() *AgentBuffers { return &s.bufs[1-s.front] }

// Swap exchanges front and back. Called once per frame after all stages ran.
func (s *AgentStore) Swap() { s.front = 1 - s.front }
