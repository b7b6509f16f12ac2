package telemetry

import (
	"fmt"
	"log/slog"
	"time"
)

// Phase identifies one timed section of a frame.
type Phase uint8

const (
	PhaseSenseMove Phase = iota
	PhaseDeposit
	PhaseDiffuseDecay
	PhaseRender
	PhaseProbes
	PhaseTelemetry

	NumPhases
)

var phaseNames = [NumPhases]string{
	"sense_move", "deposit", "diffuse_decay", "render", "probes", "telemetry",
}

func (p Phase) String() string {
	if p < NumPhases {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", p)
}

// Phases lists every phase in pipeline order.
var Phases = []Phase{
	PhaseSenseMove, PhaseDeposit, PhaseDiffuseDecay,
	PhaseRender, PhaseProbes, PhaseTelemetry,
}

// PhaseTimes holds one duration per phase.
type PhaseTimes [NumPhases]time.Duration

// frameSample is the timing of one simulated frame.
type frameSample struct {
	total  time.Duration
	phases PhaseTimes
}

// PerfCollector keeps a ring of the last N frame timings. The running
// sums are updated as samples enter and leave the ring.
type PerfCollector struct {
	ring  []frameSample
	next  int
	count int

	sumTotal  time.Duration
	sumPhases PhaseTimes

	cur        frameSample
	tickStart  time.Time
	phaseStart time.Time
	active     Phase // NumPhases when no phase is running

	// Display frame pacing, separate from simulated ticks
	lastFrame     time.Time
	frameInterval time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring:   make([]frameSample, windowSize),
		active: NumPhases,
	}
}

// StartTick begins timing a new frame.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.cur = frameSample{}
	p.active = NumPhases
}

// StartPhase closes the running phase, if any, and opens phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.active = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.active < NumPhases {
		p.cur.phases[p.active] += now.Sub(p.phaseStart)
	}
	p.active = NumPhases
}

// EndTick closes the frame and pushes it into the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	if p.count == len(p.ring) {
		old := p.ring[p.next]
		p.sumTotal -= old.total
		for i := range old.phases {
			p.sumPhases[i] -= old.phases[i]
		}
	} else {
		p.count++
	}

	p.ring[p.next] = p.cur
	p.sumTotal += p.cur.total
	for i := range p.cur.phases {
		p.sumPhases[i] += p.cur.phases[i]
	}
	p.next = (p.next + 1) % len(p.ring)
}

// RecordFrame marks a display refresh.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameInterval = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarizes the frames currently in the window.
type PerfStats struct {
	Frames int

	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	PhaseAvg PhaseTimes
	PhasePct [NumPhases]float64 // share of the average tick, 0..100

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes the window summary.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		Frames:        p.count,
		FrameDuration: p.frameInterval,
	}
	if p.frameInterval > 0 {
		s.FPS = float64(time.Second) / float64(p.frameInterval)
	}
	if p.count == 0 {
		return s
	}

	n := time.Duration(p.count)
	s.AvgTickDuration = p.sumTotal / n
	s.MinTickDuration = p.ring[0].total
	for _, f := range p.ring[:p.count] {
		s.MinTickDuration = min(s.MinTickDuration, f.total)
		s.MaxTickDuration = max(s.MaxTickDuration, f.total)
	}

	for i, sum := range p.sumPhases {
		s.PhaseAvg[i] = sum / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[i] = 100 * float64(s.PhaseAvg[i]) / float64(s.AvgTickDuration)
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the summary at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("frames", s.Frames),
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, ph := range Phases {
		// Hide phases below 0.1%
		if pct := s.PhasePct[ph]; pct >= 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd       int32   `csv:"window_end"`
	Frames          int     `csv:"frames"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	MinTickUS       int64   `csv:"min_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	FPS             float64 `csv:"fps"`
	SenseMovePct    float64 `csv:"sense_move_pct"`
	DepositPct      float64 `csv:"deposit_pct"`
	DiffuseDecayPct float64 `csv:"diffuse_decay_pct"`
	RenderPct       float64 `csv:"render_pct"`
	ProbesPct       float64 `csv:"probes_pct"`
	TelemetryPct    float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the summary for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:       windowEnd,
		Frames:          s.Frames,
		AvgTickUS:       s.AvgTickDuration.Microseconds(),
		MinTickUS:       s.MinTickDuration.Microseconds(),
		MaxTickUS:       s.MaxTickDuration.Microseconds(),
		TicksPerSec:     s.TicksPerSecond,
		FPS:             s.FPS,
		SenseMovePct:    s.PhasePct[PhaseSenseMove],
		DepositPct:      s.PhasePct[PhaseDeposit],
		DiffuseDecayPct: s.PhasePct[PhaseDiffuseDecay],
		RenderPct:       s.PhasePct[PhaseRender],
		ProbesPct:       s.PhasePct[PhaseProbes],
		TelemetryPct:    s.PhasePct[PhaseTelemetry],
	}
}
