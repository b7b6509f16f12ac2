package telemetry

import (
	"testing"
	"time"
)

// runFrames records n frames, sleeping d in each listed phase.
func runFrames(pc *PerfCollector, n int, d map[Phase]time.Duration) {
	for i := 0; i < n; i++ {
		pc.StartTick()
		for _, ph := range Phases {
			if dur, ok := d[ph]; ok {
				pc.StartPhase(ph)
				time.Sleep(dur)
			}
		}
		pc.EndTick()
	}
}

func TestPerfCollectorTracksPhases(t *testing.T) {
	pc := NewPerfCollector(10)
	runFrames(pc, 5, map[Phase]time.Duration{
		PhaseSenseMove:    100 * time.Microsecond,
		PhaseDiffuseDecay: 200 * time.Microsecond,
	})

	s := pc.Stats()
	if s.Frames != 5 {
		t.Errorf("frames = %d, want 5", s.Frames)
	}
	if s.AvgTickDuration <= 0 || s.TicksPerSecond <= 0 {
		t.Errorf("expected positive tick timing, got %+v", s)
	}
	if s.PhaseAvg[PhaseSenseMove] <= 0 || s.PhaseAvg[PhaseDiffuseDecay] <= 0 {
		t.Errorf("timed phases missing: %v", s.PhaseAvg)
	}
	if s.PhaseAvg[PhaseDeposit] != 0 {
		t.Errorf("untimed phase has %v", s.PhaseAvg[PhaseDeposit])
	}
	if s.MinTickDuration > s.AvgTickDuration || s.AvgTickDuration > s.MaxTickDuration {
		t.Errorf("min/avg/max out of order: %v %v %v", s.MinTickDuration, s.AvgTickDuration, s.MaxTickDuration)
	}
}

func TestPerfCollectorRingEvicts(t *testing.T) {
	pc := NewPerfCollector(3)
	runFrames(pc, 3, map[Phase]time.Duration{PhaseRender: 2 * time.Millisecond})
	slow := pc.Stats().AvgTickDuration

	// Three fast frames push every slow one out
	runFrames(pc, 3, map[Phase]time.Duration{PhaseRender: 0})
	s := pc.Stats()
	if s.Frames != 3 {
		t.Errorf("frames = %d, want 3", s.Frames)
	}
	if s.AvgTickDuration >= slow {
		t.Errorf("avg %v not below evicted avg %v", s.AvgTickDuration, slow)
	}
	if s.PhaseAvg[PhaseRender] >= time.Millisecond {
		t.Errorf("render avg %v still includes evicted frames", s.PhaseAvg[PhaseRender])
	}
}

func TestPerfCollectorPhaseShares(t *testing.T) {
	pc := NewPerfCollector(10)
	runFrames(pc, 5, map[Phase]time.Duration{
		PhaseRender: 100 * time.Microsecond,
		PhaseProbes: 10 * time.Microsecond,
	})

	s := pc.Stats()
	if s.PhasePct[PhaseRender] <= s.PhasePct[PhaseProbes] {
		t.Errorf("render %.1f%% should exceed probes %.1f%%", s.PhasePct[PhaseRender], s.PhasePct[PhaseProbes])
	}
	var total float64
	for _, pct := range s.PhasePct {
		total += pct
	}
	if total > 100.5 {
		t.Errorf("phase shares sum to %.2f%%", total)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	var s PerfStats
	s.Frames = 120
	s.AvgTickDuration = 2 * time.Millisecond
	s.PhasePct[PhaseSenseMove] = 60
	s.PhasePct[PhaseDiffuseDecay] = 20

	row := s.ToCSV(240)
	if row.WindowEnd != 240 || row.AvgTickUS != 2000 || row.Frames != 120 {
		t.Errorf("unexpected row header fields: %+v", row)
	}
	if row.SenseMovePct != 60 || row.DiffuseDecayPct != 20 || row.ProbesPct != 0 {
		t.Errorf("phase percentages not mapped: %+v", row)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	s := NewPerfCollector(0).Stats()
	if s.Frames != 0 || s.AvgTickDuration != 0 || s.TicksPerSecond != 0 {
		t.Errorf("empty collector reported %+v", s)
	}
}

func TestPhaseString(t *testing.T) {
	if got := PhaseDiffuseDecay.String(); got != "diffuse_decay" {
		t.Errorf("String() = %q", got)
	}
	if got := NumPhases.String(); got != "Phase(6)" {
		t.Errorf("out of range String() = %q", got)
	}
}

func TestRecordFrameMeasuresInterval(t *testing.T) {
	pc := NewPerfCollector(10)
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	s := pc.Stats()
	if s.FrameDuration < 15*time.Millisecond {
		t.Errorf("frame duration = %v, want >= 15ms", s.FrameDuration)
	}
	// Sleep overshoot only lowers the rate
	if s.FPS <= 0 || s.FPS > 67 {
		t.Errorf("fps = %.1f", s.FPS)
	}
}
