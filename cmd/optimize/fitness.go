package main

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/mold/compute"
	"github.com/pthm-cable/mold/config"
	"github.com/pthm-cable/mold/game"
	"github.com/pthm-cable/mold/telemetry"
)

// Fitness component weights.
const (
	fitnessWeightCoverage = 1.0
	fitnessWeightMass     = 0.5
	fitnessWeightPeak     = 0.25

	// Invalid or failed runs score this
	failedFitness = 10.0

	warmupWindows = 2 // skip first N windows while trails form
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params         *ParamVector
	ticks          int
	seeds          []int64
	baseConfig     *config.Config
	targetCoverage float64

	mu          sync.Mutex
	lastSummary runSummary
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, ticks int, seeds []int64, baseCfg *config.Config, targetCoverage float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:         params,
		ticks:          ticks,
		seeds:          seeds,
		baseConfig:     baseCfg,
		targetCoverage: targetCoverage,
	}
}

// runSummary condenses the window stats of one or more runs.
type runSummary struct {
	Coverage float64 // mean coverage after warmup
	MassCV   float64 // coefficient of variation of window mass
	PeakFrac float64 // mean peak relative to the amplitude's saturation point
}

// LastSummary returns the averaged summary of the most recent evaluation.
func (fe *FitnessEvaluator) LastSummary() runSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSummary
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	if err := cfg.Validate(); err != nil {
		return failedFitness
	}

	// Seeds run in parallel, each on its own serial backend
	summaries := make([]runSummary, len(fe.seeds))
	errs := make([]error, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			summaries[idx], errs[idx] = fe.runSimulation(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	var avg runSummary
	for i, s := range summaries {
		if errs[i] != nil {
			slog.Warn("evaluation run failed", "seed", fe.seeds[i], "error", errs[i])
			return failedFitness
		}
		total += fe.computeFitness(s)
		avg.Coverage += s.Coverage
		avg.MassCV += s.MassCV
		avg.PeakFrac += s.PeakFrac
	}
	n := float64(len(fe.seeds))
	avg.Coverage /= n
	avg.MassCV /= n
	avg.PeakFrac /= n

	fe.mu.Lock()
	fe.lastSummary = avg
	fe.mu.Unlock()

	return total / n
}

// runSimulation executes a single headless run and summarizes its windows.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) (runSummary, error) {
	backend := compute.NewSerial()
	defer backend.Close()

	g, err := game.New(cfg, game.Options{Seed: seed, Backend: backend})
	if err != nil {
		return runSummary{}, err
	}
	defer g.Unload()

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(stats telemetry.WindowStats) {
		windows = append(windows, stats)
	})

	if err := g.Run(context.Background(), fe.ticks); err != nil {
		return runSummary{}, err
	}
	return summarize(windows, cfg.Render.Amplitude), nil
}

// summarize reduces window stats to the fitness inputs.
func summarize(windows []telemetry.WindowStats, amplitude float64) runSummary {
	if len(windows) > warmupWindows {
		windows = windows[warmupWindows:]
	}
	if len(windows) == 0 {
		return runSummary{}
	}

	coverage := make([]float64, len(windows))
	mass := make([]float64, len(windows))
	peak := make([]float64, len(windows))
	for i, w := range windows {
		coverage[i] = w.Coverage
		mass[i] = w.MassMean
		peak[i] = min(w.Peak*amplitude, 1)
	}

	s := runSummary{
		Coverage: stat.Mean(coverage, nil),
		PeakFrac: stat.Mean(peak, nil),
	}
	if len(mass) >= 2 {
		mean, std := stat.PopMeanStdDev(mass, nil)
		if mean > 0 {
			s.MassCV = std / mean
		}
	}
	return s
}

// computeFitness scores a run summary (lower = better). Coverage close to
// the target dominates; unsteady mass and washed-out peaks add penalties.
func (fe *FitnessEvaluator) computeFitness(s runSummary) float64 {
	covErr := math.Abs(s.Coverage - fe.targetCoverage)
	return fitnessWeightCoverage*covErr +
		fitnessWeightMass*s.MassCV +
		fitnessWeightPeak*(1-s.PeakFrac)
}

// copyConfig creates a copy of the base config; probes are dropped.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Probes = nil
	return &cfg
}
