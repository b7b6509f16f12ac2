package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated field statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`
	Ticks           int   `csv:"ticks"`

	// Total field mass at window end and averaged over the window
	Mass       float64 `csv:"mass"`
	MassMean   float64 `csv:"mass_mean"`
	MassChange float64 `csv:"mass_change"` // end minus start of window

	// Cell value distribution at window end
	Peak     float64 `csv:"peak"`
	PeakMax  float64 `csv:"peak_max"` // largest peak seen during the window
	Mean     float64 `csv:"mean"`
	Std      float64 `csv:"std"`
	P10      float64 `csv:"p10"`
	P50      float64 `csv:"p50"`
	P90      float64 `csv:"p90"`
	Coverage float64 `csv:"coverage"` // fraction of cells at or above the coverage threshold
}

// FieldSummary describes the distribution of cell values.
type FieldSummary struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Coverage      float64
}

// SummarizeField computes distribution statistics over field values.
// Coverage counts cells with value >= threshold.
func SummarizeField(values []float32, threshold float64) FieldSummary {
	n := len(values)
	if n == 0 {
		return FieldSummary{}
	}

	sorted := make([]float64, n)
	covered := 0
	for i, v := range values {
		sorted[i] = float64(v)
		if sorted[i] >= threshold {
			covered++
		}
	}
	sort.Float64s(sorted)

	var s FieldSummary
	if n == 1 {
		s.Mean = sorted[0]
	} else {
		s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	}
	s.P10 = stat.Quantile(0.10, stat.LinInterp, sorted, nil)
	s.P50 = stat.Quantile(0.50, stat.LinInterp, sorted, nil)
	s.P90 = stat.Quantile(0.90, stat.LinInterp, sorted, nil)
	s.Coverage = float64(covered) / float64(n)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("mass", s.Mass),
		slog.Float64("mass_mean", s.MassMean),
		slog.Float64("mass_change", s.MassChange),
		slog.Float64("peak", s.Peak),
		slog.Float64("peak_max", s.PeakMax),
		slog.Float64("mean", s.Mean),
		slog.Float64("std", s.Std),
		slog.Float64("p50", s.P50),
		slog.Float64("p90", s.P90),
		slog.Float64("coverage", s.Coverage),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
