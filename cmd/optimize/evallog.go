package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// evalLog records every evaluation and tracks the best one seen.
// Columns depend on the parameter list, so rows are written with
// encoding/csv rather than struct tags.
type evalLog struct {
	f      *os.File
	w      *csv.Writer
	params *ParamVector

	count    int
	budget   int
	start    time.Time
	best     float64
	bestRaw  []float64
	progress func(format string, args ...any)
}

func newEvalLog(path string, params *ParamVector, budget int) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}
	l := &evalLog{
		f:        f,
		w:        csv.NewWriter(f),
		params:   params,
		budget:   budget,
		start:    time.Now(),
		best:     failedFitness,
		progress: func(format string, args ...any) { fmt.Printf(format, args...) },
	}

	header := []string{"eval", "fitness", "coverage", "mass_cv", "peak_frac"}
	for _, s := range params.Specs {
		header = append(header, s.Name)
	}
	if err := l.w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing eval log header: %w", err)
	}
	return l, nil
}

// record logs one evaluation of the clamped raw vector.
func (l *evalLog) record(raw []float64, fitness float64, s runSummary) {
	l.count++
	if l.bestRaw == nil || fitness < l.best {
		l.best = fitness
		l.bestRaw = append([]float64(nil), raw...)
	}

	row := []string{
		strconv.Itoa(l.count),
		strconv.FormatFloat(fitness, 'f', 6, 64),
		strconv.FormatFloat(s.Coverage, 'f', 4, 64),
		strconv.FormatFloat(s.MassCV, 'f', 4, 64),
		strconv.FormatFloat(s.PeakFrac, 'f', 4, 64),
	}
	for _, v := range raw {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	// Write errors surface on the next Flush check in close
	_ = l.w.Write(row)
	l.w.Flush()

	elapsed := time.Since(l.start)
	eta := time.Duration(l.budget-l.count) * (elapsed / time.Duration(l.count))
	l.progress("eval %d/%d fitness=%.4f coverage=%.3f mass_cv=%.3f best=%.4f elapsed=%s eta=%s\n",
		l.count, l.budget, fitness, s.Coverage, s.MassCV, l.best,
		formatDuration(elapsed), formatDuration(max(eta, 0)))
}

func (l *evalLog) close() error {
	l.w.Flush()
	werr := l.w.Error()
	if err := l.f.Close(); err != nil {
		return err
	}
	return werr
}

// formatDuration renders d as 1h02m03s, or 2m03s under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
