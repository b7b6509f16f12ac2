// Package main searches trail parameters with CMA-ES for a target field
// coverage with a steady trail mass.
//
// Usage: go run ./cmd/optimize -output runs/opt [-config path]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/mold/config"
)

type options struct {
	configPath     string
	ticks          int
	seeds          int
	maxEvals       int
	population     int
	targetCoverage float64
	width, height  int
	agents         int
	outputDir      string
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&o.ticks, "ticks", 1200, "Simulation ticks per run")
	flag.IntVar(&o.seeds, "seeds", 2, "Number of seeds per evaluation")
	flag.IntVar(&o.maxEvals, "max-evals", 150, "Maximum number of evaluations")
	flag.IntVar(&o.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.Float64Var(&o.targetCoverage, "target-coverage", 0.3, "Desired fraction of covered cells")
	flag.IntVar(&o.width, "width", 320, "Surface width used for evaluation")
	flag.IntVar(&o.height, "height", 180, "Surface height used for evaluation")
	flag.IntVar(&o.agents, "agents", 8000, "Agent count used for evaluation")
	flag.StringVar(&o.outputDir, "output", "", "Output directory for results")
	flag.Parse()
	return o
}

// evalConfig shrinks the base config so one run stays short.
func evalConfig(o options) *config.Config {
	cfg := *config.Cfg()
	cfg.Surface.Width = o.width
	cfg.Surface.Height = o.height
	cfg.Agents.Count = o.agents
	cfg.Compute.Backend = config.BackendSerial
	cfg.Telemetry.StatsWindow = max(o.ticks/10, 1)
	cfg.Refresh()
	return &cfg
}

func main() {
	o := parseFlags()
	if o.outputDir == "" {
		log.Fatal("-output is required")
	}
	if err := os.MkdirAll(o.outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	if err := config.Init(o.configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	base := evalConfig(o)
	params := NewParamVector()

	seeds := make([]int64, o.seeds)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, o.ticks, seeds, base, o.targetCoverage)

	evals, err := newEvalLog(filepath.Join(o.outputDir, "optimize_log.csv"), params, o.maxEvals)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := evals.close(); err != nil {
			log.Printf("eval log: %v", err)
		}
	}()

	// The optimizer works in normalized [0,1] space
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			evals.record(raw, fitness, evaluator.LastSummary())
			return fitness
		},
	}

	pop := o.population
	if pop == 0 {
		pop = 4 + 3*params.Dim()/2
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: pop}
	settings := &optimize.Settings{FuncEvaluations: o.maxEvals}

	fmt.Printf("CMA-ES over %d parameters, population=%d, max_evals=%d\n", params.Dim(), pop, o.maxEvals)
	fmt.Printf("%d seeds x %d ticks per evaluation, target coverage %.2f\n", o.seeds, o.ticks, o.targetCoverage)

	start := time.Now()
	result, err := optimize.Minimize(problem, params.Normalize(params.ExtractFromConfig(base)), settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := evals.bestRaw
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\n%d evaluations in %s, best fitness %.4f\n", evals.count, formatDuration(time.Since(start)), evals.best)
	for i, s := range params.Specs {
		fmt.Printf("  %-24s %.6f\n", s.Name, best[i])
	}

	// The saved config keeps the user's surface and agent count
	out, err := config.Load(o.configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(out, best)

	path := filepath.Join(o.outputDir, "best_config.yaml")
	if err := out.WriteYAML(path); err != nil {
		log.Fatalf("failed to write best config: %v", err)
	}
	fmt.Printf("best config written to %s\n", path)
}
