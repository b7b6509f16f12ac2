// Package game sequences the simulation stages once per frame.
package game

import (
	"fmt"
	"image"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/mold/components"
	"github.com/pthm-cable/mold/compute"
	"github.com/pthm-cable/mold/config"
	"github.com/pthm-cable/mold/systems"
	"github.com/pthm-cable/mold/telemetry"
)

// Options configures a session beyond the YAML config.
type Options struct {
	Seed           int64
	LogStats       bool
	OutputDir      string
	SnapshotEvery  int // Save a PNG frame every N ticks (0 = never)
	StepsPerUpdate int

	// Backend overrides the config-selected backend. The caller keeps
	// ownership and must close it.
	Backend compute.Backend
}

// Game holds one simulation session. All pipeline state hangs off it;
// nothing is shared between sessions.
type Game struct {
	cfg     *config.Config
	params  systems.Params
	backend compute.Backend
	// ownsBackend is false when the backend came from Options.
	ownsBackend bool

	rng     *rand.Rand
	rngSeed int64

	agents *systems.AgentStore
	field  *systems.TrailField
	frame  *image.RGBA

	// Probe entities
	world       *ecs.World
	probeMapper *ecs.Map3[components.Probe, components.Position, components.ProbeReading]
	probeFilter *ecs.Filter3[components.Probe, components.Position, components.ProbeReading]

	// Telemetry
	perfCollector    *telemetry.PerfCollector
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	lastStats        telemetry.WindowStats
	logStats         bool
	snapshotEvery    int

	// State
	tick           int32
	paused         bool
	stepsPerUpdate int
	lastFlag       bool
}

// New builds a session from cfg. The config is validated first so no
// partial pipeline is ever constructed.
func New(cfg *config.Config, opts Options) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		cfg:            cfg,
		params:         systems.ParamsFromConfig(cfg),
		rng:            rand.New(rand.NewSource(opts.Seed)),
		rngSeed:        opts.Seed,
		logStats:       opts.LogStats,
		snapshotEvery:  opts.SnapshotEvery,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
	}

	w, h := cfg.Derived.SurfaceW, cfg.Derived.SurfaceH
	agents, err := systems.NewAgentStore(cfg.Agents.Count, w, h, cfg.Agents.Arrangement, cfg.Derived.RingRadius, g.rng)
	if err != nil {
		return nil, fmt.Errorf("creating agents: %w", err)
	}
	field, err := systems.NewTrailField(w, h, cfg.Boundary.Policy)
	if err != nil {
		return nil, fmt.Errorf("creating trail field: %w", err)
	}
	g.agents = agents
	g.field = field
	g.frame = systems.NewFrame(field)

	if opts.Backend != nil {
		g.backend = opts.Backend
	} else {
		g.backend = compute.New(cfg.Compute)
		g.ownsBackend = true
	}

	g.world = ecs.NewWorld()
	g.probeMapper = ecs.NewMap3[components.Probe, components.Position, components.ProbeReading](g.world)
	g.probeFilter = ecs.NewFilter3[components.Probe, components.Position, components.ProbeReading](g.world)
	for _, p := range cfg.Probes {
		g.addProbe(p.Name, float32(p.X), float32(p.Y), true)
	}

	// A cell counts as covered once it renders at half brightness
	g.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow, 0.5/cfg.Render.Amplitude)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.Unload()
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	slog.Debug("session created",
		"agents", cfg.Agents.Count,
		"surface_w", w,
		"surface_h", h,
		"arrangement", cfg.Agents.Arrangement.String(),
		"boundary", cfg.Boundary.Policy.String(),
		"seed", opts.Seed,
	)
	return g, nil
}

// Unload releases the backend and closes output files.
func (g *Game) Unload() {
	if g.ownsBackend && g.backend != nil {
		g.backend.Close()
	}
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
}

// Config returns the session configuration.
func (g *Game) Config() *config.Config { return g.cfg }

// Tick returns the number of completed frames.
func (g *Game) Tick() int32 { return g.tick }

// Seed returns the RNG seed the session was built with.
func (g *Game) Seed() int64 { return g.rngSeed }

// Frame returns the latest rendered image. It is overwritten every tick.
func (g *Game) Frame() *image.RGBA { return g.frame }

// Field returns the trail field.
func (g *Game) Field() *systems.TrailField { return g.field }

// Agents returns the agent store.
func (g *Game) Agents() *systems.AgentStore { return g.agents }

// Perf returns the perf collector.
func (g *Game) Perf() *telemetry.PerfCollector { return g.perfCollector }

// LastStats returns the most recently flushed window stats.
func (g *Game) LastStats() telemetry.WindowStats { return g.lastStats }

// SetStatsCallback registers a function called on every stats flush.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) { g.statsCallback = fn }

// Paused reports whether Update skips simulation steps.
func (g *Game) Paused() bool { return g.paused }

// SetPaused pauses or resumes Update.
func (g *Game) SetPaused(p bool) { g.paused = p }

// StepsPerUpdate returns how many ticks each Update runs.
func (g *Game) StepsPerUpdate() int { return g.stepsPerUpdate }

// SetStepsPerUpdate sets the speed multiplier, clamped to [1, 10].
func (g *Game) SetStepsPerUpdate(n int) { g.stepsPerUpdate = min(max(n, 1), 10) }
