package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mold/config"
	"github.com/pthm-cable/mold/game"
	"github.com/pthm-cable/mold/renderer"
	"github.com/pthm-cable/mold/terminal"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	term := flag.Bool("terminal", false, "Draw in the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and frames")
	snapshotEvery := flag.Int("snapshot-every", 0, "Save a PNG frame every N ticks (0 = never, needs -output-dir)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster runs)")

	flag.Parse()

	// Terminal mode owns stdout; logs go to stderr there
	logOut := os.Stdout
	if *term {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		SnapshotEvery:  *snapshotEvery,
		StepsPerUpdate: *stepsPerUpdate,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch {
	case *headless:
		err = runHeadless(ctx, cfg, opts, *maxTicks)
	case *term:
		err = runTerminal(ctx, cfg, opts, *maxTicks)
	default:
		err = runWindow(cfg, opts, *maxTicks)
	}
	if err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// runHeadless steps as fast as possible without any display.
func runHeadless(ctx context.Context, cfg *config.Config, opts game.Options, maxTicks int) error {
	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"agents", cfg.Agents.Count,
		"max_ticks", maxTicks,
	)
	return g.Run(ctx, maxTicks)
}

// runTerminal draws half-block frames on the controlling terminal.
func runTerminal(ctx context.Context, cfg *config.Config, opts game.Options, maxTicks int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	return terminal.New(screen, g, cfg.Screen.TargetFPS, opts.OutputDir).Run(ctx, maxTicks)
}

// runWindow opens a raylib window and runs until it is closed.
func runWindow(cfg *config.Config, opts game.Options, maxTicks int) error {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Mold")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	host := renderer.NewHost(g, opts.OutputDir)
	defer host.Unload()

	for !rl.WindowShouldClose() {
		if err := host.Update(); err != nil {
			return err
		}
		host.Draw()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
	return nil
}
