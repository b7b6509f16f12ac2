package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/mold/systems"
	"github.com/pthm-cable/mold/telemetry"
)

// Step runs one frame: sense and move, deposit, diffuse and decay, render,
// then the agent buffer swap and bookkeeping. Stage errors are returned
// wrapped and leave the session unusable.
func (g *Game) Step() error {
	pc := g.perfCollector
	pc.StartTick()

	g.lastFlag = g.nextFlag()

	pc.StartPhase(telemetry.PhaseSenseMove)
	if err := systems.SenseAndMove(g.backend, g.agents, g.field, g.params, g.lastFlag); err != nil {
		return fmt.Errorf("sense and move: %w", err)
	}

	pc.StartPhase(telemetry.PhaseDeposit)
	if err := systems.Deposit(g.backend, g.agents, g.field, g.params); err != nil {
		return fmt.Errorf("deposit: %w", err)
	}

	pc.StartPhase(telemetry.PhaseDiffuseDecay)
	if err := systems.DiffuseDecay(g.backend, g.field, g.params); err != nil {
		return fmt.Errorf("diffuse and decay: %w", err)
	}

	pc.StartPhase(telemetry.PhaseRender)
	if err := systems.Render(g.backend, g.field, g.params, g.frame); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	g.agents.Swap()
	g.tick++

	pc.StartPhase(telemetry.PhaseProbes)
	g.sampleProbes()

	pc.StartPhase(telemetry.PhaseTelemetry)
	mass := g.field.Mass()
	peak, _ := g.field.Peak()
	g.collector.RecordTick(mass, peak)
	g.flushTelemetry(mass, peak)
	g.maybeSnapshot()

	pc.EndTick()
	return nil
}

// nextFlag returns the tie-break flag for this frame. With random direction
// enabled it is drawn once per frame from the session RNG.
func (g *Game) nextFlag() bool {
	if !g.cfg.Motion.RandomDirection {
		return false
	}
	return g.rng.Float64() >= 0.5
}

// UpdateHeadless runs StepsPerUpdate ticks without display timing.
func (g *Game) UpdateHeadless() error {
	for i := 0; i < g.stepsPerUpdate; i++ {
		if err := g.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Update runs one display frame's worth of ticks unless paused.
func (g *Game) Update() error {
	g.perfCollector.RecordFrame()
	if g.paused {
		return nil
	}
	return g.UpdateHeadless()
}

// Run steps until ctx is done or maxTicks frames completed (0 = unlimited).
// Cancellation is observed between frames only.
func (g *Game) Run(ctx context.Context, maxTicks int) error {
	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation stopped", "tick", g.tick)
			return nil
		default:
		}

		if err := g.Step(); err != nil {
			return err
		}
		if maxTicks > 0 && int(g.tick) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.tick)
			return nil
		}
	}
}
