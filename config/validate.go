package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks the configuration for values the pipeline cannot run with.
// All failures are collected so a bad file reports everything at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Agents.Count <= 0 {
		bad("agents.count must be positive, got %d", c.Agents.Count)
	}
	if c.Agents.Arrangement == Ring && c.Agents.RingRadiusFactor <= 0 {
		bad("agents.ring_radius_factor must be positive, got %g", c.Agents.RingRadiusFactor)
	}
	if c.Derived.SurfaceW <= 0 || c.Derived.SurfaceH <= 0 {
		bad("surface dimensions must be positive, got %dx%d", c.Derived.SurfaceW, c.Derived.SurfaceH)
	}
	if c.Sensor.DistanceFactor < 0 {
		bad("sensor.distance_factor must not be negative, got %g", c.Sensor.DistanceFactor)
	}
	if c.Motion.StepSize < 0 {
		bad("motion.step_size must not be negative, got %g", c.Motion.StepSize)
	}
	if c.Trail.DepositAmount < 0 {
		bad("trail.deposit_amount must not be negative, got %g", c.Trail.DepositAmount)
	}
	if c.Trail.DecayFactor <= 0 || c.Trail.DecayFactor >= 1 {
		bad("trail.decay_factor must be in (0, 1), got %g", c.Trail.DecayFactor)
	}
	if c.Render.Amplitude <= 0 {
		bad("render.amplitude must be positive, got %g", c.Render.Amplitude)
	}
	if c.Compute.Workers < 0 {
		bad("compute.workers must not be negative, got %d", c.Compute.Workers)
	}
	if c.Telemetry.StatsWindow <= 0 {
		bad("telemetry.stats_window must be positive, got %d", c.Telemetry.StatsWindow)
	}
	if c.Telemetry.PerfCollectorWindow <= 0 {
		bad("telemetry.perf_collector_window must be positive, got %d", c.Telemetry.PerfCollectorWindow)
	}
	for i, p := range c.Probes {
		if p.X < 0 || p.Y < 0 || p.X >= float64(c.Derived.SurfaceW) || p.Y >= float64(c.Derived.SurfaceH) {
			bad("probes[%d] %q at (%g, %g) is outside the surface", i, p.Name, p.X, p.Y)
		}
	}

	return errors.Join(errs...)
}
