package main

import (
	"github.com/pthm-cable/mold/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Sensing
			{Name: "sensor_angle_deg", Path: "sensor.angle_deg", Min: 5, Max: 90, Default: 25},
			{Name: "sensor_distance_factor", Path: "sensor.distance_factor", Min: 0.001, Max: 0.03, Default: 0.005},
			// Motion
			{Name: "rotation_angle_deg", Path: "motion.rotation_angle_deg", Min: 5, Max: 90, Default: 20},
			{Name: "step_size", Path: "motion.step_size", Min: 0.3, Max: 3.0, Default: 1.1},
			// Trail
			{Name: "deposit_amount", Path: "trail.deposit_amount", Min: 0.005, Max: 0.2, Default: 0.04},
			{Name: "decay_factor", Path: "trail.decay_factor", Min: 0.8, Max: 0.995, Default: 0.97},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg and refreshes
// derived values. Order must match Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Sensor.AngleDeg = clamped[0]
	cfg.Sensor.DistanceFactor = clamped[1]
	cfg.Motion.RotationAngleDeg = clamped[2]
	cfg.Motion.StepSize = clamped[3]
	cfg.Trail.DepositAmount = clamped[4]
	cfg.Trail.DecayFactor = clamped[5]

	cfg.Refresh()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Sensor.AngleDeg,
		cfg.Sensor.DistanceFactor,
		cfg.Motion.RotationAngleDeg,
		cfg.Motion.StepSize,
		cfg.Trail.DepositAmount,
		cfg.Trail.DecayFactor,
	}
}
