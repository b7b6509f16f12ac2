package systems

import "github.com/pthm-cable/mold/config"

// MergeThreshold is the squared displacement length at which an agent's
// sub-step residue is folded into its absolute position.
const MergeThreshold = 30.0

// Params are the per-session stage parameters, resolved from config once.
type Params struct {
	SensorAngle    float64 // radians
	SensorDistance float64
	RotationAngle  float64 // radians
	StepSize       float64
	DepositAmount  float64
	DecayFactor    float64
	Amplitude      float64
	Color          config.ColorPolicy
	Boundary       config.BoundaryPolicy
}

// ParamsFromConfig resolves stage parameters from a loaded config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		SensorAngle:    cfg.Derived.SensorAngle,
		SensorDistance: cfg.Derived.SensorDistance,
		RotationAngle:  cfg.Derived.RotationAngle,
		StepSize:       cfg.Motion.StepSize,
		DepositAmount:  cfg.Trail.DepositAmount,
		DecayFactor:    cfg.Trail.DecayFactor,
		Amplitude:      cfg.Render.Amplitude,
		Color:          cfg.Render.ColorPolicy,
		Boundary:       cfg.Boundary.Policy,
	}
}
