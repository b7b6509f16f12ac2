// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
// A Config is immutable once a session has been built from it.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Surface   SurfaceConfig   `yaml:"surface"`
	Agents    AgentsConfig    `yaml:"agents"`
	Sensor    SensorConfig    `yaml:"sensor"`
	Motion    MotionConfig    `yaml:"motion"`
	Trail     TrailConfig     `yaml:"trail"`
	Render    RenderConfig    `yaml:"render"`
	Boundary  BoundaryConfig  `yaml:"boundary"`
	Compute   ComputeConfig   `yaml:"compute"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Probes    []ProbeConfig   `yaml:"probes"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the window host.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SurfaceConfig holds the trail grid dimensions.
// The surface can be larger than the screen; the camera handles the viewport.
type SurfaceConfig struct {
	Width  int `yaml:"width"`  // 0 = use screen width
	Height int `yaml:"height"` // 0 = use screen height
}

// AgentsConfig holds population parameters.
type AgentsConfig struct {
	Count            int         `yaml:"count"`
	Arrangement      Arrangement `yaml:"arrangement"`
	RingRadiusFactor float64     `yaml:"ring_radius_factor"` // Ring radius = factor * min(w, h)
}

// SensorConfig holds sensing parameters.
type SensorConfig struct {
	AngleDeg       float64 `yaml:"angle_deg"`       // Half-angle between the middle and side probes
	DistanceFactor float64 `yaml:"distance_factor"` // Probe distance = factor * (w + h)
}

// MotionConfig holds steering and movement parameters.
type MotionConfig struct {
	RotationAngleDeg float64 `yaml:"rotation_angle_deg"`
	StepSize         float64 `yaml:"step_size"`
	RandomDirection  bool    `yaml:"random_direction"` // Draw the tie-break flag once per frame
}

// TrailConfig holds deposit and decay parameters.
type TrailConfig struct {
	DepositAmount float64 `yaml:"deposit_amount"`
	DecayFactor   float64 `yaml:"decay_factor"`
}

// RenderConfig holds field-to-color parameters.
type RenderConfig struct {
	Amplitude   float64     `yaml:"amplitude"`
	ColorPolicy ColorPolicy `yaml:"color_policy"`
}

// BoundaryConfig holds the edge policy.
type BoundaryConfig struct {
	Policy BoundaryPolicy `yaml:"policy"`
}

// ComputeConfig selects the dispatch backend.
type ComputeConfig struct {
	Backend Backend `yaml:"backend"`
	Workers int     `yaml:"workers"` // 0 = GOMAXPROCS
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// ProbeConfig places a named sampling point on the surface.
type ProbeConfig struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	SurfaceW       int     // Effective surface width
	SurfaceH       int     // Effective surface height
	SurfaceW32     float32 // SurfaceW as float32
	SurfaceH32     float32 // SurfaceH as float32
	ScreenW32      float32 // Screen.Width as float32
	ScreenH32      float32 // Screen.Height as float32
	SensorAngle    float64 // Radians
	RotationAngle  float64 // Radians
	SensorDistance float64 // DistanceFactor * (w + h)
	RingRadius     float64
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Defaults returns a fresh copy of the embedded defaults with derived values computed.
func Defaults() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	cfg.computeDerived()
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Refresh recomputes derived values after fields were changed in code.
func (c *Config) Refresh() {
	c.computeDerived()
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	w := c.Surface.Width
	if w == 0 {
		w = c.Screen.Width
	}
	h := c.Surface.Height
	if h == 0 {
		h = c.Screen.Height
	}
	c.Derived.SurfaceW = w
	c.Derived.SurfaceH = h
	c.Derived.SurfaceW32 = float32(w)
	c.Derived.SurfaceH32 = float32(h)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	c.Derived.SensorAngle = c.Sensor.AngleDeg * math.Pi / 180
	c.Derived.RotationAngle = c.Motion.RotationAngleDeg * math.Pi / 180
	c.Derived.SensorDistance = c.Sensor.DistanceFactor * float64(w+h)
	c.Derived.RingRadius = c.Agents.RingRadiusFactor * float64(min(w, h))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
