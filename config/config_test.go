package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}

	if cfg.Derived.SurfaceW != cfg.Screen.Width || cfg.Derived.SurfaceH != cfg.Screen.Height {
		t.Errorf("surface should default to screen size, got %dx%d", cfg.Derived.SurfaceW, cfg.Derived.SurfaceH)
	}
	if cfg.Boundary.Policy != Wrap {
		t.Errorf("default boundary = %v, want wrap", cfg.Boundary.Policy)
	}
	if cfg.Render.ColorPolicy != ColorPosition {
		t.Errorf("default color policy = %v, want position", cfg.Render.ColorPolicy)
	}
	wantAngle := cfg.Sensor.AngleDeg * math.Pi / 180
	if math.Abs(cfg.Derived.SensorAngle-wantAngle) > 1e-12 {
		t.Errorf("SensorAngle = %v, want %v", cfg.Derived.SensorAngle, wantAngle)
	}
	wantDist := cfg.Sensor.DistanceFactor * float64(cfg.Derived.SurfaceW+cfg.Derived.SurfaceH)
	if math.Abs(cfg.Derived.SensorDistance-wantDist) > 1e-12 {
		t.Errorf("SensorDistance = %v, want %v", cfg.Derived.SensorDistance, wantDist)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	data := []byte(`
surface:
  width: 64
  height: 32
agents:
  count: 10
  arrangement: ring
boundary:
  policy: bounce
render:
  color_policy: speed
compute:
  backend: serial
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Derived.SurfaceW != 64 || cfg.Derived.SurfaceH != 32 {
		t.Errorf("surface = %dx%d, want 64x32", cfg.Derived.SurfaceW, cfg.Derived.SurfaceH)
	}
	if cfg.Agents.Count != 10 || cfg.Agents.Arrangement != Ring {
		t.Errorf("agents = %+v", cfg.Agents)
	}
	if cfg.Boundary.Policy != Bounce {
		t.Errorf("policy = %v, want bounce", cfg.Boundary.Policy)
	}
	if cfg.Render.ColorPolicy != ColorSpeed {
		t.Errorf("color = %v, want speed", cfg.Render.ColorPolicy)
	}
	if cfg.Compute.Backend != BackendSerial {
		t.Errorf("backend = %v, want serial", cfg.Compute.Backend)
	}
	// Untouched keys keep their defaults
	if cfg.Trail.DecayFactor != Defaults().Trail.DecayFactor {
		t.Errorf("decay factor changed to %v", cfg.Trail.DecayFactor)
	}
	if want := 0.3 * 32; math.Abs(cfg.Derived.RingRadius-want) > 1e-9 {
		t.Errorf("RingRadius = %v, want %v", cfg.Derived.RingRadius, want)
	}
}

func TestLoadUnknownEnum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("boundary:\n  policy: mirror\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown boundary policy")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero agents", func(c *Config) { c.Agents.Count = 0 }, false},
		{"negative agents", func(c *Config) { c.Agents.Count = -5 }, false},
		{"zero width", func(c *Config) { c.Surface.Width = -1 }, false},
		{"decay one", func(c *Config) { c.Trail.DecayFactor = 1 }, false},
		{"decay zero", func(c *Config) { c.Trail.DecayFactor = 0 }, false},
		{"negative deposit", func(c *Config) { c.Trail.DepositAmount = -1 }, false},
		{"zero amplitude", func(c *Config) { c.Render.Amplitude = 0 }, false},
		{"negative step", func(c *Config) { c.Motion.StepSize = -0.1 }, false},
		{"zero step", func(c *Config) { c.Motion.StepSize = 0 }, true},
		{"probe outside", func(c *Config) {
			c.Probes = []ProbeConfig{{Name: "far", X: 1e6, Y: 0}}
		}, false},
		{"probe inside", func(c *Config) {
			c.Probes = []ProbeConfig{{Name: "mid", X: 10, Y: 10}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			cfg.Refresh()
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("error %v does not wrap ErrInvalidConfig", err)
				}
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.Boundary.Policy = Bounce
	cfg.Render.ColorPolicy = ColorDirection

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Boundary.Policy != Bounce || got.Render.ColorPolicy != ColorDirection {
		t.Errorf("round trip lost enums: %v %v", got.Boundary.Policy, got.Render.ColorPolicy)
	}
}
