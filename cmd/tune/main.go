// Parameter tuning tool - runs a small session next to sliders for the
// sensing, motion, trail and render parameters.
//
// Usage: go run ./cmd/tune [-config path]
package main

import (
	"flag"
	"fmt"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/mold/camera"
	"github.com/pthm-cable/mold/config"
	"github.com/pthm-cable/mold/game"
	"github.com/pthm-cable/mold/renderer"
)

const (
	windowWidth  = 1120
	windowHeight = 720
	previewSize  = 720
	panelWidth   = windowWidth - previewSize - 20
)

// colorPolicies is the combo box order.
var colorPolicies = []config.ColorPolicy{
	config.ColorPosition, config.ColorDirection, config.ColorGrayscale, config.ColorSpeed,
}

// session bundles a running game with its view.
type session struct {
	g    *game.Game
	view *renderer.FieldView
	cam  *camera.Camera
}

func newSession(cfg *config.Config, seed int64) (*session, error) {
	g, err := game.New(cfg, game.Options{Seed: seed})
	if err != nil {
		return nil, err
	}
	wrap := cfg.Boundary.Policy == config.Wrap
	view := renderer.NewFieldView()
	view.Init(cfg.Derived.SurfaceW, cfg.Derived.SurfaceH, wrap)
	return &session{
		g:    g,
		view: view,
		cam:  camera.New(previewSize, previewSize, cfg.Derived.SurfaceW32, cfg.Derived.SurfaceH32, wrap),
	}, nil
}

func (s *session) unload() {
	s.view.Unload()
	s.g.Unload()
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	size := flag.Int("size", 360, "Surface size (square) for the preview session")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg.Surface.Width = *size
	cfg.Surface.Height = *size
	cfg.Agents.Count = min(cfg.Agents.Count, (*size)*(*size)/4)
	cfg.Refresh()

	rl.InitWindow(windowWidth, windowHeight, "Mold Tuning")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	seed := int64(1)
	sess, err := newSession(cfg, seed)
	if err != nil {
		log.Fatalf("failed to start session: %v", err)
	}
	defer func() { sess.unload() }()

	dirty := false
	status := ""

	for !rl.WindowShouldClose() {
		if err := sess.g.Update(); err != nil {
			log.Fatalf("session failed: %v", err)
		}
		sess.view.Upload(sess.g.Frame())

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		sess.view.Draw(sess.cam)

		panelX := float32(previewSize + 10)
		panelY := float32(10)

		rl.DrawText("Trail Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label string, value *float64, lo, hi float64, format string) {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				"", "",
				float32(*value), float32(lo), float32(hi),
			)
			rl.DrawText(fmt.Sprintf(format, *value), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			if float64(v) != float64(float32(*value)) {
				*value = float64(v)
				dirty = true
			}
			panelY += 32
		}

		slider("Sensor angle (deg)", &cfg.Sensor.AngleDeg, 1, 90, "%.1f")
		slider("Sensor distance factor", &cfg.Sensor.DistanceFactor, 0, 0.05, "%.4f")
		slider("Rotation angle (deg)", &cfg.Motion.RotationAngleDeg, 1, 90, "%.1f")
		slider("Step size", &cfg.Motion.StepSize, 0, 5, "%.2f")
		slider("Deposit amount", &cfg.Trail.DepositAmount, 0, 0.5, "%.3f")
		slider("Decay factor", &cfg.Trail.DecayFactor, 0.5, 0.999, "%.3f")
		slider("Amplitude", &cfg.Render.Amplitude, 0.1, 10, "%.2f")

		random := gui.Toggle(rl.Rectangle{X: panelX, Y: panelY, Width: 180, Height: 24}, "Random direction", cfg.Motion.RandomDirection)
		if random != cfg.Motion.RandomDirection {
			cfg.Motion.RandomDirection = random
			dirty = true
		}
		bounce := gui.Toggle(rl.Rectangle{X: panelX + 190, Y: panelY, Width: 130, Height: 24}, "Bounce", cfg.Boundary.Policy == config.Bounce)
		if bounce != (cfg.Boundary.Policy == config.Bounce) {
			cfg.Boundary.Policy = config.Wrap
			if bounce {
				cfg.Boundary.Policy = config.Bounce
			}
			dirty = true
		}
		panelY += 34

		rl.DrawText("Color", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		active := int32(0)
		for i, p := range colorPolicies {
			if p == cfg.Render.ColorPolicy {
				active = int32(i)
			}
		}
		sel := gui.ComboBox(rl.Rectangle{X: panelX, Y: panelY, Width: 200, Height: 24}, "position;direction;grayscale;speed", active)
		if sel != active {
			cfg.Render.ColorPolicy = colorPolicies[sel]
			dirty = true
		}
		panelY += 40

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		restart := gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Restart") || rl.IsKeyPressed(rl.KeyR)
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "New Seed") {
			seed++
			restart = true
		}
		pauseLabel := "Pause"
		if sess.g.Paused() {
			pauseLabel = "Resume"
		}
		if gui.Button(rl.Rectangle{X: panelX + 260, Y: panelY, Width: 80, Height: 30}, pauseLabel) || rl.IsKeyPressed(rl.KeySpace) {
			sess.g.SetPaused(!sess.g.Paused())
		}
		panelY += 45

		if restart {
			cfg.Refresh()
			next, err := newSession(cfg, seed)
			if err != nil {
				status = err.Error()
			} else {
				sess.unload()
				sess = next
				dirty = false
				status = fmt.Sprintf("restarted with seed %d", seed)
			}
		}

		if rl.IsKeyPressed(rl.KeyC) {
			data, err := yaml.Marshal(cfg)
			if err != nil {
				status = err.Error()
			} else {
				rl.SetClipboardText(string(data))
				status = "config copied to clipboard"
			}
		}

		stats := sess.g.LastStats()
		rl.DrawText(fmt.Sprintf("Tick: %d  Seed: %d", sess.g.Tick(), seed), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 20
		rl.DrawText(fmt.Sprintf("Mass: %.1f  Coverage: %.1f%%", stats.Mass, stats.Coverage*100), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		if dirty {
			rl.DrawText("Changed - press Restart [R]", int32(panelX), int32(panelY), 14, rl.Maroon)
			panelY += 20
		}
		if status != "" {
			rl.DrawText(status, int32(panelX), int32(panelY), 14, rl.DarkGreen)
		}

		rl.DrawText("[C] copy YAML  [R] restart  [Space] pause", int32(panelX), windowHeight-25, 14, rl.Gray)

		rl.EndDrawing()
	}
}
