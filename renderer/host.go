package renderer

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mold/camera"
	"github.com/pthm-cable/mold/config"
	"github.com/pthm-cable/mold/game"
	"github.com/pthm-cable/mold/telemetry"
)

// statusDuration is how long a status message stays on the HUD.
const statusDuration = 3 * time.Second

// Host drives a session inside a raylib window: it forwards input,
// steps the session and draws the latest frame.
type Host struct {
	g    *game.Game
	cam  *camera.Camera
	view *FieldView

	screenW, screenH float32
	showHUD          bool
	snapshotDir      string
	probeSeq         int

	status      string
	statusUntil time.Time
}

// NewHost creates a host for g. The raylib window must already be open.
// Saved frames go to snapshotDir ("." when empty).
func NewHost(g *game.Game, snapshotDir string) *Host {
	cfg := g.Config()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	wrap := cfg.Boundary.Policy == config.Wrap

	if snapshotDir == "" {
		snapshotDir = "."
	}

	view := NewFieldView()
	view.Init(cfg.Derived.SurfaceW, cfg.Derived.SurfaceH, wrap)
	view.Upload(g.Frame())

	return &Host{
		g:           g,
		cam:         camera.New(w, h, cfg.Derived.SurfaceW32, cfg.Derived.SurfaceH32, wrap),
		view:        view,
		screenW:     w,
		screenH:     h,
		showHUD:     true,
		snapshotDir: snapshotDir,
	}
}

// Update handles input and advances the session.
func (h *Host) Update() error {
	h.handleInput()
	if err := h.g.Update(); err != nil {
		return err
	}
	h.view.Upload(h.g.Frame())
	return nil
}

// Draw renders the surface, probes and HUD.
func (h *Host) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	h.view.Draw(h.cam)
	DrawProbes(h.g.Probes(), h.cam)

	if h.showHUD {
		status := ""
		if time.Now().Before(h.statusUntil) {
			status = h.status
		}
		DrawHUD(HUDData{
			Tick:       h.g.Tick(),
			Agents:     h.g.Agents().Len(),
			Speed:      h.g.StepsPerUpdate(),
			FPS:        rl.GetFPS(),
			Paused:     h.g.Paused(),
			Zoom:       h.cam.Zoom,
			Stats:      h.g.LastStats(),
			Perf:       h.g.Perf().Stats(),
			ScreenW:    int32(h.screenW),
			ScreenH:    int32(h.screenH),
			StatusLine: status,
		})
	}

	rl.EndDrawing()
}

// Unload frees GPU resources. The session itself is owned by the caller.
func (h *Host) Unload() {
	h.view.Unload()
}

// setStatus shows a transient message on the HUD.
func (h *Host) setStatus(format string, args ...any) {
	h.status = fmt.Sprintf(format, args...)
	h.statusUntil = time.Now().Add(statusDuration)
}

// saveFrame writes the current frame as a PNG.
func (h *Host) saveFrame() {
	path, err := telemetry.SaveFrame(h.g.Frame(), h.snapshotDir, h.g.Tick())
	if err != nil {
		slog.Error("failed to save frame", "error", err)
		h.setStatus("save failed: %v", err)
		return
	}
	slog.Info("frame saved", "path", path, "tick", h.g.Tick())
	h.setStatus("saved %s", path)
}
