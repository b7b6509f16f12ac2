package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// probePickRadius is the screen distance within which a right click hits a probe.
const probePickRadius = 10

// handleInput processes keyboard and mouse input.
func (h *Host) handleInput() {
	h.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		h.g.SetPaused(!h.g.Paused())
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		h.g.SetStepsPerUpdate(h.g.StepsPerUpdate() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		h.g.SetStepsPerUpdate(h.g.StepsPerUpdate() + 1)
	}

	if rl.IsKeyPressed(rl.KeyH) {
		h.showHUD = !h.showHUD
	}
	if rl.IsKeyPressed(rl.KeyS) {
		h.saveFrame()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		n := h.g.ClearProbes()
		h.setStatus("removed %d probes", n)
	}

	h.handleProbeInput()
	h.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (h *Host) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	hh := float32(rl.GetScreenHeight())
	if w == h.screenW && hh == h.screenH {
		return
	}
	h.screenW = w
	h.screenH = hh
	h.cam.Resize(w, hh)
}

// handleProbeInput adds a probe on left click and removes the nearest on right click.
func (h *Host) handleProbeInput() {
	mouse := rl.GetMousePosition()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		wx, wy := h.cam.ScreenToWorld(mouse.X, mouse.Y)
		h.probeSeq++
		name := fmt.Sprintf("p%d", h.probeSeq)
		if _, err := h.g.AddProbe(name, wx, wy); err != nil {
			h.setStatus("%v", err)
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		for _, p := range h.g.Probes() {
			sx, sy := h.cam.WorldToScreen(p.X, p.Y)
			dx, dy := sx-mouse.X, sy-mouse.Y
			if dx*dx+dy*dy > probePickRadius*probePickRadius {
				continue
			}
			if h.g.RemoveProbe(p.Entity) {
				h.setStatus("removed %s", p.Name)
			}
			break
		}
	}
}

// handleCameraInput processes camera pan/zoom controls.
func (h *Host) handleCameraInput() {
	// Screen pixels per frame
	panSpeed := float32(8.0)

	if rl.IsKeyDown(rl.KeyRight) {
		h.cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		h.cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		h.cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		h.cam.Pan(0, -panSpeed)
	}

	// Middle-drag pans by the mouse delta
	if rl.IsMouseButtonDown(rl.MouseButtonMiddle) {
		d := rl.GetMouseDelta()
		h.cam.Pan(-d.X, -d.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		h.cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		h.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		h.cam.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		h.cam.Reset()
	}
}
