// Package terminal hosts the simulation in a text terminal using half-block
// cells, two surface rows per character row.
package terminal

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/mold/game"
	"github.com/pthm-cable/mold/telemetry"
)

// halfBlock draws the upper pixel as foreground and the lower as background.
const halfBlock = '▀'

// Host drives a session on a tcell screen.
type Host struct {
	screen      tcell.Screen
	g           *game.Game
	cols, rows  int
	interval    time.Duration
	snapshotDir string
	status      string
}

// New creates a host. The screen must already be initialized; the caller
// calls Fini on it.
func New(screen tcell.Screen, g *game.Game, fps int, snapshotDir string) *Host {
	if fps <= 0 {
		fps = 30
	}
	if snapshotDir == "" {
		snapshotDir = "."
	}
	h := &Host{
		screen:      screen,
		g:           g,
		interval:    time.Second / time.Duration(fps),
		snapshotDir: snapshotDir,
	}
	h.cols, h.rows = screen.Size()
	return h
}

// Run steps and draws until ctx is done, the user quits or maxTicks frames
// completed (0 = unlimited).
func (h *Host) Run(ctx context.Context, maxTicks int) error {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			select {
			case eventChan <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-eventChan:
			if !h.handleEvent(ev) {
				return nil
			}

		case <-ticker.C:
			if err := h.g.Update(); err != nil {
				return err
			}
			h.Draw()
			if maxTicks > 0 && int(h.g.Tick()) >= maxTicks {
				slog.Info("max ticks reached", "tick", h.g.Tick())
				return nil
			}
		}
	}
}

// handleEvent applies one input event. It returns false when the user quits.
func (h *Host) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				h.g.SetPaused(!h.g.Paused())
			case '+', '.':
				h.g.SetStepsPerUpdate(h.g.StepsPerUpdate() + 1)
			case '-', ',':
				h.g.SetStepsPerUpdate(h.g.StepsPerUpdate() - 1)
			case 's':
				h.saveFrame()
			}
		}

	case *tcell.EventResize:
		h.cols, h.rows = h.screen.Size()
		h.screen.Sync()
	}
	return true
}

// Draw paints the latest frame scaled to the screen plus a status line.
func (h *Host) Draw() {
	h.screen.Clear()

	imgRows := h.rows - 1
	if h.cols > 0 && imgRows > 0 {
		h.drawFrame(h.g.Frame(), h.cols, imgRows)
	}
	h.drawStatus()

	h.screen.Show()
}

// drawFrame nearest-samples frame onto cols x rows cells.
func (h *Host) drawFrame(frame *image.RGBA, cols, rows int) {
	b := frame.Bounds()
	w, hh := b.Dx(), b.Dy()
	pixRows := rows * 2

	for cy := 0; cy < rows; cy++ {
		top := (cy * 2) * hh / pixRows
		bottom := (cy*2 + 1) * hh / pixRows
		for cx := 0; cx < cols; cx++ {
			x := cx * w / cols
			style := tcell.StyleDefault.
				Foreground(rgbAt(frame, x, top)).
				Background(rgbAt(frame, x, bottom))
			h.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
}

func rgbAt(frame *image.RGBA, x, y int) tcell.Color {
	c := frame.RGBAAt(x, y)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// drawStatus writes the bottom status line.
func (h *Host) drawStatus() {
	state := "running"
	if h.g.Paused() {
		state = "PAUSED"
	}
	stats := h.g.LastStats()
	line := fmt.Sprintf(" tick %d | %dx | %s | mass %.1f | coverage %.1f%% | [space] pause [+/-] speed [s] save [q] quit",
		h.g.Tick(), h.g.StepsPerUpdate(), state, stats.Mass, stats.Coverage*100)
	if h.status != "" {
		line += " | " + h.status
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	y := h.rows - 1
	x := 0
	for _, r := range line {
		if x >= h.cols {
			break
		}
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (h *Host) saveFrame() {
	path, err := telemetry.SaveFrame(h.g.Frame(), h.snapshotDir, h.g.Tick())
	if err != nil {
		slog.Error("failed to save frame", "error", err)
		h.status = "save failed"
		return
	}
	h.status = "saved " + path
}
