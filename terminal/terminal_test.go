package terminal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/mold/config"
	"github.com/pthm-cable/mold/game"
)

func newTestHost(t *testing.T, cols, rows int) (*Host, *game.Game, tcell.SimulationScreen) {
	t.Helper()

	cfg := config.Defaults()
	cfg.Screen.Width = 8
	cfg.Screen.Height = 8
	cfg.Agents.Count = 40
	cfg.Trail.DepositAmount = 0.5
	cfg.Render.ColorPolicy = config.ColorGrayscale
	cfg.Compute.Backend = config.BackendSerial
	cfg.Refresh()

	g, err := game.New(cfg, game.Options{Seed: 3})
	require.NoError(t, err)
	t.Cleanup(g.Unload)

	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)

	return New(screen, g, 30, t.TempDir()), g, screen
}

func TestDrawHalfBlocks(t *testing.T) {
	h, g, screen := newTestHost(t, 8, 5)
	for range 3 {
		require.NoError(t, g.Step())
	}
	h.Draw()

	frame := g.Frame()
	for cy := 0; cy < 4; cy++ {
		for cx := 0; cx < 8; cx++ {
			r, _, style, _ := screen.GetContent(cx, cy)
			assert.Equal(t, halfBlock, r)

			fg, bg, _ := style.Decompose()
			assert.Equal(t, rgbAt(frame, cx, cy*2), fg, "fg at %d,%d", cx, cy)
			assert.Equal(t, rgbAt(frame, cx, cy*2+1), bg, "bg at %d,%d", cx, cy)
		}
	}

	// Status line starts with the tick counter
	r, _, _, _ := screen.GetContent(1, 4)
	assert.Equal(t, 't', r)
}

func TestHandleEvent(t *testing.T) {
	h, g, _ := newTestHost(t, 8, 5)

	assert.True(t, h.handleEvent(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone)))
	assert.True(t, g.Paused())

	assert.True(t, h.handleEvent(tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone)))
	assert.Equal(t, 2, g.StepsPerUpdate())
	assert.True(t, h.handleEvent(tcell.NewEventKey(tcell.KeyRune, '-', tcell.ModNone)))
	assert.Equal(t, 1, g.StepsPerUpdate())

	assert.False(t, h.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, h.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestSaveFrameKey(t *testing.T) {
	h, g, _ := newTestHost(t, 8, 5)
	require.NoError(t, g.Step())

	assert.True(t, h.handleEvent(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone)))
	_, err := os.Stat(filepath.Join(h.snapshotDir, "frame_00000001.png"))
	assert.NoError(t, err)
}
