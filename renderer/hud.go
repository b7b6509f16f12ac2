package renderer

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/mold/camera"
	"github.com/pthm-cable/mold/game"
	"github.com/pthm-cable/mold/telemetry"
)

const controlsLegend = "[Space] pause  [,/.] speed  [Wheel/+/-] zoom  [Arrows] pan  [Click] probe  [RClick] remove  [C] clear  [S] save  [H] hud"

// HUDData holds everything the heads-up display shows.
type HUDData struct {
	Tick       int32
	Agents     int
	Speed      int
	FPS        int32
	Paused     bool
	Zoom       float32
	Stats      telemetry.WindowStats
	Perf       telemetry.PerfStats
	ScreenW    int32
	ScreenH    int32
	StatusLine string
}

// DrawHUD renders the status text, the perf panel and the controls legend.
func DrawHUD(data HUDData) {
	rl.DrawRectangle(5, 5, 330, 130, rl.Color{R: 0, G: 0, B: 0, A: 150})

	rl.DrawText("Mold", 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Agents: %d | Speed: %dx", data.Tick, data.Agents, data.Speed),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("FPS: %d | TPS: %.0f | Zoom: %.2f", data.FPS, data.Perf.TicksPerSecond, data.Zoom),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Mass: %.1f | Peak: %.2f | Coverage: %.1f%%", data.Stats.Mass, data.Stats.Peak, data.Stats.Coverage*100),
		10, 75, 16, rl.LightGray,
	)

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	rl.DrawText(status, 10, 95, 16, rl.Yellow)
	if data.StatusLine != "" {
		rl.DrawText(data.StatusLine, 10, 115, 14, rl.Green)
	}

	drawPerfPanel(data.Perf, data.ScreenW-210, 10)
	rl.DrawText(controlsLegend, 10, data.ScreenH-25, 14, rl.Gray)
}

// drawPerfPanel lists the average time spent in each frame phase.
func drawPerfPanel(stats telemetry.PerfStats, x, y int32) {
	rl.DrawRectangle(x-5, y-5, 205, int32(24+16*len(telemetry.Phases)), rl.Color{R: 0, G: 0, B: 0, A: 150})
	rl.DrawText(fmt.Sprintf("Tick: %s", stats.AvgTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 18

	for _, phase := range telemetry.Phases {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-14s %5.1f%%", phase, pct), x, y, 12, color)
		y += 16
	}
}

// DrawProbes marks each probe with a ring and its latest reading.
func DrawProbes(probes []game.ProbeInfo, cam *camera.Camera) {
	for _, p := range probes {
		sx, sy := cam.WorldToScreen(p.X, p.Y)
		color := rl.SkyBlue
		if p.Pinned {
			color = rl.Gold
		}
		rl.DrawCircleLines(int32(sx), int32(sy), 6, color)
		rl.DrawText(
			fmt.Sprintf("%s %.3f", p.Name, p.Reading.Value),
			int32(sx)+9, int32(sy)-6, 12, color,
		)
	}
}
