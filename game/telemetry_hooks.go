package game

import (
	"log/slog"
)

// flushTelemetry closes the stats window when it is complete and handles bookmarks.
func (g *Game) flushTelemetry(mass float64, peak float32) {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, mass, peak, g.field.Front())
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if err := g.outputManager.WriteProbes(g.probeRecords()); err != nil {
			slog.Error("failed to write probes", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// maybeSnapshot saves the current frame every snapshotEvery ticks.
func (g *Game) maybeSnapshot() {
	if g.snapshotEvery <= 0 || g.outputManager == nil || g.tick%int32(g.snapshotEvery) != 0 {
		return
	}
	path, err := g.outputManager.WriteFrame(g.frame, g.tick)
	if err != nil {
		slog.Error("failed to save frame", "error", err)
		return
	}
	slog.Info("frame saved", "path", path, "tick", g.tick)
}
