package game

import (
	"log/slog"

	"github.com/pthm-cable/kaleido/telemetry"
)

// flushTelemetry closes the stats window when it has run its length.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.frame) {
		return
	}

	g.speeds = g.solver.Field().Speeds(g.speeds[:0])
	stats := g.collector.Flush(g.frame, telemetry.WindowEnd{
		Speeds:       g.speeds,
		GridMass:     g.solver.TotalGridMass(),
		CappedTraces: g.lookup.Capped,
		Material:     g.material,
	})
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteStats(stats); err != nil {
			slog.Error("failed to write stats", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndFrame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
