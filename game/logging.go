package game

import (
	"fmt"
	"io"
	"time"

	"github.com/pthm-cable/kaleido/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// LogPerfStats prints a human-readable phase breakdown.
func (g *Game) LogPerfStats() {
	s := g.perfCollector.Stats()
	Logf("=== Perf @ Frame %d (omega %.1f, %s) | %.0f frames/s ===",
		g.frame, g.omega, g.material, s.FramesPerSecond)
	Logf("Avg frame time: %s (min %s, max %s)",
		s.AvgFrameDuration.Round(time.Microsecond),
		s.MinFrameDuration.Round(time.Microsecond),
		s.MaxFrameDuration.Round(time.Microsecond))

	for _, phase := range telemetry.Phases {
		avg, ok := s.PhaseAvg[phase]
		if !ok {
			continue
		}
		Logf("  %-10s %10s  %5.1f%%", phase, avg.Round(time.Microsecond), s.PhasePct[phase])
	}
	Logf("")
}
