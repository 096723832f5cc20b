package telemetry

import (
	"math"

	"github.com/pthm-cable/kaleido/mpm"
)

// Collector accumulates per-frame samples within windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec    float64
	windowDurationFrames int32
	frameDuration        float64

	windowStartFrame int32

	// Accumulators for the current window
	frames   int
	substeps int
	omegaSum float64
	keSum    float64
	detFMin  float64
	detFMax  float64
	jpMin    float64
	jpMax    float64
}

// NewCollector creates a collector with windows of windowDurationSec
// simulated seconds, given the simulated length of one frame.
func NewCollector(windowDurationSec, frameDuration float64) *Collector {
	framesPerWindow := int32(windowDurationSec / frameDuration)
	if framesPerWindow < 1 {
		framesPerWindow = 1
	}
	c := &Collector{
		windowDurationSec:    windowDurationSec,
		windowDurationFrames: framesPerWindow,
		frameDuration:        frameDuration,
	}
	c.reset(0)
	return c
}

func (c *Collector) reset(start int32) {
	c.windowStartFrame = start
	c.frames = 0
	c.substeps = 0
	c.omegaSum = 0
	c.keSum = 0
	c.detFMin, c.detFMax = math.Inf(1), math.Inf(-1)
	c.jpMin, c.jpMax = math.Inf(1), math.Inf(-1)
}

// RecordFrame adds one frame's solver state to the window.
func (c *Collector) RecordFrame(omega float64, substeps int, st mpm.FieldStats) {
	c.frames++
	c.substeps += substeps
	c.omegaSum += omega
	c.keSum += st.KineticEnergy
	c.detFMin = math.Min(c.detFMin, st.MinDetF)
	c.detFMax = math.Max(c.detFMax, st.MaxDetF)
	c.jpMin = math.Min(c.jpMin, st.MinJp)
	c.jpMax = math.Max(c.jpMax, st.MaxJp)
}

// ShouldFlush returns true once the window has run its full length.
func (c *Collector) ShouldFlush(currentFrame int32) bool {
	return currentFrame-c.windowStartFrame >= c.windowDurationFrames
}

// WindowEnd carries the state sampled when a window closes.
type WindowEnd struct {
	Speeds       []float64 // particle speeds at window end
	GridMass     float64
	CappedTraces int
	Material     mpm.Material
}

// Flush produces a WindowStats and starts the next window.
func (c *Collector) Flush(currentFrame int32, end WindowEnd) WindowStats {
	mean, p50, p90, maxV := ComputeSpeedStats(end.Speeds)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   currentFrame,
		SimTimeSec:       float64(currentFrame) * c.frameDuration,

		Frames:   c.frames,
		Substeps: c.substeps,
		Material: end.Material.String(),

		SpeedMean: mean,
		SpeedP50:  p50,
		SpeedP90:  p90,
		SpeedMax:  maxV,

		GridMass:     end.GridMass,
		CappedTraces: end.CappedTraces,
	}
	if c.frames > 0 {
		stats.OmegaMean = c.omegaSum / float64(c.frames)
		stats.KineticEnergy = c.keSum / float64(c.frames)
		stats.DetFMin, stats.DetFMax = c.detFMin, c.detFMax
		stats.JpMin, stats.JpMax = c.jpMin, c.jpMax
	}

	c.reset(currentFrame)
	return stats
}

// WindowDurationFrames returns the number of frames per window.
func (c *Collector) WindowDurationFrames() int32 {
	return c.windowDurationFrames
}
