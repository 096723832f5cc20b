package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame int32   `csv:"-"`
	WindowEndFrame   int32   `csv:"window_end"`
	SimTimeSec       float64 `csv:"sim_time"`

	// Control
	Frames    int     `csv:"frames"`
	Substeps  int     `csv:"substeps"`
	OmegaMean float64 `csv:"omega_mean"`
	Material  string  `csv:"material"`

	// Energy and speed (speed sampled at window end)
	KineticEnergy float64 `csv:"kinetic_energy"` // mean over the window
	SpeedMean     float64 `csv:"speed_mean"`
	SpeedP50      float64 `csv:"speed_p50"`
	SpeedP90      float64 `csv:"speed_p90"`
	SpeedMax      float64 `csv:"speed_max"`

	// Deformation extremes over the window
	DetFMin float64 `csv:"detf_min"`
	DetFMax float64 `csv:"detf_max"`
	JpMin   float64 `csv:"jp_min"`
	JpMax   float64 `csv:"jp_max"`

	// Conservation and tracing
	GridMass     float64 `csv:"grid_mass"`
	CappedTraces int     `csv:"capped_traces"`
}

// Percentile returns the p-th percentile of sorted by linear interpolation.
// p is clamped to [0, 1]. Returns 0 if sorted is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(math.Max(0, math.Min(1, p)), stat.LinInterp, sorted, nil)
}

// ComputeSpeedStats returns the mean, median, 90th percentile and maximum
// of values. values is not modified.
func ComputeSpeedStats(values []float64) (mean, p50, p90, maxV float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, p50, p90, sorted[len(sorted)-1]
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartFrame)),
		slog.Int("window_end", int(s.WindowEndFrame)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("frames", s.Frames),
		slog.Int("substeps", s.Substeps),
		slog.Float64("omega_mean", s.OmegaMean),
		slog.String("material", s.Material),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("detf_min", s.DetFMin),
		slog.Float64("detf_max", s.DetFMax),
		slog.Float64("jp_min", s.JpMin),
		slog.Float64("jp_max", s.JpMax),
		slog.Float64("grid_mass", s.GridMass),
		slog.Int("capped_traces", s.CappedTraces),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
