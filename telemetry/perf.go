package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/kaleido/mpm"
)

// Phase names for one frame. The solver phases come from mpm.
const (
	PhaseReset     = mpm.PhaseReset
	PhaseP2G       = mpm.PhaseP2G
	PhaseGrid      = mpm.PhaseGrid
	PhaseG2P       = mpm.PhaseG2P
	PhaseComposite = "composite"
	PhaseResolve   = "resolve"
	PhaseTelemetry = "telemetry"
)

// Phases lists every frame phase in execution order.
var Phases = [...]string{
	PhaseReset, PhaseP2G, PhaseGrid, PhaseG2P,
	PhaseComposite, PhaseResolve, PhaseTelemetry,
}

var phaseIndex = func() map[string]int {
	m := make(map[string]int, len(Phases))
	for i, name := range Phases {
		m[name] = i
	}
	return m
}()

const numPhases = len(Phases)

// frameTiming is one frame's wall time split by phase. The solver phases run
// once per sub-step, so each slot sums every run and counts them.
type frameTiming struct {
	total time.Duration
	spent [numPhases]time.Duration
	runs  [numPhases]int32
}

// PerfCollector tracks performance metrics over a rolling window of frames.
type PerfCollector struct {
	ring   []frameTiming
	next   int
	filled int

	cur        frameTiming
	frameStart time.Time
	mark       time.Time
	running    int // index into Phases, -1 between phases

	// Display refresh timing (windowed mode)
	lastDisplay     time.Time
	displayInterval time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 30
	}
	return &PerfCollector{
		ring:    make([]frameTiming, windowSize),
		running: -1,
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = time.Now()
	p.cur = frameTiming{}
	p.running = -1
}

// StartPhase ends the running phase, if any, and starts timing phase.
// Names outside Phases close the running phase without being recorded.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	if i, ok := phaseIndex[phase]; ok {
		p.running = i
		p.cur.runs[i]++
	}
	p.mark = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.running >= 0 {
		p.cur.spent[p.running] += now.Sub(p.mark)
		p.running = -1
	}
}

// EndFrame closes the running phase and records the frame.
func (p *PerfCollector) EndFrame() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.frameStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// RecordDisplay marks a display refresh.
func (p *PerfCollector) RecordDisplay() {
	now := time.Now()
	if !p.lastDisplay.IsZero() {
		p.displayInterval = now.Sub(p.lastDisplay)
	}
	p.lastDisplay = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgFrameDuration time.Duration
	MinFrameDuration time.Duration
	MaxFrameDuration time.Duration

	// Phase breakdown: average time per frame, share of the frame, and how
	// many times the phase ran per frame. Phases that never ran are absent.
	PhaseAvg  map[string]time.Duration
	PhasePct  map[string]float64
	PhaseRuns map[string]float64

	// Frames the pipeline could produce per second
	FramesPerSecond float64

	// Display refresh (windowed mode)
	DisplayInterval time.Duration
	FPS             float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:        make(map[string]time.Duration),
		PhasePct:        make(map[string]float64),
		PhaseRuns:       make(map[string]float64),
		DisplayInterval: p.displayInterval,
	}
	if p.displayInterval > 0 {
		s.FPS = float64(time.Second) / float64(p.displayInterval)
	}
	if p.filled == 0 {
		return s
	}

	var sum frameTiming
	s.MinFrameDuration = p.ring[0].total
	for _, f := range p.ring[:p.filled] {
		sum.total += f.total
		s.MinFrameDuration = min(s.MinFrameDuration, f.total)
		s.MaxFrameDuration = max(s.MaxFrameDuration, f.total)
		for i := range f.spent {
			sum.spent[i] += f.spent[i]
			sum.runs[i] += f.runs[i]
		}
	}

	n := time.Duration(p.filled)
	s.AvgFrameDuration = sum.total / n
	if s.AvgFrameDuration > 0 {
		s.FramesPerSecond = float64(time.Second) / float64(s.AvgFrameDuration)
	}
	for i, name := range Phases {
		if sum.runs[i] == 0 {
			continue
		}
		avg := sum.spent[i] / n
		s.PhaseAvg[name] = avg
		s.PhaseRuns[name] = float64(sum.runs[i]) / float64(p.filled)
		if s.AvgFrameDuration > 0 {
			s.PhasePct[name] = float64(avg) / float64(s.AvgFrameDuration) * 100
		}
	}
	return s
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_frame_us", s.AvgFrameDuration.Microseconds(),
		"min_frame_us", s.MinFrameDuration.Microseconds(),
		"max_frame_us", s.MaxFrameDuration.Microseconds(),
		"frames_per_sec", int(s.FramesPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrameDuration.Microseconds()),
		slog.Int64("min_frame_us", s.MinFrameDuration.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrameDuration.Microseconds()),
		slog.Float64("frames_per_sec", s.FramesPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs,
				slog.Float64(phase+"_pct", pct),
				slog.Float64(phase+"_runs", s.PhaseRuns[phase]),
			)
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	AvgFrameUS   int64   `csv:"avg_frame_us"`
	MinFrameUS   int64   `csv:"min_frame_us"`
	MaxFrameUS   int64   `csv:"max_frame_us"`
	FramesPerSec float64 `csv:"frames_per_sec"`
	FPS          float64 `csv:"fps"`
	ResetPct     float64 `csv:"reset_pct"`
	P2GPct       float64 `csv:"p2g_pct"`
	GridPct      float64 `csv:"grid_pct"`
	G2PPct       float64 `csv:"g2p_pct"`
	CompositePct float64 `csv:"composite_pct"`
	ResolvePct   float64 `csv:"resolve_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgFrameUS:   s.AvgFrameDuration.Microseconds(),
		MinFrameUS:   s.MinFrameDuration.Microseconds(),
		MaxFrameUS:   s.MaxFrameDuration.Microseconds(),
		FramesPerSec: s.FramesPerSecond,
		FPS:          s.FPS,
		ResetPct:     s.PhasePct[PhaseReset],
		P2GPct:       s.PhasePct[PhaseP2G],
		GridPct:      s.PhasePct[PhaseGrid],
		G2PPct:       s.PhasePct[PhaseG2P],
		CompositePct: s.PhasePct[PhaseComposite],
		ResolvePct:   s.PhasePct[PhaseResolve],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
