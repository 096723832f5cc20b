package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseP2G)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseResolve)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration")
	}
	if _, ok := stats.PhaseAvg[PhaseP2G]; !ok {
		t.Error("expected p2g phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseResolve]; !ok {
		t.Error("expected resolve phase to be tracked")
	}
	if stats.MinFrameDuration > stats.AvgFrameDuration || stats.AvgFrameDuration > stats.MaxFrameDuration {
		t.Errorf("expected min <= avg <= max, got %v %v %v",
			stats.MinFrameDuration, stats.AvgFrameDuration, stats.MaxFrameDuration)
	}
}

func TestPerfCollector_RepeatedPhasesAccumulate(t *testing.T) {
	pc := NewPerfCollector(4)

	pc.StartFrame()
	for i := 0; i < 3; i++ {
		pc.StartPhase(PhaseP2G)
		time.Sleep(200 * time.Microsecond)
		pc.StartPhase(PhaseG2P)
	}
	pc.EndFrame()

	stats := pc.Stats()
	if got := stats.PhaseAvg[PhaseP2G]; got < 600*time.Microsecond {
		t.Errorf("expected p2g to accumulate over sub-steps, got %v", got)
	}
	if got := stats.PhaseRuns[PhaseP2G]; got != 3 {
		t.Errorf("expected 3 p2g runs per frame, got %v", got)
	}
	if _, ok := stats.PhaseAvg[PhaseComposite]; ok {
		t.Error("expected phases that never ran to be absent")
	}
}

func TestPerfCollector_UnknownPhaseClosesRunning(t *testing.T) {
	pc := NewPerfCollector(2)
	pc.StartFrame()
	pc.StartPhase(PhaseGrid)
	pc.StartPhase("bogus")
	time.Sleep(2 * time.Millisecond)
	pc.EndFrame()

	stats := pc.Stats()
	if _, ok := stats.PhaseAvg["bogus"]; ok {
		t.Error("unknown phase should not be recorded")
	}
	if got := stats.PhaseAvg[PhaseGrid]; got >= 2*time.Millisecond {
		t.Errorf("grid kept running after the next phase started: %v", got)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseGrid)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration after window filled")
	}
	if stats.FramesPerSecond <= 0 {
		t.Error("expected positive frames per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseReset)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseComposite)
		time.Sleep(100 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()
	fastPct := stats.PhasePct[PhaseReset]
	slowPct := stats.PhasePct[PhaseComposite]
	if slowPct <= fastPct {
		t.Errorf("expected composite (%v%%) > reset (%v%%)", slowPct, fastPct)
	}

	row := stats.ToCSV(42)
	if row.WindowEnd != 42 || row.CompositePct != slowPct || row.ResetPct != fastPct {
		t.Errorf("unexpected CSV row %+v", row)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()
	if stats.AvgFrameDuration != 0 {
		t.Error("expected zero avg frame duration for empty collector")
	}
	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}
	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_DisplayTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordDisplay()
	time.Sleep(33 * time.Millisecond) // ~30fps
	pc.RecordDisplay()

	stats := pc.Stats()
	if stats.DisplayInterval < 30*time.Millisecond {
		t.Errorf("expected display interval >= 30ms, got %v", stats.DisplayInterval)
	}
	if stats.FPS < 15 || stats.FPS > 40 {
		t.Errorf("expected FPS between 15-40 with 33ms frames, got %v", stats.FPS)
	}
}
