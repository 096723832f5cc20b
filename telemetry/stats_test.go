package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"below range clamps", []float64{1, 2, 3}, -1, 1.0},
		{"above range clamps", []float64{1, 2, 3}, 2, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p25 interpolates", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.25, 2.5},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeSpeedStats(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	mean, p50, p90, maxV := ComputeSpeedStats(values)

	if math.Abs(mean-0.55) > 1e-9 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	if math.Abs(p50-0.5) > 1e-9 {
		t.Errorf("p50 = %v, want 0.5", p50)
	}
	if math.Abs(p90-0.9) > 1e-9 {
		t.Errorf("p90 = %v, want 0.9", p90)
	}
	if maxV != 1.0 {
		t.Errorf("max = %v, want 1", maxV)
	}
	if values[0] != 1.0 {
		t.Error("input must not be reordered")
	}
}

func TestComputeSpeedStatsEmpty(t *testing.T) {
	mean, p50, p90, maxV := ComputeSpeedStats(nil)
	if mean != 0 || p50 != 0 || p90 != 0 || maxV != 0 {
		t.Error("empty slice should return all zeros")
	}
}
