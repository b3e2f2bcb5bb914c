package telemetry

import (
	"math"
	"testing"
)

func TestComputeDistribution(t *testing.T) {
	values := []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5, 0.4, 0.3, 0.2, 0.1}
	d := ComputeDistribution(values)

	if math.Abs(d.Mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", d.Mean)
	}
	// Population std of 0.1..1.0
	if math.Abs(d.Std-0.2872) > 0.001 {
		t.Errorf("std = %v, want ~0.2872", d.Std)
	}
	if d.Max != 1.0 {
		t.Errorf("max = %v, want 1.0", d.Max)
	}
	if !(d.P10 <= d.P50 && d.P50 <= d.P90) {
		t.Errorf("percentiles out of order: p10=%v p50=%v p90=%v", d.P10, d.P50, d.P90)
	}
	if d.P10 < 0.1 || d.P90 > 1.0 {
		t.Errorf("percentiles outside data range: p10=%v p90=%v", d.P10, d.P90)
	}

	// Input order must be preserved
	if values[0] != 1.0 || values[9] != 0.1 {
		t.Error("ComputeDistribution modified its input")
	}
}

func TestComputeDistributionConstant(t *testing.T) {
	d := ComputeDistribution([]float64{0.25, 0.25, 0.25, 0.25})

	for name, got := range map[string]float64{
		"mean": d.Mean, "p10": d.P10, "p50": d.P50, "p90": d.P90, "max": d.Max,
	} {
		if math.Abs(got-0.25) > 1e-9 {
			t.Errorf("%s = %v, want 0.25", name, got)
		}
	}
	if d.Std != 0 {
		t.Errorf("std = %v, want 0", d.Std)
	}
}

func TestComputeDistributionEmpty(t *testing.T) {
	if d := ComputeDistribution(nil); d != (Distribution{}) {
		t.Errorf("empty slice should return zero distribution, got %+v", d)
	}
}
