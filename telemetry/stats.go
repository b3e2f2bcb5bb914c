// Package telemetry provides field statistics, perf timing, bookmarks, snapshots
// and CSV run output.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	WallTimeSec     float64 `csv:"wall_time"`

	// Field shape at window end
	Particles   int `csv:"particles"`
	FrameWidth  int `csv:"frame_w"`
	FrameHeight int `csv:"frame_h"`

	// Frame flow during window
	FramesIn      int `csv:"frames_in"`
	FramesDropped int `csv:"frames_dropped"`
	Resizes       int `csv:"resizes"`

	// Mean blend factor applied per tick
	MeanDt float64 `csv:"mean_dt"`

	// Smoothed value distribution (sampled at window end)
	ValueMean float64 `csv:"value_mean"`
	ValueStd  float64 `csv:"value_std"`
	ValueP10  float64 `csv:"value_p10"`
	ValueP50  float64 `csv:"value_p50"`
	ValueP90  float64 `csv:"value_p90"`

	// Velocity distribution (sampled at window end)
	VelocityMean float64 `csv:"velocity_mean"`
	VelocityStd  float64 `csv:"velocity_std"`
	VelocityP10  float64 `csv:"velocity_p10"`
	VelocityP50  float64 `csv:"velocity_p50"`
	VelocityP90  float64 `csv:"velocity_p90"`
	VelocityMax  float64 `csv:"velocity_max"`

	// Fraction of particles drawn above the minimum radius
	ActiveFraction float64 `csv:"active_fraction"`
}

// Distribution summarizes a sample of values.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// ComputeDistribution calculates mean, standard deviation, percentiles and max.
// Returns the zero Distribution for an empty slice. values is not modified.
func ComputeDistribution(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std := stat.PopMeanStdDev(sorted, nil)

	return Distribution{
		Mean: mean,
		Std:  std,
		P10:  stat.Quantile(0.10, stat.LinInterp, sorted, nil),
		P50:  stat.Quantile(0.50, stat.LinInterp, sorted, nil),
		P90:  stat.Quantile(0.90, stat.LinInterp, sorted, nil),
		Max:  sorted[n-1],
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("wall_time", s.WallTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("frame_w", s.FrameWidth),
		slog.Int("frame_h", s.FrameHeight),
		slog.Int("frames_in", s.FramesIn),
		slog.Int("frames_dropped", s.FramesDropped),
		slog.Int("resizes", s.Resizes),
		slog.Float64("mean_dt", s.MeanDt),
		slog.Float64("value_mean", s.ValueMean),
		slog.Float64("value_p50", s.ValueP50),
		slog.Float64("velocity_mean", s.VelocityMean),
		slog.Float64("velocity_p90", s.VelocityP90),
		slog.Float64("velocity_max", s.VelocityMax),
		slog.Float64("active_fraction", s.ActiveFraction),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"wall_time", s.WallTimeSec,
		"particles", s.Particles,
		"frame", []int{s.FrameWidth, s.FrameHeight},
		"frames_in", s.FramesIn,
		"frames_dropped", s.FramesDropped,
		"resizes", s.Resizes,
		"mean_dt", s.MeanDt,
		"value_mean", s.ValueMean,
		"value_std", s.ValueStd,
		"value_p10", s.ValueP10,
		"value_p50", s.ValueP50,
		"value_p90", s.ValueP90,
		"velocity_mean", s.VelocityMean,
		"velocity_std", s.VelocityStd,
		"velocity_p10", s.VelocityP10,
		"velocity_p50", s.VelocityP50,
		"velocity_p90", s.VelocityP90,
		"velocity_max", s.VelocityMax,
		"active_fraction", s.ActiveFraction,
	)
}
