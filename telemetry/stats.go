package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/windtunnel/lbm"
)

// WindowStats holds aggregated statistics for a window of solver ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`
	Ticks           int   `csv:"ticks"`

	// Density over fluid cells (sampled at window end)
	RhoMean   float64 `csv:"rho_mean"`
	RhoStd    float64 `csv:"rho_std"`
	RhoMin    float64 `csv:"rho_min"`
	RhoMax    float64 `csv:"rho_max"`
	TotalMass float64 `csv:"total_mass"`

	// Speed and vorticity (sampled at window end)
	SpeedMean    float64 `csv:"speed_mean"`
	SpeedP90     float64 `csv:"speed_p90"`
	SpeedMax     float64 `csv:"speed_max"`
	CurlMaxAbs   float64 `csv:"curl_max_abs"`
	PressureMean float64 `csv:"pressure_mean"`

	// Forces on solids, averaged over the window
	FxMean     float64 `csv:"fx_mean"`
	FyMean     float64 `csv:"fy_mean"`
	LiftToDrag float64 `csv:"lift_to_drag"`

	// Obstacle
	BarrierCount int     `csv:"barriers"`
	CentroidX    float64 `csv:"centroid_x"`
	CentroidY    float64 `csv:"centroid_y"`

	// Vortex shedding period in ticks, 0 until two crossings are seen
	SheddingPeriod float64 `csv:"shedding_period"`

	Resets int  `csv:"resets"`
	Stable bool `csv:"stable"`
}

// FieldStats summarises the macroscopic fields over fluid cells.
type FieldStats struct {
	FluidCells   int
	RhoMean      float64
	RhoStd       float64
	RhoMin       float64
	RhoMax       float64
	TotalMass    float64
	SpeedMean    float64
	SpeedP90     float64
	SpeedMax     float64
	CurlMaxAbs   float64
	PressureMean float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeFieldStats gathers density, speed, curl and pressure statistics over
// the interior fluid cells of l. Curl and Pressure are only meaningful after
// ComputeDerived.
func ComputeFieldStats(l *lbm.Lattice) FieldStats {
	n := (l.Width - 2) * (l.Height - 2)
	rho := make([]float64, 0, n)
	speed := make([]float64, 0, n)
	pressure := make([]float64, 0, n)
	var curlMax float64

	for y := 1; y < l.Height-1; y++ {
		for x := 1; x < l.Width-1; x++ {
			i := l.Index(x, y)
			if l.Cells[i].IsBarrier() {
				continue
			}
			rho = append(rho, l.Rho[i])
			speed = append(speed, math.Hypot(l.Ux[i], l.Uy[i]))
			pressure = append(pressure, l.Pressure[i])
			if c := math.Abs(l.Curl[i]); c > curlMax {
				curlMax = c
			}
		}
	}

	if len(rho) == 0 {
		return FieldStats{}
	}

	fs := FieldStats{
		FluidCells:   len(rho),
		RhoMin:       floats.Min(rho),
		RhoMax:       floats.Max(rho),
		TotalMass:    floats.Sum(rho),
		SpeedMax:     floats.Max(speed),
		CurlMaxAbs:   curlMax,
		PressureMean: stat.Mean(pressure, nil),
	}
	fs.RhoMean, fs.RhoStd = stat.PopMeanStdDev(rho, nil)
	fs.SpeedMean = stat.Mean(speed, nil)

	sort.Float64s(speed)
	fs.SpeedP90 = Percentile(speed, 0.90)

	return fs
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("ticks", s.Ticks),
		slog.Float64("rho_mean", s.RhoMean),
		slog.Float64("rho_std", s.RhoStd),
		slog.Float64("rho_min", s.RhoMin),
		slog.Float64("rho_max", s.RhoMax),
		slog.Float64("total_mass", s.TotalMass),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("speed_max", s.SpeedMax),
		slog.Float64("curl_max_abs", s.CurlMaxAbs),
		slog.Float64("pressure_mean", s.PressureMean),
		slog.Float64("fx_mean", s.FxMean),
		slog.Float64("fy_mean", s.FyMean),
		slog.Float64("lift_to_drag", s.LiftToDrag),
		slog.Int("barriers", s.BarrierCount),
		slog.Float64("centroid_x", s.CentroidX),
		slog.Float64("centroid_y", s.CentroidY),
		slog.Float64("shedding_period", s.SheddingPeriod),
		slog.Int("resets", s.Resets),
		slog.Bool("stable", s.Stable),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"rho_mean", s.RhoMean,
		"rho_min", s.RhoMin,
		"rho_max", s.RhoMax,
		"total_mass", s.TotalMass,
		"speed_mean", s.SpeedMean,
		"speed_max", s.SpeedMax,
		"curl_max_abs", s.CurlMaxAbs,
		"fx_mean", s.FxMean,
		"fy_mean", s.FyMean,
		"lift_to_drag", s.LiftToDrag,
		"barriers", s.BarrierCount,
		"shedding_period", s.SheddingPeriod,
		"resets", s.Resets,
		"stable", s.Stable,
	)
}
