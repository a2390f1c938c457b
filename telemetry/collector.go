package telemetry

import "github.com/pthm-cable/windtunnel/lbm"

// Collector accumulates per-tick forces within windows and produces
// WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32
	ticks           int

	// Force accumulators for current window
	sumFx, sumFy float64
	last         lbm.Forces

	resets int
}

// NewCollector creates a new stats collector flushing every windowTicks
// solver ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
	}
}

// RecordForces records the forces returned by one Stream.
func (c *Collector) RecordForces(f lbm.Forces) {
	c.sumFx += f.Fx
	c.sumFy += f.Fy
	c.last = f
	c.ticks++
}

// RecordReset records a fluid reset after instability.
func (c *Collector) RecordReset() {
	c.resets++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides the field statistics at window end, the current
// shedding period and the stability flag.
func (c *Collector) Flush(currentTick int32, fs FieldStats, sheddingPeriod float64, stable bool) WindowStats {
	var fx, fy float64
	if c.ticks > 0 {
		fx = c.sumFx / float64(c.ticks)
		fy = c.sumFy / float64(c.ticks)
	}
	mean := lbm.Forces{Fx: fx, Fy: fy}
	cx, cy := c.last.Centroid()

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		Ticks:           c.ticks,

		RhoMean:   fs.RhoMean,
		RhoStd:    fs.RhoStd,
		RhoMin:    fs.RhoMin,
		RhoMax:    fs.RhoMax,
		TotalMass: fs.TotalMass,

		SpeedMean:    fs.SpeedMean,
		SpeedP90:     fs.SpeedP90,
		SpeedMax:     fs.SpeedMax,
		CurlMaxAbs:   fs.CurlMaxAbs,
		PressureMean: fs.PressureMean,

		FxMean:     fx,
		FyMean:     fy,
		LiftToDrag: mean.LiftToDrag(),

		BarrierCount: c.last.Count,
		CentroidX:    cx,
		CentroidY:    cy,

		SheddingPeriod: sheddingPeriod,
		Resets:         c.resets,
		Stable:         stable,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.ticks = 0
	c.sumFx = 0
	c.sumFy = 0
	c.resets = 0

	return stats
}
