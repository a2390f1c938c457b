package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/windtunnel/lbm"
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
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeFieldStats(t *testing.T) {
	l := lbm.NewLattice(6, 5)
	for i := range l.Rho {
		l.Rho[i] = 1
	}
	// Interior is 4x3 = 12 cells; one is solid and must be skipped.
	l.SetCell(2, 2, lbm.SolidCell)
	l.Rho[l.Index(2, 2)] = 100
	l.Rho[l.Index(1, 1)] = 1.1
	l.Rho[l.Index(4, 3)] = 0.9
	l.Ux[l.Index(3, 2)] = 0.3
	l.Uy[l.Index(3, 2)] = 0.4
	l.Curl[l.Index(1, 3)] = -0.2
	// Edge ring is excluded.
	l.Rho[0] = 50

	fs := ComputeFieldStats(l)

	if fs.FluidCells != 11 {
		t.Fatalf("FluidCells = %d, want 11", fs.FluidCells)
	}
	if math.Abs(fs.TotalMass-11) > 1e-12 {
		t.Errorf("TotalMass = %v, want 11", fs.TotalMass)
	}
	if math.Abs(fs.RhoMean-1) > 1e-12 {
		t.Errorf("RhoMean = %v, want 1", fs.RhoMean)
	}
	if fs.RhoMin != 0.9 || fs.RhoMax != 1.1 {
		t.Errorf("rho range = [%v, %v], want [0.9, 1.1]", fs.RhoMin, fs.RhoMax)
	}
	wantStd := math.Sqrt(0.02 / 11)
	if math.Abs(fs.RhoStd-wantStd) > 1e-12 {
		t.Errorf("RhoStd = %v, want %v", fs.RhoStd, wantStd)
	}
	if math.Abs(fs.SpeedMax-0.5) > 1e-12 {
		t.Errorf("SpeedMax = %v, want 0.5", fs.SpeedMax)
	}
	if math.Abs(fs.SpeedMean-0.5/11) > 1e-12 {
		t.Errorf("SpeedMean = %v, want %v", fs.SpeedMean, 0.5/11)
	}
	if fs.CurlMaxAbs != 0.2 {
		t.Errorf("CurlMaxAbs = %v, want 0.2", fs.CurlMaxAbs)
	}
}

func TestComputeFieldStatsAllSolid(t *testing.T) {
	l := lbm.NewLattice(3, 3)
	l.SetCell(1, 1, lbm.SolidCell)
	if fs := ComputeFieldStats(l); fs.FluidCells != 0 || fs.TotalMass != 0 {
		t.Errorf("all-solid interior = %+v, want zero", fs)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(3)

	for tick := int32(1); tick <= 3; tick++ {
		c.RecordForces(lbm.Forces{Count: 4, SumX: 40, SumY: 20, Fx: float64(tick), Fy: 0.5})
		if tick < 3 && c.ShouldFlush(tick) {
			t.Fatalf("ShouldFlush(%d) = true before window end", tick)
		}
	}
	c.RecordReset()
	if !c.ShouldFlush(3) {
		t.Fatal("ShouldFlush(3) = false at window end")
	}

	stats := c.Flush(3, FieldStats{RhoMean: 1, TotalMass: 99}, 42, true)

	if stats.Ticks != 3 || stats.WindowStartTick != 0 || stats.WindowEndTick != 3 {
		t.Errorf("window = %d ticks [%d,%d]", stats.Ticks, stats.WindowStartTick, stats.WindowEndTick)
	}
	if stats.FxMean != 2 || stats.FyMean != 0.5 {
		t.Errorf("mean force = (%v,%v), want (2,0.5)", stats.FxMean, stats.FyMean)
	}
	if want := 0.5 / 2.0001; math.Abs(stats.LiftToDrag-want) > 1e-12 {
		t.Errorf("LiftToDrag = %v, want %v", stats.LiftToDrag, want)
	}
	if stats.BarrierCount != 4 || stats.CentroidX != 10 || stats.CentroidY != 5 {
		t.Errorf("obstacle = %d at (%v,%v)", stats.BarrierCount, stats.CentroidX, stats.CentroidY)
	}
	if stats.SheddingPeriod != 42 || stats.Resets != 1 || !stats.Stable || stats.TotalMass != 99 {
		t.Errorf("stats = %+v", stats)
	}

	if c.ShouldFlush(4) {
		t.Error("window should restart after flush")
	}
	next := c.Flush(6, FieldStats{}, 0, true)
	if next.WindowStartTick != 3 || next.Ticks != 0 || next.Resets != 0 || next.FxMean != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestSheddingTracker(t *testing.T) {
	st := NewSheddingTracker()

	// Fy = sin(2*pi*t/40): upward crossings at t = 40, 80, ...
	var periods []float64
	for tick := 1; tick <= 130; tick++ {
		fy := math.Sin(2 * math.Pi * float64(tick) / 40)
		if p, ok := st.Observe(float64(tick), fy); ok {
			periods = append(periods, p)
		}
	}

	if len(periods) != 2 {
		t.Fatalf("got %d periods, want 2 (crossings at 40, 80, 120)", len(periods))
	}
	for _, p := range periods {
		if math.Abs(p-40) > 0.1 {
			t.Errorf("period = %v, want ~40", p)
		}
	}
	if st.Crossings() != 3 {
		t.Errorf("Crossings() = %d, want 3", st.Crossings())
	}

	st.Reset()
	if st.Period() != 0 || st.Crossings() != 0 {
		t.Error("Reset should clear history")
	}
}

func TestSheddingTrackerInterpolates(t *testing.T) {
	st := NewSheddingTracker()
	st.Observe(1, -1)
	st.Observe(2, 3) // crossing at 2 - 3/4 = 1.25
	st.Observe(3, -1)
	p, ok := st.Observe(4, 1) // crossing at 4 - 1/2 = 3.5
	if !ok || math.Abs(p-2.25) > 1e-12 {
		t.Errorf("Observe = (%v, %v), want (2.25, true)", p, ok)
	}
}
