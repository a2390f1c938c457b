// Package sim drives the lattice solver one frame at a time: boundary forcing,
// stepping, stability handling and telemetry.
package sim

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/windtunnel/boundary"
	"github.com/pthm-cable/windtunnel/config"
	"github.com/pthm-cable/windtunnel/lbm"
	"github.com/pthm-cable/windtunnel/obstacle"
	"github.com/pthm-cable/windtunnel/telemetry"
)

// Options configures a Simulation.
type Options struct {
	Config        *config.Config // nil = config.Cfg()
	LogStats      bool
	OutputDir     string // CSV output directory (empty = disabled)
	SnapshotDir   string // field snapshot directory (empty = disabled)
	StatsCallback func(telemetry.WindowStats)
}

// Simulation holds the solver and everything that runs around it.
type Simulation struct {
	cfg    *config.Config
	solver *lbm.Solver

	// Boundary forcing
	tunnel     boundary.Tunnel
	ports      boundary.Ports
	pushParams boundary.PushParams
	push       boundary.Push
	pushing    bool

	// State
	tick    int32
	resets  int
	windows int
	stopped bool

	// Telemetry
	collector     *telemetry.Collector
	shedding      *telemetry.SheddingTracker
	perfCollector *telemetry.PerfCollector
	eventDetector *telemetry.EventDetector
	outputManager *telemetry.OutputManager
	logStats      bool
	snapshotDir   string
	statsCallback func(telemetry.WindowStats)
}

// NewSimulation builds the solver, places the configured obstacle and
// initializes the fluid at the inflow speed.
func NewSimulation(opts Options) (*Simulation, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	solver, err := lbm.NewSolver(lbm.Options{
		Width:             cfg.Grid.Width,
		Height:            cfg.Grid.Height,
		Viscosity:         cfg.Fluid.Viscosity,
		Workers:           cfg.Simulation.Workers,
		ParallelThreshold: cfg.Simulation.ParallelThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("creating solver: %w", err)
	}

	barriers, err := obstacle.Apply(solver.Lattice(), cfg.Obstacle)
	if err != nil {
		solver.Close()
		return nil, fmt.Errorf("placing obstacle: %w", err)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		solver.Close()
		return nil, err
	}
	if om != nil {
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
	}

	s := &Simulation{
		cfg:    cfg,
		solver: solver,
		tunnel: boundary.Tunnel{Speed: cfg.Fluid.Speed, Density: cfg.Fluid.Density},
		ports:  boundary.Ports{Speed: cfg.Fluid.Speed, Density: cfg.Fluid.Density},
		pushParams: boundary.PushParams{
			Radius:   cfg.Push.Radius,
			Margin:   cfg.Push.Margin,
			MaxSpeed: cfg.Push.MaxSpeed,
		},
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		shedding:      telemetry.NewSheddingTracker(),
		perfCollector: telemetry.NewPerfCollector(perfFrames(cfg), cfg.Derived.Cells),
		eventDetector: telemetry.NewEventDetector(10),
		outputManager: om,
		logStats:      opts.LogStats,
		snapshotDir:   opts.SnapshotDir,
		statsCallback: opts.StatsCallback,
	}

	solver.Initialize(cfg.Fluid.Speed, cfg.Fluid.Density)

	slog.Info("simulation created",
		"width", cfg.Grid.Width,
		"height", cfg.Grid.Height,
		"viscosity", cfg.Fluid.Viscosity,
		"omega", cfg.Derived.Omega,
		"speed", cfg.Fluid.Speed,
		"barriers", barriers,
	)

	return s, nil
}

// perfFrames converts the perf window from ticks to frames.
func perfFrames(cfg *config.Config) int {
	n := cfg.Telemetry.PerfCollectorWindow / cfg.Simulation.StepsPerFrame
	if n < 1 {
		n = 1
	}
	return n
}

// Update advances one frame: boundary forcing, steps_per_frame ticks, then
// the stability probe. It does nothing once the run has stopped.
func (s *Simulation) Update() {
	if s.stopped {
		return
	}
	steps := s.cfg.Simulation.StepsPerFrame

	s.perfCollector.StartFrame()

	s.perfCollector.StartPhase(telemetry.PhaseBoundary)
	s.tunnel.Apply(s.solver)
	s.ports.Apply(s.solver)

	for i := 0; i < steps; i++ {
		s.step()
	}

	s.perfCollector.StartPhase(telemetry.PhaseDiagnostics)
	stable := s.solver.IsStable()
	s.perfCollector.EndFrame(steps)

	if !stable {
		s.handleInstability()
	}
}

// step runs a single tick.
func (s *Simulation) step() {
	s.perfCollector.StartPhase(telemetry.PhaseCollide)
	s.solver.Collide()

	s.perfCollector.StartPhase(telemetry.PhaseStream)
	forces := s.solver.Stream()

	if s.pushing {
		s.perfCollector.StartPhase(telemetry.PhasePush)
		s.push.Apply(s.solver, s.pushParams)
	}

	s.tick++

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	if period, ok := s.shedding.Observe(float64(s.tick), forces.Fy); ok && s.logStats {
		slog.Debug("shedding period", "tick", s.tick, "period", period)
	}
	s.collector.RecordForces(forces)
	s.flushTelemetry()
}

// SetPush starts (or moves) a push perturbation applied after every stream.
func (s *Simulation) SetPush(p boundary.Push) {
	s.push = p.Clamped(s.pushParams.MaxSpeed)
	s.pushing = true
}

// ClearPush stops the push perturbation.
func (s *Simulation) ClearPush() {
	s.pushing = false
}

// Pushing reports whether a push perturbation is active.
func (s *Simulation) Pushing() bool {
	return s.pushing
}

// Tick returns the number of solver ticks run so far.
func (s *Simulation) Tick() int32 {
	return s.tick
}

// Solver returns the underlying lattice solver.
func (s *Simulation) Solver() *lbm.Solver {
	return s.solver
}

// Config returns the configuration the simulation was built from.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// Resets returns how many times the fluid was re-initialized after
// instability.
func (s *Simulation) Resets() int {
	return s.resets
}

// Stopped reports whether the run halted on instability with
// reset_on_unstable disabled.
func (s *Simulation) Stopped() bool {
	return s.stopped
}
