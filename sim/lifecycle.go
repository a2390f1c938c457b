package sim

import (
	"log/slog"

	"github.com/pthm-cable/windtunnel/telemetry"
)

// handleInstability records the failed probe and either re-initializes the
// fluid or stops the run.
func (s *Simulation) handleInstability() {
	ev := telemetry.NewInstabilityEvent(s.tick, s.solver.Viscosity(), s.cfg.Fluid.Speed)
	ev.LogEvent()
	s.recordEvent(ev)

	if !s.cfg.Simulation.ResetOnUnstable {
		s.stopped = true
		slog.Warn("simulation stopped", "tick", s.tick)
		return
	}
	s.ResetFluid()
}

// ResetFluid re-initializes every cell to the inflow equilibrium. Barriers are
// kept.
func (s *Simulation) ResetFluid() {
	s.solver.Initialize(s.cfg.Fluid.Speed, s.cfg.Fluid.Density)
	s.shedding.Reset()
	s.collector.RecordReset()
	s.resets++
	s.stopped = false

	ev := telemetry.NewResetEvent(s.tick, s.resets)
	if s.logStats {
		ev.LogEvent()
	}
	s.recordEvent(ev)
}

// recordEvent writes an event to events.csv when output is enabled.
func (s *Simulation) recordEvent(ev telemetry.Event) {
	if s.outputManager == nil {
		return
	}
	if err := s.outputManager.WriteEvent(ev); err != nil {
		slog.Error("failed to write event", "error", err)
	}
}

// Close stops the solver workers and flushes output files.
func (s *Simulation) Close() error {
	s.solver.Close()
	return s.outputManager.Close()
}
