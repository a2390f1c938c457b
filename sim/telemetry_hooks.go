package sim

import (
	"log/slog"

	"github.com/pthm-cable/windtunnel/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles events.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	s.solver.ComputeDerived()
	fs := telemetry.ComputeFieldStats(s.solver.Lattice())

	stats := s.collector.Flush(s.tick, fs, s.shedding.Period(), s.solver.IsStable())
	perfStats := s.perfCollector.Stats()
	s.windows++

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.outputManager != nil {
		if err := s.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, ev := range s.eventDetector.Check(stats) {
		if s.logStats {
			ev.LogEvent()
		}
		s.recordEvent(ev)
		if s.snapshotDir != "" {
			s.saveSnapshot(&ev)
		}
	}

	if every := s.cfg.Telemetry.SnapshotInterval; s.snapshotDir != "" && every > 0 && s.windows%every == 0 {
		s.saveSnapshot(nil)
	}
}

// saveSnapshot writes the current fields to the snapshot directory.
func (s *Simulation) saveSnapshot(ev *telemetry.Event) {
	snapshot := telemetry.NewFieldSnapshot(s.solver, s.tick)
	snapshot.Event = ev

	path, err := telemetry.SaveSnapshot(snapshot, s.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", s.tick)
}
