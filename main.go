package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/windtunnel/config"
	"github.com/pthm-cable/windtunnel/obstacle"
	"github.com/pthm-cable/windtunnel/sim"
	"github.com/pthm-cable/windtunnel/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for field snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	preset := flag.String("preset", "", "Obstacle preset: none, circle, square, line, airfoil (empty = use config)")
	mask := flag.String("mask", "", "RLE barrier mask file, overrides the preset")
	speed := flag.Float64("speed", 0, "Inflow speed (0 = use config)")
	viscosity := flag.Float64("viscosity", 0, "Kinematic viscosity (0 = use config)")
	saveMask := flag.String("save-mask", "", "Write the placed obstacle as an RLE mask file and exit")
	restore := flag.String("restore", "", "Field snapshot to start from")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// CLI overrides
	if *preset != "" {
		cfg.Obstacle.Preset = *preset
	}
	if *mask != "" {
		cfg.Obstacle.MaskFile = *mask
	}
	if *speed > 0 {
		cfg.Fluid.Speed = *speed
	}
	if *viscosity > 0 {
		cfg.Fluid.Viscosity = *viscosity
	}
	if err := cfg.Recompute(); err != nil {
		slog.Error("invalid overrides", "error", err)
		os.Exit(1)
	}

	s, err := sim.NewSimulation(sim.Options{
		Config:      cfg,
		LogStats:    *logStats,
		OutputDir:   *outputDir,
		SnapshotDir: *snapshotDir,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := s.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	if *saveMask != "" {
		if err := obstacle.SaveMaskFile(*saveMask, s.Solver().Lattice()); err != nil {
			slog.Error("failed to save mask", "error", err)
			return
		}
		slog.Info("mask saved", "path", *saveMask, "barriers", s.Solver().Lattice().BarrierCount())
		return
	}

	if *restore != "" {
		snap, err := telemetry.LoadSnapshot(*restore)
		if err != nil {
			slog.Error("failed to load snapshot", "error", err)
			return
		}
		if err := snap.Restore(s.Solver()); err != nil {
			slog.Error("failed to restore snapshot", "error", err)
			return
		}
		slog.Info("snapshot restored", "path", *restore, "tick", snap.Tick)
	}

	slog.Info("starting simulation",
		"preset", cfg.Obstacle.Preset,
		"mask_file", cfg.Obstacle.MaskFile,
		"max_ticks", *maxTicks,
		"steps_per_frame", cfg.Simulation.StepsPerFrame,
	)

	for {
		s.Update()

		if s.Stopped() {
			slog.Warn("simulation unstable, stopping", "tick", s.Tick())
			return
		}
		if *maxTicks > 0 && int(s.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", s.Tick(), "resets", s.Resets())
			return
		}
	}
}
