package main

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/windtunnel/config"
	"github.com/pthm-cable/windtunnel/obstacle"
	"github.com/pthm-cable/windtunnel/telemetry"
)

func TestMeanLiftToDrag(t *testing.T) {
	windows := []telemetry.WindowStats{
		{LiftToDrag: 100, Stable: true}, // warmup
		{LiftToDrag: 100, Stable: true},
		{LiftToDrag: 100, Stable: true},
		{LiftToDrag: 1, Stable: true},
		{LiftToDrag: 50, Stable: false},
		{LiftToDrag: 3, Stable: true},
	}
	if got := meanLiftToDrag(windows); got != 2 {
		t.Errorf("meanLiftToDrag = %v, want 2", got)
	}
	if got := meanLiftToDrag(windows[:3]); got != 0 {
		t.Errorf("warmup only = %v, want 0", got)
	}
}

func TestComputeFitness(t *testing.T) {
	tests := []struct {
		name string
		r    runResult
		ld   float64
		want float64
	}{
		{"clean run", runResult{}, 1.5, -1.5},
		{"one reset", runResult{resets: 1}, 1.5, -1.5 + instabilityPenalty},
		{"stopped", runResult{stopped: true}, 0, instabilityPenalty},
		{"error", runResult{err: errors.New("boom")}, 3, errorFitness},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeFitness(tt.r, tt.ld); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("computeFitness = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseViscosities(t *testing.T) {
	got, err := parseViscosities("", 0.02)
	if err != nil || len(got) != 1 || got[0] != 0.02 {
		t.Errorf("empty list = %v, %v", got, err)
	}
	got, err = parseViscosities("0.01, 0.03", 0.02)
	if err != nil || len(got) != 2 || got[0] != 0.01 || got[1] != 0.03 {
		t.Errorf("list = %v, %v", got, err)
	}
	for _, bad := range []string{"x", "0.01,-1", "0"} {
		if _, err := parseViscosities(bad, 0.02); err == nil {
			t.Errorf("parseViscosities(%q) should fail", bad)
		}
	}
}

func TestParamVector(t *testing.T) {
	pv := NewParamVector()
	x := pv.Normalize(pv.DefaultVector())
	raw := pv.Denormalize(x)
	for i, spec := range pv.Specs {
		if math.Abs(raw[i]-spec.Default) > 1e-12 {
			t.Errorf("%s: %v after normalize round trip, want %v", spec.Name, raw[i], spec.Default)
		}
	}

	cfg := config.Default()
	pv.ApplyToConfig(cfg, []float64{40, -1})
	if cfg.Obstacle.Preset != obstacle.PresetAirfoil {
		t.Errorf("Preset = %q, want airfoil", cfg.Obstacle.Preset)
	}
	got := pv.ExtractFromConfig(cfg)
	if got[0] != 20 || got[1] != 0 {
		t.Errorf("applied values = %v, want clamped [20 0]", got)
	}
}

func TestEvaluateShortRun(t *testing.T) {
	cfg := config.Default()
	cfg.Grid.Width = 80
	cfg.Grid.Height = 32
	cfg.Obstacle.Chord = 16
	cfg.Simulation.StepsPerFrame = 10
	cfg.Telemetry.StatsWindow = 20
	if err := cfg.Recompute(); err != nil {
		t.Fatal(err)
	}

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 200, []float64{0.05, 0.08}, cfg)
	fitness := fe.Evaluate(pv.DefaultVector())
	ld, resets := fe.LastResult()

	if math.IsNaN(fitness) || fitness >= errorFitness {
		t.Fatalf("fitness = %v", fitness)
	}
	if resets != 0 {
		t.Errorf("resets = %d, want 0 for a stable run", resets)
	}
	if math.Abs(fitness+ld) > 1e-12 {
		t.Errorf("fitness %v should be -L/D (%v) for a clean run", fitness, ld)
	}
}
