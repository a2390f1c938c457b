package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Grid.Width != 200 || cfg.Grid.Height != 80 {
		t.Errorf("grid = %dx%d, want 200x80", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Derived.Cells != 200*80 {
		t.Errorf("Derived.Cells = %d", cfg.Derived.Cells)
	}
	if want := 1 / (3*0.02 + 0.5); math.Abs(cfg.Derived.Omega-want) > 1e-12 {
		t.Errorf("Derived.Omega = %v, want %v", cfg.Derived.Omega, want)
	}
	if cfg.Obstacle.Preset != "line" {
		t.Errorf("Obstacle.Preset = %q, want line", cfg.Obstacle.Preset)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tunnel.yaml")
	data := []byte("fluid:\n  viscosity: 0.05\ngrid:\n  width: 64\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Fluid.Viscosity != 0.05 {
		t.Errorf("viscosity = %v, want 0.05", cfg.Fluid.Viscosity)
	}
	if cfg.Grid.Width != 64 || cfg.Grid.Height != 80 {
		t.Errorf("grid = %dx%d, want 64x80 (height from defaults)", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Fluid.Speed != 0.1 {
		t.Errorf("speed = %v, want default 0.1", cfg.Fluid.Speed)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("grid: [1, 2"), 0644)
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed yaml")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("fluid:\n  viscosity: 0\n"), 0644)
	if _, err := Load(invalid); !errors.Is(err, ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"tiny grid", func(c *Config) { c.Grid.Width = 2 }},
		{"negative viscosity", func(c *Config) { c.Fluid.Viscosity = -0.1 }},
		{"zero density", func(c *Config) { c.Fluid.Density = 0 }},
		{"no steps", func(c *Config) { c.Simulation.StepsPerFrame = 0 }},
		{"negative workers", func(c *Config) { c.Simulation.Workers = -1 }},
		{"empty window", func(c *Config) { c.Telemetry.StatsWindow = 0 }},
		{"negative radius", func(c *Config) { c.Push.Radius = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults fail validation: %v", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Obstacle.Preset = "airfoil"
	cfg.Obstacle.AngleOfAttack = 7.5
	if err := cfg.Recompute(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Obstacle.Preset != "airfoil" || got.Obstacle.AngleOfAttack != 7.5 {
		t.Errorf("obstacle = %+v", got.Obstacle)
	}
}

func TestInitAndCfg(t *testing.T) {
	MustInit("")
	if Cfg().Grid.Width == 0 {
		t.Error("Cfg() returned empty config")
	}
}
