// Package config provides configuration loading and access for the wind tunnel.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by Validate for every rejected value.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Grid       GridConfig       `yaml:"grid"`
	Fluid      FluidConfig      `yaml:"fluid"`
	Simulation SimulationConfig `yaml:"simulation"`
	Obstacle   ObstacleConfig   `yaml:"obstacle"`
	Push       PushConfig       `yaml:"push"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds lattice dimensions in cells.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// FluidConfig holds the fluid and inflow parameters.
type FluidConfig struct {
	Viscosity float64 `yaml:"viscosity"` // Kinematic viscosity in lattice units
	Speed     float64 `yaml:"speed"`     // Inflow speed along +x
	Density   float64 `yaml:"density"`   // Reference density
}

// SimulationConfig holds stepping and scheduling parameters.
type SimulationConfig struct {
	StepsPerFrame     int  `yaml:"steps_per_frame"`
	Workers           int  `yaml:"workers"`            // 0 = GOMAXPROCS
	ParallelThreshold int  `yaml:"parallel_threshold"` // Minimum cells for a parallel pass (0 = default)
	ResetOnUnstable   bool `yaml:"reset_on_unstable"`
}

// ObstacleConfig describes the barrier placed at startup.
type ObstacleConfig struct {
	Preset        string  `yaml:"preset"`          // none, circle, square, line, airfoil
	CenterX       float64 `yaml:"center_x"`        // Fraction of grid width
	CenterY       float64 `yaml:"center_y"`        // Fraction of grid height
	Size          int     `yaml:"size"`            // Radius, half-side or half-length in cells
	Chord         int     `yaml:"chord"`           // Airfoil chord in cells
	AngleOfAttack float64 `yaml:"angle_of_attack"` // Degrees, positive nose up
	Camber        float64 `yaml:"camber"`          // NACA max camber as a fraction of chord
	Thickness     float64 `yaml:"thickness"`       // NACA max thickness as a fraction of chord
	MaskFile      string  `yaml:"mask_file"`       // RLE barrier mask, overrides Preset when set
}

// PushConfig holds drag-to-push parameters.
type PushConfig struct {
	Radius   int     `yaml:"radius"`
	Margin   int     `yaml:"margin"`
	MaxSpeed float64 `yaml:"max_speed"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"`          // Ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"` // Ticks in the perf rolling window
	SnapshotInterval    int `yaml:"snapshot_interval"`     // Windows between field snapshots (0 = off)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Omega float64 // BGK relaxation rate 1/(3*viscosity + 0.5)
	Cells int     // Grid.Width * Grid.Height
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects values the solver cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Grid.Width < 3 || c.Grid.Height < 3:
		return fmt.Errorf("%w: grid %dx%d smaller than 3x3", ErrInvalid, c.Grid.Width, c.Grid.Height)
	case !(c.Fluid.Viscosity > 0):
		return fmt.Errorf("%w: fluid.viscosity %v must be positive", ErrInvalid, c.Fluid.Viscosity)
	case !(c.Fluid.Density > 0):
		return fmt.Errorf("%w: fluid.density %v must be positive", ErrInvalid, c.Fluid.Density)
	case c.Simulation.StepsPerFrame < 1:
		return fmt.Errorf("%w: simulation.steps_per_frame %d must be at least 1", ErrInvalid, c.Simulation.StepsPerFrame)
	case c.Simulation.Workers < 0:
		return fmt.Errorf("%w: simulation.workers %d is negative", ErrInvalid, c.Simulation.Workers)
	case c.Telemetry.StatsWindow < 1:
		return fmt.Errorf("%w: telemetry.stats_window %d must be at least 1", ErrInvalid, c.Telemetry.StatsWindow)
	case c.Push.Radius < 0 || c.Push.Margin < 0:
		return fmt.Errorf("%w: push radius and margin must be non-negative", ErrInvalid)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Omega = 1 / (3*c.Fluid.Viscosity + 0.5)
	c.Derived.Cells = c.Grid.Width * c.Grid.Height
	if c.Telemetry.PerfCollectorWindow <= 0 {
		c.Telemetry.PerfCollectorWindow = c.Telemetry.StatsWindow
	}
}

// Recompute refreshes derived values after fields were changed in code.
func (c *Config) Recompute() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
