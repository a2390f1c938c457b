package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/windtunnel/config"
	"github.com/pthm-cable/windtunnel/sim"
	"github.com/pthm-cable/windtunnel/telemetry"
)

// Fitness shaping.
const (
	warmupWindows      = 3    // skip first N windows (flow establishing)
	instabilityPenalty = 10.0 // added per reset or stopped run
	errorFitness       = 1e9  // config rejected or solver failed to build
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	viscosities []float64
	baseConfig  *config.Config

	mu         sync.Mutex
	lastLD     float64 // mean lift/drag from most recent Evaluate call
	lastResets int
}

// NewFitnessEvaluator creates a new evaluator. Each evaluation runs one
// simulation per viscosity.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, viscosities []float64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		viscosities: viscosities,
		baseConfig:  baseCfg,
	}
}

// LastResult returns the mean lift/drag and total resets from the most
// recent evaluation.
func (fe *FitnessEvaluator) LastResult() (liftToDrag float64, resets int) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastLD, fe.lastResets
}

// runResult holds the results from a single simulation run.
type runResult struct {
	windowStats []telemetry.WindowStats
	resets      int
	stopped     bool
	err         error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the negative mean lift/drag plus a penalty per instability.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.viscosities))
	var wg sync.WaitGroup

	for i, nu := range fe.viscosities {
		wg.Add(1)
		go func(idx int, nu float64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, nu)
		}(i, nu)
	}
	wg.Wait()

	var totalFitness, totalLD float64
	var resets int
	for _, r := range results {
		ld := meanLiftToDrag(r.windowStats)
		totalFitness += computeFitness(r, ld)
		totalLD += ld
		resets += r.resets
	}

	n := float64(len(results))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	fe.lastLD = totalLD / n
	fe.lastResets = resets
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run at viscosity nu.
func (fe *FitnessEvaluator) runSimulation(x []float64, nu float64) runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Fluid.Viscosity = nu
	// Runs execute concurrently; keep each solver single-threaded.
	cfg.Simulation.Workers = 1
	cfg.Simulation.ResetOnUnstable = false
	if err := cfg.Recompute(); err != nil {
		return runResult{err: err}
	}

	var result runResult
	s, err := sim.NewSimulation(sim.Options{
		Config: cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return runResult{err: err}
	}
	defer s.Close()

	for s.Tick() < fe.maxTicks && !s.Stopped() {
		s.Update()
	}

	result.resets = s.Resets()
	result.stopped = s.Stopped()
	return result
}

// copyConfig creates a copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// meanLiftToDrag averages lift/drag over the stable windows after warmup.
func meanLiftToDrag(windows []telemetry.WindowStats) float64 {
	if len(windows) <= warmupWindows {
		return 0
	}
	vals := make([]float64, 0, len(windows)-warmupWindows)
	for _, w := range windows[warmupWindows:] {
		if !w.Stable || math.IsNaN(w.LiftToDrag) {
			continue
		}
		vals = append(vals, w.LiftToDrag)
	}
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}

// computeFitness calculates the scalar fitness (lower = better).
func computeFitness(r runResult, liftToDrag float64) float64 {
	if r.err != nil {
		return errorFitness
	}
	penalty := float64(r.resets) * instabilityPenalty
	if r.stopped {
		penalty += instabilityPenalty
	}
	return -liftToDrag + penalty
}
