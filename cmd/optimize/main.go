// Package main provides CMA-ES optimization of the airfoil obstacle for
// maximum lift-to-drag ratio.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/windtunnel/config"
	"github.com/pthm-cable/windtunnel/obstacle"
)

// evalRecord is one row of optimize_log.csv.
type evalRecord struct {
	Eval          int     `csv:"eval"`
	Fitness       float64 `csv:"fitness"`
	AngleOfAttack float64 `csv:"angle_of_attack"`
	Camber        float64 `csv:"camber"`
	LiftToDrag    float64 `csv:"lift_to_drag"`
	Resets        int     `csv:"resets"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// parseViscosities parses a comma-separated list, falling back to def when
// the list is empty.
func parseViscosities(list string, def float64) ([]float64, error) {
	if strings.TrimSpace(list) == "" {
		return []float64{def}, nil
	}
	var out []float64
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("viscosity %q: %w", field, err)
		}
		if !(v > 0) {
			return nil, fmt.Errorf("viscosity %v must be positive", v)
		}
		out = append(out, v)
	}
	return out, nil
}

func fatal(msg string, args ...any) {
	slog.Error(msg, args...)
	os.Exit(1)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 20000, "Simulation ticks per run")
	viscosityList := flag.String("viscosities", "", "Comma-separated viscosities to average over (empty = config value)")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	// Per-run simulation logs are info level; only warnings reach stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if *outputDir == "" {
		fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fatal("failed to create output directory", "error", err)
	}

	if err := config.Init(*configPath); err != nil {
		fatal("failed to load config", "error", err)
	}
	baseCfg := config.Cfg()

	viscosities, err := parseViscosities(*viscosityList, baseCfg.Fluid.Viscosity)
	if err != nil {
		fatal("bad --viscosities", "error", err)
	}

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, int32(*maxTicks), viscosities, baseCfg)

	// Start from the configured airfoil when there is one.
	start := params.DefaultVector()
	if baseCfg.Obstacle.Preset == obstacle.PresetAirfoil {
		start = params.Clamp(params.ExtractFromConfig(baseCfg))
	}
	dim := params.Dim()
	initX := params.Normalize(start)

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		fatal("failed to create log file", "error", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		clamped := params.Clamp(params.Denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}

		ld, resets := evaluator.LastResult()
		rec := []evalRecord{{
			Eval:          evalCount,
			Fitness:       fitness,
			AngleOfAttack: clamped[0],
			Camber:        clamped[1],
			LiftToDrag:    ld,
			Resets:        resets,
		}}
		var werr error
		if evalCount == 1 {
			werr = gocsv.Marshal(&rec, logFile)
		} else {
			werr = gocsv.MarshalWithoutHeaders(&rec, logFile)
		}
		if werr != nil {
			slog.Error("failed to write log row", "error", werr)
		}

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

		fmt.Printf("Eval %d/%d: aoa=%.2f camber=%.4f L/D=%.3f (best fitness=%.3f) | elapsed: %s, ETA: %s\n",
			evalCount, *maxEvals, clamped[0], clamped[1], ld, bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Viscosities per evaluation: %v, ticks per run: %d\n", viscosities, *maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		fatal("no evaluations completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.4f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Name, bestParams[i])
	}

	bestCfg := *baseCfg
	params.ApplyToConfig(&bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		slog.Error("failed to write best config", "error", err)
		return
	}
	fmt.Printf("\nBest config saved to: %s\n", configOutPath)
}
