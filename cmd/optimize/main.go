// Command optimize searches for species constants that keep rabbits and foxes
// coexisting, using CMA-ES over headless warren runs.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/warren/config"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 5000, "Tick cap per run")
	seeds := flag.Int("seeds", 3, "Runs per evaluation, each with its own seed")
	seedBase := flag.Int64("seed-base", 42, "First evaluation seed; the rest are spaced by 1000")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = 4+3ln(dim))")
	stepSize := flag.Float64("step", 0.3, "Initial CMA-ES step size in normalized space")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = *seedBase + int64(i)*1000
	}
	evaluator := NewFitnessEvaluator(params, int32(*maxTicks), evalSeeds, baseCfg)

	progress, err := newProgressLog(filepath.Join(*outputDir, "optimize_log.csv"), params, *maxEvals)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer progress.Close()

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3*math.Log(float64(params.Dim())))
	}

	// CMA-ES works in [0,1] per parameter; the evaluator sees clamped integers.
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(values)
			progress.Record(values, fitness, evaluator.LastQuality())
			return fitness
		},
	}
	method := &optimize.CmaEsChol{InitStepSize: *stepSize, Population: popSize}
	settings := &optimize.Settings{FuncEvaluations: *maxEvals}
	start := params.Normalize(params.Clamp(params.ExtractFromConfig(baseCfg)))

	fmt.Printf("CMA-ES over %d parameters, population=%d, max_evals=%d, seeds=%d, max_ticks=%d\n",
		params.Dim(), popSize, *maxEvals, *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, start, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best := progress.best
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		log.Fatal("no evaluation completed")
	}

	fmt.Printf("\nDone: %d evaluations in %s, best fitness %.0f\n",
		progress.evals, formatDuration(time.Since(progress.started)), progress.bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %-22s %3.0f  (%s)\n", spec.Name, best[i], spec.Path)
	}

	bestCfg := baseCfg.Clone()
	params.ApplyToConfig(bestCfg, best)
	configOut := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOut); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("Best config saved to: %s\n", configOut)
	}

	if windows := evaluator.BestWindows(); len(windows) > 0 {
		runOut := filepath.Join(*outputDir, "best_run.csv")
		data, err := gocsv.MarshalString(windows)
		if err == nil {
			err = os.WriteFile(runOut, []byte(data), 0644)
		}
		if err != nil {
			log.Printf("failed to write best run: %v", err)
		} else {
			fmt.Printf("Best run telemetry saved to: %s\n", runOut)
		}
	}
}

// progressLog appends one CSV row per evaluation and prints a progress line.
// The columns depend on the parameter set, so rows are written with encoding/csv.
type progressLog struct {
	file   *os.File
	w      *csv.Writer
	params *ParamVector

	maxEvals    int
	evals       int
	started     time.Time
	bestFitness float64
	best        []float64
}

func newProgressLog(path string, params *ParamVector, maxEvals int) (*progressLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	pl := &progressLog{
		file:        f,
		w:           csv.NewWriter(f),
		params:      params,
		maxEvals:    maxEvals,
		started:     time.Now(),
		bestFitness: math.Inf(1),
	}

	header := []string{"eval", "fitness", "survival_ticks", "quality"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := pl.w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	return pl, nil
}

// Record logs one evaluation of the clamped values.
func (pl *progressLog) Record(values []float64, fitness, quality float64) {
	pl.evals++
	if fitness < pl.bestFitness {
		pl.bestFitness = fitness
		pl.best = append(pl.best[:0], values...)
	}

	// fitness = -(survival * (1 + 0.2*quality))
	survival := -fitness / (1 + 0.2*quality)

	row := []string{
		strconv.Itoa(pl.evals),
		strconv.FormatFloat(fitness, 'f', 2, 64),
		strconv.FormatFloat(survival, 'f', 0, 64),
		strconv.FormatFloat(quality, 'f', 4, 64),
	}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 0, 64))
	}
	if err := pl.w.Write(row); err != nil {
		log.Printf("failed to write log row: %v", err)
	}
	pl.w.Flush()

	elapsed := time.Since(pl.started)
	remaining := time.Duration(pl.maxEvals-pl.evals) * (elapsed / time.Duration(pl.evals))
	fmt.Printf("Eval %d/%d: survived=%.0f ticks quality=%.2f (best=%.0f) | elapsed: %s, ETA: %s\n",
		pl.evals, pl.maxEvals, survival, quality, pl.bestFitness,
		formatDuration(elapsed), formatDuration(remaining))
}

// Close flushes and closes the log file.
func (pl *progressLog) Close() error {
	pl.w.Flush()
	if err := pl.w.Error(); err != nil {
		pl.file.Close()
		return err
	}
	return pl.file.Close()
}

// formatDuration formats d as 1h02m03s, or 2m03s under an hour.
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
