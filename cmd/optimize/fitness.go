package main

import (
	"log/slog"
	"math"
	"math/rand"
	"os"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/game"
	"github.com/pthm-cable/warren/scenario"
	"github.com/pthm-cable/warren/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config
	logger     *slog.Logger

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestWindows []telemetry.WindowStats
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		logger:      slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
		bestFitness: math.Inf(1),
	}
}

// BestWindows returns the stats windows of the best seed of the best evaluation.
func (fe *FitnessEvaluator) BestWindows() []telemetry.WindowStats {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestWindows
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Minimum viable population: if either animal species stays below this for
// extinctionGraceTicks consecutive ticks, it counts as functionally extinct.
const (
	minViablePop         = 2
	extinctionGraceTicks = 100
	warmupTicks          = 20
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks before functional extinction (or maxTicks if survived)
	windowStats   []telemetry.WindowStats // collected via OnStats each window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	windows []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative survival ticks: longer survival = lower (better) fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Engines share nothing, so seeds run in parallel.
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			results[idx] = seedResult{
				fitness: fe.computeFitness(result),
				quality: computeQuality(result.windowStats),
				windows: result.windowStats,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedWindows []telemetry.WindowStats

	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedWindows = r.windows
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestWindows = bestSeedWindows
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run.
// Runs until functional extinction or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}

	rng := rand.New(rand.NewSource(seed))
	sc := scenario.Generate(rng, cfg.Grid.Width, cfg.Grid.Height, cfg.Initial)
	engine := sc.Engine(cfg, game.Options{
		Logger: fe.logger,
		Rand:   rng,
		OnStats: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	defer engine.Close()

	var rabbitsBelow, foxesBelow int32

	for engine.TickCount() < fe.maxTicks {
		engine.Update()

		tick := engine.TickCount()
		if tick < warmupTicks {
			continue
		}

		c := engine.Census()

		// Hard extinction: either species completely gone
		if c.Rabbits == 0 || c.Foxes == 0 {
			result.survivalTicks = tick
			return result
		}

		// Functional extinction: species below minimum viable population too long
		rabbitsBelow = countBelow(rabbitsBelow, c.Rabbits)
		foxesBelow = countBelow(foxesBelow, c.Foxes)
		if rabbitsBelow >= extinctionGraceTicks || foxesBelow >= extinctionGraceTicks {
			result.survivalTicks = tick
			return result
		}
	}

	// Survived the full run
	result.survivalTicks = fe.maxTicks
	return result
}

func countBelow(ticks int32, pop int) int32 {
	if pop < minViablePop {
		return ticks + 1
	}
	return 0
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	survival := float64(r.survivalTicks)
	quality := computeQuality(r.windowStats)
	return -(survival * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.30
	qualityWeightStability = 0.25
	qualityWeightHp        = 0.25
	qualityWeightHunting   = 0.20

	qualityWarmupWindows = 2 // skip first N windows (warmup)
	qualityMinPop        = 3 // exclude windows where either species < this
	targetRatio          = 5 // rabbits per fox
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var ratioSum, hpSum, huntSum float64
	var ratioCount, huntCount int

	rabbitCounts := make([]float64, 0, len(valid))
	foxCounts := make([]float64, 0, len(valid))

	for _, w := range valid {
		if w.Rabbits < qualityMinPop || w.Foxes < qualityMinPop {
			continue
		}

		rabbitCounts = append(rabbitCounts, float64(w.Rabbits))
		foxCounts = append(foxCounts, float64(w.Foxes))

		// Population ratio score
		logErr := math.Log(float64(w.Rabbits) / float64(w.Foxes) / targetRatio)
		ratioSum += math.Exp(-logErr * logErr)
		ratioCount++

		// Hp health: median Hp neither starving nor saturated
		hpSum += (bell(w.RabbitHpP50/w.RabbitHpP90, 0.6, 0.3) + bell(w.FoxHpP50/w.FoxHpP90, 0.6, 0.3)) / 2

		// Hunting activity
		if w.RabbitsEaten > 0 {
			perFox := float64(w.RabbitsEaten) / float64(w.Foxes)
			huntSum += 1.0 - math.Exp(-perFox/3.0)
			huntCount++
		}
	}

	if ratioCount == 0 {
		return 0
	}

	ratioScore := ratioSum / float64(ratioCount)
	hpScore := hpSum / float64(ratioCount)

	stabilityScore := 0.0
	if len(rabbitCounts) >= 2 {
		cvRabbits := cv(rabbitCounts)
		cvFoxes := cv(foxCounts)
		stabilityScore = math.Exp(-(cvRabbits*cvRabbits + cvFoxes*cvFoxes))
	}

	huntScore := 0.0
	if huntCount > 0 {
		huntScore = huntSum / float64(huntCount)
	}

	quality := qualityWeightRatio*ratioScore +
		qualityWeightStability*stabilityScore +
		qualityWeightHp*hpScore +
		qualityWeightHunting*huntScore

	return clamp01(quality)
}

// bell scores x by closeness to center; NaN scores zero.
func bell(x, center, width float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return math.Exp(-math.Pow((x-center)/width, 2))
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
