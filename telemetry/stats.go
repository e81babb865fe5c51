package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population at window end
	Grass         int `csv:"grass"`
	Rabbits       int `csv:"rabbits"`
	Foxes         int `csv:"foxes"`
	OccupiedCells int `csv:"occupied_cells"`

	// Events during window
	GrassBirths  int `csv:"grass_births"`
	RabbitBirths int `csv:"rabbit_births"`
	FoxBirths    int `csv:"fox_births"`
	RabbitDeaths int `csv:"rabbit_deaths"`
	FoxDeaths    int `csv:"fox_deaths"`

	// Feeding and mating
	Grazed       int `csv:"grazed"`
	RabbitsEaten int `csv:"rabbits_eaten"`
	RabbitPairs  int `csv:"rabbit_pairs"`
	FoxPairs     int `csv:"fox_pairs"`
	PairsBroken  int `csv:"pairs_broken"`

	// Recoverable failures
	FailedMoves  int `csv:"failed_moves"`
	FailedSpawns int `csv:"failed_spawns"`
	EntityErrors int `csv:"entity_errors"`

	// Hp distribution (sampled at window end)
	RabbitHpMean float64 `csv:"rabbit_hp_mean"`
	RabbitHpStd  float64 `csv:"rabbit_hp_std"`
	RabbitHpP10  float64 `csv:"rabbit_hp_p10"`
	RabbitHpP50  float64 `csv:"rabbit_hp_p50"`
	RabbitHpP90  float64 `csv:"rabbit_hp_p90"`

	FoxHpMean float64 `csv:"fox_hp_mean"`
	FoxHpStd  float64 `csv:"fox_hp_std"`
	FoxHpP10  float64 `csv:"fox_hp_p10"`
	FoxHpP50  float64 `csv:"fox_hp_p50"`
	FoxHpP90  float64 `csv:"fox_hp_p90"`

	// Mean age at death of animals that died during the window
	RabbitLifespanMean float64 `csv:"rabbit_lifespan_mean"`
	FoxLifespanMean    float64 `csv:"fox_lifespan_mean"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// HpStats summarises an Hp distribution.
type HpStats struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeHpStats calculates mean, sample standard deviation and percentiles.
func ComputeHpStats(values []float64) HpStats {
	n := len(values)
	if n == 0 {
		return HpStats{}
	}

	var s HpStats
	if n == 1 {
		s.Mean = values[0]
	} else {
		s.Mean, s.Std = stat.MeanStdDev(values, nil)
	}

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	s.P10 = Percentile(sorted, 0.10)
	s.P50 = Percentile(sorted, 0.50)
	s.P90 = Percentile(sorted, 0.90)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("grass", s.Grass),
		slog.Int("rabbits", s.Rabbits),
		slog.Int("foxes", s.Foxes),
		slog.Int("occupied_cells", s.OccupiedCells),
		slog.Int("rabbit_births", s.RabbitBirths),
		slog.Int("fox_births", s.FoxBirths),
		slog.Int("rabbit_deaths", s.RabbitDeaths),
		slog.Int("fox_deaths", s.FoxDeaths),
		slog.Int("grazed", s.Grazed),
		slog.Int("rabbits_eaten", s.RabbitsEaten),
		slog.Int("failed_moves", s.FailedMoves),
		slog.Int("entity_errors", s.EntityErrors),
		slog.Float64("rabbit_hp_mean", s.RabbitHpMean),
		slog.Float64("fox_hp_mean", s.FoxHpMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("stats",
		"window_end", s.WindowEndTick,
		"grass", s.Grass,
		"rabbits", s.Rabbits,
		"foxes", s.Foxes,
		"occupied_cells", s.OccupiedCells,
		"grass_births", s.GrassBirths,
		"rabbit_births", s.RabbitBirths,
		"fox_births", s.FoxBirths,
		"rabbit_deaths", s.RabbitDeaths,
		"fox_deaths", s.FoxDeaths,
		"grazed", s.Grazed,
		"rabbits_eaten", s.RabbitsEaten,
		"rabbit_pairs", s.RabbitPairs,
		"fox_pairs", s.FoxPairs,
		"pairs_broken", s.PairsBroken,
		"failed_moves", s.FailedMoves,
		"failed_spawns", s.FailedSpawns,
		"entity_errors", s.EntityErrors,
		"rabbit_hp_mean", s.RabbitHpMean,
		"rabbit_hp_p50", s.RabbitHpP50,
		"fox_hp_mean", s.FoxHpMean,
		"fox_hp_p50", s.FoxHpP50,
		"rabbit_lifespan_mean", s.RabbitLifespanMean,
		"fox_lifespan_mean", s.FoxLifespanMean,
	)
}
