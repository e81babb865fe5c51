// Package game runs the tick-based Grass/Rabbit/Fox simulation.
package game

import (
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/systems"
	"github.com/pthm-cable/warren/telemetry"
)

// Options configures an Engine. The zero value is usable.
type Options struct {
	// Logger receives info-level grid failures and error-level entity failures.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// Rand drives every random tie-break. If nil, one is seeded from Seed.
	Rand *rand.Rand
	Seed int64

	// Grid dimensions. Zero values fall back to the config's grid section.
	Width, Height int

	// Species overrides the behavior table. Defaults to NewSpeciesRegistry().
	Species *systems.SpeciesRegistry

	// Output receives telemetry CSV rows. Nil disables file output.
	Output *telemetry.OutputManager
	// LogStats logs every stats window and bookmark.
	LogStats bool
	// OnStats is called with every flushed stats window.
	OnStats func(telemetry.WindowStats)
	// OnBookmark is called for every detected bookmark.
	OnBookmark func(telemetry.Bookmark)
}

// Engine owns the entity arena and the grid and advances the simulation one tick at a time.
// It is not safe for concurrent use; independent engines share nothing.
type Engine struct {
	cfg    *config.Config
	logger *slog.Logger
	rng    *rand.Rand
	world  *ecs.World

	// Entity mappers, one archetype per component set
	animalMapper *ecs.Map3[components.Position, components.Sim, components.Lifecycle]
	grassMapper  *ecs.Map3[components.Position, components.Sim, components.Grass]
	animalFilter *ecs.Filter2[components.Sim, components.Lifecycle]

	env     *systems.Env
	grid    *systems.Grid
	species *systems.SpeciesRegistry

	// State
	tick       int32
	population telemetry.Population
	closed     bool
	snapshot   []ecs.Entity // reused per phase

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	lifetimeTracker  *telemetry.LifetimeTracker
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
	bookmarkCallback func(telemetry.Bookmark)
}

// New creates an engine over an empty grid and inserts the given sims.
// Sims that cannot be placed are logged and skipped.
func New(cfg *config.Config, opts Options, sims ...components.Spawn) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(opts.Seed))
	}
	species := opts.Species
	if species == nil {
		species = systems.NewSpeciesRegistry()
	}
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = cfg.Grid.Width, cfg.Grid.Height
	}

	world := ecs.NewWorld()
	env := systems.NewEnv(world, nil, rng, cfg)
	grid := systems.NewGrid(width, height, cfg.Grid.CellCapacity, env.Positions, env.Sims)
	env.Grid = grid

	e := &Engine{
		cfg:    cfg,
		logger: logger,
		rng:    rng,
		world:  world,

		animalMapper: ecs.NewMap3[components.Position, components.Sim, components.Lifecycle](world),
		grassMapper:  ecs.NewMap3[components.Position, components.Sim, components.Grass](world),
		animalFilter: ecs.NewFilter2[components.Sim, components.Lifecycle](world),

		env:     env,
		grid:    grid,
		species: species,

		collector:        telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		outputManager:    opts.Output,
		logStats:         opts.LogStats,
		statsCallback:    opts.OnStats,
		bookmarkCallback: opts.OnBookmark,
	}
	env.OnEvent = e.onBehaviorEvent

	e.AddSims(sims...)
	return e
}

// Config returns the configuration the engine runs with.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Grid returns a read-only view of the grid.
func (e *Engine) Grid() systems.GridView {
	return e.grid
}

// Species returns the behavior table.
func (e *Engine) Species() *systems.SpeciesRegistry {
	return e.species
}

// TickCount returns the number of completed ticks.
func (e *Engine) TickCount() int32 {
	return e.tick
}

// PerfStats returns timing statistics over the recent ticks.
func (e *Engine) PerfStats() telemetry.PerfStats {
	return e.perfCollector.Stats()
}

// RecordFrame marks a rendered frame for FPS tracking in graphical runs.
func (e *Engine) RecordFrame() {
	e.perfCollector.RecordFrame()
}

// Census summarises the current population.
type Census struct {
	Tick int32
	telemetry.Population
	Occupied int // Non-empty cells
}

// Census returns the current population counts.
func (e *Engine) Census() Census {
	return Census{
		Tick:       e.tick,
		Population: e.population,
		Occupied:   e.grid.Occupied(),
	}
}

// Close flushes the final partial telemetry window. Further ticks are ignored.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.flushTelemetry(true)
	return nil
}
