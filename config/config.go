// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Grid      GridConfig      `yaml:"grid"`
	Initial   InitialConfig   `yaml:"initial"`
	Rabbit    AnimalConfig    `yaml:"rabbit"`
	Fox       AnimalConfig    `yaml:"fox"`
	Grass     GrassConfig     `yaml:"grass"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Bookmarks BookmarksConfig `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width          int `yaml:"width"`
	Height         int `yaml:"height"`
	TargetFPS      int `yaml:"target_fps"`
	CellSize       int `yaml:"cell_size"`        // Pixels per grid cell (0 = fit to window)
	TicksPerSecond int `yaml:"ticks_per_second"` // Simulation speed at 1x
}

// GridConfig holds the default grid dimensions used when no scenario is given.
type GridConfig struct {
	Width        int `yaml:"width"`
	Height       int `yaml:"height"`
	CellCapacity int `yaml:"cell_capacity"` // Max occupants per cell
}

// InitialConfig holds the population scattered over the grid when no scenario file is given.
type InitialConfig struct {
	Grass   int `yaml:"grass"`
	Rabbits int `yaml:"rabbits"`
	Foxes   int `yaml:"foxes"`
}

// AnimalConfig holds the pinned constants of an animal species.
// Values differed between historical revisions, so all of them are configuration.
type AnimalConfig struct {
	MaxHp          int `yaml:"max_hp"`
	Nutrition      int `yaml:"nutrition"`      // Hp granted to whoever eats this animal
	Metabolism     int `yaml:"metabolism"`     // Hp lost per tick
	SenseRadius    int `yaml:"sense_radius"`   // Neighbourhood query radius
	MatingCooldown int `yaml:"mating_cooldown"` // Ticks after reproducing before pairing again
	Invincibility  int `yaml:"invincibility"`  // Ticks a newborn cannot be preyed upon
}

// GrassConfig holds grass ladder and spreading parameters.
type GrassConfig struct {
	MaxOffspring int `yaml:"max_offspring"` // Lifetime offspring limit per instance
	GrowthRate   int `yaml:"growth_rate"`   // Ladder levels gained per tick
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Ticks per stats window
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	RabbitCrash     RabbitCrashConfig     `yaml:"rabbit_crash"`
	FoxRecovery     FoxRecoveryConfig     `yaml:"fox_recovery"`
	StableEcosystem StableEcosystemConfig `yaml:"stable_ecosystem"`
}

// RabbitCrashConfig holds rabbit crash detection parameters.
type RabbitCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// FoxRecoveryConfig holds fox recovery detection parameters.
type FoxRecoveryConfig struct {
	MinPopulation      int `yaml:"min_population"`
	RecoveryMultiplier int `yaml:"recovery_multiplier"`
	MinFinal           int `yaml:"min_final"`
}

// StableEcosystemConfig holds stable ecosystem detection parameters.
type StableEcosystemConfig struct {
	MinRabbits    int     `yaml:"min_rabbits"`
	MinFoxes      int     `yaml:"min_foxes"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	CellCount   int     // Grid.Width * Grid.Height
	TickSeconds float64 // 1 / Screen.TicksPerSecond
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
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
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

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("grid: dimensions must be positive, got %dx%d", c.Grid.Width, c.Grid.Height)
	}
	if c.Grid.CellCapacity <= 0 {
		return fmt.Errorf("grid: cell_capacity must be positive, got %d", c.Grid.CellCapacity)
	}
	for name, a := range map[string]AnimalConfig{"rabbit": c.Rabbit, "fox": c.Fox} {
		if a.MaxHp <= 0 {
			return fmt.Errorf("%s: max_hp must be positive, got %d", name, a.MaxHp)
		}
		if a.SenseRadius < 0 || a.MatingCooldown < 0 || a.Invincibility < 0 || a.Metabolism < 0 {
			return fmt.Errorf("%s: counters must not be negative", name)
		}
	}
	if c.Initial.Grass < 0 || c.Initial.Rabbits < 0 || c.Initial.Foxes < 0 {
		return fmt.Errorf("initial: populations must not be negative")
	}
	if c.Grass.MaxOffspring < 0 || c.Grass.GrowthRate < 0 {
		return fmt.Errorf("grass: counters must not be negative")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.CellCount = c.Grid.Width * c.Grid.Height

	tps := c.Screen.TicksPerSecond
	if tps <= 0 {
		tps = 10
	}
	c.Derived.TickSeconds = 1.0 / float64(tps)

	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 1
	}
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
