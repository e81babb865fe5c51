package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/game"
	"github.com/pthm-cable/warren/scenario"
	"github.com/pthm-cable/warren/telemetry"
	"github.com/pthm-cable/warren/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	scenarioPath := flag.String("scenario", "", "Scenario file to load (empty = random population from config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	headless := flag.Bool("headless", false, "Run without graphics")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	tickInterval := flag.Duration("tick-interval", 0, "Wall time between headless ticks (0 = as fast as possible)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and bookmark snapshots")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	logFormat := flag.String("log-format", "json", "Log format: json or text")
	exportPath := flag.String("export", "", "Write the final grid occupancy as a scenario file on exit")

	flag.Parse()

	// Set up slog
	var handler slog.Handler
	switch *logFormat {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, nil)
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, nil)
	default:
		fmt.Fprintf(os.Stderr, "unknown -log-format %q\n", *logFormat)
		return 2
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(rngSeed))

	var sc *scenario.Scenario
	if *scenarioPath != "" {
		var err error
		if sc, err = scenario.ParseFile(*scenarioPath); err != nil {
			logger.Error("failed to load scenario", "error", err)
			return 1
		}
	} else {
		sc = scenario.Generate(rng, cfg.Grid.Width, cfg.Grid.Height, cfg.Initial)
	}

	var output *telemetry.OutputManager
	if *outputDir != "" {
		var err error
		if output, err = telemetry.NewOutputManager(*outputDir); err != nil {
			logger.Error("failed to create output directory", "error", err)
			return 1
		}
		defer output.Close()
		if err := output.WriteConfig(cfg); err != nil {
			logger.Error("failed to write config", "error", err)
		}
	}

	var (
		engine *game.Engine
		viewer *ui.Viewer
	)
	opts := game.Options{
		Logger:   logger,
		Rand:     rng,
		Output:   output,
		LogStats: *logStats,
		OnStats: func(s telemetry.WindowStats) {
			if viewer != nil {
				viewer.RecordStats(s)
			}
		},
		OnBookmark: func(b telemetry.Bookmark) {
			if output == nil {
				return
			}
			path, err := output.SnapshotPath(b)
			if err == nil {
				err = scenario.WriteFile(path, engine)
			}
			if err != nil {
				logger.Error("failed to write bookmark snapshot", "bookmark", b.Type, "error", err)
			}
		},
	}
	engine = sc.Engine(cfg, opts)

	logger.Info("starting simulation",
		"seed", rngSeed,
		"width", sc.Width,
		"height", sc.Height,
		"headless", *headless,
		"max_ticks", *maxTicks,
	)
	engine.LogWorldState()

	if *headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		runHeadless(ctx, engine, int32(*maxTicks), *tickInterval)
	} else {
		rl.SetConfigFlags(rl.FlagWindowResizable)
		rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Warren")
		rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

		viewer = ui.NewViewer(engine, cfg)
		for !rl.WindowShouldClose() {
			viewer.Update(rl.GetFrameTime())
			viewer.Draw()

			if *maxTicks > 0 && engine.TickCount() >= int32(*maxTicks) {
				break
			}
		}
		rl.CloseWindow()
	}

	if err := engine.Close(); err != nil {
		logger.Error("failed to close engine", "error", err)
	}
	engine.LogWorldState()

	if *exportPath != "" {
		if err := scenario.WriteFile(*exportPath, engine); err != nil {
			logger.Error("failed to export scenario", "error", err)
			return 1
		}
		logger.Info("exported scenario", "path", *exportPath)
	}
	return 0
}

// runHeadless ticks until maxTicks (0 = unlimited) or cancellation.
// Cancellation is only observed between ticks.
func runHeadless(ctx context.Context, engine *game.Engine, maxTicks int32, interval time.Duration) {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for maxTicks <= 0 || engine.TickCount() < maxTicks {
		if tick != nil {
			select {
			case <-ctx.Done():
				slog.Info("interrupted", "tick", engine.TickCount())
				return
			case <-tick:
			}
		} else if ctx.Err() != nil {
			slog.Info("interrupted", "tick", engine.TickCount())
			return
		}

		engine.Update()
	}
	slog.Info("max ticks reached", "tick", engine.TickCount())
}
