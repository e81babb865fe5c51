package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/warren/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction      BookmarkType = "extinction"
	BookmarkRabbitCrash     BookmarkType = "rabbit_crash"
	BookmarkFoxRecovery     BookmarkType = "fox_recovery"
	BookmarkStableEcosystem BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// stableSpan is the number of trailing windows compared for stability.
const stableSpan = 4

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentFoxMin       int // minimum fox count in recent history
	recentRabbitPeak   int // peak rabbit count in recent history
	stableWindowsCount int // consecutive windows with stable populations
	extinct            map[string]bool
}

// NewBookmarkDetector creates a detector with the given history size and thresholds.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < stableSpan+1 {
		historySize = stableSpan + 1 // minimum for stable ecosystem detection
	}
	if cfg.StableEcosystem.StableWindows < 1 {
		cfg.StableEcosystem.StableWindows = 1
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
		extinct:     make(map[string]bool),
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	// Extinction does not need history: it fires the first window a species is gone.
	bookmarks = append(bookmarks, bd.checkExtinction(stats)...)

	if bd.historyFull || bd.historyIdx > 0 {
		// Fox recovery: was low, now a multiple of that
		if b := bd.checkFoxRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Rabbit crash: dropped sharply from recent peak
		if b := bd.checkRabbitCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Stable ecosystem: both populations present with low variation over several windows
		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Update history
	bd.addToHistory(stats)

	// Track fox minimum and rabbit peak
	if stats.Foxes > 0 && (stats.Foxes < bd.recentFoxMin || bd.recentFoxMin == 0) {
		bd.recentFoxMin = stats.Foxes
	}
	if stats.Rabbits > bd.recentRabbitPeak {
		bd.recentRabbitPeak = stats.Rabbits
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the stored windows oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	ordered := make([]WindowStats, 0, bd.historySize)
	ordered = append(ordered, bd.history[bd.historyIdx:]...)
	return append(ordered, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	for _, sp := range []struct {
		name  string
		count int
	}{{"rabbits", stats.Rabbits}, {"foxes", stats.Foxes}} {
		if sp.count > 0 {
			bd.extinct[sp.name] = false
			continue
		}
		if bd.extinct[sp.name] {
			continue
		}
		bd.extinct[sp.name] = true
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkExtinction,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("No %s left", sp.name),
		})
	}
	return bookmarks
}

func (bd *BookmarkDetector) checkFoxRecovery(stats WindowStats) *Bookmark {
	cfg := bd.cfg.FoxRecovery
	if bd.recentFoxMin == 0 || bd.recentFoxMin > cfg.MinPopulation {
		return nil
	}

	threshold := bd.recentFoxMin * cfg.RecoveryMultiplier
	if stats.Foxes >= threshold && stats.Foxes >= cfg.MinFinal {
		// Reset the minimum after triggering
		oldMin := bd.recentFoxMin
		bd.recentFoxMin = stats.Foxes

		return &Bookmark{
			Type:        BookmarkFoxRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Fox population recovered from %d to %d", oldMin, stats.Foxes),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkRabbitCrash(stats WindowStats) *Bookmark {
	cfg := bd.cfg.RabbitCrash
	if bd.recentRabbitPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Rabbits)/float64(bd.recentRabbitPeak)
	if dropPercent > cfg.DropPercent && stats.Rabbits < bd.recentRabbitPeak-cfg.MinDrop {
		// Reset peak after crash
		oldPeak := bd.recentRabbitPeak
		bd.recentRabbitPeak = stats.Rabbits

		return &Bookmark{
			Type:        BookmarkRabbitCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Rabbits crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Rabbits),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	cfg := bd.cfg.StableEcosystem

	// Need both populations present
	if stats.Rabbits < cfg.MinRabbits || stats.Foxes < cfg.MinFoxes {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < stableSpan {
		return nil
	}

	rabbits := make([]float64, stableSpan)
	foxes := make([]float64, stableSpan)
	for i, h := range history[len(history)-stableSpan:] {
		rabbits[i] = float64(h.Rabbits)
		foxes[i] = float64(h.Foxes)
	}

	if coefficientOfVariation(rabbits) < cfg.CVThreshold && coefficientOfVariation(foxes) < cfg.CVThreshold {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == cfg.StableWindows { // trigger exactly once per stable run
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem with %d rabbits, %d foxes over %d+ windows", stats.Rabbits, stats.Foxes, cfg.StableWindows),
		}
	}

	return nil
}

// coefficientOfVariation returns std/mean, or 1 when the mean is zero.
func coefficientOfVariation(values []float64) float64 {
	mean, std := stat.PopMeanStdDev(values, nil)
	if mean == 0 {
		return 1
	}
	return std / mean
}
