package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/systems"
	"github.com/pthm-cable/warren/telemetry"
)

var behaviorEventTypes = map[systems.EventKind]telemetry.EventType{
	systems.EventGrazed:     telemetry.EventGraze,
	systems.EventPreyEaten:  telemetry.EventPrey,
	systems.EventPairFormed: telemetry.EventPairFormed,
	systems.EventPairBroken: telemetry.EventPairBroken,
}

// onBehaviorEvent forwards behavior outcomes to the collector and lifetime tracker.
func (e *Engine) onBehaviorEvent(kind systems.EventKind, actor ecs.Entity, species components.Kind) {
	typ, ok := behaviorEventTypes[kind]
	if !ok {
		return
	}
	e.collector.Record(telemetry.Event{Type: typ, Tick: e.tick, EntityID: actor.ID(), Kind: species})
	if kind == systems.EventGrazed || kind == systems.EventPreyEaten {
		e.lifetimeTracker.RecordMeal(actor.ID())
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
// force flushes a partial window.
func (e *Engine) flushTelemetry(force bool) {
	if !e.collector.ShouldFlush(e.tick) && !(force && e.collector.HasPending(e.tick)) {
		return
	}

	rabbitHp, foxHp := e.sampleHp()
	stats := e.collector.Flush(e.tick, e.population, e.grid.Occupied(), rabbitHp, foxHp)
	perfStats := e.perfCollector.Stats()

	if e.statsCallback != nil {
		e.statsCallback(stats)
	}

	if e.logStats {
		stats.LogStats(e.logger)
		perfStats.LogStats(e.logger)
	}

	if e.outputManager != nil {
		if err := e.outputManager.WriteTelemetry(stats); err != nil {
			e.logger.Error("failed to write telemetry", "error", err)
		}
		if err := e.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			e.logger.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range e.bookmarkDetector.Check(stats) {
		if e.logStats {
			bm.LogBookmark(e.logger)
		}
		if e.outputManager != nil {
			if err := e.outputManager.WriteBookmark(bm); err != nil {
				e.logger.Error("failed to write bookmark", "error", err)
			}
		}
		if e.bookmarkCallback != nil {
			e.bookmarkCallback(bm)
		}
	}
}

// sampleHp collects the Hp of every living animal for percentile calculation.
func (e *Engine) sampleHp() (rabbitHp, foxHp []float64) {
	query := e.animalFilter.Query()
	for query.Next() {
		sim, _ := query.Get()
		e.lifetimeTracker.UpdateHp(query.Entity().ID(), sim.Hp)

		switch sim.Kind {
		case components.KindRabbit:
			rabbitHp = append(rabbitHp, float64(sim.Hp))
		case components.KindFox:
			foxHp = append(foxHp, float64(sim.Hp))
		}
	}
	return rabbitHp, foxHp
}
