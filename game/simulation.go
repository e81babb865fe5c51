package game

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/systems"
	"github.com/pthm-cable/warren/telemetry"
)

// Update advances the simulation by one tick: Update, Kill, Reproduce, Move.
// Each phase visits a snapshot of the entities present when it starts, in
// row-major cell order and then in-cell order.
func (e *Engine) Update() {
	if e.closed {
		e.logger.Warn("tick on closed engine ignored", "tick", e.tick)
		return
	}

	e.perfCollector.StartTick()

	e.perfCollector.StartPhase(telemetry.PhaseUpdate)
	e.updatePhase()

	e.perfCollector.StartPhase(telemetry.PhaseKill)
	e.killPhase()

	e.perfCollector.StartPhase(telemetry.PhaseReproduce)
	e.reproducePhase()

	e.perfCollector.StartPhase(telemetry.PhaseMove)
	e.movePhase()

	e.tick++

	e.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	e.flushTelemetry(false)

	e.perfCollector.EndTick()
}

// Tick is an alias for Update.
func (e *Engine) Tick() {
	e.Update()
}

// takeSnapshot refreshes the phase snapshot from the grid.
func (e *Engine) takeSnapshot() []ecs.Entity {
	e.snapshot = e.grid.Snapshot(e.snapshot[:0])
	return e.snapshot
}

// behaviorOf resolves a live entity to its Sim and species behavior.
// Entities removed earlier in the tick resolve to nil.
func (e *Engine) behaviorOf(phase telemetry.Phase, entity ecs.Entity) (*components.Sim, systems.Behavior) {
	sim := get(e.world, e.env.Sims, entity)
	if sim == nil {
		return nil, nil
	}
	b, err := e.species.Behavior(sim.Kind)
	if err != nil {
		e.logger.Error("entity failed", "phase", phase, "entity", entity.ID(), "kind", sim.Kind, "error", err)
		return nil, nil
	}
	return sim, b
}

// guard runs fn for one entity, logging any error or panic at error level.
func (e *Engine) guard(phase telemetry.Phase, entity ecs.Entity, kind components.Kind, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("entity failed", "phase", phase, "entity", entity.ID(), "kind", kind, "panic", r)
			e.collector.Record(telemetry.Event{Type: telemetry.EventEntityError, Tick: e.tick, EntityID: entity.ID(), Kind: kind})
		}
	}()
	if err := fn(); err != nil {
		e.logger.Error("entity failed", "phase", phase, "entity", entity.ID(), "kind", kind, "error", err)
		e.collector.Record(telemetry.Event{Type: telemetry.EventEntityError, Tick: e.tick, EntityID: entity.ID(), Kind: kind})
	}
}

// updatePhase lets every entity read its neighbourhood and declare intents.
func (e *Engine) updatePhase() {
	for _, entity := range e.takeSnapshot() {
		sim, b := e.behaviorOf(telemetry.PhaseUpdate, entity)
		if sim == nil {
			continue
		}
		e.guard(telemetry.PhaseUpdate, entity, sim.Kind, func() error {
			return b.Update(e.env, entity)
		})
	}
}

// movePhase commits declared moves. Rejected moves leave the entity in place;
// every intent is cleared either way.
func (e *Engine) movePhase() {
	for _, entity := range e.takeSnapshot() {
		sim := get(e.world, e.env.Sims, entity)
		if sim == nil {
			continue
		}
		next, ok := sim.Next()
		sim.ClearNext()
		if !ok {
			continue
		}

		e.guard(telemetry.PhaseMove, entity, sim.Kind, func() error {
			return e.moveSim(entity, sim.Kind, next)
		})
	}
}

func (e *Engine) moveSim(entity ecs.Entity, kind components.Kind, to components.Position) error {
	pos := get(e.world, e.env.Positions, entity)
	if pos == nil {
		return fmt.Errorf("move: %w", systems.ErrMissingComponent)
	}
	from := *pos

	err := e.grid.MoveSim(entity, from, to)
	if err == nil {
		return nil
	}

	e.collector.Record(telemetry.Event{Type: telemetry.EventFailedMove, Tick: e.tick, EntityID: entity.ID(), Kind: kind})
	if errors.Is(err, systems.ErrOrphaned) {
		// The entity has no cell any more; drop it rather than keep a ghost.
		e.logger.Error("entity lost its cell", "entity", entity.ID(), "kind", kind, "from", from, "to", to, "error", err)
		e.removeSim(entity, kind, components.Position{}, false)
		return nil
	}
	e.logger.Info("move failed", "entity", entity.ID(), "kind", kind, "from", from, "to", to, "error", err)
	return nil
}
