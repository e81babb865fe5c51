package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/systems"
	"github.com/pthm-cable/warren/telemetry"
)

// killPhase removes every entity whose death check holds.
func (e *Engine) killPhase() {
	// First pass: collect dead entities (must complete before modifying)
	type deadInfo struct {
		entity ecs.Entity
		kind   components.Kind
		pos    components.Position
	}
	var toRemove []deadInfo

	for _, entity := range e.takeSnapshot() {
		sim, b := e.behaviorOf(telemetry.PhaseKill, entity)
		if sim == nil {
			continue
		}
		e.guard(telemetry.PhaseKill, entity, sim.Kind, func() error {
			if b.ShouldDie(e.env, entity) {
				toRemove = append(toRemove, deadInfo{entity: entity, kind: sim.Kind, pos: *e.env.Positions.Get(entity)})
			}
			return nil
		})
	}

	// Second pass: remove entities
	for _, dead := range toRemove {
		e.removeSim(dead.entity, dead.kind, dead.pos, true)
	}
}

// removeSim severs the entity's pairing, takes it off the grid and out of the world.
// If inGrid is false the entity is known to have no cell.
func (e *Engine) removeSim(entity ecs.Entity, kind components.Kind, pos components.Position, inGrid bool) {
	if !e.world.Alive(entity) {
		return
	}
	systems.SeverPair(e.env, entity)

	if inGrid {
		if err := e.grid.RemoveSim(entity, pos); err != nil {
			e.logger.Info("remove failed", "entity", entity.ID(), "kind", kind, "pos", pos, "error", err)
		}
	}

	if stats := e.lifetimeTracker.Remove(entity.ID()); stats != nil {
		e.collector.RecordLifespan(kind, stats.Lifespan(e.tick))
	}
	e.collector.Record(telemetry.NewDeathEvent(e.tick, entity.ID(), kind))
	e.population.Add(kind, -1)
	e.world.RemoveEntity(entity)
}

// reproducePhase places the descendants of every survivor that yields one.
func (e *Engine) reproducePhase() {
	for _, entity := range e.takeSnapshot() {
		sim, b := e.behaviorOf(telemetry.PhaseReproduce, entity)
		if sim == nil {
			continue
		}
		e.guard(telemetry.PhaseReproduce, entity, sim.Kind, func() error {
			spawn, ok := b.NewDescendant(e.env, entity)
			if !ok {
				return nil
			}
			if _, err := e.spawn(spawn); err != nil {
				e.logger.Info("descendant not placed", "parent", entity.ID(), "kind", spawn.Kind, "pos", spawn.Pos, "error", err)
				e.collector.Record(telemetry.Event{Type: telemetry.EventFailedSpawn, Tick: e.tick, EntityID: entity.ID(), Kind: spawn.Kind})
				return nil
			}
			e.lifetimeTracker.RecordChild(entity.ID())
			return nil
		})
	}
}
