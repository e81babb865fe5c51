package game

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/systems"
)

// ErrUnknownKind is returned when asked to create an entity of an unsupported kind.
var ErrUnknownKind = errors.New("unknown sim kind")

// AddSims creates and places the given sims, returning how many were inserted.
// Failures are logged at info level and never raised.
func (e *Engine) AddSims(sims ...components.Spawn) int {
	added := 0
	for _, s := range sims {
		if _, err := e.spawn(s); err != nil {
			e.logger.Info("sim not added", "kind", s.Kind, "pos", s.Pos, "error", err)
			continue
		}
		added++
	}
	return added
}

// spawn creates the entity described by s and inserts it into the grid.
// The destination is checked first so no entity is created for a rejected placement.
func (e *Engine) spawn(s components.Spawn) (ecs.Entity, error) {
	if !e.grid.InBounds(s.Pos) {
		return ecs.Entity{}, fmt.Errorf("%w: %v", systems.ErrOutOfBounds, s.Pos)
	}
	if e.grid.Count(s.Pos) >= e.grid.Capacity() {
		return ecs.Entity{}, fmt.Errorf("%w: %v", systems.ErrCellFull, s.Pos)
	}

	entity, hp, err := e.createEntity(s)
	if err != nil {
		return ecs.Entity{}, err
	}
	if err := e.grid.CreateSim(entity, s.Pos); err != nil {
		e.world.RemoveEntity(entity)
		return ecs.Entity{}, err
	}

	e.population.Add(s.Kind, 1)
	e.lifetimeTracker.Register(entity.ID(), s.Kind, e.tick, hp)
	if s.Newborn {
		e.collector.RecordBirth(s.Kind)
	}
	return entity, nil
}

// createEntity builds the component set for a kind. Animals start at full Hp;
// newborns get the species' invincibility. Grass starts as a seed.
func (e *Engine) createEntity(s components.Spawn) (ecs.Entity, int, error) {
	pos := s.Pos
	switch s.Kind {
	case components.KindGrass:
		g := components.Grass{State: components.GrassSeed}
		sim := components.Sim{Kind: s.Kind, Hp: g.Nutrition()}
		return e.grassMapper.NewEntity(&pos, &sim, &g), sim.Hp, nil

	case components.KindRabbit, components.KindFox:
		cfg := e.env.Animal(s.Kind)
		sim := components.Sim{Kind: s.Kind, Hp: cfg.MaxHp}
		lc := components.Lifecycle{}
		if s.Newborn {
			lc.SetInvincibility(cfg.Invincibility)
		}
		return e.animalMapper.NewEntity(&pos, &sim, &lc), sim.Hp, nil
	}
	return ecs.Entity{}, 0, fmt.Errorf("%w: %v", ErrUnknownKind, s.Kind)
}
