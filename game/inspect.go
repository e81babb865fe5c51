package game

import (
	"iter"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
)

// SimInfo is a read-only copy of one entity's state.
type SimInfo struct {
	Entity ecs.Entity
	Kind   components.Kind
	Pos    components.Position
	Hp     int
	Age    int

	Next    components.Position
	HasNext bool

	// Animals only
	Invincibility  int
	MatingCooldown int
	Paired         bool
	Originator     bool
	PairComplete   bool
	Partner        ecs.Entity

	// Grass only
	GrassState components.GrassState
	Offspring  int
}

// Describe returns the state of a live entity.
func (e *Engine) Describe(entity ecs.Entity) (SimInfo, bool) {
	sim := get(e.world, e.env.Sims, entity)
	pos := get(e.world, e.env.Positions, entity)
	if sim == nil || pos == nil {
		return SimInfo{}, false
	}

	info := SimInfo{
		Entity: entity,
		Kind:   sim.Kind,
		Pos:    *pos,
		Hp:     sim.Hp,
		Age:    sim.Age,
	}
	info.Next, info.HasNext = sim.Next()

	if lc := get(e.world, e.env.Lifecycles, entity); lc != nil {
		info.Invincibility = lc.Invincibility()
		info.MatingCooldown = lc.MatingCooldown()
		info.Paired = lc.HasMatingPartner
		info.Originator = lc.Pair.Originator
		info.PairComplete = lc.Pair.Complete
		info.Partner = lc.Pair.Partner
	}
	if g := get(e.world, e.env.Grasses, entity); g != nil {
		info.GrassState = g.State
		info.Offspring = g.Offspring
	}
	return info, true
}

// CellInfo describes every occupant of a cell, in insertion order.
func (e *Engine) CellInfo(pos components.Position) []SimInfo {
	cell := e.grid.Cell(pos)
	infos := make([]SimInfo, 0, len(cell))
	for _, entity := range cell {
		if info, ok := e.Describe(entity); ok {
			infos = append(infos, info)
		}
	}
	return infos
}

// Placements iterates every entity as a Spawn descriptor in row-major, then in-cell order.
func (e *Engine) Placements() iter.Seq[components.Spawn] {
	return func(yield func(components.Spawn) bool) {
		for pos, cell := range e.grid.All() {
			for _, entity := range cell {
				sim := get(e.world, e.env.Sims, entity)
				if sim == nil {
					continue
				}
				if !yield(components.Spawn{Kind: sim.Kind, Pos: pos}) {
					return
				}
			}
		}
	}
}

// DominantKind returns the kind drawn for a cell: the highest trophic level present.
func (e *Engine) DominantKind(pos components.Position) components.Kind {
	dominant := components.KindAny
	for _, entity := range e.grid.Cell(pos) {
		if sim := get(e.world, e.env.Sims, entity); sim != nil && sim.Kind > dominant {
			dominant = sim.Kind
		}
	}
	return dominant
}
