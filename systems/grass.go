package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
)

// GrassBehavior grows grass up the ladder and spreads it into empty neighbour cells.
type GrassBehavior struct{}

// Update advances the ladder by the configured growth rate.
func (GrassBehavior) Update(env *Env, e ecs.Entity) error {
	sim := lookup(env.Sims, e)
	g := lookup(env.Grasses, e)
	if sim == nil || g == nil {
		return fmt.Errorf("grass %d: %w", e.ID(), ErrMissingComponent)
	}
	g.Grow(env.Config.Grass.GrowthRate)
	sim.Hp = g.Nutrition()
	IncreaseAge(sim, nil, 1)
	return nil
}

// ShouldDie is always false: eaten grass drops back down the ladder instead.
func (GrassBehavior) ShouldDie(*Env, ecs.Entity) bool {
	return false
}

// NewDescendant seeds a random empty neighbour while the offspring budget lasts.
func (GrassBehavior) NewDescendant(env *Env, e ecs.Entity) (components.Spawn, bool) {
	g := lookup(env.Grasses, e)
	pos := lookup(env.Positions, e)
	if g == nil || pos == nil || g.State == components.GrassSeed || g.Offspring >= env.Config.Grass.MaxOffspring {
		return components.Spawn{}, false
	}

	var buf [8]components.Position
	empty := EmptyNeighbours(buf[:0], env.Grid, *pos)
	if len(empty) == 0 {
		return components.Spawn{}, false
	}

	g.Offspring++
	return components.Spawn{
		Kind:    components.KindGrass,
		Pos:     empty[env.Rand.Intn(len(empty))],
		Newborn: true,
	}, true
}
