package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
)

var foxRules = animalRules{
	kind:     components.KindFox,
	prey:     components.KindRabbit,
	predator: components.KindAny,
}

// FoxBehavior hunts rabbits, wanders and pairs with lone foxes.
type FoxBehavior struct{}

// Update runs one tick of fox logic.
func (FoxBehavior) Update(env *Env, e ecs.Entity) error {
	return foxRules.update(env, e)
}

// ShouldDie reports whether the fox starved.
func (FoxBehavior) ShouldDie(env *Env, e ecs.Entity) bool {
	return foxRules.shouldDie(env, e)
}

// NewDescendant yields a cub when the pair led by this fox has met up.
func (FoxBehavior) NewDescendant(env *Env, e ecs.Entity) (components.Spawn, bool) {
	return Offspring(env, e)
}
