package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
)

var rabbitRules = animalRules{
	kind:               components.KindRabbit,
	prey:               components.KindGrass,
	predator:           components.KindFox,
	stayWhenHungry:     true,
	freezeNearPredator: true,
	exactRefill:        true,
}

// RabbitBehavior grazes grass, hides from foxes and pairs with lone rabbits.
type RabbitBehavior struct{}

// Update runs one tick of rabbit logic.
func (RabbitBehavior) Update(env *Env, e ecs.Entity) error {
	return rabbitRules.update(env, e)
}

// ShouldDie reports whether the rabbit starved or was eaten.
func (RabbitBehavior) ShouldDie(env *Env, e ecs.Entity) bool {
	return rabbitRules.shouldDie(env, e)
}

// NewDescendant yields a kit when the pair led by this rabbit has met up.
func (RabbitBehavior) NewDescendant(env *Env, e ecs.Entity) (components.Spawn, bool) {
	return Offspring(env, e)
}
