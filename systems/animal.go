package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
)

// animalRules is the behavior shared by rabbits and foxes, parameterised by food chain.
type animalRules struct {
	kind     components.Kind
	prey     components.Kind
	predator components.Kind // KindAny when nothing hunts this kind

	// Hungry animals that found nothing to eat stay put instead of wandering.
	stayWhenHungry bool
	// A leader freezes in place while a predator is in range.
	freezeNearPredator bool
	// Only meals that land Hp exactly on the maximum are taken; otherwise any
	// meal that reaches it is, and the surplus is dropped.
	exactRefill bool
}

func (r animalRules) update(env *Env, e ecs.Entity) error {
	sim := lookup(env.Sims, e)
	lc := lookup(env.Lifecycles, e)
	pos := lookup(env.Positions, e)
	if sim == nil || lc == nil || pos == nil {
		return fmt.Errorf("%v %d: %w", r.kind, e.ID(), ErrMissingComponent)
	}
	if Starved(sim) {
		// Already eaten or starved this tick; the Kill phase will collect it.
		return nil
	}

	cfg := env.Animal(r.kind)
	here := *pos
	nb := env.sense(e, here, cfg.SenseRadius)
	predatorNear := r.predator != components.KindAny && len(nb.Of(r.predator)) > 0

	partner, paired := partnerOf(env, e, lc)

	switch {
	case paired && lc.Pair.Originator:
		if ppos := lookup(env.Positions, partner); ppos != nil && *ppos == here {
			lc.Pair.Complete = true
			break
		}
		if r.freezeNearPredator && predatorNear {
			break
		}
		step := RandomStep(env, here)
		sim.SetNext(step)
		if psim := lookup(env.Sims, partner); psim != nil {
			psim.SetNext(step)
		}

	case paired:
		// The leader owns the follower's intent.

	case Hungry(sim, cfg.MaxHp) && r.eat(env, e, sim, cfg.MaxHp, nb.Of(r.prey)):
		// A meal replaces wandering and mating for this tick.

	default:
		if !predatorNear && tryPair(env, e, sim, lc, nb.Of(r.kind)) {
			// The new leader starts walking on the next tick.
			break
		}
		if r.stayWhenHungry && Hungry(sim, cfg.MaxHp) {
			break
		}
		sim.SetNext(RandomStep(env, here))
	}

	IncreaseAge(sim, lc, 1)
	sim.Hp -= cfg.Metabolism
	return nil
}

// food is an edible neighbour and what it is worth right now.
type food struct {
	Neighbor
	value int
}

// eat picks a meal among the prey in range that refills Hp to the maximum,
// moves onto it and consumes it. Prey that falls short is never eaten.
// Ties are broken with the injected RNG.
func (r animalRules) eat(env *Env, e ecs.Entity, sim *components.Sim, maxHp int, prey []Neighbor) bool {
	var meals []food
	for _, nb := range prey {
		v, ok := r.edible(env, nb.E)
		if ok && r.refills(sim.Hp+v, maxHp) {
			meals = append(meals, food{Neighbor: nb, value: v})
		}
	}
	if len(meals) == 0 {
		return false
	}

	meal := meals[env.Rand.Intn(len(meals))]
	sim.SetNext(meal.Pos)
	Feed(sim, r.consume(env, e, meal.E), maxHp)
	return true
}

func (r animalRules) refills(hp, maxHp int) bool {
	if r.exactRefill {
		return hp == maxHp
	}
	return hp >= maxHp
}

// edible reports whether target can be eaten and its current nutrition.
func (r animalRules) edible(env *Env, target ecs.Entity) (int, bool) {
	switch r.prey {
	case components.KindGrass:
		g := lookup(env.Grasses, target)
		if g == nil || !g.CanBeEaten() {
			return 0, false
		}
		return g.Nutrition(), true
	default:
		if !AnimalCanBeEaten(env, target) {
			return 0, false
		}
		return env.Animal(r.prey).Nutrition, true
	}
}

func (r animalRules) consume(env *Env, eater, target ecs.Entity) int {
	if r.prey == components.KindGrass {
		g := lookup(env.Grasses, target)
		value := g.GetEaten()
		if sim := lookup(env.Sims, target); sim != nil {
			sim.Hp = g.Nutrition()
		}
		env.emit(EventGrazed, eater, r.kind)
		return value
	}
	value := AnimalGetEaten(env, target)
	env.emit(EventPreyEaten, eater, r.kind)
	return value
}

// AnimalCanBeEaten reports whether an animal is exposed to predation:
// its invincibility has run out and it is still alive.
func AnimalCanBeEaten(env *Env, e ecs.Entity) bool {
	sim := lookup(env.Sims, e)
	lc := lookup(env.Lifecycles, e)
	if sim == nil || lc == nil {
		return false
	}
	return lc.Invincibility() == 0 && sim.Hp > 0
}

// AnimalGetEaten kills the animal, severs any pairing and returns its nutrition.
func AnimalGetEaten(env *Env, e ecs.Entity) int {
	sim := lookup(env.Sims, e)
	if sim == nil {
		return 0
	}
	sim.Hp = 0
	SeverPair(env, e)
	return env.Animal(sim.Kind).Nutrition
}

func (r animalRules) shouldDie(env *Env, e ecs.Entity) bool {
	sim := lookup(env.Sims, e)
	return sim == nil || Starved(sim)
}
