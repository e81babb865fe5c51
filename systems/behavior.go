package systems

import (
	"errors"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
)

// ErrMissingComponent is returned when an entity lacks a component its behavior needs.
var ErrMissingComponent = errors.New("entity is missing a required component")

// EventKind identifies a notable behavior outcome reported to telemetry.
type EventKind uint8

const (
	EventGrazed     EventKind = iota // An animal ate grass
	EventPreyEaten                   // A predator ate an animal
	EventPairFormed                  // Two animals paired up
	EventPairBroken                  // A pending pair was severed before completing
)

// Env is what behaviors see during a phase. It is owned by the engine.
type Env struct {
	World      *ecs.World
	Grid       GridView
	Positions  *ecs.Map[components.Position]
	Sims       *ecs.Map[components.Sim]
	Lifecycles *ecs.Map[components.Lifecycle]
	Grasses    *ecs.Map[components.Grass]
	Rand       *rand.Rand
	Config     *config.Config

	// OnEvent is optional.
	OnEvent func(kind EventKind, actor ecs.Entity, species components.Kind)

	scratch []Neighbor
}

// NewEnv builds an Env over world with fresh component maps.
func NewEnv(world *ecs.World, grid GridView, rng *rand.Rand, cfg *config.Config) *Env {
	return &Env{
		World:      world,
		Grid:       grid,
		Positions:  ecs.NewMap[components.Position](world),
		Sims:       ecs.NewMap[components.Sim](world),
		Lifecycles: ecs.NewMap[components.Lifecycle](world),
		Grasses:    ecs.NewMap[components.Grass](world),
		Rand:       rng,
		Config:     cfg,
	}
}

// lookup returns the component of e, or nil if e does not carry it.
func lookup[T any](m *ecs.Map[T], e ecs.Entity) *T {
	if m == nil || !m.Has(e) {
		return nil
	}
	return m.Get(e)
}

func (env *Env) emit(kind EventKind, actor ecs.Entity, species components.Kind) {
	if env.OnEvent != nil {
		env.OnEvent(kind, actor, species)
	}
}

// alive reports whether e is a live entity carrying a Sim.
func (env *Env) alive(e ecs.Entity) bool {
	return !e.IsZero() && env.World.Alive(e) && env.Sims.Has(e)
}

// Animal returns the pinned constants for an animal kind.
func (env *Env) Animal(kind components.Kind) config.AnimalConfig {
	if kind == components.KindFox {
		return env.Config.Fox
	}
	return env.Config.Rabbit
}

// Neighbourhood holds the entities an animal perceives, split by kind.
type Neighbourhood struct {
	Grass   []Neighbor
	Rabbits []Neighbor
	Foxes   []Neighbor
}

// Of returns the neighbours of the given kind.
func (n *Neighbourhood) Of(kind components.Kind) []Neighbor {
	switch kind {
	case components.KindGrass:
		return n.Grass
	case components.KindRabbit:
		return n.Rabbits
	case components.KindFox:
		return n.Foxes
	}
	return nil
}

// sense queries the window around pos once and buckets the result by kind.
func (env *Env) sense(self ecs.Entity, pos components.Position, radius int) Neighbourhood {
	env.scratch = env.Grid.QueryRadiusInto(env.scratch[:0], pos, radius, components.KindAny, self)

	var n Neighbourhood
	for _, nb := range env.scratch {
		sim := lookup(env.Sims, nb.E)
		if sim == nil {
			continue
		}
		switch sim.Kind {
		case components.KindGrass:
			n.Grass = append(n.Grass, nb)
		case components.KindRabbit:
			n.Rabbits = append(n.Rabbits, nb)
		case components.KindFox:
			n.Foxes = append(n.Foxes, nb)
		}
	}
	return n
}
