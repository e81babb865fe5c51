package systems

import (
	"math/rand"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
)

// fixture is a small world with a grid and behavior env for tests.
type fixture struct {
	world   *ecs.World
	grid    *Grid
	env     *Env
	animals *ecs.Map3[components.Position, components.Sim, components.Lifecycle]
	grasses *ecs.Map3[components.Position, components.Sim, components.Grass]
}

func newFixture(t *testing.T, width, height int) *fixture {
	t.Helper()
	world := ecs.NewWorld()
	cfg := config.Default()
	env := NewEnv(world, nil, rand.New(rand.NewSource(1)), cfg)
	grid := NewGrid(width, height, cfg.Grid.CellCapacity, env.Positions, env.Sims)
	env.Grid = grid
	return &fixture{
		world:   world,
		grid:    grid,
		env:     env,
		animals: ecs.NewMap3[components.Position, components.Sim, components.Lifecycle](world),
		grasses: ecs.NewMap3[components.Position, components.Sim, components.Grass](world),
	}
}

// newAnimal creates an unplaced animal at full Hp.
func (f *fixture) newAnimal(kind components.Kind) ecs.Entity {
	pos := components.Position{}
	sim := components.Sim{Kind: kind, Hp: f.env.Animal(kind).MaxHp}
	lc := components.Lifecycle{}
	return f.animals.NewEntity(&pos, &sim, &lc)
}

// animal creates an animal and places it on the grid.
func (f *fixture) animal(t *testing.T, kind components.Kind, x, y int) ecs.Entity {
	t.Helper()
	e := f.newAnimal(kind)
	if err := f.grid.CreateSim(e, components.Position{X: x, Y: y}); err != nil {
		t.Fatalf("placing %v at (%d,%d): %v", kind, x, y, err)
	}
	return e
}

// grass creates a grass tuft in the given state and places it on the grid.
func (f *fixture) grass(t *testing.T, state components.GrassState, x, y int) ecs.Entity {
	t.Helper()
	pos := components.Position{}
	g := components.Grass{State: state}
	sim := components.Sim{Kind: components.KindGrass, Hp: g.Nutrition()}
	e := f.grasses.NewEntity(&pos, &sim, &g)
	if err := f.grid.CreateSim(e, components.Position{X: x, Y: y}); err != nil {
		t.Fatalf("placing grass at (%d,%d): %v", x, y, err)
	}
	return e
}

func (f *fixture) sim(e ecs.Entity) *components.Sim {
	return f.env.Sims.Get(e)
}

func (f *fixture) lifecycle(e ecs.Entity) *components.Lifecycle {
	return f.env.Lifecycles.Get(e)
}
