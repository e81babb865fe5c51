package systems

import (
	"testing"

	"github.com/pthm-cable/warren/components"
)

func TestRandomStepStaysInBounds(t *testing.T) {
	f := newFixture(t, 3, 3)
	corner := components.Position{X: 0, Y: 0}
	seen := make(map[components.Position]bool)

	for i := 0; i < 500; i++ {
		p := RandomStep(f.env, corner)
		if !f.grid.InBounds(p) {
			t.Fatalf("step %v left the grid", p)
		}
		if p.X > 1 || p.Y > 1 {
			t.Fatalf("step %v is more than one cell away", p)
		}
		seen[p] = true
	}
	if len(seen) != 4 {
		t.Errorf("visited %d distinct cells, want 4", len(seen))
	}
}

func TestGrassUpdateGrowsToTender(t *testing.T) {
	f := newFixture(t, 3, 3)
	e := f.grass(t, components.GrassSeed, 1, 1)
	b := GrassBehavior{}

	want := []components.GrassState{components.GrassTuft, components.GrassTender, components.GrassTender}
	for i, w := range want {
		if err := b.Update(f.env, e); err != nil {
			t.Fatal(err)
		}
		g := f.env.Grasses.Get(e)
		if g.State != w {
			t.Errorf("tick %d: state = %v, want %v", i+1, g.State, w)
		}
		if f.sim(e).Hp != int(w) {
			t.Errorf("tick %d: hp = %d, want %d", i+1, f.sim(e).Hp, int(w))
		}
		if b.ShouldDie(f.env, e) {
			t.Errorf("tick %d: grass should never die", i+1)
		}
	}
}

func TestGrassDescendant(t *testing.T) {
	f := newFixture(t, 3, 3)
	parent := f.grass(t, components.GrassTender, 1, 1)

	// Fill every neighbour except (2,2).
	for _, off := range components.Neighbours8 {
		p := components.Position{X: 1 + off[0], Y: 1 + off[1]}
		if p == (components.Position{X: 2, Y: 2}) {
			continue
		}
		f.grass(t, components.GrassSeed, p.X, p.Y)
	}

	spawn, ok := GrassBehavior{}.NewDescendant(f.env, parent)
	if !ok {
		t.Fatal("expected a descendant")
	}
	if spawn.Kind != components.KindGrass || spawn.Pos != (components.Position{X: 2, Y: 2}) || !spawn.Newborn {
		t.Errorf("spawn = %+v, want newborn grass at (2,2)", spawn)
	}
	if got := f.env.Grasses.Get(parent).Offspring; got != 1 {
		t.Errorf("offspring = %d, want 1", got)
	}
}

func TestGrassDescendantLimits(t *testing.T) {
	tests := []struct {
		name      string
		state     components.GrassState
		offspring int
		crowded   bool
		want      bool
	}{
		{name: "tender", state: components.GrassTender, want: true},
		{name: "seed never spreads", state: components.GrassSeed},
		{name: "budget spent", state: components.GrassTuft, offspring: 2},
		{name: "no empty neighbour", state: components.GrassTender, crowded: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 3, 3)
			e := f.grass(t, tt.state, 1, 1)
			f.env.Grasses.Get(e).Offspring = tt.offspring
			if tt.crowded {
				for _, off := range components.Neighbours8 {
					f.grass(t, components.GrassSeed, 1+off[0], 1+off[1])
				}
			}
			if _, got := (GrassBehavior{}).NewDescendant(f.env, e); got != tt.want {
				t.Errorf("NewDescendant ok = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRabbitEatsGrass(t *testing.T) {
	tests := []struct {
		name      string
		hp        int
		wantMeal  bool
		wantHp    int
		wantState components.GrassState
	}{
		// 3 + 2 lands on max 5, then 1 metabolism
		{name: "exact refill", hp: 3, wantMeal: true, wantHp: 4, wantState: components.GrassTuft},
		{name: "falls short", hp: 2, wantHp: 1, wantState: components.GrassTender},
		{name: "overshoots", hp: 4, wantHp: 3, wantState: components.GrassTender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 5, 5)
			r := f.animal(t, components.KindRabbit, 2, 2)
			g := f.grass(t, components.GrassTender, 3, 3)
			f.sim(r).Hp = tt.hp

			if err := (RabbitBehavior{}).Update(f.env, r); err != nil {
				t.Fatal(err)
			}

			next, moved := f.sim(r).Next()
			if tt.wantMeal && next != (components.Position{X: 3, Y: 3}) {
				t.Errorf("next = %v (set %v), want (3,3)", next, moved)
			}
			if !tt.wantMeal && moved {
				// Hungry without a meal: stays put.
				t.Errorf("rabbit moved to %v without eating", next)
			}
			if got := f.sim(r).Hp; got != tt.wantHp {
				t.Errorf("hp = %d, want %d", got, tt.wantHp)
			}
			if got := f.env.Grasses.Get(g).State; got != tt.wantState {
				t.Errorf("grass state = %v, want %v", got, tt.wantState)
			}
			if got := f.sim(r).Age; got != 1 {
				t.Errorf("age = %d, want 1", got)
			}
		})
	}
}

func TestRabbitPicksExactRefillOnly(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		f := newFixture(t, 5, 5)
		f.env.Rand.Seed(seed)
		r := f.animal(t, components.KindRabbit, 2, 2)
		tuft := f.grass(t, components.GrassTuft, 1, 1)
		tender := f.grass(t, components.GrassTender, 3, 2)
		f.sim(r).Hp = 4

		if err := (RabbitBehavior{}).Update(f.env, r); err != nil {
			t.Fatal(err)
		}
		if got := f.env.Grasses.Get(tender).State; got != components.GrassTender {
			t.Fatalf("seed %d: tender grass eaten, 4+2 overshoots", seed)
		}
		if got := f.env.Grasses.Get(tuft).State; got != components.GrassSeed {
			t.Fatalf("seed %d: tuft not eaten", seed)
		}
	}
}

func TestRabbitTieBreakIsRandom(t *testing.T) {
	chosen := make(map[components.Position]int)
	for seed := int64(0); seed < 40; seed++ {
		f := newFixture(t, 5, 5)
		f.env.Rand.Seed(seed)
		r := f.animal(t, components.KindRabbit, 2, 2)
		f.grass(t, components.GrassTuft, 1, 1)
		f.grass(t, components.GrassTuft, 3, 3)
		f.sim(r).Hp = 4

		if err := (RabbitBehavior{}).Update(f.env, r); err != nil {
			t.Fatal(err)
		}
		next, ok := f.sim(r).Next()
		if !ok {
			t.Fatalf("seed %d: no meal", seed)
		}
		chosen[next]++
	}
	if len(chosen) != 2 {
		t.Errorf("meals chosen = %v, want both tufts", chosen)
	}
}

func TestRabbitPrefersRefillingGrass(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		f := newFixture(t, 5, 5)
		f.env.Rand.Seed(seed)
		r := f.animal(t, components.KindRabbit, 2, 2)
		f.grass(t, components.GrassTuft, 1, 1)
		tender := f.grass(t, components.GrassTender, 3, 2)
		f.grass(t, components.GrassTuft, 2, 3)
		f.sim(r).Hp = 3

		if err := (RabbitBehavior{}).Update(f.env, r); err != nil {
			t.Fatal(err)
		}
		if got := f.env.Grasses.Get(tender).State; got != components.GrassTuft {
			t.Fatalf("seed %d: tender grass not chosen", seed)
		}
	}
}

func TestRabbitIgnoresSeedGrass(t *testing.T) {
	f := newFixture(t, 5, 5)
	r := f.animal(t, components.KindRabbit, 2, 2)
	f.grass(t, components.GrassSeed, 2, 2)
	f.sim(r).Hp = 2

	if err := (RabbitBehavior{}).Update(f.env, r); err != nil {
		t.Fatal(err)
	}
	// Hungry with nothing edible: stays put.
	if _, ok := f.sim(r).Next(); ok {
		t.Error("hungry rabbit without food should not move")
	}
	if got := f.sim(r).Hp; got != 1 {
		t.Errorf("hp = %d, want 1", got)
	}
}

func TestFoxEatsRabbit(t *testing.T) {
	f := newFixture(t, 5, 5)
	fox := f.animal(t, components.KindFox, 2, 2)
	rabbit := f.animal(t, components.KindRabbit, 3, 3)
	f.sim(fox).Hp = 8

	if err := (FoxBehavior{}).Update(f.env, fox); err != nil {
		t.Fatal(err)
	}
	if got := f.sim(rabbit).Hp; got != 0 {
		t.Errorf("rabbit hp = %d, want 0", got)
	}
	if !(RabbitBehavior{}).ShouldDie(f.env, rabbit) {
		t.Error("eaten rabbit should die")
	}
	// 8 + 3 capped at 10, then 1 metabolism
	if got := f.sim(fox).Hp; got != 9 {
		t.Errorf("fox hp = %d, want 9", got)
	}
	if next, _ := f.sim(fox).Next(); next != (components.Position{X: 3, Y: 3}) {
		t.Errorf("fox next = %v, want (3,3)", next)
	}
}

func TestFoxSkipsMealThatFallsShort(t *testing.T) {
	f := newFixture(t, 5, 5)
	fox := f.animal(t, components.KindFox, 2, 2)
	rabbit := f.animal(t, components.KindRabbit, 3, 3)
	f.sim(fox).Hp = 2

	if err := (FoxBehavior{}).Update(f.env, fox); err != nil {
		t.Fatal(err)
	}
	if got := f.sim(rabbit).Hp; got != f.env.Config.Rabbit.MaxHp {
		t.Errorf("rabbit hp = %d, want untouched", got)
	}
	if got := f.sim(fox).Hp; got != 1 {
		t.Errorf("fox hp = %d, want 1", got)
	}
}

func TestFoxTieBreakIsRandom(t *testing.T) {
	chosen := make(map[components.Position]int)
	for seed := int64(0); seed < 40; seed++ {
		f := newFixture(t, 5, 5)
		f.env.Rand.Seed(seed)
		fox := f.animal(t, components.KindFox, 2, 2)
		f.animal(t, components.KindRabbit, 1, 2)
		f.animal(t, components.KindRabbit, 3, 2)
		f.sim(fox).Hp = 9

		if err := (FoxBehavior{}).Update(f.env, fox); err != nil {
			t.Fatal(err)
		}
		next, ok := f.sim(fox).Next()
		if !ok || f.sim(fox).Hp != 9 {
			t.Fatalf("seed %d: no meal (hp %d)", seed, f.sim(fox).Hp)
		}
		chosen[next]++
	}
	if len(chosen) != 2 {
		t.Errorf("prey chosen = %v, want both rabbits", chosen)
	}
}

func TestFoxSparesInvincibleRabbit(t *testing.T) {
	f := newFixture(t, 5, 5)
	fox := f.animal(t, components.KindFox, 2, 2)
	rabbit := f.animal(t, components.KindRabbit, 3, 3)
	f.sim(fox).Hp = 5
	f.lifecycle(rabbit).SetInvincibility(2)

	if err := (FoxBehavior{}).Update(f.env, fox); err != nil {
		t.Fatal(err)
	}
	if got := f.sim(rabbit).Hp; got != f.env.Config.Rabbit.MaxHp {
		t.Errorf("rabbit hp = %d, want untouched", got)
	}
	if _, ok := f.sim(fox).Next(); !ok {
		t.Error("hungry fox without prey should still wander")
	}
}

func TestStarvedAnimalSkipsUpdate(t *testing.T) {
	f := newFixture(t, 5, 5)
	r := f.animal(t, components.KindRabbit, 2, 2)
	f.grass(t, components.GrassTender, 2, 2)
	f.sim(r).Hp = 0

	if err := (RabbitBehavior{}).Update(f.env, r); err != nil {
		t.Fatal(err)
	}
	if got := f.sim(r).Hp; got != 0 {
		t.Errorf("hp = %d, dead rabbit should not eat", got)
	}
	if got := f.sim(r).Age; got != 0 {
		t.Errorf("age = %d, want 0", got)
	}
}

func TestMissingComponentIsError(t *testing.T) {
	f := newFixture(t, 3, 3)
	g := f.grass(t, components.GrassTuft, 1, 1)
	if err := (FoxBehavior{}).Update(f.env, g); err == nil {
		t.Error("expected an error for an entity without lifecycle")
	}
}

func TestRegistryDefaults(t *testing.T) {
	reg := NewSpeciesRegistry()
	for _, kind := range components.Kinds {
		if _, err := reg.Behavior(kind); err != nil {
			t.Errorf("%v: %v", kind, err)
		}
		if reg.GetName(kind) != kind.String() {
			t.Errorf("name of %v = %q", kind, reg.GetName(kind))
		}
	}
	if _, err := reg.Behavior(components.KindAny); err == nil {
		t.Error("KindAny should have no behavior")
	}
	if got := len(reg.All()); got != 3 {
		t.Errorf("registered %d species, want 3", got)
	}
}
