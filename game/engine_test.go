package game

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/systems"
	"github.com/pthm-cable/warren/telemetry"
)

// scripted is a Behavior driven by test closures.
type scripted struct {
	update func(env *systems.Env, e ecs.Entity) error
	die    bool
	spawn  *components.Spawn
}

func (s scripted) Update(env *systems.Env, e ecs.Entity) error {
	if s.update == nil {
		return nil
	}
	return s.update(env, e)
}

func (s scripted) ShouldDie(*systems.Env, ecs.Entity) bool { return s.die }

func (s scripted) NewDescendant(*systems.Env, ecs.Entity) (components.Spawn, bool) {
	if s.spawn == nil {
		return components.Spawn{}, false
	}
	return *s.spawn, true
}

func moveTo(p components.Position) func(env *systems.Env, e ecs.Entity) error {
	return func(env *systems.Env, e ecs.Entity) error {
		env.Sims.Get(e).SetNext(p)
		return nil
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func at(kind components.Kind, x, y int) components.Spawn {
	return components.Spawn{Kind: kind, Pos: components.Position{X: x, Y: y}}
}

func newTestEngine(t *testing.T, width, height int, opts Options, sims ...components.Spawn) *Engine {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	opts.Width, opts.Height = width, height
	return New(config.Default(), opts, sims...)
}

// withBehavior returns a registry where kind is driven by b.
func withBehavior(kind components.Kind, b systems.Behavior) *systems.SpeciesRegistry {
	reg := systems.NewSpeciesRegistry()
	reg.Register(systems.SpeciesInfo{Kind: kind, Name: kind.String(), Behavior: b})
	return reg
}

func only(t *testing.T, e *Engine, pos components.Position) ecs.Entity {
	t.Helper()
	cell := e.Grid().Cell(pos)
	if len(cell) != 1 {
		t.Fatalf("cell %v holds %d entities, want 1", pos, len(cell))
	}
	return cell[0]
}

func TestEngineScenarioCensus(t *testing.T) {
	e := newTestEngine(t, 16, 12, Options{},
		at(components.KindGrass, 1, 1),
		at(components.KindRabbit, 3, 3),
		at(components.KindFox, 5, 5),
	)

	if w, h := e.Grid().Width(), e.Grid().Height(); w != 16 || h != 12 {
		t.Errorf("grid = %dx%d, want 16x12", w, h)
	}
	c := e.Census()
	if c.Occupied != 3 || c.Grass != 1 || c.Rabbits != 1 || c.Foxes != 1 {
		t.Errorf("census = %+v", c)
	}

	if n := e.AddSims(at(components.KindGrass, 99, 99)); n != 0 {
		t.Errorf("AddSims out of bounds inserted %d", n)
	}
	if got := e.Census(); got != c {
		t.Errorf("census changed after failed add: %+v", got)
	}
}

func TestEngineAddSimsCapacity(t *testing.T) {
	e := newTestEngine(t, 2, 2, Options{})
	sims := make([]components.Spawn, 10)
	for i := range sims {
		sims[i] = at(components.KindGrass, 0, 0)
	}
	if n := e.AddSims(sims...); n != e.Grid().Capacity() {
		t.Errorf("inserted %d, want capacity %d", n, e.Grid().Capacity())
	}
	if n := e.AddSims(at(components.KindAny, 1, 1)); n != 0 {
		t.Error("unknown kind inserted")
	}
}

func TestEngineMoveCommitsIntent(t *testing.T) {
	dest := components.Position{X: 2, Y: 2}
	e := newTestEngine(t, 5, 5,
		Options{Species: withBehavior(components.KindFox, scripted{update: moveTo(dest)})},
		at(components.KindFox, 0, 0),
	)
	fox := only(t, e, components.Position{})

	e.Update()

	if e.Grid().Count(components.Position{}) != 0 {
		t.Error("source cell still occupied")
	}
	if got := only(t, e, dest); got != fox {
		t.Error("destination does not hold the fox")
	}
	info, ok := e.Describe(fox)
	if !ok || info.Pos != dest || info.HasNext {
		t.Errorf("info = %+v", info)
	}
}

func TestEngineFailedMoveStaysInPlace(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	e := newTestEngine(t, 5, 5,
		Options{
			Logger:  logger,
			Species: withBehavior(components.KindFox, scripted{update: moveTo(components.Position{X: -1, Y: 0})}),
		},
		at(components.KindFox, 0, 0),
	)
	fox := only(t, e, components.Position{})

	e.Update()

	info, ok := e.Describe(fox)
	if !ok || info.Pos != (components.Position{}) || info.HasNext {
		t.Errorf("info = %+v", info)
	}
	if !strings.Contains(buf.String(), "level=INFO") || !strings.Contains(buf.String(), "move failed") {
		t.Errorf("expected an info log for the failed move, got %q", buf.String())
	}
}

func TestEngineKillRemoves(t *testing.T) {
	e := newTestEngine(t, 5, 5,
		Options{Species: withBehavior(components.KindFox, scripted{die: true})},
		at(components.KindFox, 1, 1),
		at(components.KindGrass, 2, 2),
	)
	fox := only(t, e, components.Position{X: 1, Y: 1})

	e.Update()

	if _, ok := e.Describe(fox); ok {
		t.Error("dead fox still describable")
	}
	if e.Grid().Count(components.Position{X: 1, Y: 1}) != 0 {
		t.Error("dead fox still on the grid")
	}
	if c := e.Census(); c.Foxes != 0 || c.Grass < 1 {
		t.Errorf("census = %+v", c)
	}
}

func TestEngineSpawnFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	spawn := at(components.KindRabbit, 10, 10)
	e := newTestEngine(t, 3, 3,
		Options{
			Logger:  slog.New(slog.NewTextHandler(&buf, nil)),
			Species: withBehavior(components.KindRabbit, scripted{spawn: &spawn}),
		},
		at(components.KindRabbit, 1, 1),
	)

	e.Update()

	if c := e.Census(); c.Rabbits != 1 {
		t.Errorf("rabbits = %d, want 1", c.Rabbits)
	}
	if !strings.Contains(buf.String(), "descendant not placed") {
		t.Errorf("missing spawn failure log: %q", buf.String())
	}
}

func TestEnginePanicIsolated(t *testing.T) {
	var buf bytes.Buffer
	boom := scripted{update: func(*systems.Env, ecs.Entity) error { panic("boom") }}
	e := newTestEngine(t, 5, 5,
		Options{
			Logger:  slog.New(slog.NewTextHandler(&buf, nil)),
			Species: withBehavior(components.KindGrass, boom),
		},
		at(components.KindGrass, 0, 0),
		at(components.KindFox, 3, 3),
	)
	fox := only(t, e, components.Position{X: 3, Y: 3})

	e.Update()

	info, ok := e.Describe(fox)
	if !ok || info.Age != 1 {
		t.Errorf("fox after tick = %+v, %v; later entities should still update", info, ok)
	}
	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "phase=update") || !strings.Contains(out, "kind=Grass") {
		t.Errorf("expected error log with phase and kind, got %q", out)
	}
}

func TestEngineBehaviorErrorIsolated(t *testing.T) {
	var buf bytes.Buffer
	failing := scripted{update: func(*systems.Env, ecs.Entity) error { return errors.New("no luck") }}
	e := newTestEngine(t, 5, 5,
		Options{
			Logger:  slog.New(slog.NewTextHandler(&buf, nil)),
			Species: withBehavior(components.KindFox, failing),
		},
		at(components.KindFox, 0, 0),
		at(components.KindFox, 4, 4),
	)

	e.Update()

	if got := strings.Count(buf.String(), "no luck"); got != 2 {
		t.Errorf("logged %d failures, want 2", got)
	}
	if e.TickCount() != 1 {
		t.Errorf("tick = %d, want 1", e.TickCount())
	}
}

func TestEngineFoxEatsRabbit(t *testing.T) {
	e := newTestEngine(t, 5, 5, Options{},
		at(components.KindFox, 2, 2),
		at(components.KindRabbit, 3, 3),
	)
	fox := only(t, e, components.Position{X: 2, Y: 2})
	e.env.Sims.Get(fox).Hp = 8

	e.Update()

	if c := e.Census(); c.Rabbits != 0 || c.Foxes != 1 {
		t.Fatalf("census = %+v", c)
	}
	if got := only(t, e, components.Position{X: 3, Y: 3}); got != fox {
		t.Error("fox did not move onto its prey")
	}
}

func TestEngineReproducesOnce(t *testing.T) {
	home := components.Position{X: 2, Y: 2}
	e := newTestEngine(t, 5, 5, Options{},
		at(components.KindRabbit, 2, 2),
		at(components.KindRabbit, 2, 2),
	)
	parents := e.Grid().Cell(home)

	// Tick 1 forms the pair, tick 2 completes it and spawns.
	e.Update()
	if info, _ := e.Describe(parents[0]); !info.Paired || !info.Originator {
		t.Fatalf("first rabbit should lead a pair: %+v", info)
	}
	if c := e.Census(); c.Rabbits != 2 {
		t.Fatalf("rabbits after pairing = %d, want 2", c.Rabbits)
	}

	e.Update()
	cell := e.Grid().Cell(home)
	if len(cell) != 3 {
		t.Fatalf("cell holds %d rabbits, want 3", len(cell))
	}
	kit, _ := e.Describe(cell[2])
	if kit.Invincibility != e.Config().Rabbit.Invincibility || kit.Age != 0 {
		t.Errorf("kit = %+v", kit)
	}
	for _, p := range parents {
		info, _ := e.Describe(p)
		if info.Paired || info.MatingCooldown != e.Config().Rabbit.MatingCooldown {
			t.Errorf("parent after birth = %+v", info)
		}
	}

	e.Update()
	if c := e.Census(); c.Rabbits != 3 {
		t.Errorf("rabbits after third tick = %d, want 3", c.Rabbits)
	}
}

func TestEngineDeadPartnerSeversPair(t *testing.T) {
	e := newTestEngine(t, 5, 5, Options{},
		at(components.KindFox, 1, 1),
		at(components.KindFox, 2, 2),
	)
	a := only(t, e, components.Position{X: 1, Y: 1})
	b := only(t, e, components.Position{X: 2, Y: 2})

	e.Update()
	if info, _ := e.Describe(b); !info.Paired || info.Partner != a {
		t.Fatalf("foxes did not pair: %+v", info)
	}

	e.env.Sims.Get(b).Hp = 0
	e.Update()

	if _, ok := e.Describe(b); ok {
		t.Fatal("starved fox survived")
	}
	if info, _ := e.Describe(a); info.Paired || !info.Partner.IsZero() {
		t.Errorf("survivor still paired: %+v", info)
	}
}

func TestEngineGrassSpreads(t *testing.T) {
	e := newTestEngine(t, 3, 3, Options{}, at(components.KindGrass, 1, 1))

	// Tick 1 grows the seed to a tuft, which then seeds one neighbour.
	e.Update()
	if c := e.Census(); c.Grass != 2 {
		t.Errorf("grass after one tick = %d, want 2", c.Grass)
	}
	prev := 2
	for range 10 {
		e.Update()
		c := e.Census()
		if c.Grass < prev || c.Grass > 9 {
			t.Fatalf("grass = %d after %d", c.Grass, prev)
		}
		prev = c.Grass
	}
	if prev < 4 {
		t.Errorf("grass barely spread: %d", prev)
	}
	for s := range e.Placements() {
		for _, info := range e.CellInfo(s.Pos) {
			if info.Offspring > e.Config().Grass.MaxOffspring {
				t.Errorf("grass at %v has %d offspring", s.Pos, info.Offspring)
			}
		}
	}
}

func TestEngineDeterministicWithSeed(t *testing.T) {
	var sims []components.Spawn
	for i := 0; i < 40; i++ {
		sims = append(sims, at(components.KindGrass, (i*7)%20, (i*3)%20))
	}
	for i := 0; i < 12; i++ {
		sims = append(sims, at(components.KindRabbit, (i*5+1)%20, (i*11+2)%20))
	}
	for i := 0; i < 4; i++ {
		sims = append(sims, at(components.KindFox, (i*13+3)%20, (i*7+5)%20))
	}

	run := func(seed int64) (Census, []components.Spawn) {
		e := newTestEngine(t, 20, 20, Options{Seed: seed}, sims...)
		for range 60 {
			e.Update()
		}
		return e.Census(), slices.Collect(e.Placements())
	}

	c1, p1 := run(7)
	c2, p2 := run(7)
	if c1 != c2 {
		t.Errorf("census differs: %+v vs %+v", c1, c2)
	}
	if !slices.Equal(p1, p2) {
		t.Error("placements differ between runs with the same seed")
	}
}

func TestEngineCloseFlushesPartialWindow(t *testing.T) {
	var windows []telemetry.WindowStats
	e := newTestEngine(t, 5, 5,
		Options{OnStats: func(s telemetry.WindowStats) { windows = append(windows, s) }},
		at(components.KindGrass, 2, 2),
		at(components.KindRabbit, 0, 0),
	)

	for range 3 {
		e.Update()
	}
	if len(windows) != 0 {
		t.Fatalf("window flushed early: %+v", windows)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if len(windows) != 1 || windows[0].WindowEndTick != 3 {
		t.Fatalf("windows = %+v", windows)
	}

	e.Update()
	if e.TickCount() != 3 {
		t.Errorf("closed engine ticked to %d", e.TickCount())
	}
}

func TestEngineBookmarkCallback(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.StatsWindow = 1

	var got []telemetry.Bookmark
	e := New(cfg, Options{
		Logger:     discardLogger(),
		Width:      4,
		Height:     4,
		OnBookmark: func(b telemetry.Bookmark) { got = append(got, b) },
	}, at(components.KindRabbit, 1, 1))

	e.Update()

	found := false
	for _, b := range got {
		if b.Type == telemetry.BookmarkExtinction {
			found = true
		}
	}
	if !found {
		t.Errorf("expected fox extinction bookmark, got %+v", got)
	}
}
