package components

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
)

func TestLifecycleCountersFloorAtZero(t *testing.T) {
	var lc Lifecycle
	lc.SetInvincibility(2)
	lc.SetMatingCooldown(1)

	for i := 0; i < 5; i++ {
		lc.Countdown(1)
		if lc.Invincibility() < 0 || lc.MatingCooldown() < 0 {
			t.Fatalf("step %d: negative counter observed", i)
		}
	}
	if lc.Invincibility() != 0 || lc.MatingCooldown() != 0 {
		t.Errorf("counters = %d/%d, want 0/0", lc.Invincibility(), lc.MatingCooldown())
	}
}

func TestLifecycleJoinLeave(t *testing.T) {
	var lc Lifecycle
	if lc.Pair.Pending() || lc.Leads() || lc.Follows() {
		t.Fatal("zero lifecycle should be unpaired")
	}

	w := ecs.NewWorld()
	partner := ecs.NewMap1[Position](w).NewEntity(&Position{})
	lc.Join(partner, false)
	if !lc.Follows() || lc.Leads() {
		t.Error("non-originator should follow")
	}

	lc.Leave()
	if lc.HasMatingPartner || lc.Pair.Pending() {
		t.Error("Leave did not clear the pair")
	}
}

func TestSimNext(t *testing.T) {
	var s Sim
	if _, ok := s.Next(); ok {
		t.Fatal("zero sim has an intent")
	}
	s.SetNext(Position{X: 1, Y: 2})
	if p, ok := s.Next(); !ok || p != (Position{X: 1, Y: 2}) {
		t.Errorf("Next() = %v, %v", p, ok)
	}
	s.ClearNext()
	if _, ok := s.Next(); ok {
		t.Error("ClearNext did not clear")
	}
}

func TestKindNames(t *testing.T) {
	want := map[Kind]string{KindGrass: "Grass", KindRabbit: "Rabbit", KindFox: "Fox"}
	for k, name := range want {
		if k.String() != name {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), name)
		}
	}
	if KindGrass.IsAnimal() || !KindFox.IsAnimal() {
		t.Error("IsAnimal mismatch")
	}
}
