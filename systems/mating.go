package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
)

// FormPair marks a and b as partners on both sides; a becomes the originator.
func FormPair(env *Env, a, b ecs.Entity) bool {
	la, lb := lookup(env.Lifecycles, a), lookup(env.Lifecycles, b)
	if la == nil || lb == nil || a == b {
		return false
	}
	la.Join(b, true)
	lb.Join(a, false)
	if sim := lookup(env.Sims, a); sim != nil {
		env.emit(EventPairFormed, a, sim.Kind)
	}
	return true
}

// SeverPair clears the pairing of e and, if the partner still points back, the partner's too.
// It is safe to call on unpaired or dead entities.
func SeverPair(env *Env, e ecs.Entity) {
	lc := lookup(env.Lifecycles, e)
	if lc == nil || !lc.HasMatingPartner {
		return
	}
	partner := lc.Pair.Partner
	completed := lc.Pair.Complete
	lc.Leave()

	if env.alive(partner) {
		if plc := lookup(env.Lifecycles, partner); plc != nil && plc.Pair.Partner == e {
			plc.Leave()
		}
	}
	if !completed {
		if sim := lookup(env.Sims, e); sim != nil {
			env.emit(EventPairBroken, e, sim.Kind)
		}
	}
}

// partnerOf returns the live partner of e if the pairing is still symmetric.
// A one-sided or dangling pairing is cleared.
func partnerOf(env *Env, e ecs.Entity, lc *components.Lifecycle) (ecs.Entity, bool) {
	if !lc.HasMatingPartner {
		return ecs.Entity{}, false
	}
	partner := lc.Pair.Partner
	if !env.alive(partner) {
		lc.Leave()
		return ecs.Entity{}, false
	}
	plc := lookup(env.Lifecycles, partner)
	if plc == nil || plc.Pair.Partner != e {
		lc.Leave()
		return ecs.Entity{}, false
	}
	return partner, true
}

// canPair reports whether an animal is free to enter a pairing.
func canPair(sim *components.Sim, lc *components.Lifecycle) bool {
	return !lc.HasMatingPartner && lc.MatingCooldown() == 0 && sim.Hp > 0
}

// tryPair forms a pair with the only other same-kind animal in range.
// Crowds of two or more candidates do not pair.
func tryPair(env *Env, e ecs.Entity, sim *components.Sim, lc *components.Lifecycle, mates []Neighbor) bool {
	if !canPair(sim, lc) || len(mates) != 1 {
		return false
	}
	mate := mates[0].E
	msim, mlc := lookup(env.Sims, mate), lookup(env.Lifecycles, mate)
	if msim == nil || mlc == nil || !canPair(msim, mlc) {
		return false
	}
	return FormPair(env, e, mate)
}

// Offspring spawns the child of a completed pair led by e at the leader's position,
// releases both partners and starts their cooldowns.
func Offspring(env *Env, e ecs.Entity) (components.Spawn, bool) {
	lc := lookup(env.Lifecycles, e)
	sim := lookup(env.Sims, e)
	pos := lookup(env.Positions, e)
	if lc == nil || sim == nil || pos == nil || !lc.Leads() || !lc.Pair.Complete {
		return components.Spawn{}, false
	}

	cooldown := env.Animal(sim.Kind).MatingCooldown
	partner, ok := partnerOf(env, e, lc)
	if !ok {
		return components.Spawn{}, false
	}
	plc := lookup(env.Lifecycles, partner)

	lc.Leave()
	plc.Leave()
	lc.SetMatingCooldown(cooldown)
	plc.SetMatingCooldown(cooldown)

	return components.Spawn{Kind: sim.Kind, Pos: *pos, Newborn: true}, true
}
