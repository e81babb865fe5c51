package components

import "github.com/mlange-42/ark/ecs"

// Lifecycle holds the ageing and mating state of an animal.
// Counters are stored raw and may go negative; accessors floor them at zero.
type Lifecycle struct {
	invincibility  int
	matingCooldown int

	HasMatingPartner bool
	Pair             MatingPair
}

// MatingPair is one side of a symmetric pairing between two animals of the same kind.
// The partner is an arena handle, so a dead partner is detectable with World.Alive.
type MatingPair struct {
	Partner    ecs.Entity
	Originator bool // The side that formed the pair; it leads movement and spawns the child
	Complete   bool // Set by the originator once both partners share a cell
}

// Pending reports whether a pairing is in progress.
func (p MatingPair) Pending() bool {
	return !p.Partner.IsZero()
}

// Invincibility returns the remaining protected ticks, never below zero.
func (l *Lifecycle) Invincibility() int {
	return max(l.invincibility, 0)
}

// SetInvincibility sets the protected tick count.
func (l *Lifecycle) SetInvincibility(ticks int) {
	l.invincibility = ticks
}

// MatingCooldown returns the remaining cooldown ticks, never below zero.
func (l *Lifecycle) MatingCooldown() int {
	return max(l.matingCooldown, 0)
}

// SetMatingCooldown sets the cooldown tick count.
func (l *Lifecycle) SetMatingCooldown(ticks int) {
	l.matingCooldown = ticks
}

// Countdown decrements both counters by unit.
func (l *Lifecycle) Countdown(unit int) {
	l.invincibility -= unit
	l.matingCooldown -= unit
}

// Join records a pairing with partner on this side.
func (l *Lifecycle) Join(partner ecs.Entity, originator bool) {
	l.HasMatingPartner = true
	l.Pair = MatingPair{Partner: partner, Originator: originator}
}

// Leave clears this side of a pairing.
func (l *Lifecycle) Leave() {
	l.HasMatingPartner = false
	l.Pair = MatingPair{}
}

// Leads reports whether this side is the originator of a pending pair.
func (l *Lifecycle) Leads() bool {
	return l.HasMatingPartner && l.Pair.Pending() && l.Pair.Originator
}

// Follows reports whether this side is the non-originating half of a pending pair.
func (l *Lifecycle) Follows() bool {
	return l.HasMatingPartner && l.Pair.Pending() && !l.Pair.Originator
}
