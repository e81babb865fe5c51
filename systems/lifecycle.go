package systems

import "github.com/pthm-cable/warren/components"

// IncreaseAge adds unit to the age and runs the lifecycle countdowns by the same amount.
func IncreaseAge(sim *components.Sim, lc *components.Lifecycle, unit int) {
	sim.Age += unit
	if lc != nil {
		lc.Countdown(unit)
	}
}

// Starved reports whether an animal has run out of Hp.
func Starved(sim *components.Sim) bool {
	return sim.Hp < 1
}

// Hungry reports whether an animal has room to eat.
func Hungry(sim *components.Sim, maxHp int) bool {
	return sim.Hp < maxHp
}

// Feed adds value to Hp, capped at maxHp.
func Feed(sim *components.Sim, value, maxHp int) {
	sim.Hp = min(sim.Hp+value, maxHp)
}
