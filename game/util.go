package game

import "github.com/mlange-42/ark/ecs"

// get returns the component of e, or nil if e is dead or does not carry it.
func get[T any](world *ecs.World, m *ecs.Map[T], e ecs.Entity) *T {
	if e.IsZero() || !world.Alive(e) || !m.Has(e) {
		return nil
	}
	return m.Get(e)
}
