package telemetry

import "github.com/pthm-cable/warren/components"

// LifetimeStats tracks per-entity statistics over its lifetime.
type LifetimeStats struct {
	Kind      components.Kind
	BirthTick int32

	Meals    int
	Children int
	PeakHp   int
}

// LifetimeTracker manages per-entity lifetime statistics, keyed by entity id.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new entity.
func (lt *LifetimeTracker) Register(entityID uint32, kind components.Kind, birthTick int32, hp int) {
	lt.stats[entityID] = &LifetimeStats{
		Kind:      kind,
		BirthTick: birthTick,
		PeakHp:    hp,
	}
}

// Get returns the lifetime stats for an entity, or nil if not found.
func (lt *LifetimeTracker) Get(entityID uint32) *LifetimeStats {
	return lt.stats[entityID]
}

// Remove removes an entity's stats and returns them.
func (lt *LifetimeTracker) Remove(entityID uint32) *LifetimeStats {
	stats := lt.stats[entityID]
	delete(lt.stats, entityID)
	return stats
}

// RecordMeal increments the meal count.
func (lt *LifetimeTracker) RecordMeal(entityID uint32) {
	if s := lt.stats[entityID]; s != nil {
		s.Meals++
	}
}

// RecordChild increments children count.
func (lt *LifetimeTracker) RecordChild(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// UpdateHp tracks peak Hp.
func (lt *LifetimeTracker) UpdateHp(entityID uint32, hp int) {
	if s := lt.stats[entityID]; s != nil && hp > s.PeakHp {
		s.PeakHp = hp
	}
}

// Lifespan returns how many ticks the entity has lived as of currentTick.
func (s *LifetimeStats) Lifespan(currentTick int32) int32 {
	if s == nil {
		return 0
	}
	return currentTick - s.BirthTick
}

// Count returns the number of tracked entities.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
