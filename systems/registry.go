package systems

import (
	"fmt"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
)

// Behavior is the per-species capability contract dispatched by the engine.
type Behavior interface {
	// Update reads the neighbourhood, mutates components and declares intents.
	// It never changes grid occupancy.
	Update(env *Env, e ecs.Entity) error
	// ShouldDie is evaluated once per tick after every Update.
	ShouldDie(env *Env, e ecs.Entity) bool
	// NewDescendant optionally yields a child to be placed by the engine.
	NewDescendant(env *Env, e ecs.Entity) (components.Spawn, bool)
}

// SpeciesInfo describes a species for dispatch and UI display.
type SpeciesInfo struct {
	Kind        components.Kind
	Name        string // Display name, also the scenario token
	Description string
	Behavior    Behavior
}

// SpeciesRegistry maps each kind to its behavior.
// This centralizes species naming so the loader, engine and UI stay in sync.
type SpeciesRegistry struct {
	species []SpeciesInfo
	byKind  map[components.Kind]SpeciesInfo
}

// NewSpeciesRegistry creates a registry with all known species.
func NewSpeciesRegistry() *SpeciesRegistry {
	reg := &SpeciesRegistry{
		byKind: make(map[components.Kind]SpeciesInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the built-in species.
func (r *SpeciesRegistry) registerDefaults() {
	r.Register(SpeciesInfo{Kind: components.KindGrass, Name: "Grass", Description: "Grows in place and spreads to empty neighbours", Behavior: GrassBehavior{}})
	r.Register(SpeciesInfo{Kind: components.KindRabbit, Name: "Rabbit", Description: "Grazes, avoids foxes, pairs to breed", Behavior: RabbitBehavior{}})
	r.Register(SpeciesInfo{Kind: components.KindFox, Name: "Fox", Description: "Hunts rabbits, pairs to breed", Behavior: FoxBehavior{}})
}

// Register adds or replaces a species.
func (r *SpeciesRegistry) Register(info SpeciesInfo) {
	if i := slices.IndexFunc(r.species, func(s SpeciesInfo) bool { return s.Kind == info.Kind }); i >= 0 {
		r.species[i] = info
	} else {
		r.species = append(r.species, info)
	}
	r.byKind[info.Kind] = info
}

// Get returns species info by kind.
func (r *SpeciesRegistry) Get(kind components.Kind) (SpeciesInfo, bool) {
	info, ok := r.byKind[kind]
	return info, ok
}

// Behavior returns the behavior registered for kind.
func (r *SpeciesRegistry) Behavior(kind components.Kind) (Behavior, error) {
	info, ok := r.byKind[kind]
	if !ok || info.Behavior == nil {
		return nil, fmt.Errorf("no behavior registered for %v", kind)
	}
	return info.Behavior, nil
}

// GetName returns the display name for a kind.
// Falls back to the kind's own string if not found.
func (r *SpeciesRegistry) GetName(kind components.Kind) string {
	if info, ok := r.byKind[kind]; ok {
		return info.Name
	}
	return kind.String()
}

// All returns all registered species in registration order.
func (r *SpeciesRegistry) All() []SpeciesInfo {
	return r.species
}
