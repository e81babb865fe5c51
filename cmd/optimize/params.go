// Package main provides CMA-ES optimization for warren species constants.
package main

import (
	"math"

	"github.com/pthm-cable/warren/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
// Every parameter is an integer in the config; values are rounded when applied.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Rabbit (metabolism locked at 1)
			{Name: "rabbit_max_hp", Path: "rabbit.max_hp", Min: 2, Max: 12, Default: 5},
			{Name: "rabbit_nutrition", Path: "rabbit.nutrition", Min: 1, Max: 10, Default: 3},
			{Name: "rabbit_sense_radius", Path: "rabbit.sense_radius", Min: 1, Max: 4, Default: 2},
			{Name: "rabbit_cooldown", Path: "rabbit.mating_cooldown", Min: 1, Max: 25, Default: 10},
			{Name: "rabbit_invincibility", Path: "rabbit.invincibility", Min: 0, Max: 8, Default: 3},
			// Fox (metabolism locked at 1, nutrition locked at 0)
			{Name: "fox_max_hp", Path: "fox.max_hp", Min: 4, Max: 25, Default: 10},
			{Name: "fox_sense_radius", Path: "fox.sense_radius", Min: 1, Max: 4, Default: 2},
			{Name: "fox_cooldown", Path: "fox.mating_cooldown", Min: 2, Max: 40, Default: 15},
			// Grass
			{Name: "grass_max_offspring", Path: "grass.max_offspring", Min: 1, Max: 6, Default: 2},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds and rounds them to integers.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Round(min(max(v[i], spec.Min), spec.Max))
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	i := 0
	next := func() int {
		v := int(clamped[i])
		i++
		return v
	}

	cfg.Rabbit.Metabolism = 1
	cfg.Rabbit.MaxHp = next()
	cfg.Rabbit.Nutrition = next()
	cfg.Rabbit.SenseRadius = next()
	cfg.Rabbit.MatingCooldown = next()
	cfg.Rabbit.Invincibility = next()

	cfg.Fox.Metabolism = 1
	cfg.Fox.Nutrition = 0
	cfg.Fox.MaxHp = next()
	cfg.Fox.SenseRadius = next()
	cfg.Fox.MatingCooldown = next()

	cfg.Grass.MaxOffspring = next()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Rabbit.MaxHp),
		float64(cfg.Rabbit.Nutrition),
		float64(cfg.Rabbit.SenseRadius),
		float64(cfg.Rabbit.MatingCooldown),
		float64(cfg.Rabbit.Invincibility),
		float64(cfg.Fox.MaxHp),
		float64(cfg.Fox.SenseRadius),
		float64(cfg.Fox.MatingCooldown),
		float64(cfg.Grass.MaxOffspring),
	}
}
