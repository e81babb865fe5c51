// Package components defines ECS components for the simulation.
package components

import "fmt"

// Kind identifies the species of a grid entity.
type Kind uint8

const (
	KindAny Kind = iota // Query wildcard, never stored on an entity
	KindGrass
	KindRabbit
	KindFox
)

// Kinds lists every concrete species in registration order.
var Kinds = []Kind{KindGrass, KindRabbit, KindFox}

// String returns the species name used by scenario files.
func (k Kind) String() string {
	switch k {
	case KindGrass:
		return "Grass"
	case KindRabbit:
		return "Rabbit"
	case KindFox:
		return "Fox"
	case KindAny:
		return "Any"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsAnimal reports whether the kind moves, ages and mates.
func (k Kind) IsAnimal() bool {
	return k == KindRabbit || k == KindFox
}

// Matches reports whether k satisfies a query filter.
func (k Kind) Matches(filter Kind) bool {
	return filter == KindAny || filter == k
}

// Sim holds the state shared by every grid entity.
// Position lives in its own component and is written only by the grid.
type Sim struct {
	Kind Kind
	Hp   int
	Age  int

	next    Position
	hasNext bool
}

// SetNext declares where the entity wants to move during the Move phase.
func (s *Sim) SetNext(p Position) {
	s.next = p
	s.hasNext = true
}

// ClearNext drops any pending movement intent.
func (s *Sim) ClearNext() {
	s.next = Position{}
	s.hasNext = false
}

// Next returns the declared movement intent, if any.
func (s *Sim) Next() (Position, bool) {
	return s.next, s.hasNext
}

// Spawn describes an entity to be created and placed by the engine.
// Loaders and reproducing parents produce Spawns; they never touch the grid.
type Spawn struct {
	Kind Kind
	Pos  Position

	// Newborn entities get the species' configured invincibility.
	Newborn bool
}
