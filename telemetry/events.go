// Package telemetry provides ecosystem health tracking, bookmarking, and CSV output.
package telemetry

import "github.com/pthm-cable/warren/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventBirth EventType = iota
	EventDeath
	EventGraze       // An animal ate grass
	EventPrey        // A predator ate an animal
	EventPairFormed  // Two animals paired up
	EventPairBroken  // A pairing ended without offspring
	EventFailedMove  // A declared move was rejected by the grid
	EventFailedSpawn // A descendant could not be placed
	EventEntityError // A behavior returned an error or panicked
)

var eventTypeNames = [...]string{
	EventBirth:       "birth",
	EventDeath:       "death",
	EventGraze:       "graze",
	EventPrey:        "prey",
	EventPairFormed:  "pair_formed",
	EventPairBroken:  "pair_broken",
	EventFailedMove:  "failed_move",
	EventFailedSpawn: "failed_spawn",
	EventEntityError: "entity_error",
}

// String returns the snake_case event name.
func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int32
	EntityID uint32
	Kind     components.Kind // Species the event is about (the actor for graze/prey)
}

// NewBirthEvent creates a birth event.
func NewBirthEvent(tick int32, entityID uint32, kind components.Kind) Event {
	return Event{Type: EventBirth, Tick: tick, EntityID: entityID, Kind: kind}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(tick int32, entityID uint32, kind components.Kind) Event {
	return Event{Type: EventDeath, Tick: tick, EntityID: entityID, Kind: kind}
}
