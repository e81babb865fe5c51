package scenario

import (
	"strings"
	"sync"

	"github.com/pthm-cable/warren/components"
)

// QualifiedPrefix may precede a species name, as in "Entities.Rabbit".
const QualifiedPrefix = "Entities."

// Constructor describes the entity a scenario line places at pos.
type Constructor func(pos components.Position) components.Spawn

var (
	mu           sync.RWMutex
	constructors = map[string]Constructor{}
)

func init() {
	for _, k := range components.Kinds {
		Register(k.String(), KindConstructor(k))
	}
}

// KindConstructor returns a Constructor placing a pre-existing (non-newborn) entity of kind k.
func KindConstructor(k components.Kind) Constructor {
	return func(pos components.Position) components.Spawn {
		return components.Spawn{Kind: k, Pos: pos}
	}
}

// Register binds a species name to its constructor, replacing any previous binding.
func Register(name string, c Constructor) {
	mu.Lock()
	defer mu.Unlock()
	constructors[name] = c
}

// Lookup resolves a species name, with or without the qualified prefix.
func Lookup(name string) (Constructor, bool) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := constructors[strings.TrimPrefix(name, QualifiedPrefix)]
	return c, ok
}
