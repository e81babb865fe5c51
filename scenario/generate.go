package scenario

import (
	"math/rand"

	"github.com/pthm-cable/warren/components"
	"github.com/pthm-cable/warren/config"
)

// Generate scatters the given population uniformly over a width x height grid.
// Placements are drawn from r, so the same seed yields the same scenario.
func Generate(r *rand.Rand, width, height int, pop config.InitialConfig) *Scenario {
	sc := &Scenario{Width: width, Height: height}
	for _, group := range []struct {
		kind  components.Kind
		count int
	}{
		{components.KindGrass, pop.Grass},
		{components.KindRabbit, pop.Rabbits},
		{components.KindFox, pop.Foxes},
	} {
		for range group.count {
			pos := components.Position{X: r.Intn(width), Y: r.Intn(height)}
			sc.Sims = append(sc.Sims, components.Spawn{Kind: group.kind, Pos: pos})
		}
	}
	return sc
}
