package systems

import "github.com/pthm-cable/warren/components"

// RandomStep picks uniformly among the in-bounds cells of the 3x3 block around pos,
// pos itself included.
func RandomStep(env *Env, pos components.Position) components.Position {
	var options [9]components.Position
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			p := pos.Add(dx, dy)
			if env.Grid.InBounds(p) {
				options[n] = p
				n++
			}
		}
	}
	if n == 0 {
		return pos
	}
	return options[env.Rand.Intn(n)]
}

// EmptyNeighbours appends the in-bounds Moore neighbours of pos that have no occupants.
func EmptyNeighbours(dst []components.Position, grid GridView, pos components.Position) []components.Position {
	for _, off := range components.Neighbours8 {
		p := pos.Add(off[0], off[1])
		if grid.InBounds(p) && grid.Count(p) == 0 {
			dst = append(dst, p)
		}
	}
	return dst
}
