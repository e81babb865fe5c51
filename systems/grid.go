// Package systems provides the grid and per-species behaviors of the simulation.
package systems

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/warren/components"
)

// Grid mutation failures. All of them are recoverable.
var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrCellFull    = errors.New("cell at capacity")
	ErrNotPresent  = errors.New("entity not in cell")
	ErrDisplaced   = errors.New("insert failed after remove, entity returned to source")
	ErrOrphaned    = errors.New("insert failed after remove, entity has no cell")
)

// DefaultCellCapacity is the number of occupants a cell holds unless configured otherwise.
const DefaultCellCapacity = 8

// Neighbor holds a nearby entity with its precomputed offset from the query origin.
type Neighbor struct {
	E      ecs.Entity
	Pos    components.Position
	DX, DY int
}

// Dist returns the Chebyshev distance from the query origin.
func (n Neighbor) Dist() int {
	return max(abs(n.DX), abs(n.DY))
}

// GridView is the read-only face of the grid handed to behaviors and renderers.
type GridView interface {
	Width() int
	Height() int
	Capacity() int
	InBounds(p components.Position) bool
	Cell(p components.Position) []ecs.Entity
	Count(p components.Position) int
	QueryRadiusInto(dst []Neighbor, origin components.Position, radius int, kind components.Kind, exclude ecs.Entity) []Neighbor
	All() iter.Seq2[components.Position, []ecs.Entity]
}

// Grid is a bounded 2D array of capacity-limited, duplicate-tolerant occupant lists.
// It is the only writer of the Position component: an entity's Position always
// equals the cell holding it.
type Grid struct {
	width    int
	height   int
	capacity int
	cells    [][]ecs.Entity // flat, row-major

	posMap *ecs.Map[components.Position]
	simMap *ecs.Map[components.Sim]
}

var _ GridView = (*Grid)(nil)

// NewGrid creates an empty grid. A non-positive capacity falls back to DefaultCellCapacity.
func NewGrid(width, height, capacity int, posMap *ecs.Map[components.Position], simMap *ecs.Map[components.Sim]) *Grid {
	if capacity <= 0 {
		capacity = DefaultCellCapacity
	}
	width = max(width, 0)
	height = max(height, 0)

	cells := make([][]ecs.Entity, width*height)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, min(capacity, 4))
	}

	return &Grid{
		width:    width,
		height:   height,
		capacity: capacity,
		cells:    cells,
		posMap:   posMap,
		simMap:   simMap,
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Capacity returns the maximum number of occupants per cell.
func (g *Grid) Capacity() int { return g.capacity }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p components.Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

func (g *Grid) index(p components.Position) int {
	return p.Y*g.width + p.X
}

// Cell returns a copy of the occupants at p, or nil when p is out of bounds.
func (g *Grid) Cell(p components.Position) []ecs.Entity {
	if !g.InBounds(p) {
		return nil
	}
	return slices.Clone(g.cells[g.index(p)])
}

// Count returns the number of occupants at p (0 when out of bounds).
func (g *Grid) Count(p components.Position) int {
	if !g.InBounds(p) {
		return 0
	}
	return len(g.cells[g.index(p)])
}

// CreateSim inserts e at pos and records pos on the entity.
func (g *Grid) CreateSim(e ecs.Entity, pos components.Position) error {
	if !g.InBounds(pos) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, pos)
	}
	idx := g.index(pos)
	if len(g.cells[idx]) >= g.capacity {
		return fmt.Errorf("%w: %v", ErrCellFull, pos)
	}

	g.cells[idx] = append(g.cells[idx], e)
	if p := lookup(g.posMap, e); p != nil {
		*p = pos
	}
	return nil
}

// RemoveSim removes the first occurrence of e from the cell at pos.
func (g *Grid) RemoveSim(e ecs.Entity, pos components.Position) error {
	if !g.InBounds(pos) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, pos)
	}
	idx := g.index(pos)
	i := slices.Index(g.cells[idx], e)
	if i < 0 {
		return fmt.Errorf("%w: %v", ErrNotPresent, pos)
	}
	g.cells[idx] = slices.Delete(g.cells[idx], i, i+1)
	return nil
}

// MoveSim moves e from one cell to another.
// The destination is validated before anything is removed, so ordinary failures leave
// the entity where it was. If the insert fails after the remove anyway, the entity is
// put back and ErrDisplaced is returned; ErrOrphaned means it could not be put back.
func (g *Grid) MoveSim(e ecs.Entity, from, to components.Position) error {
	if !g.InBounds(to) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, to)
	}
	if from == to {
		if !slices.Contains(g.cells[g.index(to)], e) {
			return fmt.Errorf("%w: %v", ErrNotPresent, from)
		}
		return nil
	}
	if len(g.cells[g.index(to)]) >= g.capacity {
		return fmt.Errorf("%w: %v", ErrCellFull, to)
	}

	if err := g.RemoveSim(e, from); err != nil {
		return err
	}
	if err := g.CreateSim(e, to); err != nil {
		if back := g.CreateSim(e, from); back != nil {
			return errors.Join(ErrOrphaned, err, back)
		}
		return errors.Join(ErrDisplaced, err)
	}
	return nil
}

// QueryRadiusInto appends entities of the given kind found in the window
// [origin.X-radius, origin.X+radius) x [origin.Y-radius, origin.Y+radius) to dst.
// The window is half-open and therefore not centred on the origin; cells outside the
// grid are skipped. Cells are visited row-major and occupants in insertion order.
// KindAny disables the kind filter; exclude (if non-zero) is skipped.
func (g *Grid) QueryRadiusInto(dst []Neighbor, origin components.Position, radius int, kind components.Kind, exclude ecs.Entity) []Neighbor {
	for y := origin.Y - radius; y < origin.Y+radius; y++ {
		for x := origin.X - radius; x < origin.X+radius; x++ {
			p := components.Position{X: x, Y: y}
			if !g.InBounds(p) {
				continue
			}

			for _, e := range g.cells[g.index(p)] {
				if e == exclude {
					continue
				}
				if kind != components.KindAny {
					sim := lookup(g.simMap, e)
					if sim == nil || sim.Kind != kind {
						continue
					}
				}
				dst = append(dst, Neighbor{E: e, Pos: p, DX: x - origin.X, DY: y - origin.Y})
			}
		}
	}
	return dst
}

// QueryRadius returns the entities of a kind in the query window around origin.
func (g *Grid) QueryRadius(origin components.Position, radius int, kind components.Kind) []ecs.Entity {
	neighbors := g.QueryRadiusInto(nil, origin, radius, kind, ecs.Entity{})
	result := make([]ecs.Entity, len(neighbors))
	for i, n := range neighbors {
		result[i] = n.E
	}
	return result
}

// All iterates every cell in row-major order. The yielded slices alias grid storage
// and must not be modified or retained.
func (g *Grid) All() iter.Seq2[components.Position, []ecs.Entity] {
	return func(yield func(components.Position, []ecs.Entity) bool) {
		for y := 0; y < g.height; y++ {
			for x := 0; x < g.width; x++ {
				p := components.Position{X: x, Y: y}
				if !yield(p, slices.Clip(g.cells[g.index(p)])) {
					return
				}
			}
		}
	}
}

// Snapshot appends every occupant to dst in row-major, then in-cell order.
func (g *Grid) Snapshot(dst []ecs.Entity) []ecs.Entity {
	for _, cell := range g.cells {
		dst = append(dst, cell...)
	}
	return dst
}

// Population returns the total number of occupants.
func (g *Grid) Population() int {
	n := 0
	for _, cell := range g.cells {
		n += len(cell)
	}
	return n
}

// Occupied returns the number of non-empty cells.
func (g *Grid) Occupied() int {
	n := 0
	for _, cell := range g.cells {
		if len(cell) > 0 {
			n++
		}
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
