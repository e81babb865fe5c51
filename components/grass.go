package components

// GrassState is a rung on the grass growth ladder.
type GrassState uint8

const (
	GrassSeed GrassState = iota
	GrassTuft
	GrassTender
)

// String returns the ladder rung name.
func (s GrassState) String() string {
	switch s {
	case GrassSeed:
		return "Seed"
	case GrassTuft:
		return "Tuft"
	case GrassTender:
		return "Tender"
	}
	return "Unknown"
}

// Grass holds the growth ladder and spreading budget of a grass tuft.
type Grass struct {
	State     GrassState
	Offspring int // Descendants spawned so far
}

// Grow advances the ladder, capped at Tender.
func (g *Grass) Grow(levels int) {
	next := int(g.State) + levels
	if next > int(GrassTender) {
		next = int(GrassTender)
	}
	if next < int(GrassSeed) {
		next = int(GrassSeed)
	}
	g.State = GrassState(next)
}

// Nutrition returns the Hp an eater would gain right now.
func (g *Grass) Nutrition() int {
	return int(g.State)
}

// CanBeEaten reports whether the grass has grown past Seed.
func (g *Grass) CanBeEaten() bool {
	return g.State != GrassSeed
}

// GetEaten returns the pre-depletion nutrition and drops one rung, never below Seed.
func (g *Grass) GetEaten() int {
	value := g.Nutrition()
	if g.State > GrassSeed {
		g.State--
	}
	return value
}
