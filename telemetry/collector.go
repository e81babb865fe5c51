package telemetry

import "github.com/pthm-cable/warren/components"

// Population holds entity counts per species at one instant.
type Population struct {
	Grass   int
	Rabbits int
	Foxes   int
}

// Of returns the count for a kind.
func (p Population) Of(kind components.Kind) int {
	switch kind {
	case components.KindGrass:
		return p.Grass
	case components.KindRabbit:
		return p.Rabbits
	case components.KindFox:
		return p.Foxes
	}
	return p.Grass + p.Rabbits + p.Foxes
}

// Add increments the count for a kind by n.
func (p *Population) Add(kind components.Kind, n int) {
	switch kind {
	case components.KindGrass:
		p.Grass += n
	case components.KindRabbit:
		p.Rabbits += n
	case components.KindFox:
		p.Foxes += n
	}
}

// Total returns the number of entities of every kind.
func (p Population) Total() int {
	return p.Grass + p.Rabbits + p.Foxes
}

// perKind is a small counter array indexed by Kind.
type perKind [4]int

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	births       perKind
	deaths       perKind
	pairsFormed  perKind
	pairsBroken  int
	grazed       int
	preyEaten    int
	failedMoves  int
	failedSpawns int
	entityErrors int

	lifespanSum   perKind
	lifespanCount perKind
}

// NewCollector creates a new stats collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
	}
}

// Record counts an event in the current window.
func (c *Collector) Record(ev Event) {
	k := int(ev.Kind) % len(c.births)
	switch ev.Type {
	case EventBirth:
		c.births[k]++
	case EventDeath:
		c.deaths[k]++
	case EventGraze:
		c.grazed++
	case EventPrey:
		c.preyEaten++
	case EventPairFormed:
		c.pairsFormed[k]++
	case EventPairBroken:
		c.pairsBroken++
	case EventFailedMove:
		c.failedMoves++
	case EventFailedSpawn:
		c.failedSpawns++
	case EventEntityError:
		c.entityErrors++
	}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(kind components.Kind) {
	c.Record(Event{Type: EventBirth, Kind: kind})
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath(kind components.Kind) {
	c.Record(Event{Type: EventDeath, Kind: kind})
}

// RecordLifespan records how many ticks a dead entity lived.
func (c *Collector) RecordLifespan(kind components.Kind, ticks int32) {
	k := int(kind) % len(c.lifespanSum)
	c.lifespanSum[k] += int(ticks)
	c.lifespanCount[k]++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// HasPending reports whether ticks have passed since the last flush.
func (c *Collector) HasPending(currentTick int32) bool {
	return currentTick > c.windowStartTick
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides the population at window end, the number of occupied cells
// and the Hp of every living rabbit and fox.
func (c *Collector) Flush(currentTick int32, pop Population, occupied int, rabbitHp, foxHp []float64) WindowStats {
	rabbit := ComputeHpStats(rabbitHp)
	fox := ComputeHpStats(foxHp)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		Grass:         pop.Grass,
		Rabbits:       pop.Rabbits,
		Foxes:         pop.Foxes,
		OccupiedCells: occupied,

		GrassBirths:  c.births[components.KindGrass],
		RabbitBirths: c.births[components.KindRabbit],
		FoxBirths:    c.births[components.KindFox],
		RabbitDeaths: c.deaths[components.KindRabbit],
		FoxDeaths:    c.deaths[components.KindFox],

		Grazed:       c.grazed,
		RabbitsEaten: c.preyEaten,
		RabbitPairs:  c.pairsFormed[components.KindRabbit],
		FoxPairs:     c.pairsFormed[components.KindFox],
		PairsBroken:  c.pairsBroken,

		FailedMoves:  c.failedMoves,
		FailedSpawns: c.failedSpawns,
		EntityErrors: c.entityErrors,

		RabbitHpMean: rabbit.Mean,
		RabbitHpStd:  rabbit.Std,
		RabbitHpP10:  rabbit.P10,
		RabbitHpP50:  rabbit.P50,
		RabbitHpP90:  rabbit.P90,

		FoxHpMean: fox.Mean,
		FoxHpStd:  fox.Std,
		FoxHpP10:  fox.P10,
		FoxHpP50:  fox.P50,
		FoxHpP90:  fox.P90,

		RabbitLifespanMean: c.meanLifespan(components.KindRabbit),
		FoxLifespanMean:    c.meanLifespan(components.KindFox),
	}

	// Reset for next window
	*c = Collector{
		windowDurationTicks: c.windowDurationTicks,
		windowStartTick:     currentTick,
	}

	return stats
}

func (c *Collector) meanLifespan(kind components.Kind) float64 {
	if c.lifespanCount[kind] == 0 {
		return 0
	}
	return float64(c.lifespanSum[kind]) / float64(c.lifespanCount[kind])
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
