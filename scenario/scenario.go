// Package scenario reads and writes the plain-text scenario format.
//
// The first line holds the grid dimensions as <width>x<height>. Every further
// non-blank line places one entity as <Species>,<x>,<y>; fields may also be
// separated by semicolons and surrounding whitespace is ignored.
//
//	16x12
//	Grass,1,1
//	Rabbit;3;3
//	Entities.Fox, 5, 5
package scenario

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pthm-cable/warren/components"
)

var (
	ErrDimensions     = errors.New("invalid grid dimensions")
	ErrFieldCount     = errors.New("expected <Species>,<x>,<y>")
	ErrCoordinate     = errors.New("invalid coordinate")
	ErrUnknownSpecies = errors.New("unknown species")
)

// LineError reports the scenario line a parse failure happened on.
type LineError struct {
	Line int    // 1-based
	Text string // Raw line as read
	File string // Empty when parsing in-memory lines
	Err  error
}

func (e *LineError) Error() string {
	msg := fmt.Sprintf("Error on line %d at '%s'", e.Line, e.Text)
	if e.File != "" {
		msg += fmt.Sprintf(" in '%s'", e.File)
	}
	return msg + ": " + e.Err.Error()
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Scenario is a parsed scenario: grid dimensions and the entities to place, in file order.
type Scenario struct {
	Width, Height int
	Sims          []components.Spawn
}

// Parse reads a scenario from its lines. Nothing is built; coordinates are
// only checked to be integers, bounds are enforced when the sims are inserted.
func Parse(lines []string) (*Scenario, error) {
	if len(lines) == 0 {
		return nil, &LineError{Line: 1, Err: ErrDimensions}
	}

	w, h, err := parseDimensions(lines[0])
	if err != nil {
		return nil, &LineError{Line: 1, Text: lines[0], Err: err}
	}

	sc := &Scenario{Width: w, Height: h}
	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		spawn, err := parseSim(line)
		if err != nil {
			return nil, &LineError{Line: i + 2, Text: line, Err: err}
		}
		sc.Sims = append(sc.Sims, spawn)
	}
	return sc, nil
}

func parseDimensions(line string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(line)), "x")
	if !ok {
		return 0, 0, ErrDimensions
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil || w <= 0 {
		return 0, 0, ErrDimensions
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil || h <= 0 {
		return 0, 0, ErrDimensions
	}
	return w, h, nil
}

func parseSim(line string) (components.Spawn, error) {
	// Empty fields count, so stray separators change the field count.
	fields := strings.Split(strings.ReplaceAll(line, ";", ","), ",")
	if len(fields) != 3 {
		return components.Spawn{}, fmt.Errorf("%w: got %d fields", ErrFieldCount, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
		if fields[i] == "" {
			return components.Spawn{}, fmt.Errorf("%w: field %d is empty", ErrFieldCount, i+1)
		}
	}

	ctor, ok := Lookup(fields[0])
	if !ok {
		return components.Spawn{}, fmt.Errorf("%w: %q", ErrUnknownSpecies, fields[0])
	}
	x, err := strconv.Atoi(fields[1])
	if err != nil {
		return components.Spawn{}, fmt.Errorf("%w: x=%q", ErrCoordinate, fields[1])
	}
	y, err := strconv.Atoi(fields[2])
	if err != nil {
		return components.Spawn{}, fmt.Errorf("%w: y=%q", ErrCoordinate, fields[2])
	}
	return ctor(components.Position{X: x, Y: y}), nil
}
