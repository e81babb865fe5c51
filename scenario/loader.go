package scenario

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pthm-cable/warren/config"
	"github.com/pthm-cable/warren/game"
)

// Load parses lines and builds an engine sized to the scenario. Grid dimensions
// in opts are overridden. On a parse error no engine is built.
func Load(lines []string, cfg *config.Config, opts game.Options) (*game.Engine, error) {
	sc, err := Parse(lines)
	if err != nil {
		return nil, err
	}
	return sc.Engine(cfg, opts), nil
}

// LoadFile is Load over the lines of a file.
func LoadFile(path string, cfg *config.Config, opts game.Options) (*game.Engine, error) {
	sc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return sc.Engine(cfg, opts), nil
}

// ParseFile parses the scenario stored at path. Line errors carry the file name.
func ParseFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario: %w", err)
	}
	defer f.Close()

	lines, err := readLines(f)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %s: %w", path, err)
	}

	sc, err := Parse(lines)
	if err != nil {
		var le *LineError
		if errors.As(err, &le) {
			le.File = path
		}
		return nil, err
	}
	return sc, nil
}

// Engine builds an engine over the scenario's grid and inserts its sims.
func (sc *Scenario) Engine(cfg *config.Config, opts game.Options) *game.Engine {
	opts.Width, opts.Height = sc.Width, sc.Height
	return game.New(cfg, opts, sc.Sims...)
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

// Write exports the engine's current occupancy in scenario format,
// in row-major then in-cell order.
func Write(w io.Writer, e *game.Engine) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%dx%d\n", e.Grid().Width(), e.Grid().Height())
	for s := range e.Placements() {
		fmt.Fprintf(bw, "%s,%d,%d\n", s.Kind, s.Pos.X, s.Pos.Y)
	}
	return bw.Flush()
}

// WriteFile writes the engine's occupancy to path, creating or truncating it.
func WriteFile(path string, e *game.Engine) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating scenario file: %w", err)
	}
	if err := Write(f, e); err != nil {
		f.Close()
		return fmt.Errorf("writing scenario file: %w", err)
	}
	return f.Close()
}
