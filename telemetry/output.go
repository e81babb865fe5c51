package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/warren/config"
)

// Output file names inside the output directory.
const (
	TelemetryFile = "telemetry.csv"
	PerfFile      = "perf.csv"
	BookmarksFile = "bookmarks.csv"
	ConfigFile    = "config.yaml"
	SnapshotDir   = "snapshots"
)

// csvFile is an append-only CSV file whose header is written with the first record.
type csvFile struct {
	name          string
	f             *os.File
	headerWritten bool
}

func createCSV(dir, name string) (*csvFile, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvFile{name: name, f: f}, nil
}

// appendRecord writes one row, preceded by the header on first use.
func appendRecord[T any](cf *csvFile, rec T) error {
	records := []T{rec}
	var err error
	if !cf.headerWritten {
		err = gocsv.Marshal(records, cf.f)
	} else {
		err = gocsv.MarshalWithoutHeaders(records, cf.f)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", cf.name, err)
	}
	cf.headerWritten = true
	return nil
}

// OutputManager handles structured experiment output with CSV logging.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvFile
	perf      *csvFile
	bookmarks *csvFile
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.telemetry, err = createCSV(dir, TelemetryFile); err != nil {
		return nil, err
	}
	if om.perf, err = createCSV(dir, PerfFile); err != nil {
		om.Close()
		return nil, err
	}
	if om.bookmarks, err = createCSV(dir, BookmarksFile); err != nil {
		om.Close()
		return nil, err
	}

	return om, nil
}

// WriteConfig saves the effective configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return appendRecord(om.telemetry, stats)
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return appendRecord(om.perf, stats.ToCSV(windowEnd))
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return appendRecord(om.bookmarks, b)
}

// SnapshotPath returns where the grid snapshot for a bookmark should be written,
// creating the snapshot directory if needed. Returns "" when output is disabled.
func (om *OutputManager) SnapshotPath(b Bookmark) (string, error) {
	if om == nil {
		return "", nil
	}
	dir := filepath.Join(om.dir, SnapshotDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating snapshot directory: %w", err)
	}
	return filepath.Join(dir, fmt.Sprintf("tick_%06d_%s.txt", b.Tick, b.Type)), nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var errs []error
	for _, cf := range []*csvFile{om.telemetry, om.perf, om.bookmarks} {
		if cf == nil {
			continue
		}
		if err := cf.f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", cf.name, err))
		}
	}
	return errors.Join(errs...)
}
