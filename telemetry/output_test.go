package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/warren/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	// A nil manager discards everything.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: int32(i * 50), Rabbits: i}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkExtinction, Tick: 150, Description: "No foxes left"}); err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, TelemetryFile))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,grass,rabbits,foxes") {
		t.Errorf("header = %q", lines[0])
	}

	data, err = os.ReadFile(filepath.Join(dir, BookmarksFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "extinction,150,No foxes left") {
		t.Errorf("bookmarks.csv = %q", data)
	}

	if _, err := config.Load(filepath.Join(dir, ConfigFile)); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
}

func TestOutputManagerSnapshotPath(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	path, err := om.SnapshotPath(Bookmark{Type: BookmarkRabbitCrash, Tick: 42})
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, SnapshotDir, "tick_000042_rabbit_crash.txt")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
}
