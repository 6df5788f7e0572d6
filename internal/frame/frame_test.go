package frame

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/ballsim/internal/geom"
)

func TestWriteProducesExpectedFormat(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	positions := []geom.Vec{{1, 2}, {3, 4}}
	velocities := []geom.Vec{{0.1, 0.2}, {-0.1, -0.2}}

	if err := w.Write(0.5, positions, velocities); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "frame_000000.txt"))
	if err != nil {
		t.Fatalf("expected frame file to exist: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "# Time: 0.5" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if lines[1] != "# Balls: 2" {
		t.Errorf("unexpected header: %q", lines[1])
	}
	if lines[2] != "0 1 2 0.1 0.2" {
		t.Errorf("unexpected ball line: %q", lines[2])
	}
	if lines[3] != "1 3 4 -0.1 -0.2" {
		t.Errorf("unexpected ball line: %q", lines[3])
	}
}

func TestWriteIncrementsFrameCount(t *testing.T) {
	dir := t.TempDir()
	w, _ := NewWriter(dir)

	w.Write(0, nil, nil)
	w.Write(1, nil, nil)

	if w.Count() != 2 {
		t.Errorf("expected count 2, got %d", w.Count())
	}
	if _, err := os.Stat(filepath.Join(dir, "frame_000001.txt")); err != nil {
		t.Errorf("expected second frame file: %v", err)
	}
}

func TestWriteRejectsMismatchedLengths(t *testing.T) {
	dir := t.TempDir()
	w, _ := NewWriter(dir)

	err := w.Write(0, []geom.Vec{{0, 0}}, nil)
	if err == nil {
		t.Error("expected an error for mismatched positions/velocities length")
	}
}

func TestReadDirRoundTripsWrite(t *testing.T) {
	dir := t.TempDir()
	w, _ := NewWriter(dir)

	w.Write(0.0, []geom.Vec{{1, 2}}, []geom.Vec{{1, 0}})
	w.Write(0.5, []geom.Vec{{1.5, 2}}, []geom.Vec{{1, 0}})

	frames, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if frames[1].Time != 0.5 {
		t.Errorf("expected second frame time 0.5, got %v", frames[1].Time)
	}
	if frames[1].Positions[0][0] != 1.5 {
		t.Errorf("expected position.x 1.5, got %v", frames[1].Positions[0][0])
	}
}

func TestKineticEnergySeries(t *testing.T) {
	frames := []Frame{
		{Velocities: []geom.Vec{{1, 0}, {0, 2}}},
		{Velocities: []geom.Vec{{0, 0}, {0, 0}}},
	}
	series := KineticEnergySeries(frames)
	if series[0] != 2.5 {
		t.Errorf("expected KE 2.5 (0.5*1 + 0.5*4), got %v", series[0])
	}
	if series[1] != 0 {
		t.Errorf("expected KE 0, got %v", series[1])
	}
}
