// Package frame writes the textual per-Export snapshot format, grounded
// on OutputManager.write_frame in original_source/src/simulation.py.
package frame

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/ballsim/internal/geom"
)

// Writer emits one numbered frame file per call to Write, under dir.
type Writer struct {
	dir   string
	count int
}

// NewWriter creates dir if needed and returns a Writer rooted there.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Writer{dir: dir}, nil
}

// Write emits a frame for simulated time t, one line per ball in index
// order: index, position components, velocity components.
func (w *Writer) Write(t float64, positions, velocities []geom.Vec) error {
	if len(positions) != len(velocities) {
		return fmt.Errorf("frame: %d positions but %d velocities", len(positions), len(velocities))
	}

	path := filepath.Join(w.dir, fmt.Sprintf("frame_%06d.txt", w.count))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "# Time: %v\n# Balls: %d\n", t, len(positions)); err != nil {
		return err
	}

	for i, pos := range positions {
		vel := velocities[i]
		if _, err := fmt.Fprintf(f, "%d", i); err != nil {
			return err
		}
		for _, c := range pos {
			if _, err := fmt.Fprintf(f, " %v", c); err != nil {
				return err
			}
		}
		for _, c := range vel {
			if _, err := fmt.Fprintf(f, " %v", c); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(f); err != nil {
			return err
		}
	}

	w.count++
	return nil
}

// Count returns the number of frames written so far.
func (w *Writer) Count() int { return w.count }
