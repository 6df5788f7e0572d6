package frame

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/ballsim/internal/geom"
)

// Frame is one parsed snapshot, the inverse of Writer.Write.
type Frame struct {
	Time       float64
	Positions  []geom.Vec
	Velocities []geom.Vec
}

// ReadDir parses every frame_*.txt file in dir, in ascending numeric
// order, grounded on the frame format Writer.Write emits.
func ReadDir(dir string) ([]Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "frame_") && strings.HasSuffix(e.Name(), ".txt") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	frames := make([]Frame, 0, len(names))
	for _, name := range names {
		f, err := readFrame(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("frame: reading %s: %w", name, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func readFrame(path string) (Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return Frame{}, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var frame Frame
	numBalls := -1

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "# Time:"):
			t, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(line, "# Time:")), 64)
			if err != nil {
				return Frame{}, err
			}
			frame.Time = t
		case strings.HasPrefix(line, "# Balls:"):
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "# Balls:")))
			if err != nil {
				return Frame{}, err
			}
			numBalls = n
		case line == "":
			continue
		default:
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			values := make([]float64, len(fields)-1)
			for i, tok := range fields[1:] {
				v, err := strconv.ParseFloat(tok, 64)
				if err != nil {
					return Frame{}, err
				}
				values[i] = v
			}
			half := len(values) / 2
			frame.Positions = append(frame.Positions, geom.Vec(append([]float64(nil), values[:half]...)))
			frame.Velocities = append(frame.Velocities, geom.Vec(append([]float64(nil), values[half:]...)))
		}
	}
	if err := scanner.Err(); err != nil {
		return Frame{}, err
	}
	if numBalls >= 0 && len(frame.Positions) != numBalls {
		return Frame{}, fmt.Errorf("expected %d balls, parsed %d", numBalls, len(frame.Positions))
	}
	return frame, nil
}

// KineticEnergySeries sums 0.5*|v|^2 over every ball in each frame,
// producing the time series ballsim analyze feeds through the FFT.
func KineticEnergySeries(frames []Frame) []float64 {
	series := make([]float64, len(frames))
	for i, fr := range frames {
		total := 0.0
		for _, v := range fr.Velocities {
			total += 0.5 * v.Dot(v)
		}
		series[i] = total
	}
	return series
}
