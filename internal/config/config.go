// Package config loads, validates and saves run configuration, grounded
// on original_source/src/simulation.py's validate_simulation_parameters
// and its config surface.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultNDim           = 2
	DefaultNumBalls       = 2
	DefaultBallRadius     = 0.4
	DefaultSimulationTime = 10.0
	DefaultRestitution    = 1.0
	DefaultOutputRate     = 1.0
	DefaultOutputDir      = "output"
	DefaultRandomSeed     = 100

	wallInset  = 0.01
	maxRadius  = 0.5
	cellSize   = 1.0
	minSpanPad = 2 * wallInset
)

// Config is a complete run specification, unmarshaled from YAML.
type Config struct {
	NDim            int       `yaml:"ndim"`
	NumBalls        int       `yaml:"num_balls"`
	BallRadius      float64   `yaml:"ball_radius"`
	DomainSize      []float64 `yaml:"domain_size"`
	SimulationTime  float64   `yaml:"simulation_time"`
	Gravity         bool      `yaml:"gravity"`
	BallRestitution float64   `yaml:"ball_restitution"`
	WallRestitution float64   `yaml:"wall_restitution"`
	OutputRate      float64   `yaml:"output_rate"`
	OutputDir       string    `yaml:"output_dir"`
	RandomSeed      int64     `yaml:"random_seed"`
	Verbose         bool      `yaml:"verbose"`
}

// DefaultConfig returns a 2-ball, gravity-off, elastic 2D configuration.
func DefaultConfig() *Config {
	return &Config{
		NDim:            DefaultNDim,
		NumBalls:        DefaultNumBalls,
		BallRadius:      DefaultBallRadius,
		DomainSize:      []float64{10, 10},
		SimulationTime:  DefaultSimulationTime,
		Gravity:         false,
		BallRestitution: DefaultRestitution,
		WallRestitution: DefaultRestitution,
		OutputRate:      DefaultOutputRate,
		OutputDir:       DefaultOutputDir,
		RandomSeed:      DefaultRandomSeed,
	}
}

// Load reads a YAML config file, applying DefaultConfig for any field the
// file omits.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks cfg against the startup failures the driver must refuse
// to run with. It returns the first violation found.
func (c *Config) Validate() error {
	if c.NDim != 2 && c.NDim != 3 {
		return fmt.Errorf("config: ndim must be 2 or 3, got %d", c.NDim)
	}
	if c.NumBalls < 0 {
		return fmt.Errorf("config: num_balls must be >= 0, got %d", c.NumBalls)
	}
	if c.BallRadius <= 0 || c.BallRadius > maxRadius {
		return fmt.Errorf("config: ball_radius must be in (0, %.1f], got %v", maxRadius, c.BallRadius)
	}
	if c.BallRadius >= cellSize {
		return fmt.Errorf("config: ball_radius must be < cell size %v, got %v", cellSize, c.BallRadius)
	}
	if 2*c.BallRadius >= cellSize {
		return fmt.Errorf("config: 2*ball_radius must be < cell size %v, got %v", cellSize, 2*c.BallRadius)
	}
	if len(c.DomainSize) != c.NDim {
		return fmt.Errorf("config: domain_size must have %d entries, got %d", c.NDim, len(c.DomainSize))
	}
	for i, d := range c.DomainSize {
		if d <= minSpanPad {
			return fmt.Errorf("config: domain_size[%d] must exceed %v, got %v", i, minSpanPad, d)
		}
	}
	if c.SimulationTime <= 0 {
		return fmt.Errorf("config: simulation_time must be > 0, got %v", c.SimulationTime)
	}
	if c.BallRestitution <= 0 || c.BallRestitution > 1 {
		return fmt.Errorf("config: ball_restitution must be in (0, 1], got %v", c.BallRestitution)
	}
	if c.WallRestitution <= 0 || c.WallRestitution > 1 {
		return fmt.Errorf("config: wall_restitution must be in (0, 1], got %v", c.WallRestitution)
	}
	if c.OutputRate <= 0 {
		return fmt.Errorf("config: output_rate must be > 0, got %v", c.OutputRate)
	}

	interiorCells := 1
	for i := 0; i < c.NDim; i++ {
		n := int(c.DomainSize[i] / cellSize)
		if n < 1 {
			n = 1
		}
		interiorCells *= n
	}
	if c.NumBalls > interiorCells {
		return fmt.Errorf("config: num_balls %d exceeds %d interior cells", c.NumBalls, interiorCells)
	}
	return nil
}
