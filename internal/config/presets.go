package config

// Presets are the named scenarios from the end-to-end test suite, each
// reduced to the subset of a Config the CLI can drive (num_balls, radius,
// domain, gravity, restitutions). The exact per-ball initial positions
// and velocities named in those scenarios are fixtures exercised directly
// by the physics and sim package tests, not reproducible through the
// random-placement init path a preset runs through.
var Presets = map[string]*Config{
	"head_on_pair": {
		NDim: 2, NumBalls: 2, BallRadius: 0.4,
		DomainSize: []float64{6, 3}, SimulationTime: 2.0,
		Gravity: false, BallRestitution: 1.0, WallRestitution: 1.0,
		OutputRate: 0.1, OutputDir: DefaultOutputDir, RandomSeed: DefaultRandomSeed,
	},
	"wall_bounce": {
		NDim: 2, NumBalls: 1, BallRadius: 0.3,
		DomainSize: []float64{3, 3}, SimulationTime: 2.0,
		Gravity: false, BallRestitution: 1.0, WallRestitution: 1.0,
		OutputRate: 0.1, OutputDir: DefaultOutputDir, RandomSeed: DefaultRandomSeed,
	},
	"free_fall": {
		NDim: 2, NumBalls: 1, BallRadius: 0.3,
		DomainSize: []float64{3, 3}, SimulationTime: 3.0,
		Gravity: true, BallRestitution: 1.0, WallRestitution: 1.0,
		OutputRate: 0.1, OutputDir: DefaultOutputDir, RandomSeed: DefaultRandomSeed,
	},
	"grid_transit": {
		NDim: 2, NumBalls: 1, BallRadius: 0.1,
		DomainSize: []float64{5, 1}, SimulationTime: 4.0,
		Gravity: false, BallRestitution: 1.0, WallRestitution: 1.0,
		OutputRate: 0.1, OutputDir: DefaultOutputDir, RandomSeed: DefaultRandomSeed,
	},
	"energy_drift_10balls": {
		NDim: 2, NumBalls: 10, BallRadius: 0.3,
		DomainSize: []float64{10, 10}, SimulationTime: 20.0,
		Gravity: false, BallRestitution: 1.0, WallRestitution: 1.0,
		OutputRate: 1.0, OutputDir: DefaultOutputDir, RandomSeed: DefaultRandomSeed,
	},
}

// GetPreset returns the named preset, or nil if it does not exist.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	clone := *cfg
	clone.DomainSize = append([]float64(nil), cfg.DomainSize...)
	return &clone
}

// ListPresets returns every preset name.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
