package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.NDim != 2 {
		t.Errorf("expected ndim 2, got %d", cfg.NDim)
	}
	if cfg.SimulationTime <= 0 {
		t.Error("simulation_time should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestValidateRejectsOversizedRadius(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BallRadius = 0.6
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for ball_radius > 0.5")
	}
}

func TestValidateRejectsRadiusAtOrAboveHalfCell(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BallRadius = 0.5
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error when 2*ball_radius >= cell size")
	}
}

func TestValidateRejectsMismatchedDomainSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DomainSize = []float64{10}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error when domain_size length != ndim")
	}
}

func TestValidateRejectsTooManyBalls(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DomainSize = []float64{2, 2}
	cfg.NumBalls = 100
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error when num_balls exceeds interior cells")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumBalls = 7
	cfg.Gravity = true

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.NumBalls != 7 || loaded.Gravity != true {
		t.Errorf("round trip mismatch: %+v", loaded)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("head_on_pair")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.NumBalls != 2 {
		t.Errorf("expected 2 balls, got %d", cfg.NumBalls)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate, got %v", err)
	}
}

func TestGetPresetNotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestGetPresetReturnsIndependentCopy(t *testing.T) {
	a := GetPreset("wall_bounce")
	b := GetPreset("wall_bounce")
	a.DomainSize[0] = 999
	if b.DomainSize[0] == 999 {
		t.Error("expected GetPreset to return an independent copy")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Errorf("expected %d preset names, got %d", len(Presets), len(names))
	}
}
