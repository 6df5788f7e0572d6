package store

import (
	"os"
	"path/filepath"
	"testing"
)

func sampleMetadata(id string) RunMetadata {
	return RunMetadata{
		ID:              id,
		NDim:            2,
		NumBalls:        2,
		BallRadius:      0.4,
		DomainSize:      []float64{6, 3},
		SimulationTime:  2.0,
		BallRestitution: 1.0,
		WallRestitution: 1.0,
		RandomSeed:      100,
		FramesWritten:   3,
		EventsProcessed: 5,
		FinalTime:       2.0,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runDir, err := st.Save(sampleMetadata("run_1"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runDir == "" {
		t.Error("expected non-empty run directory")
	}

	meta, err := st.Load("run_1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.NumBalls != 2 {
		t.Errorf("expected 2 balls, got %d", meta.NumBalls)
	}
	if meta.RandomSeed != 100 {
		t.Errorf("expected seed 100, got %d", meta.RandomSeed)
	}
}

func TestStoreSaveRejectsEmptyID(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Save(RunMetadata{}); err == nil {
		t.Error("expected an error for empty run id")
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(sampleMetadata("run_1")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if _, err := st.Save(sampleMetadata("run_1")); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	metaPath := filepath.Join(tmpDir, "run_1", "metadata.json")
	if _, err := os.Stat(metaPath); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
}
