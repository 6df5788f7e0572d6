package sim

import (
	"math"
	"testing"

	"github.com/san-kum/ballsim/internal/ball"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/event"
	"github.com/san-kum/ballsim/internal/frame"
	"github.com/san-kum/ballsim/internal/geom"
	"github.com/san-kum/ballsim/internal/grid"
	"github.com/san-kum/ballsim/internal/wall"
)

func newTestDriver(t *testing.T, cfg *config.Config, balls []*ball.Ball) *Driver {
	t.Helper()
	w, err := frame.NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	g := grid.New(cfg.NDim, cfg.DomainSize)
	for _, b := range balls {
		g.Add(b.Index, b.Cell)
	}

	return &Driver{
		cfg:    cfg,
		Balls:  balls,
		Walls:  wall.Box(cfg.NDim, cfg.DomainSize, 0.01, cfg.WallRestitution),
		Grid:   g,
		Queue:  event.NewQueue(),
		writer: w,
	}
}

func TestHandleBallBallHeadOnPairExchangesVelocities(t *testing.T) {
	cfg := &config.Config{NDim: 2, DomainSize: []float64{6, 3}, BallRestitution: 1.0, WallRestitution: 1.0}

	b0 := ball.New(0, geom.Vec{2, 1.5}, geom.Vec{1, 0}, 0.4, grid.Cell{X: 2, Y: 1})
	b1 := ball.New(1, geom.Vec{4, 1.5}, geom.Vec{-1, 0}, 0.4, grid.Cell{X: 4, Y: 1})
	d := newTestDriver(t, cfg, []*ball.Ball{b0, b1})

	if err := d.handleBallBall(event.NewBallBall(0.6, 0, 1)); err != nil {
		t.Fatalf("handleBallBall failed: %v", err)
	}

	if math.Abs(b0.Velocity[0]-(-1)) > 1e-9 {
		t.Errorf("expected ball 0 velocity.x -1, got %v", b0.Velocity[0])
	}
	if math.Abs(b1.Velocity[0]-1) > 1e-9 {
		t.Errorf("expected ball 1 velocity.x +1, got %v", b1.Velocity[0])
	}
	if b0.Time != 0.6 || b1.Time != 0.6 {
		t.Errorf("expected both balls advanced to t=0.6, got %v and %v", b0.Time, b1.Time)
	}
	if len(b0.Events) == 0 || len(b1.Events) == 0 {
		t.Error("expected both balls to own regenerated events")
	}
}

func TestHandleBallWallBounceReflects(t *testing.T) {
	cfg := &config.Config{NDim: 2, DomainSize: []float64{3, 3}, BallRestitution: 1.0, WallRestitution: 1.0}
	b := ball.New(0, geom.Vec{0.5, 1.5}, geom.Vec{-1, 0}, 0.3, grid.Cell{X: 0, Y: 1})
	d := newTestDriver(t, cfg, []*ball.Ball{b})

	leftWallIdx := -1
	for i, w := range d.Walls {
		if w.Axis == 0 && w.Coordinate < 1 {
			leftWallIdx = i
		}
	}
	if leftWallIdx < 0 {
		t.Fatal("expected a left wall in the box")
	}

	if err := d.handleBallWall(event.NewBallWall(0.19, 0, leftWallIdx)); err != nil {
		t.Fatalf("handleBallWall failed: %v", err)
	}

	if math.Abs(b.Velocity[0]-1) > 1e-9 {
		t.Errorf("expected velocity.x +1 after bounce, got %v", b.Velocity[0])
	}
}

func TestHandleGridTransitRegeneratesTransitEvent(t *testing.T) {
	cfg := &config.Config{NDim: 2, DomainSize: []float64{5, 1}, BallRestitution: 1.0, WallRestitution: 1.0}
	b := ball.New(0, geom.Vec{0.5, 0.5}, geom.Vec{1, 0}, 0.1, grid.Cell{X: 0, Y: 0})
	d := newTestDriver(t, cfg, []*ball.Ball{b})

	gt := event.NewGridTransit(0.5, 0, grid.Cell{X: 1, Y: 0})
	b.Own(gt)
	d.Queue.Push(gt)
	popped := d.Queue.Pop()

	if err := d.handleGridTransit(popped.(*event.GridTransit)); err != nil {
		t.Fatalf("handleGridTransit failed: %v", err)
	}

	if b.Cell.X != 1 {
		t.Errorf("expected ball to occupy cell x=1, got %d", b.Cell.X)
	}

	found := 0
	for _, owned := range b.Events {
		if owned.Kind() == event.KindGridTransit {
			found++
		}
	}
	if found != 1 {
		t.Errorf("expected exactly 1 owned GridTransit event after regeneration, got %d", found)
	}
}

func TestNewDriverRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BallRadius = 10
	w, _ := frame.NewWriter(t.TempDir())

	if _, err := NewDriver(cfg, w); err == nil {
		t.Error("expected an error for an invalid config")
	}
}

func TestRunCompletesAndWritesFrames(t *testing.T) {
	cfg := config.GetPreset("wall_bounce")
	w, err := frame.NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	d, err := NewDriver(cfg, w)
	if err != nil {
		t.Fatalf("NewDriver failed: %v", err)
	}

	summary, err := d.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if summary.FinalTime != cfg.SimulationTime {
		t.Errorf("expected final time %v, got %v", cfg.SimulationTime, summary.FinalTime)
	}
	if summary.FramesWritten == 0 {
		t.Error("expected at least one frame written")
	}
	if summary.EventsProcessed == 0 {
		t.Error("expected at least one event processed")
	}
}

func TestRunIsDeterministicAcrossRuns(t *testing.T) {
	cfg := config.GetPreset("energy_drift_10balls")
	cfg.SimulationTime = 2.0

	run := func() *Summary {
		w, _ := frame.NewWriter(t.TempDir())
		d, err := NewDriver(cfg, w)
		if err != nil {
			t.Fatalf("NewDriver failed: %v", err)
		}
		s, err := d.Run()
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		return s
	}

	a := run()
	b := run()

	if a.EventsProcessed != b.EventsProcessed || a.FinalTime != b.FinalTime {
		t.Errorf("expected identical runs for identical seeds, got %+v and %+v", a, b)
	}
}
