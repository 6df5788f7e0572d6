// Package sim drives the event-driven simulation: initialization,
// the main dispatch loop, and per-event-kind handlers, grounded on
// original_source/src/simulation.py's initialize_simulation and
// run_simulation and on events.py's per-event process methods.
package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/ballsim/internal/ball"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/event"
	"github.com/san-kum/ballsim/internal/eventgen"
	"github.com/san-kum/ballsim/internal/frame"
	"github.com/san-kum/ballsim/internal/geom"
	"github.com/san-kum/ballsim/internal/grid"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/wall"
)

// clampEpsilon is the floating-point slop tolerated when a predicted time
// lands fractionally before the ball's own proper time; per spec design
// notes this is clamped forward rather than treated as a violation.
const clampEpsilon = 1e-9

// InvariantError reports a runtime invariant breach: a negative or NaN
// predicted time, or an already-overlapping pair. The driver halts on
// this rather than attempting to repair state.
type InvariantError struct {
	Time    float64
	Kind    event.Kind
	Balls   []int
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant breach at t=%.6f during %v (balls %v): %s", e.Time, e.Kind, e.Balls, e.Message)
}

// Driver owns every mutable structure for the duration of one run:
// the particle store, walls, grid and event heap.
type Driver struct {
	cfg    *config.Config
	Balls  []*ball.Ball
	Walls  []wall.Wall
	Grid   *grid.Grid
	Queue  *event.Queue
	writer *frame.Writer

	eventsProcessed int
}

// Summary reports the outcome of a completed run.
type Summary struct {
	EventsProcessed int
	EventsDiscarded int
	FramesWritten   int
	FinalTime       float64
}

// NewDriver validates cfg, places balls without overlap, seeds initial
// velocities from a deterministic generator, and seeds the event queue.
func NewDriver(cfg *config.Config, writer *frame.Writer) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := grid.New(cfg.NDim, cfg.DomainSize)
	walls := wall.Box(cfg.NDim, cfg.DomainSize, 0.01, cfg.WallRestitution)

	nx := int(cfg.DomainSize[0])
	ny := 1
	if cfg.NDim >= 2 {
		ny = int(cfg.DomainSize[1])
	}

	if cfg.Verbose {
		fmt.Printf("initializing %d balls...\n", cfg.NumBalls)
	}

	rng := rand.New(rand.NewSource(cfg.RandomSeed))

	balls := make([]*ball.Ball, cfg.NumBalls)
	for i := 0; i < cfg.NumBalls; i++ {
		cellX := i % nx
		cellY := (i / nx) % ny
		cell := grid.Cell{X: cellX, Y: cellY}
		pos := geom.New(cfg.NDim)
		pos[0] = float64(cellX) + 0.5
		pos[1] = float64(cellY) + 0.5
		if cfg.NDim == 3 {
			cellZ := i / (nx * ny)
			cell.Z = cellZ
			pos[2] = float64(cellZ) + 0.5
		}

		vel := geom.New(cfg.NDim)
		for d := 0; d < cfg.NDim; d++ {
			vel[d] = rng.NormFloat64()
		}

		b := ball.New(i, pos, vel, cfg.BallRadius, cell)
		balls[i] = b
		g.Add(i, cell)
	}

	queue := event.NewQueue()
	queue.Verbose = cfg.Verbose

	d := &Driver{
		cfg:    cfg,
		Balls:  balls,
		Walls:  walls,
		Grid:   g,
		Queue:  queue,
		writer: writer,
	}

	for _, b := range balls {
		neighbors := g.Neighbors(b.Cell)
		if cfg.Verbose {
			higher := make([]int, 0, len(neighbors))
			for _, idx := range neighbors {
				if idx > b.Index {
					higher = append(higher, idx)
				}
			}
			fmt.Printf("ball %d: checking higher-indexed neighbors %v\n", b.Index, higher)
		}
		eventgen.BallBall(d.Queue, balls, b, neighbors, true, cfg.Gravity)
		eventgen.BallWall(d.Queue, b, walls, cfg.Gravity)
		eventgen.GridTransit(d.Queue, b, cfg.NDim, cfg.Gravity)
	}

	d.Queue.Push(event.NewExport(0.0))
	for t := cfg.OutputRate; t <= cfg.SimulationTime; t += cfg.OutputRate {
		d.Queue.Push(event.NewExport(t))
	}
	d.Queue.Push(event.NewEnd(cfg.SimulationTime))

	return d, nil
}

// Run pops events until End, dispatching each to its handler, until the
// queue is exhausted or an invariant is violated.
func (d *Driver) Run() (*Summary, error) {
	finalTime := 0.0

	for {
		ev, empty, ended, err := d.Step()
		if err != nil {
			return nil, err
		}
		if ev != nil {
			finalTime = ev.Time()
		}
		if d.cfg.Verbose && d.eventsProcessed%1000 == 0 {
			fmt.Printf("processing event %d, t=%.3f\n", d.eventsProcessed, finalTime)
		}
		if ended || empty {
			break
		}
	}

	if d.cfg.Verbose {
		fmt.Printf("done: %d events processed, %d discarded, final time %.3f\n", d.eventsProcessed, d.Queue.Discarded(), finalTime)
	}

	return d.summary(finalTime), nil
}

// Step pops and dispatches a single event. It returns the popped event (nil
// if the queue was already empty), whether the queue is now empty, and
// whether the popped event was the End event. Exposed so a live viewer can
// drive the simulation one event at a time between render ticks.
func (d *Driver) Step() (ev event.Event, empty bool, ended bool, err error) {
	e := d.Queue.Pop()
	if e == nil {
		return nil, true, false, nil
	}
	d.eventsProcessed++

	switch v := e.(type) {
	case *event.BallBall:
		err = d.handleBallBall(v)
	case *event.BallWall:
		err = d.handleBallWall(v)
	case *event.GridTransit:
		err = d.handleGridTransit(v)
	case *event.Export:
		err = d.handleExport(v)
	case *event.End:
		return e, d.Queue.Len() == 0, true, nil
	}
	if err != nil {
		return e, false, false, err
	}
	return e, d.Queue.Len() == 0, false, nil
}

// EventsProcessed reports how many events Step has dispatched so far.
func (d *Driver) EventsProcessed() int { return d.eventsProcessed }

// Time reports the latest proper time across all balls: the time of the
// most recent ball-ball, ball-wall or grid-transit event (0 before any).
// Export and End events do not move it.
func (d *Driver) Time() float64 {
	if len(d.Balls) == 0 {
		return 0
	}
	t := d.Balls[0].Time
	for _, b := range d.Balls[1:] {
		if b.Time > t {
			t = b.Time
		}
	}
	return t
}

// KineticEnergy sums 0.5*m*v^2 over every ball with unit mass.
func (d *Driver) KineticEnergy() float64 {
	total := 0.0
	for _, b := range d.Balls {
		total += 0.5 * b.Velocity.Dot(b.Velocity)
	}
	return total
}

func (d *Driver) summary(finalTime float64) *Summary {
	return &Summary{
		EventsProcessed: d.eventsProcessed,
		EventsDiscarded: d.Queue.Discarded(),
		FramesWritten:   d.writer.Count(),
		FinalTime:       finalTime,
	}
}

func (d *Driver) advance(b *ball.Ball, t float64, kind event.Kind) error {
	if math.IsNaN(t) {
		return &InvariantError{Time: t, Kind: kind, Balls: []int{b.Index}, Message: "predicted time is NaN"}
	}
	if t < b.Time {
		if b.Time-t <= clampEpsilon {
			t = b.Time
		} else {
			return &InvariantError{Time: t, Kind: kind, Balls: []int{b.Index}, Message: "predicted time precedes ball's proper time"}
		}
	}
	b.AdvanceTo(t, d.cfg.Gravity)
	return nil
}

func (d *Driver) handleBallBall(ev *event.BallBall) error {
	i := d.Balls[ev.I]
	j := d.Balls[ev.J]

	if err := d.advance(i, ev.Time(), event.KindBallBall); err != nil {
		return err
	}
	if err := d.advance(j, ev.Time(), event.KindBallBall); err != nil {
		return err
	}

	distSq := j.Position.Sub(i.Position).Dot(j.Position.Sub(i.Position))
	touchSq := (i.Radius + j.Radius) * (i.Radius + j.Radius)
	if distSq < touchSq-1e-6 {
		return &InvariantError{Time: ev.Time(), Kind: event.KindBallBall, Balls: []int{i.Index, j.Index}, Message: "balls already overlapping at predicted collision time"}
	}

	physics.ResolveBallBall(i, j, d.cfg.BallRestitution)

	i.InvalidateEvents()
	j.InvalidateEvents()

	eventgen.ForBall(d.Queue, d.Balls, i, d.Grid, d.Walls, d.cfg.NDim, d.cfg.Gravity)
	eventgen.ForBall(d.Queue, d.Balls, j, d.Grid, d.Walls, d.cfg.NDim, d.cfg.Gravity)
	return nil
}

func (d *Driver) handleBallWall(ev *event.BallWall) error {
	b := d.Balls[ev.Ball]
	w := d.Walls[ev.Wall]

	if err := d.advance(b, ev.Time(), event.KindBallWall); err != nil {
		return err
	}

	physics.ResolveBallWall(b, w, d.cfg.WallRestitution)

	b.InvalidateEvents()
	eventgen.ForBall(d.Queue, d.Balls, b, d.Grid, d.Walls, d.cfg.NDim, d.cfg.Gravity)
	return nil
}

func (d *Driver) handleGridTransit(ev *event.GridTransit) error {
	b := d.Balls[ev.Ball]

	if err := d.advance(b, ev.Time(), event.KindGridTransit); err != nil {
		return err
	}

	oldCell := b.Cell
	d.Grid.Move(b.Index, oldCell, ev.NewCell)
	b.Cell = ev.NewCell
	b.Disown(ev)

	eventgen.ForBallLeadingFace(d.Queue, d.Balls, b, d.Grid, oldCell, ev.NewCell, d.cfg.NDim, d.cfg.Gravity)
	return nil
}

func (d *Driver) handleExport(ev *event.Export) error {
	return d.handleExportAt(ev.Time())
}

func (d *Driver) handleExportAt(t float64) error {
	positions := make([]geom.Vec, len(d.Balls))
	velocities := make([]geom.Vec, len(d.Balls))
	for i, b := range d.Balls {
		positions[i] = b.PositionAt(t, d.cfg.Gravity)
		velocities[i] = b.Velocity.Clone()
	}
	return d.writer.Write(t, positions, velocities)
}
