// Package ball holds each particle's kinematic state, grounded on
// original_source/src/ball.py.
package ball

import (
	"github.com/san-kum/ballsim/internal/event"
	"github.com/san-kum/ballsim/internal/geom"
	"github.com/san-kum/ballsim/internal/grid"
)

// Ball is one hard sphere/circle. Index is stable for the run's lifetime.
// Time is the ball's "proper time": the simulated time to which Position
// and Velocity correspond. Between events the ball is understood to be in
// free flight (with gravity, if enabled) from Time onward.
type Ball struct {
	Index    int
	Position geom.Vec
	Velocity geom.Vec
	Radius   float64
	Time     float64
	Cell     grid.Cell

	// Events is the set of queued events this ball participates in, used
	// for bulk lazy invalidation whenever the ball's velocity changes.
	Events []event.Event
}

// New builds a ball with the given position and velocity at proper time 0.
func New(index int, position, velocity geom.Vec, radius float64, cell grid.Cell) *Ball {
	return &Ball{
		Index:    index,
		Position: position.Clone(),
		Velocity: velocity.Clone(),
		Radius:   radius,
		Cell:     cell,
	}
}

// StateAt returns the position and velocity the ball would have at time t,
// extrapolating from its proper time under gravity (if enabled). It does
// not mutate the ball. t must be >= b.Time.
func (b *Ball) StateAt(t float64, gravity bool) (geom.Vec, geom.Vec) {
	dt := t - b.Time
	ndim := len(b.Position)

	pos := make(geom.Vec, ndim)
	vel := make(geom.Vec, ndim)
	for i := 0; i < ndim; i++ {
		pos[i] = b.Position[i] + b.Velocity[i]*dt
		vel[i] = b.Velocity[i]
	}
	if gravity {
		pos[1] -= 0.5 * dt * dt
		vel[1] -= dt
	}
	return pos, vel
}

// PositionAt is StateAt's position component, used by callers (Export)
// that must not disturb the stored velocity.
func (b *Ball) PositionAt(t float64, gravity bool) geom.Vec {
	pos, _ := b.StateAt(t, gravity)
	return pos
}

// AdvanceTo moves the ball's stored state forward to time t. t must be
// >= b.Time; the driver is responsible for clamping tiny negative dt
// caused by floating-point slop before calling this.
func (b *Ball) AdvanceTo(t float64, gravity bool) {
	pos, vel := b.StateAt(t, gravity)
	b.Position = pos
	b.Velocity = vel
	b.Time = t
}

// Own registers e as an event this ball must be told about when its
// velocity changes.
func (b *Ball) Own(e event.Event) {
	b.Events = append(b.Events, e)
}

// Disown removes a single owned event by identity, without touching its
// validity. Used when an event has already been popped and processed and
// so is no longer a live reference (e.g. the GridTransit event that just
// fired), keeping the owned set free of dead entries.
func (b *Ball) Disown(e event.Event) {
	for i, owned := range b.Events {
		if owned == e {
			b.Events = append(b.Events[:i], b.Events[i+1:]...)
			return
		}
	}
}

// InvalidateEvents flips every owned event's valid flag and clears the
// owned set. Call this whenever the ball's velocity changes.
func (b *Ball) InvalidateEvents() {
	for _, e := range b.Events {
		e.Invalidate()
	}
	b.Events = b.Events[:0]
}
