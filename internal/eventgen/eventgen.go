// Package eventgen turns a ball's current state into the candidate events
// that belong on the queue, grounded on the event-generation rules in
// original_source/src/simulation.py's neighbor and event-seeding loops.
package eventgen

import (
	"github.com/san-kum/ballsim/internal/ball"
	"github.com/san-kum/ballsim/internal/event"
	"github.com/san-kum/ballsim/internal/grid"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/wall"
)

// BallBall generates and owns a BallBall event against every candidate in
// candidates (ball indices, excluding b itself) with a predicted collision
// time strictly after the later of the two balls' proper times. When onlyHigherIndex is true, candidates with
// index <= b.Index are skipped; this is the initialization-only rule that
// avoids seeding duplicate (i,j)/(j,i) pairs on the first pass.
func BallBall(q *event.Queue, balls []*ball.Ball, b *ball.Ball, candidates []int, onlyHigherIndex bool, gravity bool) {
	for _, j := range candidates {
		if j == b.Index {
			continue
		}
		if onlyHigherIndex && j <= b.Index {
			continue
		}
		other := balls[j]
		t, ok := physics.BallBallCollisionTime(b, other, gravity)
		if !ok {
			continue
		}
		e := event.NewBallBall(t, b.Index, j)
		q.Push(e)
		b.Own(e)
		other.Own(e)
	}
}

// BallWall generates, for every wall, the earliest ball-wall collision
// event strictly after b's proper time, and owns it on b.
func BallWall(q *event.Queue, b *ball.Ball, walls []wall.Wall, gravity bool) {
	for wi, w := range walls {
		t, ok := physics.BallWallCollisionTime(b, w, gravity)
		if !ok {
			continue
		}
		e := event.NewBallWall(t, b.Index, wi)
		q.Push(e)
		b.Own(e)
	}
}

// GridTransit generates the single next cell-face crossing for b, if its
// motion will ever produce one.
func GridTransit(q *event.Queue, b *ball.Ball, ndim int, gravity bool) {
	t, newCell, ok := physics.GridTransitTime(b, ndim, grid.CellSize, gravity)
	if !ok {
		return
	}
	e := event.NewGridTransit(t, b.Index, newCell)
	q.Push(e)
	b.Own(e)
}

// ForBall regenerates the full event set for b against every ball in its
// 3^ndim cell neighborhood: BB against neighbors, BW against every wall,
// and its next GridTransit. Used after a BallBall or BallWall collision,
// where b's velocity has changed and its full neighborhood must be
// re-examined.
func ForBall(q *event.Queue, balls []*ball.Ball, b *ball.Ball, g *grid.Grid, walls []wall.Wall, ndim int, gravity bool) {
	neighbors := g.Neighbors(b.Cell)
	BallBall(q, balls, b, neighbors, false, gravity)
	BallWall(q, b, walls, gravity)
	GridTransit(q, b, ndim, gravity)
}

// ForBallLeadingFace regenerates only the BB events against balls newly
// visible in the leading-face cells a grid transit just exposed, plus the
// mandatory new GridTransit for the continuing trajectory. It does not
// touch BW events, since a grid transit does not change velocity and
// existing wall events remain valid.
func ForBallLeadingFace(q *event.Queue, balls []*ball.Ball, b *ball.Ball, g *grid.Grid, oldCell, newCell grid.Cell, ndim int, gravity bool) {
	leading := g.NewNeighbors(oldCell, newCell)
	BallBall(q, balls, b, leading, false, gravity)
	GridTransit(q, b, ndim, gravity)
}
