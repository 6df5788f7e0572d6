// Package physics is the collision-time and collision-response kernel,
// grounded on original_source/src/physics.py. Every prediction here is a
// cheap-tests-first quadratic solve: balls moving apart, or with no
// relative velocity, are rejected before the square root is taken.
package physics

import (
	"math"

	"github.com/san-kum/ballsim/internal/ball"
	"github.com/san-kum/ballsim/internal/geom"
	"github.com/san-kum/ballsim/internal/grid"
	"github.com/san-kum/ballsim/internal/wall"
)

// epsilon guards against re-detecting the collision the two balls (or the
// ball and wall) are already touching at, and against treating numerical
// noise as future-directed motion.
const epsilon = 1e-12

// zeroTol is the squared-magnitude tolerance below which a relative
// velocity or separation is treated as exactly zero.
const zeroTol = 1e-24

// BallBallCollisionTime predicts when b1 and b2 next touch. The two balls
// may have different proper times (one may have just been advanced by an
// event the other wasn't party to); both are first advanced analytically
// to their later common reference time tRef before the relative motion is
// solved, so the quadratic's inputs are always simultaneous.
func BallBallCollisionTime(b1, b2 *ball.Ball, gravity bool) (float64, bool) {
	tRef := b1.Time
	if b2.Time > tRef {
		tRef = b2.Time
	}
	pos1, vel1 := b1.StateAt(tRef, gravity)
	pos2, vel2 := b2.StateAt(tRef, gravity)

	relPos := pos2.Sub(pos1)
	relVel := vel2.Sub(vel1)

	posDotVel := relPos.Dot(relVel)
	if posDotVel > 0 {
		return 0, false
	}

	relVelSq := relVel.Dot(relVel)
	if relVelSq < zeroTol {
		return 0, false
	}

	touchDistance := b1.Radius + b2.Radius
	a := relVelSq
	b := 2 * posDotVel
	c := relPos.Dot(relPos) - touchDistance*touchDistance

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return 0, false
	}
	sqrtDisc := math.Sqrt(discriminant)
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)

	tau, ok := earliestPositive(t1, t2)
	if !ok {
		return 0, false
	}
	return tRef + tau, true
}

// BallWallCollisionTime predicts when b's surface next touches w, solved
// at b's own proper time.
func BallWallCollisionTime(b *ball.Ball, w wall.Wall, gravity bool) (float64, bool) {
	pos := b.Position
	vel := b.Velocity
	axis := w.Axis

	ballToWall := w.Coordinate - pos[axis]
	var collisionCoord float64
	if ballToWall > 0 {
		collisionCoord = w.Coordinate - b.Radius
	} else {
		collisionCoord = w.Coordinate + b.Radius
	}

	var tau float64
	var ok bool
	if axis == 1 && gravity {
		// pos_y + vel_y*t - 0.5*t^2 = collisionCoord, same quadratic form as
		// the grid-transit crossing below: -0.5*t^2 + vel_y*t + (pos_y - collisionCoord) = 0
		a := -0.5
		bb := vel[1]
		c := pos[1] - collisionCoord

		discriminant := bb*bb - 4*a*c
		if discriminant < 0 {
			return 0, false
		}
		sqrtDisc := math.Sqrt(discriminant)
		t1 := (-bb + sqrtDisc) / (2 * a)
		t2 := (-bb - sqrtDisc) / (2 * a)
		tau, ok = earliestPositive(t1, t2)
	} else {
		velocityComponent := vel[axis]
		if math.Abs(velocityComponent) < epsilon {
			return 0, false
		}
		tau = (collisionCoord - pos[axis]) / velocityComponent
		ok = tau > epsilon
	}
	if !ok {
		return 0, false
	}
	return b.Time + tau, true
}

// GridTransitTime predicts when b's center next crosses a cell face,
// solved at b's own proper time. It returns the earliest crossing across
// all axes together with the cell the ball will occupy afterward.
func GridTransitTime(b *ball.Ball, ndim int, cellSize float64, gravity bool) (float64, grid.Cell, bool) {
	pos := b.Position
	vel := b.Velocity

	cellCoord := [3]int{b.Cell.X, b.Cell.Y, b.Cell.Z}

	var earliest float64
	var newCell grid.Cell
	found := false

	consider := func(tau float64, axis, delta int) {
		if tau <= epsilon {
			return
		}
		if !found || tau < earliest {
			found = true
			earliest = tau
			newCell = grid.Cell{X: cellCoord[0], Y: cellCoord[1], Z: cellCoord[2]}
			switch axis {
			case 0:
				newCell.X += delta
			case 1:
				newCell.Y += delta
			case 2:
				newCell.Z += delta
			}
		}
	}

	for axis := 0; axis < ndim; axis++ {
		velocityComponent := vel[axis]
		gravityAxis := axis == 1 && gravity
		if math.Abs(velocityComponent) < epsilon && !gravityAxis {
			continue
		}

		leftBoundary := float64(cellCoord[axis]) * cellSize
		rightBoundary := float64(cellCoord[axis]+1) * cellSize

		if gravityAxis {
			for _, boundary := range []struct {
				coord float64
				delta int
			}{{leftBoundary, -1}, {rightBoundary, 1}} {
				// -0.5*t^2 + vel_y*t + (pos_y - boundary) = 0
				a := -0.5
				bb := vel[1]
				c := pos[1] - boundary.coord

				discriminant := bb*bb - 4*a*c
				if discriminant < 0 {
					continue
				}
				sqrtDisc := math.Sqrt(discriminant)
				t1 := (-bb + sqrtDisc) / (2 * a)
				t2 := (-bb - sqrtDisc) / (2 * a)
				consider(t1, axis, boundary.delta)
				consider(t2, axis, boundary.delta)
			}
		} else {
			for _, boundary := range []struct {
				coord float64
				delta int
			}{{leftBoundary, -1}, {rightBoundary, 1}} {
				tau := (boundary.coord - pos[axis]) / velocityComponent
				consider(tau, axis, boundary.delta)
			}
		}
	}

	if !found {
		return 0, grid.Cell{}, false
	}
	return b.Time + earliest, newCell, true
}

// ResolveBallBall updates b1 and b2's velocities for an elastic or
// inelastic (restitution < 1) collision along the line joining their
// centers. Both balls must already be advanced to the same time.
func ResolveBallBall(b1, b2 *ball.Ball, restitution float64) {
	relPos := b2.Position.Sub(b1.Position)
	distanceSq := relPos.Dot(relPos)

	var normal geom.Vec
	if distanceSq < zeroTol {
		normal = geom.New(len(b1.Position))
		normal[0] = 1.0
	} else {
		distance := math.Sqrt(distanceSq)
		normal = relPos.Scale(1.0 / distance)
	}

	relVel := b2.Velocity.Sub(b1.Velocity)
	velAlongNormal := relVel.Dot(normal)
	if velAlongNormal > 0 {
		return
	}

	deltaVel := -(1 + restitution) * velAlongNormal
	velocityChange := normal.Scale(deltaVel / 2.0)

	b1.Velocity = b1.Velocity.Sub(velocityChange)
	b2.Velocity = b2.Velocity.Add(velocityChange)
}

// ResolveBallWall updates b's velocity for a collision against w.
func ResolveBallWall(b *ball.Ball, w wall.Wall, restitution float64) {
	normal := geom.New(len(b.Position))
	if b.Position[w.Axis] < w.Coordinate {
		normal[w.Axis] = -1.0
	} else {
		normal[w.Axis] = 1.0
	}

	velAlongNormal := b.Velocity.Dot(normal)
	if velAlongNormal >= 0 {
		return
	}

	b.Velocity = b.Velocity.Sub(normal.Scale((1 + restitution) * velAlongNormal))
}

// earliestPositive returns the smaller of t1, t2 that exceeds epsilon, if
// either does.
func earliestPositive(t1, t2 float64) (float64, bool) {
	var result float64
	found := false
	if t1 > epsilon {
		result = t1
		found = true
	}
	if t2 > epsilon && (!found || t2 < result) {
		result = t2
		found = true
	}
	return result, found
}
