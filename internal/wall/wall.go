// Package wall models the fixed axis-aligned box boundary balls collide
// against, grounded on original_source/src/wall.py.
package wall

// Wall is a plane perpendicular to Axis (0=x, 1=y, 2=z) at Coordinate.
type Wall struct {
	Axis        int
	Coordinate  float64
	Restitution float64
}

// Box builds the 2*ndim walls of a rectangular domain, each inset from the
// domain boundary by inset (spec.md default 0.01).
func Box(ndim int, domainSize []float64, inset, restitution float64) []Wall {
	walls := make([]Wall, 0, 2*ndim)

	walls = append(walls,
		Wall{Axis: 1, Coordinate: inset, Restitution: restitution},                  // bottom
		Wall{Axis: 1, Coordinate: domainSize[1] - inset, Restitution: restitution},  // top
		Wall{Axis: 0, Coordinate: inset, Restitution: restitution},                  // left
		Wall{Axis: 0, Coordinate: domainSize[0] - inset, Restitution: restitution},  // right
	)

	if ndim == 3 {
		walls = append(walls,
			Wall{Axis: 2, Coordinate: inset, Restitution: restitution},                 // front
			Wall{Axis: 2, Coordinate: domainSize[2] - inset, Restitution: restitution}, // back
		)
	}

	return walls
}
