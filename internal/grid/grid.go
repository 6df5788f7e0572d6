// Package grid implements the uniform spatial partition that bounds
// neighbor search for ball-ball collision candidates, grounded on
// original_source/src/grid.py.
package grid

import (
	"math"

	"github.com/san-kum/ballsim/internal/geom"
)

// CellSize is the fixed edge length of every cell. The kernel requires
// 2*ballRadius < CellSize so two balls can only collide while sharing or
// neighboring a cell.
const CellSize = 1.0

// Cell is an integer grid coordinate. Z is unused (stays 0) in 2D.
type Cell struct {
	X, Y, Z int
}

// Grid buckets ball indices by the cell containing their center.
type Grid struct {
	ndim     int
	numCells [3]int
	cells    map[Cell]map[int]struct{}
}

// New builds an empty grid sized to cover domainSize.
func New(ndim int, domainSize []float64) *Grid {
	g := &Grid{
		ndim:  ndim,
		cells: make(map[Cell]map[int]struct{}),
	}
	for i := 0; i < 3; i++ {
		g.numCells[i] = 1
	}
	for i := 0; i < ndim; i++ {
		g.numCells[i] = int(math.Ceil(domainSize[i] / CellSize))
	}
	return g
}

// NumCells returns the per-axis cell counts (unused axes are 1).
func (g *Grid) NumCells() [3]int { return g.numCells }

// TotalCells returns the number of interior cells across all used axes.
func (g *Grid) TotalCells() int {
	total := 1
	for i := 0; i < g.ndim; i++ {
		total *= g.numCells[i]
	}
	return total
}

// PositionToCell maps a center position to its containing cell, clamped to
// the grid's bounds.
func (g *Grid) PositionToCell(pos geom.Vec) Cell {
	coords := [3]int{}
	for i := 0; i < g.ndim; i++ {
		c := int(math.Floor(pos[i] / CellSize))
		if c < 0 {
			c = 0
		}
		if c > g.numCells[i]-1 {
			c = g.numCells[i] - 1
		}
		coords[i] = c
	}
	return Cell{X: coords[0], Y: coords[1], Z: coords[2]}
}

func (g *Grid) bucket(cell Cell) map[int]struct{} {
	b, ok := g.cells[cell]
	if !ok {
		b = make(map[int]struct{})
		g.cells[cell] = b
	}
	return b
}

// Add registers ballIndex as occupying cell.
func (g *Grid) Add(ballIndex int, cell Cell) {
	g.bucket(cell)[ballIndex] = struct{}{}
}

// Remove drops ballIndex from cell.
func (g *Grid) Remove(ballIndex int, cell Cell) {
	if b, ok := g.cells[cell]; ok {
		delete(b, ballIndex)
	}
}

// Move relocates ballIndex from oldCell to newCell.
func (g *Grid) Move(ballIndex int, oldCell, newCell Cell) {
	g.Remove(ballIndex, oldCell)
	g.Add(ballIndex, newCell)
}

func (g *Grid) valid(cell Cell) bool {
	coords := [3]int{cell.X, cell.Y, cell.Z}
	for i := 0; i < g.ndim; i++ {
		if coords[i] < 0 || coords[i] >= g.numCells[i] {
			return false
		}
	}
	return true
}

// Neighbors returns every ball index in the 3^ndim block of cells centered
// on cell, including cell itself.
func (g *Grid) Neighbors(cell Cell) []int {
	var out []int
	g.forEachOffsetCell(cell, func(c Cell) {
		for i := range g.cells[c] {
			out = append(out, i)
		}
	})
	return out
}

func (g *Grid) forEachOffsetCell(cell Cell, fn func(Cell)) {
	dzRange := []int{0}
	if g.ndim == 3 {
		dzRange = []int{-1, 0, 1}
	}
	for _, dx := range []int{-1, 0, 1} {
		for _, dy := range []int{-1, 0, 1} {
			for _, dz := range dzRange {
				c := Cell{X: cell.X + dx, Y: cell.Y + dy, Z: cell.Z + dz}
				if g.valid(c) {
					fn(c)
				}
			}
		}
	}
}

// NewNeighbors returns ball indices in cells that entered the 3^ndim
// neighborhood of newCell as a result of moving from oldCell to newCell
// by exactly one cell along a single axis (the "leading face" cells).
func (g *Grid) NewNeighbors(oldCell, newCell Cell) []int {
	movement := [3]int{newCell.X - oldCell.X, newCell.Y - oldCell.Y, newCell.Z - oldCell.Z}
	var out []int

	addFace := func(axis int) {
		lead := [3]int{newCell.X, newCell.Y, newCell.Z}
		lead[axis] += movement[axis]

		transverse := [][3]int{}
		otherRange := []int{-1, 0, 1}
		if axis == 0 {
			for _, dy := range otherRange {
				dzRange := []int{0}
				if g.ndim == 3 {
					dzRange = otherRange
				}
				for _, dz := range dzRange {
					transverse = append(transverse, [3]int{lead[0], newCell.Y + dy, newCell.Z + dz})
				}
			}
		} else if axis == 1 {
			for _, dx := range otherRange {
				dzRange := []int{0}
				if g.ndim == 3 {
					dzRange = otherRange
				}
				for _, dz := range dzRange {
					transverse = append(transverse, [3]int{newCell.X + dx, lead[1], newCell.Z + dz})
				}
			}
		} else {
			for _, dx := range otherRange {
				for _, dy := range otherRange {
					transverse = append(transverse, [3]int{newCell.X + dx, newCell.Y + dy, lead[2]})
				}
			}
		}

		for _, t := range transverse {
			c := Cell{X: t[0], Y: t[1], Z: t[2]}
			if g.valid(c) {
				for i := range g.cells[c] {
					out = append(out, i)
				}
			}
		}
	}

	for axis := 0; axis < g.ndim; axis++ {
		if movement[axis] != 0 {
			addFace(axis)
		}
	}

	return out
}
