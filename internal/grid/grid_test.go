package grid

import (
	"testing"

	"github.com/san-kum/ballsim/internal/geom"
)

func TestPositionToCell(t *testing.T) {
	g := New(2, []float64{5, 5})
	cell := g.PositionToCell(geom.Vec{2.3, 4.9})
	if cell.X != 2 || cell.Y != 4 {
		t.Errorf("expected cell (2,4), got (%d,%d)", cell.X, cell.Y)
	}
}

func TestPositionToCellClampsOutOfBounds(t *testing.T) {
	g := New(2, []float64{5, 5})
	cell := g.PositionToCell(geom.Vec{-1, 10})
	if cell.X != 0 || cell.Y != 4 {
		t.Errorf("expected clamped cell (0,4), got (%d,%d)", cell.X, cell.Y)
	}
}

func TestAddMoveRemove(t *testing.T) {
	g := New(2, []float64{5, 5})
	a, b := Cell{X: 1, Y: 1}, Cell{X: 2, Y: 1}

	g.Add(0, a)
	neighbors := g.Neighbors(a)
	if len(neighbors) != 1 || neighbors[0] != 0 {
		t.Fatalf("expected ball 0 in neighbors, got %v", neighbors)
	}

	g.Move(0, a, b)
	occupantsOfA := 0
	g.forEachOffsetCell(a, func(c Cell) {
		if c == a {
			occupantsOfA = len(g.cells[c])
		}
	})
	if occupantsOfA != 0 {
		t.Errorf("expected cell a emptied after move, got %d occupants", occupantsOfA)
	}
}

func TestNeighborsIncludesSelfAndAdjacent(t *testing.T) {
	g := New(2, []float64{5, 5})
	g.Add(0, Cell{X: 2, Y: 2})
	g.Add(1, Cell{X: 3, Y: 2})
	g.Add(2, Cell{X: 0, Y: 0})

	neighbors := g.Neighbors(Cell{X: 2, Y: 2})
	if !contains(neighbors, 0) || !contains(neighbors, 1) {
		t.Errorf("expected both self and adjacent ball, got %v", neighbors)
	}
	if contains(neighbors, 2) {
		t.Errorf("did not expect distant ball 2 in neighbors, got %v", neighbors)
	}
}

func TestNewNeighborsReturnsLeadingFaceOnly(t *testing.T) {
	g := New(2, []float64{5, 5})
	g.Add(0, Cell{X: 0, Y: 2}) // trailing face, should not appear
	g.Add(1, Cell{X: 3, Y: 2}) // leading face, should appear

	leading := g.NewNeighbors(Cell{X: 1, Y: 2}, Cell{X: 2, Y: 2})
	if !contains(leading, 1) {
		t.Errorf("expected leading-face ball 1 present, got %v", leading)
	}
	if contains(leading, 0) {
		t.Errorf("did not expect trailing-face ball 0, got %v", leading)
	}
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
