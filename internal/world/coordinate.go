// Package world provides the square grid, terrain, shapes, and the
// connected-area bookkeeping that objectives query.
// Uses (x, y) lattice coordinates; (0, 0) is the top-left cell.
package world

import "fmt"

// Coordinate is a point on the integer lattice. Used both for absolute grid
// cells and for shape offsets relative to an anchor.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// C is a convenience constructor for Coordinate.
func C(x, y int) Coordinate {
	return Coordinate{X: x, Y: y}
}

// Add returns the component-wise sum. This is how a shape offset is
// translated onto the grid.
func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{X: c.X + o.X, Y: c.Y + o.Y}
}

// Perp returns the perpendicular vector (x, y) -> (-y, x).
func (c Coordinate) Perp() Coordinate {
	return Coordinate{X: -c.Y, Y: c.X}
}

// String returns a string representation of the coordinate.
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Compare orders coordinates by x, then y.
func Compare(a, b Coordinate) int {
	switch {
	case a.X < b.X:
		return -1
	case a.X > b.X:
		return 1
	case a.Y < b.Y:
		return -1
	case a.Y > b.Y:
		return 1
	}
	return 0
}

// neighborOffsets are the four axis-adjacent directions: top, bottom, right, left.
var neighborOffsets = [4]Coordinate{
	{X: 0, Y: 1},
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: -1, Y: 0},
}
