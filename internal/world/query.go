package world

import (
	"cmp"
	"iter"
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// All yields every cell in row-major order.
func (g *Grid) All() iter.Seq[*Field] {
	return func(yield func(*Field) bool) {
		for i := range g.cells {
			if !yield(&g.cells[i]) {
				return
			}
		}
	}
}

// Mountains yields every mountain cell.
func (g *Grid) Mountains() iter.Seq[*Field] {
	return g.filter((*Field).IsMountain)
}

// Ruins yields every ruin cell.
func (g *Grid) Ruins() iter.Seq[*Field] {
	return g.filter((*Field).IsRuin)
}

func (g *Grid) filter(keep func(*Field) bool) iter.Seq[*Field] {
	return func(yield func(*Field) bool) {
		for f := range g.All() {
			if keep(f) && !yield(f) {
				return
			}
		}
	}
}

// Row yields the cells with y == n, left to right. Empty if n is out of range.
func (g *Grid) Row(n int) iter.Seq[*Field] {
	return g.line(C(0, n), C(1, 0))
}

// Column yields the cells with x == n, top to bottom. Empty if n is out of range.
func (g *Grid) Column(n int) iter.Seq[*Field] {
	return g.line(C(n, 0), C(0, 1))
}

// Rows yields every row.
func (g *Grid) Rows() iter.Seq[iter.Seq[*Field]] {
	return func(yield func(iter.Seq[*Field]) bool) {
		for n := range Size {
			if !yield(g.Row(n)) {
				return
			}
		}
	}
}

// Columns yields every column.
func (g *Grid) Columns() iter.Seq[iter.Seq[*Field]] {
	return func(yield func(iter.Seq[*Field]) bool) {
		for n := range Size {
			if !yield(g.Column(n)) {
				return
			}
		}
	}
}

// line walks from start by step until it leaves the grid.
func (g *Grid) line(start, step Coordinate) iter.Seq[*Field] {
	return func(yield func(*Field) bool) {
		for c := start; InBounds(c); c = c.Add(step) {
			if !yield(g.field(c)) {
				return
			}
		}
	}
}

// NumDiagonals is the number of anti-diagonals on the grid.
const NumDiagonals = 2*Size - 1

// NthDiagonal yields the cells with x + y == n, starting at the top or right
// border and walking towards the bottom-left. Valid for n in [0, NumDiagonals).
func (g *Grid) NthDiagonal(n int) iter.Seq[*Field] {
	if n < 0 || n >= NumDiagonals {
		return func(func(*Field) bool) {}
	}
	x := min(n, Size-1)
	return g.line(C(x, n-x), C(-1, 1))
}

// Diagonals yields every anti-diagonal, starting in the top-left corner.
func (g *Grid) Diagonals() iter.Seq[iter.Seq[*Field]] {
	return func(yield func(iter.Seq[*Field]) bool) {
		for n := range NumDiagonals {
			if !yield(g.NthDiagonal(n)) {
				return
			}
		}
	}
}

// Neighbors yields the up to four axis-adjacent cells of c.
func (g *Grid) Neighbors(c Coordinate) iter.Seq[*Field] {
	return func(yield func(*Field) bool) {
		for _, off := range neighborOffsets {
			n := c.Add(off)
			if !InBounds(n) {
				continue
			}
			if !yield(g.field(n)) {
				return
			}
		}
	}
}

// NeighborCount returns how many neighbors c has on the grid (4 away from the border).
func NeighborCount(c Coordinate) int {
	n := 0
	for _, off := range neighborOffsets {
		if InBounds(c.Add(off)) {
			n++
		}
	}
	return n
}

// Area returns the registered area with the given id.
func (g *Grid) Area(id AreaID) (*AreaInfo, bool) {
	a, ok := g.areas[id]
	return a, ok
}

// AreaCount returns the number of live areas.
func (g *Grid) AreaCount() int {
	return len(g.areas)
}

// AreaIDs yields every live area of the given kind, largest first. Areas of
// equal size are ordered by ascending id, so older areas come first.
func (g *Grid) AreaIDs(c Cultivation) iter.Seq2[AreaID, *AreaInfo] {
	ids := make([]AreaID, 0, len(g.areas))
	for id, info := range g.areas {
		if info.Kind == c {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, func(a, b AreaID) int {
		if d := cmp.Compare(g.areas[b].Size(), g.areas[a].Size()); d != 0 {
			return d
		}
		return cmp.Compare(a, b)
	})

	return func(yield func(AreaID, *AreaInfo) bool) {
		for _, id := range ids {
			if !yield(id, g.areas[id]) {
				return
			}
		}
	}
}

// AreaNeighbors yields each distinct cell adjacent to any member of the area,
// in member order. Member cells adjacent to other members are included; callers
// filter as needed. Yields nothing for an unknown id.
func (g *Grid) AreaNeighbors(id AreaID) iter.Seq[*Field] {
	return func(yield func(*Field) bool) {
		info, ok := g.areas[id]
		if !ok {
			return
		}
		seen := mapset.New[Coordinate]()
		for _, member := range info.Coords {
			for n := range g.Neighbors(member) {
				if seen.Has(n.Position) {
					continue
				}
				seen.Put(n.Position)
				if !yield(n) {
					return
				}
			}
		}
	}
}
