package objective

import (
	"iter"

	"github.com/talgya/kartograph/internal/world"
	"github.com/zyedidia/generic/mapset"
)

func forestEnclosure(g *world.Grid) Score {
	var s Score
	for f := range g.All() {
		if f.Is(world.Forest) && freeNeighbors(g, f.Position) == 0 {
			s++
		}
	}
	return s
}

func mountainAdjacency(g *world.Grid) Score {
	var s Score
	for m := range g.Mountains() {
		for n := range g.Neighbors(m.Position) {
			if n.Is(world.Water) || n.Is(world.Farm) {
				s++
			}
		}
	}
	return s
}

// longestDiagonal only looks at the diagonals that start on the top row.
func longestDiagonal(g *world.Grid) Score {
	var s Score
	for n := range world.Size {
		if full(g.NthDiagonal(n)) {
			s += 3
		}
	}
	return s
}

func largeVillages(g *world.Grid) Score {
	var s Score
	for _, a := range g.AreaIDs(world.Village) {
		if a.Size() >= 6 {
			s += 8
		}
	}
	return s
}

func isolatedVillage(g *world.Grid) Score {
	for id, a := range g.AreaIDs(world.Village) {
		if !touches(g.AreaNeighbors(id), (*world.Field).IsMountain) {
			return Score(a.Size())
		}
	}
	return 0
}

func secondVillage(g *world.Grid) Score {
	rank := 0
	for _, a := range g.AreaIDs(world.Village) {
		rank++
		if rank == 2 {
			return Score(a.Size())
		}
	}
	return 0
}

func ruinGranary(g *world.Grid) Score {
	var s Score
	for r := range g.Ruins() {
		if r.Is(world.Farm) {
			s += 3
		}
		for n := range g.Neighbors(r.Position) {
			if n.Is(world.Water) {
				s++
			}
		}
	}
	return s
}

func fullLines(g *world.Grid) Score {
	var s Score
	for row := range g.Rows() {
		if full(row) {
			s += 6
		}
	}
	for col := range g.Columns() {
		if full(col) {
			s += 6
		}
	}
	return s
}

func forestLines(g *world.Grid) Score {
	isForest := func(f *world.Field) bool { return f.Is(world.Forest) }
	var s Score
	for row := range g.Rows() {
		if touches(row, isForest) {
			s++
		}
	}
	for col := range g.Columns() {
		if touches(col, isForest) {
			s++
		}
	}
	return s
}

// coastal scores inland areas of one kind that do not border the other.
func coastal(g *world.Grid) Score {
	return inlandAreas(g, world.Water, world.Farm) + inlandAreas(g, world.Farm, world.Water)
}

func inlandAreas(g *world.Grid, kind, avoid world.Cultivation) Score {
	var s Score
	for id, a := range g.AreaIDs(kind) {
		if touches(g.AreaNeighbors(id), func(f *world.Field) bool { return f.Is(avoid) }) {
			continue
		}
		inland := true
		for _, c := range a.Coords {
			if world.NeighborCount(c) != 4 {
				inland = false
				break
			}
		}
		if inland {
			s += 3
		}
	}
	return s
}

func villageDiversity(g *world.Grid) Score {
	var s Score
	for id := range g.AreaIDs(world.Village) {
		kinds := mapset.New[world.Cultivation]()
		for n := range g.AreaNeighbors(id) {
			if c, ok := n.Cultivation(); ok {
				kinds.Put(c)
			}
		}
		if kinds.Size() >= 3 {
			s += 3
		}
	}
	return s
}

// largestSquare returns the edge of the largest all-free square. The
// recurrence is usually written over blocked cells; run that way an empty
// grid would score 0, so it runs over free cells and an empty grid scores 11.
func largestSquare(g *world.Grid) Score {
	var dp [world.Size + 1][world.Size + 1]int
	best := 0
	for x := range world.Size {
		for y := range world.Size {
			if !g.IsFree(world.C(x, y)) {
				continue
			}
			v := 1 + min(dp[x][y+1], dp[x+1][y], dp[x][y])
			dp[x+1][y+1] = v
			best = max(best, v)
		}
	}
	return Score(best)
}

func enclosedFree(g *world.Grid) Score {
	var s Score
	for f := range g.All() {
		if f.IsFree() && freeNeighbors(g, f.Position) == 0 {
			s++
		}
	}
	return s
}

func forestBorder(g *world.Grid) Score {
	var s Score
	count := func(line iter.Seq[*world.Field], skipCorners bool) {
		for f := range line {
			y := f.Position.Y
			if skipCorners && (y == 0 || y == world.Size-1) {
				continue
			}
			if f.Is(world.Forest) {
				s++
			}
		}
	}
	count(g.Row(0), false)
	count(g.Row(world.Size-1), false)
	count(g.Column(0), true)
	count(g.Column(world.Size-1), true)
	return s
}

func irrigation(g *world.Grid) Score {
	var s Score
	for f := range g.All() {
		switch {
		case f.Is(world.Farm):
			if touches(g.Neighbors(f.Position), func(n *world.Field) bool { return n.Is(world.Water) }) {
				s++
			}
		case f.Is(world.Water):
			if touches(g.Neighbors(f.Position), func(n *world.Field) bool { return n.Is(world.Farm) }) {
				s++
			}
		}
	}
	return s
}

// mountainForestLink counts every mountain that shares a forest area with
// at least one other mountain.
func mountainForestLink(g *world.Grid) Score {
	linked := mapset.New[world.Coordinate]()
	for id := range g.AreaIDs(world.Forest) {
		var mountains []world.Coordinate
		for n := range g.AreaNeighbors(id) {
			if n.IsMountain() {
				mountains = append(mountains, n.Position)
			}
		}
		if len(mountains) < 2 {
			continue
		}
		for _, m := range mountains {
			linked.Put(m)
		}
	}
	return Score(3 * linked.Size())
}

func freeNeighbors(g *world.Grid, c world.Coordinate) int {
	n := 0
	for f := range g.Neighbors(c) {
		if f.IsFree() {
			n++
		}
	}
	return n
}

// full reports whether no cell of the line is free.
func full(line iter.Seq[*world.Field]) bool {
	for f := range line {
		if f.IsFree() {
			return false
		}
	}
	return true
}

func touches(cells iter.Seq[*world.Field], match func(*world.Field) bool) bool {
	for f := range cells {
		if match(f) {
			return true
		}
	}
	return false
}
