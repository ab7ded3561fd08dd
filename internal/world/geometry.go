package world

// Geometry is a non-empty list of offsets relative to an implicit (0, 0)
// anchor. Absolute cells are obtained by adding an anchor with At.
//
// Transforms return a fresh Geometry and never modify the receiver.
type Geometry []Coordinate

// NewGeometry builds a geometry from the given offsets. With no offsets the
// result is the single cell at the origin.
func NewGeometry(cells ...Coordinate) Geometry {
	if len(cells) == 0 {
		return Geometry{{}}
	}
	g := make(Geometry, len(cells))
	copy(g, cells)
	return g
}

// Clone returns an independent copy.
func (g Geometry) Clone() Geometry {
	return NewGeometry(g...)
}

func (g Geometry) mapCells(fn func(Coordinate) Coordinate) Geometry {
	if len(g) == 0 {
		g = NewGeometry()
	}
	out := make(Geometry, len(g))
	for i, c := range g {
		out[i] = fn(c)
	}
	return out
}

// RotateClockwise rotates every offset by 90° clockwise about the origin.
func (g Geometry) RotateClockwise() Geometry {
	return g.mapCells(func(c Coordinate) Coordinate {
		return c.Perp().Perp().Perp()
	})
}

// RotateCounterClockwise rotates every offset by 90° counter-clockwise about the origin.
func (g Geometry) RotateCounterClockwise() Geometry {
	return g.mapCells(Coordinate.Perp)
}

// Mirror negates the x component of every offset.
func (g Geometry) Mirror() Geometry {
	return g.mapCells(func(c Coordinate) Coordinate {
		return Coordinate{X: -c.X, Y: c.Y}
	})
}

// Orientations returns the geometry and its mirror image, each in all four
// rotations. Duplicates are not removed.
func (g Geometry) Orientations() []Geometry {
	out := make([]Geometry, 0, 8)
	for _, base := range []Geometry{g.Clone(), g.Mirror()} {
		cur := base
		for range 4 {
			out = append(out, cur)
			cur = cur.RotateClockwise()
		}
	}
	return out
}

// At returns the absolute cells covered when the geometry is anchored at anchor.
func (g Geometry) At(anchor Coordinate) []Coordinate {
	out := make([]Coordinate, len(g))
	for i, c := range g {
		out[i] = anchor.Add(c)
	}
	return out
}

// Bounds returns the per-axis minimum and maximum over all offsets. The
// origin is always included, so the box contains the anchor.
func (g Geometry) Bounds() (lo, hi Coordinate) {
	for _, c := range g {
		lo.X = min(lo.X, c.X)
		lo.Y = min(lo.Y, c.Y)
		hi.X = max(hi.X, c.X)
		hi.Y = max(hi.Y, c.Y)
	}
	return lo, hi
}

// MaxSizeInRect returns the largest cell edge length at which the bounding
// box fits into a width × height rectangle.
func (g Geometry) MaxSizeInRect(width, height float64) float64 {
	lo, hi := g.Bounds()
	dx := float64(hi.X - lo.X + 1)
	dy := float64(hi.Y - lo.Y + 1)
	return min(width/dx, height/dy)
}

// CenterOffset returns the offset that centers the bounding box on the anchor,
// in cell units.
func (g Geometry) CenterOffset() (x, y float64) {
	lo, hi := g.Bounds()
	x = float64(hi.X) - float64(hi.X-lo.X)/2
	y = float64(hi.Y) - float64(hi.Y-lo.Y)/2
	return x, y
}
