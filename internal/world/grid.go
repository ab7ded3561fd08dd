package world

import (
	"fmt"
	"slices"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// Size is the edge length of the square grid.
const Size = 11

// Grid holds the complete board state for one game: the fixed cell array,
// the area registry, and the area-id counter.
//
// A Grid is not safe for concurrent use. Views returned by the query methods
// are valid until the next call to a cultivating method.
type Grid struct {
	cells    [Size * Size]Field
	areas    map[AreaID]*AreaInfo
	nextArea AreaID
}

// NewGrid creates a grid with the classic five-mountain, six-ruin layout.
func NewGrid() *Grid {
	g, err := NewGridWithLayout(ClassicLayout())
	if err != nil {
		// The classic layout is a compile-time constant and always valid.
		panic(err)
	}
	return g
}

// NewGridWithLayout creates a grid with the given mountains and ruins.
// An empty layout yields a grid of normal cells only.
func NewGridWithLayout(l Layout) (*Grid, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	g := &Grid{
		areas:    make(map[AreaID]*AreaInfo),
		nextArea: 1,
	}
	for y := range Size {
		for x := range Size {
			g.cells[x+y*Size].Position = C(x, y)
		}
	}
	for _, pos := range l.Mountains {
		f := g.field(pos)
		f.Terrain = TerrainMountain
		f.Coin = true
	}
	for _, pos := range l.Ruins {
		g.field(pos).Terrain = TerrainRuin
	}
	return g, nil
}

// InBounds returns true if the coordinate lies on the grid.
func InBounds(c Coordinate) bool {
	return c.X >= 0 && c.X < Size && c.Y >= 0 && c.Y < Size
}

// field returns the cell at an in-bounds coordinate.
func (g *Grid) field(c Coordinate) *Field {
	return &g.cells[c.X+c.Y*Size]
}

// At returns the cell at the given coordinate, or false if out of bounds.
func (g *Grid) At(c Coordinate) (*Field, bool) {
	if !InBounds(c) {
		return nil, false
	}
	return g.field(c), true
}

// IsFree reports whether the cell exists and can still be covered.
func (g *Grid) IsFree(c Coordinate) bool {
	f, ok := g.At(c)
	return ok && f.IsFree()
}

// IsRuin reports whether the cell exists and is a ruin.
func (g *Grid) IsRuin(c Coordinate) bool {
	f, ok := g.At(c)
	return ok && f.IsRuin()
}

// CheckPlacement validates a placement and returns the reason for rejecting
// it, or nil if the geometry may be placed at anchor.
func (g *Grid) CheckPlacement(geom Geometry, anchor Coordinate, ruinRequired bool) error {
	onRuin := false
	for _, cell := range geom.At(anchor) {
		f, ok := g.At(cell)
		switch {
		case !ok:
			return fmt.Errorf("%w: %v", ErrOutOfBounds, cell)
		case f.IsMountain():
			return fmt.Errorf("%w: %v", ErrMountain, cell)
		case f.Info != nil:
			return fmt.Errorf("%w: %v", ErrOccupied, cell)
		}
		if f.IsRuin() {
			onRuin = true
		}
	}
	if ruinRequired && !onRuin {
		return ErrRuinRequired
	}
	return nil
}

// AcceptsGeometryAt reports whether geom can be placed at anchor.
// This is the single placement gate for previews and commits.
func (g *Grid) AcceptsGeometryAt(geom Geometry, anchor Coordinate, ruinRequired bool) bool {
	return g.CheckPlacement(geom, anchor, ruinRequired) == nil
}

// AcceptsGeometry reports whether geom fits anywhere on the grid in any of its
// eight orientations. False means the card cannot be played.
func (g *Grid) AcceptsGeometry(geom Geometry, ruinRequired bool) bool {
	for _, o := range geom.Orientations() {
		for i := range g.cells {
			if g.AcceptsGeometryAt(o, g.cells[i].Position, ruinRequired) {
				return true
			}
		}
	}
	return false
}

// Cultivate validates and commits a placement without a ruin requirement.
func (g *Grid) Cultivate(geom Geometry, anchor Coordinate, c Cultivation) (AreaID, error) {
	return g.TryCultivate(geom, anchor, c, false)
}

// TryCultivate validates the placement and, if accepted, cultivates every
// covered cell and merges the new cells with adjacent areas of the same kind.
// Returns the id of the area that now contains the first covered cell.
// On rejection the grid is unchanged.
func (g *Grid) TryCultivate(geom Geometry, anchor Coordinate, c Cultivation, ruinRequired bool) (AreaID, error) {
	if err := g.CheckPlacement(geom, anchor, ruinRequired); err != nil {
		return 0, err
	}

	cells := geom.At(anchor)
	for _, pos := range cells {
		g.field(pos).Info = &CultivationInfo{Cultivation: c}
	}

	// A connected shape takes a single fresh id. Cells the first flood did
	// not reach (disconnected shapes) seed their own area.
	for _, pos := range cells {
		if g.field(pos).Info.AreaID != 0 {
			continue
		}
		g.propagateID(pos, g.allocateID(), c)
	}
	return g.field(cells[0]).Info.AreaID, nil
}

func (g *Grid) allocateID() AreaID {
	id := g.nextArea
	g.nextArea++
	return id
}

// propagateID floods id from seed across every connected cell of the same
// cultivation whose current id is older, absorbing those areas.
func (g *Grid) propagateID(seed Coordinate, id AreaID, c Cultivation) {
	queue := []Coordinate{seed}
	var members []Coordinate
	absorbed := mapset.New[AreaID]()

	for len(queue) > 0 {
		pos := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		members = append(members, pos)
		g.field(pos).Info.AreaID = id

		for n := range g.Neighbors(pos) {
			if n.Info == nil || n.Info.Cultivation != c || n.Info.AreaID >= id {
				continue
			}
			queue = append(queue, n.Position)
			if n.Info.AreaID != 0 {
				absorbed.Put(n.Info.AreaID)
			}
		}
	}

	slices.SortFunc(members, Compare)
	members = slices.Compact(members)

	absorbed.Each(func(old AreaID) {
		delete(g.areas, old)
	})
	g.areas[id] = &AreaInfo{Kind: c, Coords: members}
}

// MountainCoins collects the coin of every mountain that has just become
// fully enclosed (no free neighbor) and returns their positions. Mountains
// already collected are never reported again.
func (g *Grid) MountainCoins() []Coordinate {
	var collected []Coordinate
	for m := range g.Mountains() {
		if !m.Coin {
			continue
		}
		enclosed := true
		for n := range g.Neighbors(m.Position) {
			if n.IsFree() {
				enclosed = false
				break
			}
		}
		if !enclosed {
			continue
		}
		m.Coin = false
		collected = append(collected, m.Position)
	}
	return collected
}

// CheckConsistency verifies that the area registry and the cells agree:
// every referenced id is registered and every registered area lists exactly
// the cells that reference it.
func (g *Grid) CheckConsistency() error {
	counts := make(map[AreaID]int, len(g.areas))
	for i := range g.cells {
		f := &g.cells[i]
		if f.Info == nil {
			continue
		}
		info, ok := g.areas[f.Info.AreaID]
		if !ok {
			return fmt.Errorf("%w: cell %v references unknown area %d", ErrInconsistentArea, f.Position, f.Info.AreaID)
		}
		if info.Kind != f.Info.Cultivation {
			return fmt.Errorf("%w: cell %v is %v but area %d is %v", ErrInconsistentArea, f.Position, f.Info.Cultivation, f.Info.AreaID, info.Kind)
		}
		if _, found := slices.BinarySearchFunc(info.Coords, f.Position, Compare); !found {
			return fmt.Errorf("%w: area %d does not list cell %v", ErrInconsistentArea, f.Info.AreaID, f.Position)
		}
		counts[f.Info.AreaID]++
	}
	for id, info := range g.areas {
		if counts[id] != info.Size() {
			return fmt.Errorf("%w: area %d has %d members but %d cells reference it", ErrInconsistentArea, id, info.Size(), counts[id])
		}
	}
	return nil
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	free := 0
	for i := range g.cells {
		if g.cells[i].IsFree() {
			free++
		}
	}
	return fmt.Sprintf("Grid(size=%d, free=%d, areas=%d)", Size, free, len(g.areas))
}

var cultivationGlyphs = [...]byte{'V', 'W', 'F', 'T', 'G'}

// Render draws the grid as text, one row per line: '.' free, 'r' free ruin,
// '^' mountain, and V W F T G for village, water, farm, forest and goblin.
func (g *Grid) Render() string {
	var b strings.Builder
	b.Grow(Size * (Size + 1))
	for y := range Size {
		for x := range Size {
			f := g.field(C(x, y))
			switch {
			case f.IsMountain():
				b.WriteByte('^')
			case f.Info != nil && int(f.Info.Cultivation) < len(cultivationGlyphs):
				b.WriteByte(cultivationGlyphs[f.Info.Cultivation])
			case f.Info != nil:
				b.WriteByte('?')
			case f.IsRuin():
				b.WriteByte('r')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
