package objective

import (
	"testing"

	"github.com/talgya/kartograph/internal/world"
)

func newGrid(t *testing.T, l world.Layout) *world.Grid {
	t.Helper()
	g, err := world.NewGridWithLayout(l)
	if err != nil {
		t.Fatalf("NewGridWithLayout: %v", err)
	}
	return g
}

func paint(t *testing.T, g *world.Grid, c world.Cultivation, cells ...world.Coordinate) {
	t.Helper()
	for _, cell := range cells {
		if _, err := g.Cultivate(world.NewGeometry(), cell, c); err != nil {
			t.Fatalf("Cultivate(%v, %v): %v", cell, c, err)
		}
	}
}

func mountains(cells ...world.Coordinate) world.Layout {
	return world.Layout{Mountains: cells}
}

func ruins(cells ...world.Coordinate) world.Layout {
	return world.Layout{Ruins: cells}
}

var c = world.C

func TestEmptyGrid(t *testing.T) {
	g := newGrid(t, world.Layout{})
	for _, k := range Catalog() {
		want := Score(0)
		if k == LargestSquare {
			want = world.Size
		}
		if got := Evaluate(k, g); got != want {
			t.Errorf("%v on empty grid = %d, want %d", k, got, want)
		}
	}
}

func TestFullGrid(t *testing.T) {
	g := newGrid(t, world.Layout{})
	for f := range g.All() {
		paint(t, g, world.Goblin, f.Position)
	}

	tests := []struct {
		kind Kind
		want Score
	}{
		{LargestSquare, 0},
		{FullLines, 2 * world.Size * 6},
		{LongestDiagonal, world.Size * 3},
		{EnclosedFree, 0},
		{ForestLines, 0},
	}
	for _, tc := range tests {
		if got := Evaluate(tc.kind, g); got != tc.want {
			t.Errorf("%v on full grid = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestObjectives(t *testing.T) {
	tests := []struct {
		name  string
		kind  Kind
		setup func(t *testing.T) *world.Grid
		want  Score
	}{
		{
			name: "forest in enclosed corner",
			kind: ForestEnclosure,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, world.Layout{})
				paint(t, g, world.Forest, c(0, 0))
				paint(t, g, world.Village, c(1, 0), c(0, 1))
				return g
			},
			want: 1,
		},
		{
			name: "forest with free neighbor",
			kind: ForestEnclosure,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, world.Layout{})
				paint(t, g, world.Forest, c(0, 0))
				paint(t, g, world.Village, c(1, 0))
				return g
			},
			want: 0,
		},
		{
			name: "water and farm next to a mountain",
			kind: MountainAdjacency,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, mountains(c(5, 5)))
				paint(t, g, world.Water, c(5, 6))
				paint(t, g, world.Farm, c(4, 5))
				paint(t, g, world.Forest, c(6, 5))
				return g
			},
			want: 2,
		},
		{
			name: "first two diagonals occupied",
			kind: LongestDiagonal,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, world.Layout{})
				paint(t, g, world.Farm, c(0, 0), c(1, 0), c(0, 1))
				return g
			},
			want: 6,
		},
		{
			name: "mountain fills a diagonal",
			kind: LongestDiagonal,
			setup: func(t *testing.T) *world.Grid {
				return newGrid(t, mountains(c(0, 0)))
			},
			want: 3,
		},
		{
			name: "lower diagonals are ignored",
			kind: LongestDiagonal,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, world.Layout{})
				paint(t, g, world.Farm, c(10, 10))
				return g
			},
			want: 0,
		},
		{
			name: "one large village",
			kind: LargeVillages,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, world.Layout{})
				paint(t, g, world.Village, c(0, 0), c(1, 0), c(2, 0), c(3, 0), c(4, 0), c(5, 0))
				paint(t, g, world.Village, c(0, 2), c(1, 2), c(2, 2), c(3, 2), c(4, 2))
				return g
			},
			want: 8,
		},
		{
			name: "largest village touches a mountain",
			kind: IsolatedVillage,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, mountains(c(5, 5)))
				paint(t, g, world.Village, c(4, 5), c(3, 5), c(2, 5), c(1, 5))
				paint(t, g, world.Village, c(0, 0), c(1, 0))
				return g
			},
			want: 2,
		},
		{
			name: "every village touches a mountain",
			kind: IsolatedVillage,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, mountains(c(5, 5)))
				paint(t, g, world.Village, c(4, 5))
				return g
			},
			want: 0,
		},
		{
			name: "second village",
			kind: SecondVillage,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, world.Layout{})
				paint(t, g, world.Village, c(1, 5), c(2, 5), c(3, 5), c(4, 5))
				paint(t, g, world.Village, c(0, 0), c(1, 0))
				paint(t, g, world.Village, c(9, 9))
				return g
			},
			want: 2,
		},
		{
			name: "single village has no second",
			kind: SecondVillage,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, world.Layout{})
				paint(t, g, world.Village, c(1, 5), c(2, 5))
				return g
			},
			want: 0,
		},
		{
			name: "farmed ruin and water around ruins",
			kind: RuinGranary,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, ruins(c(3, 3), c(7, 7)))
				paint(t, g, world.Farm, c(3, 3))
				paint(t, g, world.Water, c(3, 4), c(7, 8), c(6, 7))
				return g
			},
			want: 6,
		},
		{
			name: "one full row",
			kind: FullLines,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, mountains(c(10, 0)))
				for x := range world.Size - 1 {
					paint(t, g, world.Farm, c(x, 0))
				}
				return g
			},
			want: 6,
		},
		{
			name: "forest lines",
			kind: ForestLines,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, world.Layout{})
				paint(t, g, world.Forest, c(2, 3), c(2, 7))
				return g
			},
			want: 3,
		},
		{
			name: "inland water without farms",
			kind: Coastal,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, world.Layout{})
				paint(t, g, world.Water, c(5, 5), c(5, 6))
				paint(t, g, world.Farm, c(0, 0))
				paint(t, g, world.Water, c(2, 2))
				paint(t, g, world.Farm, c(2, 3))
				return g
			},
			want: 3,
		},
		{
			name: "two-cell village bordering two other kinds",
			kind: VillageDiversity,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, world.Layout{})
				paint(t, g, world.Village, c(5, 5), c(5, 4))
				paint(t, g, world.Farm, c(5, 6))
				paint(t, g, world.Forest, c(4, 5))
				return g
			},
			want: 3,
		},
		{
			name: "single village cell bordering two other kinds",
			kind: VillageDiversity,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, world.Layout{})
				paint(t, g, world.Village, c(5, 5))
				paint(t, g, world.Farm, c(5, 6))
				paint(t, g, world.Forest, c(4, 5))
				return g
			},
			want: 0,
		},
		{
			name: "village bordering one other kind",
			kind: VillageDiversity,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, world.Layout{})
				paint(t, g, world.Village, c(5, 5))
				paint(t, g, world.Farm, c(5, 6), c(5, 4))
				return g
			},
			want: 0,
		},
		{
			name: "mountain splits the grid",
			kind: LargestSquare,
			setup: func(t *testing.T) *world.Grid {
				return newGrid(t, mountains(c(5, 5)))
			},
			want: 5,
		},
		{
			name: "enclosed free cells",
			kind: EnclosedFree,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, world.Layout{})
				paint(t, g, world.Farm, c(5, 4), c(5, 6), c(4, 5), c(6, 5))
				paint(t, g, world.Water, c(1, 0), c(0, 1))
				return g
			},
			want: 2,
		},
		{
			name: "forests on the border",
			kind: ForestBorder,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, world.Layout{})
				paint(t, g, world.Forest, c(0, 0), c(5, 0), c(0, 5), c(10, 10), c(5, 5))
				return g
			},
			want: 4,
		},
		{
			name: "farm between water cells",
			kind: Irrigation,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, world.Layout{})
				paint(t, g, world.Farm, c(5, 5))
				paint(t, g, world.Water, c(5, 6), c(5, 7))
				return g
			},
			want: 2,
		},
		{
			name: "forest joins two mountains",
			kind: MountainForestLink,
			setup: func(t *testing.T) *world.Grid {
				g := newGrid(t, mountains(c(2, 5), c(6, 5), c(9, 9)))
				paint(t, g, world.Forest, c(3, 5), c(4, 5), c(5, 5))
				paint(t, g, world.Forest, c(9, 8))
				return g
			},
			want: 6,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := tc.setup(t)
			if got := tc.kind.Score(g); got != tc.want {
				t.Errorf("%v = %d, want %d", tc.kind, got, tc.want)
			}
		})
	}
}

func TestVillageRanking(t *testing.T) {
	g := newGrid(t, mountains(c(5, 5)))
	paint(t, g, world.Village, c(0, 0), c(1, 0))
	paint(t, g, world.Village, c(8, 8), c(9, 8))
	paint(t, g, world.Village, c(4, 5), c(3, 5), c(2, 5))

	if got := Evaluate(IsolatedVillage, g); got != 2 {
		t.Errorf("IsolatedVillage = %d, want 2", got)
	}
	if got := Evaluate(SecondVillage, g); got != 2 {
		t.Errorf("SecondVillage = %d, want 2", got)
	}
}

func TestCatalog(t *testing.T) {
	kinds := Catalog()
	if len(kinds) != 16 {
		t.Fatalf("len(Catalog) = %d, want 16", len(kinds))
	}
	seen := make(map[string]bool)
	for _, k := range kinds {
		if !k.Valid() {
			t.Errorf("%d not valid", k)
		}
		if seen[k.Name()] {
			t.Errorf("duplicate name %q", k.Name())
		}
		seen[k.Name()] = true
	}
	if Kind(200).Valid() || Kind(200).Name() != "Unknown" {
		t.Error("Kind(200) should be invalid")
	}
	if Evaluate(Kind(200), world.NewGrid()) != 0 {
		t.Error("unknown kind should score zero")
	}
}

func TestScoreString(t *testing.T) {
	if Score(0).String() != "-" || Score(12).String() != "12" {
		t.Errorf("Score strings = %q, %q", Score(0), Score(12))
	}
}
