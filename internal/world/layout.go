package world

// Grid layouts: the classic mountain and ruin sites, plus a seeded
// procedural alternative built from layered simplex noise.

import (
	"cmp"
	"fmt"
	"math/rand"
	"slices"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Layout lists the mountain and ruin sites of a grid.
type Layout struct {
	Mountains []Coordinate `json:"mountains"`
	Ruins     []Coordinate `json:"ruins"`
}

// ClassicLayout returns the fixed layout of the standard map.
func ClassicLayout() Layout {
	return Layout{
		Mountains: []Coordinate{C(2, 2), C(3, 9), C(5, 5), C(7, 1), C(8, 8)},
		Ruins:     []Coordinate{C(1, 2), C(1, 8), C(5, 1), C(5, 9), C(9, 2), C(9, 8)},
	}
}

// Validate checks that every site is on the grid and no cell is used twice.
func (l Layout) Validate() error {
	seen := make(map[Coordinate]Terrain, len(l.Mountains)+len(l.Ruins))
	check := func(sites []Coordinate, t Terrain) error {
		for _, c := range sites {
			if !InBounds(c) {
				return fmt.Errorf("%w: %s site %v out of bounds", ErrInvalidLayout, TerrainName(t), c)
			}
			if prev, ok := seen[c]; ok {
				return fmt.Errorf("%w: %s site %v already holds a %s", ErrInvalidLayout, TerrainName(t), c, TerrainName(prev))
			}
			seen[c] = t
		}
		return nil
	}
	if err := check(l.Mountains, TerrainMountain); err != nil {
		return err
	}
	return check(l.Ruins, TerrainRuin)
}

// LayoutConfig holds procedural layout parameters.
type LayoutConfig struct {
	Seed        int64 // Random seed (0 = random)
	Mountains   int   // Number of mountains
	Ruins       int   // Number of ruins
	MountainGap int   // Minimum Manhattan distance between mountains
	RuinGap     int   // Minimum Manhattan distance between any two sites involving a ruin
}

// DefaultLayoutConfig matches the site counts of the classic map.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Seed:        0,
		Mountains:   5,
		Ruins:       6,
		MountainGap: 4,
		RuinGap:     2,
	}
}

// GenerateLayout places mountains on the highest points of a noise
// elevation map and ruins on the highest points of a second layer,
// keeping sites apart. The same seed always yields the same layout.
func GenerateLayout(cfg LayoutConfig) Layout {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	elevNoise := opensimplex.NewNormalized(seed)
	ruinNoise := opensimplex.NewNormalized(seed + 1)

	var l Layout
	taken := make(map[Coordinate]bool)

	mountains := rankCells(func(c Coordinate) float64 {
		return octaveNoise(elevNoise, float64(c.X), float64(c.Y), 3, 0.18, 0.5)
	})
	l.Mountains = pickSites(mountains, cfg.Mountains, cfg.MountainGap, taken, nil)

	ruins := rankCells(func(c Coordinate) float64 {
		return octaveNoise(ruinNoise, float64(c.X), float64(c.Y), 2, 0.25, 0.5)
	})
	l.Ruins = pickSites(ruins, cfg.Ruins, cfg.RuinGap, taken, l.Mountains)

	return l
}

type scoredCell struct {
	coord Coordinate
	score float64
}

// rankCells scores every cell and sorts them by descending score.
// Equal scores fall back to coordinate order.
func rankCells(score func(Coordinate) float64) []scoredCell {
	cells := make([]scoredCell, 0, Size*Size)
	for y := range Size {
		for x := range Size {
			c := C(x, y)
			cells = append(cells, scoredCell{coord: c, score: score(c)})
		}
	}
	slices.SortFunc(cells, func(a, b scoredCell) int {
		if d := cmp.Compare(b.score, a.score); d != 0 {
			return d
		}
		return Compare(a.coord, b.coord)
	})
	return cells
}

// pickSites takes the best-ranked free cells that keep minGap to each other
// and to avoid. If spacing cannot be satisfied the gap is relaxed step by step.
func pickSites(ranked []scoredCell, n, minGap int, taken map[Coordinate]bool, avoid []Coordinate) []Coordinate {
	var sites []Coordinate
	for gap := minGap; gap >= 0 && len(sites) < n; gap-- {
		for _, c := range ranked {
			if len(sites) >= n {
				break
			}
			if taken[c.coord] || tooClose(c.coord, sites, gap) || tooClose(c.coord, avoid, gap) {
				continue
			}
			taken[c.coord] = true
			sites = append(sites, c.coord)
		}
	}
	return sites
}

func tooClose(c Coordinate, existing []Coordinate, minDist int) bool {
	for _, e := range existing {
		if Manhattan(c, e) < minDist {
			return true
		}
	}
	return false
}

// Manhattan returns the grid distance between two coordinates.
func Manhattan(a, b Coordinate) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for range octaves {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
