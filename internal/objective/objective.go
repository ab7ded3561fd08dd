// Package objective provides the fixed catalog of scoring rules.
// Each rule is a pure function from a grid to a Score; two rules are
// active per season (see engine.Roster).
package objective

import (
	"fmt"
	"strconv"

	"github.com/talgya/kartograph/internal/world"
)

// Score is a non-negative point total.
type Score int

// String renders zero as "-", as on the score sheet.
func (s Score) String() string {
	if s == 0 {
		return "-"
	}
	return strconv.Itoa(int(s))
}

// Kind identifies one objective of the catalog.
type Kind uint8

const (
	ForestEnclosure    Kind = iota // +1 per forest with no free neighbor
	MountainAdjacency              // +1 per water/farm cell next to a mountain, per mountain
	LongestDiagonal                // +3 per fully occupied diagonal touching the left border
	LargeVillages                  // +8 per village area of at least 6 cells
	IsolatedVillage                // size of the largest village area not touching a mountain
	SecondVillage                  // size of the second largest village area
	RuinGranary                    // +3 per farmed ruin, +1 per water next to a ruin
	FullLines                      // +6 per fully occupied row or column
	ForestLines                    // +1 per row or column containing a forest
	Coastal                        // +3 per inland water area without farms, and vice versa
	VillageDiversity               // +3 per village area bordering 3+ kinds
	LargestSquare                  // edge length of the largest free square
	EnclosedFree                   // +1 per free cell with no free neighbor
	ForestBorder                   // +1 per forest on the outer ring
	Irrigation                     // +1 per farm next to water and per water next to a farm
	MountainForestLink             // +3 per mountain joined to another by a forest area
	numKinds
)

var kindNames = [numKinds]string{
	ForestEnclosure:    "Treetower",
	MountainAdjacency:  "Mages Valley",
	LongestDiagonal:    "The Broken Road",
	LargeVillages:      "Wildholds",
	IsolatedVillage:    "Great City",
	SecondVillage:      "Shieldgate",
	RuinGranary:        "Golden Granary",
	FullLines:          "Borderlands",
	ForestLines:        "Greenbough",
	Coastal:            "Shoreside Expanse",
	VillageDiversity:   "Greengold Plains",
	LargestSquare:      "Lost Barony",
	EnclosedFree:       "The Cauldrons",
	ForestBorder:       "Sentinel Wood",
	Irrigation:         "Canal Lake",
	MountainForestLink: "Stoneside Forest",
}

// Catalog returns every objective kind in declaration order.
func Catalog() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Name returns the display name of the objective.
func (k Kind) Name() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "Unknown"
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Valid reports whether k names a catalog entry.
func (k Kind) Valid() bool {
	return k < numKinds
}

// Score evaluates the grid against objective k.
func (k Kind) Score(g *world.Grid) Score {
	return Evaluate(k, g)
}

// Evaluate scores the grid against objective k. Unknown kinds score zero.
func Evaluate(k Kind, g *world.Grid) Score {
	switch k {
	case ForestEnclosure:
		return forestEnclosure(g)
	case MountainAdjacency:
		return mountainAdjacency(g)
	case LongestDiagonal:
		return longestDiagonal(g)
	case LargeVillages:
		return largeVillages(g)
	case IsolatedVillage:
		return isolatedVillage(g)
	case SecondVillage:
		return secondVillage(g)
	case RuinGranary:
		return ruinGranary(g)
	case FullLines:
		return fullLines(g)
	case ForestLines:
		return forestLines(g)
	case Coastal:
		return coastal(g)
	case VillageDiversity:
		return villageDiversity(g)
	case LargestSquare:
		return largestSquare(g)
	case EnclosedFree:
		return enclosedFree(g)
	case ForestBorder:
		return forestBorder(g)
	case Irrigation:
		return irrigation(g)
	case MountainForestLink:
		return mountainForestLink(g)
	}
	return 0
}
