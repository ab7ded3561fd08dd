package world

import (
	"fmt"
	"strings"
)

// Terrain is the fixed structural kind of a cell, set when the grid is built.
type Terrain uint8

const (
	TerrainNormal   Terrain = iota // Plain buildable land
	TerrainMountain                // Never buildable; carries a one-shot coin
	TerrainRuin                    // Buildable; some cards must cover one
)

// TerrainName returns a human-readable terrain name.
func TerrainName(t Terrain) string {
	switch t {
	case TerrainNormal:
		return "Normal"
	case TerrainMountain:
		return "Mountain"
	case TerrainRuin:
		return "Ruin"
	default:
		return "Unknown"
	}
}

// Cultivation is what a player has drawn onto a cell.
type Cultivation uint8

const (
	Village Cultivation = iota
	Water
	Farm
	Forest
	Goblin
)

var cultivationNames = [...]string{"Village", "Water", "Farm", "Forest", "Goblin"}

// Cultivations returns every cultivation kind in declaration order.
func Cultivations() []Cultivation {
	return []Cultivation{Village, Water, Farm, Forest, Goblin}
}

func (c Cultivation) String() string {
	if int(c) < len(cultivationNames) {
		return cultivationNames[c]
	}
	return fmt.Sprintf("Cultivation(%d)", uint8(c))
}

// ParseCultivation resolves a cultivation name, case-insensitively.
func ParseCultivation(s string) (Cultivation, error) {
	for i, name := range cultivationNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Cultivation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown cultivation %q", s)
}

// MarshalText encodes the cultivation by name.
func (c Cultivation) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a cultivation name.
func (c *Cultivation) UnmarshalText(b []byte) error {
	v, err := ParseCultivation(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// AreaID identifies one connected area. Zero is never a live id.
type AreaID uint64

// CultivationInfo is present on a cell once it has been cultivated.
// AreaID is rewritten whenever the cell's area is merged into a newer one.
type CultivationInfo struct {
	Cultivation Cultivation `json:"cultivation"`
	AreaID      AreaID      `json:"area_id"`
}

// AreaInfo is the authoritative record for one connected area.
type AreaInfo struct {
	Kind   Cultivation  `json:"kind"`
	Coords []Coordinate `json:"coords"` // sorted, no duplicates
}

// Size returns the number of member cells.
func (a *AreaInfo) Size() int {
	return len(a.Coords)
}

// Field is one grid cell.
type Field struct {
	Position Coordinate       `json:"position"`
	Terrain  Terrain          `json:"terrain"`
	Coin     bool             `json:"coin,omitempty"` // Mountain coin not yet collected
	Info     *CultivationInfo `json:"info,omitempty"` // nil until cultivated
}

// IsMountain reports whether the cell is a mountain.
func (f *Field) IsMountain() bool {
	return f.Terrain == TerrainMountain
}

// IsRuin reports whether the cell is a ruin.
func (f *Field) IsRuin() bool {
	return f.Terrain == TerrainRuin
}

// IsFree reports whether a shape may still cover the cell.
// Ruins are free until cultivated.
func (f *Field) IsFree() bool {
	return !f.IsMountain() && f.Info == nil
}

// Cultivation returns the cell's cultivation, if any.
func (f *Field) Cultivation() (Cultivation, bool) {
	if f.Info == nil {
		return 0, false
	}
	return f.Info.Cultivation, true
}

// Is reports whether the cell is cultivated with c.
func (f *Field) Is(c Cultivation) bool {
	return f.Info != nil && f.Info.Cultivation == c
}
