package cards

import (
	"fmt"
	"strings"

	"github.com/talgya/kartograph/internal/world"
)

// Shape is a placeable piece: a geometry painted with one cultivation.
type Shape struct {
	Geometry     world.Geometry    `json:"geometry"`
	Cultivation  world.Cultivation `json:"cultivation"`
	Coin         bool              `json:"coin,omitempty"`          // Placing it earns a coin
	RuinRequired bool              `json:"ruin_required,omitempty"` // Must cover at least one ruin
}

// SplinterShape returns the single-cell shape of the given cultivation.
func SplinterShape(c world.Cultivation) Shape {
	return Shape{Geometry: world.NewGeometry(), Cultivation: c}
}

// Configure returns the shape mirrored (if requested) and then turned
// clockwise until it faces r.
func (s Shape) Configure(r Rotation, mirror bool) Shape {
	g := s.Geometry.Clone()
	if mirror {
		g = g.Mirror()
	}
	for range r.steps() {
		g = g.RotateClockwise()
	}
	s.Geometry = g
	return s
}

// Rotation is the facing of a shape, in quarter turns clockwise from North.
type Rotation uint8

const (
	North Rotation = iota
	East
	South
	West
)

var rotationNames = [...]string{"north", "east", "south", "west"}

// Clockwise returns the next facing clockwise.
func (r Rotation) Clockwise() Rotation {
	return (r + 1) % 4
}

// CounterClockwise returns the next facing counter-clockwise.
func (r Rotation) CounterClockwise() Rotation {
	return (r + 3) % 4
}

func (r Rotation) steps() int {
	return int(r % 4)
}

func (r Rotation) String() string {
	return rotationNames[r%4]
}

func (r Rotation) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Rotation) UnmarshalText(b []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(b)))
	for i, name := range rotationNames {
		if name == v {
			*r = Rotation(i)
			return nil
		}
	}
	return fmt.Errorf("unknown rotation %q", v)
}
