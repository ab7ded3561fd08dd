// Package cards defines the exploration cards drawn each turn and the
// shapes a player may derive from them.
package cards

import (
	"errors"
	"fmt"
	"strings"

	"github.com/talgya/kartograph/internal/world"
)

var (
	// ErrWrongChoice is returned when a choice does not apply to the card.
	ErrWrongChoice = errors.New("choice does not match card")
	// ErrInvalidCard is returned for malformed card definitions.
	ErrInvalidCard = errors.New("invalid card")
)

// Kind classifies a card by what the player gets to pick.
type Kind uint8

const (
	KindShape       Kind = iota // Two geometries, one cultivation
	KindCultivation             // One geometry, two cultivations
	KindSplinter                // A single cell of any cultivation
	KindRuin                    // No shape; the next card must cover a ruin
)

var kindNames = [...]string{"shape", "cultivation", "splinter", "ruin"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	if int(k) >= len(kindNames) {
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidCard, uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(b)))
	for i, name := range kindNames {
		if name == s {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown kind %q", ErrInvalidCard, s)
}

// TimeCost returns how far drawing a card of this kind advances the season.
func (k Kind) TimeCost() int {
	switch k {
	case KindShape:
		return 1
	case KindCultivation:
		return 2
	default:
		return 0
	}
}

// Card is one exploration card.
type Card struct {
	Name         string              `json:"name"`
	Kind         Kind                `json:"kind"`
	Geometries   []world.Geometry    `json:"geometries,omitempty"`
	Cultivations []world.Cultivation `json:"cultivations,omitempty"`
}

// TimeCost returns how far drawing the card advances the season.
func (c Card) TimeCost() int {
	return c.Kind.TimeCost()
}

// Validate checks that the card carries the geometries and cultivations
// its kind requires.
func (c Card) Validate() error {
	var geoms, cults int
	switch c.Kind {
	case KindShape:
		geoms, cults = 2, 1
	case KindCultivation:
		geoms, cults = 1, 2
	case KindSplinter, KindRuin:
	default:
		return fmt.Errorf("%w: %q has unknown kind %d", ErrInvalidCard, c.Name, c.Kind)
	}
	if len(c.Geometries) != geoms || len(c.Cultivations) != cults {
		return fmt.Errorf("%w: %s card %q needs %d geometries and %d cultivations, has %d and %d",
			ErrInvalidCard, c.Kind, c.Name, geoms, cults, len(c.Geometries), len(c.Cultivations))
	}
	for _, g := range c.Geometries {
		if len(g) == 0 {
			return fmt.Errorf("%w: %q has an empty geometry", ErrInvalidCard, c.Name)
		}
	}
	return nil
}

// Choices lists every choice the card offers. Ruin cards offer none.
func (c Card) Choices() []Choice {
	switch c.Kind {
	case KindShape, KindCultivation:
		return []Choice{{Side: Left}, {Side: Right}}
	case KindSplinter:
		all := world.Cultivations()
		choices := make([]Choice, len(all))
		for i, cu := range all {
			choices[i] = Choice{Side: Splinter, Cultivation: cu}
		}
		return choices
	}
	return nil
}

// Shape resolves a choice into the unrotated shape it places.
// Only the left side of a shape card carries a coin.
func (c Card) Shape(ch Choice) (Shape, error) {
	switch {
	case c.Kind == KindShape && (ch.Side == Left || ch.Side == Right):
		return Shape{
			Geometry:    c.Geometries[ch.Side].Clone(),
			Cultivation: c.Cultivations[0],
			Coin:        ch.Side == Left,
		}, nil
	case c.Kind == KindCultivation && (ch.Side == Left || ch.Side == Right):
		return Shape{
			Geometry:    c.Geometries[0].Clone(),
			Cultivation: c.Cultivations[ch.Side],
		}, nil
	case c.Kind == KindSplinter && ch.Side == Splinter:
		return SplinterShape(ch.Cultivation), nil
	}
	return Shape{}, fmt.Errorf("%w: %v on %s card %q", ErrWrongChoice, ch, c.Kind, c.Name)
}

// Side selects half of a two-sided card, or the splinter cell.
type Side uint8

const (
	Left Side = iota
	Right
	Splinter
)

var sideNames = [...]string{"left", "right", "splinter"}

func (s Side) String() string {
	if int(s) < len(sideNames) {
		return sideNames[s]
	}
	return fmt.Sprintf("Side(%d)", uint8(s))
}

func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(b []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(b)))
	for i, name := range sideNames {
		if name == v {
			*s = Side(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown side %q", ErrWrongChoice, v)
}

// Choice is what a player picks from a card. Cultivation only matters for
// splinter choices.
type Choice struct {
	Side        Side              `json:"choice"`
	Cultivation world.Cultivation `json:"cultivation"`
}

func (ch Choice) String() string {
	if ch.Side == Splinter {
		return "splinter " + ch.Cultivation.String()
	}
	return ch.Side.String()
}
