package cards

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"slices"

	"github.com/talgya/kartograph/internal/world"
)

// Deck is a draw pile. Cards are drawn from the top (the end of the slice).
type Deck struct {
	cards []Card
}

// NewDeck returns a deck holding a copy of the given cards, last card on top.
func NewDeck(cards ...Card) *Deck {
	return &Deck{cards: slices.Clone(cards)}
}

// LoadDeck reads a JSON array of card definitions and validates each card.
func LoadDeck(r io.Reader) (*Deck, error) {
	var cards []Card
	if err := json.NewDecoder(r).Decode(&cards); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: deck is empty", ErrInvalidCard)
	}
	for _, c := range cards {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return NewDeck(cards...), nil
}

// Shuffle reorders the deck using rng.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card. False means the deck is empty.
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	top := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return top, true
}

// Len returns the number of cards left.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, bottom first.
func (d *Deck) Cards() []Card {
	return slices.Clone(d.cards)
}

// Clone returns an independent deck with the same cards in the same order.
func (d *Deck) Clone() *Deck {
	return NewDeck(d.cards...)
}

func geom(cells ...world.Coordinate) world.Geometry {
	return world.NewGeometry(cells...)
}

var c = world.C

// DefaultDeck returns the standard exploration deck: four shape cards,
// six cultivation cards, one splinter card and two ruins.
func DefaultDeck() *Deck {
	return NewDeck(
		Card{
			Name: "Great River",
			Kind: KindShape,
			Geometries: []world.Geometry{
				geom(c(0, 0), c(0, 1), c(0, 2)),
				geom(c(2, 0), c(2, 1), c(1, 1), c(1, 2), c(0, 2)),
			},
			Cultivations: []world.Cultivation{world.Water},
		},
		Card{
			Name: "Farmland",
			Kind: KindShape,
			Geometries: []world.Geometry{
				geom(c(0, 0), c(0, 1)),
				geom(c(1, 0), c(0, 1), c(1, 1), c(2, 1), c(1, 2)),
			},
			Cultivations: []world.Cultivation{world.Farm},
		},
		Card{
			Name: "Hamlet",
			Kind: KindShape,
			Geometries: []world.Geometry{
				geom(c(0, 0), c(1, 0), c(0, 1)),
				geom(c(0, 0), c(1, 0), c(2, 0), c(0, 1), c(1, 1)),
			},
			Cultivations: []world.Cultivation{world.Village},
		},
		Card{
			Name: "Forgotten Forest",
			Kind: KindShape,
			Geometries: []world.Geometry{
				geom(c(0, 0), c(1, 1)),
				geom(c(0, 0), c(0, 1), c(1, 1), c(1, 2)),
			},
			Cultivations: []world.Cultivation{world.Forest},
		},
		Card{
			Name:         "Hinterland Stream",
			Kind:         KindCultivation,
			Geometries:   []world.Geometry{geom(c(0, 0), c(1, 0), c(2, 0), c(0, 1), c(0, 2))},
			Cultivations: []world.Cultivation{world.Farm, world.Water},
		},
		Card{
			Name:         "Homestead",
			Kind:         KindCultivation,
			Geometries:   []world.Geometry{geom(c(0, 0), c(0, 1), c(0, 2), c(1, 1))},
			Cultivations: []world.Cultivation{world.Village, world.Farm},
		},
		Card{
			Name:         "Orchard",
			Kind:         KindCultivation,
			Geometries:   []world.Geometry{geom(c(0, 0), c(1, 0), c(2, 0), c(2, 1))},
			Cultivations: []world.Cultivation{world.Forest, world.Farm},
		},
		Card{
			Name:         "Treetop Village",
			Kind:         KindCultivation,
			Geometries:   []world.Geometry{geom(c(0, 1), c(1, 1), c(2, 1), c(2, 0), c(3, 0))},
			Cultivations: []world.Cultivation{world.Forest, world.Village},
		},
		Card{
			Name:         "Marshlands",
			Kind:         KindCultivation,
			Geometries:   []world.Geometry{geom(c(0, 0), c(1, 0), c(2, 0), c(1, 1), c(1, 2))},
			Cultivations: []world.Cultivation{world.Forest, world.Water},
		},
		Card{
			Name:         "Fishing Village",
			Kind:         KindCultivation,
			Geometries:   []world.Geometry{geom(c(0, 0), c(1, 0), c(2, 0), c(3, 0))},
			Cultivations: []world.Cultivation{world.Village, world.Water},
		},
		Card{Name: "Rift Lands", Kind: KindSplinter},
		Card{Name: "Temple Ruins", Kind: KindRuin},
		Card{Name: "Outpost Ruins", Kind: KindRuin},
	)
}
