// Package engine drives a game of Kartograph: seasons with fixed time
// budgets, the objective roster, the turn cycle and a driver loop that pulls
// moves from a MoveSource.
package engine

import "fmt"

// SeasonType is one of the four scoring rounds of a game.
type SeasonType uint8

const (
	Spring SeasonType = iota
	Summer
	Autumn
	Winter
)

// NumSeasons is the number of seasons in a game.
const NumSeasons = 4

var seasonNames = [NumSeasons]string{"Spring", "Summer", "Autumn", "Winter"}

func (t SeasonType) String() string {
	if t < NumSeasons {
		return seasonNames[t]
	}
	return fmt.Sprintf("SeasonType(%d)", uint8(t))
}

// Time returns the season's time budget.
func (t SeasonType) Time() int {
	switch t {
	case Spring, Summer:
		return 8
	case Autumn:
		return 7
	case Winter:
		return 6
	}
	return 0
}

// Next returns the following season. Winter has none.
func (t SeasonType) Next() (SeasonType, bool) {
	if t >= Winter {
		return Winter, false
	}
	return t + 1, true
}

// Season tracks the time spent in the current scoring round.
type Season struct {
	Type    SeasonType `json:"type"`
	Elapsed int        `json:"elapsed"`
}

// NewSeason starts a season of the given type with no time spent.
func NewSeason(t SeasonType) Season {
	return Season{Type: t}
}

// PassTime spends n units of the season's budget.
func (s *Season) PassTime(n int) {
	s.Elapsed += n
}

// HasTimeLeft reports whether the season's budget is not yet used up.
func (s Season) HasTimeLeft() bool {
	return s.Elapsed < s.Type.Time()
}

// Remaining returns the unspent budget, never negative.
func (s Season) Remaining() int {
	return max(s.Type.Time()-s.Elapsed, 0)
}

// Next returns a fresh season of the following type, or false after Winter.
func (s Season) Next() (Season, bool) {
	t, ok := s.Type.Next()
	if !ok {
		return Season{}, false
	}
	return NewSeason(t), true
}

func (s Season) String() string {
	return fmt.Sprintf("%s %d/%d", s.Type, s.Elapsed, s.Type.Time())
}
