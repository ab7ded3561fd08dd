package engine

import (
	"math/rand"

	"github.com/talgya/kartograph/internal/objective"
	"github.com/talgya/kartograph/internal/world"
)

// Roster is the four objectives drawn for a game. Season i scores slots i
// and i+1, wrapping around, so consecutive seasons share one objective.
type Roster [NumSeasons]objective.Kind

// NewRoster shuffles the catalog with rng and keeps the first four.
func NewRoster(rng *rand.Rand) Roster {
	kinds := objective.Catalog()
	rng.Shuffle(len(kinds), func(i, j int) {
		kinds[i], kinds[j] = kinds[j], kinds[i]
	})
	var r Roster
	copy(r[:], kinds)
	return r
}

// ForSeason returns the two objectives scored at the end of season t.
func (r Roster) ForSeason(t SeasonType) (objective.Kind, objective.Kind) {
	i := int(t) % NumSeasons
	return r[i], r[(i+1)%NumSeasons]
}

// SeasonScore is the result of one scoring round.
type SeasonScore struct {
	Season SeasonType      `json:"season"`
	A      objective.Kind  `json:"objective_a"`
	B      objective.Kind  `json:"objective_b"`
	ScoreA objective.Score `json:"score_a"`
	ScoreB objective.Score `json:"score_b"`
	Coins  int             `json:"coins"`
}

// Total returns the points the season is worth.
func (s SeasonScore) Total() int {
	return int(s.ScoreA) + int(s.ScoreB) + s.Coins
}

// ScoreSeason evaluates the season's two objectives on g. Coins are left at
// zero for the caller to fill in.
func (r Roster) ScoreSeason(t SeasonType, g *world.Grid) SeasonScore {
	a, b := r.ForSeason(t)
	return SeasonScore{
		Season: t,
		A:      a,
		B:      b,
		ScoreA: objective.Evaluate(a, g),
		ScoreB: objective.Evaluate(b, g),
	}
}
