package engine

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/talgya/kartograph/internal/cards"
	"github.com/talgya/kartograph/internal/world"
)

var (
	farmland = cards.Card{
		Name: "Farmland",
		Kind: cards.KindShape,
		Geometries: []world.Geometry{
			world.NewGeometry(world.C(0, 0), world.C(0, 1)),
			world.NewGeometry(world.C(1, 0), world.C(0, 1), world.C(1, 1), world.C(2, 1), world.C(1, 2)),
		},
		Cultivations: []world.Cultivation{world.Farm},
	}
	orchard = cards.Card{
		Name:         "Orchard",
		Kind:         cards.KindCultivation,
		Geometries:   []world.Geometry{world.NewGeometry(world.C(0, 0), world.C(1, 0), world.C(2, 0), world.C(2, 1))},
		Cultivations: []world.Cultivation{world.Forest, world.Farm},
	}
	riftLands   = cards.Card{Name: "Rift Lands", Kind: cards.KindSplinter}
	templeRuins = cards.Card{Name: "Temple Ruins", Kind: cards.KindRuin}
)

func newTestGame(t *testing.T, layout world.Layout, deck ...cards.Card) *Game {
	t.Helper()
	cfg := GameConfig{Seed: 1, Layout: layout}
	if len(deck) > 0 {
		cfg.Deck = cards.NewDeck(deck...)
	}
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func draw(t *testing.T, g *Game) Turn {
	t.Helper()
	turn, err := g.Draw()
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	return turn
}

// firstFit plays the first choice, orientation and anchor that the grid
// accepts.
type firstFit struct{}

func (firstFit) NextMove(_ context.Context, g *Game, t Turn) (Move, error) {
	for _, ch := range t.Choices {
		var shape cards.Shape
		var err error
		if t.Dead {
			shape = cards.SplinterShape(ch.Cultivation)
		} else if shape, err = t.Card.Shape(ch); err != nil {
			continue
		}
		for _, mirror := range []bool{false, true} {
			for r := cards.North; r <= cards.West; r++ {
				geom := shape.Configure(r, mirror).Geometry
				for f := range g.Grid.All() {
					if g.Grid.AcceptsGeometryAt(geom, f.Position, t.RuinRequired) {
						return Move{Choice: ch, Rotation: r, Mirror: mirror, X: f.Position.X, Y: f.Position.Y}, nil
					}
				}
			}
		}
	}
	return Move{}, ErrNoMoves
}

func TestNewGameDefaults(t *testing.T) {
	g := newTestGame(t, world.Layout{})
	if g.Phase() != PhaseDraw || g.Season.Type != Spring {
		t.Errorf("phase %s in %s, want draw in Spring", g.Phase(), g.Season.Type)
	}
	if n := len(slices.Collect(g.Grid.Mountains())); n != 5 {
		t.Errorf("%d mountains, want the classic 5", n)
	}
	if g.Seed != 1 {
		t.Errorf("Seed = %d, want 1", g.Seed)
	}
}

func TestNewGameRejectsRuinOnlyDeck(t *testing.T) {
	_, err := NewGame(GameConfig{Seed: 1, Deck: cards.NewDeck(templeRuins)})
	if !errors.Is(err, cards.ErrInvalidCard) {
		t.Errorf("err = %v, want ErrInvalidCard", err)
	}
}

func TestNewGameRejectsInvalidCard(t *testing.T) {
	tests := []struct {
		name string
		card cards.Card
	}{
		{"shape without geometries", cards.Card{Name: "broken", Kind: cards.KindShape}},
		{"cultivation with one option", cards.Card{
			Name:         "half",
			Kind:         cards.KindCultivation,
			Geometries:   orchard.Geometries,
			Cultivations: []world.Cultivation{world.Forest},
		}},
		{"shape with empty geometry", cards.Card{
			Name:         "hollow",
			Kind:         cards.KindShape,
			Geometries:   []world.Geometry{farmland.Geometries[0], {}},
			Cultivations: []world.Cultivation{world.Farm},
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGame(GameConfig{Seed: 1, Deck: cards.NewDeck(farmland, tc.card)})
			if !errors.Is(err, cards.ErrInvalidCard) {
				t.Errorf("err = %v, want ErrInvalidCard", err)
			}
		})
	}
}

func TestDrawSpendsTime(t *testing.T) {
	g := newTestGame(t, world.Layout{}, orchard)
	for i := range 4 {
		turn := draw(t, g)
		if turn.Number != i+1 {
			t.Errorf("turn number %d, want %d", turn.Number, i+1)
		}
		if again := draw(t, g); again.Number != turn.Number {
			t.Errorf("Draw with open turn returned turn %d, want %d", again.Number, turn.Number)
		}
		if err := g.Discard(); err != nil {
			t.Fatal(err)
		}
	}
	if g.Season.Elapsed != 8 || g.Phase() != PhaseScoring {
		t.Fatalf("elapsed %d in phase %s, want 8 in scoring", g.Season.Elapsed, g.Phase())
	}
	if _, err := g.Draw(); !errors.Is(err, ErrSeasonOver) {
		t.Errorf("Draw after time ran out: err = %v, want ErrSeasonOver", err)
	}

	score, err := g.ScoreSeason()
	if err != nil {
		t.Fatal(err)
	}
	if score.Season != Spring || len(g.Scores) != 1 {
		t.Errorf("scored %s, %d scores", score.Season, len(g.Scores))
	}
	if g.Season.Type != Summer || g.Season.Elapsed != 0 || g.Phase() != PhaseDraw {
		t.Errorf("after scoring: %s in phase %s", g.Season, g.Phase())
	}
}

func TestScoreSeasonTooEarly(t *testing.T) {
	g := newTestGame(t, world.Layout{})
	if _, err := g.ScoreSeason(); !errors.Is(err, ErrSeasonInProgress) {
		t.Errorf("err = %v, want ErrSeasonInProgress", err)
	}
	draw(t, g)
	if _, err := g.ScoreSeason(); !errors.Is(err, ErrSeasonInProgress) {
		t.Errorf("err = %v, want ErrSeasonInProgress", err)
	}
}

// stack replaces the game's shuffled draw pile with cards, last card on top.
func stack(g *Game, deck ...cards.Card) {
	g.deck = cards.NewDeck(deck...)
}

func TestRuinCardRequiresRuin(t *testing.T) {
	g := newTestGame(t, world.Layout{}, farmland, templeRuins)
	stack(g, farmland, templeRuins)

	turn := draw(t, g)
	if turn.Card.Name != farmland.Name || !turn.RuinRequired || turn.Dead {
		t.Fatalf("turn = %+v, want live Farmland with ruin requirement", turn)
	}
	if g.Season.Elapsed != 1 {
		t.Errorf("elapsed %d, want 1", g.Season.Elapsed)
	}

	_, err := g.Play(Move{Choice: cards.Choice{Side: cards.Left}, X: 4, Y: 4})
	if !errors.Is(err, world.ErrRuinRequired) {
		t.Fatalf("err = %v, want ErrRuinRequired", err)
	}
	if g.Phase() != PhasePlace || !g.Grid.IsFree(world.C(4, 4)) {
		t.Fatal("rejected move changed the game")
	}

	res, err := g.Play(Move{Choice: cards.Choice{Side: cards.Left}, X: 1, Y: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Coins != 1 || g.Coins != 1 {
		t.Errorf("coins %d (total %d), want 1", res.Coins, g.Coins)
	}
	if f, ok := g.Grid.At(world.C(1, 3)); !ok || !f.Is(world.Farm) {
		t.Error("farm not placed below the ruin")
	}
	if g.RuinRequired() {
		t.Error("ruin requirement survived the turn")
	}
}

func TestDeadCardFallsBackToSplinter(t *testing.T) {
	// No ruins on the grid, so nothing can satisfy the ruin card.
	g := newTestGame(t, world.Layout{Mountains: []world.Coordinate{world.C(5, 5)}}, farmland, templeRuins)
	stack(g, farmland, templeRuins)

	turn := draw(t, g)
	if !turn.Dead || turn.RuinRequired {
		t.Fatalf("turn = %+v, want dead without ruin requirement", turn)
	}
	if len(turn.Choices) != len(world.Cultivations()) {
		t.Errorf("%d choices, want one per cultivation", len(turn.Choices))
	}

	if _, err := g.Play(Move{Choice: cards.Choice{Side: cards.Left}}); !errors.Is(err, cards.ErrWrongChoice) {
		t.Errorf("err = %v, want ErrWrongChoice", err)
	}
	res, err := g.Play(Move{Choice: cards.Choice{Side: cards.Splinter, Cultivation: world.Goblin}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Shape.Cultivation != world.Goblin || len(res.Shape.Geometry) != 1 || res.Coins != 0 {
		t.Errorf("result = %+v, want single goblin cell without coin", res)
	}
}

func TestMountainCoin(t *testing.T) {
	g := newTestGame(t, world.Layout{Mountains: []world.Coordinate{world.C(0, 0)}}, riftLands)
	splinter := cards.Choice{Side: cards.Splinter, Cultivation: world.Forest}

	draw(t, g)
	res, err := g.Play(Move{Choice: splinter, X: 1, Y: 0})
	if err != nil {
		t.Fatal(err)
	}
	if res.Coins != 0 {
		t.Errorf("coins after first cell = %d, want 0", res.Coins)
	}

	draw(t, g)
	res, err = g.Play(Move{Choice: splinter, X: 0, Y: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Coins != 1 || len(res.MountainCoins) != 1 || res.MountainCoins[0] != world.C(0, 0) {
		t.Errorf("result = %+v, want the coin of (0,0)", res)
	}
	if g.Coins != 1 {
		t.Errorf("Coins = %d, want 1", g.Coins)
	}
}

func TestPlayWithoutTurn(t *testing.T) {
	g := newTestGame(t, world.Layout{})
	if _, err := g.Play(Move{}); !errors.Is(err, ErrNoTurn) {
		t.Errorf("Play: err = %v, want ErrNoTurn", err)
	}
	if err := g.Discard(); !errors.Is(err, ErrNoTurn) {
		t.Errorf("Discard: err = %v, want ErrNoTurn", err)
	}
}

func TestFullGame(t *testing.T) {
	g := newTestGame(t, world.Layout{})

	var scored []SeasonScore
	var final *Result
	turns := 0
	g.OnTurn = func(Turn) { turns++ }
	g.OnSeasonScored = func(s SeasonScore) { scored = append(scored, s) }
	g.OnGameOver = func(r Result) { final = &r }

	res, err := NewDriver(g, firstFit{}).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if !res.Finished || g.Phase() != PhaseGameOver {
		t.Fatalf("finished = %v, phase = %s", res.Finished, g.Phase())
	}
	if len(res.Seasons) != NumSeasons || len(scored) != NumSeasons {
		t.Fatalf("%d seasons in result, %d callbacks; want %d", len(res.Seasons), len(scored), NumSeasons)
	}
	for i, s := range res.Seasons {
		if s.Season != SeasonType(i) {
			t.Errorf("season %d is %s", i, s.Season)
		}
		a, b := g.Roster.ForSeason(s.Season)
		if s.A != a || s.B != b {
			t.Errorf("%s scored %v/%v, roster says %v/%v", s.Season, s.A, s.B, a, b)
		}
	}

	total := 0
	for _, s := range res.Seasons {
		total += s.Total()
	}
	if res.Total != total {
		t.Errorf("Total = %d, want %d", res.Total, total)
	}
	if final == nil || final.Total != res.Total {
		t.Error("OnGameOver not called with the final result")
	}
	if turns == 0 || res.Turns != turns {
		t.Errorf("Turns = %d, OnTurn calls = %d", res.Turns, turns)
	}
	if res.EndedAt.IsZero() {
		t.Error("EndedAt not set")
	}
	if err := g.Grid.CheckConsistency(); err != nil {
		t.Error(err)
	}

	if _, err := g.Draw(); !errors.Is(err, ErrGameOver) {
		t.Errorf("Draw after game over: err = %v", err)
	}
	if _, err := g.ScoreSeason(); !errors.Is(err, ErrGameOver) {
		t.Errorf("ScoreSeason after game over: err = %v", err)
	}
}

func TestDriverDiscardsWithoutMoves(t *testing.T) {
	g := newTestGame(t, world.Layout{})
	script := NewScript(nil)

	res, err := NewDriver(g, script).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !res.Finished {
		t.Fatal("game did not finish")
	}
	if g.Grid.AreaCount() != 0 {
		t.Errorf("%d areas on a game without moves", g.Grid.AreaCount())
	}
}

func TestDriverDiscardsAfterRejects(t *testing.T) {
	g := newTestGame(t, world.Layout{}, farmland)
	// Every move lands on the mountain at (5,5).
	moves := make([]Move, 10)
	for i := range moves {
		moves[i] = Move{Choice: cards.Choice{Side: cards.Left}, X: 5, Y: 5}
	}
	script := NewScript(moves)
	d := NewDriver(g, script)
	d.MaxRejects = 2

	ctx, cancel := context.WithCancel(context.Background())
	g.OnTurn = func(turn Turn) {
		if turn.Number == 3 {
			cancel()
		}
	}

	_, err := d.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if g.Turns != 2 || script.Remaining() != 6 {
		t.Errorf("turns = %d, remaining moves = %d; want 2, 6", g.Turns, script.Remaining())
	}
}

func TestScript(t *testing.T) {
	s := NewScript([]Move{{X: 1}, {X: 2}})
	for _, want := range []int{1, 2} {
		m, err := s.NextMove(context.Background(), nil, Turn{})
		if err != nil || m.X != want {
			t.Fatalf("NextMove = %+v, %v; want X=%d", m, err, want)
		}
	}
	if _, err := s.NextMove(context.Background(), nil, Turn{}); !errors.Is(err, ErrNoMoves) {
		t.Errorf("err = %v, want ErrNoMoves", err)
	}
}
