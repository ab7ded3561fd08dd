package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/kartograph/internal/cards"
	"github.com/talgya/kartograph/internal/world"
)

var (
	// ErrSeasonOver is returned by Draw once the season's time is spent.
	ErrSeasonOver = errors.New("season is out of time")
	// ErrGameOver is returned by every action after Winter has been scored.
	ErrGameOver = errors.New("game is over")
	// ErrNoTurn is returned by Play and Discard when no card is open.
	ErrNoTurn = errors.New("no turn in progress")
	// ErrSeasonInProgress is returned by ScoreSeason while time is left.
	ErrSeasonInProgress = errors.New("season still has time left")
)

// Phase is the step of the turn cycle the game is waiting on.
type Phase uint8

const (
	PhaseDraw     Phase = iota // Waiting for the next card to be drawn
	PhasePlace                 // A card is open and waiting for a placement
	PhaseScoring               // Time is spent; the season must be scored
	PhaseGameOver              // Winter has been scored
)

var phaseNames = [...]string{"draw", "place", "scoring", "game over"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// GameConfig holds the parameters of a new game.
type GameConfig struct {
	Seed   int64        // Random seed (0 = random)
	Layout world.Layout // Mountains and ruins; the zero value means the classic layout
	Deck   *cards.Deck  // Exploration deck; nil means cards.DefaultDeck
}

// Turn is one open card.
type Turn struct {
	Number       int            `json:"number"`
	Season       SeasonType     `json:"season"`
	Card         cards.Card     `json:"card"`
	Choices      []cards.Choice `json:"choices"`
	RuinRequired bool           `json:"ruin_required"`
	Dead         bool           `json:"dead"` // No choice fits; only splinter cells may be placed
}

// Move is a player's answer to a turn.
type Move struct {
	cards.Choice
	Rotation cards.Rotation `json:"rotation"`
	Mirror   bool           `json:"mirror"`
	X        int            `json:"x"`
	Y        int            `json:"y"`
}

// Anchor returns the cell the shape is anchored at.
func (m Move) Anchor() world.Coordinate {
	return world.C(m.X, m.Y)
}

// PlayResult describes a committed placement.
type PlayResult struct {
	Area          world.AreaID       `json:"area"`
	Shape         cards.Shape        `json:"shape"`
	Coins         int                `json:"coins"`          // Coins earned by this placement
	MountainCoins []world.Coordinate `json:"mountain_coins"` // Mountains enclosed by this placement
	SeasonOver    bool               `json:"season_over"`
}

// Event is a notable occurrence during the game.
type Event struct {
	Turn        int    `json:"turn"`
	Description string `json:"description"`
	Category    string `json:"category"` // "card", "placement", "coin", "season"
}

// Game holds the complete state of one solo game: the grid, the season
// clock, the objective roster and the deck.
//
// A Game is not safe for concurrent use.
type Game struct {
	ID        uuid.UUID
	Seed      int64
	Grid      *world.Grid
	Season    Season
	Roster    Roster
	Coins     int           // Coins collected so far
	Scores    []SeasonScore // One entry per scored season
	Turns     int           // Turns completed, including discarded ones
	Events    []Event
	StartedAt time.Time

	// Callbacks, populated by the caller.
	OnTurn         func(Turn)
	OnSeasonScored func(SeasonScore)
	OnGameOver     func(Result)

	rng          *rand.Rand
	baseDeck     *cards.Deck
	deck         *cards.Deck
	phase        Phase
	current      Turn
	ruinRequired bool
	endedAt      time.Time
}

// NewGame creates a game in Spring with a freshly shuffled deck.
func NewGame(cfg GameConfig) (*Game, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	layout := cfg.Layout
	if len(layout.Mountains) == 0 && len(layout.Ruins) == 0 {
		layout = world.ClassicLayout()
	}
	grid, err := world.NewGridWithLayout(layout)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	base := cfg.Deck
	if base == nil {
		base = cards.DefaultDeck()
	}
	for _, c := range base.Cards() {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("new game: %w", err)
		}
	}
	if !slices.ContainsFunc(base.Cards(), func(c cards.Card) bool { return c.Kind != cards.KindRuin }) {
		return nil, fmt.Errorf("new game: %w: deck has no playable card", cards.ErrInvalidCard)
	}

	rng := rand.New(rand.NewSource(seed))
	g := &Game{
		ID:        uuid.New(),
		Seed:      seed,
		Grid:      grid,
		Season:    NewSeason(Spring),
		Roster:    NewRoster(rng),
		StartedAt: time.Now().UTC(),
		rng:       rng,
		baseDeck:  base.Clone(),
	}
	g.reshuffle()

	a, b := g.Roster.ForSeason(Spring)
	slog.Info("game started",
		"game", g.ID,
		"seed", seed,
		"season", g.Season.Type,
		"objective_a", a,
		"objective_b", b,
	)
	return g, nil
}

// Phase returns the step the game is waiting on.
func (g *Game) Phase() Phase {
	return g.phase
}

// CurrentTurn returns the open turn, if any.
func (g *Game) CurrentTurn() (Turn, bool) {
	return g.current, g.phase == PhasePlace
}

// RuinRequired reports whether the next shape must cover a ruin.
func (g *Game) RuinRequired() bool {
	return g.ruinRequired
}

// Draw reveals the next card and opens a turn. Ruin cards are resolved on
// the spot: they set the ruin requirement and the following card is drawn.
// If nothing on the card fits the turn is dead and only splinter cells may
// be placed. Calling Draw while a turn is open returns that turn.
func (g *Game) Draw() (Turn, error) {
	switch g.phase {
	case PhaseGameOver:
		return Turn{}, ErrGameOver
	case PhaseScoring:
		return Turn{}, ErrSeasonOver
	case PhasePlace:
		return g.current, nil
	}
	if !g.Season.HasTimeLeft() {
		g.phase = PhaseScoring
		return Turn{}, ErrSeasonOver
	}

	card := g.nextCard()
	for card.Kind == cards.KindRuin {
		g.ruinRequired = true
		g.emit("card", fmt.Sprintf("%s: the next shape must cover a ruin", card.Name))
		card = g.nextCard()
	}
	g.Season.PassTime(card.TimeCost())

	t := Turn{
		Number:       g.Turns + 1,
		Season:       g.Season.Type,
		Card:         card,
		Choices:      card.Choices(),
		RuinRequired: g.ruinRequired,
	}
	if !g.fits(card, g.ruinRequired) {
		t.Dead = true
		t.RuinRequired = false
		t.Choices = cards.Card{Kind: cards.KindSplinter}.Choices()
		g.ruinRequired = false
		g.emit("card", fmt.Sprintf("%s cannot be placed; a single cell may be drawn instead", card.Name))
	} else {
		g.emit("card", fmt.Sprintf("Drew %s", card.Name))
	}

	g.current = t
	g.phase = PhasePlace

	slog.Debug("card drawn",
		"game", g.ID,
		"turn", t.Number,
		"card", card.Name,
		"kind", card.Kind,
		"season", g.Season.String(),
		"ruin_required", t.RuinRequired,
		"dead", t.Dead,
	)
	if g.OnTurn != nil {
		g.OnTurn(t)
	}
	return t, nil
}

// Play places the open card. A rejected placement leaves the turn open and
// the grid unchanged.
func (g *Game) Play(m Move) (PlayResult, error) {
	if g.phase == PhaseGameOver {
		return PlayResult{}, ErrGameOver
	}
	if g.phase != PhasePlace {
		return PlayResult{}, ErrNoTurn
	}

	shape, err := g.shapeFor(m.Choice)
	if err != nil {
		return PlayResult{}, err
	}
	shape.RuinRequired = g.current.RuinRequired
	shape = shape.Configure(m.Rotation, m.Mirror)

	id, err := g.Grid.TryCultivate(shape.Geometry, m.Anchor(), shape.Cultivation, shape.RuinRequired)
	if err != nil {
		return PlayResult{}, fmt.Errorf("turn %d: %w", g.current.Number, err)
	}

	res := PlayResult{Area: id, Shape: shape}
	if shape.Coin {
		res.Coins++
	}
	res.MountainCoins = g.Grid.MountainCoins()
	res.Coins += len(res.MountainCoins)
	g.Coins += res.Coins

	g.emit("placement", fmt.Sprintf("Placed %s %s at %v", shape.Cultivation, g.current.Card.Name, m.Anchor()))
	for _, mc := range res.MountainCoins {
		g.emit("coin", fmt.Sprintf("Mountain at %v enclosed", mc))
	}

	g.endTurn()
	res.SeasonOver = g.phase == PhaseScoring

	slog.Debug("shape placed",
		"game", g.ID,
		"turn", g.Turns,
		"cultivation", shape.Cultivation,
		"anchor", m.Anchor(),
		"area", id,
		"coins", res.Coins,
	)
	return res, nil
}

// Discard gives up the open turn without placing anything. The card's time
// is still spent.
func (g *Game) Discard() error {
	if g.phase == PhaseGameOver {
		return ErrGameOver
	}
	if g.phase != PhasePlace {
		return ErrNoTurn
	}
	g.emit("placement", fmt.Sprintf("Discarded %s", g.current.Card.Name))
	g.endTurn()
	return nil
}

// ScoreSeason scores the finished season and moves on to the next one with
// a freshly shuffled deck. Scoring Winter ends the game.
func (g *Game) ScoreSeason() (SeasonScore, error) {
	switch g.phase {
	case PhaseGameOver:
		return SeasonScore{}, ErrGameOver
	case PhasePlace:
		return SeasonScore{}, ErrSeasonInProgress
	case PhaseDraw:
		if g.Season.HasTimeLeft() {
			return SeasonScore{}, ErrSeasonInProgress
		}
	}

	score := g.Roster.ScoreSeason(g.Season.Type, g.Grid)
	score.Coins = g.Coins
	g.Scores = append(g.Scores, score)

	slog.Info("season scored",
		"game", g.ID,
		"season", score.Season,
		"objective_a", score.A,
		"score_a", int(score.ScoreA),
		"objective_b", score.B,
		"score_b", int(score.ScoreB),
		"coins", score.Coins,
		"total", score.Total(),
	)
	g.emit("season", fmt.Sprintf("%s scored %d points", score.Season, score.Total()))
	if g.OnSeasonScored != nil {
		g.OnSeasonScored(score)
	}

	next, ok := g.Season.Next()
	if !ok {
		g.phase = PhaseGameOver
		g.endedAt = time.Now().UTC()
		res := g.Result()
		slog.Info("game over", "game", g.ID, "total", res.Total, "turns", res.Turns)
		if g.OnGameOver != nil {
			g.OnGameOver(res)
		}
		return score, nil
	}

	g.Season = next
	g.ruinRequired = false
	g.reshuffle()
	g.phase = PhaseDraw
	return score, nil
}

// Result summarizes the game so far. Finished is set once Winter is scored.
func (g *Game) Result() Result {
	res := Result{
		GameID:    g.ID,
		Seed:      g.Seed,
		Roster:    g.Roster,
		Seasons:   append([]SeasonScore(nil), g.Scores...),
		Coins:     g.Coins,
		Turns:     g.Turns,
		Finished:  g.phase == PhaseGameOver,
		StartedAt: g.StartedAt,
		EndedAt:   g.endedAt,
	}
	for _, s := range g.Scores {
		res.Total += s.Total()
	}
	return res
}

// Result is the summary of a game, as archived.
type Result struct {
	GameID    uuid.UUID     `json:"game_id"`
	Seed      int64         `json:"seed"`
	Roster    Roster        `json:"roster"`
	Seasons   []SeasonScore `json:"seasons"`
	Coins     int           `json:"coins"`
	Total     int           `json:"total"`
	Turns     int           `json:"turns"`
	Finished  bool          `json:"finished"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
}

func (g *Game) shapeFor(ch cards.Choice) (cards.Shape, error) {
	if !g.current.Dead {
		return g.current.Card.Shape(ch)
	}
	if ch.Side != cards.Splinter {
		return cards.Shape{}, fmt.Errorf("%w: dead card only allows splinter cells", cards.ErrWrongChoice)
	}
	return cards.SplinterShape(ch.Cultivation), nil
}

// fits reports whether any choice of the card can be placed somewhere.
func (g *Game) fits(card cards.Card, ruinRequired bool) bool {
	for _, ch := range card.Choices() {
		s, err := card.Shape(ch)
		if err != nil {
			continue
		}
		if g.Grid.AcceptsGeometry(s.Geometry, ruinRequired) {
			return true
		}
	}
	return false
}

func (g *Game) endTurn() {
	g.Turns++
	g.ruinRequired = false
	g.current = Turn{}
	if g.Season.HasTimeLeft() {
		g.phase = PhaseDraw
	} else {
		g.phase = PhaseScoring
	}
}

// nextCard draws from the deck, starting a fresh shuffled copy when it runs out.
func (g *Game) nextCard() cards.Card {
	card, ok := g.deck.Draw()
	if !ok {
		g.reshuffle()
		card, _ = g.deck.Draw()
	}
	return card
}

func (g *Game) reshuffle() {
	g.deck = g.baseDeck.Clone()
	g.deck.Shuffle(g.rng)
}

func (g *Game) emit(category, description string) {
	g.Events = append(g.Events, Event{
		Turn:        g.Turns + 1,
		Description: description,
		Category:    category,
	})
}
