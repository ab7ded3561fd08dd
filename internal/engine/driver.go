package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/kartograph/internal/cards"
	"github.com/talgya/kartograph/internal/world"
)

// ErrNoMoves is returned by a MoveSource that has nothing to offer for a
// turn. The driver discards the card.
var ErrNoMoves = errors.New("no move available")

// MoveSource supplies a move for each open turn.
type MoveSource interface {
	NextMove(ctx context.Context, g *Game, t Turn) (Move, error)
}

// DefaultMaxRejects is how many rejected placements the driver accepts for a
// single turn before discarding the card.
const DefaultMaxRejects = 3

// Driver runs a game to completion.
type Driver struct {
	Game       *Game
	Source     MoveSource
	MaxRejects int // Rejected placements per turn before the card is discarded (0 = default)
}

// NewDriver creates a driver with the default reject limit.
func NewDriver(g *Game, src MoveSource) *Driver {
	return &Driver{Game: g, Source: src, MaxRejects: DefaultMaxRejects}
}

// Run draws cards, asks the source for moves and scores each season until
// the game is over or ctx is cancelled.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	g := d.Game
	limit := d.MaxRejects
	if limit <= 0 {
		limit = DefaultMaxRejects
	}

	slog.Info("driver started", "game", g.ID)
	rejects := 0
	for {
		if err := ctx.Err(); err != nil {
			return g.Result(), err
		}

		switch g.Phase() {
		case PhaseGameOver:
			res := g.Result()
			slog.Info("driver finished", "game", g.ID, "total", res.Total)
			return res, nil

		case PhaseScoring:
			if _, err := g.ScoreSeason(); err != nil {
				return g.Result(), fmt.Errorf("score season: %w", err)
			}

		case PhaseDraw:
			rejects = 0
			if _, err := g.Draw(); err != nil && !errors.Is(err, ErrSeasonOver) {
				return g.Result(), fmt.Errorf("draw: %w", err)
			}

		case PhasePlace:
			t, _ := g.CurrentTurn()
			m, err := d.Source.NextMove(ctx, g, t)
			if errors.Is(err, ErrNoMoves) {
				if err := g.Discard(); err != nil {
					return g.Result(), err
				}
				continue
			}
			if err != nil {
				return g.Result(), fmt.Errorf("turn %d: %w", t.Number, err)
			}

			_, err = g.Play(m)
			switch {
			case err == nil:
			case errors.Is(err, world.ErrPlacementRejected), errors.Is(err, cards.ErrWrongChoice):
				rejects++
				slog.Warn("move rejected", "game", g.ID, "turn", t.Number, "reason", err, "rejects", rejects)
				if rejects >= limit {
					if err := g.Discard(); err != nil {
						return g.Result(), err
					}
				}
			default:
				return g.Result(), err
			}
		}
	}
}

// Script is a MoveSource that replays a fixed list of moves in order and
// reports ErrNoMoves once it runs out.
type Script struct {
	moves []Move
	next  int
}

// NewScript returns a source that replays moves.
func NewScript(moves []Move) *Script {
	return &Script{moves: moves}
}

// NextMove returns the next scripted move.
func (s *Script) NextMove(_ context.Context, _ *Game, _ Turn) (Move, error) {
	if s.next >= len(s.moves) {
		return Move{}, ErrNoMoves
	}
	m := s.moves[s.next]
	s.next++
	return m, nil
}

// Remaining returns how many scripted moves are left.
func (s *Script) Remaining() int {
	return len(s.moves) - s.next
}
