// Command kartograph plays one game of Kartograph from a scripted move file
// and archives the result.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/talgya/kartograph/internal/cards"
	"github.com/talgya/kartograph/internal/config"
	"github.com/talgya/kartograph/internal/engine"
	"github.com/talgya/kartograph/internal/entropy"
	"github.com/talgya/kartograph/internal/persistence"
	"github.com/talgya/kartograph/internal/world"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	setupLogger(os.Stderr, cfg.LogLevel)

	if err := run(cfg, os.Args[1:], os.Stdout); err != nil {
		slog.Error("kartograph failed", "error", err)
		os.Exit(1)
	}
}

// setupLogger installs a text handler on terminals and a JSON handler
// otherwise.
func setupLogger(w *os.File, level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
}

func run(cfg config.Config, args []string, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Moves ─────────────────────────────────────────────────────────
	var moves []engine.Move
	if len(args) > 0 {
		m, err := loadMoves(args[0])
		if err != nil {
			return err
		}
		moves = m
		slog.Info("moves loaded", "path", args[0], "moves", len(moves))
	} else {
		slog.Warn("no move file given; every card will be discarded")
	}

	// ── Game ──────────────────────────────────────────────────────────
	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.Seed()
	}
	gcfg := engine.GameConfig{Seed: seed}
	if cfg.Layout == config.LayoutGenerated {
		lc := world.DefaultLayoutConfig()
		lc.Seed = seed
		gcfg.Layout = world.GenerateLayout(lc)
		slog.Info("layout generated", "mountains", gcfg.Layout.Mountains, "ruins", gcfg.Layout.Ruins)
	}
	if cfg.DeckPath != "" {
		f, err := os.Open(cfg.DeckPath)
		if err != nil {
			return fmt.Errorf("open deck: %w", err)
		}
		deck, err := cards.LoadDeck(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("load deck %s: %w", cfg.DeckPath, err)
		}
		gcfg.Deck = deck
	}

	g, err := engine.NewGame(gcfg)
	if err != nil {
		return err
	}
	g.OnSeasonScored = func(s engine.SeasonScore) {
		fmt.Fprintf(out, "%-7s %-18s %3s   %-18s %3s   coins %2d   = %3d\n",
			s.Season, s.A, s.ScoreA, s.B, s.ScoreB, s.Coins, s.Total())
	}

	// ── Database ──────────────────────────────────────────────────────
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Play ──────────────────────────────────────────────────────────
	script := engine.NewScript(moves)
	d := engine.NewDriver(g, script)
	d.MaxRejects = cfg.MaxRejects

	fmt.Fprintf(out, "Game %s (seed %d)\n\n", g.ID, g.Seed)
	res, err := d.Run(ctx)
	if errors.Is(err, context.Canceled) {
		slog.Warn("game interrupted", "turns", g.Turns)
		return nil
	}
	if err != nil {
		return err
	}
	if n := script.Remaining(); n > 0 {
		slog.Warn("unused moves", "count", n)
	}

	fmt.Fprintf(out, "\n%s\n", g.Grid.Render())
	fmt.Fprintf(out, "Final score: %s points in %s turns, %d coins\n",
		humanize.Comma(int64(res.Total)), humanize.Comma(int64(res.Turns)), res.Coins)

	if err := db.SaveGame(g); err != nil {
		return err
	}
	return printLeaderboard(db, res, out)
}

func loadMoves(path string) ([]engine.Move, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read moves: %w", err)
	}
	var moves []engine.Move
	if err := json.Unmarshal(data, &moves); err != nil {
		return nil, fmt.Errorf("parse moves %s: %w", path, err)
	}
	return moves, nil
}

func printLeaderboard(db *persistence.DB, res engine.Result, out io.Writer) error {
	best, err := db.BestResults(5)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nBest games:")
	for i, r := range best {
		marker := ""
		if r.GameID == res.GameID {
			marker = "  <- this game"
		}
		fmt.Fprintf(out, "  %-4s %4d points  %s%s\n",
			humanize.Ordinal(i+1), r.Total, humanize.Time(r.EndedAt), marker)
	}
	return nil
}
