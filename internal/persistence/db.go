// Package persistence provides the SQLite archive of finished games: totals,
// per-season objective scores and the event log. Grid state is never stored.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/kartograph/internal/engine"
	"github.com/talgya/kartograph/internal/objective"
)

// ErrNotFound is returned when no game with the requested id is archived.
var ErrNotFound = errors.New("game not found")

// DB wraps a SQLite connection for the results archive.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path, creating the
// parent directory if needed.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		roster_json TEXT NOT NULL,
		coins INTEGER NOT NULL,
		total INTEGER NOT NULL,
		turns INTEGER NOT NULL,
		finished INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		ended_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS season_scores (
		game_id TEXT NOT NULL REFERENCES games(id),
		season INTEGER NOT NULL,
		objective_a INTEGER NOT NULL,
		score_a INTEGER NOT NULL,
		objective_b INTEGER NOT NULL,
		score_b INTEGER NOT NULL,
		coins INTEGER NOT NULL,
		PRIMARY KEY (game_id, season)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_games_total ON games(total);
	CREATE INDEX IF NOT EXISTS idx_games_ended ON games(ended_at);
	CREATE INDEX IF NOT EXISTS idx_events_game ON events(game_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type gameRow struct {
	ID         string `db:"id"`
	Seed       int64  `db:"seed"`
	RosterJSON string `db:"roster_json"`
	Coins      int    `db:"coins"`
	Total      int    `db:"total"`
	Turns      int    `db:"turns"`
	Finished   bool   `db:"finished"`
	StartedAt  int64  `db:"started_at"`
	EndedAt    int64  `db:"ended_at"`
}

type seasonRow struct {
	GameID     string `db:"game_id"`
	Season     int    `db:"season"`
	ObjectiveA int    `db:"objective_a"`
	ScoreA     int    `db:"score_a"`
	ObjectiveB int    `db:"objective_b"`
	ScoreB     int    `db:"score_b"`
	Coins      int    `db:"coins"`
}

// SaveResult archives a game result and its season scores, replacing any
// earlier record of the same game.
func (db *DB) SaveResult(res engine.Result) error {
	rosterJSON, err := json.Marshal(res.Roster)
	if err != nil {
		return fmt.Errorf("encode roster: %w", err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	id := res.GameID.String()
	_, err = tx.Exec(`INSERT OR REPLACE INTO games
		(id, seed, roster_json, coins, total, turns, finished, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, res.Seed, string(rosterJSON), res.Coins, res.Total, res.Turns,
		res.Finished, unixNano(res.StartedAt), unixNano(res.EndedAt),
	)
	if err != nil {
		return fmt.Errorf("insert game %s: %w", id, err)
	}

	if _, err := tx.Exec("DELETE FROM season_scores WHERE game_id = ?", id); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO season_scores
		(game_id, season, objective_a, score_a, objective_b, score_b, coins)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range res.Seasons {
		_, err := stmt.Exec(id, int(s.Season), int(s.A), int(s.ScoreA), int(s.B), int(s.ScoreB), s.Coins)
		if err != nil {
			return fmt.Errorf("insert %s score: %w", s.Season, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("game result saved", "game", id, "total", res.Total, "seasons", len(res.Seasons))
	return nil
}

// LoadResult returns the archived result of one game.
func (db *DB) LoadResult(id uuid.UUID) (engine.Result, error) {
	var row gameRow
	err := db.conn.Get(&row, "SELECT * FROM games WHERE id = ?", id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Result{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return engine.Result{}, err
	}
	return db.hydrate(row)
}

// RecentResults returns the most recently finished games, newest first.
func (db *DB) RecentResults(limit int) ([]engine.Result, error) {
	return db.results("SELECT * FROM games ORDER BY ended_at DESC, id LIMIT ?", limit)
}

// BestResults returns the highest-scoring games, best first.
func (db *DB) BestResults(limit int) ([]engine.Result, error) {
	return db.results("SELECT * FROM games ORDER BY total DESC, ended_at ASC LIMIT ?", limit)
}

func (db *DB) results(query string, limit int) ([]engine.Result, error) {
	var rows []gameRow
	if err := db.conn.Select(&rows, query, limit); err != nil {
		return nil, err
	}
	out := make([]engine.Result, 0, len(rows))
	for _, row := range rows {
		res, err := db.hydrate(row)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (db *DB) hydrate(row gameRow) (engine.Result, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return engine.Result{}, fmt.Errorf("game id %q: %w", row.ID, err)
	}
	res := engine.Result{
		GameID:    id,
		Seed:      row.Seed,
		Coins:     row.Coins,
		Total:     row.Total,
		Turns:     row.Turns,
		Finished:  row.Finished,
		StartedAt: fromUnixNano(row.StartedAt),
		EndedAt:   fromUnixNano(row.EndedAt),
	}
	if err := json.Unmarshal([]byte(row.RosterJSON), &res.Roster); err != nil {
		return engine.Result{}, fmt.Errorf("decode roster of %s: %w", row.ID, err)
	}

	var seasons []seasonRow
	err = db.conn.Select(&seasons,
		"SELECT * FROM season_scores WHERE game_id = ? ORDER BY season",
		row.ID,
	)
	if err != nil {
		return engine.Result{}, err
	}
	for _, s := range seasons {
		res.Seasons = append(res.Seasons, engine.SeasonScore{
			Season: engine.SeasonType(s.Season),
			A:      objective.Kind(s.ObjectiveA),
			B:      objective.Kind(s.ObjectiveB),
			ScoreA: objective.Score(s.ScoreA),
			ScoreB: objective.Score(s.ScoreB),
			Coins:  s.Coins,
		})
	}
	return res, nil
}

// SaveEvents appends a game's events to the log.
func (db *DB) SaveEvents(gameID uuid.UUID, events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertEvents(tx, gameID, events); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceEvents swaps a game's whole event log for events.
func (db *DB) ReplaceEvents(gameID uuid.UUID, events []engine.Event) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM events WHERE game_id = ?", gameID.String()); err != nil {
		return fmt.Errorf("clear events of %s: %w", gameID, err)
	}
	if err := insertEvents(tx, gameID, events); err != nil {
		return err
	}
	return tx.Commit()
}

func insertEvents(tx *sqlx.Tx, gameID uuid.UUID, events []engine.Event) error {
	stmt, err := tx.Preparex("INSERT INTO events (game_id, turn, description, category) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(gameID.String(), e.Turn, e.Description, e.Category); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return nil
}

// GameEvents returns the most recent N events of a game, oldest first.
func (db *DB) GameEvents(gameID uuid.UUID, limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		`SELECT turn, description, category FROM (
			SELECT id, turn, description, category FROM events
			WHERE game_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id`,
		gameID.String(), limit,
	)
	return events, err
}

// SaveMeta stores a key-value pair in archive metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}

// SaveGame archives a finished game: its result, its event log and the
// last-game marker. Saving the same game again overwrites the earlier copy.
func (db *DB) SaveGame(g *engine.Game) error {
	res := g.Result()
	slog.Info("archiving game", "game", g.ID, "events", len(g.Events))

	if err := db.SaveResult(res); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	if err := db.ReplaceEvents(g.ID, g.Events); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	if err := db.SaveMeta("last_game", g.ID.String()); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	return nil
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
