// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Layout names accepted by KARTOGRAPH_LAYOUT.
const (
	LayoutClassic   = "classic"
	LayoutGenerated = "generated"
)

type Config struct {
	DBPath     string
	Seed       int64
	Layout     string
	DeckPath   string
	MaxRejects int
	LogLevel   slog.Level
}

func Load() (Config, error) {
	c := Config{
		DBPath:   envOr("KARTOGRAPH_DB", "data/kartograph.db"),
		Layout:   strings.ToLower(envOr("KARTOGRAPH_LAYOUT", LayoutClassic)),
		DeckPath: os.Getenv("KARTOGRAPH_DECK"),
	}

	if v := os.Getenv("KARTOGRAPH_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid KARTOGRAPH_SEED %q: %w", v, err)
		}
		c.Seed = seed
	}

	rejects, err := strconv.Atoi(envOr("KARTOGRAPH_MAX_REJECTS", "3"))
	if err != nil || rejects < 1 {
		return Config{}, fmt.Errorf("invalid KARTOGRAPH_MAX_REJECTS %q", os.Getenv("KARTOGRAPH_MAX_REJECTS"))
	}
	c.MaxRejects = rejects

	switch c.Layout {
	case LayoutClassic, LayoutGenerated:
	default:
		return Config{}, fmt.Errorf("invalid KARTOGRAPH_LAYOUT %q", c.Layout)
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	c.LogLevel = level

	return c, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
