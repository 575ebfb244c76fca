package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/larriantoniy/alexa_ctl/internal/config"
)

// Setup строит логгер по окружению: dev - debug JSON, prod - info JSON,
// local - debug текстом. cfg.Level перекрывает уровень окружения.
// Каждый запуск получает свой run_id.
func Setup(w io.Writer, env string, cfg config.LogConfig) (*slog.Logger, func() error, error) {
	closer := func() error { return nil }

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("open log file %s: %w", cfg.File, err)
		}
		w = io.MultiWriter(w, f)
		closer = f.Close
	}

	level := slog.LevelInfo
	if env != config.EnvProd {
		level = slog.LevelDebug
	}
	if cfg.Level != "" {
		level = ParseLevel(cfg.Level)
	}
	opts := &slog.HandlerOptions{Level: level}

	var logger *slog.Logger
	switch env {
	case config.EnvLocal:
		logger = slog.New(slog.NewTextHandler(w, opts))
	default:
		logger = slog.New(slog.NewJSONHandler(w, opts))
	}

	return logger.With("run_id", uuid.NewString()), closer, nil
}

// ParseLevel converts textual levels into slog levels, defaulting to info.
// Accepts python-style names too (DEBUG, WARNING, CRITICAL).
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "critical":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
