package pkmgo

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/pkmgo/config"
)

// Logger wraps slog.Logger with pkmgo-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LoggerFromConfig creates a Logger matching the configured format and level.
func LoggerFromConfig(cfg *config.Config) *Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if cfg.LogFormat == "json" {
		return NewJSONLogger(level)
	}
	return NewTextLogger(level)
}

// WithHead adds a head field to the logger.
func (l *Logger) WithHead(headID int) *Logger {
	return &Logger{
		Logger: l.Logger.With("head", headID),
	}
}

// WithBackend adds a backend field to the logger.
func (l *Logger) WithBackend(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("backend", name),
	}
}

// LogBackendSelect logs the one-time backend selection.
func (l *Logger) LogBackendSelect(name string, fellBack bool) {
	if fellBack {
		l.Warn("native brute-force backend unavailable; using dense fallback",
			"backend", name,
		)
	} else {
		l.Debug("backend selected",
			"backend", name,
		)
	}
}

// LogRetrieve logs a retrieval operation.
func (l *Logger) LogRetrieve(ctx context.Context, queries, kFinal int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "retrieve failed",
			"queries", queries,
			"k_final", kFinal,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "retrieve completed",
			"queries", queries,
			"k_final", kFinal,
		)
	}
}

// LogSearch logs a sub-codebook search operation.
func (l *Logger) LogSearch(ctx context.Context, group string, k, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"group", group,
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"group", group,
			"k", k,
			"results", resultsFound,
		)
	}
}
