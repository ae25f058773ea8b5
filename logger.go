package tonalgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with tonalgo-specific context.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
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

// WithPreset adds a preset field to the logger.
func (l *Logger) WithPreset(preset string) *Logger {
	return &Logger{
		Logger: l.Logger.With("preset", preset),
	}
}

// WithRegion adds a region field to the logger.
func (l *Logger) WithRegion(region string) *Logger {
	return &Logger{
		Logger: l.Logger.With("region", region),
	}
}

// WithK adds a k (result count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogBuild logs an embedding build operation.
func (l *Logger) LogBuild(ctx context.Context, name string, dimension int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "embedding build failed",
			"object", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "embedding built",
			"object", name,
			"dimension", dimension,
		)
	}
}

// LogUpsert logs an index upsert operation.
func (l *Logger) LogUpsert(ctx context.Context, id string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "upsert failed",
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "upsert completed",
			"id", id,
		)
	}
}

// LogSearch logs a similarity search operation.
func (l *Logger) LogSearch(ctx context.Context, preset string, k, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"preset", preset,
			"k", k,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"preset", preset,
			"k", k,
			"results", resultsFound,
		)
	}
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(ctx context.Context, id string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "delete completed",
			"id", id,
		)
	}
}

// LogRegionQuery logs a tonal-region spatial query.
func (l *Logger) LogRegionQuery(ctx context.Context, region string, confidence float64) {
	l.DebugContext(ctx, "region query completed",
		"region", region,
		"confidence", confidence,
	)
}

// LogSnapshot logs an index snapshot operation.
func (l *Logger) LogSnapshot(ctx context.Context, entries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot completed",
			"entries", entries,
		)
	}
}
