// Package logging builds the simulator's structured loggers and carries
// request or run scoped loggers through a context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"time"
)

type contextKey struct{}

// New returns a JSON logger writing to w. Durations are rendered as strings
// such as "15m0s" instead of integer nanoseconds.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: formatDuration,
	}))
}

func formatDuration(_ []string, attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindDuration {
		return slog.String(attr.Key, attr.Value.Duration().Round(time.Microsecond).String())
	}
	return attr
}

// ContextWithLogger returns a derived context that carries the provided logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts a logger previously attached to the context.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	logger, _ := ctx.Value(contextKey{}).(*slog.Logger)
	return logger
}

// Resolve picks the context logger, then fallback, then slog.Default.
func Resolve(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := FromContext(ctx); logger != nil {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}

// Component tags the resolved logger with the component kind and name
// ("service", "SimulationService") and the operation being performed.
func Component(ctx context.Context, fallback *slog.Logger, kind, name, operation string, attrs ...any) *slog.Logger {
	pairs := make([]any, 0, 4+len(attrs))
	pairs = append(pairs, kind, name)
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	pairs = append(pairs, attrs...)
	return Resolve(ctx, fallback).With(pairs...)
}
