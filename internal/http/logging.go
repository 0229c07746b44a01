package http

import (
	"context"
	"log/slog"

	"github.com/example/event-simulator/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	return logging.Resolve(context.Background(), logger)
}

// handlerLogger prefers the request scoped logger installed by RequestLogger.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	return logging.Component(ctx, fallback, "handler", handlerName, operation, attrs...)
}
