package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/event-simulator/internal/logging"
	"github.com/example/event-simulator/internal/scheduler"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	return logging.Resolve(context.Background(), logger)
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	return logging.Component(ctx, base, "service", serviceName, operation, attrs...)
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrSnapshotUnavailable):
		return "snapshot_unavailable"
	case errors.Is(err, scheduler.ErrMalformedTimestamp):
		return "malformed_timestamp"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "unexpected"
}
