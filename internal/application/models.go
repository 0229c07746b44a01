package application

import (
	"context"

	"github.com/example/event-simulator/internal/scheduler"
)

// SnapshotSource loads the snapshot of one stored event. Implementations
// return an error matching persistence.ErrNotFound or ErrNotFound when the
// event does not exist.
type SnapshotSource interface {
	LoadSnapshot(ctx context.Context, eventID string) (scheduler.RawSnapshot, error)
}

// SimulateParams identifies a stored event to simulate.
type SimulateParams struct {
	EventID string
	// Locale is a BCP 47 tag for issue texts. Empty selects the service default.
	Locale string
}

// SimulateSnapshotParams carries an inline snapshot to simulate.
type SimulateSnapshotParams struct {
	Snapshot scheduler.RawSnapshot
	Locale   string
}
