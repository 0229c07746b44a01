package persistence

import "context"

// EventImporter writes whole events into the store.
type EventImporter interface {
	// ImportEvent replaces every stored record of the event with the
	// content of the import.
	ImportEvent(ctx context.Context, event EventImport) error
}

// SnapshotReader loads the denormalized planning data of one event.
type SnapshotReader interface {
	LoadSnapshot(ctx context.Context, eventID string) (EventSnapshot, error)
}

// EventLister enumerates stored events.
type EventLister interface {
	ListEvents(ctx context.Context) ([]Event, error)
}

// EventStore is the full storage surface used by the CLI and HTTP server.
type EventStore interface {
	EventImporter
	SnapshotReader
	EventLister
}
