package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/event-simulator/internal/persistence"
	"github.com/example/event-simulator/internal/persistence/sqlite"
	"github.com/example/event-simulator/internal/persistence/sqlite/migration"
)

// SQLiteHarness provides a migrated event store backed by a temporary file.
type SQLiteHarness struct {
	Store *sqlite.Store
	Path  string

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens and migrates a store in tb.TempDir. Callers may
// invoke Close, but the harness also registers it with tb.Cleanup.
func NewSQLiteHarness(tb testing.TB, opts ...sqlite.Option) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "events.db")
	store, err := sqlite.OpenWithConfig(migration.TempFileTestSQLiteConfig(path), opts...)
	if err != nil {
		tb.Fatalf("failed to open store: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		tb.Fatalf("failed to migrate store: %v", err)
	}

	harness := &SQLiteHarness{
		Store: store,
		Path:  path,
		cleanup: func() {
			_ = store.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// ReferenceImport returns a small normalized event: a keynote and a
// workshop sharing room-a, a lunch, two speakers and three participants.
func ReferenceImport(eventID string) persistence.EventImport {
	return persistence.EventImport{
		Event: persistence.Event{ID: eventID, Name: "Reference Conference"},
		Rooms: []persistence.Room{
			{ID: "room-a", Name: "Hall A", Capacity: IntPtr(100)},
			{ID: "room-b", Name: "Hall B"},
		},
		Speakers: []persistence.Speaker{
			{ID: "spk-1", Name: "Ada"},
			{ID: "spk-2", Name: "Grace"},
		},
		Sessions: []persistence.Session{
			{
				ID:                 "s2",
				Title:              "Workshop",
				Start:              At(10, 30),
				End:                At(12, 0),
				RoomID:             "room-a",
				SpeakerID:          "spk-2",
				ExpectedAttendance: IntPtr(40),
				SessionType:        "workshop",
			},
			{
				ID:                 "s1",
				Title:              "Keynote",
				Start:              At(9, 0),
				End:                At(10, 30),
				RoomID:             "room-a",
				SpeakerID:          "spk-1",
				BackupSpeakerID:    "spk-2",
				ExpectedAttendance: IntPtr(95),
				SessionType:        "keynote",
				RequiredEquipment:  []string{"projector", "microphone"},
			},
			{
				ID:          "s3",
				Title:       "Lunch",
				Start:       At(12, 0),
				End:         At(13, 0),
				RoomID:      "room-b",
				SessionType: "lunch",
			},
		},
		Participants: []persistence.Participant{
			{ID: "p1", Name: "Alice", IsVIP: true},
			{ID: "p2", Name: "Bob"},
			{ID: "p3", Name: "Carol"},
		},
		Attendances: []persistence.Attendance{
			{ParticipantID: "p1", SessionID: "s1"},
			{ParticipantID: "p1", SessionID: "s2"},
			{ParticipantID: "p2", SessionID: "s1"},
			{ParticipantID: "p3", SessionID: "s3"},
		},
		EquipmentAssignments: []persistence.EquipmentAssignment{
			{SessionID: "s1", Equipment: []string{"projector"}},
		},
		VendorSchedules: []persistence.VendorSchedule{
			{ID: "v1", VendorID: "vendor-1", VendorName: "Bento Co", ServiceType: "lunch", Start: At(11, 30), End: At(13, 0)},
		},
	}
}
