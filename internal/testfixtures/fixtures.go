package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/event-simulator/internal/scheduler"
)

var (
	sessionCounter  uint64
	attendeeCounter uint64
)

var referenceTime = time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It is midnight UTC of the fixture event day.
func ReferenceTime() time.Time {
	return referenceTime
}

// At returns hour:minute on the fixture event day.
func At(hour, minute int) time.Time {
	return referenceTime.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// IntPtr returns a pointer to v, for the optional numeric record fields.
func IntPtr(v int) *int {
	return &v
}

// --------------------------- Session fixtures ---------------------------

// SessionFixture represents a deterministic session record.
type SessionFixture struct {
	scheduler.ScheduleRecord
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a one hour talk without room or speaker. Each call
// starts an hour after the previous one.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	start := At(9, 0).Add(time.Duration(idx%8) * time.Hour)
	fixture := SessionFixture{ScheduleRecord: scheduler.ScheduleRecord{
		ID:          fmt.Sprintf("session-%03d", idx),
		Title:       fmt.Sprintf("Session %03d", idx),
		Start:       start,
		End:         start.Add(time.Hour),
		SessionType: "talk",
	}}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionID overrides the session ID.
func WithSessionID(id string) SessionOption {
	return func(f *SessionFixture) {
		f.ID = id
	}
}

// WithSessionTitle overrides the title.
func WithSessionTitle(title string) SessionOption {
	return func(f *SessionFixture) {
		f.Title = title
	}
}

// WithSessionTime sets start and end as clock times on the fixture day.
func WithSessionTime(startHour, startMinute, endHour, endMinute int) SessionOption {
	return func(f *SessionFixture) {
		f.Start = At(startHour, startMinute)
		f.End = At(endHour, endMinute)
	}
}

// WithSessionRoom assigns a room. A capacity of zero leaves it unknown.
func WithSessionRoom(id, name string, capacity int) SessionOption {
	return func(f *SessionFixture) {
		f.RoomID = id
		f.RoomName = name
		f.RoomCapacity = nil
		if capacity > 0 {
			f.RoomCapacity = IntPtr(capacity)
		}
	}
}

// WithSessionSpeaker assigns a speaker.
func WithSessionSpeaker(id, name string) SessionOption {
	return func(f *SessionFixture) {
		f.SpeakerID = id
		f.SpeakerName = name
	}
}

// WithSessionBackupSpeaker sets the backup speaker reference.
func WithSessionBackupSpeaker(id string) SessionOption {
	return func(f *SessionFixture) {
		f.BackupSpeakerID = id
	}
}

// WithSessionAttendance sets the expected attendance.
func WithSessionAttendance(expected int) SessionOption {
	return func(f *SessionFixture) {
		f.ExpectedAttendance = IntPtr(expected)
	}
}

// WithSessionEquipment sets the required equipment tags.
func WithSessionEquipment(tags ...string) SessionOption {
	return func(f *SessionFixture) {
		f.RequiredEquipment = append([]string(nil), tags...)
	}
}

// WithSessionType sets the session type.
func WithSessionType(sessionType string) SessionOption {
	return func(f *SessionFixture) {
		f.SessionType = sessionType
	}
}

// Record returns the fixture as a scheduler.ScheduleRecord.
func (f SessionFixture) Record() scheduler.ScheduleRecord {
	record := f.ScheduleRecord
	record.RoomCapacity = copyIntPtr(f.RoomCapacity)
	record.ExpectedAttendance = copyIntPtr(f.ExpectedAttendance)
	record.RequiredEquipment = append([]string(nil), f.RequiredEquipment...)
	return record
}

// Attendee builds the participant record of someone attending this session.
func (f SessionFixture) Attendee(participantID, name string, vip bool) scheduler.ParticipantScheduleRecord {
	return scheduler.ParticipantScheduleRecord{
		ParticipantID:   participantID,
		ParticipantName: name,
		IsVIP:           vip,
		ScheduleID:      f.ID,
		ScheduleTitle:   f.Title,
		RoomID:          f.RoomID,
		RoomName:        f.RoomName,
		Start:           f.Start,
		End:             f.End,
	}
}

// -------------------------- Attendee fixtures --------------------------

// NewAttendeeID returns a fresh participant identifier.
func NewAttendeeID() string {
	return fmt.Sprintf("participant-%03d", atomic.AddUint64(&attendeeCounter, 1))
}

// -------------------------- Snapshot fixtures --------------------------

// SnapshotBuilder accumulates records into a scheduler.Snapshot.
type SnapshotBuilder struct {
	snap scheduler.Snapshot
}

// NewSnapshotBuilder starts a snapshot for eventID.
func NewSnapshotBuilder(eventID string) *SnapshotBuilder {
	return &SnapshotBuilder{snap: scheduler.Snapshot{EventID: eventID}}
}

// Sessions appends session records.
func (b *SnapshotBuilder) Sessions(sessions ...SessionFixture) *SnapshotBuilder {
	for _, s := range sessions {
		b.snap.Schedules = append(b.snap.Schedules, s.Record())
	}
	return b
}

// Attend registers participantID for every listed session.
func (b *SnapshotBuilder) Attend(participantID, name string, vip bool, sessions ...SessionFixture) *SnapshotBuilder {
	for _, s := range sessions {
		b.snap.ParticipantSchedules = append(b.snap.ParticipantSchedules, s.Attendee(participantID, name, vip))
	}
	return b
}

// Equipment records equipment assigned to a session.
func (b *SnapshotBuilder) Equipment(scheduleID string, tags ...string) *SnapshotBuilder {
	b.snap.Equipment = append(b.snap.Equipment, scheduler.EquipmentRecord{
		ScheduleID: scheduleID,
		Equipment:  append([]string(nil), tags...),
	})
	return b
}

// Vendor appends a catering vendor slot.
func (b *SnapshotBuilder) Vendor(id, vendorName string, start, end time.Time) *SnapshotBuilder {
	b.snap.Vendors = append(b.snap.Vendors, scheduler.VendorScheduleRecord{
		ID:          id,
		VendorID:    "vendor-" + id,
		VendorName:  vendorName,
		ServiceType: "catering",
		Start:       start,
		End:         end,
	})
	return b
}

// Build returns the accumulated snapshot.
func (b *SnapshotBuilder) Build() scheduler.Snapshot {
	return b.snap
}

// Raw returns the accumulated snapshot in wire form.
func (b *SnapshotBuilder) Raw() scheduler.RawSnapshot {
	return scheduler.Encode(b.snap)
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
