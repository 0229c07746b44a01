package persistence

import "time"

// Event is the top-level planning unit. Every other record belongs to one.
type Event struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Room is a venue space. A nil Capacity means unknown.
type Room struct {
	ID       string
	Name     string
	Capacity *int
}

// Speaker presents sessions.
type Speaker struct {
	ID   string
	Name string
}

// Session is a planned agenda item. RoomID, SpeakerID and BackupSpeakerID
// are optional references into the same event.
type Session struct {
	ID                 string
	Title              string
	Start              time.Time
	End                time.Time
	RoomID             string
	SpeakerID          string
	BackupSpeakerID    string
	ExpectedAttendance *int
	SessionType        string
	RequiredEquipment  []string
}

// Participant attends sessions.
type Participant struct {
	ID    string
	Name  string
	IsVIP bool
}

// Attendance registers a participant for a session.
type Attendance struct {
	ParticipantID string
	SessionID     string
}

// EquipmentAssignment lists equipment allocated to a session.
type EquipmentAssignment struct {
	SessionID string
	Equipment []string
}

// VendorSchedule is a catering vendor slot.
type VendorSchedule struct {
	ID          string
	VendorID    string
	VendorName  string
	ServiceType string
	Start       time.Time
	End         time.Time
}

// EventImport is the normalized content of one event as written by
// EventImporter.ImportEvent.
type EventImport struct {
	Event                Event
	Rooms                []Room
	Speakers             []Speaker
	Sessions             []Session
	Participants         []Participant
	Attendances          []Attendance
	EquipmentAssignments []EquipmentAssignment
	VendorSchedules      []VendorSchedule
}

// SessionRow is a session joined with its room and speaker. Timestamps are
// the RFC 3339 text held by the store.
type SessionRow struct {
	ID                 string
	Title              string
	StartTime          string
	EndTime            string
	RoomID             string
	RoomName           string
	RoomCapacity       *int
	SpeakerID          string
	SpeakerName        string
	BackupSpeakerID    string
	ExpectedAttendance *int
	SessionType        string
	RequiredEquipment  []string
}

// AttendeeRow is an attendance joined with its participant, session and room.
type AttendeeRow struct {
	ParticipantID   string
	ParticipantName string
	IsVIP           bool
	SessionID       string
	SessionTitle    string
	RoomID          string
	RoomName        string
	StartTime       string
	EndTime         string
}

// EquipmentRow lists the equipment assigned to one session.
type EquipmentRow struct {
	SessionID string
	Equipment []string
}

// VendorRow is a stored vendor slot.
type VendorRow struct {
	ID          string
	VendorID    string
	VendorName  string
	ServiceType string
	StartTime   string
	EndTime     string
}

// EventSnapshot is the denormalized read model of one event. Sessions,
// attendees and vendors are ordered by start time, then id.
type EventSnapshot struct {
	Event     Event
	Sessions  []SessionRow
	Attendees []AttendeeRow
	Equipment []EquipmentRow
	Vendors   []VendorRow
}
