package scheduler

import (
	"sort"
	"time"
)

// ScheduleRecord represents one planned session of the event.
type ScheduleRecord struct {
	ID                 string
	Title              string
	Start              time.Time
	End                time.Time
	RoomID             string
	RoomName           string
	RoomCapacity       *int
	SpeakerID          string
	SpeakerName        string
	BackupSpeakerID    string
	ExpectedAttendance *int
	RequiredEquipment  []string
	SessionType        string
}

// ParticipantScheduleRecord links a participant to a session they attend.
type ParticipantScheduleRecord struct {
	ParticipantID   string
	ParticipantName string
	IsVIP           bool
	ScheduleID      string
	ScheduleTitle   string
	RoomID          string
	RoomName        string
	Start           time.Time
	End             time.Time
}

// EquipmentRecord lists the equipment assigned to a session.
type EquipmentRecord struct {
	ScheduleID string   `json:"schedule_id" yaml:"schedule_id"`
	Equipment  []string `json:"equipment" yaml:"equipment"`
}

// VendorScheduleRecord describes a catering vendor slot. The catering
// validator receives these records but does not evaluate them yet.
type VendorScheduleRecord struct {
	ID          string
	VendorID    string
	VendorName  string
	ServiceType string
	Start       time.Time
	End         time.Time
}

// Snapshot is the read-only input of a simulation run, scoped to one event.
type Snapshot struct {
	EventID              string
	Schedules            []ScheduleRecord
	ParticipantSchedules []ParticipantScheduleRecord
	Equipment            []EquipmentRecord
	Vendors              []VendorScheduleRecord
}

// groupBy buckets records by key. Records with an empty key are skipped and
// the returned keys are sorted ascending.
func groupBy[T any](records []T, key func(T) string) ([]string, map[string][]T) {
	groups := make(map[string][]T)
	for _, record := range records {
		k := key(record)
		if k == "" {
			continue
		}
		groups[k] = append(groups[k], record)
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, groups
}

func sortSchedules(records []ScheduleRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Start.Equal(records[j].Start) {
			return records[i].ID < records[j].ID
		}
		return records[i].Start.Before(records[j].Start)
	})
}

func sortParticipantSchedules(records []ParticipantScheduleRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Start.Equal(records[j].Start) {
			return records[i].ScheduleID < records[j].ScheduleID
		}
		return records[i].Start.Before(records[j].Start)
	})
}

// sortedSchedules returns a chronologically ordered copy of the records.
func sortedSchedules(records []ScheduleRecord) []ScheduleRecord {
	out := make([]ScheduleRecord, len(records))
	copy(out, records)
	sortSchedules(out)
	return out
}

func scheduleSpan(r ScheduleRecord) (time.Time, time.Time) {
	return r.Start, r.End
}

func participantSpan(r ParticipantScheduleRecord) (time.Time, time.Time) {
	return r.Start, r.End
}

func displayName(name, id string) string {
	if name != "" {
		return name
	}
	return id
}

// distinctSchedules returns a chronologically ordered copy of the records
// keeping only the first record of each id.
func distinctSchedules(records []ScheduleRecord) []ScheduleRecord {
	sorted := sortedSchedules(records)
	out := sorted[:0]
	seen := make(map[string]struct{}, len(sorted))
	for _, record := range sorted {
		if _, ok := seen[record.ID]; ok {
			continue
		}
		seen[record.ID] = struct{}{}
		out = append(out, record)
	}
	return out
}

// distinctParticipantSchedules is distinctSchedules for attendance records,
// keyed by participant and session.
func distinctParticipantSchedules(records []ParticipantScheduleRecord) []ParticipantScheduleRecord {
	sorted := make([]ParticipantScheduleRecord, len(records))
	copy(sorted, records)
	sortParticipantSchedules(sorted)

	out := sorted[:0]
	seen := make(map[[2]string]struct{}, len(sorted))
	for _, record := range sorted {
		key := [2]string{record.ParticipantID, record.ScheduleID}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, record)
	}
	return out
}
