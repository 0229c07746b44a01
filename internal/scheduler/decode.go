package scheduler

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedTimestamp is matched by every MalformedTimestampError.
var ErrMalformedTimestamp = errors.New("scheduler: malformed timestamp")

// MalformedTimestampError identifies the record whose timestamp could not be
// parsed. A run never continues past such a record.
type MalformedTimestampError struct {
	Kind     string
	RecordID string
	Field    string
	Value    string
	Err      error
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("scheduler: malformed timestamp in %s %q field %s: %q", e.Kind, e.RecordID, e.Field, e.Value)
}

func (e *MalformedTimestampError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMalformedTimestamp.
func (e *MalformedTimestampError) Is(target error) bool {
	return target == ErrMalformedTimestamp
}

// RawSnapshot is the wire form of a Snapshot, with RFC 3339 timestamps.
type RawSnapshot struct {
	EventID              string                   `json:"event_id" yaml:"event_id"`
	Schedules            []RawSchedule            `json:"schedules" yaml:"schedules"`
	ParticipantSchedules []RawParticipantSchedule `json:"participant_schedules,omitempty" yaml:"participant_schedules,omitempty"`
	Equipment            []EquipmentRecord        `json:"equipment,omitempty" yaml:"equipment,omitempty"`
	Vendors              []RawVendorSchedule      `json:"vendors,omitempty" yaml:"vendors,omitempty"`
}

// RawSchedule is the wire form of a ScheduleRecord.
type RawSchedule struct {
	ID                 string   `json:"id" yaml:"id"`
	Title              string   `json:"title" yaml:"title"`
	StartTime          string   `json:"start_time" yaml:"start_time"`
	EndTime            string   `json:"end_time" yaml:"end_time"`
	RoomID             string   `json:"room_id,omitempty" yaml:"room_id,omitempty"`
	RoomName           string   `json:"room_name,omitempty" yaml:"room_name,omitempty"`
	RoomCapacity       *int     `json:"room_capacity,omitempty" yaml:"room_capacity,omitempty"`
	SpeakerID          string   `json:"speaker_id,omitempty" yaml:"speaker_id,omitempty"`
	SpeakerName        string   `json:"speaker_name,omitempty" yaml:"speaker_name,omitempty"`
	BackupSpeakerID    string   `json:"backup_speaker_id,omitempty" yaml:"backup_speaker_id,omitempty"`
	ExpectedAttendance *int     `json:"expected_attendance,omitempty" yaml:"expected_attendance,omitempty"`
	RequiredEquipment  []string `json:"required_equipment,omitempty" yaml:"required_equipment,omitempty"`
	SessionType        string   `json:"session_type,omitempty" yaml:"session_type,omitempty"`
}

// RawParticipantSchedule is the wire form of a ParticipantScheduleRecord.
type RawParticipantSchedule struct {
	ParticipantID   string `json:"participant_id" yaml:"participant_id"`
	ParticipantName string `json:"participant_name,omitempty" yaml:"participant_name,omitempty"`
	IsVIP           bool   `json:"is_vip,omitempty" yaml:"is_vip,omitempty"`
	ScheduleID      string `json:"schedule_id" yaml:"schedule_id"`
	ScheduleTitle   string `json:"schedule_title,omitempty" yaml:"schedule_title,omitempty"`
	RoomID          string `json:"room_id,omitempty" yaml:"room_id,omitempty"`
	RoomName        string `json:"room_name,omitempty" yaml:"room_name,omitempty"`
	StartTime       string `json:"start_time" yaml:"start_time"`
	EndTime         string `json:"end_time" yaml:"end_time"`
}

// RawVendorSchedule is the wire form of a VendorScheduleRecord.
type RawVendorSchedule struct {
	ID          string `json:"id" yaml:"id"`
	VendorID    string `json:"vendor_id" yaml:"vendor_id"`
	VendorName  string `json:"vendor_name,omitempty" yaml:"vendor_name,omitempty"`
	ServiceType string `json:"service_type,omitempty" yaml:"service_type,omitempty"`
	StartTime   string `json:"start_time" yaml:"start_time"`
	EndTime     string `json:"end_time" yaml:"end_time"`
}

// Decode parses the timestamps of raw into a Snapshot. Records are decoded
// in order (schedules, participant records, vendor slots) and the first
// unparseable timestamp is reported as a MalformedTimestampError.
func Decode(raw RawSnapshot) (Snapshot, error) {
	snap := Snapshot{
		EventID:              raw.EventID,
		Schedules:            make([]ScheduleRecord, 0, len(raw.Schedules)),
		ParticipantSchedules: make([]ParticipantScheduleRecord, 0, len(raw.ParticipantSchedules)),
		Equipment:            cloneEquipment(raw.Equipment),
		Vendors:              make([]VendorScheduleRecord, 0, len(raw.Vendors)),
	}

	for _, s := range raw.Schedules {
		start, end, err := parseSpan("schedule", s.ID, s.StartTime, s.EndTime)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Schedules = append(snap.Schedules, ScheduleRecord{
			ID:                 s.ID,
			Title:              s.Title,
			Start:              start,
			End:                end,
			RoomID:             s.RoomID,
			RoomName:           s.RoomName,
			RoomCapacity:       cloneInt(s.RoomCapacity),
			SpeakerID:          s.SpeakerID,
			SpeakerName:        s.SpeakerName,
			BackupSpeakerID:    s.BackupSpeakerID,
			ExpectedAttendance: cloneInt(s.ExpectedAttendance),
			RequiredEquipment:  append([]string(nil), s.RequiredEquipment...),
			SessionType:        s.SessionType,
		})
	}

	for _, p := range raw.ParticipantSchedules {
		start, end, err := parseSpan("participant_schedule", p.ParticipantID+"/"+p.ScheduleID, p.StartTime, p.EndTime)
		if err != nil {
			return Snapshot{}, err
		}
		snap.ParticipantSchedules = append(snap.ParticipantSchedules, ParticipantScheduleRecord{
			ParticipantID:   p.ParticipantID,
			ParticipantName: p.ParticipantName,
			IsVIP:           p.IsVIP,
			ScheduleID:      p.ScheduleID,
			ScheduleTitle:   p.ScheduleTitle,
			RoomID:          p.RoomID,
			RoomName:        p.RoomName,
			Start:           start,
			End:             end,
		})
	}

	for _, v := range raw.Vendors {
		start, end, err := parseSpan("vendor_schedule", v.ID, v.StartTime, v.EndTime)
		if err != nil {
			return Snapshot{}, err
		}
		snap.Vendors = append(snap.Vendors, VendorScheduleRecord{
			ID:          v.ID,
			VendorID:    v.VendorID,
			VendorName:  v.VendorName,
			ServiceType: v.ServiceType,
			Start:       start,
			End:         end,
		})
	}

	return snap, nil
}

// Encode renders snap in its wire form. Timestamps are written as RFC 3339.
func Encode(snap Snapshot) RawSnapshot {
	raw := RawSnapshot{
		EventID:   snap.EventID,
		Schedules: make([]RawSchedule, 0, len(snap.Schedules)),
		Equipment: cloneEquipment(snap.Equipment),
	}
	for _, s := range snap.Schedules {
		raw.Schedules = append(raw.Schedules, RawSchedule{
			ID:                 s.ID,
			Title:              s.Title,
			StartTime:          s.Start.Format(time.RFC3339),
			EndTime:            s.End.Format(time.RFC3339),
			RoomID:             s.RoomID,
			RoomName:           s.RoomName,
			RoomCapacity:       cloneInt(s.RoomCapacity),
			SpeakerID:          s.SpeakerID,
			SpeakerName:        s.SpeakerName,
			BackupSpeakerID:    s.BackupSpeakerID,
			ExpectedAttendance: cloneInt(s.ExpectedAttendance),
			RequiredEquipment:  append([]string(nil), s.RequiredEquipment...),
			SessionType:        s.SessionType,
		})
	}
	for _, p := range snap.ParticipantSchedules {
		raw.ParticipantSchedules = append(raw.ParticipantSchedules, RawParticipantSchedule{
			ParticipantID:   p.ParticipantID,
			ParticipantName: p.ParticipantName,
			IsVIP:           p.IsVIP,
			ScheduleID:      p.ScheduleID,
			ScheduleTitle:   p.ScheduleTitle,
			RoomID:          p.RoomID,
			RoomName:        p.RoomName,
			StartTime:       p.Start.Format(time.RFC3339),
			EndTime:         p.End.Format(time.RFC3339),
		})
	}
	for _, v := range snap.Vendors {
		raw.Vendors = append(raw.Vendors, RawVendorSchedule{
			ID:          v.ID,
			VendorID:    v.VendorID,
			VendorName:  v.VendorName,
			ServiceType: v.ServiceType,
			StartTime:   v.Start.Format(time.RFC3339),
			EndTime:     v.End.Format(time.RFC3339),
		})
	}
	return raw
}

func parseSpan(kind, id, startValue, endValue string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startValue)
	if err != nil {
		return time.Time{}, time.Time{}, &MalformedTimestampError{Kind: kind, RecordID: id, Field: "start_time", Value: startValue, Err: err}
	}
	end, err := time.Parse(time.RFC3339, endValue)
	if err != nil {
		return time.Time{}, time.Time{}, &MalformedTimestampError{Kind: kind, RecordID: id, Field: "end_time", Value: endValue, Err: err}
	}
	return start, end, nil
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneEquipment(records []EquipmentRecord) []EquipmentRecord {
	if records == nil {
		return nil
	}
	out := make([]EquipmentRecord, len(records))
	for i, record := range records {
		out[i] = EquipmentRecord{
			ScheduleID: record.ScheduleID,
			Equipment:  append([]string(nil), record.Equipment...),
		}
	}
	return out
}
