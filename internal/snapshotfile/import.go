package snapshotfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/event-simulator/internal/persistence"
	"github.com/example/event-simulator/internal/scheduler"
)

// ErrInvalidSnapshot is returned when a snapshot cannot be normalized into
// a store import.
var ErrInvalidSnapshot = errors.New("snapshotfile: invalid snapshot")

// ToImport normalizes a raw snapshot into the records the event store
// keeps. Rooms, speakers and participants are inferred from the session
// and attendance records; the first non-empty name and the first known
// capacity win. Attendance records take their room and times from the
// session they reference. Malformed timestamps are reported as
// scheduler.MalformedTimestampError.
func ToImport(raw scheduler.RawSnapshot, name string) (persistence.EventImport, error) {
	snap, err := scheduler.Decode(raw)
	if err != nil {
		return persistence.EventImport{}, err
	}

	var problems []string
	if strings.TrimSpace(snap.EventID) == "" {
		problems = append(problems, "event_id is empty")
	}

	out := persistence.EventImport{Event: persistence.Event{ID: snap.EventID, Name: name}}
	rooms := newIndex[persistence.Room]()
	speakers := newIndex[persistence.Speaker]()
	participants := newIndex[persistence.Participant]()
	sessions := make(map[string]struct{}, len(snap.Schedules))

	for _, s := range snap.Schedules {
		if s.ID == "" {
			problems = append(problems, fmt.Sprintf("schedule %q has no id", s.Title))
			continue
		}
		if _, ok := sessions[s.ID]; ok {
			problems = append(problems, fmt.Sprintf("schedule %s is listed twice", s.ID))
			continue
		}
		sessions[s.ID] = struct{}{}

		if s.RoomID != "" {
			room := rooms.get(s.RoomID, persistence.Room{ID: s.RoomID})
			if room.Name == "" {
				room.Name = s.RoomName
			}
			if room.Capacity == nil && s.RoomCapacity != nil {
				capacity := *s.RoomCapacity
				room.Capacity = &capacity
			}
			rooms.put(s.RoomID, room)
		}
		if s.SpeakerID != "" {
			speaker := speakers.get(s.SpeakerID, persistence.Speaker{ID: s.SpeakerID})
			if speaker.Name == "" {
				speaker.Name = s.SpeakerName
			}
			speakers.put(s.SpeakerID, speaker)
		}
		if s.BackupSpeakerID != "" {
			speakers.put(s.BackupSpeakerID, speakers.get(s.BackupSpeakerID, persistence.Speaker{ID: s.BackupSpeakerID}))
		}

		out.Sessions = append(out.Sessions, persistence.Session{
			ID:                 s.ID,
			Title:              s.Title,
			Start:              s.Start,
			End:                s.End,
			RoomID:             s.RoomID,
			SpeakerID:          s.SpeakerID,
			BackupSpeakerID:    s.BackupSpeakerID,
			ExpectedAttendance: s.ExpectedAttendance,
			SessionType:        s.SessionType,
			RequiredEquipment:  s.RequiredEquipment,
		})
	}

	attending := make(map[[2]string]struct{})
	for _, p := range snap.ParticipantSchedules {
		if p.ParticipantID == "" {
			problems = append(problems, fmt.Sprintf("attendance for schedule %s has no participant_id", p.ScheduleID))
			continue
		}
		if _, ok := sessions[p.ScheduleID]; !ok {
			problems = append(problems, fmt.Sprintf("participant %s attends unknown schedule %q", p.ParticipantID, p.ScheduleID))
			continue
		}

		participant := participants.get(p.ParticipantID, persistence.Participant{ID: p.ParticipantID})
		if participant.Name == "" {
			participant.Name = p.ParticipantName
		}
		participant.IsVIP = participant.IsVIP || p.IsVIP
		participants.put(p.ParticipantID, participant)

		key := [2]string{p.ParticipantID, p.ScheduleID}
		if _, ok := attending[key]; ok {
			continue
		}
		attending[key] = struct{}{}
		out.Attendances = append(out.Attendances, persistence.Attendance{
			ParticipantID: p.ParticipantID,
			SessionID:     p.ScheduleID,
		})
	}

	for _, e := range snap.Equipment {
		if _, ok := sessions[e.ScheduleID]; !ok {
			problems = append(problems, fmt.Sprintf("equipment listed for unknown schedule %q", e.ScheduleID))
			continue
		}
		out.EquipmentAssignments = append(out.EquipmentAssignments, persistence.EquipmentAssignment{
			SessionID: e.ScheduleID,
			Equipment: e.Equipment,
		})
	}

	for _, v := range snap.Vendors {
		if v.ID == "" {
			problems = append(problems, fmt.Sprintf("vendor slot of %q has no id", v.VendorName))
			continue
		}
		out.VendorSchedules = append(out.VendorSchedules, persistence.VendorSchedule{
			ID:          v.ID,
			VendorID:    v.VendorID,
			VendorName:  v.VendorName,
			ServiceType: v.ServiceType,
			Start:       v.Start,
			End:         v.End,
		})
	}

	if len(problems) > 0 {
		return persistence.EventImport{}, fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(problems, "; "))
	}

	out.Rooms = rooms.values()
	out.Speakers = speakers.values()
	out.Participants = participants.values()
	return out, nil
}

// index keeps values by id in order of first appearance.
type index[T any] struct {
	order []string
	items map[string]T
}

func newIndex[T any]() *index[T] {
	return &index[T]{items: make(map[string]T)}
}

func (ix *index[T]) get(id string, fallback T) T {
	if v, ok := ix.items[id]; ok {
		return v
	}
	return fallback
}

func (ix *index[T]) put(id string, v T) {
	if _, ok := ix.items[id]; !ok {
		ix.order = append(ix.order, id)
	}
	ix.items[id] = v
}

func (ix *index[T]) values() []T {
	out := make([]T, 0, len(ix.order))
	for _, id := range ix.order {
		out = append(out, ix.items[id])
	}
	return out
}
