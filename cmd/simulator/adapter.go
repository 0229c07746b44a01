package main

import (
	"context"

	"github.com/example/event-simulator/internal/persistence"
	"github.com/example/event-simulator/internal/scheduler"
)

// storeSnapshotSource serves raw snapshots from the event store.
type storeSnapshotSource struct {
	reader persistence.SnapshotReader
}

func newStoreSnapshotSource(reader persistence.SnapshotReader) *storeSnapshotSource {
	return &storeSnapshotSource{reader: reader}
}

func (s *storeSnapshotSource) LoadSnapshot(ctx context.Context, eventID string) (scheduler.RawSnapshot, error) {
	stored, err := s.reader.LoadSnapshot(ctx, eventID)
	if err != nil {
		return scheduler.RawSnapshot{}, err
	}
	return toRawSnapshot(stored), nil
}

func toRawSnapshot(model persistence.EventSnapshot) scheduler.RawSnapshot {
	raw := scheduler.RawSnapshot{
		EventID:   model.Event.ID,
		Schedules: make([]scheduler.RawSchedule, 0, len(model.Sessions)),
	}
	for _, session := range model.Sessions {
		raw.Schedules = append(raw.Schedules, scheduler.RawSchedule{
			ID:                 session.ID,
			Title:              session.Title,
			StartTime:          session.StartTime,
			EndTime:            session.EndTime,
			RoomID:             session.RoomID,
			RoomName:           session.RoomName,
			RoomCapacity:       cloneInt(session.RoomCapacity),
			SpeakerID:          session.SpeakerID,
			SpeakerName:        session.SpeakerName,
			BackupSpeakerID:    session.BackupSpeakerID,
			ExpectedAttendance: cloneInt(session.ExpectedAttendance),
			RequiredEquipment:  append([]string(nil), session.RequiredEquipment...),
			SessionType:        session.SessionType,
		})
	}
	for _, attendee := range model.Attendees {
		raw.ParticipantSchedules = append(raw.ParticipantSchedules, scheduler.RawParticipantSchedule{
			ParticipantID:   attendee.ParticipantID,
			ParticipantName: attendee.ParticipantName,
			IsVIP:           attendee.IsVIP,
			ScheduleID:      attendee.SessionID,
			ScheduleTitle:   attendee.SessionTitle,
			RoomID:          attendee.RoomID,
			RoomName:        attendee.RoomName,
			StartTime:       attendee.StartTime,
			EndTime:         attendee.EndTime,
		})
	}
	for _, equipment := range model.Equipment {
		raw.Equipment = append(raw.Equipment, scheduler.EquipmentRecord{
			ScheduleID: equipment.SessionID,
			Equipment:  append([]string(nil), equipment.Equipment...),
		})
	}
	for _, vendor := range model.Vendors {
		raw.Vendors = append(raw.Vendors, scheduler.RawVendorSchedule{
			ID:          vendor.ID,
			VendorID:    vendor.VendorID,
			VendorName:  vendor.VendorName,
			ServiceType: vendor.ServiceType,
			StartTime:   vendor.StartTime,
			EndTime:     vendor.EndTime,
		})
	}
	return raw
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
