package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/event-simulator/internal/persistence"
)

// ImportEvent replaces the stored content of the event with the import in
// one transaction. The creation timestamp of an existing event is kept.
func (s *Store) ImportEvent(ctx context.Context, event persistence.EventImport) error {
	if err := validateImport(event); err != nil {
		return err
	}

	err := s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		now := s.now()
		createdAt := formatTime(now)

		var existing string
		err := s.helper.QueryRowTx(ctx, tx, `SELECT created_at FROM events WHERE id = ?`, event.Event.ID).Scan(&existing)
		switch {
		case err == nil:
			createdAt = existing
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}

		if _, err := s.helper.ExecTx(ctx, tx, `DELETE FROM events WHERE id = ?`, event.Event.ID); err != nil {
			return err
		}
		if _, err := s.helper.ExecTx(ctx, tx, `
			INSERT INTO events (id, name, created_at, updated_at)
			VALUES (?, ?, ?, ?)
		`, event.Event.ID, event.Event.Name, createdAt, formatTime(now)); err != nil {
			return err
		}

		for _, step := range []func(context.Context, *sql.Tx, persistence.EventImport) error{
			s.insertRooms,
			s.insertSpeakers,
			s.insertSessions,
			s.insertParticipants,
			s.insertAttendances,
			s.insertEquipmentAssignments,
			s.insertVendorSchedules,
		} {
			if err := step(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sqlite: import event %s: %w", event.Event.ID, s.mapper.MapError(err))
	}
	return nil
}

func validateImport(event persistence.EventImport) error {
	var problems []string
	if strings.TrimSpace(event.Event.ID) == "" {
		problems = append(problems, "event id is empty")
	}
	for i, session := range event.Sessions {
		if session.ID == "" {
			problems = append(problems, fmt.Sprintf("session %d has no id", i))
		}
		if session.Start.IsZero() || session.End.IsZero() {
			problems = append(problems, fmt.Sprintf("session %q has no start or end", session.ID))
		}
	}
	for i, vendor := range event.VendorSchedules {
		if vendor.ID == "" {
			problems = append(problems, fmt.Sprintf("vendor schedule %d has no id", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", persistence.ErrConstraintViolation, strings.Join(problems, "; "))
	}
	return nil
}

func (s *Store) insertRooms(ctx context.Context, tx *sql.Tx, event persistence.EventImport) error {
	for _, room := range event.Rooms {
		if _, err := s.helper.ExecTx(ctx, tx, `
			INSERT INTO rooms (event_id, id, name, capacity)
			VALUES (?, ?, ?, ?)
		`, event.Event.ID, room.ID, room.Name, nullInt(room.Capacity)); err != nil {
			return fmt.Errorf("room %s: %w", room.ID, err)
		}
	}
	return nil
}

func (s *Store) insertSpeakers(ctx context.Context, tx *sql.Tx, event persistence.EventImport) error {
	for _, speaker := range event.Speakers {
		if _, err := s.helper.ExecTx(ctx, tx, `
			INSERT INTO speakers (event_id, id, name)
			VALUES (?, ?, ?)
		`, event.Event.ID, speaker.ID, speaker.Name); err != nil {
			return fmt.Errorf("speaker %s: %w", speaker.ID, err)
		}
	}
	return nil
}

func (s *Store) insertSessions(ctx context.Context, tx *sql.Tx, event persistence.EventImport) error {
	for _, session := range event.Sessions {
		if _, err := s.helper.ExecTx(ctx, tx, `
			INSERT INTO sessions (
				event_id, id, title, start_time, end_time, start_unix,
				room_id, speaker_id, backup_speaker_id, expected_attendance, session_type
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			event.Event.ID,
			session.ID,
			session.Title,
			formatTime(session.Start),
			formatTime(session.End),
			session.Start.Unix(),
			nullString(session.RoomID),
			nullString(session.SpeakerID),
			nullString(session.BackupSpeakerID),
			nullInt(session.ExpectedAttendance),
			session.SessionType,
		); err != nil {
			return fmt.Errorf("session %s: %w", session.ID, err)
		}

		for position, equipment := range session.RequiredEquipment {
			if _, err := s.helper.ExecTx(ctx, tx, `
				INSERT INTO session_equipment_requirements (event_id, session_id, position, equipment)
				VALUES (?, ?, ?, ?)
			`, event.Event.ID, session.ID, position, equipment); err != nil {
				return fmt.Errorf("session %s requirement %q: %w", session.ID, equipment, err)
			}
		}
	}
	return nil
}

func (s *Store) insertParticipants(ctx context.Context, tx *sql.Tx, event persistence.EventImport) error {
	for _, participant := range event.Participants {
		if _, err := s.helper.ExecTx(ctx, tx, `
			INSERT INTO participants (event_id, id, name, is_vip)
			VALUES (?, ?, ?, ?)
		`, event.Event.ID, participant.ID, participant.Name, participant.IsVIP); err != nil {
			return fmt.Errorf("participant %s: %w", participant.ID, err)
		}
	}
	return nil
}

func (s *Store) insertAttendances(ctx context.Context, tx *sql.Tx, event persistence.EventImport) error {
	for _, attendance := range event.Attendances {
		if _, err := s.helper.ExecTx(ctx, tx, `
			INSERT INTO session_attendees (event_id, participant_id, session_id)
			VALUES (?, ?, ?)
		`, event.Event.ID, attendance.ParticipantID, attendance.SessionID); err != nil {
			return fmt.Errorf("attendance %s/%s: %w", attendance.ParticipantID, attendance.SessionID, err)
		}
	}
	return nil
}

func (s *Store) insertEquipmentAssignments(ctx context.Context, tx *sql.Tx, event persistence.EventImport) error {
	next := make(map[string]int)
	for _, assignment := range event.EquipmentAssignments {
		for _, equipment := range assignment.Equipment {
			position := next[assignment.SessionID]
			next[assignment.SessionID] = position + 1
			if _, err := s.helper.ExecTx(ctx, tx, `
				INSERT INTO equipment_assignments (event_id, session_id, position, equipment)
				VALUES (?, ?, ?, ?)
			`, event.Event.ID, assignment.SessionID, position, equipment); err != nil {
				return fmt.Errorf("equipment for session %s: %w", assignment.SessionID, err)
			}
		}
	}
	return nil
}

func (s *Store) insertVendorSchedules(ctx context.Context, tx *sql.Tx, event persistence.EventImport) error {
	for _, vendor := range event.VendorSchedules {
		if _, err := s.helper.ExecTx(ctx, tx, `
			INSERT INTO vendor_schedules (
				event_id, id, vendor_id, vendor_name, service_type, start_time, end_time, start_unix
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			event.Event.ID,
			vendor.ID,
			vendor.VendorID,
			vendor.VendorName,
			vendor.ServiceType,
			formatTime(vendor.Start),
			formatTime(vendor.End),
			vendor.Start.Unix(),
		); err != nil {
			return fmt.Errorf("vendor schedule %s: %w", vendor.ID, err)
		}
	}
	return nil
}
