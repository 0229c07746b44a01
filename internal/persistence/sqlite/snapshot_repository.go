package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/event-simulator/internal/persistence"
)

// LoadSnapshot returns the denormalized planning data of one event. All
// queries run in one transaction and are retried while the database is
// locked. An unknown event yields persistence.ErrNotFound.
func (s *Store) LoadSnapshot(ctx context.Context, eventID string) (persistence.EventSnapshot, error) {
	if eventID == "" {
		return persistence.EventSnapshot{}, persistence.ErrNotFound
	}

	var snapshot persistence.EventSnapshot
	err := s.retry.WithRetry(ctx, func() error {
		return s.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			var err error
			snapshot, err = s.readSnapshot(ctx, tx, eventID)
			return err
		})
	})
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.EventSnapshot{}, persistence.ErrNotFound
		}
		return persistence.EventSnapshot{}, fmt.Errorf("sqlite: load snapshot %s: %w", eventID, err)
	}
	return snapshot, nil
}

func (s *Store) readSnapshot(ctx context.Context, tx *sql.Tx, eventID string) (persistence.EventSnapshot, error) {
	snapshot := persistence.EventSnapshot{Event: persistence.Event{ID: eventID}}

	var createdAt, updatedAt string
	err := s.helper.QueryRowTx(ctx, tx, `
		SELECT name, created_at, updated_at FROM events WHERE id = ?
	`, eventID).Scan(&snapshot.Event.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return snapshot, persistence.ErrNotFound
	}
	if err != nil {
		return snapshot, err
	}
	if snapshot.Event.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return snapshot, err
	}
	if snapshot.Event.UpdatedAt, err = parseStoredTime(updatedAt); err != nil {
		return snapshot, err
	}

	if snapshot.Sessions, err = s.readSessions(ctx, tx, eventID); err != nil {
		return snapshot, err
	}
	if snapshot.Attendees, err = s.readAttendees(ctx, tx, eventID); err != nil {
		return snapshot, err
	}
	if snapshot.Equipment, err = s.readEquipment(ctx, tx, eventID); err != nil {
		return snapshot, err
	}
	if snapshot.Vendors, err = s.readVendors(ctx, tx, eventID); err != nil {
		return snapshot, err
	}
	return snapshot, nil
}

func (s *Store) readSessions(ctx context.Context, tx *sql.Tx, eventID string) ([]persistence.SessionRow, error) {
	rows, err := s.helper.QueryTx(ctx, tx, `
		SELECT
			s.id, s.title, s.start_time, s.end_time,
			COALESCE(s.room_id, ''), COALESCE(r.name, ''), r.capacity,
			COALESCE(s.speaker_id, ''), COALESCE(sp.name, ''),
			COALESCE(s.backup_speaker_id, ''),
			s.expected_attendance, s.session_type
		FROM sessions s
		LEFT JOIN rooms r ON r.event_id = s.event_id AND r.id = s.room_id
		LEFT JOIN speakers sp ON sp.event_id = s.event_id AND sp.id = s.speaker_id
		WHERE s.event_id = ?
		ORDER BY s.start_unix, s.id
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []persistence.SessionRow
	index := make(map[string]int)
	for rows.Next() {
		var row persistence.SessionRow
		var capacity, attendance sql.NullInt64
		if err := rows.Scan(
			&row.ID, &row.Title, &row.StartTime, &row.EndTime,
			&row.RoomID, &row.RoomName, &capacity,
			&row.SpeakerID, &row.SpeakerName,
			&row.BackupSpeakerID,
			&attendance, &row.SessionType,
		); err != nil {
			return nil, err
		}
		row.RoomCapacity = intPtr(capacity)
		row.ExpectedAttendance = intPtr(attendance)
		index[row.ID] = len(sessions)
		sessions = append(sessions, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	requirements, err := s.helper.QueryTx(ctx, tx, `
		SELECT session_id, equipment
		FROM session_equipment_requirements
		WHERE event_id = ?
		ORDER BY session_id, position
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer requirements.Close()

	for requirements.Next() {
		var sessionID, equipment string
		if err := requirements.Scan(&sessionID, &equipment); err != nil {
			return nil, err
		}
		if i, ok := index[sessionID]; ok {
			sessions[i].RequiredEquipment = append(sessions[i].RequiredEquipment, equipment)
		}
	}
	return sessions, requirements.Err()
}

func (s *Store) readAttendees(ctx context.Context, tx *sql.Tx, eventID string) ([]persistence.AttendeeRow, error) {
	rows, err := s.helper.QueryTx(ctx, tx, `
		SELECT
			a.participant_id, p.name, p.is_vip,
			a.session_id, s.title,
			COALESCE(s.room_id, ''), COALESCE(r.name, ''),
			s.start_time, s.end_time
		FROM session_attendees a
		JOIN participants p ON p.event_id = a.event_id AND p.id = a.participant_id
		JOIN sessions s ON s.event_id = a.event_id AND s.id = a.session_id
		LEFT JOIN rooms r ON r.event_id = s.event_id AND r.id = s.room_id
		WHERE a.event_id = ?
		ORDER BY s.start_unix, a.session_id, a.participant_id
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attendees []persistence.AttendeeRow
	for rows.Next() {
		var row persistence.AttendeeRow
		if err := rows.Scan(
			&row.ParticipantID, &row.ParticipantName, &row.IsVIP,
			&row.SessionID, &row.SessionTitle,
			&row.RoomID, &row.RoomName,
			&row.StartTime, &row.EndTime,
		); err != nil {
			return nil, err
		}
		attendees = append(attendees, row)
	}
	return attendees, rows.Err()
}

func (s *Store) readEquipment(ctx context.Context, tx *sql.Tx, eventID string) ([]persistence.EquipmentRow, error) {
	rows, err := s.helper.QueryTx(ctx, tx, `
		SELECT session_id, equipment
		FROM equipment_assignments
		WHERE event_id = ?
		ORDER BY session_id, position
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var equipment []persistence.EquipmentRow
	for rows.Next() {
		var sessionID, item string
		if err := rows.Scan(&sessionID, &item); err != nil {
			return nil, err
		}
		if n := len(equipment); n > 0 && equipment[n-1].SessionID == sessionID {
			equipment[n-1].Equipment = append(equipment[n-1].Equipment, item)
			continue
		}
		equipment = append(equipment, persistence.EquipmentRow{SessionID: sessionID, Equipment: []string{item}})
	}
	return equipment, rows.Err()
}

func (s *Store) readVendors(ctx context.Context, tx *sql.Tx, eventID string) ([]persistence.VendorRow, error) {
	rows, err := s.helper.QueryTx(ctx, tx, `
		SELECT id, vendor_id, vendor_name, service_type, start_time, end_time
		FROM vendor_schedules
		WHERE event_id = ?
		ORDER BY start_unix, id
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []persistence.VendorRow
	for rows.Next() {
		var row persistence.VendorRow
		if err := rows.Scan(&row.ID, &row.VendorID, &row.VendorName, &row.ServiceType, &row.StartTime, &row.EndTime); err != nil {
			return nil, err
		}
		vendors = append(vendors, row)
	}
	return vendors, rows.Err()
}
