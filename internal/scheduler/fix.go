package scheduler

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FixType discriminates the action payload of a SuggestedFix.
type FixType string

const (
	FixReassignRoom   FixType = "reassign_room"
	FixExtendBreak    FixType = "extend_break"
	FixAdjustTime     FixType = "adjust_time"
	FixAddEquipment   FixType = "add_equipment"
	FixAddCatering    FixType = "add_catering"
	FixActivateBackup FixType = "activate_backup"
)

// ErrUnknownFixType is returned when decoding a fix whose type is not one of
// the known FixType values.
var ErrUnknownFixType = errors.New("scheduler: unknown fix type")

// FixAction is implemented by every fix payload. The set of implementations
// is closed; executors can switch over the concrete types exhaustively.
type FixAction interface {
	FixType() FixType
}

// ReassignRoom moves a session to a different room.
type ReassignRoom struct {
	ScheduleID        string `json:"schedule_id"`
	CurrentRoomID     string `json:"current_room_id,omitempty"`
	MinCapacityNeeded int    `json:"min_capacity_needed,omitempty"`
}

// ExtendBreak lengthens the gap before ScheduleID.
type ExtendBreak struct {
	ScheduleID         string `json:"schedule_id"`
	PreviousScheduleID string `json:"previous_schedule_id"`
	MinutesNeeded      int    `json:"minutes_needed"`
}

// AdjustTime moves a session so it no longer collides with another.
type AdjustTime struct {
	ScheduleID            string `json:"schedule_id"`
	ConflictingScheduleID string `json:"conflicting_schedule_id"`
	ParticipantID         string `json:"participant_id,omitempty"`
}

// AddEquipment assigns the missing equipment to a session.
type AddEquipment struct {
	ScheduleID string   `json:"schedule_id"`
	Missing    []string `json:"missing"`
}

// AddCatering schedules meal or break slots. AfterScheduleID and
// BeforeScheduleID bound the gap to fill when known.
type AddCatering struct {
	AfterScheduleID   string `json:"after_schedule_id,omitempty"`
	BeforeScheduleID  string `json:"before_schedule_id,omitempty"`
	RecommendedBreaks int    `json:"recommended_breaks"`
}

// ActivateBackup hands a session to its backup speaker.
type ActivateBackup struct {
	ScheduleID      string `json:"schedule_id"`
	SpeakerID       string `json:"speaker_id"`
	BackupSpeakerID string `json:"backup_speaker_id"`
}

func (ReassignRoom) FixType() FixType   { return FixReassignRoom }
func (ExtendBreak) FixType() FixType    { return FixExtendBreak }
func (AdjustTime) FixType() FixType     { return FixAdjustTime }
func (AddEquipment) FixType() FixType   { return FixAddEquipment }
func (AddCatering) FixType() FixType    { return FixAddCatering }
func (ActivateBackup) FixType() FixType { return FixActivateBackup }

// SuggestedFix is a machine-actionable recommendation attached to an issue.
type SuggestedFix struct {
	Label  string
	Action FixAction
}

// Type returns the discriminator of the fix payload.
func (f SuggestedFix) Type() FixType {
	if f.Action == nil {
		return ""
	}
	return f.Action.FixType()
}

type fixEnvelope struct {
	Type       FixType         `json:"type"`
	Label      string          `json:"label"`
	ActionData json.RawMessage `json:"action_data"`
}

// MarshalJSON encodes the fix as {"type","label","action_data"}.
func (f SuggestedFix) MarshalJSON() ([]byte, error) {
	if f.Action == nil {
		return nil, fmt.Errorf("scheduler: suggested fix %q has no action", f.Label)
	}
	data, err := json.Marshal(f.Action)
	if err != nil {
		return nil, err
	}
	return json.Marshal(fixEnvelope{Type: f.Action.FixType(), Label: f.Label, ActionData: data})
}

// UnmarshalJSON decodes the envelope and dispatches on its type.
func (f *SuggestedFix) UnmarshalJSON(data []byte) error {
	var envelope fixEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	var action FixAction
	var err error
	switch envelope.Type {
	case FixReassignRoom:
		action, err = decodeAction[ReassignRoom](envelope.ActionData)
	case FixExtendBreak:
		action, err = decodeAction[ExtendBreak](envelope.ActionData)
	case FixAdjustTime:
		action, err = decodeAction[AdjustTime](envelope.ActionData)
	case FixAddEquipment:
		action, err = decodeAction[AddEquipment](envelope.ActionData)
	case FixAddCatering:
		action, err = decodeAction[AddCatering](envelope.ActionData)
	case FixActivateBackup:
		action, err = decodeAction[ActivateBackup](envelope.ActionData)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFixType, envelope.Type)
	}
	if err != nil {
		return fmt.Errorf("scheduler: decode %s action: %w", envelope.Type, err)
	}

	f.Label = envelope.Label
	f.Action = action
	return nil
}

func decodeAction[T FixAction](data json.RawMessage) (FixAction, error) {
	var action T
	if len(data) == 0 {
		return action, nil
	}
	if err := json.Unmarshal(data, &action); err != nil {
		return nil, err
	}
	return action, nil
}
