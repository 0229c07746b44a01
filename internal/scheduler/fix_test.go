package scheduler_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/event-simulator/internal/scheduler"
)

func TestSuggestedFixWireFormat(t *testing.T) {
	t.Parallel()

	fix := scheduler.SuggestedFix{
		Label:  "Add Microphone",
		Action: scheduler.AddEquipment{ScheduleID: "s1", Missing: []string{"Microphone"}},
	}

	data, err := json.Marshal(fix)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "add_equipment",
		"label": "Add Microphone",
		"action_data": {"schedule_id": "s1", "missing": ["Microphone"]}
	}`, string(data))

	var decoded scheduler.SuggestedFix
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, fix, decoded)
}

func TestSuggestedFixDecodeDispatchesOnType(t *testing.T) {
	t.Parallel()

	var fix scheduler.SuggestedFix
	err := json.Unmarshal([]byte(`{"type":"activate_backup","label":"x","action_data":{"schedule_id":"s1","speaker_id":"a","backup_speaker_id":"b"}}`), &fix)

	require.NoError(t, err)
	action, ok := fix.Action.(scheduler.ActivateBackup)
	require.True(t, ok)
	assert.Equal(t, "b", action.BackupSpeakerID)
	assert.Equal(t, scheduler.FixActivateBackup, fix.Type())
}

func TestSuggestedFixRejectsUnknownType(t *testing.T) {
	t.Parallel()

	var fix scheduler.SuggestedFix
	err := json.Unmarshal([]byte(`{"type":"cancel_event","label":"x","action_data":{}}`), &fix)

	require.Error(t, err)
	assert.True(t, errors.Is(err, scheduler.ErrUnknownFixType))
}

func TestSuggestedFixWithoutActionCannotBeEncoded(t *testing.T) {
	t.Parallel()

	_, err := json.Marshal(scheduler.SuggestedFix{Label: "empty"})

	assert.Error(t, err)
}
