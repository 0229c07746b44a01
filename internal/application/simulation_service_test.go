package application_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/example/event-simulator/internal/application"
	"github.com/example/event-simulator/internal/persistence"
	"github.com/example/event-simulator/internal/scheduler"
	tf "github.com/example/event-simulator/internal/testfixtures"
)

type fakeSource struct {
	mu    sync.Mutex
	raw   scheduler.RawSnapshot
	err   error
	calls []string
}

func (f *fakeSource) LoadSnapshot(ctx context.Context, eventID string) (scheduler.RawSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, eventID)
	if f.err != nil {
		return scheduler.RawSnapshot{}, f.err
	}
	return f.raw, nil
}

func conflictingSnapshot() scheduler.RawSnapshot {
	first := tf.NewSessionFixture(tf.WithSessionID("s1"), tf.WithSessionTitle("Keynote"),
		tf.WithSessionTime(10, 0, 11, 0), tf.WithSessionRoom("r1", "Hall A", 0))
	second := tf.NewSessionFixture(tf.WithSessionID("s2"), tf.WithSessionTitle("Panel"),
		tf.WithSessionTime(10, 30, 11, 30), tf.WithSessionRoom("r1", "Hall A", 0))
	return tf.NewSnapshotBuilder("event-1").Sessions(first, second).Raw()
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, label string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			matches := label == ""
			for _, pair := range metric.GetLabel() {
				if pair.GetValue() == label {
					matches = true
				}
			}
			if matches {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestSimulationServiceSimulate(t *testing.T) {
	t.Parallel()

	source := &fakeSource{raw: conflictingSnapshot()}
	reg := prometheus.NewRegistry()
	svc := tf.NewServiceFactory().NewSimulationService(tf.SimulationServiceDeps{
		Source:  source,
		Metrics: application.NewMetrics(reg),
	})

	result, err := svc.Simulate(context.Background(), application.SimulateParams{EventID: "  event-1 "})

	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "room:s1:s2", result.Issues[0].ID)
	assert.Equal(t, "Room double-booked: Hall A", result.Issues[0].Title)
	assert.Equal(t, []string{"event-1"}, source.calls)
	assert.Equal(t, 1.0, counterValue(t, reg, "event_simulation_runs_total", "ok"))
	assert.Equal(t, 1.0, counterValue(t, reg, "event_simulation_issues_total", "critical"))
}

func TestSimulationServiceValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params application.SimulateParams
		field  string
	}{
		{"missing event id", application.SimulateParams{EventID: "   "}, "event_id"},
		{"malformed locale", application.SimulateParams{EventID: "event-1", Locale: "!!"}, "locale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			source := &fakeSource{raw: conflictingSnapshot()}
			svc := tf.NewServiceFactory().NewSimulationService(tf.SimulationServiceDeps{Source: source})

			_, err := svc.Simulate(context.Background(), tt.params)

			var vErr *application.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Contains(t, vErr.FieldErrors, tt.field)
			assert.Empty(t, source.calls, "invalid requests must not reach storage")
		})
	}
}

func TestSimulationServiceSourceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sourceErr  error
		target     error
		metricKind string
	}{
		{"not found", fmt.Errorf("load: %w", persistence.ErrNotFound), application.ErrNotFound, "not_found"},
		{"storage failure", errors.New("disk I/O error"), application.ErrSnapshotUnavailable, "snapshot_unavailable"},
		{"cancelled", context.Canceled, application.ErrSnapshotUnavailable, "snapshot_unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg := prometheus.NewRegistry()
			svc := tf.NewServiceFactory().NewSimulationService(tf.SimulationServiceDeps{
				Source:  &fakeSource{err: tt.sourceErr},
				Metrics: application.NewMetrics(reg),
			})

			result, err := svc.Simulate(context.Background(), application.SimulateParams{EventID: "event-1"})

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.Empty(t, result.Issues)
			assert.Equal(t, 1.0, counterValue(t, reg, "event_simulation_runs_total", tt.metricKind))
		})
	}
}

func TestSimulationServiceWithoutSource(t *testing.T) {
	t.Parallel()

	svc := application.NewSimulationService(nil, nil)

	_, err := svc.Simulate(context.Background(), application.SimulateParams{EventID: "event-1"})

	assert.ErrorIs(t, err, application.ErrSnapshotUnavailable)
	assert.NotErrorIs(t, err, application.ErrNotFound)
}

func TestSimulationServiceMalformedTimestamp(t *testing.T) {
	t.Parallel()

	raw := conflictingSnapshot()
	raw.Schedules[1].StartTime = "10:30"
	svc := tf.NewServiceFactory().NewSimulationService(tf.SimulationServiceDeps{Source: &fakeSource{raw: raw}})

	_, err := svc.Simulate(context.Background(), application.SimulateParams{EventID: "event-1"})

	var malformed *scheduler.MalformedTimestampError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "s2", malformed.RecordID)
	assert.Equal(t, "malformed_timestamp", application.ErrorKind(err))
}

func TestSimulationServiceCachesResults(t *testing.T) {
	t.Parallel()

	clock := tf.NewClock(time.Time{})
	reg := prometheus.NewRegistry()
	source := &fakeSource{raw: conflictingSnapshot()}
	svc := tf.NewServiceFactory(tf.WithClock(clock)).NewSimulationService(tf.SimulationServiceDeps{
		Source:   source,
		Metrics:  application.NewMetrics(reg),
		CacheTTL: time.Minute,
	})
	ctx := context.Background()
	params := application.SimulateParams{EventID: "event-1"}

	first, err := svc.Simulate(ctx, params)
	require.NoError(t, err)
	first.Issues[0].AffectedEntities.ScheduleIDs[0] = "mutated"

	second, err := svc.Simulate(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, "s1", second.Issues[0].AffectedEntities.ScheduleIDs[0], "cached results are copies")
	assert.Equal(t, 1.0, counterValue(t, reg, "event_simulation_cache_hits_total", ""))
	assert.Equal(t, 1.0, counterValue(t, reg, "event_simulation_runs_total", "ok"))

	_, err = svc.Simulate(ctx, application.SimulateParams{EventID: "event-1", Locale: "ja"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, counterValue(t, reg, "event_simulation_runs_total", "ok"), "locale is part of the cache key")

	clock.Expire(time.Minute)
	_, err = svc.Simulate(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, 3.0, counterValue(t, reg, "event_simulation_runs_total", "ok"), "expired entries are recomputed")
	assert.Len(t, source.calls, 4)

	svc.InvalidateCache()
	_, err = svc.Simulate(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, 4.0, counterValue(t, reg, "event_simulation_runs_total", "ok"))
}

func TestSimulationServiceSimulateSnapshot(t *testing.T) {
	t.Parallel()

	source := &fakeSource{}
	svc := tf.NewServiceFactory().NewSimulationService(tf.SimulationServiceDeps{
		Source:  source,
		Options: []application.SimulationOption{application.WithDefaultLocale(language.Japanese)},
	})

	result, err := svc.SimulateSnapshot(context.Background(), application.SimulateSnapshotParams{Snapshot: conflictingSnapshot()})

	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "会議室の重複予約: Hall A", result.Issues[0].Title)
	assert.Empty(t, source.calls)

	english, err := svc.SimulateSnapshot(context.Background(), application.SimulateSnapshotParams{Snapshot: conflictingSnapshot(), Locale: "en-GB"})
	require.NoError(t, err)
	assert.Equal(t, "Room double-booked: Hall A", english.Issues[0].Title)
}

func TestSimulationServiceLogsOperation(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	svc := tf.NewServiceFactory().NewSimulationService(tf.SimulationServiceDeps{
		Source: &fakeSource{err: persistence.ErrNotFound},
		Logger: logger,
	})

	_, err := svc.Simulate(context.Background(), application.SimulateParams{EventID: "missing"})
	require.ErrorIs(t, err, application.ErrNotFound)

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "SimulationService", entry["service"])
	assert.Equal(t, "Simulate", entry["operation"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "missing", entry["event_id"])
	assert.Equal(t, "not_found", entry["error_kind"])
	assert.Equal(t, "ERROR", entry["level"])
}
