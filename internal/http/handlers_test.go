package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/example/event-simulator/internal/application"
	"github.com/example/event-simulator/internal/scheduler"
)

type fakeSimulationService struct {
	mu        sync.Mutex
	result    scheduler.SimulationResult
	err       error
	events    []application.SimulateParams
	snapshots []application.SimulateSnapshotParams
}

func (f *fakeSimulationService) Simulate(ctx context.Context, params application.SimulateParams) (scheduler.SimulationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, params)
	return f.result, f.err
}

func (f *fakeSimulationService) SimulateSnapshot(ctx context.Context, params application.SimulateSnapshotParams) (scheduler.SimulationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots = append(f.snapshots, params)
	return f.result, f.err
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestRouter(service simulationService, pinger Pinger) http.Handler {
	logger := discardLogger()
	return NewRouter(RouterConfig{
		Simulations: NewSimulationHandler(service, logger),
		Health:      NewHealthHandler(pinger, logger),
		Middleware:  []func(http.Handler) http.Handler{RequestLogger(logger)},
	})
}

func sampleResult() scheduler.SimulationResult {
	return scheduler.SimulationResult{
		Issues: []scheduler.Issue{{
			ID:       "room:s1:s2",
			Severity: scheduler.SeverityCritical,
			Category: scheduler.CategoryRoom,
			Title:    "Room double-booked",
		}},
		Summary: scheduler.Summary{Critical: 1, TotalIssues: 1},
	}
}

func decodeError(t *testing.T, body io.Reader) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return resp
}

func TestSimulationHandlers(t *testing.T) {
	t.Parallel()

	t.Run("stored event simulation returns the result", func(t *testing.T) {
		t.Parallel()
		service := &fakeSimulationService{result: sampleResult()}
		router := newTestRouter(service, nil)

		req := httptest.NewRequest(http.MethodPost, "/events/devconf-2024/simulations?locale=ja", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(service.events) != 1 || service.events[0].EventID != "devconf-2024" || service.events[0].Locale != "ja" {
			t.Fatalf("unexpected service call %+v", service.events)
		}

		var got scheduler.SimulationResult
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode result: %v", err)
		}
		if got.Critical != 1 || len(got.Issues) != 1 || got.Issues[0].ID != "room:s1:s2" {
			t.Fatalf("unexpected result %+v", got)
		}
	})

	t.Run("inline snapshot is decoded and simulated", func(t *testing.T) {
		t.Parallel()
		service := &fakeSimulationService{result: sampleResult()}
		router := newTestRouter(service, nil)

		body := `{"event_id":"inline","schedules":[{"id":"s1","title":"Talk","start_time":"2024-06-03T09:00:00Z","end_time":"2024-06-03T10:00:00Z"}]}`
		req := httptest.NewRequest(http.MethodPost, "/simulations", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(service.snapshots) != 1 {
			t.Fatalf("expected one snapshot call, got %d", len(service.snapshots))
		}
		snap := service.snapshots[0].Snapshot
		if snap.EventID != "inline" || len(snap.Schedules) != 1 || snap.Schedules[0].StartTime != "2024-06-03T09:00:00Z" {
			t.Fatalf("unexpected snapshot %+v", snap)
		}
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		t.Parallel()
		service := &fakeSimulationService{}
		router := newTestRouter(service, nil)

		for _, body := range []string{`{"event_id":`, `{"event_id":"e","rooms":[]}`} {
			req := httptest.NewRequest(http.MethodPost, "/simulations", strings.NewReader(body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("%s: expected 400, got %d", body, rec.Code)
			}
			if resp := decodeError(t, rec.Body); resp.Message != errBadRequestBody.Error() {
				t.Fatalf("unexpected message %q", resp.Message)
			}
		}
		if len(service.snapshots) != 0 {
			t.Fatal("service must not be called for malformed bodies")
		}
	})

	t.Run("service errors map to status codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			err    error
			status int
			code   string
		}{
			{name: "not found", err: application.ErrNotFound, status: http.StatusNotFound, code: "EVENT_NOT_FOUND"},
			{
				name:   "validation",
				err:    &application.ValidationError{FieldErrors: map[string]string{"locale": "locale must be a BCP 47 language tag"}},
				status: http.StatusUnprocessableEntity,
				code:   "VALIDATION_FAILED",
			},
			{
				name: "malformed timestamp",
				err: &scheduler.MalformedTimestampError{
					Kind: "schedule", RecordID: "s1", Field: "start_time", Value: "9am",
				},
				status: http.StatusUnprocessableEntity,
				code:   "MALFORMED_TIMESTAMP",
			},
			{
				name:   "snapshot unavailable",
				err:    &application.SnapshotUnavailableError{EventID: "e", Err: errors.New("disk I/O error")},
				status: http.StatusServiceUnavailable,
				code:   "SNAPSHOT_UNAVAILABLE",
			},
			{name: "unexpected", err: errors.New("boom"), status: http.StatusInternalServerError},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				router := newTestRouter(&fakeSimulationService{err: tc.err}, nil)

				req := httptest.NewRequest(http.MethodPost, "/events/e/simulations", nil)
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)

				if rec.Code != tc.status {
					t.Fatalf("expected %d, got %d", tc.status, rec.Code)
				}
				resp := decodeError(t, rec.Body)
				if resp.ErrorCode != tc.code {
					t.Fatalf("expected error code %q, got %q", tc.code, resp.ErrorCode)
				}
				if resp.Message == "" {
					t.Fatal("expected a localized message")
				}
			})
		}
	})

	t.Run("validation messages are translated", func(t *testing.T) {
		t.Parallel()
		err := &application.ValidationError{FieldErrors: map[string]string{"event_id": "event id is required"}}
		router := newTestRouter(&fakeSimulationService{err: err}, nil)

		req := httptest.NewRequest(http.MethodPost, "/events/e/simulations", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		resp := decodeError(t, rec.Body)
		if resp.Errors["event_id"] != "イベント ID は必須です。" {
			t.Fatalf("unexpected field errors %v", resp.Errors)
		}
	})

	t.Run("malformed timestamp names the record", func(t *testing.T) {
		t.Parallel()
		err := &scheduler.MalformedTimestampError{Kind: "schedule", RecordID: "s1", Field: "end_time", Value: "10am"}
		router := newTestRouter(&fakeSimulationService{err: err}, nil)

		req := httptest.NewRequest(http.MethodPost, "/events/e/simulations", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		resp := decodeError(t, rec.Body)
		if _, ok := resp.Errors["schedule[s1].end_time"]; !ok {
			t.Fatalf("expected offending field in errors, got %v", resp.Errors)
		}
	})
}

func TestRequestLocale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		query  string
		header string
		want   string
	}{
		{name: "query wins", query: "?locale=ja", header: "en-US", want: "ja"},
		{name: "query passed through unvalidated", query: "?locale=not%20a%20tag", want: "not a tag"},
		{name: "accept-language matched", header: "ja-JP,ja;q=0.9,en;q=0.8", want: "ja"},
		{name: "unsupported accept-language falls back to english", header: "de-DE", want: "en"},
		{name: "nothing selects the default", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/simulations"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Accept-Language", tc.header)
			}
			if got := requestLocale(req); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRouter(t *testing.T) {
	t.Parallel()

	t.Run("rejects wrong methods", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(&fakeSimulationService{}, nil)

		for _, path := range []string{"/simulations", "/events/e/simulations"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Fatalf("%s: expected 405, got %d", path, rec.Code)
			}
			if rec.Header().Get("Allow") != http.MethodPost {
				t.Fatalf("%s: unexpected Allow header %q", path, rec.Header().Get("Allow"))
			}
		}
	})

	t.Run("unknown event paths are not found", func(t *testing.T) {
		t.Parallel()
		service := &fakeSimulationService{}
		router := newTestRouter(service, nil)

		for _, path := range []string{"/events/", "/events/e", "/events/e/other", "/events/e/simulations/extra"} {
			req := httptest.NewRequest(http.MethodPost, path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusNotFound {
				t.Fatalf("%s: expected 404, got %d", path, rec.Code)
			}
		}
		if len(service.events) != 0 {
			t.Fatal("service must not be called for unknown paths")
		}
	})

	t.Run("health reflects store reachability", func(t *testing.T) {
		t.Parallel()

		healthy := newTestRouter(&fakeSimulationService{}, fakePinger{})
		rec := httptest.NewRecorder()
		healthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		unhealthy := newTestRouter(&fakeSimulationService{}, fakePinger{err: errors.New("database is closed")})
		rec = httptest.NewRecorder()
		unhealthy.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
	})
}
