package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("assigns a request id and exposes the logger", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		base := slog.New(slog.NewTextHandler(&buf, nil))

		var seenID string
		handler := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if LoggerFromContext(r.Context()) == nil {
				t.Error("expected request logger in context")
			}
			seenID, _ = RequestIDFromContext(r.Context())
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		if _, err := uuid.Parse(seenID); err != nil {
			t.Fatalf("expected UUID request id, got %q", seenID)
		}
		if rec.Header().Get(requestIDHeader) != seenID {
			t.Fatalf("expected request id echoed, got %q", rec.Header().Get(requestIDHeader))
		}
		logs := buf.String()
		if !strings.Contains(logs, "request_id="+seenID) || !strings.Contains(logs, "status=418") {
			t.Fatalf("expected request id and status in logs, got %s", logs)
		}
	})

	t.Run("keeps a well formed inbound request id", func(t *testing.T) {
		t.Parallel()
		inbound := uuid.NewString()

		handler := RequestLogger(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(requestIDHeader, inbound)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Header().Get(requestIDHeader) != inbound {
			t.Fatalf("expected inbound id kept, got %q", rec.Header().Get(requestIDHeader))
		}
	})

	t.Run("replaces a malformed inbound request id", func(t *testing.T) {
		t.Parallel()
		handler := RequestLogger(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(requestIDHeader, "<script>")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get(requestIDHeader); got == "<script>" || got == "" {
			t.Fatalf("expected generated id, got %q", got)
		}
	})
}

func TestHTTPMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	router := NewRouter(RouterConfig{
		Simulations:     NewSimulationHandler(&fakeSimulationService{result: sampleResult()}, discardLogger()),
		Instrumentation: metrics,
	})

	for range 2 {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/events/e/simulations", nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/simulations", nil))

	if got := testutil.ToFloat64(metrics.requests.WithLabelValues("/events/", "post", "200")); got != 2 {
		t.Fatalf("expected 2 event simulations counted, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.requests.WithLabelValues("/simulations", "get", "405")); got != 1 {
		t.Fatalf("expected 1 rejected request counted, got %v", got)
	}
}
