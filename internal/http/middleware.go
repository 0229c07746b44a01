package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger attaches a request scoped logger and request id to every
// request. A well formed inbound X-Request-ID is kept; otherwise a new UUID
// is generated. The id is echoed in the response header.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithRequestID(ContextWithLogger(r.Context(), logger), id)
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(recorder, r.WithContext(ctx))
			logger.InfoContext(ctx, "request completed", "status", recorder.status, "duration", time.Since(start))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(status int) {
	if !s.wroteHeader {
		s.status = status
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// HTTPMetrics counts and times requests per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the request collectors with reg. A nil registerer
// creates unregistered collectors.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(reg)
	return &HTTPMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "event_simulator_http_requests_total",
			Help: "HTTP requests by route, method and status code",
		}, []string{"route", "method", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "event_simulator_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Instrument wraps next so its requests are recorded under route. A nil
// receiver returns next unchanged.
func (m *HTTPMetrics) Instrument(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	labels := prometheus.Labels{"route": route}
	return promhttp.InstrumentHandlerDuration(
		m.duration.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(m.requests.MustCurryWith(labels), next),
	)
}
