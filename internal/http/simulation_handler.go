package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/event-simulator/internal/application"
	"github.com/example/event-simulator/internal/scheduler"
)

// maxSnapshotBytes bounds inline snapshot bodies.
const maxSnapshotBytes = 8 << 20

type simulationService interface {
	Simulate(ctx context.Context, params application.SimulateParams) (scheduler.SimulationResult, error)
	SimulateSnapshot(ctx context.Context, params application.SimulateSnapshotParams) (scheduler.SimulationResult, error)
}

// SimulationHandler serves simulation runs for stored and inline snapshots.
type SimulationHandler struct {
	service   simulationService
	responder responder
	logger    *slog.Logger
}

func NewSimulationHandler(service simulationService, logger *slog.Logger) *SimulationHandler {
	base := defaultLogger(logger)
	return &SimulationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SimulationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SimulationHandler", operation, attrs...)
}

// SimulateEvent runs the engine against the stored event named in the path.
func (h *SimulationHandler) SimulateEvent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	eventID, ok := EventIDFromContext(r.Context())
	if !ok || strings.TrimSpace(eventID) == "" {
		h.log(r.Context(), "SimulateEvent", "error_kind", "bad_request").ErrorContext(r.Context(), "missing event id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}

	locale := requestLocale(r)
	logger := h.log(r.Context(), "SimulateEvent", "event_id", eventID, "locale", locale)

	result, err := h.service.Simulate(r.Context(), application.SimulateParams{
		EventID: eventID,
		Locale:  locale,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "simulation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "simulation served", "total_issues", result.TotalIssues)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, result)
}

// SimulateSnapshot runs the engine against the RawSnapshot in the body.
func (h *SimulationHandler) SimulateSnapshot(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var raw scheduler.RawSnapshot
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&raw); err != nil {
		logger := h.log(r.Context(), "SimulateSnapshot", "error_kind", "bad_request")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.ErrorContext(r.Context(), "snapshot body too large", "limit", tooLarge.Limit)
			h.responder.writeError(r.Context(), w, http.StatusRequestEntityTooLarge, errBodyTooLarge)
			return
		}
		logger.ErrorContext(r.Context(), "failed to decode snapshot", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	locale := requestLocale(r)
	logger := h.log(r.Context(), "SimulateSnapshot", "event_id", raw.EventID, "locale", locale)

	result, err := h.service.SimulateSnapshot(r.Context(), application.SimulateSnapshotParams{
		Snapshot: raw,
		Locale:   locale,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "simulation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "simulation served", "total_issues", result.TotalIssues)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, result)
}

// requestLocale returns the explicit locale query parameter, else the best
// supported match for Accept-Language, else "" so the service default applies.
func requestLocale(r *http.Request) string {
	if locale := strings.TrimSpace(r.URL.Query().Get("locale")); locale != "" {
		return locale
	}
	if header := strings.TrimSpace(r.Header.Get("Accept-Language")); header != "" {
		return scheduler.MatchLocale(header).String()
	}
	return ""
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers liveness probes.
type HealthHandler struct {
	store     Pinger
	responder responder
	logger    *slog.Logger
}

// NewHealthHandler returns a probe that checks store when it is not nil.
func NewHealthHandler(store Pinger, logger *slog.Logger) *HealthHandler {
	base := defaultLogger(logger)
	return &HealthHandler{store: store, responder: newResponder(base), logger: base}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			handlerLogger(r.Context(), h.logger, "HealthHandler", "Check").WarnContext(r.Context(), "store ping failed", "error", err)
			h.responder.writeJSON(r.Context(), w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
}

type healthResponse struct {
	Status string `json:"status"`
}
