package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Simulations *SimulationHandler
	Health      http.Handler
	// Metrics serves the prometheus exposition on GET /metrics.
	Metrics http.Handler
	// Instrumentation records per route request metrics when set.
	Instrumentation *HTTPMetrics
	Middleware      []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	handle := func(route string, h http.HandlerFunc) {
		mux.Handle(route, cfg.Instrumentation.Instrument(route, h))
	}

	if cfg.Simulations != nil {
		handle("/simulations", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Simulations.SimulateSnapshot(w, r)
		})
		handle("/events/", func(w http.ResponseWriter, r *http.Request) {
			id, ok := eventSimulationPath(r.URL.Path)
			if !ok {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			ctx := ContextWithEventID(r.Context(), id)
			cfg.Simulations.SimulateEvent(w, r.WithContext(ctx))
		})
	}

	if cfg.Health != nil {
		handle("/healthz", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				methodNotAllowed(w, http.MethodGet, http.MethodHead)
				return
			}
			cfg.Health.ServeHTTP(w, r)
		})
	}

	if cfg.Metrics != nil {
		mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Metrics.ServeHTTP(w, r)
		})
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

// eventSimulationPath extracts {id} from /events/{id}/simulations.
func eventSimulationPath(path string) (string, bool) {
	rest := strings.TrimPrefix(path, "/events/")
	id, tail, found := strings.Cut(rest, "/")
	if !found || tail != "simulations" || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
