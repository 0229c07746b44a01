package application

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/example/event-simulator/internal/scheduler"
)

// Metrics records simulation outcomes. A nil *Metrics records nothing.
type Metrics struct {
	runs      *prometheus.CounterVec
	duration  prometheus.Histogram
	issues    *prometheus.CounterVec
	cacheHits prometheus.Counter
}

// NewMetrics creates the simulation collectors and registers them with reg.
// A nil registerer creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "event_simulation_runs_total",
			Help: "Simulation runs by result (ok or error kind)",
		}, []string{"result"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "event_simulation_duration_seconds",
			Help:    "Time spent producing a simulation result",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}),
		issues: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "event_simulation_issues_total",
			Help: "Issues reported by simulation runs, by severity",
		}, []string{"severity"}),
		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "event_simulation_cache_hits_total",
			Help: "Simulation results served from the result cache",
		}),
	}
}

func (m *Metrics) observeRun(result scheduler.SimulationResult, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(elapsed.Seconds())
	if err != nil {
		m.runs.WithLabelValues(ErrorKind(err)).Inc()
		return
	}
	m.runs.WithLabelValues("ok").Inc()
	m.issues.WithLabelValues(string(scheduler.SeverityCritical)).Add(float64(result.Critical))
	m.issues.WithLabelValues(string(scheduler.SeverityWarning)).Add(float64(result.Warnings))
	m.issues.WithLabelValues(string(scheduler.SeverityInfo)).Add(float64(result.Info))
}

func (m *Metrics) observeCacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}
