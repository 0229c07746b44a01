package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/event-simulator/internal/application"
	"github.com/example/event-simulator/internal/scheduler"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock  *Clock
	RunIDs *RunIDs
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:  NewClock(time.Time{}),
		RunIDs: NewRunIDs(""),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.RunIDs == nil {
		factory.RunIDs = NewRunIDs("")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithRunIDs overrides the run id sequence used by the factory.
func WithRunIDs(ids *RunIDs) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.RunIDs = ids
	}
}

// SimulationServiceDeps captures dependencies for constructing a simulation
// service. Zero values fall back to the factory defaults.
type SimulationServiceDeps struct {
	Source   application.SnapshotSource
	Engine   *scheduler.Engine
	Metrics  *application.Metrics
	CacheTTL time.Duration
	Logger   *slog.Logger
	Options  []application.SimulationOption
}

// NewSimulationService builds a simulation service whose run ids and clock
// come from the factory.
func (f *ServiceFactory) NewSimulationService(deps SimulationServiceDeps) *application.SimulationService {
	opts := []application.SimulationOption{
		application.WithRunIDGenerator(f.RunIDs.NextFunc()),
		application.WithClock(f.Clock.NowFunc()),
		application.WithResultCache(deps.CacheTTL, 0),
		application.WithMetrics(deps.Metrics),
		application.WithLogger(deps.Logger),
	}
	opts = append(opts, deps.Options...)
	return application.NewSimulationService(deps.Source, deps.Engine, opts...)
}
