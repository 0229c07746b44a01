package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/example/event-simulator/internal/persistence"
	"github.com/example/event-simulator/internal/scheduler"
)

const (
	defaultResultCacheTTL     = 30 * time.Second
	defaultResultCacheEntries = 128
)

// SimulationService fetches event snapshots and runs the simulation engine
// over them.
type SimulationService struct {
	source        SnapshotSource
	engine        *scheduler.Engine
	cache         *resultCache
	metrics       *Metrics
	defaultLocale language.Tag
	newRunID      func() string
	now           func() time.Time
	logger        *slog.Logger

	cacheTTL     time.Duration
	cacheEntries int
}

// SimulationOption configures a SimulationService.
type SimulationOption func(*SimulationService)

// WithResultCache sets the result cache lifetime and size. A ttl of zero
// disables caching.
func WithResultCache(ttl time.Duration, maxEntries int) SimulationOption {
	return func(s *SimulationService) {
		s.cacheTTL = ttl
		s.cacheEntries = maxEntries
	}
}

// WithMetrics records run outcomes in m.
func WithMetrics(m *Metrics) SimulationOption {
	return func(s *SimulationService) {
		s.metrics = m
	}
}

// WithDefaultLocale sets the locale used when a request names none.
func WithDefaultLocale(tag language.Tag) SimulationOption {
	return func(s *SimulationService) {
		s.defaultLocale = tag
	}
}

// WithRunIDGenerator overrides the generator of run identifiers used in logs.
func WithRunIDGenerator(fn func() string) SimulationOption {
	return func(s *SimulationService) {
		if fn != nil {
			s.newRunID = fn
		}
	}
}

// WithClock overrides the time source used for cache expiry and durations.
func WithClock(now func() time.Time) SimulationOption {
	return func(s *SimulationService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) SimulationOption {
	return func(s *SimulationService) {
		s.logger = logger
	}
}

// NewSimulationService wires the snapshot source and engine. A nil engine is
// replaced by one with default thresholds.
func NewSimulationService(source SnapshotSource, engine *scheduler.Engine, opts ...SimulationOption) *SimulationService {
	if engine == nil {
		engine = scheduler.NewEngine()
	}
	s := &SimulationService{
		source:        source,
		engine:        engine,
		defaultLocale: language.English,
		newRunID:      uuid.NewString,
		now:           time.Now,
		cacheTTL:      defaultResultCacheTTL,
		cacheEntries:  defaultResultCacheEntries,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = defaultLogger(s.logger)
	s.cache = newResultCache(s.cacheTTL, s.cacheEntries, s.now)
	return s
}

func (s *SimulationService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "SimulationService", operation, attrs...)
}

// Simulate loads the snapshot of a stored event and simulates it.
func (s *SimulationService) Simulate(ctx context.Context, params SimulateParams) (result scheduler.SimulationResult, err error) {
	if s == nil {
		err = fmt.Errorf("SimulationService is nil")
		return
	}

	eventID := strings.TrimSpace(params.EventID)
	logger := s.loggerWith(ctx, "Simulate",
		"run_id", s.newRunID(),
		"event_id", eventID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "simulation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("total_issues", result.TotalIssues, "critical", result.Critical).InfoContext(ctx, "simulation completed")
	}()

	vErr := &ValidationError{}
	if eventID == "" {
		vErr.add("event_id", "event id is required")
	}
	locale, localeErr := s.resolveLocale(params.Locale)
	vErr.merge(localeErr)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	started := s.now()
	raw, err := s.loadSnapshot(ctx, eventID)
	if err != nil {
		s.metrics.observeRun(scheduler.SimulationResult{}, err, s.now().Sub(started))
		return
	}
	if raw.EventID == "" {
		raw.EventID = eventID
	}
	return s.run(ctx, logger, raw, locale, started)
}

// SimulateSnapshot simulates an inline snapshot without touching storage.
func (s *SimulationService) SimulateSnapshot(ctx context.Context, params SimulateSnapshotParams) (result scheduler.SimulationResult, err error) {
	if s == nil {
		err = fmt.Errorf("SimulationService is nil")
		return
	}

	logger := s.loggerWith(ctx, "SimulateSnapshot",
		"run_id", s.newRunID(),
		"event_id", params.Snapshot.EventID,
		"schedule_count", len(params.Snapshot.Schedules),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "simulation failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("total_issues", result.TotalIssues, "critical", result.Critical).InfoContext(ctx, "simulation completed")
	}()

	locale, localeErr := s.resolveLocale(params.Locale)
	if localeErr.HasErrors() {
		err = localeErr
		return
	}
	return s.run(ctx, logger, params.Snapshot, locale, s.now())
}

func (s *SimulationService) run(ctx context.Context, logger *slog.Logger, raw scheduler.RawSnapshot, locale language.Tag, started time.Time) (scheduler.SimulationResult, error) {
	key, err := fingerprint(raw)
	if err != nil {
		return scheduler.SimulationResult{}, err
	}
	key += "|" + locale.String()

	if cached, ok := s.cache.Get(key); ok {
		s.metrics.observeCacheHit()
		logger.DebugContext(ctx, "simulation result served from cache")
		return cached, nil
	}

	result, err := s.engine.Simulate(raw, locale)
	s.metrics.observeRun(result, err, s.now().Sub(started))
	if err != nil {
		return scheduler.SimulationResult{}, err
	}
	s.cache.Store(key, result)
	return result, nil
}

func (s *SimulationService) loadSnapshot(ctx context.Context, eventID string) (scheduler.RawSnapshot, error) {
	if s.source == nil {
		return scheduler.RawSnapshot{}, &SnapshotUnavailableError{EventID: eventID, Err: errors.New("no snapshot source configured")}
	}
	raw, err := s.source.LoadSnapshot(ctx, eventID)
	if err != nil {
		return scheduler.RawSnapshot{}, mapSnapshotError(eventID, err)
	}
	return raw, nil
}

// resolveLocale parses a BCP 47 tag. Well-formed tags without a translation
// fall back to English inside the engine.
func (s *SimulationService) resolveLocale(value string) (language.Tag, *ValidationError) {
	value = strings.TrimSpace(value)
	if value == "" {
		return s.defaultLocale, nil
	}
	tag, err := language.Parse(value)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("locale", "locale must be a BCP 47 language tag")
		return language.Und, vErr
	}
	return tag, nil
}

// InvalidateCache drops every cached result. Callers use it after the
// underlying event data changed.
func (s *SimulationService) InvalidateCache() {
	if s == nil {
		return
	}
	s.cache.Invalidate()
}

func mapSnapshotError(eventID string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, scheduler.ErrMalformedTimestamp) {
		return err
	}
	return &SnapshotUnavailableError{EventID: eventID, Err: err}
}
