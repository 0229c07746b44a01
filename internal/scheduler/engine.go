package scheduler

import (
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

const (
	// DefaultMinBuffer is the shortest acceptable gap between consecutive
	// sessions of one speaker or between room changes of one participant.
	DefaultMinBuffer = 15 * time.Minute
	// DefaultCateringGap is the longest acceptable stretch without a meal.
	DefaultCateringGap = 4 * time.Hour
	// DefaultCapacityWarningPercent is the utilization above which a room
	// that still fits its audience is reported as nearly full.
	DefaultCapacityWarningPercent = 90
)

type settings struct {
	minBuffer              time.Duration
	cateringGap            time.Duration
	capacityWarningPercent int
}

type validator struct {
	name  string
	check func(Snapshot, settings, localizer) []Issue
}

// validators is the canonical invocation order. Results are always
// concatenated in this order regardless of how the checks were scheduled.
var validators = []validator{
	{name: "room_conflict", check: checkRoomConflicts},
	{name: "speaker_overlap", check: checkSpeakerOverlaps},
	{name: "vip_conflict", check: checkVIPConflicts},
	{name: "back_to_back", check: checkBackToBack},
	{name: "transition_time", check: checkTransitions},
	{name: "capacity", check: checkCapacity},
	{name: "equipment", check: checkEquipment},
	{name: "catering", check: checkCatering},
}

// Option customises an Engine.
type Option func(*Engine)

// WithMinBuffer overrides DefaultMinBuffer. Non-positive values are ignored.
func WithMinBuffer(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.settings.minBuffer = d
		}
	}
}

// WithCateringGap overrides DefaultCateringGap. Non-positive values are ignored.
func WithCateringGap(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.settings.cateringGap = d
		}
	}
}

// WithCapacityWarningPercent overrides DefaultCapacityWarningPercent.
// Values outside 1..100 are ignored.
func WithCapacityWarningPercent(percent int) Option {
	return func(e *Engine) {
		if percent > 0 && percent <= 100 {
			e.settings.capacityWarningPercent = percent
		}
	}
}

// WithParallel controls whether validators run concurrently.
func WithParallel(enabled bool) Option {
	return func(e *Engine) {
		e.parallel = enabled
	}
}

// Engine runs the validators over snapshots. It holds no per-run state and
// is safe for concurrent use.
type Engine struct {
	settings settings
	parallel bool
}

// NewEngine constructs an Engine with the default thresholds.
func NewEngine(opts ...Option) *Engine {
	engine := &Engine{
		settings: settings{
			minBuffer:              DefaultMinBuffer,
			cateringGap:            DefaultCateringGap,
			capacityWarningPercent: DefaultCapacityWarningPercent,
		},
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Validators returns the validator names in invocation order.
func (e *Engine) Validators() []string {
	names := make([]string, len(validators))
	for i, v := range validators {
		names[i] = v.name
	}
	return names
}

// Run evaluates every validator against snap and aggregates the findings.
// Issue texts are rendered in locale, falling back to English.
func (e *Engine) Run(snap Snapshot, locale language.Tag) SimulationResult {
	findings := make([][]Issue, len(validators))
	if e.parallel {
		var group errgroup.Group
		for i, v := range validators {
			group.Go(func() error {
				findings[i] = v.check(snap, e.settings, newLocalizer(locale))
				return nil
			})
		}
		_ = group.Wait()
	} else {
		for i, v := range validators {
			findings[i] = v.check(snap, e.settings, newLocalizer(locale))
		}
	}
	return aggregate(findings)
}

// Simulate decodes raw and runs the engine over it.
func (e *Engine) Simulate(raw RawSnapshot, locale language.Tag) (SimulationResult, error) {
	snap, err := Decode(raw)
	if err != nil {
		return SimulationResult{}, err
	}
	return e.Run(snap, locale), nil
}

// aggregate concatenates per-validator findings in canonical order and ranks
// them by severity. The sort is stable, so issues of equal severity keep the
// validator order and each validator's own ordering.
func aggregate(findings [][]Issue) SimulationResult {
	issues := make([]Issue, 0)
	for _, found := range findings {
		issues = append(issues, found...)
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity.rank() < issues[j].Severity.rank()
	})
	return SimulationResult{Issues: issues, Summary: summarize(issues)}
}
