package application

import (
	"sync"
	"time"

	"github.com/example/event-simulator/internal/scheduler"
)

// resultCache stores recent simulation results keyed by snapshot fingerprint
// and locale, so repeated runs over an unchanged event skip the validators.
// A nil cache is valid and never hits.
type resultCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]resultCacheEntry
}

type resultCacheEntry struct {
	result    scheduler.SimulationResult
	expiresAt time.Time
}

// newResultCache returns nil when ttl is not positive, which disables caching.
func newResultCache(ttl time.Duration, maxEntries int, now func() time.Time) *resultCache {
	if ttl <= 0 {
		return nil
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &resultCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]resultCacheEntry),
	}
}

func (c *resultCache) Get(key string) (scheduler.SimulationResult, bool) {
	if c == nil {
		return scheduler.SimulationResult{}, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return scheduler.SimulationResult{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return scheduler.SimulationResult{}, false
	}
	return cloneResult(entry.result), true
}

func (c *resultCache) Store(key string, result scheduler.SimulationResult) {
	if c == nil {
		return
	}
	cloned := cloneResult(result)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = resultCacheEntry{result: cloned, expiresAt: expiry}
}

func (c *resultCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]resultCacheEntry)
	c.mu.Unlock()
}

func (c *resultCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *resultCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// evictOneLocked drops the entry closest to expiry.
func (c *resultCache) evictOneLocked() {
	var (
		oldestKey string
		oldest    time.Time
	)
	for key, entry := range c.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldest) {
			oldestKey, oldest = key, entry.expiresAt
		}
	}
	delete(c.entries, oldestKey)
}

func cloneResult(result scheduler.SimulationResult) scheduler.SimulationResult {
	out := scheduler.SimulationResult{Summary: result.Summary, Issues: make([]scheduler.Issue, len(result.Issues))}
	for i, issue := range result.Issues {
		out.Issues[i] = cloneIssue(issue)
	}
	return out
}

func cloneIssue(issue scheduler.Issue) scheduler.Issue {
	issue.AffectedEntities = scheduler.AffectedEntities{
		ScheduleIDs:    cloneStrings(issue.AffectedEntities.ScheduleIDs),
		RoomIDs:        cloneStrings(issue.AffectedEntities.RoomIDs),
		SpeakerIDs:     cloneStrings(issue.AffectedEntities.SpeakerIDs),
		ParticipantIDs: cloneStrings(issue.AffectedEntities.ParticipantIDs),
	}
	if issue.SuggestedFix != nil {
		fix := *issue.SuggestedFix
		if equipment, ok := fix.Action.(scheduler.AddEquipment); ok {
			equipment.Missing = cloneStrings(equipment.Missing)
			fix.Action = equipment
		}
		issue.SuggestedFix = &fix
	}
	return issue
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
