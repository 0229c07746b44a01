package application

import (
	"testing"
	"time"

	"github.com/example/event-simulator/internal/scheduler"
)

func sampleResult() scheduler.SimulationResult {
	issues := []scheduler.Issue{{
		ID:       "equipment:s1",
		Severity: scheduler.SeverityWarning,
		AffectedEntities: scheduler.AffectedEntities{
			ScheduleIDs: []string{"s1"},
		},
		SuggestedFix: &scheduler.SuggestedFix{
			Label:  "Add mic",
			Action: scheduler.AddEquipment{ScheduleID: "s1", Missing: []string{"mic"}},
		},
	}}
	return scheduler.SimulationResult{Issues: issues, Summary: scheduler.Summary{Warnings: 1, TotalIssues: 1}}
}

func TestResultCacheStoresAndReturnsCopies(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	current := fixed
	cache := newResultCache(time.Minute, 4, func() time.Time { return current })

	original := sampleResult()
	cache.Store("key", original)

	// Mutating the stored value should not affect the cached copy.
	original.Issues[0].ID = "mutated"
	original.Issues[0].SuggestedFix.Label = "mutated"

	cached, ok := cache.Get("key")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if cached.Issues[0].ID != "equipment:s1" || cached.Issues[0].SuggestedFix.Label != "Add mic" {
		t.Fatalf("expected cached issue to remain unchanged, got %+v", cached.Issues[0])
	}

	// Mutating the returned value should not be visible on subsequent reads.
	cached.Issues[0].AffectedEntities.ScheduleIDs[0] = "changed"
	cached.Issues[0].SuggestedFix.Action.(scheduler.AddEquipment).Missing[0] = "changed"
	cachedAgain, ok := cache.Get("key")
	if !ok {
		t.Fatalf("expected cache hit on second read")
	}
	if cachedAgain.Issues[0].AffectedEntities.ScheduleIDs[0] != "s1" {
		t.Fatalf("expected cache to return independent copy, got %v", cachedAgain.Issues[0].AffectedEntities.ScheduleIDs)
	}
	if missing := cachedAgain.Issues[0].SuggestedFix.Action.(scheduler.AddEquipment).Missing; missing[0] != "mic" {
		t.Fatalf("expected fix payload to be copied, got %v", missing)
	}
}

func TestResultCacheExpiresEntries(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	current := fixed
	cache := newResultCache(time.Second, 4, func() time.Time { return current })

	cache.Store("key", sampleResult())
	if _, ok := cache.Get("key"); !ok {
		t.Fatalf("expected cache hit before expiry")
	}

	current = current.Add(2 * time.Second)
	if _, ok := cache.Get("key"); ok {
		t.Fatalf("expected cache entry to expire")
	}
}

func TestResultCacheEvictsWhenFull(t *testing.T) {
	current := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	cache := newResultCache(time.Minute, 2, func() time.Time { return current })

	cache.Store("a", sampleResult())
	current = current.Add(time.Second)
	cache.Store("b", sampleResult())
	current = current.Add(time.Second)
	cache.Store("c", sampleResult())

	if cache.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", cache.Len())
	}
	if _, ok := cache.Get("a"); ok {
		t.Fatalf("expected the oldest entry to be evicted")
	}
}

func TestResultCacheInvalidate(t *testing.T) {
	cache := newResultCache(time.Minute, 4, time.Now)
	cache.Store("key", sampleResult())
	cache.Invalidate()
	if _, ok := cache.Get("key"); ok {
		t.Fatalf("expected cache to be empty after invalidation")
	}
}

func TestResultCacheDisabled(t *testing.T) {
	cache := newResultCache(0, 4, time.Now)
	if cache != nil {
		t.Fatalf("expected a zero ttl to disable the cache")
	}
	cache.Store("key", sampleResult())
	if _, ok := cache.Get("key"); ok {
		t.Fatalf("expected disabled cache to miss")
	}
}

func TestFingerprintIsStable(t *testing.T) {
	raw := scheduler.RawSnapshot{EventID: "e", Schedules: []scheduler.RawSchedule{{ID: "s1", StartTime: "2024-06-03T09:00:00Z", EndTime: "2024-06-03T10:00:00Z"}}}

	first, err := fingerprint(raw)
	if err != nil {
		t.Fatalf("fingerprint returned error: %v", err)
	}
	second, _ := fingerprint(raw)
	if first != second || len(first) != 64 {
		t.Fatalf("expected stable 64 character digest, got %q and %q", first, second)
	}

	raw.Schedules[0].Title = "changed"
	changed, _ := fingerprint(raw)
	if changed == first {
		t.Fatalf("expected fingerprint to change with the snapshot")
	}
}
