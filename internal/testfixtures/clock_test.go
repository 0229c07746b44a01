package testfixtures

import (
	"testing"
	"time"
)

func TestClockStartsAtReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if got := clock.Now(); !got.Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", got)
	}
	if got := clock.Now(); !got.Equal(ReferenceTime()) {
		t.Fatalf("stopped clock moved to %v", got)
	}
}

func TestClockExpire(t *testing.T) {
	start := ReferenceTime()
	clock := NewClock(start)
	nowFn := clock.NowFunc()

	got := clock.Expire(30 * time.Second)
	if !got.After(start.Add(30 * time.Second)) {
		t.Fatalf("expected an instant past the ttl, got %v", got)
	}
	if !nowFn().Equal(got) {
		t.Fatalf("NowFunc did not observe Expire: %v", nowFn())
	}
}

func TestTickingClock(t *testing.T) {
	start := ReferenceTime()
	clock := NewTickingClock(start, time.Millisecond)

	first, second := clock.Now(), clock.Now()
	if !first.Equal(start) || second.Sub(first) != time.Millisecond {
		t.Fatalf("unexpected ticks %v, %v", first, second)
	}
	if got := clock.Advance(time.Minute); !got.Equal(start.Add(2*time.Millisecond + time.Minute)) {
		t.Fatalf("unexpected instant after Advance: %v", got)
	}
}

func TestNilClockUsesWallTime(t *testing.T) {
	var clock *Clock
	before := time.Now()
	if got := clock.NowFunc()(); got.Before(before) {
		t.Fatalf("expected wall time, got %v", got)
	}
}
