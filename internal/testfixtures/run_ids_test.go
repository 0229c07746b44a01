package testfixtures

import (
	"slices"
	"testing"
)

func TestRunIDs(t *testing.T) {
	ids := NewRunIDs("")
	next := ids.NextFunc()
	if got := next(); got != "run-1" {
		t.Fatalf("expected run-1, got %s", got)
	}
	if got := ids.Next(); got != "run-2" {
		t.Fatalf("expected run-2, got %s", got)
	}
	if issued := ids.Issued(); !slices.Equal(issued, []string{"run-1", "run-2"}) {
		t.Fatalf("unexpected issued ids %v", issued)
	}

	var missing *RunIDs
	if got := missing.NextFunc()(); got != "" {
		t.Fatalf("nil sequence should yield empty ids, got %q", got)
	}
}
