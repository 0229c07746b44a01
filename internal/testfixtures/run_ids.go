package testfixtures

import (
	"fmt"
	"slices"
	"sync"
)

// RunIDs hands out deterministic simulation run ids ("run-1", "run-2", ...)
// and remembers which ones were consumed.
type RunIDs struct {
	mu     sync.Mutex
	prefix string
	issued []string
}

// NewRunIDs returns a sequence with the given prefix, "run" when empty.
func NewRunIDs(prefix string) *RunIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &RunIDs{prefix: prefix}
}

// Next issues the following id.
func (r *RunIDs) Next() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := fmt.Sprintf("%s-%d", r.prefix, len(r.issued)+1)
	r.issued = append(r.issued, id)
	return id
}

// NextFunc returns Next for injection into application.WithRunIDGenerator.
func (r *RunIDs) NextFunc() func() string {
	if r == nil {
		return func() string { return "" }
	}
	return r.Next
}

// Issued lists every id handed out so far.
func (r *RunIDs) Issued() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.issued)
}
