package violation

import (
	"context"
	"sync"
)

// Memory is an in-memory Sink for tests.
type Memory struct {
	// Err, if set, is returned by every Append.
	Err error

	mu      sync.Mutex
	records []Violation
}

// Append records the violation.
func (m *Memory) Append(ctx context.Context, v Violation) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, v)
	return nil
}

// Records returns a copy of everything appended so far.
func (m *Memory) Records() []Violation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Violation, len(m.records))
	copy(out, m.records)
	return out
}

// Reset clears the recorded violations.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
}
