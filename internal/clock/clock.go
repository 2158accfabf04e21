package clock

import (
	"sync"
	"time"
)

// Precision of stored timestamps. MongoDB dates keep milliseconds.
const Precision = time.Millisecond

type Clock interface {
	Now() time.Time
}

// Monotonic hands out UTC timestamps truncated to Precision, each strictly
// later than the previous one it returned.
type Monotonic struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func NewMonotonic() *Monotonic {
	return &Monotonic{now: time.Now}
}

// NewMonotonicFrom builds a Monotonic on top of a custom time source.
func NewMonotonicFrom(now func() time.Time) *Monotonic {
	return &Monotonic{now: now}
}

func (m *Monotonic) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.now().UTC().Truncate(Precision)
	if !t.After(m.last) {
		t = m.last.Add(Precision)
	}
	m.last = t
	return t
}
