package schedule

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler driven by Advance instead of the wall clock. Callbacks run on the
// goroutine calling Advance, in due order.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	m         *Manual
	seq       int
	due       time.Duration
	every     time.Duration
	fn        func()
	cancelled bool
}

func (t *manualTask) Cancel() {
	t.m.mu.Lock()
	t.cancelled = true
	t.m.mu.Unlock()
}

// NewManual returns a scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

// After implements Scheduler.
func (m *Manual) After(d time.Duration, fn func()) Task {
	return m.add(d, 0, fn)
}

// Every implements Scheduler.
func (m *Manual) Every(d time.Duration, fn func()) Task {
	return m.add(d, d, fn)
}

func (m *Manual) add(d, every time.Duration, fn func()) Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTask{m: m, seq: m.seq, due: m.now + d, every: every, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

// Advance moves virtual time forward by d, firing everything that becomes due, including
// tasks scheduled by the callbacks themselves.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		t := m.nextLocked(target)
		if t == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = t.due
		if t.every > 0 {
			t.due += t.every
		} else {
			t.cancelled = true
		}
		fn := t.fn
		m.mu.Unlock()

		fn()
	}
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the delays, relative to now, of all live tasks in due order.
func (m *Manual) Pending() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compactLocked()
	delays := make([]time.Duration, 0, len(m.tasks))
	for _, t := range m.sortedLocked() {
		delays = append(delays, t.due-m.now)
	}
	return delays
}

func (m *Manual) nextLocked(target time.Duration) *manualTask {
	m.compactLocked()
	sorted := m.sortedLocked()
	if len(sorted) == 0 || sorted[0].due > target {
		return nil
	}
	return sorted[0]
}

func (m *Manual) compactLocked() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	m.tasks = live
}

func (m *Manual) sortedLocked() []*manualTask {
	sorted := make([]*manualTask, len(m.tasks))
	copy(sorted, m.tasks)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].due != sorted[j].due {
			return sorted[i].due < sorted[j].due
		}
		return sorted[i].seq < sorted[j].seq
	})
	return sorted
}
