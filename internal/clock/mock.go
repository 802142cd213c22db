package clock

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Mock is a manually advanced Clock. Timers fire synchronously inside Advance,
// in deadline order.
type Mock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*mockTimer
}

// NewMock returns a Mock positioned at start.
func NewMock(start time.Time) *Mock {
	return &Mock{now: start}
}

func (m *Mock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t without firing timers. Useful for date-dependent
// tests that don't exercise scheduling.
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the clock forward by d, firing every timer whose deadline is
// reached. A timer callback may schedule further timers; those fire too if
// they fall within the advanced window.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for {
		next := m.nextDueLocked(target)
		if next == nil {
			break
		}
		if next.deadline.After(m.now) {
			m.now = next.deadline
		}
		next.stopped = true
		f := next.f
		m.mu.Unlock()
		f()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

func (m *Mock) nextDueLocked(target time.Time) *mockTimer {
	var due []*mockTimer
	for _, t := range m.timers {
		if !t.stopped && !t.deadline.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	return due[0]
}

func (m *Mock) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &mockTimer{clock: m, deadline: m.now.Add(d), f: f}
	m.timers = append(m.timers, t)
	return t
}

// Sleep on the mock returns immediately; latency-sensitive assertions should
// observe the state flags around the call instead of wall time.
func (m *Mock) Sleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

type mockTimer struct {
	clock    *Mock
	deadline time.Time
	f        func()
	stopped  bool
}

func (t *mockTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped
	t.stopped = true
	return active
}

func (t *mockTimer) Reset(d time.Duration) bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped
	t.stopped = false
	t.deadline = t.clock.now.Add(d)
	return active
}
