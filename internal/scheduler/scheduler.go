// Package scheduler runs callbacks after a delay behind a small interface so
// sessions can be driven by real timers in production and by hand in tests.
package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Handle cancels a scheduled callback. Cancel reports whether the callback
// was stopped before it ran.
type Handle interface {
	Cancel() bool
}

// Scheduler runs fn once after delay.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Handle
}

// Timer schedules on the runtime timer heap; callbacks run on their own goroutine.
type Timer struct{}

func (Timer) Schedule(delay time.Duration, fn func()) Handle {
	return timerHandle{time.AfterFunc(delay, fn)}
}

type timerHandle struct{ t *time.Timer }

func (h timerHandle) Cancel() bool { return h.t.Stop() }

// Manual is a Scheduler whose clock only moves when Advance is called.
// Callbacks run synchronously inside Advance, in due order.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	m        *Manual
	due      time.Duration
	seq      int
	fn       func()
	canceled bool
	fired    bool
}

func (m *Manual) Schedule(delay time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTask{m: m, due: m.now + delay, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

func (t *manualTask) Cancel() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.fired || t.canceled {
		return false
	}
	t.canceled = true
	return true
}

// Advance moves the clock forward by d and runs every callback that falls due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var due, rest []*manualTask
	for _, t := range m.tasks {
		switch {
		case t.canceled:
		case t.due <= m.now:
			t.fired = true
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	m.tasks = rest
	m.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.fn()
	}
}

// Pending returns the number of callbacks that are neither fired nor canceled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.canceled {
			n++
		}
	}
	return n
}
