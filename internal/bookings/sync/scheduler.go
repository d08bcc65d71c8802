package sync

import (
	"sync"
	"time"
)

// Timer is a pending scheduled call.
type Timer interface {
	// Stop cancels the call. It reports false when the call already ran or
	// is running.
	Stop() bool
}

// Scheduler delays work. The controller takes one so tests can fire timers
// by hand.
type Scheduler interface {
	// AfterFunc runs fn once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
	// ScheduleIdle runs fn when the process is idle, and no later than
	// timeout.
	ScheduleIdle(fn func(), timeout time.Duration) Timer
}

// DefaultIdleDelay stands in for idle detection, which servers lack.
const DefaultIdleDelay = 50 * time.Millisecond

// ClockScheduler schedules on wall-clock timers. Idle work runs after a
// fixed short delay capped by the caller's timeout.
type ClockScheduler struct {
	IdleDelay time.Duration
}

func NewClockScheduler(idleDelay time.Duration) *ClockScheduler {
	if idleDelay <= 0 {
		idleDelay = DefaultIdleDelay
	}
	return &ClockScheduler{IdleDelay: idleDelay}
}

func (s *ClockScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

func (s *ClockScheduler) ScheduleIdle(fn func(), timeout time.Duration) Timer {
	d := s.IdleDelay
	if timeout > 0 && timeout < d {
		d = timeout
	}
	return time.AfterFunc(d, fn)
}

// ManualScheduler queues calls until Fire or RunIdle is invoked. It lets
// tests step the controller deterministically.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	owner *ManualScheduler
	delay time.Duration
	idle  bool
	fn    func()
	done  bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return s.add(&manualTimer{owner: s, delay: d, fn: fn})
}

func (s *ManualScheduler) ScheduleIdle(fn func(), timeout time.Duration) Timer {
	return s.add(&manualTimer{owner: s, delay: timeout, idle: true, fn: fn})
}

func (s *ManualScheduler) add(t *manualTimer) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// Pending counts queued calls of the given kind.
func (s *ManualScheduler) Pending(idle bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.pending {
		if !t.done && t.idle == idle {
			n++
		}
	}
	return n
}

// Fire runs every queued timer call and reports how many ran.
func (s *ManualScheduler) Fire() int {
	return s.run(false)
}

// RunIdle runs every queued idle call and reports how many ran.
func (s *ManualScheduler) RunIdle() int {
	return s.run(true)
}

func (s *ManualScheduler) run(idle bool) int {
	s.mu.Lock()
	var due []*manualTimer
	rest := s.pending[:0]
	for _, t := range s.pending {
		switch {
		case t.done:
		case t.idle == idle:
			t.done = true
			due = append(due, t)
		default:
			rest = append(rest, t)
		}
	}
	s.pending = rest
	s.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
	return len(due)
}

var (
	_ Scheduler = (*ClockScheduler)(nil)
	_ Scheduler = (*ManualScheduler)(nil)
)
