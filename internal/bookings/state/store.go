package state

import (
	"slices"
	"sync"
)

// Listener receives the state after each dispatch. Listeners run one at a
// time in dispatch order and must not dispatch themselves.
type Listener func(BookingsState)

// Store serializes dispatches over a BookingsState.
type Store struct {
	mu        sync.RWMutex
	state     BookingsState
	listeners map[uint64]Listener
	nextID    uint64
	warned    map[string]struct{}

	// notifyMu keeps listener calls ordered like the dispatches that caused them.
	notifyMu sync.Mutex
}

// NewStore returns a store holding Initial().
func NewStore() *Store {
	return &Store{
		state:     Initial(),
		listeners: make(map[uint64]Listener),
		warned:    make(map[string]struct{}),
	}
}

// Dispatch applies action and notifies listeners once, batch or not.
// Readers never observe a batch half applied.
func (s *Store) Dispatch(action Action) BookingsState {
	if action == nil {
		return s.State()
	}
	s.mu.Lock()
	next := Reduce(s.state, action)
	s.state = next
	if resets(action) {
		clear(s.warned)
	}
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.notifyMu.Lock()
	s.mu.Unlock()

	defer s.notifyMu.Unlock()
	for _, l := range listeners {
		l(next)
	}
	return next
}

// resets reports whether action is a Reset or a batch holding one.
func resets(action Action) bool {
	switch a := action.(type) {
	case Reset:
		return true
	case Batch:
		return slices.ContainsFunc(a, resets)
	}
	return false
}

// State returns the current state.
func (s *Store) State() BookingsState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers l and returns a function removing it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// WarnOnce reports whether key has not been warned about since the last
// reset, and marks it warned.
func (s *Store) WarnOnce(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.warned[key]; ok {
		return false
	}
	s.warned[key] = struct{}{}
	return true
}

// ResetWarnings forgets every WarnOnce key.
func (s *Store) ResetWarnings() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.warned)
}
