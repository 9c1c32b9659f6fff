// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/tutor-tui/internal/model"
)

// ErrInvalidState is returned when an operation is not allowed while an
// exchange is in flight.
var ErrInvalidState = errors.New("invalid session state")

// =============================================================================
// EVENTS
// =============================================================================

// EventKind identifies the mutation that produced an Event.
type EventKind int

const (
	EventAppended EventKind = iota
	EventPending
	EventCleared
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventAppended:
		return "appended"
	case EventPending:
		return "pending"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event describes the store state right after a mutation.
type Event struct {
	Kind    EventKind
	Len     int
	Pending bool
}

// Observer receives store events. Observers run synchronously on the
// mutating goroutine and must not mutate the store. They may subscribe and
// unsubscribe.
type Observer func(Event)

// =============================================================================
// STORE
// =============================================================================

// Store is the ordered, append-only message log of a session.
type Store struct {
	mu       sync.RWMutex
	id       string
	started  time.Time
	messages []model.Message
	pending  bool

	// deliverMu keeps event delivery in mutation order. obsMu guards the
	// observer set and is never held while an observer runs.
	deliverMu sync.Mutex
	obsMu     sync.Mutex
	observers map[int]Observer
	nextObs   int
}

// NewStore creates an empty session.
func NewStore() *Store {
	return &Store{
		id:        uuid.NewString(),
		started:   time.Now(),
		observers: make(map[int]Observer),
	}
}

// ID returns the session identifier.
func (s *Store) ID() string {
	return s.id
}

// StartTime returns when the session was created.
func (s *Store) StartTime() time.Time {
	return s.started
}

// Append adds msg at the end of the log.
func (s *Store) Append(msg model.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	ev := Event{Kind: EventAppended, Len: len(s.messages), Pending: s.pending}
	s.publish(ev)
}

// SetPending sets the in-flight flag. Setting it while already set returns
// ErrInvalidState and leaves the store unchanged.
func (s *Store) SetPending(pending bool) error {
	s.mu.Lock()
	if pending && s.pending {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.pending = pending
	ev := Event{Kind: EventPending, Len: len(s.messages), Pending: pending}
	s.publish(ev)
	return nil
}

// Clear empties the log. It fails with ErrInvalidState while pending.
func (s *Store) Clear() error {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return ErrInvalidState
	}
	s.messages = nil
	ev := Event{Kind: EventCleared}
	s.publish(ev)
	return nil
}

// Messages returns a copy of the log in insertion order.
func (s *Store) Messages() []model.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Last returns the most recent message.
func (s *Store) Last() (model.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return model.Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

// Len returns the number of messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Pending reports whether an exchange is in flight.
func (s *Store) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

// Subscribe registers fn for every future event. The returned function
// removes the subscription, is safe to call more than once, and may be
// called from inside an observer.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.obsMu.Lock()
			delete(s.observers, id)
			s.obsMu.Unlock()
		})
	}
}

// Watch returns a channel that signals after mutations. Signals coalesce:
// a slow reader sees the latest event, not every one. The channel is closed
// by the returned stop function.
func (s *Store) Watch() (<-chan Event, func()) {
	ch := make(chan Event, 1)
	var mu sync.Mutex
	closed := false

	unsubscribe := s.Subscribe(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- ev:
		default:
			// Replace the stale event with the newer one.
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	})

	return ch, func() {
		unsubscribe()
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			closed = true
			close(ch)
		}
	}
}

// publish is called with s.mu held for writing. It releases s.mu and
// delivers ev to every observer outside the state lock.
// An observer removed during delivery is not called again, including for
// the remainder of the current event.
func (s *Store) publish(ev Event) {
	s.deliverMu.Lock()
	s.mu.Unlock()
	defer s.deliverMu.Unlock()

	for _, id := range s.observerIDs() {
		s.obsMu.Lock()
		fn, ok := s.observers[id]
		s.obsMu.Unlock()
		if ok {
			fn(ev)
		}
	}
}

func (s *Store) observerIDs() []int {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
