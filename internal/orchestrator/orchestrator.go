// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package orchestrator mediates between user input, the session store and
// the backend transport.
//
// The Orchestrator is a two-state machine. Submit moves Idle to Awaiting,
// appends the user message and starts the exchange on a goroutine. The
// exchange appends exactly one assistant message (the reply, or a fixed
// apology tagged "error") and moves back to Idle. Submits while Awaiting
// are dropped, never queued.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/session"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyMessage is returned by Submit for blank input.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrBusy is returned by Submit while an exchange is in flight.
	ErrBusy = fmt.Errorf("exchange already in flight: %w", session.ErrInvalidState)
)

// IsDropped reports whether err is one of the Submit rejections that callers
// treat as a silent no-op.
func IsDropped(err error) bool {
	return errors.Is(err, ErrEmptyMessage) || errors.Is(err, ErrBusy)
}

// =============================================================================
// COLLABORATORS
// =============================================================================

// Transport sends one message to the backend. Implementations never fail
// outside the returned result.
type Transport interface {
	SendMessage(ctx context.Context, text string) model.ExchangeResult
}

// Recorder observes exchange lifecycles.
type Recorder interface {
	ExchangeStarted()
	ExchangeFinished(agent string, ok bool, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ExchangeStarted()                              {}
func (nopRecorder) ExchangeFinished(string, bool, time.Duration) {}

// =============================================================================
// STATE
// =============================================================================

// State is the orchestrator state.
type State int32

const (
	StateIdle State = iota
	StateAwaiting
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaiting:
		return "awaiting"
	default:
		return "unknown"
	}
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator owns every write to its session store.
type Orchestrator struct {
	transport Transport
	store     *session.Store
	recorder  Recorder
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.Mutex
	state atomic.Int32
	wg    sync.WaitGroup
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder attaches an exchange recorder.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the time source for locally stamped messages.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates an Idle orchestrator over store.
func New(transport Transport, store *session.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		transport: transport,
		store:     store,
		recorder:  nopRecorder{},
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.Named("orchestrator")
	return o
}

// Store returns the session store the orchestrator writes to.
func (o *Orchestrator) Store() *session.Store {
	return o.store
}

// State returns the current state. Safe to call from store observers.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Submit starts an exchange for text. The text is trimmed; blank text
// returns ErrEmptyMessage and a submit while Awaiting returns ErrBusy. In
// both cases nothing is appended.
//
// On acceptance the user message is appended before Submit returns, and the
// returned channel receives the assistant message once it has been appended,
// then closes.
func (o *Orchestrator) Submit(text string) (<-chan model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.State() == StateAwaiting {
		o.logger.Debug("submit dropped while awaiting reply")
		return nil, ErrBusy
	}
	if err := o.store.SetPending(true); err != nil {
		return nil, ErrBusy
	}
	o.state.Store(int32(StateAwaiting))

	o.store.Append(model.NewMessage(model.RoleUser, text, "", o.now()))
	o.recorder.ExchangeStarted()

	done := make(chan model.Message, 1)
	o.wg.Add(1)
	go o.exchange(text, done)
	return done, nil
}

// Exchange submits text and blocks until the reply is appended or ctx ends.
// The exchange itself is not cancelled by ctx.
func (o *Orchestrator) Exchange(ctx context.Context, text string) (model.Message, error) {
	done, err := o.Submit(text)
	if err != nil {
		return model.Message{}, err
	}
	select {
	case reply := <-done:
		return reply, nil
	case <-ctx.Done():
		return model.Message{}, ctx.Err()
	}
}

// Clear empties the session. It fails with session.ErrInvalidState while
// an exchange is in flight.
func (o *Orchestrator) Clear() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.store.Clear()
}

// Wait blocks until any in-flight exchange has landed.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// exchange runs the transport call and completes the Awaiting state.
func (o *Orchestrator) exchange(text string, done chan<- model.Message) {
	defer o.wg.Done()
	defer close(done)

	start := time.Now()
	res := o.send(text)
	elapsed := time.Since(start)

	o.mu.Lock()
	reply := model.AssistantFromResult(res, o.now())
	o.store.Append(reply)
	if err := o.store.SetPending(false); err != nil {
		o.logger.Error("clear pending flag", zap.Error(err))
	}
	o.state.Store(int32(StateIdle))
	o.mu.Unlock()

	o.recorder.ExchangeFinished(res.Agent, res.OK(), elapsed)
	if res.OK() {
		o.logger.Info("exchange complete",
			zap.String("agent", res.Agent),
			zap.Duration("elapsed", elapsed))
	} else {
		o.logger.Warn("exchange failed",
			zap.String("detail", res.Detail),
			zap.Duration("elapsed", elapsed))
	}

	done <- reply
}

// send calls the transport on a context detached from any caller, so the
// exchange always runs to completion or transport timeout.
func (o *Orchestrator) send(text string) (res model.ExchangeResult) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("transport panicked", zap.Any("panic", r))
			res = model.Failure(fmt.Sprintf("transport panic: %v", r))
		}
	}()
	return o.transport.SendMessage(context.Background(), text)
}
