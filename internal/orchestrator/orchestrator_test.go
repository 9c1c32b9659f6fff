// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// =============================================================================
// TEST DOUBLES
// =============================================================================

// gatedTransport blocks every send until release is closed, then returns result.
type gatedTransport struct {
	mu      sync.Mutex
	calls   []string
	release chan struct{}
	result  model.ExchangeResult
}

func newGated(result model.ExchangeResult) *gatedTransport {
	return &gatedTransport{release: make(chan struct{}), result: result}
}

func (g *gatedTransport) SendMessage(ctx context.Context, text string) model.ExchangeResult {
	g.mu.Lock()
	g.calls = append(g.calls, text)
	g.mu.Unlock()
	<-g.release
	return g.result
}

func (g *gatedTransport) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

type transportFunc func(ctx context.Context, text string) model.ExchangeResult

func (f transportFunc) SendMessage(ctx context.Context, text string) model.ExchangeResult {
	return f(ctx, text)
}

type countingRecorder struct {
	mu       sync.Mutex
	started  int
	finished int
	failures int
}

func (r *countingRecorder) ExchangeStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *countingRecorder) ExchangeFinished(agent string, ok bool, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished++
	if !ok {
		r.failures++
	}
}

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func newOrch(t Transport, opts ...Option) (*Orchestrator, *session.Store) {
	store := session.NewStore()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(t, store, opts...), store
}

func waitReply(t *testing.T, done <-chan model.Message) model.Message {
	t.Helper()
	select {
	case reply, ok := <-done:
		require.True(t, ok, "done channel closed without a reply")
		return reply
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reply")
		return model.Message{}
	}
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestSubmit_SuccessScenario(t *testing.T) {
	transport := transportFunc(func(ctx context.Context, text string) model.ExchangeResult {
		return model.Success("Python is...", "chat", "T1")
	})
	o, store := newOrch(transport)

	done, err := o.Submit("What is Python?")
	require.NoError(t, err)
	reply := waitReply(t, done)

	msgs := store.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, "What is Python?", msgs[0].Content)
	assert.Equal(t, model.FormatTimestamp(fixedNow), msgs[0].Timestamp)

	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "Python is...", msgs[1].Content)
	assert.Equal(t, "chat", msgs[1].Agent)
	assert.Equal(t, "T1", msgs[1].Timestamp)
	assert.Equal(t, msgs[1], reply)

	assert.Equal(t, StateIdle, o.State())
	assert.False(t, store.Pending())
}

func TestSubmit_FailureScenario(t *testing.T) {
	transport := transportFunc(func(ctx context.Context, text string) model.ExchangeResult {
		return model.Failure("backend is not reachable: connection refused")
	})
	rec := &countingRecorder{}
	o, store := newOrch(transport, WithRecorder(rec))

	done, err := o.Submit("hello")
	require.NoError(t, err)
	waitReply(t, done)

	msgs := store.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "error", msgs[1].Agent)
	assert.Equal(t, model.ApologyMessage, msgs[1].Content)
	assert.Equal(t, model.FormatTimestamp(fixedNow), msgs[1].Timestamp)
	assert.Equal(t, StateIdle, o.State())

	assert.Equal(t, 1, rec.started)
	assert.Equal(t, 1, rec.finished)
	assert.Equal(t, 1, rec.failures)
}

func TestSubmit_TrimsText(t *testing.T) {
	transport := transportFunc(func(ctx context.Context, text string) model.ExchangeResult {
		assert.Equal(t, "spaced out", text)
		return model.Success("ok", "chat", "T")
	})
	o, store := newOrch(transport)

	done, err := o.Submit("  \tspaced out \n")
	require.NoError(t, err)
	waitReply(t, done)

	assert.Equal(t, "spaced out", store.Messages()[0].Content)
}

// =============================================================================
// GUARDS
// =============================================================================

func TestSubmit_EmptyIsNoop(t *testing.T) {
	called := false
	transport := transportFunc(func(ctx context.Context, text string) model.ExchangeResult {
		called = true
		return model.Success("", "", "")
	})
	o, store := newOrch(transport)

	for _, text := range []string{"", "   ", "\n\t"} {
		done, err := o.Submit(text)
		assert.Nil(t, done)
		assert.True(t, errors.Is(err, ErrEmptyMessage))
		assert.True(t, IsDropped(err))
	}

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, StateIdle, o.State())
	assert.False(t, called)
}

func TestSubmit_WhileAwaitingIsNoop(t *testing.T) {
	gate := newGated(model.Success("first reply", "chat", "T1"))
	o, store := newOrch(gate)

	done, err := o.Submit("first")
	require.NoError(t, err)
	assert.Equal(t, StateAwaiting, o.State())
	assert.True(t, store.Pending())
	assert.Equal(t, 1, store.Len())

	second, err := o.Submit("second")
	assert.Nil(t, second)
	assert.True(t, errors.Is(err, ErrBusy))
	assert.True(t, errors.Is(err, session.ErrInvalidState))
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, StateAwaiting, o.State())

	close(gate.release)
	waitReply(t, done)

	assert.Equal(t, []string{"first"}, gate.Calls())
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, StateIdle, o.State())
}

func TestSubmit_UserAppendedBeforeReply(t *testing.T) {
	gate := newGated(model.Success("reply", "quiz", "T"))
	o, store := newOrch(gate)

	var events []session.Event
	var mu sync.Mutex
	store.Subscribe(func(ev session.Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	done, err := o.Submit("quiz me")
	require.NoError(t, err)
	assert.Equal(t, "quiz me", store.Messages()[0].Content)

	close(gate.release)
	waitReply(t, done)

	mu.Lock()
	defer mu.Unlock()
	kinds := make([]session.EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	assert.Equal(t, []session.EventKind{
		session.EventPending,
		session.EventAppended,
		session.EventAppended,
		session.EventPending,
	}, kinds)
	// pending stays true until the reply is in the log
	assert.True(t, events[2].Pending)
	assert.Equal(t, 2, events[2].Len)
}

// =============================================================================
// CLEAR
// =============================================================================

func TestClear(t *testing.T) {
	gate := newGated(model.Success("reply", "chat", "T"))
	o, store := newOrch(gate)

	done, err := o.Submit("hi")
	require.NoError(t, err)

	err = o.Clear()
	assert.True(t, errors.Is(err, session.ErrInvalidState))
	assert.Equal(t, 1, store.Len())

	close(gate.release)
	waitReply(t, done)

	require.NoError(t, o.Clear())
	assert.Equal(t, 0, store.Len())

	// usable again after clear
	done, err = o.Submit("again")
	require.NoError(t, err)
	waitReply(t, done)
	assert.Equal(t, 2, store.Len())
}

// =============================================================================
// EXCHANGE / WAIT
// =============================================================================

func TestExchange_Blocks(t *testing.T) {
	transport := transportFunc(func(ctx context.Context, text string) model.ExchangeResult {
		return model.Success("answer", "explanation", "T2")
	})
	o, _ := newOrch(transport)

	reply, err := o.Exchange(context.Background(), "Explain gravity")
	require.NoError(t, err)
	assert.Equal(t, "explanation", reply.Agent)
}

func TestExchange_ContextEndsWaitNotExchange(t *testing.T) {
	gate := newGated(model.Success("late", "chat", "T"))
	o, store := newOrch(gate)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := o.Exchange(ctx, "hi")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateAwaiting, o.State())

	close(gate.release)
	o.Wait()
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, "late", store.Messages()[1].Content)
}

func TestSubmit_TransportPanicBecomesFailure(t *testing.T) {
	transport := transportFunc(func(ctx context.Context, text string) model.ExchangeResult {
		panic("boom")
	})
	o, store := newOrch(transport)

	done, err := o.Submit("hi")
	require.NoError(t, err)
	reply := waitReply(t, done)

	assert.True(t, reply.IsError())
	assert.Equal(t, 2, store.Len())
	assert.Equal(t, StateIdle, o.State())
}

func TestSubmit_ConcurrentCallersOnlyOneAccepted(t *testing.T) {
	gate := newGated(model.Success("r", "chat", "T"))
	o, store := newOrch(gate)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := o.Submit("hi"); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, store.Len())

	close(gate.release)
	o.Wait()
	assert.Equal(t, 2, store.Len())
}
