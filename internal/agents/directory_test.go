// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agents

import (
	"context"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tutor-tui/internal/agentapi"
	"github.com/jeranaias/tutor-tui/internal/agentapi/fakebackend"
	"github.com/jeranaias/tutor-tui/internal/model"
)

type fetcherFunc func(ctx context.Context) []model.Agent

func (f fetcherFunc) FetchAgents(ctx context.Context) []model.Agent { return f(ctx) }

type sizeRecorder struct{ n atomic.Int64 }

func (r *sizeRecorder) AgentsLoaded(n int) { r.n.Store(int64(n)) }

func TestDirectory_LoadsOnce(t *testing.T) {
	var calls atomic.Int32
	d := NewDirectory(fetcherFunc(func(ctx context.Context) []model.Agent {
		calls.Add(1)
		return fakebackend.DefaultAgents()
	}), nil, nil)

	assert.False(t, d.Loaded())
	assert.Empty(t, d.Agents())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Load(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, d.Loaded())
	assert.Len(t, d.Agents(), 3)

	quiz, ok := d.Lookup("quiz")
	require.True(t, ok)
	assert.Equal(t, model.ColorGreen, quiz.Color)
	_, ok = d.Lookup("missing")
	assert.False(t, ok)
}

func TestDirectory_FailureYieldsEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	fake := fakebackend.New()
	fake.FailAgents()
	srv := httptest.NewServer(fake.Handler())
	defer srv.Close()

	rec := &sizeRecorder{}
	d := NewDirectory(agentapi.NewClient(srv.URL, nil), nil, rec)

	got := d.Load(context.Background())
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.True(t, d.Loaded())
	assert.Equal(t, int64(0), rec.n.Load())

	// no retry after recovery
	fake.Recover()
	assert.Empty(t, d.Load(context.Background()))
}

func TestDirectory_FetcherPanicIsSwallowed(t *testing.T) {
	d := NewDirectory(fetcherFunc(func(ctx context.Context) []model.Agent {
		panic("boom")
	}), nil, nil)

	assert.NotPanics(t, func() {
		assert.Empty(t, d.Load(context.Background()))
	})
}

func TestDirectory_NilListAndDuplicates(t *testing.T) {
	d := NewDirectory(fetcherFunc(func(ctx context.Context) []model.Agent { return nil }), nil, nil)
	assert.NotNil(t, d.Load(context.Background()))

	rec := &sizeRecorder{}
	d = NewDirectory(fetcherFunc(func(ctx context.Context) []model.Agent {
		return []model.Agent{
			{Name: "chat", Description: "first"},
			{Name: "chat", Description: "second"},
		}
	}), nil, rec)
	d.Load(context.Background())
	a, _ := d.Lookup("chat")
	assert.Equal(t, "first", a.Description)
	assert.Equal(t, int64(2), rec.n.Load())
}
