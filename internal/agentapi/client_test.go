// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agentapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jeranaias/tutor-tui/internal/agentapi"
	"github.com/jeranaias/tutor-tui/internal/agentapi/fakebackend"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newFake(t *testing.T, opts ...fakebackend.Option) (*fakebackend.Server, *httptest.Server) {
	t.Helper()
	fake := fakebackend.New(opts...)
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return fake, srv
}

// closedURL returns a base URL nothing is listening on.
func closedURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

// =============================================================================
// SEND MESSAGE
// =============================================================================

func TestSendMessage_Success(t *testing.T) {
	fake, srv := newFake(t, fakebackend.WithResponder(func(agent, msg string) string {
		return "Python is..."
	}))
	client := agentapi.NewClient(srv.URL, nil)

	res := client.SendMessage(context.Background(), "What is Python?")

	require.True(t, res.OK(), "detail: %s", res.Detail)
	assert.Equal(t, "Python is...", res.Content)
	assert.Equal(t, "chat", res.Agent)
	assert.NotEmpty(t, res.Timestamp)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "What is Python?", reqs[0].Request.Message)
	assert.NotNil(t, reqs[0].Request.ConversationHistory)
	assert.Empty(t, reqs[0].Request.ConversationHistory)
}

func TestSendMessage_WireFormat(t *testing.T) {
	var body map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Write([]byte(`{"response":"ok","agent":"chat","timestamp":"T1"}`))
	}))
	defer srv.Close()

	res := agentapi.NewClient(srv.URL+"/", nil).SendMessage(context.Background(), "hi")

	require.True(t, res.OK())
	assert.Equal(t, "T1", res.Timestamp)
	assert.JSONEq(t, `"hi"`, string(body["message"]))
	assert.JSONEq(t, `[]`, string(body["conversation_history"]))
}

func TestSendMessage_Failures(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		res := agentapi.NewClient(closedURL(t), nil).SendMessage(context.Background(), "hello")
		assert.False(t, res.OK())
		assert.Contains(t, res.Detail, "not reachable")
	})

	t.Run("server error", func(t *testing.T) {
		fake, srv := newFake(t)
		fake.FailWith(http.StatusInternalServerError, "Error processing request: boom")

		res := agentapi.NewClient(srv.URL, nil).SendMessage(context.Background(), "hello")
		assert.False(t, res.OK())
		assert.Contains(t, res.Detail, "500")
		assert.Contains(t, res.Detail, "boom")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		res := agentapi.NewClient(srv.URL, nil).SendMessage(context.Background(), "hello")
		assert.False(t, res.OK())
		assert.Contains(t, res.Detail, "invalid response")
	})

	t.Run("timeout", func(t *testing.T) {
		_, srv := newFake(t, fakebackend.WithDelay(time.Second))
		client := agentapi.NewClientWithConfig(&agentapi.ClientConfig{
			BaseURL: srv.URL,
			Timeout: 50 * time.Millisecond,
		})

		res := client.SendMessage(context.Background(), "hello")
		assert.False(t, res.OK())
		assert.Contains(t, res.Detail, "timed out")
	})
}

// =============================================================================
// AGENTS
// =============================================================================

func TestFetchAgents(t *testing.T) {
	_, srv := newFake(t)
	agents := agentapi.NewClient(srv.URL, nil).FetchAgents(context.Background())

	require.Len(t, agents, 3)
	assert.Equal(t, "quiz", agents[1].Name)
	assert.Equal(t, "green", string(agents[1].Color))
}

func TestFetchAgents_FailureIsLoggedAndEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	client := agentapi.NewClient(closedURL(t), zap.New(core))

	agents := client.FetchAgents(context.Background())

	assert.NotNil(t, agents)
	assert.Empty(t, agents)
	assert.Equal(t, 1, logs.FilterMessage("failed to load agents").Len())
}

// =============================================================================
// HEALTH AND ROUTE
// =============================================================================

func TestHealth(t *testing.T) {
	_, srv := newFake(t)
	status, err := agentapi.NewClient(srv.URL, nil).Health(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy())
	assert.Equal(t, "All systems operational", status.Message)
}

func TestHealth_Unreachable(t *testing.T) {
	_, err := agentapi.NewClient(closedURL(t), nil).Health(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, agentapi.ErrConnection))
	assert.False(t, errors.Is(err, agentapi.ErrTimeout))

	var ce *agentapi.ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, agentapi.ErrTypeConnection, ce.Type)
}

func TestRoute(t *testing.T) {
	_, srv := newFake(t)
	preview, err := agentapi.NewClient(srv.URL, nil).Route(context.Background(), "Explain recursion")
	require.NoError(t, err)
	assert.Equal(t, "explanation", preview.Agent)
}

func TestRoute_StatusError(t *testing.T) {
	fake, srv := newFake(t)
	fake.FailWith(http.StatusInternalServerError, "Error routing request")

	_, err := agentapi.NewClient(srv.URL, nil).Route(context.Background(), "hello")
	assert.True(t, errors.Is(err, agentapi.ErrStatus))
}
