// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fakebackend

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tutor-tui/internal/agentapi"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSONRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestChat_RoutesAndRecords(t *testing.T) {
	srv := New(WithClock(fixedClock))
	h := srv.Handler()

	rec := doJSONRequest(t, h, http.MethodPost, "/api/chat", agentapi.ChatRequest{
		Message:             "Create a quiz on Python",
		ConversationHistory: []agentapi.HistoryEntry{},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp agentapi.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "quiz", resp.Agent)
	assert.Equal(t, "2025-03-01T12:00:00.000000", resp.Timestamp)
	assert.Contains(t, resp.Response, "Quiz")

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/api/chat", reqs[0].Path)
	assert.Equal(t, int64(1), reqs[0].CallIndex)
	assert.Equal(t, int64(1), srv.ChatCalls())
}

func TestChat_EmptyMessageRejected(t *testing.T) {
	h := New().Handler()
	rec := doJSONRequest(t, h, http.MethodPost, "/api/chat", agentapi.ChatRequest{Message: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Message cannot be empty")
}

func TestFailureInjection(t *testing.T) {
	srv := New()
	h := srv.Handler()

	srv.FailWith(http.StatusInternalServerError, "Error processing request: boom")
	rec := doJSONRequest(t, h, http.MethodPost, "/api/chat", agentapi.ChatRequest{Message: "hello"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	srv.FailAgents()
	rec = doJSONRequest(t, h, http.MethodGet, "/api/agents", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	srv.Recover()
	rec = doJSONRequest(t, h, http.MethodPost, "/api/chat", agentapi.ChatRequest{Message: "hello"})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSONRequest(t, h, http.MethodGet, "/api/agents", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAgentsAndHealth(t *testing.T) {
	h := New().Handler()

	rec := doJSONRequest(t, h, http.MethodGet, "/api/agents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var agents agentapi.AgentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agents))
	require.Len(t, agents.Agents, 3)
	assert.Equal(t, "chat", agents.Agents[0].Name)

	rec = doJSONRequest(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health agentapi.HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.True(t, health.Healthy())
}

func TestRouteMessage(t *testing.T) {
	tests := map[string]string{
		"What is Python?":             "chat",
		"How are you today?":          "chat",
		"Generate practice problems":  "quiz",
		"Test me on machine learning": "quiz",
		"Explain machine learning":    "explanation",
		"How does the internet work?": "explanation",
		"What is photosynthesis?":     "explanation",
	}
	for msg, want := range tests {
		assert.Equal(t, want, RouteMessage(msg), msg)
	}
}
