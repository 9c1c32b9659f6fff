// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agentapi

import "github.com/jeranaias/tutor-tui/internal/model"

// HistoryEntry is the wire shape of a prior message in conversation_history.
type HistoryEntry struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Agent     string `json:"agent,omitempty"`
	Timestamp string `json:"timestamp"`
}

// ChatRequest is the body of POST /api/chat and POST /api/route.
type ChatRequest struct {
	Message             string         `json:"message"`
	ConversationHistory []HistoryEntry `json:"conversation_history"`
}

// ChatResponse is the body returned by POST /api/chat.
type ChatResponse struct {
	Response  string `json:"response"`
	Agent     string `json:"agent"`
	Timestamp string `json:"timestamp"`
}

// AgentsResponse is the body returned by GET /api/agents.
type AgentsResponse struct {
	Agents []model.Agent `json:"agents"`
}

// HealthStatus is the body returned by GET /health.
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Healthy reports whether the backend declared itself healthy.
func (h *HealthStatus) Healthy() bool {
	return h != nil && h.Status == "healthy"
}

// RoutePreview is the body returned by POST /api/route.
type RoutePreview struct {
	Agent     string `json:"agent"`
	Timestamp string `json:"timestamp"`
}

// errorBody is the FastAPI-style error payload ({"detail": "..."}).
type errorBody struct {
	Detail string `json:"detail"`
}
