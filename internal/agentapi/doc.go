// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agentapi provides the HTTP client for the teaching-assistant
// agents backend.
//
// # Endpoints
//
//   - POST /api/chat   send one message, receive the routed agent's reply
//   - GET  /api/agents list the agents the backend can route to
//   - GET  /health     liveness probe
//   - POST /api/route  preview which agent would handle a message
//
// SendMessage never returns an error: every failure is folded into a
// model.ExchangeResult failure variant. FetchAgents degrades to an empty
// list. Health and Route return *ClientError for callers that care.
//
// # Usage
//
//	client := agentapi.NewClient("http://localhost:8000", logger)
//	res := client.SendMessage(ctx, "What is Python?")
//	if !res.OK() {
//	    fmt.Println(res.Detail)
//	}
package agentapi
