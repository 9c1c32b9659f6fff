// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// ApologyMessage is the content shown when an exchange fails.
const ApologyMessage = "Sorry, I encountered an error. Please make sure the backend server is running and try again."

// ResultKind distinguishes the two ExchangeResult variants.
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultError
)

// ExchangeResult is the outcome of a single chat exchange.
// Exactly one variant is populated: Content/Agent/Timestamp on success,
// Detail on failure.
type ExchangeResult struct {
	Kind ResultKind

	Content   string
	Agent     string
	Timestamp string

	Detail string
}

// Success builds the success variant.
func Success(content, agent, timestamp string) ExchangeResult {
	return ExchangeResult{
		Kind:      ResultSuccess,
		Content:   content,
		Agent:     agent,
		Timestamp: timestamp,
	}
}

// Failure builds the failure variant.
func Failure(detail string) ExchangeResult {
	return ExchangeResult{Kind: ResultError, Detail: detail}
}

// OK reports whether the exchange succeeded.
func (r ExchangeResult) OK() bool {
	return r.Kind == ResultSuccess
}

// AssistantFromResult converts an exchange outcome into the assistant message
// appended to the session. Success fields are copied verbatim; failures become
// the fixed apology tagged with ErrorAgent and stamped with now.
func AssistantFromResult(r ExchangeResult, now time.Time) Message {
	if r.OK() {
		msg := NewMessage(RoleAssistant, r.Content, r.Agent, now)
		msg.Timestamp = r.Timestamp
		return msg
	}
	return NewMessage(RoleAssistant, ApologyMessage, ErrorAgent, now)
}
