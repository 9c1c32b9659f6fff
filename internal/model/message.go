// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// TimestampLayout is the ISO-8601 layout used for locally generated timestamps.
// It matches the backend's datetime.isoformat() output.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// ErrorAgent is the agent tag carried by locally generated failure replies.
const ErrorAgent = "error"

// Message is a single entry in a chat session.
//
// Messages are values: the session store hands out copies and nothing
// mutates an entry after it has been appended.
type Message struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Agent     string `json:"agent,omitempty"`
	Timestamp string `json:"timestamp"`
}

// NewMessage creates a message stamped with the given time.
func NewMessage(role Role, content, agent string, at time.Time) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Agent:     agent,
		Timestamp: FormatTimestamp(at),
	}
}

// NewUserMessage creates a user message stamped with the current time.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content, "", time.Now())
}

// IsError reports whether the message is a locally generated failure reply.
func (m Message) IsError() bool {
	return m.Role == RoleAssistant && m.Agent == ErrorAgent
}

// Time parses the message timestamp. Backend timestamps are passed through
// verbatim, so an unparseable value yields ok == false.
func (m Message) Time() (time.Time, bool) {
	return ParseTimestamp(m.Timestamp)
}

// Preview returns a rune-safe truncated preview of the content.
func (m Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// TIMESTAMPS
// =============================================================================

// FormatTimestamp renders t in the ISO-8601 layout used for messages.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	TimestampLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp accepts the ISO-8601 variants the backend is known to emit.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
