// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures exchanged between the chat
// client and the agents backend.
//
// # Key Types
//
//   - Message: a single user or assistant message, immutable once built
//   - ExchangeResult: outcome of one chat exchange, success or failure
//   - Agent: display metadata for a backend agent (chat, quiz, explanation)
//   - Role: message role enumeration (user, assistant)
//
// # Usage
//
//	msg := model.NewUserMessage("What is Python?")
//	res := model.Success("Python is...", "chat", "2025-01-01T10:00:00")
//	reply := model.AssistantFromResult(res)
package model
