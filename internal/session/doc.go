// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the in-memory record of one conversation.
//
// A Store keeps the ordered messages and the single in-flight flag, and
// notifies subscribers after every mutation. Nothing is persisted; the
// session is lost when the process exits.
//
// # Usage
//
//	store := session.NewStore()
//	unsubscribe := store.Subscribe(func(ev session.Event) {
//	    redraw(store.Messages())
//	})
//	defer unsubscribe()
package session
