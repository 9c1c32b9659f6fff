// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the tutor TUI:
// message bubbles, markdown and code rendering, the sidebar, the header and
// the empty-state welcome screen.
//
// Components are plain values with a View method. They never touch the
// session store; the chat model hands them snapshots.
package components
