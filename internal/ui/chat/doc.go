// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea model for the tutor TUI.

The model renders the session store and forwards user input to the
orchestrator. It never mutates the store itself.

# Data Flow

  - Store changes arrive through session.Store.Watch, wrapped in a tea.Cmd
    that re-arms after every event (StoreEventMsg).
  - Submit hands text to the orchestrator and waits on the returned channel
    in a tea.Cmd (ReplyMsg).
  - The agent directory is loaded once at startup (AgentsLoadedMsg).
  - The backend health probe runs at startup and every HealthInterval
    (HealthMsg).
  - Config file edits arrive from the caller as ConfigChangedMsg.

# Keys

	enter      send
	ctrl+b     toggle sidebar
	alt+1..9   fill input with an example prompt
	ctrl+l     clear chat (ignored while waiting for a reply)
	ctrl+e     export transcript
	pgup/pgdn  scroll
	ctrl+c     quit

# Slash Commands

/help, /clear, /export [md|json] [dir], /route <text>, /agents, /status
and /quit.
*/
package chat
