// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package cli implements the tutor command line.

	tutor                 full-screen chat (default)
	tutor chat            line-mode REPL with history
	tutor ask <text>      one exchange, printed and exited
	tutor agents          list the backend's agents
	tutor health          probe the backend
	tutor route <text>    show which agent would answer
	tutor config ...      show, get, set or locate the config file
	tutor version         print the version

Every command shares one App: the loaded config, the logger, the backend
client, the session store, the orchestrator, the agent directory and the
metrics registry.
*/
package cli
