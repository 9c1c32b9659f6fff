// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/tutor-tui/internal/agentapi"
	"github.com/jeranaias/tutor-tui/internal/config"
	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/session"
)

// StoreEventMsg reports a session store mutation.
type StoreEventMsg struct {
	Event session.Event
}

// storeClosedMsg is delivered when the watch channel has been closed.
type storeClosedMsg struct{}

// ReplyMsg carries the assistant message that completed an exchange.
type ReplyMsg struct {
	Reply model.Message
}

// AgentsLoadedMsg carries the agent directory after the one-time load.
type AgentsLoadedMsg struct {
	Agents []model.Agent
}

// HealthMsg is the result of a backend health probe.
type HealthMsg struct {
	Status *agentapi.HealthStatus
	Err    error
}

// healthTickMsg schedules the next probe.
type healthTickMsg struct{}

// RouteMsg is the result of a routing preview.
type RouteMsg struct {
	Text    string
	Preview *agentapi.RoutePreview
	Err     error
}

// ExportDoneMsg reports a finished transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// ConfigChangedMsg delivers a reloaded config file.
type ConfigChangedMsg struct {
	Config *config.Config
}

// ConfigErrorMsg reports a config file that failed to reload.
type ConfigErrorMsg struct {
	Err error
}

// statusKind selects the status line style.
type statusKind int

const (
	statusInfo statusKind = iota
	statusError
)
