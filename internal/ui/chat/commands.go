// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// SLASH COMMAND REGISTRY
// =============================================================================

// CommandHandler handles one slash command. args excludes the command name.
type CommandHandler func(m *Model, args []string) (tea.Model, tea.Cmd)

var commandHandlers = map[string]CommandHandler{
	"help":   handleHelpCommand,
	"h":      handleHelpCommand,
	"?":      handleHelpCommand,
	"clear":  handleClearCommand,
	"c":      handleClearCommand,
	"export": handleExportCommand,
	"e":      handleExportCommand,
	"route":  handleRouteCommand,
	"agents": handleAgentsCommand,
	"status": handleStatusCommand,
	"quit":   handleQuitCommand,
	"q":      handleQuitCommand,
	"exit":   handleQuitCommand,
}

// runCommand dispatches "/name args...".
func (m Model) runCommand(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(strings.TrimPrefix(line, "/"))
	if len(fields) == 0 {
		return m, nil
	}
	name := strings.ToLower(fields[0])
	handler, ok := commandHandlers[name]
	if !ok {
		m.setStatus(statusError, fmt.Sprintf("Unknown command /%s (try /help)", name))
		return m, nil
	}
	return handler(&m, fields[1:])
}

func handleHelpCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	m.showHelp = true
	m.help.ShowAll = true
	m.layout()
	m.setStatus(statusInfo, "Commands: /clear /export [md|json] [dir] /route <text> /agents /status /quit")
	return *m, nil
}

func handleClearCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	m.clearChat()
	return *m, nil
}

func handleExportCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	format, dir := m.cfg.Export.Format, m.cfg.Export.Dir
	if len(args) > 0 {
		format = args[0]
	}
	if len(args) > 1 {
		dir = args[1]
	}
	m.setStatus(statusInfo, "Exporting...")
	return *m, m.exportCmd(format, dir)
}

func handleRouteCommand(m *Model, args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		m.setStatus(statusError, "Usage: /route <message>")
		return *m, nil
	}
	if m.backend == nil {
		m.setStatus(statusError, "Route preview is not available")
		return *m, nil
	}
	return *m, routeCmd(m.backend, strings.Join(args, " "))
}

func handleAgentsCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	if !m.agentsLoaded {
		m.setStatus(statusInfo, "Agents are still loading")
		return *m, nil
	}
	if len(m.agentList) == 0 {
		m.setStatus(statusInfo, "No agents available")
		return *m, nil
	}
	names := make([]string, 0, len(m.agentList))
	for _, a := range m.agentList {
		names = append(names, a.Label())
	}
	m.setStatus(statusInfo, "Agents: "+strings.Join(names, ", "))
	return *m, nil
}

func handleStatusCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	status := fmt.Sprintf("%d messages", len(m.messages))
	if m.stats != nil {
		s := m.stats.Snapshot()
		status += fmt.Sprintf(", %d exchanges, %d failed", s.Exchanges, s.Failures)
		if s.Exchanges > 0 {
			status += fmt.Sprintf(", avg %s", s.AverageLatency.Round(time.Millisecond))
		}
	}
	m.setStatus(statusInfo, status)
	return *m, nil
}

func handleQuitCommand(m *Model, _ []string) (tea.Model, tea.Cmd) {
	return *m, tea.Quit
}
