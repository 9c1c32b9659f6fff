// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/tutor-tui/internal/export"
	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/orchestrator"
	"github.com/jeranaias/tutor-tui/internal/session"
	"github.com/jeranaias/tutor-tui/internal/ui/components"
)

// probeTimeout bounds health and route calls made from the view.
const probeTimeout = 5 * time.Second

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		text := m.input.Value()
		if strings.HasPrefix(strings.TrimSpace(text), "/") {
			m.input.Reset()
			return m.runCommand(strings.TrimSpace(text))
		}
		return m.submit(text)

	case key.Matches(msg, m.keyMap.Sidebar):
		m.showSidebar = !m.showSidebar
		m.layout()
		return m, nil

	case key.Matches(msg, m.keyMap.Example):
		n := int(msg.String()[len(msg.String())-1] - '0')
		if prompt, ok := components.ExamplePrompt(n); ok {
			m.input.SetValue(prompt)
			m.input.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Clear):
		m.clearChat()
		return m, nil

	case key.Matches(msg, m.keyMap.Export):
		return m, m.exportCmd(m.cfg.Export.Format, m.cfg.Export.Dir)

	case key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.layout()
		return m, nil
	}

	// Everything else edits the input, including while a reply is pending.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit hands text to the orchestrator. Blank input and submits while a
// reply is pending are dropped and leave the input untouched.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	done, err := m.exchanger.Submit(text)
	switch {
	case orchestrator.IsDropped(err):
		if errors.Is(err, orchestrator.ErrBusy) {
			m.setStatus(statusInfo, "Still waiting for the last reply")
		}
		return m, nil
	case err != nil:
		m.setStatus(statusError, err.Error())
		return m, nil
	}

	m.input.Reset()
	m.clearStatus()
	m.refreshSnapshot()
	return m, tea.Batch(waitForReply(done), m.spinner.Tick)
}

func (m *Model) clearChat() {
	if err := m.exchanger.Clear(); err != nil {
		if errors.Is(err, session.ErrInvalidState) {
			m.setStatus(statusInfo, "Cannot clear while waiting for a reply")
			return
		}
		m.setStatus(statusError, err.Error())
		return
	}
	m.refreshSnapshot()
	m.setStatus(statusInfo, "Chat cleared")
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// waitForStoreEvent blocks on the watch channel for the next mutation.
func waitForStoreEvent(events <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return storeClosedMsg{}
		}
		return StoreEventMsg{Event: ev}
	}
}

// waitForReply delivers the assistant message for one exchange.
func waitForReply(done <-chan model.Message) tea.Cmd {
	return func() tea.Msg {
		reply, ok := <-done
		if !ok {
			return nil
		}
		return ReplyMsg{Reply: reply}
	}
}

func loadAgentsCmd(agents AgentSource) tea.Cmd {
	if agents == nil {
		return func() tea.Msg { return AgentsLoadedMsg{} }
	}
	return func() tea.Msg {
		return AgentsLoadedMsg{Agents: agents.Load(context.Background())}
	}
}

func healthCmd(backend Backend) tea.Cmd {
	if backend == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		status, err := backend.Health(ctx)
		return HealthMsg{Status: status, Err: err}
	}
}

func routeCmd(backend Backend, text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		preview, err := backend.Route(ctx, text)
		return RouteMsg{Text: text, Preview: preview, Err: err}
	}
}

// exportCmd snapshots the store now and writes the file off the UI goroutine.
func (m Model) exportCmd(format, dir string) tea.Cmd {
	f, err := export.ParseFormat(format)
	if err != nil {
		return func() tea.Msg { return ExportDoneMsg{Err: err} }
	}
	transcript := export.FromStore(m.exchanger.Store(), m.now())
	opts := &export.Options{OutputDir: dir, IncludeTimestamps: true}
	logger := m.logger

	return func() tea.Msg {
		path, err := export.ToFile(transcript, f, opts)
		if err != nil {
			logger.Warn("export failed", zap.Error(err))
		} else {
			logger.Info("transcript exported", zap.String("path", path))
		}
		return ExportDoneMsg{Path: path, Err: err}
	}
}
