// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tutor-tui/internal/ui/components"
	"github.com/jeranaias/tutor-tui/internal/ui/styles"
)

const (
	headerHeight   = 2 // title line plus bottom border
	inputHeight    = 3 // rounded border around one line
	thinkingHeight = 1
)

// ThinkingText is shown next to the spinner while a reply is pending.
const ThinkingText = "AI is thinking..."

// =============================================================================
// LAYOUT
// =============================================================================

func (m Model) sidebarVisible() bool {
	return m.showSidebar && m.theme.SidebarFits()
}

func (m Model) chatWidth() int {
	w := m.width
	if m.sidebarVisible() {
		w -= styles.SidebarWidth + 1
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) footerHeight() int {
	return lipgloss.Height(m.renderFooter())
}

// layout resizes the viewport and input after a size or toggle change.
func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.theme.SetSize(m.width, m.height)
	m.header.Width = m.width
	m.help.Width = m.width

	body := m.height - headerHeight - inputHeight - thinkingHeight - m.footerHeight()
	if body < 3 {
		body = 3
	}
	m.viewport.Width = m.chatWidth()
	m.viewport.Height = body
	m.input.Width = m.chatWidth() - 8

	m.updateViewport()
}

// updateViewport re-renders the conversation and follows the tail.
func (m *Model) updateViewport() {
	if len(m.messages) == 0 {
		m.viewport.SetContent("")
		return
	}
	content := components.RenderMessages(m.messages, m.theme, m.lookupAgent, components.MessageListOptions{
		Width:         m.viewport.Width - 1,
		ShowTimestamp: m.cfg.UI.ShowTimestamps,
		Markdown:      m.cfg.UI.Markdown,
		LineNumbers:   m.cfg.UI.CodeLineNumbers,
	})
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the full screen.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var main string
	if len(m.messages) == 0 {
		w := m.welcome
		w.Width, w.Height = m.chatWidth(), m.viewport.Height
		main = w.View()
	} else {
		main = m.viewport.View()
	}

	body := main
	if m.sidebarVisible() {
		sb := m.sidebar
		sb.Agents = m.agentList
		sb.AgentsLoaded = m.agentsLoaded
		sb.MessageCount = len(m.messages)
		sb.Height = m.viewport.Height + thinkingHeight + inputHeight
		column := lipgloss.JoinVertical(lipgloss.Left, main, m.renderThinking(), m.renderInput())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sb.View(), " ", column)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, main, m.renderThinking(), m.renderInput())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		body,
		m.renderFooter(),
	)
}

func (m Model) renderThinking() string {
	if !m.pending {
		return ""
	}
	return m.spinner.View() + " " + m.theme.Thinking.Render(ThinkingText)
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.chatWidth() - 2).Render(m.input.View())
}

func (m Model) renderFooter() string {
	var parts []string
	if m.statusMsg != "" {
		style := m.theme.StatusInfo
		if m.statusKind == statusError {
			style = m.theme.StatusError
		}
		parts = append(parts, style.Render(m.statusMsg))
	}
	parts = append(parts, m.help.View(m.keyMap))
	return m.theme.StatusBar.Render(strings.Join(parts, "  "))
}
