// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/ui/styles"
	"github.com/jeranaias/tutor-tui/internal/util"
)

// AgentLookup resolves an agent name to its directory entry.
type AgentLookup func(name string) (model.Agent, bool)

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

// MessageBubble renders one conversation message.
type MessageBubble struct {
	Message       model.Message
	Width         int
	ShowTimestamp bool
	Markdown      bool
	LineNumbers   bool

	lookup AgentLookup
	theme  *styles.Theme
}

// NewMessageBubble creates a bubble for msg. lookup may be nil, in which case
// every agent renders with the default color and no icon.
func NewMessageBubble(msg model.Message, theme *styles.Theme, lookup AgentLookup) MessageBubble {
	return MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		Markdown:      true,
		lookup:        lookup,
		theme:         theme,
	}
}

// View renders the bubble.
func (b MessageBubble) View() string {
	switch {
	case b.Message.Role == model.RoleUser:
		return b.renderUser()
	case b.Message.IsError():
		return b.renderError()
	default:
		return b.renderAssistant()
	}
}

func (b MessageBubble) contentWidth() int {
	w := b.Width - 6
	if w < 20 {
		w = 20
	}
	return w
}

func (b MessageBubble) renderUser() string {
	content := util.WrapText(b.Message.Content, b.contentWidth()-2)
	header := b.theme.RoleLabel.Foreground(styles.Cyan).Render(model.RoleUser.DisplayName())
	if ts := b.timestamp(); ts != "" {
		header += " " + ts
	}
	bubble := b.theme.UserBubble.Render(content)

	block := lipgloss.JoinVertical(lipgloss.Right, header, bubble)
	return lipgloss.PlaceHorizontal(b.Width, lipgloss.Right, block)
}

func (b MessageBubble) renderAssistant() string {
	agent := b.agent()
	badge := b.theme.AgentBadge(agent.Color).Render(badgeText(agent))
	header := badge
	if ts := b.timestamp(); ts != "" {
		header += " " + ts
	}

	var content string
	if b.Markdown {
		content = RenderMarkdown(b.Message.Content, MarkdownOptions{
			Width:       b.contentWidth() - 4,
			Dark:        b.theme.IsDark,
			LineNumbers: b.LineNumbers,
		})
	} else {
		content = util.WrapText(b.Message.Content, b.contentWidth()-4)
	}

	bubble := b.theme.AssistantBubble.
		BorderForeground(styles.AgentColor(agent.Color).Fg).
		MaxWidth(b.contentWidth()).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

func (b MessageBubble) renderError() string {
	header := b.theme.ErrorBadge().Render(styles.StatusIndicators.Error + " " + model.AgentLabel(model.ErrorAgent))
	if ts := b.timestamp(); ts != "" {
		header += " " + ts
	}
	bubble := b.theme.ErrorBubble.
		MaxWidth(b.contentWidth()).
		Render(util.WrapText(b.Message.Content, b.contentWidth()-4))
	return lipgloss.JoinVertical(lipgloss.Left, header, bubble)
}

// agent returns the directory entry for the message's agent, or a stand-in
// carrying only the name.
func (b MessageBubble) agent() model.Agent {
	if b.lookup != nil {
		if a, ok := b.lookup(b.Message.Agent); ok {
			return a
		}
	}
	return model.Agent{Name: b.Message.Agent}
}

func badgeText(a model.Agent) string {
	if a.Icon != "" {
		return a.Icon + " " + a.Label()
	}
	return a.Label()
}

func (b MessageBubble) timestamp() string {
	if !b.ShowTimestamp {
		return ""
	}
	return b.theme.Timestamp.Render(FormatClock(b.Message.Timestamp))
}

// FormatClock shows a message timestamp as HH:MM:SS. Timestamps that cannot
// be parsed are shown as received.
func FormatClock(ts string) string {
	if t, ok := model.ParseTimestamp(ts); ok {
		return t.Format("15:04:05")
	}
	return ts
}

// =============================================================================
// MESSAGE LIST
// =============================================================================

// MessageListOptions are the per-render toggles from the ui config section.
type MessageListOptions struct {
	Width         int
	ShowTimestamp bool
	Markdown      bool
	LineNumbers   bool
}

// RenderMessages renders a conversation snapshot, oldest first, separated by
// blank lines.
func RenderMessages(msgs []model.Message, theme *styles.Theme, lookup AgentLookup, opts MessageListOptions) string {
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		b := NewMessageBubble(msg, theme, lookup)
		b.Width = opts.Width
		b.ShowTimestamp = opts.ShowTimestamp
		b.Markdown = opts.Markdown
		b.LineNumbers = opts.LineNumbers
		parts = append(parts, b.View())
	}
	return strings.Join(parts, "\n\n")
}
