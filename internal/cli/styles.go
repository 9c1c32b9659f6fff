// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/ui/styles"
)

// Shared styles for line-mode output. Colors come from the TUI palette so
// agents look the same in both modes.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.Cyan)

	PromptStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(styles.Rose).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	CommandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)
)

// agentStyle colors an agent label with its advertised color.
func agentStyle(c model.AgentColor) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(styles.AgentColor(c).Fg)
}
