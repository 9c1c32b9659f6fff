// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/ui/styles"
)

// WelcomeTitle heads the empty conversation view.
const WelcomeTitle = "Welcome to AI Teaching Assistant"

// FeatureCard is one capability advertised on the welcome screen.
type FeatureCard struct {
	Icon        string
	Title       string
	Description string
	Color       model.AgentColor
}

// FeatureCards are shown while the conversation is empty.
var FeatureCards = []FeatureCard{
	{Icon: "💬", Title: "Chat", Description: "Ask questions and have natural conversations", Color: model.ColorBlue},
	{Icon: "📝", Title: "Quiz", Description: "Generate practice problems and quizzes", Color: model.ColorGreen},
	{Icon: "🧠", Title: "Explain", Description: "Get detailed explanations of complex concepts", Color: model.ColorPurple},
}

// Welcome is the empty-state view.
type Welcome struct {
	Width  int
	Height int
	theme  *styles.Theme
}

// NewWelcome creates the welcome view.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{theme: theme}
}

// View renders the title and feature cards centered in the available space.
// Cards stack vertically when they do not fit side by side.
func (w Welcome) View() string {
	t := w.theme
	title := t.WelcomeTitle.Render("🎓 " + WelcomeTitle)
	subtitle := t.WelcomeSubtitle.Render("Ask a question, request a quiz, or get an explanation.")

	cards := make([]string, 0, len(FeatureCards))
	for _, fc := range FeatureCards {
		head := t.FeatureTitle.Foreground(styles.AgentColor(fc.Color).Fg).Render(fc.Icon + " " + fc.Title)
		cards = append(cards, t.FeatureCard.Render(head+"\n"+fc.Description))
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if lipgloss.Width(row) > w.Width {
		row = lipgloss.JoinVertical(lipgloss.Center, cards...)
	}

	body := lipgloss.JoinVertical(lipgloss.Center, title, subtitle, "", row)
	if w.Width <= 0 || w.Height <= 0 {
		return body
	}
	return lipgloss.Place(w.Width, w.Height, lipgloss.Center, lipgloss.Center, body)
}
