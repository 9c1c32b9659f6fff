// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/ui/styles"
	"github.com/jeranaias/tutor-tui/internal/util"
)

// =============================================================================
// EXAMPLE PROMPTS
// =============================================================================

// PromptGroup is a category of example prompts.
type PromptGroup struct {
	Category string
	Prompts  []string
}

// ExamplePrompts are the starter prompts offered in the sidebar, one group per
// agent.
var ExamplePrompts = []PromptGroup{
	{Category: "Chat", Prompts: []string{"What is Python?", "How are you today?", "Tell me about AI"}},
	{Category: "Quiz", Prompts: []string{"Create a quiz on Python", "Generate practice problems", "Test me on machine learning"}},
	{Category: "Explanation", Prompts: []string{"Explain machine learning", "What is photosynthesis?", "How does the internet work?"}},
}

// ExamplePrompt returns the n-th prompt (1-based) across all groups.
func ExamplePrompt(n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	i := n - 1
	for _, g := range ExamplePrompts {
		if i < len(g.Prompts) {
			return g.Prompts[i], true
		}
		i -= len(g.Prompts)
	}
	return "", false
}

// =============================================================================
// SIDEBAR
// =============================================================================

// Sidebar lists agents, example prompts and the clear-chat hint.
type Sidebar struct {
	Agents       []model.Agent
	AgentsLoaded bool
	MessageCount int
	Height       int
	theme        *styles.Theme
}

// NewSidebar creates a sidebar.
func NewSidebar(theme *styles.Theme) Sidebar {
	return Sidebar{theme: theme}
}

// ClearLabel is the clear-chat hint, e.g. "Clear Chat (4)".
func ClearLabel(count int) string {
	return fmt.Sprintf("Clear Chat (%d)", count)
}

// View renders the sidebar at styles.SidebarWidth.
func (s Sidebar) View() string {
	t := s.theme
	inner := styles.SidebarWidth - 3
	var b strings.Builder

	b.WriteString(t.SidebarTitle.Render("Available Agents"))
	b.WriteString("\n")
	switch {
	case !s.AgentsLoaded:
		b.WriteString(t.SidebarMuted.Render("Loading..."))
		b.WriteString("\n")
	case len(s.Agents) == 0:
		b.WriteString(t.SidebarMuted.Render("No agents available"))
		b.WriteString("\n")
	}
	for _, a := range s.Agents {
		name := t.AgentBadge(a.Color).Render(badgeText(a))
		b.WriteString(name)
		b.WriteString("\n")
		if a.Description != "" {
			b.WriteString(t.SidebarMuted.Render(util.WrapText(a.Description, inner)))
			b.WriteString("\n")
		}
	}

	b.WriteString(t.SidebarTitle.Render("Try these examples"))
	b.WriteString("\n")
	n := 0
	for _, g := range ExamplePrompts {
		b.WriteString(t.SidebarItem.Bold(true).Render(g.Category))
		b.WriteString("\n")
		for _, p := range g.Prompts {
			n++
			key := t.SidebarKey.Render(fmt.Sprintf("alt+%d", n))
			b.WriteString(key + " " + t.SidebarItem.Render(util.TruncateWidth(p, inner-6)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	clearText := ClearLabel(s.MessageCount)
	if s.MessageCount == 0 {
		b.WriteString(t.SidebarDisabled.Render(clearText))
	} else {
		b.WriteString(t.SidebarKey.Render("ctrl+l") + " " + t.SidebarItem.Render(clearText))
	}

	style := t.Sidebar
	if s.Height > 0 {
		style = style.Height(s.Height)
	}
	return style.Render(b.String())
}
