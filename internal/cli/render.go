// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/tutor-tui/internal/ui/components"
	"github.com/jeranaias/tutor-tui/internal/model"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// newMarkdownRenderer returns a glamour renderer for width, or nil when one
// cannot be built.
func newMarkdownRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// Printer writes assistant replies in line mode.
type Printer struct {
	out      io.Writer
	markdown *glamour.TermRenderer
	lookup   func(name string) (model.Agent, bool)
}

// NewPrinter creates a printer. Markdown is rendered only when markdown is
// true; piped output gets the raw text.
func NewPrinter(out io.Writer, markdown bool, width int, lookup func(string) (model.Agent, bool)) *Printer {
	p := &Printer{out: out, lookup: lookup}
	if markdown {
		p.markdown = newMarkdownRenderer(width)
	}
	return p
}

// PrintReply writes the agent header line and the reply body.
func (p *Printer) PrintReply(msg model.Message) {
	fmt.Fprintln(p.out, p.header(msg))
	fmt.Fprintln(p.out, p.body(msg.Content))
}

func (p *Printer) header(msg model.Message) string {
	if msg.IsError() {
		return ErrorStyle.Render("✗ " + model.AgentLabel(model.ErrorAgent))
	}
	agent := model.Agent{Name: msg.Agent}
	if p.lookup != nil {
		if a, ok := p.lookup(msg.Agent); ok {
			agent = a
		}
	}
	label := agent.Label()
	if agent.Icon != "" {
		label = agent.Icon + " " + label
	}
	return agentStyle(agent.Color).Render(label) + " " + DimStyle.Render(components.FormatClock(msg.Timestamp))
}

func (p *Printer) body(content string) string {
	if p.markdown == nil {
		return content
	}
	rendered, err := p.markdown.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}
