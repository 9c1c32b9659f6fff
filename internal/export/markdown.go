// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jeranaias/tutor-tui/internal/model"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

type frontMatter struct {
	Title     string         `yaml:"title"`
	Session   string         `yaml:"session"`
	Started   string         `yaml:"started"`
	Exported  string         `yaml:"exported"`
	Messages  int            `yaml:"messages"`
	Agents    map[string]int `yaml:"agents,omitempty"`
	Generator string         `yaml:"generator"`
}

// Export converts a transcript to Markdown.
func (e *MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	fm := frontMatter{
		Title:     "AI Teaching Assistant transcript",
		Session:   t.SessionID,
		Started:   t.StartedAt.Format(time.RFC3339),
		Exported:  t.ExportedAt.Format(time.RFC3339),
		Messages:  len(t.Messages),
		Agents:    agentCounts(t.Messages),
		Generator: "tutor",
	}
	head, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(head)
	sb.WriteString("---\n\n")
	sb.WriteString("# AI Teaching Assistant\n\n")

	for i, msg := range t.Messages {
		sb.WriteString("### ")
		sb.WriteString(roleLabel(msg))
		if e.options.IncludeTimestamps && msg.Timestamp != "" {
			fmt.Fprintf(&sb, " <sub>%s</sub>", msg.Timestamp)
		}
		sb.WriteString("\n\n")

		sb.WriteString(strings.TrimSpace(msg.Content))
		sb.WriteString("\n\n")

		if i < len(t.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "*Exported from tutor on %s*\n", t.ExportedAt.Format("January 2, 2006 at 3:04 PM"))
	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// roleLabel is "You" for user turns and "<Name> Agent `[name]`" for replies.
func roleLabel(msg model.Message) string {
	if msg.Role == model.RoleUser {
		return model.RoleUser.DisplayName()
	}
	label := model.AgentLabel(msg.Agent)
	if msg.Agent == "" {
		return label
	}
	return fmt.Sprintf("%s `[%s]`", label, msg.Agent)
}

// agentCounts counts replies per agent tag, including "error".
func agentCounts(msgs []model.Message) map[string]int {
	counts := map[string]int{}
	for _, m := range msgs {
		if m.Role == model.RoleAssistant && m.Agent != "" {
			counts[m.Agent]++
		}
	}
	if len(counts) == 0 {
		return nil
	}
	return counts
}
