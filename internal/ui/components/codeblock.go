// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tutor-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock is a fenced code block from an agent reply.
type CodeBlock struct {
	Language    string
	Code        string
	MaxWidth    int
	LineNumbers bool
}

// NewCodeBlock creates a new code block.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
	}
}

// SetMaxWidth sets the maximum width for the code block.
func (c *CodeBlock) SetMaxWidth(width int) {
	c.MaxWidth = width
}

// Render highlights the code and frames it with a language badge.
func (c CodeBlock) Render() string {
	code := strings.Trim(c.Code, "\n")
	lines := strings.Split(highlightCode(code, c.Language), "\n")

	if c.LineNumbers {
		numStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Width(len(strconv.Itoa(len(lines)))).
			Align(lipgloss.Right).
			MarginRight(1)
		for i, line := range lines {
			lines[i] = numStyle.Render(strconv.Itoa(i+1)) + line
		}
	}

	body := strings.Join(lines, "\n")
	if c.Language != "" {
		badge := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Bold(true).
			Render(c.Language)
		body = badge + "\n" + body
	}

	maxWidth := c.MaxWidth - 2
	if maxWidth < 20 {
		maxWidth = 20
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Border).
		Padding(0, 1).
		MaxWidth(maxWidth).
		Render(body)
}

// highlightCode applies chroma terminal highlighting. Unknown languages are
// guessed from the code; if nothing matches the code is returned unchanged.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		return code
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}
