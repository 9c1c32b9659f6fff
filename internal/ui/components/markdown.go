// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownOptions controls RenderMarkdown.
type MarkdownOptions struct {
	Width       int
	Dark        bool
	LineNumbers bool // number lines in fenced code blocks
}

type rendererKey struct {
	width int
	dark  bool
}

var (
	renderersMu sync.Mutex
	renderers   = map[rendererKey]*glamour.TermRenderer{}
)

// termRenderer returns a cached glamour renderer for the width and background.
// Creating one parses a full style sheet, so they are reused across frames.
func termRenderer(width int, dark bool) *glamour.TermRenderer {
	key := rendererKey{width: width, dark: dark}

	renderersMu.Lock()
	defer renderersMu.Unlock()

	if r, ok := renderers[key]; ok {
		return r
	}

	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r = nil
	}
	renderers[key] = r
	return r
}

// RenderMarkdown renders message content for the terminal. Prose goes through
// glamour; fenced code blocks go through the chroma code block renderer so
// they keep a fixed frame and optional line numbers. Rendering never fails:
// on any error the content comes back as plain text.
func RenderMarkdown(content string, opts MarkdownOptions) string {
	if opts.Width < 20 {
		opts.Width = 20
	}

	var out []string
	for _, seg := range splitFences(content) {
		if seg.code {
			cb := NewCodeBlock(seg.lang, seg.text)
			cb.SetMaxWidth(opts.Width)
			cb.LineNumbers = opts.LineNumbers
			out = append(out, cb.Render())
			continue
		}
		if strings.TrimSpace(seg.text) == "" {
			continue
		}
		out = append(out, renderProse(seg.text, opts))
	}
	return strings.Join(out, "\n")
}

func renderProse(text string, opts MarkdownOptions) string {
	r := termRenderer(opts.Width, opts.Dark)
	if r == nil {
		return text
	}
	rendered, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(rendered, "\n")
}

// =============================================================================
// FENCE SPLITTING
// =============================================================================

type segment struct {
	text string
	code bool
	lang string
}

// splitFences cuts text into alternating prose and ``` fenced code segments.
// An unterminated fence runs to the end of the text.
func splitFences(text string) []segment {
	var (
		segs   []segment
		buf    []string
		inCode bool
		lang   string
	)
	flush := func() {
		if len(buf) == 0 && !inCode {
			return
		}
		segs = append(segs, segment{text: strings.Join(buf, "\n"), code: inCode, lang: lang})
		buf = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inCode {
				flush()
				inCode = false
				lang = ""
			} else {
				flush()
				inCode = true
				lang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			}
			continue
		}
		buf = append(buf, line)
	}
	if inCode && len(buf) == 0 {
		return segs
	}
	flush()
	return segs
}
