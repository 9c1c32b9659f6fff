// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/ui/styles"
)

func plain(s string) string {
	return ansi.Strip(s)
}

func testTheme() *styles.Theme {
	return styles.NewTheme(styles.ModeDark)
}

func lookupFrom(agents ...model.Agent) AgentLookup {
	return func(name string) (model.Agent, bool) {
		for _, a := range agents {
			if a.Name == name {
				return a, true
			}
		}
		return model.Agent{}, false
	}
}

// =============================================================================
// FENCES AND MARKDOWN
// =============================================================================

func TestSplitFences(t *testing.T) {
	text := "Intro\n```python\nprint('hi')\n```\nOutro"
	segs := splitFences(text)
	require.Len(t, segs, 3)

	assert.False(t, segs[0].code)
	assert.Equal(t, "Intro", segs[0].text)
	assert.True(t, segs[1].code)
	assert.Equal(t, "python", segs[1].lang)
	assert.Equal(t, "print('hi')", segs[1].text)
	assert.False(t, segs[2].code)
	assert.Equal(t, "Outro", segs[2].text)
}

func TestSplitFences_Unterminated(t *testing.T) {
	segs := splitFences("before\n```go\nfunc main() {}")
	require.Len(t, segs, 2)
	assert.True(t, segs[1].code)
	assert.Equal(t, "func main() {}", segs[1].text)
}

func TestSplitFences_NoFences(t *testing.T) {
	segs := splitFences("just text")
	require.Len(t, segs, 1)
	assert.False(t, segs[0].code)
}

func TestRenderMarkdown_KeepsText(t *testing.T) {
	out := plain(RenderMarkdown("Photosynthesis turns **light** into energy.", MarkdownOptions{Width: 60, Dark: true}))
	assert.Contains(t, out, "Photosynthesis")
	assert.Contains(t, out, "light")
	assert.NotContains(t, out, "**")
}

func TestRenderMarkdown_CodeBlockLineNumbers(t *testing.T) {
	content := "Example:\n```python\nx = 1\ny = 2\n```"
	out := plain(RenderMarkdown(content, MarkdownOptions{Width: 60, Dark: true, LineNumbers: true}))
	assert.Contains(t, out, "python")
	assert.Contains(t, out, "1 x = 1")
	assert.Contains(t, out, "2 y = 2")
}

func TestHighlightCode_UnknownLanguagePassesThrough(t *testing.T) {
	code := "zzz qqq"
	assert.Equal(t, code, plain(highlightCode(code, "no-such-language")))
}

// =============================================================================
// MESSAGE BUBBLES
// =============================================================================

func TestMessageBubble_User(t *testing.T) {
	msg := model.NewUserMessage("What is Python?")
	b := NewMessageBubble(msg, testTheme(), nil)
	b.ShowTimestamp = false

	out := plain(b.View())
	assert.Contains(t, out, "You")
	assert.Contains(t, out, "What is Python?")
}

func TestMessageBubble_AssistantUsesAgentLabelAndIcon(t *testing.T) {
	msg := model.Message{
		Role:      model.RoleAssistant,
		Content:   "Here is your quiz.",
		Agent:     "quiz",
		Timestamp: "2024-05-01T12:30:45.123456",
	}
	quiz := model.Agent{Name: "quiz", Icon: "📝", Color: model.ColorGreen}
	b := NewMessageBubble(msg, testTheme(), lookupFrom(quiz))
	b.Markdown = false

	out := plain(b.View())
	assert.Contains(t, out, "Quiz Agent")
	assert.Contains(t, out, "📝")
	assert.Contains(t, out, "12:30:45")
	assert.Contains(t, out, "Here is your quiz.")
}

func TestMessageBubble_UnknownAgent(t *testing.T) {
	msg := model.Message{Role: model.RoleAssistant, Content: "hello", Agent: "tutor"}
	b := NewMessageBubble(msg, testTheme(), nil)
	b.ShowTimestamp = false
	b.Markdown = false

	assert.Contains(t, plain(b.View()), "Tutor Agent")
}

func TestMessageBubble_Error(t *testing.T) {
	msg := model.Message{Role: model.RoleAssistant, Content: model.ApologyMessage, Agent: model.ErrorAgent}
	b := NewMessageBubble(msg, testTheme(), nil)
	b.ShowTimestamp = false

	out := plain(b.View())
	assert.Contains(t, out, "Error")
	assert.NotContains(t, out, "Error Agent")
	assert.Contains(t, out, "Sorry")
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "09:05:01", FormatClock("2024-01-02T09:05:01.000000"))
	assert.Equal(t, "not a time", FormatClock("not a time"))
}

func TestRenderMessages_Order(t *testing.T) {
	msgs := []model.Message{
		model.NewUserMessage("first"),
		{Role: model.RoleAssistant, Content: "second", Agent: "chat"},
	}
	out := plain(RenderMessages(msgs, testTheme(), nil, MessageListOptions{Width: 80}))
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
}

// =============================================================================
// HEADER, SIDEBAR, WELCOME
// =============================================================================

func TestHeader_Status(t *testing.T) {
	h := NewHeader(testTheme())
	h.Width = 100

	assert.Contains(t, plain(h.View()), Title)
	assert.Contains(t, plain(h.View()), "Connecting")

	h.Connection = ConnectionOnline
	assert.Contains(t, plain(h.View()), "Online")

	h.Connection = ConnectionOffline
	assert.Contains(t, plain(h.View()), "Offline")
}

func TestExamplePrompt(t *testing.T) {
	p, ok := ExamplePrompt(1)
	require.True(t, ok)
	assert.Equal(t, "What is Python?", p)

	p, ok = ExamplePrompt(4)
	require.True(t, ok)
	assert.Equal(t, "Create a quiz on Python", p)

	p, ok = ExamplePrompt(9)
	require.True(t, ok)
	assert.Equal(t, "How does the internet work?", p)

	_, ok = ExamplePrompt(0)
	assert.False(t, ok)
	_, ok = ExamplePrompt(10)
	assert.False(t, ok)
}

func TestSidebar(t *testing.T) {
	s := NewSidebar(testTheme())
	assert.Contains(t, plain(s.View()), "Loading...")

	s.AgentsLoaded = true
	assert.Contains(t, plain(s.View()), "No agents available")
	assert.Contains(t, plain(s.View()), "Clear Chat (0)")
	assert.NotContains(t, plain(s.View()), "ctrl+l")

	s.Agents = []model.Agent{{Name: "chat", Description: "General conversation", Icon: "💬", Color: model.ColorBlue}}
	s.MessageCount = 4
	out := plain(s.View())
	assert.Contains(t, out, "Chat Agent")
	assert.Contains(t, out, "Clear Chat (4)")
	assert.Contains(t, out, "ctrl+l")
	assert.Contains(t, out, "alt+1")
}

func TestWelcome(t *testing.T) {
	w := NewWelcome(testTheme())
	w.Width, w.Height = 120, 30
	out := plain(w.View())

	assert.Contains(t, out, WelcomeTitle)
	for _, fc := range FeatureCards {
		assert.Contains(t, out, fc.Title)
	}
}
