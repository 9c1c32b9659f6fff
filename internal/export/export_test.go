// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/session"
)

var exportTime = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

func sampleStore(t *testing.T) *session.Store {
	t.Helper()
	s := session.NewStore()
	s.Append(model.NewMessage(model.RoleUser, "Create a quiz on Python", "", exportTime))
	s.Append(model.Message{
		ID: "a1", Role: model.RoleAssistant, Content: "Q1: What is a list?",
		Agent: "quiz", Timestamp: "2024-03-09T14:05:01.250000",
	})
	s.Append(model.NewUserMessage("Explain: recursion"))
	s.Append(model.AssistantFromResult(model.Failure("backend down"), exportTime))
	return s
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"md": FormatMarkdown, "Markdown": FormatMarkdown, "": FormatMarkdown, "JSON": FormatJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("html")
	assert.Error(t, err)
}

func TestMarkdownExport(t *testing.T) {
	tr := FromStore(sampleStore(t), exportTime)
	out, err := NewMarkdownExporter(nil).Export(tr)
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\n"))
	assert.Contains(t, md, "### You")
	assert.Contains(t, md, "### Quiz Agent `[quiz]` <sub>2024-03-09T14:05:01.250000</sub>")
	assert.Contains(t, md, "### Error `[error]`")
	assert.Contains(t, md, model.ApologyMessage)
	assert.Less(t, strings.Index(md, "Create a quiz"), strings.Index(md, "Q1: What is a list?"))
}

func TestMarkdownExport_FrontMatterParses(t *testing.T) {
	tr := FromStore(sampleStore(t), exportTime)
	tr.SessionID = "id: with \"quotes\"\nand newline"
	out, err := NewMarkdownExporter(nil).Export(tr)
	require.NoError(t, err)

	parts := strings.SplitN(string(out), "---\n", 3)
	require.Len(t, parts, 3)

	var fm frontMatter
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, tr.SessionID, fm.Session)
	assert.Equal(t, 4, fm.Messages)
	assert.Equal(t, map[string]int{"quiz": 1, "error": 1}, fm.Agents)
}

func TestMarkdownExport_NoTimestamps(t *testing.T) {
	tr := FromStore(sampleStore(t), exportTime)
	out, err := NewMarkdownExporter(&Options{IncludeTimestamps: false}).Export(tr)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<sub>")
}

func TestJSONExport(t *testing.T) {
	tr := FromStore(sampleStore(t), exportTime)
	out, err := NewJSONExporter().Export(tr)
	require.NoError(t, err)

	var got jsonTranscript
	require.NoError(t, json.Unmarshal(out, &got))
	assert.Equal(t, tr.SessionID, got.SessionID)
	assert.Equal(t, 4, got.MessageCount)
	assert.Equal(t, "2024-03-09T14:05:01.250000", got.Messages[1].Timestamp)
	assert.Equal(t, model.ErrorAgent, got.Messages[3].Agent)
}

func TestExport_EmptyTranscript(t *testing.T) {
	tr := FromStore(session.NewStore(), exportTime)
	_, err := NewMarkdownExporter(nil).Export(tr)
	assert.ErrorIs(t, err, ErrEmptyTranscript)
	_, err = NewJSONExporter().Export(tr)
	assert.ErrorIs(t, err, ErrEmptyTranscript)

	_, err = ToFile(tr, FormatJSON, &Options{OutputDir: t.TempDir()})
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestToFile(t *testing.T) {
	dir := t.TempDir()
	tr := FromStore(sampleStore(t), exportTime)

	path, err := ToFile(tr, FormatMarkdown, &Options{OutputDir: dir, IncludeTimestamps: true})
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "tutor_20240309_140500_"))
	assert.Equal(t, ".md", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Q1: What is a list?")

	path, err = ToFile(tr, FormatJSON, &Options{OutputDir: dir})
	require.NoError(t, err)
	assert.Equal(t, ".json", filepath.Ext(path))
}

func TestFileName(t *testing.T) {
	tr := &Transcript{SessionID: "0123456789abcdef", ExportedAt: exportTime}
	assert.Equal(t, "tutor_20240309_140500_01234567.md", FileName(tr, ".md"))

	tr.SessionID = ""
	assert.Equal(t, "tutor_20240309_140500_session.json", FileName(tr, ".json"))
}
