// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/session"
	"github.com/jeranaias/tutor-tui/internal/util"
)

// ErrEmptyTranscript is returned when there is nothing to export.
var ErrEmptyTranscript = errors.New("conversation has no messages")

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is an immutable snapshot of a session taken for export.
type Transcript struct {
	SessionID  string
	StartedAt  time.Time
	ExportedAt time.Time
	Messages   []model.Message
}

// FromStore snapshots the store. Messages are copies, so the store may keep
// changing while the transcript is written.
func FromStore(s *session.Store, now time.Time) *Transcript {
	return &Transcript{
		SessionID:  s.ID(),
		StartedAt:  s.StartTime(),
		ExportedAt: now,
		Messages:   s.Messages(),
	}
}

func (t *Transcript) validate() error {
	if t == nil || len(t.Messages) == 0 {
		return ErrEmptyTranscript
	}
	return nil
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for transcript exporters.
type Exporter interface {
	// Export converts a transcript to the target format.
	Export(t *Transcript) ([]byte, error)

	// FileExtension returns the file extension, including the dot.
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// Format names an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts "markdown", "md" or "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md", "":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want markdown or json)", s)
	}
}

// Options configures export behavior.
type Options struct {
	// OutputDir is where files are written. Default: current directory.
	OutputDir string

	// IncludeTimestamps adds per-message timestamps to markdown output.
	IncludeTimestamps bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeTimestamps: true,
	}
}

// New returns the exporter for f.
func New(f Format, opts *Options) (Exporter, error) {
	switch f {
	case FormatMarkdown:
		return NewMarkdownExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", f)
	}
}

// =============================================================================
// FILE OUTPUT
// =============================================================================

// ToFile exports t in format f and writes it atomically under
// opts.OutputDir. It returns the written path.
func ToFile(t *Transcript, f Format, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	exporter, err := New(f, opts)
	if err != nil {
		return "", err
	}

	content, err := exporter.Export(t)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, FileName(t, exporter.FileExtension()))
	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}

// FileName builds "tutor_<time>_<session prefix><ext>".
func FileName(t *Transcript, ext string) string {
	id := t.SessionID
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		id = "session"
	}
	return fmt.Sprintf("tutor_%s_%s%s", t.ExportedAt.Format("20060102_150405"), id, ext)
}
