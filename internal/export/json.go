// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"

	"github.com/jeranaias/tutor-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports transcripts as indented JSON. Messages keep their
// wire fields, so backend timestamps appear exactly as received.
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

type jsonTranscript struct {
	SessionID    string          `json:"session_id"`
	StartedAt    time.Time       `json:"started_at"`
	ExportedAt   time.Time       `json:"exported_at"`
	MessageCount int             `json:"message_count"`
	Messages     []model.Message `json:"messages"`
}

// Export converts a transcript to JSON.
func (e *JSONExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(jsonTranscript{
		SessionID:    t.SessionID,
		StartedAt:    t.StartedAt,
		ExportedAt:   t.ExportedAt,
		MessageCount: len(t.Messages),
		Messages:     t.Messages,
	}, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}
