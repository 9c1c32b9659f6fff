// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a session transcript to disk.
//
// # Supported Formats
//
//   - Markdown: YAML front matter, one heading per message with the agent
//     label and timestamp
//   - JSON: the raw message list with session metadata
//
// # Usage
//
//	t := export.FromStore(store, time.Now())
//	path, err := export.ToFile(t, export.FormatMarkdown, &export.Options{OutputDir: "."})
//
// Exports are one-way: nothing in this package reads a transcript back.
package export
