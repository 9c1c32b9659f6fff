// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tutor.log")
	l, err := New(Options{Level: "info", File: path})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("exchange complete", zap.String("agent", "chat"))
	l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "exchange complete", entry["msg"])
	assert.Equal(t, "chat", entry["agent"])
	assert.Contains(t, entry, "ts")
}

func TestNew_SetLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tutor.log")
	l, err := New(Options{Level: "warn", File: path})
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, l.Level())

	require.NoError(t, l.SetLevel("debug"))
	assert.Equal(t, zapcore.DebugLevel, l.Level())
	assert.Error(t, l.SetLevel("shouty"))
}

func TestNew_NoSinksIsNop(t *testing.T) {
	l, err := New(Options{})
	require.NoError(t, err)
	l.Info("goes nowhere")
	l.Sync()
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Options{Level: "verbose-ish", Console: true})
	assert.Error(t, err)
}
