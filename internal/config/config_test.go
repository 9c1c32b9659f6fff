// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the config directory at a fresh temp dir and clears env
// overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TUTOR_HOME", dir)
	for _, k := range []string{"TUTOR_API_URL", "TUTOR_LOG_LEVEL", "TUTOR_LOG_FILE", "TUTOR_METRICS_ADDR", "TUTOR_THEME"} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

// =============================================================================
// DEFAULTS AND LOADING
// =============================================================================

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg.Backend.URL != "http://localhost:8000" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if !cfg.UI.Markdown || !cfg.UI.Sidebar || !cfg.UI.ShowTimestamps {
		t.Errorf("UI defaults = %+v", cfg.UI)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config.json"), `{"backend":{"url":"http://json:1"}}`)
	writeFile(t, filepath.Join(dir, "config.yaml"), "backend:\n  url: http://yaml:2\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://yaml:2", cfg.Backend.URL)

	writeFile(t, filepath.Join(dir, "config.toml"), "[backend]\nurl = \"http://toml:3/\"\n")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "http://toml:3", cfg.Backend.URL, "trailing slash trimmed")
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config.toml"), "[ui]\nsidebar = false\n")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.UI.Sidebar)
	assert.True(t, cfg.UI.Markdown)
	assert.Equal(t, DefaultBackendURL, cfg.Backend.URL)
}

func TestLoad_BrokenFileReturnsDefaultsAndError(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config.toml"), "[backend\nurl=")

	cfg, err := Load()
	require.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultBackendURL, cfg.Backend.URL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("TUTOR_API_URL", "https://agents.example.com")
	t.Setenv("TUTOR_LOG_LEVEL", "debug")
	t.Setenv("TUTOR_METRICS_ADDR", ":9464")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://agents.example.com", cfg.Backend.URL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ":9464", cfg.Metrics.Addr)
}

func TestLoad_InvalidEnvFailsValidation(t *testing.T) {
	isolate(t)
	t.Setenv("TUTOR_API_URL", "ftp://nope")

	cfg, err := Load()
	assert.Nil(t, cfg)
	var verrs ValidateErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "backend.url", verrs[0].Field)
}

func TestSaveAndLoadFromPath(t *testing.T) {
	dir := isolate(t)
	cfg := Default()
	cfg.Backend.URL = "http://example.test:9000"
	cfg.UI.CodeLineNumbers = true
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTo(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSaveTo_UsesExtensionFormat(t *testing.T) {
	dir := isolate(t)
	cfg := Default()
	cfg.UI.Sidebar = false
	cfg.Export.Format = "json"

	for _, name := range []string{"config.yaml", "config.json", "config.toml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, SaveTo(cfg, path), name)

		loaded, err := LoadFromPath(path)
		require.NoError(t, err, name)
		assert.Equal(t, cfg, loaded, name)
	}
}

func TestReadFile_IgnoresEnvOverrides(t *testing.T) {
	dir := isolate(t)
	t.Setenv("TUTOR_API_URL", "https://env.example.com")

	path := filepath.Join(dir, "config.toml")
	cfg, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultBackendURL, cfg.Backend.URL, "missing file gives defaults")

	writeFile(t, path, "[backend]\nurl = \"http://file:1\"\n")
	cfg, err = ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://file:1", cfg.Backend.URL)
}

func TestEncode_UnknownFormat(t *testing.T) {
	_, err := Encode(Default(), "ini")
	assert.Error(t, err)
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"relative url", func(c *Config) { c.Backend.URL = "localhost:8000" }, "backend.url"},
		{"no host", func(c *Config) { c.Backend.URL = "http://" }, "backend.url"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad export", func(c *Config) { c.Export.Format = "pdf" }, "export.format"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(cfg)
			err := cfg.Validate()
			var verrs ValidateErrors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			assert.Equal(t, tc.field, verrs[0].Field)
		})
	}
}

// =============================================================================
// GET / SET
// =============================================================================

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("backend.url", "http://other:1"))
	v, err := cfg.Get("backend.url")
	require.NoError(t, err)
	assert.Equal(t, "http://other:1", v)

	require.NoError(t, cfg.Set("ui.show_timestamps", "off"))
	assert.False(t, cfg.UI.ShowTimestamps)
	require.NoError(t, cfg.Set("ui.code-line-numbers", true))
	assert.True(t, cfg.UI.CodeLineNumbers)

	assert.Error(t, cfg.Set("ui.sidebar", "maybe"))
	assert.Error(t, cfg.Set("nope.key", "x"))
	assert.Error(t, cfg.Set("backend.url.extra", "x"))
	_, err = cfg.Get("")
	assert.Error(t, err)
}

func TestAllKeys(t *testing.T) {
	keys := AllKeys()
	assert.Contains(t, keys, "backend.url")
	assert.Contains(t, keys, "ui.code_line_numbers")
	assert.Contains(t, keys, "metrics.addr")
	for _, k := range keys {
		_, err := Default().Get(k)
		assert.NoError(t, err, k)
	}
}

// =============================================================================
// WATCHER
// =============================================================================

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	writeFile(t, path, "[ui]\nsidebar = true\n")

	changes := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { changes <- c }, nil)
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	// unrelated files are ignored
	writeFile(t, filepath.Join(dir, "other.txt"), "x")
	writeFile(t, path, "[ui]\nsidebar = false\n")

	select {
	case cfg := <-changes:
		assert.False(t, cfg.UI.Sidebar)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload observed")
	}
}
