// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for tutor.
//
// Supports TOML, YAML and JSON configuration formats, with defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.tutor/config.toml
//   - ~/.tutor/config.yaml
//   - ~/.tutor/config.json
//   - Built-in defaults
//
// TUTOR_HOME replaces ~/.tutor.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/tutor-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// CurrentVersion is the config schema version written by Save.
const CurrentVersion = "1"

// Config represents the complete tutor configuration.
type Config struct {
	Version string `toml:"version" yaml:"version" json:"version"`

	// Backend connection
	Backend BackendConfig `toml:"backend" yaml:"backend" json:"backend"`

	// Terminal UI
	UI UIConfig `toml:"ui" yaml:"ui" json:"ui"`

	// Logging
	Logging LoggingConfig `toml:"logging" yaml:"logging" json:"logging"`

	// Prometheus endpoint
	Metrics MetricsConfig `toml:"metrics" yaml:"metrics" json:"metrics"`

	// Transcript export
	Export ExportConfig `toml:"export" yaml:"export" json:"export"`
}

// BackendConfig holds the agents backend location.
type BackendConfig struct {
	URL string `toml:"url" yaml:"url" json:"url"`
}

// UIConfig holds display settings.
type UIConfig struct {
	Theme           string `toml:"theme" yaml:"theme" json:"theme"` // auto, dark, light
	ShowTimestamps  bool   `toml:"show_timestamps" yaml:"show_timestamps" json:"show_timestamps"`
	Markdown        bool   `toml:"markdown" yaml:"markdown" json:"markdown"`
	Sidebar         bool   `toml:"sidebar" yaml:"sidebar" json:"sidebar"`
	CodeLineNumbers bool   `toml:"code_line_numbers" yaml:"code_line_numbers" json:"code_line_numbers"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string `toml:"level" yaml:"level" json:"level"`
	File  string `toml:"file" yaml:"file" json:"file"` // empty: <config dir>/logs/tutor.log
}

// MetricsConfig controls the /metrics listener.
type MetricsConfig struct {
	Addr string `toml:"addr" yaml:"addr" json:"addr"` // empty disables
}

// ExportConfig holds transcript export defaults.
type ExportConfig struct {
	Dir    string `toml:"dir" yaml:"dir" json:"dir"`
	Format string `toml:"format" yaml:"format" json:"format"` // markdown, json
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultBackendURL is the local development backend.
const DefaultBackendURL = "http://localhost:8000"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Backend: BackendConfig{URL: DefaultBackendURL},
		UI: UIConfig{
			Theme:           "auto",
			ShowTimestamps:  true,
			Markdown:        true,
			Sidebar:         true,
			CodeLineNumbers: false,
		},
		Logging: LoggingConfig{Level: "info"},
		Export:  ExportConfig{Dir: ".", Format: "markdown"},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the tutor configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv("TUTOR_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".tutor"), nil
}

func configPath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) { return configPath("config.toml") }

// ConfigPathYAML returns the path to the YAML config file.
func ConfigPathYAML() (string, error) { return configPath("config.yaml") }

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) { return configPath("config.json") }

// LogPath returns the default log file path.
func LogPath() (string, error) { return configPath(filepath.Join("logs", "tutor.log")) }

// HistoryPath returns the REPL history file path.
func HistoryPath() (string, error) { return configPath("chat_history") }

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ActivePath returns the first existing config file in precedence order, or
// the TOML path when none exists.
func ActivePath() (string, error) {
	for _, fn := range []func() (string, error){ConfigPathTOML, ConfigPathYAML, ConfigPathJSON} {
		path, err := fn()
		if err != nil {
			return "", err
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return ConfigPathTOML()
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the first config file found, then applies
// environment overrides and validates. When the file exists but cannot be
// parsed, Load returns defaults together with the load error.
func Load() (*Config, error) {
	path, err := ActivePath()
	if err != nil {
		return finish(Default(), err)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return finish(Default(), nil)
	}

	cfg, err := decodeFile(path)
	if err != nil {
		return finish(Default(), fmt.Errorf("failed to load config %s: %w", path, err))
	}
	return finish(cfg, nil)
}

// LoadFromPath loads configuration from a specific file. The format is taken
// from the extension (.yaml/.yml, .json, otherwise TOML).
func LoadFromPath(path string) (*Config, error) {
	cfg, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	cfg, err = finish(cfg, nil)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile decodes path over the defaults without environment overrides, so
// the result can be edited and saved back. A missing file yields defaults.
func ReadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		cfg.SetDefaults()
		return cfg, nil
	}
	cfg, err := decodeFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	cfg.SetDefaults()
	return cfg, nil
}

// finish applies env overrides, defaults, and validation. A validation
// failure replaces cfg with nil; loadErr is passed through otherwise.
func finish(cfg *Config, loadErr error) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// decodeFile decodes path over the defaults so omitted keys keep their
// default values.
func decodeFile(path string) (*Config, error) {
	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode YAML file: %w", err)
		}
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode JSON file: %w", err)
		}
	default:
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML file: %w", err)
		}
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTo writes the configuration to path in the format its extension names
// (.yaml/.yml, .json, otherwise TOML).
func SaveTo(cfg *Config, path string) error {
	format := "toml"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	case ".json":
		format = "json"
	}
	data, err := Encode(cfg, format)
	if err != nil {
		return err
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Encode renders cfg as "toml", "yaml" or "json".
func Encode(cfg *Config, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "toml", "":
		buf.WriteString("# tutor configuration file\n")
		buf.WriteString("# Generated by tutor - edit with care\n\n")
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
	case "yaml", "yml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode config: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	default:
		return nil, fmt.Errorf("unknown config format %q (want toml, yaml or json)", format)
	}
	return buf.Bytes(), nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns ValidateErrors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if err := ValidateBackendURL(c.Backend.URL); err != nil {
		errs = append(errs, ValidationError{Field: "backend.url", Message: err.Error()})
	}

	switch strings.ToLower(c.UI.Theme) {
	case "auto", "dark", "light":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s'", c.Logging.Level),
		})
	}

	switch strings.ToLower(c.Export.Format) {
	case "markdown", "md", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "export.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: markdown, json", c.Export.Format),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateBackendURL checks that raw is an absolute http(s) URL.
func ValidateBackendURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL has no host")
	}
	return nil
}

// SetDefaults fills empty string settings with their defaults.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Backend.URL == "" {
		c.Backend.URL = d.Backend.URL
	}
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Export.Dir == "" {
		c.Export.Dir = d.Export.Dir
	}
	if c.Export.Format == "" {
		c.Export.Format = d.Export.Format
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - TUTOR_API_URL: overrides backend.url
//   - TUTOR_LOG_LEVEL: overrides logging.level
//   - TUTOR_LOG_FILE: overrides logging.file
//   - TUTOR_METRICS_ADDR: overrides metrics.addr
//   - TUTOR_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("TUTOR_API_URL"); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv("TUTOR_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TUTOR_LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv("TUTOR_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("TUTOR_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "backend.url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.sidebar").
// String values are converted to the field's type.
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		result.WriteString(strings.ToUpper(part[:1]))
		result.WriteString(strings.ToLower(part[1:]))
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			boolVal, err := strconv.ParseBool(strings.ToLower(strVal))
			if err != nil {
				switch strings.ToLower(strVal) {
				case "yes", "on":
					boolVal = true
				case "no", "off":
					boolVal = false
				default:
					return fmt.Errorf("invalid boolean value: %q", strVal)
				}
			}
			field.SetBool(boolVal)
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return errors.New("cannot assign nil")
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) && val.Kind() == field.Kind() {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// AllKeys returns every leaf configuration key in dot notation, sorted.
func AllKeys() []string {
	var keys []string
	collectKeys(reflect.TypeOf(Config{}), "", &keys)
	sort.Strings(keys)
	return keys
}

func collectKeys(t reflect.Type, prefix string, keys *[]string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.Split(f.Tag.Get("toml"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		if f.Type.Kind() == reflect.Struct {
			collectKeys(f.Type, name, keys)
			continue
		}
		*keys = append(*keys, name)
	}
}

// String returns the configuration as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
