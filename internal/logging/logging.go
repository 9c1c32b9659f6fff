// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the zap logger used across tutor.
//
// The terminal UI owns the screen, so in that mode logs only go to a file.
// Line-mode commands log warnings and above to stderr unless verbose.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the logger sinks and level.
type Options struct {
	// Level is a zap level name ("debug", "info", "warn", ...).
	Level string

	// File receives JSON logs when non-empty. Parent dirs are created.
	File string

	// Console sends logs to stderr as well.
	Console bool
}

// Logger wraps a zap logger with its adjustable level.
type Logger struct {
	*zap.Logger
	level zap.AtomicLevel
}

// New builds a logger. With neither File nor Console it returns a no-op
// logger.
func New(opts Options) (*Logger, error) {
	level := zap.NewAtomicLevel()
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	if opts.File == "" && !opts.Console {
		return &Logger{Logger: zap.NewNop(), level: level}, nil
	}

	config := zap.NewProductionConfig()
	config.Level = level
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = nil
	config.ErrorOutputPaths = []string{"stderr"}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		config.OutputPaths = append(config.OutputPaths, opts.File)
		if !opts.Console {
			// keep zap's own errors off the UI too
			config.ErrorOutputPaths = []string{opts.File}
		}
	}
	if opts.Console {
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		config.OutputPaths = append(config.OutputPaths, "stderr")
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &Logger{Logger: logger, level: level}, nil
}

// SetLevel changes the level of a running logger.
func (l *Logger) SetLevel(name string) error {
	return l.level.UnmarshalText([]byte(name))
}

// Level returns the current level.
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}

// Sync flushes buffered entries. Errors from syncing stderr are ignored.
func (l *Logger) Sync() {
	_ = l.Logger.Sync()
}
