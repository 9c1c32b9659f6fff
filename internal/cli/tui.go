// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/tutor-tui/internal/config"
	"github.com/jeranaias/tutor-tui/internal/ui/chat"
)

// RunTUI runs the full-screen chat until the user quits or ctx ends.
func RunTUI(ctx context.Context, app *App) error {
	if !IsTTY() || !IsStdoutTTY() {
		return errors.New("the full-screen chat needs a terminal; use `tutor chat` or `tutor ask` instead")
	}

	m := chat.New(chat.Options{
		Exchanger: app.Orchestrator,
		Agents:    app.Directory,
		Backend:   app.Client,
		Stats:     app.Metrics,
		Config:    app.Config,
		Logger:    app.Logger.Logger,
	})
	defer m.Close()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	startConfigWatch(watchCtx, app, p.Send)

	app.Logger.Info("tui started",
		zap.String("backend", app.Client.BaseURL()),
		zap.String("session", app.Store.ID()),
	)

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running tutor: %w", err)
	}
	return nil
}

// startConfigWatch forwards config file changes to the UI. The log level
// is applied immediately; a changed backend URL needs a restart.
func startConfigWatch(ctx context.Context, app *App, send func(tea.Msg)) {
	if app.ConfigPath == "" {
		return
	}
	if err := config.EnsureConfigDir(); err != nil {
		app.Logger.Debug("config watch disabled", zap.Error(err))
		return
	}

	w, err := config.NewWatcher(app.ConfigPath,
		func(cfg *config.Config) {
			if err := app.Logger.SetLevel(cfg.Logging.Level); err != nil {
				app.Logger.Warn("ignoring log level from config", zap.Error(err))
			}
			if backendChanged(app, cfg) {
				app.Logger.Info("backend URL changed; restart to use it",
					zap.String("url", cfg.Backend.URL))
			}
			send(chat.ConfigChangedMsg{Config: cfg})
		},
		func(err error) {
			app.Logger.Warn("config reload failed", zap.Error(err))
			send(chat.ConfigErrorMsg{Err: err})
		},
	)
	if err != nil {
		app.Logger.Debug("config watch disabled", zap.Error(err))
		return
	}
	go w.Run(ctx)
}

// backendChanged reports whether a reloaded config names a different backend
// than the one loaded at startup. An --api-url override is not a change.
func backendChanged(app *App, cfg *config.Config) bool {
	return cfg.Backend.URL != app.configuredURL
}
