// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/tutor-tui/internal/agentapi"
	"github.com/jeranaias/tutor-tui/internal/agents"
	"github.com/jeranaias/tutor-tui/internal/config"
	"github.com/jeranaias/tutor-tui/internal/logging"
	"github.com/jeranaias/tutor-tui/internal/orchestrator"
	"github.com/jeranaias/tutor-tui/internal/session"
	"github.com/jeranaias/tutor-tui/internal/telemetry"
)

// App is the runtime wiring shared by every command.
type App struct {
	Config     *config.Config
	ConfigPath string
	Logger     *logging.Logger

	Client       *agentapi.Client
	Store        *session.Store
	Orchestrator *orchestrator.Orchestrator
	Directory    *agents.Directory
	Metrics      *telemetry.Metrics

	// configuredURL is backend.url as loaded from file and environment,
	// before --api-url.
	configuredURL string

	stopMetrics context.CancelFunc
	metricsDone chan struct{}
}

// NewApp wires the core components for cfg.
func NewApp(cfg *config.Config, configPath string, logger *logging.Logger) *App {
	metrics := telemetry.New()
	client := agentapi.NewClient(cfg.Backend.URL, logger.Logger)
	store := session.NewStore()

	return &App{
		Config:     cfg,
		ConfigPath: configPath,
		Logger:     logger,
		Client:     client,
		Store:      store,
		Orchestrator: orchestrator.New(client, store,
			orchestrator.WithRecorder(metrics),
			orchestrator.WithLogger(logger.Logger),
		),
		Directory:     agents.NewDirectory(client, logger.Logger, metrics),
		Metrics:       metrics,
		configuredURL: cfg.Backend.URL,
	}
}

// StartMetrics serves /metrics in the background when metrics.addr is set.
func (a *App) StartMetrics(ctx context.Context) {
	addr := a.Config.Metrics.Addr
	if addr == "" {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.stopMetrics = cancel
	a.metricsDone = make(chan struct{})

	go func() {
		defer close(a.metricsDone)
		if err := telemetry.Serve(ctx, addr, a.Metrics, a.Logger.Logger); err != nil {
			a.Logger.Warn("metrics endpoint stopped", zap.Error(err))
		}
	}()
}

// Close waits for an in-flight exchange, stops the metrics endpoint and
// flushes the logger.
func (a *App) Close() {
	done := make(chan struct{})
	go func() {
		a.Orchestrator.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		a.Logger.Warn("exiting with an exchange still in flight")
	}

	if a.stopMetrics != nil {
		a.stopMetrics()
		<-a.metricsDone
	}
	a.Logger.Sync()
}
