// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main runs a stand-in for the agents backend. Messages are routed by
// keyword and answered with canned replies, so the client can be developed
// and demoed without an LLM.
//
// Usage:
//
//	fake-backend --port 8000 --delay 1s
//	fake-backend --fail-agents
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/tutor-tui/internal/agentapi/fakebackend"
	"github.com/jeranaias/tutor-tui/internal/logging"
)

type options struct {
	port       int
	delay      time.Duration
	failAgents bool
	logLevel   string
}

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:          "fake-backend",
		Short:        "Serve a deterministic stand-in for the agents backend",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, opts)
		},
	}
	cmd.Flags().IntVarP(&opts.port, "port", "p", 8000, "listen port")
	cmd.Flags().DurationVar(&opts.delay, "delay", 0, "delay before each chat reply")
	cmd.Flags().BoolVar(&opts.failAgents, "fail-agents", false, "answer GET /api/agents with 503")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "log level")
	return cmd
}

func run(ctx context.Context, opts *options) error {
	logger, err := logging.New(logging.Options{Level: opts.logLevel, Console: true})
	if err != nil {
		return err
	}
	defer logger.Sync()

	gin.SetMode(gin.ReleaseMode)
	fake := fakebackend.New(
		fakebackend.WithDelay(opts.delay),
		fakebackend.WithLogger(logger.Logger),
	)
	if opts.failAgents {
		fake.FailAgents()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.port),
		Handler:           fake.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("fake backend listening", zap.String("addr", srv.Addr), zap.Duration("delay", opts.delay))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
