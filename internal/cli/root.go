// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/tutor-tui/internal/config"
	"github.com/jeranaias/tutor-tui/internal/logging"
)

// Build information, set by main.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	apiURL     string
	configPath string
	verbose    bool
	noColor    bool
}

// skipAppAnnotation marks commands that run without an App.
const skipAppAnnotation = "tutor/skip-app"

// NewRootCommand builds the tutor command tree. The returned function
// closes the App built for the command; call it once Execute returns, since
// cobra skips post-run hooks when a command fails.
func NewRootCommand() (*cobra.Command, func()) {
	flags := &rootFlags{}
	var app *App
	closeApp := func() {
		if app != nil {
			app.Close()
			app = nil
		}
	}

	root := &cobra.Command{
		Use:   "tutor",
		Short: "Terminal client for the AI Teaching Assistant",
		Long: `tutor talks to an AI Teaching Assistant backend. Each message is routed
to one of the backend's agents (chat, quiz or explanation) and the reply is
shown with the agent that produced it.

Run without a subcommand for the full-screen chat.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipAppAnnotation] == "true" {
				return nil
			}
			var err error
			app, err = buildApp(cmd, flags)
			if err != nil {
				return err
			}
			app.StartMetrics(cmd.Context())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunTUI(cmd.Context(), app)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.apiURL, "api-url", "", "backend base URL (overrides backend.url)")
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.tutor/config.toml)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	appFn := func() *App { return app }
	root.AddCommand(
		newChatCommand(appFn),
		newAskCommand(appFn),
		newAgentsCommand(appFn),
		newHealthCommand(appFn),
		newRouteCommand(appFn),
		newConfigCommand(appFn),
		newVersionCommand(),
	)
	return root, closeApp
}

// Run executes the command tree with args. The App is closed afterwards
// whether or not the command succeeded.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, closeApp := NewRootCommand()
	defer closeApp()

	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// Execute runs tutor with the process arguments and returns the exit code.
func Execute() int {
	if err := Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// buildApp loads config, applies flag overrides and sets up logging for the
// command about to run.
func buildApp(cmd *cobra.Command, flags *rootFlags) (*App, error) {
	profile := GetColorProfile()
	if flags.noColor {
		profile = termenv.Ascii
	}
	lipgloss.SetColorProfile(profile)

	cfg, path, err := loadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	configuredURL := cfg.Backend.URL
	if flags.apiURL != "" {
		if err := config.ValidateBackendURL(flags.apiURL); err != nil {
			return nil, fmt.Errorf("--api-url: %w", err)
		}
		cfg.Backend.URL = flags.apiURL
		cfg.SetDefaults()
	}

	logger, err := logging.New(loggingOptions(cmd, cfg, flags.verbose))
	if err != nil {
		return nil, err
	}
	logger.Debug("config loaded", zap.String("path", path), zap.Stringer("config", cfg))

	app := NewApp(cfg, path, logger)
	app.configuredURL = configuredURL
	return app, nil
}

// loadConfig loads an explicit --config file, or the default location. A
// broken default file falls back to defaults with a warning.
func loadConfig(explicit string) (*config.Config, string, error) {
	if explicit != "" {
		cfg, err := config.LoadFromPath(explicit)
		if err != nil {
			return nil, "", err
		}
		return cfg, explicit, nil
	}

	path, _ := config.ActivePath()
	cfg, err := config.Load()
	if err != nil {
		if cfg == nil {
			return nil, "", err
		}
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	return cfg, path, nil
}

// loggingOptions sends TUI logs to the log file only, and line-mode logs to
// stderr at warn (debug with --verbose).
func loggingOptions(cmd *cobra.Command, cfg *config.Config, verbose bool) logging.Options {
	if cmd.Parent() == nil {
		file := cfg.Logging.File
		if file == "" {
			file, _ = config.LogPath()
		}
		level := cfg.Logging.Level
		if verbose {
			level = "debug"
		}
		return logging.Options{Level: level, File: file}
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	return logging.Options{Level: level, File: cfg.Logging.File, Console: true}
}
