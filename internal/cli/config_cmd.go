// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/tutor-tui/internal/config"
)

func newConfigCommand(appFn func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
		Long: `Show or change tutor's configuration.

Configuration is read from ~/.tutor/config.toml, config.yaml or config.json
(first found, TUTOR_HOME overrides the directory). Environment variables
TUTOR_API_URL, TUTOR_LOG_LEVEL, TUTOR_LOG_FILE, TUTOR_METRICS_ADDR and
TUTOR_THEME override file values.`,
	}
	cmd.AddCommand(
		newConfigShowCommand(appFn),
		newConfigGetCommand(appFn),
		newConfigSetCommand(appFn),
		newConfigPathCommand(appFn),
	)
	return cmd
}

func newConfigShowCommand(appFn func() *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Encode(appFn().Config, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "toml", "output format: toml, yaml or json")
	return cmd
}

func newConfigGetCommand(appFn func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Example: `  tutor config get backend.url
  tutor config get ui.sidebar`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := appFn().Config.Get(args[0])
			if err != nil {
				return fmt.Errorf("%w (keys: %s)", err, strings.Join(config.AllKeys(), ", "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newConfigSetCommand(appFn func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one configuration value in the config file",
		Long: `Change one value and write the config file back in its own format.
Environment overrides are not written to the file.`,
		Example: `  tutor config set backend.url http://localhost:9000
  tutor config set ui.theme light
  tutor config set ui.sidebar false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := appFn().ConfigPath
			if path == "" {
				return errors.New("no config location available")
			}

			cfg, err := config.ReadFile(path)
			if err != nil {
				return err
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			cfg.SetDefaults()
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.EnsureConfigDir(); err != nil {
				return err
			}
			if err := config.SaveTo(cfg, path); err != nil {
				return err
			}

			value, _ := cfg.Get(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %v\n", SuccessStyle.Render("Set"), args[0], value)
			return nil
		},
	}
}

func newConfigPathCommand(appFn func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), appFn().ConfigPath)
		},
	}
}
