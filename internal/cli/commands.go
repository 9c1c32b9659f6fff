// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/tutor-tui/internal/agentapi"
	"github.com/jeranaias/tutor-tui/internal/model"
)

// probeTimeout bounds health and route requests from the command line.
const probeTimeout = 10 * time.Second

// ErrUnhealthy is returned by `tutor health` when the backend is unreachable
// or reports a non-healthy status.
var ErrUnhealthy = errors.New("backend is not healthy")

// =============================================================================
// AGENTS
// =============================================================================

func newAgentsCommand(appFn func() *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List the backend's agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFn()
			list := app.Directory.Load(cmd.Context())
			if asJSON {
				return NewJSONResponse("agents", list).Write(cmd.OutOrStdout())
			}
			writeAgents(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

// writeAgents prints one line per agent. An unreachable backend yields an
// empty list, so the message covers both cases.
func writeAgents(w io.Writer, list []model.Agent) {
	if len(list) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No agents available"))
		return
	}
	for _, a := range list {
		label := a.Label()
		if a.Icon != "" {
			label = a.Icon + " " + label
		}
		fmt.Fprintf(w, "%s  %s\n", agentStyle(a.Color).Render(label), a.Description)
	}
}

// =============================================================================
// HEALTH
// =============================================================================

func newHealthCommand(appFn func() *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Long:  "Probe GET /health on the backend. Exits with status 1 when it is unreachable or unhealthy.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFn()
			if !asJSON {
				return writeHealth(cmd.Context(), cmd.OutOrStdout(), app.Client)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
			defer cancel()
			status, err := app.Client.Health(ctx)
			switch {
			case err != nil:
				if werr := NewJSONErrorResponse("health", nil, err.Error()).Write(cmd.OutOrStdout()); werr != nil {
					return werr
				}
				return ErrUnhealthy
			case !status.Healthy():
				if werr := NewJSONErrorResponse("health", status, "status "+status.Status).Write(cmd.OutOrStdout()); werr != nil {
					return werr
				}
				return ErrUnhealthy
			}
			return NewJSONResponse("health", status).Write(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

// writeHealth probes the backend and prints the outcome.
func writeHealth(ctx context.Context, w io.Writer, client *agentapi.Client) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	status, err := client.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "%s %s unreachable: %v\n", ErrorStyle.Render("✗"), client.BaseURL(), err)
		return ErrUnhealthy
	}
	if !status.Healthy() {
		fmt.Fprintf(w, "%s %s reports %q\n", WarningStyle.Render("!"), client.BaseURL(), status.Status)
		return ErrUnhealthy
	}

	msg := status.Message
	if msg == "" {
		msg = "healthy"
	}
	fmt.Fprintf(w, "%s %s %s\n", SuccessStyle.Render("●"), client.BaseURL(), msg)
	return nil
}

// =============================================================================
// ROUTE
// =============================================================================

func newRouteCommand(appFn func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "route <message...>",
		Short: "Show which agent would answer a message",
		Long:  "Ask the backend to classify a message without running it.",
		Example: `  tutor route quiz me on photosynthesis
  tutor route "explain recursion"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeRoute(cmd.Context(), cmd.OutOrStdout(), appFn().Client, strings.Join(args, " "))
		},
	}
}

// writeRoute prints the routing preview for text.
func writeRoute(ctx context.Context, w io.Writer, client *agentapi.Client, text string) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	preview, err := client.Route(ctx, text)
	if err != nil {
		fmt.Fprintf(w, "%s route failed: %v\n", ErrorStyle.Render("[Error]"), err)
		return err
	}
	fmt.Fprintf(w, "Would route to %s\n", model.AgentLabel(preview.Agent))
	return nil
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipAppAnnotation: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tutor %s (%s, %s/%s)\n",
				Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(cmd.OutOrStdout(), "commit %s, built %s\n", GitCommit, BuildDate)
		},
	}
}
