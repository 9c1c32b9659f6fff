// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

// ErrReplyFailed is returned by `tutor ask` when the exchange produced the
// error reply instead of an agent answer.
var ErrReplyFailed = errors.New("the backend did not answer")

func newAskCommand(appFn func() *App) *cobra.Command {
	var (
		asJSON bool
		plain  bool
	)

	cmd := &cobra.Command{
		Use:   "ask <message...>",
		Short: "Send one message and print the reply",
		Long: `Send a single message to the backend and print the agent's reply.

The reply is rendered as markdown when stdout is a terminal. With --json the
reply message is printed as JSON. The command exits with status 1 when the
backend could not be reached.`,
		Example: `  tutor ask what is a closure
  tutor ask --json "quiz me on Go interfaces"
  echo done | tutor ask --plain summarize our lesson`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appFn()
			out := cmd.OutOrStdout()

			reply, err := app.Orchestrator.Exchange(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			if asJSON {
				resp := NewJSONResponse("ask", reply)
				if reply.IsError() {
					resp = NewJSONErrorResponse("ask", reply, ErrReplyFailed.Error())
				}
				if err := resp.Write(out); err != nil {
					return err
				}
			} else {
				markdown := !plain && app.Config.UI.Markdown && IsStdoutTTY()
				NewPrinter(out, markdown, GetTerminalWidth(), app.Directory.Lookup).PrintReply(reply)
			}

			if reply.IsError() {
				return ErrReplyFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the reply message as JSON")
	cmd.Flags().BoolVar(&plain, "plain", false, "print the reply without markdown rendering")
	return cmd
}
