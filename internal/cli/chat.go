// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/tutor-tui/internal/config"
	"github.com/jeranaias/tutor-tui/internal/export"
	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/orchestrator"
	"github.com/jeranaias/tutor-tui/internal/session"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides line editing and persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads any saved history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile, err := config.HistoryPath()
	if err != nil {
		historyFile = ""
	}

	c := &ChatCLI{line: line, historyFile: historyFile}
	c.LoadHistory()
	return c
}

// LoadHistory loads input history from disk.
func (c *ChatCLI) LoadHistory() {
	if c.historyFile == "" {
		return
	}
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput prompts for one line. Non-blank input is added to history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory writes history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if c.historyFile == "" {
		return
	}
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// REPL handles chat input in line mode. It is separate from the terminal so
// it can be driven from tests.
type REPL struct {
	app     *App
	out     io.Writer
	printer *Printer
}

// NewREPL creates a REPL that writes to out.
func NewREPL(app *App, out io.Writer, markdown bool, width int) *REPL {
	return &REPL{
		app:     app,
		out:     out,
		printer: NewPrinter(out, markdown, width, app.Directory.Lookup),
	}
}

// Greet loads the agent directory, so replies carry their agent's icon and
// colour, and prints the banner.
func (r *REPL) Greet(ctx context.Context) {
	agents := r.app.Directory.Load(ctx)

	fmt.Fprintln(r.out, TitleStyle.Render("AI Teaching Assistant"))
	fmt.Fprintln(r.out, DimStyle.Render(fmt.Sprintf("Backend %s, %d agents. Type /help for commands, /quit to exit.",
		r.app.Client.BaseURL(), len(agents))))
	fmt.Fprintln(r.out)
}

// replCommand handles one slash command. It returns false to end the session.
type replCommand func(r *REPL, ctx context.Context, args []string) bool

var replCommands = map[string]replCommand{
	"help":    (*REPL).cmdHelp,
	"h":       (*REPL).cmdHelp,
	"?":       (*REPL).cmdHelp,
	"clear":   (*REPL).cmdClear,
	"c":       (*REPL).cmdClear,
	"agents":  (*REPL).cmdAgents,
	"health":  (*REPL).cmdHealth,
	"route":   (*REPL).cmdRoute,
	"export":  (*REPL).cmdExport,
	"e":       (*REPL).cmdExport,
	"history": (*REPL).cmdHistory,
	"status":  (*REPL).cmdStatus,
	"s":       (*REPL).cmdStatus,
	"quit":    (*REPL).cmdQuit,
	"q":       (*REPL).cmdQuit,
	"exit":    (*REPL).cmdQuit,
}

// Handle processes one line of input. It returns false when the session
// should end.
func (r *REPL) Handle(ctx context.Context, input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return true
	}

	if strings.HasPrefix(input, "/") {
		fields := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(fields) == 0 {
			return true
		}
		name := strings.ToLower(fields[0])
		cmd, ok := replCommands[name]
		if !ok {
			fmt.Fprintf(r.out, "%s unknown command /%s (try /help)\n", ErrorStyle.Render("[Error]"), name)
			return true
		}
		return cmd(r, ctx, fields[1:])
	}

	if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
		return false
	}

	r.send(ctx, input)
	return true
}

// send runs one exchange. Cancelling ctx stops waiting; the reply still
// lands in the session.
func (r *REPL) send(ctx context.Context, text string) {
	fmt.Fprintln(r.out, DimStyle.Render("AI is thinking..."))

	reply, err := r.app.Orchestrator.Exchange(ctx, text)
	switch {
	case err == nil:
		r.printer.PrintReply(reply)
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(r.out, WarningStyle.Render("[Stopped waiting; the reply will appear in /history]"))
	case errors.Is(err, orchestrator.ErrBusy):
		fmt.Fprintln(r.out, WarningStyle.Render("Still waiting for the last reply"))
	default:
		fmt.Fprintf(r.out, "%s %v\n", ErrorStyle.Render("[Error]"), err)
	}
}

func (r *REPL) cmdHelp(_ context.Context, _ []string) bool {
	fmt.Fprintln(r.out, TitleStyle.Render("Commands"))
	for _, line := range [][2]string{
		{"/help", "Show this help"},
		{"/clear", "Clear the conversation"},
		{"/agents", "List available agents"},
		{"/health", "Check the backend"},
		{"/route <text>", "Show which agent would answer"},
		{"/export [md|json] [dir]", "Save the conversation"},
		{"/history", "Show the conversation so far"},
		{"/status", "Show session statistics"},
		{"/quit", "Exit"},
	} {
		fmt.Fprintf(r.out, "  %-26s %s\n", CommandStyle.Render(line[0]), line[1])
	}
	return true
}

func (r *REPL) cmdClear(_ context.Context, _ []string) bool {
	if err := r.app.Orchestrator.Clear(); err != nil {
		if errors.Is(err, session.ErrInvalidState) {
			fmt.Fprintln(r.out, WarningStyle.Render("Cannot clear while waiting for a reply"))
			return true
		}
		fmt.Fprintf(r.out, "%s %v\n", ErrorStyle.Render("[Error]"), err)
		return true
	}
	fmt.Fprintln(r.out, SuccessStyle.Render("Conversation cleared"))
	return true
}

func (r *REPL) cmdAgents(ctx context.Context, _ []string) bool {
	writeAgents(r.out, r.app.Directory.Load(ctx))
	return true
}

func (r *REPL) cmdHealth(ctx context.Context, _ []string) bool {
	writeHealth(ctx, r.out, r.app.Client)
	return true
}

func (r *REPL) cmdRoute(ctx context.Context, args []string) bool {
	if len(args) == 0 {
		fmt.Fprintln(r.out, WarningStyle.Render("Usage: /route <message>"))
		return true
	}
	writeRoute(ctx, r.out, r.app.Client, strings.Join(args, " "))
	return true
}

func (r *REPL) cmdExport(_ context.Context, args []string) bool {
	format, dir := r.app.Config.Export.Format, r.app.Config.Export.Dir
	if len(args) > 0 {
		format = args[0]
	}
	if len(args) > 1 {
		dir = args[1]
	}
	path, err := exportSession(r.app.Store, format, dir, r.app.Config.UI.ShowTimestamps)
	if err != nil {
		r.app.Logger.Warn("export failed", zap.Error(err))
		fmt.Fprintf(r.out, "%s %v\n", ErrorStyle.Render("Export failed:"), err)
		return true
	}
	fmt.Fprintf(r.out, "%s %s\n", SuccessStyle.Render("Exported to"), path)
	return true
}

func (r *REPL) cmdHistory(_ context.Context, _ []string) bool {
	msgs := r.app.Store.Messages()
	if len(msgs) == 0 {
		fmt.Fprintln(r.out, DimStyle.Render("No messages yet"))
		return true
	}
	for i, msg := range msgs {
		label := msg.Role.DisplayName()
		if msg.Role == model.RoleAssistant {
			label = model.AgentLabel(msg.Agent)
		}
		fmt.Fprintf(r.out, "%3d. %-16s %s\n", i+1, label+":", msg.Preview(60))
	}
	return true
}

func (r *REPL) cmdStatus(_ context.Context, _ []string) bool {
	s := r.app.Metrics.Snapshot()
	fmt.Fprintf(r.out, "Session:   %s\n", r.app.Store.ID())
	fmt.Fprintf(r.out, "Messages:  %d\n", r.app.Store.Len())
	fmt.Fprintf(r.out, "Exchanges: %d (%d failed)\n", s.Exchanges, s.Failures)
	if s.Exchanges > 0 {
		fmt.Fprintf(r.out, "Latency:   %s avg\n", s.AverageLatency.Round(time.Millisecond))
	}
	fmt.Fprintf(r.out, "Backend:   %s\n", r.app.Client.BaseURL())
	return true
}

func (r *REPL) cmdQuit(_ context.Context, _ []string) bool {
	return false
}

// exportSession writes the current transcript and returns its path.
func exportSession(store *session.Store, format, dir string, timestamps bool) (string, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return "", err
	}
	opts := export.DefaultOptions()
	if dir != "" {
		opts.OutputDir = dir
	}
	opts.IncludeTimestamps = timestamps
	return export.ToFile(export.FromStore(store, time.Now()), f, opts)
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

func newChatCommand(appFn func() *App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat in line mode",
		Long: `Start a line-mode chat session with input history.

Type a message and press Enter. Ctrl+C while waiting stops waiting for the
reply; Ctrl+D or /quit exits. Type /help for the list of commands.`,
		Example: `  tutor chat
  tutor chat --plain
  tutor --api-url http://localhost:9000 chat`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), appFn(), cmd.OutOrStdout(), !plain)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "print replies without markdown rendering")
	return cmd
}

// runChat runs the interactive loop until /quit, Ctrl+D or Ctrl+C at the
// prompt.
func runChat(ctx context.Context, app *App, out io.Writer, markdown bool) error {
	markdown = markdown && app.Config.UI.Markdown && IsStdoutTTY()
	repl := NewREPL(app, out, markdown, GetTerminalWidth())
	repl.Greet(ctx)

	input := NewChatCLI()
	defer input.Close()

	for {
		line, err := input.ReadInput(PromptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C at the prompt, Ctrl+D or closed stdin.
			fmt.Fprintln(out)
			return nil
		}

		msgCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		cont := repl.Handle(msgCtx, line)
		stop()
		if !cont {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
