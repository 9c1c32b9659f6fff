// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/tutor-tui/internal/agentapi"
	"github.com/jeranaias/tutor-tui/internal/config"
	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/orchestrator"
	"github.com/jeranaias/tutor-tui/internal/session"
	"github.com/jeranaias/tutor-tui/internal/telemetry"
	"github.com/jeranaias/tutor-tui/internal/ui/components"
	"github.com/jeranaias/tutor-tui/internal/ui/styles"
)

// HealthInterval is how often the header status is refreshed.
const HealthInterval = 30 * time.Second

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Exchanger is the orchestrator surface the view drives.
type Exchanger interface {
	Submit(text string) (<-chan model.Message, error)
	Clear() error
	State() orchestrator.State
	Store() *session.Store
}

// AgentSource is the agent directory.
type AgentSource interface {
	Load(ctx context.Context) []model.Agent
	Lookup(name string) (model.Agent, bool)
}

// Backend is the part of the transport used for status and routing previews.
type Backend interface {
	BaseURL() string
	Health(ctx context.Context) (*agentapi.HealthStatus, error)
	Route(ctx context.Context, text string) (*agentapi.RoutePreview, error)
}

// StatsSource reports session statistics for /status.
type StatsSource interface {
	Snapshot() telemetry.Stats
}

// Options configures New. Exchanger and Agents are required.
type Options struct {
	Exchanger Exchanger
	Agents    AgentSource
	Backend   Backend
	Stats     StatsSource
	Config    *config.Config
	Logger    *zap.Logger
	Now       func() time.Time
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	exchanger Exchanger
	agents    AgentSource
	backend   Backend
	stats     StatsSource
	logger    *zap.Logger
	now       func() time.Time

	cfg   *config.Config
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Store subscription
	events    <-chan session.Event
	stopWatch func()

	// Snapshot of the store, refreshed on every StoreEventMsg
	messages []model.Message
	pending  bool

	// Agent directory
	agentList    []model.Agent
	agentsLoaded bool

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	help     help.Model
	keyMap   KeyMap

	header  components.Header
	sidebar components.Sidebar
	welcome components.Welcome

	showSidebar bool
	showHelp    bool

	// Status line
	statusMsg  string
	statusKind statusKind
}

// New creates the chat model and subscribes to the store. Call Close when
// the program exits.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	theme := styles.NewTheme(cfg.UI.Theme)

	input := textinput.New()
	input.Placeholder = "Ask me anything... (try \"Create a quiz on Python\")"
	input.Prompt = "❯ "
	input.PromptStyle = theme.InputPrompt
	input.CharLimit = 4000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Thinking

	events, stop := opts.Exchanger.Store().Watch()

	m := Model{
		exchanger:   opts.Exchanger,
		agents:      opts.Agents,
		backend:     opts.Backend,
		stats:       opts.Stats,
		logger:      logger.Named("tui"),
		now:         now,
		cfg:         cfg,
		theme:       theme,
		events:      events,
		stopWatch:   stop,
		viewport:    viewport.New(80, 20),
		input:       input,
		spinner:     sp,
		help:        help.New(),
		keyMap:      DefaultKeyMap(),
		header:      components.NewHeader(theme),
		sidebar:     components.NewSidebar(theme),
		welcome:     components.NewWelcome(theme),
		showSidebar: cfg.UI.Sidebar,
	}
	if opts.Backend != nil {
		m.header.BackendURL = opts.Backend.BaseURL()
	}
	m.refreshSnapshot()
	return m
}

// Close stops the store subscription.
func (m Model) Close() {
	if m.stopWatch != nil {
		m.stopWatch()
	}
}

// Init starts the store watch, the agent load and the first health probe.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		waitForStoreEvent(m.events),
		loadAgentsCmd(m.agents),
		healthCmd(m.backend),
	)
}

// Update handles Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StoreEventMsg:
		wasPending := m.pending
		m.refreshSnapshot()
		cmds := []tea.Cmd{waitForStoreEvent(m.events)}
		if m.pending && !wasPending {
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case storeClosedMsg:
		return m, nil

	case ReplyMsg:
		if msg.Reply.IsError() {
			m.setStatus(statusError, "The backend did not answer. Check that it is running.")
		} else {
			m.clearStatus()
		}
		return m, nil

	case AgentsLoadedMsg:
		m.agentList = msg.Agents
		m.agentsLoaded = true
		m.updateViewport()
		return m, nil

	case HealthMsg:
		switch {
		case msg.Err != nil:
			m.header.Connection = components.ConnectionOffline
			m.logger.Debug("health probe failed", zap.Error(msg.Err))
		case msg.Status != nil && msg.Status.Healthy():
			m.header.Connection = components.ConnectionOnline
		default:
			m.header.Connection = components.ConnectionOffline
		}
		return m, tea.Tick(HealthInterval, func(time.Time) tea.Msg { return healthTickMsg{} })

	case healthTickMsg:
		return m, healthCmd(m.backend)

	case RouteMsg:
		if msg.Err != nil {
			m.setStatus(statusError, "Route preview failed: "+msg.Err.Error())
		} else {
			m.setStatus(statusInfo, "Would route to "+model.AgentLabel(msg.Preview.Agent))
		}
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			m.setStatus(statusError, "Export failed: "+msg.Err.Error())
		} else {
			m.setStatus(statusInfo, "Exported to "+msg.Path)
		}
		return m, nil

	case ConfigChangedMsg:
		m.applyConfig(msg.Config)
		return m, nil

	case ConfigErrorMsg:
		m.setStatus(statusError, "Config reload failed: "+msg.Err.Error())
		return m, nil

	case spinner.TickMsg:
		if !m.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// =============================================================================
// STATE HELPERS
// =============================================================================

func (m *Model) refreshSnapshot() {
	store := m.exchanger.Store()
	m.messages = store.Messages()
	m.pending = store.Pending()
	m.updateViewport()
}

// applyConfig takes the UI toggles from a reloaded config. The backend URL
// only applies on restart.
func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.UI.Theme != m.cfg.UI.Theme {
		m.theme = styles.NewTheme(cfg.UI.Theme)
		m.header = rebuildHeader(m.header, m.theme)
		m.sidebar = components.NewSidebar(m.theme)
		m.welcome = components.NewWelcome(m.theme)
	}
	if cfg.UI.Sidebar != m.cfg.UI.Sidebar {
		m.showSidebar = cfg.UI.Sidebar
	}
	m.cfg = cfg
	m.layout()
	m.setStatus(statusInfo, "Config reloaded")
}

func rebuildHeader(old components.Header, theme *styles.Theme) components.Header {
	h := components.NewHeader(theme)
	h.Width = old.Width
	h.Connection = old.Connection
	h.BackendURL = old.BackendURL
	return h
}

func (m *Model) setStatus(kind statusKind, msg string) {
	m.statusKind = kind
	m.statusMsg = msg
}

func (m *Model) clearStatus() {
	m.statusMsg = ""
}

func (m Model) lookupAgent(name string) (model.Agent, bool) {
	if m.agents == nil {
		return model.Agent{}, false
	}
	return m.agents.Lookup(name)
}
