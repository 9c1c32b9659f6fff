// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/tutor-tui/internal/model"
)

// Theme modes accepted by NewTheme (ui.theme in the config).
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// SidebarWidth is the fixed width of the sidebar in wide layouts.
const SidebarWidth = 32

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	Mode         string
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header        lipgloss.Style
	HeaderTitle   lipgloss.Style
	StatusOnline  lipgloss.Style
	StatusOffline lipgloss.Style
	StatusUnknown lipgloss.Style

	// ==========================================================================
	// MESSAGES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	RoleLabel       lipgloss.Style
	Timestamp       lipgloss.Style
	Thinking        lipgloss.Style

	// ==========================================================================
	// SIDEBAR
	// ==========================================================================

	Sidebar         lipgloss.Style
	SidebarTitle    lipgloss.Style
	SidebarItem     lipgloss.Style
	SidebarMuted    lipgloss.Style
	SidebarKey      lipgloss.Style
	SidebarDisabled lipgloss.Style

	// ==========================================================================
	// EMPTY STATE
	// ==========================================================================

	WelcomeTitle    lipgloss.Style
	WelcomeSubtitle lipgloss.Style
	FeatureCard     lipgloss.Style
	FeatureTitle    lipgloss.Style

	// ==========================================================================
	// INPUT AND STATUS BAR
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	StatusBar      lipgloss.Style
	StatusError    lipgloss.Style
	StatusInfo     lipgloss.Style
	HelpKey        lipgloss.Style
	HelpDesc       lipgloss.Style
}

// NewTheme creates a theme for mode ("auto", "dark" or "light"). Unknown
// modes behave like "auto".
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	mode = strings.ToLower(strings.TrimSpace(mode))
	var isDark bool
	switch mode {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	default:
		mode = ModeAuto
		isDark = termenv.HasDarkBackground()
	}
	// AdaptiveColor resolves against the default renderer.
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		Mode:         mode,
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	// Header
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Border).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.StatusOnline = lipgloss.NewStyle().Foreground(Emerald)
	t.StatusOffline = lipgloss.NewStyle().Foreground(Rose)
	t.StatusUnknown = lipgloss.NewStyle().Foreground(TextMuted)

	// Messages
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		Padding(0, 1)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)
	t.RoleLabel = lipgloss.NewStyle().Bold(true)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.Thinking = lipgloss.NewStyle().Foreground(Amber).Italic(true)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		Width(SidebarWidth).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Border).
		Padding(0, 1)
	t.SidebarTitle = lipgloss.NewStyle().Bold(true).Foreground(TextSecondary).MarginTop(1)
	t.SidebarItem = lipgloss.NewStyle().Foreground(TextPrimary)
	t.SidebarMuted = lipgloss.NewStyle().Foreground(TextMuted)
	t.SidebarKey = lipgloss.NewStyle().Foreground(Cyan)
	t.SidebarDisabled = lipgloss.NewStyle().Foreground(TextMuted).Faint(true)

	// Empty state
	t.WelcomeTitle = lipgloss.NewStyle().Bold(true).Foreground(Cyan)
	t.WelcomeSubtitle = lipgloss.NewStyle().Foreground(TextSecondary)
	t.FeatureCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1).
		Width(24)
	t.FeatureTitle = lipgloss.NewStyle().Bold(true)

	// Input and status bar
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Foreground(Purple).Bold(true)
	t.StatusBar = lipgloss.NewStyle().Foreground(TextMuted).Padding(0, 1)
	t.StatusError = lipgloss.NewStyle().Foreground(Rose)
	t.StatusInfo = lipgloss.NewStyle().Foreground(Emerald)
	t.HelpKey = lipgloss.NewStyle().Foreground(Cyan)
	t.HelpDesc = lipgloss.NewStyle().Foreground(TextMuted)
}

// AgentBadge returns the badge style for an agent color.
func (t *Theme) AgentBadge(c model.AgentColor) lipgloss.Style {
	p := AgentColor(c)
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Fg).
		Background(p.Bg).
		Padding(0, 1)
}

// ErrorBadge returns the badge style for failed replies.
func (t *Theme) ErrorBadge() lipgloss.Style {
	p := ErrorPalette()
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Fg).
		Background(p.Bg).
		Padding(0, 1)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// SidebarFits reports whether the sidebar can be shown next to the chat.
func (t *Theme) SidebarFits() bool {
	return t.GetLayoutMode() == LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)
