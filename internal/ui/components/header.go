// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tutor-tui/internal/ui/styles"
)

// =============================================================================
// HEADER
// =============================================================================

// Title is the application title shown in the header.
const Title = "AI Teaching Assistant"

// Connection is the backend reachability shown in the header.
type Connection int

const (
	ConnectionUnknown Connection = iota
	ConnectionOnline
	ConnectionOffline
)

// String returns the display text for the connection state.
func (c Connection) String() string {
	switch c {
	case ConnectionOnline:
		return "Online"
	case ConnectionOffline:
		return "Offline"
	default:
		return "Connecting"
	}
}

// Header is the title bar with backend status.
type Header struct {
	Width      int
	Connection Connection
	BackendURL string
	theme      *styles.Theme
}

// NewHeader creates a header.
func NewHeader(theme *styles.Theme) Header {
	return Header{Width: 80, theme: theme}
}

// View renders the header across the full width.
func (h Header) View() string {
	left := h.theme.HeaderTitle.Render("🎓 " + Title)

	var status string
	switch h.Connection {
	case ConnectionOnline:
		status = h.theme.StatusOnline.Render(styles.StatusIndicators.Online + " " + h.Connection.String())
	case ConnectionOffline:
		status = h.theme.StatusOffline.Render(styles.StatusIndicators.Offline + " " + h.Connection.String())
	default:
		status = h.theme.StatusUnknown.Render(styles.StatusIndicators.Unknown + " " + h.Connection.String())
	}
	if h.BackendURL != "" && h.Width >= 80 {
		status = styles.RenderMuted(h.BackendURL) + "  " + status
	}

	inner := h.Width - 2
	gap := inner - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return h.theme.Header.Width(h.Width).Render(left + strings.Repeat(" ", gap) + status)
}
