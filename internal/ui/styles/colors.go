// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tutor-tui/internal/model"
)

// =============================================================================
// AGENT COLORS
// =============================================================================

// Blue - Chat agent, and the fallback for unknown agent colors
var Blue = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#60A5FA"}

// BlueDeep - Chat agent badge background
var BlueDeep = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"}

// Green - Quiz agent
var Green = lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}

// GreenDeep - Quiz agent badge background
var GreenDeep = lipgloss.AdaptiveColor{Light: "#DCFCE7", Dark: "#14532D"}

// Purple - Explanation agent, selections
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// PurpleDeep - Explanation agent badge background
var PurpleDeep = lipgloss.AdaptiveColor{Light: "#EDE9FE", Dark: "#4C1D95"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Cyan - Brand color, user highlights
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Online status, success
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors, offline status
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// RoseDeep - Error bubble background
var RoseDeep = lipgloss.AdaptiveColor{Light: "#FFE4E6", Dark: "#4C0519"}

// Amber - Warnings, pending state
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE AND TEXT COLORS
// =============================================================================

var (
	Surface       = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}
	SurfaceDim    = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}
	SurfaceBright = lipgloss.AdaptiveColor{Light: "#FAFAFA", Dark: "#313244"}
	Border        = lipgloss.AdaptiveColor{Light: "#D4D4D8", Dark: "#45475A"}

	TextPrimary   = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#A6ADC8"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#7F849C"}
	TextInverse   = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#11111B"}
)

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

var (
	UserBubbleBg      = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#1D4ED8"}
	UserBubbleFg      = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#F8FAFC"}
	AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#262637"}
	AssistantBubbleFg = TextPrimary
)

// =============================================================================
// AGENT PALETTE
// =============================================================================

// AgentPalette is the foreground/background pair used for one agent color.
type AgentPalette struct {
	Fg lipgloss.AdaptiveColor
	Bg lipgloss.AdaptiveColor
}

var agentPalettes = map[model.AgentColor]AgentPalette{
	model.ColorBlue:   {Fg: Blue, Bg: BlueDeep},
	model.ColorGreen:  {Fg: Green, Bg: GreenDeep},
	model.ColorPurple: {Fg: Purple, Bg: PurpleDeep},
}

// AgentColor returns the palette for an agent color name. Unknown colors
// render blue.
func AgentColor(c model.AgentColor) AgentPalette {
	return agentPalettes[c.Normalize()]
}

// ErrorPalette is used for replies from the "error" pseudo-agent.
func ErrorPalette() AgentPalette {
	return AgentPalette{Fg: Rose, Bg: RoseDeep}
}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicators provides glyphs that carry meaning without color.
var StatusIndicators = struct {
	Online  string
	Offline string
	Unknown string
	Error   string
	Pending string
}{
	Online:  "●",
	Offline: "○",
	Unknown: "◌",
	Error:   "✗",
	Pending: "…",
}

// RenderError renders msg with the error indicator in Rose.
func RenderError(msg string) string {
	return lipgloss.NewStyle().Foreground(Rose).Render(StatusIndicators.Error + " " + msg)
}

// RenderMuted renders msg in the muted text color.
func RenderMuted(msg string) string {
	return lipgloss.NewStyle().Foreground(TextMuted).Render(msg)
}
