// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/tutor-tui/internal/model"
)

func TestAgentColor(t *testing.T) {
	assert.Equal(t, Blue, AgentColor(model.ColorBlue).Fg)
	assert.Equal(t, Green, AgentColor(model.ColorGreen).Fg)
	assert.Equal(t, Purple, AgentColor(model.ColorPurple).Fg)
	assert.Equal(t, PurpleDeep, AgentColor(model.ColorPurple).Bg)
}

func TestAgentColor_UnknownFallsBackToBlue(t *testing.T) {
	for _, c := range []model.AgentColor{"", "orange", "BLUE"} {
		assert.Equal(t, AgentColor(model.ColorBlue), AgentColor(c), "color %q", c)
	}
}

func TestErrorPalette(t *testing.T) {
	assert.Equal(t, Rose, ErrorPalette().Fg)
}

func TestNewTheme_Modes(t *testing.T) {
	dark := NewTheme("dark")
	assert.True(t, dark.IsDark)
	assert.Equal(t, ModeDark, dark.Mode)

	light := NewTheme(" Light ")
	assert.False(t, light.IsDark)
	assert.Equal(t, ModeLight, light.Mode)

	other := NewTheme("neon")
	assert.Equal(t, ModeAuto, other.Mode)
}

func TestLayoutMode(t *testing.T) {
	th := NewTheme("dark")
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}
	for _, tt := range tests {
		th.SetSize(tt.width, 40)
		assert.Equal(t, tt.want, th.GetLayoutMode(), "width %d", tt.width)
	}
	th.SetSize(120, 40)
	assert.True(t, th.SidebarFits())
	th.SetSize(80, 40)
	assert.False(t, th.SidebarFits())
}

func TestRenderHelpersKeepText(t *testing.T) {
	assert.Contains(t, RenderError("boom"), "boom")
	assert.Contains(t, RenderMuted("quiet"), "quiet")
}
