// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"unicode"
	"unicode/utf8"
)

// AgentColor is the display colour name an agent advertises.
// The set is open; unknown values render as ColorBlue.
type AgentColor string

const (
	ColorBlue   AgentColor = "blue"
	ColorGreen  AgentColor = "green"
	ColorPurple AgentColor = "purple"
)

// Agent describes a backend capability that can produce replies.
type Agent struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Color       AgentColor `json:"color"`
}

// Label returns the display label, e.g. "Quiz Agent" for "quiz".
func (a Agent) Label() string {
	return AgentLabel(a.Name)
}

// AgentLabel builds the display label for an agent name.
func AgentLabel(name string) string {
	if name == "" {
		return "Assistant"
	}
	if name == ErrorAgent {
		return "Error"
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:] + " Agent"
}

// Normalize maps unknown colours to ColorBlue.
func (c AgentColor) Normalize() AgentColor {
	switch c {
	case ColorBlue, ColorGreen, ColorPurple:
		return c
	default:
		return ColorBlue
	}
}
