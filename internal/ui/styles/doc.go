// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the tutor TUI.

Colors are Lip Gloss AdaptiveColor values, resolved against the terminal
background or the ui.theme override passed to NewTheme.

# Agent Colors

Agents advertise a color name. AgentColor maps it to a palette:

  - blue   - chat agent, and any unknown color
  - green  - quiz agent
  - purple - explanation agent

Failed replies use ErrorPalette (Rose).

# Layout

Theme.GetLayoutMode buckets the terminal width into narrow, medium and wide.
The sidebar only renders in the wide layout.
*/
package styles
