// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tailchat/internal/ui/styles"
)

// JumpButton is the "jump to latest" affordance shown while the reader is
// scrolled away from the newest content.
type JumpButton struct {
	Visible   bool
	Streaming bool
	Below     int
	Width     int
	theme     *styles.Theme
}

// NewJumpButton creates a hidden JumpButton.
func NewJumpButton(theme *styles.Theme) *JumpButton {
	return &JumpButton{theme: theme}
}

// Label returns the button text.
func (j *JumpButton) Label() string {
	text := "v Jump to latest"
	if j.Streaming {
		text = "v New output"
	}
	if j.Below > 0 {
		text += fmt.Sprintf(" (%d)", j.Below)
	}
	return text + " [End]"
}

// View renders the button right-aligned in its row, or an empty row when
// hidden.
func (j *JumpButton) View() string {
	row := lipgloss.NewStyle().Width(j.Width).Align(lipgloss.Right)
	if !j.Visible {
		return row.Render("")
	}
	return row.Render(j.theme.JumpButton.Render(j.Label()))
}
