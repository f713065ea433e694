// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tailchat/internal/ui/styles"
	"github.com/jeranaias/tailchat/internal/util"
)

// Header is the one-row title bar.
type Header struct {
	Title     string // Brand (default: "tailchat")
	Subtitle  string // Transcript title
	Remaining int    // Scripted replies left; negative hides the counter
	Width     int
	theme     *styles.Theme
}

// NewHeader creates a new Header component with default values.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title:     "tailchat",
		Remaining: -1,
		Width:     80,
		theme:     theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header.
func (h *Header) View() string {
	accent := lipgloss.NewStyle().Foreground(styles.Purple)
	left := accent.Render("< ") + h.theme.HeaderTitle.Render(h.Title) + accent.Render(" >")

	right := ""
	if h.Remaining >= 0 {
		right = h.theme.HeaderHint.Render(fmt.Sprintf("%d scripted replies left", h.Remaining))
	}

	// Whatever room is left goes to the subtitle.
	room := h.Width - lipgloss.Width(left) - lipgloss.Width(right) - 6
	middle := ""
	if h.Subtitle != "" && room > 3 {
		middle = h.theme.HeaderHint.Render(util.TruncateWidth(h.Subtitle, room))
	}

	content := left
	if middle != "" {
		content += "  " + middle
	}
	gap := h.Width - lipgloss.Width(content) - lipgloss.Width(right) - 2
	if gap < 1 {
		right, gap = "", 1
	}
	return h.theme.Header.
		Width(h.Width).
		MaxWidth(h.Width).
		Render(content + strings.Repeat(" ", gap) + right)
}
