// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tailchat/internal/ui/components"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the chat screen.
// Layout: header (1) + viewport with indicator + notice row (1) + input (3) + status (1).
// The viewport height is set in resize from chromeRows; keep the two in sync.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		m.viewport.View(),
		m.renderNotice(),
		m.input.View(),
		m.statusBar.View(),
	)
	if lipgloss.Height(view) > m.height {
		view = lipgloss.NewStyle().MaxHeight(m.height).Render(view)
	}
	return view
}

// renderNotice fills the row above the input: the jump button while the
// reader is away from the bottom, else the newest toast, else the streaming
// spinner.
func (m Model) renderNotice() string {
	if m.jump.Visible {
		return m.jump.View()
	}
	if t, ok := m.toasts.Latest(); ok {
		return components.RenderToast(t, m.theme, m.width)
	}
	if m.spinner.IsActive() {
		return lipgloss.NewStyle().Width(m.width).MaxWidth(m.width).Render(m.spinner.View())
	}
	return lipgloss.NewStyle().Width(m.width).Render("")
}
