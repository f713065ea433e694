// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tailchat/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - bottom status bar
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusComposing
	StatusStreaming
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusComposing:
		return "Composing..."
	case StatusStreaming:
		return "Streaming..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns a shape for the status so it reads without color.
func (s Status) Icon() string {
	switch s {
	case StatusStreaming, StatusComposing:
		return styles.StatusIndicators.Streaming
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "-"
	}
}

// StatusBar shows follow state, stream status and counters.
type StatusBar struct {
	Following     bool
	Status        Status
	Messages      int
	Tokens        int
	TokensPerSec  float64
	Autoplay      bool
	Watching      bool
	Width         int
	ShowShortcuts bool
	theme         *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Following:     true,
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// FollowBadge renders FOLLOW or DETACHED.
func (s *StatusBar) FollowBadge() string {
	if s.Following {
		return s.theme.FollowBadge.Render(styles.StatusIndicators.Following + " FOLLOW")
	}
	return s.theme.DetachedBadge.Render(styles.StatusIndicators.Detached + " DETACHED")
}

// View renders the status bar in the layout that fits its width.
func (s *StatusBar) View() string {
	var parts []string
	switch {
	case s.Width < 60:
		parts = s.narrowParts()
	case s.Width < 100:
		parts = s.mediumParts()
	default:
		parts = s.wideParts()
	}

	sep := s.theme.StatusText.Render(" | ")
	left := strings.Join(parts, sep)

	right := ""
	if s.ShowShortcuts && s.Width >= 60 {
		right = s.renderShortcuts()
	}

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		right = ""
		gap = 1
	}
	return s.theme.StatusBar.
		Width(s.Width).
		MaxWidth(s.Width).
		Render(left + strings.Repeat(" ", gap) + right)
}

func (s *StatusBar) narrowParts() []string {
	return []string{s.FollowBadge(), s.statusStyle().Render(s.Status.Icon())}
}

func (s *StatusBar) mediumParts() []string {
	return []string{
		s.FollowBadge(),
		s.statusStyle().Render(s.Status.Icon() + " " + s.Status.String()),
		s.theme.StatusText.Render(fmt.Sprintf("%d msgs", s.Messages)),
	}
}

func (s *StatusBar) wideParts() []string {
	parts := s.mediumParts()
	if s.Tokens > 0 {
		parts = append(parts, s.theme.StatusText.Render(
			fmt.Sprintf("%s tokens @ %.0f tok/s", fmtNumber(s.Tokens), s.TokensPerSec)))
	}
	var flags []string
	if s.Autoplay {
		flags = append(flags, "autoplay")
	}
	if s.Watching {
		flags = append(flags, "watching")
	}
	if len(flags) > 0 {
		parts = append(parts, s.theme.StatusText.Render(strings.Join(flags, ",")))
	}
	return parts
}

func (s *StatusBar) renderShortcuts() string {
	keyStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	shortcuts := []string{
		keyStyle.Render("End") + descStyle.Render(" latest"),
		keyStyle.Render("^L") + descStyle.Render(" clear"),
		keyStyle.Render("^C") + descStyle.Render(" quit"),
	}
	return strings.Join(shortcuts, " ")
}

func (s *StatusBar) statusStyle() lipgloss.Style {
	switch s.Status {
	case StatusStreaming, StatusComposing:
		return lipgloss.NewStyle().Foreground(styles.Purple).Bold(true)
	case StatusError:
		return s.theme.ErrorText
	default:
		return lipgloss.NewStyle().Foreground(styles.Emerald)
	}
}
