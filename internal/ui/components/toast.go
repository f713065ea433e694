// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tailchat/internal/ui/styles"
)

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	ToastKindStatus ToastKind = iota
	ToastKindError
)

// Toast durations.
const (
	DefaultToastDuration = 4 * time.Second
	ErrorToastDuration   = 8 * time.Second
)

// Toast is a transient one-line notice shown above the status bar.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// Expired reports whether the toast should be dismissed at now.
func (t Toast) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// ToastManager keeps the newest toasts. It is used from the update loop only.
type ToastManager struct {
	toasts    []Toast
	nextID    int
	maxToasts int
	now       func() time.Time
}

// NewToastManager creates a new toast manager. A nil now uses time.Now.
func NewToastManager(now func() time.Time) *ToastManager {
	if now == nil {
		now = time.Now
	}
	return &ToastManager{nextID: 1, maxToasts: 3, now: now}
}

// Add queues a toast and returns its ID. The newest toast comes first.
func (m *ToastManager) Add(kind ToastKind, message string) int {
	d := DefaultToastDuration
	if kind == ToastKindError {
		d = ErrorToastDuration
	}
	t := Toast{ID: m.nextID, Message: message, Kind: kind, CreatedAt: m.now(), Duration: d}
	m.nextID++

	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	return t.ID
}

// AddStatus queues an informational toast.
func (m *ToastManager) AddStatus(message string) int { return m.Add(ToastKindStatus, message) }

// AddError queues an error toast.
func (m *ToastManager) AddError(message string) int { return m.Add(ToastKindError, message) }

// Tick drops expired toasts and reports whether any remain.
func (m *ToastManager) Tick() bool {
	now := m.now()
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.Expired(now) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
	return len(m.toasts) > 0
}

// Toasts returns the live toasts, newest first.
func (m *ToastManager) Toasts() []Toast {
	return append([]Toast(nil), m.toasts...)
}

// Latest returns the newest toast.
func (m *ToastManager) Latest() (Toast, bool) {
	if len(m.toasts) == 0 {
		return Toast{}, false
	}
	return m.toasts[0], true
}

// ToastTickMsg is sent periodically while toasts are visible.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd ticks toasts every 250ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// RenderToast renders a toast as a single row of the given width.
func RenderToast(t Toast, theme *styles.Theme, width int) string {
	style := lipgloss.NewStyle().Foreground(styles.Cyan)
	icon := "[i]"
	if t.Kind == ToastKindError {
		style = theme.ErrorText
		icon = styles.StatusIndicators.Error
	}
	return lipgloss.NewStyle().
		Width(width).
		MaxWidth(width).
		Render(style.Render(icon) + " " + lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(t.Message))
}
