// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tailchat/internal/ui/styles"
)

// DefaultMaxChars is the prompt length limit.
const DefaultMaxChars = 4096

// InputAreaHeight is the number of rows InputArea.View occupies.
const InputAreaHeight = 3

// Placeholders shown in the empty input.
const (
	PlaceholderReady     = "Type a prompt and press Enter..."
	PlaceholderStreaming = "Reply streaming, Esc to stop"
)

// InputArea is the bordered prompt input.
type InputArea struct {
	input    textinput.Model
	maxChars int
	width    int
	focused  bool
	theme    *styles.Theme
}

// NewInputArea creates a new InputArea component.
func NewInputArea(theme *styles.Theme) *InputArea {
	ti := textinput.New()
	ti.Placeholder = PlaceholderReady
	ti.CharLimit = DefaultMaxChars
	ti.Prompt = "> "
	ti.PromptStyle = theme.InputPrompt
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Cyan)

	return &InputArea{
		input:    ti,
		maxChars: DefaultMaxChars,
		width:    80,
		theme:    theme,
	}
}

// Focus focuses the input.
func (i *InputArea) Focus() tea.Cmd {
	i.focused = true
	return i.input.Focus()
}

// SetWidth sets the input area width.
func (i *InputArea) SetWidth(width int) {
	i.width = width
	// Border, padding, prompt and the counter.
	inputWidth := width - 20
	if inputWidth < 10 {
		inputWidth = 10
	}
	i.input.Width = inputWidth
}

// SetPlaceholder sets the placeholder text.
func (i *InputArea) SetPlaceholder(placeholder string) {
	i.input.Placeholder = placeholder
}

// Value returns the current input value.
func (i *InputArea) Value() string {
	return i.input.Value()
}

// SetValue sets the input value.
func (i *InputArea) SetValue(value string) {
	i.input.SetValue(value)
}

// Reset clears the input.
func (i *InputArea) Reset() {
	i.input.Reset()
}

// Update handles input updates.
func (i *InputArea) Update(msg tea.Msg) (*InputArea, tea.Cmd) {
	var cmd tea.Cmd
	i.input, cmd = i.input.Update(msg)
	return i, cmd
}

// View renders the input area.
func (i *InputArea) View() string {
	border := styles.Overlay
	if i.focused {
		border = styles.Cyan
	}
	counter := i.counterStyle().Render(fmtNumber(len([]rune(i.input.Value()))) + "/" + fmtNumber(i.maxChars))

	inner := i.width - 4
	gap := inner - lipgloss.Width(i.input.View()) - lipgloss.Width(counter)
	if gap < 1 {
		gap = 1
	}
	line := i.input.View() + lipgloss.NewStyle().Width(gap).Render("") + counter

	return i.theme.InputContainer.
		BorderForeground(border).
		Width(i.width - 2).
		MaxHeight(InputAreaHeight).
		Render(line)
}

// counterStyle colors the counter as the limit gets close.
func (i *InputArea) counterStyle() lipgloss.Style {
	percent := 0.0
	if i.maxChars > 0 {
		percent = float64(len([]rune(i.input.Value()))) / float64(i.maxChars) * 100
	}
	switch {
	case percent >= 90:
		return lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
	case percent >= 75:
		return lipgloss.NewStyle().Foreground(styles.Amber)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}
