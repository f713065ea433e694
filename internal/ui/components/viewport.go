// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tailchat/internal/follow"
	"github.com/jeranaias/tailchat/internal/ui/styles"
)

// MouseWheelLines is how far one wheel notch scrolls.
const MouseWheelLines = 3

// =============================================================================
// SCROLL KEYS
// =============================================================================

// ScrollKeyMap holds the keys the viewport reacts to. Printable keys are left
// out so they keep reaching the text input.
type ScrollKeyMap struct {
	LineUp   key.Binding
	LineDown key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
}

// DefaultScrollKeyMap returns the default scroll bindings.
func DefaultScrollKeyMap() ScrollKeyMap {
	return ScrollKeyMap{
		LineUp:   key.NewBinding(key.WithKeys("up", "ctrl+k"), key.WithHelp("up", "scroll up")),
		LineDown: key.NewBinding(key.WithKeys("down", "ctrl+j"), key.WithHelp("down", "scroll down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:      key.NewBinding(key.WithKeys("home", "ctrl+home"), key.WithHelp("home", "oldest")),
	}
}

// =============================================================================
// CHAT VIEWPORT COMPONENT - Scrollable chat area with indicators
// =============================================================================

// ChatViewport is the chat pane. It wraps a bubbles viewport and exposes it
// as the follow.ScrollHost of the feed: rows are the scroll unit, the offset
// is the viewport's YOffset and the visible height is its Height.
//
// One row under the viewport is reserved for the scroll indicator and one
// column beside it for the scrollbar.
type ChatViewport struct {
	viewport  viewport.Model
	keys      ScrollKeyMap
	scrollbar *ScrollBar
	width     int
	height    int
	ready     bool
	theme     *styles.Theme
	onScroll  func()
}

// NewChatViewport creates a new ChatViewport.
func NewChatViewport(theme *styles.Theme) *ChatViewport {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle()
	// Scrolling goes through ScrollKeyMap so every move is reported.
	vp.KeyMap = viewport.KeyMap{}
	vp.MouseWheelEnabled = false

	return &ChatViewport{
		viewport:  vp,
		keys:      DefaultScrollKeyMap(),
		scrollbar: NewScrollBar(theme),
		theme:     theme,
	}
}

// OnScroll registers fn to run after every user-initiated scroll.
func (cv *ChatViewport) OnScroll(fn func()) {
	cv.onScroll = fn
}

// SetSize updates the viewport dimensions. Zero sizes leave the viewport
// unlaid-out with no visible rows.
func (cv *ChatViewport) SetSize(width, height int) {
	cv.width = width
	cv.height = height
	cv.viewport.Width = maxInt0(width - 2)
	cv.viewport.Height = maxInt0(height - 1)
	cv.scrollbar.SetHeight(cv.viewport.Height)
	cv.ready = width > 0 && height > 0
	// Re-clamp the offset for the new height.
	cv.viewport.SetYOffset(cv.viewport.YOffset)
}

// ContentWidth is the width available to rendered messages.
func (cv *ChatViewport) ContentWidth() int {
	return cv.viewport.Width
}

// SetContent replaces the rendered feed. The offset is kept, clamped to the
// new content.
func (cv *ChatViewport) SetContent(content string) {
	cv.viewport.SetContent(content)
	cv.viewport.SetYOffset(cv.viewport.YOffset)
}

// =============================================================================
// follow.ScrollHost / follow.Node
// =============================================================================

// ScrollTop returns the first visible row.
func (cv *ChatViewport) ScrollTop() int { return cv.viewport.YOffset }

// SetScrollTop moves the first visible row, clamped to the content.
func (cv *ChatViewport) SetScrollTop(offset int) { cv.viewport.SetYOffset(offset) }

// ScrollHeight returns the total number of content rows.
func (cv *ChatViewport) ScrollHeight() int { return cv.viewport.TotalLineCount() }

// ClientHeight returns the number of visible rows.
func (cv *ChatViewport) ClientHeight() int { return cv.viewport.Height }

// Parent returns nil; the viewport is the root scroller.
func (cv *ChatViewport) Parent() follow.Node { return nil }

func (cv *ChatViewport) Overflow() follow.Overflow  { return follow.OverflowHidden }
func (cv *ChatViewport) OverflowY() follow.Overflow { return follow.OverflowAuto }

// =============================================================================
// SCROLLING
// =============================================================================

// ScrollUp scrolls up by the specified number of lines.
func (cv *ChatViewport) ScrollUp(lines int) {
	cv.viewport.SetYOffset(cv.viewport.YOffset - lines)
	cv.scrolled()
}

// ScrollDown scrolls down by the specified number of lines.
func (cv *ChatViewport) ScrollDown(lines int) {
	cv.viewport.SetYOffset(cv.viewport.YOffset + lines)
	cv.scrolled()
}

// PageUp scrolls up by one page.
func (cv *ChatViewport) PageUp() {
	cv.ScrollUp(maxInt0(cv.viewport.Height - 1))
}

// PageDown scrolls down by one page.
func (cv *ChatViewport) PageDown() {
	cv.ScrollDown(maxInt0(cv.viewport.Height - 1))
}

// ScrollToTop scrolls to the oldest content.
func (cv *ChatViewport) ScrollToTop() {
	cv.viewport.GotoTop()
	cv.scrolled()
}

func (cv *ChatViewport) scrolled() {
	if cv.onScroll != nil {
		cv.onScroll()
	}
}

// AtTop returns true if the viewport is at the top.
func (cv *ChatViewport) AtTop() bool {
	return cv.viewport.AtTop()
}

// AtBottom returns true if the viewport is at the bottom.
func (cv *ChatViewport) AtBottom() bool {
	return cv.viewport.AtBottom()
}

// LinesBelow returns the number of content rows under the visible area.
func (cv *ChatViewport) LinesBelow() int {
	return maxInt0(follow.DistanceFromBottom(cv))
}

// ScrollPercent returns the scroll position as a fraction.
func (cv *ChatViewport) ScrollPercent() float64 {
	return cv.viewport.ScrollPercent()
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Update handles scroll keys and the mouse wheel. It reports whether the
// message was consumed.
func (cv *ChatViewport) Update(msg tea.Msg) (handled bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, cv.keys.LineUp):
			cv.ScrollUp(1)
		case key.Matches(msg, cv.keys.LineDown):
			cv.ScrollDown(1)
		case key.Matches(msg, cv.keys.PageUp):
			cv.PageUp()
		case key.Matches(msg, cv.keys.PageDown):
			cv.PageDown()
		case key.Matches(msg, cv.keys.Top):
			cv.ScrollToTop()
		default:
			return false
		}
		return true

	case tea.MouseMsg:
		switch msg.Type {
		case tea.MouseWheelUp:
			cv.ScrollUp(MouseWheelLines)
			return true
		case tea.MouseWheelDown:
			cv.ScrollDown(MouseWheelLines)
			return true
		}
	}
	return false
}

// View renders the viewport with its scrollbar and indicator row.
func (cv *ChatViewport) View() string {
	if !cv.ready {
		return ""
	}

	cv.scrollbar.SetPosition(cv.ScrollPercent())
	if total := cv.ScrollHeight(); total > 0 {
		cv.scrollbar.SetContentRatio(float64(cv.ClientHeight()) / float64(total))
	} else {
		cv.scrollbar.SetContentRatio(1)
	}

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		lipgloss.NewStyle().Width(cv.viewport.Width).Render(cv.viewport.View()),
		" ",
		cv.scrollbar.View(),
	)
	return body + "\n" + cv.renderIndicator()
}

// renderIndicator renders the row under the viewport: what lies above or
// below the visible area, or nothing.
func (cv *ChatViewport) renderIndicator() string {
	style := cv.theme.ScrollIndicator.
		Width(cv.width).
		Align(lipgloss.Center)

	below := cv.LinesBelow()
	switch {
	case below > 0:
		return style.Render(fmt.Sprintf("v %d more below [%d/%d] v",
			below, cv.ScrollTop()+1, follow.MaxScrollTop(cv)+1))
	case !cv.AtTop():
		return style.Render("^ scroll up for history ^")
	default:
		return style.Render("")
	}
}

// =============================================================================
// SCROLL BAR COMPONENT
// =============================================================================

// ScrollBar represents a vertical scroll bar.
type ScrollBar struct {
	Height       int
	ScrollPos    float64 // 0.0 to 1.0
	ContentRatio float64 // visible / total
	theme        *styles.Theme
}

// NewScrollBar creates a new ScrollBar.
func NewScrollBar(theme *styles.Theme) *ScrollBar {
	return &ScrollBar{
		ContentRatio: 1.0,
		theme:        theme,
	}
}

// SetHeight sets the scroll bar height.
func (sb *ScrollBar) SetHeight(height int) {
	sb.Height = height
}

// SetPosition sets the scroll position (0.0 to 1.0).
func (sb *ScrollBar) SetPosition(pos float64) {
	sb.ScrollPos = clamp01(pos)
}

// SetContentRatio sets the ratio of visible to total content.
func (sb *ScrollBar) SetContentRatio(ratio float64) {
	if ratio < 0.1 {
		ratio = 0.1
	}
	sb.ContentRatio = clamp01(ratio)
}

// View renders the scroll bar.
func (sb *ScrollBar) View() string {
	if sb.Height <= 0 {
		return ""
	}
	if sb.ContentRatio >= 1.0 {
		return sb.theme.ScrollTrack.Render(strings.TrimSuffix(strings.Repeat("|\n", sb.Height), "\n"))
	}

	thumbSize := int(float64(sb.Height) * sb.ContentRatio)
	if thumbSize < 1 {
		thumbSize = 1
	}
	scrollableTrack := sb.Height - thumbSize
	thumbPos := int(float64(scrollableTrack)*sb.ScrollPos + 0.5)
	if thumbPos > scrollableTrack {
		thumbPos = scrollableTrack
	}

	rows := make([]string, sb.Height)
	for i := range rows {
		if i >= thumbPos && i < thumbPos+thumbSize {
			rows[i] = sb.theme.ScrollThumb.Render("#")
		} else {
			rows[i] = sb.theme.ScrollTrack.Render("|")
		}
	}
	return strings.Join(rows, "\n")
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func maxInt0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
