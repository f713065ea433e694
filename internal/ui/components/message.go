// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tailchat/internal/follow"
	"github.com/jeranaias/tailchat/internal/model"
	"github.com/jeranaias/tailchat/internal/ui/styles"
	"github.com/jeranaias/tailchat/internal/util"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders a single chat message.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
	ShowStats     bool
	Placeholder   string
	Now           time.Time
	theme         *styles.Theme
	markdown      *MarkdownRenderer
}

// NewMessageBubble creates a new MessageBubble.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		Message:     msg,
		Width:       80,
		ShowStats:   true,
		Placeholder: follow.DefaultPlaceholder,
		theme:       theme,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	if b.Message == nil {
		return ""
	}
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUserBubble()
	case model.RoleAssistant:
		return b.renderAssistantBubble()
	default:
		return b.renderSystemBubble()
	}
}

// Composing reports whether the message is a user draft that still carries
// the placeholder marker.
func (b *MessageBubble) Composing() bool {
	return b.Message.Role == model.RoleUser && b.Placeholder != "" &&
		strings.Contains(b.Message.Content, b.Placeholder)
}

// ==========================================================================
// USER BUBBLE - right aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	maxContentWidth := b.Width * 3 / 4
	if maxContentWidth < 20 {
		maxContentWidth = minInt(20, b.Width-6)
	}

	var body string
	if b.Composing() {
		body = b.theme.Placeholder.Render(b.Placeholder + " composing")
	} else {
		body = wordWrap(b.Message.GetDisplayContent(), maxContentWidth)
	}

	bubble := b.theme.UserBubble.Render(body)
	header := b.header()

	right := lipgloss.NewStyle().Width(b.Width).Align(lipgloss.Right)
	return lipgloss.JoinVertical(lipgloss.Left, right.Render(header), right.Render(bubble))
}

// ==========================================================================
// ASSISTANT BUBBLE - left border, markdown once settled
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	contentWidth := b.Width - 3
	if contentWidth < 10 {
		contentWidth = 10
	}

	msg := b.Message
	content := msg.GetDisplayContent()

	var body string
	switch {
	case msg.IsStreaming:
		body = wordWrap(content, contentWidth) + b.theme.Cursor.Render(styles.TypingCursor[0])
	case b.markdown != nil && content != "":
		if out, ok := b.markdown.Render(msg.ID, content, contentWidth); ok {
			body = out
		} else {
			body = wordWrap(content, contentWidth)
		}
	default:
		body = wordWrap(content, contentWidth)
	}

	result := lipgloss.JoinVertical(lipgloss.Left, b.header(), b.theme.AssistantBubble.Render(body))
	if b.ShowStats && !msg.IsStreaming {
		if stats := msg.FormatStats(); stats != "" {
			result = lipgloss.JoinVertical(lipgloss.Left, result, b.theme.Stats.Render(stats))
		}
	}
	return result
}

// ==========================================================================
// SYSTEM BUBBLE - centered
// ==========================================================================

func (b *MessageBubble) renderSystemBubble() string {
	content := b.Message.GetDisplayContent()
	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	bubble := b.theme.SystemBubble.Render(wordWrap(content, maxContentWidth))

	center := lipgloss.NewStyle().Width(b.Width).Align(lipgloss.Center)
	return lipgloss.JoinVertical(lipgloss.Center, center.Render(b.header()), center.Render(bubble))
}

// ==========================================================================
// HELPER METHODS
// ==========================================================================

func (b *MessageBubble) header() string {
	label := b.theme.RoleLabel.Render(b.Message.Role.DisplayName())
	if !b.ShowTimestamp {
		return label
	}
	ts := b.renderTimestamp()
	if ts == "" {
		return label
	}
	return label + " " + ts
}

// renderTimestamp renders "3:04 PM", or "Jan 2, 3:04 PM" for other days.
func (b *MessageBubble) renderTimestamp() string {
	ts := b.Message.Timestamp
	if ts.IsZero() {
		return ""
	}
	now := b.Now
	if now.IsZero() {
		now = time.Now()
	}
	layout := "3:04 PM"
	if ts.Year() != now.Year() || ts.YearDay() != now.YearDay() {
		layout = "Jan 2, 3:04 PM"
	}
	return b.theme.Timestamp.Render(ts.Format(layout))
}

// =============================================================================
// MESSAGE LIST COMPONENT - the feed container
// =============================================================================

// MessageList renders the whole feed. It is also the follow.Node of the feed
// container: it never scrolls itself, so the resolver walks past it to the
// viewport it is laid out in.
type MessageList struct {
	Messages       []*model.Message
	Width          int
	ShowTimestamps bool
	ShowStats      bool
	Placeholder    string
	theme          *styles.Theme
	markdown       *MarkdownRenderer
	parent         follow.Node
	rows           int
}

// NewMessageList creates a MessageList laid out inside parent.
func NewMessageList(theme *styles.Theme, parent follow.Node) *MessageList {
	return &MessageList{
		Width:       80,
		ShowStats:   true,
		Placeholder: follow.DefaultPlaceholder,
		theme:       theme,
		parent:      parent,
	}
}

// SetMessages sets the messages to display.
func (ml *MessageList) SetMessages(messages []*model.Message) {
	ml.Messages = messages
}

// SetWidth sets the list width.
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// SetMarkdown enables markdown rendering of settled assistant messages. A nil
// renderer renders plain text.
func (ml *MessageList) SetMarkdown(r *MarkdownRenderer) {
	ml.markdown = r
}

// View renders all messages and records the rendered height.
func (ml *MessageList) View() string {
	out := ml.render()
	ml.rows = lipgloss.Height(out)
	return out
}

func (ml *MessageList) render() string {
	if len(ml.Messages) == 0 {
		return ml.theme.Empty.
			Width(ml.Width).
			Render("No messages yet. Type a prompt and press Enter.")
	}

	now := time.Now()
	bubbles := make([]string, 0, len(ml.Messages))
	for _, msg := range ml.Messages {
		bubble := NewMessageBubble(msg, ml.theme)
		bubble.SetWidth(ml.Width)
		bubble.ShowTimestamp = ml.ShowTimestamps
		bubble.ShowStats = ml.ShowStats
		bubble.Placeholder = ml.Placeholder
		bubble.Now = now
		bubble.markdown = ml.markdown
		bubbles = append(bubbles, bubble.View())
	}

	// One blank row between messages.
	return strings.Join(bubbles, "\n\n")
}

func (ml *MessageList) Parent() follow.Node {
	if ml.parent == nil {
		return nil
	}
	return ml.parent
}

func (ml *MessageList) Overflow() follow.Overflow  { return follow.OverflowVisible }
func (ml *MessageList) OverflowY() follow.Overflow { return follow.OverflowVisible }

// ScrollTop is always 0; the list does not scroll.
func (ml *MessageList) ScrollTop() int    { return 0 }
func (ml *MessageList) SetScrollTop(int)  {}
func (ml *MessageList) ScrollHeight() int { return ml.rows }
func (ml *MessageList) ClientHeight() int { return ml.rows }

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// wordWrap wraps text to fit within the specified width.
func wordWrap(text string, width int) string {
	return strings.Join(util.WrapText(text, width), "\n")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
