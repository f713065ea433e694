// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/tailchat/internal/follow"
)

// MaxMessages is the maximum number of messages to keep in conversation history.
// When exceeded, old messages are pruned to prevent unbounded memory growth.
const MaxMessages = 1000

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a chat conversation and its history.
type Conversation struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Messages  []*Message `json:"messages"`
}

// NewConversation creates a new conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage adds a message to the conversation.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.pruneOldMessages()
}

// AddUserMessage appends a user message and returns it.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage appends an empty streaming assistant message and returns it.
func (c *Conversation) AddAssistantMessage() *Message {
	msg := NewAssistantMessage()
	c.AddMessage(msg)
	return msg
}

// AddSystemMessage appends a system message and returns it.
func (c *Conversation) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	c.AddMessage(msg)
	return msg
}

// GetLastMessage returns the last message, or nil.
func (c *Conversation) GetLastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// AppendToLast appends a token to the last message if it is streaming.
func (c *Conversation) AppendToLast(token string) {
	if last := c.GetLastMessage(); last != nil {
		last.AppendToken(token)
		c.UpdatedAt = time.Now()
	}
}

// FinalizeLast finishes the stream of the last message.
func (c *Conversation) FinalizeLast(stats *Statistics) {
	if last := c.GetLastMessage(); last != nil {
		last.FinalizeStream(stats)
		c.UpdatedAt = time.Now()
	}
}

// IsStreaming reports whether any message is still streaming.
func (c *Conversation) IsStreaming() bool {
	for _, msg := range c.Messages {
		if msg.IsStreaming {
			return true
		}
	}
	return false
}

// ClearHistory removes every message.
func (c *Conversation) ClearHistory() {
	c.Messages = make([]*Message, 0)
	c.UpdatedAt = time.Now()
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// History returns a copy of the message slice.
func (c *Conversation) History() []*Message {
	out := make([]*Message, len(c.Messages))
	copy(out, c.Messages)
	return out
}

// Feed returns the snapshot the follow controller consumes.
func (c *Conversation) Feed() []follow.Entry {
	entries := make([]follow.Entry, len(c.Messages))
	for i, msg := range c.Messages {
		entries[i] = follow.Entry{
			ID:        msg.ID,
			Role:      string(msg.Role),
			Streaming: msg.IsStreaming,
			Content:   msg.GetDisplayContent(),
		}
	}
	return entries
}

// pruneOldMessages drops the oldest messages beyond MaxMessages.
func (c *Conversation) pruneOldMessages() {
	if excess := len(c.Messages) - MaxMessages; excess > 0 {
		c.Messages = append(c.Messages[:0:0], c.Messages[excess:]...)
	}
}
