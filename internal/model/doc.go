// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Conversation: ordered messages of one chat session
//   - Message: single message with role, content, timestamp and stream state
//   - Role: user, assistant or system
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("Hello!")
//	conv.AddAssistantMessage()
//	conv.AppendToLast("Hi ")
//	conv.FinalizeLast(nil)
//	ctrl.SetFeed(conv.Feed())
package model
