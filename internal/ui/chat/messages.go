// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/jeranaias/tailchat/internal/feed"
	"github.com/jeranaias/tailchat/internal/model"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamStartMsg signals that streaming has begun.
type StreamStartMsg struct {
	MessageID string
	StartTime time.Time
}

// StreamTickMsg drives buffered token flushes at the configured frame rate.
type StreamTickMsg struct {
	MessageID string
	Time      time.Time
}

// StreamCompleteMsg signals that the producer has stopped, either because
// the reply was fully streamed or because it was cancelled or failed.
type StreamCompleteMsg struct {
	MessageID string
	Stats     model.Statistics
	Err       error
}

// =============================================================================
// FOLLOW MESSAGES
// =============================================================================

// FrameMsg runs the queued animation frames.
type FrameMsg struct {
	Time time.Time
}

// =============================================================================
// FEED MESSAGES
// =============================================================================

// TranscriptReloadMsg carries a reload from the transcript watcher.
type TranscriptReloadMsg struct {
	Reload feed.Reload
}

// AutoplayMsg asks for the next scripted prompt to be composed.
type AutoplayMsg struct{}

// AutoplaySendMsg submits the draft identified by DraftID.
type AutoplaySendMsg struct {
	DraftID string
	Prompt  string
}
