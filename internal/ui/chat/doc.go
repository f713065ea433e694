// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the Bubble Tea model of the tailchat screen.

The model keeps a conversation, renders it into a scrollable viewport and
lets a follow.Controller decide when new content pulls the view to the
bottom.

# Key Components

## Model (model.go)

Model owns the conversation, the UI components and the follow controller.
After every feed change refresh renders the messages into the viewport first
and then hands the feed snapshot to the controller, so jumps land on the new
bottom.

## Update Loop (update.go)

  - Keyboard and mouse scrolling go through components.ChatViewport, which
    reports every user scroll to the controller
  - End animates back to the bottom and re-attaches
  - Enter submits a prompt and streams the reply
  - Esc stops the reply, Ctrl+L clears the chat
  - Autoplay composes and sends the transcript's user turns
  - Transcript reloads from feed.Watcher update the header

## Streaming (streaming.go)

Tokens arrive on a producer goroutine and are written to a StreamingBuffer.
StreamTickMsg flushes the buffer at most max_fps times a second, or earlier
once batch_size tokens are waiting.

## Frames (frames.go)

frameScheduler implements follow.FrameScheduler on top of tea.Tick. The
animator's frame requests are queued and run together when the FrameMsg
arrives.

# Usage

	m := chat.New(chat.Options{Config: cfg, Logger: logger, Context: ctx})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
*/
package chat
