// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the UI components of the tailchat screen.

Components are built on Bubble Tea, Bubbles and Lip Gloss and take their
styles from a shared styles.Theme.

# Core Components

## Feed

ChatViewport (viewport.go) - Scrollable message pane. It is the scroll host
of the feed: it implements follow.ScrollHost and follow.Node and reports every
user-initiated scroll through its OnScroll hook.

MessageList (message.go) - Renders the conversation. It is the feed container
the follow controller is mounted on; it never scrolls itself.

MessageBubble (message.go) - One message, styled by role. Settled assistant
replies go through MarkdownRenderer (markdown.go).

JumpButton (jump.go) - "Jump to latest" affordance shown while the reader is
away from the bottom.

## Chrome

Header (header.go) - Title row with the transcript name.
StatusBar (statusbar.go) - FOLLOW/DETACHED badge, stream status and counters.
InputArea (input.go) - Prompt input with a character counter.
Spinner (spinner.go) - Streaming indicator with an elapsed timer.
ToastManager (toast.go) - Short-lived notices.

# Usage

	vp := components.NewChatViewport(theme)
	list := components.NewMessageList(theme, vp)
	ctrl := follow.NewController(anim, follow.WithRoot(vp))
	vp.OnScroll(ctrl.OnScroll)
	ctrl.Mount(list)
*/
package components
