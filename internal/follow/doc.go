// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package follow keeps a growing chat feed pinned to its newest content.
//
// The package is the scroll brain of the chat pane. It owns no rendering and
// no terminal state of its own; everything it touches is reached through the
// small ScrollHost interface, which a bubbles viewport (or a test fake) can
// satisfy.
//
// # Components
//
//   - Resolver: walks from the feed container up to the first ancestor that
//     actually scrolls, falling back to the root scroller.
//   - DistanceFromBottom / IsNearBottom: the geometry sampler.
//   - Animator: eased or immediate moves of the scroll offset, driven by an
//     injected Clock and FrameScheduler. A generation counter drops frames
//     that belong to superseded animations.
//   - Transition: the pure Following/Detached state table.
//   - Controller: wires the pieces together and exposes ShowScrollButton,
//     Following and ScrollToBottom to the surrounding UI.
//
// # Detachment
//
// Detachment is one-way. Once the user scrolls more than the near-bottom
// threshold away from the end, new content stops pulling the viewport. Only
// an explicit ScrollToBottom(Animated) that runs to completion, or a freshly
// sent user message, returns the controller to Following. Scrolling back down
// by hand does not.
//
// # Threading
//
// Nothing in this package locks. All calls are expected on one goroutine,
// which in tailchat is the Bubble Tea update loop.
//
// # Usage
//
//	anim := follow.NewAnimator(follow.SystemClock{}, frames)
//	ctrl := follow.NewController(anim, follow.WithRoot(viewport))
//	ctrl.Mount(messageList)
//	ctrl.SetFeed(conversation.Feed())
//	if ctrl.ShowScrollButton() {
//		// render "jump to latest"
//	}
package follow
