// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed produces the conversation content tailchat displays.
//
// A Transcript is a TOML file of scripted turns. The Responder hands out the
// transcript's assistant turns in order (or an echo once it runs dry), the
// Streamer paces a reply out token by token through a rate limiter, and the
// Watcher reloads the transcript when it changes on disk.
//
// Everything here runs off the UI goroutine. Producers never touch the chat
// model directly; they hand tokens and reloads over through callbacks and
// channels that the UI drains on its own loop.
//
// # Transcript format
//
//	title = "Demo"
//
//	[[turn]]
//	role = "user"
//	content = "What is a scroll anchor?"
//
//	[[turn]]
//	role = "assistant"
//	content = """
//	A scroll anchor keeps the viewport pinned..."""
package feed
