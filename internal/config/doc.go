// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for tailchat.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - FollowConfig: Auto-follow threshold, animation length and frame rate
//   - StreamConfig: Token batching and pacing
//   - FeedConfig: Transcript source, hot reload and autoplay
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (TAILCHAT_*)
//   - ~/.tailchat/config.toml
//   - ~/.tailchat/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	rows := cfg.Follow.NearBottom
//	fps := cfg.Stream.MaxFPS
package config
