// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for tailchat.
//
// # Key Functions
//
// String Utilities (terminal cell aware, via go-runewidth):
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: display-width truncation with ellipsis
//   - WrapText: word wrapping to a cell width
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	lines := util.WrapText(message, 72)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
