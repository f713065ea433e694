// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package follow

// DefaultNearBottom is the distance, in host units, within which the viewport
// still counts as being at the latest content.
const DefaultNearBottom = 30

// ScrollHost is the element that actually scrolls.
//
// ScrollHeight is the full content height, ClientHeight the visible height
// and ScrollTop the offset of the first visible unit. Implementations clamp
// SetScrollTop into [0, ScrollHeight-ClientHeight] the way a browser or a
// bubbles viewport does.
type ScrollHost interface {
	ScrollTop() int
	SetScrollTop(offset int)
	ScrollHeight() int
	ClientHeight() int
}

// DistanceFromBottom returns how far the visible window is from the end of
// the content.
func DistanceFromBottom(h ScrollHost) int {
	return h.ScrollHeight() - h.ScrollTop() - h.ClientHeight()
}

// IsNearBottom reports whether h is within threshold of the end.
func IsNearBottom(h ScrollHost, threshold int) bool {
	return DistanceFromBottom(h) <= threshold
}

// MaxScrollTop returns the bottom-most offset of h, never below zero.
func MaxScrollTop(h ScrollHost) int {
	return max(h.ScrollHeight()-h.ClientHeight(), 0)
}
