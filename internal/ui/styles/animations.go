// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/jeranaias/tailchat/internal/follow"
)

// =============================================================================
// SPINNER ANIMATIONS
// =============================================================================

// LineSpinner - Simple line rotation
var LineSpinner = SpinnerConfig{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    10,
}

// DotsSpinner - Classic three-dot animation
var DotsSpinner = SpinnerConfig{
	Frames: []string{".  ", ".. ", "...", " ..", "  .", "   "},
	FPS:    6,
}

// SpinnerConfig holds the configuration for a spinner animation.
type SpinnerConfig struct {
	Frames []string
	FPS    int
}

// Duration returns the duration for each frame.
func (s SpinnerConfig) Duration() time.Duration {
	if s.FPS <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(s.FPS)
}

// Spinner converts the config into a bubbles spinner definition.
func (s SpinnerConfig) Spinner() spinner.Spinner {
	return spinner.Spinner{Frames: s.Frames, FPS: s.Duration()}
}

// =============================================================================
// TRANSITION EFFECTS
// =============================================================================

// TransitionConfig describes a timed transition.
type TransitionConfig struct {
	Duration time.Duration
	Easing   follow.EasingFunc
}

// TransitionScroll is the default smooth scroll used when re-attaching to
// the bottom of the feed.
var TransitionScroll = TransitionConfig{
	Duration: follow.DefaultDuration,
	Easing:   follow.EaseInOutCubic,
}

// WithDuration returns a copy of the transition with a different duration.
// Non-positive durations leave it unchanged.
func (c TransitionConfig) WithDuration(d time.Duration) TransitionConfig {
	if d > 0 {
		c.Duration = d
	}
	return c
}

// AnimatorOptions returns the options that configure a follow.Animator
// for this transition.
func (c TransitionConfig) AnimatorOptions() []follow.AnimatorOption {
	return []follow.AnimatorOption{follow.WithDuration(c.Duration), follow.WithEasing(c.Easing)}
}

// =============================================================================
// CURSOR
// =============================================================================

// TypingCursor frames for the streaming cursor.
var TypingCursor = []string{"_", " "}

// CursorBlinkRate is the blink interval of the streaming cursor.
var CursorBlinkRate = 530 * time.Millisecond
