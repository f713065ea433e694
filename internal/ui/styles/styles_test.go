// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tailchat/internal/follow"
	"github.com/jeranaias/tailchat/internal/follow/followtest"
)

func TestNewThemeModes(t *testing.T) {
	dark := NewTheme(ThemeDark)
	assert.True(t, dark.IsDark)

	light := NewTheme(ThemeLight)
	assert.False(t, light.IsDark)

	// Restore the default for other tests.
	NewTheme(ThemeDark)
}

func TestThemeRendersBadges(t *testing.T) {
	theme := NewTheme(ThemeDark)
	assert.Contains(t, theme.FollowBadge.Render("FOLLOW"), "FOLLOW")
	assert.Contains(t, theme.DetachedBadge.Render("DETACHED"), "DETACHED")
	assert.Contains(t, theme.JumpButton.Render("latest"), "latest")
}

func TestLayoutMode(t *testing.T) {
	theme := NewTheme(ThemeDark)
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
	}
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		assert.Equal(t, tt.want, theme.GetLayoutMode(), "width %d", tt.width)
	}
	assert.Equal(t, "medium", LayoutMedium.String())
}

func TestSpinnerConfig(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, LineSpinner.Duration())
	assert.Equal(t, time.Second, SpinnerConfig{}.Duration())

	s := DotsSpinner.Spinner()
	assert.Equal(t, DotsSpinner.Frames, s.Frames)
	assert.Equal(t, DotsSpinner.Duration(), s.FPS)
}

func TestTransitionWithDuration(t *testing.T) {
	c := TransitionScroll.WithDuration(0)
	assert.Equal(t, follow.DefaultDuration, c.Duration)

	c = TransitionScroll.WithDuration(50 * time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, c.Duration)
	assert.Equal(t, follow.DefaultDuration, TransitionScroll.Duration)
}

func TestTransitionAnimatorOptions(t *testing.T) {
	clock := followtest.NewClock()
	frames := followtest.NewFrames(clock, 0)
	cfg := TransitionScroll.WithDuration(80 * time.Millisecond)

	anim := follow.NewAnimator(clock, frames, cfg.AnimatorOptions()...)
	require.Equal(t, 80*time.Millisecond, anim.Duration())

	host := followtest.NewHost(500, 100)
	done := false
	anim.Animate(host, func() { done = true })
	frames.Advance(100 * time.Millisecond)

	assert.True(t, done)
	assert.Equal(t, 400, host.Top)
}
