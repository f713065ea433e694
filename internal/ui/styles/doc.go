// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the tailchat TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection.

# Color System (colors.go)

	Purple  - Assistant messages, streaming cursor, scrollbar thumb
	Cyan    - User highlights, jump button
	Emerald - FOLLOW badge
	Amber   - DETACHED badge
	Rose    - Errors

Follow state is also shown with ASCII indicators (StatusIndicators) so it
stays readable without color.

# Theme System (theme.go)

	theme := styles.NewTheme("auto") // or "dark", "light"
	badge := theme.FollowBadge.Render("FOLLOW")

# Animation System (animations.go)

SpinnerConfig converts to a bubbles spinner. TransitionScroll carries the
duration and easing used by the follow animator:

	anim := follow.NewAnimator(nil, frames, styles.TransitionScroll.AnimatorOptions()...)
*/
package styles
