// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package follow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/tailchat/internal/follow"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		name       string
		state      follow.State
		event      follow.Event
		wantState  follow.State
		wantEffect follow.Effect
	}{
		{"user sent while following", follow.Following, follow.FeedChanged{UserSent: true}, follow.Following, follow.EffectJump},
		{"user sent while detached", follow.Detached, follow.FeedChanged{UserSent: true}, follow.Following, follow.EffectJump},
		{"user sent during stream", follow.Detached, follow.FeedChanged{UserSent: true, Streaming: true}, follow.Following, follow.EffectJump},
		{"streaming while following", follow.Following, follow.FeedChanged{Streaming: true}, follow.Following, follow.EffectJump},
		{"streaming while detached", follow.Detached, follow.FeedChanged{Streaming: true}, follow.Detached, follow.EffectNone},
		{"idle feed change", follow.Following, follow.FeedChanged{}, follow.Following, follow.EffectNone},
		{"scroll away while following", follow.Following, follow.Scrolled{AwayFromBottom: true}, follow.Detached, follow.EffectNone},
		{"scroll away while detached", follow.Detached, follow.Scrolled{AwayFromBottom: true}, follow.Detached, follow.EffectNone},
		{"scroll near bottom while following", follow.Following, follow.Scrolled{}, follow.Following, follow.EffectNone},
		{"scroll near bottom while detached", follow.Detached, follow.Scrolled{}, follow.Detached, follow.EffectNone},
		{"animated request", follow.Detached, follow.ScrollRequested{Mode: follow.Animated}, follow.Detached, follow.EffectAnimate},
		{"immediate request", follow.Detached, follow.ScrollRequested{Mode: follow.Immediate}, follow.Detached, follow.EffectJump},
		{"animation done", follow.Detached, follow.AnimationDone{}, follow.Following, follow.EffectNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, effect := follow.Transition(tt.state, tt.event)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantEffect, effect)
		})
	}
}

func TestStateAndEffectStrings(t *testing.T) {
	assert.Equal(t, "following", follow.Following.String())
	assert.Equal(t, "detached", follow.Detached.String())
	assert.Equal(t, "jump", follow.EffectJump.String())
	assert.Equal(t, "animate", follow.EffectAnimate.String())
	assert.Equal(t, "none", follow.EffectNone.String())
	assert.Equal(t, "animated", follow.Animated.String())
	assert.Equal(t, "immediate", follow.Immediate.String())
}
