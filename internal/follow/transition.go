// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package follow

// State is the auto-follow state of a feed.
type State int

const (
	// Following means new content pulls the viewport to the bottom.
	Following State = iota
	// Detached means the viewport holds position until the user re-engages.
	Detached
)

func (s State) String() string {
	if s == Detached {
		return "detached"
	}
	return "following"
}

// Effect is the scroll action a transition asks for.
type Effect int

const (
	EffectNone Effect = iota
	EffectJump
	EffectAnimate
)

func (e Effect) String() string {
	switch e {
	case EffectJump:
		return "jump"
	case EffectAnimate:
		return "animate"
	default:
		return "none"
	}
}

// Event is an input to Transition.
type Event interface {
	reason() string
}

// FeedChanged reports a new feed snapshot. UserSent is set when the last
// entry is a finished user message that is not a composing placeholder.
// Streaming is set when any entry is still streaming.
type FeedChanged struct {
	UserSent  bool
	Streaming bool
}

// Scrolled reports a scroll notification. AwayFromBottom is set when the
// sampled distance exceeds the near-bottom threshold.
type Scrolled struct {
	AwayFromBottom bool
}

// ScrollRequested is an explicit request to go to the bottom.
type ScrollRequested struct {
	Mode Mode
}

// AnimationDone reports that an animated scroll ran to completion.
type AnimationDone struct{}

func (FeedChanged) reason() string     { return "feed" }
func (Scrolled) reason() string        { return "scroll" }
func (ScrollRequested) reason() string { return "request" }
func (AnimationDone) reason() string   { return "animation_done" }

// Transition is the auto-follow state table.
//
//	FeedChanged{UserSent}           any       -> Following, jump
//	FeedChanged{Streaming}          Following -> Following, jump
//	Scrolled{AwayFromBottom}        Following -> Detached
//	ScrollRequested{Animated}       any       -> unchanged, animate
//	ScrollRequested{Immediate}      any       -> unchanged, jump
//	AnimationDone                   any       -> Following
//
// Every other combination leaves the state alone with no effect.
func Transition(state State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case FeedChanged:
		if ev.UserSent {
			return Following, EffectJump
		}
		if ev.Streaming && state == Following {
			return Following, EffectJump
		}
	case Scrolled:
		if ev.AwayFromBottom && state == Following {
			return Detached, EffectNone
		}
	case ScrollRequested:
		if ev.Mode == Animated {
			return state, EffectAnimate
		}
		return state, EffectJump
	case AnimationDone:
		return Following, EffectNone
	}
	return state, EffectNone
}
