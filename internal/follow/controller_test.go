// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package follow_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pkt.systems/pslog"

	"github.com/jeranaias/tailchat/internal/follow"
	"github.com/jeranaias/tailchat/internal/follow/followtest"
)

type rig struct {
	clock     *followtest.Clock
	frames    *followtest.Frames
	scroller  *followtest.Node
	container *followtest.Node
	ctrl      *follow.Controller
	feed      []follow.Entry
}

// newRig mounts a controller on a container whose parent scrolls with the
// given client height. The scroller starts empty.
func newRig(t *testing.T, client int, opts ...follow.Option) *rig {
	t.Helper()
	clock := followtest.NewClock()
	frames := followtest.NewFrames(clock, 16*time.Millisecond)
	scroller := followtest.NewNode(nil, follow.OverflowAuto, 0, client)
	container := followtest.NewNode(scroller, follow.OverflowVisible, 0, 0)
	anim := follow.NewAnimator(clock, frames)
	opts = append([]follow.Option{follow.WithRoot(scroller)}, opts...)
	ctrl := follow.NewController(anim, opts...)
	ctrl.Mount(container)
	require.Same(t, scroller, ctrl.Host())
	return &rig{clock: clock, frames: frames, scroller: scroller, container: container, ctrl: ctrl}
}

// push appends an entry, grows the laid-out content and hands the feed over.
func (r *rig) push(e follow.Entry, rows int) {
	r.feed = append(r.feed, e)
	r.scroller.Grow(rows)
	r.ctrl.SetFeed(append([]follow.Entry(nil), r.feed...))
}

// stream appends text to the last entry and grows the content.
func (r *rig) stream(text string, rows int) {
	r.feed[len(r.feed)-1].Content += text
	r.scroller.Grow(rows)
	r.ctrl.SetFeed(append([]follow.Entry(nil), r.feed...))
}

// userScroll moves the scroller the way a wheel or key would.
func (r *rig) userScroll(delta int) {
	r.scroller.SetScrollTop(r.scroller.Top + delta)
	r.ctrl.OnScroll()
}

func (r *rig) atBottom() bool {
	return r.scroller.Top == follow.MaxScrollTop(r.scroller)
}

func TestSingleUserEntrySnapsToBottom(t *testing.T) {
	r := newRig(t, 300)

	r.push(follow.Entry{ID: "1", Role: follow.RoleUser, Content: "hi"}, 400)

	assert.True(t, r.ctrl.Following())
	assert.False(t, r.ctrl.ShowScrollButton())
	assert.Equal(t, 100, r.scroller.Top)
	assert.Zero(t, r.frames.Pending(), "user entries jump without animation")
}

func TestStreamingGrowthResnapsEveryStep(t *testing.T) {
	r := newRig(t, 300)
	r.push(follow.Entry{ID: "u", Role: follow.RoleUser, Content: "tell me"}, 40)

	for i := 1; i <= 50; i++ {
		for j := range r.feed {
			r.feed[j].Streaming = false
		}
		r.push(follow.Entry{ID: fmt.Sprintf("a%d", i), Role: follow.RoleAssistant, Streaming: true, Content: "x"}, 25)
		require.True(t, r.atBottom(), "step %d", i)
		require.False(t, r.ctrl.ShowScrollButton(), "step %d", i)
		require.True(t, r.ctrl.Following(), "step %d", i)
	}
	assert.Equal(t, 40+50*25-300, r.scroller.Top)
}

func TestStreamingTokensResnap(t *testing.T) {
	r := newRig(t, 300)
	r.push(follow.Entry{ID: "u", Role: follow.RoleUser, Content: "q"}, 100)
	r.push(follow.Entry{ID: "a", Role: follow.RoleAssistant, Streaming: true}, 10)

	for i := 0; i < 40; i++ {
		r.stream("token ", 20)
		require.True(t, r.atBottom())
	}

	// Re-snapping onto an unchanged bottom leaves the offset alone.
	top := r.scroller.Top
	r.ctrl.ScrollToBottom(follow.Immediate)
	assert.Equal(t, top, r.scroller.Top)
}

func TestScrollUpMidStreamDetaches(t *testing.T) {
	r := newRig(t, 300)
	r.push(follow.Entry{ID: "u", Role: follow.RoleUser, Content: "q"}, 100)
	r.push(follow.Entry{ID: "a", Role: follow.RoleAssistant, Streaming: true}, 600)
	require.True(t, r.atBottom())

	r.userScroll(-200)

	assert.Equal(t, 200, r.scroller.Distance())
	assert.False(t, r.ctrl.Following())
	assert.True(t, r.ctrl.ShowScrollButton())

	top := r.scroller.Top
	for i := 0; i < 20; i++ {
		r.stream("more ", 15)
		require.Equal(t, top, r.scroller.Top, "detached viewport must hold position")
	}
	assert.Equal(t, follow.Detached, r.ctrl.State())
}

func TestNearBottomThreshold(t *testing.T) {
	for _, tc := range []struct {
		distance   int
		wantButton bool
	}{
		{0, false},
		{1, false},
		{29, false},
		{30, false},
		{31, true},
		{500, true},
	} {
		t.Run(fmt.Sprint(tc.distance), func(t *testing.T) {
			r := newRig(t, 300)
			r.push(follow.Entry{ID: "u", Role: follow.RoleUser, Content: "q"}, 1000)
			require.True(t, r.atBottom())

			r.userScroll(-tc.distance)

			assert.Equal(t, tc.distance, r.scroller.Distance())
			assert.Equal(t, tc.wantButton, r.ctrl.ShowScrollButton())
			assert.Equal(t, !tc.wantButton, r.ctrl.Following())
		})
	}
}

func TestCustomThreshold(t *testing.T) {
	r := newRig(t, 20, follow.WithThreshold(2))
	r.push(follow.Entry{ID: "u", Role: follow.RoleUser, Content: "q"}, 100)

	r.userScroll(-2)
	assert.True(t, r.ctrl.Following())
	r.userScroll(-1)
	assert.False(t, r.ctrl.Following())
	assert.Equal(t, 2, follow.NewController(follow.NewAnimator(nil, nil), follow.WithThreshold(2)).Threshold())
}

func TestDetachmentIsOneWay(t *testing.T) {
	r := newRig(t, 300)
	r.push(follow.Entry{ID: "u", Role: follow.RoleUser, Content: "q"}, 1000)
	r.userScroll(-200)
	require.False(t, r.ctrl.Following())

	r.userScroll(200)

	assert.True(t, r.atBottom())
	assert.False(t, r.ctrl.ShowScrollButton())
	assert.False(t, r.ctrl.Following(), "scrolling back by hand does not re-attach")

	r.push(follow.Entry{ID: "a", Role: follow.RoleAssistant, Streaming: true}, 50)
	assert.Equal(t, 50, r.scroller.Distance())
}

func TestAnimatedScrollToBottomReattaches(t *testing.T) {
	r := newRig(t, 300)
	r.push(follow.Entry{ID: "u", Role: follow.RoleUser, Content: "q"}, 1000)
	r.push(follow.Entry{ID: "a", Role: follow.RoleAssistant, Streaming: true}, 500)
	r.userScroll(-800)
	require.False(t, r.ctrl.Following())

	r.ctrl.ScrollToBottom(follow.Animated)
	r.frames.Step()
	assert.False(t, r.ctrl.Following(), "still detached mid-animation")
	assert.Greater(t, r.scroller.Distance(), 0)

	r.frames.Advance(follow.DefaultDuration)

	assert.True(t, r.ctrl.Following())
	assert.Zero(t, r.scroller.Distance())
	assert.False(t, r.ctrl.ShowScrollButton())
	assert.Zero(t, r.frames.Pending())

	r.stream("after", 40)
	assert.True(t, r.atBottom())
}

func TestImmediateScrollToBottomKeepsState(t *testing.T) {
	r := newRig(t, 300)
	r.push(follow.Entry{ID: "u", Role: follow.RoleUser, Content: "q"}, 1000)
	r.userScroll(-400)

	r.ctrl.ScrollToBottom(follow.Immediate)

	assert.True(t, r.atBottom())
	assert.False(t, r.ctrl.ShowScrollButton())
	assert.False(t, r.ctrl.Following())
}

func TestUserEntryReattaches(t *testing.T) {
	r := newRig(t, 300)
	r.push(follow.Entry{ID: "u1", Role: follow.RoleUser, Content: "q"}, 1000)
	r.push(follow.Entry{ID: "a1", Role: follow.RoleAssistant, Content: "answer"}, 200)
	r.userScroll(-600)
	require.False(t, r.ctrl.Following())

	r.push(follow.Entry{ID: "u2", Role: follow.RoleUser, Content: "again"}, 30)

	assert.True(t, r.ctrl.Following())
	assert.True(t, r.atBottom())
	assert.False(t, r.ctrl.ShowScrollButton())
}

func TestUserEntryIgnoredWhileComposingOrStreaming(t *testing.T) {
	r := newRig(t, 300)
	r.push(follow.Entry{ID: "u1", Role: follow.RoleUser, Content: "q"}, 1000)
	r.userScroll(-600)
	top := r.scroller.Top

	r.push(follow.Entry{ID: "u2", Role: follow.RoleUser, Content: "still typing [...]"}, 30)
	assert.Equal(t, top, r.scroller.Top)
	assert.False(t, r.ctrl.Following())

	r.push(follow.Entry{ID: "u3", Role: follow.RoleUser, Streaming: true, Content: "dictating"}, 30)
	assert.Equal(t, top, r.scroller.Top)
	assert.False(t, r.ctrl.Following())
}

func TestDraftReplacedInPlaceReattaches(t *testing.T) {
	r := newRig(t, 300)
	r.push(follow.Entry{ID: "u1", Role: follow.RoleUser, Content: "q"}, 1000)
	r.userScroll(-400)
	require.False(t, r.ctrl.Following())

	r.push(follow.Entry{ID: "u2", Role: follow.RoleUser, Content: follow.DefaultPlaceholder}, 20)
	require.False(t, r.ctrl.Following())

	// Same length as the placeholder.
	r.feed[len(r.feed)-1].Content = "hello"
	r.ctrl.SetFeed(append([]follow.Entry(nil), r.feed...))

	assert.True(t, r.ctrl.Following())
	assert.True(t, r.atBottom())
}

func TestPlaceholderCanBeChangedOrDisabled(t *testing.T) {
	r := newRig(t, 300, follow.WithPlaceholder("<draft>"))
	r.push(follow.Entry{ID: "u1", Role: follow.RoleUser, Content: "q"}, 1000)
	r.userScroll(-600)

	r.push(follow.Entry{ID: "u2", Role: follow.RoleUser, Content: "<draft>"}, 10)
	assert.False(t, r.ctrl.Following())
	r.push(follow.Entry{ID: "u3", Role: follow.RoleUser, Content: "[...]"}, 10)
	assert.True(t, r.ctrl.Following())

	r2 := newRig(t, 300, follow.WithPlaceholder(""))
	r2.push(follow.Entry{ID: "u1", Role: follow.RoleUser, Content: "[...]"}, 1000)
	assert.True(t, r2.atBottom())
}

func TestIdenticalFeedIsNotAChange(t *testing.T) {
	r := newRig(t, 300)
	r.push(follow.Entry{ID: "u1", Role: follow.RoleUser, Content: "q"}, 1000)
	r.userScroll(-600)
	require.False(t, r.ctrl.Following())
	writes := r.scroller.Writes

	r.ctrl.SetFeed(append([]follow.Entry(nil), r.feed...))

	assert.Equal(t, writes, r.scroller.Writes)
	assert.False(t, r.ctrl.Following())
}

func TestOtherRolesDoNotJump(t *testing.T) {
	r := newRig(t, 300)
	r.push(follow.Entry{ID: "s", Role: "system", Content: "boot"}, 1000)
	assert.Equal(t, 0, r.scroller.Top)
	assert.True(t, r.ctrl.Following())
	r.push(follow.Entry{ID: "a", Role: follow.RoleAssistant, Content: "done"}, 10)
	assert.Equal(t, 0, r.scroller.Top)
}

func TestZeroClientHeightSkipsEvaluation(t *testing.T) {
	r := newRig(t, 0)
	r.scroller.Grow(1000)

	r.ctrl.OnScroll()

	assert.False(t, r.ctrl.ShowScrollButton())
	assert.True(t, r.ctrl.Following())

	// Once laid out the next event self-corrects.
	r.scroller.Client = 300
	r.ctrl.OnScroll()
	assert.True(t, r.ctrl.ShowScrollButton())
	assert.False(t, r.ctrl.Following())
}

func TestMountSamplesButtonWithoutDetaching(t *testing.T) {
	clock := followtest.NewClock()
	frames := followtest.NewFrames(clock, 16*time.Millisecond)
	scroller := followtest.NewNode(nil, follow.OverflowAuto, 1000, 300)
	container := followtest.NewNode(scroller, follow.OverflowVisible, 1000, 1000)
	ctrl := follow.NewController(follow.NewAnimator(clock, frames))

	ctrl.Mount(container)

	require.Same(t, scroller, ctrl.Host())
	assert.True(t, ctrl.ShowScrollButton())
	assert.True(t, ctrl.Following())
}

func TestNoHostIsNoOp(t *testing.T) {
	ctrl := follow.NewController(follow.NewAnimator(nil, nil))

	assert.NotPanics(t, func() {
		ctrl.ScrollToBottom(follow.Animated)
		ctrl.ScrollToBottom(follow.Immediate)
		ctrl.OnScroll()
		ctrl.SetFeed([]follow.Entry{{ID: "1", Role: follow.RoleUser, Content: "hi"}})
	})
	assert.Nil(t, ctrl.Host())
	assert.False(t, ctrl.ShowScrollButton())
	assert.True(t, ctrl.Following())
}

func TestUnmountCancelsAnimation(t *testing.T) {
	r := newRig(t, 300)
	r.push(follow.Entry{ID: "u", Role: follow.RoleUser, Content: "q"}, 1000)
	r.userScroll(-500)
	r.ctrl.ScrollToBottom(follow.Animated)
	r.frames.Step()
	top := r.scroller.Top

	r.ctrl.Unmount()
	r.frames.Drain(100)

	assert.Equal(t, top, r.scroller.Top)
	assert.False(t, r.ctrl.Following())
	assert.False(t, r.ctrl.ShowScrollButton())
	assert.Nil(t, r.ctrl.Host())
}

func TestRemountResolvesNewContainer(t *testing.T) {
	r := newRig(t, 300)
	other := followtest.NewNode(nil, follow.OverflowAuto, 800, 200)
	fresh := followtest.NewNode(other, follow.OverflowVisible, 800, 800)

	r.ctrl.Mount(r.container)
	require.Same(t, r.scroller, r.ctrl.Host())

	r.ctrl.Mount(fresh)
	require.Same(t, other, r.ctrl.Host())
	assert.True(t, r.ctrl.ShowScrollButton())
}

func TestStateChangesAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := pslog.NewWithOptions(&buf, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.DebugLevel,
	})
	r := newRig(t, 300, follow.WithLogger(logger))
	r.push(follow.Entry{ID: "u", Role: follow.RoleUser, Content: "q"}, 1000)

	r.userScroll(-100)

	out := buf.String()
	assert.True(t, strings.Contains(out, "follow state changed"), out)
	assert.True(t, strings.Contains(out, "detached"), out)
}
