// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package follow

import (
	"context"
	"strings"

	"pkt.systems/pslog"
)

// Roles the controller reacts to. Entries with any other role are carried
// along but never trigger a jump on their own.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultPlaceholder marks a user entry that is still being composed.
const DefaultPlaceholder = "[...]"

// Entry is one record of the feed as the controller sees it.
type Entry struct {
	ID        string
	Role      string
	Streaming bool
	Content   string
}

// feedMark is the part of a feed snapshot the controller compares to decide
// whether anything changed. The last entry is compared by content since it can
// be edited in place without changing length.
type feedMark struct {
	count         int
	bytes         int
	lastID        string
	lastRole      string
	lastContent   string
	lastStreaming bool
	anyStreaming  bool
}

func markFeed(entries []Entry) feedMark {
	var m feedMark
	m.count = len(entries)
	for _, e := range entries {
		m.bytes += len(e.Content)
		if e.Streaming {
			m.anyStreaming = true
		}
	}
	if n := len(entries); n > 0 {
		last := entries[n-1]
		m.lastID = last.ID
		m.lastRole = last.Role
		m.lastContent = last.Content
		m.lastStreaming = last.Streaming
	}
	return m
}

// Option configures a Controller.
type Option func(*Controller)

// WithRoot sets the fallback scroller used when no ancestor of the mounted
// container scrolls.
func WithRoot(root ScrollHost) Option {
	return func(c *Controller) { c.root = root }
}

// WithThreshold sets the near-bottom threshold. Negative values are ignored.
func WithThreshold(n int) Option {
	return func(c *Controller) {
		if n >= 0 {
			c.threshold = n
		}
	}
}

// WithPlaceholder sets the marker of a still-composing user entry. An empty
// marker disables the check.
func WithPlaceholder(marker string) Option {
	return func(c *Controller) { c.placeholder = marker }
}

// WithLogger sets the logger for state changes.
func WithLogger(l pslog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// Controller keeps one feed container following its newest content.
// It is not safe for concurrent use.
type Controller struct {
	anim        *Animator
	root        ScrollHost
	resolver    *Resolver
	threshold   int
	placeholder string
	log         pslog.Logger

	host       ScrollHost
	observed   ScrollHost
	state      State
	showButton bool
	mark       feedMark
	hasMark    bool
}

// NewController returns a Following controller driving anim.
func NewController(anim *Animator, opts ...Option) *Controller {
	c := &Controller{
		anim:        anim,
		threshold:   DefaultNearBottom,
		placeholder: DefaultPlaceholder,
		state:       Following,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = pslog.Ctx(context.Background())
	}
	c.resolver = NewResolver(c.root)
	return c
}

// Mount resolves the scroll host of container and samples the scroll button
// once. Mounting never detaches. Mounting the same container again keeps the
// cached host.
func (c *Controller) Mount(container Node) {
	host := c.resolver.Resolve(container)
	if host != c.host {
		c.anim.Cancel()
		c.host = host
		c.observed = nil
		if host != nil {
			c.observed = observedHost{ScrollHost: host, c: c}
		}
		c.log.Debug("follow host resolved", "fallback", host == c.root)
	}
	c.sample()
}

// Unmount drops the host and any in-flight animation. The follow state is
// kept for the next Mount.
func (c *Controller) Unmount() {
	c.anim.Cancel()
	c.resolver.Reset()
	c.host = nil
	c.observed = nil
	c.showButton = false
}

// Host returns the resolved scroll host, or nil before Mount.
func (c *Controller) Host() ScrollHost { return c.host }

// State returns the current follow state.
func (c *Controller) State() State { return c.state }

// Following reports whether new content pulls the viewport.
func (c *Controller) Following() bool { return c.state == Following }

// ShowScrollButton reports whether the "jump to latest" affordance should be
// visible, as of the last scroll sample.
func (c *Controller) ShowScrollButton() bool { return c.showButton }

// Threshold returns the near-bottom threshold.
func (c *Controller) Threshold() int { return c.threshold }

// SetFeed applies a full feed snapshot. Re-supplying an unchanged feed does
// nothing.
func (c *Controller) SetFeed(entries []Entry) {
	mark := markFeed(entries)
	if c.hasMark && mark == c.mark {
		return
	}
	c.mark, c.hasMark = mark, true
	if len(entries) == 0 {
		return
	}
	c.apply(FeedChanged{
		UserSent:  c.userSent(entries[len(entries)-1]),
		Streaming: mark.anyStreaming,
	})
}

func (c *Controller) userSent(last Entry) bool {
	if last.Role != RoleUser || last.Streaming {
		return false
	}
	return c.placeholder == "" || !strings.Contains(last.Content, c.placeholder)
}

// OnScroll samples the host after a scroll. It updates the scroll button and
// detaches when the viewport is away from the bottom. Nothing is evaluated
// while the host has no visible height.
func (c *Controller) OnScroll() {
	away, ok := c.sample()
	if !ok {
		return
	}
	c.apply(Scrolled{AwayFromBottom: away})
}

// sample refreshes the scroll button from the host geometry. ok is false when
// there is no host or it has not been laid out yet.
func (c *Controller) sample() (away, ok bool) {
	if c.host == nil || c.host.ClientHeight() == 0 {
		return false, false
	}
	away = DistanceFromBottom(c.host) > c.threshold
	c.showButton = away
	return away, true
}

// ScrollToBottom moves the viewport to the bottom. Animated requests return
// the controller to Following once they complete; immediate requests leave
// the state alone. Without a host this is a no-op.
func (c *Controller) ScrollToBottom(mode Mode) {
	c.apply(ScrollRequested{Mode: mode})
}

func (c *Controller) animationDone() {
	c.apply(AnimationDone{})
}

func (c *Controller) apply(ev Event) {
	from := c.state
	to, effect := Transition(from, ev)
	c.state = to
	if from != to {
		c.log.Debug("follow state changed", "from", from.String(), "to", to.String(), "reason", ev.reason())
	}
	if c.observed == nil {
		return
	}
	switch effect {
	case EffectJump:
		c.anim.Jump(c.observed)
	case EffectAnimate:
		c.anim.Animate(c.observed, c.animationDone)
	}
}

// observedHost reports programmatic writes back to the controller as scroll
// notifications, the way a native scroll event would.
type observedHost struct {
	ScrollHost
	c *Controller
}

func (o observedHost) SetScrollTop(offset int) {
	o.ScrollHost.SetScrollTop(offset)
	o.c.OnScroll()
}
