// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package follow

import (
	"math"
	"time"
)

// DefaultDuration is the length of an animated scroll.
const DefaultDuration = 300 * time.Millisecond

// Mode selects how a scroll request moves the offset.
type Mode int

const (
	// Immediate writes the bottom offset synchronously.
	Immediate Mode = iota
	// Animated eases towards the bottom offset over the animator's duration.
	Animated
)

func (m Mode) String() string {
	if m == Animated {
		return "animated"
	}
	return "immediate"
}

// Request describes one scroll movement.
type Request struct {
	Start  int
	Target int
	Mode   Mode
}

// Clock supplies the time for frames delivered without a timestamp.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FrameFunc is invoked once per display frame with the frame timestamp. A
// zero timestamp makes the animator read its Clock instead.
type FrameFunc func(now time.Time)

// FrameScheduler runs fn on the next display frame. Implementations must not
// call fn synchronously from RequestFrame.
type FrameScheduler interface {
	RequestFrame(fn FrameFunc)
}

// FrameSchedulerFunc adapts a function to FrameScheduler.
type FrameSchedulerFunc func(fn FrameFunc)

// RequestFrame calls f(fn).
func (f FrameSchedulerFunc) RequestFrame(fn FrameFunc) { f(fn) }

// AnimatorOption configures an Animator.
type AnimatorOption func(*Animator)

// WithDuration sets the length of animated scrolls. Zero or negative values
// make animated scrolls finish on their first frame.
func WithDuration(d time.Duration) AnimatorOption {
	return func(a *Animator) { a.duration = d }
}

// WithEasing replaces the easing curve.
func WithEasing(fn EasingFunc) AnimatorOption {
	return func(a *Animator) {
		if fn != nil {
			a.easing = fn
		}
	}
}

// Animator moves a ScrollHost's offset to its bottom, either at once or along
// an eased curve. At most one animation is live; starting any new movement
// bumps the generation so frames of the previous one are dropped.
type Animator struct {
	clock    Clock
	frames   FrameScheduler
	duration time.Duration
	easing   EasingFunc

	gen     uint64
	active  bool
	req     Request
	host    ScrollHost
	started time.Time
	done    func()
}

// NewAnimator returns an Animator using clock for timestamps and frames for
// scheduling.
func NewAnimator(clock Clock, frames FrameScheduler, opts ...AnimatorOption) *Animator {
	if clock == nil {
		clock = SystemClock{}
	}
	a := &Animator{
		clock:    clock,
		frames:   frames,
		duration: DefaultDuration,
		easing:   EaseInOutCubic,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Duration returns the configured animation length.
func (a *Animator) Duration() time.Duration { return a.duration }

// Generation returns the current animation generation.
func (a *Animator) Generation() uint64 { return a.gen }

// Active reports whether an animated scroll is in flight.
func (a *Animator) Active() bool { return a.active }

// Current returns the request of the in-flight animation, if any.
func (a *Animator) Current() (Request, bool) {
	return a.req, a.active
}

// Cancel drops any in-flight animation without touching the offset. The
// completion callback of the cancelled animation is never called.
func (a *Animator) Cancel() {
	a.gen++
	a.active = false
	a.host = nil
	a.done = nil
}

// Jump supersedes any in-flight animation and snaps h to its bottom. The
// target is computed now, at call time.
func (a *Animator) Jump(h ScrollHost) Request {
	a.Cancel()
	req := Request{Start: h.ScrollTop(), Target: MaxScrollTop(h), Mode: Immediate}
	h.SetScrollTop(req.Target)
	return req
}

// Animate supersedes any in-flight animation and starts easing h from its
// current offset to its bottom. The target is captured once and not refreshed
// if content grows during the animation. done runs after the final frame.
func (a *Animator) Animate(h ScrollHost, done func()) Request {
	a.Cancel()
	req := Request{Start: h.ScrollTop(), Target: MaxScrollTop(h), Mode: Animated}
	if a.frames == nil {
		h.SetScrollTop(req.Target)
		if done != nil {
			done()
		}
		return req
	}
	a.active = true
	a.req = req
	a.host = h
	a.done = done
	a.started = time.Time{}
	a.schedule(a.gen)
	return req
}

func (a *Animator) schedule(gen uint64) {
	a.frames.RequestFrame(func(now time.Time) {
		a.step(gen, now)
	})
}

func (a *Animator) step(gen uint64, now time.Time) {
	if gen != a.gen || !a.active {
		return
	}
	if now.IsZero() {
		now = a.clock.Now()
	}
	// Elapsed time counts from the animation's own first frame.
	if a.started.IsZero() {
		a.started = now
	}
	progress := 1.0
	if a.duration > 0 {
		progress = math.Min(float64(now.Sub(a.started))/float64(a.duration), 1)
	}
	if progress < 0 {
		progress = 0
	}
	delta := float64(a.req.Target - a.req.Start)
	offset := a.req.Start + int(math.Round(delta*a.easing(progress)))

	h, done := a.host, a.done
	if progress >= 1 {
		a.active = false
		a.host = nil
		a.done = nil
	}
	h.SetScrollTop(offset)
	if progress < 1 {
		// The write may have started a newer animation.
		if gen == a.gen && a.active {
			a.schedule(gen)
		}
		return
	}
	if done != nil {
		done()
	}
}
