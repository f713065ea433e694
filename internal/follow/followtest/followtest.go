// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package followtest provides deterministic fakes for testing code built on
// package follow: a scroll host with clamped geometry, a layout node tree, a
// manual clock and a manual frame scheduler.
package followtest

import (
	"time"

	"github.com/jeranaias/tailchat/internal/follow"
)

// Host is a scroll host whose geometry is set by the test.
type Host struct {
	Top    int
	Height int
	Client int
	// Writes counts SetScrollTop calls.
	Writes int
}

// NewHost returns a host scrolled to the top.
func NewHost(height, client int) *Host {
	return &Host{Height: height, Client: client}
}

func (h *Host) ScrollTop() int    { return h.Top }
func (h *Host) ScrollHeight() int { return h.Height }
func (h *Host) ClientHeight() int { return h.Client }

// SetScrollTop clamps offset into the scrollable range.
func (h *Host) SetScrollTop(offset int) {
	h.Writes++
	h.Top = min(max(offset, 0), max(h.Height-h.Client, 0))
}

// Grow adds n units of content without moving the offset.
func (h *Host) Grow(n int) {
	h.Height += n
}

// Distance returns the distance from the bottom.
func (h *Host) Distance() int {
	return follow.DistanceFromBottom(h)
}

// Node is a layout node backed by a Host.
type Node struct {
	*Host
	Up        *Node
	OverflowX follow.Overflow
	OverflowV follow.Overflow
}

// NewNode returns a node with the given parent and overflow on both axes.
func NewNode(parent *Node, overflow follow.Overflow, height, client int) *Node {
	return &Node{
		Host:      NewHost(height, client),
		Up:        parent,
		OverflowX: overflow,
		OverflowV: overflow,
	}
}

func (n *Node) Parent() follow.Node {
	if n.Up == nil {
		return nil
	}
	return n.Up
}

func (n *Node) Overflow() follow.Overflow  { return n.OverflowX }
func (n *Node) OverflowY() follow.Overflow { return n.OverflowV }

// Clock is a manually advanced clock.
type Clock struct {
	T time.Time
}

// NewClock returns a clock at a fixed instant.
func NewClock() *Clock {
	return &Clock{T: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time { return c.T }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}

// Frames is a frame scheduler that only runs frames when told to.
type Frames struct {
	Clock    *Clock
	Interval time.Duration
	queue    []follow.FrameFunc
}

// NewFrames returns a scheduler that ticks clock by interval per frame.
func NewFrames(clock *Clock, interval time.Duration) *Frames {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &Frames{Clock: clock, Interval: interval}
}

func (f *Frames) RequestFrame(fn follow.FrameFunc) {
	f.queue = append(f.queue, fn)
}

// Pending returns the number of queued frame callbacks.
func (f *Frames) Pending() int {
	return len(f.queue)
}

// Step advances the clock by one interval and runs the callbacks queued
// before the step. Callbacks queued while running wait for the next step.
func (f *Frames) Step() {
	f.Clock.Advance(f.Interval)
	queue := f.queue
	f.queue = nil
	now := f.Clock.Now()
	for _, fn := range queue {
		fn(now)
	}
}

// Advance steps frames until at least d of simulated time has passed.
func (f *Frames) Advance(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += f.Interval {
		f.Step()
	}
}

// Drain steps until no frames are pending or limit steps ran. It returns the
// number of steps taken.
func (f *Frames) Drain(limit int) int {
	n := 0
	for len(f.queue) > 0 && n < limit {
		f.Step()
		n++
	}
	return n
}
