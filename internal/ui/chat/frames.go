// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tailchat/internal/follow"
)

// DefaultFrameInterval is one frame at 60fps.
const DefaultFrameInterval = time.Second / 60

// frameScheduler turns the animator's frame requests into Bubble Tea ticks.
// Requests are queued; Cmd arms a single tick and the FrameMsg it produces
// runs everything queued so far. It is only touched from the update loop.
type frameScheduler struct {
	interval time.Duration
	queue    []follow.FrameFunc
	armed    bool
}

func newFrameScheduler(interval time.Duration) *frameScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &frameScheduler{interval: interval}
}

// RequestFrame queues fn for the next frame.
func (f *frameScheduler) RequestFrame(fn follow.FrameFunc) {
	f.queue = append(f.queue, fn)
}

// Pending returns the number of queued frame callbacks.
func (f *frameScheduler) Pending() int {
	return len(f.queue)
}

// Cmd returns a tick for pending frames, or nil when nothing is queued or a
// tick is already on its way.
func (f *frameScheduler) Cmd() tea.Cmd {
	if len(f.queue) == 0 || f.armed {
		return nil
	}
	f.armed = true
	return tea.Tick(f.interval, func(t time.Time) tea.Msg {
		return FrameMsg{Time: t}
	})
}

// Run executes the callbacks queued before the call. Callbacks queued while
// running wait for the next tick.
func (f *frameScheduler) Run(now time.Time) {
	f.armed = false
	queue := f.queue
	f.queue = nil
	for _, fn := range queue {
		fn(now)
	}
}
