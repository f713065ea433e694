// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"fmt"
	"strings"
	"sync"
)

// Responder walks a transcript and picks the reply to each prompt.
//
// Replies are the transcript's assistant turns in order. Once they run out,
// or without a transcript, the prompt is echoed back. Safe for concurrent
// use; the watcher swaps the transcript while the UI reads it.
type Responder struct {
	mu         sync.Mutex
	transcript *Transcript
	cursor     int
}

// NewResponder returns a Responder over t, which may be nil.
func NewResponder(t *Transcript) *Responder {
	return &Responder{transcript: t}
}

// SetTranscript replaces the transcript and keeps the position when it is
// still in range.
func (r *Responder) SetTranscript(t *Transcript) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transcript = t
	if t == nil || r.cursor > len(t.Turns) {
		r.cursor = 0
	}
}

// Reset rewinds to the first turn.
func (r *Responder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor = 0
}

// Title returns the transcript title, or "".
func (r *Responder) Title() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.transcript == nil {
		return ""
	}
	return r.transcript.Title
}

// NextPrompt returns the next user turn and moves past it.
func (r *Responder) NextPrompt() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.find("user")
	if idx < 0 {
		return "", false
	}
	r.cursor = idx + 1
	return r.transcript.Turns[idx].Content, true
}

// Reply returns the next assistant turn, or an echo of prompt.
func (r *Responder) Reply(prompt string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.find("assistant")
	if idx < 0 {
		return echo(prompt)
	}
	r.cursor = idx + 1
	return r.transcript.Turns[idx].Content
}

// Remaining returns how many assistant turns are left.
func (r *Responder) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.transcript == nil {
		return 0
	}
	n := 0
	for _, turn := range r.transcript.Turns[r.cursor:] {
		if turn.Role == "assistant" {
			n++
		}
	}
	return n
}

func (r *Responder) find(role string) int {
	if r.transcript == nil {
		return -1
	}
	for i := r.cursor; i < len(r.transcript.Turns); i++ {
		if r.transcript.Turns[i].Role == role {
			return i
		}
	}
	return -1
}

func echo(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	words := len(strings.Fields(prompt))
	return fmt.Sprintf("You said:\n\n> %s\n\nThat is %d word(s). The transcript has no more scripted replies, so this one is an echo.", prompt, words)
}
