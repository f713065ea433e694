// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoTranscript = `
title = "Demo"

[[turn]]
role = "user"
content = "first question"

[[turn]]
role = "assistant"
content = "first answer"

[[turn]]
role = "user"
content = "second question"

[[turn]]
role = "assistant"
content = """
second answer
spans lines"""
`

func writeTranscript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "demo.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

func TestLoadTranscript(t *testing.T) {
	path := writeTranscript(t, t.TempDir(), demoTranscript)

	tr, err := LoadTranscript(path)

	require.NoError(t, err)
	assert.Equal(t, "Demo", tr.Title)
	require.Len(t, tr.Turns, 4)
	assert.Equal(t, Turn{Role: "user", Content: "first question"}, tr.Turns[0])
	assert.Equal(t, "second answer\nspans lines", tr.Turns[3].Content)
	assert.Equal(t, 2, tr.Count("assistant"))
}

func TestLoadTranscript_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", `title = "x"`, "no turns"},
		{"bad role", "[[turn]]\nrole = \"robot\"\ncontent = \"hi\"", "unknown role"},
		{"blank content", "[[turn]]\nrole = \"user\"\ncontent = \"  \"", "empty content"},
		{"unknown key", "[[turn]]\nrole = \"user\"\ncontent = \"hi\"\nmood = \"happy\"", "unknown key"},
		{"syntax", "[[turn]\nrole = ", "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTranscript(t, t.TempDir(), tt.body)
			_, err := LoadTranscript(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := ParseTranscript(`title = "x"`)
	assert.True(t, errors.Is(err, ErrEmptyTranscript))
}

// =============================================================================
// TOKENIZE
// =============================================================================

func TestTokenize(t *testing.T) {
	assert.Nil(t, Tokenize(""))
	assert.Equal(t, []string{"hello ", "world"}, Tokenize("hello world"))
	assert.Equal(t, []string{"  lead ", "trail\n\n"}, Tokenize("  lead trail\n\n"))
	assert.Equal(t, []string{"a\t", "b\n", "c"}, Tokenize("a\tb\nc"))
}

func TestTokenize_NormalisesAndRoundTrips(t *testing.T) {
	// "e" + COMBINING ACUTE becomes a single precomposed rune.
	tokens := Tokenize("cafe\u0301 au lait")
	assert.Equal(t, []string{"caf\u00e9 ", "au ", "lait"}, tokens)

	text := "The quick  brown\nfox  jumps over\tthe lazy dog. "
	assert.Equal(t, text, strings.Join(Tokenize(text), ""))
}

// =============================================================================
// STREAMER
// =============================================================================

func TestStreamer_StreamsAllTokens(t *testing.T) {
	s := NewStreamer(0, 1, nil)
	var got []string

	stats, err := s.Stream(context.Background(), "one two three", func(tok string) {
		got = append(got, tok)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"one ", "two ", "three"}, got)
	assert.Equal(t, 3, stats.Tokens)
}

func TestStreamer_Paces(t *testing.T) {
	s := NewStreamer(100, 1, nil)
	start := time.Now()

	stats, err := s.Stream(context.Background(), "a b c d e f", func(string) {})

	require.NoError(t, err)
	assert.Equal(t, 6, stats.Tokens)
	// Five waits at 10ms each after the first token.
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestStreamer_Cancel(t *testing.T) {
	s := NewStreamer(20, 1, nil)
	ctx, cancel := context.WithCancel(context.Background())
	var mu sync.Mutex
	count := 0

	stats, err := s.Stream(ctx, strings.Repeat("word ", 100), func(string) {
		mu.Lock()
		defer mu.Unlock()
		count++
		if count == 2 {
			cancel()
		}
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 2, stats.Tokens)
}

// =============================================================================
// RESPONDER
// =============================================================================

func TestResponder_FollowsTranscript(t *testing.T) {
	tr, err := ParseTranscript(demoTranscript)
	require.NoError(t, err)
	r := NewResponder(tr)
	assert.Equal(t, "Demo", r.Title())
	assert.Equal(t, 2, r.Remaining())

	prompt, ok := r.NextPrompt()
	require.True(t, ok)
	assert.Equal(t, "first question", prompt)
	assert.Equal(t, "first answer", r.Reply(prompt))

	// A typed prompt still consumes the next scripted reply.
	assert.Equal(t, "second answer\nspans lines", r.Reply("something else"))
	assert.Zero(t, r.Remaining())

	_, ok = r.NextPrompt()
	assert.False(t, ok)
	assert.Contains(t, r.Reply("  hello there "), "> hello there")

	r.Reset()
	prompt, ok = r.NextPrompt()
	require.True(t, ok)
	assert.Equal(t, "first question", prompt)
}

func TestResponder_WithoutTranscript(t *testing.T) {
	r := NewResponder(nil)

	_, ok := r.NextPrompt()
	assert.False(t, ok)
	assert.Contains(t, r.Reply("ping"), "That is 1 word(s)")
	assert.Empty(t, r.Title())
	assert.Zero(t, r.Remaining())
}

func TestResponder_SetTranscriptClampsCursor(t *testing.T) {
	tr, err := ParseTranscript(demoTranscript)
	require.NoError(t, err)
	r := NewResponder(tr)
	r.Reply("")
	r.Reply("")

	short, err := ParseTranscript("[[turn]]\nrole = \"assistant\"\ncontent = \"only\"")
	require.NoError(t, err)
	r.SetTranscript(short)

	assert.Equal(t, "only", r.Reply("x"))
}

// =============================================================================
// WATCHER
// =============================================================================

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeTranscript(t, dir, demoTranscript)
	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Close()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))

	updated := demoTranscript + "\n[[turn]]\nrole = \"user\"\ncontent = \"third\"\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0644))

	select {
	case r := <-w.Changes():
		require.NoError(t, r.Err)
		assert.Len(t, r.Transcript.Turns, 5)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload delivered")
	}
}

func TestWatcher_ReportsBrokenTranscript(t *testing.T) {
	dir := t.TempDir()
	path := writeTranscript(t, dir, demoTranscript)
	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[[turn]\n"), 0644))

	select {
	case r := <-w.Changes():
		assert.Error(t, r.Err)
		assert.Nil(t, r.Transcript)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload delivered")
	}
}

func TestWatcher_DeliverKeepsLatest(t *testing.T) {
	w := &Watcher{changes: make(chan Reload, 1)}
	first := &Transcript{Title: "first"}
	second := &Transcript{Title: "second"}

	w.deliver(Reload{Transcript: first})
	w.deliver(Reload{Transcript: second})

	got := <-w.Changes()
	assert.Equal(t, "second", got.Transcript.Title)
}
