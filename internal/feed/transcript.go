// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrEmptyTranscript is returned for a transcript without turns.
var ErrEmptyTranscript = errors.New("transcript has no turns")

// Turn is one scripted message.
type Turn struct {
	Role    string `toml:"role"`
	Content string `toml:"content"`
}

// Transcript is an ordered script of turns.
type Transcript struct {
	Title string `toml:"title"`
	Turns []Turn `toml:"turn"`
}

// LoadTranscript reads and validates a transcript file.
func LoadTranscript(path string) (*Transcript, error) {
	var t Transcript
	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		return nil, fmt.Errorf("failed to decode transcript %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("transcript %s: unknown key %q", path, undecoded[0].String())
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("transcript %s: %w", path, err)
	}
	return &t, nil
}

// ParseTranscript decodes a transcript from TOML text.
func ParseTranscript(data string) (*Transcript, error) {
	var t Transcript
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode transcript: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate checks that every turn has a known role and some content.
func (t *Transcript) Validate() error {
	if len(t.Turns) == 0 {
		return ErrEmptyTranscript
	}
	for i, turn := range t.Turns {
		switch turn.Role {
		case "user", "assistant", "system":
		default:
			return fmt.Errorf("turn %d: unknown role %q", i+1, turn.Role)
		}
		if strings.TrimSpace(turn.Content) == "" {
			return fmt.Errorf("turn %d: empty content", i+1)
		}
	}
	return nil
}

// Count returns the number of turns with the given role.
func (t *Transcript) Count(role string) int {
	n := 0
	for _, turn := range t.Turns {
		if turn.Role == role {
			n++
		}
	}
	return n
}
