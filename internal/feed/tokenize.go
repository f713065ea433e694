// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Tokenize splits text into stream tokens of one word plus the whitespace
// that follows it. Text is NFC-normalised first so combining sequences never
// straddle two tokens. Joining the tokens gives back the normalised text.
func Tokenize(text string) []string {
	text = norm.NFC.String(text)
	if text == "" {
		return nil
	}

	var tokens []string
	var cur strings.Builder
	inSpace := false
	for _, r := range text {
		space := unicode.IsSpace(r)
		if !space && inSpace && cur.Len() > 0 && !onlySpace(cur.String()) {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
		cur.WriteRune(r)
		inSpace = space
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

func onlySpace(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}
