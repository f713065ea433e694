// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Glamour standard style names.
const (
	MarkdownDark  = "dark"
	MarkdownLight = "light"
)

type renderedMarkdown struct {
	content string
	width   int
	out     string
}

// MarkdownRenderer renders finished assistant messages with glamour. Output
// is cached per message so a settled entry is rendered once per width.
type MarkdownRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
	cache    map[string]renderedMarkdown
}

// NewMarkdownRenderer creates a renderer for a glamour standard style.
func NewMarkdownRenderer(style string) *MarkdownRenderer {
	if style == "" {
		style = MarkdownDark
	}
	return &MarkdownRenderer{
		style: style,
		cache: make(map[string]renderedMarkdown),
	}
}

// Render renders content for message id at the given wrap width. ok is false
// when glamour fails, in which case the caller should fall back to plain text.
func (r *MarkdownRenderer) Render(id, content string, width int) (out string, ok bool) {
	if width < 10 {
		width = 10
	}
	if c, hit := r.cache[id]; hit && c.content == content && c.width == width {
		return c.out, true
	}
	if r.renderer == nil || r.width != width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", false
		}
		r.renderer, r.width = tr, width
	}
	rendered, err := r.renderer.Render(content)
	if err != nil {
		return "", false
	}
	rendered = strings.Trim(rendered, "\n")
	r.cache[id] = renderedMarkdown{content: content, width: width, out: rendered}
	return rendered, true
}

// Forget drops every cached rendering.
func (r *MarkdownRenderer) Forget() {
	clear(r.cache)
}
