// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tailchat/internal/follow"
	"github.com/jeranaias/tailchat/internal/model"
	"github.com/jeranaias/tailchat/internal/ui/components"
)

// update dispatches msg. The exported Update wraps it to schedule frames.
func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.viewport.Update(msg) {
			m.syncChrome()
		}
		return m, nil

	case FrameMsg:
		m.frames.Run(msg.Time)
		m.syncChrome()
		return m, nil

	case StreamTickMsg:
		return m.handleStreamTick(msg)

	case StreamCompleteMsg:
		return m.handleStreamComplete(msg)

	case AutoplayMsg:
		return m.handleAutoplay()

	case AutoplaySendMsg:
		return m.handleAutoplaySend(msg)

	case TranscriptReloadMsg:
		return m.handleReload(msg)

	case components.ToastTickMsg:
		if m.toasts.Tick() {
			return m, components.ToastTickCmd()
		}
		m.toastTicking = false
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	if cmd != nil {
		return m, cmd
	}
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelMgr.cancel()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.End):
		m.follow.ScrollToBottom(follow.Animated)
		m.syncChrome()
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		if m.IsStreaming() {
			m.cancelMgr.cancel()
		}
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		return m.clear()

	case key.Matches(msg, m.keys.Autoplay):
		return m.toggleAutoplay()

	case key.Matches(msg, m.keys.Submit):
		prompt := strings.TrimSpace(m.input.Value())
		if prompt == "" {
			return m, nil
		}
		if m.IsStreaming() {
			return m, m.toast(components.ToastKindStatus, "Wait for the reply to finish, or press Esc")
		}
		m.input.Reset()
		return m.submit(prompt)
	}

	if m.viewport.Update(msg) {
		m.syncChrome()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != "" && !m.IsStreaming() {
		m.statusBar.Status = components.StatusComposing
	} else if !m.IsStreaming() {
		m.statusBar.Status = components.StatusReady
	}
	return m, cmd
}

// clear empties the conversation and starts over with a fresh container and
// controller, as a new chat would. The new controller starts out following.
func (m Model) clear() (Model, tea.Cmd) {
	m.cancelMgr.cancel()
	m.streamID = ""
	m.buffer = m.newBuffer()
	m.spinner.Stop()

	m.conversation.ClearHistory()
	m.responder.Reset()
	m.totalTokens = 0
	if m.markdown != nil {
		m.markdown.Forget()
	}

	list := components.NewMessageList(m.theme, m.viewport)
	list.ShowTimestamps = m.list.ShowTimestamps
	list.Placeholder = m.list.Placeholder
	if m.markdown != nil {
		list.SetMarkdown(m.markdown)
	}
	m.follow.Unmount()
	m.list = list
	m.lastContent = ""
	m.follow = m.newFollow()
	m.follow.Mount(m.list)
	m.refresh()
	m.statusBar.Status = components.StatusReady
	m.statusBar.TokensPerSec = 0
	m.input.SetPlaceholder(components.PlaceholderReady)
	m.log.Info("conversation cleared")
	return m, m.toast(components.ToastKindStatus, "Conversation cleared")
}

func (m Model) toggleAutoplay() (Model, tea.Cmd) {
	m.autoplay = !m.autoplay
	m.syncChrome()
	if !m.autoplay {
		return m, m.toast(components.ToastKindStatus, "Autoplay off")
	}
	cmds := []tea.Cmd{m.toast(components.ToastKindStatus, "Autoplay on")}
	if !m.IsStreaming() {
		cmds = append(cmds, m.autoplayCmd(0))
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// STREAMING
// =============================================================================

// submit appends a finished user message and streams the reply.
func (m Model) submit(prompt string) (Model, tea.Cmd) {
	m.conversation.AddUserMessage(prompt)
	m.refresh()
	return m.startStream(prompt)
}

func (m Model) startStream(prompt string) (Model, tea.Cmd) {
	reply := m.responder.Reply(prompt)
	msg := m.conversation.AddAssistantMessage()

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelMgr.set(cancel)
	// A cancelled producer may still write one token; it lands in the old
	// buffer.
	m.buffer = m.newBuffer()
	m.streamID = msg.ID
	m.statusBar.Status = components.StatusStreaming
	m.input.SetPlaceholder(components.PlaceholderStreaming)
	m.refresh()

	m.log.Debug("stream started", "message_id", msg.ID, "reply_bytes", len(reply))

	id := msg.ID
	streamer := m.streamer
	buffer := m.buffer
	run := func() tea.Msg {
		stats, err := streamer.Stream(ctx, reply, buffer.Write)
		return StreamCompleteMsg{MessageID: id, Stats: stats, Err: err}
	}
	return m, tea.Batch(run, streamTickCmd(id, buffer.FlushInterval()), m.spinner.Start())
}

func (m Model) handleStreamTick(msg StreamTickMsg) (Model, tea.Cmd) {
	if msg.MessageID == "" || msg.MessageID != m.streamID {
		return m, nil
	}
	if content, ok := m.buffer.Flush(); ok {
		m.conversation.AppendToLast(content)
		m.refresh()
	}
	return m, streamTickCmd(m.streamID, m.buffer.FlushInterval())
}

func (m Model) handleStreamComplete(msg StreamCompleteMsg) (Model, tea.Cmd) {
	if msg.MessageID != m.streamID {
		return m, nil
	}
	if content, ok := m.buffer.ForceFlush(); ok {
		m.conversation.AppendToLast(content)
	}
	stats := msg.Stats
	m.conversation.FinalizeLast(&stats)
	m.streamID = ""
	m.cancelMgr.cancel()
	m.spinner.Stop()
	m.totalTokens += stats.Tokens
	m.statusBar.TokensPerSec = stats.TokensPerSecond()
	m.statusBar.Status = components.StatusReady
	m.input.SetPlaceholder(components.PlaceholderReady)

	m.refresh()
	// Markdown rendering of the settled reply changes its height.
	if m.follow.Following() {
		m.follow.ScrollToBottom(follow.Immediate)
		m.syncChrome()
	}

	var cmds []tea.Cmd
	switch {
	case msg.Err == nil:
		m.log.Debug("stream finished", "message_id", msg.MessageID, "tokens", stats.Tokens)
	case errors.Is(msg.Err, context.Canceled):
		m.log.Info("stream cancelled", "message_id", msg.MessageID, "tokens", stats.Tokens)
		cmds = append(cmds, m.toast(components.ToastKindStatus, "Reply stopped"))
	default:
		m.log.Error("stream failed", "message_id", msg.MessageID, "err", msg.Err)
		m.statusBar.Status = components.StatusError
		cmds = append(cmds, m.toast(components.ToastKindError, msg.Err.Error()))
	}

	if m.autoplay && msg.Err == nil {
		cmds = append(cmds, m.autoplayCmd(m.cfg.Feed.AutoplayDelay()))
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// AUTOPLAY
// =============================================================================

// handleAutoplay adds the next scripted prompt as a draft carrying the
// placeholder. The draft is filled in and sent after the autoplay delay, so
// the feed shows a composing message before the real one.
func (m Model) handleAutoplay() (Model, tea.Cmd) {
	if !m.autoplay || m.IsStreaming() {
		return m, nil
	}
	prompt, ok := m.responder.NextPrompt()
	if !ok {
		m.autoplay = false
		m.syncChrome()
		return m, m.toast(components.ToastKindStatus, "Transcript finished")
	}

	draft := m.conversation.AddUserMessage(m.cfg.Follow.Placeholder)
	m.statusBar.Status = components.StatusComposing
	m.refresh()

	send := AutoplaySendMsg{DraftID: draft.ID, Prompt: prompt}
	delay := m.cfg.Feed.AutoplayDelay() / 2
	if delay <= 0 {
		return m, func() tea.Msg { return send }
	}
	return m, tea.Tick(delay, func(time.Time) tea.Msg { return send })
}

func (m Model) handleAutoplaySend(msg AutoplaySendMsg) (Model, tea.Cmd) {
	last := m.conversation.GetLastMessage()
	if last == nil || last.ID != msg.DraftID || last.Role != model.RoleUser {
		// Cleared or overtaken while composing.
		return m, nil
	}
	last.Content = msg.Prompt
	m.refresh()
	return m.startStream(msg.Prompt)
}

// =============================================================================
// TRANSCRIPT RELOAD
// =============================================================================

// waitForReload blocks on the watcher until a reload arrives or the program
// context ends.
func (m Model) waitForReload() tea.Cmd {
	watcher := m.watcher
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case r := <-watcher.Changes():
			return TranscriptReloadMsg{Reload: r}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) handleReload(msg TranscriptReloadMsg) (Model, tea.Cmd) {
	cmds := []tea.Cmd{m.waitForReload()}
	if err := msg.Reload.Err; err != nil {
		m.log.Warn("transcript reload failed", "err", err)
		cmds = append(cmds, m.toast(components.ToastKindError, fmt.Sprintf("Transcript not reloaded: %v", err)))
		return m, tea.Batch(cmds...)
	}

	m.responder.SetTranscript(msg.Reload.Transcript)
	m.header.Subtitle = m.responder.Title()
	m.syncChrome()

	name := filepath.Base(m.cfg.Feed.Transcript)
	m.log.Info("transcript reloaded", "path", m.cfg.Feed.Transcript, "remaining", m.responder.Remaining())
	cmds = append(cmds, m.toast(components.ToastKindStatus, "Reloaded "+name))
	return m, tea.Batch(cmds...)
}
