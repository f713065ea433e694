// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"pkt.systems/pslog"

	"github.com/jeranaias/tailchat/internal/config"
	"github.com/jeranaias/tailchat/internal/feed"
	"github.com/jeranaias/tailchat/internal/follow"
	"github.com/jeranaias/tailchat/internal/model"
	"github.com/jeranaias/tailchat/internal/ui/components"
	"github.com/jeranaias/tailchat/internal/ui/styles"
)

// Rows taken by everything except the message viewport: header, notice row,
// input area and status bar.
const chromeRows = 1 + 1 + components.InputAreaHeight + 1

// Options wires a Model to its collaborators. Only Config is read for
// defaults; everything else is optional.
type Options struct {
	Config    *config.Config
	Logger    pslog.Logger
	Context   context.Context
	Responder *feed.Responder
	Streamer  *feed.Streamer
	Watcher   *feed.Watcher

	// Clock stamps animation frames that carry no time. Nil uses the wall
	// clock.
	Clock follow.Clock
	// Theme overrides the theme named in Config.
	Theme *styles.Theme
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	cfg   *config.Config
	log   pslog.Logger
	ctx   context.Context
	theme *styles.Theme
	keys  KeyMap

	// Width and height of the terminal.
	width  int
	height int

	conversation *model.Conversation

	// UI components. The viewport is the scroll host of the feed and the
	// message list is the container the follow controller is mounted on.
	viewport  *components.ChatViewport
	list      *components.MessageList
	markdown  *components.MarkdownRenderer
	header    *components.Header
	jump      *components.JumpButton
	statusBar *components.StatusBar
	input     *components.InputArea
	spinner   components.Spinner
	toasts    *components.ToastManager

	// Auto-follow.
	frames   *frameScheduler
	clock    follow.Clock
	animator *follow.Animator
	follow   *follow.Controller

	// Feed producers.
	responder *feed.Responder
	streamer  *feed.Streamer
	watcher   *feed.Watcher

	// Current stream.
	buffer      *StreamingBuffer
	cancelMgr   *cancelManager
	streamID    string
	totalTokens int

	// lastContent is the last string handed to the viewport.
	lastContent string

	autoplay     bool
	toastTicking bool
	quitting     bool
}

// New creates the chat model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = pslog.Ctx(ctx)
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Theme)
	}
	clock := opts.Clock
	if clock == nil {
		clock = follow.SystemClock{}
	}
	responder := opts.Responder
	if responder == nil {
		responder = feed.NewResponder(nil)
	}
	streamer := opts.Streamer
	if streamer == nil {
		streamer = feed.NewStreamer(cfg.Stream.TokensPerSecond, cfg.Stream.Burst, log)
	}

	vp := components.NewChatViewport(theme)
	list := components.NewMessageList(theme, vp)
	list.ShowTimestamps = cfg.UI.ShowTimestamps
	list.Placeholder = cfg.Follow.Placeholder

	var md *components.MarkdownRenderer
	if cfg.UI.Markdown {
		style := components.MarkdownDark
		if !theme.IsDark {
			style = components.MarkdownLight
		}
		md = components.NewMarkdownRenderer(style)
		list.SetMarkdown(md)
	}

	frames := newFrameScheduler(cfg.Follow.FrameInterval())

	header := components.NewHeader(theme)
	header.Subtitle = responder.Title()

	input := components.NewInputArea(theme)
	input.Focus()

	statusBar := components.NewStatusBar(theme)
	statusBar.Autoplay = cfg.Feed.Autoplay
	statusBar.Watching = opts.Watcher != nil

	m := Model{
		cfg:          cfg,
		log:          log,
		ctx:          ctx,
		theme:        theme,
		keys:         DefaultKeyMap(),
		conversation: model.NewConversation(),
		viewport:     vp,
		list:         list,
		markdown:     md,
		header:       header,
		jump:         components.NewJumpButton(theme),
		statusBar:    statusBar,
		input:        input,
		spinner:      components.NewSpinner(styles.DotsSpinner, "Streaming reply"),
		toasts:       components.NewToastManager(nil),
		frames:       frames,
		clock:        clock,
		responder:    responder,
		streamer:     streamer,
		watcher:      opts.Watcher,
		cancelMgr:    &cancelManager{},
		autoplay:     cfg.Feed.Autoplay,
	}
	if cfg.Feed.Transcript != "" {
		m.header.Remaining = responder.Remaining()
	}
	m.buffer = m.newBuffer()
	m.follow = m.newFollow()
	m.follow.Mount(list)
	return m
}

// newFollow builds a controller over a fresh animator and routes user scrolls
// of the viewport to it.
func (m *Model) newFollow() *follow.Controller {
	transition := styles.TransitionScroll.WithDuration(m.cfg.Follow.AnimationDuration())
	m.animator = follow.NewAnimator(m.clock, m.frames, transition.AnimatorOptions()...)
	ctrl := follow.NewController(m.animator,
		follow.WithRoot(m.viewport),
		follow.WithThreshold(m.cfg.Follow.NearBottom),
		follow.WithPlaceholder(m.cfg.Follow.Placeholder),
		follow.WithLogger(m.log.With("component", "follow")),
	)
	m.viewport.OnScroll(ctrl.OnScroll)
	return ctrl
}

// newBuffer returns the token buffer for one stream.
func (m *Model) newBuffer() *StreamingBuffer {
	return NewStreamingBufferWithConfig(m.cfg.Stream.BatchSize, m.cfg.Stream.MaxFPS)
}

// Init starts the cursor blink, the transcript watcher wait loop and
// autoplay.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForReload())
	}
	if m.autoplay {
		cmds = append(cmds, m.autoplayCmd(0))
	}
	return tea.Batch(cmds...)
}

// Update handles a message and arms the next animation frame when the
// follow animator asked for one.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	return next, tea.Batch(cmd, next.frames.Cmd())
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Conversation returns the conversation being displayed.
func (m Model) Conversation() *model.Conversation { return m.conversation }

// Follow returns the auto-follow controller.
func (m Model) Follow() *follow.Controller { return m.follow }

// Viewport returns the scrollable message pane.
func (m Model) Viewport() *components.ChatViewport { return m.viewport }

// IsStreaming reports whether a reply is being streamed.
func (m Model) IsStreaming() bool { return m.streamID != "" }

// Autoplay reports whether transcript turns are submitted automatically.
func (m Model) Autoplay() bool { return m.autoplay }

// Toasts returns the live notices, newest first.
func (m Model) Toasts() []components.Toast { return m.toasts.Toasts() }

// =============================================================================
// REFRESH
// =============================================================================

// refresh re-renders the feed into the viewport and hands the new snapshot
// to the follow controller. Content must be in place before the controller
// reacts so a jump lands on the new bottom.
func (m *Model) refresh() {
	m.list.SetMessages(m.conversation.History())
	m.list.SetWidth(m.viewport.ContentWidth())
	content := m.list.View()
	if content != m.lastContent {
		m.viewport.SetContent(content)
		m.lastContent = content
	}
	m.follow.SetFeed(m.conversation.Feed())
	// Re-sample the button for the new content height.
	m.follow.Mount(m.list)
	m.syncChrome()
}

// syncChrome copies follow and stream state into the header, jump button and
// status bar.
func (m *Model) syncChrome() {
	m.jump.Visible = m.follow.ShowScrollButton()
	m.jump.Streaming = m.IsStreaming()
	m.jump.Below = m.viewport.LinesBelow()

	m.statusBar.Following = m.follow.Following()
	m.statusBar.Messages = m.conversation.MessageCount()
	m.statusBar.Tokens = m.totalTokens
	m.statusBar.Autoplay = m.autoplay

	if m.cfg.Feed.Transcript != "" {
		m.header.Remaining = m.responder.Remaining()
	}
}

// resize lays out every component for a width x height terminal.
func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.jump.Width = width
	m.statusBar.SetWidth(width)
	m.input.SetWidth(width)
	m.viewport.SetSize(width, height-chromeRows)
	if m.markdown != nil {
		m.markdown.Forget()
	}
	m.lastContent = ""
	m.refresh()
	if m.follow.Following() {
		m.follow.ScrollToBottom(follow.Immediate)
	} else {
		m.follow.OnScroll()
	}
	m.syncChrome()
}

func (m *Model) toast(kind components.ToastKind, text string) tea.Cmd {
	m.toasts.Add(kind, text)
	if m.toastTicking {
		return nil
	}
	m.toastTicking = true
	return components.ToastTickCmd()
}

func (m *Model) autoplayCmd(delay time.Duration) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return AutoplayMsg{} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg { return AutoplayMsg{} })
}
