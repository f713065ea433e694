// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/jeranaias/tailchat/internal/config"
	"github.com/jeranaias/tailchat/internal/feed"
	"github.com/jeranaias/tailchat/internal/ui/chat"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

// loadConfig reads the config file at path, or the default locations when
// path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	cfg, err := config.Load()
	if cfg == nil {
		return nil, err
	}
	// A broken file falls back to defaults; the error is informational.
	if err != nil {
		log.Printf("tailchat: %v (using defaults)", err)
	}
	return cfg, nil
}

// applyFlags copies explicitly set flags over the loaded config.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *rootOptions) {
	flags := cmd.Flags()
	if flags.Changed("transcript") {
		cfg.Feed.Transcript = opts.transcript
	}
	if flags.Changed("watch") {
		cfg.Feed.Watch = opts.watch
	}
	if flags.Changed("autoplay") {
		cfg.Feed.Autoplay = opts.autoplay
	}
	if flags.Changed("theme") {
		cfg.UI.Theme = opts.theme
	}
}

// runChat starts the chat screen and blocks until it exits.
func runChat(cmd *cobra.Command, opts *rootOptions) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, opts)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := requireTTY("start the chat screen"); err != nil {
		return err
	}
	config.SetGlobal(cfg)

	logger, closeLog, err := newFileLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	ctx = pslog.ContextWithLogger(ctx, logger)
	// The screen owns stdout and stderr from here on.
	log.SetOutput(pslog.LogLogger(logger).Writer())

	var transcript *feed.Transcript
	if cfg.Feed.Transcript != "" {
		if transcript, err = feed.LoadTranscript(cfg.Feed.Transcript); err != nil {
			return err
		}
	}

	var watcher *feed.Watcher
	if cfg.Feed.Watch {
		watcher, err = feed.NewWatcher(cfg.Feed.Transcript, watchDebounce, logger.With("component", "watcher"))
		if err != nil {
			return fmt.Errorf("failed to watch transcript: %w", err)
		}
		defer func() { _ = watcher.Close() }()
		if err := watcher.Start(); err != nil {
			return fmt.Errorf("failed to watch transcript: %w", err)
		}
	}

	m := chat.New(chat.Options{
		Config:    cfg,
		Logger:    logger,
		Context:   ctx,
		Responder: feed.NewResponder(transcript),
		Streamer:  feed.NewStreamer(cfg.Stream.TokensPerSecond, cfg.Stream.Burst, logger.With("component", "stream")),
		Watcher:   watcher,
	})

	logger.Info("tailchat started",
		"version", Version,
		"transcript", cfg.Feed.Transcript,
		"watch", cfg.Feed.Watch,
		"autoplay", cfg.Feed.Autoplay,
	)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("chat screen failed: %w", err)
	}
	logger.Info("tailchat stopped")
	return nil
}
