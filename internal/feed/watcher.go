// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"pkt.systems/pslog"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// Reload is the outcome of re-reading the transcript after a change.
type Reload struct {
	Transcript *Transcript
	Err        error
}

// Watcher reloads a transcript whenever it changes on disk.
//
// The parent directory is watched rather than the file itself because
// editors commonly replace files by rename.
type Watcher struct {
	path     string
	debounce time.Duration
	log      pslog.Logger

	watcher *fsnotify.Watcher
	changes chan Reload
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for the transcript at path.
func NewWatcher(path string, debounce time.Duration, log pslog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = pslog.Ctx(context.Background())
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     filepath.Clean(abs),
		debounce: debounce,
		log:      log.With("transcript", abs),
		watcher:  fw,
		changes:  make(chan Reload, 1),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Changes delivers reloads. Only the latest undelivered reload is kept.
func (w *Watcher) Changes() <-chan Reload {
	return w.changes
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// processEvents filters directory events down to the transcript file.
func (w *Watcher) processEvents() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("transcript watch error", "err", err)
		}
	}
}

// schedule (re)starts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	if w.ctx.Err() != nil {
		return
	}
	t, err := LoadTranscript(w.path)
	if err != nil {
		w.log.Warn("transcript reload failed", "err", err)
	} else {
		w.log.Info("transcript reloaded", "turns", len(t.Turns))
	}
	w.deliver(Reload{Transcript: t, Err: err})
}

// deliver replaces any undelivered reload with r.
func (w *Watcher) deliver(r Reload) {
	for {
		select {
		case w.changes <- r:
			return
		default:
		}
		select {
		case <-w.changes:
		default:
		}
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
