// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Streaming defaults, matching the [stream] config section.
const (
	DefaultBatchSize = 15
	DefaultMaxFPS    = 30
	maxFPSCeiling    = 60
)

// =============================================================================
// STREAMING BUFFER
// =============================================================================

// StreamingBuffer batches tokens between the producer goroutine and the
// update loop. Tokens are flushed when batchSize have accumulated or when
// 1/maxFPS has passed since the last flush, whichever comes first.
//
// All methods are safe for concurrent use.
type StreamingBuffer struct {
	mu         sync.Mutex
	buffer     strings.Builder
	tokenCount int
	total      int
	lastFlush  time.Time
	now        func() time.Time

	batchSize     int
	maxFPS        int
	flushInterval time.Duration
}

// NewStreamingBuffer creates a buffer with the default batch size and rate.
func NewStreamingBuffer() *StreamingBuffer {
	return NewStreamingBufferWithConfig(DefaultBatchSize, DefaultMaxFPS)
}

// NewStreamingBufferWithConfig creates a buffer with custom settings.
// Out-of-range values fall back to the defaults.
func NewStreamingBufferWithConfig(batchSize, maxFPS int) *StreamingBuffer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if maxFPS <= 0 || maxFPS > maxFPSCeiling {
		maxFPS = DefaultMaxFPS
	}
	sb := &StreamingBuffer{
		batchSize:     batchSize,
		maxFPS:        maxFPS,
		flushInterval: time.Second / time.Duration(maxFPS),
		now:           time.Now,
	}
	sb.lastFlush = sb.now()
	return sb
}

// Write adds a token. Called from the streaming goroutine.
func (sb *StreamingBuffer) Write(token string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.WriteString(token)
	sb.tokenCount++
	sb.total++
}

// Flush returns the accumulated content if a flush is due.
func (sb *StreamingBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if !sb.shouldFlushLocked() {
		return "", false
	}
	return sb.takeLocked(), true
}

// ForceFlush returns whatever is buffered regardless of thresholds.
func (sb *StreamingBuffer) ForceFlush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if sb.buffer.Len() == 0 {
		return "", false
	}
	return sb.takeLocked(), true
}

func (sb *StreamingBuffer) takeLocked() string {
	content := sb.buffer.String()
	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.lastFlush = sb.now()
	return content
}

func (sb *StreamingBuffer) shouldFlushLocked() bool {
	if sb.buffer.Len() == 0 {
		return false
	}
	if sb.tokenCount >= sb.batchSize {
		return true
	}
	return sb.now().Sub(sb.lastFlush) >= sb.flushInterval
}

// Reset drops buffered content and the running total.
func (sb *StreamingBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.total = 0
	sb.lastFlush = sb.now()
}

// Pending returns the number of tokens waiting to be flushed.
func (sb *StreamingBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.tokenCount
}

// Total returns the number of tokens written since the last Reset.
func (sb *StreamingBuffer) Total() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.total
}

// FlushInterval returns the tick interval matching maxFPS.
func (sb *StreamingBuffer) FlushInterval() time.Duration {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.flushInterval
}

// GetConfig returns the current buffer configuration.
func (sb *StreamingBuffer) GetConfig() (batchSize, maxFPS int, flushInterval time.Duration) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.batchSize, sb.maxFPS, sb.flushInterval
}

// streamTickCmd schedules the next flush of the stream identified by id.
func streamTickCmd(id string, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return StreamTickMsg{MessageID: id, Time: t}
	})
}

// =============================================================================
// CANCEL FUNCTION MANAGEMENT
// =============================================================================

// cancelManager holds the cancel function of the running stream. It is used
// by pointer so Bubble Tea's model copies share it.
type cancelManager struct {
	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

func (cm *cancelManager) set(fn context.CancelFunc) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancelFunc != nil {
		cm.cancelFunc()
	}
	cm.cancelFunc = fn
}

// cancel invokes and clears the stored cancel function. Safe to call with
// nothing stored.
func (cm *cancelManager) cancel() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancelFunc != nil {
		cm.cancelFunc()
		cm.cancelFunc = nil
	}
}
