// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedBuffer(batch, fps int) (*StreamingBuffer, *time.Time) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sb := NewStreamingBufferWithConfig(batch, fps)
	sb.now = func() time.Time { return now }
	sb.lastFlush = now
	return sb, &now
}

func TestStreamingBufferFlushesOnBatchSize(t *testing.T) {
	sb, _ := fixedBuffer(3, 30)

	sb.Write("a")
	sb.Write("b")
	_, ok := sb.Flush()
	assert.False(t, ok)
	assert.Equal(t, 2, sb.Pending())

	sb.Write("c")
	content, ok := sb.Flush()
	require.True(t, ok)
	assert.Equal(t, "abc", content)
	assert.Equal(t, 0, sb.Pending())
	assert.Equal(t, 3, sb.Total())
}

func TestStreamingBufferFlushesOnInterval(t *testing.T) {
	sb, now := fixedBuffer(100, 10)

	sb.Write("slow")
	_, ok := sb.Flush()
	assert.False(t, ok)

	*now = now.Add(100 * time.Millisecond)
	content, ok := sb.Flush()
	require.True(t, ok)
	assert.Equal(t, "slow", content)
}

func TestStreamingBufferEmptyNeverFlushes(t *testing.T) {
	sb, now := fixedBuffer(1, 30)
	*now = now.Add(time.Hour)

	_, ok := sb.Flush()
	assert.False(t, ok)
	_, ok = sb.ForceFlush()
	assert.False(t, ok)
}

func TestStreamingBufferForceFlushAndReset(t *testing.T) {
	sb, _ := fixedBuffer(100, 30)
	sb.Write("partial ")
	sb.Write("reply")

	content, ok := sb.ForceFlush()
	require.True(t, ok)
	assert.Equal(t, "partial reply", content)

	sb.Write("x")
	sb.Reset()
	assert.Equal(t, 0, sb.Pending())
	assert.Equal(t, 0, sb.Total())
}

func TestStreamingBufferConfigFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		batch     int
		fps       int
		wantBatch int
		wantFPS   int
	}{
		{"valid", 5, 20, 5, 20},
		{"zero batch", 0, 20, DefaultBatchSize, 20},
		{"zero fps", 5, 0, 5, DefaultMaxFPS},
		{"fps above ceiling", 5, 240, 5, DefaultMaxFPS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, fps, interval := NewStreamingBufferWithConfig(tt.batch, tt.fps).GetConfig()
			assert.Equal(t, tt.wantBatch, batch)
			assert.Equal(t, tt.wantFPS, fps)
			assert.Equal(t, time.Second/time.Duration(tt.wantFPS), interval)
		})
	}
}

func TestStreamingBufferConcurrentWrites(t *testing.T) {
	sb := NewStreamingBuffer()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sb.Write("t")
			}
		}()
	}
	wg.Wait()

	content, ok := sb.ForceFlush()
	require.True(t, ok)
	assert.Len(t, content, 800)
	assert.Equal(t, 800, sb.Total())
}

func TestCancelManager(t *testing.T) {
	cm := &cancelManager{}
	cm.cancel()

	first, cancelFirst := context.WithCancel(context.Background())
	cm.set(cancelFirst)
	second, cancelSecond := context.WithCancel(context.Background())
	cm.set(cancelSecond)
	assert.Error(t, first.Err(), "replacing a cancel func cancels the old one")
	assert.NoError(t, second.Err())

	cm.cancel()
	assert.Error(t, second.Err())
	cm.cancel()
}
