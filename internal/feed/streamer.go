// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"pkt.systems/pslog"

	"github.com/jeranaias/tailchat/internal/model"
)

// TokenSink receives streamed tokens. It is called from the streaming
// goroutine and must not block for long.
type TokenSink func(token string)

// Streamer paces text out token by token.
type Streamer struct {
	limiter *rate.Limiter
	log     pslog.Logger
}

// NewStreamer returns a Streamer emitting tokensPerSecond tokens with the
// given burst. A non-positive rate streams without pacing.
func NewStreamer(tokensPerSecond float64, burst int, log pslog.Logger) *Streamer {
	limit := rate.Inf
	if tokensPerSecond > 0 {
		limit = rate.Limit(tokensPerSecond)
	}
	if burst < 1 {
		burst = 1
	}
	if log == nil {
		log = pslog.Ctx(context.Background())
	}
	return &Streamer{
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
	}
}

// Stream sends the tokens of text to sink, waiting on the limiter before
// each one. On cancellation it returns the statistics so far together with
// the context error.
func (s *Streamer) Stream(ctx context.Context, text string, sink TokenSink) (model.Statistics, error) {
	start := time.Now()
	var stats model.Statistics
	for _, tok := range Tokenize(text) {
		if err := s.limiter.Wait(ctx); err != nil {
			stats.TotalDuration = time.Since(start)
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = ctxErr
			}
			s.log.Debug("stream interrupted", "tokens", stats.Tokens, "err", err)
			return stats, fmt.Errorf("stream interrupted after %d tokens: %w", stats.Tokens, err)
		}
		sink(tok)
		stats.Tokens++
	}
	stats.TotalDuration = time.Since(start)
	s.log.Debug("stream finished", "tokens", stats.Tokens, "duration", stats.TotalDuration)
	return stats, nil
}
