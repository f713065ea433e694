// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package follow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/tailchat/internal/follow"
)

func TestEaseInOutCubic(t *testing.T) {
	cases := map[float64]float64{
		0:    0,
		0.25: 0.0625,
		0.5:  0.5,
		0.75: 0.9375,
		1:    1,
	}
	for in, want := range cases {
		assert.InDelta(t, want, follow.EaseInOutCubic(in), 1e-9, "t=%v", in)
	}

	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := follow.EaseInOutCubic(float64(i) / 100)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}
