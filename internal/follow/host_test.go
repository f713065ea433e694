// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package follow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/tailchat/internal/follow"
	"github.com/jeranaias/tailchat/internal/follow/followtest"
)

func TestDistanceFromBottom(t *testing.T) {
	tests := []struct {
		name                string
		top, height, client int
		wantDistance        int
		wantNear            bool
	}{
		{name: "at bottom", top: 700, height: 1000, client: 300, wantDistance: 0, wantNear: true},
		{name: "on threshold", top: 670, height: 1000, client: 300, wantDistance: 30, wantNear: true},
		{name: "past threshold", top: 669, height: 1000, client: 300, wantDistance: 31, wantNear: false},
		{name: "at top", top: 0, height: 1000, client: 300, wantDistance: 700, wantNear: false},
		{name: "content fits", top: 0, height: 100, client: 300, wantDistance: -200, wantNear: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &followtest.Host{Top: tt.top, Height: tt.height, Client: tt.client}
			assert.Equal(t, tt.wantDistance, follow.DistanceFromBottom(h))
			assert.Equal(t, tt.wantNear, follow.IsNearBottom(h, follow.DefaultNearBottom))
		})
	}
}

func TestMaxScrollTop(t *testing.T) {
	assert.Equal(t, 700, follow.MaxScrollTop(followtest.NewHost(1000, 300)))
	assert.Equal(t, 0, follow.MaxScrollTop(followtest.NewHost(100, 300)))
	assert.Equal(t, 0, follow.MaxScrollTop(followtest.NewHost(0, 0)))
}
