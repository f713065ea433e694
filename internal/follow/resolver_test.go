// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package follow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tailchat/internal/follow"
	"github.com/jeranaias/tailchat/internal/follow/followtest"
)

func TestFindScrollParentNearestOverflowing(t *testing.T) {
	root := followtest.NewHost(2000, 500)
	outer := followtest.NewNode(nil, follow.OverflowScroll, 900, 400)
	inner := followtest.NewNode(outer, follow.OverflowAuto, 800, 300)
	wrapper := followtest.NewNode(inner, follow.OverflowVisible, 800, 800)
	container := followtest.NewNode(wrapper, follow.OverflowVisible, 800, 800)

	got := follow.FindScrollParent(container, root)
	require.Same(t, inner, got)
}

func TestFindScrollParentSkipsNonOverflowing(t *testing.T) {
	root := followtest.NewHost(2000, 500)
	outer := followtest.NewNode(nil, follow.OverflowAuto, 900, 400)
	inner := followtest.NewNode(outer, follow.OverflowAuto, 300, 300)
	container := followtest.NewNode(inner, follow.OverflowVisible, 300, 300)

	require.Same(t, outer, follow.FindScrollParent(container, root))
}

func TestFindScrollParentOverflowYOnly(t *testing.T) {
	root := followtest.NewHost(2000, 500)
	parent := followtest.NewNode(nil, follow.OverflowHidden, 900, 400)
	parent.OverflowV = follow.OverflowScroll
	container := followtest.NewNode(parent, follow.OverflowVisible, 900, 900)

	require.Same(t, parent, follow.FindScrollParent(container, root))
}

func TestFindScrollParentIgnoresContainerItself(t *testing.T) {
	root := followtest.NewHost(2000, 500)
	container := followtest.NewNode(nil, follow.OverflowAuto, 900, 400)

	require.Same(t, root, follow.FindScrollParent(container, root))
}

func TestFindScrollParentFallsBackToRoot(t *testing.T) {
	root := followtest.NewHost(2000, 500)
	hidden := followtest.NewNode(nil, follow.OverflowHidden, 900, 400)
	container := followtest.NewNode(hidden, follow.OverflowVisible, 900, 900)

	require.Same(t, root, follow.FindScrollParent(container, root))
	require.Same(t, root, follow.FindScrollParent(nil, root))
	assert.Nil(t, follow.FindScrollParent(container, nil))
}

func TestResolverCachesByContainerIdentity(t *testing.T) {
	root := followtest.NewHost(2000, 500)
	scroller := followtest.NewNode(nil, follow.OverflowAuto, 900, 400)
	container := followtest.NewNode(scroller, follow.OverflowVisible, 900, 900)
	r := follow.NewResolver(root)

	require.Same(t, scroller, r.Resolve(container))

	// The scroller stops overflowing, but the container is unchanged.
	scroller.Height = 100
	require.Same(t, scroller, r.Resolve(container))
	require.Same(t, scroller, r.Host())

	other := followtest.NewNode(scroller, follow.OverflowVisible, 100, 100)
	require.Same(t, root, r.Resolve(other))

	r.Reset()
	assert.Nil(t, r.Host())
	scroller.Height = 900
	require.Same(t, scroller, r.Resolve(container))
}

func TestOverflowScrollable(t *testing.T) {
	assert.False(t, follow.OverflowVisible.Scrollable())
	assert.False(t, follow.OverflowHidden.Scrollable())
	assert.True(t, follow.OverflowAuto.Scrollable())
	assert.True(t, follow.OverflowScroll.Scrollable())
	assert.Equal(t, "auto", follow.OverflowAuto.String())
	assert.Equal(t, "visible", follow.Overflow(42).String())
}
