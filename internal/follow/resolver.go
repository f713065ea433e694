// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package follow

// Overflow mirrors the CSS overflow property of a layout node.
type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowAuto
	OverflowScroll
)

// Scrollable reports whether content overflowing a node with this value can
// be scrolled.
func (o Overflow) Scrollable() bool {
	return o == OverflowAuto || o == OverflowScroll
}

// String returns the CSS keyword for o.
func (o Overflow) String() string {
	switch o {
	case OverflowHidden:
		return "hidden"
	case OverflowAuto:
		return "auto"
	case OverflowScroll:
		return "scroll"
	default:
		return "visible"
	}
}

// Node is a layout node that can take part in scroll-parent resolution.
// Parent returns nil at the top of the tree.
type Node interface {
	ScrollHost
	Parent() Node
	Overflow() Overflow
	OverflowY() Overflow
}

// FindScrollParent walks outward from the parent of node and returns the
// first ancestor that both allows scrolling and currently overflows. When no
// ancestor qualifies it returns root, which may be nil.
func FindScrollParent(node Node, root ScrollHost) ScrollHost {
	if node == nil {
		return root
	}
	for p := node.Parent(); p != nil; p = p.Parent() {
		if !p.Overflow().Scrollable() && !p.OverflowY().Scrollable() {
			continue
		}
		if p.ScrollHeight() > p.ClientHeight() {
			return p
		}
	}
	return root
}

// Resolver caches the scroll host of one feed container. The cached handle is
// reused until a container with a different identity is resolved. Containers
// are compared with ==, so they should be pointers.
type Resolver struct {
	root      ScrollHost
	container Node
	host      ScrollHost
}

// NewResolver returns a Resolver that falls back to root.
func NewResolver(root ScrollHost) *Resolver {
	return &Resolver{root: root}
}

// Resolve returns the scroll host for container, resolving it only when the
// container changed since the last call.
func (r *Resolver) Resolve(container Node) ScrollHost {
	if container != nil && container == r.container && r.host != nil {
		return r.host
	}
	r.container = container
	r.host = FindScrollParent(container, r.root)
	return r.host
}

// Host returns the cached scroll host, or nil if nothing was resolved.
func (r *Resolver) Host() ScrollHost {
	return r.host
}

// Reset forgets the cached container and host.
func (r *Resolver) Reset() {
	r.container = nil
	r.host = nil
}
