// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package follow

// EasingFunc maps normalized progress in [0,1] to eased progress in [0,1].
type EasingFunc func(t float64) float64

// EaseInOutCubic accelerates until halfway, then decelerates.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}
