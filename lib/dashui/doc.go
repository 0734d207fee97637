// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashui implements the lumen terminal dashboard as a
// bubbletea program: the filter bar across the top and the Top Sources
// panel below it.
//
// [Model] owns the current query. The filter bar, the filter picker,
// and the panel rows never change it themselves; they hand the next
// query to the model, which records it in the back history, resets the
// layout detector, and issues a new panel fetch through the stale
// guard.
//
// The collapse decision follows the render: after any change that can
// move the chips, Update schedules a measure message, and only when it
// arrives (after the frame was drawn) does the detector read chip
// positions from the flow layout of the rendered chip widths.
//
// Log records routed through [TUILogHandler] show up in the status
// line for a few seconds instead of corrupting the alternate screen.
package dashui
