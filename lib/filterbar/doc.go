// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

// Package filterbar holds the display-independent half of the
// dashboard filter bar: chip labels, the remove/clear/add operations,
// the Escape shortcut, the dropdown content modes, and the fixed set
// of filter groups offered by the picker.
//
// Nothing here mutates a query. Every operation computes the next
// [query.Query] and hands it to a [Navigator]; the terminal UI in
// lib/dashui decides how to draw the result.
package filterbar
