// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

// Package sources assembles the "Top Sources" ranked list.
//
// A [Fetcher] issues one ranked-list request per fetch, or two when a
// goal filter is active: the goal-filtered list and a baseline list for
// the same query without the goal. The two run concurrently and must
// both succeed; [Join] then walks the filtered rows in order and looks
// each one up in the baseline by name, letting a [MergeFunc] derive the
// conversion rate.
//
// A [Guard] tags every fetch with the query and tab it was issued for
// and cancels the one it supersedes, so a late response can never
// overwrite newer data. The selected [Tab] is remembered per site in a
// preference store under [TabKey].
package sources
