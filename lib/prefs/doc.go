// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

// Package prefs is the client-local key/value store for dashboard
// preferences such as the selected source tab of each site.
//
// [SQLiteStore] persists to a single-table SQLite database opened
// through a small connection pool with WAL pragmas. Each value is
// stored as a deterministic CBOR [Record] carrying the value and the
// time it was written. [MemoryStore] keeps the same contract in
// memory for tests and for runs with persistence disabled.
//
// Entries never expire.
package prefs
