// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for lumen packages.
//
// [RequireReceive], [RequireClosed], and [Eventually] encapsulate the
// timeout safety valve pattern (select with time.After fallback, or a
// bounded polling loop) so that individual tests do not need direct
// wall-clock waits. Code under test uses lib/clock; these helpers are
// the only place tests wait on real time to guard against hangs.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no lumen-internal dependencies.
package testutil
