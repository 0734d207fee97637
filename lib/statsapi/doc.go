// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

// Package statsapi is the HTTP client for the analytics stats API.
//
// The dashboard only consumes ranked breakdowns:
//
//	GET {base}/api/stats/{site}/{resource}?period=...&filters=...&show_noref=...
//
// which answer with an ordered JSON array of {"name", "count"} rows.
// Every request carries a fresh X-Request-ID, the bearer token when
// one is configured, and waits on a client-side rate limiter so that
// live polling cannot flood the server. Response bodies are read
// through a size bound.
package statsapi
