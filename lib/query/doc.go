// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

// Package query defines the dashboard query: the reporting period plus
// the set of active filters that narrow every stats request.
//
// A [Query] is an immutable value. Mutations ([Query.With],
// [Query.Without]) return a new Query and leave the receiver untouched,
// so a render pass can hold on to the query it started with while
// handlers compute the next one. Consumers never change the query in
// place: they hand the next value to a [Navigator], which owns the
// "current query" for the whole dashboard.
//
// Two queries are compared by [Query.Fingerprint], a keyed BLAKE3 hash
// over the canonical CBOR encoding. Equal fingerprints mean deep-equal
// queries, which is what the layout detector and the stale-response
// guard need.
package query
