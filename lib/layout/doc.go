// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

// Package layout decides whether the active filter chips fit on one
// line or must collapse into a dropdown trigger.
//
// The decision is a small state machine ([Detector]) with three states:
// [Unmeasured], [Inline], and [Collapsed]. Every query change (compared
// by fingerprint) and every viewport width change resets the detector
// to Unmeasured. The next [Detector.Resolve] call settles it again,
// either by rule (narrow viewport, fewer than two chips) or by a
// single measurement pass over the chip rectangles reported by a
// [Surface].
//
// Measurement is decoupled from any live rendering surface: [Wrapped]
// is a pure predicate over a rectangle sequence, and [FlowSurface]
// reproduces inline-flex wrapping for a terminal line so the dashboard
// can measure chips without a layout engine.
package layout
