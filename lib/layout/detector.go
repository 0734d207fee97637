// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"log/slog"

	"github.com/lumen-analytics/lumen/lib/query"
)

// DefaultBreakpoint is the viewport width (in logical pixels) at or
// below which any active filter forces the collapsed display.
const DefaultBreakpoint = 768

// State is the display mode of the filter chips.
type State int

const (
	// Unmeasured means the chips have not been measured since the last
	// query or viewport change. Chips render inline while unmeasured
	// so the measurement pass has something to read.
	Unmeasured State = iota

	// Inline means every chip fits on one line.
	Inline

	// Collapsed means the chips are hidden behind a dropdown trigger.
	Collapsed
)

// String returns the lowercase state name.
func (state State) String() string {
	switch state {
	case Unmeasured:
		return "unmeasured"
	case Inline:
		return "inline"
	case Collapsed:
		return "collapsed"
	default:
		return "unknown"
	}
}

// Surface is the measurement provider: it knows the current viewport
// width and where each rendered chip ended up.
type Surface interface {
	// ViewportWidth returns the width of the area the filter bar is
	// rendered into.
	ViewportWidth() int

	// ChipRects returns the rendered chip rectangles in left-to-right
	// document order.
	ChipRects() []Rect
}

// Detector tracks the collapse state for one filter bar. It is owned
// by a single UI loop and is not safe for concurrent use.
type Detector struct {
	breakpoint int
	logger     *slog.Logger

	state       State
	width       int
	fingerprint query.Fingerprint
	mounted     bool

	measurements int
}

// NewDetector returns an unmounted detector using the given mobile
// breakpoint. A breakpoint of zero or less uses DefaultBreakpoint.
// A nil logger discards output.
func NewDetector(breakpoint int, logger *slog.Logger) *Detector {
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Detector{
		breakpoint: breakpoint,
		logger:     logger,
	}
}

// Mount records the initial query and viewport and enters Unmeasured.
func (detector *Detector) Mount(current query.Query, surface Surface) {
	detector.mounted = true
	detector.fingerprint = current.Fingerprint()
	detector.width = surface.ViewportWidth()
	detector.state = Unmeasured
}

// Observe reports a possible query or viewport change. When either
// differs from the last observed value the detector re-enters
// Unmeasured and Observe returns true. Observing an unmounted detector
// mounts it.
func (detector *Detector) Observe(current query.Query, surface Surface) bool {
	if !detector.mounted {
		detector.Mount(current, surface)
		return true
	}
	fingerprint := current.Fingerprint()
	width := surface.ViewportWidth()
	if fingerprint == detector.fingerprint && width == detector.width {
		return false
	}
	detector.fingerprint = fingerprint
	detector.width = width
	detector.state = Unmeasured
	return true
}

// NeedsMeasurement reports whether resolving activeCount filters at
// the observed width has to read chip positions. When it returns
// false, Resolve can run before the chips are ever drawn.
func (detector *Detector) NeedsMeasurement(activeCount int) bool {
	return activeCount >= 2 && detector.width > detector.breakpoint
}

// Resolve settles an Unmeasured detector and returns the current
// state. It must be called after the chips for the observed query have
// been rendered, since the measurement pass reads their positions from
// surface. A settled detector returns its state without measuring, so
// repeated calls between triggers never measure twice.
func (detector *Detector) Resolve(activeCount int, surface Surface) State {
	if detector.state != Unmeasured {
		return detector.state
	}

	switch {
	case activeCount >= 1 && detector.width <= detector.breakpoint:
		detector.state = Collapsed
	case activeCount <= 1:
		detector.state = Inline
	default:
		detector.measurements++
		rects := surface.ChipRects()
		if Wrapped(rects) {
			detector.state = Collapsed
		} else {
			detector.state = Inline
		}
		detector.logger.Debug("measured filter chips",
			"chips", len(rects),
			"width", detector.width,
			"state", detector.state.String(),
		)
	}
	return detector.state
}

// State returns the current state without resolving.
func (detector *Detector) State() State {
	return detector.state
}

// Pending reports whether a measurement pass is owed.
func (detector *Detector) Pending() bool {
	return detector.mounted && detector.state == Unmeasured
}

// Measurements returns how many measurement passes have run.
func (detector *Detector) Measurements() int {
	return detector.measurements
}
