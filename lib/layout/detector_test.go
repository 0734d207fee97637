// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package layout

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/lumen-analytics/lumen/lib/query"
)

func twoFilters() query.Query {
	return query.New("30d").
		With(query.KeySource, query.Scalar("Google")).
		With(query.KeyCountry, query.Scalar("DEU"))
}

func oneRow(width int) StaticSurface {
	return StaticSurface{Width: width, Rects: []Rect{{Top: 0, Left: 0}, {Top: 0, Left: 20}}}
}

func twoRows(width int) StaticSurface {
	return StaticSurface{Width: width, Rects: []Rect{{Top: 0, Left: 0}, {Top: 1, Left: 0}}}
}

func TestResolveMeasuresOncePerEntry(t *testing.T) {
	detector := NewDetector(0, nil)
	current := twoFilters()
	surface := twoRows(1200)

	detector.Mount(current, surface)
	if !detector.Pending() {
		t.Fatal("mounted detector should owe a measurement")
	}
	if state := detector.Resolve(2, surface); state != Collapsed {
		t.Fatalf("Resolve = %s, want collapsed", state)
	}
	if state := detector.Resolve(2, oneRow(1200)); state != Collapsed {
		t.Errorf("second Resolve = %s, want the settled collapsed state", state)
	}
	if detector.Measurements() != 1 {
		t.Errorf("Measurements() = %d, want 1", detector.Measurements())
	}

	// Re-observing the same query and width is not a trigger.
	if detector.Observe(current, surface) {
		t.Error("Observe with unchanged inputs should not reset")
	}
	detector.Resolve(2, surface)
	if detector.Measurements() != 1 {
		t.Errorf("Measurements() = %d after a no-op observe, want 1", detector.Measurements())
	}
}

func TestObserveResetsOnQueryChange(t *testing.T) {
	detector := NewDetector(0, nil)
	detector.Mount(twoFilters(), twoRows(1200))
	detector.Resolve(2, twoRows(1200))

	// A deep-equal query built in a different order is not a change.
	same := query.New("30d").
		With(query.KeyCountry, query.Scalar("DEU")).
		With(query.KeySource, query.Scalar("Google"))
	if detector.Observe(same, twoRows(1200)) {
		t.Error("deep-equal query should not reset the detector")
	}

	changed := twoFilters().With(query.KeyPage, query.Scalar("/pricing"))
	if !detector.Observe(changed, oneRow(1200)) {
		t.Fatal("query change should reset the detector")
	}
	if detector.State() != Unmeasured {
		t.Fatalf("State() = %s, want unmeasured", detector.State())
	}
	if state := detector.Resolve(3, oneRow(1200)); state != Inline {
		t.Errorf("Resolve = %s, want inline", state)
	}
	if detector.Measurements() != 2 {
		t.Errorf("Measurements() = %d, want 2", detector.Measurements())
	}
}

func TestObserveResetsOnResize(t *testing.T) {
	detector := NewDetector(0, nil)
	detector.Mount(twoFilters(), oneRow(1200))
	detector.Resolve(2, oneRow(1200))

	if !detector.Observe(twoFilters(), twoRows(900)) {
		t.Fatal("width change should reset the detector")
	}
	if state := detector.Resolve(2, twoRows(900)); state != Collapsed {
		t.Errorf("Resolve = %s, want collapsed", state)
	}
}

func TestMobileForcesCollapsedWithoutMeasuring(t *testing.T) {
	detector := NewDetector(0, nil)
	current := query.New("7d").With(query.KeyGoal, query.Scalar("Signup"))
	detector.Mount(current, oneRow(DefaultBreakpoint))

	if state := detector.Resolve(1, oneRow(DefaultBreakpoint)); state != Collapsed {
		t.Errorf("Resolve at the breakpoint = %s, want collapsed", state)
	}
	if detector.Measurements() != 0 {
		t.Errorf("Measurements() = %d, want 0 on mobile", detector.Measurements())
	}
}

func TestSingleFilterNeverMeasures(t *testing.T) {
	detector := NewDetector(0, nil)
	current := query.New("7d").With(query.KeySource, query.Scalar("Google"))
	detector.Mount(current, twoRows(1200))

	if state := detector.Resolve(1, twoRows(1200)); state != Inline {
		t.Errorf("Resolve = %s, want inline", state)
	}
	if detector.Measurements() != 0 {
		t.Errorf("Measurements() = %d, want 0", detector.Measurements())
	}
}

func TestNeedsMeasurement(t *testing.T) {
	tests := []struct {
		width       int
		activeCount int
		want        bool
	}{
		{width: 1200, activeCount: 0, want: false},
		{width: 1200, activeCount: 1, want: false},
		{width: 1200, activeCount: 2, want: true},
		{width: DefaultBreakpoint, activeCount: 2, want: false},
		{width: 320, activeCount: 1, want: false},
	}
	for _, test := range tests {
		detector := NewDetector(0, nil)
		detector.Mount(twoFilters(), oneRow(test.width))
		if got := detector.NeedsMeasurement(test.activeCount); got != test.want {
			t.Errorf("NeedsMeasurement(%d) at width %d = %v, want %v", test.activeCount, test.width, got, test.want)
		}
		state := detector.Resolve(test.activeCount, oneRow(test.width))
		if !test.want && detector.Measurements() != 0 {
			t.Errorf("width %d, %d filters: resolved to %s by measuring", test.width, test.activeCount, state)
		}
	}
}

func TestCustomBreakpoint(t *testing.T) {
	detector := NewDetector(100, nil)
	if detector.breakpoint != 100 {
		t.Fatalf("breakpoint = %d, want 100", detector.breakpoint)
	}
	detector.Mount(twoFilters(), oneRow(101))
	if state := detector.Resolve(2, oneRow(101)); state != Inline {
		t.Errorf("Resolve above the breakpoint = %s, want inline", state)
	}
	detector.Observe(twoFilters(), oneRow(100))
	if state := detector.Resolve(2, oneRow(100)); state != Collapsed {
		t.Errorf("Resolve at the breakpoint = %s, want collapsed", state)
	}
}

func TestDetectorProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("zero active filters never collapse", prop.ForAll(
		func(width int, wrapped bool) bool {
			surface := oneRow(width)
			if wrapped {
				surface = twoRows(width)
			}
			detector := NewDetector(0, nil)
			detector.Mount(query.New("30d"), surface)
			return detector.Resolve(0, surface) != Collapsed
		},
		gen.IntRange(0, 4000),
		gen.Bool(),
	))

	properties.Property("one active filter never measures", prop.ForAll(
		func(widths []int) bool {
			detector := NewDetector(0, nil)
			current := query.New("30d").With(query.KeySource, query.Scalar("Google"))
			for _, width := range widths {
				surface := twoRows(width)
				detector.Observe(current, surface)
				detector.Resolve(1, surface)
			}
			return detector.Measurements() == 0
		},
		gen.SliceOf(gen.IntRange(0, 4000)),
	))

	properties.Property("narrow viewport with filters always collapses", prop.ForAll(
		func(priorWidth, width, active int) bool {
			detector := NewDetector(0, nil)
			current := twoFilters()
			detector.Mount(current, oneRow(priorWidth))
			detector.Resolve(active, oneRow(priorWidth))

			detector.Observe(current, oneRow(width))
			return detector.Resolve(active, oneRow(width)) == Collapsed
		},
		gen.IntRange(769, 4000),
		gen.IntRange(0, DefaultBreakpoint),
		gen.IntRange(1, 16),
	))

	properties.TestingRun(t)
}
