// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package filterbar

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/lumen-analytics/lumen/lib/layout"
	"github.com/lumen-analytics/lumen/lib/query"
)

// recordingNavigator captures navigation requests.
type recordingNavigator struct {
	queries []query.Query
	groups  []Group
}

func (navigator *recordingNavigator) NavigateToQuery(next query.Query) {
	navigator.queries = append(navigator.queries, next)
}

func (navigator *recordingNavigator) OpenFilterGroup(group Group) {
	navigator.groups = append(navigator.groups, group)
}

func (navigator *recordingNavigator) last(t *testing.T) query.Query {
	t.Helper()
	if len(navigator.queries) == 0 {
		t.Fatal("no navigation recorded")
	}
	return navigator.queries[len(navigator.queries)-1]
}

// queryFromMask sets every key whose bit is set in mask.
func queryFromMask(mask uint16) query.Query {
	current := query.New("30d")
	for index, key := range query.Keys {
		if mask&(1<<index) == 0 {
			continue
		}
		if key == query.KeyProps {
			current = current.With(key, query.Prop("plan", "pro"))
			continue
		}
		current = current.With(key, query.Scalar("value"+strconv.Itoa(index)))
	}
	return current
}

func TestRemoveFilter(t *testing.T) {
	navigator := &recordingNavigator{}
	current := query.New("30d").
		With(query.KeySource, query.Scalar("Google")).
		With(query.KeyPage, query.Scalar("/"))

	New(current, navigator).RemoveFilter(query.KeySource)

	next := navigator.last(t)
	if next.Has(query.KeySource) {
		t.Error("source should be cleared")
	}
	if !next.Has(query.KeyPage) {
		t.Error("page should be kept")
	}
	if !current.Has(query.KeySource) {
		t.Error("RemoveFilter must not mutate the displayed query")
	}
}

func TestRemoveGoalClearsProps(t *testing.T) {
	navigator := &recordingNavigator{}
	current := query.New("30d").
		With(query.KeyGoal, query.Scalar("Signup")).
		With(query.KeyProps, query.Prop("plan", "pro"))

	New(current, navigator).RemoveFilter(query.KeyGoal)

	next := navigator.last(t)
	if next.Has(query.KeyGoal) || next.Has(query.KeyProps) {
		t.Errorf("goal and props should both be cleared, got %v", next.AppliedFilters())
	}
}

func TestClearAllFiltersNavigatesOnce(t *testing.T) {
	navigator := &recordingNavigator{}
	current := queryFromMask(0xFFFF)
	current.Date = "2026-10-01"

	New(current, navigator).ClearAllFilters()

	if len(navigator.queries) != 1 {
		t.Fatalf("got %d navigations, want 1", len(navigator.queries))
	}
	next := navigator.queries[0]
	if next.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, want 0", next.ActiveCount())
	}
	if next.Period != "30d" || next.Date != "2026-10-01" {
		t.Errorf("period and date should survive, got %q %q", next.Period, next.Date)
	}
}

func TestAddFilterOpensGroup(t *testing.T) {
	navigator := &recordingNavigator{}
	New(query.New("7d"), navigator).AddFilter(GroupUTM)
	if len(navigator.groups) != 1 || navigator.groups[0] != GroupUTM {
		t.Errorf("groups = %v, want [utm]", navigator.groups)
	}
	if len(navigator.queries) != 0 {
		t.Error("AddFilter must not change the query")
	}
}

func TestHandleKey(t *testing.T) {
	current := query.New("7d").With(query.KeySource, query.Scalar("Google"))
	tests := []struct {
		name  string
		event KeyEvent
		want  bool
	}{
		{"escape", KeyEvent{Key: KeyEscape}, true},
		{"ctrl escape", KeyEvent{Key: KeyEscape, Ctrl: true}, false},
		{"alt escape", KeyEvent{Key: KeyEscape, Alt: true}, false},
		{"meta escape", KeyEvent{Key: KeyEscape, Meta: true}, false},
		{"other key", KeyEvent{Key: "x"}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			navigator := &recordingNavigator{}
			handled := New(current, navigator).HandleKey(test.event)
			if handled != test.want {
				t.Errorf("HandleKey = %v, want %v", handled, test.want)
			}
			if test.want && navigator.last(t).ActiveCount() != 0 {
				t.Error("Escape should clear every filter")
			}
			if !test.want && len(navigator.queries) != 0 {
				t.Error("ignored keys must not navigate")
			}
		})
	}
}

func TestChipsFollowCanonicalOrder(t *testing.T) {
	current := query.New("7d").
		With(query.KeyPage, query.Scalar("/")).
		With(query.KeyGoal, query.Scalar("Signup"))
	chips := New(current, &recordingNavigator{}).Chips()
	if len(chips) != 2 || chips[0].Key != query.KeyGoal || chips[1].Key != query.KeyPage {
		t.Fatalf("unexpected chips %+v", chips)
	}
	if chips[0].Label.String() != "Completed goal Signup" {
		t.Errorf("chip label = %q", chips[0].Label.String())
	}
}

func TestTriggerLabel(t *testing.T) {
	if got := TriggerLabel(layout.Collapsed, 3); got != "3 Filters" {
		t.Errorf("collapsed trigger = %q, want 3 Filters", got)
	}
	for _, state := range []layout.State{layout.Unmeasured, layout.Inline} {
		if got := TriggerLabel(state, 3); got != "Add filter" {
			t.Errorf("%s trigger = %q, want Add filter", state, got)
		}
	}
}

func TestFilterBarProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("removing the goal always clears props", prop.ForAll(
		func(mask uint16) bool {
			navigator := &recordingNavigator{}
			New(queryFromMask(mask), navigator).RemoveFilter(query.KeyGoal)
			next := navigator.queries[0]
			return !next.Has(query.KeyGoal) && !next.Has(query.KeyProps)
		},
		gen.UInt16(),
	))

	properties.Property("clear all leaves zero active filters", prop.ForAll(
		func(mask uint16) bool {
			navigator := &recordingNavigator{}
			New(queryFromMask(mask), navigator).ClearAllFilters()
			return len(navigator.queries) == 1 && navigator.queries[0].ActiveCount() == 0
		},
		gen.UInt16(),
	))

	properties.Property("removing a non-goal key touches only that key", prop.ForAll(
		func(mask uint16, index int) bool {
			key := query.Keys[index]
			if key == query.KeyGoal {
				return true
			}
			current := queryFromMask(mask)
			next := WithoutFilter(current, key)
			for _, other := range query.Keys {
				if other == key {
					if next.Has(other) {
						return false
					}
					continue
				}
				if next.Has(other) != current.Has(other) {
					return false
				}
			}
			return true
		},
		gen.UInt16(),
		gen.IntRange(0, len(query.Keys)-1),
	))

	properties.TestingRun(t)
}
