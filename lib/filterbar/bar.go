// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package filterbar

import "github.com/lumen-analytics/lumen/lib/query"

// Navigator receives the filter bar's navigation requests.
type Navigator interface {
	query.Navigator

	// OpenFilterGroup shows the filter-selection view for group.
	OpenFilterGroup(group Group)
}

// Chip is one active filter as the bar displays it.
type Chip struct {
	Key   query.Key
	Value query.Value
	Label Text
}

// Bar binds the query being displayed to the navigator that owns it.
// A Bar is a value built once per render; it holds no state of its
// own.
type Bar struct {
	current   query.Query
	navigator Navigator
}

// New returns the bar for current.
func New(current query.Query, navigator Navigator) Bar {
	return Bar{current: current, navigator: navigator}
}

// Query returns the query the bar was built for.
func (bar Bar) Query() query.Query {
	return bar.current
}

// Chips returns one chip per active filter in canonical order.
func (bar Bar) Chips() []Chip {
	applied := bar.current.AppliedFilters()
	chips := make([]Chip, 0, len(applied))
	for _, filter := range applied {
		chips = append(chips, Chip{
			Key:   filter.Key,
			Value: filter.Value,
			Label: Label(filter.Key, filter.Value, bar.current),
		})
	}
	return chips
}

// RemoveFilter navigates to the query without key. Removing the goal
// also removes props, which is meaningless without it.
func (bar Bar) RemoveFilter(key query.Key) {
	bar.navigator.NavigateToQuery(WithoutFilter(bar.current, key))
}

// ClearAllFilters navigates once to the query with every filter
// cleared.
func (bar Bar) ClearAllFilters() {
	bar.navigator.NavigateToQuery(WithoutFilters(bar.current))
}

// AddFilter opens the filter-selection view for group.
func (bar Bar) AddFilter(group Group) {
	bar.navigator.OpenFilterGroup(group)
}

// WithoutFilter returns current with key cleared, and props too when
// key is the goal.
func WithoutFilter(current query.Query, key query.Key) query.Query {
	if key == query.KeyGoal {
		return current.WithoutGoal()
	}
	return current.Without(key)
}

// WithoutFilters returns current with every active filter cleared.
// Period and dates are kept.
func WithoutFilters(current query.Query) query.Query {
	applied := current.AppliedFilters()
	keys := make([]query.Key, 0, len(applied))
	for _, filter := range applied {
		keys = append(keys, filter.Key)
	}
	return current.Without(keys...)
}

// KeyEscape is the KeyEvent name of the Escape key.
const KeyEscape = "esc"

// KeyEvent is a key release as seen by the bar.
type KeyEvent struct {
	Key  string
	Ctrl bool
	Alt  bool
	Meta bool
}

// HandleKey runs the bar's global shortcut: Escape clears every
// filter. Keys pressed together with Ctrl, Alt, or Meta are left alone
// so they never shadow terminal or window-manager shortcuts. It
// reports whether the event was consumed.
func (bar Bar) HandleKey(event KeyEvent) bool {
	if event.Ctrl || event.Alt || event.Meta {
		return false
	}
	if event.Key != KeyEscape {
		return false
	}
	bar.ClearAllFilters()
	return true
}
