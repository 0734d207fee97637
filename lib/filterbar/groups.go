// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package filterbar

import "github.com/lumen-analytics/lumen/lib/query"

// Group is one entry of the "add filter" picker. Each group opens a
// filter-selection view over a fixed set of keys.
type Group string

const (
	GroupPage     Group = "page"
	GroupSource   Group = "source"
	GroupUTM      Group = "utm"
	GroupGoal     Group = "goal"
	GroupLocation Group = "location"
	GroupScreen   Group = "screen"
	GroupBrowser  Group = "browser"
	GroupOS       Group = "os"
)

// Groups is the picker order.
var Groups = []Group{
	GroupPage,
	GroupSource,
	GroupUTM,
	GroupGoal,
	GroupLocation,
	GroupScreen,
	GroupBrowser,
	GroupOS,
}

var groupKeys = map[Group][]query.Key{
	GroupPage:     {query.KeyPage, query.KeyEntryPage, query.KeyExitPage},
	GroupSource:   {query.KeySource, query.KeyReferrer},
	GroupUTM:      {query.KeyUTMMedium, query.KeyUTMSource, query.KeyUTMCampaign},
	GroupGoal:     {query.KeyGoal, query.KeyProps},
	GroupLocation: {query.KeyCountry},
	GroupScreen:   {query.KeyScreen},
	GroupBrowser:  {query.KeyBrowser, query.KeyBrowserVersion},
	GroupOS:       {query.KeyOS, query.KeyOSVersion},
}

// Keys returns the filter keys the group's selection view edits, the
// primary key first.
func (group Group) Keys() []query.Key {
	return groupKeys[group]
}

// ParseGroup returns the Group named name.
func ParseGroup(name string) (Group, bool) {
	for _, group := range Groups {
		if string(group) == name {
			return group, true
		}
	}
	return "", false
}

// FormatGroup returns the picker label for a group.
func FormatGroup(group Group) string {
	switch group {
	case GroupPage:
		return "Page"
	case GroupSource:
		return "Source"
	case GroupUTM:
		return "UTM tags"
	case GroupGoal:
		return "Goal"
	case GroupLocation:
		return "Location"
	case GroupScreen:
		return "Screen size"
	case GroupBrowser:
		return "Browser"
	case GroupOS:
		return "Operating System"
	default:
		return string(group)
	}
}
