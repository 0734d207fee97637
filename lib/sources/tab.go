// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"context"
	"fmt"

	"github.com/lumen-analytics/lumen/lib/prefs"
	"github.com/lumen-analytics/lumen/lib/query"
	"github.com/lumen-analytics/lumen/lib/statsapi"
)

// Tab is the dimension the panel ranks by.
type Tab string

const (
	TabAll         Tab = "all"
	TabUTMMedium   Tab = "utm_medium"
	TabUTMSource   Tab = "utm_source"
	TabUTMCampaign Tab = "utm_campaign"
)

// Tabs is the header order.
var Tabs = []Tab{TabAll, TabUTMMedium, TabUTMSource, TabUTMCampaign}

// ParseTab returns the Tab named name.
func ParseTab(name string) (Tab, bool) {
	for _, tab := range Tabs {
		if string(tab) == name {
			return tab, true
		}
	}
	return "", false
}

// Resource returns the stats API resource the tab reads.
func (tab Tab) Resource() string {
	switch tab {
	case TabUTMMedium:
		return statsapi.ResourceUTMMediums
	case TabUTMSource:
		return statsapi.ResourceUTMSources
	case TabUTMCampaign:
		return statsapi.ResourceUTMCampaigns
	default:
		return statsapi.ResourceSources
	}
}

// Title is the short name shown in the tab strip.
func (tab Tab) Title() string {
	switch tab {
	case TabUTMMedium:
		return "Medium"
	case TabUTMSource:
		return "Source"
	case TabUTMCampaign:
		return "Campaign"
	default:
		return "All"
	}
}

// ListLabel heads the name column of the list.
func (tab Tab) ListLabel() string {
	switch tab {
	case TabUTMMedium:
		return "UTM Medium"
	case TabUTMSource:
		return "UTM Source"
	case TabUTMCampaign:
		return "UTM Campaign"
	default:
		return "Source"
	}
}

// FilterKey is the query key a row of this tab filters by when the
// user drills into it.
func (tab Tab) FilterKey() query.Key {
	switch tab {
	case TabUTMMedium:
		return query.KeyUTMMedium
	case TabUTMSource:
		return query.KeyUTMSource
	case TabUTMCampaign:
		return query.KeyUTMCampaign
	default:
		return query.KeySource
	}
}

// Next returns the following tab, wrapping around.
func (tab Tab) Next() Tab {
	return Tabs[(tab.index()+1)%len(Tabs)]
}

// Previous returns the preceding tab, wrapping around.
func (tab Tab) Previous() Tab {
	return Tabs[(tab.index()+len(Tabs)-1)%len(Tabs)]
}

func (tab Tab) index() int {
	for index, candidate := range Tabs {
		if candidate == tab {
			return index
		}
	}
	return 0
}

// TabKey is the preference key holding the selected tab for a site.
func TabKey(domain string) string {
	return "sourceTab__" + domain
}

// LoadTab returns the stored tab for domain. A missing or unknown
// value yields TabAll; a store failure yields TabAll and the error.
func LoadTab(ctx context.Context, store prefs.Store, domain string) (Tab, error) {
	value, found, err := store.Get(ctx, TabKey(domain))
	if err != nil {
		return TabAll, fmt.Errorf("loading source tab for %s: %w", domain, err)
	}
	if !found {
		return TabAll, nil
	}
	tab, ok := ParseTab(value)
	if !ok {
		return TabAll, nil
	}
	return tab, nil
}

// SaveTab stores tab as the selection for domain.
func SaveTab(ctx context.Context, store prefs.Store, domain string, tab Tab) error {
	if err := store.Set(ctx, TabKey(domain), string(tab)); err != nil {
		return fmt.Errorf("saving source tab for %s: %w", domain, err)
	}
	return nil
}
