// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package filterbar

import (
	"github.com/charmbracelet/x/ansi"

	"github.com/lumen-analytics/lumen/lib/geo"
	"github.com/lumen-analytics/lumen/lib/query"
)

// Text is a chip label split into a plain prefix and the emphasized
// filter value, so renderers can style the value separately.
type Text struct {
	Prefix   string
	Emphasis string
}

// String joins the two parts.
func (text Text) String() string {
	return text.Prefix + text.Emphasis
}

var simplePrefixes = map[query.Key]string{
	query.KeySource:      "Source: ",
	query.KeyUTMMedium:   "UTM medium: ",
	query.KeyUTMSource:   "UTM source: ",
	query.KeyUTMCampaign: "UTM campaign: ",
	query.KeyReferrer:    "Referrer: ",
	query.KeyScreen:      "Screen size: ",
	query.KeyBrowser:     "Browser: ",
	query.KeyOS:          "Operating System: ",
	query.KeyPage:        "Page: ",
	query.KeyEntryPage:   "Entry Page: ",
	query.KeyExitPage:    "Exit Page: ",
}

// Label formats one active filter for display. Keys that depend on a
// parent filter (props on goal, browser_version on browser, os_version
// on os) read the parent from current and fall back to a generic noun
// when the parent is not active. Label never fails: unknown keys and
// malformed values still produce a readable label.
func Label(key query.Key, value query.Value, current query.Query) Text {
	switch key {
	case query.KeyGoal:
		return Text{Prefix: "Completed goal ", Emphasis: value.String()}

	case query.KeyProps:
		event := parentOr(current, query.KeyGoal, "event")
		if value.Property == nil {
			return Text{Prefix: event + " ", Emphasis: value.String()}
		}
		return Text{
			Prefix:   event + "." + value.Property.Name + " is ",
			Emphasis: value.Property.Value,
		}

	case query.KeyBrowserVersion:
		browser := parentOr(current, query.KeyBrowser, "Browser")
		return Text{Prefix: browser + ".Version: ", Emphasis: value.String()}

	case query.KeyOSVersion:
		system := parentOr(current, query.KeyOS, "OS")
		return Text{Prefix: system + ".Version: ", Emphasis: value.String()}

	case query.KeyCountry:
		return Text{Prefix: "Country: ", Emphasis: geo.NameOr(value.String())}
	}

	if prefix, ok := simplePrefixes[key]; ok {
		return Text{Prefix: prefix, Emphasis: value.String()}
	}
	return Text{Prefix: string(key) + ": ", Emphasis: value.String()}
}

func parentOr(current query.Query, parent query.Key, fallback string) string {
	if value, ok := current.Get(parent); ok {
		return value.String()
	}
	return fallback
}

// Truncate shortens label to at most width terminal columns, ending
// with an ellipsis when anything was cut. ANSI escape sequences are
// preserved and do not count toward the width. A width of zero or less
// returns the label unchanged.
func Truncate(label string, width int) string {
	if width <= 0 || ansi.StringWidth(label) <= width {
		return label
	}
	return ansi.Truncate(label, width, "…")
}
