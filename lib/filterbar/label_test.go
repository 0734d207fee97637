// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package filterbar

import (
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/lumen-analytics/lumen/lib/query"
)

func TestLabel(t *testing.T) {
	withGoal := query.New("30d").With(query.KeyGoal, query.Scalar("Signup"))
	withBrowser := query.New("30d").With(query.KeyBrowser, query.Scalar("Firefox"))
	withOS := query.New("30d").With(query.KeyOS, query.Scalar("Linux"))
	empty := query.New("30d")

	tests := []struct {
		name    string
		key     query.Key
		value   query.Value
		current query.Query
		want    string
	}{
		{"goal", query.KeyGoal, query.Scalar("Signup"), withGoal, "Completed goal Signup"},
		{"props with goal", query.KeyProps, query.Prop("plan", "pro"), withGoal, "Signup.plan is pro"},
		{"props without goal", query.KeyProps, query.Prop("plan", "pro"), empty, "event.plan is pro"},
		{"source", query.KeySource, query.Scalar("Google"), empty, "Source: Google"},
		{"utm medium", query.KeyUTMMedium, query.Scalar("cpc"), empty, "UTM medium: cpc"},
		{"utm source", query.KeyUTMSource, query.Scalar("news"), empty, "UTM source: news"},
		{"utm campaign", query.KeyUTMCampaign, query.Scalar("spring"), empty, "UTM campaign: spring"},
		{"referrer", query.KeyReferrer, query.Scalar("t.co"), empty, "Referrer: t.co"},
		{"screen", query.KeyScreen, query.Scalar("Mobile"), empty, "Screen size: Mobile"},
		{"browser", query.KeyBrowser, query.Scalar("Firefox"), withBrowser, "Browser: Firefox"},
		{"browser version", query.KeyBrowserVersion, query.Scalar("120"), withBrowser, "Firefox.Version: 120"},
		{"browser version orphan", query.KeyBrowserVersion, query.Scalar("120"), empty, "Browser.Version: 120"},
		{"os", query.KeyOS, query.Scalar("Linux"), withOS, "Operating System: Linux"},
		{"os version", query.KeyOSVersion, query.Scalar("6.8"), withOS, "Linux.Version: 6.8"},
		{"os version orphan", query.KeyOSVersion, query.Scalar("6.8"), empty, "OS.Version: 6.8"},
		{"country", query.KeyCountry, query.Scalar("DEU"), empty, "Country: Germany"},
		{"unknown country", query.KeyCountry, query.Scalar("ZZZ"), empty, "Country: ZZZ"},
		{"page", query.KeyPage, query.Scalar("/blog"), empty, "Page: /blog"},
		{"entry page", query.KeyEntryPage, query.Scalar("/"), empty, "Entry Page: /"},
		{"exit page", query.KeyExitPage, query.Scalar("/thanks"), empty, "Exit Page: /thanks"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := Label(test.key, test.value, test.current).String(); got != test.want {
				t.Errorf("Label = %q, want %q", got, test.want)
			}
		})
	}
}

func TestLabelEmphasisIsTheValue(t *testing.T) {
	text := Label(query.KeyProps, query.Prop("plan", "pro"), query.New("7d"))
	if text.Emphasis != "pro" {
		t.Errorf("Emphasis = %q, want pro", text.Emphasis)
	}
	if text.Prefix != "event.plan is " {
		t.Errorf("Prefix = %q, want %q", text.Prefix, "event.plan is ")
	}
}

func TestLabelParentRemovedInSameUpdate(t *testing.T) {
	// The chip for browser_version is still rendered for one frame
	// after browser was removed; the label must degrade, not fail.
	current := query.New("7d").
		With(query.KeyBrowser, query.Scalar("Chrome")).
		With(query.KeyBrowserVersion, query.Scalar("118")).
		Without(query.KeyBrowser)
	value, _ := current.Get(query.KeyBrowserVersion)
	if got := Label(query.KeyBrowserVersion, value, current).String(); got != "Browser.Version: 118" {
		t.Errorf("Label = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		label string
		width int
		want  string
	}{
		{"Source: Google", 0, "Source: Google"},
		{"Source: Google", 20, "Source: Google"},
		{"Source: Google", 14, "Source: Google"},
		{"Source: Google", 10, "Source: G…"},
	}
	for _, test := range tests {
		if got := Truncate(test.label, test.width); got != test.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", test.label, test.width, got, test.want)
		}
	}

	styled := "\x1b[1mSource: Google\x1b[0m"
	if got := Truncate(styled, 30); got != styled {
		t.Errorf("escape sequences should not count toward the width, got %q", got)
	}
	if width := ansi.StringWidth(Truncate(styled, 5)); width != 5 {
		t.Errorf("truncated width = %d, want 5", width)
	}
}
