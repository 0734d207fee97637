// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package query

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Key identifies one filterable dimension of the stats data.
type Key string

const (
	KeyGoal           Key = "goal"
	KeyProps          Key = "props"
	KeySource         Key = "source"
	KeyUTMMedium      Key = "utm_medium"
	KeyUTMSource      Key = "utm_source"
	KeyUTMCampaign    Key = "utm_campaign"
	KeyReferrer       Key = "referrer"
	KeyScreen         Key = "screen"
	KeyBrowser        Key = "browser"
	KeyBrowserVersion Key = "browser_version"
	KeyOS             Key = "os"
	KeyOSVersion      Key = "os_version"
	KeyCountry        Key = "country"
	KeyPage           Key = "page"
	KeyEntryPage      Key = "entry_page"
	KeyExitPage       Key = "exit_page"
)

// Keys lists every filter key in canonical order. Applied filters are
// always reported in this order, which is also the order chips appear
// in the filter bar.
var Keys = []Key{
	KeyGoal,
	KeyProps,
	KeySource,
	KeyUTMMedium,
	KeyUTMSource,
	KeyUTMCampaign,
	KeyReferrer,
	KeyScreen,
	KeyBrowser,
	KeyBrowserVersion,
	KeyOS,
	KeyOSVersion,
	KeyCountry,
	KeyPage,
	KeyEntryPage,
	KeyExitPage,
}

// ParseKey returns the Key for name, or false if name is not a known
// filter key.
func ParseKey(name string) (Key, bool) {
	for _, key := range Keys {
		if string(key) == name {
			return key, true
		}
	}
	return "", false
}

// Parent returns the key whose value qualifies this key's label:
// browser for browser_version, os for os_version, goal for props.
// Returns false for keys without a parent.
func (key Key) Parent() (Key, bool) {
	switch key {
	case KeyBrowserVersion:
		return KeyBrowser, true
	case KeyOSVersion:
		return KeyOS, true
	case KeyProps:
		return KeyGoal, true
	default:
		return "", false
	}
}

// Property is a custom event property constraint (the value of the
// props filter).
type Property struct {
	Name  string `cbor:"1,keyasint" json:"name"`
	Value string `cbor:"2,keyasint" json:"value"`
}

// Value is the value of one filter. Every key except props carries a
// scalar; props carries exactly one Property. The zero Value is the
// "unset" sentinel.
type Value struct {
	Scalar   string    `cbor:"1,keyasint,omitempty"`
	Property *Property `cbor:"2,keyasint,omitempty"`
}

// Scalar returns a Value holding a plain string.
func Scalar(text string) Value {
	return Value{Scalar: text}
}

// Prop returns a Value holding a custom property constraint.
func Prop(name, value string) Value {
	return Value{Property: &Property{Name: name, Value: value}}
}

// Active reports whether the value constrains the data.
func (value Value) Active() bool {
	return value.Scalar != "" || value.Property != nil
}

// String returns the scalar, or "name:value" for a property.
func (value Value) String() string {
	if value.Property != nil {
		return value.Property.Name + ":" + value.Property.Value
	}
	return value.Scalar
}

// Filter is one active (key, value) pair.
type Filter struct {
	Key   Key
	Value Value
}

// Query is the immutable dashboard query. The zero Query has no period
// and no filters.
type Query struct {
	// Period names the reporting window ("realtime", "day", "7d",
	// "30d", "month", "6mo", "12mo", "custom").
	Period string

	// Date anchors day and month periods (YYYY-MM-DD).
	Date string

	// From and To bound a custom period (YYYY-MM-DD).
	From string
	To   string

	filters map[Key]Value
}

// New returns a Query for the given period with no filters.
func New(period string) Query {
	return Query{Period: period}
}

// Get returns the value of key and whether it is active.
func (q Query) Get(key Key) (Value, bool) {
	value, ok := q.filters[key]
	if !ok || !value.Active() {
		return Value{}, false
	}
	return value, true
}

// Text returns the scalar value of key, or "" when the filter is not
// active.
func (q Query) Text(key Key) string {
	value, _ := q.Get(key)
	return value.Scalar
}

// Has reports whether key is an active filter.
func (q Query) Has(key Key) bool {
	_, ok := q.Get(key)
	return ok
}

// HasGoal reports whether a conversion goal filter is active.
func (q Query) HasGoal() bool {
	return q.Has(KeyGoal)
}

// Realtime reports whether the query covers the live "current
// visitors" window.
func (q Query) Realtime() bool {
	return q.Period == "realtime"
}

// AppliedFilters returns the active filters in canonical key order.
func (q Query) AppliedFilters() []Filter {
	var applied []Filter
	for _, key := range Keys {
		if value, ok := q.Get(key); ok {
			applied = append(applied, Filter{Key: key, Value: value})
		}
	}
	return applied
}

// ActiveCount returns the number of active filters.
func (q Query) ActiveCount() int {
	count := 0
	for _, key := range Keys {
		if q.Has(key) {
			count++
		}
	}
	return count
}

// With returns a copy of q with key set to value. Setting an inactive
// value is the same as Without(key).
func (q Query) With(key Key, value Value) Query {
	next := q.clone()
	if value.Active() {
		next.filters[key] = value
	} else {
		delete(next.filters, key)
	}
	return next
}

// Without returns a copy of q with every listed key cleared.
func (q Query) Without(keys ...Key) Query {
	next := q.clone()
	for _, key := range keys {
		delete(next.filters, key)
	}
	return next
}

// WithoutGoal returns the baseline query: q with the goal filter and
// its dependent props filter cleared.
func (q Query) WithoutGoal() Query {
	return q.Without(KeyGoal, KeyProps)
}

func (q Query) clone() Query {
	next := q
	next.filters = make(map[Key]Value, len(q.filters))
	for key, value := range q.filters {
		if value.Property != nil {
			property := *value.Property
			value.Property = &property
		}
		next.filters[key] = value
	}
	return next
}

// Params encodes the query as stats API parameters: period, date,
// from, to, and filters (a JSON object of the active filters, props as
// a nested {name: value} object).
func (q Query) Params() url.Values {
	params := url.Values{}
	if q.Period != "" {
		params.Set("period", q.Period)
	}
	if q.Date != "" {
		params.Set("date", q.Date)
	}
	if q.From != "" {
		params.Set("from", q.From)
	}
	if q.To != "" {
		params.Set("to", q.To)
	}

	applied := q.AppliedFilters()
	if len(applied) == 0 {
		return params
	}
	encoded := make(map[string]any, len(applied))
	for _, filter := range applied {
		if filter.Value.Property != nil {
			encoded[string(filter.Key)] = map[string]string{
				filter.Value.Property.Name: filter.Value.Property.Value,
			}
			continue
		}
		encoded[string(filter.Key)] = filter.Value.Scalar
	}
	// json.Marshal sorts map keys, so equal queries encode identically.
	data, err := json.Marshal(encoded)
	if err != nil {
		panic("query: encoding filters: " + err.Error())
	}
	params.Set("filters", string(data))
	return params
}

// ParseFilter parses a "key=value" filter argument. The props filter
// takes "props=name:value".
func ParseFilter(argument string) (Filter, error) {
	name, text, found := strings.Cut(argument, "=")
	if !found {
		return Filter{}, fmt.Errorf("filter %q: expected key=value", argument)
	}
	key, ok := ParseKey(strings.TrimSpace(name))
	if !ok {
		return Filter{}, fmt.Errorf("filter %q: unknown key %q", argument, name)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Filter{}, fmt.Errorf("filter %q: empty value", argument)
	}
	if key != KeyProps {
		return Filter{Key: key, Value: Scalar(text)}, nil
	}
	propName, propValue, found := strings.Cut(text, ":")
	if !found || propName == "" || propValue == "" {
		return Filter{}, fmt.Errorf("filter %q: props takes name:value", argument)
	}
	return Filter{Key: key, Value: Prop(propName, propValue)}, nil
}

// Navigator owns the current dashboard query. Components that change
// filters compute the next query and hand it to the navigator; they
// never mutate shared state themselves.
type Navigator interface {
	NavigateToQuery(next Query)
}
