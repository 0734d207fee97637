// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"fmt"

	"github.com/lumen-analytics/lumen/lib/statsapi"
)

// Referrer is one row of the panel. ConversionRate is a percentage in
// [0, 100] and is only meaningful when HasConversionRate is set.
type Referrer struct {
	Name              string
	Count             int64
	ConversionRate    float64
	HasConversionRate bool
}

// MergeFunc derives a panel row from a goal-filtered row and its
// baseline. found is false when the baseline has no row of that name.
type MergeFunc func(filtered, baseline statsapi.Row, found bool) Referrer

// MissingPolicy decides the conversion rate of a row that has no
// usable baseline.
type MissingPolicy int

const (
	// OmitMissing leaves the rate unset.
	OmitMissing MissingPolicy = iota

	// ZeroMissing reports a rate of zero.
	ZeroMissing
)

// ParseMissingPolicy accepts "omit" and "zero".
func ParseMissingPolicy(name string) (MissingPolicy, error) {
	switch name {
	case "", "omit":
		return OmitMissing, nil
	case "zero":
		return ZeroMissing, nil
	default:
		return OmitMissing, fmt.Errorf("unknown missing-baseline policy %q (want omit or zero)", name)
	}
}

// String returns the policy's configuration name.
func (policy MissingPolicy) String() string {
	if policy == ZeroMissing {
		return "zero"
	}
	return "omit"
}

// ConversionRate returns the default merge: rate = 100 × filtered /
// baseline, always within [0, 100]. A baseline that is missing, counts
// zero, or counts fewer visitors than the filtered row (the two fetches
// raced a data update) is unusable; policy decides what the row gets
// instead.
func ConversionRate(policy MissingPolicy) MergeFunc {
	return func(filtered, baseline statsapi.Row, found bool) Referrer {
		referrer := Referrer{Name: filtered.Name, Count: filtered.Count}
		if found && usableBaseline(filtered.Count, baseline.Count) {
			referrer.ConversionRate = 100 * float64(filtered.Count) / float64(baseline.Count)
			referrer.HasConversionRate = true
			return referrer
		}
		if policy == ZeroMissing {
			referrer.HasConversionRate = true
		}
		return referrer
	}
}

func usableBaseline(filtered, baseline int64) bool {
	return baseline > 0 && filtered >= 0 && filtered <= baseline
}

// Join merges each filtered row with the baseline row of the same name.
// The result follows the filtered order; the baseline is only a lookup
// table. When the baseline repeats a name, its first row wins.
func Join(filtered, baseline []statsapi.Row, merge MergeFunc) []Referrer {
	lookup := make(map[string]statsapi.Row, len(baseline))
	for _, row := range baseline {
		if _, exists := lookup[row.Name]; !exists {
			lookup[row.Name] = row
		}
	}
	referrers := make([]Referrer, 0, len(filtered))
	for _, row := range filtered {
		match, found := lookup[row.Name]
		referrers = append(referrers, merge(row, match, found))
	}
	return referrers
}

// Verbatim converts rows without deriving anything.
func Verbatim(rows []statsapi.Row) []Referrer {
	referrers := make([]Referrer, 0, len(rows))
	for _, row := range rows {
		referrers = append(referrers, Referrer{Name: row.Name, Count: row.Count})
	}
	return referrers
}
