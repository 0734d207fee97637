// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/lumen-analytics/lumen/lib/statsapi"
)

func TestJoinFirstBaselineRowWins(t *testing.T) {
	filtered := []statsapi.Row{{Name: "Google", Count: 10}}
	baseline := []statsapi.Row{{Name: "Google", Count: 20}, {Name: "Google", Count: 1000}}
	referrers := Join(filtered, baseline, ConversionRate(OmitMissing))
	if referrers[0].ConversionRate != 50 {
		t.Errorf("rate = %v, want 50", referrers[0].ConversionRate)
	}
}

func TestJoinMatchesNamesExactly(t *testing.T) {
	filtered := []statsapi.Row{{Name: "google", Count: 10}}
	baseline := []statsapi.Row{{Name: "Google", Count: 20}}
	if Join(filtered, baseline, ConversionRate(OmitMissing))[0].HasConversionRate {
		t.Error("names differing in case must not match")
	}
}

func TestConversionRateRejectsInconsistentBaseline(t *testing.T) {
	cases := []struct {
		name     string
		filtered statsapi.Row
		baseline statsapi.Row
	}{
		{"filtered above baseline", statsapi.Row{Name: "Google", Count: 300}, statsapi.Row{Name: "Google", Count: 200}},
		{"negative baseline", statsapi.Row{Name: "Google", Count: 3}, statsapi.Row{Name: "Google", Count: -5}},
		{"negative filtered", statsapi.Row{Name: "Google", Count: -3}, statsapi.Row{Name: "Google", Count: 5}},
		{"zero baseline", statsapi.Row{Name: "Google", Count: 3}, statsapi.Row{Name: "Google", Count: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			filtered := []statsapi.Row{tc.filtered}
			baseline := []statsapi.Row{tc.baseline}

			omitted := Join(filtered, baseline, ConversionRate(OmitMissing))[0]
			if omitted.HasConversionRate {
				t.Errorf("omit policy: rate = %v, want no rate", omitted.ConversionRate)
			}

			zeroed := Join(filtered, baseline, ConversionRate(ZeroMissing))[0]
			if !zeroed.HasConversionRate || zeroed.ConversionRate != 0 {
				t.Errorf("zero policy: got (%v, %v), want (0, true)", zeroed.ConversionRate, zeroed.HasConversionRate)
			}
		})
	}
}

func TestConversionRateFullConversion(t *testing.T) {
	filtered := []statsapi.Row{{Name: "Google", Count: 200}}
	baseline := []statsapi.Row{{Name: "Google", Count: 200}}
	referrer := Join(filtered, baseline, ConversionRate(OmitMissing))[0]
	if !referrer.HasConversionRate || referrer.ConversionRate != 100 {
		t.Errorf("got (%v, %v), want (100, true)", referrer.ConversionRate, referrer.HasConversionRate)
	}
}

func TestJoinCustomMerge(t *testing.T) {
	filtered := []statsapi.Row{{Name: "A", Count: 3}, {Name: "B", Count: 4}}
	baseline := []statsapi.Row{{Name: "A", Count: 9}}
	sumCounts := func(filtered, baseline statsapi.Row, found bool) Referrer {
		return Referrer{Name: filtered.Name, Count: filtered.Count + baseline.Count}
	}
	referrers := Join(filtered, baseline, sumCounts)
	if referrers[0].Count != 12 || referrers[1].Count != 4 {
		t.Errorf("unexpected merge result %+v", referrers)
	}
}

func TestParseMissingPolicy(t *testing.T) {
	for name, want := range map[string]MissingPolicy{"": OmitMissing, "omit": OmitMissing, "zero": ZeroMissing} {
		policy, err := ParseMissingPolicy(name)
		if err != nil || policy != want {
			t.Errorf("ParseMissingPolicy(%q) = (%v, %v), want %v", name, policy, err, want)
		}
	}
	if _, err := ParseMissingPolicy("guess"); err == nil {
		t.Error("unknown policy should fail")
	}
}

func rowsFromCounts(counts []int64) []statsapi.Row {
	rows := make([]statsapi.Row, 0, len(counts))
	for index, count := range counts {
		rows = append(rows, statsapi.Row{Name: "source-" + strconv.Itoa(index), Count: count})
	}
	return rows
}

func TestJoinProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("join keeps filtered order and derives 100*f/b", prop.ForAll(
		func(filteredCounts, baselineCounts []int64) bool {
			filtered := rowsFromCounts(filteredCounts)
			baseline := rowsFromCounts(baselineCounts)
			referrers := Join(filtered, baseline, ConversionRate(OmitMissing))
			if len(referrers) != len(filtered) {
				return false
			}
			for index, referrer := range referrers {
				if referrer.Name != filtered[index].Name || referrer.Count != filtered[index].Count {
					return false
				}
				hasBaseline := index < len(baseline) && baseline[index].Count > 0 &&
					filtered[index].Count <= baseline[index].Count
				if referrer.HasConversionRate != hasBaseline {
					return false
				}
				if referrer.ConversionRate < 0 || referrer.ConversionRate > 100 {
					return false
				}
				if hasBaseline {
					want := 100 * float64(filtered[index].Count) / float64(baseline[index].Count)
					if referrer.ConversionRate != want {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.Int64Range(0, 100000)),
		gen.SliceOf(gen.Int64Range(0, 100000)),
	))

	properties.TestingRun(t)
}
