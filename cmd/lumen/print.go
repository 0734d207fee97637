// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/lumen-analytics/lumen/cmd/lumen/cli"
	"github.com/lumen-analytics/lumen/lib/filterbar"
	"github.com/lumen-analytics/lumen/lib/prefs"
	"github.com/lumen-analytics/lumen/lib/query"
	"github.com/lumen-analytics/lumen/lib/sources"
	"github.com/lumen-analytics/lumen/lib/statsapi"
)

// printSources fetches the panel once and writes it as a table. An
// explicit tab wins over the saved one and is not saved. An empty list
// is written as such and reported with [cli.ExitNoRows].
func printSources(ctx context.Context, writer io.Writer, fetcher *sources.Fetcher, store prefs.Store, site string, current query.Query, tabName string) error {
	tab, err := sources.LoadTab(ctx, store, site)
	if err != nil {
		return cli.Internal("reading saved tab: %w", err)
	}
	if tabName != "" {
		parsed, ok := sources.ParseTab(tabName)
		if !ok {
			return cli.Validation("unknown tab %q", tabName).
				WithHint("Tabs are all, utm_medium, utm_source, and utm_campaign.")
		}
		tab = parsed
	}

	rows, err := fetcher.Fetch(ctx, site, current, tab)
	if err != nil {
		return fetchFailure(site, err)
	}
	renderTable(writer, site, current, tab, rows)
	if len(rows) == 0 {
		return &cli.ExitError{Code: cli.ExitNoRows}
	}
	return nil
}

// fetchFailure maps stats API failures to exit categories.
func fetchFailure(site string, err error) error {
	switch {
	case statsapi.IsNotFound(err):
		return cli.NotFound("site %q: %w", site, err).
			WithHint("Check the site domain and that the API key may read its stats.")
	case statsapi.IsTransient(err):
		return cli.Transient("%w", err).
			WithHint("The stats API is busy or unreachable. Try again shortly.")
	default:
		return cli.Categorize(err, nil)
	}
}

func renderTable(writer io.Writer, site string, current query.Query, tab sources.Tab, rows []sources.Referrer) {
	fmt.Fprintf(writer, "%s · %s · Top Sources (%s)\n", site, current.Period, tab.Title())
	for _, chip := range filterbar.New(current, nil).Chips() {
		fmt.Fprintf(writer, "  %s\n", chip.Label.String())
	}

	if len(rows) == 0 {
		fmt.Fprintln(writer, "No data yet")
		return
	}

	countHeader := "Visitors"
	if current.Realtime() {
		countHeader = "Current visitors"
	}
	goal := current.HasGoal()

	t := table.NewWriter()
	t.SetOutputMirror(writer)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	header := table.Row{tab.ListLabel(), countHeader}
	columns := []table.ColumnConfig{{Number: 2, Align: text.AlignRight}}
	if goal {
		header = append(header, "CR")
		columns = append(columns, table.ColumnConfig{Number: 3, Align: text.AlignRight})
	}
	t.AppendHeader(header)
	t.SetColumnConfigs(columns)

	for _, row := range rows {
		line := table.Row{row.Name, row.Count}
		if goal {
			rate := "-"
			if row.HasConversionRate {
				rate = fmt.Sprintf("%.1f%%", row.ConversionRate)
			}
			line = append(line, rate)
		}
		t.AppendRow(line)
	}
	t.Render()
}
