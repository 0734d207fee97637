// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/lumen-analytics/lumen/lib/query"
	"github.com/lumen-analytics/lumen/lib/sources"
)

// panelStatus is what the sources panel is showing.
type panelStatus int

const (
	panelLoading panelStatus = iota
	panelLoaded
	panelFailed
)

// panel is the Top Sources list: the selected tab, the rows of the
// last accepted fetch, and the row cursor.
type panel struct {
	tab    sources.Tab
	status panelStatus
	rows   []sources.Referrer
	err    error
	cursor int

	// fingerprint identifies the query the rows belong to.
	fingerprint query.Fingerprint

	// refreshing is set while a fetch is outstanding over rows that
	// are still on screen.
	refreshing bool
}

// begin marks a fetch for the query with the given fingerprint as
// outstanding. Refetching the same query (a poll or a retry) keeps the
// loaded rows visible until the new ones arrive; another query's rows
// would be mislabelled under the new filters, so they are dropped.
func (panel *panel) begin(fingerprint query.Fingerprint) {
	if panel.status == panelLoaded && fingerprint == panel.fingerprint {
		panel.refreshing = true
		return
	}
	if fingerprint != panel.fingerprint {
		panel.rows = nil
		panel.cursor = 0
	}
	panel.fingerprint = fingerprint
	panel.status = panelLoading
	panel.refreshing = false
	panel.err = nil
}

// accept applies a fetch outcome.
func (panel *panel) accept(rows []sources.Referrer, err error) {
	panel.refreshing = false
	if err != nil {
		panel.status = panelFailed
		panel.err = err
		return
	}
	panel.status = panelLoaded
	panel.err = nil
	panel.rows = rows
	if panel.cursor >= len(rows) {
		panel.cursor = len(rows) - 1
	}
	if panel.cursor < 0 {
		panel.cursor = 0
	}
}

// selected returns the row under the cursor.
func (panel *panel) selected() (sources.Referrer, bool) {
	if panel.status != panelLoaded || panel.cursor >= len(panel.rows) {
		return sources.Referrer{}, false
	}
	return panel.rows[panel.cursor], true
}

func (panel *panel) moveUp() {
	if panel.cursor > 0 {
		panel.cursor--
	}
}

func (panel *panel) moveDown() {
	if panel.cursor < len(panel.rows)-1 {
		panel.cursor++
	}
}

// rowColumns are the column widths for one render of a row list.
type rowColumns struct {
	name  int
	count int
	rate  int
}

const rowGutter = 2

// countHeader names the count column: live views count the visitors
// on the site right now.
func countHeader(realtime bool) string {
	if realtime {
		return "Current visitors"
	}
	return "Visitors"
}

func layoutColumns(width int, rows []sources.Referrer, realtime, goal bool) rowColumns {
	columns := rowColumns{count: len(countHeader(realtime))}
	for _, row := range rows {
		if digits := len(strconv.FormatInt(row.Count, 10)); digits > columns.count {
			columns.count = digits
		}
	}
	columns.count += 2
	if goal {
		// "100.0%" plus padding.
		columns.rate = 8
	}
	columns.name = width - rowGutter - columns.count - columns.rate
	if columns.name < 8 {
		columns.name = 8
	}
	return columns
}

// renderPanelHeader draws "Top Sources" with the tab strip.
func renderPanelHeader(theme Theme, active sources.Tab, busy bool) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
	activeStyle := lipgloss.NewStyle().Bold(true).Underline(true).Foreground(theme.HeaderForeground)
	inactiveStyle := lipgloss.NewStyle().Foreground(theme.FaintText)

	parts := []string{titleStyle.Render("Top Sources")}
	for _, tab := range sources.Tabs {
		if tab == active {
			parts = append(parts, activeStyle.Render(tab.Title()))
		} else {
			parts = append(parts, inactiveStyle.Render(tab.Title()))
		}
	}
	header := " " + strings.Join(parts, "  ")
	if busy {
		header += "  " + inactiveStyle.Render("updating…")
	}
	return header
}

// renderColumnHeader draws the label row above the list.
func renderColumnHeader(theme Theme, tab sources.Tab, columns rowColumns, realtime, goal bool) string {
	style := lipgloss.NewStyle().Foreground(theme.FaintText).Bold(true)
	line := strings.Repeat(" ", rowGutter) +
		padRight(tab.ListLabel(), columns.name) +
		padLeft(countHeader(realtime), columns.count)
	if goal {
		line += padLeft("CR", columns.rate)
	}
	return style.Render(line)
}

// renderRows draws one line per row: a bar proportional to the row's
// share of the largest count behind the name, then the count and the
// conversion rate when a goal is active. cursor < 0 draws no cursor.
func renderRows(theme Theme, rows []sources.Referrer, columns rowColumns, goal bool, cursor int) []string {
	var maxCount int64
	for _, row := range rows {
		if row.Count > maxCount {
			maxCount = row.Count
		}
	}

	normalStyle := lipgloss.NewStyle().Foreground(theme.NormalText)
	barStyle := normalStyle.Background(theme.BarBackground)
	rateStyle := lipgloss.NewStyle().Foreground(theme.RateForeground)
	cursorStyle := lipgloss.NewStyle().Foreground(theme.SelectedForeground).Bold(true)

	lines := make([]string, 0, len(rows))
	for index, row := range rows {
		gutter := strings.Repeat(" ", rowGutter)
		if index == cursor {
			gutter = cursorStyle.Render(">") + " "
		}

		name := padRight(ansi.Truncate(row.Name, columns.name-1, "…"), columns.name)
		barColumns := barWidth(row.Count, maxCount, columns.name)
		line := gutter +
			barStyle.Render(ansi.Truncate(name, barColumns, "")) +
			normalStyle.Render(ansi.TruncateLeft(name, barColumns, "")) +
			normalStyle.Render(padLeft(strconv.FormatInt(row.Count, 10), columns.count))
		if goal {
			rate := "-"
			if row.HasConversionRate {
				rate = fmt.Sprintf("%.1f%%", row.ConversionRate)
			}
			line += rateStyle.Render(padLeft(rate, columns.rate))
		}
		lines = append(lines, line)
	}
	return lines
}

// barWidth scales count against maxCount over width columns. Any
// non-zero count gets at least one column.
func barWidth(count, maxCount int64, width int) int {
	if count <= 0 || maxCount <= 0 {
		return 0
	}
	columns := int(count * int64(width) / maxCount)
	if columns < 1 {
		columns = 1
	}
	return columns
}

// renderPanel draws the whole panel for the model's current state.
func (model Model) renderPanel() []string {
	realtime := model.query.Realtime()
	goal := model.query.HasGoal()
	faintStyle := lipgloss.NewStyle().Foreground(model.theme.FaintText)
	errorStyle := lipgloss.NewStyle().Foreground(model.theme.ErrorForeground)

	lines := []string{renderPanelHeader(model.theme, model.panel.tab, model.panel.refreshing)}
	columns := layoutColumns(model.width, model.panel.rows, realtime, goal)

	switch model.panel.status {
	case panelLoading:
		lines = append(lines, faintStyle.Render("  Loading…"))
	case panelFailed:
		lines = append(lines,
			errorStyle.Render("  Could not load sources: "+model.panel.err.Error()),
			faintStyle.Render("  Press r to retry."))
	case panelLoaded:
		lines = append(lines, renderColumnHeader(model.theme, model.panel.tab, columns, realtime, goal))
		if len(model.panel.rows) == 0 {
			lines = append(lines, faintStyle.Render("  No data yet"))
			break
		}
		lines = append(lines, renderRows(model.theme, model.panel.rows, columns, goal, model.panel.cursor)...)
		lines = append(lines, faintStyle.Render("  v see more ("+model.panel.tab.Resource()+")"))
	}
	return lines
}

func padRight(text string, width int) string {
	if gap := width - ansi.StringWidth(text); gap > 0 {
		return text + strings.Repeat(" ", gap)
	}
	return text
}

func padLeft(text string, width int) string {
	if gap := width - ansi.StringWidth(text); gap > 0 {
		return strings.Repeat(" ", gap) + text
	}
	return text
}
