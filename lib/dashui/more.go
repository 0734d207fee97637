// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/lumen-analytics/lumen/lib/query"
	"github.com/lumen-analytics/lumen/lib/sources"
)

// DefaultMoreLimit is how many rows the "see more" list asks for.
const DefaultMoreLimit = 100

// moreView is the full list behind "see more": the same endpoint as
// the panel, without the panel's row cap, in a scrollable viewport.
type moreView struct {
	tab      sources.Tab
	status   panelStatus
	rows     []sources.Referrer
	err      error
	viewport viewport.Model
}

func newMoreView(tab sources.Tab, width, height int) moreView {
	return moreView{
		tab:      tab,
		status:   panelLoading,
		viewport: viewport.New(width, height),
	}
}

// resize fits the viewport to the area below the title lines.
func (more *moreView) resize(width, height int) {
	more.viewport.Width = width
	more.viewport.Height = height
}

// accept applies the fetch outcome and refreshes the viewport content.
func (more *moreView) accept(theme Theme, current query.Query, rows []sources.Referrer, err error) {
	if err != nil {
		more.status = panelFailed
		more.err = err
		more.viewport.SetContent("")
		return
	}
	more.status = panelLoaded
	more.rows = rows
	columns := layoutColumns(more.viewport.Width, rows, current.Realtime(), current.HasGoal())
	more.viewport.SetContent(strings.Join(renderRows(theme, rows, columns, current.HasGoal(), -1), "\n"))
	more.viewport.GotoTop()
}

// render draws the title, column header, and the viewport.
func (more moreView) render(theme Theme, current query.Query) []string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground)
	faintStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	errorStyle := lipgloss.NewStyle().Foreground(theme.ErrorForeground)

	lines := []string{
		" " + titleStyle.Render("Top Sources") + "  " +
			faintStyle.Render(more.tab.ListLabel()+" · "+more.tab.Resource()),
	}
	switch more.status {
	case panelLoading:
		lines = append(lines, faintStyle.Render("  Loading…"))
	case panelFailed:
		lines = append(lines, errorStyle.Render("  Could not load sources: "+more.err.Error()))
	case panelLoaded:
		if len(more.rows) == 0 {
			lines = append(lines, faintStyle.Render("  No data yet"))
			break
		}
		columns := layoutColumns(more.viewport.Width, more.rows, current.Realtime(), current.HasGoal())
		lines = append(lines, renderColumnHeader(theme, more.tab, columns, current.Realtime(), current.HasGoal()))
		lines = append(lines, strings.Split(more.viewport.View(), "\n")...)
	}
	return lines
}
