// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lumen-analytics/lumen/lib/prefs"
	"github.com/lumen-analytics/lumen/lib/query"
	"github.com/lumen-analytics/lumen/lib/sources"
)

// tabLoadedMsg carries the persisted tab selection for the site.
type tabLoadedMsg struct {
	tab sources.Tab
	err error
}

// fetchResultMsg carries the outcome of one panel or list fetch. The
// ticket decides whether it is still wanted.
type fetchResultMsg struct {
	ticket sources.Ticket
	rows   []sources.Referrer
	err    error

	// more is set for fetches issued by the "see more" list.
	more bool
}

// measureMsg asks the model to settle the layout detector. It is
// scheduled after the frame that changed the chips.
type measureMsg struct{}

// pollTickMsg is a live refresh from the poll timer.
type pollTickMsg struct{}

// measureDelay leaves the renderer time to commit the pending frame
// (it draws at 60 fps) before chip positions are read.
const measureDelay = 35 * time.Millisecond

func measureCmd() tea.Cmd {
	return tea.Tick(measureDelay, func(time.Time) tea.Msg {
		return measureMsg{}
	})
}

func loadTabCmd(ctx context.Context, store prefs.Store, site string) tea.Cmd {
	return func() tea.Msg {
		tab, err := sources.LoadTab(ctx, store, site)
		return tabLoadedMsg{tab: tab, err: err}
	}
}

func saveTabCmd(ctx context.Context, store prefs.Store, site string, tab sources.Tab, logger *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		if err := sources.SaveTab(ctx, store, site, tab); err != nil {
			logger.Warn("could not remember the source tab", "error", err)
		}
		return nil
	}
}

// fetchCmd runs one fetch in the background under the guard's
// context. limit of -1 uses the fetcher's panel limit.
func fetchCmd(ctx context.Context, fetcher *sources.Fetcher, site string, current query.Query, ticket sources.Ticket, limit int, more bool) tea.Cmd {
	return func() tea.Msg {
		var rows []sources.Referrer
		var err error
		if limit < 0 {
			rows, err = fetcher.Fetch(ctx, site, current, ticket.Tab)
		} else {
			rows, err = fetcher.FetchLimit(ctx, site, current, ticket.Tab, limit)
		}
		return fetchResultMsg{ticket: ticket, rows: rows, err: err, more: more}
	}
}

// waitForPoll blocks until the poll timer fires. The model re-arms it
// after every tick, so at most one waiter exists.
func waitForPoll(ticks <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ticks; !ok {
			return nil
		}
		return pollTickMsg{}
	}
}
