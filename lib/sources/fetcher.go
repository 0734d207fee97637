// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package sources

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/lumen-analytics/lumen/lib/query"
	"github.com/lumen-analytics/lumen/lib/statsapi"
)

// RankedClient is the part of the stats client the fetcher needs.
type RankedClient interface {
	Ranked(ctx context.Context, request statsapi.RankedRequest) ([]statsapi.Row, error)
}

// FetcherOptions configures a Fetcher.
type FetcherOptions struct {
	// Merge derives rows when a goal filter is active. Nil uses
	// ConversionRate(OmitMissing).
	Merge MergeFunc

	// Limit caps the rows of a panel fetch. Zero leaves the server
	// default.
	Limit int

	Logger *slog.Logger
}

// Fetcher produces the panel rows for a query and tab.
type Fetcher struct {
	client RankedClient
	merge  MergeFunc
	limit  int
	logger *slog.Logger
}

// NewFetcher returns a Fetcher reading through client.
func NewFetcher(client RankedClient, options FetcherOptions) *Fetcher {
	merge := options.Merge
	if merge == nil {
		merge = ConversionRate(OmitMissing)
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{
		client: client,
		merge:  merge,
		limit:  options.Limit,
		logger: logger,
	}
}

// Fetch returns the panel rows for site, current, and tab, capped at
// the configured limit.
func (fetcher *Fetcher) Fetch(ctx context.Context, site string, current query.Query, tab Tab) ([]Referrer, error) {
	return fetcher.FetchLimit(ctx, site, current, tab, fetcher.limit)
}

// FetchLimit is Fetch with an explicit row limit; zero asks for the
// server default. Without a goal filter it issues a single request and
// returns the rows unchanged. With one, it issues the goal-filtered and
// baseline requests concurrently, waits for both, and joins them. Any
// failure fails the whole fetch.
func (fetcher *Fetcher) FetchLimit(ctx context.Context, site string, current query.Query, tab Tab, limit int) ([]Referrer, error) {
	request := statsapi.RankedRequest{
		Site:      site,
		Resource:  tab.Resource(),
		Query:     current,
		ShowNoRef: current.Realtime(),
		Limit:     limit,
	}

	if !current.HasGoal() {
		rows, err := fetcher.client.Ranked(ctx, request)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", request.Resource, err)
		}
		return Verbatim(rows), nil
	}

	baselineRequest := request
	baselineRequest.Query = current.WithoutGoal()

	var filtered, baseline []statsapi.Row
	group, groupContext := errgroup.WithContext(ctx)
	group.Go(func() error {
		rows, err := fetcher.client.Ranked(groupContext, request)
		if err != nil {
			return fmt.Errorf("fetching goal-filtered %s: %w", request.Resource, err)
		}
		filtered = rows
		return nil
	})
	group.Go(func() error {
		rows, err := fetcher.client.Ranked(groupContext, baselineRequest)
		if err != nil {
			return fmt.Errorf("fetching baseline %s: %w", request.Resource, err)
		}
		baseline = rows
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	fetcher.logger.Debug("joined conversion rows",
		"resource", request.Resource,
		"filtered", len(filtered),
		"baseline", len(baseline),
	)
	return Join(filtered, baseline, fetcher.merge), nil
}
