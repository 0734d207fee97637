// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package statsapi

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/lumen-analytics/lumen/lib/query"
)

// Ranked-list resources served under /api/stats/{site}/.
const (
	ResourceSources      = "sources"
	ResourceUTMMediums   = "utm_mediums"
	ResourceUTMSources   = "utm_sources"
	ResourceUTMCampaigns = "utm_campaigns"
)

// Row is one entry of a ranked list.
type Row struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// RankedRequest describes one ranked-list fetch.
type RankedRequest struct {
	Site     string
	Resource string
	Query    query.Query

	// ShowNoRef asks the server to include direct/none traffic.
	ShowNoRef bool

	// Limit caps the number of rows. Zero leaves the server default.
	Limit int
}

// Options configures a Client.
type Options struct {
	// BaseURL is the API origin, for example "https://stats.example.com".
	BaseURL string

	// Token is sent as a bearer token when non-empty.
	Token string

	// Timeout bounds each request. Zero means no client timeout.
	Timeout time.Duration

	// RequestsPerSecond limits outgoing requests. Zero or less
	// disables limiting.
	RequestsPerSecond float64

	// HTTPClient overrides the HTTP client. Timeout is ignored when
	// set.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client fetches ranked lists from the stats API. It is safe for
// concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New validates options and returns a Client.
func New(options Options) (*Client, error) {
	parsed, err := url.Parse(options.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("statsapi: parsing base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("statsapi: base URL %q must be http or https", options.BaseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("statsapi: base URL %q has no host", options.BaseURL)
	}

	httpClient := options.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.Timeout}
	}

	limit := rate.Inf
	burst := 1
	if options.RequestsPerSecond > 0 {
		limit = rate.Limit(options.RequestsPerSecond)
		// A goal-filtered fetch issues two requests at once.
		burst = max(2, int(math.Ceil(options.RequestsPerSecond)))
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL:    strings.TrimRight(parsed.String(), "/"),
		token:      options.Token,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger,
	}, nil
}

// Ranked fetches one ranked list. Rows come back in server order.
func (client *Client) Ranked(ctx context.Context, request RankedRequest) ([]Row, error) {
	if request.Site == "" {
		return nil, fmt.Errorf("statsapi: %s: empty site", request.Resource)
	}
	if err := client.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("statsapi: %s: waiting for rate limiter: %w", request.Resource, err)
	}

	params := request.Query.Params()
	params.Set("show_noref", strconv.FormatBool(request.ShowNoRef))
	if request.Limit > 0 {
		params.Set("limit", strconv.Itoa(request.Limit))
	}
	endpoint := client.baseURL + "/api/stats/" + url.PathEscape(request.Site) +
		"/" + url.PathEscape(request.Resource) + "?" + params.Encode()

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("statsapi: %s: building request: %w", request.Resource, err)
	}
	requestID := uuid.NewString()
	httpRequest.Header.Set("Accept", "application/json")
	httpRequest.Header.Set("X-Request-ID", requestID)
	if client.token != "" {
		httpRequest.Header.Set("Authorization", "Bearer "+client.token)
	}

	started := time.Now()
	response, err := client.httpClient.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("statsapi: %s: %w", request.Resource, err)
	}
	defer response.Body.Close()

	client.logger.Debug("stats request",
		"resource", request.Resource,
		"site", request.Site,
		"status", response.StatusCode,
		"request_id", requestID,
		"duration", time.Since(started),
	)

	if response.StatusCode != http.StatusOK {
		return nil, &HTTPError{
			Resource:   request.Resource,
			StatusCode: response.StatusCode,
			Body:       strings.TrimSpace(errorBody(response.Body)),
			RequestID:  requestID,
		}
	}

	var rows []Row
	if err := decodeResponse(response.Body, &rows); err != nil {
		return nil, fmt.Errorf("statsapi: %s: %w", request.Resource, err)
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}
