// Copyright 2026 The Lumen Authors
// SPDX-License-Identifier: Apache-2.0

package statsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// MaxResponseSize bounds response body reads. Ranked lists are a few
// kilobytes; the bound only stops a misbehaving server from exhausting
// memory.
const MaxResponseSize int64 = 32 << 20

// maxErrorBody bounds how much of an error body is kept for messages.
const maxErrorBody int64 = 4 << 10

// decodeResponse reads body up to MaxResponseSize and JSON-decodes it
// into v.
func decodeResponse(body io.Reader, v any) error {
	data, err := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// errorBody returns the start of an error response for diagnostics.
// Read errors are ignored: a partial body is still useful.
func errorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	return string(data)
}

// HTTPError is returned when the API answers with a non-200 status.
type HTTPError struct {
	Resource   string
	StatusCode int
	Body       string
	RequestID  string
}

func (e *HTTPError) Error() string {
	message := fmt.Sprintf("statsapi: %s: HTTP %d", e.Resource, e.StatusCode)
	if e.Body != "" {
		message += ": " + e.Body
	}
	return message
}

// IsTransient reports whether retrying the request may succeed: rate
// limiting, server errors, timeouts, and network failures. Caller
// cancellation is not transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var httpError *HTTPError
	if errors.As(err, &httpError) {
		return httpError.StatusCode == http.StatusTooManyRequests ||
			httpError.StatusCode >= http.StatusInternalServerError
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netError net.Error
	return errors.As(err, &netError)
}

// IsNotFound reports whether the API answered 404, which it does for
// unknown sites.
func IsNotFound(err error) bool {
	var httpError *HTTPError
	return errors.As(err, &httpError) && httpError.StatusCode == http.StatusNotFound
}
