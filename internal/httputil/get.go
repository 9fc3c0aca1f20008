// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the single-request HTTP helper used by the
// arXiv client.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxBodyBytes bounds how much of a response body Get reads. The largest
// API page (2000 entries) stays well below it.
var MaxBodyBytes int64 = 64 << 20

// ErrBodyTooLarge reports a response body longer than MaxBodyBytes.
var ErrBodyTooLarge = errors.New("response body too large")

// StatusError reports a response with a status other than 200 OK. Body holds
// the first part of the response for diagnostics.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected HTTP status %s", e.Status)
	}
	return fmt.Sprintf("unexpected HTTP status %s: %s", e.Status, e.Body)
}

// Get performs one GET request and returns the body. It never retries; a
// 429 or 503 is returned to the caller as a *StatusError like any other
// non-200 status. Cancellation of ctx aborts the request.
func Get(ctx context.Context, client *http.Client, url, userAgent string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "application/atom+xml")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > MaxBodyBytes {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrBodyTooLarge, MaxBodyBytes)
	}
	return body, nil
}
