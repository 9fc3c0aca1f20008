// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv sends encoded queries to the arXiv API and decodes the
// Atom response into result pages.
package arxiv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/arxiv-query/internal/feed"
	"github.com/pdiddy/arxiv-query/internal/httputil"
	"github.com/pdiddy/arxiv-query/internal/query"
	"github.com/pdiddy/arxiv-query/pkg/types"
)

// ErrTransport matches every *TransportError.
var ErrTransport = errors.New("transport failure")

// TransportError reports a failed request: the connection failed, the
// context ended, or the server answered with a non-200 status.
type TransportError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: GET %s: status %d: %v", ErrTransport, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: GET %s: %v", ErrTransport, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Client queries the arXiv API. The zero value is not usable; build one
// with New.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	UserAgent string
}

// New returns a client for cfg. An empty endpoint selects the public API
// and a non-positive timeout selects 30 seconds.
func New(cfg types.ClientConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = types.DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		BaseURL:   endpoint,
		UserAgent: cfg.UserAgent,
	}
}

// URL returns the full request URL for spec.
func (c *Client) URL(spec query.Spec) (string, error) {
	qs, err := spec.Encode()
	if err != nil {
		return "", err
	}
	sep := "?"
	if strings.Contains(c.BaseURL, "?") {
		sep = "&"
	}
	return c.BaseURL + sep + qs, nil
}

// Fetch sends spec as a single GET and returns the raw response body.
// Validation errors from spec are returned before any request is made.
func (c *Client) Fetch(ctx context.Context, spec query.Spec) ([]byte, error) {
	u, err := c.URL(spec)
	if err != nil {
		return nil, err
	}
	body, err := httputil.Get(ctx, c.HTTP, u, c.UserAgent)
	if err != nil {
		te := &TransportError{URL: u, Err: err}
		var se *httputil.StatusError
		if errors.As(err, &se) {
			te.StatusCode = se.StatusCode
		}
		return nil, te
	}
	return body, nil
}

// Search fetches and parses one page of results. When some entries could
// not be decoded it returns the page together with a
// *feed.PartialParseError.
func (c *Client) Search(ctx context.Context, spec query.Spec) (*types.ResultPage, error) {
	body, err := c.Fetch(ctx, spec)
	if err != nil {
		return nil, err
	}
	page, err := feed.ParseBytes(body)
	if err != nil && !errors.Is(err, feed.ErrPartialParse) {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return page, err
}

var _ query.Searcher = (*Client)(nil)
