// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/arxiv-query/pkg/types"
)

const (
	// DefaultMaxResults is the page size used when Spec.MaxResults is 0.
	DefaultMaxResults = 10

	// MaxPageSize is the largest page the API serves in one response.
	MaxPageSize = 2000
)

// SortBy selects the result ordering key.
type SortBy int

const (
	SortRelevance SortBy = iota
	SortLastUpdatedDate
	SortSubmittedDate
)

var sortByNames = [...]string{"relevance", "lastUpdatedDate", "submittedDate"}

func (s SortBy) String() string {
	if s < 0 || int(s) >= len(sortByNames) {
		return sortByNames[SortRelevance]
	}
	return sortByNames[s]
}

// ParseSortBy accepts the wire names, case-insensitively.
func ParseSortBy(s string) (SortBy, error) {
	for i, name := range sortByNames {
		if strings.EqualFold(name, s) {
			return SortBy(i), nil
		}
	}
	return SortRelevance, fmt.Errorf("unknown sort key %q (want relevance, lastUpdatedDate or submittedDate)", s)
}

// SortOrder selects ascending or descending results. The zero value is
// descending, matching the API default.
type SortOrder int

const (
	SortDescending SortOrder = iota
	SortAscending
)

func (o SortOrder) String() string {
	if o == SortAscending {
		return "ascending"
	}
	return "descending"
}

// ParseSortOrder accepts "ascending" or "descending", case-insensitively.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(s) {
	case "ascending", "asc":
		return SortAscending, nil
	case "descending", "desc":
		return SortDescending, nil
	}
	return SortDescending, fmt.Errorf("unknown sort order %q (want ascending or descending)", s)
}

// Spec is one complete request: the boolean expression, an optional
// submission window, an optional id list and the pagination and sort
// parameters. A Spec is a value; encoding it never mutates it.
type Spec struct {
	Expr  Expr
	Dates *DateRange
	IDs   []string

	Start      int
	MaxResults int
	SortBy     SortBy
	SortOrder  SortOrder
}

// Searcher runs a Spec against the API. The arXiv client implements it.
type Searcher interface {
	Search(ctx context.Context, spec Spec) (*types.ResultPage, error)
}

// IsEmpty reports whether s carries no filter at all.
func (s Spec) IsEmpty() bool {
	return s.SearchQuery() == "" && len(s.IDs) == 0
}

// SearchQuery renders the search_query value: the expression, then the
// date segment joined with AND when both are present.
func (s Spec) SearchQuery() string {
	var q string
	if s.Expr != nil {
		q = Render(s.Expr)
	}
	if s.Dates != nil {
		if q != "" {
			q += joinAnd
		}
		q += s.Dates.Render()
	}
	return q
}

// PageSize returns MaxResults with the default applied.
func (s Spec) PageSize() int {
	if s.MaxResults == 0 {
		return DefaultMaxResults
	}
	return s.MaxResults
}

// Validate checks the expression tree and the pagination bounds and rejects
// empty specs.
func (s Spec) Validate() error {
	if s.Expr != nil {
		if err := ValidateExpr(s.Expr); err != nil {
			return err
		}
	}
	if s.IsEmpty() {
		return ErrEmptyQuery
	}
	if s.Start < 0 {
		return fmt.Errorf("%w: start %d is negative", ErrInvalidPagination, s.Start)
	}
	if s.MaxResults < 0 || s.MaxResults > MaxPageSize {
		return fmt.Errorf("%w: max_results %d outside 0..%d", ErrInvalidPagination, s.MaxResults, MaxPageSize)
	}
	return nil
}

// Encode returns the URL query string for s. search_query is already in
// wire form and is written verbatim; ids are escaped individually.
func (s Spec) Encode() (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}

	var parts []string
	if q := s.SearchQuery(); q != "" {
		parts = append(parts, "search_query="+q)
	}
	if len(s.IDs) > 0 {
		ids := make([]string, len(s.IDs))
		for i, id := range s.IDs {
			ids[i] = url.QueryEscape(strings.TrimSpace(id))
		}
		parts = append(parts, "id_list="+strings.Join(ids, ","))
	}
	parts = append(parts,
		"start="+strconv.Itoa(s.Start),
		"max_results="+strconv.Itoa(s.PageSize()),
		"sortBy="+s.SortBy.String(),
		"sortOrder="+s.SortOrder.String(),
	)
	return strings.Join(parts, "&"), nil
}
