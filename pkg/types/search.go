// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for arxiv-query: the category
// table, parsed feed records and client configuration.
package types

import "time"

// ResultPage is one response of the arXiv query API. Papers keep the order
// of the feed, which is the sort order requested from the API.
type ResultPage struct {
	Papers []Paper `json:"papers" yaml:"papers"`

	// TotalResults is the number of matches reported by the API across all pages.
	TotalResults int `json:"total_results" yaml:"total_results"`

	// StartIndex and ItemsPerPage echo the pagination the API applied.
	StartIndex   int `json:"start_index" yaml:"start_index"`
	ItemsPerPage int `json:"items_per_page" yaml:"items_per_page"`

	// Updated is the feed generation time.
	Updated time.Time `json:"updated" yaml:"updated"`
}

// Len returns the number of papers on the page.
func (p *ResultPage) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Papers)
}

// HasMore reports whether the API holds results beyond this page.
func (p *ResultPage) HasMore() bool {
	if p == nil {
		return false
	}
	return p.StartIndex+len(p.Papers) < p.TotalResults
}
