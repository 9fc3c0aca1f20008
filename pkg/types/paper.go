// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Paper is one entry of an arXiv Atom feed.
type Paper struct {
	// ID is the arXiv identifier without version suffix (e.g. "1706.03762").
	ID string `json:"id" yaml:"id"`

	// Version is the version suffix from the entry id (e.g. "v5"), if any.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// AbsURL is the entry id as published in the feed.
	AbsURL string `json:"abs_url" yaml:"abs_url"`

	// Title is the paper title with whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Summary is the abstract with whitespace collapsed.
	Summary string `json:"summary" yaml:"summary"`

	// Authors lists the paper authors in feed order.
	Authors []string `json:"authors" yaml:"authors"`

	// Categories lists every category term in feed order, known or not.
	Categories []Category `json:"categories" yaml:"categories"`

	PrimaryCategory Category `json:"primary_category,omitempty" yaml:"primary_category,omitempty"`

	Published time.Time `json:"published" yaml:"published"`
	Updated   time.Time `json:"updated" yaml:"updated"`

	Comment    string `json:"comment,omitempty" yaml:"comment,omitempty"`
	JournalRef string `json:"journal_ref,omitempty" yaml:"journal_ref,omitempty"`
	DOI        string `json:"doi,omitempty" yaml:"doi,omitempty"`
	PDFURL     string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`
}
