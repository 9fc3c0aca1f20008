// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed converts arXiv Atom responses into typed records.
//
// Partial failures are skip-and-continue: an entry that cannot be turned
// into a record is left out, the remaining entries are returned in feed
// order, and the failures are reported together in a *PartialParseError
// alongside the page.
package feed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/atom"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/pdiddy/arxiv-query/pkg/types"
)

var (
	// ErrMalformedFeed reports a response that is not an Atom feed.
	ErrMalformedFeed = errors.New("malformed feed")

	// ErrPartialParse reports that one or more entries were skipped.
	ErrPartialParse = errors.New("partial parse")
)

// EntryError describes one skipped entry.
type EntryError struct {
	Index int    // position in the feed, 0-based
	ID    string // entry id, if present
	Err   error
}

func (e EntryError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("entry %d (%s): %v", e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("entry %d: %v", e.Index, e.Err)
}

// PartialParseError lists the entries left out of a page.
type PartialParseError struct {
	Failures []EntryError
}

func (e *PartialParseError) Error() string {
	msgs := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("%s: %d entr%s skipped: %s",
		ErrPartialParse, len(e.Failures), plural(len(e.Failures)), strings.Join(msgs, "; "))
}

func (e *PartialParseError) Is(target error) bool { return target == ErrPartialParse }

// APIError is an error the API reported inside an otherwise valid feed,
// e.g. for a malformed id_list.
type APIError struct {
	ID      string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("arXiv API error: %s", e.Message)
}

const (
	arxivExt      = "arxiv"
	opensearchExt = "opensearch"
	apiErrorPath  = "/api/errors"
	absPath       = "/abs/"
)

// Parse reads one Atom response. It returns ErrMalformedFeed when the
// document has no feed root, an *APIError when the API answered with an
// error entry, and a page plus *PartialParseError when some entries had to
// be skipped.
func Parse(r io.Reader) (*types.ResultPage, error) {
	fp := &atom.Parser{}
	f, err := fp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}

	page := &types.ResultPage{
		TotalResults: extInt(f.Extensions, opensearchExt, "totalResults"),
		StartIndex:   extInt(f.Extensions, opensearchExt, "startIndex"),
		ItemsPerPage: extInt(f.Extensions, opensearchExt, "itemsPerPage"),
		Papers:       make([]types.Paper, 0, len(f.Entries)),
	}
	if f.UpdatedParsed != nil {
		page.Updated = f.UpdatedParsed.UTC()
	}

	var failures []EntryError
	for i, e := range f.Entries {
		if e == nil {
			continue
		}
		if strings.Contains(e.ID, apiErrorPath) {
			return nil, &APIError{ID: e.ID, Message: collapse(e.Summary)}
		}
		p, err := toPaper(e)
		if err != nil {
			failures = append(failures, EntryError{Index: i, ID: e.ID, Err: err})
			continue
		}
		page.Papers = append(page.Papers, p)
	}

	if len(failures) > 0 {
		return page, &PartialParseError{Failures: failures}
	}
	return page, nil
}

// ParseBytes is Parse for an in-memory body.
func ParseBytes(body []byte) (*types.ResultPage, error) {
	return Parse(bytes.NewReader(body))
}

func toPaper(e *atom.Entry) (types.Paper, error) {
	id := strings.TrimSpace(e.ID)
	if id == "" {
		return types.Paper{}, errors.New("missing id")
	}
	title := collapse(e.Title)
	if title == "" {
		return types.Paper{}, errors.New("missing title")
	}

	p := types.Paper{
		AbsURL:  id,
		Title:   title,
		Summary: collapse(e.Summary),
	}
	p.ID, p.Version = SplitID(id)

	var err error
	if p.Published, err = entryTime(e.Published, e.PublishedParsed); err != nil {
		return types.Paper{}, fmt.Errorf("published: %w", err)
	}
	if p.Updated, err = entryTime(e.Updated, e.UpdatedParsed); err != nil {
		return types.Paper{}, fmt.Errorf("updated: %w", err)
	}

	for _, a := range e.Authors {
		if a == nil {
			continue
		}
		if name := collapse(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	for _, c := range e.Categories {
		if c == nil || c.Term == "" {
			continue
		}
		p.Categories = append(p.Categories, types.Category(c.Term))
	}
	for _, l := range e.Links {
		if l == nil {
			continue
		}
		switch {
		case l.Title == "pdf":
			p.PDFURL = l.Href
		case l.Title == "doi":
			if p.DOI == "" {
				p.DOI = strings.TrimPrefix(strings.TrimPrefix(l.Href, "http://dx.doi.org/"), "https://doi.org/")
			}
		}
	}

	if pc := extFirst(e.Extensions, arxivExt, "primary_category"); pc != nil {
		p.PrimaryCategory = types.Category(pc.Attrs["term"])
	}
	if c := extFirst(e.Extensions, arxivExt, "comment"); c != nil {
		p.Comment = collapse(c.Value)
	}
	if j := extFirst(e.Extensions, arxivExt, "journal_ref"); j != nil {
		p.JournalRef = collapse(j.Value)
	}
	if d := extFirst(e.Extensions, arxivExt, "doi"); d != nil && strings.TrimSpace(d.Value) != "" {
		p.DOI = strings.TrimSpace(d.Value)
	}
	return p, nil
}

// entryTime returns the parsed timestamp, the zero time when the element is
// absent, and an error when it is present but unparseable.
func entryTime(raw string, parsed *time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if parsed != nil {
		return parsed.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
	}
	return t.UTC(), nil
}

// SplitID extracts the arXiv identifier and version from an entry id URL,
// e.g. "http://arxiv.org/abs/1706.03762v5" gives ("1706.03762", "v5").
// Ids without an /abs/ segment are returned unchanged.
func SplitID(idURL string) (id, version string) {
	id = idURL
	if i := strings.Index(idURL, absPath); i >= 0 {
		id = idURL[i+len(absPath):]
	}
	if v := strings.LastIndex(id, "v"); v > 0 {
		if _, err := strconv.Atoi(id[v+1:]); err == nil {
			return id[:v], id[v:]
		}
	}
	return id, ""
}

func extFirst(exts ext.Extensions, ns, name string) *ext.Extension {
	if exts == nil {
		return nil
	}
	list := exts[ns][name]
	if len(list) == 0 {
		return nil
	}
	return &list[0]
}

func extInt(exts ext.Extensions, ns, name string) int {
	e := extFirst(exts, ns, name)
	if e == nil {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(e.Value))
	if err != nil {
		return 0
	}
	return n
}

// collapse trims s and folds internal runs of whitespace, including the
// line breaks the API inserts into long titles and abstracts.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
