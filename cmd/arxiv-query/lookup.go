// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jschaf/bibtex"
	"github.com/jschaf/bibtex/ast"
	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-query/internal/arxiv"
	"github.com/pdiddy/arxiv-query/internal/query"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <refs.bib>",
	Short: "Find the arXiv record for each entry of a BibTeX file",
	Long: `Lookup reads a BibTeX file and, for every entry with a title and an
author, queries arXiv for the title together with the first author's
surname. The best match (first result by relevance) is printed per entry.
Entries are looked up one at a time.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := readBibtexFile(args[0])
		if err != nil {
			return err
		}
		client := arxiv.New(cfg.Client)
		found, err := lookupEntries(cmd.Context(), client, entries, cmd.OutOrStdout())
		slog.Info("lookup complete", "entries", len(entries), "matched", found)
		return err
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

// readBibtexFile parses and resolves every entry in path.
func readBibtexFile(path string) ([]bibtex.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return readBibtex(f)
}

func readBibtex(r io.Reader) ([]bibtex.Entry, error) {
	biber := &bibtex.Biber{}
	file, err := biber.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing BibTeX: %w", err)
	}
	entries, err := biber.Resolve(file)
	if err != nil {
		return nil, fmt.Errorf("resolving BibTeX: %w", err)
	}
	return entries, nil
}

// lookupEntries searches for each entry in turn and writes one line per
// entry to w. It returns the number of entries that matched. Entries that
// cannot be turned into a query or whose request fails are reported and
// skipped; the joined errors are returned at the end.
func lookupEntries(ctx context.Context, s query.Searcher, entries []bibtex.Entry, w io.Writer) (int, error) {
	var errs []error
	found := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		key := string(e.Key)
		spec, err := lookupSpec(e)
		if err != nil {
			fmt.Fprintf(w, "%s\tskipped: %v\n", key, err)
			continue
		}
		slog.Debug("looking up entry", "key", key, "query", spec.SearchQuery())

		page, err := s.Search(ctx, spec)
		if err != nil && page.Len() == 0 {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			fmt.Fprintf(w, "%s\terror: %v\n", key, err)
			continue
		}
		if page.Len() == 0 {
			fmt.Fprintf(w, "%s\tno match\n", key)
			continue
		}
		best := page.Papers[0]
		fmt.Fprintf(w, "%s\t%s%s\t%s\n", key, best.ID, best.Version, best.Title)
		found++
	}
	return found, errors.Join(errs...)
}

// lookupSpec builds ti:<title> AND au:<surname> for e.
func lookupSpec(e bibtex.Entry) (query.Spec, error) {
	title, err := tagText(e, bibtex.FieldTitle)
	if err != nil {
		return query.Spec{}, err
	}
	author, err := tagText(e, bibtex.FieldAuthor)
	if err != nil {
		return query.Spec{}, err
	}
	surname := firstAuthorSurname(author)
	if surname == "" {
		return query.Spec{}, errors.New("no author surname")
	}
	return query.NewBuilder().
		Title(title).
		Author(surname).
		MaxResults(1).
		SortBy(query.SortRelevance).
		Spec()
}

func tagText(e bibtex.Entry, field bibtex.Field) (string, error) {
	text, ok := e.Tags[field].(*ast.UnparsedText)
	if !ok || text == nil {
		return "", fmt.Errorf("missing %s", field)
	}
	v := strings.NewReplacer("{", "", "}", "").Replace(text.Value)
	v = strings.Join(strings.Fields(v), " ")
	if v == "" {
		return "", fmt.Errorf("empty %s", field)
	}
	return v, nil
}

// firstAuthorSurname returns the family name of the first author in a
// BibTeX author list, handling both "Last, First" and "First Last".
func firstAuthorSurname(authors string) string {
	first := authors
	if i := strings.Index(strings.ToLower(first), " and "); i >= 0 {
		first = first[:i]
	}
	first = strings.TrimSpace(first)
	if i := strings.Index(first, ","); i >= 0 {
		return strings.TrimSpace(first[:i])
	}
	parts := strings.Fields(first)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
