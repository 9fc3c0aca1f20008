// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes result pages for people and for other tools:
// aligned tables, JSON, YAML and an append-only SQLite file.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-query/pkg/types"
)

// Output formats accepted by Write.
const (
	FormatNameTable = "table"
	FormatNameJSON  = "json"
	FormatNameYAML  = "yaml"
)

// Write renders page in the named format.
func Write(w io.Writer, format string, page *types.ResultPage) error {
	switch strings.ToLower(format) {
	case "", FormatNameTable:
		FormatTable(page, w)
		return nil
	case FormatNameJSON:
		return FormatJSON(page, w)
	case FormatNameYAML:
		return FormatYAML(page, w)
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// FormatTable writes a human-readable listing of page to w.
func FormatTable(page *types.ResultPage, w io.Writer) {
	if page.Len() == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-16s  %-56s  %-20s  %-10s  %s\n",
		"#", "ID", "Title", "Authors", "Published", "Category")
	fmt.Fprintln(w, strings.Repeat("-", 122))

	for i, p := range page.Papers {
		published := ""
		if !p.Published.IsZero() {
			published = p.Published.Format("2006-01-02")
		}
		cat := string(p.PrimaryCategory)
		if cat == "" && len(p.Categories) > 0 {
			cat = string(p.Categories[0])
		}
		fmt.Fprintf(w, "%-4d  %-16s  %-56s  %-20s  %-10s  %s\n",
			page.StartIndex+i+1, p.ID+p.Version, truncate(p.Title, 56), formatAuthors(p.Authors), published, cat)
	}

	fmt.Fprintf(w, "\n%d of %d results", len(page.Papers), page.TotalResults)
	if page.HasMore() {
		fmt.Fprintf(w, " (next page starts at %d)", page.StartIndex+len(page.Papers))
	}
	fmt.Fprintln(w)
}

// FormatJSON writes page as indented JSON to w.
func FormatJSON(page *types.ResultPage, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(page)
}

// FormatYAML writes page as YAML to w.
func FormatYAML(page *types.ResultPage, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(page); err != nil {
		return fmt.Errorf("encoding YAML: %w", err)
	}
	return enc.Close()
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return truncate(authors[0], 20)
	default:
		return truncate(authors[0], 14) + " et al."
	}
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
