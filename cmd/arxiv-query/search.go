// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pdiddy/arxiv-query/internal/arxiv"
	"github.com/pdiddy/arxiv-query/internal/export"
	"github.com/pdiddy/arxiv-query/internal/feed"
	"github.com/pdiddy/arxiv-query/internal/query"
	"github.com/pdiddy/arxiv-query/pkg/types"
)

// fieldFlag binds a repeatable command-line flag to a search field.
type fieldFlag struct {
	name  string
	field query.Field
	usage string
}

// fieldFlags lists the per-field flags in the order their terms are added
// to the query.
var fieldFlags = []fieldFlag{
	{"title", query.FieldTitle, "match in the title"},
	{"author", query.FieldAuthor, "match an author name"},
	{"abstract", query.FieldAbstract, "match in the abstract"},
	{"comment", query.FieldComment, "match in the author comment"},
	{"journal-ref", query.FieldJournalRef, "match in the journal reference"},
	{"report-number", query.FieldReportNumber, "match a report number"},
	{"arxiv-id", query.FieldID, "match an arXiv identifier as a search term"},
	{"all", query.FieldAll, "match in any field"},
}

// searchOptions carries the parsed search flags.
type searchOptions struct {
	terms        map[query.Field][]string
	categories   []string
	rawCategory  []string
	any          bool
	from, to     string
	ids          []string
	start        int
	maxResults   int
	sortBy       string
	sortOrder    string
	queryFile    string
	save         string
	format       string
	db           string
	dryRun       bool
	changedStart bool
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a structured query against the arXiv API",
	Long: `Search builds an arXiv search_query from field flags and runs it.

Terms from all flags are joined with AND, or with OR when --any is set.
Flags may be repeated: --title diffusion --title transformer.
--category accepts the codes listed by "arxiv-query categories";
--raw-category passes any code through unchecked.
--from and --to take YYYY-MM-DD or YYYYMMDDHHMM and restrict the
submission date. A query can also be loaded from a YAML file with
--query-file; pagination and sort flags override the file.`,
	Example: `  arxiv-query search --title attention --author vaswani
  arxiv-query search --any --title llm --title "large language model" --category cs.CL
  arxiv-query search --all electron --from 2024-12-01 --to 2024-12-01 --format json
  arxiv-query search --id 1706.03762 --id 1810.04805`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	for _, ff := range fieldFlags {
		f.StringArray(ff.name, nil, ff.usage)
	}
	f.StringArray("category", nil, "match a subject category (validated, e.g. cs.AI)")
	f.StringArray("raw-category", nil, "match a subject category without validation")
	f.Bool("any", false, "join terms with OR instead of AND")
	f.String("from", "", "earliest submission date (YYYY-MM-DD or YYYYMMDDHHMM)")
	f.String("to", "", "latest submission date (YYYY-MM-DD or YYYYMMDDHHMM)")
	f.StringArray("id", nil, "restrict to an arXiv id (id_list); repeatable")
	f.Int("start", 0, "index of the first result")
	f.Int("max-results", 0, "page size (default from config, max 2000)")
	f.String("sort-by", "", "relevance, lastUpdatedDate or submittedDate")
	f.String("sort-order", "", "ascending or descending")
	f.String("query-file", "", "load the query from a YAML file")
	f.String("save", "", "write the query and results to a YAML file")
	f.String("format", export.FormatNameTable, "output format: table, json, yaml")
	f.String("db", "", "append results to a SQLite file")
	f.Bool("dry-run", false, "print the request URL without sending it")

	rootCmd.AddCommand(searchCmd)
}

func readSearchOptions(f *pflag.FlagSet) (searchOptions, error) {
	opts := searchOptions{terms: map[query.Field][]string{}}
	for _, ff := range fieldFlags {
		vs, err := f.GetStringArray(ff.name)
		if err != nil {
			return opts, err
		}
		if len(vs) > 0 {
			opts.terms[ff.field] = vs
		}
	}

	var err error
	get := func(dst *[]string, name string) {
		if err == nil {
			*dst, err = f.GetStringArray(name)
		}
	}
	get(&opts.categories, "category")
	get(&opts.rawCategory, "raw-category")
	get(&opts.ids, "id")
	if err != nil {
		return opts, err
	}

	opts.any, _ = f.GetBool("any")
	opts.from, _ = f.GetString("from")
	opts.to, _ = f.GetString("to")
	opts.start, _ = f.GetInt("start")
	opts.maxResults, _ = f.GetInt("max-results")
	opts.sortBy, _ = f.GetString("sort-by")
	opts.sortOrder, _ = f.GetString("sort-order")
	opts.queryFile, _ = f.GetString("query-file")
	opts.save, _ = f.GetString("save")
	opts.format, _ = f.GetString("format")
	opts.db, _ = f.GetString("db")
	opts.dryRun, _ = f.GetBool("dry-run")
	opts.changedStart = f.Changed("start")
	return opts, nil
}

func (o searchOptions) hasTerms() bool {
	return len(o.terms) > 0 || len(o.categories) > 0 || len(o.rawCategory) > 0 ||
		o.from != "" || o.to != "" || len(o.ids) > 0
}

// buildSpec turns the search flags into a request. Unset pagination and
// sort flags take their values from defaults.
func buildSpec(o searchOptions, defaults types.ClientConfig) (query.Spec, error) {
	var spec query.Spec
	if o.queryFile != "" {
		if o.hasTerms() {
			return spec, errors.New("--query-file cannot be combined with term, date or id flags")
		}
		qf, err := query.ReadQueryFile(o.queryFile)
		if err != nil {
			return spec, err
		}
		if spec, err = qf.ToSpec(); err != nil {
			return spec, fmt.Errorf("query file %s: %w", o.queryFile, err)
		}
	} else {
		b := query.NewBuilder()
		first := true
		add := func(apply func(*query.Builder) *query.Builder) {
			if !first && o.any {
				b.Or()
			}
			apply(b)
			first = false
		}
		for _, ff := range fieldFlags {
			for _, v := range o.terms[ff.field] {
				add(func(b *query.Builder) *query.Builder { return b.Term(ff.field, v) })
			}
		}
		for _, c := range o.categories {
			add(func(b *query.Builder) *query.Builder { return b.Category(types.Category(c)) })
		}
		for _, c := range o.rawCategory {
			add(func(b *query.Builder) *query.Builder { return b.RawCategory(c) })
		}

		if o.from != "" || o.to != "" {
			from, to, err := normalizeDates(o.from, o.to)
			if err != nil {
				return spec, err
			}
			b.SubmittedBetween(from, to)
		}
		b.IDs(o.ids...)

		var err error
		if spec, err = b.Spec(); err != nil {
			return spec, err
		}
		if spec.IsEmpty() {
			return spec, fmt.Errorf("%w: give at least one term, date range or --id", query.ErrEmptyQuery)
		}
	}

	if o.changedStart || o.queryFile == "" {
		spec.Start = o.start
	}
	switch {
	case o.maxResults != 0:
		spec.MaxResults = o.maxResults
	case spec.MaxResults == 0:
		spec.MaxResults = defaults.MaxResults
	}

	sortBy, sortOrder := o.sortBy, o.sortOrder
	if sortBy == "" && o.queryFile == "" {
		sortBy = defaults.SortBy
	}
	if sortOrder == "" && o.queryFile == "" {
		sortOrder = defaults.SortOrder
	}
	if sortBy != "" {
		s, err := query.ParseSortBy(sortBy)
		if err != nil {
			return spec, err
		}
		spec.SortBy = s
	}
	if sortOrder != "" {
		s, err := query.ParseSortOrder(sortOrder)
		if err != nil {
			return spec, err
		}
		spec.SortOrder = s
	}
	return spec, spec.Validate()
}

// normalizeDates accepts YYYY-MM-DD or YYYYMMDDHHMM for either bound. A
// day-only "from" starts at 00:00 and a day-only "to" ends at 23:59. A
// missing bound is open-ended in that direction.
func normalizeDates(from, to string) (string, string, error) {
	var err error
	if from == "" {
		from = "199101010000"
	} else if from, err = normalizeDate(from, false); err != nil {
		return "", "", err
	}
	if to == "" {
		to = time.Now().UTC().Format(query.DateLayout)
	} else if to, err = normalizeDate(to, true); err != nil {
		return "", "", err
	}
	return from, to, nil
}

func normalizeDate(s string, end bool) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) == len(query.DateLayout) {
		return s, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return "", fmt.Errorf("%w: %q is neither YYYY-MM-DD nor YYYYMMDDHHMM", query.ErrInvalidDateRange, s)
	}
	if end {
		d = d.Add(23*time.Hour + 59*time.Minute)
	}
	return d.Format(query.DateLayout), nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	opts, err := readSearchOptions(cmd.Flags())
	if err != nil {
		return err
	}
	spec, err := buildSpec(opts, cfg.Client)
	if err != nil {
		return err
	}

	client := arxiv.New(cfg.Client)
	u, err := client.URL(spec)
	if err != nil {
		return err
	}
	if opts.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), u)
		return nil
	}

	slog.Debug("sending request", "url", u)
	page, err := client.Search(cmd.Context(), spec)
	var partial *feed.PartialParseError
	if errors.As(err, &partial) {
		for _, f := range partial.Failures {
			slog.Warn("skipped entry", "index", f.Index, "id", f.ID, "error", f.Err)
		}
	} else if err != nil {
		return err
	}
	slog.Info("search complete",
		"query", spec.SearchQuery(),
		"returned", page.Len(),
		"total", page.TotalResults)

	if err := export.Write(cmd.OutOrStdout(), opts.format, page); err != nil {
		return err
	}

	if opts.save != "" {
		if err := query.WriteQueryFile(opts.save, spec, page); err != nil {
			return err
		}
		slog.Info("saved query file", "path", opts.save)
	}

	if opts.db != "" {
		w, err := export.OpenSQLite(opts.db)
		if err != nil {
			return err
		}
		defer w.Close()
		runID, err := w.Write(cmd.Context(), spec.SearchQuery(), page)
		if err != nil {
			return err
		}
		slog.Info("exported to database", "path", w.Path(), "run_id", runID)
	}
	return nil
}
