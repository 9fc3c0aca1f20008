// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-query/pkg/types"
)

// QueryFile is the on-disk representation of a query and, optionally, the
// results it produced. Saved files can be rerun without retyping flags.
type QueryFile struct {
	Query      *Node         `yaml:"query,omitempty"`
	Submitted  *DateBounds   `yaml:"submitted,omitempty"`
	IDs        []string      `yaml:"ids,omitempty"`
	Start      int           `yaml:"start,omitempty"`
	MaxResults int           `yaml:"max_results,omitempty"`
	SortBy     string        `yaml:"sort_by,omitempty"`
	SortOrder  string        `yaml:"sort_order,omitempty"`
	Results    []types.Paper `yaml:"results,omitempty"`
	Summary    *QuerySummary `yaml:"summary,omitempty"`
}

// DateBounds stores a DateRange in YYYYMMDDHHMM form.
type DateBounds struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// QuerySummary stores result statistics and a timestamp.
type QuerySummary struct {
	SearchQuery  string    `yaml:"search_query"`
	Returned     int       `yaml:"returned"`
	TotalResults int       `yaml:"total_results"`
	Timestamp    time.Time `yaml:"timestamp"`
}

// Node is the YAML form of an expression. Exactly one key must be set:
//
//	and:
//	  - or:
//	      - title: ai
//	      - title: llm
//	  - group:
//	      or:
//	        - category: cs.AI
//	        - category: cs.LG
type Node struct {
	Title        *string `yaml:"title,omitempty"`
	Author       *string `yaml:"author,omitempty"`
	Abstract     *string `yaml:"abstract,omitempty"`
	Comment      *string `yaml:"comment,omitempty"`
	JournalRef   *string `yaml:"journal_ref,omitempty"`
	Category     *string `yaml:"category,omitempty"`
	ReportNumber *string `yaml:"report_number,omitempty"`
	ID           *string `yaml:"id,omitempty"`
	All          *string `yaml:"all,omitempty"`

	And    []Node `yaml:"and,omitempty"`
	Or     []Node `yaml:"or,omitempty"`
	AndNot []Node `yaml:"andnot,omitempty"`
	Group  *Node  `yaml:"group,omitempty"`
}

type fieldValue struct {
	field Field
	value *string
}

func (n Node) terms() []fieldValue {
	return []fieldValue{
		{FieldTitle, n.Title},
		{FieldAuthor, n.Author},
		{FieldAbstract, n.Abstract},
		{FieldComment, n.Comment},
		{FieldJournalRef, n.JournalRef},
		{FieldCategory, n.Category},
		{FieldReportNumber, n.ReportNumber},
		{FieldID, n.ID},
		{FieldAll, n.All},
	}
}

// ToExpr converts n through the tree constructors, so every term is
// validated the same way as in code. Category values take the raw path.
func (n Node) ToExpr() (Expr, error) {
	var (
		out Expr
		set int
	)
	for _, fv := range n.terms() {
		if fv.value == nil {
			continue
		}
		set++
		t, err := NewTerm(fv.field, *fv.value)
		if err != nil {
			return nil, err
		}
		out = t
	}

	children := func(nodes []Node) ([]Expr, error) {
		if len(nodes) == 0 {
			return nil, fmt.Errorf("%w: empty operand list", ErrInvalidPredicate)
		}
		exprs := make([]Expr, 0, len(nodes))
		for i, c := range nodes {
			e, err := c.ToExpr()
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
			exprs = append(exprs, e)
		}
		return exprs, nil
	}

	if n.And != nil {
		set++
		cs, err := children(n.And)
		if err != nil {
			return nil, fmt.Errorf("and: %w", err)
		}
		out = And(cs...)
	}
	if n.Or != nil {
		set++
		cs, err := children(n.Or)
		if err != nil {
			return nil, fmt.Errorf("or: %w", err)
		}
		out = Or(cs...)
	}
	if n.AndNot != nil {
		set++
		cs, err := children(n.AndNot)
		if err != nil {
			return nil, fmt.Errorf("andnot: %w", err)
		}
		out = AndNot(cs...)
	}
	if n.Group != nil {
		set++
		inner, err := n.Group.ToExpr()
		if err != nil {
			return nil, fmt.Errorf("group: %w", err)
		}
		out = Group(inner)
	}

	if set != 1 {
		return nil, fmt.Errorf("%w: query node must set exactly one key, got %d", ErrInvalidPredicate, set)
	}
	return out, nil
}

// NodeFromExpr converts an expression tree into its YAML form.
func NodeFromExpr(e Expr) *Node {
	switch x := e.(type) {
	case Term:
		v := x.Value
		n := &Node{}
		switch x.Field {
		case FieldTitle:
			n.Title = &v
		case FieldAuthor:
			n.Author = &v
		case FieldAbstract:
			n.Abstract = &v
		case FieldComment:
			n.Comment = &v
		case FieldJournalRef:
			n.JournalRef = &v
		case FieldCategory:
			n.Category = &v
		case FieldReportNumber:
			n.ReportNumber = &v
		case FieldID:
			n.ID = &v
		case FieldAll:
			n.All = &v
		}
		return n
	case AndExpr:
		return &Node{And: nodesFromExprs(x.Children)}
	case OrExpr:
		return &Node{Or: nodesFromExprs(x.Children)}
	case AndNotExpr:
		return &Node{AndNot: nodesFromExprs(x.Children)}
	case GroupExpr:
		return &Node{Group: NodeFromExpr(x.Inner)}
	}
	return nil
}

func nodesFromExprs(es []Expr) []Node {
	out := make([]Node, 0, len(es))
	for _, e := range es {
		if n := NodeFromExpr(e); n != nil {
			out = append(out, *n)
		}
	}
	return out
}

// NewQueryFile captures spec in file form.
func NewQueryFile(spec Spec) *QueryFile {
	qf := &QueryFile{
		IDs:        spec.IDs,
		Start:      spec.Start,
		MaxResults: spec.MaxResults,
		SortBy:     spec.SortBy.String(),
		SortOrder:  spec.SortOrder.String(),
	}
	if spec.Expr != nil {
		qf.Query = NodeFromExpr(spec.Expr)
	}
	if spec.Dates != nil {
		qf.Submitted = &DateBounds{From: spec.Dates.From, To: spec.Dates.To}
	}
	return qf
}

// ToSpec validates the file and converts it into a Spec.
func (qf *QueryFile) ToSpec() (Spec, error) {
	var spec Spec
	if qf.Query != nil {
		e, err := qf.Query.ToExpr()
		if err != nil {
			return Spec{}, fmt.Errorf("query: %w", err)
		}
		spec.Expr = e
	}
	if qf.Submitted != nil {
		d, err := NewDateRange(qf.Submitted.From, qf.Submitted.To)
		if err != nil {
			return Spec{}, fmt.Errorf("submitted: %w", err)
		}
		spec.Dates = &d
	}
	spec.IDs = qf.IDs
	spec.Start = qf.Start
	spec.MaxResults = qf.MaxResults
	if qf.SortBy != "" {
		s, err := ParseSortBy(qf.SortBy)
		if err != nil {
			return Spec{}, err
		}
		spec.SortBy = s
	}
	if qf.SortOrder != "" {
		o, err := ParseSortOrder(qf.SortOrder)
		if err != nil {
			return Spec{}, err
		}
		spec.SortOrder = o
	}
	return spec, nil
}

// LockTimeout bounds how long query file reads and writes wait for the
// lock held by another process.
var LockTimeout = 3 * time.Second

// ErrFileLocked reports that a query file stayed locked for LockTimeout.
var ErrFileLocked = errors.New("query file is locked")

// lockFile takes the cross-process lock guarding path, shared for readers
// and exclusive for writers. The returned func releases it.
func lockFile(path string, exclusive bool) (func(), error) {
	fl := flock.New(path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), LockTimeout)
	defer cancel()

	var locked bool
	var err error
	if exclusive {
		locked, err = fl.TryLockContext(ctx, 100*time.Millisecond)
	} else {
		locked, err = fl.TryRLockContext(ctx, 100*time.Millisecond)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrFileLocked, path)
		}
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrFileLocked, path)
	}
	return func() { _ = fl.Unlock() }, nil
}

// WriteQueryFile saves spec and, when page is non-nil, its results. The
// file is replaced atomically under an exclusive lock.
func WriteQueryFile(path string, spec Spec, page *types.ResultPage) error {
	qf := NewQueryFile(spec)
	if page != nil {
		qf.Results = page.Papers
		qf.Summary = &QuerySummary{
			SearchQuery:  spec.SearchQuery(),
			Returned:     len(page.Papers),
			TotalResults: page.TotalResults,
			Timestamp:    time.Now().UTC(),
		}
	}
	data, err := yaml.Marshal(qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}

	unlock, err := lockFile(path, true)
	if err != nil {
		return err
	}
	defer unlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing query file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing query file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("writing query file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing query file: %w", err)
	}
	return nil
}

// ReadQueryFile loads a query file from disk under a shared lock.
func ReadQueryFile(path string) (*QueryFile, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	unlock, err := lockFile(path, false)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}
