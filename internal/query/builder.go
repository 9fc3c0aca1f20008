// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"context"
	"fmt"
	"time"

	"github.com/pdiddy/arxiv-query/pkg/types"
)

type operator int

const (
	opNone operator = iota
	opAnd
	opOr
	opAndNot
)

// frame is one level of the open-group stack. The bottom frame is the
// top-level expression.
type frame struct {
	expr    Expr
	pending operator
	// opened is the operator that was pending when GroupStart pushed this
	// frame; GroupEnd attaches the finished group to the parent with it.
	opened operator
}

// Builder assembles a Spec one call at a time:
//
//	spec, err := query.NewBuilder().
//		Title("ai").Or().Title("llm").
//		GroupStart().Category(types.CsAI).Or().Category(types.CsLG).GroupEnd().
//		Spec()
//
// Terms appended without an explicit And, Or or AndNot are AND-ed with what
// came before. The first error is recorded at the call that caused it and
// can be read immediately through Err; every call after it is a no-op.
// A Builder is not safe for concurrent use.
type Builder struct {
	stack []frame
	err   error
	spec  Spec
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{stack: []frame{{}}}
}

// Err returns the first construction error, if any.
func (b *Builder) Err() error { return b.err }

// Depth returns the number of currently open groups.
func (b *Builder) Depth() int { return len(b.stack) - 1 }

func (b *Builder) top() *frame { return &b.stack[len(b.stack)-1] }

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Term appends a predicate on field.
func (b *Builder) Term(field Field, value string) *Builder {
	if b.err != nil {
		return b
	}
	t, err := NewTerm(field, value)
	if err != nil {
		return b.fail(err)
	}
	b.attach(t)
	return b
}

// Field shorthands for Term. RawCategory skips the closed-set check that
// Category applies.
func (b *Builder) Title(v string) *Builder        { return b.Term(FieldTitle, v) }
func (b *Builder) Author(v string) *Builder       { return b.Term(FieldAuthor, v) }
func (b *Builder) Abstract(v string) *Builder     { return b.Term(FieldAbstract, v) }
func (b *Builder) Comment(v string) *Builder      { return b.Term(FieldComment, v) }
func (b *Builder) JournalRef(v string) *Builder   { return b.Term(FieldJournalRef, v) }
func (b *Builder) ReportNumber(v string) *Builder { return b.Term(FieldReportNumber, v) }
func (b *Builder) ID(v string) *Builder           { return b.Term(FieldID, v) }
func (b *Builder) All(v string) *Builder          { return b.Term(FieldAll, v) }
func (b *Builder) RawCategory(v string) *Builder  { return b.Term(FieldCategory, v) }

// Category appends a category predicate from the closed set.
func (b *Builder) Category(c types.Category) *Builder {
	if b.err != nil {
		return b
	}
	t, err := CategoryTerm(c)
	if err != nil {
		return b.fail(err)
	}
	b.attach(t)
	return b
}

// Expr appends an already built expression as a single operand.
func (b *Builder) Expr(e Expr) *Builder {
	if b.err != nil || e == nil {
		return b
	}
	b.attach(e)
	return b
}

// And sets AND as the operator for the next operand.
func (b *Builder) And() *Builder { return b.setPending(opAnd) }

// Or sets OR as the operator for the next operand.
func (b *Builder) Or() *Builder { return b.setPending(opOr) }

// AndNot sets ANDNOT as the operator for the next operand.
func (b *Builder) AndNot() *Builder { return b.setPending(opAndNot) }

func (b *Builder) setPending(op operator) *Builder {
	if b.err != nil {
		return b
	}
	b.top().pending = op
	return b
}

// GroupStart opens a nested group. Operands go into the group until the
// matching GroupEnd.
func (b *Builder) GroupStart() *Builder {
	if b.err != nil {
		return b
	}
	parent := b.top()
	opened := parent.pending
	parent.pending = opNone
	b.stack = append(b.stack, frame{opened: opened})
	return b
}

// GroupEnd closes the innermost group and attaches it to the parent with
// the operator that was pending when the group was opened.
func (b *Builder) GroupEnd() *Builder {
	if b.err != nil {
		return b
	}
	if len(b.stack) == 1 {
		return b.fail(fmt.Errorf("%w: GroupEnd without GroupStart", ErrUnbalancedGroup))
	}
	closed := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if closed.expr == nil {
		return b.fail(ErrEmptyGroup)
	}
	parent := b.top()
	parent.pending = closed.opened
	b.attach(Group(closed.expr))
	return b
}

// attach combines e into the innermost frame using its pending operator,
// defaulting to AND.
func (b *Builder) attach(e Expr) {
	f := b.top()
	op := f.pending
	f.pending = opNone
	if f.expr == nil {
		f.expr = e
		return
	}
	switch op {
	case opOr:
		f.expr = Or(f.expr, e)
	case opAndNot:
		f.expr = AndNot(f.expr, e)
	default:
		f.expr = And(f.expr, e)
	}
}

// SubmittedBetween restricts the submission window; see NewDateRange.
func (b *Builder) SubmittedBetween(from, to string) *Builder {
	if b.err != nil {
		return b
	}
	d, err := NewDateRange(from, to)
	if err != nil {
		return b.fail(err)
	}
	b.spec.Dates = &d
	return b
}

// SubmittedBetweenTimes is SubmittedBetween for time values.
func (b *Builder) SubmittedBetweenTimes(from, to time.Time) *Builder {
	return b.SubmittedBetween(from.UTC().Format(DateLayout), to.UTC().Format(DateLayout))
}

// IDs restricts results to the given arXiv identifiers.
func (b *Builder) IDs(ids ...string) *Builder {
	if b.err != nil {
		return b
	}
	b.spec.IDs = append(b.spec.IDs, ids...)
	return b
}

// Start sets the 0-based offset of the first result.
func (b *Builder) Start(n int) *Builder {
	if b.err == nil {
		b.spec.Start = n
	}
	return b
}

// MaxResults sets the page size; 0 means DefaultMaxResults.
func (b *Builder) MaxResults(n int) *Builder {
	if b.err == nil {
		b.spec.MaxResults = n
	}
	return b
}

// SortBy sets the sort key.
func (b *Builder) SortBy(s SortBy) *Builder {
	if b.err == nil {
		b.spec.SortBy = s
	}
	return b
}

// SortOrder sets the sort direction.
func (b *Builder) SortOrder(o SortOrder) *Builder {
	if b.err == nil {
		b.spec.SortOrder = o
	}
	return b
}

// Expression returns the accumulated expression tree, which is nil when no
// term was added. It fails if an earlier call failed or a group is still open.
func (b *Builder) Expression() (Expr, error) {
	if b.err != nil {
		return nil, b.err
	}
	if d := b.Depth(); d > 0 {
		return nil, fmt.Errorf("%w: %d group(s) left open", ErrUnbalancedGroup, d)
	}
	return b.stack[0].expr, nil
}

// Spec finalizes the builder into a Spec.
func (b *Builder) Spec() (Spec, error) {
	e, err := b.Expression()
	if err != nil {
		return Spec{}, err
	}
	s := b.spec
	s.Expr = e
	s.IDs = append([]string(nil), b.spec.IDs...)
	return s, nil
}

// QueryString returns the search_query value the finalized Spec would send.
func (b *Builder) QueryString() (string, error) {
	s, err := b.Spec()
	if err != nil {
		return "", err
	}
	return s.SearchQuery(), nil
}

// Query finalizes the builder and runs the resulting Spec with s, exactly as
// a Spec built from tree constructors would run.
func (b *Builder) Query(ctx context.Context, s Searcher) (*types.ResultPage, error) {
	spec, err := b.Spec()
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, spec)
}
