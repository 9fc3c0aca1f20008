// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query models arXiv search expressions and renders them into the
// API's search_query grammar. Expressions are built either directly from
// the tree constructors (Term, And, Or, AndNot, Group) or incrementally with
// a Builder; both paths render identically for the same logical query.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/arxiv-query/pkg/types"
)

var (
	// ErrInvalidPredicate reports an empty or invalid field value.
	ErrInvalidPredicate = errors.New("invalid predicate")

	// ErrUnbalancedGroup reports a GroupStart without GroupEnd, or the reverse.
	ErrUnbalancedGroup = errors.New("unbalanced group")

	// ErrEmptyGroup reports a group closed before any term was added to it.
	ErrEmptyGroup = errors.New("empty group")

	// ErrInvalidDateRange reports a malformed bound or from > to.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrEmptyQuery reports a Spec with no expression, date range or ids.
	ErrEmptyQuery = errors.New("empty query")

	// ErrInvalidPagination reports a negative start or an out of range page size.
	ErrInvalidPagination = errors.New("invalid pagination")
)

// Field selects which part of a record a Term matches.
type Field int

const (
	FieldTitle Field = iota
	FieldAuthor
	FieldAbstract
	FieldComment
	FieldJournalRef
	FieldCategory
	FieldReportNumber
	FieldID
	FieldAll
)

var fieldPrefixes = [...]string{
	FieldTitle:        "ti",
	FieldAuthor:       "au",
	FieldAbstract:     "abs",
	FieldComment:      "co",
	FieldJournalRef:   "jr",
	FieldCategory:     "cat",
	FieldReportNumber: "rn",
	FieldID:           "id",
	FieldAll:          "all",
}

// Prefix returns the wire prefix for f, e.g. "ti" for FieldTitle.
func (f Field) Prefix() string {
	if f < 0 || int(f) >= len(fieldPrefixes) {
		return ""
	}
	return fieldPrefixes[f]
}

func (f Field) String() string { return f.Prefix() }

// Expr is a node of a search expression tree. The set of implementations is
// closed: Term, AndExpr, OrExpr, AndNotExpr and GroupExpr.
type Expr interface {
	isExpr()
}

// Term is a single field predicate.
type Term struct {
	Field Field
	Value string
}

// AndExpr is a conjunction of its children, in order.
type AndExpr struct {
	Children []Expr
}

// OrExpr is a disjunction of its children, in order.
type OrExpr struct {
	Children []Expr
}

// AndNotExpr keeps matches of the first child that match none of the rest.
type AndNotExpr struct {
	Children []Expr
}

// GroupExpr parenthesizes Inner regardless of the surrounding combinator.
type GroupExpr struct {
	Inner Expr
}

func (Term) isExpr()       {}
func (AndExpr) isExpr()    {}
func (OrExpr) isExpr()     {}
func (AndNotExpr) isExpr() {}
func (GroupExpr) isExpr()  {}

// NewTerm returns a predicate on field. Values that are empty after trimming
// are rejected. Category values are passed through without validation; use
// CategoryTerm for the checked path.
func NewTerm(field Field, value string) (Term, error) {
	if field.Prefix() == "" {
		return Term{}, fmt.Errorf("%w: unknown field %d", ErrInvalidPredicate, int(field))
	}
	if strings.TrimSpace(value) == "" {
		return Term{}, fmt.Errorf("%w: empty %s value", ErrInvalidPredicate, field.Prefix())
	}
	return Term{Field: field, Value: value}, nil
}

// MustTerm is like NewTerm but panics on error. Intended for literals.
func MustTerm(field Field, value string) Term {
	t, err := NewTerm(field, value)
	if err != nil {
		panic(err)
	}
	return t
}

// CategoryTerm returns a category predicate for a code from the closed set.
func CategoryTerm(c types.Category) (Term, error) {
	if !c.Known() {
		return Term{}, fmt.Errorf("%w: %w: %q", ErrInvalidPredicate, types.ErrUnknownCategory, string(c))
	}
	return NewTerm(FieldCategory, string(c))
}

// Field shorthands for NewTerm: title (ti), author (au), abstract (abs),
// comment (co), journal reference (jr), report number (rn), arXiv
// identifier (id) and all fields (all).
func Title(v string) (Term, error)        { return NewTerm(FieldTitle, v) }
func Author(v string) (Term, error)       { return NewTerm(FieldAuthor, v) }
func Abstract(v string) (Term, error)     { return NewTerm(FieldAbstract, v) }
func Comment(v string) (Term, error)      { return NewTerm(FieldComment, v) }
func JournalRef(v string) (Term, error)   { return NewTerm(FieldJournalRef, v) }
func ReportNumber(v string) (Term, error) { return NewTerm(FieldReportNumber, v) }
func ID(v string) (Term, error)           { return NewTerm(FieldID, v) }
func All(v string) (Term, error)          { return NewTerm(FieldAll, v) }

// RawCategory accepts any category code, including ones the closed set has
// not caught up with.
func RawCategory(v string) (Term, error) { return NewTerm(FieldCategory, v) }

// And joins children with AND. Directly nested AndExpr children are
// flattened, so And(And(a, b), c) equals And(a, b, c).
func And(children ...Expr) AndExpr {
	var out []Expr
	for _, c := range children {
		if inner, ok := c.(AndExpr); ok {
			out = append(out, inner.Children...)
			continue
		}
		out = appendNonNil(out, c)
	}
	return AndExpr{Children: out}
}

// Or joins children with OR, flattening nested OrExpr children.
func Or(children ...Expr) OrExpr {
	var out []Expr
	for _, c := range children {
		if inner, ok := c.(OrExpr); ok {
			out = append(out, inner.Children...)
			continue
		}
		out = appendNonNil(out, c)
	}
	return OrExpr{Children: out}
}

// AndNot joins children with ANDNOT. Only a nested AndNotExpr in first
// position is flattened: (a ANDNOT b) ANDNOT c reads the same either way,
// a ANDNOT (b ANDNOT c) does not.
func AndNot(children ...Expr) AndNotExpr {
	var out []Expr
	for i, c := range children {
		if inner, ok := c.(AndNotExpr); ok && i == 0 {
			out = append(out, inner.Children...)
			continue
		}
		out = appendNonNil(out, c)
	}
	return AndNotExpr{Children: out}
}

// Group wraps inner in explicit parentheses.
func Group(inner Expr) GroupExpr {
	return GroupExpr{Inner: inner}
}

func appendNonNil(out []Expr, e Expr) []Expr {
	if e == nil {
		return out
	}
	return append(out, e)
}

// ValidateExpr checks a tree built without the checked constructors, e.g.
// from struct literals. Every combinator needs at least one child, a group
// needs an inner expression, and every term needs a known field and a
// non-blank value. Failures wrap ErrInvalidPredicate.
func ValidateExpr(e Expr) error {
	switch n := e.(type) {
	case nil:
		return fmt.Errorf("%w: nil expression", ErrInvalidPredicate)
	case Term:
		_, err := NewTerm(n.Field, n.Value)
		return err
	case AndExpr:
		return validateChildren("AND", n.Children)
	case OrExpr:
		return validateChildren("OR", n.Children)
	case AndNotExpr:
		return validateChildren("ANDNOT", n.Children)
	case GroupExpr:
		if n.Inner == nil {
			return fmt.Errorf("%w: %w", ErrInvalidPredicate, ErrEmptyGroup)
		}
		if err := ValidateExpr(n.Inner); err != nil {
			return fmt.Errorf("group: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported expression %T", ErrInvalidPredicate, e)
	}
}

func validateChildren(op string, children []Expr) error {
	if len(children) == 0 {
		return fmt.Errorf("%w: %s with no operands", ErrInvalidPredicate, op)
	}
	for i, c := range children {
		if err := ValidateExpr(c); err != nil {
			return fmt.Errorf("%s operand %d: %w", op, i, err)
		}
	}
	return nil
}
