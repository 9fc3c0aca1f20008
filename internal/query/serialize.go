// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"net/url"
	"strings"
)

const (
	joinAnd    = "+AND+"
	joinOr     = "+OR+"
	joinAndNot = "+ANDNOT+"

	groupOpen  = "%28"
	groupClose = "%29"
)

// Render flattens e into the search_query grammar. Output is deterministic.
//
// Combinators never add parentheses of their own: the API evaluates
// left to right, so And(Or(a, b), c) renders as "a+OR+b+AND+c". Wrap a
// sub-expression in Group to force it to bind first.
func Render(e Expr) string {
	var b strings.Builder
	render(&b, e)
	return b.String()
}

func render(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case Term:
		b.WriteString(n.Field.Prefix())
		b.WriteByte(':')
		b.WriteString(url.QueryEscape(n.Value))
	case AndExpr:
		renderJoined(b, n.Children, joinAnd)
	case OrExpr:
		renderJoined(b, n.Children, joinOr)
	case AndNotExpr:
		renderJoined(b, n.Children, joinAndNot)
	case GroupExpr:
		b.WriteString(groupOpen)
		render(b, n.Inner)
		b.WriteString(groupClose)
	}
}

func renderJoined(b *strings.Builder, children []Expr, sep string) {
	first := true
	for _, c := range children {
		s := Render(c)
		if s == "" {
			continue
		}
		if !first {
			b.WriteString(sep)
		}
		b.WriteString(s)
		first = false
	}
}
