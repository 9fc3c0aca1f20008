// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"fmt"
	"time"
)

// DateLayout is the YYYYMMDDHHMM form the API expects for submittedDate bounds.
const DateLayout = "200601021504"

// DateRange restricts results to a submission window. Both bounds are inclusive.
type DateRange struct {
	From string
	To   string
}

// NewDateRange validates both bounds and their order. Reversed bounds are an
// error; they are never swapped.
func NewDateRange(from, to string) (DateRange, error) {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: from %q is not YYYYMMDDHHMM", ErrInvalidDateRange, from)
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: to %q is not YYYYMMDDHHMM", ErrInvalidDateRange, to)
	}
	if f.After(t) {
		return DateRange{}, fmt.Errorf("%w: from %s is after to %s", ErrInvalidDateRange, from, to)
	}
	return DateRange{From: from, To: to}, nil
}

// DateRangeFromTimes formats from and to in UTC and validates them.
func DateRangeFromTimes(from, to time.Time) (DateRange, error) {
	return NewDateRange(from.UTC().Format(DateLayout), to.UTC().Format(DateLayout))
}

// Render returns the submittedDate segment, e.g.
// "submittedDate:[202412010000+TO+202412012359]".
func (d DateRange) Render() string {
	return "submittedDate:[" + d.From + "+TO+" + d.To + "]"
}
