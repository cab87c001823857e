package search

import (
	"errors"

	"github.com/sansecio/wavegrep/ast"
)

// Unlimited disables the result-count cap in FindEvents.
const Unlimited = -1

// FindEvents scans time indices [start, end] in ascending order and returns
// every index at which expr evaluates non-zero. The bounds are clamped to
// the provider's time index range first; a range whose start exceeds its
// end after clamping is an *InvalidRangeError. limit caps the number of
// matches; any negative value means unlimited.
//
// A $past at the scan's first index makes that index a non-match. Any other
// evaluation failure aborts the scan and surfaces immediately: it indicates
// a malformed query, not a condition that merely fails to hold there.
func FindEvents(expr ast.Expr, p Provider, start, end uint64, limit int) ([]uint64, error) {
	min, max := p.TimeIndexRange()
	if start < min {
		start = min
	}
	if end > max {
		end = max
	}
	if start > end {
		return nil, &InvalidRangeError{Start: start, End: end}
	}

	// always a non-nil list, even with no matches or limit 0
	matches := []uint64{}
	for i := start; ; i++ {
		if limit >= 0 && len(matches) >= limit {
			break
		}
		v, err := Evaluate(expr, Context{Index: i, Min: start}, p)
		switch {
		case errors.Is(err, ErrPastAtBoundary):
			// no previous sample yet: a non-match, not an error
		case err != nil:
			return nil, err
		case v.IsTrue():
			matches = append(matches, i)
		}
		if i == end {
			break
		}
	}
	return matches, nil
}
