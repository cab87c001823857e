package search

import (
	"errors"
	"fmt"
)

// ErrPastAtBoundary reports a $past evaluated at the first index of a scan.
// FindEvents converts it to a non-match at that index rather than an error.
var ErrPastAtBoundary = errors.New("$past has no previous sample at the scan start")

// SignalNotFoundError reports a condition referencing a signal the provider
// cannot resolve.
type SignalNotFoundError struct {
	Path string
}

func (e *SignalNotFoundError) Error() string {
	return fmt.Sprintf("signal not found: %s", e.Path)
}

// BitRangeError reports a bit select reaching beyond its operand's width.
type BitRangeError struct {
	High  uint
	Width uint
}

func (e *BitRangeError) Error() string {
	return fmt.Sprintf("bit index %d out of range for width %d", e.High, e.Width)
}

// InvalidRangeError reports a scan whose start exceeds its end after
// clamping to the provider's time index range.
type InvalidRangeError struct {
	Start uint64
	End   uint64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid time index range: start %d > end %d", e.Start, e.End)
}
