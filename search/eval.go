// Package search evaluates parsed conditions against per-index waveform
// samples and scans time-index ranges for matching indices.
package search

import (
	"fmt"
	"math/big"

	"github.com/sansecio/wavegrep/ast"
)

// Provider supplies per-index signal values to the evaluator. The engine
// only reads from it; implementations must be safe for concurrent reads.
type Provider interface {
	// ValueAt returns the value of the signal at the given time index, or a
	// *SignalNotFoundError if the path does not resolve.
	ValueAt(path string, idx uint64) (Value, error)

	// TimeIndexRange returns the lowest and highest valid time indices.
	TimeIndexRange() (min, max uint64)
}

// Context identifies the sample a condition is evaluated against. Min is
// the first index of the current scan; $past at Min hits the boundary.
// Contexts are built fresh per scanned index and never shared.
type Context struct {
	Index uint64
	Min   uint64
}

// Evaluate computes the value of expr at the context's time index.
func Evaluate(expr ast.Expr, ctx Context, p Provider) (Value, error) {
	switch e := expr.(type) {
	case ast.SignalRef:
		return p.ValueAt(e.String(), ctx.Index)

	case ast.Literal:
		return Value{Mag: e.Value, Width: e.Width}, nil

	case ast.BitSelect:
		v, err := Evaluate(e.X, ctx, p)
		if err != nil {
			return Value{}, err
		}
		return v.Bits(e.High, e.Low)

	case ast.Past:
		if ctx.Index <= ctx.Min {
			return Value{}, ErrPastAtBoundary
		}
		return Evaluate(e.X, Context{Index: ctx.Index - 1, Min: ctx.Min}, p)

	case ast.Unary:
		v, err := Evaluate(e.X, ctx, p)
		if err != nil {
			return Value{}, err
		}
		if e.Op == "~" {
			return v.Not(), nil
		}
		return Bool(!v.IsTrue()), nil

	case ast.Binary:
		return evalBinary(e, ctx, p)
	}
	return Value{}, fmt.Errorf("unknown expression node %T", expr)
}

// evalBinary evaluates both operands left to right. Logical && and || do
// not short-circuit: the language has no side effects, and an error in
// either operand must surface regardless of the other's value.
func evalBinary(e ast.Binary, ctx Context, p Provider) (Value, error) {
	left, err := Evaluate(e.Left, ctx, p)
	if err != nil {
		return Value{}, err
	}
	right, err := Evaluate(e.Right, ctx, p)
	if err != nil {
		return Value{}, err
	}

	switch e.Op {
	case "==":
		return Bool(left.Mag.Cmp(right.Mag) == 0), nil
	case "!=":
		return Bool(left.Mag.Cmp(right.Mag) != 0), nil
	case "&&":
		return Bool(left.IsTrue() && right.IsTrue()), nil
	case "||":
		return Bool(left.IsTrue() || right.IsTrue()), nil
	}

	// Bitwise operators zero-extend the narrower operand to the wider
	// one's width; zero-extension leaves the magnitudes untouched.
	width := max(left.Width, right.Width)
	m := new(big.Int)
	switch e.Op {
	case "&":
		m.And(left.Mag, right.Mag)
	case "|":
		m.Or(left.Mag, right.Mag)
	case "^":
		m.Xor(left.Mag, right.Mag)
	default:
		return Value{}, fmt.Errorf("unknown binary operator %q", e.Op)
	}
	return Value{Mag: m, Width: width}, nil
}
