// Package ast defines the expression tree for waveform search conditions.
package ast

import (
	"math/big"
	"strings"
)

// Expr represents a condition expression node. The tree is built bottom-up
// by the parser and never mutated afterwards.
type Expr interface {
	exprNode()
}

// SignalRef references a signal by its dot-separated hierarchical path.
type SignalRef struct {
	Path []string
}

func (SignalRef) exprNode() {}

// String returns the dotted form of the signal path.
func (s SignalRef) String() string { return strings.Join(s.Path, ".") }

// Literal is a sized literal like 4'b0101. Value is always < 2^Width.
type Literal struct {
	Value *big.Int
	Width uint
}

func (Literal) exprNode() {}

// BitSelect extracts bits [Low..High] from its operand, as in data[7:4].
// The single-index form data[3] has High == Low.
type BitSelect struct {
	X    Expr
	High uint
	Low  uint
}

func (BitSelect) exprNode() {}

// Past evaluates its operand at the previous time index, as in $past(expr).
type Past struct {
	X Expr
}

func (Past) exprNode() {}

// Unary represents a unary operation (~, !).
type Unary struct {
	Op string
	X  Expr
}

func (Unary) exprNode() {}

// Binary represents a binary operation (==, !=, &, ^, |, &&, ||).
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

func (Binary) exprNode() {}

// SignalPaths returns the dotted paths of all signals referenced by the
// expression, in first-appearance order without duplicates.
func SignalPaths(e Expr) []string {
	var paths []string
	seen := map[string]bool{}
	walk(e, func(x Expr) {
		if s, ok := x.(SignalRef); ok {
			p := s.String()
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	})
	return paths
}

func walk(e Expr, fn func(Expr)) {
	if e == nil {
		return
	}
	fn(e)
	switch x := e.(type) {
	case BitSelect:
		walk(x.X, fn)
	case Past:
		walk(x.X, fn)
	case Unary:
		walk(x.X, fn)
	case Binary:
		walk(x.Left, fn)
		walk(x.Right, fn)
	}
}
