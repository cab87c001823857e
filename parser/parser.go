// Package parser parses waveform search conditions using participle.
//
// The condition language supports signal paths (TOP.cpu.valid), sized
// Verilog-style literals (4'b0101, 3'd2, 5'h1A), bit selects (data[3],
// data[7:4]), $past(expr) for the previous sample, the unary operators
// ~ and !, and the binary operators == != & ^ | && ||.
package parser

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/sansecio/wavegrep/ast"
)

// Parser parses condition strings into expression trees. It is stateless
// and safe for concurrent use.
type Parser struct {
	parser *participle.Parser[orExpr]
}

// New creates a condition parser.
func New() (*Parser, error) {
	p, err := participle.Build[orExpr](
		participle.Lexer(conditionLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("building parser: %w", err)
	}
	return &Parser{parser: p}, nil
}

// Parse parses a condition string into an expression tree. Errors carry the
// offending position; nothing is evaluated here.
func (p *Parser) Parse(input string) (ast.Expr, error) {
	e, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, err
	}
	return convertOrExpr(e)
}

// Grammar-to-AST conversion. Left-associative chains fold as they convert;
// parenthesization is not retained as a node, so "(a)" and "a" yield
// identical trees.

func convertOrExpr(e *orExpr) (ast.Expr, error) {
	left, err := convertAndExpr(e.Left)
	if err != nil {
		return nil, err
	}
	for _, right := range e.Right {
		r, err := convertAndExpr(right)
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: "||", Left: left, Right: r}
	}
	return left, nil
}

func convertAndExpr(e *andExpr) (ast.Expr, error) {
	left, err := convertBitOrExpr(e.Left)
	if err != nil {
		return nil, err
	}
	for _, right := range e.Right {
		r, err := convertBitOrExpr(right)
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: "&&", Left: left, Right: r}
	}
	return left, nil
}

func convertBitOrExpr(e *bitOrExpr) (ast.Expr, error) {
	left, err := convertBitXorExpr(e.Left)
	if err != nil {
		return nil, err
	}
	for _, right := range e.Right {
		r, err := convertBitXorExpr(right)
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: "|", Left: left, Right: r}
	}
	return left, nil
}

func convertBitXorExpr(e *bitXorExpr) (ast.Expr, error) {
	left, err := convertBitAndExpr(e.Left)
	if err != nil {
		return nil, err
	}
	for _, right := range e.Right {
		r, err := convertBitAndExpr(right)
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: "^", Left: left, Right: r}
	}
	return left, nil
}

func convertBitAndExpr(e *bitAndExpr) (ast.Expr, error) {
	left, err := convertEqExpr(e.Left)
	if err != nil {
		return nil, err
	}
	for _, right := range e.Right {
		r, err := convertEqExpr(right)
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: "&", Left: left, Right: r}
	}
	return left, nil
}

func convertEqExpr(e *eqExpr) (ast.Expr, error) {
	left, err := convertUnaryExpr(e.Left)
	if err != nil {
		return nil, err
	}
	for _, tail := range e.Right {
		r, err := convertUnaryExpr(tail.Right)
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: tail.Op, Left: left, Right: r}
	}
	return left, nil
}

func convertUnaryExpr(e *unaryExpr) (ast.Expr, error) {
	if e.Op != nil {
		x, err := convertUnaryExpr(e.Operand)
		if err != nil {
			return nil, err
		}
		return ast.Unary{Op: *e.Op, X: x}, nil
	}
	return convertPostfixExpr(e.Postfix)
}

func convertPostfixExpr(e *postfixExpr) (ast.Expr, error) {
	x, err := convertPrimaryExpr(e.Primary)
	if err != nil {
		return nil, err
	}
	if len(e.Selects) > 0 && e.Primary.Paren == nil && e.Primary.Signal == nil {
		return nil, fmt.Errorf("%s: bit select applies only to a signal or parenthesized expression", e.Selects[0].Pos)
	}
	for _, sel := range e.Selects {
		high := sel.High
		low := high
		if sel.Low != nil {
			low = *sel.Low
		}
		if low > high {
			return nil, fmt.Errorf("%s: bit select bounds out of order: [%d:%d]", sel.Pos, high, low)
		}
		x = ast.BitSelect{X: x, High: high, Low: low}
	}
	return x, nil
}

func convertPrimaryExpr(e *primaryExpr) (ast.Expr, error) {
	switch {
	case e.Paren != nil:
		return convertOrExpr(e.Paren)

	case e.Past != nil:
		x, err := convertOrExpr(e.Past)
		if err != nil {
			return nil, err
		}
		return ast.Past{X: x}, nil

	case e.Bin != nil:
		return convertSizedLiteral(e.Pos, *e.Bin, 2)

	case e.Dec != nil:
		return convertSizedLiteral(e.Pos, *e.Dec, 10)

	case e.Hex != nil:
		return convertSizedLiteral(e.Pos, *e.Hex, 16)

	case e.Signal != nil:
		return ast.SignalRef{Path: strings.Split(*e.Signal, ".")}, nil
	}
	return nil, fmt.Errorf("%s: unknown primary expression", e.Pos)
}

// convertSizedLiteral decodes a literal like 4'b0101 into a width-tagged
// value. The width is the declared leading number, never inferred from the
// digit count, and the magnitude is reduced modulo 2^width.
func convertSizedLiteral(pos lexer.Position, tok string, base int) (ast.Expr, error) {
	widthStr, rest, _ := strings.Cut(tok, "'")
	width, err := strconv.ParseUint(widthStr, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid width in literal %q", pos, tok)
	}
	if width == 0 {
		return nil, fmt.Errorf("%s: literal width must be at least 1: %q", pos, tok)
	}

	digits := strings.ReplaceAll(rest[1:], "_", "")
	mag, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("%s: invalid digits in literal %q", pos, tok)
	}
	if mag.BitLen() > int(width) {
		mask := new(big.Int).Lsh(big.NewInt(1), uint(width))
		mag.And(mag, mask.Sub(mask, big.NewInt(1)))
	}
	return ast.Literal{Value: mag, Width: uint(width)}, nil
}
