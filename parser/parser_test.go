package parser

import (
	"reflect"
	"testing"

	"github.com/sansecio/wavegrep/ast"
)

func mustParse(t *testing.T, input string) ast.Expr {
	t.Helper()
	p, err := New()
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}
	e, err := p.Parse(input)
	if err != nil {
		t.Fatalf("failed to parse %q: %v", input, err)
	}
	return e
}

func sig(path ...string) ast.SignalRef { return ast.SignalRef{Path: path} }

func TestParseSignalPath(t *testing.T) {
	e := mustParse(t, "TOP.cpu.valid")
	want := sig("TOP", "cpu", "valid")
	if !reflect.DeepEqual(e, want) {
		t.Errorf("expected %v, got %v", want, e)
	}
}

func TestParseSizedLiterals(t *testing.T) {
	tests := []struct {
		input string
		value int64
		width uint
	}{
		{"4'b0101", 5, 4},
		{"8'b1010_1010", 170, 8},
		{"3'd2", 2, 3},
		{"5'h1A", 26, 5},
		{"16'hDEAD", 0xDEAD, 16},
		// magnitude reduced modulo 2^width
		{"2'd7", 3, 2},
		{"4'hFF", 15, 4},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := mustParse(t, tt.input)
			l, ok := e.(ast.Literal)
			if !ok {
				t.Fatalf("expected Literal, got %T", e)
			}
			if l.Value.Int64() != tt.value || l.Width != tt.width {
				t.Errorf("expected %d (width %d), got %v (width %d)", tt.value, tt.width, l.Value, l.Width)
			}
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.Expr
	}{
		{
			"and binds tighter than or",
			"a || b && c",
			ast.Binary{Op: "||", Left: sig("a"), Right: ast.Binary{Op: "&&", Left: sig("b"), Right: sig("c")}},
		},
		{
			"bitor binds tighter than and",
			"a && b | c",
			ast.Binary{Op: "&&", Left: sig("a"), Right: ast.Binary{Op: "|", Left: sig("b"), Right: sig("c")}},
		},
		{
			"bitwise ladder",
			"a | b ^ c & d",
			ast.Binary{Op: "|", Left: sig("a"), Right: ast.Binary{
				Op: "^", Left: sig("b"), Right: ast.Binary{Op: "&", Left: sig("c"), Right: sig("d")},
			}},
		},
		{
			"equality binds tighter than bitand",
			"a == b & c",
			ast.Binary{Op: "&", Left: ast.Binary{Op: "==", Left: sig("a"), Right: sig("b")}, Right: sig("c")},
		},
		{
			"left associative",
			"a || b || c",
			ast.Binary{Op: "||", Left: ast.Binary{Op: "||", Left: sig("a"), Right: sig("b")}, Right: sig("c")},
		},
		{
			"unary stacking",
			"!~a",
			ast.Unary{Op: "!", X: ast.Unary{Op: "~", X: sig("a")}},
		},
		{
			"parens override precedence",
			"(a || b) && c",
			ast.Binary{Op: "&&", Left: ast.Binary{Op: "||", Left: sig("a"), Right: sig("b")}, Right: sig("c")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := mustParse(t, tt.input)
			if !reflect.DeepEqual(e, tt.want) {
				t.Errorf("expected %#v, got %#v", tt.want, e)
			}
		})
	}
}

// Parentheses group but leave no trace: redundant parens yield the same
// tree as their absence.
func TestParseRedundantParens(t *testing.T) {
	tests := []struct{ a, b string }{
		{"(!$past(a)) && a", "!$past(a) && a"},
		{"((a))", "a"},
		{"(a == b) & c", "a == b & c"},
	}
	for _, tt := range tests {
		t.Run(tt.a, func(t *testing.T) {
			left := mustParse(t, tt.a)
			right := mustParse(t, tt.b)
			if !reflect.DeepEqual(left, right) {
				t.Errorf("%q parsed as %#v, %q as %#v", tt.a, left, tt.b, right)
			}
		})
	}
}

func TestParseBitSelect(t *testing.T) {
	tests := []struct {
		input string
		want  ast.Expr
	}{
		{"data[3]", ast.BitSelect{X: sig("data"), High: 3, Low: 3}},
		{"data[7:4]", ast.BitSelect{X: sig("data"), High: 7, Low: 4}},
		{"bus[15:8][3]", ast.BitSelect{X: ast.BitSelect{X: sig("bus"), High: 15, Low: 8}, High: 3, Low: 3}},
		{"(a & b)[0]", ast.BitSelect{X: ast.Binary{Op: "&", Left: sig("a"), Right: sig("b")}, High: 0, Low: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e := mustParse(t, tt.input)
			if !reflect.DeepEqual(e, tt.want) {
				t.Errorf("expected %#v, got %#v", tt.want, e)
			}
		})
	}
}

func TestParsePast(t *testing.T) {
	e := mustParse(t, "$past(clk) && !clk")
	want := ast.Binary{
		Op:    "&&",
		Left:  ast.Past{X: sig("clk")},
		Right: ast.Unary{Op: "!", X: sig("clk")},
	}
	if !reflect.DeepEqual(e, want) {
		t.Errorf("expected %#v, got %#v", want, e)
	}
}

func TestParseNestedPast(t *testing.T) {
	e := mustParse(t, "$past($past(a))")
	want := ast.Past{X: ast.Past{X: sig("a")}}
	if !reflect.DeepEqual(e, want) {
		t.Errorf("expected %#v, got %#v", want, e)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"trailing operator", "TOP.a &&"},
		{"unmatched paren", "(a"},
		{"past without parens", "$past a"},
		{"bounds out of order", "a[4:7]"},
		{"select on literal", "4'b0101[1]"},
		{"select on past", "$past(a)[0]"},
		{"zero width literal", "0'd1"},
		{"digit outside base", "4'b0123"},
		{"empty input", ""},
		{"bare number", "5"},
	}
	p, err := New()
	if err != nil {
		t.Fatalf("failed to create parser: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Parse(tt.input); err == nil {
				t.Errorf("expected error for %q", tt.input)
			}
		})
	}
}

func TestSignalPaths(t *testing.T) {
	e := mustParse(t, "TOP.a && TOP.b[3:0] == 4'h7 || $past(TOP.a)")
	got := ast.SignalPaths(e)
	want := []string{"TOP.a", "TOP.b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
