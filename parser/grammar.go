package parser

// Grammar structs for the participle parser. One struct per precedence
// level, loosest binding first:
//
//	|| < && < | < ^ < & < == != < unary ~ ! < postfix [..]
//
// Parentheses and $past(..) restart the chain at the top level.

import "github.com/alecthomas/participle/v2/lexer"

type orExpr struct {
	Left  *andExpr   `parser:"@@"`
	Right []*andExpr `parser:"('||' @@)*"`
}

type andExpr struct {
	Left  *bitOrExpr   `parser:"@@"`
	Right []*bitOrExpr `parser:"('&&' @@)*"`
}

type bitOrExpr struct {
	Left  *bitXorExpr   `parser:"@@"`
	Right []*bitXorExpr `parser:"('|' @@)*"`
}

type bitXorExpr struct {
	Left  *bitAndExpr   `parser:"@@"`
	Right []*bitAndExpr `parser:"('^' @@)*"`
}

type bitAndExpr struct {
	Left  *eqExpr   `parser:"@@"`
	Right []*eqExpr `parser:"('&' @@)*"`
}

type eqExpr struct {
	Left  *unaryExpr `parser:"@@"`
	Right []*eqTail  `parser:"@@*"`
}

type eqTail struct {
	Op    string     `parser:"@('==' | '!=')"`
	Right *unaryExpr `parser:"@@"`
}

type unaryExpr struct {
	Op      *string      `parser:"( @('~' | '!')"`
	Operand *unaryExpr   `parser:"  @@ )"`
	Postfix *postfixExpr `parser:"| @@"`
}

type postfixExpr struct {
	Primary *primaryExpr  `parser:"@@"`
	Selects []*selectExpr `parser:"@@*"`
}

// selectExpr is a postfix bit select: [index] or [high:low].
type selectExpr struct {
	Pos  lexer.Position
	High uint  `parser:"'[' @Number"`
	Low  *uint `parser:"(':' @Number)? ']'"`
}

type primaryExpr struct {
	Pos    lexer.Position
	Paren  *orExpr `parser:"'(' @@ ')'"`
	Past   *orExpr `parser:"| Past '(' @@ ')'"`
	Bin    *string `parser:"| @BinLit"`
	Dec    *string `parser:"| @DecLit"`
	Hex    *string `parser:"| @HexLit"`
	Signal *string `parser:"| @Ident"`
}
