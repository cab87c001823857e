package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// conditionLexer tokenizes condition strings. Multi-character operators are
// listed before their single-character prefixes so they match greedily, and
// sized literals before Number so a literal's width digits are not consumed
// on their own. Sized literals only admit digits valid in their base: a
// missing base letter fails here at the quote, while a digit outside the
// base ends the literal early and is rejected by the parser as a trailing
// token.
var conditionLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Past", Pattern: `\$past\b`},
	{Name: "BinLit", Pattern: `[0-9]+'[bB][01_]+`},
	{Name: "DecLit", Pattern: `[0-9]+'[dD][0-9_]+`},
	{Name: "HexLit", Pattern: `[0-9]+'[hH][0-9a-fA-F_]+`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*(?:\.[a-zA-Z_][a-zA-Z0-9_]*)*`},
	{Name: "OrOr", Pattern: `\|\|`},
	{Name: "AndAnd", Pattern: `&&`},
	{Name: "Eq", Pattern: `==`},
	{Name: "Neq", Pattern: `!=`},
	{Name: "Pipe", Pattern: `\|`},
	{Name: "Caret", Pattern: `\^`},
	{Name: "Amp", Pattern: `&`},
	{Name: "Tilde", Pattern: `~`},
	{Name: "Bang", Pattern: `!`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "LBracket", Pattern: `\[`},
	{Name: "RBracket", Pattern: `\]`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Comma", Pattern: `,`},
})

// Tokenize runs the condition lexer over input and returns the raw token
// stream, whitespace included. It fails on the first unrecognized or
// malformed token, reporting its position.
func Tokenize(input string) ([]lexer.Token, error) {
	lx, err := conditionLexer.Lex("", strings.NewReader(input))
	if err != nil {
		return nil, err
	}
	return lexer.ConsumeAll(lx)
}
