package parser

import "strconv"

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenInvalid TokenType = iota

	// Keywords
	TokenFunc  // func
	TokenLet   // let
	TokenPrint // print

	// Literals
	TokenIdent  // name
	TokenNumber // 123, 3.14
	TokenString // "hello" or 'hello'

	// Punctuation
	TokenPlus       // +
	TokenMinus      // -
	TokenStar       // *
	TokenSlash      // /
	TokenEquals     // =
	TokenParenOpen  // (
	TokenParenClose // )
	TokenBraceOpen  // {
	TokenBraceClose // }
	TokenComma      // ,
	TokenSemicolon  // ;
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenFunc:
		return "func"
	case TokenLet:
		return "let"
	case TokenPrint:
		return "print"
	case TokenIdent:
		return "(identifier)"
	case TokenNumber:
		return "(number)"
	case TokenString:
		return "(string)"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	case TokenEquals:
		return "="
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenBraceOpen:
		return "{"
	case TokenBraceClose:
		return "}"
	case TokenComma:
		return ","
	case TokenSemicolon:
		return ";"
	default:
		return "(invalid)"
	}
}

// Token represents a lexical token in a NusaLang script.
type Token struct {
	Type     TokenType // Type of the token
	Text     string    // Identifier name or decoded string contents
	Num      float64   // Value of a number literal
	Position int       // Starting byte offset in the source
}

// String renders the token the way diagnostics quote it.
func (t Token) String() string {
	switch t.Type {
	case TokenIdent:
		return t.Text
	case TokenNumber:
		return strconv.FormatFloat(t.Num, 'f', -1, 64)
	case TokenString:
		return strconv.Quote(t.Text)
	default:
		return t.Type.String()
	}
}

// symbols1 maps single-character punctuation to token types.
var symbols1 = [...]TokenType{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'=': TokenEquals,
	'(': TokenParenOpen,
	')': TokenParenClose,
	'{': TokenBraceOpen,
	'}': TokenBraceClose,
	',': TokenComma,
	';': TokenSemicolon,
}

const symbol1Count = rune(len(symbols1))

// lookupSymbol1 returns the token type for a single-character symbol.
// Returns 0 if the rune is not a valid symbol.
func lookupSymbol1(r rune) TokenType {
	if r < 0 || r >= symbol1Count {
		return 0
	}
	return symbols1[r]
}

// lookupKeyword returns the token type for a keyword.
// Returns 0 if the string is not a recognized keyword.
func lookupKeyword(s string) TokenType {
	switch s {
	case "func":
		return TokenFunc
	case "let":
		return TokenLet
	case "print":
		return TokenPrint
	default:
		return 0
	}
}

// escapes maps the rune after a backslash to its decoded value.
// Runes not listed are copied through unchanged.
var escapes = map[rune]rune{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}
