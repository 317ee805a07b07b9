package parser

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sandrolain/nusa/pkg/types"
)

const eof = -1

// Lexer converts NusaLang source text into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go" technique.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	strict  bool   // Report strings that hit end of input before the closing quote
	err     error  // First error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string, opts ...CompileOption) *Lexer {
	options := newOptions(opts)
	return &Lexer{
		input:  input,
		length: len(input),
		strict: options.StrictStrings,
	}
}

// Tokenize scans the whole source and returns its tokens in order.
// Scanning stops at the first unrecognized construct.
func Tokenize(source string, opts ...CompileOption) ([]Token, error) {
	l := NewLexer(source, opts...)
	tokens := make([]Token, 0, len(source)/3+1)
	for {
		t, ok := l.Next()
		if !ok {
			break
		}
		tokens = append(tokens, t)
	}
	if l.err != nil {
		return nil, l.err
	}
	return tokens, nil
}

// Next returns the next token from the input.
// It returns false at the end of the input or after an error; Error then
// reports the error, if any.
func (l *Lexer) Next() (Token, bool) {
	l.skipWhitespace()

	ch := l.nextRune()
	if ch == eof {
		return Token{}, false
	}

	if tt := lookupSymbol1(ch); tt > 0 {
		return l.newToken(tt), true
	}

	switch {
	case ch == '"' || ch == '\'':
		return l.scanString(ch)
	case isDigit(ch):
		return l.scanNumber()
	case isIdentStart(ch):
		return l.scanIdent(), true
	case l.invalidUTF8(ch):
		return l.errInvalidUTF8()
	}

	l.err = types.Errorf(types.ErrInvalidCharacter, l.start, "Invalid character: '%c'", ch).
		WithToken(string(ch))
	return Token{}, false
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// scanString reads a string literal. The opening quote has already been consumed.
//
// Reaching the end of input without the closing quote yields the text read so
// far unless strict mode is on. Only a backslash at end of input is always an
// error.
func (l *Lexer) scanString(quote rune) (Token, bool) {
	var sb strings.Builder

Loop:
	for {
		switch r := l.nextRune(); r {
		case quote:
			break Loop
		case '\\':
			r = l.nextRune()
			if r == eof {
				l.err = types.NewError(types.ErrStringNotClosed, "Unterminated string literal", l.start)
				return Token{}, false
			}
			if l.invalidUTF8(r) {
				return l.errInvalidUTF8()
			}
			if dec, ok := escapes[r]; ok {
				r = dec
			}
			sb.WriteRune(r)
		case eof:
			if l.strict {
				l.err = types.NewError(types.ErrStringNotClosed, "Unterminated string literal", l.start)
				return Token{}, false
			}
			break Loop
		default:
			if l.invalidUTF8(r) {
				return l.errInvalidUTF8()
			}
			sb.WriteRune(r)
		}
	}

	t := l.newToken(TokenString)
	t.Text = sb.String()
	return t, true
}

// scanNumber reads a number literal. The first digit has already been consumed.
// Digits and dots are accepted in any order here; float parsing decides
// whether the text is a valid number.
func (l *Lexer) scanNumber() (Token, bool) {
	l.acceptAll(isNumberRune)

	t := l.newToken(TokenNumber)
	text := l.input[t.Position:l.current]
	n, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		l.err = types.Errorf(types.ErrInvalidNumber, t.Position, "Invalid number format: '%s'", text).
			WithToken(text).
			WithCause(err)
		return Token{}, false
	}
	t.Num = n
	return t, true
}

// scanIdent reads an identifier or keyword. The first rune has already been consumed.
func (l *Lexer) scanIdent() Token {
	l.acceptAll(isIdentRune)

	pos := l.start
	text := l.input[pos:l.current]
	if tt := lookupKeyword(text); tt > 0 {
		return l.newToken(tt)
	}
	t := l.newToken(TokenIdent)
	t.Text = text
	return t
}

// Helper methods

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.err != nil || l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

// invalidUTF8 reports whether r, the rune just read, stands for a byte that
// is not valid UTF-8. An encoded U+FFFD is three bytes wide and is accepted.
func (l *Lexer) invalidUTF8(r rune) bool {
	return r == utf8.RuneError && l.width == 1
}

func (l *Lexer) errInvalidUTF8() (Token, bool) {
	pos := l.current - l.width
	l.err = types.Errorf(types.ErrInvalidCharacter, pos, "Invalid character: '\\x%02x'", l.input[pos]).
		WithToken(l.input[pos:l.current])
	return Token{}, false
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

func (l *Lexer) skipWhitespace() {
	l.acceptAll(isWhitespace)
	l.ignore()
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isNumberRune(r rune) bool {
	return isDigit(r) || r == '.'
}

func isIdentStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentRune(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
