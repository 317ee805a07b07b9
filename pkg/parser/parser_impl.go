package parser

import (
	"fmt"

	"github.com/sandrolain/nusa/pkg/types"
)

// Parser implements a recursive descent parser over a token slice.
// Binary expressions are parsed by precedence climbing.
type Parser struct {
	tokens []Token
	pos    int // index of the current token
	depth  int // current syntactic nesting
	opts   CompileOptions
}

// NewParser creates a new parser for the given tokens.
func NewParser(tokens []Token, opts ...CompileOption) *Parser {
	return &Parser{
		tokens: tokens,
		opts:   newOptions(opts),
	}
}

// Parse parses every top-level statement and returns the Program.
func (p *Parser) Parse() (*types.Program, error) {
	var stmts []types.Stmt
	for !p.atEnd() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return types.NewProgram(stmts, ""), nil
}

// Binary operator precedence (higher binds tighter).
var precedence = [...]int{
	TokenPlus:  1,
	TokenMinus: 1,
	TokenStar:  2,
	TokenSlash: 2,
}

var binaryOps = [...]types.BinaryOp{
	TokenPlus:  types.OpAdd,
	TokenMinus: types.OpSub,
	TokenStar:  types.OpMul,
	TokenSlash: types.OpDiv,
}

// binaryOp returns the operator and precedence for tt, or ok=false when tt
// is not a binary operator.
func binaryOp(tt TokenType) (op types.BinaryOp, prec int, ok bool) {
	if int(tt) >= len(precedence) || precedence[tt] == 0 {
		return 0, 0, false
	}
	return binaryOps[tt], precedence[tt], true
}

// atEnd reports whether the cursor has run past the last token.
func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

// peek returns the current token; ok is false at the end of input.
func (p *Parser) peek() (Token, bool) {
	if p.atEnd() {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

// check reports whether the current token has type tt.
func (p *Parser) check(tt TokenType) bool {
	t, ok := p.peek()
	return ok && t.Type == tt
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.pos++
}

// accept consumes the current token if it has type tt.
func (p *Parser) accept(tt TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of type tt and returns it, or fails.
func (p *Parser) expect(tt TokenType) (Token, error) {
	t, ok := p.peek()
	if !ok {
		return Token{}, p.errEnd()
	}
	if t.Type != tt {
		return Token{}, p.errUnexpected(t)
	}
	p.advance()
	return t, nil
}

// enter records one more level of nesting and fails past the limit.
func (p *Parser) enter(pos int) error {
	p.depth++
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return types.Errorf(types.ErrNestingTooDeep, pos, "Maximum nesting depth of %d exceeded", p.opts.MaxDepth)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) errUnexpected(t Token) error {
	return types.Errorf(types.ErrUnexpectedToken, t.Position, "Unexpected token: '%s'", t).
		WithToken(t.String())
}

func (p *Parser) errEnd() error {
	pos := -1
	if n := len(p.tokens); n > 0 {
		pos = p.tokens[n-1].Position
	}
	return types.NewError(types.ErrUnexpectedEnd, "Unexpected end of file", pos)
}

// parseStatement parses one statement and its optional ';' terminator.
func (p *Parser) parseStatement() (types.Stmt, error) {
	t, ok := p.peek()
	if !ok {
		return nil, p.errEnd()
	}

	var (
		stmt types.Stmt
		err  error
	)
	switch t.Type {
	case TokenLet:
		stmt, err = p.parseLet()
	case TokenFunc:
		stmt, err = p.parseFuncDef()
	case TokenPrint:
		stmt, err = p.parsePrint()
	default:
		stmt, err = p.parseExprStmt()
	}
	if err != nil {
		return nil, err
	}

	p.accept(TokenSemicolon)
	return stmt, nil
}

// parseLet parses: let NAME = expr
func (p *Parser) parseLet() (types.Stmt, error) {
	start := p.tokens[p.pos].Position
	p.advance()

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEquals); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &types.LetStmt{Name: name.Text, Value: value, Position: start}, nil
}

// parsePrint parses: print expr
func (p *Parser) parsePrint() (types.Stmt, error) {
	start := p.tokens[p.pos].Position
	p.advance()

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &types.PrintStmt{Value: value, Position: start}, nil
}

// parseFuncDef parses: func NAME ( params ) { body }
func (p *Parser) parseFuncDef() (types.Stmt, error) {
	start := p.tokens[p.pos].Position
	p.advance()

	name, err := p.expect(TokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenParenOpen); err != nil {
		return nil, err
	}

	params := []string{}
	for p.check(TokenIdent) {
		params = append(params, p.tokens[p.pos].Text)
		p.advance()
		if !p.accept(TokenComma) {
			break
		}
	}

	if _, err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	open, err := p.expect(TokenBraceOpen)
	if err != nil {
		return nil, err
	}

	if err := p.enter(open.Position); err != nil {
		return nil, err
	}
	body := []types.Stmt{}
	for !p.check(TokenBraceClose) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.leave()

	if _, err := p.expect(TokenBraceClose); err != nil {
		return nil, err
	}

	return &types.FuncDef{
		Name:     name.Text,
		Params:   params,
		Body:     body,
		Position: start,
	}, nil
}

func (p *Parser) parseExprStmt() (types.Stmt, error) {
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &types.ExprStmt{X: x, Position: x.Pos()}, nil
}

// parseExpression parses a full expression.
func (p *Parser) parseExpression() (types.Expr, error) {
	return p.parseBinary(0)
}

// parseBinary parses operands joined by operators of at least minPrec.
// Operators of equal precedence fold left in the loop; a tighter operator is
// absorbed by the recursive call for the right operand.
func (p *Parser) parseBinary(minPrec int) (types.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		t, ok := p.peek()
		if !ok {
			break
		}
		op, prec, isOp := binaryOp(t.Type)
		if !isOp || prec < minPrec {
			break
		}
		p.advance()

		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &types.Binary{
			Op:       op,
			Left:     left,
			Right:    right,
			Position: left.Pos(),
		}
	}

	return left, nil
}

// parsePrimary parses a literal, a name, a call or a parenthesized expression.
func (p *Parser) parsePrimary() (types.Expr, error) {
	t, ok := p.peek()
	if !ok {
		return nil, p.errEnd()
	}

	switch t.Type {
	case TokenNumber:
		p.advance()
		return &types.NumberLit{Value: t.Num, Position: t.Position}, nil
	case TokenString:
		p.advance()
		return &types.StringLit{Value: t.Text, Position: t.Position}, nil
	case TokenIdent:
		p.advance()
		if p.check(TokenParenOpen) {
			return p.parseCall(t)
		}
		return &types.Ident{Name: t.Text, Position: t.Position}, nil
	case TokenParenOpen:
		return p.parseGrouping()
	default:
		return nil, p.errUnexpected(t)
	}
}

// parseCall parses the argument list of a call. The callee name has been
// consumed and the current token is '('.
//
// Arguments are collected until one is not followed by a comma; whatever
// comes next must then be ')'.
func (p *Parser) parseCall(callee Token) (types.Expr, error) {
	open := p.tokens[p.pos]
	p.advance()

	if err := p.enter(open.Position); err != nil {
		return nil, err
	}
	args := []types.Expr{}
	for !p.check(TokenParenClose) {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.accept(TokenComma) {
			break
		}
	}
	p.leave()

	if _, err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	return &types.Call{Callee: callee.Text, Args: args, Position: callee.Position}, nil
}

// parseGrouping parses: ( expr )
func (p *Parser) parseGrouping() (types.Expr, error) {
	open := p.tokens[p.pos]
	p.advance()

	if err := p.enter(open.Position); err != nil {
		return nil, err
	}
	x, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.leave()

	if _, err := p.expect(TokenParenClose); err != nil {
		return nil, err
	}
	return x, nil
}

// String returns a short description of the parser state, for debugging.
func (p *Parser) String() string {
	return fmt.Sprintf("Parser{pos=%d/%d, depth=%d}", p.pos, len(p.tokens), p.depth)
}
