// Package parser implements a hand-written recursive-descent,
// precedence-climbing (Pratt) parser for minilux. It consumes the
// token stream produced by package lexer and emits a single
// ast.Program; it never touches the filesystem itself — include
// resolution is an evaluator concern (package eval), so an
// IncludeStatement node simply carries the literal path text.
package parser

import (
	"fmt"

	"github.com/minilux/minilux/ast"
	"github.com/minilux/minilux/lexer"
	"github.com/minilux/minilux/token"
)

// Operator precedence levels, low to high.
const (
	LOWEST int = iota
	OR_PRIORITY
	AND_PRIORITY
	EQUALITY_PRIORITY
	RELATIONAL_PRIORITY
	ADDITIVE_PRIORITY
	MUL_PRIORITY
	PREFIX_PRIORITY
	INDEX_PRIORITY
)

var precedences = map[token.Type]int{
	token.OR:       OR_PRIORITY,
	token.LOR:      OR_PRIORITY,
	token.AND:      AND_PRIORITY,
	token.LAND:     AND_PRIORITY,
	token.EQ:       EQUALITY_PRIORITY,
	token.NEQ:      EQUALITY_PRIORITY,
	token.LT:       RELATIONAL_PRIORITY,
	token.GT:       RELATIONAL_PRIORITY,
	token.LTE:      RELATIONAL_PRIORITY,
	token.GTE:      RELATIONAL_PRIORITY,
	token.PLUS:     ADDITIVE_PRIORITY,
	token.MINUS:    ADDITIVE_PRIORITY,
	token.STAR:     MUL_PRIORITY,
	token.SLASH:    MUL_PRIORITY,
	token.PERCENT:  MUL_PRIORITY,
	token.LBRACKET: INDEX_PRIORITY,
}

// socket statement names are plain identifiers lexically; the parser
// recognizes them by literal text, the same way it recognizes any
// builtin call.
var socketStatements = map[string]bool{
	"sockopen":  true,
	"sockwrite": true,
	"sockread":  true,
	"sockclose": true,
}

type unaryParseFn func() ast.Expression
type binaryParseFn func(ast.Expression) ast.Expression

// Parser holds the parsing state: the lexer, a one-token lookahead,
// and the Pratt dispatch tables.
type Parser struct {
	l *lexer.Lexer

	curTok  token.Token
	peekTok token.Token

	unaryFuncs  map[token.Type]unaryParseFn
	binaryFuncs map[token.Type]binaryParseFn

	errors []string
}

// New creates a Parser over the given lexer and primes the two-token
// lookahead.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: []string{}}

	p.unaryFuncs = map[token.Type]unaryParseFn{
		token.INT:      p.parseIntegerLiteral,
		token.STR:      p.parseInterpolableString,
		token.RAWSTR:   p.parseRawString,
		token.VAR:      p.parseIdentifier,
		token.IDENT:    p.parseCallOrIdent,
		token.LBRACKET: p.parseArrayLiteral,
		token.LPAREN:   p.parseGroupedExpression,
		token.BANG:     p.parsePrefixExpression,
		token.MINUS:    p.parsePrefixExpression,
	}

	p.binaryFuncs = map[token.Type]binaryParseFn{
		token.PLUS:     p.parseInfixExpression,
		token.MINUS:    p.parseInfixExpression,
		token.STAR:     p.parseInfixExpression,
		token.SLASH:    p.parseInfixExpression,
		token.PERCENT:  p.parseInfixExpression,
		token.EQ:       p.parseInfixExpression,
		token.NEQ:      p.parseInfixExpression,
		token.LT:       p.parseInfixExpression,
		token.GT:       p.parseInfixExpression,
		token.LTE:      p.parseInfixExpression,
		token.GTE:      p.parseInfixExpression,
		token.LAND:     p.parseInfixExpression,
		token.LOR:      p.parseInfixExpression,
		token.AND:      p.parseInfixExpression,
		token.OR:       p.parseInfixExpression,
		token.LBRACKET: p.parseIndexExpression,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every parse error collected while parsing; a
// non-empty result means the program tree is incomplete or invalid.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, fmt.Sprintf("line %d: %s", p.curTok.Line, fmt.Sprintf(format, args...)))
}

// nextToken advances the lookahead by one token, transparently
// skipping COMMENT tokens — comments are trivia the formatter cares
// about, not the parser.
func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.l.NextToken()
	for p.peekTok.Type == token.COMMENT {
		p.peekTok = p.l.NextToken()
	}
}

func (p *Parser) curIs(t token.Type) bool  { return p.curTok.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekTok.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("expected next token to be %s, got %s (%q)", t, p.peekTok.Type, p.peekTok.Literal)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekTok.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curTok.Type]; ok {
		return pr
	}
	return LOWEST
}

// isTerminator reports whether t ends a statement.
func isTerminator(t token.Type) bool {
	return t == token.NEWLINE || t == token.SEMI || t == token.EOF
}

// skipSeparators consumes zero or more NEWLINE/SEMI tokens, the
// language's optional statement terminators.
func (p *Parser) skipSeparators() {
	for p.curIs(token.NEWLINE) || p.curIs(token.SEMI) {
		p.nextToken()
	}
}

// ParseProgram parses the full token stream into a flat statement
// list. It never stops at the first error: it records each one in
// Errors and keeps going, so one bad statement doesn't hide the rest.
func ParseProgram(l *lexer.Lexer) (*ast.Program, []string) {
	p := New(l)
	prog := &ast.Program{Statements: []ast.Statement{}}

	p.skipSeparators()
	for !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.nextToken()
		p.skipSeparators()
	}
	return prog, p.errors
}

func (p *Parser) parseBlock() []ast.Statement {
	stmts := []ast.Statement{}
	p.nextToken() // consume '{'
	p.skipSeparators()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
		p.skipSeparators()
	}
	if !p.curIs(token.RBRACE) {
		p.errorf("expected '}' to close block, got %s", p.curTok.Type)
	}
	return stmts
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curTok.Type {
	case token.VAR:
		return p.parseAssignmentStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FUNC, token.FUNCTION:
		return p.parseFuncStatement()
	case token.RETURN:
		return &ast.ReturnStatement{Token: p.curTok}
	case token.INCLUDE:
		return p.parseIncludeStatement()
	case token.INC, token.DEC:
		return p.parseIncDecStatement()
	case token.PUSH:
		return p.parsePushStatement()
	case token.POP:
		return p.parsePopStatement()
	case token.SHIFT:
		return p.parseShiftStatement()
	case token.UNSHIFT:
		return p.parseUnshiftStatement()
	case token.IDENT:
		if socketStatements[p.curTok.Literal] {
			return p.parseSocketStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseAssignmentStatement handles "name = expr" and
// "name[index] = expr". Indexed-target validity (the variable must
// already hold an Array) is checked by the evaluator, not the parser.
func (p *Parser) parseAssignmentStatement() ast.Statement {
	tok := p.curTok
	name := &ast.Identifier{Token: p.curTok, Name: p.curTok.Literal}

	var index ast.Expression
	if p.peekIs(token.LBRACKET) {
		p.nextToken() // '['
		p.nextToken() // first token of index expr
		index = p.parseExpression(LOWEST)
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
	}

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)

	return &ast.AssignmentStatement{Token: tok, Name: name, Index: index, Value: value}
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.curTok
	stmt := &ast.IfStatement{Token: tok}

	clause, ok := p.parseIfClause()
	if !ok {
		return nil
	}
	stmt.Clauses = append(stmt.Clauses, clause)

	for p.skipToCascadeKeyword(token.ELSEIF) {
		p.nextToken() // now on ELSEIF
		clause, ok := p.parseIfClause()
		if !ok {
			return nil
		}
		stmt.Clauses = append(stmt.Clauses, clause)
	}

	if p.skipToCascadeKeyword(token.ELSE) {
		p.nextToken() // now on ELSE
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		stmt.Else = p.parseBlock()
	}

	return stmt
}

// skipToCascadeKeyword looks past any NEWLINE/SEMI separators
// following the block this if-cascade just closed, reporting whether
// keyword t (ELSEIF or ELSE) comes next. If it does not, the
// separators consumed here are exactly the ones ParseProgram/
// parseBlock would have skipped anyway before the following
// statement, so nothing is lost by looking ahead eagerly.
func (p *Parser) skipToCascadeKeyword(t token.Type) bool {
	for p.peekIs(token.NEWLINE) || p.peekIs(token.SEMI) {
		p.nextToken()
	}
	return p.peekIs(t)
}

func (p *Parser) parseIfClause() (ast.IfClause, bool) {
	if !p.expectPeek(token.LPAREN) {
		return ast.IfClause{}, false
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return ast.IfClause{}, false
	}
	if !p.expectPeek(token.LBRACE) {
		return ast.IfClause{}, false
	}
	body := p.parseBlock()
	return ast.IfClause{Condition: cond, Body: body}, true
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.curTok
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	return &ast.WhileStatement{Token: tok, Condition: cond, Body: body}
}

func (p *Parser) parseFuncStatement() ast.Statement {
	tok := p.curTok
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curTok.Literal
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	return &ast.FuncStatement{Token: tok, Name: name, Body: body}
}

func (p *Parser) parseIncludeStatement() ast.Statement {
	tok := p.curTok
	if !p.peekIs(token.STR) && !p.peekIs(token.RAWSTR) {
		p.errorf("expected a string literal path after 'include', got %s", p.peekTok.Type)
		return nil
	}
	p.nextToken()
	return &ast.IncludeStatement{Token: tok, Path: p.curTok.Literal}
}

// parseIncDecStatement accepts "inc $x + expr" / "dec $x - expr" as
// canonical and rejects the opposite pairing ("inc $x -", "dec $x +")
// with a diagnostic, per the documented convention.
func (p *Parser) parseIncDecStatement() ast.Statement {
	tok := p.curTok
	dec := tok.Type == token.DEC

	if !p.expectPeek(token.VAR) {
		return nil
	}
	name := &ast.Identifier{Token: p.curTok, Name: p.curTok.Literal}

	wantOp := token.PLUS
	if dec {
		wantOp = token.MINUS
	}
	if !p.expectPeek(wantOp) {
		kw := "inc"
		op := "+"
		if dec {
			kw, op = "dec", "-"
		}
		p.errorf("%s requires '%s' between the variable and its expression", kw, op)
		return nil
	}
	op := p.curTok.Literal

	p.nextToken()
	value := p.parseExpression(LOWEST)
	return &ast.IncDecStatement{Token: tok, Dec: dec, Name: name, Op: op, Value: value}
}

func (p *Parser) parsePushStatement() ast.Statement {
	tok := p.curTok
	if !p.expectPeek(token.VAR) {
		return nil
	}
	arr := &ast.Identifier{Token: p.curTok, Name: p.curTok.Literal}
	if !p.expectPeek(token.COMMA) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	return &ast.PushStatement{Token: tok, Array: arr, Value: value}
}

func (p *Parser) parseUnshiftStatement() ast.Statement {
	tok := p.curTok
	if !p.expectPeek(token.VAR) {
		return nil
	}
	arr := &ast.Identifier{Token: p.curTok, Name: p.curTok.Literal}
	if !p.expectPeek(token.COMMA) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	return &ast.UnshiftStatement{Token: tok, Array: arr, Value: value}
}

func (p *Parser) parsePopStatement() ast.Statement {
	tok := p.curTok
	if !p.expectPeek(token.VAR) {
		return nil
	}
	arr := &ast.Identifier{Token: p.curTok, Name: p.curTok.Literal}
	return &ast.PopStatement{Token: tok, Array: arr}
}

func (p *Parser) parseShiftStatement() ast.Statement {
	tok := p.curTok
	if !p.expectPeek(token.VAR) {
		return nil
	}
	arr := &ast.Identifier{Token: p.curTok, Name: p.curTok.Literal}
	return &ast.ShiftStatement{Token: tok, Array: arr}
}

func (p *Parser) parseSocketStatement() ast.Statement {
	tok := p.curTok
	name := tok.Literal
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	switch name {
	case "sockopen":
		p.nextToken()
		nameExpr := p.parseExpression(LOWEST)
		if !p.expectPeek(token.COMMA) {
			return nil
		}
		p.nextToken()
		host := p.parseExpression(LOWEST)
		if !p.expectPeek(token.COMMA) {
			return nil
		}
		p.nextToken()
		port := p.parseExpression(LOWEST)
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.SockOpenStatement{Token: tok, Name: nameExpr, Host: host, Port: port}

	case "sockwrite":
		p.nextToken()
		nameExpr := p.parseExpression(LOWEST)
		if !p.expectPeek(token.COMMA) {
			return nil
		}
		p.nextToken()
		data := p.parseExpression(LOWEST)
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.SockWriteStatement{Token: tok, Name: nameExpr, Data: data}

	case "sockread":
		p.nextToken()
		nameExpr := p.parseExpression(LOWEST)
		if !p.expectPeek(token.COMMA) {
			return nil
		}
		if !p.expectPeek(token.VAR) {
			return nil
		}
		v := &ast.Identifier{Token: p.curTok, Name: p.curTok.Literal}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.SockReadStatement{Token: tok, Name: nameExpr, Var: v}

	case "sockclose":
		p.nextToken()
		nameExpr := p.parseExpression(LOWEST)
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.SockCloseStatement{Token: tok, Name: nameExpr}
	}

	p.errorf("unknown socket statement %q", name)
	return nil
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.curTok
	expr := p.parseExpression(LOWEST)
	return &ast.ExpressionStatement{Token: tok, Expression: expr}
}

// parseExpression is the Pratt-parsing core: parse a prefix
// expression, then repeatedly fold in infix operators whose
// precedence exceeds the caller's floor.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.unaryFuncs[p.curTok.Type]
	if prefix == nil {
		p.errorf("no prefix parse function for %s (%q)", p.curTok.Type, p.curTok.Literal)
		return nil
	}
	left := prefix()

	for !isTerminator(p.peekTok.Type) && precedence < p.peekPrecedence() {
		infix := p.binaryFuncs[p.peekTok.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.curTok
	var n int64
	for _, c := range tok.Literal {
		n = n*10 + int64(c-'0')
	}
	return &ast.IntegerLiteral{Token: tok, Value: n}
}

func (p *Parser) parseInterpolableString() ast.Expression {
	return &ast.StringLiteral{Token: p.curTok, Value: p.curTok.Literal, Interpolate: true}
}

func (p *Parser) parseRawString() ast.Expression {
	return &ast.StringLiteral{Token: p.curTok, Value: p.curTok.Literal, Interpolate: false}
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curTok, Name: p.curTok.Literal}
}

// parseCallOrIdent parses a plain identifier used as an expression:
// either a zero-argument call ("len" on its own) or a parenthesized
// call ("len($x)"). Both user functions and builtins share this
// grammar; which one it resolves to is decided at evaluation time.
func (p *Parser) parseCallOrIdent() ast.Expression {
	tok := p.curTok
	name := tok.Literal
	call := &ast.CallExpression{Token: tok, Function: name, Arguments: []ast.Expression{}}

	if !p.peekIs(token.LPAREN) {
		return call
	}
	p.nextToken() // '('
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return call
	}
	p.nextToken()
	call.Arguments = append(call.Arguments, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		call.Arguments = append(call.Arguments, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RPAREN) {
		return call
	}
	return call
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.curTok
	arr := &ast.ArrayLiteral{Token: tok, Elements: []ast.Expression{}}

	if p.peekIs(token.RBRACKET) {
		p.nextToken()
		return arr
	}
	p.nextToken()
	arr.Elements = append(arr.Elements, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arr.Elements = append(arr.Elements, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RBRACKET) {
		return arr
	}
	return arr
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curTok
	p.nextToken()
	right := p.parseExpression(PREFIX_PRIORITY)
	return &ast.PrefixExpression{Token: tok, Operator: tok.Literal, Right: right}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	tok := p.curTok
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.InfixExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	tok := p.curTok
	p.nextToken()
	index := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.IndexExpression{Token: tok, Left: left, Index: index}
}
