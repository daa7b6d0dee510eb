package lexer

import (
	"testing"

	"github.com/minilux/minilux/token"
	"github.com/stretchr/testify/assert"
)

func collect(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

func TestNextTokenPunctuationAndOperators(t *testing.T) {
	src := `(){}[],; = + - * / % ! == != < > <= >= && ||`
	toks := collect(t, src)

	var types []token.Type
	for _, tok := range toks {
		if tok.Type == token.NEWLINE {
			continue
		}
		types = append(types, tok.Type)
	}

	assert.Equal(t, []token.Type{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACKET, token.RBRACKET, token.COMMA, token.SEMI,
		token.ASSIGN, token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.PERCENT, token.BANG, token.EQ, token.NEQ, token.LT,
		token.GT, token.LTE, token.GTE, token.LAND, token.LOR, token.EOF,
	}, types)
}

func TestNextTokenKeywordsAndIdentifiers(t *testing.T) {
	src := "if elseif else while func function return include inc dec push pop shift unshift AND OR And myFunc _helper"
	toks := collect(t, src)

	want := []struct {
		typ token.Type
		lit string
	}{
		{token.IF, "if"},
		{token.ELSEIF, "elseif"},
		{token.ELSE, "else"},
		{token.WHILE, "while"},
		{token.FUNC, "func"},
		{token.FUNCTION, "function"},
		{token.RETURN, "return"},
		{token.INCLUDE, "include"},
		{token.INC, "inc"},
		{token.DEC, "dec"},
		{token.PUSH, "push"},
		{token.POP, "pop"},
		{token.SHIFT, "shift"},
		{token.UNSHIFT, "unshift"},
		{token.AND, "AND"},
		{token.OR, "OR"},
		{token.IDENT, "And"},
		{token.IDENT, "myFunc"},
		{token.IDENT, "_helper"},
	}
	i := 0
	for _, tok := range toks {
		if tok.Type == token.NEWLINE || tok.Type == token.EOF {
			continue
		}
		assert.Equal(t, want[i].typ, tok.Type)
		assert.Equal(t, want[i].lit, tok.Literal)
		i++
	}
	assert.Equal(t, len(want), i)
}

func TestNextTokenVariablesAndIntegers(t *testing.T) {
	toks := collect(t, "$x $count_2 42 0")
	assert.Equal(t, token.VAR, toks[0].Type)
	assert.Equal(t, "$x", toks[0].Literal)
	assert.Equal(t, token.VAR, toks[1].Type)
	assert.Equal(t, "$count_2", toks[1].Literal)
	assert.Equal(t, token.INT, toks[2].Type)
	assert.Equal(t, "42", toks[2].Literal)
	assert.Equal(t, token.INT, toks[3].Type)
	assert.Equal(t, "0", toks[3].Literal)
}

func TestNextTokenStringEscapesAndQuoteKind(t *testing.T) {
	toks := collect(t, `"hi $x\n" 'raw $x\n'`)
	assert.Equal(t, token.STR, toks[0].Type)
	assert.Equal(t, "hi $x\n", toks[0].Literal)
	assert.Equal(t, token.RAWSTR, toks[1].Type)
	assert.Equal(t, "raw $x\n", toks[1].Literal)
}

func TestNextTokenUnterminatedStringIsIllegal(t *testing.T) {
	toks := collect(t, `"unterminated`)
	assert.Equal(t, token.ILLEGAL, toks[0].Type)
}

func TestNextTokenCommentsAndNewlinesPreserved(t *testing.T) {
	toks := collect(t, "$x = 1 # comment\n$y = 2")
	var sawComment, sawNewline bool
	for _, tok := range toks {
		if tok.Type == token.COMMENT {
			sawComment = true
			assert.Equal(t, "# comment", tok.Literal)
		}
		if tok.Type == token.NEWLINE {
			sawNewline = true
		}
	}
	assert.True(t, sawComment)
	assert.True(t, sawNewline)
}

func TestNextTokenShebangToleratedAsComment(t *testing.T) {
	toks := collect(t, "#!/usr/bin/env minilux\n$x = 1")
	assert.Equal(t, token.COMMENT, toks[0].Type)
	assert.Equal(t, "#!/usr/bin/env minilux", toks[0].Literal)
}

func TestNextTokenLineAndColumnTracking(t *testing.T) {
	toks := collect(t, "$x\n$y")
	assert.Equal(t, 1, toks[0].Line)
	var secondVar token.Token
	for _, tok := range toks {
		if tok.Type == token.VAR && tok.Literal == "$y" {
			secondVar = tok
		}
	}
	assert.Equal(t, 2, secondVar.Line)
}
