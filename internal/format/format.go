// Package format re-emits minilux source in a canonical textual form:
// 4-space indentation per brace level, single spaces around binary
// operators and after commas, no padding inside parens/brackets,
// lowercase keywords (AND/OR excepted), and comments preserved
// verbatim on the line they were written on. It works directly off
// the lexer's token stream rather than the parsed tree, so malformed
// input that still tokenizes cleanly reformats without caring whether
// it would parse — genuinely invalid input is reported by the caller
// via a parse check before Source is invoked.
package format

import (
	"strconv"
	"strings"

	"github.com/minilux/minilux/lexer"
	"github.com/minilux/minilux/token"
)

// keywordSpelling gives the canonical lowercase (or, for AND/OR,
// uppercase) rendering of each reserved word, independent of the
// source literal — the lexer only recognizes these spellings anyway,
// so this is a formality that also guards against stray case drift.
var keywordSpelling = map[token.Type]string{
	token.IF:       "if",
	token.ELSEIF:   "elseif",
	token.ELSE:     "else",
	token.WHILE:    "while",
	token.FUNC:     "func",
	token.FUNCTION: "function",
	token.RETURN:   "return",
	token.INCLUDE:  "include",
	token.AND:      "AND",
	token.OR:       "OR",
	token.INC:      "inc",
	token.DEC:      "dec",
	token.PUSH:     "push",
	token.POP:      "pop",
	token.SHIFT:    "shift",
	token.UNSHIFT:  "unshift",
}

// exprStart is the set of token types after which a following "-" or
// "!" must be a unary prefix rather than a binary operator.
var exprStart = map[token.Type]bool{
	token.LPAREN:   true,
	token.LBRACKET: true,
	token.COMMA:    true,
	token.ASSIGN:   true,
	token.PLUS:     true,
	token.MINUS:    true,
	token.STAR:     true,
	token.SLASH:    true,
	token.PERCENT:  true,
	token.EQ:       true,
	token.NEQ:      true,
	token.LT:       true,
	token.GT:       true,
	token.LTE:      true,
	token.GTE:      true,
	token.LAND:     true,
	token.LOR:      true,
	token.AND:      true,
	token.OR:       true,
	token.BANG:     true,
	token.IF:       true,
	token.ELSEIF:   true,
	token.WHILE:    true,
	token.RETURN:   true,
}

// Source reads src with the lexer and returns its canonical
// reformatting. An ILLEGAL token (unterminated string, stray byte)
// is reported as an error rather than silently passed through.
func Source(src string) (string, error) {
	toks, err := scan(src)
	if err != nil {
		return "", err
	}

	lines := groupByLine(toks)
	var out strings.Builder
	depth := 0
	blankRun := 0

	for _, line := range lines {
		if len(line) == 0 {
			blankRun++
			if blankRun <= 1 {
				out.WriteByte('\n')
			}
			continue
		}
		blankRun = 0

		indent := depth
		if line[0].Type == token.RBRACE {
			indent--
		}
		if indent < 0 {
			indent = 0
		}
		out.WriteString(strings.Repeat("    ", indent))
		out.WriteString(renderLine(line))
		out.WriteByte('\n')

		for _, t := range line {
			switch t.Type {
			case token.LBRACE:
				depth++
			case token.RBRACE:
				depth--
			}
		}
		if depth < 0 {
			depth = 0
		}
	}

	return out.String(), nil
}

// scan runs the lexer to completion, returning every token including
// NEWLINE and COMMENT but excluding the final EOF.
func scan(src string) ([]token.Token, error) {
	l := lexer.New(src)
	var toks []token.Token
	for {
		t := l.NextToken()
		if t.Type == token.EOF {
			break
		}
		if t.Type == token.ILLEGAL {
			return nil, &ParseError{Line: t.Line, Message: t.Literal}
		}
		toks = append(toks, t)
	}
	return toks, nil
}

// ParseError reports a lex-level failure encountered while scanning
// for formatting.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return "line " + strconv.Itoa(e.Line) + ": " + e.Message
}

// groupByLine buckets non-NEWLINE tokens by source line, producing
// one slice per physical line from 1 to the highest line holding a
// non-NEWLINE token (inclusive), with empty slices standing in for
// blank lines. A NEWLINE token carries the number of the line it
// leads into, so NEWLINE tokens do not extend the range; blank lines
// after the last non-NEWLINE token are dropped.
func groupByLine(toks []token.Token) [][]token.Token {
	maxLine := 1
	for _, t := range toks {
		if t.Type != token.NEWLINE && t.Line > maxLine {
			maxLine = t.Line
		}
	}
	lines := make([][]token.Token, maxLine+1)
	for _, t := range toks {
		if t.Type == token.NEWLINE {
			continue
		}
		lines[t.Line] = append(lines[t.Line], t)
	}
	return lines[1:]
}

// renderLine joins one physical line's tokens with canonical spacing.
func renderLine(line []token.Token) string {
	var b strings.Builder
	var prev token.Token
	prevSet := false
	prevUnary := false

	for _, cur := range line {
		text := renderToken(cur)

		if prevSet && needsSpace(prev, cur, prevUnary) {
			b.WriteByte(' ')
		}
		b.WriteString(text)

		prevUnary = (cur.Type == token.BANG) ||
			(cur.Type == token.MINUS && (!prevSet || exprStart[prev.Type]))
		prev = cur
		prevSet = true
	}
	return b.String()
}

func needsSpace(prev, cur token.Token, prevUnary bool) bool {
	switch cur.Type {
	case token.COMMA, token.SEMI, token.RPAREN, token.RBRACKET:
		return false
	}
	switch prev.Type {
	case token.LPAREN, token.LBRACKET:
		return false
	}
	if cur.Type == token.LPAREN && prev.Type == token.IDENT {
		return false
	}
	if cur.Type == token.LBRACKET {
		switch prev.Type {
		case token.IDENT, token.VAR, token.RBRACKET, token.RPAREN:
			return false
		}
	}
	if prevUnary {
		return false
	}
	return true
}

// renderToken produces the canonical text for a single token: a
// keyword spelling, a re-escaped string literal, or the literal text
// for everything else (comments pass through untouched).
func renderToken(t token.Token) string {
	if spelling, ok := keywordSpelling[t.Type]; ok {
		return spelling
	}
	switch t.Type {
	case token.STR:
		return quote(t.Literal, '"')
	case token.RAWSTR:
		return quote(t.Literal, '\'')
	default:
		return t.Literal
	}
}

// quote re-escapes a literal's already-unescaped body for emission
// inside the given quote character, since the lexer discards the
// original escape spelling when it reads a string.
func quote(s string, q byte) string {
	var b strings.Builder
	b.WriteByte(q)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case q:
			b.WriteByte('\\')
			b.WriteByte(q)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}
