// Package ast defines the program tree the parser builds and the
// evaluator walks. Every node is either a Statement or an Expression;
// there are no block-scoped declarations — the tree mirrors the
// language's single flat global environment.
package ast

import (
	"strconv"
	"strings"

	"github.com/minilux/minilux/token"
)

// Node is the base of every AST node: it can render itself back to
// source-like text, mostly useful for diagnostics and tests.
type Node interface {
	String() string
}

// Statement is a top-level or block-level executable unit.
type Statement interface {
	Node
	statementNode()
}

// Expression is anything that evaluates to a single Value.
type Expression interface {
	Node
	expressionNode()
}

// Program is the root of the tree: a flat sequence of statements,
// exactly as produced by parsing one file (or spliced in by include).
type Program struct {
	Statements []Statement
}

func (p *Program) String() string {
	var b strings.Builder
	for _, s := range p.Statements {
		b.WriteString(s.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Identifier is a $-prefixed variable reference, used both as an
// expression (a read) and embedded in statements that name a target
// variable (assignment, inc/dec, array mutators, sockread).
type Identifier struct {
	Token token.Token // token.VAR
	Name  string      // includes the leading '$'
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) String() string  { return i.Name }

// IntegerLiteral is an unsigned-lexed integer literal; the parser
// attaches a unary minus via PrefixExpression when one appears.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode() {}
func (il *IntegerLiteral) String() string  { return strconv.FormatInt(il.Value, 10) }

// StringLiteral is a string literal. Interpolate is true for
// double-quoted literals (where "$name" substitutions apply at
// evaluation time) and false for single-quoted ones.
type StringLiteral struct {
	Token       token.Token
	Value       string
	Interpolate bool
}

func (sl *StringLiteral) expressionNode() {}
func (sl *StringLiteral) String() string {
	if sl.Interpolate {
		return `"` + sl.Value + `"`
	}
	return `'` + sl.Value + `'`
}

// ArrayLiteral is a bracketed, comma-separated list of expressions.
type ArrayLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode() {}
func (al *ArrayLiteral) String() string {
	parts := make([]string, len(al.Elements))
	for i, e := range al.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// IndexExpression is s[i] or arr[i].
type IndexExpression struct {
	Token token.Token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode() {}
func (ie *IndexExpression) String() string {
	return ie.Left.String() + "[" + ie.Index.String() + "]"
}

// PrefixExpression is a unary "!" or "-".
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode() {}
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

// InfixExpression is any binary operator: arithmetic, comparison,
// or logical (including the AND/OR keyword spellings).
type InfixExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode() {}
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// CallExpression is a builtin or user-function invocation used as an
// expression (e.g. inside a binary operator or as an assignment RHS).
type CallExpression struct {
	Token     token.Token
	Function  string
	Arguments []Expression
}

func (ce *CallExpression) expressionNode() {}
func (ce *CallExpression) String() string {
	parts := make([]string, len(ce.Arguments))
	for i, a := range ce.Arguments {
		parts[i] = a.String()
	}
	return ce.Function + "(" + strings.Join(parts, ", ") + ")"
}

// AssignmentStatement is "name = expr" or "name[index] = expr".
type AssignmentStatement struct {
	Token token.Token
	Name  *Identifier
	Index Expression // nil for a non-indexed assignment
	Value Expression
}

func (as *AssignmentStatement) statementNode() {}
func (as *AssignmentStatement) String() string {
	if as.Index != nil {
		return as.Name.String() + "[" + as.Index.String() + "] = " + as.Value.String()
	}
	return as.Name.String() + " = " + as.Value.String()
}

// ExpressionStatement wraps a bare expression used as a statement
// (a bare call, with or without parentheses).
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (es *ExpressionStatement) statementNode() {}
func (es *ExpressionStatement) String() string { return es.Expression.String() }

// IfClause is one guarded branch of an if/elseif/else cascade.
type IfClause struct {
	Condition Expression
	Body      []Statement
}

// IfStatement is the full if/elseif*/else? cascade; at most one
// clause body (or the else body) executes.
type IfStatement struct {
	Token   token.Token
	Clauses []IfClause // the "if" clause, then zero or more "elseif" clauses
	Else    []Statement
}

func (is *IfStatement) statementNode() {}
func (is *IfStatement) String() string {
	var b strings.Builder
	for i, c := range is.Clauses {
		if i == 0 {
			b.WriteString("if (")
		} else {
			b.WriteString("elseif (")
		}
		b.WriteString(c.Condition.String())
		b.WriteString(") { ... }")
	}
	if is.Else != nil {
		b.WriteString(" else { ... }")
	}
	return b.String()
}

// WhileStatement loops its Body while Condition is truthy.
type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      []Statement
}

func (ws *WhileStatement) statementNode() {}
func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") { ... }"
}

// FuncStatement registers a callable function body in the global
// function table; the "func" and "function" keywords are equivalent
// spellings of this same statement.
type FuncStatement struct {
	Token token.Token
	Name  string
	Body  []Statement
}

func (fs *FuncStatement) statementNode() {}
func (fs *FuncStatement) String() string { return "func " + fs.Name + " { ... }" }

// ReturnStatement ends the currently executing function body. It
// never carries a value — functions communicate results through the
// shared global environment by convention (see object.Environment).
type ReturnStatement struct {
	Token token.Token
}

func (rs *ReturnStatement) statementNode() {}
func (rs *ReturnStatement) String() string { return "return" }

// IncludeStatement splices another file's top-level statements into
// the current program at the point of the statement.
type IncludeStatement struct {
	Token token.Token
	Path  string
}

func (inc *IncludeStatement) statementNode() {}
func (inc *IncludeStatement) String() string { return "include " + strconv.Quote(inc.Path) }

// IncDecStatement is "inc $x + expr" or "dec $x - expr", equivalent
// to "$x = $x + expr" / "$x = $x - expr". Op is literally "+" or "-";
// the parser rejects the opposite pairing (inc with "-", dec with "+").
type IncDecStatement struct {
	Token token.Token
	Dec   bool // false for inc, true for dec
	Name  *Identifier
	Op    string
	Value Expression
}

func (ids *IncDecStatement) statementNode() {}
func (ids *IncDecStatement) String() string {
	kw := "inc"
	if ids.Dec {
		kw = "dec"
	}
	return kw + " " + ids.Name.String() + " " + ids.Op + " " + ids.Value.String()
}

// PushStatement appends Value to the array in Array.
type PushStatement struct {
	Token token.Token
	Array *Identifier
	Value Expression
}

func (ps *PushStatement) statementNode() {}
func (ps *PushStatement) String() string { return "push " + ps.Array.String() + ", " + ps.Value.String() }

// PopStatement removes the last element of the array in Array.
type PopStatement struct {
	Token token.Token
	Array *Identifier
}

func (ps *PopStatement) statementNode() {}
func (ps *PopStatement) String() string { return "pop " + ps.Array.String() }

// ShiftStatement removes the first element of the array in Array.
type ShiftStatement struct {
	Token token.Token
	Array *Identifier
}

func (ss *ShiftStatement) statementNode() {}
func (ss *ShiftStatement) String() string { return "shift " + ss.Array.String() }

// UnshiftStatement prepends Value to the array in Array.
type UnshiftStatement struct {
	Token token.Token
	Array *Identifier
	Value Expression
}

func (us *UnshiftStatement) statementNode() {}
func (us *UnshiftStatement) String() string {
	return "unshift " + us.Array.String() + ", " + us.Value.String()
}

// SockOpenStatement opens (or replaces) a named TCP connection.
type SockOpenStatement struct {
	Token token.Token
	Name  Expression
	Host  Expression
	Port  Expression
}

func (s *SockOpenStatement) statementNode() {}
func (s *SockOpenStatement) String() string {
	return "sockopen(" + s.Name.String() + ", " + s.Host.String() + ", " + s.Port.String() + ")"
}

// SockWriteStatement writes Data to the named connection.
type SockWriteStatement struct {
	Token token.Token
	Name  Expression
	Data  Expression
}

func (s *SockWriteStatement) statementNode() {}
func (s *SockWriteStatement) String() string {
	return "sockwrite(" + s.Name.String() + ", " + s.Data.String() + ")"
}

// SockReadStatement reads from the named connection into Var.
type SockReadStatement struct {
	Token token.Token
	Name  Expression
	Var   *Identifier
}

func (s *SockReadStatement) statementNode() {}
func (s *SockReadStatement) String() string {
	return "sockread(" + s.Name.String() + ", " + s.Var.String() + ")"
}

// SockCloseStatement closes and deregisters the named connection.
type SockCloseStatement struct {
	Token token.Token
	Name  Expression
}

func (s *SockCloseStatement) statementNode() {}
func (s *SockCloseStatement) String() string { return "sockclose(" + s.Name.String() + ")" }
