package parser

import (
	"testing"

	"github.com/minilux/minilux/ast"
	"github.com/minilux/minilux/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src)
	prog, errs := ParseProgram(l)
	require.Empty(t, errs, "unexpected parse errors: %v", errs)
	return prog
}

func TestParseAssignmentPlain(t *testing.T) {
	prog := parse(t, "$x = 1 + 2")
	require.Len(t, prog.Statements, 1)
	stmt := prog.Statements[0].(*ast.AssignmentStatement)
	assert.Equal(t, "$x", stmt.Name.Name)
	assert.Nil(t, stmt.Index)
	infix := stmt.Value.(*ast.InfixExpression)
	assert.Equal(t, "+", infix.Operator)
}

func TestParseAssignmentIndexed(t *testing.T) {
	prog := parse(t, "$arr[0] = 9")
	stmt := prog.Statements[0].(*ast.AssignmentStatement)
	require.NotNil(t, stmt.Index)
	idx := stmt.Index.(*ast.IntegerLiteral)
	assert.EqualValues(t, 0, idx.Value)
}

func TestParseIfElseifElse(t *testing.T) {
	prog := parse(t, `
if ($x == 1) {
	printf("one")
} elseif ($x == 2) {
	printf("two")
} else {
	printf("other")
}`)
	stmt := prog.Statements[0].(*ast.IfStatement)
	require.Len(t, stmt.Clauses, 2)
	require.Len(t, stmt.Else, 1)
}

func TestParseWhileLoop(t *testing.T) {
	prog := parse(t, `
while ($i <= 5) {
	inc $i + 1
}`)
	stmt := prog.Statements[0].(*ast.WhileStatement)
	require.Len(t, stmt.Body, 1)
	inc := stmt.Body[0].(*ast.IncDecStatement)
	assert.False(t, inc.Dec)
	assert.Equal(t, "+", inc.Op)
}

func TestParseIncRejectsWrongOperator(t *testing.T) {
	l := lexer.New("inc $x - 1")
	_, errs := ParseProgram(l)
	assert.NotEmpty(t, errs)
}

func TestParseFuncStatement(t *testing.T) {
	prog := parse(t, `
func show {
	printf($g)
}`)
	stmt := prog.Statements[0].(*ast.FuncStatement)
	assert.Equal(t, "show", stmt.Name)
	require.Len(t, stmt.Body, 1)
}

func TestParseArrayMutators(t *testing.T) {
	prog := parse(t, "push $a, 4\nunshift $a, 0\npop $a\nshift $a")
	require.Len(t, prog.Statements, 4)
	push := prog.Statements[0].(*ast.PushStatement)
	assert.Equal(t, "$a", push.Array.Name)
	unshift := prog.Statements[1].(*ast.UnshiftStatement)
	assert.Equal(t, "$a", unshift.Array.Name)
	_ = prog.Statements[2].(*ast.PopStatement)
	_ = prog.Statements[3].(*ast.ShiftStatement)
}

func TestParseSocketStatements(t *testing.T) {
	prog := parse(t, `
sockopen("s", "localhost", 80)
sockwrite("s", "hi")
sockread("s", $reply)
sockclose("s")`)
	require.Len(t, prog.Statements, 4)
	_ = prog.Statements[0].(*ast.SockOpenStatement)
	_ = prog.Statements[1].(*ast.SockWriteStatement)
	read := prog.Statements[2].(*ast.SockReadStatement)
	assert.Equal(t, "$reply", read.Var.Name)
	_ = prog.Statements[3].(*ast.SockCloseStatement)
}

func TestParseInclude(t *testing.T) {
	prog := parse(t, `include "a.mi"`)
	stmt := prog.Statements[0].(*ast.IncludeStatement)
	assert.Equal(t, "a.mi", stmt.Path)
}

func TestParseCallExpressionArgs(t *testing.T) {
	prog := parse(t, `printf(len($a), " ", $a[0])`)
	stmt := prog.Statements[0].(*ast.ExpressionStatement)
	call := stmt.Expression.(*ast.CallExpression)
	assert.Equal(t, "printf", call.Function)
	require.Len(t, call.Arguments, 3)
	inner := call.Arguments[0].(*ast.CallExpression)
	assert.Equal(t, "len", inner.Function)
}

func TestParseCompoundCondition(t *testing.T) {
	prog := parse(t, `if (($a >= 18) AND ($b == 1)) { printf("ok") }`)
	stmt := prog.Statements[0].(*ast.IfStatement)
	cond := stmt.Clauses[0].Condition.(*ast.InfixExpression)
	assert.Equal(t, "AND", cond.Operator)
}

func TestParsePrecedence(t *testing.T) {
	prog := parse(t, "$x = 1 + 2 * 3")
	stmt := prog.Statements[0].(*ast.AssignmentStatement)
	infix := stmt.Value.(*ast.InfixExpression)
	assert.Equal(t, "+", infix.Operator)
	right := infix.Right.(*ast.InfixExpression)
	assert.Equal(t, "*", right.Operator)
}

func TestParseArrayLiteralAndIndex(t *testing.T) {
	prog := parse(t, "$a = [1, 2, 3]")
	stmt := prog.Statements[0].(*ast.AssignmentStatement)
	arr := stmt.Value.(*ast.ArrayLiteral)
	require.Len(t, arr.Elements, 3)
}

func TestParseUnaryOperators(t *testing.T) {
	prog := parse(t, "$x = !$flag\n$y = -5")
	not := prog.Statements[0].(*ast.AssignmentStatement).Value.(*ast.PrefixExpression)
	assert.Equal(t, "!", not.Operator)
	neg := prog.Statements[1].(*ast.AssignmentStatement).Value.(*ast.PrefixExpression)
	assert.Equal(t, "-", neg.Operator)
}
