// Package eval walks the program tree the parser builds, mutating a
// single global object.Environment. There is one thread of execution,
// one flat scope, and one function table; "return" unwinds only as
// far as the currently executing function body.
package eval

import (
	"io"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/minilux/minilux/ast"
	"github.com/minilux/minilux/internal/diag"
	"github.com/minilux/minilux/lexer"
	"github.com/minilux/minilux/object"
	"github.com/minilux/minilux/parser"
)

// interpVar matches a "$name" substitution site inside an
// interpolable string.
var interpVar = regexp.MustCompile(`\$[A-Za-z_][A-Za-z0-9_]*`)

// Evaluator is the tree walker. It owns the environment and a stack
// of including-file directories so relative include paths resolve
// against the file that named them, not the process's cwd.
type Evaluator struct {
	Env  *object.Environment
	Diag *diag.Diag

	dirStack []string
}

// New creates an Evaluator rooted at baseDir, the directory relative
// includes in the top-level program resolve against.
func New(env *object.Environment, d *diag.Diag, baseDir string) *Evaluator {
	return &Evaluator{Env: env, Diag: d, dirStack: []string{baseDir}}
}

func (e *Evaluator) currentDir() string {
	return e.dirStack[len(e.dirStack)-1]
}

// Run lexes, parses, and executes source, whose originating path is
// used for include resolution and diagnostics. It returns false if
// the source failed to parse.
func (e *Evaluator) Run(path, source string) bool {
	l := lexer.New(source)
	prog, errs := parser.ParseProgram(l)
	if len(errs) > 0 {
		for _, msg := range errs {
			e.Diag.Errorf(path, 0, "parse error: %s", msg)
		}
		return false
	}
	e.execStatements(prog.Statements, path)
	e.Env.CloseAllSockets()
	return true
}

// execStatements runs stmts in order, stopping early if one of them
// signals a return. At the top level this just ends the program (or
// the included file) early — the documented early-exit behavior for a
// bare top-level "return".
func (e *Evaluator) execStatements(stmts []ast.Statement, path string) bool {
	for _, s := range stmts {
		if e.execStatement(s, path) {
			return true
		}
	}
	return false
}

// execStatement executes one statement, reporting whether it was a
// return.
func (e *Evaluator) execStatement(stmt ast.Statement, path string) bool {
	switch s := stmt.(type) {
	case *ast.ReturnStatement:
		return true

	case *ast.AssignmentStatement:
		e.execAssignment(s, path)
		return false

	case *ast.IfStatement:
		for _, clause := range s.Clauses {
			if object.Truthy(e.eval(clause.Condition, path)) {
				return e.execStatements(clause.Body, path)
			}
		}
		if s.Else != nil {
			return e.execStatements(s.Else, path)
		}
		return false

	case *ast.WhileStatement:
		for object.Truthy(e.eval(s.Condition, path)) {
			if e.execStatements(s.Body, path) {
				return true
			}
		}
		return false

	case *ast.FuncStatement:
		e.Env.DefineFunction(s.Name, s.Body)
		return false

	case *ast.IncludeStatement:
		e.execInclude(s, path)
		return false

	case *ast.IncDecStatement:
		e.execIncDec(s, path)
		return false

	case *ast.PushStatement:
		e.execPush(s, path)
		return false
	case *ast.PopStatement:
		e.execPop(s, path)
		return false
	case *ast.ShiftStatement:
		e.execShift(s, path)
		return false
	case *ast.UnshiftStatement:
		e.execUnshift(s, path)
		return false

	case *ast.SockOpenStatement:
		e.execSockOpen(s, path)
		return false
	case *ast.SockWriteStatement:
		e.execSockWrite(s, path)
		return false
	case *ast.SockReadStatement:
		e.execSockRead(s, path)
		return false
	case *ast.SockCloseStatement:
		e.execSockClose(s, path)
		return false

	case *ast.ExpressionStatement:
		e.eval(s.Expression, path)
		return false

	default:
		return false
	}
}

func (e *Evaluator) execAssignment(s *ast.AssignmentStatement, path string) {
	value := e.eval(s.Value, path)
	if s.Index == nil {
		e.Env.Set(s.Name.Name, value)
		return
	}

	current := e.Env.Get(s.Name.Name)
	arr, ok := current.(*object.Array)
	if !ok {
		e.Diag.Errorf(path, 0, "cannot index-assign %s: %s is not an array", s.Name.Name, current.Kind())
		return
	}
	idx, ok := e.eval(s.Index, path).(*object.Int)
	if !ok {
		e.Diag.Errorf(path, 0, "array index must be an Int")
		return
	}
	i := int(idx.Value)
	if i < 0 || i >= len(arr.Elements) {
		e.Diag.Errorf(path, 0, "array assignment index %d out of range", i)
		return
	}
	arr.Elements[i] = value
}

func (e *Evaluator) execIncDec(s *ast.IncDecStatement, path string) {
	current := e.Env.Get(s.Name.Name)
	delta := e.eval(s.Value, path)
	result := evalInfix(s.Op, current, delta, e.Diag, path)
	e.Env.Set(s.Name.Name, result)
}

func (e *Evaluator) arrayArg(name *ast.Identifier, op, path string) *object.Array {
	v := e.Env.Get(name.Name)
	arr, ok := v.(*object.Array)
	if !ok {
		e.Diag.Errorf(path, 0, "%s: %s is not an array", op, name.Name)
		return nil
	}
	return arr
}

func (e *Evaluator) execPush(s *ast.PushStatement, path string) {
	arr := e.arrayArg(s.Array, "push", path)
	if arr == nil {
		return
	}
	arr.Elements = append(arr.Elements, e.eval(s.Value, path))
}

func (e *Evaluator) execPop(s *ast.PopStatement, path string) {
	arr := e.arrayArg(s.Array, "pop", path)
	if arr == nil || len(arr.Elements) == 0 {
		return
	}
	arr.Elements = arr.Elements[:len(arr.Elements)-1]
}

func (e *Evaluator) execShift(s *ast.ShiftStatement, path string) {
	arr := e.arrayArg(s.Array, "shift", path)
	if arr == nil || len(arr.Elements) == 0 {
		return
	}
	arr.Elements = arr.Elements[1:]
}

func (e *Evaluator) execUnshift(s *ast.UnshiftStatement, path string) {
	arr := e.arrayArg(s.Array, "unshift", path)
	if arr == nil {
		return
	}
	arr.Elements = append([]object.Value{e.eval(s.Value, path)}, arr.Elements...)
}

// execInclude resolves Path relative to the including file's
// directory, parses it, and splices its statements in place —
// re-executed every time the include statement runs, with no cycle
// detection (the program author's responsibility, per the language
// reference).
func (e *Evaluator) execInclude(s *ast.IncludeStatement, path string) {
	full := s.Path
	if !filepath.IsAbs(full) {
		full = filepath.Join(e.currentDir(), s.Path)
	}
	data, err := readFile(full)
	if err != nil {
		e.Diag.Errorf(path, 0, "include %q: %v", s.Path, err)
		return
	}
	l := lexer.New(data)
	prog, errs := parser.ParseProgram(l)
	if len(errs) > 0 {
		for _, msg := range errs {
			e.Diag.Errorf(full, 0, "parse error: %s", msg)
		}
		return
	}
	e.dirStack = append(e.dirStack, filepath.Dir(full))
	e.execStatements(prog.Statements, full)
	e.dirStack = e.dirStack[:len(e.dirStack)-1]
}

func (e *Evaluator) execSockOpen(s *ast.SockOpenStatement, path string) {
	name := e.eval(s.Name, path).String()
	host := e.eval(s.Host, path).String()
	port := e.eval(s.Port, path).String()
	conn, err := net.Dial("tcp", net.JoinHostPort(host, port))
	if err != nil {
		e.Diag.Errorf(path, 0, "sockopen %s: %v", name, err)
		return
	}
	e.Env.OpenSocket(name, conn)
}

func (e *Evaluator) execSockWrite(s *ast.SockWriteStatement, path string) {
	name := e.eval(s.Name, path).String()
	data := e.eval(s.Data, path).String()
	conn, ok := e.Env.Socket(name)
	if !ok {
		e.Diag.Errorf(path, 0, "sockwrite: unknown socket %q", name)
		return
	}
	buf := []byte(data)
	for len(buf) > 0 {
		n, err := conn.Write(buf)
		if err != nil {
			e.Diag.Errorf(path, 0, "sockwrite %s: %v", name, err)
			e.Env.CloseSocket(name)
			return
		}
		buf = buf[n:]
	}
}

func (e *Evaluator) execSockRead(s *ast.SockReadStatement, path string) {
	name := e.eval(s.Name, path).String()
	conn, ok := e.Env.Socket(name)
	if !ok {
		e.Diag.Errorf(path, 0, "sockread: unknown socket %q", name)
		e.Env.Set(s.Var.Name, object.NilValue)
		return
	}
	data, err := io.ReadAll(conn)
	if err != nil && err != io.EOF {
		e.Diag.Errorf(path, 0, "sockread %s: %v", name, err)
	}
	e.Env.Set(s.Var.Name, &object.Str{Value: string(data)})
}

func (e *Evaluator) execSockClose(s *ast.SockCloseStatement, path string) {
	name := e.eval(s.Name, path).String()
	e.Env.CloseSocket(name)
}

// eval evaluates a single expression to a Value.
func (e *Evaluator) eval(expr ast.Expression, path string) object.Value {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		return &object.Int{Value: n.Value}

	case *ast.StringLiteral:
		if !n.Interpolate {
			return &object.Str{Value: n.Value}
		}
		return &object.Str{Value: e.interpolate(n.Value, path)}

	case *ast.ArrayLiteral:
		elems := make([]object.Value, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = e.eval(el, path)
		}
		return &object.Array{Elements: elems}

	case *ast.Identifier:
		return e.Env.Get(n.Name)

	case *ast.IndexExpression:
		return e.evalIndex(n, path)

	case *ast.PrefixExpression:
		return evalPrefix(n.Operator, e.eval(n.Right, path))

	case *ast.InfixExpression:
		return e.evalLogicalOrInfix(n, path)

	case *ast.CallExpression:
		return e.evalCall(n, path)

	default:
		return object.NilValue
	}
}

func (e *Evaluator) evalIndex(n *ast.IndexExpression, path string) object.Value {
	left := e.eval(n.Left, path)
	idxVal := e.eval(n.Index, path)
	idx, ok := idxVal.(*object.Int)
	if !ok || idx.Value < 0 {
		return object.NilValue
	}
	i := int(idx.Value)
	switch v := left.(type) {
	case *object.Str:
		if i >= len(v.Value) {
			return object.NilValue
		}
		return &object.Str{Value: v.Value[i : i+1]}
	case *object.Array:
		if i >= len(v.Elements) {
			return object.NilValue
		}
		return v.Elements[i]
	default:
		return object.NilValue
	}
}

// evalLogicalOrInfix special-cases AND/OR for short-circuit
// evaluation — the right operand must not be evaluated at all when
// the left already decides the result, per the language reference's
// division-by-zero short-circuit scenario.
func (e *Evaluator) evalLogicalOrInfix(n *ast.InfixExpression, path string) object.Value {
	switch n.Operator {
	case "AND", "&&":
		left := e.eval(n.Left, path)
		if !object.Truthy(left) {
			return &object.Int{Value: 0}
		}
		right := e.eval(n.Right, path)
		return boolInt(object.Truthy(right))
	case "OR", "||":
		left := e.eval(n.Left, path)
		if object.Truthy(left) {
			return &object.Int{Value: 1}
		}
		right := e.eval(n.Right, path)
		return boolInt(object.Truthy(right))
	default:
		left := e.eval(n.Left, path)
		right := e.eval(n.Right, path)
		return evalInfix(n.Operator, left, right, e.Diag, path)
	}
}

func boolInt(b bool) *object.Int {
	if b {
		return &object.Int{Value: 1}
	}
	return &object.Int{Value: 0}
}

func evalPrefix(op string, right object.Value) object.Value {
	switch op {
	case "-":
		if i, ok := right.(*object.Int); ok {
			return &object.Int{Value: -i.Value}
		}
		return object.NilValue
	case "!":
		return boolInt(!object.Truthy(right))
	default:
		return object.NilValue
	}
}

// evalInfix implements the arithmetic/comparison coercion matrix.
// Comparisons and equality yield Int(1)/Int(0) — minilux has no
// separate boolean variant, so truth values are small Ints, the same
// convention unary "!" uses.
func evalInfix(op string, left, right object.Value, d *diag.Diag, path string) object.Value {
	li, lIsInt := left.(*object.Int)
	ri, rIsInt := right.(*object.Int)
	ls, lIsStr := left.(*object.Str)
	rs, rIsStr := right.(*object.Str)

	switch op {
	case "+":
		switch {
		case lIsInt && rIsInt:
			return &object.Int{Value: li.Value + ri.Value}
		case lIsStr && rIsStr:
			return &object.Str{Value: ls.Value + rs.Value}
		case lIsStr && rIsInt:
			return &object.Str{Value: ls.Value + ri.String()}
		case lIsInt && rIsStr:
			return &object.Str{Value: li.String() + rs.Value}
		default:
			return object.NilValue
		}

	case "-", "*", "/", "%":
		if !lIsInt || !rIsInt {
			return object.NilValue
		}
		switch op {
		case "-":
			return &object.Int{Value: li.Value - ri.Value}
		case "*":
			return &object.Int{Value: li.Value * ri.Value}
		case "/":
			if ri.Value == 0 {
				d.Errorf(path, 0, "division by zero")
				return object.NilValue
			}
			return &object.Int{Value: li.Value / ri.Value}
		case "%":
			if ri.Value == 0 {
				d.Errorf(path, 0, "modulo by zero")
				return object.NilValue
			}
			return &object.Int{Value: li.Value % ri.Value}
		}

	case "==", "!=":
		equal := valuesEqual(left, right)
		if op == "!=" {
			equal = !equal
		}
		return boolInt(equal)

	case "<", "<=", ">", ">=":
		switch {
		case lIsInt && rIsInt:
			return boolInt(compareOrdered(op, li.Value < ri.Value, li.Value == ri.Value))
		case lIsStr && rIsStr:
			return boolInt(compareOrdered(op, ls.Value < rs.Value, ls.Value == rs.Value))
		default:
			return object.NilValue
		}
	}
	return object.NilValue
}

func compareOrdered(op string, less, equal bool) bool {
	switch op {
	case "<":
		return less
	case "<=":
		return less || equal
	case ">":
		return !less && !equal
	case ">=":
		return !less
	}
	return false
}

// valuesEqual compares two Values of any kind: numerically for Ints,
// lexicographically for Strs, element-wise (recursively) for Arrays.
// Mixed kinds are always unequal; two Nils are equal.
func valuesEqual(left, right object.Value) bool {
	switch l := left.(type) {
	case *object.Int:
		r, ok := right.(*object.Int)
		return ok && l.Value == r.Value
	case *object.Str:
		r, ok := right.(*object.Str)
		return ok && l.Value == r.Value
	case *object.Array:
		r, ok := right.(*object.Array)
		if !ok || len(l.Elements) != len(r.Elements) {
			return false
		}
		for i := range l.Elements {
			if !valuesEqual(l.Elements[i], r.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return object.IsNil(left) && object.IsNil(right)
	}
}

// interpolate substitutes every "$name" occurrence in an interpolable
// string with the textual rendering of that variable, scanning the
// body once — substitutions are never themselves re-scanned.
func (e *Evaluator) interpolate(body, path string) string {
	return interpVar.ReplaceAllStringFunc(body, func(match string) string {
		return e.Env.Get(match).String()
	})
}

// evalCall resolves a call by name: builtin first, then a
// user-defined function, else an unknown-function diagnostic (the
// call still evaluates to Nil, execution continues).
func (e *Evaluator) evalCall(n *ast.CallExpression, path string) object.Value {
	if n.Function == "read" {
		return e.readBuiltin(n, path)
	}

	if b, ok := object.Builtins[n.Function]; ok {
		args := make([]object.Value, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = e.eval(a, path)
		}
		return b.Callback(e.Env, args)
	}

	if body, ok := e.Env.LookupFunction(n.Function); ok {
		for _, a := range n.Arguments {
			e.eval(a, path) // evaluated for side effects only; no parameter binding
		}
		e.execStatements(body, path)
		return object.NilValue
	}

	e.Diag.Errorf(path, 0, "unknown function %q", n.Function)
	return object.NilValue
}

// readFile is a small indirection so tests can stub file access
// without touching the real filesystem.
var readFile = func(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readBuiltin implements the "read" builtin specially: its argument
// is the raw target variable, not a value, so it cannot go through
// the normal Callback(args []Value) signature and is dispatched here
// rather than through object.Builtins.
func (e *Evaluator) readBuiltin(n *ast.CallExpression, path string) object.Value {
	if len(n.Arguments) != 1 {
		e.Diag.Errorf(path, 0, "read expects exactly one variable argument")
		return object.NilValue
	}
	ident, ok := n.Arguments[0].(*ast.Identifier)
	if !ok {
		e.Diag.Errorf(path, 0, "read expects a variable argument")
		return object.NilValue
	}
	line, err := e.Env.Stdin.ReadString('\n')
	line = strings.TrimRight(line, "\r\n")
	if err != nil && err != io.EOF {
		e.Diag.Errorf(path, 0, "read: %v", err)
	}
	e.Env.Set(ident.Name, &object.Str{Value: line})
	return object.NilValue
}
