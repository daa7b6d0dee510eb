// Package object defines the runtime value representation, the single
// global environment, and the process-wide function and socket tables
// the evaluator operates on.
package object

import (
	"bufio"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/minilux/minilux/ast"
)

// Kind identifies the runtime tag of a Value.
type Kind string

const (
	IntKind   Kind = "int"
	StrKind   Kind = "str"
	ArrayKind Kind = "array"
	NilKind   Kind = "nil"
)

// Value is the runtime union every expression evaluates to: exactly
// one of Int, Str, Array, or Nil.
type Value interface {
	Kind() Kind
	// String renders the value the way printf, interpolation, and the
	// array-literal rendering of nested values expect to see it.
	String() string
}

// Int is a signed 64-bit integer value.
type Int struct {
	Value int64
}

func (i *Int) Kind() Kind     { return IntKind }
func (i *Int) String() string { return strconv.FormatInt(i.Value, 10) }

// Str is a UTF-8 string value, indexed by byte position.
type Str struct {
	Value string
}

func (s *Str) Kind() Kind     { return StrKind }
func (s *Str) String() string { return s.Value }

// Array is a heterogeneous, zero-based, mutable sequence of Values.
// It is always handled through a pointer so that the four array
// mutator statements (push, pop, shift, unshift) and indexed
// assignment visibly mutate the same value the environment holds.
type Array struct {
	Elements []Value
}

func (a *Array) Kind() Kind { return ArrayKind }

// String renders as "[elem1, elem2, ...]"; this is the convention
// chosen for printf/interpolation rendering of arrays (an open
// question in the language reference).
func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Nil represents "no value": the result of unsupported operations,
// uninitialized reads, and non-matching conversions. There is a
// single shared instance; Nil renders as the empty string in
// printf/interpolation, per the convention documented in DESIGN.md.
type nilValue struct{}

func (n *nilValue) Kind() Kind     { return NilKind }
func (n *nilValue) String() string { return "" }

// NilValue is the one and only Nil instance; compare with ==.
var NilValue Value = &nilValue{}

// IsNil reports whether v is the Nil value.
func IsNil(v Value) bool {
	_, ok := v.(*nilValue)
	return ok
}

// Truthy implements the language's truthiness rule: a nonzero Int, a
// non-empty Str, or a non-empty Array is truthy; Nil and everything
// else (including 0 and "") is falsy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case *Int:
		return val.Value != 0
	case *Str:
		return val.Value != ""
	case *Array:
		return len(val.Elements) > 0
	default:
		return false
	}
}

// Environment is the single process-wide store the evaluator reads
// and writes: one flat map of variable bindings, one function table,
// and one socket table. There are no frames and no shadowing — a
// function body that writes a variable writes the same global
// binding its caller sees.
type Environment struct {
	vars      map[string]Value
	functions map[string][]ast.Statement
	sockets   map[string]net.Conn

	Stdout io.Writer
	Stderr io.Writer
	Stdin  *bufio.Reader
}

// NewEnvironment creates an empty Environment wired to the given
// standard streams.
func NewEnvironment(stdout, stderr io.Writer, stdin io.Reader) *Environment {
	return &Environment{
		vars:      make(map[string]Value),
		functions: make(map[string][]ast.Statement),
		sockets:   make(map[string]net.Conn),
		Stdout:    stdout,
		Stderr:    stderr,
		Stdin:     bufio.NewReader(stdin),
	}
}

// Get looks up a variable by its sigil-prefixed name. An unbound
// variable reads as Nil, not an error.
func (e *Environment) Get(name string) Value {
	if v, ok := e.vars[name]; ok {
		return v
	}
	return NilValue
}

// Set binds or rebinds a variable in the single global scope.
func (e *Environment) Set(name string, v Value) {
	e.vars[name] = v
}

// DefineFunction registers a function body, overwriting any previous
// definition of the same name.
func (e *Environment) DefineFunction(name string, body []ast.Statement) {
	e.functions[name] = body
}

// LookupFunction returns a user-defined function's body.
func (e *Environment) LookupFunction(name string) ([]ast.Statement, bool) {
	body, ok := e.functions[name]
	return body, ok
}

// OpenSocket registers conn under name, closing and replacing any
// connection already registered there.
func (e *Environment) OpenSocket(name string, conn net.Conn) {
	if old, ok := e.sockets[name]; ok {
		old.Close()
	}
	e.sockets[name] = conn
}

// Socket returns the connection registered under name, if any.
func (e *Environment) Socket(name string) (net.Conn, bool) {
	conn, ok := e.sockets[name]
	return conn, ok
}

// CloseSocket closes and deregisters name. Closing an unknown name is
// a no-op, per the socket statement contract.
func (e *Environment) CloseSocket(name string) {
	if conn, ok := e.sockets[name]; ok {
		conn.Close()
		delete(e.sockets, name)
	}
}

// CloseAllSockets closes every open connection; called on evaluator
// shutdown so no OS handle outlives the process.
func (e *Environment) CloseAllSockets() {
	for name, conn := range e.sockets {
		conn.Close()
		delete(e.sockets, name)
	}
}
