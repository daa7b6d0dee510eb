// Package object - builtins.go
// This file defines the builtin value-level operations available to
// minilux programs: printf/print, len/strlen, number, lower/upper,
// shell, and sleep. push/pop/shift/unshift, inc/dec, and the socket
// operations are syntactic statements, not builtins, and live in
// package eval alongside the rest of statement execution.
package object

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// CallbackFunc is the shape of every builtin: given the shared
// Environment (for its standard streams) and already-evaluated
// argument Values, it returns a single result Value.
type CallbackFunc func(env *Environment, args []Value) Value

// Builtin pairs a callable name with its implementation.
type Builtin struct {
	Name     string
	Callback CallbackFunc
}

// Builtins holds every registered builtin, keyed by name for dispatch
// from package eval.
var Builtins = map[string]*Builtin{}

func register(name string, fn CallbackFunc) {
	Builtins[name] = &Builtin{Name: name, Callback: fn}
}

func init() {
	register("printf", printFunc)
	register("print", printFunc)
	register("len", lenFunc)
	register("strlen", lenFunc)
	register("number", numberFunc)
	register("lower", lowerFunc)
	register("upper", upperFunc)
	register("shell", shellFunc)
	register("sleep", sleepFunc)
}

// printFunc concatenates the textual rendering of every argument and
// writes it to stdout, appending a newline unless the concatenated
// text already ends in one. printf and print are the same operation —
// unlike a C-style printf, minilux's takes no format string.
func printFunc(env *Environment, args []Value) Value {
	var b strings.Builder
	for _, a := range args {
		b.WriteString(a.String())
	}
	out := b.String()
	fmt.Fprint(env.Stdout, out)
	if !strings.HasSuffix(out, "\n") {
		fmt.Fprint(env.Stdout, "\n")
	}
	return NilValue
}

// lenFunc reports the byte length of a Str or the element count of an
// Array; anything else (including Nil) yields Nil.
func lenFunc(env *Environment, args []Value) Value {
	if len(args) != 1 {
		return NilValue
	}
	switch v := args[0].(type) {
	case *Str:
		return &Int{Value: int64(len(v.Value))}
	case *Array:
		return &Int{Value: int64(len(v.Elements))}
	default:
		return NilValue
	}
}

// numberFunc parses a Str as a signed decimal integer, returning 0 on
// a malformed input. An Int argument passes through unchanged.
func numberFunc(env *Environment, args []Value) Value {
	if len(args) != 1 {
		return &Int{Value: 0}
	}
	switch v := args[0].(type) {
	case *Int:
		return v
	case *Str:
		n, err := strconv.ParseInt(strings.TrimSpace(v.Value), 10, 64)
		if err != nil {
			return &Int{Value: 0}
		}
		return &Int{Value: n}
	default:
		return &Int{Value: 0}
	}
}

// lowerFunc ASCII-lowercases a Str; non-Str arguments pass through
// unchanged (documented choice: no error, no Nil collapse).
func lowerFunc(env *Environment, args []Value) Value {
	if len(args) != 1 {
		return NilValue
	}
	if s, ok := args[0].(*Str); ok {
		b := []byte(s.Value)
		for i, c := range b {
			if c >= 'A' && c <= 'Z' {
				b[i] = c + ('a' - 'A')
			}
		}
		return &Str{Value: string(b)}
	}
	return args[0]
}

// upperFunc ASCII-uppercases a Str; non-Str arguments pass through
// unchanged.
func upperFunc(env *Environment, args []Value) Value {
	if len(args) != 1 {
		return NilValue
	}
	if s, ok := args[0].(*Str); ok {
		b := []byte(s.Value)
		for i, c := range b {
			if c >= 'a' && c <= 'z' {
				b[i] = c - ('a' - 'A')
			}
		}
		return &Str{Value: string(b)}
	}
	return args[0]
}

// shellFunc runs its argument through the host shell and captures
// standard output, stripping a single trailing newline. Exit status is
// discarded entirely; the subprocess's own stderr is not captured but
// passes straight through to env.Stderr. A command that does its work and
// then exits non-zero — grep with no match, a script ending in "exit
// 1" — still returns its captured stdout. Only a genuine failure to
// start the subprocess diagnoses and returns Nil.
func shellFunc(env *Environment, args []Value) Value {
	if len(args) != 1 {
		return NilValue
	}
	s, ok := args[0].(*Str)
	if !ok {
		return NilValue
	}
	shell, flag := "/bin/sh", "-c"
	if runtime.GOOS == "windows" {
		shell, flag = "cmd", "/C"
	}
	cmd := exec.Command(shell, flag, s.Value)
	cmd.Stderr = env.Stderr
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintf(env.Stderr, "shell: %v\n", err)
		return NilValue
	}
	return &Str{Value: strings.TrimSuffix(string(out), "\n")}
}

// sleepFunc blocks the calling goroutine — the evaluator's only
// thread — for the given number of seconds. Usable as a statement or
// as an expression; either way it evaluates to Nil.
func sleepFunc(env *Environment, args []Value) Value {
	if len(args) != 1 {
		return NilValue
	}
	if n, ok := args[0].(*Int); ok && n.Value > 0 {
		time.Sleep(time.Duration(n.Value) * time.Second)
	}
	return NilValue
}
