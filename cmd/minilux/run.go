package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/minilux/minilux/eval"
	"github.com/minilux/minilux/internal/diag"
	"github.com/minilux/minilux/object"
)

// runFile reads, lexes, parses, and executes the program at path. A
// parse failure or a fatal runtime panic is diagnosed and reported as
// a nonzero exit; ordinary runtime errors (division by zero, unknown
// function, bad socket) are diagnosed but do not stop execution,
// matching the language's continue-on-error model.
func runFile(path string) (err error) {
	src, readErr := os.ReadFile(path)
	if readErr != nil {
		fmt.Fprintf(os.Stderr, "minilux: %v\n", readErr)
		return readErr
	}

	d := diag.New(os.Stderr)
	env := object.NewEnvironment(os.Stdout, os.Stderr, os.Stdin)
	e := eval.New(env, d, filepath.Dir(path))

	defer func() {
		if r := recover(); r != nil {
			d.Plain("%s: panic: %v", path, r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	if !e.Run(path, string(src)) {
		return fmt.Errorf("%s: parse failed", path)
	}
	return nil
}
