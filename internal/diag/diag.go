// Package diag prints colored diagnostics for lex, parse, include, and
// runtime errors, shared by every reporting site so error text always
// carries the same path prefix, followed by the line number when the
// caller supplies one.
package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Diag writes path:line-prefixed diagnostics to an underlying stream
// in red, the way an error deserves to stand out among a program's
// ordinary stdout.
type Diag struct {
	w   io.Writer
	red *color.Color
}

// New wraps w (typically os.Stderr) for colored diagnostic output.
func New(w io.Writer) *Diag {
	return &Diag{w: w, red: color.New(color.FgRed)}
}

// Errorf prints a diagnostic tied to a source position. A line of 0
// omits the line number. The evaluator passes 0 at every call site, so
// its parse, include and runtime diagnostics carry the path only (parse
// error messages name their line in the message text itself).
func (d *Diag) Errorf(path string, line int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if line > 0 {
		d.red.Fprintf(d.w, "%s:%d: %s\n", path, line, msg)
		return
	}
	d.red.Fprintf(d.w, "%s: %s\n", path, msg)
}

// Plain prints a diagnostic with no source position, for host-level
// failures (bad CLI invocation, file-not-found) that never reached
// the lexer.
func (d *Diag) Plain(format string, args ...interface{}) {
	d.red.Fprintf(d.w, format+"\n", args...)
}
