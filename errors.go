// errors.go: the diagnostic sink (spec.md §6) and source-snippet error
// rendering, adapted from the teacher's errors.go (WrapErrorWithName /
// prettyErrorStringLabeled) for Lox's three error kinds.
package lox

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Reporter is the diagnostic sink consumed by the scanner, parser, resolver,
// and interpreter (spec.md §6). It tracks whether a static or runtime error
// has occurred so the CLI can choose the right exit code.
type Reporter interface {
	Error(line int, message string)
	ErrorAtToken(tok Token, message string)
	RuntimeError(tok Token, message string)
	HadStaticError() bool
	HadRuntimeError() bool
	ResetStatic()
}

// StdReporter writes formatted diagnostics to an io.Writer (os.Stderr by
// default) and tracks the two sticky flags spec.md's diagnostic sink requires.
type StdReporter struct {
	Out          io.Writer
	hadStatic    bool
	hadRuntime   bool
}

// NewStdReporter returns a Reporter writing to os.Stderr.
func NewStdReporter() *StdReporter { return &StdReporter{Out: os.Stderr} }

func (r *StdReporter) Error(line int, message string) {
	r.report(line, "", message)
}

func (r *StdReporter) ErrorAtToken(tok Token, message string) {
	if tok.Type == EOF {
		r.report(tok.Line, " at end", message)
	} else {
		r.report(tok.Line, " at '"+tok.Lexeme+"'", message)
	}
}

func (r *StdReporter) report(line int, where, message string) {
	fmt.Fprintf(r.Out, "[line %d] Error%s: %s\n", line, where, message)
	r.hadStatic = true
}

func (r *StdReporter) RuntimeError(tok Token, message string) {
	fmt.Fprintf(r.Out, "%s\n[line %d]\n", message, tok.Line)
	r.hadRuntime = true
}

func (r *StdReporter) HadStaticError() bool  { return r.hadStatic }
func (r *StdReporter) HadRuntimeError() bool { return r.hadRuntime }
func (r *StdReporter) ResetStatic()          { r.hadStatic = false }

// ParseError is a syntax error recorded by the parser (see Parser.Errors),
// also reported against a token per spec.md §7 ("[line N] Error at
// '<lexeme>'" or "at end"). The resolver does not build ParseErrors; it
// reports static errors through the Reporter only.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string { return e.Msg }

// RuntimeError aborts the current source unit's execution (spec.md §7).
// Interpreter code signals it by panicking a loxRuntimeError (see
// interpreter_exec.go); Interpret and InterpretREPLStatement recover that
// panic and return a *RuntimeError. The exported Environment.Get/Assign and
// LoxInstance.Get panic with a loxRuntimeError when called directly.
type RuntimeError struct {
	Token Token
	Msg   string
}

func (e *RuntimeError) Error() string { return e.Msg }

// loxRuntimeError is the panic payload used internally to unwind to the
// statement-execution boundary, mirroring the teacher's `rtErr`/`fail`
// discipline (interpreter_ops.go).
type loxRuntimeError struct {
	tok Token
	msg string
}

func throwRuntime(tok Token, msg string) {
	panic(loxRuntimeError{tok: tok, msg: msg})
}

// WrapErrorWithSnippet renders err as a multi-line snippet against src (a
// header line, then the offending line with up to one numbered line of
// context before and after; no column caret), the way the teacher's WrapErrorWithName does for LexError /
// ParseError / RuntimeError. Any other error is returned unchanged.
func WrapErrorWithSnippet(err error, srcName, src string) error {
	switch e := err.(type) {
	case *ScanError:
		return fmt.Errorf("%s", prettySnippet(src, "LEXICAL ERROR", srcName, e.Line, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettySnippet(src, "PARSE ERROR", srcName, e.Line, e.Msg))
	case *RuntimeError:
		return fmt.Errorf("%s", prettySnippet(src, "RUNTIME ERROR", srcName, e.Token.Line, e.Msg))
	default:
		return err
	}
}

func prettySnippet(src, header, name string, line int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at line %d: %s\n\n", header, name, line, msg)
	} else {
		fmt.Fprintf(&b, "%s at line %d: %s\n\n", header, line, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
