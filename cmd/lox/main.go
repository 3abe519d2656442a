// Command lox is the CLI driver for the interpreter (spec.md §6): zero
// arguments starts an interactive REPL, one argument runs a script file,
// and more than one argument is a usage error. Grounded on the teacher's
// cmd/msg/main.go for REPL shape (liner-backed line editing with a
// persisted history file, signal handling, ANSI-colored diagnostics).
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/Humbertzhang/lox"
)

const (
	historyFile = ".lox_history"
	prompt      = "> "
)

func red(s string) string { return "\x1b[31m" + s + "\x1b[0m" }

func main() {
	switch len(os.Args) {
	case 1:
		os.Exit(runREPL())
	case 2:
		os.Exit(runFile(os.Args[1]))
	default:
		fmt.Fprintln(os.Stderr, "Usage: lox [script]")
		os.Exit(64)
	}
}

// runFile implements spec.md §6's one-argument mode: read the file, scan,
// parse, resolve, and interpret it once, returning the exit code that
// section mandates (65 on static error, 70 on runtime error, 0 otherwise).
func runFile(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lox: cannot read %s: %v\n", path, err)
		return 1
	}
	text := string(src)

	reports := lox.NewStdReporter()
	stmts, firstErr, ok := parseSource(text, reports)
	if !ok {
		fmt.Fprint(os.Stderr, lox.WrapErrorWithSnippet(firstErr, path, text))
		return 65
	}

	resolver := lox.NewResolver(reports)
	resolver.Resolve(stmts)
	if reports.HadStaticError() {
		return 65
	}

	in := lox.NewInterpreter(reports)
	if rtErr := in.Interpret(stmts, resolver.Locals()); rtErr != nil {
		fmt.Fprint(os.Stderr, lox.WrapErrorWithSnippet(rtErr, path, text))
		return 70
	}
	return 0
}

// parseSource scans and parses src, reporting diagnostics through reports.
// The scanner is given reports directly and reports each lexical error as it
// finds it (lexer.go's Scanner.error), so callers must not re-report scanErrs
// themselves. firstErr is the first scan error encountered, or else the first
// parse error, for a caller that wants to render a richer snippet (as runFile
// does); it is nil whenever ok is true.
func parseSource(src string, reports lox.Reporter) (stmts []lox.Stmt, firstErr error, ok bool) {
	scanner := lox.NewScanner(src, reports)
	tokens, scanErrs := scanner.ScanTokens()
	if reports.HadStaticError() {
		if len(scanErrs) > 0 {
			firstErr = scanErrs[0]
		}
		return nil, firstErr, false
	}

	parser := lox.NewParser(tokens, reports)
	stmts = parser.Parse()
	if !reports.HadStaticError() {
		return stmts, nil, true
	}
	if errs := parser.Errors(); len(errs) > 0 {
		firstErr = errs[0]
	}
	return stmts, firstErr, false
}

// runREPL implements spec.md §6's zero-argument mode: an interactive loop,
// prompt "> ", one line per iteration. The static-error flag is cleared
// between lines; the runtime-error flag is not (its final state becomes
// the process exit code).
func runREPL() int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	reports := lox.NewStdReporter()
	in := lox.NewInterpreter(reports)
	resolver := lox.NewResolver(reports)

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if err != nil {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		reports.ResetStatic()
		stmts, _, ok := parseSource(line, reports)
		if !ok {
			continue
		}

		resolver.Resolve(stmts)
		if reports.HadStaticError() {
			continue
		}

		for _, s := range stmts {
			v, printed, err := in.InterpretREPLStatement(s, resolver.Locals())
			if err != nil {
				fmt.Fprintln(os.Stderr, red(err.Error()))
				break
			}
			if printed {
				fmt.Println(lox.Stringify(v))
			}
		}
	}

	if reports.HadRuntimeError() {
		return 70
	}
	return 0
}
