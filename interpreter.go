// interpreter.go — public entry points for the Lox interpreter core,
// mirroring the teacher's file split: interpreter.go carries only the
// public surface (types + thin methods); the actual tree-walking engine
// lives in interpreter_exec.go.
package lox

import (
	"io"
	"os"
	"time"
)

// Interpreter walks a resolved statement list, applying spec.md §4.4's
// evaluation rules. A single Interpreter owns one global environment and one
// locals side-table for the lifetime of a source unit (spec.md §5).
type Interpreter struct {
	Globals *Environment
	Out     io.Writer // destination for `print`; os.Stdout by default
	env     *Environment // current environment during execution
	locals  map[int]int  // expression-identity -> scope depth, from the resolver
	reports Reporter
}

// NewInterpreter constructs an interpreter with the global environment
// populated by the single built-in, clock() (spec.md §6).
func NewInterpreter(rep Reporter) *Interpreter {
	globals := NewEnvironment(nil)
	in := &Interpreter{Globals: globals, env: globals, reports: rep, Out: os.Stdout}
	globals.Define("clock", CallableVal(&nativeFn{
		name:  "clock",
		arity: 0,
		fn: func(_ *Interpreter, _ []Value) Value {
			return NumberVal(float64(time.Now().UnixNano()) / 1e9)
		},
	}))
	return in
}

// Interpret runs a fully-resolved statement list against locals (the
// resolver's side-table). A runtime error aborts the remaining statements in
// this call but does not terminate the process; it is reported via the
// Reporter and also returned as a *RuntimeError.
func (in *Interpreter) Interpret(stmts []Stmt, locals map[int]int) (err error) {
	in.locals = locals

	defer func() {
		if r := recover(); r != nil {
			if rt, ok := r.(loxRuntimeError); ok {
				in.reports.RuntimeError(rt.tok, rt.msg)
				err = &RuntimeError{Token: rt.tok, Msg: rt.msg}
				return
			}
			panic(r)
		}
	}()

	for _, s := range stmts {
		in.execute(s)
	}
	return nil
}

// InterpretREPLStatement runs a single REPL-mode statement in the global
// environment and, if it is a bare expression statement, returns the
// expression's value for the REPL to print (spec.md §6's REPL semantics).
func (in *Interpreter) InterpretREPLStatement(s Stmt, locals map[int]int) (v Value, printed bool, err error) {
	in.locals = locals

	defer func() {
		if r := recover(); r != nil {
			if rt, ok := r.(loxRuntimeError); ok {
				in.reports.RuntimeError(rt.tok, rt.msg)
				err = &RuntimeError{Token: rt.tok, Msg: rt.msg}
				return
			}
			panic(r)
		}
	}()

	if es, ok := s.(*ExpressionStmt); ok {
		return in.evaluate(es.Expression), true, nil
	}
	in.execute(s)
	return Nil, false, nil
}
