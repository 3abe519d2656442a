package lox

import "testing"

func tok(name string) Token { return Token{Type: IDENTIFIER, Lexeme: name, Line: 1} }

func TestEnvironmentDefineAndGet(t *testing.T) {
	e := NewEnvironment(nil)
	e.Define("a", NumberVal(1))
	v := e.Get(tok("a"))
	if v.Tag != ValNumber || v.Data.(float64) != 1 {
		t.Fatalf("got %#v, want number 1", v)
	}
}

func TestEnvironmentGetWalksEnclosingChain(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", StringVal("outer"))
	inner := NewEnvironment(outer)
	v := inner.Get(tok("a"))
	if v.Data.(string) != "outer" {
		t.Fatalf("got %#v, want %q", v, "outer")
	}
}

func TestEnvironmentShadowing(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", StringVal("outer"))
	inner := NewEnvironment(outer)
	inner.Define("a", StringVal("inner"))
	if v := inner.Get(tok("a")); v.Data.(string) != "inner" {
		t.Fatalf("got %#v, want %q", v, "inner")
	}
	if v := outer.Get(tok("a")); v.Data.(string) != "outer" {
		t.Fatalf("outer binding must be unaffected, got %#v", v)
	}
}

func TestEnvironmentUndefinedGetIsRuntimeError(t *testing.T) {
	e := NewEnvironment(nil)
	defer func() {
		r := recover()
		if _, ok := r.(loxRuntimeError); !ok {
			t.Fatalf("got panic %#v, want loxRuntimeError", r)
		}
	}()
	e.Get(tok("missing"))
	t.Fatalf("expected a panic")
}

func TestEnvironmentAssignUndefinedIsRuntimeError(t *testing.T) {
	e := NewEnvironment(nil)
	defer func() {
		r := recover()
		if _, ok := r.(loxRuntimeError); !ok {
			t.Fatalf("got panic %#v, want loxRuntimeError", r)
		}
	}()
	e.Assign(tok("missing"), NumberVal(1))
	t.Fatalf("expected a panic")
}

func TestEnvironmentAssignUpdatesNearestEnclosingBinding(t *testing.T) {
	outer := NewEnvironment(nil)
	outer.Define("a", NumberVal(1))
	inner := NewEnvironment(outer)
	inner.Assign(tok("a"), NumberVal(2))
	if v := outer.Get(tok("a")); v.Data.(float64) != 2 {
		t.Fatalf("got %#v, want 2", v)
	}
}

func TestEnvironmentGetAtAndAssignAt(t *testing.T) {
	global := NewEnvironment(nil)
	middle := NewEnvironment(global)
	inner := NewEnvironment(middle)

	global.Define("a", NumberVal(1))
	middle.Define("a", NumberVal(2))
	inner.Define("a", NumberVal(3))

	if v := inner.GetAt(0, "a"); v.Data.(float64) != 3 {
		t.Fatalf("distance 0: got %#v, want 3", v)
	}
	if v := inner.GetAt(1, "a"); v.Data.(float64) != 2 {
		t.Fatalf("distance 1: got %#v, want 2", v)
	}
	if v := inner.GetAt(2, "a"); v.Data.(float64) != 1 {
		t.Fatalf("distance 2: got %#v, want 1", v)
	}

	inner.AssignAt(1, "a", NumberVal(20))
	if v := middle.Get(tok("a")); v.Data.(float64) != 20 {
		t.Fatalf("got %#v, want 20", v)
	}
}
