package lox

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
)

// --- helpers ---------------------------------------------------------------

// runSource scans, parses, resolves, and interprets src as a complete
// program, returning everything `print` wrote and the reporter, whose
// HadStaticError/HadRuntimeError flags and Out buffer record any scan,
// parse, resolve or runtime diagnostics.
func runSource(t *testing.T, src string) (out string, reports *StdReporter) {
	t.Helper()

	var buf bytes.Buffer
	reports = &StdReporter{Out: &buf}

	scanner := NewScanner(src, reports)
	tokens, _ := scanner.ScanTokens()
	if reports.HadStaticError() {
		return buf.String(), reports
	}

	parser := NewParser(tokens, reports)
	stmts := parser.Parse()
	if reports.HadStaticError() {
		return buf.String(), reports
	}

	resolver := NewResolver(reports)
	resolver.Resolve(stmts)
	if reports.HadStaticError() {
		return buf.String(), reports
	}

	var printed bytes.Buffer
	in := NewInterpreter(reports)
	in.Out = &printed
	_ = in.Interpret(stmts, resolver.Locals())
	return printed.String(), reports
}

func mustRun(t *testing.T, src string) string {
	t.Helper()
	out, reports := runSource(t, src)
	if reports.HadStaticError() {
		t.Fatalf("unexpected static error for:\n%s", src)
	}
	if reports.HadRuntimeError() {
		t.Fatalf("unexpected runtime error for:\n%s\noutput so far:\n%s", src, out)
	}
	return out
}

// --- seed end-to-end scenarios (spec.md §8) --------------------------------

func TestClosureCounter(t *testing.T) {
	src := `
fun makeCounter() {
  var i = 0;
  fun count() {
    i = i + 1;
    print i;
  }
  return count;
}
var counter = makeCounter();
counter();
counter();
counter();
`
	got := mustRun(t, src)
	if got != "1\n2\n3\n" {
		t.Fatalf("got %q, want %q", got, "1\n2\n3\n")
	}
}

func TestLexicalScopeFix(t *testing.T) {
	// The classic "closures over the definition-time binding, not the
	// call-time binding" test: both calls of showA must see the global `a`
	// it resolved to when declared, not the later block-local `a`.
	src := `
var a = "global";
{
  fun showA() {
    print a;
  }
  showA();
  var a = "block";
  showA();
}
`
	got := mustRun(t, src)
	want := "global\nglobal\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSingleInheritanceWithSuper(t *testing.T) {
	src := `
class Doughnut {
  cook() {
    print "Fry until golden brown.";
  }
}

class BostonCream < Doughnut {
  cook() {
    super.cook();
    print "Pipe full of custard and coat with chocolate.";
  }
}

BostonCream().cook();
`
	got := mustRun(t, src)
	want := "Fry until golden brown.\nPipe full of custard and coat with chocolate.\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInitializerReturningEarly(t *testing.T) {
	// An initializer that returns before assigning this.x leaves no field x,
	// so reading it is a runtime error rather than nil.
	src := `
class Thing {
  init(x) {
    if (x < 0) return;
    this.x = x;
  }
}
var t2 = Thing(5);
print t2.x;
var t1 = Thing(-5);
print t1.x;
`
	got, reports := runSource(t, src)
	if reports.HadStaticError() {
		t.Fatalf("unexpected static error for:\n%s", src)
	}
	want := "5\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	diag := reports.Out.(*bytes.Buffer).String()
	if !reports.HadRuntimeError() || !strings.Contains(diag, "Undefined property 'x'.") {
		t.Fatalf("expected runtime error \"Undefined property 'x'.\" reading t1.x, got %q", diag)
	}
}

func TestStaticErrorReturnAtTopLevel(t *testing.T) {
	_, reports := runSource(t, "return 1;")
	if !reports.HadStaticError() {
		t.Fatalf("expected a static error for top-level return")
	}
	if reports.HadRuntimeError() {
		t.Fatalf("top-level return must not reach the interpreter")
	}
}

func TestForLoopDesugaring(t *testing.T) {
	src := `for (var i = 0; i < 3; i = i + 1) print i;`
	got := mustRun(t, src)
	if got != "0\n1\n2\n" {
		t.Fatalf("got %q, want %q", got, "0\n1\n2\n")
	}

	// i must not be visible after the loop: referencing it is a global
	// lookup that fails at runtime (since it was never a global).
	_, reports := runSource(t, src+"\nprint i;")
	if !reports.HadRuntimeError() {
		t.Fatalf("expected a runtime error referencing the loop variable after the loop")
	}
}

// --- boundary cases (spec.md §8) --------------------------------------------

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	for _, src := range []string{"print 1 / 0;", "print 1 / -0.0;"} {
		_, reports := runSource(t, src)
		if !reports.HadRuntimeError() {
			t.Fatalf("expected runtime error for %q", src)
		}
	}
}

func TestPlusCoercion(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`print "a" + 1;`, "a1\n"},
		{`print 1 + "a";`, "1a\n"},
	}
	for _, c := range cases {
		got := mustRun(t, c.src)
		if got != c.want {
			t.Fatalf("%s: got %q, want %q", c.src, got, c.want)
		}
	}
}

func TestPlusOnBoolIsRuntimeError(t *testing.T) {
	_, reports := runSource(t, "print true + 1;")
	if !reports.HadRuntimeError() {
		t.Fatalf("expected runtime error for true + 1")
	}
}

func TestUninitializedVarIsNil(t *testing.T) {
	got := mustRun(t, "var a; print a;")
	if got != "nil\n" {
		t.Fatalf("got %q, want %q", got, "nil\n")
	}
}

func TestParamLimit255Accepted256Rejected(t *testing.T) {
	names := make([]string, 255)
	for i := range names {
		names[i] = "p" + strconv.Itoa(i)
	}
	src := "fun f(" + strings.Join(names, ",") + ") {}\n"
	_, reports := runSource(t, src)
	if reports.HadStaticError() {
		t.Fatalf("255 parameters must be accepted")
	}

	names = append(names, "p255")
	src = "fun f(" + strings.Join(names, ",") + ") {}\n"
	_, reports = runSource(t, src)
	if !reports.HadStaticError() {
		t.Fatalf("256 parameters must be rejected")
	}
}
