// resolver.go — the static lexical-scope resolver (spec.md §4.2). This pass
// has no analogue in the teacher, which resolves names dynamically through
// its Env chain (no static depths are ever computed); the algorithm here is
// grounded on original_source's Resolver.java instead, re-expressed in the
// teacher's own idiom: explicit error accumulation into a Reporter, no
// exceptions, single pass with no early abort.
package lox

type functionKind int

const (
	fkNone functionKind = iota
	fkFunction
	fkMethod
	fkInitializer
)

type classKind int

const (
	ckNone classKind = iota
	ckClass
	ckSubclass
)

// Resolver walks a statement list once, annotating each Variable/Assign/
// This/Super node in locals with its lexical scope depth and enforcing
// spec.md's static rules (return only in functions, this/super only in
// classes, no self-inheriting classes, no value-returning initializers).
type Resolver struct {
	scopes          []map[string]bool
	locals          map[int]int
	currentFunction functionKind
	currentClass    classKind
	reports         Reporter
}

// NewResolver creates a resolver reporting static errors to rep. Per
// spec.md §9's pinned open question, currentClass starts at NONE (not
// CLASS), so this/super outside a class body are correctly rejected.
func NewResolver(rep Reporter) *Resolver {
	return &Resolver{
		locals:          make(map[int]int),
		currentFunction: fkNone,
		currentClass:    ckNone,
		reports:         rep,
	}
}

// Locals returns the expression-identity -> depth side-table built by
// Resolve, for the interpreter to consult.
func (r *Resolver) Locals() map[int]int { return r.locals }

// Resolve resolves an entire statement list (one source unit).
func (r *Resolver) Resolve(stmts []Stmt) {
	r.resolveStmts(stmts)
}

func (r *Resolver) resolveStmts(stmts []Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, map[string]bool{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.reports.ErrorAtToken(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) resolveLocal(node Expr, name Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[node.id()] = len(r.scopes) - 1 - i
			return
		}
	}
	// not found in any scope: global, not recorded in locals
}

func (r *Resolver) resolveStmt(s Stmt) {
	switch st := s.(type) {
	case *BlockStmt:
		r.beginScope()
		r.resolveStmts(st.Statements)
		r.endScope()
	case *VarStmt:
		r.declare(st.Name)
		if st.Initializer != nil {
			r.resolveExpr(st.Initializer)
		}
		r.define(st.Name)
	case *FunctionStmt:
		r.declare(st.Name)
		r.define(st.Name)
		r.resolveFunction(st, fkFunction)
	case *ExpressionStmt:
		r.resolveExpr(st.Expression)
	case *IfStmt:
		r.resolveExpr(st.Condition)
		r.resolveStmt(st.Then)
		if st.Else != nil {
			r.resolveStmt(st.Else)
		}
	case *PrintStmt:
		r.resolveExpr(st.Expression)
	case *ReturnStmt:
		if r.currentFunction == fkNone {
			r.reports.ErrorAtToken(st.Keyword, "Can't return from top-level code.")
		}
		if st.Value != nil {
			if r.currentFunction == fkInitializer {
				r.reports.ErrorAtToken(st.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(st.Value)
		}
	case *BreakStmt:
		// break-outside-loop is already a parse-time error (spec.md §4.1).
	case *WhileStmt:
		r.resolveExpr(st.Condition)
		r.resolveStmt(st.Body)
	case *ClassStmt:
		r.resolveClass(st)
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveFunction(fn *FunctionStmt, kind functionKind) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

func (r *Resolver) resolveClass(st *ClassStmt) {
	enclosingClass := r.currentClass
	r.currentClass = ckClass

	r.declare(st.Name)
	r.define(st.Name)

	if st.Superclass != nil {
		if st.Superclass.Name.Lexeme == st.Name.Lexeme {
			r.reports.ErrorAtToken(st.Superclass.Name, "A class can't inherit from itself.")
		}
		r.resolveExpr(st.Superclass)
		r.currentClass = ckSubclass

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range st.Methods {
		kind := fkMethod
		if method.Name.Lexeme == "init" {
			kind = fkInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()

	if st.Superclass != nil {
		r.endScope()
	}

	r.currentClass = enclosingClass
}

func (r *Resolver) resolveExpr(e Expr) {
	switch ex := e.(type) {
	case *VariableExpr:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][ex.Name.Lexeme]; ok && !defined {
				r.reports.ErrorAtToken(ex.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(ex, ex.Name)
	case *AssignExpr:
		r.resolveExpr(ex.Value)
		r.resolveLocal(ex, ex.Name)
	case *BinaryExpr:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Right)
	case *LogicalExpr:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Right)
	case *CallExpr:
		r.resolveExpr(ex.Callee)
		for _, a := range ex.Args {
			r.resolveExpr(a)
		}
	case *GetExpr:
		r.resolveExpr(ex.Object)
	case *SetExpr:
		r.resolveExpr(ex.Value)
		r.resolveExpr(ex.Object)
	case *GroupingExpr:
		r.resolveExpr(ex.Inner)
	case *LiteralExpr:
		// nothing to resolve
	case *UnaryExpr:
		r.resolveExpr(ex.Operand)
	case *ThisExpr:
		if r.currentClass == ckNone {
			r.reports.ErrorAtToken(ex.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(ex, ex.Keyword)
	case *SuperExpr:
		if r.currentClass == ckNone {
			r.reports.ErrorAtToken(ex.Keyword, "Can't use 'super' outside of a class.")
		} else if r.currentClass != ckSubclass {
			r.reports.ErrorAtToken(ex.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(ex, ex.Keyword)
	default:
		panic("resolver: unhandled expression type")
	}
}
