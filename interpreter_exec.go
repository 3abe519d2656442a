// interpreter_exec.go — private: statement execution, expression
// evaluation, function calls, property access, and the class-declaration
// bootstrapping protocol (spec.md §4.4). Grounded on the teacher's panic/
// recover error discipline (fail/rtErr in interpreter_ops.go) generalized to
// Lox's two non-local control-flow signals (returnSignal/breakSignal,
// defined in callable.go beside LoxFunction, which is the only place that
// catches a returnSignal).
package lox

import "fmt"

// execute runs a single statement in the interpreter's current environment.
func (in *Interpreter) execute(s Stmt) {
	switch st := s.(type) {
	case *ExpressionStmt:
		in.evaluate(st.Expression)
	case *PrintStmt:
		v := in.evaluate(st.Expression)
		fmt.Fprintln(in.Out, Stringify(v))
	case *VarStmt:
		var v Value = Nil
		if st.Initializer != nil {
			v = in.evaluate(st.Initializer)
		}
		in.env.Define(st.Name.Lexeme, v)
	case *BlockStmt:
		in.executeBlock(st.Statements, NewEnvironment(in.env))
	case *IfStmt:
		if IsTruthy(in.evaluate(st.Condition)) {
			in.execute(st.Then)
		} else if st.Else != nil {
			in.execute(st.Else)
		}
	case *WhileStmt:
		in.executeWhile(st)
	case *BreakStmt:
		panic(breakSignal{})
	case *FunctionStmt:
		fn := &LoxFunction{Declaration: st, Closure: in.env}
		in.env.Define(st.Name.Lexeme, CallableVal(fn))
	case *ReturnStmt:
		var v Value = Nil
		if st.Value != nil {
			v = in.evaluate(st.Value)
		}
		panic(returnSignal{value: v})
	case *ClassStmt:
		in.executeClass(st)
	default:
		panic("interpreter: unhandled statement type")
	}
}

// executeBlock pushes env as the current environment, executes stmts, and
// restores the previous environment on every exit path: normal completion,
// a runtime panic, or a non-local jump (return/break), per spec.md §4.4's
// "Blocks" and the scoped-resource rule in §5.
func (in *Interpreter) executeBlock(stmts []Stmt, env *Environment) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, s := range stmts {
		in.execute(s)
	}
}

// executeWhile runs the loop body until the condition is falsey, catching a
// breakSignal raised by the nearest enclosing loop's body only.
func (in *Interpreter) executeWhile(st *WhileStmt) {
	for IsTruthy(in.evaluate(st.Condition)) {
		if in.runLoopBody(st.Body) {
			return
		}
	}
}

// runLoopBody executes one loop iteration, reporting whether a break
// propagated out of it (true => the enclosing loop should stop).
func (in *Interpreter) runLoopBody(body Stmt) (broke bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(breakSignal); ok {
				broke = true
				return
			}
			panic(r)
		}
	}()
	in.execute(body)
	return false
}

// executeClass implements spec.md §4.4's "Class declaration execution":
// resolve the superclass, two-step-define the class name (nil, then the
// class object) so methods' closures can recursively reference it, push a
// `super` frame if there is a superclass, build the method table, and
// assign the finished class object.
func (in *Interpreter) executeClass(st *ClassStmt) {
	var superclass *LoxClass
	if st.Superclass != nil {
		v := in.evaluate(st.Superclass)
		sc, ok := v.Data.(*LoxClass)
		if v.Tag != ValCallable || !ok {
			throwRuntime(st.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	in.env.Define(st.Name.Lexeme, Nil)

	classEnv := in.env
	if st.Superclass != nil {
		classEnv = NewEnvironment(in.env)
		classEnv.Define("super", CallableVal(superclass))
	}

	methods := make(map[string]*LoxFunction, len(st.Methods))
	for _, m := range st.Methods {
		fn := &LoxFunction{Declaration: m, Closure: classEnv, IsInitializer: m.Name.Lexeme == "init"}
		methods[m.Name.Lexeme] = fn
	}

	class := &LoxClass{Name: st.Name.Lexeme, Superclass: superclass, Methods: methods}
	in.env.Assign(st.Name, CallableVal(class))
}

// evaluate evaluates a single expression in the interpreter's current
// environment, returning its runtime Value.
func (in *Interpreter) evaluate(e Expr) Value {
	switch ex := e.(type) {
	case *LiteralExpr:
		return literalValue(ex.Value)
	case *GroupingExpr:
		return in.evaluate(ex.Inner)
	case *UnaryExpr:
		return in.evalUnary(ex)
	case *BinaryExpr:
		return in.evalBinary(ex)
	case *LogicalExpr:
		return in.evalLogical(ex)
	case *VariableExpr:
		return in.lookUpVariable(ex.Name, ex)
	case *AssignExpr:
		return in.evalAssign(ex)
	case *CallExpr:
		return in.evalCall(ex)
	case *GetExpr:
		return in.evalGet(ex)
	case *SetExpr:
		return in.evalSet(ex)
	case *ThisExpr:
		return in.lookUpVariable(ex.Keyword, ex)
	case *SuperExpr:
		return in.evalSuper(ex)
	default:
		panic("interpreter: unhandled expression type")
	}
}

func literalValue(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Nil
	case bool:
		return BoolVal(t)
	case float64:
		return NumberVal(t)
	case string:
		return StringVal(t)
	default:
		return Nil
	}
}

// lookUpVariable implements spec.md §4.4's "Variable resolution at runtime":
// consult locals; if present, use GetAt at that depth, else look up in
// Globals directly.
func (in *Interpreter) lookUpVariable(name Token, node Expr) Value {
	if dist, ok := in.locals[node.id()]; ok {
		return in.env.GetAt(dist, name.Lexeme)
	}
	return in.Globals.Get(name)
}

func (in *Interpreter) evalAssign(ex *AssignExpr) Value {
	v := in.evaluate(ex.Value)
	if dist, ok := in.locals[ex.id()]; ok {
		in.env.AssignAt(dist, ex.Name.Lexeme, v)
	} else {
		in.Globals.Assign(ex.Name, v)
	}
	return v
}

func (in *Interpreter) evalUnary(ex *UnaryExpr) Value {
	right := in.evaluate(ex.Operand)
	switch ex.Op.Type {
	case MINUS:
		n := checkNumberOperand(ex.Op, right)
		return NumberVal(-n)
	case BANG:
		return BoolVal(!IsTruthy(right))
	}
	panic("interpreter: unhandled unary operator")
}

func (in *Interpreter) evalLogical(ex *LogicalExpr) Value {
	left := in.evaluate(ex.Left)
	if ex.Op.Type == OR {
		if IsTruthy(left) {
			return left
		}
	} else { // AND
		if !IsTruthy(left) {
			return left
		}
	}
	return in.evaluate(ex.Right)
}

// evalBinary implements spec.md §4.4's arithmetic/comparison/equality and
// string-concatenation coercion rules.
func (in *Interpreter) evalBinary(ex *BinaryExpr) Value {
	left := in.evaluate(ex.Left)
	right := in.evaluate(ex.Right)

	switch ex.Op.Type {
	case MINUS:
		l, r := checkNumberOperands(ex.Op, left, right)
		return NumberVal(l - r)
	case SLASH:
		l, r := checkNumberOperands(ex.Op, left, right)
		if r == 0 {
			throwRuntime(ex.Op, "Operands must not be zero.")
		}
		return NumberVal(l / r)
	case STAR:
		l, r := checkNumberOperands(ex.Op, left, right)
		return NumberVal(l * r)
	case PLUS:
		return evalPlus(ex.Op, left, right)
	case GREATER:
		l, r := checkNumberOperands(ex.Op, left, right)
		return BoolVal(l > r)
	case GREATER_EQUAL:
		l, r := checkNumberOperands(ex.Op, left, right)
		return BoolVal(l >= r)
	case LESS:
		l, r := checkNumberOperands(ex.Op, left, right)
		return BoolVal(l < r)
	case LESS_EQUAL:
		l, r := checkNumberOperands(ex.Op, left, right)
		return BoolVal(l <= r)
	case BANG_EQUAL:
		return BoolVal(!ValuesEqual(left, right))
	case EQUAL_EQUAL:
		return BoolVal(ValuesEqual(left, right))
	}
	panic("interpreter: unhandled binary operator")
}

// evalPlus implements the four-way "+" coercion table from spec.md §4.4.
func evalPlus(op Token, left, right Value) Value {
	if left.Tag == ValNumber && right.Tag == ValNumber {
		return NumberVal(left.Data.(float64) + right.Data.(float64))
	}
	if left.Tag == ValString && right.Tag == ValString {
		return StringVal(left.Data.(string) + right.Data.(string))
	}
	if left.Tag == ValString && right.Tag == ValNumber {
		return StringVal(left.Data.(string) + formatNumber(right.Data.(float64)))
	}
	if left.Tag == ValNumber && right.Tag == ValString {
		return StringVal(formatNumber(left.Data.(float64)) + right.Data.(string))
	}
	throwRuntime(op, "Operands must be two numbers or two strings.")
	panic("unreachable")
}

func checkNumberOperand(op Token, v Value) float64 {
	if v.Tag != ValNumber {
		throwRuntime(op, "Operand must be a number.")
	}
	return v.Data.(float64)
}

func checkNumberOperands(op Token, l, r Value) (float64, float64) {
	if l.Tag != ValNumber || r.Tag != ValNumber {
		throwRuntime(op, "Operands must be numbers.")
	}
	return l.Data.(float64), r.Data.(float64)
}

// evalCall implements spec.md §4.4's "Function call": evaluate callee, then
// arguments left-to-right, check callability and arity, then dispatch.
func (in *Interpreter) evalCall(ex *CallExpr) Value {
	callee := in.evaluate(ex.Callee)

	args := make([]Value, len(ex.Args))
	for i, a := range ex.Args {
		args[i] = in.evaluate(a)
	}

	if callee.Tag != ValCallable {
		throwRuntime(ex.Paren, "Can only call functions and classes.")
	}
	fn := callee.Data.(Callable)

	if len(args) != fn.Arity() {
		throwRuntime(ex.Paren, fmt.Sprintf("Expected %d arguments but got %d.", fn.Arity(), len(args)))
	}
	return fn.Call(in, args)
}

func (in *Interpreter) evalGet(ex *GetExpr) Value {
	obj := in.evaluate(ex.Object)
	inst, ok := obj.Data.(*LoxInstance)
	if obj.Tag != ValInstance || !ok {
		throwRuntime(ex.Name, "Only instances have properties.")
	}
	return inst.Get(ex.Name)
}

func (in *Interpreter) evalSet(ex *SetExpr) Value {
	obj := in.evaluate(ex.Object)
	inst, ok := obj.Data.(*LoxInstance)
	if obj.Tag != ValInstance || !ok {
		throwRuntime(ex.Name, "Only instances have fields.")
	}
	v := in.evaluate(ex.Value)
	inst.Set(ex.Name, v)
	return v
}

// evalSuper implements spec.md §4.4's "super.method": fetch `super` at the
// resolved depth, `this` at one shallower, look the method up on the
// superclass chain, and return it bound to `this`.
func (in *Interpreter) evalSuper(ex *SuperExpr) Value {
	dist := in.locals[ex.id()]
	superVal := in.env.GetAt(dist, "super")
	superclass := superVal.Data.(*LoxClass)

	thisVal := in.env.GetAt(dist-1, "this")
	instance := thisVal.Data.(*LoxInstance)

	method, ok := superclass.FindMethod(ex.Method.Lexeme)
	if !ok {
		throwRuntime(ex.Method, "Undefined property '"+ex.Method.Lexeme+"'.")
	}
	return CallableVal(method.Bind(instance))
}
