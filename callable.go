// callable.go — the callable model (spec.md §3/§4.4): user functions, bound
// methods, class constructors, and natives. Grounded on the teacher's
// Fun/closure/native-registration shape (interpreter.go: Fun{Params, Body,
// Env, NativeName}, RegisterNative) for the "function is a closure plus an
// env" idiom, and on original_source's LoxFunction.java/LoxClass.java/
// LoxInstance.java for the exact bind/superclass-chain/initializer semantics.
package lox

import "fmt"

// Callable is implemented by every value that can appear in call position:
// user functions, bound methods, classes (as constructors), and natives.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []Value) Value
	String() string
}

// LoxFunction is a user-defined function: its declaration, the environment
// captured at definition time (its closure), and whether it is a class
// initializer (which special-cases `return` and the implicit `this` result).
type LoxFunction struct {
	Declaration   *FunctionStmt
	Closure       *Environment
	IsInitializer bool
}

func (f *LoxFunction) Arity() int { return len(f.Declaration.Params) }

func (f *LoxFunction) String() string { return "<fn " + f.Declaration.Name.Lexeme + ">" }

// Bind produces a new LoxFunction whose closure is a fresh frame extending
// the old closure with the single binding this -> instance (spec.md §3).
func (f *LoxFunction) Bind(instance *LoxInstance) *LoxFunction {
	env := NewEnvironment(f.Closure)
	env.Define("this", InstanceVal(instance))
	return &LoxFunction{Declaration: f.Declaration, Closure: env, IsInitializer: f.IsInitializer}
}

// Call executes the function body in a fresh frame extending its closure,
// binding each parameter to the corresponding argument (spec.md §4.4's
// "Function call" steps 5). Normal completion yields nil, except for an
// initializer, which yields `this` resolved at closure depth 0.
func (f *LoxFunction) Call(in *Interpreter, args []Value) (result Value) {
	env := NewEnvironment(f.Closure)
	for i, p := range f.Declaration.Params {
		env.Define(p.Lexeme, args[i])
	}

	defer func() {
		if r := recover(); r != nil {
			if sig, ok := r.(returnSignal); ok {
				if f.IsInitializer {
					result = f.Closure.GetAt(0, "this")
					return
				}
				result = sig.value
				return
			}
			panic(r)
		}
	}()

	in.executeBlock(f.Declaration.Body, env)

	if f.IsInitializer {
		return f.Closure.GetAt(0, "this")
	}
	return Nil
}

// returnSignal is the non-local jump used to implement `return` (spec.md
// §4.4), the direct generalization of the teacher's single `returnSig{v
// Value}` sentinel (interpreter_ops.go) to Lox's two signal kinds.
type returnSignal struct{ value Value }

// breakSignal is the non-local jump used to implement `break`, caught only by
// the nearest enclosing while-loop's execution.
type breakSignal struct{}

// LoxClass is a class object: its name, optional superclass, and method
// table (spec.md §3).
type LoxClass struct {
	Name       string
	Superclass *LoxClass
	Methods    map[string]*LoxFunction
}

func (c *LoxClass) String() string { return c.Name }

// FindMethod looks up name in this class's method table, then recursively in
// its superclass chain (spec.md §4.4's "Property access").
func (c *LoxClass) FindMethod(name string) (*LoxFunction, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// Arity is the arity of `init`, or 0 if the class has no initializer
// (spec.md §4.4's "Function call" step 6).
func (c *LoxClass) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call allocates a new instance and, if the class chain has an init method,
// binds it to the instance and calls it before returning the instance.
func (c *LoxClass) Call(in *Interpreter, args []Value) Value {
	instance := &LoxInstance{Class: c, Fields: make(map[string]Value)}
	if init, ok := c.FindMethod("init"); ok {
		init.Bind(instance).Call(in, args)
	}
	return InstanceVal(instance)
}

// LoxInstance is an instance of a class: its class pointer (fixed at
// construction) and its mutable field map (spec.md §3).
type LoxInstance struct {
	Class  *LoxClass
	Fields map[string]Value
}

// Get implements spec.md §4.4's property access: fields first, then the
// class's (and superclasses') method table, returning a bound method.
func (i *LoxInstance) Get(name Token) Value {
	if v, ok := i.Fields[name.Lexeme]; ok {
		return v
	}
	if m, ok := i.Class.FindMethod(name.Lexeme); ok {
		return CallableVal(m.Bind(i))
	}
	throwRuntime(name, "Undefined property '"+name.Lexeme+"'.")
	panic("unreachable")
}

// Set implements spec.md §4.4's property assignment: always writes the
// field, creating it if absent.
func (i *LoxInstance) Set(name Token, v Value) {
	i.Fields[name.Lexeme] = v
}

// nativeFn wraps a Go function as a Callable, mirroring the teacher's
// native-registration pattern (RegisterNative/NativeImpl) reduced to Lox's
// sole built-in, clock() (spec.md §6).
type nativeFn struct {
	name  string
	arity int
	fn    func(in *Interpreter, args []Value) Value
}

func (n *nativeFn) Arity() int { return n.arity }
func (n *nativeFn) Call(in *Interpreter, args []Value) Value { return n.fn(in, args) }
func (n *nativeFn) String() string { return fmt.Sprintf("<native_fn %s>", n.name) }
