// value.go — the runtime Value tagged union (spec.md §3/§4.4), adapted from
// the teacher's Value{Tag, Data} pattern (interpreter.go) and trimmed to
// Lox's six variants: nil, bool, number (float64), string, callable,
// instance. No VTType/VTModule/VTHandle — those back MindScript's type and
// module systems, both explicit spec.md non-goals.
package lox

import "strconv"

// ValueTag discriminates which case of Value is active.
type ValueTag int

const (
	ValNil ValueTag = iota
	ValBool
	ValNumber
	ValString
	ValCallable
	ValInstance
)

// Value is the universal runtime carrier. Data holds the Go value
// appropriate to Tag: bool, float64, string, Callable, or *LoxInstance.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

var Nil = Value{Tag: ValNil}

func BoolVal(b bool) Value     { return Value{Tag: ValBool, Data: b} }
func NumberVal(f float64) Value { return Value{Tag: ValNumber, Data: f} }
func StringVal(s string) Value { return Value{Tag: ValString, Data: s} }
func CallableVal(c Callable) Value { return Value{Tag: ValCallable, Data: c} }
func InstanceVal(i *LoxInstance) Value { return Value{Tag: ValInstance, Data: i} }

// IsTruthy implements spec.md §4.4's truthiness: nil and false are falsey,
// everything else (including 0 and "") is truthy.
func IsTruthy(v Value) bool {
	switch v.Tag {
	case ValNil:
		return false
	case ValBool:
		return v.Data.(bool)
	default:
		return true
	}
}

// ValuesEqual implements spec.md's structural `==`: nil==nil, numbers by
// IEEE equality, strings by content, booleans by value, callables/instances
// by identity; values of differing variants are never equal.
func ValuesEqual(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case ValNil:
		return true
	case ValBool:
		return a.Data.(bool) == b.Data.(bool)
	case ValNumber:
		return a.Data.(float64) == b.Data.(float64)
	case ValString:
		return a.Data.(string) == b.Data.(string)
	case ValCallable:
		return a.Data.(Callable) == b.Data.(Callable)
	case ValInstance:
		return a.Data.(*LoxInstance) == b.Data.(*LoxInstance)
	default:
		return false
	}
}

// Stringify implements spec.md §4.4's stringification rules.
func Stringify(v Value) string {
	switch v.Tag {
	case ValNil:
		return "nil"
	case ValBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case ValNumber:
		return formatNumber(v.Data.(float64))
	case ValString:
		return v.Data.(string)
	case ValCallable:
		return v.Data.(Callable).String()
	case ValInstance:
		return v.Data.(*LoxInstance).Class.Name + " instance"
	default:
		return "<unknown>"
	}
}

// formatNumber renders the shortest decimal for f, stripping a trailing .0
// for whole-valued doubles (spec.md §4.4's stringification rule, reused for
// the string+number coercion case in §4.4's "+").
func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if f == float64(int64(f)) && !containsExp(s) {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}

func containsExp(s string) bool {
	for _, c := range s {
		if c == 'e' || c == 'E' {
			return true
		}
	}
	return false
}
