package object

import (
	"fmt"
	"reflect"
)

// Value is any guest-language value the object model stores, binds, or returns.
type Value interface {
	TypeName() string
}

// Callable is the capability of being invoked with positional arguments.
type Callable interface {
	Value
	Call(args []Value) (Value, error)
	Doc() string
}

// Equatable lets a value define guest-language equality.
// Values that do not implement it compare by Go identity.
type Equatable interface {
	EqualValue(other Value) bool
}

// ValuesEqual compares two values with guest-language semantics, falling back
// to Go interface identity when neither side defines its own equality.
func ValuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if eq, ok := a.(Equatable); ok {
		return eq.EqualValue(b)
	}
	if eq, ok := b.(Equatable); ok {
		return eq.EqualValue(a)
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}

type NilValue struct{}

func (NilValue) TypeName() string { return "NoneType" }

func (NilValue) EqualValue(other Value) bool {
	_, ok := other.(NilValue)
	return ok
}

// Nil is the guest-language null value.
var Nil = NilValue{}

type StrValue string

func (StrValue) TypeName() string { return "str" }

func (s StrValue) EqualValue(other Value) bool {
	o, ok := other.(StrValue)
	return ok && o == s
}

type IntValue int64

func (IntValue) TypeName() string { return "int" }

func (i IntValue) EqualValue(other Value) bool {
	o, ok := other.(IntValue)
	return ok && o == i
}

// FuncValue wraps a host Go function as a guest callable.
type FuncValue struct {
	Name      string
	DocString string
	Fn        func(args []Value) (Value, error)
}

func (f *FuncValue) TypeName() string { return "function" }

func (f *FuncValue) Doc() string { return f.DocString }

func (f *FuncValue) Call(args []Value) (Value, error) {
	return f.Fn(args)
}

func (f *FuncValue) String() string {
	return fmt.Sprintf("<function %s>", f.Name)
}

func callableName(c Callable) string {
	if f, ok := c.(*FuncValue); ok && f.Name != "" {
		return f.Name
	}
	if c == nil {
		return "<anonymous>"
	}
	return c.TypeName()
}
