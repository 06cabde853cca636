package object

import (
	"github.com/calyx-lang/calyx/object/objerr"
)

// ClassMethod is a non-data descriptor binding its wrapped callable to the
// type an access goes through, never to the instance.
type ClassMethod struct {
	descriptorBase
	fn Callable
}

// NewClassMethod wraps v, failing when it is not callable.
func NewClassMethod(v Value) (*ClassMethod, error) {
	fn, ok := v.(Callable)
	if !ok {
		return nil, objerr.New(objerr.NewNotCallable{Wrapper: "classmethod", Got: v.TypeName()})
	}
	return &ClassMethod{fn: fn}, nil
}

func (c *ClassMethod) TypeName() string { return "classmethod" }

func (c *ClassMethod) Doc() string { return c.fn.Doc() }

// TryGet binds to owner, or to the instance's runtime type when no owner is
// given. Accessing a classmethod through an instance of a subtype therefore
// binds the subtype, not the declaring class.
func (c *ClassMethod) TryGet(inst Instance, owner *TypeObject) (Value, error) {
	target := owner
	if target == nil && inst != nil {
		target = inst.Class()
	}
	var recv Value
	if target != nil {
		recv = target
	}
	return &BoundMethod{Fn: c.fn, Recv: recv}, nil
}

func (c *ClassMethod) GetAlwaysSucceeds() bool { return true }

// StaticMethod is a non-data descriptor that suppresses binding entirely:
// access returns the wrapped callable unchanged.
type StaticMethod struct {
	descriptorBase
	fn Callable
}

// NewStaticMethod wraps v, failing when it is not callable.
func NewStaticMethod(v Value) (*StaticMethod, error) {
	fn, ok := v.(Callable)
	if !ok {
		return nil, objerr.New(objerr.NewNotCallable{Wrapper: "staticmethod", Got: v.TypeName()})
	}
	return &StaticMethod{fn: fn}, nil
}

func (s *StaticMethod) TypeName() string { return "staticmethod" }

func (s *StaticMethod) Doc() string { return s.fn.Doc() }

func (s *StaticMethod) TryGet(inst Instance, owner *TypeObject) (Value, error) {
	return s.fn, nil
}

func (s *StaticMethod) GetAlwaysSucceeds() bool { return true }
