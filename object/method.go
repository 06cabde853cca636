package object

import (
	"fmt"

	"github.com/calyx-lang/calyx/object/objerr"
)

// Method wraps a callable as a non-data descriptor. Accessed through an
// instance it produces a BoundMethod; accessed through the class it returns
// itself, the unbound form.
type Method struct {
	descriptorBase
	fn        Callable
	declaring *TypeObject
}

func NewMethod(fn Callable, declaring *TypeObject) *Method {
	return &Method{fn: fn, declaring: declaring}
}

func (m *Method) TypeName() string { return "method" }

func (m *Method) String() string {
	return fmt.Sprintf("<unbound method %s.%s>", m.declaring.Name(), callableName(m.fn))
}

func (m *Method) Doc() string { return m.fn.Doc() }

// Callable returns the wrapped function.
func (m *Method) Callable() Callable { return m.fn }

// Declaring returns the class the method was declared on.
func (m *Method) Declaring() *TypeObject { return m.declaring }

func (m *Method) TryGet(inst Instance, owner *TypeObject) (Value, error) {
	if inst == nil {
		return m, nil
	}
	return &BoundMethod{Fn: m.fn, Recv: inst, Declaring: m.declaring}, nil
}

func (m *Method) GetAlwaysSucceeds() bool { return true }

// Call invokes the unbound form: the explicit first argument is the receiver
// and must be an instance of the declaring class.
func (m *Method) Call(args []Value) (Value, error) {
	unbound := &BoundMethod{Fn: m.fn, Declaring: m.declaring}
	return unbound.Call(args)
}

// BoundMethod is a callable binding a receiver to a wrapped function. Recv is
// nil for the unbound form, in which case the receiver travels as the first
// call argument.
type BoundMethod struct {
	Fn        Callable
	Recv      Value
	Declaring *TypeObject
}

func (b *BoundMethod) TypeName() string { return "method" }

func (b *BoundMethod) String() string {
	if b.Recv == nil {
		return fmt.Sprintf("<unbound method %s>", callableName(b.Fn))
	}
	return fmt.Sprintf("<bound method %s of %s>", callableName(b.Fn), b.Recv.TypeName())
}

func (b *BoundMethod) Doc() string { return b.Fn.Doc() }

func (b *BoundMethod) Call(args []Value) (Value, error) {
	if b.Recv != nil {
		if err := b.checkReceiver(b.Recv); err != nil {
			return nil, err
		}
		return b.Fn.Call(append([]Value{b.Recv}, args...))
	}
	if len(args) == 0 {
		return nil, objerr.New(objerr.NewUnboundMethodMismatch{
			MethodName: callableName(b.Fn),
			WantClass:  b.declaringName(),
			GotClass:   "nothing",
		})
	}
	if err := b.checkReceiver(args[0]); err != nil {
		return nil, err
	}
	return b.Fn.Call(args)
}

// checkReceiver validates at call time that the receiver is an instance of
// the declaring class. Declaring is nil for receivers that are not instances
// (classmethod binds the type itself), which skips the check.
func (b *BoundMethod) checkReceiver(recv Value) error {
	if b.Declaring == nil {
		return nil
	}
	inst, ok := recv.(Instance)
	if !ok || !inst.Class().IsSubtypeOf(b.Declaring) {
		return objerr.New(objerr.NewUnboundMethodMismatch{
			MethodName: callableName(b.Fn),
			WantClass:  b.declaringName(),
			GotClass:   recv.TypeName(),
		})
	}
	return nil
}

func (b *BoundMethod) declaringName() string {
	if b.Declaring == nil {
		return "?"
	}
	return b.Declaring.Name()
}

// EqualValue implements structural equality: two bound methods are equal iff
// their callables are equal and their receivers are equal under
// guest-language equality.
func (b *BoundMethod) EqualValue(other Value) bool {
	o, ok := other.(*BoundMethod)
	if !ok {
		return false
	}
	return ValuesEqual(b.Fn, o.Fn) && ValuesEqual(b.Recv, o.Recv)
}
