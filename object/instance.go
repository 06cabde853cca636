package object

import (
	"sync/atomic"

	"github.com/benbjohnson/immutable"
)

// Instance is the contract consumed by attribute resolution. The object model
// never owns instance storage; embedders supply it.
type Instance interface {
	Value

	// Class returns the instance's current runtime type.
	Class() *TypeObject

	// SwapClass atomically replaces the instance's type reference, returning
	// false if the current type is no longer old.
	SwapClass(old, new *TypeObject) bool
}

// Dicted is the capability of carrying a per-instance attribute dictionary.
// Fixed-layout and native instances do not implement it (or return nil).
type Dicted interface {
	Dict() *InstanceDict
}

// WeakReffable is the capability of tracking a weak reference. Instances that
// do not implement it make the '__weakref__' slot fail rather than panic.
type WeakReffable interface {
	WeakRef() Value
	SwapWeakRef(old, new Value) bool
}

// InstanceDict is a concurrent attribute dictionary. Reads never block;
// writes replace an immutable map reference via compare-and-swap.
type InstanceDict struct {
	m atomic.Pointer[immutable.Map[string, Value]]
}

func NewInstanceDict() *InstanceDict {
	d := &InstanceDict{}
	d.m.Store(immutable.NewMap[string, Value](nil))
	return d
}

func (d *InstanceDict) Get(name string) (Value, bool) {
	return d.m.Load().Get(name)
}

func (d *InstanceDict) Set(name string, v Value) {
	for {
		cur := d.m.Load()
		if d.m.CompareAndSwap(cur, cur.Set(name, v)) {
			return
		}
	}
}

// Delete removes name, reporting whether it was present.
func (d *InstanceDict) Delete(name string) bool {
	for {
		cur := d.m.Load()
		if _, ok := cur.Get(name); !ok {
			return false
		}
		if d.m.CompareAndSwap(cur, cur.Delete(name)) {
			return true
		}
	}
}

func (d *InstanceDict) Len() int {
	return d.m.Load().Len()
}

type weakrefBox struct {
	v Value
}

// StdInstance is the standard instance representation: a type reference, an
// optional attribute dictionary, and a weak-reference slot. Embedders with
// their own layout only need to satisfy Instance.
type StdInstance struct {
	class   atomic.Pointer[TypeObject]
	dict    *InstanceDict
	weakref atomic.Pointer[weakrefBox]

	// EqualFn optionally defines guest-language equality for this instance.
	// When nil, instances compare by identity.
	EqualFn func(other Value) bool
}

// NewInstance returns an instance of class with an attribute dictionary.
func NewInstance(class *TypeObject) *StdInstance {
	i := &StdInstance{dict: NewInstanceDict()}
	i.class.Store(class)
	return i
}

// NewFixedInstance returns an instance without an attribute dictionary,
// as used for fixed-layout and native-backed types.
func NewFixedInstance(class *TypeObject) *StdInstance {
	i := &StdInstance{}
	i.class.Store(class)
	return i
}

func (i *StdInstance) TypeName() string {
	return i.Class().Name()
}

func (i *StdInstance) Class() *TypeObject {
	return i.class.Load()
}

func (i *StdInstance) SwapClass(old, new *TypeObject) bool {
	return i.class.CompareAndSwap(old, new)
}

func (i *StdInstance) Dict() *InstanceDict {
	return i.dict
}

func (i *StdInstance) WeakRef() Value {
	b := i.weakref.Load()
	if b == nil {
		return nil
	}
	return b.v
}

func (i *StdInstance) SwapWeakRef(old, new Value) bool {
	cur := i.weakref.Load()
	var curVal Value
	if cur != nil {
		curVal = cur.v
	}
	if curVal != old {
		return false
	}
	return i.weakref.CompareAndSwap(cur, &weakrefBox{v: new})
}

func (i *StdInstance) EqualValue(other Value) bool {
	if i.EqualFn != nil {
		return i.EqualFn(other)
	}
	o, ok := other.(*StdInstance)
	return ok && o == i
}
