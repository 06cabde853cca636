package object

import (
	"github.com/calyx-lang/calyx/object/objerr"
)

// ResolveGet implements attribute read on an instance.
//
// Precedence is: data descriptor, then the instance dictionary, then a
// non-data descriptor or plain class value. This exact order is what makes
// properties, bound methods, and the '__class__'/'__weakref__' slots behave;
// it must never be reordered.
func ResolveGet(inst Instance, name string) (Value, error) {
	cls := inst.Class()
	d, _, found := cls.LookupSlot(name)
	if found && IsDataDescriptor(d) {
		return d.TryGet(inst, cls)
	}
	if dict := instanceDict(inst); dict != nil {
		if v, ok := dict.Get(name); ok {
			return v, nil
		}
	}
	if found {
		return d.TryGet(inst, cls)
	}
	return nil, objerr.New(objerr.NewAttribute{TypeName: cls.Name(), Name: name})
}

// ResolveSet implements attribute write on an instance. Data descriptors
// intercept unconditionally, even when the instance dictionary holds an entry
// of the same name; otherwise the instance dictionary is mutated directly.
func ResolveSet(inst Instance, name string, value Value) error {
	cls := inst.Class()
	d, _, found := cls.LookupSlot(name)
	if found && IsDataDescriptor(d) {
		return d.TrySet(inst, cls, value)
	}
	if dict := instanceDict(inst); dict != nil {
		dict.Set(name, value)
		return nil
	}
	return objerr.New(objerr.NewAttribute{TypeName: cls.Name(), Name: name})
}

// ResolveDelete implements attribute deletion on an instance, symmetric with
// ResolveSet.
func ResolveDelete(inst Instance, name string) error {
	cls := inst.Class()
	d, _, found := cls.LookupSlot(name)
	if found && IsDataDescriptor(d) {
		return d.TryDelete(inst, cls)
	}
	if dict := instanceDict(inst); dict != nil {
		if dict.Delete(name) {
			return nil
		}
	}
	return objerr.New(objerr.NewAttribute{TypeName: cls.Name(), Name: name})
}

// ResolveClassGet implements attribute read on a type itself: the descriptor
// found in the MRO is invoked with no instance, so methods come back unbound
// and properties come back as the descriptor for introspection.
func ResolveClassGet(t *TypeObject, name string) (Value, error) {
	d, _, found := t.LookupSlot(name)
	if !found {
		return nil, objerr.New(objerr.NewAttribute{TypeName: t.Name(), Name: name})
	}
	return d.TryGet(nil, t)
}

func instanceDict(inst Instance) *InstanceDict {
	if dd, ok := inst.(Dicted); ok {
		return dd.Dict()
	}
	return nil
}
