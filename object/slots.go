package object

import (
	"fmt"

	"github.com/calyx-lang/calyx/object/objerr"
)

// WeakrefSlot is the class-level '__weakref__' data descriptor. It only
// orchestrates access: storage belongs to instances implementing
// WeakReffable, and instances without the capability fail cleanly.
type WeakrefSlot struct{}

func (WeakrefSlot) TypeName() string { return "getset_descriptor" }

func (w WeakrefSlot) TryGet(inst Instance, owner *TypeObject) (Value, error) {
	if inst == nil {
		// class access returns the slot itself
		return w, nil
	}
	wr, ok := inst.(WeakReffable)
	if !ok {
		return nil, objerr.New(objerr.NewAttribute{TypeName: inst.TypeName(), Name: "__weakref__"})
	}
	v := wr.WeakRef()
	if v == nil {
		return Nil, nil
	}
	return v, nil
}

func (WeakrefSlot) TrySet(inst Instance, owner *TypeObject, value Value) error {
	wr, ok := inst.(WeakReffable)
	if !ok {
		return objerr.New(objerr.NewAttribute{TypeName: inst.TypeName(), Name: "__weakref__"})
	}
	for {
		old := wr.WeakRef()
		if wr.SwapWeakRef(old, value) {
			return nil
		}
	}
}

func (WeakrefSlot) TryDelete(inst Instance, owner *TypeObject) error {
	return objerr.New(objerr.NewUndeletableProperty{Name: "__weakref__"})
}

func (WeakrefSlot) HasSet() bool            { return true }
func (WeakrefSlot) HasDelete() bool         { return true }
func (WeakrefSlot) GetAlwaysSucceeds() bool { return false }

// ClassSlot is the '__class__' data descriptor: reading it returns the
// instance's runtime type, assigning it re-classes the instance after a
// layout-compatibility check, and deleting it always fails.
type ClassSlot struct{}

func (ClassSlot) TypeName() string { return "getset_descriptor" }

func (ClassSlot) TryGet(inst Instance, owner *TypeObject) (Value, error) {
	if inst == nil {
		if owner == nil {
			return Nil, nil
		}
		return owner, nil
	}
	return inst.Class(), nil
}

func (ClassSlot) TrySet(inst Instance, owner *TypeObject, value Value) error {
	next, ok := value.(*TypeObject)
	if !ok {
		return objerr.New(objerr.NewIncompatibleLayout{
			Reason: fmt.Sprintf("value must be a class, got '%s'", value.TypeName()),
		})
	}
	// the compatibility check happens before the swap; a racing re-class
	// re-runs the check against the new current type
	for {
		old := inst.Class()
		if !old.LayoutCompatible(next) {
			return objerr.New(objerr.NewIncompatibleLayout{
				OldType: old.Name(),
				NewType: next.Name(),
			})
		}
		if inst.SwapClass(old, next) {
			return nil
		}
	}
}

func (ClassSlot) TryDelete(inst Instance, owner *TypeObject) error {
	return objerr.New(objerr.NewUndeletableProperty{Name: "__class__"})
}

func (ClassSlot) HasSet() bool            { return true }
func (ClassSlot) HasDelete() bool         { return true }
func (ClassSlot) GetAlwaysSucceeds() bool { return true }
