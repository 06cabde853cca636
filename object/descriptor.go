package object

import (
	"github.com/calyx-lang/calyx/object/objerr"
)

// Descriptor is the attribute-access protocol every class member implements.
//
// A descriptor resolves attribute reads, writes, and deletions against an
// instance of the class that owns it. instance may be nil, which means the
// attribute is being accessed on the class itself rather than on an instance.
type Descriptor interface {
	TryGet(instance Instance, owner *TypeObject) (Value, error)
	TrySet(instance Instance, owner *TypeObject, value Value) error
	TryDelete(instance Instance, owner *TypeObject) error

	// HasSet and HasDelete report which capabilities the descriptor
	// implements. A descriptor with either is a data descriptor and takes
	// precedence over instance dictionary entries of the same name.
	HasSet() bool
	HasDelete() bool

	// GetAlwaysSucceeds hints that TryGet never returns an error, so callers
	// generating fast paths may skip their error branch.
	GetAlwaysSucceeds() bool
}

// IsDataDescriptor reports whether d intercepts attribute access
// unconditionally, shadowing the instance dictionary.
func IsDataDescriptor(d Descriptor) bool {
	return d.HasSet() || d.HasDelete()
}

// descriptorBase provides failing defaults for the optional protocol methods.
// Embedders override what they support.
type descriptorBase struct{}

func (descriptorBase) TryGet(Instance, *TypeObject) (Value, error) {
	return nil, objerr.New(objerr.Unclassified{From: errDescriptorGet})
}

func (descriptorBase) TrySet(Instance, *TypeObject, Value) error {
	return objerr.New(objerr.Unclassified{From: errDescriptorSet})
}

func (descriptorBase) TryDelete(Instance, *TypeObject) error {
	return objerr.New(objerr.Unclassified{From: errDescriptorDelete})
}

func (descriptorBase) HasSet() bool            { return false }
func (descriptorBase) HasDelete() bool         { return false }
func (descriptorBase) GetAlwaysSucceeds() bool { return false }

var (
	errDescriptorGet    = protocolErr("get")
	errDescriptorSet    = protocolErr("set")
	errDescriptorDelete = protocolErr("delete")
)

type protocolErr string

func (e protocolErr) Error() string {
	return "descriptor does not implement " + string(e)
}

// PlainSlot holds a fixed class-level value with no binding behavior.
// It is a non-data descriptor: same-named instance dictionary entries win.
type PlainSlot struct {
	descriptorBase
	V Value
}

func (s PlainSlot) TryGet(Instance, *TypeObject) (Value, error) {
	return s.V, nil
}

func (s PlainSlot) GetAlwaysSucceeds() bool { return true }
