package object

import (
	"github.com/calyx-lang/calyx/object/objerr"
)

// Property is a data descriptor dispatching to a getter/setter/deleter
// triple. It is immutable: Getter, Setter and Deleter return new properties
// sharing the untouched fields.
type Property struct {
	get, set, del Callable
	doc           string
	docExplicit   bool
}

// NewProperty builds a property; any of the callables may be nil. When doc is
// empty the getter's own doc string is used, and the documentation cannot be
// reassigned afterwards.
func NewProperty(get, set, del Callable, doc string) *Property {
	p := &Property{get: get, set: set, del: del, doc: doc, docExplicit: doc != ""}
	if !p.docExplicit && get != nil {
		p.doc = get.Doc()
	}
	return p
}

func (p *Property) TypeName() string { return "property" }

func (p *Property) Doc() string { return p.doc }

// Getter returns a new property with the getter replaced. A non-explicit doc
// string follows the new getter.
func (p *Property) Getter(get Callable) *Property {
	next := *p
	next.get = get
	if !next.docExplicit {
		next.doc = ""
		if get != nil {
			next.doc = get.Doc()
		}
	}
	return &next
}

// Setter returns a new property with the setter replaced.
func (p *Property) Setter(set Callable) *Property {
	next := *p
	next.set = set
	return &next
}

// Deleter returns a new property with the deleter replaced.
func (p *Property) Deleter(del Callable) *Property {
	next := *p
	next.del = del
	return &next
}

func (p *Property) TryGet(inst Instance, owner *TypeObject) (Value, error) {
	if inst == nil {
		// class access returns the descriptor for introspection
		return p, nil
	}
	if p.get == nil {
		return nil, objerr.New(objerr.NewUnreadableProperty{Name: p.name()})
	}
	return p.get.Call([]Value{inst})
}

func (p *Property) TrySet(inst Instance, owner *TypeObject, value Value) error {
	if p.set == nil {
		return objerr.New(objerr.NewUnsetableProperty{Name: p.name()})
	}
	_, err := p.set.Call([]Value{inst, value})
	return err
}

func (p *Property) TryDelete(inst Instance, owner *TypeObject) error {
	if p.del == nil {
		return objerr.New(objerr.NewUndeletableProperty{Name: p.name()})
	}
	_, err := p.del.Call([]Value{inst})
	return err
}

// A property intercepts writes and deletions even when it implements
// neither, so that instance dictionary entries can never shadow it.
func (p *Property) HasSet() bool    { return true }
func (p *Property) HasDelete() bool { return true }

func (p *Property) GetAlwaysSucceeds() bool { return false }

func (p *Property) name() string {
	if p.get != nil {
		return callableName(p.get)
	}
	if p.set != nil {
		return callableName(p.set)
	}
	if p.del != nil {
		return callableName(p.del)
	}
	return "<unnamed>"
}
