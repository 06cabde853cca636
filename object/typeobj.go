package object

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
)

// TypeID identifies a type within its Hierarchy arena.
type TypeID int

// TypeObject represents one guest-language class: a name, declared bases, the
// cached method resolution order, and a member map from attribute name to
// Descriptor.
//
// All derived state (bases, mro, members, version) lives in a single immutable
// snapshot replaced atomically on mutation, so readers never block and never
// observe a half-updated table.
type TypeObject struct {
	h      *Hierarchy
	id     TypeID
	name   string
	legacy bool
	native any

	mu    sync.Mutex // serializes mutation of state
	state atomic.Pointer[typeState]
}

type typeState struct {
	bases   []*TypeObject
	mro     []*TypeObject
	members *immutable.Map[string, Descriptor]
	version uint64
}

// NativeLayout lets a native handle define its own layout-compatibility rule.
type NativeLayout interface {
	LayoutCompatible(other any) bool
}

func (t *TypeObject) TypeName() string { return "type" }

func (t *TypeObject) String() string {
	return fmt.Sprintf("<class '%s'>", t.name)
}

func (t *TypeObject) Name() string { return t.name }

// Legacy reports whether this is a classic (non-unified) class, which uses
// depth-first ancestor ordering when all its direct bases are also classic.
func (t *TypeObject) Legacy() bool { return t.legacy }

func (t *TypeObject) ID() TypeID { return t.id }

// Native returns the opaque host representation backing this type, if any.
func (t *TypeObject) Native() any { return t.native }

// Version is bumped on every member or base mutation. Callers embedding a
// LookupSlot result into a generated fast path must guard on it.
func (t *TypeObject) Version() uint64 {
	return t.state.Load().version
}

// Bases returns the declared bases in declaration order.
func (t *TypeObject) Bases() []*TypeObject {
	s := t.state.Load()
	out := make([]*TypeObject, len(s.bases))
	copy(out, s.bases)
	return out
}

// MRO returns the method resolution order, self first.
func (t *TypeObject) MRO() []*TypeObject {
	s := t.state.Load()
	out := make([]*TypeObject, len(s.mro))
	copy(out, s.mro)
	return out
}

// Member returns the descriptor declared directly on this type, without
// consulting ancestors.
func (t *TypeObject) Member(name string) (Descriptor, bool) {
	return t.state.Load().members.Get(name)
}

// MemberNames returns the names declared directly on this type.
func (t *TypeObject) MemberNames() []string {
	s := t.state.Load()
	names := make([]string, 0, s.members.Len())
	itr := s.members.Iterator()
	for !itr.Done() {
		k, _, _ := itr.Next()
		names = append(names, k)
	}
	return names
}

// LookupSlot walks the MRO and returns the first descriptor for name together
// with the ancestor that declares it.
//
// Callers may embed the result into generated code provided they also embed a
// validity guard on Version, since member maps can change at runtime.
func (t *TypeObject) LookupSlot(name string) (Descriptor, *TypeObject, bool) {
	s := t.state.Load()
	for _, ancestor := range s.mro {
		if d, ok := ancestor.state.Load().members.Get(name); ok {
			return d, ancestor, true
		}
	}
	return nil, nil, false
}

// SetMember declares or replaces a member directly on this type.
func (t *TypeObject) SetMember(name string, d Descriptor) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur := t.state.Load()
	t.state.Store(&typeState{
		bases:   cur.bases,
		mro:     cur.mro,
		members: cur.members.Set(name, d),
		version: cur.version + 1,
	})
}

// DeleteMember removes a member declared directly on this type, reporting
// whether it was present.
func (t *TypeObject) DeleteMember(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur := t.state.Load()
	if _, ok := cur.members.Get(name); !ok {
		return false
	}
	t.state.Store(&typeState{
		bases:   cur.bases,
		mro:     cur.mro,
		members: cur.members.Delete(name),
		version: cur.version + 1,
	})
	return true
}

// IsSubtypeOf reports whether other appears in this type's MRO.
func (t *TypeObject) IsSubtypeOf(other *TypeObject) bool {
	if t == other {
		return true
	}
	for _, ancestor := range t.state.Load().mro {
		if ancestor == other {
			return true
		}
	}
	return false
}

// LayoutCompatible reports whether instances of t may be re-classed as other.
// Types without a native handle share the standard layout; native-backed
// types are compatible only with themselves or per their handle's own rule.
func (t *TypeObject) LayoutCompatible(other *TypeObject) bool {
	if t == other {
		return true
	}
	a, b := t.native, other.native
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if nl, ok := a.(NativeLayout); ok {
		return nl.LayoutCompatible(b)
	}
	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() {
		return a == b
	}
	return false
}

// commitMRO swaps in a freshly linearized MRO (and optionally new bases),
// preserving whatever members concurrent writers have stored since the
// linearization was computed. MRO only depends on bases, never on members.
func (t *TypeObject) commitMRO(bases, mro []*TypeObject) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cur := t.state.Load()
	if bases == nil {
		bases = cur.bases
	}
	t.state.Store(&typeState{
		bases:   bases,
		mro:     mro,
		members: cur.members,
		version: cur.version + 1,
	})
}
