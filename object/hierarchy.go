package object

import (
	"log/slog"
	"sync"

	"github.com/benbjohnson/immutable"
	"github.com/calyx-lang/calyx/internal/log"
	"github.com/calyx-lang/calyx/util"
)

var logger = log.DefaultLogger.With(slog.String("section", "object"))

// Hierarchy is the arena owning every TypeObject of one guest runtime.
// Types are allocated once and referenced by stable TypeID; the arena also
// tracks direct-subtype edges so base reassignment can recompute dependent
// linearizations.
type Hierarchy struct {
	mu       sync.Mutex
	types    []*TypeObject
	subtypes map[TypeID][]TypeID
	root     *TypeObject
}

func NewHierarchy() *Hierarchy {
	h := &Hierarchy{
		subtypes: make(map[TypeID][]TypeID),
	}
	root, err := h.NewType("object", nil, nil)
	if err != nil {
		// a type with no bases cannot fail to linearize
		panic(err)
	}
	root.SetMember("__class__", ClassSlot{})
	root.SetMember("__weakref__", WeakrefSlot{})
	h.root = root
	return h
}

// Object returns the root type every modern class ultimately derives from.
func (h *Hierarchy) Object() *TypeObject { return h.root }

// Type returns the arena entry for id, or nil if out of range.
func (h *Hierarchy) Type(id TypeID) *TypeObject {
	h.mu.Lock()
	defer h.mu.Unlock()
	if int(id) < 0 || int(id) >= len(h.types) {
		return nil
	}
	return h.types[id]
}

// NewType creates a modern class. Bases are significant in declaration order;
// initialMembers may be nil.
func (h *Hierarchy) NewType(name string, bases []*TypeObject, initialMembers map[string]Descriptor) (*TypeObject, error) {
	return h.newType(name, bases, initialMembers, false, nil)
}

// NewLegacyType creates a classic class, which keeps depth-first ancestor
// ordering as long as all its direct bases are also classic.
func (h *Hierarchy) NewLegacyType(name string, bases []*TypeObject, initialMembers map[string]Descriptor) (*TypeObject, error) {
	return h.newType(name, bases, initialMembers, true, nil)
}

// NewNativeType creates a class backed by an opaque host representation.
func (h *Hierarchy) NewNativeType(name string, bases []*TypeObject, initialMembers map[string]Descriptor, native any) (*TypeObject, error) {
	return h.newType(name, bases, initialMembers, false, native)
}

func (h *Hierarchy) newType(name string, bases []*TypeObject, initialMembers map[string]Descriptor, legacy bool, native any) (*TypeObject, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t := &TypeObject{
		h:      h,
		id:     TypeID(len(h.types)),
		name:   name,
		legacy: legacy,
		native: native,
	}
	mro, err := computeMRO(t, bases, currentMRO)
	if err != nil {
		return nil, err
	}

	members := immutable.NewMap[string, Descriptor](nil)
	for k, v := range initialMembers {
		members = members.Set(k, v)
	}
	t.state.Store(&typeState{
		bases:   bases,
		mro:     mro,
		members: members,
		version: 1,
	})

	h.types = append(h.types, t)
	for _, base := range bases {
		h.subtypes[base.id] = append(h.subtypes[base.id], t.id)
	}
	logger.Debug("created type", "name", name, "id", int(t.id), "legacy", legacy)
	return t, nil
}

// SetBases reassigns t's declared bases and relinearizes t plus every type
// whose ancestry reaches t. The whole reassignment either commits for all
// affected types or fails with no visible change.
func (h *Hierarchy) SetBases(t *TypeObject, bases []*TypeObject) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	fresh := make(map[TypeID][]*TypeObject)
	mroOf := func(x *TypeObject) []*TypeObject {
		if m, ok := fresh[x.id]; ok {
			return m
		}
		return currentMRO(x)
	}

	mro, err := computeMRO(t, bases, mroOf)
	if err != nil {
		return err
	}
	fresh[t.id] = mro

	affected := util.NewEmptySet[TypeID]()
	h.collectSubtypes(t.id, affected)
	dependents := h.dependentOrder(t.id, affected)

	for _, dep := range dependents {
		depMRO, err := computeMRO(dep, dep.Bases(), mroOf)
		if err != nil {
			return err
		}
		fresh[dep.id] = depMRO
	}

	// all linearizations succeeded; commit and rewire subtype edges
	old := t.state.Load().bases
	for _, base := range old {
		h.subtypes[base.id] = removeID(h.subtypes[base.id], t.id)
	}
	for _, base := range bases {
		h.subtypes[base.id] = append(h.subtypes[base.id], t.id)
	}

	t.commitMRO(bases, mro)
	for _, dep := range dependents {
		dep.commitMRO(nil, fresh[dep.id])
	}
	logger.Debug("reassigned bases", "name", t.name, "dependents", len(dependents))
	return nil
}

func (h *Hierarchy) collectSubtypes(id TypeID, acc util.MSet[TypeID]) {
	for _, sub := range h.subtypes[id] {
		if acc.Contains(sub) {
			continue
		}
		acc.Add(sub)
		h.collectSubtypes(sub, acc)
	}
}

// dependentOrder returns the affected types ordered so that every type comes
// after all of its affected ancestors, which lets each relinearization reuse
// the fresh MROs of its bases.
func (h *Hierarchy) dependentOrder(changed TypeID, affected util.MSet[TypeID]) []*TypeObject {
	pending := affected.AsSlice()
	done := util.NewEmptySet[TypeID]()
	done.Add(changed)
	var out []*TypeObject
	for len(pending) > 0 {
		progressed := false
		var next []TypeID
		for _, id := range pending {
			typ := h.types[id]
			ready := true
			for _, base := range typ.state.Load().bases {
				if affected.Contains(base.id) && !done.Contains(base.id) {
					ready = false
					break
				}
			}
			if ready {
				out = append(out, typ)
				done.Add(id)
				progressed = true
			} else {
				next = append(next, id)
			}
		}
		if !progressed {
			// base cycles are rejected at linearization time; this keeps the
			// loop finite if the subtype index is ever inconsistent
			for _, id := range next {
				out = append(out, h.types[id])
			}
			break
		}
		pending = next
	}
	return out
}

func removeID(ids []TypeID, id TypeID) []TypeID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// currentMRO reads a type's cached linearization snapshot.
func currentMRO(t *TypeObject) []*TypeObject {
	return t.state.Load().mro
}
