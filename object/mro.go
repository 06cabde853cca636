package object

import (
	"log/slog"
	"slices"
	"sort"

	"github.com/calyx-lang/calyx/internal/log"
	"github.com/calyx-lang/calyx/object/objerr"
	"github.com/calyx-lang/calyx/util"
	"github.com/hashicorp/go-set/v3"
)

var mroLogger = log.DefaultLogger.With(slog.String("section", "mro"))

// computeMRO linearizes t over its direct bases. cached returns the current
// linearization of an already-created type; the engine only recomputes a
// base's order when legacy semantics have to be upgraded to modern ones.
func computeMRO(t *TypeObject, bases []*TypeObject, cached func(*TypeObject) []*TypeObject) ([]*TypeObject, error) {
	if len(bases) == 0 {
		return []*TypeObject{t}, nil
	}
	for _, b := range bases {
		if b == t {
			return nil, objerr.New(objerr.NewInheritanceCycle{TypeName: t.name})
		}
	}
	if t.legacy && allLegacy(bases) {
		return legacyMRO(t, bases)
	}
	return modernMRO(t, bases, cached)
}

func allLegacy(bases []*TypeObject) bool {
	for _, b := range bases {
		if !b.legacy {
			return false
		}
	}
	return true
}

// modernMRO is the C3 linearization: merge each base's MRO plus the bases
// themselves in declaration order, repeatedly taking the first head that
// appears in no tail. Declaration order of bases is the tie-break, so the
// leftmost base wins.
func modernMRO(t *TypeObject, bases []*TypeObject, cached func(*TypeObject) []*TypeObject) ([]*TypeObject, error) {
	seqs := make([][]*TypeObject, 0, len(bases)+1)
	for _, b := range bases {
		bm, err := modernMROOf(b, cached)
		if err != nil {
			return nil, err
		}
		if slices.Contains(bm, t) {
			return nil, objerr.New(objerr.NewInheritanceCycle{TypeName: t.name})
		}
		seqs = append(seqs, slices.Clone(bm))
	}
	seqs = append(seqs, slices.Clone(bases))
	return c3Merge(t, seqs)
}

// modernMROOf returns a base's linearization under modern semantics. A legacy
// base mixed into a modern hierarchy gets a modern order computed for it as
// if it had been declared modern, without touching its cached legacy order.
func modernMROOf(b *TypeObject, cached func(*TypeObject) []*TypeObject) ([]*TypeObject, error) {
	if !b.legacy {
		return cached(b), nil
	}
	bases := b.state.Load().bases
	if len(bases) == 0 {
		return []*TypeObject{b}, nil
	}
	mroLogger.Debug("computing modern order for legacy base", "name", b.name)
	return modernMRO(b, bases, cached)
}

func c3Merge(t *TypeObject, seqs [][]*TypeObject) ([]*TypeObject, error) {
	result := []*TypeObject{t}
	for {
		var live [][]*TypeObject
		for _, s := range seqs {
			if len(s) > 0 {
				live = append(live, s)
			}
		}
		if len(live) == 0 {
			return result, nil
		}
		var chosen *TypeObject
		for _, s := range live {
			if head := s[0]; !inAnyTail(live, head) {
				chosen = head
				break
			}
		}
		if chosen == nil {
			heads := set.New[string](len(live))
			for _, s := range live {
				heads.Insert(s[0].name)
			}
			conflicting := heads.Slice()
			sort.Strings(conflicting)
			return nil, objerr.New(objerr.NewInconsistentHierarchy{
				TypeName:    t.name,
				Conflicting: conflicting,
			})
		}
		for i, s := range seqs {
			if len(s) > 0 && s[0] == chosen {
				seqs[i] = s[1:]
			}
		}
		result = append(result, chosen)
	}
}

func inAnyTail(seqs [][]*TypeObject, candidate *TypeObject) bool {
	for _, s := range seqs {
		for _, x := range s[1:] {
			if x == candidate {
				return true
			}
		}
	}
	return false
}

// legacyMRO is the classic depth-first pre-order ancestor walk, left to
// right, skipping already-visited ancestors. Re-reaching the type being
// linearized means its ancestry loops back onto itself.
func legacyMRO(t *TypeObject, bases []*TypeObject) ([]*TypeObject, error) {
	visited := set.New[TypeID](8)
	visited.Insert(t.id)
	result := []*TypeObject{t}

	var stack util.Stack[*TypeObject]
	for b := range util.Reverse(bases) {
		stack.Push(b)
	}
	for !stack.Empty() {
		next, _ := stack.Pop()
		if next == t {
			return nil, objerr.New(objerr.NewInheritanceCycle{TypeName: t.name})
		}
		if !visited.Insert(next.id) {
			continue
		}
		result = append(result, next)
		for b := range util.Reverse(next.state.Load().bases) {
			stack.Push(b)
		}
	}
	return result, nil
}
