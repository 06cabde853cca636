package interop

import (
	"log/slog"
	"slices"
	"sort"
	"sync/atomic"

	"github.com/benbjohnson/immutable"
	"github.com/calyx-lang/calyx/internal/log"
	"github.com/pkg/errors"
	"github.com/xtgo/set"
)

var logger = log.DefaultLogger.With(slog.String("section", "interop"))

// IDOverflow is the sentinel id assigned once the snapshot counter saturates.
// From then on cached-set validity degrades to pointer identity instead of
// failing; see ValidFor.
const IDOverflow = ^uint64(0)

var snapshotIDs atomic.Uint64

func nextSnapshotID() uint64 {
	id := snapshotIDs.Add(1)
	if id >= IDOverflow {
		return IDOverflow
	}
	return id
}

// ExtensionSet is an immutable snapshot of the extension methods attachable
// to foreign types, grouped by the assembly (host library) supplying them.
//
// Published snapshots are cached inside call-site guards keyed by id, so a
// snapshot is never mutated: adding a member produces a new snapshot sharing
// the untouched per-assembly records.
type ExtensionSet struct {
	id         uint64
	byAssembly *immutable.Map[string, *assemblyExtensions]
}

type assemblyExtensions struct {
	types       []string // sorted, no duplicates
	namespaces  []string // sorted, no duplicates
	fullyLoaded bool
}

func EmptyExtensionSet() *ExtensionSet {
	return &ExtensionSet{
		id:         nextSnapshotID(),
		byAssembly: immutable.NewMap[string, *assemblyExtensions](nil),
	}
}

// ID returns the snapshot id. Ids advance only on genuinely new snapshots
// and are an optimization for cache guards, not an identity.
func (s *ExtensionSet) ID() uint64 { return s.id }

// AddType returns s unchanged when assembly already covers typeName, else a
// new snapshot with it added.
func (s *ExtensionSet) AddType(assembly, typeName string) *ExtensionSet {
	cur, _ := s.byAssembly.Get(assembly)
	if cur != nil && (cur.fullyLoaded || slices.Contains(cur.types, typeName)) {
		return s
	}
	next := &assemblyExtensions{namespaces: cur.namespacesOrNil()}
	next.types = insertSorted(cur.typesOrNil(), typeName)
	return s.with(assembly, next)
}

// AddNamespace returns s unchanged when assembly already covers namespace,
// else a new snapshot with it added.
func (s *ExtensionSet) AddNamespace(assembly, namespace string) *ExtensionSet {
	cur, _ := s.byAssembly.Get(assembly)
	if cur != nil && slices.Contains(cur.namespaces, namespace) {
		return s
	}
	next := &assemblyExtensions{
		types:       cur.typesOrNil(),
		fullyLoaded: cur != nil && cur.fullyLoaded,
	}
	next.namespaces = insertSorted(cur.namespacesOrNil(), namespace)
	return s.with(assembly, next)
}

// NamespaceLoader resolves an assembly to the full list of type names it
// exports, typically by walking host symbol tables.
type NamespaceLoader interface {
	TypesOf(assembly string) ([]string, error)
}

// EnsureLoaded expands assembly into its complete set of types. The
// operation is idempotent: a fully loaded assembly returns the same
// snapshot, so concurrent callers racing on the same expansion converge on
// equal results rather than partial state.
func (s *ExtensionSet) EnsureLoaded(assembly string, loader NamespaceLoader) (*ExtensionSet, error) {
	cur, _ := s.byAssembly.Get(assembly)
	if cur != nil && cur.fullyLoaded {
		return s, nil
	}
	loaded, err := loader.TypesOf(assembly)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load types of assembly %s", assembly)
	}
	merged := slices.Clone(cur.typesOrNil())
	merged = append(merged, loaded...)
	sort.Strings(merged)
	merged = merged[:set.Uniq(sort.StringSlice(merged))]
	next := &assemblyExtensions{
		types:       merged,
		namespaces:  cur.namespacesOrNil(),
		fullyLoaded: true,
	}
	logger.Debug("loaded assembly types", "assembly", assembly, "types", len(merged))
	return s.with(assembly, next), nil
}

// Types returns the known type names for assembly.
func (s *ExtensionSet) Types(assembly string) []string {
	cur, _ := s.byAssembly.Get(assembly)
	return slices.Clone(cur.typesOrNil())
}

// Namespaces returns the known namespaces for assembly.
func (s *ExtensionSet) Namespaces(assembly string) []string {
	cur, _ := s.byAssembly.Get(assembly)
	return slices.Clone(cur.namespacesOrNil())
}

// FullyLoaded reports whether assembly has been completely expanded.
func (s *ExtensionSet) FullyLoaded(assembly string) bool {
	cur, _ := s.byAssembly.Get(assembly)
	return cur != nil && cur.fullyLoaded
}

// Equal compares assembly-by-assembly: for each assembly either both sides
// report fully loaded, or both report identical type and namespace sets.
func (s *ExtensionSet) Equal(o *ExtensionSet) bool {
	if s == o {
		return true
	}
	if o == nil || s.byAssembly.Len() != o.byAssembly.Len() {
		return false
	}
	itr := s.byAssembly.Iterator()
	for !itr.Done() {
		k, a, _ := itr.Next()
		b, ok := o.byAssembly.Get(k)
		if !ok {
			return false
		}
		if a.fullyLoaded || b.fullyLoaded {
			if a.fullyLoaded != b.fullyLoaded {
				return false
			}
			continue
		}
		if !slices.Equal(a.types, b.types) || !slices.Equal(a.namespaces, b.namespaces) {
			return false
		}
	}
	return true
}

// ValidFor reports whether cached still denotes the active snapshot. Ids
// compare in O(1); once either side carries the overflow sentinel the check
// degrades to pointer identity.
func ValidFor(cached, current *ExtensionSet) bool {
	if cached == nil || current == nil {
		return cached == current
	}
	if cached.id != IDOverflow && current.id != IDOverflow {
		return cached.id == current.id
	}
	return cached == current
}

func (s *ExtensionSet) with(assembly string, ext *assemblyExtensions) *ExtensionSet {
	return &ExtensionSet{
		id:         nextSnapshotID(),
		byAssembly: s.byAssembly.Set(assembly, ext),
	}
}

func (a *assemblyExtensions) typesOrNil() []string {
	if a == nil {
		return nil
	}
	return a.types
}

func (a *assemblyExtensions) namespacesOrNil() []string {
	if a == nil {
		return nil
	}
	return a.namespaces
}

// insertSorted unions a single element into an already-sorted slice.
func insertSorted(xs []string, v string) []string {
	joined := append(slices.Clone(xs), v)
	n := set.Union(sort.StringSlice(joined), len(xs))
	return joined[:n]
}
