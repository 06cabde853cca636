package interop

import (
	"reflect"
	"sort"

	"github.com/calyx-lang/calyx/util"
	"github.com/pkg/errors"
	"github.com/traefik/yaegi/stdlib"
	"github.com/xtgo/set"
)

// HostSymbols sources assemblies from yaegi's symbol tables. An assembly key
// has the form "import/path/name", e.g. "net/http/http"; yaegi publishes a
// named type as a typed nil pointer, which is how TypesOf tells types apart
// from functions and variables.
type HostSymbols struct {
	symbols map[string]map[string]reflect.Value
}

// NewHostSymbols exposes the Go standard library.
func NewHostSymbols() *HostSymbols {
	return &HostSymbols{symbols: stdlib.Symbols}
}

// NewHostSymbolsFrom uses a caller-supplied symbol table, such as one
// exported from an embedding interpreter.
func NewHostSymbolsFrom(symbols map[string]map[string]reflect.Value) *HostSymbols {
	return &HostSymbols{symbols: symbols}
}

// Assemblies returns all known assembly keys, sorted.
func (h *HostSymbols) Assemblies() []string {
	out := make([]string, 0, len(h.symbols))
	for k := range h.symbols {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Roots returns the sorted set of top-level path elements across all
// assemblies, used to group diagnostics.
func (h *HostSymbols) Roots() []string {
	roots := make([]string, 0, len(h.symbols))
	for k := range h.symbols {
		head, _ := util.StringTakeUntil(k, '/')
		roots = append(roots, head)
	}
	sort.Strings(roots)
	return roots[:set.Uniq(sort.StringSlice(roots))]
}

var _ NamespaceLoader = (*HostSymbols)(nil)

// TypesOf returns the named types an assembly exports, sorted.
func (h *HostSymbols) TypesOf(assembly string) ([]string, error) {
	syms, ok := h.symbols[assembly]
	if !ok {
		return nil, errors.Errorf("unknown assembly %q", assembly)
	}
	var names []string
	for name, v := range syms {
		if v.Kind() == reflect.Ptr && v.IsNil() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}
