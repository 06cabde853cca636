package interop

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	mu    sync.Mutex
	calls int
	types map[string][]string
}

func (f *fakeLoader) TypesOf(assembly string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	ts, ok := f.types[assembly]
	if !ok {
		return nil, errors.Errorf("unknown assembly %q", assembly)
	}
	return ts, nil
}

func TestAddTypeIdempotent(t *testing.T) {
	empty := EmptyExtensionSet()

	s1 := empty.AddType("lib/a", "T1")
	s2 := s1.AddType("lib/a", "T1")

	assert.Same(t, s1, s2, "adding an already-covered type returns the same snapshot")
	assert.NotSame(t, empty, s1)
	assert.Equal(t, []string{"T1"}, s1.Types("lib/a"))
	assert.Empty(t, empty.Types("lib/a"), "published snapshots are never mutated")
}

func TestIDsAdvanceOnlyOnNewSnapshots(t *testing.T) {
	empty := EmptyExtensionSet()
	s1 := empty.AddType("lib/a", "T1")
	s2 := s1.AddType("lib/a", "T1")
	s3 := s2.AddType("lib/a", "T2")

	assert.Greater(t, s1.ID(), empty.ID())
	assert.Equal(t, s1.ID(), s2.ID())
	assert.Greater(t, s3.ID(), s1.ID())
}

func TestAddNamespaceIdempotent(t *testing.T) {
	s1 := EmptyExtensionSet().AddNamespace("lib/a", "a")
	s2 := s1.AddNamespace("lib/a", "a")

	assert.Same(t, s1, s2)
	assert.Equal(t, []string{"a"}, s1.Namespaces("lib/a"))
}

func TestEqualityIsStructural(t *testing.T) {
	a := EmptyExtensionSet().AddType("lib/a", "T1").AddType("lib/a", "T2")
	b := EmptyExtensionSet().AddType("lib/a", "T2").AddType("lib/a", "T1")

	assert.True(t, a.Equal(b), "insertion order does not matter")
	assert.NotEqual(t, a.ID(), b.ID(), "equal contents can still be distinct snapshots")

	c := b.AddType("lib/b", "T1")
	assert.False(t, a.Equal(c))
}

func TestEnsureLoadedIdempotent(t *testing.T) {
	loader := &fakeLoader{types: map[string][]string{
		"lib/a": {"T2", "T1", "T3"},
	}}

	s := EmptyExtensionSet().AddType("lib/a", "T0")
	loaded, err := s.EnsureLoaded("lib/a", loader)
	require.NoError(t, err)

	assert.True(t, loaded.FullyLoaded("lib/a"))
	assert.Equal(t, []string{"T0", "T1", "T2", "T3"}, loaded.Types("lib/a"))
	assert.Equal(t, 1, loader.calls)

	again, err := loaded.EnsureLoaded("lib/a", loader)
	require.NoError(t, err)
	assert.Same(t, loaded, again, "a fully loaded assembly does not reload")
	assert.Equal(t, 1, loader.calls)
}

func TestEnsureLoadedRacersConverge(t *testing.T) {
	loader := &fakeLoader{types: map[string][]string{
		"lib/a": {"T1", "T2"},
	}}
	s := EmptyExtensionSet()

	var wg sync.WaitGroup
	results := make([]*ExtensionSet, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			loaded, err := s.EnsureLoaded("lib/a", loader)
			assert.NoError(t, err)
			results[i] = loaded
		}(i)
	}
	wg.Wait()

	for _, r := range results[1:] {
		assert.True(t, results[0].Equal(r), "racing expansions observe equal snapshots")
	}
}

func TestEqualFullyLoadedVsListed(t *testing.T) {
	loader := &fakeLoader{types: map[string][]string{"lib/a": {"T1"}}}

	listed := EmptyExtensionSet().AddType("lib/a", "T1")
	loaded, err := EmptyExtensionSet().EnsureLoaded("lib/a", loader)
	require.NoError(t, err)

	assert.False(t, listed.Equal(loaded), "fully-loaded only equals fully-loaded")
}

func TestValidFor(t *testing.T) {
	s1 := EmptyExtensionSet().AddType("lib/a", "T1")
	s2 := s1.AddType("lib/a", "T2")

	assert.True(t, ValidFor(s1, s1))
	assert.False(t, ValidFor(s1, s2))
	assert.False(t, ValidFor(nil, s1))
	assert.True(t, ValidFor(nil, nil))
}

func TestValidForDegradesOnOverflow(t *testing.T) {
	a := &ExtensionSet{id: IDOverflow, byAssembly: EmptyExtensionSet().byAssembly}
	b := &ExtensionSet{id: IDOverflow, byAssembly: EmptyExtensionSet().byAssembly}

	assert.True(t, ValidFor(a, a), "identity still validates after overflow")
	assert.False(t, ValidFor(a, b), "equal ids no longer validate after overflow")
}

func TestRegistryConcurrentPublish(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	names := []string{"T1", "T2", "T3", "T4"}
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			r.Update(func(s *ExtensionSet) *ExtensionSet {
				return s.AddType("lib/a", name)
			})
		}(name)
	}
	wg.Wait()

	assert.Equal(t, []string{"T1", "T2", "T3", "T4"}, r.Current().Types("lib/a"))
}
