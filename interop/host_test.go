package interop

import (
	"reflect"
	"testing"

	"github.com/calyx-lang/calyx/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/traefik/yaegi/interp"
)

type vec struct {
	X, Y int
}

func (v vec) Sum() int { return v.X + v.Y }

func (v vec) Scaled(by int) vec { return vec{X: v.X * by, Y: v.Y * by} }

func TestHostSymbolsTypesOf(t *testing.T) {
	hs := NewHostSymbols()

	types, err := hs.TypesOf("fmt/fmt")
	require.NoError(t, err)
	assert.Contains(t, types, "Stringer")

	_, err = hs.TypesOf("no/such/assembly")
	assert.Error(t, err)
}

func TestHostSymbolsRoots(t *testing.T) {
	hs := NewHostSymbolsFrom(map[string]map[string]reflect.Value{
		"net/http/http": {},
		"net/url/url":   {},
		"fmt/fmt":       {},
	})

	assert.Equal(t, []string{"fmt", "net"}, hs.Roots())
}

func TestEnsureLoadedFromHostSymbols(t *testing.T) {
	hs := NewHostSymbols()
	s := EmptyExtensionSet().AddNamespace("fmt/fmt", "fmt")

	loaded, err := s.EnsureLoaded("fmt/fmt", hs)
	require.NoError(t, err)

	assert.True(t, loaded.FullyLoaded("fmt/fmt"))
	assert.Contains(t, loaded.Types("fmt/fmt"), "Stringer")
	assert.Equal(t, []string{"fmt"}, loaded.Namespaces("fmt/fmt"))
}

func TestImportTypeMethods(t *testing.T) {
	h := object.NewHierarchy()
	cls, err := ImportType(h, reflect.TypeOf(vec{}))
	require.NoError(t, err)
	assert.Equal(t, "vec", cls.Name())

	inst := NewHostInstance(cls, vec{X: 2, Y: 3})
	got, err := object.ResolveGet(inst, "Sum")
	require.NoError(t, err)

	result, err := got.(*object.BoundMethod).Call(nil)
	require.NoError(t, err)
	assert.Equal(t, object.IntValue(5), result)
}

func TestImportTypeMethodArgsAndResults(t *testing.T) {
	h := object.NewHierarchy()
	cls, err := ImportType(h, reflect.TypeOf(vec{}))
	require.NoError(t, err)

	inst := NewHostInstance(cls, vec{X: 2, Y: 3})
	got, err := object.ResolveGet(inst, "Scaled")
	require.NoError(t, err)

	result, err := got.(*object.BoundMethod).Call([]object.Value{object.IntValue(10)})
	require.NoError(t, err)

	hv, ok := result.(HostValue)
	require.True(t, ok)
	assert.Equal(t, vec{X: 20, Y: 30}, hv.RV.Interface())
}

func TestImportTypeFields(t *testing.T) {
	h := object.NewHierarchy()
	cls, err := ImportType(h, reflect.TypeOf(vec{}))
	require.NoError(t, err)

	inst := NewHostInstance(cls, &vec{X: 7, Y: 8})
	got, err := object.ResolveGet(inst, "X")
	require.NoError(t, err)
	assert.Equal(t, object.IntValue(7), got)

	require.NoError(t, object.ResolveSet(inst, "X", object.IntValue(11)))
	got, err = object.ResolveGet(inst, "X")
	require.NoError(t, err)
	assert.Equal(t, object.IntValue(11), got)
}

func TestImportTypeFieldSetNeedsPointer(t *testing.T) {
	h := object.NewHierarchy()
	cls, err := ImportType(h, reflect.TypeOf(vec{}))
	require.NoError(t, err)

	inst := NewHostInstance(cls, vec{X: 7, Y: 8})
	err = object.ResolveSet(inst, "X", object.IntValue(11))
	assert.Error(t, err)
}

func TestImportedClassRefusesReclassing(t *testing.T) {
	h := object.NewHierarchy()
	cls, err := ImportType(h, reflect.TypeOf(vec{}))
	require.NoError(t, err)
	plain, err := h.NewType("Plain", []*object.TypeObject{h.Object()}, nil)
	require.NoError(t, err)

	inst := NewHostInstance(cls, vec{})
	err = object.ResolveSet(inst, "__class__", plain)
	assert.Error(t, err, "native layouts are only compatible with themselves")
	assert.Same(t, cls, inst.Class())
}

func TestHostFuncFromYaegi(t *testing.T) {
	i := interp.New(interp.Options{})
	_, err := i.Eval(`func add(a, b int) int { return a + b }`)
	require.NoError(t, err)
	v, err := i.Eval(`add`)
	require.NoError(t, err)

	f := &HostFunc{Name: "add", Fn: v}
	out, err := f.Call([]object.Value{object.IntValue(2), object.IntValue(40)})
	require.NoError(t, err)
	assert.Equal(t, object.IntValue(42), out)
}

func TestHostFuncArityMismatch(t *testing.T) {
	f := &HostFunc{Name: "len2", Fn: reflect.ValueOf(func(a, b string) int { return len(a) + len(b) })}

	_, err := f.Call([]object.Value{object.StrValue("only-one")})
	assert.Error(t, err)
}
