package object

import (
	"testing"

	"github.com/calyx-lang/calyx/object/objerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyFunctionalUpdate(t *testing.T) {
	h := NewHierarchy()
	typ := mustType(t, h, "T", h.Object())
	inst := NewInstance(typ)

	var wrote, deleted Value
	g := constGetter("x", StrValue("got"))
	s := &FuncValue{Name: "x", Fn: func(args []Value) (Value, error) {
		wrote = args[1]
		return Nil, nil
	}}
	d := &FuncValue{Name: "x", Fn: func(args []Value) (Value, error) {
		deleted = args[0]
		return Nil, nil
	}}

	empty := NewProperty(nil, nil, nil, "")
	full := empty.Getter(g).Setter(s).Deleter(d)

	got, err := full.TryGet(inst, typ)
	require.NoError(t, err)
	assert.Equal(t, StrValue("got"), got)

	require.NoError(t, full.TrySet(inst, typ, IntValue(9)))
	assert.Equal(t, IntValue(9), wrote)

	require.NoError(t, full.TryDelete(inst, typ))
	assert.Same(t, inst, deleted)

	// the original is untouched
	_, err = empty.TryGet(inst, typ)
	assert.True(t, objerr.HasCode(err, objerr.UnreadableProperty))
	assert.Error(t, empty.TrySet(inst, typ, Nil))
	assert.Error(t, empty.TryDelete(inst, typ))
}

func TestPropertyMissingCapabilityErrors(t *testing.T) {
	h := NewHierarchy()
	typ := mustType(t, h, "T", h.Object())
	inst := NewInstance(typ)

	p := NewProperty(constGetter("x", Nil), nil, nil, "")

	err := p.TrySet(inst, typ, Nil)
	assert.True(t, objerr.HasCode(err, objerr.UnsetableProperty))

	err = p.TryDelete(inst, typ)
	assert.True(t, objerr.HasCode(err, objerr.UndeletableProperty))

	_, err = NewProperty(nil, nil, nil, "").TryGet(inst, typ)
	assert.True(t, objerr.HasCode(err, objerr.UnreadableProperty))
}

func TestPropertyDocDefaultsToGetterDoc(t *testing.T) {
	g := &FuncValue{Name: "x", DocString: "the x coordinate", Fn: func([]Value) (Value, error) {
		return Nil, nil
	}}

	p := NewProperty(g, nil, nil, "")
	assert.Equal(t, "the x coordinate", p.Doc())

	explicit := NewProperty(g, nil, nil, "custom doc")
	assert.Equal(t, "custom doc", explicit.Doc())

	// an explicit doc survives functional updates; a defaulted one follows
	// the new getter
	g2 := &FuncValue{Name: "x", DocString: "other doc", Fn: func([]Value) (Value, error) {
		return Nil, nil
	}}
	assert.Equal(t, "custom doc", explicit.Getter(g2).Doc())
	assert.Equal(t, "other doc", p.Getter(g2).Doc())
}

func TestPropertyClassAccessReturnsDescriptor(t *testing.T) {
	h := NewHierarchy()
	typ := mustType(t, h, "T", h.Object())
	p := NewProperty(constGetter("x", IntValue(1)), nil, nil, "")
	typ.SetMember("x", p)

	got, err := ResolveClassGet(typ, "x")
	require.NoError(t, err)
	assert.Same(t, p, got)
}

func TestPropertyIsDataDescriptor(t *testing.T) {
	p := NewProperty(constGetter("x", Nil), nil, nil, "")
	assert.True(t, IsDataDescriptor(p))
}
