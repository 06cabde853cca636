package objerr

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorsWithStartsFromNil(t *testing.T) {
	var errs *Errors
	assert.False(t, errs.HasError())

	errs = errs.With(New(NewInheritanceCycle{TypeName: "A"}))
	require.True(t, errs.HasError())
	require.Len(t, errs.Errors(), 1)
	assert.Equal(t, InheritanceCycle, errs.Errors()[0].Code())
}

func TestErrorsMerge(t *testing.T) {
	a := (*Errors)(nil).With(New(NewAttribute{TypeName: "T", Name: "x"}))
	b := (*Errors)(nil).With(New(NewUnreadableProperty{Name: "p"}))

	merged := a.Merge(b)
	require.Len(t, merged.Errors(), 2)
	assert.Equal(t, Attribute, merged.Errors()[0].Code())
	assert.Equal(t, UnreadableProperty, merged.Errors()[1].Code())

	assert.Same(t, b, (*Errors)(nil).Merge(b), "merging into nil keeps the right side")
	assert.Same(t, a, a.Merge(nil), "merging nil keeps the left side")
}

func TestErrorsLogValue(t *testing.T) {
	errs := (*Errors)(nil).
		With(New(NewInheritanceCycle{TypeName: "A"})).
		With(New(NewAttribute{TypeName: "T", Name: "x"}))

	v := errs.LogValue()
	require.Equal(t, slog.KindGroup, v.Kind())
	assert.Len(t, v.Group(), 2)
	assert.Equal(t, "e0", v.Group()[0].Key)
}

func TestFormatWithCode(t *testing.T) {
	formatted := FormatWithCode(New(NewInconsistentHierarchy{
		TypeName:    "D",
		Conflicting: []string{"A", "B"},
	}))
	assert.Contains(t, formatted, "(E006)")
	assert.Contains(t, formatted, "'D'")
}

func TestHasCodeSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("resolving: %w", New(NewAttribute{TypeName: "T", Name: "x"}))

	assert.True(t, HasCode(err, Attribute))
	assert.False(t, HasCode(err, InheritanceCycle))
	assert.False(t, HasCode(fmt.Errorf("plain"), Attribute))
}
