package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/planforge/internal/attr"
)

type nopRunner struct{}

func (nopRunner) Validate(*BuildContext) error { return nil }
func (nopRunner) Run(*BuildContext) error      { return nil }

func newNopRunner() Runner { return nopRunner{} }

type otherRunner struct{ nopRunner }

func newOtherRunner() Runner { return otherRunner{} }

func weldSpec() *Spec {
	return &Spec{
		ID:          "test.weld",
		DisplayName: "Weld",
		Category:    "Test",
		Attrs: []attr.Definition{
			{Name: "name", Kind: attr.KindString},
			{Name: "target", Kind: attr.KindNodeRef},
			{Name: "sources", Kind: attr.KindNodeRefList, Optional: true},
			{Name: "strength", Kind: attr.KindFloat},
			{Name: "keepOffset", Kind: attr.KindBool},
		},
		New: newNopRunner,
	}
}

func TestRegistryAddAndFind(t *testing.T) {
	reg := NewRegistry()
	require.True(t, reg.Add(weldSpec()))

	spec, ok := reg.Find("test.weld")
	require.True(t, ok)
	assert.Equal(t, "Weld", spec.DisplayName)

	_, ok = reg.Find("test.missing")
	assert.False(t, ok)
}

func TestRegistryRejectsInvalidSpec(t *testing.T) {
	reg := NewRegistry()
	assert.False(t, reg.Add(&Spec{ID: ""}))
	assert.False(t, reg.Add(&Spec{ID: "test.noimpl"}))
	assert.Empty(t, reg.All())
}

func TestRegistryFirstRegistrationWins(t *testing.T) {
	reg := NewRegistry()
	first := weldSpec()
	require.True(t, reg.Add(first))

	// identical implementation: idempotent no-op
	again := weldSpec()
	assert.True(t, reg.Add(again))

	// different implementation under the same id: rejected
	conflicting := weldSpec()
	conflicting.DisplayName = "Impostor"
	conflicting.New = newOtherRunner
	assert.False(t, reg.Add(conflicting))

	spec, ok := reg.Find("test.weld")
	require.True(t, ok)
	assert.Equal(t, "Weld", spec.DisplayName)
}

func TestRegistryFindByFactory(t *testing.T) {
	reg := NewRegistry()
	require.True(t, reg.Add(weldSpec()))

	spec, ok := reg.FindByFactory(newNopRunner)
	require.True(t, ok)
	assert.Equal(t, "test.weld", spec.ID)

	_, ok = reg.FindByFactory(newOtherRunner)
	assert.False(t, ok)
}

func TestRegistryRemoveAndReset(t *testing.T) {
	reg := NewRegistry()
	require.True(t, reg.Add(weldSpec()))

	reg.Remove("test.weld")
	_, ok := reg.Find("test.weld")
	assert.False(t, ok)

	require.True(t, reg.Add(weldSpec()))
	reg.Reset()
	assert.Empty(t, reg.All())
}

func TestRegistryAllOrdered(t *testing.T) {
	reg := NewRegistry()
	a := weldSpec()
	b := weldSpec()
	b.ID = "test.anchor"
	c := weldSpec()
	c.ID = "core.group"
	c.Category = "Core"
	for _, s := range []*Spec{a, b, c} {
		require.True(t, reg.Add(s))
	}

	ids := []string{}
	for _, s := range reg.All() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"core.group", "test.anchor", "test.weld"}, ids)
}

func TestDefaultRegistryIsShared(t *testing.T) {
	Default().Reset()
	t.Cleanup(Default().Reset)

	require.True(t, Default().Add(weldSpec()))
	_, ok := Default().Find("test.weld")
	assert.True(t, ok)
}
