package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/planforge/internal/action"
	"github.com/vk/planforge/internal/attr"
	"github.com/vk/planforge/internal/config"
	"github.com/vk/planforge/internal/step"
	"github.com/vk/planforge/internal/sym"
)

type stubRunner struct{}

func (stubRunner) Validate(*action.BuildContext) error { return nil }
func (stubRunner) Run(*action.BuildContext) error      { return nil }

func newStubRunner() action.Runner { return stubRunner{} }

func testRegistry(t *testing.T) *action.Registry {
	t.Helper()
	reg := action.NewRegistry()
	require.True(t, reg.Add(&action.Spec{
		ID:       "test.place",
		Category: "Test",
		Attrs: []attr.Definition{
			{Name: "node", Kind: attr.KindNodeRef},
		},
		New: newStubRunner,
	}))
	return reg
}

func noMirror() sym.Transform {
	return sym.Transform{Config: config.Default()}
}

func place(t *testing.T, reg *action.Registry, node string) *step.Step {
	t.Helper()
	p := action.NewProxy(reg, "test.place")
	require.True(t, p.SetValue("node", cty.StringVal(node)))
	return step.NewAction(node, p)
}

func TestCompileDepthFirstOrder(t *testing.T) {
	reg := testRegistry(t)
	root := step.New("")
	spine := step.New("Spine")
	require.NoError(t, root.AddChild(spine))
	require.NoError(t, spine.AddChild(place(t, reg, "spine_01")))
	require.NoError(t, spine.AddChild(place(t, reg, "spine_02")))
	require.NoError(t, root.AddChild(place(t, reg, "hip")))

	plan := Compile(root, noMirror())

	require.Zero(t, plan.Errors)
	require.Equal(t, 3, plan.Total())
	order := []string{}
	for _, u := range plan.Units {
		order = append(order, u.Instance.Data().NodeRef("node"))
	}
	assert.Equal(t, []string{"spine_01", "spine_02", "hip"}, order)
}

func TestCompileSkipsDisabledSubtrees(t *testing.T) {
	reg := testRegistry(t)
	root := step.New("")
	group := step.New("Group")
	require.NoError(t, root.AddChild(group))
	require.NoError(t, group.AddChild(place(t, reg, "a")))
	require.NoError(t, root.AddChild(place(t, reg, "b")))
	group.SetDisabled(true)

	plan := Compile(root, noMirror())

	require.Equal(t, 1, plan.Total())
	assert.Equal(t, "b", plan.Units[0].Instance.Data().NodeRef("node"))
}

func TestCompileExpandsVariantsAndMirrors(t *testing.T) {
	reg := testRegistry(t)
	root := step.New("")

	p := action.NewProxy(reg, "test.place")
	p.Mirrored = true
	p.AddVariantAttr("node")
	require.True(t, p.GetOrCreateVariant(0).SetValue("node", cty.StringVal("hand_L")))
	require.True(t, p.GetOrCreateVariant(1).SetValue("node", cty.StringVal("foot_L")))
	require.NoError(t, root.AddChild(step.NewAction("Limbs", p)))

	plan := Compile(root, noMirror())

	require.Zero(t, plan.Errors)
	assert.Equal(t, 4, plan.Total())
}

func TestCompileRecordsExpandFailuresAndContinues(t *testing.T) {
	reg := testRegistry(t)
	root := step.New("")
	broken := step.NewAction("Broken", action.NewProxy(reg, "test.gone"))
	require.NoError(t, root.AddChild(broken))
	require.NoError(t, root.AddChild(place(t, reg, "hip")))

	plan := Compile(root, noMirror())

	assert.Equal(t, 1, plan.Errors)
	assert.Equal(t, 1, plan.Total())
	assert.Len(t, plan.Steps, 2)
	require.True(t, broken.HasValidateErrors())
	assert.ErrorIs(t, broken.ValidateResults()[0], action.ErrUnknownAction)
}

func TestCompileClearsStaleValidateResults(t *testing.T) {
	reg := testRegistry(t)
	root := step.New("")
	s := place(t, reg, "hip")
	require.NoError(t, root.AddChild(s))
	s.AddValidateError(assert.AnError)

	Compile(root, noMirror())
	assert.False(t, s.HasValidateErrors())
}
