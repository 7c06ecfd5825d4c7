package step

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/planforge/internal/action"
	"github.com/vk/planforge/internal/attr"
)

type stubRunner struct{}

func (stubRunner) Validate(*action.BuildContext) error { return nil }
func (stubRunner) Run(*action.BuildContext) error      { return nil }

func newStubRunner() action.Runner { return stubRunner{} }

func testRegistry(t *testing.T) *action.Registry {
	t.Helper()
	reg := action.NewRegistry()
	require.True(t, reg.Add(&action.Spec{
		ID:          "test.anchor",
		DisplayName: "Anchor",
		Category:    "Test",
		Attrs: []attr.Definition{
			{Name: "node", Kind: attr.KindNodeRef, Optional: true},
		},
		New: newStubRunner,
	}))
	return reg
}

func TestSiblingNamesStayUnique(t *testing.T) {
	root := New("root")
	for i := 0; i < 3; i++ {
		require.NoError(t, root.AddChild(New("Leg")))
	}

	names := []string{}
	for _, c := range root.Children() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"Leg", "Leg 1", "Leg 2"}, names)
}

func TestSetNameResolvesCollision(t *testing.T) {
	root := New("root")
	a := New("Arm")
	b := New("Spine")
	require.NoError(t, root.AddChildren(a, b))

	assert.Equal(t, "Arm 1", b.SetName("Arm"))
	// renaming to the current name is not a collision with itself
	assert.Equal(t, "Arm", a.SetName("Arm"))
}

func TestIncrementName(t *testing.T) {
	cases := map[string]string{
		"Leg":     "Leg 1",
		"Leg 1":   "Leg 2",
		"Leg 9":   "Leg 10",
		"ik2":     "ik3",
		"pad_007": "pad_008",
	}
	for in, want := range cases {
		assert.Equal(t, want, incrementName(in), in)
	}
}

func TestFullPath(t *testing.T) {
	root := New("root")
	spine := New("Spine")
	chest := New("Chest")
	require.NoError(t, root.AddChild(spine))
	require.NoError(t, spine.AddChild(chest))

	assert.Equal(t, "", root.FullPath())
	assert.Equal(t, "Spine", spine.FullPath())
	assert.Equal(t, "Spine/Chest", chest.FullPath())

	got, ok := root.ChildByPath("Spine/Chest")
	require.True(t, ok)
	assert.Same(t, chest, got)

	self, ok := root.ChildByPath("")
	require.True(t, ok)
	assert.Same(t, root, self)

	_, ok = root.ChildByPath("Spine/Hip")
	assert.False(t, ok)
}

func TestStructuralRules(t *testing.T) {
	reg := testRegistry(t)
	root := New("root")
	leaf := NewAction("", action.NewProxy(reg, "test.anchor"))
	require.NoError(t, root.AddChild(leaf))
	assert.Equal(t, "Anchor", leaf.Name())

	assert.ErrorIs(t, leaf.AddChild(New("x")), ErrLeafChildren)
	assert.ErrorIs(t, root.AddChild(root), ErrOwnDescendant)

	group := New("Group")
	require.NoError(t, root.AddChild(group))
	assert.ErrorIs(t, group.AddChild(root), ErrOwnDescendant)
}

func TestSetParentMovesStep(t *testing.T) {
	root := New("root")
	left := New("Left")
	right := New("Right")
	require.NoError(t, root.AddChildren(left, right))

	hand := New("Hand")
	require.NoError(t, left.AddChild(hand))
	require.NoError(t, hand.SetParent(right))

	assert.Zero(t, left.NumChildren())
	assert.Equal(t, 1, right.NumChildren())
	assert.Same(t, right, hand.Parent())
	assert.Equal(t, "Right/Hand", hand.FullPath())

	require.NoError(t, hand.SetParent(nil))
	assert.True(t, hand.IsRoot())
	assert.Zero(t, right.NumChildren())
}

func TestDisabledHierarchy(t *testing.T) {
	root := New("root")
	spine := New("Spine")
	chest := New("Chest")
	arm := New("Arm")
	require.NoError(t, root.AddChildren(spine, arm))
	require.NoError(t, spine.AddChild(chest))

	spine.SetDisabled(true)
	assert.False(t, chest.IsDisabled())
	assert.True(t, chest.IsDisabledInHierarchy())
	assert.False(t, arm.IsDisabledInHierarchy())

	visited := []string{}
	root.WalkEnabled(func(s *Step) { visited = append(visited, s.Name()) })
	assert.Equal(t, []string{"root", "Arm"}, visited)
}

func TestTopmostSteps(t *testing.T) {
	root := New("root")
	spine := New("Spine")
	chest := New("Chest")
	arm := New("Arm")
	require.NoError(t, root.AddChild(spine))
	require.NoError(t, spine.AddChild(chest))
	require.NoError(t, root.AddChild(arm))

	got := TopmostSteps([]*Step{chest, spine, arm})
	assert.Equal(t, []*Step{spine, arm}, got)
}

func TestValidateResults(t *testing.T) {
	s := New("Spine")
	assert.False(t, s.HasValidateErrors())

	s.AddValidateError(errors.New("node not found: spine_01"))
	assert.True(t, s.HasValidateErrors())
	assert.Len(t, s.ValidateResults(), 1)

	s.ClearValidateResults()
	assert.False(t, s.HasValidateErrors())
}

func TestSerializeRoundTrip(t *testing.T) {
	reg := testRegistry(t)

	root := New("root")
	spine := New("Spine")
	spine.SetDisabled(true)
	require.NoError(t, root.AddChild(spine))

	proxy := action.NewProxy(reg, "test.anchor")
	require.True(t, proxy.SetValue("node", cty.StringVal("spine_01")))
	require.NoError(t, spine.AddChild(NewAction("Chest Anchor", proxy)))

	loaded, err := Deserialize(reg, root.Serialize())
	require.NoError(t, err)

	gotSpine, ok := loaded.ChildByName("Spine")
	require.True(t, ok)
	assert.True(t, gotSpine.IsDisabled())
	assert.Same(t, loaded, gotSpine.Parent())

	gotLeaf, ok := loaded.ChildByPath("Spine/Chest Anchor")
	require.True(t, ok)
	require.True(t, gotLeaf.IsAction())
	assert.Equal(t, "test.anchor", gotLeaf.Action().ActionID())
	assert.Equal(t, "spine_01", gotLeaf.Action().NodeRef("node"))
}

func TestDeserializeBadAction(t *testing.T) {
	reg := testRegistry(t)
	_, err := Deserialize(reg, map[string]any{
		"name":   "broken",
		"action": map[string]any{},
	})
	assert.ErrorIs(t, err, action.ErrNoActionID)
}
