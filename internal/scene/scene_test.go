package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndLookup(t *testing.T) {
	g := NewGraph()

	n, err := g.CreateNode("hip_ctl", "transform")
	require.NoError(t, err)
	assert.Equal(t, "hip_ctl", n.Name())
	assert.Equal(t, "transform", n.Type())
	assert.True(t, g.Exists("hip_ctl"))
	assert.False(t, g.Exists("chest_ctl"))

	_, err = g.CreateNode("hip_ctl", "transform")
	assert.Error(t, err, "duplicate names are rejected")
	_, err = g.CreateNode("", "transform")
	assert.Error(t, err)
}

func TestRemoveOrphansChildren(t *testing.T) {
	g := NewGraph()
	root, _ := g.CreateNode("root", "group")
	child, _ := g.CreateNode("child", "transform")
	g.Parent(child, root)
	require.Same(t, root, child.Parent())

	require.True(t, g.Remove("root"))
	assert.False(t, g.Exists("root"))
	assert.True(t, g.Exists("child"))
	assert.Nil(t, child.Parent())
	assert.False(t, g.Remove("root"))
}

func TestReparent(t *testing.T) {
	g := NewGraph()
	a, _ := g.CreateNode("a", "group")
	b, _ := g.CreateNode("b", "group")
	n, _ := g.CreateNode("n", "transform")

	g.Parent(n, a)
	g.Parent(n, b)
	assert.Empty(t, a.Children())
	require.Len(t, b.Children(), 1)
	assert.Same(t, n, b.Children()[0])

	g.Parent(n, nil)
	assert.Empty(t, b.Children())
	assert.Nil(t, n.Parent())
}

func TestTagsAndAttrs(t *testing.T) {
	g := NewGraph()
	n, _ := g.CreateNode("hip_ctl", "transform")

	n.AddTag("control")
	n.AddTag("control")
	n.AddTag("fk")
	assert.Equal(t, []string{"control", "fk"}, n.Tags())
	assert.True(t, n.HasTag("fk"))
	assert.False(t, n.HasTag("ik"))

	n.SetAttr("side", "center")
	v, ok := n.Attr("side")
	require.True(t, ok)
	assert.Equal(t, "center", v)
}

func TestMirrorPairs(t *testing.T) {
	g := NewGraph()
	_, err := g.CreateNode("hand_L", "transform")
	require.NoError(t, err)
	g.SetPair("hand_L", "hand_R")

	got, ok := g.MirrorPair("hand_L")
	require.True(t, ok)
	assert.Equal(t, "hand_R", got)
	got, ok = g.MirrorPair("hand_R")
	require.True(t, ok)
	assert.Equal(t, "hand_L", got)
	_, ok = g.MirrorPair("foot_L")
	assert.False(t, ok)

	g.Remove("hand_L")
	// forward mapping is gone with the node; reverse stays until reset
	_, ok = g.MirrorPair("hand_L")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	g := NewGraph()
	for _, name := range []string{"b", "a", "c"} {
		_, err := g.CreateNode(name, "transform")
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"a", "b", "c"}, g.Names())
	assert.Equal(t, 3, g.Len())
}
