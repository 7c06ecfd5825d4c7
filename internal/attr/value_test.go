package attr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestKindDefaults(t *testing.T) {
	assert.Equal(t, cty.False, KindBool.Default())
	assert.Equal(t, cty.Zero, KindInt.Default())
	assert.Equal(t, cty.StringVal(""), KindString.Default())
	assert.True(t, KindNodeRef.Default().IsNull())
	assert.Equal(t, 3, KindVector3.Default().LengthInt())
	assert.Equal(t, 0, KindStringList.Default().LengthInt())
}

func TestParseKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{
		KindBool, KindInt, KindFloat, KindVector3, KindString,
		KindStringList, KindOption, KindNodeRef, KindNodeRefList, KindFilePath,
	} {
		assert.Equal(t, k, ParseKind(k.String()))
	}
	assert.Equal(t, KindUnknown, ParseKind("nope"))
}

func TestValueSetAndGet(t *testing.T) {
	v := NewValue(Definition{Name: "count", Kind: KindInt})

	assert.False(t, v.IsSet())
	assert.Equal(t, cty.Zero, v.Get())

	require.True(t, v.Set(cty.NumberIntVal(4)))
	assert.True(t, v.IsSet())
	assert.Equal(t, cty.NumberIntVal(4), v.Get())
}

func TestValueSetRejectsWrongType(t *testing.T) {
	v := NewValue(Definition{Name: "count", Kind: KindInt})
	require.True(t, v.Set(cty.NumberIntVal(4)))

	// non-integral and non-numeric values are both rejected
	assert.False(t, v.Set(cty.NumberFloatVal(1.5)))
	assert.False(t, v.Set(cty.ListValEmpty(cty.String)))

	// previous value is untouched
	assert.Equal(t, cty.NumberIntVal(4), v.Get())
}

func TestValueSetDefaultClearsOverride(t *testing.T) {
	v := NewValue(Definition{Name: "enabled", Kind: KindBool})

	require.True(t, v.Set(cty.True))
	assert.True(t, v.IsSet())

	require.True(t, v.Set(cty.False))
	assert.False(t, v.IsSet(), "setting the default must clear the override")
	assert.Equal(t, cty.False, v.Get())
}

func TestValueSetExplicitDefault(t *testing.T) {
	def := Definition{Name: "mode", Kind: KindInt, Default: cty.NumberIntVal(2)}
	v := NewValue(def)

	assert.Equal(t, cty.NumberIntVal(2), v.Get())

	require.True(t, v.Set(cty.NumberIntVal(2)))
	assert.False(t, v.IsSet())

	require.True(t, v.Set(cty.Zero))
	assert.True(t, v.IsSet())
}

func TestValueSetConvertsCompatibleTypes(t *testing.T) {
	v := NewValue(Definition{Name: "size", Kind: KindFloat})
	require.True(t, v.Set(cty.NumberIntVal(2)))
	assert.Equal(t, cty.Number, v.Get().Type())

	vec := NewValue(Definition{Name: "offset", Kind: KindVector3})
	require.True(t, vec.Set(cty.TupleVal([]cty.Value{
		cty.NumberIntVal(1), cty.NumberIntVal(2), cty.NumberIntVal(3),
	})))
	assert.True(t, vec.Get().Type().IsListType())

	assert.False(t, vec.Set(cty.TupleVal([]cty.Value{cty.Zero, cty.Zero})),
		"vector3 requires exactly three components")
}

func TestValidateString(t *testing.T) {
	t.Run("required by default", func(t *testing.T) {
		v := NewValue(Definition{Name: "name", Kind: KindString})
		res := v.Validate()
		assert.False(t, res.OK)
		assert.Equal(t, ReasonRequired, res.Reason)
		assert.False(t, v.IsValid())

		require.True(t, v.Set(cty.StringVal("spine")))
		assert.True(t, v.Validate().OK)
		assert.True(t, v.IsValid())
	})

	t.Run("optional", func(t *testing.T) {
		v := NewValue(Definition{Name: "suffix", Kind: KindString, Optional: true})
		assert.True(t, v.Validate().OK)
	})
}

func TestValidateOption(t *testing.T) {
	def := Definition{Name: "axis", Kind: KindOption, Options: []string{"x", "y", "z"}}
	v := NewValue(def)

	assert.True(t, v.Validate().OK)

	require.True(t, v.Set(cty.NumberIntVal(2)))
	assert.True(t, v.Validate().OK)

	require.True(t, v.Set(cty.NumberIntVal(3)))
	res := v.Validate()
	assert.False(t, res.OK)
	assert.Equal(t, ReasonOutOfRange, res.Reason)
}

func TestValidateNodeRef(t *testing.T) {
	v := NewValue(Definition{Name: "target", Kind: KindNodeRef})
	res := v.Validate()
	assert.False(t, res.OK)
	assert.Equal(t, ReasonRequired, res.Reason)

	require.True(t, v.Set(cty.StringVal("spine_01")))
	assert.True(t, v.Validate().OK)
}

func TestValidateIntRange(t *testing.T) {
	min, max := 1.0, 10.0
	v := NewValue(Definition{Name: "count", Kind: KindInt, Min: &min, Max: &max, Default: cty.NumberIntVal(1)})

	assert.True(t, v.Validate().OK)

	require.True(t, v.Set(cty.NumberIntVal(11)))
	res := v.Validate()
	assert.False(t, res.OK)
	assert.Equal(t, ReasonOutOfRange, res.Reason)
}

func TestValidateUnknownKind(t *testing.T) {
	v := NewValue(Definition{Name: "ghost"})
	res := v.Validate()
	assert.False(t, res.OK)
	assert.Equal(t, ReasonUnknownType, res.Reason)
}

func TestFromGoToGoRoundTrip(t *testing.T) {
	v, err := FromGo([]any{1, 2, 3}, KindVector3)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, ToGo(v))

	v, err = FromGo([]any{"a", "b"}, KindStringList)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, ToGo(v))

	v, err = FromGo(2.5, KindFloat)
	require.NoError(t, err)
	assert.Equal(t, 2.5, ToGo(v))

	v, err = FromGo(nil, KindNodeRef)
	require.NoError(t, err)
	assert.Nil(t, ToGo(v))

	_, err = FromGo("abc", KindInt)
	assert.Error(t, err)
}
