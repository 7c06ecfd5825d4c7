// Package sym implements the pure mirror transform applied to action
// attribute values when a proxy is expanded with mirroring enabled.
package sym

import (
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/planforge/internal/attr"
	"github.com/vk/planforge/internal/config"
)

// PairResolver resolves the registered mirror counterpart of a node
// reference. The host scene graph implements this.
type PairResolver interface {
	// MirrorPair returns the counterpart node name, or ok false if the
	// node has no registered pair.
	MirrorPair(name string) (string, bool)
}

// Transform maps attribute values to their mirrored counterparts.
// Node references are substituted through the pair resolver; strings go
// through the naming convention; every other kind passes through unchanged.
type Transform struct {
	Config *config.Config
	Pairs  PairResolver
}

// Value returns the mirrored counterpart of one attribute value.
// Values that cannot be mirrored pass through unchanged.
func (t Transform) Value(v cty.Value, kind attr.Kind) cty.Value {
	if v == cty.NilVal || v.IsNull() {
		return v
	}
	switch kind {
	case attr.KindNodeRef:
		return t.mirrorNode(v)
	case attr.KindNodeRefList:
		return t.mirrorStringList(v, t.mirrorNode)
	case attr.KindString:
		return t.mirrorString(v)
	case attr.KindStringList:
		return t.mirrorStringList(v, t.mirrorString)
	default:
		return v
	}
}

func (t Transform) mirrorNode(v cty.Value) cty.Value {
	if t.Pairs == nil {
		return v
	}
	if pair, ok := t.Pairs.MirrorPair(v.AsString()); ok {
		return cty.StringVal(pair)
	}
	return v
}

func (t Transform) mirrorString(v cty.Value) cty.Value {
	if t.Config == nil {
		return v
	}
	mirrored, ok := t.Config.MirroredName(v.AsString())
	if !ok {
		return v
	}
	return cty.StringVal(mirrored)
}

func (t Transform) mirrorStringList(v cty.Value, fn func(cty.Value) cty.Value) cty.Value {
	if v.LengthInt() == 0 {
		return v
	}
	elems := make([]cty.Value, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		if ev.IsNull() {
			elems = append(elems, ev)
			continue
		}
		elems = append(elems, fn(ev))
	}
	return cty.ListVal(elems)
}
