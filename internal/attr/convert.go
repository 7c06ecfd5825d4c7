package attr

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// FromGo converts a plain Go value, as produced by decoding a YAML or JSON
// document, into a cty.Value of the given kind.
func FromGo(raw any, k Kind) (cty.Value, error) {
	v, err := goToCty(raw)
	if err != nil {
		return cty.NilVal, err
	}
	if k == KindUnknown {
		return v, nil
	}
	converted, err := convert.Convert(v, k.CtyType())
	if err != nil {
		return cty.NilVal, fmt.Errorf("cannot represent %T as %s: %w", raw, k, err)
	}
	return converted, nil
}

func goToCty(raw any) (cty.Value, error) {
	switch t := raw.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case bool:
		return cty.BoolVal(t), nil
	case int:
		return cty.NumberIntVal(int64(t)), nil
	case int64:
		return cty.NumberIntVal(t), nil
	case float64:
		return cty.NumberFloatVal(t), nil
	case string:
		return cty.StringVal(t), nil
	case []any:
		if len(t) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, 0, len(t))
		for _, e := range t {
			ev, err := goToCty(e)
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, ev)
		}
		return cty.TupleVal(elems), nil
	case []string:
		elems := make([]cty.Value, 0, len(t))
		for _, e := range t {
			elems = append(elems, cty.StringVal(e))
		}
		if len(elems) == 0 {
			return cty.ListValEmpty(cty.String), nil
		}
		return cty.ListVal(elems), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported attribute value type %T", raw)
	}
}

// ToGo converts a cty.Value into a plain Go value suitable for encoding
// into a YAML or JSON document.
func ToGo(v cty.Value) any {
	if v == cty.NilVal || v.IsNull() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty == cty.Bool:
		return v.True()
	case ty == cty.Number:
		f := v.AsBigFloat()
		if f.IsInt() {
			i, _ := f.Int64()
			return int(i)
		}
		fl, _ := f.Float64()
		return fl
	case ty == cty.String:
		return v.AsString()
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			out = append(out, ToGo(ev))
		}
		return out
	default:
		return nil
	}
}
