package action

import (
	"github.com/zclconf/go-cty/cty"
)

// Typed accessors for attribute values, used by runner implementations
// with compile-time-checked attribute name constants. Unknown names and
// kind mismatches return the zero value; definitions are checked once at
// registration, not on every read.

// Bool returns a bool attribute value.
func (d *Data) Bool(name string) bool {
	v := d.value(name)
	if v == cty.NilVal || v.IsNull() || v.Type() != cty.Bool {
		return false
	}
	return v.True()
}

// Int returns an int or option attribute value.
func (d *Data) Int(name string) int {
	v := d.value(name)
	if v == cty.NilVal || v.IsNull() || v.Type() != cty.Number {
		return 0
	}
	i, _ := v.AsBigFloat().Int64()
	return int(i)
}

// Float returns a float attribute value.
func (d *Data) Float(name string) float64 {
	v := d.value(name)
	if v == cty.NilVal || v.IsNull() || v.Type() != cty.Number {
		return 0
	}
	f, _ := v.AsBigFloat().Float64()
	return f
}

// String returns a string, file or node attribute value. Null node
// references read as the empty string.
func (d *Data) String(name string) string {
	v := d.value(name)
	if v == cty.NilVal || v.IsNull() || v.Type() != cty.String {
		return ""
	}
	return v.AsString()
}

// Strings returns a string list attribute value.
func (d *Data) Strings(name string) []string {
	v := d.value(name)
	if v == cty.NilVal || v.IsNull() || !v.Type().IsListType() {
		return nil
	}
	out := make([]string, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		if ev.IsNull() {
			out = append(out, "")
			continue
		}
		out = append(out, ev.AsString())
	}
	return out
}

// Vector3 returns a vector3 attribute value.
func (d *Data) Vector3(name string) [3]float64 {
	var out [3]float64
	v := d.value(name)
	if v == cty.NilVal || v.IsNull() || !v.Type().IsListType() || v.LengthInt() != 3 {
		return out
	}
	i := 0
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		out[i], _ = ev.AsBigFloat().Float64()
		i++
	}
	return out
}

// NodeRef returns a node attribute value, empty when unset.
func (d *Data) NodeRef(name string) string { return d.String(name) }

// NodeRefs returns a node list attribute value.
func (d *Data) NodeRefs(name string) []string { return d.Strings(name) }

func (d *Data) value(name string) cty.Value {
	a, ok := d.attrs[name]
	if !ok {
		return cty.NilVal
	}
	return a.Get()
}
