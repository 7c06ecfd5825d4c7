package attr

import (
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Definition describes one attribute of a registered action type. It is
// immutable once the owning spec has been registered.
type Definition struct {
	// Name is the attribute name, unique within the owning action spec.
	Name string
	// Kind is the attribute type.
	Kind Kind
	// Description is optional documentation shown in editors.
	Description string
	// Optional marks attributes that pass validation without a value.
	// String, node and nodelist attributes are required unless this is set.
	Optional bool
	// Default overrides the kind's intrinsic default when not cty.NilVal.
	Default cty.Value
	// Min and Max bound int and float attributes when set.
	Min *float64
	Max *float64
	// Options is the ordered list of choices for option attributes.
	// The value of an option attribute is an index into this list.
	Options []string
	// FileFilter is an optional dialog filter for file attributes.
	FileFilter string
}

// DefaultValue returns the effective default for this attribute: the
// explicit default when one is declared, otherwise the kind's intrinsic one.
func (d Definition) DefaultValue() cty.Value {
	if d.Default != cty.NilVal {
		return d.Default
	}
	return d.Kind.Default()
}

// Acceptable reports whether a value is type-correct for this attribute.
// This is a structural check only; semantic validity (required, ranges) is
// the job of Value.Validate.
func (d Definition) Acceptable(v cty.Value) bool {
	_, ok := d.normalize(v)
	return ok
}

// normalize converts a value to the attribute's canonical cty type,
// reporting false if the value cannot represent this kind.
func (d Definition) normalize(v cty.Value) (cty.Value, bool) {
	if d.Kind == KindUnknown {
		return v, true
	}
	if v == cty.NilVal {
		return cty.NilVal, false
	}
	converted, err := convert.Convert(v, d.Kind.CtyType())
	if err != nil {
		return cty.NilVal, false
	}
	if converted.IsNull() {
		// only node references may be null
		return converted, d.Kind == KindNodeRef
	}
	switch d.Kind {
	case KindInt, KindOption:
		if !isWholeNumber(converted) {
			return cty.NilVal, false
		}
	case KindVector3:
		if converted.LengthInt() != 3 {
			return cty.NilVal, false
		}
	}
	return converted, true
}

func isWholeNumber(v cty.Value) bool {
	f := v.AsBigFloat()
	return f.IsInt()
}
