package attr

import (
	"log/slog"

	"github.com/zclconf/go-cty/cty"
)

// Reason codes for semantically invalid attribute values.
const (
	ReasonRequired    = "required"
	ReasonOutOfRange  = "out_of_range"
	ReasonUnknownType = "unknown_type"
)

// Result is the outcome of validating an attribute value.
type Result struct {
	OK bool
	// Reason is one of the Reason* constants when OK is false.
	Reason string
}

// Value holds the current value of one attribute on an action. It only
// stores an explicit override; Get falls back to the definition's default.
type Value struct {
	def      Definition
	override cty.Value

	// cached outcome of the last Validate call
	valid  bool
	reason string
}

// NewValue creates an unset value for a definition.
func NewValue(def Definition) *Value {
	return &Value{def: def, valid: true}
}

// Definition returns the definition this value belongs to.
func (v *Value) Definition() Definition { return v.def }

// Name returns the attribute name.
func (v *Value) Name() string { return v.def.Name }

// Kind returns the attribute kind.
func (v *Value) Kind() Kind { return v.def.Kind }

// IsSet reports whether an explicit override is stored.
func (v *Value) IsSet() bool { return v.override != cty.NilVal }

// Get returns the override when set, otherwise the default.
func (v *Value) Get() cty.Value {
	if v.override != cty.NilVal {
		return v.override
	}
	return v.def.DefaultValue()
}

// Set stores a new value after normalizing it to the attribute's type.
// Type-incorrect values are rejected and logged, leaving the previous value
// intact, so interactive editing survives transient bad input. Setting a
// value equal to the default clears the override instead, which keeps
// defaults out of serialized documents.
func (v *Value) Set(newValue cty.Value) bool {
	normalized, ok := v.def.normalize(newValue)
	if !ok {
		slog.Error("Rejected unacceptable attribute value.",
			"attr", v.def.Name, "kind", v.def.Kind.String())
		return false
	}
	if normalized.RawEquals(v.def.DefaultValue()) {
		v.Clear()
		return true
	}
	v.override = normalized
	return true
}

// Clear removes the override, resetting the value to the default.
func (v *Value) Clear() {
	v.override = cty.NilVal
}

// Validate runs the semantic check for the attribute's kind and caches the
// outcome. Validation failures are results, not errors: they surface in
// editors and pre-build checks without interrupting anything.
func (v *Value) Validate() Result {
	res := v.check()
	v.valid = res.OK
	v.reason = res.Reason
	return res
}

// IsValid returns the cached outcome of the last Validate call.
func (v *Value) IsValid() bool { return v.valid }

// InvalidReason returns the cached reason the value is invalid, if any.
func (v *Value) InvalidReason() string { return v.reason }

func (v *Value) check() Result {
	switch v.def.Kind {
	case KindUnknown:
		return Result{Reason: ReasonUnknownType}
	case KindString:
		if !v.def.Optional && v.Get().AsString() == "" {
			return Result{Reason: ReasonRequired}
		}
	case KindNodeRef:
		if !v.def.Optional && !v.IsSet() {
			return Result{Reason: ReasonRequired}
		}
	case KindNodeRefList:
		if !v.def.Optional && !v.IsSet() {
			return Result{Reason: ReasonRequired}
		}
	case KindOption:
		idx, _ := v.Get().AsBigFloat().Int64()
		if idx < 0 || idx >= int64(len(v.def.Options)) {
			return Result{Reason: ReasonOutOfRange}
		}
	case KindInt, KindFloat:
		f, _ := v.Get().AsBigFloat().Float64()
		if v.def.Min != nil && f < *v.def.Min {
			return Result{Reason: ReasonOutOfRange}
		}
		if v.def.Max != nil && f > *v.def.Max {
			return Result{Reason: ReasonOutOfRange}
		}
	}
	return Result{OK: true}
}
