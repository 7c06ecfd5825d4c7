package action

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/planforge/internal/attr"
)

// ErrNoActionID indicates action data with no action id at all.
var ErrNoActionID = errors.New("action data has no action id")

// ErrUnknownAction indicates an action id with no registered spec.
var ErrUnknownAction = errors.New("no action is registered for id")

// reservedKeys are document keys that are never attribute values.
var reservedKeys = map[string]struct{}{
	"id":           {},
	"variantAttrs": {},
	"variants":     {},
	"is_mirrored":  {},
}

// Data holds the attribute values for one action id. Attributes are
// (re)initialized from the registered spec whenever the id changes. When
// the spec cannot be resolved, loaded values are preserved verbatim in
// extra so an unregistered or renamed action never silently loses data.
type Data struct {
	reg      *Registry
	actionID string
	spec     *Spec
	attrs    map[string]*attr.Value
	order    []string
	extra    map[string]any
}

// NewData creates action data for an id, resolving its spec from the
// registry and initializing one value per spec attribute.
func NewData(reg *Registry, actionID string) *Data {
	d := &Data{reg: reg}
	d.SetActionID(actionID)
	return d
}

// newFilteredData creates data holding only the named attributes, used by
// variants. Names not found in the spec get unknown-kind placeholders.
func newFilteredData(reg *Registry, actionID string, names []string) *Data {
	d := &Data{reg: reg, actionID: actionID}
	d.resolveSpec()
	d.attrs = make(map[string]*attr.Value)
	d.extra = make(map[string]any)
	for _, name := range names {
		d.addAttr(name)
	}
	return d
}

// ActionID returns the action id this data is bound to.
func (d *Data) ActionID() string { return d.actionID }

// Spec returns the resolved spec, or nil when the id is unregistered.
func (d *Data) Spec() *Spec { return d.spec }

// IsMissingSpec reports whether an id is set but no spec was found for it.
func (d *Data) IsMissingSpec() bool { return d.actionID != "" && d.spec == nil }

// SetActionID rebinds the data to a new action id, resolving the spec and
// reinitializing all attributes from it.
func (d *Data) SetActionID(actionID string) {
	d.actionID = actionID
	d.resolveSpec()
	d.initAttrs()
}

func (d *Data) resolveSpec() {
	d.spec = nil
	if d.actionID == "" {
		return
	}
	if d.reg != nil {
		if spec, ok := d.reg.Find(d.actionID); ok {
			d.spec = spec
			return
		}
	}
	slog.Warn("Failed to find action spec.", "id", d.actionID)
}

func (d *Data) initAttrs() {
	d.attrs = make(map[string]*attr.Value)
	d.order = nil
	d.extra = make(map[string]any)
	if d.spec == nil {
		return
	}
	for _, def := range d.spec.Attrs {
		d.addAttr(def.Name)
	}
}

// addAttr ensures a value exists for a named attribute, creating an
// unknown-kind placeholder when the spec has no such attribute.
func (d *Data) addAttr(name string) *attr.Value {
	if v, ok := d.attrs[name]; ok {
		return v
	}
	def := attr.Definition{Name: name}
	if d.spec != nil {
		if specDef, ok := d.spec.FindAttr(name); ok {
			def = specDef
		}
	}
	v := attr.NewValue(def)
	d.attrs[name] = v
	d.order = append(d.order, name)
	return v
}

func (d *Data) removeAttr(name string) {
	if _, ok := d.attrs[name]; !ok {
		return
	}
	delete(d.attrs, name)
	for i, n := range d.order {
		if n == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Attr returns a named attribute value.
func (d *Data) Attr(name string) (*attr.Value, bool) {
	v, ok := d.attrs[name]
	return v, ok
}

// Attrs returns all attribute values in spec order.
func (d *Data) Attrs() []*attr.Value {
	out := make([]*attr.Value, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.attrs[name])
	}
	return out
}

// SetValue sets a named attribute, reporting false for unknown names or
// type-incorrect values.
func (d *Data) SetValue(name string, v cty.Value) bool {
	a, ok := d.attrs[name]
	if !ok {
		slog.Error("Cannot set unknown attribute.", "id", d.actionID, "attr", name)
		return false
	}
	return a.Set(v)
}

// HasWarnings reports whether any attribute fails semantic validation.
func (d *Data) HasWarnings() bool {
	for _, name := range d.order {
		if !d.attrs[name].Validate().OK {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the data, including explicit overrides and
// preserved unknown values.
func (d *Data) Clone() *Data {
	out := &Data{reg: d.reg, actionID: d.actionID, spec: d.spec}
	out.attrs = make(map[string]*attr.Value, len(d.attrs))
	out.order = append([]string(nil), d.order...)
	for name, v := range d.attrs {
		nv := attr.NewValue(v.Definition())
		if v.IsSet() {
			nv.Set(v.Get())
		}
		out.attrs[name] = nv
	}
	out.extra = make(map[string]any, len(d.extra))
	for k, v := range d.extra {
		out.extra[k] = v
	}
	return out
}

// Serialize returns the document form of this data: the action id plus
// every explicitly set attribute value. When the spec resolves, keys it
// does not define are dropped as stale; when it does not, every preserved
// key is written back verbatim.
func (d *Data) Serialize() map[string]any {
	doc := map[string]any{"id": d.actionID}
	if d.spec == nil {
		for k, v := range d.extra {
			doc[k] = v
		}
		return doc
	}
	for _, name := range d.order {
		v := d.attrs[name]
		if _, known := d.spec.FindAttr(name); !known {
			continue
		}
		if v.IsSet() {
			doc[name] = attr.ToGo(v.Get())
		}
	}
	for name := range d.extra {
		slog.Info("Discarding unknown attribute data.", "id", d.actionID, "attr", name)
	}
	return doc
}

// Deserialize loads values from a document, rebinding to its action id.
func (d *Data) Deserialize(doc map[string]any) error {
	id, _ := doc["id"].(string)
	if id == "" {
		return fmt.Errorf("%w: %v", ErrNoActionID, doc)
	}
	d.SetActionID(id)
	d.applyValues(doc)
	return nil
}

// applyValues loads attribute values from a document without touching the
// action id binding. Used directly for variant rows, whose documents carry
// values only.
func (d *Data) applyValues(doc map[string]any) {
	if d.spec == nil {
		if d.actionID != "" {
			slog.Warn("Action spec not found, attribute values will be preserved.", "id", d.actionID)
		}
		for k, v := range doc {
			if _, reserved := reservedKeys[k]; reserved {
				continue
			}
			d.extra[k] = v
		}
		return
	}
	for k, raw := range doc {
		if _, reserved := reservedKeys[k]; reserved {
			continue
		}
		a, ok := d.attrs[k]
		if !ok {
			// stale or renamed attribute: keep in memory, drop on save
			d.extra[k] = raw
			continue
		}
		v, err := attr.FromGo(raw, a.Kind())
		if err != nil {
			slog.Error("Failed to load attribute value.",
				"id", d.actionID, "attr", k, "error", err)
			continue
		}
		a.Set(v)
	}
}
