package action

import (
	"fmt"
	"log/slog"

	"github.com/vk/planforge/internal/sym"
)

// Proxy stands in for one or more concrete actions during blueprint
// editing. The invariant attribute values live on the embedded Data;
// attributes marked variant live only in the variant rows. Expand produces
// the concrete instances for a build run.
type Proxy struct {
	Data
	variantAttrs []string
	variants     []*Variant

	// Mirrored enables generating a mirrored duplicate of every expanded
	// instance, with values substituted by the symmetry transform.
	Mirrored bool
}

// NewProxy creates a proxy for an action id.
func NewProxy(reg *Registry, actionID string) *Proxy {
	return &Proxy{Data: *NewData(reg, actionID)}
}

// DisplayName returns the name shown for this proxy in editors and step
// default naming.
func (p *Proxy) DisplayName() string {
	if p.spec != nil && p.spec.DisplayName != "" {
		return p.spec.DisplayName
	}
	return p.actionID
}

// Color returns the display color, falling back to a fixed error color
// when the spec is missing.
func (p *Proxy) Color() string {
	if p.spec == nil {
		return missingSpecColor
	}
	return p.spec.Color
}

// IsVariantAction reports whether any attributes are marked variant.
func (p *Proxy) IsVariantAction() bool { return len(p.variantAttrs) > 0 }

// IsVariantAttr reports whether a named attribute is marked variant.
func (p *Proxy) IsVariantAttr(name string) bool {
	for _, n := range p.variantAttrs {
		if n == name {
			return true
		}
	}
	return false
}

// VariantAttrNames returns the names of all variant-marked attributes.
func (p *Proxy) VariantAttrNames() []string {
	return append([]string(nil), p.variantAttrs...)
}

// AddVariantAttr marks an attribute as variant. The current invariant
// value, if explicitly set, is copied into every variant row and the
// invariant override is cleared; at least one variant row is guaranteed to
// exist afterwards.
func (p *Proxy) AddVariantAttr(name string) {
	if p.IsVariantAttr(name) {
		return
	}
	p.variantAttrs = append(p.variantAttrs, name)

	for _, v := range p.variants {
		v.ensureAttr(name)
	}
	if len(p.variants) == 0 {
		p.variants = append(p.variants, p.newVariant())
	}

	base, ok := p.Attr(name)
	if !ok || !base.IsSet() {
		return
	}
	baseValue := base.Get()
	for _, v := range p.variants {
		if va, ok := v.Attr(name); ok {
			va.Set(baseValue)
		}
	}
	base.Clear()
}

// RemoveVariantAttr unmarks a variant attribute, copying the first variant
// row's value back into the invariant slot. When no variant attributes
// remain, all variant rows are discarded; otherwise the attribute is
// stripped from every remaining row.
func (p *Proxy) RemoveVariantAttr(name string) {
	if !p.IsVariantAttr(name) {
		return
	}
	for i, n := range p.variantAttrs {
		if n == name {
			p.variantAttrs = append(p.variantAttrs[:i], p.variantAttrs[i+1:]...)
			break
		}
	}

	if len(p.variants) > 0 {
		if va, ok := p.variants[0].Attr(name); ok {
			if base, ok := p.Attr(name); ok {
				base.Set(va.Get())
			}
		}
	}

	if !p.IsVariantAction() {
		p.variants = nil
		return
	}
	for _, v := range p.variants {
		v.dropAttr(name)
	}
}

func (p *Proxy) newVariant() *Variant {
	return NewVariant(p.reg, p.actionID, p.variantAttrs)
}

// NumVariants returns the number of variant rows.
func (p *Proxy) NumVariants() int { return len(p.variants) }

// Variant returns the variant row at an index.
func (p *Proxy) Variant(index int) (*Variant, bool) {
	if index < 0 || index >= len(p.variants) {
		return nil, false
	}
	return p.variants[index], true
}

// GetOrCreateVariant returns the variant row at an index, appending rows
// as needed to reach it.
func (p *Proxy) GetOrCreateVariant(index int) *Variant {
	if index < 0 {
		return nil
	}
	for len(p.variants) <= index {
		p.AddVariant()
	}
	return p.variants[index]
}

// AddVariant appends a variant row. Does nothing if no attributes are
// marked variant.
func (p *Proxy) AddVariant() {
	if !p.IsVariantAction() {
		return
	}
	p.variants = append(p.variants, p.newVariant())
}

// InsertVariant inserts a variant row at an index. Does nothing if no
// attributes are marked variant.
func (p *Proxy) InsertVariant(index int) {
	if !p.IsVariantAction() {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(p.variants) {
		index = len(p.variants)
	}
	p.variants = append(p.variants, nil)
	copy(p.variants[index+1:], p.variants[index:])
	p.variants[index] = p.newVariant()
}

// RemoveVariantAt removes the variant row at an index; out of range
// indices are ignored.
func (p *Proxy) RemoveVariantAt(index int) {
	if index < 0 || index >= len(p.variants) {
		return
	}
	p.variants = append(p.variants[:index], p.variants[index+1:]...)
}

// ClearVariants removes all variant rows without unmarking any attributes.
func (p *Proxy) ClearVariants() {
	p.variants = nil
}

// HasWarnings reports whether any invariant or variant attribute fails
// semantic validation. Variant-marked attributes are only checked in the
// rows, where their values actually live.
func (p *Proxy) HasWarnings() bool {
	for _, name := range p.order {
		if p.IsVariantAttr(name) {
			continue
		}
		if !p.attrs[name].Validate().OK {
			return true
		}
	}
	for _, v := range p.variants {
		if v.HasWarnings() {
			return true
		}
	}
	return false
}

// Serialize returns the document form of the proxy: the invariant data
// plus the variant attribute name list, the variant rows and the mirrored
// flag. Variant names unknown to a resolved spec are filtered out; when
// the spec is missing every name is kept.
func (p *Proxy) Serialize() map[string]any {
	doc := p.Data.Serialize()
	if p.Mirrored {
		doc["is_mirrored"] = true
	}
	if len(p.variantAttrs) > 0 {
		names := p.variantAttrs
		if p.spec != nil {
			names = nil
			for _, n := range p.variantAttrs {
				if _, ok := p.spec.FindAttr(n); ok {
					names = append(names, n)
				}
			}
		}
		doc["variantAttrs"] = append([]string(nil), names...)
	}
	if len(p.variants) > 0 {
		rows := make([]map[string]any, 0, len(p.variants))
		for _, v := range p.variants {
			rows = append(rows, v.SerializeValues())
		}
		doc["variants"] = rows
	}
	return doc
}

// Deserialize loads the proxy from its document form, fully replacing the
// current attribute values, variant marks and rows.
func (p *Proxy) Deserialize(doc map[string]any) error {
	if err := p.Data.Deserialize(doc); err != nil {
		return err
	}
	p.Mirrored, _ = doc["is_mirrored"].(bool)
	p.variantAttrs = toStringSlice(doc["variantAttrs"])
	p.variants = nil
	for _, raw := range toRowSlice(doc["variants"]) {
		v := p.newVariant()
		v.applyValues(raw)
		p.variants = append(p.variants, v)
	}
	return nil
}

// Expand produces the ordered concrete instances this proxy represents:
// one per variant row in order (or exactly one when nothing is variant),
// followed by the mirrored counterparts in the same order when Mirrored
// is set.
func (p *Proxy) Expand(tr sym.Transform) ([]*Instance, error) {
	if p.actionID == "" {
		return nil, ErrNoActionID
	}
	if p.spec == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, p.actionID)
	}

	var out []*Instance
	if p.IsVariantAction() {
		for _, name := range p.variantAttrs {
			if a, ok := p.Attr(name); ok && a.IsSet() {
				slog.Warn("Found invariant value for a variant attr.",
					"id", p.actionID, "attr", name)
			}
		}
		for i, v := range p.variants {
			merged := p.Data.Clone()
			for _, name := range v.names {
				va, ok := v.Attr(name)
				if !ok || !va.IsSet() {
					continue
				}
				merged.addAttr(name).Set(va.Get())
			}
			out = append(out, newInstance(merged, i, false))
		}
	} else {
		out = append(out, newInstance(p.Data.Clone(), 0, false))
	}

	if p.Mirrored {
		clone := NewProxy(p.reg, "")
		if err := clone.Deserialize(p.Serialize()); err != nil {
			return nil, err
		}
		// clear the flag before recursing or mirrors would mirror forever
		clone.Mirrored = false
		clone.applyMirror(tr)

		mirrored, err := clone.Expand(tr)
		if err != nil {
			return nil, err
		}
		for _, inst := range mirrored {
			inst.Mirrored = true
		}
		out = append(out, mirrored...)
	}
	return out, nil
}

// applyMirror runs the symmetry transform over every explicitly set value,
// invariant and variant alike.
func (p *Proxy) applyMirror(tr sym.Transform) {
	mirrorData := func(d *Data) {
		for _, a := range d.Attrs() {
			if !a.IsSet() {
				continue
			}
			a.Set(tr.Value(a.Get(), a.Kind()))
		}
	}
	mirrorData(&p.Data)
	for _, v := range p.variants {
		mirrorData(&v.Data)
	}
}

func toStringSlice(raw any) []string {
	switch t := raw.(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func toRowSlice(raw any) []map[string]any {
	switch t := raw.(type) {
	case []map[string]any:
		return t
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}
