package action

// Variant holds a partial set of attribute values: exactly the attributes
// the owning proxy has marked as variant, no more, no less.
type Variant struct {
	Data
	names []string
}

// NewVariant creates a variant exposing only the named attributes.
func NewVariant(reg *Registry, actionID string, attrNames []string) *Variant {
	v := &Variant{names: append([]string(nil), attrNames...)}
	v.Data = *newFilteredData(reg, actionID, v.names)
	return v
}

// AttrNames returns the names of the attributes this variant exposes.
func (v *Variant) AttrNames() []string {
	return append([]string(nil), v.names...)
}

// ensureAttr adds a named attribute to the variant's exposed set.
func (v *Variant) ensureAttr(name string) {
	for _, n := range v.names {
		if n == name {
			return
		}
	}
	v.names = append(v.names, name)
	v.addAttr(name)
}

// dropAttr removes a named attribute from the variant's exposed set.
func (v *Variant) dropAttr(name string) {
	for i, n := range v.names {
		if n == name {
			v.names = append(v.names[:i], v.names[i+1:]...)
			break
		}
	}
	v.removeAttr(name)
	delete(v.extra, name)
}

// SerializeValues returns the document form of the variant: values only.
// The action id and attribute name list are the same for every variant of
// a proxy and are stored once on the proxy instead.
func (v *Variant) SerializeValues() map[string]any {
	doc := v.Serialize()
	delete(doc, "id")
	return doc
}
