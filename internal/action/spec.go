package action

import (
	"github.com/vk/planforge/internal/attr"
)

// missingSpecColor is the display color for actions whose spec cannot be
// resolved, so broken references stand out in editors.
const missingSpecColor = "#cc3333"

// Spec is the registered descriptor for one action type. It is immutable
// once added to a registry.
type Spec struct {
	// ID is the globally unique action id, e.g. "core.group".
	ID string
	// DisplayName is the human readable name shown in editors.
	DisplayName string
	// Category groups the action in catalogs and menus.
	Category string
	// Color is an optional display color; category color applies when empty.
	Color string
	// Description documents what the action does.
	Description string
	// Attrs is the ordered list of attribute definitions.
	Attrs []attr.Definition
	// New constructs the Go implementation that performs the work.
	New func() Runner
}

// Valid reports whether the spec can be registered: it needs an id and an
// implementation factory.
func (s *Spec) Valid() bool {
	return s != nil && s.ID != "" && s.New != nil
}

// FindAttr returns the definition of a named attribute.
func (s *Spec) FindAttr(name string) (attr.Definition, bool) {
	for _, def := range s.Attrs {
		if def.Name == name {
			return def, true
		}
	}
	return attr.Definition{}, false
}

// Module is implemented by pluggable action packages that contribute specs
// to a registry at startup.
type Module interface {
	Register(r *Registry)
}
