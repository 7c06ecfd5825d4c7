// Package core provides the built-in actions every blueprint can rely
// on: claiming the build output, grouping, placing and tagging nodes.
package core

import (
	"errors"

	"github.com/vk/planforge/internal/action"
	"github.com/vk/planforge/internal/scene"
)

// Module implements the action.Module interface for this package.
type Module struct{}

// Register adds all built-in action specs to a registry.
func (m *Module) Register(r *action.Registry) {
	r.Add(claimOutputSpec())
	r.Add(groupSpec())
	r.Add(placeSpec())
	r.Add(tagSpec())
}

var errNoScene = errors.New("build has no scene graph")

// graphFrom narrows the node resolver to the concrete scene graph the
// built-in actions mutate.
func graphFrom(bc *action.BuildContext) (*scene.Graph, error) {
	g, ok := bc.Nodes.(*scene.Graph)
	if !ok || g == nil {
		return nil, errNoScene
	}
	return g, nil
}
