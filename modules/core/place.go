package core

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/planforge/internal/action"
	"github.com/vk/planforge/internal/attr"
)

// Attribute names of the core.place action.
const (
	PlaceAttrNode     = "node"
	PlaceAttrPosition = "position"
	PlaceAttrSpace    = "space"
	PlaceAttrScale    = "scale"
)

// Space option indices of core.place.
const (
	SpaceWorld = iota
	SpaceParent
)

var errPlaceNeedsNode = errors.New("place needs a node")

func placeSpec() *action.Spec {
	return &action.Spec{
		ID:          "core.place",
		DisplayName: "Place",
		Category:    "Core",
		Color:       "#a9b665",
		Description: "Moves a node to a position, in world or parent space.",
		Attrs: []attr.Definition{
			{Name: PlaceAttrNode, Kind: attr.KindNodeRef},
			{Name: PlaceAttrPosition, Kind: attr.KindVector3},
			{
				Name:    PlaceAttrSpace,
				Kind:    attr.KindOption,
				Options: []string{"world", "parent"},
			},
			{
				Name:    PlaceAttrScale,
				Kind:    attr.KindFloat,
				Default: cty.NumberFloatVal(1),
				Min:     floatPtr(0.001),
				Max:     floatPtr(1000),
			},
		},
		New: func() action.Runner { return &place{} },
	}
}

func floatPtr(f float64) *float64 { return &f }

type place struct{}

func (a *place) Validate(bc *action.BuildContext) error {
	if bc.Data.NodeRef(PlaceAttrNode) == "" {
		return errPlaceNeedsNode
	}
	return nil
}

func (a *place) Run(bc *action.BuildContext) error {
	if err := a.Validate(bc); err != nil {
		return err
	}
	g, err := graphFrom(bc)
	if err != nil {
		return err
	}

	name := bc.Data.NodeRef(PlaceAttrNode)
	n, ok := g.Node(name)
	if !ok {
		return fmt.Errorf("node not found: %s", name)
	}

	pos := bc.Data.Vector3(PlaceAttrPosition)
	scale := bc.Data.Float(PlaceAttrScale)
	for i := range pos {
		pos[i] *= scale
	}
	if bc.Data.Int(PlaceAttrSpace) == SpaceParent {
		if p := n.Parent(); p != nil {
			base := p.Position()
			for i := range pos {
				pos[i] += base[i]
			}
		}
	}
	n.SetPosition(pos)
	return nil
}
