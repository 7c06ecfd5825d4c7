package core

import (
	"errors"
	"fmt"

	"github.com/vk/planforge/internal/action"
	"github.com/vk/planforge/internal/attr"
)

// Attribute names of the core.group action.
const (
	GroupAttrName   = "name"
	GroupAttrParent = "parent"
)

var errGroupNeedsName = errors.New("group name is required")

func groupSpec() *action.Spec {
	return &action.Spec{
		ID:          "core.group",
		DisplayName: "Group",
		Category:    "Core",
		Color:       "#a9b665",
		Description: "Creates an empty group node, optionally under a parent.",
		Attrs: []attr.Definition{
			{Name: GroupAttrName, Kind: attr.KindString},
			{Name: GroupAttrParent, Kind: attr.KindNodeRef, Optional: true},
		},
		New: func() action.Runner { return &group{} },
	}
}

type group struct{}

func (a *group) Validate(bc *action.BuildContext) error {
	if bc.Data.String(GroupAttrName) == "" {
		return errGroupNeedsName
	}
	return nil
}

func (a *group) Run(bc *action.BuildContext) error {
	if err := a.Validate(bc); err != nil {
		return err
	}
	g, err := graphFrom(bc)
	if err != nil {
		return err
	}

	n, err := g.CreateNode(bc.Data.String(GroupAttrName), "group")
	if err != nil {
		return err
	}
	if parent := bc.Data.NodeRef(GroupAttrParent); parent != "" {
		p, ok := g.Node(parent)
		if !ok {
			return fmt.Errorf("parent not found: %s", parent)
		}
		g.Parent(n, p)
	}
	return nil
}
