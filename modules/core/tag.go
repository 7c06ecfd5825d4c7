package core

import (
	"errors"
	"fmt"

	"github.com/vk/planforge/internal/action"
	"github.com/vk/planforge/internal/attr"
)

// Attribute names of the core.tag action.
const (
	TagAttrNodes = "nodes"
	TagAttrTags  = "tags"
)

var errTagNeedsTags = errors.New("tag needs at least one tag")

func tagSpec() *action.Spec {
	return &action.Spec{
		ID:          "core.tag",
		DisplayName: "Tag",
		Category:    "Core",
		Color:       "#a9b665",
		Description: "Adds tags to a set of nodes.",
		Attrs: []attr.Definition{
			{Name: TagAttrNodes, Kind: attr.KindNodeRefList},
			{Name: TagAttrTags, Kind: attr.KindStringList},
		},
		New: func() action.Runner { return &tagNodes{} },
	}
}

type tagNodes struct{}

func (a *tagNodes) Validate(bc *action.BuildContext) error {
	if len(bc.Data.Strings(TagAttrTags)) == 0 {
		return errTagNeedsTags
	}
	return nil
}

func (a *tagNodes) Run(bc *action.BuildContext) error {
	if err := a.Validate(bc); err != nil {
		return err
	}
	g, err := graphFrom(bc)
	if err != nil {
		return err
	}

	tags := bc.Data.Strings(TagAttrTags)
	for _, name := range bc.Data.NodeRefs(TagAttrNodes) {
		n, ok := g.Node(name)
		if !ok {
			return fmt.Errorf("node not found: %s", name)
		}
		for _, tag := range tags {
			n.AddTag(tag)
		}
	}
	return nil
}
