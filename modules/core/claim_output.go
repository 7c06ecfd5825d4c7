package core

import (
	"errors"
	"fmt"

	"github.com/vk/planforge/internal/action"
	"github.com/vk/planforge/internal/attr"
	"github.com/vk/planforge/internal/scene"
)

// Attribute names of the core.claim_output action.
const (
	ClaimAttrTag = "tag"
)

// OutputTag is the default tag stamped onto a claimed output node.
const OutputTag = "output"

var errNoRoot = errors.New("no root output was created")

func claimOutputSpec() *action.Spec {
	return &action.Spec{
		ID:          "core.claim_output",
		DisplayName: "Claim Output",
		Category:    "Core",
		Color:       "#d8a657",
		Description: "Claims the build output node and stamps it with the run id. " +
			"Must succeed before anything destructive happens.",
		Attrs: []attr.Definition{
			{Name: ClaimAttrTag, Kind: attr.KindString, Optional: true},
		},
		New: func() action.Runner { return &claimOutput{} },
	}
}

type claimOutput struct{}

func (a *claimOutput) Validate(bc *action.BuildContext) error { return nil }

// AbortOnError marks this action as run-critical: later actions assume
// a claimed output exists and are unsafe without one.
func (a *claimOutput) AbortOnError() bool { return true }

func (a *claimOutput) Run(bc *action.BuildContext) error {
	root, ok := bc.Root.(*scene.Node)
	if !ok || root == nil {
		return errNoRoot
	}
	tag := bc.Data.String(ClaimAttrTag)
	if tag == "" {
		tag = OutputTag
	}
	root.AddTag(tag)
	root.SetAttr("runID", bc.RunID)
	bc.Logger.Info(fmt.Sprintf("Claimed output: %s", root.Name()))
	return nil
}
