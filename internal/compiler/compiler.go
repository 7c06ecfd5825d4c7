// Package compiler flattens a blueprint's step tree into the ordered,
// fully expanded plan a build executes.
//
// Compilation is total: a step whose action fails to expand gets the
// failure recorded on the step and contributes nothing to the plan, but
// never stops the other steps from compiling.
package compiler

import (
	"fmt"

	"github.com/vk/planforge/internal/action"
	"github.com/vk/planforge/internal/step"
	"github.com/vk/planforge/internal/sym"
)

// Unit is one executable entry of a plan: a concrete action instance
// and the step it came from.
type Unit struct {
	Step     *step.Step
	Instance *action.Instance
}

// Plan is the ordered action list compiled from a step tree.
type Plan struct {
	Units []Unit

	// Steps holds every enabled action step that was compiled, including
	// the ones that failed to expand.
	Steps []*step.Step

	// Errors counts the steps that failed to expand.
	Errors int
}

// Total returns the number of executable units.
func (p *Plan) Total() int { return len(p.Units) }

// Compile walks a step tree depth first and expands every enabled
// action step with the symmetry transform. Previously recorded
// validation results are cleared on every visited step.
func Compile(root *step.Step, tr sym.Transform) *Plan {
	plan := &Plan{}
	root.WalkEnabled(func(s *step.Step) {
		s.ClearValidateResults()
		if !s.IsAction() {
			return
		}
		plan.Steps = append(plan.Steps, s)

		instances, err := s.Action().Expand(tr)
		if err != nil {
			s.AddValidateError(fmt.Errorf("step %s: %w", s.FullPath(), err))
			plan.Errors++
			return
		}
		for _, inst := range instances {
			plan.Units = append(plan.Units, Unit{Step: s, Instance: inst})
		}
	})
	return plan
}
