package action

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/planforge/internal/attr"
)

// RootOutput is the privileged shared build output created during the
// setup phase and handed to every action. It is opaque to the core; the
// host decides what it is (the in-memory scene root, for instance). It is
// the sanctioned channel for build-wide shared state between actions.
type RootOutput any

// NodeResolver is the host scene-graph boundary: the core only needs to
// ask whether a referenced node exists.
type NodeResolver interface {
	Exists(name string) bool
}

// BuildContext carries everything an action implementation may use while
// validating or running. It is constructed fresh for every instance.
type BuildContext struct {
	Context context.Context
	Logger  *slog.Logger
	// RunID identifies the build run driving this action.
	RunID string
	// Data holds the instance's fully resolved attribute values.
	Data *Data
	// Root is the privileged root output; nil in validate mode.
	Root RootOutput
	// Nodes resolves node references against the host scene.
	Nodes NodeResolver
	// Settings exposes the blueprint settings, read-only by convention.
	Settings map[string]any
}

// Runner is the contract an action implementation fulfills. Validate must
// be free of side effects; Run performs the real work. Both may fail.
type Runner interface {
	Validate(ctx *BuildContext) error
	Run(ctx *BuildContext) error
}

// AbortsOnError is optionally implemented by runners whose failure makes
// every subsequent action meaningless or unsafe; the builder stops the
// run immediately after such a runner fails instead of continuing.
type AbortsOnError interface {
	AbortOnError() bool
}

// Instance is one concrete, executable action produced by expanding a
// proxy. Instances are transient: created per build run, discarded after
// Run or RunValidate completes.
type Instance struct {
	data   *Data
	runner Runner

	// VariantIndex is the variant row this instance was expanded from.
	VariantIndex int
	// Mirrored marks instances produced by mirror expansion.
	Mirrored bool
}

func newInstance(data *Data, variantIndex int, mirrored bool) *Instance {
	return &Instance{
		data:         data,
		runner:       data.spec.New(),
		VariantIndex: variantIndex,
		Mirrored:     mirrored,
	}
}

// ActionID returns the id of the action type this instance executes.
func (i *Instance) ActionID() string { return i.data.actionID }

// Data returns the instance's resolved attribute values.
func (i *Instance) Data() *Data { return i.data }

// Run executes the action.
func (i *Instance) Run(ctx *BuildContext) error {
	ctx.Data = i.data
	return i.runner.Run(ctx)
}

// RunValidate checks the instance without side effects: node list
// references must resolve against the host scene, then the runner's own
// Validate is consulted.
func (i *Instance) RunValidate(ctx *BuildContext) error {
	ctx.Data = i.data
	if err := i.checkNodeRefs(ctx); err != nil {
		return err
	}
	return i.runner.Validate(ctx)
}

// AbortOnError reports whether this instance's failure should stop the
// whole run.
func (i *Instance) AbortOnError() bool {
	a, ok := i.runner.(AbortsOnError)
	return ok && a.AbortOnError()
}

// checkNodeRefs fails when a node list contains a reference that does not
// resolve. This is deliberately a run-time check, not an attribute-value
// check: a reference can go stale long after it was set.
func (i *Instance) checkNodeRefs(ctx *BuildContext) error {
	if ctx.Nodes == nil {
		return nil
	}
	for _, a := range i.data.Attrs() {
		if a.Kind() != attr.KindNodeRefList {
			continue
		}
		for _, ref := range i.data.NodeRefs(a.Name()) {
			if !ctx.Nodes.Exists(ref) {
				return fmt.Errorf("%s contains a missing node: %s", a.Name(), ref)
			}
		}
	}
	return nil
}
