package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vk/planforge/internal/action"
	"github.com/vk/planforge/internal/blueprint"
	"github.com/vk/planforge/internal/compiler"
	"github.com/vk/planforge/internal/ctxlog"
	"github.com/vk/planforge/internal/scene"
	"github.com/vk/planforge/internal/sym"
)

// Status is the lifecycle state of a Builder.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusStarted    Status = "started"
	StatusRunning    Status = "running"
	StatusPaused     Status = "paused"
	StatusFinished   Status = "finished"
	StatusCanceled   Status = "canceled"
)

// Phase is the coarse position within a run, reported in progress
// records.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseActions  Phase = "actions"
	PhaseFinished Phase = "finished"
)

// setup advances through two units: creating the root output, then
// compiling the plan.
const setupUnits = 2

// Progress is the record emitted after every advanced unit.
type Progress struct {
	Index  int
	Total  int
	Phase  Phase
	Status Status
}

// BuildError is one recorded action failure.
type BuildError struct {
	Path     string
	ActionID string
	Err      error
}

func (e BuildError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Path, e.ActionID, e.Err)
}

func (e BuildError) Unwrap() error { return e.Err }

// RootFactory produces the privileged root output a build starts from.
type RootFactory func(b *Builder) (action.RootOutput, error)

// MessageHook formats one of the run boundary messages, letting build
// and validate mode present distinct summaries over identical
// mechanics.
type MessageHook func(b *Builder) string

// Builder executes one blueprint once. Drive it either with Start and
// Run, or manually one unit at a time with Next. A finished or canceled
// Builder refuses to restart.
type Builder struct {
	id           string
	bp           *blueprint.Blueprint
	graph        *scene.Graph
	validateMode bool

	// CancelOnInterrupt makes an observed interrupt cancel the run
	// instead of pausing it.
	CancelOnInterrupt bool

	// RootFactory overrides how the root output is created in build
	// mode. The default claims a node named after the blueprint.
	RootFactory RootFactory

	startMessage  MessageHook
	finishMessage MessageHook

	status      Status
	phase       Phase
	setupIndex  int
	plan        *compiler.Plan
	actionIndex int
	executed    int
	root        action.RootOutput
	errs        []BuildError
	startTime   time.Time
	elapsed     time.Duration
}

// New creates a build-mode Builder for a blueprint, producing output
// into a scene graph.
func New(bp *blueprint.Blueprint, graph *scene.Graph) *Builder {
	b := newBuilder(bp, graph)
	b.startMessage = func(b *Builder) string {
		return fmt.Sprintf("Started building: %s", b.bp.Name())
	}
	b.finishMessage = func(b *Builder) string {
		return fmt.Sprintf("Build %s: %s (%d errors, %.3fs)",
			b.outcome(), b.bp.Name(), len(b.errs), b.elapsed.Seconds())
	}
	return b
}

// NewValidator creates a validate-mode Builder. No root output is
// created and actions only run their side-effect-free checks.
func NewValidator(bp *blueprint.Blueprint, graph *scene.Graph) *Builder {
	b := newBuilder(bp, graph)
	b.validateMode = true
	b.startMessage = func(b *Builder) string {
		return fmt.Sprintf("Started validating: %s", b.bp.Name())
	}
	b.finishMessage = func(b *Builder) string {
		return fmt.Sprintf("Validate %s: %s (%d errors, %.3fs)",
			b.outcome(), b.bp.Name(), len(b.errs), b.elapsed.Seconds())
	}
	return b
}

func newBuilder(bp *blueprint.Blueprint, graph *scene.Graph) *Builder {
	return &Builder{
		id:     uuid.NewString(),
		bp:     bp,
		graph:  graph,
		status: StatusNotStarted,
		phase:  PhaseSetup,
	}
}

// SetMessageHooks overrides the run boundary messages.
func (b *Builder) SetMessageHooks(start, finish MessageHook) {
	if start != nil {
		b.startMessage = start
	}
	if finish != nil {
		b.finishMessage = finish
	}
}

// ID returns the unique id of this run.
func (b *Builder) ID() string { return b.id }

// ValidateMode reports whether this Builder only validates.
func (b *Builder) ValidateMode() bool { return b.validateMode }

// State returns the current lifecycle status.
func (b *Builder) State() Status { return b.status }

// IsTerminal reports whether the run has ended.
func (b *Builder) IsTerminal() bool {
	return b.status == StatusFinished || b.status == StatusCanceled
}

// Errors returns the failures recorded so far.
func (b *Builder) Errors() []BuildError {
	return append([]BuildError(nil), b.errs...)
}

// Executed returns how many plan units have run.
func (b *Builder) Executed() int { return b.executed }

// Elapsed returns the wall time of the run, zero until it ends.
func (b *Builder) Elapsed() time.Duration { return b.elapsed }

// Root returns the root output created during setup, nil in validate
// mode.
func (b *Builder) Root() action.RootOutput { return b.root }

// Progress returns the current progress record.
func (b *Builder) Progress() Progress {
	p := Progress{Phase: b.phase, Status: b.status}
	if b.plan != nil {
		p.Total = b.plan.Total()
	}
	switch b.phase {
	case PhaseSetup:
		p.Index = b.setupIndex
	case PhaseActions:
		p.Index = b.actionIndex
	default:
		p.Index = p.Total
	}
	return p
}

// Start transitions the Builder from NotStarted to Started and, when
// run is true, immediately drives the whole plan. Starting twice, or
// after a terminal state, is rejected with a log.
func (b *Builder) Start(ctx context.Context, run bool) bool {
	logger := ctxlog.FromContext(ctx)
	if b.status != StatusNotStarted {
		logger.Warn("Cannot start a builder twice.",
			"runID", b.id, "status", string(b.status))
		return false
	}
	b.status = StatusStarted
	b.startTime = time.Now()
	logger.Info(b.startMessage(b), "runID", b.id)
	if run {
		b.Run(ctx)
	}
	return true
}

// Run advances the plan until it finishes or the context is done.
// Cancellation is cooperative: the context is polled between units
// only. On interrupt the run either cancels or pauses, depending on
// CancelOnInterrupt.
func (b *Builder) Run(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	if b.status != StatusStarted && b.status != StatusPaused {
		logger.Warn("Builder is not in a runnable state.",
			"runID", b.id, "status", string(b.status))
		return
	}
	b.status = StatusRunning
	for b.status == StatusRunning {
		if ctx.Err() != nil {
			if b.CancelOnInterrupt {
				logger.Warn("Interrupted, canceling.", "runID", b.id)
				b.Cancel(ctx)
			} else {
				logger.Info("Interrupted, pausing.", "runID", b.id)
				b.status = StatusPaused
			}
			return
		}
		b.Next(ctx)
	}
}

// Next advances exactly one unit of the plan and returns the resulting
// progress record. Calling Next on a terminal or never-started Builder
// does nothing.
func (b *Builder) Next(ctx context.Context) Progress {
	if b.status == StatusNotStarted {
		ctxlog.FromContext(ctx).Warn("Builder was never started.", "runID", b.id)
		return b.Progress()
	}
	if b.IsTerminal() {
		return b.Progress()
	}
	if b.status == StatusStarted || b.status == StatusPaused {
		b.status = StatusRunning
	}
	switch b.phase {
	case PhaseSetup:
		b.nextSetup(ctx)
	case PhaseActions:
		b.nextAction(ctx)
	}
	if b.phase == PhaseFinished && !b.IsTerminal() {
		b.finish(ctx)
	}
	return b.Progress()
}

// Pause stops a running Builder between units so a later Run or Next
// can resume it. Does nothing in any other state.
func (b *Builder) Pause(ctx context.Context) {
	if b.status != StatusRunning {
		ctxlog.FromContext(ctx).Warn("Builder is not running.",
			"runID", b.id, "status", string(b.status))
		return
	}
	b.status = StatusPaused
}

// Cancel terminally stops the run. Valid from any non-terminal started
// state; canceling twice is a logged no-op.
func (b *Builder) Cancel(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	if b.IsTerminal() {
		logger.Warn("Builder already ended.",
			"runID", b.id, "status", string(b.status))
		return
	}
	if b.status == StatusNotStarted {
		logger.Warn("Builder was never started.", "runID", b.id)
		return
	}
	b.status = StatusCanceled
	b.phase = PhaseFinished
	b.summarize(ctx)
}

func (b *Builder) finish(ctx context.Context) {
	b.status = StatusFinished
	b.phase = PhaseFinished
	b.summarize(ctx)
}

func (b *Builder) summarize(ctx context.Context) {
	b.elapsed = time.Since(b.startTime)
	logger := ctxlog.FromContext(ctx).With(
		"runID", b.id,
		"errors", len(b.errs),
		"executed", b.executed,
		"elapsed", b.elapsed,
	)
	msg := b.finishMessage(b)
	if len(b.errs) > 0 {
		logger.Warn(msg)
	} else {
		logger.Info(msg)
	}
}

func (b *Builder) outcome() string {
	if b.status == StatusCanceled {
		return "canceled"
	}
	return "finished"
}

// nextSetup performs one of the two setup units: creating the root
// output, then compiling the plan. Validate mode never creates a root.
func (b *Builder) nextSetup(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	switch b.setupIndex {
	case 0:
		if !b.validateMode {
			root, err := b.makeRoot()
			if err != nil {
				logger.Error("Failed to create the root output.",
					"runID", b.id, "error", err)
				b.errs = append(b.errs, BuildError{Path: "", ActionID: "", Err: err})
				b.Cancel(ctx)
				return
			}
			b.root = root
		}
	case 1:
		plan := compiler.Compile(b.bp.Root(), b.transform())
		for _, s := range plan.Steps {
			for _, err := range s.ValidateResults() {
				b.errs = append(b.errs, BuildError{
					Path:     s.FullPath(),
					ActionID: s.Action().ActionID(),
					Err:      err,
				})
			}
		}
		b.plan = plan
		logger.Debug("Plan compiled.",
			"runID", b.id, "actions", plan.Total(), "failedSteps", plan.Errors)
	}
	b.setupIndex++
	if b.setupIndex >= setupUnits {
		b.phase = PhaseActions
		if b.plan.Total() == 0 {
			b.phase = PhaseFinished
		}
	}
}

func (b *Builder) makeRoot() (action.RootOutput, error) {
	if b.RootFactory != nil {
		return b.RootFactory(b)
	}
	return b.graph.CreateNode(b.bp.Name(), "output")
}

// transform builds the symmetry transform for this run: token naming
// from the blueprint config, node pairing from the scene graph.
func (b *Builder) transform() sym.Transform {
	return sym.Transform{Config: b.bp.Config(), Pairs: b.graph}
}

// nextAction executes one concrete action. A failure is recorded on the
// owning step and in the run-wide error list and the run continues,
// unless the action requests abort on error, which cancels the run
// immediately.
func (b *Builder) nextAction(ctx context.Context) {
	unit := b.plan.Units[b.actionIndex]
	b.actionIndex++

	path := unit.Step.FullPath()
	logger := ctxlog.FromContext(ctx).With(
		"runID", b.id,
		"step", path,
		"action", unit.Instance.ActionID(),
	)
	bc := &action.BuildContext{
		Context:  ctx,
		Logger:   logger,
		RunID:    b.id,
		Root:     b.root,
		Nodes:    b.graph,
		Settings: b.bp.Settings(),
	}

	var err error
	if b.validateMode {
		err = unit.Instance.RunValidate(bc)
	} else {
		err = unit.Instance.Run(bc)
	}
	b.executed++

	if err != nil {
		logger.Error("Action failed.", "error", err)
		unit.Step.AddValidateError(err)
		b.errs = append(b.errs, BuildError{
			Path:     path,
			ActionID: unit.Instance.ActionID(),
			Err:      err,
		})
		if unit.Instance.AbortOnError() {
			logger.Error("Action aborts the run on failure.")
			b.Cancel(ctx)
			return
		}
	}

	if b.actionIndex >= b.plan.Total() {
		b.phase = PhaseFinished
	}
}
