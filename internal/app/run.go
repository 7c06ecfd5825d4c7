package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/planforge/internal/blueprint"
	"github.com/vk/planforge/internal/builder"
	"github.com/vk/planforge/internal/ctxlog"
	"github.com/vk/planforge/internal/fsutil"
	"github.com/vk/planforge/internal/scene"
)

// Run executes the main application logic based on the provided
// configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.Init != "" {
		return a.initBlueprint()
	}

	paths, err := a.resolvePlanPaths()
	if err != nil {
		return err
	}

	failed := 0
	for _, path := range paths {
		if err := a.runOne(ctx, path); err != nil {
			a.logger.Error("Plan failed.", "path", path, "error", err)
			fmt.Fprintf(a.outW, "%s: %v\n", path, err)
			failed++
		}
		if ctx.Err() != nil {
			break
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d plans failed", failed, len(paths))
	}
	return nil
}

// resolvePlanPaths expands the plan path: a directory means every
// blueprint file under it.
func (a *App) resolvePlanPaths() ([]string, error) {
	info, err := os.Stat(a.config.PlanPath)
	if err != nil {
		return nil, fmt.Errorf("reading blueprint path: %w", err)
	}
	if !info.IsDir() {
		return []string{a.config.PlanPath}, nil
	}
	paths, err := fsutil.FindFilesByExtension(a.config.PlanPath, ".yaml")
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no blueprint files found under %s", a.config.PlanPath)
	}
	return paths, nil
}

// runOne loads and runs a single blueprint in the configured mode.
func (a *App) runOne(ctx context.Context, path string) error {
	bp := blueprint.New(a.registry)
	if err := bp.Load(path); err != nil {
		return err
	}
	if a.config.ConfigPath != "" {
		bp.SetConfigPath(a.config.ConfigPath)
	}
	if err := bp.PreBuildValidate(); err != nil {
		return err
	}
	a.logger.Debug("Blueprint loaded.", "path", path, "name", bp.Name())

	graph := scene.NewGraph()
	var b *builder.Builder
	if a.config.Mode == ModeValidate {
		b = builder.NewValidator(bp, graph)
	} else {
		b = builder.New(bp, graph)
	}
	b.CancelOnInterrupt = a.config.CancelOnInterrupt

	if !b.Start(ctx, true) {
		return fmt.Errorf("could not start the %s run", a.config.Mode)
	}
	a.report(b, graph)

	if errs := b.Errors(); len(errs) > 0 {
		return fmt.Errorf("%s ended with %d errors", a.config.Mode, len(errs))
	}
	// a one-shot process cannot resume a paused run, so anything short
	// of a clean finish is a failure
	switch b.State() {
	case builder.StatusFinished:
		return nil
	case builder.StatusCanceled:
		return fmt.Errorf("%s run was canceled", a.config.Mode)
	default:
		return fmt.Errorf("%s run stopped %s", a.config.Mode, string(b.State()))
	}
}

// report prints the human-readable run outcome to the output writer.
func (a *App) report(b *builder.Builder, graph *scene.Graph) {
	fmt.Fprintf(a.outW, "%s %s: %d of %d actions in %.3fs\n",
		a.config.Mode, string(b.State()), b.Executed(), b.Progress().Total,
		b.Elapsed().Seconds())
	if a.config.Mode == ModeBuild {
		fmt.Fprintf(a.outW, "scene nodes: %d\n", graph.Len())
	}
	for _, e := range b.Errors() {
		fmt.Fprintf(a.outW, "  error in %s: %v\n", e.Path, e.Err)
	}
}

// initBlueprint writes a fresh default blueprint to the plan path.
func (a *App) initBlueprint() error {
	bp := blueprint.NewDefault(a.registry, a.config.Init)
	if err := bp.Save(a.config.PlanPath); err != nil {
		return err
	}
	fmt.Fprintf(a.outW, "created %s for %q\n", a.config.PlanPath, a.config.Init)
	return nil
}
