package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initPlan(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	cfg, err := NewConfig(Config{
		PlanPath: path,
		Mode:     ModeBuild,
		Init:     "biped",
		LogLevel: "error",
	})
	require.NoError(t, err)
	out := &bytes.Buffer{}
	require.NoError(t, NewApp(out, cfg).Run(context.Background()))
	return path
}

func TestRunBuildsPlan(t *testing.T) {
	path := initPlan(t)
	cfg, err := NewConfig(Config{PlanPath: path, Mode: ModeBuild, LogLevel: "error"})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	require.NoError(t, NewApp(out, cfg).Run(context.Background()))
	assert.Contains(t, out.String(), "build finished")
}

// An interrupt without cancel-on-interrupt pauses the builder; the
// one-shot process cannot resume it, so the run must report failure
// instead of exiting cleanly after a partial build.
func TestRunFailsWhenInterruptedRunPauses(t *testing.T) {
	path := initPlan(t)
	cfg, err := NewConfig(Config{PlanPath: path, Mode: ModeBuild, LogLevel: "error"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := &bytes.Buffer{}
	err = NewApp(out, cfg).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plans failed")
	assert.Contains(t, out.String(), "stopped paused")
}

func TestRunFailsWhenInterruptedRunCancels(t *testing.T) {
	path := initPlan(t)
	cfg, err := NewConfig(Config{
		PlanPath:          path,
		Mode:              ModeBuild,
		CancelOnInterrupt: true,
		LogLevel:          "error",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := &bytes.Buffer{}
	err = NewApp(out, cfg).Run(ctx)
	require.Error(t, err)
	assert.Contains(t, out.String(), "canceled")
}
