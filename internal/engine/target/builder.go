// Package target builds heavyweight sub-builds gated by their source stamp.
package target

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// Result describes the outcome of one target build.
type Result struct {
	// Built is false when the target was up to date.
	Built bool
	Plan  domain.EnginePlan
	Stamp domain.SourceStamp
}

// Builder runs the configure/make/install pipeline of an engine target.
type Builder struct {
	state  ports.SourceStateProvider
	stamps ports.StampStore
	runner *pipeline.Runner
	logger ports.Logger
	goos   string
}

// NewBuilder creates a Builder for the host operating system.
func NewBuilder(
	state ports.SourceStateProvider,
	stamps ports.StampStore,
	runner *pipeline.Runner,
	logger ports.Logger,
) *Builder {
	return &Builder{
		state:  state,
		stamps: stamps,
		runner: runner,
		logger: logger,
		goos:   runtime.GOOS,
	}
}

// Build rebuilds the target when its source stamp moved or the mode forces it.
// The previous stamp is removed before the first step and a new one is
// persisted only after every step succeeded.
func (b *Builder) Build(ctx context.Context, t domain.BuildTarget) (Result, error) {
	current, err := b.state.Current(ctx, t)
	if err != nil {
		return Result{}, err
	}

	stale, err := b.stamps.IsStale(t, current)
	if err != nil {
		return Result{}, err
	}

	plan := domain.PlanEngineBuild(stale, t.Mode)
	result := Result{Plan: plan, Stamp: current}
	if !plan.Build {
		b.logger.Info(t.Name + " is up to date")
		return result, nil
	}

	uuidLib, err := uuidLibrary(b.goos)
	if err != nil {
		return result, err
	}

	if plan.Clean {
		if err := os.RemoveAll(t.BuildDir); err != nil {
			return result, domain.WrapIO(err, "failed to remove build directory", t.BuildDir)
		}
	}
	if err := os.MkdirAll(t.WorkDir(), domain.DirPerm); err != nil {
		return result, domain.WrapIO(err, "failed to create build directory", t.WorkDir())
	}

	// A forced build over an up-to-date tree must not leave a matching stamp behind if it fails.
	if err := b.stamps.Invalidate(t); err != nil {
		return result, err
	}

	if err := b.runner.Run(ctx, Pipeline(t, plan, uuidLib)); err != nil {
		return result, err
	}

	if err := b.stamps.Write(t, current); err != nil {
		return result, err
	}

	result.Built = true
	return result, nil
}

// Pipeline returns the steps of a planned engine build.
func Pipeline(t domain.BuildTarget, plan domain.EnginePlan, uuidLib string) *domain.Pipeline {
	dir := t.WorkDir()
	cmd := func(args ...string) domain.Command {
		return domain.Command{Args: args, Dir: dir}
	}

	return domain.NewPipeline(t.Name).
		AddIf(plan.Configure, domain.Step{
			Name: "configure",
			Command: cmd(
				filepath.Join(t.SourceDir, "configure"),
				"--prefix="+t.InstallDir(),
				"--with-uuid="+uuidLib,
			),
		}).
		Add(domain.Step{Name: "make", Command: cmd("make", "MAKELEVEL=0"), Parallel: true}).
		AddIf(plan.Contrib, domain.Step{
			Name:     "make contrib",
			Command:  cmd("make", "-C", "contrib", "MAKELEVEL=0"),
			Parallel: true,
		}).
		Add(domain.Step{Name: "make install", Command: cmd("make", "MAKELEVEL=0", "install")}).
		AddIf(plan.Contrib, domain.Step{
			Name:    "make contrib install",
			Command: cmd("make", "-C", "contrib", "MAKELEVEL=0", "install"),
		})
}

// uuidLibrary returns the UUID implementation selected at configure time.
func uuidLibrary(goos string) (string, error) {
	switch goos {
	case "darwin", "linux":
		return "e2fs", nil
	default:
		return "", zerr.With(zerr.Wrap(domain.ErrUnsupportedPlatform, "no configure flags for this system"), "system", goos)
	}
}
