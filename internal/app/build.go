package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
)

// MetaOptions are the values written to the generated config module.
type MetaOptions struct {
	ToolPath      string
	RunstateDir   string
	SharedDir     string
	VersionSuffix string
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	// Meta is emitted after the build when Meta.ToolPath is set.
	Meta MetaOptions
}

// Build runs every sub-build: the engine when its stamp moved, the grammars, the
// native extensions and, when requested, the generated config module.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	return a.run(ctx, "build", func(ctx context.Context, p *domain.Project) error {
		if err := a.buildEngine(ctx, p, domain.DefaultBuildMode()); err != nil {
			return err
		}
		if err := a.buildParsers(ctx, p, false); err != nil {
			return err
		}
		if err := a.extensions.Build(ctx, p, a.extensionOptions(false)); err != nil {
			return err
		}
		if opts.Meta.ToolPath == "" {
			return nil
		}
		return a.buildMeta(p, opts.Meta)
	})
}

// BuildEngine builds the embedded engine with the given mode.
func (a *App) BuildEngine(ctx context.Context, mode domain.BuildMode) error {
	return a.run(ctx, "build-engine", func(ctx context.Context, p *domain.Project) error {
		return a.buildEngine(ctx, p, mode)
	})
}

// BuildParsers compiles every grammar into the library tree, mirroring the
// artifacts into the source tree when inplace is set.
func (a *App) BuildParsers(ctx context.Context, inplace bool) error {
	return a.run(ctx, "build-parsers", func(ctx context.Context, p *domain.Project) error {
		return a.buildParsers(ctx, p, inplace)
	})
}

// BuildExt builds the native extensions.
func (a *App) BuildExt(ctx context.Context, inplace bool) error {
	return a.run(ctx, "build-ext", func(ctx context.Context, p *domain.Project) error {
		return a.extensions.Build(ctx, p, a.extensionOptions(inplace))
	})
}

// BuildMeta writes the generated config module into the library tree.
func (a *App) BuildMeta(ctx context.Context, opts MetaOptions) error {
	return a.run(ctx, "build-meta", func(_ context.Context, p *domain.Project) error {
		return a.buildMeta(p, opts)
	})
}

// Develop prepares an editable checkout: it installs the development CLI, builds
// the extensions in place, mirrors the grammars into the source tree and builds the engine.
func (a *App) Develop(ctx context.Context) error {
	return a.run(ctx, "develop", func(ctx context.Context, p *domain.Project) error {
		if err := a.installCLI(ctx, p); err != nil {
			return err
		}
		if err := a.extensions.Build(ctx, p, a.extensionOptions(true)); err != nil {
			return err
		}
		if err := a.buildParsers(ctx, p, true); err != nil {
			return err
		}
		return a.buildEngine(ctx, p, domain.DefaultBuildMode())
	})
}

func (a *App) buildEngine(ctx context.Context, p *domain.Project, mode domain.BuildMode) error {
	res, err := a.engine.Build(ctx, p.Target(mode))
	if err != nil {
		return err
	}
	if res.Built {
		a.logger.Info(fmt.Sprintf("built %s at %q", p.Engine.Name, res.Stamp.String()))
	}
	return nil
}

func (a *App) buildParsers(ctx context.Context, p *domain.Project, mirror bool) error {
	artifacts, err := a.grammars.Compile(ctx, p.Layout.Root, p.Grammars, p.Layout.Lib, mirror)
	if err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("compiled %d grammar(s)", len(artifacts)))
	return nil
}

func (a *App) buildMeta(p *domain.Project, opts MetaOptions) error {
	version, err := domain.ParseVersion(p.Meta.Version, opts.VersionSuffix)
	if err != nil {
		return err
	}

	path := filepath.Join(p.Layout.Lib, p.Meta.Output)
	if err := a.meta.Write(path, domain.BuildMeta{
		ToolPath:   opts.ToolPath,
		RuntimeDir: opts.RunstateDir,
		SharedDir:  opts.SharedDir,
		Version:    version,
	}); err != nil {
		return err
	}
	a.logger.Info("wrote " + p.Meta.Output)
	return nil
}

// installCLI builds the development CLI with cargo into <base>/cli and places it in the source tree.
func (a *App) installCLI(ctx context.Context, p *domain.Project) error {
	if _, err := a.checker.Check(ctx, p.Toolchain.RustMin); err != nil {
		return err
	}

	cli := p.CLI
	if cli.Repo == "" || cli.Bin == "" {
		a.logger.Warn("no development CLI configured, skipping install")
		return nil
	}

	root := p.Layout.CLIRoot()
	args := []string{
		"cargo", "install",
		"--verbose", "--verbose",
		"--git", cli.Repo,
		"--bin", cli.Bin,
		"--root", root,
	}
	if len(cli.Features) > 0 {
		args = append(args, "--features="+strings.Join(cli.Features, ","))
	}
	args = append(args, "--locked", "--debug")

	pipe := domain.NewPipeline("develop").Add(domain.Step{
		Name: "cargo install " + cli.Bin,
		Command: domain.Command{
			Args: args,
			Dir:  p.Layout.Root,
			Env: map[string]string{
				"CARGO_TARGET_DIR":  p.Layout.RustCLITarget(),
				"PSQL_DEFAULT_PATH": p.Target(domain.DefaultBuildMode()).BinDir(),
			},
		},
	})
	if err := a.runner.Run(ctx, pipe); err != nil {
		return err
	}

	if cli.Dest == "" {
		return nil
	}
	return a.installer.Replace(filepath.Join(root, "bin", cli.Bin), p.Layout.Resolve(cli.Dest))
}
