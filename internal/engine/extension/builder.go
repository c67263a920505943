// Package extension builds the native extension units of a project.
package extension

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// Placeholders substituted in the transpiler argv template.
const (
	SourcePlaceholder = "{source}"
	OutputPlaceholder = "{output}"
)

// Options selects how extensions are built.
type Options struct {
	// Inplace installs artifacts into the source tree only.
	Inplace bool
	// Debug switches to debug compile flags and bypasses the incremental cache.
	Debug bool
}

// Builder compiles Rust and C extension units and installs their artifacts.
type Builder struct {
	runner    *pipeline.Runner
	checker   ports.ToolchainChecker
	cargo     ports.CargoInspector
	installer ports.ArtifactInstaller
	hasher    ports.Fingerprinter
	verifier  ports.Verifier
	store     ports.BuildInfoStore
	logger    ports.Logger

	goos   string
	getenv func(string) string
	now    func() time.Time
}

// NewBuilder creates a Builder for the host operating system.
func NewBuilder(
	runner *pipeline.Runner,
	checker ports.ToolchainChecker,
	cargo ports.CargoInspector,
	installer ports.ArtifactInstaller,
	hasher ports.Fingerprinter,
	verifier ports.Verifier,
	store ports.BuildInfoStore,
	logger ports.Logger,
) *Builder {
	return &Builder{
		runner:    runner,
		checker:   checker,
		cargo:     cargo,
		installer: installer,
		hasher:    hasher,
		verifier:  verifier,
		store:     store,
		logger:    logger,
		goos:      runtime.GOOS,
		getenv:    os.Getenv,
		now:       time.Now,
	}
}

// Build compiles the Rust units first, then the C units. The first failure stops the build.
func (b *Builder) Build(ctx context.Context, p *domain.Project, opts Options) error {
	if err := b.BuildRust(ctx, p, opts); err != nil {
		return err
	}
	return b.BuildC(ctx, p, opts)
}

// BuildRust verifies the toolchain, clears in-place artifacts, runs cargo in an
// isolated target directory and installs the fresh libraries.
func (b *Builder) BuildRust(ctx context.Context, p *domain.Project, opts Options) error {
	units := p.Extensions.ByToolchain(domain.ToolchainRust)
	if len(units) == 0 {
		return nil
	}

	if _, err := b.checker.Check(ctx, p.Toolchain.RustMin); err != nil {
		return err
	}

	placements := Plan(p, units)
	libs := make([]string, len(units))
	for i, u := range units {
		lib, err := b.cargo.LibraryName(p.Layout.Resolve(u.Manifest))
		if err != nil {
			return err
		}
		libs[i] = lib
	}

	if !opts.Inplace {
		// A module mapped by a running process must be unlinked, never overwritten.
		for _, pl := range placements {
			if err := b.installer.Unlink(pl.InplacePath); err != nil {
				return err
			}
		}
	}

	targetDir := p.Layout.RustExtensionsTarget()
	pipe := domain.NewPipeline("rust extensions")
	for _, u := range units {
		args := []string{"cargo", "build", "--manifest-path", p.Layout.Resolve(u.Manifest), "--lib"}
		if !opts.Debug {
			args = append(args, "--release")
		}
		pipe.Add(domain.Step{
			Name: "cargo " + u.Module,
			Command: domain.Command{
				Args: args,
				Dir:  p.Layout.Root,
				Env:  map[string]string{"CARGO_TARGET_DIR": targetDir},
			},
		})
	}

	if err := b.runner.Run(ctx, pipe); err != nil {
		return err
	}

	for i, pl := range placements {
		artifact := CargoArtifact(targetDir, libs[i], opts.Debug, b.goos)
		for _, dst := range pl.Destinations(opts.Inplace) {
			if err := b.installer.Replace(artifact, dst); err != nil {
				return err
			}
		}
	}
	return nil
}

// Plan computes the build and in-place destinations of each unit.
func Plan(p *domain.Project, units []domain.ExtensionUnit) []domain.ExtensionPlacement {
	placements := make([]domain.ExtensionPlacement, len(units))
	for i, u := range units {
		placements[i] = domain.ExtensionPlacement{
			Unit:        u,
			BuildPath:   u.OutputPath(p.Layout.Lib, p.Extensions.Suffix),
			InplacePath: u.OutputPath(p.Layout.Root, p.Extensions.Suffix),
		}
	}
	return placements
}

// CargoArtifact returns where cargo leaves the shared library of crate lib.
func CargoArtifact(targetDir, lib string, debug bool, goos string) string {
	profile := "release"
	if debug {
		profile = "debug"
	}

	var name string
	switch goos {
	case "darwin":
		name = "lib" + lib + ".dylib"
	case "windows":
		name = lib + ".dll"
	default:
		name = "lib" + lib + ".so"
	}
	return filepath.Join(targetDir, profile, name)
}

// BuildC transpiles and compiles each C unit whose inputs changed since its last build.
func (b *Builder) BuildC(ctx context.Context, p *domain.Project, opts Options) error {
	units := p.Extensions.ByToolchain(domain.ToolchainC)
	if len(units) == 0 {
		return nil
	}

	cc := b.compiler(p)
	cflags := CompileFlags(p.Extensions.CFlags, opts.Debug)

	outRoot := p.Layout.Lib
	if opts.Inplace {
		outRoot = p.Layout.Root
	}

	for _, u := range units {
		if err := b.buildC(ctx, p, u, cc, cflags, outRoot, opts); err != nil {
			return zerr.With(err, "module", u.Module)
		}
	}
	return nil
}

func (b *Builder) buildC(
	ctx context.Context,
	p *domain.Project,
	u domain.ExtensionUnit,
	cc, cflags []string,
	outRoot string,
	opts Options,
) error {
	out := u.OutputPath(outRoot, p.Extensions.Suffix)
	storeDir := p.Layout.StorePath()

	sources := make([]string, len(u.Sources))
	for i, s := range u.Sources {
		sources[i] = p.Layout.Resolve(s)
	}

	salt := slices.Concat([]string{u.Module, out}, cc, cflags, p.Extensions.LDFlags, p.Extensions.Include)
	if opts.Debug {
		salt = append(salt, p.Extensions.TranspilerDebug...)
	}
	inputHash, err := b.hasher.HashFiles(sources, salt...)
	if err != nil {
		return err
	}

	if !opts.Debug {
		fresh, err := b.upToDate(p.Layout.Root, storeDir, u.Module, inputHash, out)
		if err != nil {
			return err
		}
		if fresh {
			b.logger.Info(u.Module + " is up to date")
			return nil
		}
	}

	pipe := domain.NewPipeline(u.Module)
	cSources := make([]string, 0, len(sources))
	for i, src := range sources {
		if filepath.Ext(src) != ".pyx" {
			cSources = append(cSources, src)
			continue
		}
		if len(p.Extensions.Transpiler) == 0 {
			return zerr.With(zerr.Wrap(domain.ErrManifestInvalid, "no transpiler configured"), "key", "extensions.transpiler")
		}

		generated := generatedPath(p.Layout, u.Sources[i])
		if err := os.MkdirAll(filepath.Dir(generated), domain.DirPerm); err != nil {
			return domain.WrapIO(err, "failed to create generated source directory", filepath.Dir(generated))
		}

		args := transpilerArgs(p.Extensions.Transpiler, src, generated)
		if opts.Debug {
			args = append(args, p.Extensions.TranspilerDebug...)
		}
		pipe.Add(domain.Step{
			Name:    "transpile " + u.Sources[i],
			Command: domain.Command{Args: args, Dir: p.Layout.Root},
		})
		cSources = append(cSources, generated)
	}

	staging := filepath.Join(p.Layout.Temp, "ext", u.RelativePath()+p.Extensions.Suffix)
	if err := os.MkdirAll(filepath.Dir(staging), domain.DirPerm); err != nil {
		return domain.WrapIO(err, "failed to create staging directory", filepath.Dir(staging))
	}

	pipe.Add(domain.Step{
		Name:    "compile " + u.Module,
		Command: domain.Command{Args: b.compileArgs(p, cc, cflags, staging, cSources), Dir: p.Layout.Root},
	})

	if err := b.runner.Run(ctx, pipe); err != nil {
		return err
	}

	if err := b.installer.Replace(staging, out); err != nil {
		return err
	}

	return b.store.Put(storeDir, domain.BuildInfo{
		Module:     u.Module,
		InputHash:  inputHash,
		OutputPath: out,
		Timestamp:  b.now(),
	})
}

// upToDate reports whether the recorded build of module matches inputHash and its output still exists.
// An unreadable record counts as a miss.
func (b *Builder) upToDate(root, storeDir, module, inputHash, out string) (bool, error) {
	info, err := b.store.Get(storeDir, module)
	if err != nil || info == nil {
		return false, nil //nolint:nilerr // a corrupt record only forces a rebuild
	}
	if info.InputHash != inputHash || info.OutputPath != out {
		return false, nil
	}
	return b.verifier.VerifyOutputs(root, []string{out})
}

func (b *Builder) compileArgs(p *domain.Project, cc, cflags []string, output string, sources []string) []string {
	args := slices.Concat(cc, cflags)
	if b.goos != "windows" {
		args = append(args, "-fPIC")
	}
	args = append(args, "-shared")
	for _, inc := range p.Extensions.Include {
		args = append(args, "-I"+p.Layout.Resolve(inc))
	}
	args = append(args, "-o", output)
	args = append(args, sources...)
	return append(args, p.Extensions.LDFlags...)
}

// compiler returns the C compiler argv: the manifest's, then $CC, then "cc".
func (b *Builder) compiler(p *domain.Project) []string {
	if p.Toolchain.CC != "" {
		return strings.Fields(p.Toolchain.CC)
	}
	if cc := strings.Fields(b.getenv("CC")); len(cc) > 0 {
		return cc
	}
	return []string{"cc"}
}

// debugDefines are added to every compile in debug mode.
var debugDefines = []string{"-DPG_DEBUG", "-DCYTHON_TRACE", "-DCYTHON_TRACE_NOGIL"}

// CompileFlags returns the C flags for the mode. Debug mode replaces optimization
// levels with "-O0 -g" and adds the tracing defines.
func CompileFlags(base []string, debug bool) []string {
	if !debug {
		return slices.Clone(base)
	}
	flags := []string{"-O0", "-g"}
	for _, f := range base {
		if strings.HasPrefix(f, "-O") {
			continue
		}
		flags = append(flags, f)
	}
	return append(flags, debugDefines...)
}

func generatedPath(layout domain.Layout, source string) string {
	rel := source
	if filepath.IsAbs(rel) {
		rel = filepath.Base(rel)
	}
	return filepath.Join(layout.GeneratedDir(), strings.TrimSuffix(filepath.Clean(rel), ".pyx")+".c")
}

func transpilerArgs(template []string, source, output string) []string {
	r := strings.NewReplacer(SourcePlaceholder, source, OutputPlaceholder, output)
	args := make([]string, len(template))
	for i, a := range template {
		args[i] = r.Replace(a)
	}
	return args
}
