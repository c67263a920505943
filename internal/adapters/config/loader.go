// Package config loads the project manifest and the layered runtime settings.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// FileConfigLoader implements ports.ConfigLoader using a YAML manifest.
type FileConfigLoader struct{}

// NewLoader creates a new FileConfigLoader.
func NewLoader() *FileConfigLoader {
	return &FileConfigLoader{}
}

// Load reads the manifest of the project rooted at root. A missing manifest
// yields the built-in description of the reference project.
func (l *FileConfigLoader) Load(root, manifest string) (*domain.Project, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrManifestReadFailed, err), "resolve project root"), "root", root)
	}

	path := manifest
	if path == "" {
		path = domain.ManifestFileName
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(absRoot, path)
	}

	m := DefaultManifest()
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrManifestReadFailed, err), "read manifest"), "path", path)
	default:
		if err := decode(data, &m); err != nil {
			return nil, zerr.With(err, "path", path)
		}
	}

	if err := Validate(&m); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return toProject(absRoot, &m), nil
}

// decode overlays the YAML document on m. Unknown keys are rejected.
func decode(data []byte, m *Manifest) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(errors.Join(domain.ErrManifestParseFailed, err), "parse manifest")
	}
	return nil
}

func invalid(key, msg string) error {
	return zerr.With(zerr.Wrap(domain.ErrManifestInvalid, msg), "key", key)
}

// Validate checks the manifest for values no build could succeed with.
func Validate(m *Manifest) error {
	if m.Engine.Name == "" {
		return invalid("engine.name", "engine name is required")
	}
	if m.Engine.Source == "" {
		return invalid("engine.source", "engine source directory is required")
	}
	if m.Engine.State != domain.StateGit && m.Engine.State != domain.StateFingerprint {
		return invalid("engine.state", "engine state must be \"git\" or \"fingerprint\"")
	}

	if len(m.Grammars.Specs) > 0 && !slices.ContainsFunc(m.Grammars.Compiler, hasPlaceholder("{output}")) {
		return invalid("grammars.compiler", "grammar compiler must reference {output}")
	}
	for _, spec := range m.Grammars.Specs {
		if spec.Name == "" || spec.Source == "" {
			return invalid("grammars.specs", "grammar specs need a name and a source")
		}
	}

	seen := make(map[string]bool)
	for _, r := range m.Extensions.Rust {
		if r.Module == "" || r.Manifest == "" {
			return invalid("extensions.rust", "rust extensions need a module and a manifest")
		}
		if seen[r.Module] {
			return invalid("extensions.rust", "duplicate extension module "+r.Module)
		}
		seen[r.Module] = true
	}
	needsTranspiler := false
	for _, c := range m.Extensions.C {
		if c.Module == "" || len(c.Sources) == 0 {
			return invalid("extensions.c", "c extensions need a module and sources")
		}
		if seen[c.Module] {
			return invalid("extensions.c", "duplicate extension module "+c.Module)
		}
		seen[c.Module] = true
		if slices.ContainsFunc(c.Sources, func(s string) bool { return strings.HasSuffix(s, ".pyx") }) {
			needsTranspiler = true
		}
	}
	if needsTranspiler && !slices.ContainsFunc(m.Extensions.Transpiler, hasPlaceholder("{output}")) {
		return invalid("extensions.transpiler", "transpiler must reference {output}")
	}

	if len(m.Extensions.Rust) > 0 && !semver.IsValid("v"+m.Toolchain.RustMin) {
		return invalid("toolchain.rust_min", "minimum rust version is not a version")
	}
	if m.Meta.Output == "" {
		return invalid("meta.output", "meta output path is required")
	}
	return nil
}

func hasPlaceholder(p string) func(string) bool {
	return func(arg string) bool { return strings.Contains(arg, p) }
}

func toProject(root string, m *Manifest) *domain.Project {
	specs := make([]domain.GrammarSpec, len(m.Grammars.Specs))
	for i, s := range m.Grammars.Specs {
		specs[i] = domain.GrammarSpec{Name: s.Name, SourceDir: s.Source}
	}

	units := make([]domain.ExtensionUnit, 0, len(m.Extensions.Rust)+len(m.Extensions.C))
	for _, r := range m.Extensions.Rust {
		units = append(units, domain.ExtensionUnit{Module: r.Module, Toolchain: domain.ToolchainRust, Manifest: r.Manifest})
	}
	for _, c := range m.Extensions.C {
		units = append(units, domain.ExtensionUnit{Module: c.Module, Toolchain: domain.ToolchainC, Sources: c.Sources})
	}

	return &domain.Project{
		Layout: domain.NewLayout(root, m.Build.Base, m.Build.Lib, m.Build.Temp),
		Engine: domain.EngineSpec{
			Name:       m.Engine.Name,
			Source:     m.Engine.Source,
			State:      m.Engine.State,
			Extensions: m.Engine.Extensions,
		},
		Grammars: domain.GrammarSet{
			Compiler:       m.Grammars.Compiler,
			FingerprintExt: m.Grammars.FingerprintExt,
			Specs:          specs,
		},
		Extensions: domain.ExtensionSet{
			Suffix:          m.Extensions.Suffix,
			Transpiler:      m.Extensions.Transpiler,
			TranspilerDebug: m.Extensions.TranspilerDebug,
			CFlags:          m.Extensions.CFlags,
			LDFlags:         m.Extensions.LDFlags,
			Include:         m.Extensions.Include,
			Units:           units,
		},
		Toolchain: domain.ToolchainSpec{RustMin: m.Toolchain.RustMin, CC: m.Toolchain.CC},
		CLI: domain.CLISpec{
			Repo:     m.CLI.Repo,
			Bin:      m.CLI.Bin,
			Features: m.CLI.Features,
			Dest:     m.CLI.Dest,
		},
		Meta: domain.MetaSpec{Output: m.Meta.Output, Version: m.Meta.Version},
	}
}
