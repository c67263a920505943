package domain

import "slices"

// Source state strategies of the engine target.
const (
	StateGit         = "git"
	StateFingerprint = "fingerprint"
)

// Project is the resolved description of every sub-build of a project.
type Project struct {
	Layout     Layout
	Engine     EngineSpec
	Grammars   GrammarSet
	Extensions ExtensionSet
	Toolchain  ToolchainSpec
	CLI        CLISpec
	Meta       MetaSpec
}

// EngineSpec describes the embedded engine sub-build.
type EngineSpec struct {
	Name   string
	Source string
	// State selects how the source stamp is computed: StateGit or StateFingerprint.
	State string
	// Extensions filters the files fingerprinted when State is StateFingerprint.
	Extensions []string
}

// Target returns the build target of the engine for the given mode.
func (p *Project) Target(mode BuildMode) BuildTarget {
	t := NewBuildTarget(p.Layout, p.Engine.Name, p.Engine.Source, mode)
	if p.Engine.State != "" {
		t.State = p.Engine.State
	}
	t.StateExtensions = p.Engine.Extensions
	return t
}

// GrammarSet describes the grammar specs and how to compile them.
type GrammarSet struct {
	// Compiler is the argv template; "{spec}" and "{output}" are substituted per spec.
	Compiler []string
	// FingerprintExt filters the grammar sources hashed into the cache key.
	FingerprintExt string
	Specs          []GrammarSpec
}

// SourceDirs returns the distinct source directories of the specs in declaration order.
func (g GrammarSet) SourceDirs() []string {
	var dirs []string
	for _, s := range g.Specs {
		if !slices.Contains(dirs, s.SourceDir) {
			dirs = append(dirs, s.SourceDir)
		}
	}
	return dirs
}

// ExtensionSet describes the native extension units and shared compile flags.
type ExtensionSet struct {
	// Suffix is the shared-object suffix of built modules, e.g. ".so".
	Suffix string
	// Transpiler is the argv template turning a ".pyx" source into C;
	// "{source}" and "{output}" are substituted per source.
	Transpiler []string
	// TranspilerDebug is appended to the transpiler argv in debug mode.
	TranspilerDebug []string
	CFlags          []string
	LDFlags         []string
	Include         []string
	Units           []ExtensionUnit
}

// ByToolchain returns the units built by the given toolchain, in declaration order.
func (e ExtensionSet) ByToolchain(tc Toolchain) []ExtensionUnit {
	var units []ExtensionUnit
	for _, u := range e.Units {
		if u.Toolchain == tc {
			units = append(units, u)
		}
	}
	return units
}

// ToolchainSpec holds toolchain requirements.
type ToolchainSpec struct {
	RustMin string
	// CC is the C compiler. Empty selects $CC or "cc".
	CC string
}

// CLISpec describes the development CLI installed by the develop command.
type CLISpec struct {
	Repo     string
	Bin      string
	Features []string
	// Dest is where the installed binary is placed, relative to the project root.
	Dest string
}

// MetaSpec describes the generated config module.
type MetaSpec struct {
	// Output is the module path relative to the library output directory.
	Output  string
	Version string
}
