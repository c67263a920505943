package domain

import (
	"path/filepath"
	"strings"
)

// Toolchain identifies which toolchain builds an extension unit.
type Toolchain string

const (
	// ToolchainC builds conventional compiled extensions with the host C compiler.
	ToolchainC Toolchain = "c"
	// ToolchainRust builds extensions with cargo.
	ToolchainRust Toolchain = "rust"
)

// ExtensionUnit is a natively compiled module loaded into the host runtime.
type ExtensionUnit struct {
	// Module is the dotted import path of the module, e.g. "edb._edgeql_rust".
	Module string
	// Toolchain selects the builder.
	Toolchain Toolchain
	// Manifest is the Cargo.toml of a Rust unit, relative to the project root.
	Manifest string
	// Sources are the C sources of a C unit, relative to the project root.
	Sources []string
}

// RelativePath returns the module's file path without suffix, e.g. "edb/_edgeql_rust".
func (u ExtensionUnit) RelativePath() string {
	return filepath.FromSlash(strings.ReplaceAll(u.Module, ".", "/"))
}

// OutputPath returns where the unit's artifact lives under root with the given suffix.
func (u ExtensionUnit) OutputPath(root, suffix string) string {
	return filepath.Join(root, u.RelativePath()+suffix)
}

// ExtensionPlacement is the planned destination of a Rust unit's artifact.
type ExtensionPlacement struct {
	Unit ExtensionUnit
	// BuildPath is the artifact location in the build output tree.
	BuildPath string
	// InplacePath is the artifact location inside the source tree.
	InplacePath string
}

// Destinations lists the paths the built artifact is installed to.
// In-place builds install only into the source tree.
func (p ExtensionPlacement) Destinations(inplace bool) []string {
	if inplace || p.BuildPath == p.InplacePath {
		return []string{p.InplacePath}
	}
	return []string{p.BuildPath, p.InplacePath}
}
