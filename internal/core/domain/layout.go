package domain

import "path/filepath"

const (
	// KilnDirName is the name of the internal metadata directory inside the build base.
	KilnDirName = ".kiln"

	// StoreDirName is the name of the extension build info store directory.
	StoreDirName = "store"

	// ManifestFileName is the name of the project manifest.
	ManifestFileName = "kiln.yaml"

	// SettingsFileName is the name of the optional settings file.
	SettingsFileName = ".kiln.yaml"

	// StampFileName is the name of the stamp file inside an engine build directory.
	StampFileName = "stamp"

	// DefaultBuildBase is the default build base directory, relative to the project root.
	DefaultBuildBase = "build"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// ExecPerm is the permission for installed executables and shared objects (rwxr-xr-x).
	ExecPerm = 0o755

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// Layout resolves every directory the orchestrator writes to.
// All fields are absolute once produced by the manifest loader.
type Layout struct {
	// Root is the project root.
	Root string
	// Base is the build base directory.
	Base string
	// Lib is the directory receiving importable build output.
	Lib string
	// Temp holds intermediate artifacts that must never be visible to consumers.
	Temp string
}

// NewLayout builds a layout from a root and optional base, lib and temp overrides.
// Relative overrides are resolved against root; empty ones fall back to the defaults.
func NewLayout(root, base, lib, temp string) Layout {
	root = filepath.Clean(root)
	if base == "" {
		base = DefaultBuildBase
	}
	base = resolve(root, base)

	if lib == "" {
		lib = filepath.Join(base, "lib")
	} else {
		lib = resolve(root, lib)
	}
	if temp == "" {
		temp = filepath.Join(base, "temp")
	} else {
		temp = resolve(root, temp)
	}

	return Layout{Root: root, Base: base, Lib: lib, Temp: temp}
}

func resolve(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}

// Resolve returns p resolved against the project root. Absolute paths are cleaned.
func (l Layout) Resolve(p string) string {
	return resolve(l.Root, p)
}

// EngineDir returns the build directory of the named engine target.
func (l Layout) EngineDir(name string) string {
	return filepath.Join(l.Base, name)
}

// StorePath returns the directory of the extension build info store.
func (l Layout) StorePath() string {
	return filepath.Join(l.Base, KilnDirName, StoreDirName)
}

// RustExtensionsTarget returns the isolated cargo target directory for extensions.
func (l Layout) RustExtensionsTarget() string {
	return filepath.Join(l.Temp, "rust", "extensions")
}

// RustCLITarget returns the isolated cargo target directory for the development CLI.
func (l Layout) RustCLITarget() string {
	return filepath.Join(l.Temp, "rust", "cli")
}

// CLIRoot returns the cargo install root of the development CLI.
func (l Layout) CLIRoot() string {
	return filepath.Join(l.Base, "cli")
}

// GeneratedDir returns the directory receiving transpiled C sources.
func (l Layout) GeneratedDir() string {
	return filepath.Join(l.Temp, "generated")
}
