package toolchain

import (
	"errors"
	"strings"

	"github.com/BurntSushi/toml"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CargoInspector = (*CargoInspector)(nil)

type cargoManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Lib struct {
		Name string `toml:"name"`
	} `toml:"lib"`
}

// CargoInspector reads Cargo.toml files.
type CargoInspector struct{}

// NewCargoInspector creates a new CargoInspector.
func NewCargoInspector() *CargoInspector {
	return &CargoInspector{}
}

// LibraryName returns the library target name: [lib] name if set, otherwise the
// package name with dashes replaced by underscores, as cargo does.
func (c *CargoInspector) LibraryName(manifestPath string) (string, error) {
	var m cargoManifest
	if _, err := toml.DecodeFile(manifestPath, &m); err != nil {
		return "", zerr.With(zerr.Wrap(errors.Join(domain.ErrCargoManifestInvalid, err), "decode cargo manifest"), "path", manifestPath)
	}

	if m.Lib.Name != "" {
		return m.Lib.Name, nil
	}
	if m.Package.Name == "" {
		return "", zerr.With(zerr.Wrap(domain.ErrCargoManifestInvalid, "manifest has no package name"), "path", manifestPath)
	}
	return strings.ReplaceAll(m.Package.Name, "-", "_"), nil
}
