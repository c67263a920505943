package fs

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

var _ ports.ArtifactInstaller = (*Installer)(nil)

// Installer places compiled artifacts at their destinations.
type Installer struct{}

// NewInstaller creates a new Installer.
func NewInstaller() *Installer {
	return &Installer{}
}

// Unlink removes path. A missing file is not an error.
func (i *Installer) Unlink(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return domain.WrapIO(err, "failed to unlink artifact", path)
	}
	return nil
}

// Replace copies src to dst. The old dst is unlinked first and the copy is
// renamed into place, so a running process that mapped dst keeps its inode.
func (i *Installer) Replace(src, dst string) error {
	in, err := os.Open(src) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return domain.WrapIO(err, "failed to open artifact", src)
	}
	defer in.Close() //nolint:errcheck // Read-only file

	info, err := in.Stat()
	if err != nil {
		return domain.WrapIO(err, "failed to stat artifact", src)
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return domain.WrapIO(err, "failed to create destination directory", dir)
	}

	if err := i.Unlink(dst); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*")
	if err != nil {
		return domain.WrapIO(err, "failed to create temporary artifact", dir)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		cleanup()
		return domain.WrapIO(err, "failed to copy artifact", dst)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return domain.WrapIO(err, "failed to close temporary artifact", tmpName)
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		cleanup()
		return domain.WrapIO(err, "failed to set artifact mode", tmpName)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		cleanup()
		return domain.WrapIO(err, "failed to install artifact", dst)
	}
	return nil
}
