// Package stamp persists the source stamps of engine builds.
package stamp

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StampStore = (*Store)(nil)

// Store keeps one stamp file per target, at the target's StampPath.
type Store struct {
	logger ports.Logger
}

// NewStore creates a new Store.
func NewStore(logger ports.Logger) *Store {
	return &Store{logger: logger}
}

// Read returns the stamp recorded by the last successful build of target.
func (s *Store) Read(target domain.BuildTarget) (domain.SourceStamp, bool, error) {
	data, err := os.ReadFile(target.StampPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.SourceStamp{}, false, nil
		}
		return domain.SourceStamp{}, false, zerr.With(
			zerr.Wrap(errors.Join(domain.ErrStampReadFailed, err), "read stamp"), "path", target.StampPath)
	}

	stamp, err := domain.ParseSourceStamp(string(data))
	if err != nil {
		return domain.SourceStamp{}, false, zerr.With(zerr.Wrap(err, "read stamp"), "path", target.StampPath)
	}
	return stamp, true, nil
}

// Write records stamp for target. The file is replaced atomically so a crash
// never leaves a partial token behind.
func (s *Store) Write(target domain.BuildTarget, stamp domain.SourceStamp) error {
	dir := filepath.Dir(target.StampPath)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return s.writeErr(err, dir)
	}

	tmp, err := os.CreateTemp(dir, ".stamp-*")
	if err != nil {
		return s.writeErr(err, dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(stamp.String()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return s.writeErr(err, tmpName)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return s.writeErr(err, tmpName)
	}
	if err := os.Rename(tmpName, target.StampPath); err != nil {
		_ = os.Remove(tmpName)
		return s.writeErr(err, target.StampPath)
	}
	return nil
}

// Invalidate removes the recorded stamp of target. A missing stamp is not an error.
func (s *Store) Invalidate(target domain.BuildTarget) error {
	if err := os.Remove(target.StampPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return s.writeErr(err, target.StampPath)
	}
	return nil
}

// IsStale reports whether current differs from the recorded stamp. A target
// that was never built, or whose stamp cannot be parsed, is stale.
func (s *Store) IsStale(target domain.BuildTarget, current domain.SourceStamp) (bool, error) {
	recorded, found, err := s.Read(target)
	if errors.Is(err, domain.ErrInvalidStamp) {
		s.logger.Warn(fmt.Sprintf("ignoring unreadable stamp %s", target.StampPath))
		return true, nil
	}
	if err != nil {
		return false, err
	}
	if !found {
		return true, nil
	}
	return !recorded.Equal(current), nil
}

func (s *Store) writeErr(err error, path string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrStampWriteFailed, err), "write stamp"), "path", path)
}
