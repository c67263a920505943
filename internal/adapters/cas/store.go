// Package cas implements the on-disk build info store of incremental extension builds.
package cas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildInfoStore = (*Store)(nil)

// Store implements ports.BuildInfoStore using one JSON file per module.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Get retrieves the build info of module from storeDir. It returns nil, nil when none is recorded.
func (s *Store) Get(storeDir, module string) (*domain.BuildInfo, error) {
	filename := s.filename(storeDir, module)
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreReadFailed, err), "read build info"), "path", filename)
	}

	var info domain.BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreUnmarshalFailed, err), "decode build info"), "path", filename)
	}

	return &info, nil
}

// Put records info in storeDir, replacing any previous record of the same module.
func (s *Store) Put(storeDir string, info domain.BuildInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return zerr.Wrap(errors.Join(domain.ErrStoreMarshalFailed, err), "encode build info")
	}

	if err := os.MkdirAll(storeDir, domain.DirPerm); err != nil {
		return domain.WrapIO(err, "failed to create build info store", storeDir)
	}

	filename := s.filename(storeDir, info.Module)
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreWriteFailed, err), "write build info"), "path", tmp)
	}
	if err := os.Rename(tmp, filename); err != nil {
		_ = os.Remove(tmp)
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreWriteFailed, err), "write build info"), "path", filename)
	}

	return nil
}

func (s *Store) filename(storeDir, module string) string {
	hash := sha256.Sum256([]byte(module))
	return filepath.Join(storeDir, hex.EncodeToString(hash[:])+".json")
}
