// Package fs provides file system adapters for walking, fingerprinting and installing files.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"strings"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file below root whose name ends with ext,
// skipping VCS metadata directories. Paths are yielded with root as prefix.
// Walk errors are reported through the error pointer, if non-nil.
func (w *Walker) WalkFiles(root, ext string, walkErr *error) iter.Seq[string] {
	return func(yield func(string) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				if isVCSDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), ext) {
				return nil
			}

			if !yield(path) {
				return filepath.SkipAll
			}

			return nil
		})
		if walkErr != nil {
			*walkErr = err
		}
	}
}

func isVCSDir(name string) bool {
	return name == ".git" || name == ".jj" || name == ".hg"
}
