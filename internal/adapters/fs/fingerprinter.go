package fs

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

var _ ports.Fingerprinter = (*Fingerprinter)(nil)

// Fingerprinter computes xxhash digests over file trees.
type Fingerprinter struct {
	walker *Walker
	limit  int
}

// NewFingerprinter creates a new Fingerprinter hashing up to GOMAXPROCS files concurrently.
func NewFingerprinter(walker *Walker) *Fingerprinter {
	return &Fingerprinter{walker: walker, limit: runtime.GOMAXPROCS(0)}
}

type fileDigest struct {
	rel  string
	path string
	sum  uint64
}

// Fingerprint hashes every file matching the sources. Each source contributes its files
// in sorted relative-path order, so the result does not depend on directory iteration order.
func (f *Fingerprinter) Fingerprint(ctx context.Context, sources []domain.FingerprintSource) (domain.Fingerprint, error) {
	groups := make([][]fileDigest, len(sources))
	for i, src := range sources {
		files, err := f.collect(src)
		if err != nil {
			return domain.Fingerprint{}, err
		}
		groups[i] = files
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.limit)
	for _, files := range groups {
		for j := range files {
			fd := &files[j]
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				sum, err := ComputeFileHash(fd.path)
				if err != nil {
					return err
				}
				fd.sum = sum
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return domain.Fingerprint{}, err
	}

	hasher := xxhash.New()
	var count int
	for i, files := range groups {
		_, _ = hasher.WriteString(sources[i].Ext)
		_, _ = hasher.Write([]byte{0})
		for _, fd := range files {
			_, _ = hasher.WriteString(fd.rel)
			_, _ = hasher.Write([]byte{0})
			_ = binary.Write(hasher, binary.LittleEndian, fd.sum)
			count++
		}
		_, _ = hasher.Write([]byte{0}) // Section separator
	}

	if count == 0 {
		return domain.Fingerprint{}, nil
	}
	return domain.Fingerprint{Sum: hasher.Sum64(), Files: count}, nil
}

func (f *Fingerprinter) collect(src domain.FingerprintSource) ([]fileDigest, error) {
	info, err := os.Stat(src.Dir)
	if err != nil {
		return nil, domain.WrapIO(err, "failed to stat fingerprint source", src.Dir)
	}
	if !info.IsDir() {
		return nil, domain.WrapIO(errors.New("not a directory"), "fingerprint source is not a directory", src.Dir)
	}

	var walkErr error
	var files []fileDigest
	for path := range f.walker.WalkFiles(src.Dir, src.Ext, &walkErr) {
		rel, err := filepath.Rel(src.Dir, path)
		if err != nil {
			return nil, domain.WrapIO(err, "failed to relativize path", path)
		}
		files = append(files, fileDigest{rel: filepath.ToSlash(rel), path: path})
	}
	if walkErr != nil {
		return nil, domain.WrapIO(walkErr, "failed to walk fingerprint source", src.Dir)
	}

	slices.SortFunc(files, func(a, b fileDigest) int {
		return strings.Compare(a.rel, b.rel)
	})
	return files, nil
}

// HashFiles hashes the files in the given order followed by the salt strings.
// It is used as the input hash of incremental extension builds.
func (f *Fingerprinter) HashFiles(files []string, salt ...string) (string, error) {
	hasher := xxhash.New()

	for _, path := range files {
		sum, err := ComputeFileHash(path)
		if err != nil {
			return "", err
		}
		_, _ = hasher.WriteString(path)
		_, _ = hasher.Write([]byte{0})
		_ = binary.Write(hasher, binary.LittleEndian, sum)
	}
	_, _ = hasher.Write([]byte{0})

	for _, s := range salt {
		_, _ = hasher.WriteString(s)
		_, _ = hasher.Write([]byte{0})
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}

// ComputeFileHash computes the xxhash of a file's content.
func ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, domain.WrapIO(err, "failed to open file", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, domain.WrapIO(err, "failed to hash file content", path)
	}

	return hasher.Sum64(), nil
}
