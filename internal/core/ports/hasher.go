package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// Fingerprinter computes deterministic content digests.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Fingerprinter interface {
	// Fingerprint hashes every file matching the (directory, extension) pairs.
	// A missing directory is an error; an empty match is returned as an empty fingerprint.
	Fingerprint(ctx context.Context, sources []domain.FingerprintSource) (domain.Fingerprint, error)

	// HashFiles hashes the listed files in order together with the salt strings.
	HashFiles(files []string, salt ...string) (string, error)
}
