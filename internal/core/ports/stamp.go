package ports

import "go.trai.ch/kiln/internal/core/domain"

// StampStore persists the source stamp of the last successful build of a target.
//
//go:generate go run go.uber.org/mock/mockgen -source=stamp.go -destination=mocks/mock_stamp.go -package=mocks
type StampStore interface {
	// Read returns the persisted stamp. found is false when no build has completed yet.
	Read(target domain.BuildTarget) (stamp domain.SourceStamp, found bool, err error)

	// Write atomically persists the stamp after a successful build.
	Write(target domain.BuildTarget, stamp domain.SourceStamp) error

	// Invalidate removes the persisted stamp before a build starts, so an
	// interrupted build is retried by the next invocation.
	Invalidate(target domain.BuildTarget) error

	// IsStale reports whether the target must be rebuilt for the current stamp.
	IsStale(target domain.BuildTarget, current domain.SourceStamp) (bool, error)
}
