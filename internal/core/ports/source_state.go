package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// SourceStateProvider computes the current stamp of a target's source tree.
//
//go:generate go run go.uber.org/mock/mockgen -source=source_state.go -destination=mocks/mock_source_state.go -package=mocks
type SourceStateProvider interface {
	// Current returns the stamp of the target's source tree as it is now.
	Current(ctx context.Context, target domain.BuildTarget) (domain.SourceStamp, error)
}
