package ports

import "go.trai.ch/kiln/internal/core/domain"

// BuildInfoStore defines the interface for storing and retrieving extension build information.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type BuildInfoStore interface {
	// Get retrieves the build info for a given module.
	// Returns nil, nil if not found.
	Get(storeDir, module string) (*domain.BuildInfo, error)

	// Put stores the build info.
	Put(storeDir string, info domain.BuildInfo) error
}
