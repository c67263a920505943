package ports

import "go.trai.ch/kiln/internal/core/domain"

// MetaWriter emits the generated config module.
//
//go:generate go run go.uber.org/mock/mockgen -source=meta.go -destination=mocks/mock_meta.go -package=mocks
type MetaWriter interface {
	// Write renders meta to path, creating parent directories as needed.
	Write(path string, meta domain.BuildMeta) error
}
