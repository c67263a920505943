package ports

import "go.trai.ch/kiln/internal/core/domain"

// ConfigLoader defines the interface for loading the project manifest.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the manifest of the project rooted at root. A relative manifest
	// path is resolved against root; empty selects the default file name.
	// When the manifest is absent the built-in project description is returned.
	Load(root, manifest string) (*domain.Project, error)
}
