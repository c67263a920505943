package ports

// ArtifactInstaller places build artifacts at consumer-visible paths.
//
//go:generate go run go.uber.org/mock/mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type ArtifactInstaller interface {
	// Unlink removes the file at path if it exists. A missing file is not an error.
	Unlink(path string) error

	// Replace installs src at dst as a new file. An existing dst is unlinked,
	// never overwritten in place, so processes that mapped it keep their copy.
	Replace(src, dst string) error
}
