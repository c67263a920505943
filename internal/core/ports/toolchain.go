package ports

import "context"

// ToolchainChecker verifies that an external compiler is installed and recent enough.
//
//go:generate go run go.uber.org/mock/mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks
type ToolchainChecker interface {
	// Check returns the installed version or an ErrToolchainMissing / ErrToolchainTooOld error.
	Check(ctx context.Context, minimum string) (string, error)
}

// CargoInspector reads cargo manifests.
type CargoInspector interface {
	// LibraryName returns the crate's library target name as used in the artifact file name.
	LibraryName(manifestPath string) (string, error)
}
