package domain

import "go.trai.ch/zerr"

var (
	// ErrToolchainMissing is returned when a required compiler or tool is not installed.
	ErrToolchainMissing = zerr.New("required toolchain is not installed")

	// ErrToolchainTooOld is returned when an installed toolchain is older than the required minimum.
	ErrToolchainTooOld = zerr.New("installed toolchain is too old")

	// ErrToolchainFailure is returned when an external toolchain step exits with a non-zero status.
	ErrToolchainFailure = zerr.New("toolchain step failed")

	// ErrSourceStateUnavailable is returned when the state of a tracked source tree cannot be determined.
	ErrSourceStateUnavailable = zerr.New("source state unavailable")

	// ErrIO is returned when a filesystem operation fails during hashing, copying or stamping.
	ErrIO = zerr.New("filesystem operation failed")

	// ErrUnsupportedPlatform is returned when the host system has no known configure flags.
	ErrUnsupportedPlatform = zerr.New("unsupported platform")

	// ErrEmptyFingerprint is returned when a fingerprint filter matched no files.
	ErrEmptyFingerprint = zerr.New("fingerprint matched no files")

	// ErrManifestInvalid is returned when the project manifest fails validation.
	ErrManifestInvalid = zerr.New("invalid project manifest")

	// ErrManifestReadFailed is returned when the project manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read project manifest")

	// ErrManifestParseFailed is returned when the project manifest cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse project manifest")

	// ErrSettingsLoadFailed is returned when the layered settings cannot be loaded.
	ErrSettingsLoadFailed = zerr.New("failed to load settings")

	// ErrStampReadFailed is returned when a persisted stamp cannot be read.
	ErrStampReadFailed = zerr.New("failed to read stamp")

	// ErrStampWriteFailed is returned when a stamp cannot be persisted.
	ErrStampWriteFailed = zerr.New("failed to write stamp")

	// ErrInvalidStamp is returned when a stamp token is malformed.
	ErrInvalidStamp = zerr.New("invalid stamp")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreUnmarshalFailed is returned when the build info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when the build info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrCargoManifestInvalid is returned when a Cargo manifest does not describe a library.
	ErrCargoManifestInvalid = zerr.New("invalid cargo manifest")

	// ErrInvalidVersion is returned when a project version string cannot be parsed.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrBuildFailed is returned by the application layer when a build command fails.
	ErrBuildFailed = zerr.New("build failed")

	// ErrEmptyPipelineStep is returned when a pipeline step has no command.
	ErrEmptyPipelineStep = zerr.New("pipeline step has no command")
)
