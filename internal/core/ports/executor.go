// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.trai.ch/kiln/internal/core/domain"
)

// Executor defines the interface for running external tools.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command and blocks until it exits.
	//
	// The command's output is written to stdout and stderr. A non-zero exit
	// status is returned as an error carrying the "exit_code" metadata.
	Execute(ctx context.Context, cmd domain.Command, stdout, stderr io.Writer) error
}
