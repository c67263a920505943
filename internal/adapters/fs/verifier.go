package fs

import (
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
)

// Verifier checks that recorded build outputs still exist.
type Verifier struct{}

// NewVerifier creates a new Verifier.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// VerifyOutputs reports whether every output exists. Relative outputs are resolved against root.
func (v *Verifier) VerifyOutputs(root string, outputs []string) (bool, error) {
	for _, output := range outputs {
		path := output
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, output)
		}
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, domain.WrapIO(err, "failed to stat output", path)
		}
	}
	return true, nil
}
