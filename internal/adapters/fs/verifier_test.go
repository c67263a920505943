package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
)

func TestVerifier_VerifyOutputs(t *testing.T) {
	tmpDir := t.TempDir()
	verifier := fs.NewVerifier()

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "out1.so"), []byte("content"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "out2.so"), []byte("content"), 0o600))

	exists, err := verifier.VerifyOutputs(tmpDir, []string{"out1.so", "out2.so"})
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = verifier.VerifyOutputs(tmpDir, []string{"out1.so", "missing.so"})
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = verifier.VerifyOutputs("/elsewhere", []string{filepath.Join(tmpDir, "out1.so")})
	require.NoError(t, err)
	assert.True(t, exists, "absolute outputs ignore root")
}
