package cas_test

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/cas"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestStore_PutAndGet(t *testing.T) {
	storeDir := filepath.Join(t.TempDir(), "store")
	store := cas.NewStore()

	info := domain.BuildInfo{
		Module:     "edb.server.pgproto.pgproto",
		InputHash:  "abc",
		OutputPath: "/lib/edb/server/pgproto/pgproto.so",
		Timestamp:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, store.Put(storeDir, info))

	got, err := store.Get(storeDir, info.Module)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, info, *got)
}

func TestStore_GetMissing(t *testing.T) {
	got, err := cas.NewStore().Get(t.TempDir(), "nothing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Overwrite(t *testing.T) {
	storeDir := t.TempDir()
	store := cas.NewStore()

	require.NoError(t, store.Put(storeDir, domain.BuildInfo{Module: "m", InputHash: "one"}))
	require.NoError(t, store.Put(storeDir, domain.BuildInfo{Module: "m", InputHash: "two"}))

	got, err := store.Get(storeDir, "m")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "two", got.InputHash)

	entries, err := os.ReadDir(storeDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestStore_CorruptRecord(t *testing.T) {
	storeDir := t.TempDir()
	hash := sha256.Sum256([]byte("m"))
	path := filepath.Join(storeDir, hex.EncodeToString(hash[:])+".json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := cas.NewStore().Get(storeDir, "m")
	require.ErrorIs(t, err, domain.ErrStoreUnmarshalFailed)
}
