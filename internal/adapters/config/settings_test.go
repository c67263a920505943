package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/config"
	"go.trai.ch/kiln/internal/core/domain"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("kiln", pflag.ContinueOnError)
	fs.Bool("debug", false, "")
	fs.Bool("json", false, "")
	fs.Int("jobs", 0, "")
	fs.String("manifest", "", "")
	return fs
}

func TestLoadSettings_Defaults(t *testing.T) {
	dir := t.TempDir()

	s, err := config.LoadSettings(dir, newFlags())
	require.NoError(t, err)

	assert.Equal(t, dir, s.Project)
	assert.Equal(t, domain.ManifestFileName, s.Manifest)
	assert.False(t, s.Debug)
	assert.Zero(t, s.Jobs)
}

func TestLoadSettings_Precedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SettingsFileName),
		[]byte("jobs: 2\njson: true\nmanifest: file.yaml\n"), 0o600))

	t.Run("file over defaults", func(t *testing.T) {
		s, err := config.LoadSettings(dir, newFlags())
		require.NoError(t, err)
		assert.Equal(t, 2, s.Jobs)
		assert.True(t, s.JSON)
		assert.Equal(t, "file.yaml", s.Manifest)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("KILN_JOBS", "4")
		t.Setenv("KILN_DEBUG", "true")

		s, err := config.LoadSettings(dir, newFlags())
		require.NoError(t, err)
		assert.Equal(t, 4, s.Jobs)
		assert.True(t, s.Debug)
	})

	t.Run("changed flags over env", func(t *testing.T) {
		t.Setenv("KILN_JOBS", "4")

		flags := newFlags()
		require.NoError(t, flags.Parse([]string{"--jobs", "8"}))

		s, err := config.LoadSettings(dir, flags)
		require.NoError(t, err)
		assert.Equal(t, 8, s.Jobs)
		assert.Equal(t, "file.yaml", s.Manifest, "unchanged flags do not override")
	})
}

func TestLoadSettings_NegativeJobs(t *testing.T) {
	t.Setenv("KILN_JOBS", "-1")

	_, err := config.LoadSettings(t.TempDir(), nil)
	require.ErrorIs(t, err, domain.ErrSettingsLoadFailed)
}

func TestLoadSettings_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SettingsFileName), []byte("jobs: [\n"), 0o600))

	_, err := config.LoadSettings(dir, nil)
	require.ErrorIs(t, err, domain.ErrSettingsLoadFailed)
}
