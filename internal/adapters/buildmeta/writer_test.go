package buildmeta_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/buildmeta"
	"go.trai.ch/kiln/internal/core/domain"
)

func TestWriter_Render(t *testing.T) {
	tests := []struct {
		name string
		meta domain.BuildMeta
	}{
		{
			name: "full",
			meta: domain.BuildMeta{
				ToolPath:   "/usr/lib/postgresql/bin/pg_config",
				RuntimeDir: "/run/edgedb",
				SharedDir:  "/usr/share/edgedb",
				Version: domain.Version{
					Major: 1, Minor: 0, Stage: domain.StageAlpha, StageNo: 3,
					Local: []string{"g1234abc", "d20200101"},
				},
			},
		},
		{
			name: "defaults",
			meta: domain.BuildMeta{
				ToolPath: "/opt/pg_config",
				Version:  domain.Version{Major: 2, Minor: 1, Stage: domain.StageFinal},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildmeta.NewWriter().Render(tt.meta)
			require.NoError(t, err)

			g := goldie.New(t)
			g.Assert(t, "buildmeta_"+tt.name, got)
		})
	}
}

func TestWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edb", "server", "_buildmeta.py")

	require.NoError(t, buildmeta.NewWriter().Write(path, domain.BuildMeta{ToolPath: "/x"}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "PG_CONFIG_PATH = '/x'\n")
}

func TestPyStr(t *testing.T) {
	assert.Equal(t, "None", buildmeta.PyStr(""))
	assert.Equal(t, "'plain'", buildmeta.PyStr("plain"))
	assert.Equal(t, `"it's"`, buildmeta.PyStr("it's"))
	assert.Equal(t, `'both \' and "'`, buildmeta.PyStr(`both ' and "`))
	assert.Equal(t, `'C:\\tools'`, buildmeta.PyStr(`C:\tools`))
	assert.Equal(t, `'a\nb'`, buildmeta.PyStr("a\nb"))
	assert.Equal(t, `'\x01'`, buildmeta.PyStr("\x01"))
}

func TestPyVersion(t *testing.T) {
	assert.Equal(t, "(1, 0, 40, 0, ())", buildmeta.PyVersion(domain.Version{Major: 1, Stage: domain.StageFinal}))
	assert.Equal(t, "(1, 0, 0, 5, ('g1',))", buildmeta.PyVersion(domain.Version{
		Major: 1, Stage: domain.StageDev, StageNo: 5, Local: []string{"g1"},
	}))
}
