package sourcestate_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/sourcestate"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func gitTarget() domain.BuildTarget {
	layout := domain.NewLayout("/src/proj", "", "", "")
	return domain.NewBuildTarget(layout, "postgres", "postgres", domain.DefaultBuildMode())
}

func expectStatus(executor *mocks.MockExecutor, output string) {
	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command, stdout, _ io.Writer) error {
			if cmd.Dir != "/src/proj" {
				return errors.New("unexpected dir " + cmd.Dir)
			}
			if cmd.String() != "git submodule status postgres" {
				return errors.New("unexpected command " + cmd.String())
			}
			_, err := io.WriteString(stdout, output)
			return err
		})
}

func TestGit_Current(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   domain.SourceStamp
	}{
		{
			name:   "clean with describe suffix",
			output: " 9f1c2e0d postgres (REL_12_1)\n",
			want:   domain.NewSourceStamp(domain.StatusClean, "9f1c2e0d"),
		},
		{
			name:   "modified",
			output: "+abc123 postgres (heads/master)\n",
			want:   domain.NewSourceStamp(domain.StatusModified, "abc123"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			executor := mocks.NewMockExecutor(ctrl)
			expectStatus(executor, tt.output)

			got, err := sourcestate.NewProvider(executor, nil).Current(context.Background(), gitTarget())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGit_Uninitialized(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	expectStatus(executor, "-9f1c2e0d postgres\n")

	_, err := sourcestate.NewProvider(executor, nil).Current(context.Background(), gitTarget())
	require.ErrorIs(t, err, domain.ErrSourceStateUnavailable)

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	assert.Contains(t, zErr.Metadata()["hint"], "git submodule init; git submodule update")
}

func TestGit_CommandFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	executor.EXPECT().
		Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("not a git repository"))

	_, err := sourcestate.NewProvider(executor, nil).Current(context.Background(), gitTarget())
	require.ErrorIs(t, err, domain.ErrSourceStateUnavailable)
}

func TestGit_EmptyOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	expectStatus(executor, "")

	_, err := sourcestate.NewProvider(executor, nil).Current(context.Background(), gitTarget())
	require.ErrorIs(t, err, domain.ErrSourceStateUnavailable)
}

func fingerprintTarget(t *testing.T) domain.BuildTarget {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "postgres")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "src"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(src, "src", "main.c"), []byte("int main;"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(src, "configure"), []byte("#!/bin/sh"), 0o600))

	p := &domain.Project{
		Layout: domain.NewLayout(root, "", "", ""),
		Engine: domain.EngineSpec{Name: "postgres", Source: "postgres", State: domain.StateFingerprint, Extensions: []string{".c"}},
	}
	return p.Target(domain.DefaultBuildMode())
}

func TestFingerprint_Current(t *testing.T) {
	target := fingerprintTarget(t)
	provider := sourcestate.NewProvider(nil, fs.NewFingerprinter(fs.NewWalker()))

	first, err := provider.Current(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClean, first.Status)
	assert.Len(t, first.Revision, 16)

	require.NoError(t, os.WriteFile(filepath.Join(target.SourceDir, "configure"), []byte("changed"), 0o600))
	same, err := provider.Current(context.Background(), target)
	require.NoError(t, err)
	assert.Equal(t, first, same, "files outside the extension filter are ignored")

	require.NoError(t, os.WriteFile(filepath.Join(target.SourceDir, "src", "main.c"), []byte("int main(void);"), 0o600))
	moved, err := provider.Current(context.Background(), target)
	require.NoError(t, err)
	assert.NotEqual(t, first, moved)
}

func TestFingerprint_EmptyTree(t *testing.T) {
	target := fingerprintTarget(t)
	target.StateExtensions = []string{".rs"}

	_, err := sourcestate.NewProvider(nil, fs.NewFingerprinter(fs.NewWalker())).Current(context.Background(), target)
	require.ErrorIs(t, err, domain.ErrSourceStateUnavailable)
	assert.ErrorIs(t, err, domain.ErrEmptyFingerprint)
}

func TestProvider_UnknownStrategy(t *testing.T) {
	target := gitTarget()
	target.State = "svn"

	_, err := sourcestate.NewProvider(nil, nil).Current(context.Background(), target)
	require.ErrorIs(t, err, domain.ErrSourceStateUnavailable)
}
