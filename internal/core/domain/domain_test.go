package domain_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestSourceStamp_RoundTrip(t *testing.T) {
	tests := []struct {
		token    string
		status   domain.SourceStatus
		revision string
	}{
		{token: "-abc123", status: domain.StatusUninitialized, revision: "abc123"},
		{token: "+abc123", status: domain.StatusModified, revision: "abc123"},
		{token: " 9f1c2e", status: domain.StatusClean, revision: "9f1c2e"},
		{token: "Udeadbeef\n", status: domain.StatusConflict, revision: "deadbeef"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			stamp, err := domain.ParseSourceStamp(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.status, stamp.Status)
			assert.Equal(t, tt.revision, stamp.Revision)
			assert.Equal(t, string(rune(tt.status))+tt.revision, stamp.String())
		})
	}
}

func TestSourceStamp_ParseInvalid(t *testing.T) {
	_, err := domain.ParseSourceStamp("+")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidStamp))

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	assert.Equal(t, "+", zErr.Metadata()["token"])
}

func TestSourceStamp_Equal(t *testing.T) {
	clean := domain.NewSourceStamp(domain.StatusClean, "abc123")
	dirty := domain.NewSourceStamp(domain.StatusModified, "abc123")
	moved := domain.NewSourceStamp(domain.StatusClean, "def456")

	assert.True(t, clean.Equal(domain.NewSourceStamp(domain.StatusClean, "abc123")))
	assert.False(t, clean.Equal(dirty), "dirty flag must participate in equality")
	assert.False(t, clean.Equal(moved), "revision must participate in equality")
	assert.True(t, domain.SourceStamp{}.IsZero())
	assert.Equal(t, "modified", dirty.Status.String())
}

func TestPlanEngineBuild(t *testing.T) {
	tests := []struct {
		name  string
		stale bool
		mode  domain.BuildMode
		want  domain.EnginePlan
	}{
		{
			name: "current stamp without force does nothing",
			mode: domain.DefaultBuildMode(),
			want: domain.EnginePlan{},
		},
		{
			name:  "stale with default mode runs everything",
			stale: true,
			mode:  domain.DefaultBuildMode(),
			want:  domain.EnginePlan{Build: true, Clean: true, Configure: true, Contrib: true},
		},
		{
			name: "forced with no other flags only builds and installs",
			mode: domain.BuildMode{Force: true},
			want: domain.EnginePlan{Build: true},
		},
		{
			name: "forced fresh implies configure and contrib",
			mode: domain.BuildMode{Force: true, Fresh: true},
			want: domain.EnginePlan{Build: true, Clean: true, Configure: true, Contrib: true},
		},
		{
			name: "forced configure keeps the previous tree",
			mode: domain.BuildMode{Force: true, Configure: true},
			want: domain.EnginePlan{Build: true, Configure: true},
		},
		{
			name: "forced contrib only",
			mode: domain.BuildMode{Force: true, Contrib: true},
			want: domain.EnginePlan{Build: true, Contrib: true},
		},
		{
			name:  "stale implies configure and contrib even when not requested",
			stale: true,
			mode:  domain.BuildMode{},
			want:  domain.EnginePlan{Build: true, Configure: true, Contrib: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.PlanEngineBuild(tt.stale, tt.mode))
		})
	}
}

func TestBuildTarget_Paths(t *testing.T) {
	layout := domain.NewLayout("/src/proj", "", "", "")
	target := domain.NewBuildTarget(layout, "postgres", "postgres", domain.DefaultBuildMode())

	assert.Equal(t, "/src/proj/postgres", target.SourceDir)
	assert.Equal(t, "/src/proj/build/postgres", target.BuildDir)
	assert.Equal(t, "/src/proj/build/postgres/stamp", target.StampPath)
	assert.Equal(t, "/src/proj/build/postgres/build", target.WorkDir())
	assert.Equal(t, "/src/proj/build/postgres/install", target.InstallDir())
	assert.Equal(t, "/src/proj/build/postgres/install/bin", target.BinDir())
}

func TestNewLayout(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		l := domain.NewLayout("/p", "", "", "")
		assert.Equal(t, domain.Layout{Root: "/p", Base: "/p/build", Lib: "/p/build/lib", Temp: "/p/build/temp"}, l)
		assert.Equal(t, "/p/build/temp/rust/extensions", l.RustExtensionsTarget())
		assert.Equal(t, "/p/build/temp/rust/cli", l.RustCLITarget())
		assert.Equal(t, "/p/build/cli", l.CLIRoot())
		assert.Equal(t, filepath.Join("/p/build", domain.KilnDirName, domain.StoreDirName), l.StorePath())
		assert.Equal(t, "/p/build/temp/generated", l.GeneratedDir())
		assert.Equal(t, "/p/edb/x.pyx", l.Resolve("edb/x.pyx"))
		assert.Equal(t, "/abs/x.pyx", l.Resolve("/abs/../abs/x.pyx"))
	})

	t.Run("overrides", func(t *testing.T) {
		l := domain.NewLayout("/p", "out", "/abs/lib", "tmp")
		assert.Equal(t, "/p/out", l.Base)
		assert.Equal(t, "/abs/lib", l.Lib)
		assert.Equal(t, "/p/tmp", l.Temp)
	})
}

func TestGrammarSpec_Paths(t *testing.T) {
	spec := domain.GrammarSpec{
		Name:      "edb.edgeql.parser.grammar.single",
		SourceDir: "edb/edgeql/parser/grammar",
	}

	assert.Equal(t, "single.pickle", spec.ArtifactName())
	assert.Equal(t, "edb/edgeql/parser/grammar/single.pickle", spec.RelativeArtifactPath())
	assert.Equal(t, "/out/lib/edb/edgeql/parser/grammar/single.pickle", spec.CachePath("/out/lib"))
	assert.Equal(t, "/src/edb/edgeql/parser/grammar/single.pickle", spec.MirrorPath("/src"))

	assert.Equal(t, "plain.pickle", domain.GrammarSpec{Name: "plain"}.ArtifactName())
}

func TestExtensionUnit_Paths(t *testing.T) {
	unit := domain.ExtensionUnit{Module: "edb.server.pgproto.pgproto", Toolchain: domain.ToolchainC}

	assert.Equal(t, filepath.FromSlash("edb/server/pgproto/pgproto"), unit.RelativePath())
	assert.Equal(t, "/lib/edb/server/pgproto/pgproto.so", unit.OutputPath("/lib", ".so"))
}

func TestExtensionPlacement_Destinations(t *testing.T) {
	p := domain.ExtensionPlacement{BuildPath: "/lib/edb/_x.so", InplacePath: "/src/edb/_x.so"}

	assert.Equal(t, []string{"/lib/edb/_x.so", "/src/edb/_x.so"}, p.Destinations(false))
	assert.Equal(t, []string{"/src/edb/_x.so"}, p.Destinations(true))
}

func TestJobs(t *testing.T) {
	assert.Equal(t, 1, domain.Jobs(0))
	assert.Equal(t, 1, domain.Jobs(1))
	assert.Equal(t, 1, domain.Jobs(2))
	assert.Equal(t, 7, domain.Jobs(8))
}

func TestPipeline_AddIf(t *testing.T) {
	p := domain.NewPipeline("engine").
		Add(domain.Step{Name: "a"}).
		AddIf(false, domain.Step{Name: "b"}).
		AddIf(true, domain.Step{Name: "c"})

	assert.Equal(t, []string{"a", "c"}, p.StepNames())
}

func TestCacheKey(t *testing.T) {
	fp := domain.Fingerprint{Sum: 0xabc, Files: 3}
	assert.Equal(t, "0000000000000abc-9f1c2e", domain.CacheKey(fp, "9f1c2e"))
	assert.False(t, fp.Empty())
	assert.True(t, domain.Fingerprint{}.Empty())
}

func TestNewToolchainFailure(t *testing.T) {
	cause := errors.New("exit status 2")
	err := domain.NewToolchainFailure("make", []string{"make", "MAKELEVEL=0"}, "boom\n", 2, cause)

	require.ErrorIs(t, err, domain.ErrToolchainFailure)
	require.ErrorIs(t, err, cause)

	var zErr *zerr.Error
	require.True(t, errors.As(err, &zErr))
	meta := zErr.Metadata()
	assert.Equal(t, "make", meta["step"])
	assert.Equal(t, "make MAKELEVEL=0", meta["args"])
	assert.Equal(t, 2, meta["exit_code"])
	assert.Equal(t, "boom\n", meta["output"])
}

func TestExitCode(t *testing.T) {
	withCode := zerr.With(zerr.Wrap(errors.New("exit status 3"), "command failed"), "exit_code", 3)

	assert.Equal(t, 3, domain.ExitCode(withCode))
	assert.Equal(t, 3, domain.ExitCode(zerr.Wrap(withCode, "step failed")))
	assert.Equal(t, 3, domain.ExitCode(errors.Join(domain.ErrToolchainFailure, withCode)))
	assert.Equal(t, -1, domain.ExitCode(errors.New("plain")))
	assert.Equal(t, -1, domain.ExitCode(nil))
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		suffix  string
		want    domain.Version
		wantErr bool
	}{
		{in: "1.0", want: domain.Version{Major: 1, Minor: 0, Stage: domain.StageFinal}},
		{in: "1.0a3", want: domain.Version{Major: 1, Minor: 0, Stage: domain.StageAlpha, StageNo: 3}},
		{in: "1.0-beta.2", want: domain.Version{Major: 1, Minor: 0, Stage: domain.StageBeta, StageNo: 2}},
		{in: "2.1rc1", want: domain.Version{Major: 2, Minor: 1, Stage: domain.StageRC, StageNo: 1}},
		{in: "1.0.dev5", suffix: "g1234.d20200101", want: domain.Version{
			Major: 1, Stage: domain.StageDev, StageNo: 5, Local: []string{"g1234", "d20200101"},
		}},
		{in: "one.two", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := domain.ParseVersion(tt.in, tt.suffix)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidVersion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtensionSet_ByToolchain(t *testing.T) {
	set := domain.ExtensionSet{Units: []domain.ExtensionUnit{
		{Module: "a", Toolchain: domain.ToolchainRust},
		{Module: "b", Toolchain: domain.ToolchainC},
		{Module: "c", Toolchain: domain.ToolchainRust},
	}}

	rust := set.ByToolchain(domain.ToolchainRust)
	require.Len(t, rust, 2)
	assert.Equal(t, "a", rust[0].Module)
	assert.Equal(t, "c", rust[1].Module)
	assert.Len(t, set.ByToolchain(domain.ToolchainC), 1)
}

func TestGrammarSet_SourceDirs(t *testing.T) {
	set := domain.GrammarSet{Specs: []domain.GrammarSpec{
		{Name: "g.single", SourceDir: "g"},
		{Name: "g.block", SourceDir: "g"},
		{Name: "s.doc", SourceDir: "s"},
	}}
	assert.Equal(t, []string{"g", "s"}, set.SourceDirs())
}

func TestStageCode(t *testing.T) {
	assert.Equal(t, 0, domain.StageCode(domain.StageDev))
	assert.Equal(t, 10, domain.StageCode(domain.StageAlpha))
	assert.Equal(t, 30, domain.StageCode(domain.StageRC))
	assert.Equal(t, 40, domain.StageCode(domain.StageFinal))
	assert.Equal(t, 40, domain.StageCode(""))
}

func TestProject_Target(t *testing.T) {
	p := &domain.Project{
		Layout: domain.NewLayout("/src/proj", "", "", ""),
		Engine: domain.EngineSpec{Name: "postgres", Source: "postgres"},
	}

	target := p.Target(domain.BuildMode{Force: true})
	assert.Equal(t, "/src/proj", target.Root)
	assert.Equal(t, domain.StateGit, target.State)
	assert.True(t, target.Mode.Force)

	p.Engine.State = domain.StateFingerprint
	p.Engine.Extensions = []string{".c", ".h"}
	target = p.Target(domain.DefaultBuildMode())
	assert.Equal(t, domain.StateFingerprint, target.State)
	assert.Equal(t, []string{".c", ".h"}, target.StateExtensions)
}
