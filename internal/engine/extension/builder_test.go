package extension_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/cas"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/telemetry"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/extension"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	builder  *extension.Builder
	executor *mocks.MockExecutor
	checker  *mocks.MockToolchainChecker
	cargo    *mocks.MockCargoInspector
	project  *domain.Project
}

func newFixture(t *testing.T, units ...domain.ExtensionUnit) fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	executor := mocks.NewMockExecutor(ctrl)
	checker := mocks.NewMockToolchainChecker(ctrl)
	cargo := mocks.NewMockCargoInspector(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()

	b := extension.NewBuilder(
		pipeline.NewRunner(executor, telemetry.NewNoOpTracer()),
		checker,
		cargo,
		fs.NewInstaller(),
		fs.NewFingerprinter(fs.NewWalker()),
		fs.NewVerifier(),
		cas.NewStore(),
		log,
	)
	b.SetGOOS("linux")
	b.SetGetenv(func(string) string { return "" })

	root := t.TempDir()
	p := &domain.Project{
		Layout: domain.NewLayout(root, "", "", ""),
		Extensions: domain.ExtensionSet{
			Suffix:          ".so",
			Transpiler:      []string{"cython", "-3", "{source}", "-o", "{output}"},
			TranspilerDebug: []string{"-X", "linetrace=True"},
			CFlags:          []string{"-O2", "-Wall"},
			LDFlags:         []string{"-lm"},
			Include:         []string{"edb/server/pgproto"},
			Units:           units,
		},
		Toolchain: domain.ToolchainSpec{RustMin: "1.42.0"},
	}

	return fixture{builder: b, executor: executor, checker: checker, cargo: cargo, project: p}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// fakeToolchain produces the file named after "-o" (or the last arg for cargo).
func fakeToolchain(t *testing.T, calls *[][]string) func(context.Context, domain.Command, io.Writer, io.Writer) error {
	return func(_ context.Context, cmd domain.Command, _, _ io.Writer) error {
		*calls = append(*calls, cmd.Args)
		if i := slices.Index(cmd.Args, "-o"); i >= 0 {
			writeFile(t, cmd.Args[i+1], "built by "+cmd.Args[0])
		}
		return nil
	}
}

var rustUnit = domain.ExtensionUnit{
	Module:    "edb._edgeql_rust",
	Toolchain: domain.ToolchainRust,
	Manifest:  "edb/edgeql-rust/Cargo.toml",
}

var cUnit = domain.ExtensionUnit{
	Module:    "edb.server.pgproto.pgproto",
	Toolchain: domain.ToolchainC,
	Sources:   []string{"edb/server/pgproto/pgproto.pyx", "edb/server/pgproto/helper.c"},
}

func TestBuildRust_ReplacesInplaceArtifact(t *testing.T) {
	f := newFixture(t, rustUnit)
	p := f.project
	target := p.Layout.RustExtensionsTarget()
	inplace := filepath.Join(p.Layout.Root, "edb", "_edgeql_rust.so")
	buildPath := filepath.Join(p.Layout.Lib, "edb", "_edgeql_rust.so")

	writeFile(t, inplace, "old module")
	// A running server keeps the old module mapped.
	mapped, err := os.Open(inplace)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mapped.Close() })
	oldInfo, err := mapped.Stat()
	require.NoError(t, err)

	f.checker.EXPECT().Check(gomock.Any(), "1.42.0").Return("1.45.0", nil)
	f.cargo.EXPECT().LibraryName(filepath.Join(p.Layout.Root, "edb/edgeql-rust/Cargo.toml")).Return("edgeql_rust", nil)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command, _, _ io.Writer) error {
			assert.NoFileExists(t, inplace, "in-place artifact must be unlinked before building")
			assert.Equal(t, []string{
				"cargo", "build",
				"--manifest-path", filepath.Join(p.Layout.Root, "edb/edgeql-rust/Cargo.toml"),
				"--lib", "--release",
			}, cmd.Args)
			assert.Equal(t, target, cmd.Env["CARGO_TARGET_DIR"])
			writeFile(t, filepath.Join(target, "release", "libedgeql_rust.so"), "new module")
			return nil
		})

	require.NoError(t, f.builder.Build(context.Background(), p, extension.Options{}))

	for _, dst := range []string{buildPath, inplace} {
		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "new module", string(data))
	}

	newInfo, err := os.Stat(inplace)
	require.NoError(t, err)
	assert.False(t, os.SameFile(oldInfo, newInfo), "old inode must be replaced, not overwritten")
	held, err := io.ReadAll(mapped)
	require.NoError(t, err)
	assert.Equal(t, "old module", string(held))
}

func TestBuildRust_InplaceDebug(t *testing.T) {
	f := newFixture(t, rustUnit)
	p := f.project
	target := p.Layout.RustExtensionsTarget()

	f.checker.EXPECT().Check(gomock.Any(), gomock.Any()).Return("1.45.0", nil)
	f.cargo.EXPECT().LibraryName(gomock.Any()).Return("edgeql_rust", nil)
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd domain.Command, _, _ io.Writer) error {
			assert.NotContains(t, cmd.Args, "--release")
			writeFile(t, filepath.Join(target, "debug", "libedgeql_rust.so"), "debug module")
			return nil
		})

	opts := extension.Options{Inplace: true, Debug: true}
	require.NoError(t, f.builder.BuildRust(context.Background(), p, opts))

	assert.FileExists(t, filepath.Join(p.Layout.Root, "edb", "_edgeql_rust.so"))
	assert.NoFileExists(t, filepath.Join(p.Layout.Lib, "edb", "_edgeql_rust.so"))
}

func TestBuildRust_ToolchainTooOld(t *testing.T) {
	f := newFixture(t, rustUnit)

	tooOld := zerr.With(zerr.Wrap(domain.ErrToolchainTooOld, "rustc is too old"), "required", "1.42.0")
	f.checker.EXPECT().Check(gomock.Any(), "1.42.0").Return("1.30.0", tooOld)

	err := f.builder.Build(context.Background(), f.project, extension.Options{})

	require.ErrorIs(t, err, domain.ErrToolchainTooOld)
}

func TestBuildRust_NoUnitsSkipsPreflight(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.builder.Build(context.Background(), f.project, extension.Options{}))
}

func TestBuildC_TranspilesCompilesAndCaches(t *testing.T) {
	f := newFixture(t, cUnit)
	p := f.project
	root := p.Layout.Root
	writeFile(t, filepath.Join(root, "edb/server/pgproto/pgproto.pyx"), "cdef int x = 1")
	writeFile(t, filepath.Join(root, "edb/server/pgproto/helper.c"), "int helper(void) { return 1; }")

	var calls [][]string
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(fakeToolchain(t, &calls)).Times(2)

	require.NoError(t, f.builder.Build(context.Background(), p, extension.Options{}))

	generated := filepath.Join(p.Layout.GeneratedDir(), "edb/server/pgproto/pgproto.c")
	staging := filepath.Join(p.Layout.Temp, "ext", "edb/server/pgproto/pgproto.so")
	require.Len(t, calls, 2)
	assert.Equal(t, []string{
		"cython", "-3", filepath.Join(root, "edb/server/pgproto/pgproto.pyx"), "-o", generated,
	}, calls[0])
	assert.Equal(t, []string{
		"cc", "-O2", "-Wall", "-fPIC", "-shared",
		"-I" + filepath.Join(root, "edb/server/pgproto"),
		"-o", staging,
		generated, filepath.Join(root, "edb/server/pgproto/helper.c"),
		"-lm",
	}, calls[1])

	out := filepath.Join(p.Layout.Lib, "edb/server/pgproto/pgproto.so")
	assert.FileExists(t, out)

	// Unchanged inputs hit the cache: no further executor calls are expected.
	require.NoError(t, f.builder.Build(context.Background(), p, extension.Options{}))
}

func TestBuildC_SourceChangeRebuilds(t *testing.T) {
	f := newFixture(t, cUnit)
	p := f.project
	src := filepath.Join(p.Layout.Root, "edb/server/pgproto/pgproto.pyx")
	writeFile(t, src, "v1")
	writeFile(t, filepath.Join(p.Layout.Root, "edb/server/pgproto/helper.c"), "c")

	var calls [][]string
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(fakeToolchain(t, &calls)).Times(4)

	require.NoError(t, f.builder.Build(context.Background(), p, extension.Options{}))
	writeFile(t, src, "v2")
	require.NoError(t, f.builder.Build(context.Background(), p, extension.Options{}))
}

func TestBuildC_MissingOutputRebuilds(t *testing.T) {
	f := newFixture(t, cUnit)
	p := f.project
	writeFile(t, filepath.Join(p.Layout.Root, "edb/server/pgproto/pgproto.pyx"), "v1")
	writeFile(t, filepath.Join(p.Layout.Root, "edb/server/pgproto/helper.c"), "c")

	var calls [][]string
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(fakeToolchain(t, &calls)).Times(4)

	require.NoError(t, f.builder.Build(context.Background(), p, extension.Options{}))
	require.NoError(t, os.Remove(filepath.Join(p.Layout.Lib, "edb/server/pgproto/pgproto.so")))
	require.NoError(t, f.builder.Build(context.Background(), p, extension.Options{}))
}

func TestBuildC_DebugAlwaysRebuilds(t *testing.T) {
	f := newFixture(t, cUnit)
	p := f.project
	writeFile(t, filepath.Join(p.Layout.Root, "edb/server/pgproto/pgproto.pyx"), "v1")
	writeFile(t, filepath.Join(p.Layout.Root, "edb/server/pgproto/helper.c"), "c")

	var calls [][]string
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(fakeToolchain(t, &calls)).Times(4)

	opts := extension.Options{Debug: true}
	require.NoError(t, f.builder.Build(context.Background(), p, opts))
	require.NoError(t, f.builder.Build(context.Background(), p, opts))

	assert.Equal(t, []string{"-X", "linetrace=True"}, calls[0][len(calls[0])-2:])
	assert.Contains(t, calls[1], "-DCYTHON_TRACE")
	assert.Contains(t, calls[1], "-O0")
	assert.NotContains(t, calls[1], "-O2")
}

func TestBuildC_InplaceOutput(t *testing.T) {
	f := newFixture(t, cUnit)
	p := f.project
	writeFile(t, filepath.Join(p.Layout.Root, "edb/server/pgproto/pgproto.pyx"), "v1")
	writeFile(t, filepath.Join(p.Layout.Root, "edb/server/pgproto/helper.c"), "c")

	var calls [][]string
	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(fakeToolchain(t, &calls)).Times(2)

	require.NoError(t, f.builder.Build(context.Background(), p, extension.Options{Inplace: true}))

	assert.FileExists(t, filepath.Join(p.Layout.Root, "edb/server/pgproto/pgproto.so"))
}

func TestBuildC_CompileFailureNamesModule(t *testing.T) {
	f := newFixture(t, cUnit)
	p := f.project
	writeFile(t, filepath.Join(p.Layout.Root, "edb/server/pgproto/pgproto.pyx"), "v1")
	writeFile(t, filepath.Join(p.Layout.Root, "edb/server/pgproto/helper.c"), "c")

	f.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(zerr.With(zerr.Wrap(errors.New("exit status 1"), "command failed"), "exit_code", 1))

	err := f.builder.Build(context.Background(), p, extension.Options{})

	require.ErrorIs(t, err, domain.ErrToolchainFailure)
	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, cUnit.Module, zErr.Metadata()["module"])
	assert.NoFileExists(t, filepath.Join(p.Layout.Lib, "edb/server/pgproto/pgproto.so"))
}

func TestBuildC_MissingSource(t *testing.T) {
	f := newFixture(t, cUnit)

	err := f.builder.Build(context.Background(), f.project, extension.Options{})

	require.ErrorIs(t, err, domain.ErrIO)
}

func TestCompileFlags(t *testing.T) {
	base := []string{"-O2", "-std=c99", "-Wall"}

	assert.Equal(t, base, extension.CompileFlags(base, false))
	assert.Equal(t,
		[]string{"-O0", "-g", "-std=c99", "-Wall", "-DPG_DEBUG", "-DCYTHON_TRACE", "-DCYTHON_TRACE_NOGIL"},
		extension.CompileFlags(base, true))
}

func TestCargoArtifact(t *testing.T) {
	assert.Equal(t, filepath.Join("/t", "release", "libfoo.so"), extension.CargoArtifact("/t", "foo", false, "linux"))
	assert.Equal(t, filepath.Join("/t", "debug", "libfoo.dylib"), extension.CargoArtifact("/t", "foo", true, "darwin"))
	assert.Equal(t, filepath.Join("/t", "release", "foo.dll"), extension.CargoArtifact("/t", "foo", false, "windows"))
}

func TestPlan(t *testing.T) {
	p := &domain.Project{
		Layout:     domain.NewLayout("/p", "", "", ""),
		Extensions: domain.ExtensionSet{Suffix: ".so"},
	}

	got := extension.Plan(p, []domain.ExtensionUnit{rustUnit})

	require.Len(t, got, 1)
	assert.Equal(t, "/p/build/lib/edb/_edgeql_rust.so", got[0].BuildPath)
	assert.Equal(t, "/p/edb/_edgeql_rust.so", got[0].InplacePath)
	assert.Equal(t, []string{"/p/build/lib/edb/_edgeql_rust.so", "/p/edb/_edgeql_rust.so"}, got[0].Destinations(false))
	assert.Equal(t, []string{"/p/edb/_edgeql_rust.so"}, got[0].Destinations(true))
}
