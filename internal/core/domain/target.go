package domain

import "path/filepath"

// BuildMode holds the user-selectable switches of a heavyweight sub-build.
type BuildMode struct {
	// Force rebuilds even when the stamp is current.
	Force bool
	// Fresh removes the previous build directory before building.
	Fresh bool
	// Configure re-runs the configure step.
	Configure bool
	// Contrib builds and installs the optional contrib components.
	Contrib bool
}

// DefaultBuildMode is the mode used by the top-level build and develop commands.
func DefaultBuildMode() BuildMode {
	return BuildMode{Fresh: true, Configure: true, Contrib: true}
}

// EnginePlan is the resolved set of actions for one engine build invocation.
type EnginePlan struct {
	Build     bool
	Clean     bool
	Configure bool
	Contrib   bool
}

// PlanEngineBuild resolves a build mode against the staleness of the target.
//
//	stale | force | fresh | configure | contrib || build | clean | configure    | contrib
//	------+-------+-------+-----------+---------++-------+-------+--------------+------------
//	false | false |   *   |     *     |    *    || no    | no    | no           | no
//	  *   |   *   |   *   |     *     |    *    || yes   | fresh | cfg||fresh||stale | contrib||fresh||stale
//
// A fresh build implies configure and contrib because the previous build tree is gone.
// A stale build implies both as well: the source revision moved under the old configuration.
func PlanEngineBuild(stale bool, mode BuildMode) EnginePlan {
	build := stale || mode.Force
	if !build {
		return EnginePlan{}
	}
	return EnginePlan{
		Build:     true,
		Clean:     mode.Fresh,
		Configure: mode.Configure || mode.Fresh || stale,
		Contrib:   mode.Contrib || mode.Fresh || stale,
	}
}

// BuildTarget is a named heavyweight sub-build such as the embedded database engine.
type BuildTarget struct {
	Name string
	// Root is the project root; source state queries run there.
	Root      string
	SourceDir string
	BuildDir  string
	StampPath string
	Mode      BuildMode
	// State selects how the source stamp is computed: StateGit or StateFingerprint.
	State string
	// StateExtensions filters the files hashed by the StateFingerprint strategy.
	StateExtensions []string
}

// NewBuildTarget derives the build and stamp paths of a target from the layout.
func NewBuildTarget(layout Layout, name, source string, mode BuildMode) BuildTarget {
	buildDir := layout.EngineDir(name)
	return BuildTarget{
		Name:      name,
		Root:      layout.Root,
		SourceDir: resolve(layout.Root, source),
		State:     StateGit,
		BuildDir:  buildDir,
		StampPath: filepath.Join(buildDir, StampFileName),
		Mode:      mode,
	}
}

// WorkDir is the directory the configure and make steps run in.
func (t BuildTarget) WorkDir() string {
	return filepath.Join(t.BuildDir, "build")
}

// InstallDir is the configure prefix of the target.
func (t BuildTarget) InstallDir() string {
	return filepath.Join(t.BuildDir, "install")
}

// BinDir is the directory holding the installed executables of the target.
func (t BuildTarget) BinDir() string {
	return filepath.Join(t.InstallDir(), "bin")
}
