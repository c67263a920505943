// Package app implements the application layer for kiln.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/kiln/internal/adapters/watcher"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/extension"
	"go.trai.ch/kiln/internal/engine/grammar"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/kiln/internal/engine/target"
	"go.trai.ch/zerr"
)

// Settings are the run-time switches applied to an App before a command runs.
type Settings struct {
	// Project is the project root.
	Project string
	// Manifest is the manifest path; empty selects kiln.yaml in the project root.
	Manifest string
	Debug    bool
	JSON     bool
	Verbose  bool
	// Jobs overrides the worker count of parallel steps; 0 keeps the host default.
	Jobs int
}

// Deps are the collaborators of an App.
type Deps struct {
	Loader     ports.ConfigLoader
	Runner     *pipeline.Runner
	Engine     *target.Builder
	Grammars   *grammar.Compiler
	Extensions *extension.Builder
	Stamps     ports.StampStore
	State      ports.SourceStateProvider
	Hasher     ports.Fingerprinter
	Verifier   ports.Verifier
	Installer  ports.ArtifactInstaller
	Checker    ports.ToolchainChecker
	Meta       ports.MetaWriter
	Watcher    ports.Watcher
	Tracer     ports.Tracer
	Logger     ports.Logger
}

// App represents the main application logic.
type App struct {
	loader     ports.ConfigLoader
	runner     *pipeline.Runner
	engine     *target.Builder
	grammars   *grammar.Compiler
	extensions *extension.Builder
	stamps     ports.StampStore
	state      ports.SourceStateProvider
	hasher     ports.Fingerprinter
	verifier   ports.Verifier
	installer  ports.ArtifactInstaller
	checker    ports.ToolchainChecker
	meta       ports.MetaWriter
	watcher    ports.Watcher
	tracer     ports.Tracer
	logger     ports.Logger

	settings    Settings
	newRunID    func() string
	watchWindow time.Duration
}

// New creates a new App instance operating on the current directory.
func New(d Deps) *App {
	return &App{
		loader:      d.Loader,
		runner:      d.Runner,
		engine:      d.Engine,
		grammars:    d.Grammars,
		extensions:  d.Extensions,
		stamps:      d.Stamps,
		state:       d.State,
		hasher:      d.Hasher,
		verifier:    d.Verifier,
		installer:   d.Installer,
		checker:     d.Checker,
		meta:        d.Meta,
		watcher:     d.Watcher,
		tracer:      d.Tracer,
		logger:      d.Logger,
		settings:    Settings{Project: "."},
		newRunID:    uuid.NewString,
		watchWindow: watcher.DefaultDebounceWindow,
	}
}

// Configure applies the settings of one invocation.
func (a *App) Configure(s Settings) {
	if s.Project == "" {
		s.Project = "."
	}
	a.settings = s

	a.runner.SetJobs(s.Jobs)
	// Debug builds stream tool output like verbose ones.
	a.runner.SetQuiet(!s.Verbose && !s.Debug)
	if l, ok := a.logger.(interface{ SetJSON(enable bool) }); ok {
		l.SetJSON(s.JSON)
	}
}

// Settings returns the settings in effect.
func (a *App) Settings() Settings {
	return a.settings
}

func (a *App) load() (*domain.Project, error) {
	p, err := a.loader.Load(a.settings.Project, a.settings.Manifest)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load project manifest")
	}
	return p, nil
}

// run loads the project and executes fn under a root span carrying a fresh run id.
// A failure of fn is reported as ErrBuildFailed.
func (a *App) run(ctx context.Context, command string, fn func(context.Context, *domain.Project) error) error {
	p, err := a.load()
	if err != nil {
		return err
	}

	ctx, span := a.tracer.Start(ctx, command, ports.WithAttribute("run_id", a.newRunID()))
	defer span.End()

	if err := fn(ctx, p); err != nil {
		span.RecordError(err)
		return zerr.Wrap(errors.Join(domain.ErrBuildFailed, err), command+" failed")
	}
	return nil
}

func (a *App) extensionOptions(inplace bool) extension.Options {
	return extension.Options{Inplace: inplace, Debug: a.settings.Debug}
}
