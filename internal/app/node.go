package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/buildmeta"   //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/config"      //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/fs"          //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/logger"      //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/sourcestate" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/stamp"       //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/telemetry"   //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/toolchain"   //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/watcher"     //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/extension"
	"go.trai.ch/kiln/internal/engine/grammar"
	"go.trai.ch/kiln/internal/engine/pipeline"
	"go.trai.ch/kiln/internal/engine/target"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			pipeline.NodeID,
			target.NodeID,
			grammar.NodeID,
			extension.NodeID,
			stamp.NodeID,
			sourcestate.NodeID,
			fs.FingerprinterNodeID,
			fs.VerifierNodeID,
			fs.InstallerNodeID,
			toolchain.RustCheckerNodeID,
			buildmeta.NodeID,
			watcher.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

//nolint:cyclop // one lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	var (
		d   Deps
		err error
	)

	if d.Loader, err = graft.Dep[ports.ConfigLoader](ctx); err != nil {
		return nil, err
	}
	if d.Runner, err = graft.Dep[*pipeline.Runner](ctx); err != nil {
		return nil, err
	}
	if d.Engine, err = graft.Dep[*target.Builder](ctx); err != nil {
		return nil, err
	}
	if d.Grammars, err = graft.Dep[*grammar.Compiler](ctx); err != nil {
		return nil, err
	}
	if d.Extensions, err = graft.Dep[*extension.Builder](ctx); err != nil {
		return nil, err
	}
	if d.Stamps, err = graft.Dep[ports.StampStore](ctx); err != nil {
		return nil, err
	}
	if d.State, err = graft.Dep[ports.SourceStateProvider](ctx); err != nil {
		return nil, err
	}
	if d.Hasher, err = graft.Dep[ports.Fingerprinter](ctx); err != nil {
		return nil, err
	}
	if d.Verifier, err = graft.Dep[ports.Verifier](ctx); err != nil {
		return nil, err
	}
	if d.Installer, err = graft.Dep[ports.ArtifactInstaller](ctx); err != nil {
		return nil, err
	}
	if d.Checker, err = graft.Dep[ports.ToolchainChecker](ctx); err != nil {
		return nil, err
	}
	if d.Meta, err = graft.Dep[ports.MetaWriter](ctx); err != nil {
		return nil, err
	}
	if d.Watcher, err = graft.Dep[ports.Watcher](ctx); err != nil {
		return nil, err
	}
	if d.Tracer, err = graft.Dep[ports.Tracer](ctx); err != nil {
		return nil, err
	}
	if d.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
		return nil, err
	}

	return New(d), nil
}
