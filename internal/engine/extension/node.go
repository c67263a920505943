package extension

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/toolchain" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
)

// NodeID is the unique identifier for the extension builder Graft node.
const NodeID graft.ID = "engine.extension"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			pipeline.NodeID,
			toolchain.RustCheckerNodeID,
			toolchain.CargoNodeID,
			fs.InstallerNodeID,
			fs.FingerprinterNodeID,
			fs.VerifierNodeID,
			cas.NodeID,
			logger.NodeID,
		},
		Run: runNode,
	})
}

func runNode(ctx context.Context) (*Builder, error) {
	runner, err := graft.Dep[*pipeline.Runner](ctx)
	if err != nil {
		return nil, err
	}

	checker, err := graft.Dep[ports.ToolchainChecker](ctx)
	if err != nil {
		return nil, err
	}

	cargo, err := graft.Dep[ports.CargoInspector](ctx)
	if err != nil {
		return nil, err
	}

	installer, err := graft.Dep[ports.ArtifactInstaller](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Fingerprinter](ctx)
	if err != nil {
		return nil, err
	}

	verifier, err := graft.Dep[ports.Verifier](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.BuildInfoStore](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return NewBuilder(runner, checker, cargo, installer, hasher, verifier, store, log), nil
}
