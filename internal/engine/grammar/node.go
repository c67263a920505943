package grammar

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
)

// NodeID is the unique identifier for the grammar compiler Graft node.
const NodeID graft.ID = "engine.grammar"

func init() {
	graft.Register(graft.Node[*Compiler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			pipeline.NodeID,
			fs.InstallerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Compiler, error) {
			runner, err := graft.Dep[*pipeline.Runner](ctx)
			if err != nil {
				return nil, err
			}

			installer, err := graft.Dep[ports.ArtifactInstaller](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewCompiler(runner, installer, log), nil
		},
	})
}
