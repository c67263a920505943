package target

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/logger"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/sourcestate" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/adapters/stamp"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/pipeline"
)

// NodeID is the unique identifier for the target builder Graft node.
const NodeID graft.ID = "engine.target"

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			sourcestate.NodeID,
			stamp.NodeID,
			pipeline.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Builder, error) {
			state, err := graft.Dep[ports.SourceStateProvider](ctx)
			if err != nil {
				return nil, err
			}

			stamps, err := graft.Dep[ports.StampStore](ctx)
			if err != nil {
				return nil, err
			}

			runner, err := graft.Dep[*pipeline.Runner](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewBuilder(state, stamps, runner, log), nil
		},
	})
}
