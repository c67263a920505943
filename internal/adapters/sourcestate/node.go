package sourcestate

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/shell"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the source state Graft node.
const NodeID graft.ID = "adapter.source_state"

func init() {
	graft.Register(graft.Node[ports.SourceStateProvider]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, fs.FingerprinterNodeID},
		Run: func(ctx context.Context) (ports.SourceStateProvider, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			fingerprinter, err := graft.Dep[ports.Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}
			return NewProvider(executor, fingerprinter), nil
		},
	})
}
