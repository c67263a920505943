package buildmeta

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the build metadata writer Graft node.
const NodeID graft.ID = "adapter.buildmeta"

func init() {
	graft.Register(graft.Node[ports.MetaWriter]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.MetaWriter, error) {
			return NewWriter(), nil
		},
	})
}
