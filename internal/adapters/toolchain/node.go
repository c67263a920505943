package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/shell"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// RustCheckerNodeID is the unique identifier for the rustc version check Graft node.
	RustCheckerNodeID graft.ID = "adapter.toolchain.rust"
	// CargoNodeID is the unique identifier for the cargo manifest inspector Graft node.
	CargoNodeID graft.ID = "adapter.toolchain.cargo"
)

func init() {
	graft.Register(graft.Node[ports.ToolchainChecker]{
		ID:        RustCheckerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.ToolchainChecker, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewRustChecker(executor), nil
		},
	})

	graft.Register(graft.Node[ports.CargoInspector]{
		ID:        CargoNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.CargoInspector, error) {
			return NewCargoInspector(), nil
		},
	})
}
