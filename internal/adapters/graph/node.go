package graph

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/esmd-dev/esmd/internal/core/ports"
)

// NodeID is the unique identifier for the module graph Graft node.
const NodeID graft.ID = "adapter.graph"

func init() {
	graft.Register(graft.Node[ports.ModuleGraph]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ModuleGraph, error) {
			return New(), nil
		},
	})
}
