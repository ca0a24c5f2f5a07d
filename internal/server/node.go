package server

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/esmd-dev/esmd/internal/adapters/config"
	"github.com/esmd-dev/esmd/internal/adapters/graph"
	"github.com/esmd-dev/esmd/internal/adapters/logger"
	"github.com/esmd-dev/esmd/internal/adapters/optimizer"
	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
	"github.com/esmd-dev/esmd/internal/engine/pipeline"
)

// NodeID is the unique identifier for the HTTP server Graft node.
const NodeID graft.ID = "server.http"

func init() {
	graft.Register(graft.Node[*Server]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			pipeline.NodeID,
			graph.NodeID,
			optimizer.NodeID,
			logger.NodeID,
		},
		Run: runServerNode,
	})
}

func runServerNode(ctx context.Context) (*Server, error) {
	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	pipe, err := graft.Dep[*pipeline.Pipeline](ctx)
	if err != nil {
		return nil, err
	}

	moduleGraph, err := graft.Dep[ports.ModuleGraph](ctx)
	if err != nil {
		return nil, err
	}

	coordinator, err := graft.Dep[*optimizer.Coordinator](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	transform := NewTransformMiddleware(cfg, pipe, moduleGraph, coordinator, log)
	return New(cfg, transform, log), nil
}
