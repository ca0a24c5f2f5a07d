package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/esmd-dev/esmd/internal/adapters/config"
	"github.com/esmd-dev/esmd/internal/adapters/graph"
	"github.com/esmd-dev/esmd/internal/adapters/logger"
	"github.com/esmd-dev/esmd/internal/adapters/optimizer"
	"github.com/esmd-dev/esmd/internal/adapters/plugins"
	"github.com/esmd-dev/esmd/internal/adapters/telemetry"
	"github.com/esmd-dev/esmd/internal/adapters/watcher"
	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
)

// NodeID is the unique identifier for the transform pipeline Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			graph.NodeID,
			plugins.NodeID,
			optimizer.NodeID,
			watcher.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: runPipelineNode,
	})
}

func runPipelineNode(ctx context.Context) (*Pipeline, error) {
	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	moduleGraph, err := graft.Dep[ports.ModuleGraph](ctx)
	if err != nil {
		return nil, err
	}

	container, err := graft.Dep[ports.PluginContainer](ctx)
	if err != nil {
		return nil, err
	}

	coordinator, err := graft.Dep[*optimizer.Coordinator](ctx)
	if err != nil {
		return nil, err
	}

	watch, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return New(cfg, moduleGraph, container, coordinator, watch, log, tel), nil
}
