package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/esmd-dev/esmd/internal/adapters/config"
	"github.com/esmd-dev/esmd/internal/adapters/graph"
	"github.com/esmd-dev/esmd/internal/adapters/logger"
	"github.com/esmd-dev/esmd/internal/adapters/optimizer"
	"github.com/esmd-dev/esmd/internal/adapters/telemetry"
	"github.com/esmd-dev/esmd/internal/adapters/watcher"
	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
	"github.com/esmd-dev/esmd/internal/engine/pipeline"
	"github.com/esmd-dev/esmd/internal/engine/scanner"
	"github.com/esmd-dev/esmd/internal/engine/warmup"
	"github.com/esmd-dev/esmd/internal/server"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			pipeline.NodeID,
			scanner.NodeID,
			warmup.NodeID,
			optimizer.NodeID,
			watcher.NodeID,
			graph.NodeID,
			server.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	pipe, err := graft.Dep[*pipeline.Pipeline](ctx)
	if err != nil {
		return nil, err
	}

	scan, err := graft.Dep[*scanner.Scanner](ctx)
	if err != nil {
		return nil, err
	}

	warmer, err := graft.Dep[*warmup.Warmer](ctx)
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

	moduleGraph, err := graft.Dep[ports.ModuleGraph](ctx)
	if err != nil {
		return nil, err
	}

	srv, err := graft.Dep[*server.Server](ctx)
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

	return New(cfg, pipe, scan, warmer, coordinator, watch, moduleGraph, srv, log, tel), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	application, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    application,
		Logger: log,
		Config: cfg,
	}, nil
}
