package plugins

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/esmd-dev/esmd/internal/adapters/config"
	"github.com/esmd-dev/esmd/internal/adapters/logger"
	"github.com/esmd-dev/esmd/internal/adapters/optimizer"
	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
)

// NodeID is the unique identifier for the plugin container Graft node.
const NodeID graft.ID = "adapter.plugins"

func init() {
	graft.Register(graft.Node[ports.PluginContainer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID, optimizer.NodeID},
		Run: func(ctx context.Context) (ports.PluginContainer, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			coordinator, err := graft.Dep[*optimizer.Coordinator](ctx)
			if err != nil {
				return nil, err
			}

			return NewContainer(log, NewResolvePlugin(cfg), coordinator), nil
		},
	})
}
