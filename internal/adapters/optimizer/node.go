package optimizer

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/esmd-dev/esmd/internal/adapters/config"
	"github.com/esmd-dev/esmd/internal/adapters/logger"
	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
)

// NodeID is the unique identifier for the deps optimizer Graft node.
const NodeID graft.ID = "adapter.optimizer"

func init() {
	graft.Register(graft.Node[*Coordinator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Coordinator, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(cfg, log), nil
		},
	})
}
