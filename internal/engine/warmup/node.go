package warmup

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/esmd-dev/esmd/internal/adapters/config"
	"github.com/esmd-dev/esmd/internal/adapters/logger"
	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
	"github.com/esmd-dev/esmd/internal/engine/pipeline"
)

// NodeID is the unique identifier for the prefetch warmer Graft node.
const NodeID graft.ID = "engine.warmup"

func init() {
	graft.Register(graft.Node[*Warmer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID, pipeline.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Warmer, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			pipe, err := graft.Dep[*pipeline.Pipeline](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(cfg, pipe, log), nil
		},
	})
}
