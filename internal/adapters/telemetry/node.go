package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	progrockadapter "github.com/esmd-dev/esmd/internal/adapters/telemetry/progrock"
	"github.com/esmd-dev/esmd/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry Graft node.
const NodeID graft.ID = "adapter.telemetry"

// TraceEnvVar enables per-request vertex recording when set.
const TraceEnvVar = "ESMD_TRACE"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			if os.Getenv(TraceEnvVar) != "" {
				return progrockadapter.New(), nil
			}
			return NewNoOp(), nil
		},
	})
}
