// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/esmd-dev/esmd/internal/adapters/config"
	_ "github.com/esmd-dev/esmd/internal/adapters/graph"
	_ "github.com/esmd-dev/esmd/internal/adapters/logger"
	_ "github.com/esmd-dev/esmd/internal/adapters/optimizer"
	_ "github.com/esmd-dev/esmd/internal/adapters/plugins"
	_ "github.com/esmd-dev/esmd/internal/adapters/telemetry"
	_ "github.com/esmd-dev/esmd/internal/adapters/watcher"
	// Register app, engine, and server nodes.
	_ "github.com/esmd-dev/esmd/internal/app"
	_ "github.com/esmd-dev/esmd/internal/engine/pipeline"
	_ "github.com/esmd-dev/esmd/internal/engine/scanner"
	_ "github.com/esmd-dev/esmd/internal/engine/warmup"
	_ "github.com/esmd-dev/esmd/internal/server"
)
