package ports

import "github.com/esmd-dev/esmd/internal/core/domain"

// ConfigLoader loads and resolves the server configuration.
type ConfigLoader interface {
	// Load reads the configuration from the given working directory.
	Load(cwd string) (*domain.Config, error)
}
