// Package plugins implements the hook-chain runner behind
// ports.PluginContainer, plus the built-in plugins a bare server needs.
package plugins

import (
	"context"

	"github.com/esmd-dev/esmd/internal/core/domain"
	"github.com/esmd-dev/esmd/internal/core/ports"
)

// Plugin is one member of the hook chain. All hooks are optional; a plugin
// implements the narrow interfaces below for the stages it participates in.
type Plugin interface {
	Name() string
}

// Resolver resolves a url or specifier to a module id.
type Resolver interface {
	ResolveID(ctx context.Context, url, importer string, opts ports.ResolveOptions) (*ports.ResolvedID, error)
}

// Loader produces code for a resolved id.
type Loader interface {
	Load(ctx context.Context, id string, opts ports.LoadOptions) (*domain.LoadResult, error)
}

// Transformer rewrites loaded code.
type Transformer interface {
	Transform(ctx context.Context, code, id string, opts ports.TransformOptions) (*domain.HookTransformResult, error)
}

var _ ports.PluginContainer = (*Container)(nil)

// Container runs the hook chains over an ordered plugin list. Resolve and
// load are first-result-wins; transform threads the code through every
// transformer. Hook errors propagate unmodified.
type Container struct {
	plugins []Plugin
	log     ports.Logger
}

// NewContainer creates a container over the given plugins, in order.
func NewContainer(log ports.Logger, plugins ...Plugin) *Container {
	return &Container{plugins: plugins, log: log}
}

// ResolveID runs the resolve chain; the first non-nil result wins.
func (c *Container) ResolveID(ctx context.Context, url, importer string, opts ports.ResolveOptions) (*ports.ResolvedID, error) {
	for _, plugin := range c.plugins {
		resolver, ok := plugin.(Resolver)
		if !ok {
			continue
		}
		resolved, err := resolver.ResolveID(ctx, url, importer, opts)
		if err != nil {
			return nil, err
		}
		if resolved != nil && resolved.ID != "" {
			c.log.Debug("resolved", "plugin", plugin.Name(), "url", url, "id", resolved.ID)
			return resolved, nil
		}
	}
	return nil, nil
}

// Load runs the load chain; the first non-nil result wins.
func (c *Container) Load(ctx context.Context, id string, opts ports.LoadOptions) (*domain.LoadResult, error) {
	for _, plugin := range c.plugins {
		loader, ok := plugin.(Loader)
		if !ok {
			continue
		}
		result, err := loader.Load(ctx, id, opts)
		if err != nil {
			return nil, err
		}
		if result != nil {
			c.log.Debug("loaded", "plugin", plugin.Name(), "id", id)
			return result, nil
		}
	}
	return nil, nil
}

// Transform threads code through every transformer. A declining hook (nil
// result or empty code) leaves the code unchanged; each adopted result's map
// becomes the next hook's input map.
func (c *Container) Transform(ctx context.Context, code, id string, opts ports.TransformOptions) (*domain.HookTransformResult, error) {
	current := domain.HookTransformResult{Code: code, Map: opts.InMap}
	adopted := false

	for _, plugin := range c.plugins {
		transformer, ok := plugin.(Transformer)
		if !ok {
			continue
		}
		result, err := transformer.Transform(ctx, current.Code, id, ports.TransformOptions{InMap: current.Map, SSR: opts.SSR})
		if err != nil {
			return nil, err
		}
		if result == nil || result.Code == "" {
			continue
		}
		current.Code = result.Code
		if result.Map != nil {
			current.Map = result.Map
		}
		adopted = true
	}

	if !adopted {
		return nil, nil
	}
	return &current, nil
}
