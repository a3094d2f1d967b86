// Package pydia registers the engine that drives the druggability Python
// package.
package pydia

import (
	"context"

	"github.com/vk/dgrun/internal/pydia"
	"github.com/vk/dgrun/internal/registry"
	"github.com/vk/dgrun/internal/session"
)

// Name is the engine name used in DGRUN_ENGINE.
const Name = "pydia"

// Module implements the registry.Module interface for this package.
type Module struct{}

// NewEngine is the factory for the pydia engine.
func NewEngine(ctx context.Context, env registry.Env) (session.Engine, error) {
	return pydia.New(env.Python, env.SearchPath, env.Out), nil
}

// Register registers the engine with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEngine(Name, NewEngine)
}
