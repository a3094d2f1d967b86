// Package record registers a dry-run engine that prints each session call
// instead of performing it.
package record

import (
	"context"

	"github.com/vk/dgrun/internal/registry"
	"github.com/vk/dgrun/internal/session"
)

// Name is the engine name used in DGRUN_ENGINE.
const Name = "record"

// Module implements the registry.Module interface for this package.
type Module struct{}

// NewEngine is the factory for the record engine.
func NewEngine(ctx context.Context, env registry.Env) (session.Engine, error) {
	rec := session.NewRecorder()
	rec.Out = env.Out
	return rec, nil
}

// Register registers the engine with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterEngine(Name, NewEngine)
}
