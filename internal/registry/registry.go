package registry

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/vk/dgrun/internal/ctxlog"
	"github.com/vk/dgrun/internal/searchpath"
	"github.com/vk/dgrun/internal/session"
)

// Module is the interface that all engine modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Env is what a factory may use to build its engine.
type Env struct {
	// Python is the interpreter requested by the operator; may be empty.
	Python string
	// SearchPath is the run's plugin search path.
	SearchPath *searchpath.SearchPath
	// Out receives engine console output.
	Out io.Writer
}

// EngineFactory builds an engine for one run.
type EngineFactory func(ctx context.Context, env Env) (session.Engine, error)

// Registry maps engine names to factories for a single application instance.
type Registry struct {
	engines map[string]EngineFactory
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{engines: make(map[string]EngineFactory)}
}

// RegisterEngine adds a named factory. Registering a name twice is a
// programming error and panics.
func (r *Registry) RegisterEngine(name string, f EngineFactory) {
	if name == "" || f == nil {
		panic("registry: engine name and factory are required")
	}
	if _, ok := r.engines[name]; ok {
		panic(fmt.Sprintf("registry: engine %q registered twice", name))
	}
	r.engines[name] = f
}

// Has reports whether an engine is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.engines[name]
	return ok
}

// Names returns the registered engine names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewEngine builds the named engine.
func (r *Registry) NewEngine(ctx context.Context, name string, env Env) (session.Engine, error) {
	f, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q (available: %v)", name, r.Names())
	}
	ctxlog.FromContext(ctx).Debug("Building engine.", "engine", name)
	return f(ctx, env)
}
