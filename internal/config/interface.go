package config

import "context"

// Loader is the interface for a format-specific run description loader.
type Loader interface {
	// Load reads the run description found at the given paths and
	// translates it into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
