// Package config defines the format-agnostic description of an analysis run,
// along with the Loader interface for reading one from a source format.
//
// The `config.Model` is the single source of truth for the `app` package.
// Concrete loaders, such as the HCL one, live in separate packages.
package config
