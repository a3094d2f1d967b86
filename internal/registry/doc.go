// Package registry holds the analysis engines compiled into the dgrun
// binary. Each engine lives in a module under modules/ that registers a
// named factory; the application picks one by name at startup.
package registry
