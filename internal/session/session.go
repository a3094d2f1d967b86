// Package session defines the contract between dgrun and an external
// druggability analysis engine.
//
// An Engine is located first and only then asked for a Session. A Session
// accumulates parameters and probes through ordered calls, runs the
// analysis, persists its result and can evaluate a ligand against it. All
// computation and all file I/O belong to the engine.
package session

import (
	"context"
	"errors"

	"github.com/vk/dgrun/internal/params"
	"github.com/vk/dgrun/internal/probe"
)

// ErrPackageNotFound is returned by Engine.Locate when the analysis package
// cannot be imported.
var ErrPackageNotFound = errors.New("druggability package was not found")

// Options are the constructor arguments of an analysis session.
type Options struct {
	// Name identifies the run; the engine uses it as a file prefix.
	Name string
	// Workdir is where the engine writes its outputs.
	Workdir string
	// Verbose is handed to the engine unchanged.
	Verbose string
}

// Engine locates an analysis package and creates sessions on it.
type Engine interface {
	// Locate checks that the analysis package can be loaded. It must not
	// touch the run's working directory or grid files.
	Locate(ctx context.Context) error
	// NewSession constructs one analysis session.
	NewSession(ctx context.Context, opts Options) (Session, error)
}

// Session is a stateful analysis run owned by the engine.
type Session interface {
	// SetParameters records one group of named parameters.
	SetParameters(ctx context.Context, group params.Group) error
	// AddProbe registers a probe species and its grid file. Registration
	// order is preserved by the engine.
	AddProbe(ctx context.Context, p probe.Probe) error
	// PerformAnalysis runs the analysis over the registered probes.
	PerformAnalysis(ctx context.Context) error
	// Pickle persists the session and its result.
	Pickle(ctx context.Context) error
	// EvaluateLigand scores a ligand structure against a completed analysis.
	// The ligand must already be superimposed onto the engine's protein
	// reference structure.
	EvaluateLigand(ctx context.Context, path string) (string, error)
	// Close releases the session.
	Close() error
}
