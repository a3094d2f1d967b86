package config

import (
	"errors"
	"fmt"

	"github.com/vk/dgrun/internal/params"
	"github.com/vk/dgrun/internal/probe"
	"github.com/vk/dgrun/internal/searchpath"
)

// Model is the unified, format-agnostic representation of one analysis run.
type Model struct {
	// Source names where the model came from. It is quoted to the operator
	// when the analysis package cannot be found.
	Source string
	// SearchPath lists directories the engine searches for plugins,
	// including PackagePath when set.
	SearchPath *searchpath.SearchPath
	// PackagePath points at an unpacked druggability package.
	PackagePath string
	Session     *Session
}

// Session is the analysis session to construct and drive.
type Session struct {
	Name    string
	Workdir string
	// Parameters holds one group per set_parameters call, in declaration order.
	Parameters []params.Group
	Probes     *probe.Table
	// EvaluateLigand is an optional ligand structure evaluated after the
	// analysis has been persisted.
	EvaluateLigand string
}

// Validate checks the model is complete enough to drive a session.
func (m *Model) Validate() error {
	if m.Session == nil {
		return errors.New("no session defined")
	}
	s := m.Session
	if s.Name == "" {
		return errors.New("session name must not be empty")
	}
	if s.Workdir == "" {
		return fmt.Errorf("session %q: workdir must not be empty", s.Name)
	}
	if s.Probes == nil || s.Probes.Len() == 0 {
		return fmt.Errorf("session %q: at least one probe is required", s.Name)
	}
	for i, g := range s.Parameters {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("session %q: parameters #%d: %w", s.Name, i+1, err)
		}
	}
	return nil
}
