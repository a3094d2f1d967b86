// Package probe defines the ordered table of probe species and the
// precomputed interaction grid registered for each of them.
package probe

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDuplicateLabel is returned when a table names the same probe twice.
var ErrDuplicateLabel = errors.New("duplicate probe label")

// Probe pairs a probe species label (e.g. "IPRO") with the path of its grid
// file.
type Probe struct {
	Label    string
	GridFile string
}

func (p Probe) String() string {
	return fmt.Sprintf("%s=%s", p.Label, p.GridFile)
}

// Table is an ordered list of probes. Registration order is the order in
// which probes were declared.
type Table struct {
	probes []Probe
}

// NewTable builds a table from probes in the given order. Labels and grid
// paths must be non-empty and labels must be unique.
func NewTable(probes ...Probe) (*Table, error) {
	seen := make(map[string]struct{}, len(probes))
	for i, p := range probes {
		if p.Label == "" {
			return nil, fmt.Errorf("probe #%d: label must not be empty", i+1)
		}
		if p.GridFile == "" {
			return nil, fmt.Errorf("probe %q: grid file must not be empty", p.Label)
		}
		if _, ok := seen[p.Label]; ok {
			return nil, fmt.Errorf("probe %q: %w", p.Label, ErrDuplicateLabel)
		}
		seen[p.Label] = struct{}{}
	}
	return &Table{probes: slices.Clone(probes)}, nil
}

// All returns a copy of the probes in declaration order.
func (t *Table) All() []Probe {
	return slices.Clone(t.probes)
}

// Labels returns the probe labels in declaration order.
func (t *Table) Labels() []string {
	labels := make([]string, len(t.probes))
	for i, p := range t.probes {
		labels[i] = p.Label
	}
	return labels
}

// Len returns the number of probes in the table.
func (t *Table) Len() int {
	return len(t.probes)
}
